package model

import "time"

// Exhibition represents one edition of the convention.  Zones, time
// slots and game sessions all hang off an exhibition.  The grace
// period controls how long after a session's scheduled start the GM
// may still check in before the auto-cancel sweep picks it up.
//
// Fields:
//  ID                 – primary key identifier.
//  Name               – display name of the edition.
//  StartsOn           – first day of the exhibition.
//  EndsOn             – last day of the exhibition.
//  GracePeriodMinutes – GM check-in grace period in minutes.
//  CreatedBy          – organizer user who created the exhibition.
//  CreatedAt          – timestamp of creation.
//  UpdatedAt          – timestamp of last update.
type Exhibition struct {
	ID                 uint64    // exhibitions.id
	Name               string    // exhibitions.name
	StartsOn           time.Time // exhibitions.starts_on
	EndsOn             time.Time // exhibitions.ends_on
	GracePeriodMinutes uint32    // exhibitions.grace_period_minutes
	CreatedBy          uint64    // exhibitions.created_by
	CreatedAt          time.Time // exhibitions.created_at
	UpdatedAt          time.Time // exhibitions.updated_at
}
