package model

import "time"

// Zone is a delegable sub-area of an exhibition.  A zone owns its
// physical tables and its time slots; deleting a zone removes both in
// the same transaction.  ModerationRequired decides whether sessions
// submitted in this zone wait for an organizer's approval or are
// validated immediately.  TablePrefix, when set, seeds the label
// prefix used by the batch table allocator (e.g. "RPG" -> RPG1, RPG2).
//
// Fields:
//  ID                 – primary key identifier.
//  ExhibitionID       – exhibition this zone belongs to.
//  Name               – display name of the zone.
//  ModerationRequired – whether submitted sessions need approval.
//  TablePrefix        – optional default prefix for table labels.
//  CreatedAt          – timestamp of creation.
//  UpdatedAt          – timestamp of last update.
type Zone struct {
	ID                 uint64    // zones.id
	ExhibitionID       uint64    // zones.exhibition_id
	Name               string    // zones.name
	ModerationRequired bool      // zones.moderation_required
	TablePrefix        *string   // zones.table_prefix (nullable)
	CreatedAt          time.Time // zones.created_at
	UpdatedAt          time.Time // zones.updated_at
}
