package model

import "time"

// TimeSlot bounds when sessions may run inside a zone.  Sessions must
// be scheduled entirely within [StartsAt, EndsAt) and may not exceed
// MaxDurationMinutes.  BufferTimeMinutes is the minimum gap enforced
// between two sessions sharing a physical table in this slot.
//
// Fields:
//  ID                 – primary key identifier.
//  ZoneID             – zone this slot belongs to.
//  StartsAt           – when the slot opens.
//  EndsAt             – when the slot closes (must be after StartsAt).
//  MaxDurationMinutes – cap on a single session's duration.
//  BufferTimeMinutes  – minimum gap between sessions on one table.
//  CreatedAt          – timestamp of creation.
//  UpdatedAt          – timestamp of last update.
type TimeSlot struct {
	ID                 uint64    // time_slots.id
	ZoneID             uint64    // time_slots.zone_id
	StartsAt           time.Time // time_slots.starts_at
	EndsAt             time.Time // time_slots.ends_at
	MaxDurationMinutes uint32    // time_slots.max_duration_minutes
	BufferTimeMinutes  uint32    // time_slots.buffer_time_minutes
	CreatedAt          time.Time // time_slots.created_at
	UpdatedAt          time.Time // time_slots.updated_at
}
