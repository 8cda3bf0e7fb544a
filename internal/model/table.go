package model

import "time"

// Table status values.  The status column is informational only:
// whether a table is actually busy at a given moment is derived from
// the sessions assigned to it, never from this field.
const (
	TableStatusAvailable    = "AVAILABLE"
	TableStatusOccupied     = "OCCUPIED"
	TableStatusReserved     = "RESERVED"
	TableStatusOutOfService = "OUT_OF_SERVICE"
)

// PhysicalTable is a real table standing in a zone.  Label is unique
// within the zone and is normally produced by the batch allocator
// (prefix + number).
//
// Fields:
//  ID        – primary key identifier.
//  ZoneID    – zone the table stands in.
//  Label     – unique label within the zone (e.g. T12, RPG3).
//  Capacity  – number of seats at the table.
//  Status    – informational state flag.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type PhysicalTable struct {
	ID        uint64    // physical_tables.id
	ZoneID    uint64    // physical_tables.zone_id
	Label     string    // physical_tables.label
	Capacity  uint32    // physical_tables.capacity
	Status    string    // physical_tables.status
	CreatedAt time.Time // physical_tables.created_at
	UpdatedAt time.Time // physical_tables.updated_at
}
