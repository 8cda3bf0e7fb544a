package scheduling

import (
	"context"
	"time"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
)

// Tx is the set of store operations the scheduling core needs.
// Implementations back it with one SQL transaction so that a
// count-then-insert or check-then-write sequence is atomic with
// respect to concurrent callers.  Lookup methods return (nil, nil)
// when the entity does not exist; the core turns that into a
// NotFoundError.
type Tx interface {
	Exhibition(ctx context.Context, id uint64) (*model.Exhibition, error)
	Zone(ctx context.Context, id uint64) (*model.Zone, error)
	// ZoneForUpdate loads a zone holding a row lock for the rest of
	// the transaction.  Batch table numbering serializes on it.
	ZoneForUpdate(ctx context.Context, id uint64) (*model.Zone, error)
	TimeSlot(ctx context.Context, id uint64) (*model.TimeSlot, error)
	Game(ctx context.Context, id uint64) (*model.Game, error)

	Table(ctx context.Context, id uint64) (*model.PhysicalTable, error)
	// TableForUpdate loads a table holding a row lock; assignment
	// serializes the collision check and the write on it.
	TableForUpdate(ctx context.Context, id uint64) (*model.PhysicalTable, error)
	TableLabels(ctx context.Context, zoneID uint64) ([]string, error)
	CreateTables(ctx context.Context, tables []*model.PhysicalTable) error

	Session(ctx context.Context, id uint64) (*model.GameSession, error)
	// SessionForUpdate loads a session holding a row lock; booking
	// serializes the capacity count and the insert on it.
	SessionForUpdate(ctx context.Context, id uint64) (*model.GameSession, error)
	CreateSession(ctx context.Context, s *model.GameSession) error
	UpdateSession(ctx context.Context, s *model.GameSession) error
	DeleteSession(ctx context.Context, id uint64) error
	// SessionsOnTable returns the VALIDATED and IN_PROGRESS sessions
	// assigned to a table, excluding excludeID when non-zero.
	SessionsOnTable(ctx context.Context, tableID, excludeID uint64) ([]model.GameSession, error)
	// SweepableSessions returns VALIDATED sessions of an exhibition
	// whose scheduled start is at or before cutoff and whose GM has
	// not checked in.
	SweepableSessions(ctx context.Context, exhibitionID uint64, cutoff time.Time) ([]model.GameSession, error)
	CountActiveSessionsInZone(ctx context.Context, zoneID uint64) (int, error)

	Booking(ctx context.Context, id uint64) (*model.Booking, error)
	// ActiveBookingByUser returns the user's non-CANCELLED booking
	// on a session, or nil when there is none.
	ActiveBookingByUser(ctx context.Context, sessionID, userID uint64) (*model.Booking, error)
	// CountSeated counts CONFIRMED and CHECKED_IN bookings.
	CountSeated(ctx context.Context, sessionID uint64) (int, error)
	CreateBooking(ctx context.Context, b *model.Booking) error
	UpdateBooking(ctx context.Context, b *model.Booking) error
	// OldestWaitlisted returns the WAITING_LIST booking with the
	// earliest registered_at, or nil when the waitlist is empty.
	OldestWaitlisted(ctx context.Context, sessionID uint64) (*model.Booking, error)
	BookingsBySession(ctx context.Context, sessionID uint64) ([]model.Booking, error)

	DeleteZoneTables(ctx context.Context, zoneID uint64) error
	DeleteZoneTimeSlots(ctx context.Context, zoneID uint64) error
	DeleteZone(ctx context.Context, zoneID uint64) error
}

// Store opens transactions over the persisted entities.  Autocommit
// reads go through the embedded Tx method set.
type Store interface {
	Tx
	// InTx runs fn inside a transaction, committing when fn returns
	// nil and rolling back otherwise.
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	UserID uint64
	Role   string
}

// PermissionChecker is the opaque collaborator deciding whether an
// actor may manage (moderate, assign tables, create tables in) an
// exhibition.
type PermissionChecker interface {
	CanManage(ctx context.Context, actor Actor, exhibitionID uint64) (bool, error)
}

// Config carries the scheduling defaults that used to be ambient
// settings: they are fixed at service construction, no process-wide
// mutable state.
type Config struct {
	GracePeriodMinutes uint32 // fallback when the exhibition sets none
	TablePrefix        string // fallback table label prefix
	BufferMinutes      uint32 // fallback when the time slot sets none
}
