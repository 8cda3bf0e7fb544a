package scheduling

import (
	"context"
	"sync"
	"time"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
)

// memStore is an in-memory Store used by the engine tests.  InTx
// serializes callers on a single mutex, which models the row-lock
// discipline of the SQL store closely enough for the invariants
// under test.
type memStore struct {
	mu          sync.Mutex
	nextID      uint64
	exhibitions map[uint64]*model.Exhibition
	zones       map[uint64]*model.Zone
	slots       map[uint64]*model.TimeSlot
	games       map[uint64]*model.Game
	tables      map[uint64]*model.PhysicalTable
	sessions    map[uint64]*model.GameSession
	bookings    map[uint64]*model.Booking
}

func newMemStore() *memStore {
	return &memStore{
		exhibitions: map[uint64]*model.Exhibition{},
		zones:       map[uint64]*model.Zone{},
		slots:       map[uint64]*model.TimeSlot{},
		games:       map[uint64]*model.Game{},
		tables:      map[uint64]*model.PhysicalTable{},
		sessions:    map[uint64]*model.GameSession{},
		bookings:    map[uint64]*model.Booking{},
	}
}

func (m *memStore) id() uint64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m)
}

func (m *memStore) Exhibition(ctx context.Context, id uint64) (*model.Exhibition, error) {
	if e, ok := m.exhibitions[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) Zone(ctx context.Context, id uint64) (*model.Zone, error) {
	if z, ok := m.zones[id]; ok {
		cp := *z
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) ZoneForUpdate(ctx context.Context, id uint64) (*model.Zone, error) {
	return m.Zone(ctx, id)
}

func (m *memStore) TimeSlot(ctx context.Context, id uint64) (*model.TimeSlot, error) {
	if s, ok := m.slots[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) Game(ctx context.Context, id uint64) (*model.Game, error) {
	if g, ok := m.games[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) Table(ctx context.Context, id uint64) (*model.PhysicalTable, error) {
	if t, ok := m.tables[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) TableForUpdate(ctx context.Context, id uint64) (*model.PhysicalTable, error) {
	return m.Table(ctx, id)
}

func (m *memStore) TableLabels(ctx context.Context, zoneID uint64) ([]string, error) {
	labels := []string{}
	for _, t := range m.tables {
		if t.ZoneID == zoneID {
			labels = append(labels, t.Label)
		}
	}
	return labels, nil
}

func (m *memStore) CreateTables(ctx context.Context, tables []*model.PhysicalTable) error {
	for _, t := range tables {
		t.ID = m.id()
		cp := *t
		m.tables[t.ID] = &cp
	}
	return nil
}

func (m *memStore) Session(ctx context.Context, id uint64) (*model.GameSession, error) {
	if s, ok := m.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) SessionForUpdate(ctx context.Context, id uint64) (*model.GameSession, error) {
	return m.Session(ctx, id)
}

func (m *memStore) CreateSession(ctx context.Context, s *model.GameSession) error {
	s.ID = m.id()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memStore) UpdateSession(ctx context.Context, s *model.GameSession) error {
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memStore) DeleteSession(ctx context.Context, id uint64) error {
	delete(m.sessions, id)
	return nil
}

func (m *memStore) SessionsOnTable(ctx context.Context, tableID, excludeID uint64) ([]model.GameSession, error) {
	out := []model.GameSession{}
	for _, s := range m.sessions {
		if s.ID == excludeID || s.PhysicalTableID == nil || *s.PhysicalTableID != tableID {
			continue
		}
		if s.Status == model.SessionStatusValidated || s.Status == model.SessionStatusInProgress {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memStore) SweepableSessions(ctx context.Context, exhibitionID uint64, cutoff time.Time) ([]model.GameSession, error) {
	out := []model.GameSession{}
	for _, s := range m.sessions {
		if s.ExhibitionID != exhibitionID || s.Status != model.SessionStatusValidated {
			continue
		}
		if s.GMCheckedInAt == nil && !s.ScheduledStart.After(cutoff) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memStore) CountActiveSessionsInZone(ctx context.Context, zoneID uint64) (int, error) {
	n := 0
	for _, s := range m.sessions {
		slot, ok := m.slots[s.TimeSlotID]
		if !ok || slot.ZoneID != zoneID {
			continue
		}
		if s.Status != model.SessionStatusCancelled {
			n++
		}
	}
	return n, nil
}

func (m *memStore) Booking(ctx context.Context, id uint64) (*model.Booking, error) {
	if b, ok := m.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) ActiveBookingByUser(ctx context.Context, sessionID, userID uint64) (*model.Booking, error) {
	for _, b := range m.bookings {
		if b.GameSessionID == sessionID && b.UserID == userID && b.Status != model.BookingStatusCancelled {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CountSeated(ctx context.Context, sessionID uint64) (int, error) {
	n := 0
	for _, b := range m.bookings {
		if b.GameSessionID != sessionID {
			continue
		}
		if b.Status == model.BookingStatusConfirmed || b.Status == model.BookingStatusCheckedIn {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	b.ID = m.id()
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memStore) UpdateBooking(ctx context.Context, b *model.Booking) error {
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memStore) OldestWaitlisted(ctx context.Context, sessionID uint64) (*model.Booking, error) {
	var oldest *model.Booking
	for _, b := range m.bookings {
		if b.GameSessionID != sessionID || b.Status != model.BookingStatusWaitingList {
			continue
		}
		if oldest == nil || b.RegisteredAt.Before(oldest.RegisteredAt) {
			oldest = b
		}
	}
	if oldest == nil {
		return nil, nil
	}
	cp := *oldest
	return &cp, nil
}

func (m *memStore) BookingsBySession(ctx context.Context, sessionID uint64) ([]model.Booking, error) {
	out := []model.Booking{}
	for _, b := range m.bookings {
		if b.GameSessionID == sessionID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memStore) DeleteZoneTables(ctx context.Context, zoneID uint64) error {
	for id, t := range m.tables {
		if t.ZoneID == zoneID {
			delete(m.tables, id)
		}
	}
	return nil
}

func (m *memStore) DeleteZoneTimeSlots(ctx context.Context, zoneID uint64) error {
	for id, s := range m.slots {
		if s.ZoneID == zoneID {
			delete(m.slots, id)
		}
	}
	return nil
}

func (m *memStore) DeleteZone(ctx context.Context, zoneID uint64) error {
	delete(m.zones, zoneID)
	return nil
}

// organizerPerms grants management rights to actors with the
// ORGANIZER role, mirroring the production role check.
type organizerPerms struct{}

func (organizerPerms) CanManage(ctx context.Context, actor Actor, exhibitionID uint64) (bool, error) {
	return actor.Role == "ORGANIZER", nil
}

// fixedClock returns a settable instant.
type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

// recordingNotifier captures emitted events for assertions.
type recordingNotifier struct {
	kinds    []string
	payloads []any
}

func (n *recordingNotifier) Emit(ctx context.Context, kind string, payload any) {
	n.kinds = append(n.kinds, kind)
	n.payloads = append(n.payloads, payload)
}
