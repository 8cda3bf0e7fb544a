package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
	"github.com/lolautruche/StructuraLudis-sub000/internal/scheduling"
)

// dbtx is the subset of *sql.DB and *sql.Tx the query methods need,
// so the same code serves autocommit reads and transactional writes.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements scheduling.Store over MySQL.  Row locks
// (SELECT ... FOR UPDATE) inside InTx serialize the contention
// points: seat counting on a session, collision checks on a table
// and label scans on a zone.
type Store struct {
	db *sql.DB
	queries
}

// NewStore returns a Store bound to the given database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, queries: queries{db: db}}
}

// DB exposes the underlying handle for callers that need their own
// transactions (e.g. the auth handlers).
func (s *Store) DB() *sql.DB { return s.db }

// InTx runs fn inside a transaction, committing on nil and rolling
// back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(tx scheduling.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	q := queries{db: tx}
	if err := fn(&q); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// queries carries every scheduling.Tx method.  With db = *sql.DB the
// methods run autocommit; with db = *sql.Tx they join the caller's
// transaction and FOR UPDATE locks hold until commit.
type queries struct {
	db dbtx
}

const exhibitionCols = `id, name, starts_on, ends_on, grace_period_minutes, created_by, created_at, updated_at`

func scanExhibition(row *sql.Row) (*model.Exhibition, error) {
	var e model.Exhibition
	err := row.Scan(&e.ID, &e.Name, &e.StartsOn, &e.EndsOn, &e.GracePeriodMinutes, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (q *queries) Exhibition(ctx context.Context, id uint64) (*model.Exhibition, error) {
	return scanExhibition(q.db.QueryRowContext(ctx,
		`SELECT `+exhibitionCols+` FROM exhibitions WHERE id = ?`, id))
}

const zoneCols = `id, exhibition_id, name, moderation_required, table_prefix, created_at, updated_at`

func scanZone(row *sql.Row) (*model.Zone, error) {
	var z model.Zone
	var prefix sql.NullString
	err := row.Scan(&z.ID, &z.ExhibitionID, &z.Name, &z.ModerationRequired, &prefix, &z.CreatedAt, &z.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if prefix.Valid {
		p := prefix.String
		z.TablePrefix = &p
	}
	return &z, nil
}

func (q *queries) Zone(ctx context.Context, id uint64) (*model.Zone, error) {
	return scanZone(q.db.QueryRowContext(ctx,
		`SELECT `+zoneCols+` FROM zones WHERE id = ?`, id))
}

func (q *queries) ZoneForUpdate(ctx context.Context, id uint64) (*model.Zone, error) {
	return scanZone(q.db.QueryRowContext(ctx,
		`SELECT `+zoneCols+` FROM zones WHERE id = ? FOR UPDATE`, id))
}

const slotCols = `id, zone_id, starts_at, ends_at, max_duration_minutes, buffer_time_minutes, created_at, updated_at`

func (q *queries) TimeSlot(ctx context.Context, id uint64) (*model.TimeSlot, error) {
	var s model.TimeSlot
	err := q.db.QueryRowContext(ctx,
		`SELECT `+slotCols+` FROM time_slots WHERE id = ?`, id).
		Scan(&s.ID, &s.ZoneID, &s.StartsAt, &s.EndsAt, &s.MaxDurationMinutes, &s.BufferTimeMinutes, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (q *queries) Game(ctx context.Context, id uint64) (*model.Game, error) {
	var g model.Game
	err := q.db.QueryRowContext(ctx,
		`SELECT id, title, complexity, min_players, max_players, created_at, updated_at FROM games WHERE id = ?`, id).
		Scan(&g.ID, &g.Title, &g.Complexity, &g.MinPlayers, &g.MaxPlayers, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

const tableCols = `id, zone_id, label, capacity, status, created_at, updated_at`

func scanTable(row *sql.Row) (*model.PhysicalTable, error) {
	var t model.PhysicalTable
	err := row.Scan(&t.ID, &t.ZoneID, &t.Label, &t.Capacity, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (q *queries) Table(ctx context.Context, id uint64) (*model.PhysicalTable, error) {
	return scanTable(q.db.QueryRowContext(ctx,
		`SELECT `+tableCols+` FROM physical_tables WHERE id = ?`, id))
}

func (q *queries) TableForUpdate(ctx context.Context, id uint64) (*model.PhysicalTable, error) {
	return scanTable(q.db.QueryRowContext(ctx,
		`SELECT `+tableCols+` FROM physical_tables WHERE id = ? FOR UPDATE`, id))
}

func (q *queries) TableLabels(ctx context.Context, zoneID uint64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT label FROM physical_tables WHERE zone_id = ?`, zoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var labels []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

// CreateTables inserts the batch in a single statement, mirroring
// the all-or-nothing semantics of batch numbering.
func (q *queries) CreateTables(ctx context.Context, tables []*model.PhysicalTable) error {
	if len(tables) == 0 {
		return nil
	}
	query := `INSERT INTO physical_tables (zone_id, label, capacity, status) VALUES `
	args := make([]any, 0, len(tables)*4)
	for i, t := range tables {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, t.ZoneID, t.Label, t.Capacity, t.Status)
	}
	res, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	// MySQL assigns consecutive IDs for a multi-row insert.
	first, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for i, t := range tables {
		t.ID = uint64(first) + uint64(i)
	}
	return nil
}

const sessionCols = `id, exhibition_id, time_slot_id, game_id, physical_table_id, created_by, title, description,
	scheduled_start, scheduled_end, max_players, status, rejection_reason, gm_checked_in_at, actual_start,
	created_at, updated_at`

type rowScanner interface{ Scan(dest ...any) error }

func scanSession(row rowScanner) (*model.GameSession, error) {
	var s model.GameSession
	var tableID sql.NullInt64
	var reason sql.NullString
	var gmAt, actualStart sql.NullTime
	err := row.Scan(&s.ID, &s.ExhibitionID, &s.TimeSlotID, &s.GameID, &tableID, &s.CreatedBy, &s.Title, &s.Description,
		&s.ScheduledStart, &s.ScheduledEnd, &s.MaxPlayers, &s.Status, &reason, &gmAt, &actualStart,
		&s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if tableID.Valid {
		id := uint64(tableID.Int64)
		s.PhysicalTableID = &id
	}
	if reason.Valid {
		r := reason.String
		s.RejectionReason = &r
	}
	if gmAt.Valid {
		t := gmAt.Time
		s.GMCheckedInAt = &t
	}
	if actualStart.Valid {
		t := actualStart.Time
		s.ActualStart = &t
	}
	return &s, nil
}

func (q *queries) Session(ctx context.Context, id uint64) (*model.GameSession, error) {
	return scanSession(q.db.QueryRowContext(ctx,
		`SELECT `+sessionCols+` FROM game_sessions WHERE id = ?`, id))
}

func (q *queries) SessionForUpdate(ctx context.Context, id uint64) (*model.GameSession, error) {
	return scanSession(q.db.QueryRowContext(ctx,
		`SELECT `+sessionCols+` FROM game_sessions WHERE id = ? FOR UPDATE`, id))
}

func (q *queries) CreateSession(ctx context.Context, s *model.GameSession) error {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO game_sessions
		 (exhibition_id, time_slot_id, game_id, created_by, title, description, scheduled_start, scheduled_end, max_players, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ExhibitionID, s.TimeSlotID, s.GameID, s.CreatedBy, s.Title, s.Description,
		s.ScheduledStart.UTC(), s.ScheduledEnd.UTC(), s.MaxPlayers, s.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

func (q *queries) UpdateSession(ctx context.Context, s *model.GameSession) error {
	var tableID any
	if s.PhysicalTableID != nil {
		tableID = *s.PhysicalTableID
	}
	var reason any
	if s.RejectionReason != nil {
		reason = *s.RejectionReason
	}
	var gmAt, actualStart any
	if s.GMCheckedInAt != nil {
		gmAt = s.GMCheckedInAt.UTC()
	}
	if s.ActualStart != nil {
		actualStart = s.ActualStart.UTC()
	}
	_, err := q.db.ExecContext(ctx,
		`UPDATE game_sessions
		 SET time_slot_id = ?, game_id = ?, physical_table_id = ?, title = ?, description = ?,
		     scheduled_start = ?, scheduled_end = ?, max_players = ?, status = ?,
		     rejection_reason = ?, gm_checked_in_at = ?, actual_start = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		s.TimeSlotID, s.GameID, tableID, s.Title, s.Description,
		s.ScheduledStart.UTC(), s.ScheduledEnd.UTC(), s.MaxPlayers, s.Status,
		reason, gmAt, actualStart, s.ID)
	return err
}

func (q *queries) DeleteSession(ctx context.Context, id uint64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM game_sessions WHERE id = ?`, id)
	return err
}

func (q *queries) SessionsOnTable(ctx context.Context, tableID, excludeID uint64) ([]model.GameSession, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+sessionCols+` FROM game_sessions
		 WHERE physical_table_id = ? AND id <> ? AND status IN (?, ?)`,
		tableID, excludeID, model.SessionStatusValidated, model.SessionStatusInProgress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

func (q *queries) SweepableSessions(ctx context.Context, exhibitionID uint64, cutoff time.Time) ([]model.GameSession, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+sessionCols+` FROM game_sessions
		 WHERE exhibition_id = ? AND status = ? AND scheduled_start <= ? AND gm_checked_in_at IS NULL
		 FOR UPDATE`,
		exhibitionID, model.SessionStatusValidated, cutoff.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

func collectSessions(rows *sql.Rows) ([]model.GameSession, error) {
	out := []model.GameSession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (q *queries) CountActiveSessionsInZone(ctx context.Context, zoneID uint64) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM game_sessions gs
		 JOIN time_slots ts ON ts.id = gs.time_slot_id
		 WHERE ts.zone_id = ? AND gs.status <> ?`,
		zoneID, model.SessionStatusCancelled).Scan(&n)
	return n, err
}

const bookingCols = `id, game_session_id, user_id, role, status, registered_at, checked_in_at`

func scanBooking(row rowScanner) (*model.Booking, error) {
	var b model.Booking
	var checkedIn sql.NullTime
	err := row.Scan(&b.ID, &b.GameSessionID, &b.UserID, &b.Role, &b.Status, &b.RegisteredAt, &checkedIn)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if checkedIn.Valid {
		t := checkedIn.Time
		b.CheckedInAt = &t
	}
	return &b, nil
}

func (q *queries) Booking(ctx context.Context, id uint64) (*model.Booking, error) {
	return scanBooking(q.db.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE id = ?`, id))
}

func (q *queries) ActiveBookingByUser(ctx context.Context, sessionID, userID uint64) (*model.Booking, error) {
	return scanBooking(q.db.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings
		 WHERE game_session_id = ? AND user_id = ? AND status <> ? LIMIT 1`,
		sessionID, userID, model.BookingStatusCancelled))
}

func (q *queries) CountSeated(ctx context.Context, sessionID uint64) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE game_session_id = ? AND status IN (?, ?)`,
		sessionID, model.BookingStatusConfirmed, model.BookingStatusCheckedIn).Scan(&n)
	return n, err
}

func (q *queries) CreateBooking(ctx context.Context, b *model.Booking) error {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO bookings (game_session_id, user_id, role, status, registered_at) VALUES (?, ?, ?, ?, ?)`,
		b.GameSessionID, b.UserID, b.Role, b.Status, b.RegisteredAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

func (q *queries) UpdateBooking(ctx context.Context, b *model.Booking) error {
	var checkedIn any
	if b.CheckedInAt != nil {
		checkedIn = b.CheckedInAt.UTC()
	}
	_, err := q.db.ExecContext(ctx,
		`UPDATE bookings SET role = ?, status = ?, checked_in_at = ? WHERE id = ?`,
		b.Role, b.Status, checkedIn, b.ID)
	return err
}

// OldestWaitlisted orders by registered_at then id so FIFO promotion
// is deterministic even for bookings registered in the same second.
func (q *queries) OldestWaitlisted(ctx context.Context, sessionID uint64) (*model.Booking, error) {
	return scanBooking(q.db.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings
		 WHERE game_session_id = ? AND status = ?
		 ORDER BY registered_at, id LIMIT 1 FOR UPDATE`,
		sessionID, model.BookingStatusWaitingList))
}

func (q *queries) BookingsBySession(ctx context.Context, sessionID uint64) ([]model.Booking, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE game_session_id = ? ORDER BY registered_at, id`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (q *queries) DeleteZoneTables(ctx context.Context, zoneID uint64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM physical_tables WHERE zone_id = ?`, zoneID)
	return err
}

func (q *queries) DeleteZoneTimeSlots(ctx context.Context, zoneID uint64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM time_slots WHERE zone_id = ?`, zoneID)
	return err
}

func (q *queries) DeleteZone(ctx context.Context, zoneID uint64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM zones WHERE id = ?`, zoneID)
	return err
}
