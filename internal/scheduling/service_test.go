package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
)

type fixture struct {
	svc   *Service
	store *memStore
	clock *fixedClock
	notif *recordingNotifier

	exhibitionID uint64
	zoneID       uint64
	openZoneID   uint64 // moderation_required = false
	slotID       uint64
	openSlotID   uint64
	gameID       uint64
}

var (
	gm       = Actor{UserID: 1, Role: "GAME_MASTER"}
	organizer = Actor{UserID: 9, Role: "ORGANIZER"}
	player2  = Actor{UserID: 2, Role: "PLAYER"}
	player3  = Actor{UserID: 3, Role: "PLAYER"}
	player4  = Actor{UserID: 4, Role: "PLAYER"}
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	clock := &fixedClock{now: at("08:00")}
	notif := &recordingNotifier{}
	svc := NewService(store, organizerPerms{}, notif, clock, Config{
		GracePeriodMinutes: 30,
		TablePrefix:        "T",
		BufferMinutes:      10,
	})

	f := &fixture{svc: svc, store: store, clock: clock, notif: notif}
	f.exhibitionID = store.id()
	store.exhibitions[f.exhibitionID] = &model.Exhibition{
		ID: f.exhibitionID, Name: "Ludinord 2026",
		GracePeriodMinutes: 30, CreatedBy: organizer.UserID,
	}
	prefix := "T"
	f.zoneID = store.id()
	store.zones[f.zoneID] = &model.Zone{
		ID: f.zoneID, ExhibitionID: f.exhibitionID, Name: "RPG hall",
		ModerationRequired: true, TablePrefix: &prefix,
	}
	f.openZoneID = store.id()
	store.zones[f.openZoneID] = &model.Zone{
		ID: f.openZoneID, ExhibitionID: f.exhibitionID, Name: "Open play",
		ModerationRequired: false,
	}
	f.slotID = store.id()
	store.slots[f.slotID] = &model.TimeSlot{
		ID: f.slotID, ZoneID: f.zoneID,
		StartsAt: at("09:00"), EndsAt: at("18:00"),
		MaxDurationMinutes: 240, BufferTimeMinutes: 15,
	}
	f.openSlotID = store.id()
	store.slots[f.openSlotID] = &model.TimeSlot{
		ID: f.openSlotID, ZoneID: f.openZoneID,
		StartsAt: at("09:00"), EndsAt: at("18:00"),
		MaxDurationMinutes: 240,
	}
	f.gameID = store.id()
	store.games[f.gameID] = &model.Game{
		ID: f.gameID, Title: "Shadow Citadel", Complexity: "MEDIUM",
		MinPlayers: 2, MaxPlayers: 6,
	}
	return f
}

func (f *fixture) spec(start, end string, maxPlayers uint32) SessionSpec {
	return SessionSpec{
		ExhibitionID:   f.exhibitionID,
		TimeSlotID:     f.slotID,
		GameID:         f.gameID,
		ScheduledStart: at(start).Unix(),
		ScheduledEnd:   at(end).Unix(),
		MaxPlayers:     maxPlayers,
	}
}

// validated creates, submits and approves a session in one go.
func (f *fixture) validated(t *testing.T, start, end string, maxPlayers uint32) *model.GameSession {
	t.Helper()
	ctx := context.Background()
	session, err := f.svc.CreateSession(ctx, f.spec(start, end, maxPlayers), gm)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := f.svc.SubmitForModeration(ctx, session.ID, gm); err != nil {
		t.Fatalf("SubmitForModeration: %v", err)
	}
	session, err = f.svc.ModerateSession(ctx, session.ID, ModerationApprove, "", organizer)
	if err != nil {
		t.Fatalf("ModerateSession(approve): %v", err)
	}
	return session
}

func TestCreateSessionValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.svc.CreateSession(ctx, f.spec("10:00", "13:00", 5), gm)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.Status != model.SessionStatusDraft {
		t.Errorf("status = %s, want DRAFT", session.Status)
	}
	if session.Title != "Shadow Citadel" {
		t.Errorf("title = %q, want game title fallback", session.Title)
	}

	// Scheduled start before the slot opens.
	_, err = f.svc.CreateSession(ctx, f.spec("08:30", "10:00", 5), gm)
	var v *ValidationError
	if !errors.As(err, &v) {
		t.Fatalf("CreateSession(early start) error = %v, want ValidationError", err)
	}

	// Unknown game.
	bad := f.spec("10:00", "13:00", 5)
	bad.GameID = 9999
	_, err = f.svc.CreateSession(ctx, bad, gm)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("CreateSession(unknown game) error = %v, want NotFoundError", err)
	}

	// Slot from a different exhibition is rejected.
	other := f.store.id()
	f.store.exhibitions[other] = &model.Exhibition{ID: other, Name: "Other"}
	wrong := f.spec("10:00", "13:00", 5)
	wrong.ExhibitionID = other
	if _, err := f.svc.CreateSession(ctx, wrong, gm); !errors.As(err, &v) {
		t.Fatalf("CreateSession(foreign slot) error = %v, want ValidationError", err)
	}
}

func TestModerationFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session, err := f.svc.CreateSession(ctx, f.spec("10:00", "13:00", 5), gm)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if _, err := f.svc.SubmitForModeration(ctx, session.ID, gm); err != nil {
		t.Fatalf("SubmitForModeration: %v", err)
	}

	// Rejection without a reason is invalid.
	_, err = f.svc.ModerateSession(ctx, session.ID, ModerationReject, "", organizer)
	var v *ValidationError
	if !errors.As(err, &v) {
		t.Fatalf("reject without reason: error = %v, want ValidationError", err)
	}

	// Rejection with a reason persists it.
	rejected, err := f.svc.ModerateSession(ctx, session.ID, ModerationReject, "missing safety tools", organizer)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != model.SessionStatusRejected || rejected.RejectionReason == nil || *rejected.RejectionReason != "missing safety tools" {
		t.Errorf("rejected = %+v, want REJECTED with reason", rejected)
	}

	// Resubmission clears the reason.
	resubmitted, err := f.svc.SubmitForModeration(ctx, session.ID, gm)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if resubmitted.Status != model.SessionStatusPendingModeration || resubmitted.RejectionReason != nil {
		t.Errorf("resubmitted = %+v, want PENDING_MODERATION with cleared reason", resubmitted)
	}

	// Moderation requires an organizer.
	_, err = f.svc.ModerateSession(ctx, session.ID, ModerationApprove, "", gm)
	var forbidden *ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Fatalf("moderate as GM: error = %v, want ForbiddenError", err)
	}

	// Approving twice fails on the second attempt.
	if _, err := f.svc.ModerateSession(ctx, session.ID, ModerationApprove, "", organizer); err != nil {
		t.Fatalf("approve: %v", err)
	}
	_, err = f.svc.ModerateSession(ctx, session.ID, ModerationApprove, "", organizer)
	var invalid *InvalidStateError
	if !errors.As(err, &invalid) {
		t.Fatalf("double approve: error = %v, want InvalidStateError", err)
	}
}

func TestSubmitAutoApprovesUnmoderatedZone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	spec := f.spec("10:00", "13:00", 4)
	spec.TimeSlotID = f.openSlotID
	session, err := f.svc.CreateSession(ctx, spec, gm)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	submitted, err := f.svc.SubmitForModeration(ctx, session.ID, gm)
	if err != nil {
		t.Fatalf("SubmitForModeration: %v", err)
	}
	if submitted.Status != model.SessionStatusValidated {
		t.Errorf("status = %s, want VALIDATED in an unmoderated zone", submitted.Status)
	}
}

func TestDeleteSessionOnlyFromDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session, err := f.svc.CreateSession(ctx, f.spec("10:00", "13:00", 5), gm)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := f.svc.SubmitForModeration(ctx, session.ID, gm); err != nil {
		t.Fatalf("submit: %v", err)
	}
	err = f.svc.DeleteSession(ctx, session.ID, gm)
	var invalid *InvalidStateError
	if !errors.As(err, &invalid) {
		t.Fatalf("delete submitted session: error = %v, want InvalidStateError", err)
	}

	draft, err := f.svc.CreateSession(ctx, f.spec("14:00", "16:00", 5), gm)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := f.svc.DeleteSession(ctx, draft.ID, gm); err != nil {
		t.Fatalf("delete draft: %v", err)
	}
	if got, _ := f.store.Session(ctx, draft.ID); got != nil {
		t.Error("draft still present after delete")
	}
}

func TestBookingCapacityAndPromotion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.validated(t, "10:00", "13:00", 2)

	book := func(actor Actor) *model.Booking {
		t.Helper()
		f.clock.now = f.clock.now.Add(time.Minute) // distinct registered_at
		b, err := f.svc.CreateBooking(ctx, session.ID, "", actor)
		if err != nil {
			t.Fatalf("CreateBooking(user %d): %v", actor.UserID, err)
		}
		return b
	}

	b1 := book(player2)
	b2 := book(player3)
	b3 := book(player4)
	if b1.Status != model.BookingStatusConfirmed || b2.Status != model.BookingStatusConfirmed {
		t.Errorf("first two bookings = %s/%s, want CONFIRMED", b1.Status, b2.Status)
	}
	if b3.Status != model.BookingStatusWaitingList {
		t.Errorf("third booking = %s, want WAITING_LIST", b3.Status)
	}

	// A duplicate booking by the same user is a conflict.
	_, err := f.svc.CreateBooking(ctx, session.ID, "", player2)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("duplicate booking: error = %v, want ConflictError", err)
	}

	// Cancelling a confirmed booking promotes the oldest waitlisted one.
	if _, err := f.svc.CancelBooking(ctx, b1.ID, player2); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	promoted, _ := f.store.Booking(ctx, b3.ID)
	if promoted.Status != model.BookingStatusConfirmed {
		t.Errorf("waitlisted booking = %s after cancellation, want CONFIRMED", promoted.Status)
	}
	last := f.notif.kinds[len(f.notif.kinds)-1]
	if last != EventBookingPromoted {
		t.Errorf("last event = %s, want %s", last, EventBookingPromoted)
	}

	// Capacity invariant: seated never exceeds max_players.
	if seated, _ := f.store.CountSeated(ctx, session.ID); seated > int(session.MaxPlayers) {
		t.Errorf("seated = %d exceeds capacity %d", seated, session.MaxPlayers)
	}

	// Cancelling twice is invalid.
	_, err = f.svc.CancelBooking(ctx, b1.ID, player2)
	var invalid *InvalidStateError
	if !errors.As(err, &invalid) {
		t.Fatalf("double cancel: error = %v, want InvalidStateError", err)
	}
}

func TestCancelWaitlistedDoesNotPromote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.validated(t, "10:00", "13:00", 1)

	if _, err := f.svc.CreateBooking(ctx, session.ID, "", player2); err != nil {
		t.Fatalf("book: %v", err)
	}
	f.clock.now = f.clock.now.Add(time.Minute)
	w1, err := f.svc.CreateBooking(ctx, session.ID, "", player3)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	f.clock.now = f.clock.now.Add(time.Minute)
	w2, err := f.svc.CreateBooking(ctx, session.ID, "", player4)
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	// Cancelling a waitlisted booking frees no seat: the other
	// waitlisted booking must stay waitlisted.
	if _, err := f.svc.CancelBooking(ctx, w1.ID, player3); err != nil {
		t.Fatalf("cancel waitlisted: %v", err)
	}
	still, _ := f.store.Booking(ctx, w2.ID)
	if still.Status != model.BookingStatusWaitingList {
		t.Errorf("booking = %s, want WAITING_LIST untouched", still.Status)
	}
}

func TestBookingRequiresValidatedSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draft, err := f.svc.CreateSession(ctx, f.spec("10:00", "13:00", 4), gm)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	_, err = f.svc.CreateBooking(ctx, draft.ID, "", player2)
	var invalid *InvalidStateError
	if !errors.As(err, &invalid) {
		t.Fatalf("book draft: error = %v, want InvalidStateError", err)
	}
}

func TestCheckInBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.validated(t, "10:00", "13:00", 3)
	booking, err := f.svc.CreateBooking(ctx, session.ID, "", player2)
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	// A stranger may not check the player in.
	_, err = f.svc.CheckInBooking(ctx, booking.ID, player3)
	var forbidden *ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Fatalf("check-in by stranger: error = %v, want ForbiddenError", err)
	}

	// The session's GM may.
	checked, err := f.svc.CheckInBooking(ctx, booking.ID, gm)
	if err != nil {
		t.Fatalf("check-in by GM: %v", err)
	}
	if checked.Status != model.BookingStatusCheckedIn || checked.CheckedInAt == nil {
		t.Errorf("booking = %+v, want CHECKED_IN with timestamp", checked)
	}

	// Checking in twice is invalid.
	_, err = f.svc.CheckInBooking(ctx, booking.ID, player2)
	var invalid *InvalidStateError
	if !errors.As(err, &invalid) {
		t.Fatalf("double check-in: error = %v, want InvalidStateError", err)
	}
}

func TestAssignTableCollision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tables, err := f.svc.BatchCreateTables(ctx, BatchTablesSpec{
		ZoneID: f.zoneID, Count: 1, Capacity: 6,
	}, organizer)
	if err != nil {
		t.Fatalf("BatchCreateTables: %v", err)
	}
	tableID := tables[0].ID

	x := f.validated(t, "09:00", "10:00", 4)
	if _, err := f.svc.AssignTable(ctx, x.ID, tableID, organizer); err != nil {
		t.Fatalf("assign X: %v", err)
	}

	// The slot's buffer is 15 minutes: a 5 minute gap collides.
	y := f.validated(t, "10:05", "11:00", 4)
	_, err = f.svc.AssignTable(ctx, y.ID, tableID, organizer)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("assign Y (5m gap): error = %v, want ConflictError", err)
	}
	if conflict.ConflictingID != x.ID {
		t.Errorf("conflicting session = %d, want %d", conflict.ConflictingID, x.ID)
	}

	// A 20 minute gap clears the buffer.
	z := f.validated(t, "10:20", "11:20", 4)
	assigned, err := f.svc.AssignTable(ctx, z.ID, tableID, organizer)
	if err != nil {
		t.Fatalf("assign Z (20m gap): %v", err)
	}
	if assigned.PhysicalTableID == nil || *assigned.PhysicalTableID != tableID {
		t.Error("table not persisted on session")
	}

	// Assignment requires an organizer.
	_, err = f.svc.AssignTable(ctx, y.ID, tableID, gm)
	var forbidden *ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Fatalf("assign as GM: error = %v, want ForbiddenError", err)
	}
}

func TestBatchCreateTablesGapFilling(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, label := range []string{"T1", "T2", "T5"} {
		id := f.store.id()
		f.store.tables[id] = &model.PhysicalTable{ID: id, ZoneID: f.zoneID, Label: label, Capacity: 4, Status: model.TableStatusAvailable}
	}
	created, err := f.svc.BatchCreateTables(ctx, BatchTablesSpec{
		ZoneID: f.zoneID, Count: 4, FillGaps: true, Capacity: 6,
	}, organizer)
	if err != nil {
		t.Fatalf("BatchCreateTables: %v", err)
	}
	got := make([]string, 0, len(created))
	for _, tb := range created {
		got = append(got, tb.Label)
	}
	want := []string{"T3", "T4", "T6", "T7"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("labels = %v, want %v", got, want)
		}
	}

	// Non-organizers cannot create tables.
	_, err = f.svc.BatchCreateTables(ctx, BatchTablesSpec{ZoneID: f.zoneID, Count: 1, Capacity: 4}, player2)
	var forbidden *ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Fatalf("batch as player: error = %v, want ForbiddenError", err)
	}
}

func TestSweepAutoCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ghost := f.validated(t, "09:00", "11:00", 4)   // GM never shows up
	staffed := f.validated(t, "09:00", "11:00", 4) // GM checks in
	late := f.validated(t, "12:00", "14:00", 4)    // not yet due

	if _, err := f.svc.CreateBooking(ctx, ghost.ID, "", player2); err != nil {
		t.Fatalf("book: %v", err)
	}

	f.clock.now = at("09:10")
	if _, err := f.svc.GMCheckIn(ctx, staffed.ID, gm); err != nil {
		t.Fatalf("GMCheckIn: %v", err)
	}

	// 45 minutes past start, grace is 30: only the unstaffed
	// session is due.
	f.clock.now = at("09:45")
	swept, err := f.svc.SweepAutoCancel(ctx, f.exhibitionID, organizer)
	if err != nil {
		t.Fatalf("SweepAutoCancel: %v", err)
	}
	if len(swept) != 1 || swept[0].ID != ghost.ID {
		t.Fatalf("swept = %v, want exactly the unstaffed session", swept)
	}
	cancelled, _ := f.store.Session(ctx, ghost.ID)
	if cancelled.Status != model.SessionStatusCancelled {
		t.Errorf("status = %s, want CANCELLED", cancelled.Status)
	}
	kept, _ := f.store.Session(ctx, staffed.ID)
	if kept.Status != model.SessionStatusInProgress {
		t.Errorf("checked-in session = %s, want IN_PROGRESS", kept.Status)
	}
	upcoming, _ := f.store.Session(ctx, late.ID)
	if upcoming.Status != model.SessionStatusValidated {
		t.Errorf("future session = %s, want VALIDATED", upcoming.Status)
	}

	// The cancellation event names the affected booker.
	found := false
	for i, kind := range f.notif.kinds {
		if kind != EventSessionCancelled {
			continue
		}
		ev := f.notif.payloads[i].(SessionCancelledEvent)
		if ev.SessionID == ghost.ID && len(ev.BookerIDs) == 1 && ev.BookerIDs[0] == player2.UserID {
			found = true
		}
	}
	if !found {
		t.Error("no session.cancelled event for the swept session's booker")
	}

	// Idempotency: a second run sweeps nothing.
	again, err := f.svc.SweepAutoCancel(ctx, f.exhibitionID, organizer)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("second sweep returned %d sessions, want 0", len(again))
	}
}

func TestDeleteZoneCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.BatchCreateTables(ctx, BatchTablesSpec{ZoneID: f.zoneID, Count: 3, Capacity: 4}, organizer); err != nil {
		t.Fatalf("BatchCreateTables: %v", err)
	}
	session := f.validated(t, "10:00", "12:00", 4)

	// Zones with live sessions cannot be deleted.
	err := f.svc.DeleteZone(ctx, f.zoneID, organizer)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("delete busy zone: error = %v, want ConflictError", err)
	}

	// Sweep the session away, then deletion cascades tables and slots.
	f.clock.now = at("11:00")
	if _, err := f.svc.SweepAutoCancel(ctx, f.exhibitionID, organizer); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if err := f.svc.DeleteZone(ctx, f.zoneID, organizer); err != nil {
		t.Fatalf("DeleteZone: %v", err)
	}
	if labels, _ := f.store.TableLabels(ctx, f.zoneID); len(labels) != 0 {
		t.Errorf("tables left after cascade: %v", labels)
	}
	if slot, _ := f.store.TimeSlot(ctx, f.slotID); slot != nil {
		t.Error("time slot left after cascade")
	}
	if zone, _ := f.store.Zone(ctx, f.zoneID); zone != nil {
		t.Error("zone left after cascade")
	}
	_ = session
}
