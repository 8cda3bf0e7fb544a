package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
)

func TestCanTransitionClosure(t *testing.T) {
	states := []string{
		model.SessionStatusDraft,
		model.SessionStatusPendingModeration,
		model.SessionStatusValidated,
		model.SessionStatusRejected,
		model.SessionStatusInProgress,
		model.SessionStatusCancelled,
	}
	// From DRAFT the only legal move is to PENDING_MODERATION.
	for _, to := range states {
		want := to == model.SessionStatusPendingModeration
		if got := CanTransition(model.SessionStatusDraft, to); got != want {
			t.Errorf("CanTransition(DRAFT, %s) = %v, want %v", to, got, want)
		}
	}
	// CANCELLED and IN_PROGRESS are terminal.
	for _, from := range []string{model.SessionStatusCancelled, model.SessionStatusInProgress} {
		for _, to := range states {
			if CanTransition(from, to) {
				t.Errorf("CanTransition(%s, %s) = true, want false", from, to)
			}
		}
	}
	// Rejected sessions may be resubmitted.
	if !CanTransition(model.SessionStatusRejected, model.SessionStatusPendingModeration) {
		t.Error("CanTransition(REJECTED, PENDING_MODERATION) = false, want true")
	}
}

func TestApplyPatchAllowList(t *testing.T) {
	title := "Deep dungeon"
	desc := "bring dice"
	session := &model.GameSession{Status: model.SessionStatusValidated, Title: "old"}

	// Restricted fields are rejected outside DRAFT/REJECTED.
	err := ApplyPatch(session, &SessionPatch{Title: &title})
	var invalid *InvalidStateError
	if !errors.As(err, &invalid) {
		t.Fatalf("ApplyPatch(title on VALIDATED) error = %v, want InvalidStateError", err)
	}
	if session.Title != "old" {
		t.Errorf("session mutated despite rejected patch: %q", session.Title)
	}

	// Description and table stay editable after validation.
	table := uint64(7)
	if err := ApplyPatch(session, &SessionPatch{Description: &desc, PhysicalTableID: &table}); err != nil {
		t.Fatalf("ApplyPatch(allow-list on VALIDATED) error = %v", err)
	}
	if session.Description != desc || session.PhysicalTableID == nil || *session.PhysicalTableID != 7 {
		t.Error("allow-listed fields were not applied")
	}

	// Everything is editable on a draft.
	draft := &model.GameSession{Status: model.SessionStatusDraft}
	players := uint32(6)
	if err := ApplyPatch(draft, &SessionPatch{Title: &title, MaxPlayers: &players}); err != nil {
		t.Fatalf("ApplyPatch(DRAFT) error = %v", err)
	}
	if draft.Title != title || draft.MaxPlayers != 6 {
		t.Error("draft patch not applied")
	}
}

func TestValidateSchedule(t *testing.T) {
	slot := &model.TimeSlot{
		StartsAt:           at("09:00"),
		EndsAt:             at("18:00"),
		MaxDurationMinutes: 240,
	}
	cases := []struct {
		name       string
		start, end time.Time
		field      string // empty means valid
	}{
		{"fits", at("10:00"), at("13:00"), ""},
		{"exact bounds", at("09:00"), at("13:00"), ""},
		{"starts before slot", at("08:30"), at("10:00"), "scheduled_start"},
		{"ends after slot", at("16:00"), at("18:30"), "scheduled_end"},
		{"too long", at("09:00"), at("14:00"), "scheduled_end"},
		{"inverted", at("12:00"), at("11:00"), "scheduled_end"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSchedule(tc.start, tc.end, slot)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("ValidateSchedule() error = %v, want nil", err)
				}
				return
			}
			var v *ValidationError
			if !errors.As(err, &v) {
				t.Fatalf("ValidateSchedule() error = %v, want ValidationError", err)
			}
			if v.Field != tc.field {
				t.Errorf("field = %q, want %q", v.Field, tc.field)
			}
		})
	}
}
