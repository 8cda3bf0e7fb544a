package queue

import (
	"encoding/json"
	"strings"
	"testing"
)

func mustEnvelope(t *testing.T, kind string, payload any) Envelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return Envelope{Kind: kind, EmittedAt: "2026-08-22T10:00:00Z", Payload: raw}
}

func TestFormatLineBookingEvent(t *testing.T) {
	env := mustEnvelope(t, "booking.promoted", BookingEvent{
		BookingID:    12,
		SessionID:    4,
		SessionTitle: "Shadow Citadel",
		UserID:       7,
		Status:       "CONFIRMED",
		OccurredAt:   "2026-08-22T10:00:00Z",
	})
	line, err := formatLine(env)
	if err != nil {
		t.Fatalf("formatLine() error: %v", err)
	}
	for _, want := range []string{"booking.promoted", "booking_id=12", "user_id=7", `session="Shadow Citadel"`, "status=CONFIRMED"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
	if !strings.HasSuffix(line, "\n") {
		t.Error("line should end with a newline")
	}
}

func TestFormatLineSessionCancelled(t *testing.T) {
	env := mustEnvelope(t, "session.cancelled", SessionCancelledEvent{
		SessionID:    9,
		SessionTitle: "Ghost Ship",
		BookerIDs:    []uint64{2, 5, 11},
		OccurredAt:   "2026-08-22T10:30:00Z",
	})
	line, err := formatLine(env)
	if err != nil {
		t.Fatalf("formatLine() error: %v", err)
	}
	for _, want := range []string{"Session cancelled", "session_id=9", "bookers=[2,5,11]"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}

func TestFormatLineBadPayload(t *testing.T) {
	env := Envelope{Kind: "booking.confirmed", Payload: json.RawMessage(`"not-an-object"`)}
	if _, err := formatLine(env); err == nil {
		t.Error("formatLine() should fail on a malformed payload")
	}
}
