package scheduling

import (
	"testing"
	"time"
)

func at(hhmm string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2026-08-22 "+hhmm)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		buffer                         time.Duration
		want                           bool
	}{
		{"disjoint no buffer", at("09:00"), at("10:00"), at("10:30"), at("11:30"), 0, false},
		{"back to back no buffer", at("09:00"), at("10:00"), at("10:00"), at("11:00"), 0, false},
		{"plain intersection", at("09:00"), at("10:00"), at("09:30"), at("10:30"), 0, true},
		{"contained", at("09:00"), at("12:00"), at("10:00"), at("11:00"), 0, true},
		{"gap under buffer", at("10:05"), at("11:00"), at("09:00"), at("10:00"), 15 * time.Minute, true},
		{"gap equals buffer", at("10:15"), at("11:00"), at("09:00"), at("10:00"), 15 * time.Minute, false},
		{"gap over buffer", at("10:20"), at("11:00"), at("09:00"), at("10:00"), 15 * time.Minute, false},
		{"buffer before", at("09:00"), at("10:00"), at("10:10"), at("11:00"), 15 * time.Minute, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, tc.buffer)
			if got != tc.want {
				t.Errorf("Overlaps() = %v, want %v", got, tc.want)
			}
		})
	}
}
