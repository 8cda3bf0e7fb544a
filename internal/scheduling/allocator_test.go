package scheduling

import (
	"errors"
	"reflect"
	"testing"
)

func TestPlanLabels(t *testing.T) {
	cases := []struct {
		name           string
		existing       []string
		prefix         string
		count          int
		startingNumber int
		fillGaps       bool
		want           []string
	}{
		{
			name: "empty zone starts at one",
			prefix: "T", count: 3,
			want: []string{"T1", "T2", "T3"},
		},
		{
			name:     "continuation after max",
			existing: []string{"T1", "T2", "T5"},
			prefix:   "T", count: 2,
			want: []string{"T6", "T7"},
		},
		{
			name:     "gap filling then continuation",
			existing: []string{"T1", "T2", "T5"},
			prefix:   "T", count: 4, fillGaps: true,
			want: []string{"T3", "T4", "T6", "T7"},
		},
		{
			name:     "gap filling consumes gaps only",
			existing: []string{"T1", "T3", "T5"},
			prefix:   "T", count: 2, fillGaps: true,
			want: []string{"T2", "T4"},
		},
		{
			name:   "explicit starting number",
			prefix: "RPG", count: 2, startingNumber: 10,
			want: []string{"RPG10", "RPG11"},
		},
		{
			name:     "foreign labels ignored for numbering",
			existing: []string{"RPG1", "annex-3"},
			prefix:   "RPG", count: 2,
			want: []string{"RPG2", "RPG3"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PlanLabels(tc.existing, tc.prefix, tc.count, tc.startingNumber, tc.fillGaps)
			if err != nil {
				t.Fatalf("PlanLabels() error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("PlanLabels() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPlanLabelsConflict(t *testing.T) {
	// An explicit starting number running into an existing label must
	// fail the whole plan and name the offending label.
	_, err := PlanLabels([]string{"T4"}, "T", 3, 3, false)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("PlanLabels() error = %v, want ConflictError", err)
	}
	if conflict.Label != "T4" {
		t.Errorf("conflict label = %q, want %q", conflict.Label, "T4")
	}
}

func TestPlanLabelsRejectsNonPositiveCount(t *testing.T) {
	_, err := PlanLabels(nil, "T", 0, 0, false)
	var v *ValidationError
	if !errors.As(err, &v) {
		t.Fatalf("PlanLabels() error = %v, want ValidationError", err)
	}
}
