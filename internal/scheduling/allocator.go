package scheduling

import (
	"regexp"
	"sort"
	"strconv"
)

// labelPattern extracts the numeric suffix of a label for a given
// prefix.  Only labels shaped exactly as prefix+digits participate
// in numbering; anything else in the zone is ignored for numbering
// but still counts for collision checks.
func labelPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `(\d+)$`)
}

// PlanLabels computes the labels for a batch of new tables in a
// zone.  existing holds every label already present in the zone.
//
// With fillGaps set and at least one numbered label present, the
// holes in {1..max} are consumed first in ascending order and any
// remainder continues from max+1.  Otherwise numbering starts at
// startingNumber when given, at max+1 when numbered labels exist,
// or at 1.
//
// Every planned label is checked against the existing set; a clash
// fails the whole plan with a ConflictError naming the label, so
// callers can keep batch creation all-or-nothing.
func PlanLabels(existing []string, prefix string, count int, startingNumber int, fillGaps bool) ([]string, error) {
	if count <= 0 {
		return nil, &ValidationError{Field: "count", Reason: "must be positive"}
	}
	taken := make(map[string]struct{}, len(existing))
	used := make(map[int]struct{})
	max := 0
	re := labelPattern(prefix)
	for _, label := range existing {
		taken[label] = struct{}{}
		m := re.FindStringSubmatch(label)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		used[n] = struct{}{}
		if n > max {
			max = n
		}
	}

	numbers := make([]int, 0, count)
	if fillGaps && len(used) > 0 {
		gaps := make([]int, 0)
		for n := 1; n <= max; n++ {
			if _, ok := used[n]; !ok {
				gaps = append(gaps, n)
			}
		}
		sort.Ints(gaps)
		for _, n := range gaps {
			if len(numbers) == count {
				break
			}
			numbers = append(numbers, n)
		}
		for n := max + 1; len(numbers) < count; n++ {
			numbers = append(numbers, n)
		}
	} else {
		start := 1
		switch {
		case startingNumber > 0:
			start = startingNumber
		case len(used) > 0:
			start = max + 1
		}
		for n := start; len(numbers) < count; n++ {
			numbers = append(numbers, n)
		}
	}

	labels := make([]string, 0, count)
	for _, n := range numbers {
		label := prefix + strconv.Itoa(n)
		if _, ok := taken[label]; ok {
			return nil, &ConflictError{Reason: "table label already exists", Label: label}
		}
		labels = append(labels, label)
	}
	return labels, nil
}
