package scheduling

import "time"

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) overlap
// once the first interval is widened by buffer on both ends.  Two
// back-to-back sessions on the same table therefore conflict unless
// at least buffer separates them.  A zero buffer degrades to the
// plain half-open interval test.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time, buffer time.Duration) bool {
	bufferedStart := aStart.Add(-buffer)
	bufferedEnd := aEnd.Add(buffer)
	return bStart.Before(bufferedEnd) && bEnd.After(bufferedStart)
}
