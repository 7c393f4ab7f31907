package calendar

import (
	"slices"
	"time"

	"gorm.io/datatypes"
)

// Weekday maps a date onto the Monday=0 .. Sunday=6 convention.
func Weekday(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

func validWeekday(d int) bool {
	return d >= 0 && d <= 6
}

// NormalizeWeekdays deduplicates and sorts days, rejecting out-of-range values.
func NormalizeWeekdays(days []int) ([]int, error) {
	if len(days) == 0 {
		return nil, ErrInvalidWeekdays
	}
	out := make([]int, 0, len(days))
	for _, d := range days {
		if !validWeekday(d) {
			return nil, ErrInvalidWeekdays
		}
		if !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	slices.Sort(out)
	return out, nil
}

// IntervalsOverlap is true when [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching endpoints do not overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd datatypes.Time) bool {
	return aStart < bEnd && bStart < aEnd
}

func SharesWeekday(a, b []int) bool {
	for _, d := range a {
		if slices.Contains(b, d) {
			return true
		}
	}
	return false
}

// Serves reports whether the slot recurs on the weekday of date.
func (s *TimeSlot) Serves(date time.Time) bool {
	return slices.Contains(s.Weekdays, Weekday(date))
}

// Conflicts returns the ids of candidates that collide with the proposed
// slot. Each candidate is checked against its own weekday set.
func Conflicts(candidates []TimeSlot, start, end datatypes.Time, weekdays []int) []int64 {
	var ids []int64
	for i := range candidates {
		c := &candidates[i]
		if IntervalsOverlap(c.StartTime, c.EndTime, start, end) && SharesWeekday(c.Weekdays, weekdays) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// DedupeTopics returns the distinct topics in sorted order.
func DedupeTopics(topics []string) []string {
	out := slices.Clone(topics)
	slices.Sort(out)
	return slices.Compact(out)
}
