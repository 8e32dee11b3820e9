package service

import "pairtime-api/modules/slot/entity"

// overlaps checks if two half-open minute windows intersect
func overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// Overlaps reports whether two slots on the same date share any minute.
func Overlaps(a, b entity.TimeSlot) bool {
	if a.Date != b.Date {
		return false
	}
	return overlaps(ParseTime(a.Start), ParseTime(a.End), ParseTime(b.Start), ParseTime(b.End))
}

// DetectConflicts returns, in input order, the ids of slots on date that
// overlap at least one other slot on that date. Kind is ignored.
func DetectConflicts(slots []entity.TimeSlot, date string) []string {
	day := make([]entity.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.Date == date {
			day = append(day, s)
		}
	}

	conflicting := make([]bool, len(day))
	for i := range day {
		for j := i + 1; j < len(day); j++ {
			if Overlaps(day[i], day[j]) {
				conflicting[i] = true
				conflicting[j] = true
			}
		}
	}

	ids := []string{}
	for i, s := range day {
		if conflicting[i] {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// ConflictSet runs DetectConflicts for every date present in slots.
func ConflictSet(slots []entity.TimeSlot) map[string]bool {
	seen := make(map[string]bool)
	set := make(map[string]bool)
	for _, s := range slots {
		if seen[s.Date] {
			continue
		}
		seen[s.Date] = true
		for _, id := range DetectConflicts(slots, s.Date) {
			set[id] = true
		}
	}
	return set
}
