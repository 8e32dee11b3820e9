package service

import "pairtime-api/modules/slot/entity"

// Normalize merges the owner's stored slots with any number of imported
// batches into one sequence: own slots first, then each batch in order.
// Nothing is deduplicated; overlapping copies surface as conflicts instead.
func Normalize(own []entity.TimeSlot, imported ...[]entity.TimeSlot) []entity.TimeSlot {
	size := len(own)
	for _, batch := range imported {
		size += len(batch)
	}

	merged := make([]entity.TimeSlot, 0, size)
	for _, s := range own {
		if s.Source == nil {
			s.Source = entity.Internal{}
		}
		merged = append(merged, s)
	}
	for _, batch := range imported {
		merged = append(merged, batch...)
	}
	return merged
}
