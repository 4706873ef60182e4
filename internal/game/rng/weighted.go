package rng

// WeightedIndex draws an index proportionally to weights. Entries with
// weight <= 0 are never selected.
//
// Precondition: src must be non-nil.
// Postcondition: Returns (i, true) with weights[i] > 0, the draw being
// weight-proportional over the positive entries; returns (-1, false) when
// no entry has positive weight.
func WeightedIndex(weights []int, src Source) (int, bool) {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1, false
	}
	roll := src.Intn(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if roll < w {
			return i, true
		}
		roll -= w
	}
	// Unreachable when total was computed over the same slice.
	return -1, false
}
