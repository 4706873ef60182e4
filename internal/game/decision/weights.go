// Package decision implements the weighted movement and targeting policy
// for both combat phases. Each AI type resolves to one weighting strategy
// (turn-based) and one targeting-band strategy (standoff) through closed
// lookup tables; behavior never branches per call site.
package decision

import (
	"sort"

	"github.com/cory-johannsen/skirmish/internal/game/hexgrid"
	"github.com/cory-johannsen/skirmish/internal/game/pawn"
)

// WeightedMove is one legal candidate direction with its draw weight.
type WeightedMove struct {
	// Dir is the canonical neighbor offset index.
	Dir int
	// To is the destination coordinate.
	To hexgrid.Coord
	// Weight is the proportional draw weight; always >= 1.
	Weight int
}

// profile is one AI type's turn-based weighting strategy.
type profile struct {
	// allowed are the canonical direction indices this profile may choose
	// from. nil means all six.
	allowed []int
	// weight assigns the draw weight for a candidate ranked rank-th by
	// ascending projected distance among n legal candidates.
	weight func(rank, n int) int
}

// defaultProfiles returns the built-in weighting strategy per AI type:
//
//	Basic      — 3 forward directions; closest 5, others 1.
//	Handcannon — all 6; closest 3, others 1.
//	Shotgun    — all 6; by rank: 4, 3, 3, 2, 2, 1.
//	Sniper     — all 6; farthest 4, closest 1, others 2.
func defaultProfiles() map[pawn.AIType]profile {
	return map[pawn.AIType]profile{
		pawn.Basic: {
			allowed: hexgrid.ForwardDirIndices[:],
			weight:  basicWeight,
		},
		pawn.Handcannon: {
			weight: func(rank, n int) int {
				if rank == 0 {
					return 3
				}
				return 1
			},
		},
		pawn.Shotgun: {
			weight: func(rank, n int) int {
				switch {
				case rank == 0:
					return 4
				case rank == n-1:
					return 1
				case rank <= (n-1)/2:
					return 3
				default:
					return 2
				}
			},
		},
		pawn.Sniper: {
			weight: func(rank, n int) int {
				switch {
				case n == 1:
					return 1
				case rank == n-1:
					return 4
				case rank == 0:
					return 1
				default:
					return 2
				}
			},
		},
	}
}

// basicWeight is the Basic profile's rule and the degradation fallback.
func basicWeight(rank, n int) int {
	if rank == 0 {
		return 5
	}
	return 1
}

// basicProfile is the safe default a misconfigured pawn degrades to.
var basicProfile = profile{
	allowed: hexgrid.ForwardDirIndices[:],
	weight:  basicWeight,
}

// computeWeights ranks the legal candidate directions by projected distance
// to the player and assigns each its profile weight. Ranking ties break on
// the lowest canonical offset index, making weight assignment deterministic.
//
// Postcondition: Every returned move is legal; weights are >= 1; an empty
// result means the pawn has no legal direction and must stay in place.
func computeWeights(pr profile, from, player hexgrid.Coord, legal func(hexgrid.Coord) bool) []WeightedMove {
	dirs := pr.allowed
	if dirs == nil {
		dirs = []int{0, 1, 2, 3, 4, 5}
	}

	type candidate struct {
		dir  int
		to   hexgrid.Coord
		dist int
	}
	var cands []candidate
	for _, dir := range dirs {
		to := from.Add(hexgrid.NeighborOffsets[dir])
		if !legal(to) {
			continue
		}
		cands = append(cands, candidate{dir: dir, to: to, dist: hexgrid.Distance(to, player)})
	}
	if len(cands) == 0 {
		return nil
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].dir < cands[j].dir
	})

	out := make([]WeightedMove, len(cands))
	for rank, c := range cands {
		out[rank] = WeightedMove{Dir: c.dir, To: c.to, Weight: pr.weight(rank, len(cands))}
	}
	return out
}
