package arena

import (
	"github.com/cory-johannsen/skirmish/internal/game/geom"
)

// Lookahead distances for the jump probes, in world units.
const (
	probeNear = 0.6
	probeFar  = 2.0
)

// PlatformProbes answers the standoff jump-eligibility questions against a
// definition's platform set.
type PlatformProbes struct {
	platforms []Platform
}

// Probes builds the jump probe set for the definition's terrain.
func (d *Definition) Probes() *PlatformProbes {
	return &PlatformProbes{platforms: d.Platforms}
}

// ForwardBlocked reports a wall at the near lookahead: a platform body with
// positive height overlapping the probe point.
func (p *PlatformProbes) ForwardBlocked(pos geom.Vec2, dirX float64) bool {
	x := pos.X + dirX*probeNear
	for _, pl := range p.platforms {
		if pl.Height <= 0 {
			continue
		}
		if x >= pl.X && x <= pl.X+pl.Width && pos.Y >= pl.Y && pos.Y < pl.Y+pl.Height {
			return true
		}
	}
	return false
}

// EdgeAhead reports a downward edge: no ground under the near lookahead.
func (p *PlatformProbes) EdgeAhead(pos geom.Vec2, dirX float64) bool {
	return !p.grounded(pos.X+dirX*probeNear, pos.Y)
}

// GapAhead reports a crossable gap: missing ground at the near lookahead
// with landable ground at the far lookahead.
func (p *PlatformProbes) GapAhead(pos geom.Vec2, dirX float64) bool {
	return !p.grounded(pos.X+dirX*probeNear, pos.Y) &&
		p.grounded(pos.X+dirX*probeFar, pos.Y)
}

// grounded reports walkable surface at or below y under x.
func (p *PlatformProbes) grounded(x, y float64) bool {
	for _, pl := range p.platforms {
		if x >= pl.X && x <= pl.X+pl.Width && pl.Y+pl.Height <= y+1e-9 {
			return true
		}
	}
	return false
}
