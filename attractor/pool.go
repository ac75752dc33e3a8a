package attractor

import (
	"math"
	"math/rand/v2"

	"github.com/lixenwraith/soundbox/core"
	"github.com/lixenwraith/soundbox/parameter"
	"github.com/lixenwraith/soundbox/vmath"
)

// Particle is one simulated point; Z is always present and stays zero for 2-D kinds
type Particle struct {
	X, Y, Z float64
	Age     int
}

// Pool owns a fixed-size particle field advanced by the selected kind
type Pool struct {
	particles []Particle
	kind      Kind
	seed      uint32
	rnd       *rand.Rand
}

// NewPool allocates n particles seeded with seed 0
func NewPool(n int, mode core.PatternMode) *Pool {
	if n <= 0 {
		n = parameter.DefaultParticleCount
	}
	p := &Pool{
		particles: make([]Particle, n),
		kind:      KindOf(mode),
	}
	p.Seed(0)
	return p
}

// Len returns the pool size
func (p *Pool) Len() int { return len(p.particles) }

// At returns a copy of particle i
func (p *Pool) At(i int) Particle { return p.particles[i] }

// Kind returns the active variant
func (p *Pool) Kind() Kind { return p.kind }

// SeedValue returns the seed the field was last initialised from
func (p *Pool) SeedValue() uint32 { return p.seed }

// Seed lays out the field deterministically from seed
// The same seed always produces the same coordinates and ages
func (p *Pool) Seed(seed uint32) {
	p.seed = seed
	p.rnd = rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))

	spread := parameter.ParticleSeedSpread
	if p.kind.ThreeD {
		spread = parameter.LorenzRespawnXY
	}

	for i := range p.particles {
		base := seed + uint32(i)*parameter.ParticleSeedStride
		pt := Particle{
			X:   vmath.SeededSigned(base) * spread,
			Y:   vmath.SeededSigned(base+1) * spread,
			Age: int(vmath.SeededRandom(base+3) * parameter.ParticleMaxAge),
		}
		if p.kind.ThreeD {
			pt.Z = parameter.LorenzRespawnZMin + vmath.SeededRandom(base+2)*parameter.LorenzRespawnZSpan
		}
		p.particles[i] = pt
	}
}

// SetMode switches the kind, staggers ages, and clears or populates Z
func (p *Pool) SetMode(mode core.PatternMode) {
	p.kind = KindOf(mode)
	for i := range p.particles {
		pt := &p.particles[i]
		pt.Age = p.rnd.IntN(parameter.ParticleMaxAge)
		if p.kind.ThreeD {
			pt.Z = parameter.LorenzRespawnZMin + p.rnd.Float64()*parameter.LorenzRespawnZSpan
		} else {
			pt.Z = 0
		}
	}
}

// Advance steps particle i with the active kind, then applies divergence and age handling
func (p *Pool) Advance(i int, c Coeffs) Particle {
	prev := p.particles[i]
	next := p.kind.Update(prev, c)
	next.Age = prev.Age + 1

	switch {
	case diverged(next):
		next = p.nearOrigin()
	case next.Age > parameter.ParticleMaxAge:
		if p.rnd.Float64() < parameter.ParticleRespawnChance {
			next = p.respawn()
		} else {
			next.Age = parameter.ParticleMaxAge
		}
	}

	p.particles[i] = next
	return next
}

// diverged reports numerical blow-up on any coordinate
func diverged(pt Particle) bool {
	const bound = parameter.ParticleDivergenceBound
	for _, v := range [3]float64{pt.X, pt.Y, pt.Z} {
		if !vmath.Finite(v) || math.Abs(v) > bound {
			return true
		}
	}
	return false
}

// nearOrigin is the divergence reset: small offset, age 0
func (p *Pool) nearOrigin() Particle {
	s := parameter.ParticleResetSpread
	pt := Particle{
		X: (p.rnd.Float64()*2 - 1) * s,
		Y: (p.rnd.Float64()*2 - 1) * s,
	}
	if p.kind.ThreeD {
		pt.Z = parameter.LorenzResetZ + (p.rnd.Float64()*2-1)*s
	}
	return pt
}

// respawn is the age reset; Lorenz restarts from a wider spread
func (p *Pool) respawn() Particle {
	if p.kind.ThreeD {
		return Particle{
			X: (p.rnd.Float64()*2 - 1) * parameter.LorenzRespawnXY,
			Y: (p.rnd.Float64()*2 - 1) * parameter.LorenzRespawnXY,
			Z: parameter.LorenzRespawnZMin + p.rnd.Float64()*parameter.LorenzRespawnZSpan,
		}
	}
	s := parameter.ParticleSeedSpread
	return Particle{
		X: (p.rnd.Float64()*2 - 1) * s,
		Y: (p.rnd.Float64()*2 - 1) * s,
	}
}
