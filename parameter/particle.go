package parameter

// Particle Pool
const (
	// DefaultParticleCount is the pool size when config leaves it unset
	DefaultParticleCount = 25000

	// ParticleMaxAge is the tick count after which a particle becomes eligible for respawn
	ParticleMaxAge = 5000

	// ParticleRespawnChance is the per-frame probability that an over-age particle respawns
	ParticleRespawnChance = 0.1

	// ParticleDivergenceBound is the coordinate magnitude treated as numerical blow-up
	ParticleDivergenceBound = 500.0

	// ParticleResetSpread is the half-width of the near-origin reset box
	ParticleResetSpread = 0.1

	// ParticleSeedSpread is the half-width of the initial seeded field
	ParticleSeedSpread = 1.0

	// ParticleSeedStride separates per-index seed derivations (x, y, z, age)
	ParticleSeedStride = 4
)

// Lorenz
const (
	LorenzStep         = 0.005
	LorenzSigma        = 10.0
	LorenzRho          = 28.0
	LorenzBeta         = 8.0 / 3.0
	LorenzRespawnXY    = 10.0
	LorenzRespawnZMin  = 10.0
	LorenzRespawnZSpan = 30.0
	LorenzResetZ       = 20.0
)

// Polar kinds
const (
	SpiralResetRadius = 4.0
	FlowerResetRadius = 3.0
)

// Attractor coefficient defaults for the empty palindrome
const (
	DefaultCoeffA = 1.2
	DefaultCoeffB = 1.6
	DefaultCoeffC = 1.8
	DefaultCoeffD = 1.4
	DefaultCoeffK = 0.9
)

// Parameter interpolation
const (
	// ParamLerpRate is the per-frame fraction of the remaining distance covered
	ParamLerpRate = 0.05

	// ParamSpringFrequency is the angular frequency of the spring interpolator
	ParamSpringFrequency = 3.0

	// ParamSpringDamping of 1.0 is critical damping
	ParamSpringDamping = 1.0
)
