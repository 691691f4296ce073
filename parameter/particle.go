package parameter

// Particle Pool
const (
	// MaxParticles is the default pool capacity
	MaxParticles = 2048

	// DefaultParticleLifetime in seconds when an effect omits it
	DefaultParticleLifetime = 1.0

	// DefaultParticleCount per burst when an effect omits it
	DefaultParticleCount = 8

	// DefaultSeed seeds particle randomness for reproducible runs
	DefaultSeed = 0x5eed
)
