package parameter

// Physics Defaults (world units are tiles, y axis up)
const (
	// DefaultGravityX is horizontal gravity, zero for platformers
	DefaultGravityX = 0.0

	// DefaultGravityY pulls bodies down
	DefaultGravityY = -9.8

	// DefaultMaxSpeed is the per-axis velocity clamp in units per second
	DefaultMaxSpeed = 30.0

	// DefaultSlopeSnap is the vertical distance a body may be lifted or pulled onto a slope surface
	DefaultSlopeSnap = 1.0

	// DefaultRestVelocity is the impact speed below which bounciness is ignored
	DefaultRestVelocity = 0.5

	// ContactEpsilon tolerates float drift on one-way platform and slope tests
	ContactEpsilon = 1e-6

	// DefaultTileSize is used when a level does not declare one
	DefaultTileSize = 1.0

	// DefaultFriction and DefaultBounciness apply to bodies and tiles without a material
	DefaultFriction   = 0.6
	DefaultBounciness = 0.0
)

// Collision Layers
const (
	// MaxCollisionLayers is bounded by core.LayerMask width
	MaxCollisionLayers = 32

	// WorldLayerName is the implicit layer tiles occupy, always bit 0
	WorldLayerName = "world"
)
