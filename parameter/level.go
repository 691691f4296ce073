package parameter

// Level files
const (
	// LevelTextExt selects the TOML codec
	LevelTextExt = ".toml"

	// LevelBinaryExt selects the msgpack codec for compiled levels
	LevelBinaryExt = ".lvlb"

	// EmptyTileRune is always empty even without a legend entry
	EmptyTileRune = '.'

	// MaxLevelCells bounds width*height to keep a malformed header from allocating unbounded memory
	MaxLevelCells = 1 << 20
)

// Prefab Tuning
const (
	CrateSize       = 1.0
	CrateMass       = 2.0
	PlatformWidth   = 3.0
	PlatformHeight  = 0.25
	PropSize        = 1.0
	ProjectileSize  = 0.25
	ProjectileMass  = 0.1
	ProjectileLife  = 3.0 // Seconds
	EmitterInterval = 0.5 // Seconds between default emitter bursts
)
