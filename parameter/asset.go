package parameter

import "time"

// Background Asset Loading
const (
	// AssetWorkers bounds concurrently running load tasks
	AssetWorkers = 4

	// AssetQueueSize is the pending request capacity before Submit reports backpressure
	AssetQueueSize = 64

	// AssetResultBuffer is the capacity of the completed-load handoff
	AssetResultBuffer = 64

	// AssetStopTimeout bounds how long Stop waits for in-flight tasks
	AssetStopTimeout = 2 * time.Second
)
