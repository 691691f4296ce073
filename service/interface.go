package service

// Service is the lifecycle of a long-lived subsystem living outside the tick
// (asset loader, audio output, presentation backend)
//
// Lifecycle:
//  1. Construction
//  2. Init(args...) - configuration handed down from the binary
//  3. Start() - launch background goroutines
//  4. [runtime operation]
//  5. Stop() - halt goroutines, release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Init and Start before this one
	Dependencies() []string

	// Init configures the service from optional args
	Init(args ...any) error

	// Start begins service operation
	Start() error

	// Stop halts service operation, must be idempotent
	Stop() error
}
