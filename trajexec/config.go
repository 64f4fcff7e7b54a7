package trajexec

import "time"

// Config holds the TEM's tunables, mirroring the constants listed for the
// trajectory executor: timeout slack and the controller-state cache age.
// Held on the ExecutionEngine rather than as package constants.
type Config struct {
	// TimeoutSlackMultiplicative scales the computed expected duration.
	TimeoutSlackMultiplicative float64
	// TimeoutSlackAdditive is added, after scaling, to the expected duration.
	TimeoutSlackAdditive time.Duration
	// ControllerStateCacheAge is the default max age of a controller's
	// cached (loaded, active, default) triple. Nothing in this package reads
	// it: Activation refreshes against the cacheAge passed to NewActivation.
	ControllerStateCacheAge time.Duration
}

// DefaultConfig returns the reference-design defaults.
func DefaultConfig() Config {
	return Config{
		TimeoutSlackMultiplicative: 1.1,
		TimeoutSlackAdditive:       500 * time.Millisecond,
		ControllerStateCacheAge:    time.Second,
	}
}
