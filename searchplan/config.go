package searchplan

// Config holds the tunables of the planning environment. Unlike the
// reference design's process-wide constants, these live on a value passed
// to NewPlanningEnvironment so multiple environments with different
// resolutions can coexist in one process and tests can override them
// without touching global state.
type Config struct {
	// DeltaLong is the long-range joint step (radians) used both to build
	// the two action primitives per joint and as the discretisation/integer
	// distance resolution.
	DeltaLong float64
	// JointDistMult scales the joint-integer-sum heuristic.
	JointDistMult int
	// EdgeCost is the constant cost assigned to every successor edge.
	EdgeCost int
	// BFSCellCost scales the workspace BFS heuristic (bfsCostToGoal).
	BFSCellCost int
}

// DefaultConfig returns the reference-design defaults.
func DefaultConfig() Config {
	return Config{
		DeltaLong:     0.1,
		JointDistMult: 1000,
		EdgeCost:      1000,
		BFSCellCost:   100,
	}
}
