package searchplan

import (
	"strconv"
	"strings"
)

// DiscreteConfig is an ordered sequence of integers, one per active joint,
// each the quantised angle at resolution delta. Two configs are equal iff
// all components are equal.
type DiscreteConfig []int

func (c DiscreteConfig) key() string {
	var b strings.Builder
	for i, v := range c {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

// Voxel is an integer workspace grid coordinate, the end-effector cell used
// to seed and query BFS3D. Named after pointcloud.VoxelCoords in shape, but
// int-valued to match BFS3D's own coordinate type.
type Voxel struct{ X, Y, Z int }

// StateEntry is one node of the search graph: its stable ID, its
// discretised and continuous joint values, the workspace voxel of its
// end-effector, and the index of the action primitive that produced it (0
// for seed states).
type StateEntry struct {
	StateID         int
	Coord           DiscreteConfig
	Angles          []float64
	XYZ             Voxel
	ProducingAction int
}

// StateTable is a hash-consed registry of StateEntry values keyed by
// DiscreteConfig, plus an ID-indexed sequence and distinguished start/goal
// pointers. At most one entry exists per DiscreteConfig; StateIDs are
// assigned monotonically at insertion and never reused.
type StateTable struct {
	byCoord    map[string]*StateEntry
	byID       []*StateEntry
	startEntry *StateEntry
	goalEntry  *StateEntry
}

// NewStateTable returns an empty StateTable.
func NewStateTable() *StateTable {
	return &StateTable{byCoord: make(map[string]*StateEntry)}
}

// AddEntry appends a new StateEntry, assigning StateID = current table
// size, and returns it. Callers must ensure Lookup(coord) is nil first;
// two entries with equal coord but different producingAction must never
// coexist because the hash key is coord alone.
func (t *StateTable) AddEntry(coord DiscreteConfig, angles []float64, xyz Voxel, producingAction int) *StateEntry {
	entry := &StateEntry{
		StateID:         len(t.byID),
		Coord:           append(DiscreteConfig(nil), coord...),
		Angles:          append([]float64(nil), angles...),
		XYZ:             xyz,
		ProducingAction: producingAction,
	}
	t.byID = append(t.byID, entry)
	t.byCoord[coord.key()] = entry
	return entry
}

// Lookup returns the entry for coord, or nil if none exists.
func (t *StateTable) Lookup(coord DiscreteConfig) *StateEntry {
	return t.byCoord[coord.key()]
}

// ByID returns the entry at position id, or nil if id is out of range.
func (t *StateTable) ByID(id int) *StateEntry {
	if id < 0 || id >= len(t.byID) {
		return nil
	}
	return t.byID[id]
}

// Size returns the number of entries in the table.
func (t *StateTable) Size() int { return len(t.byID) }

// ConvertIDsToAngleSequence returns the ordered sequence of angles arrays
// for the given state-ID sequence, skipping any out-of-range IDs.
func (t *StateTable) ConvertIDsToAngleSequence(ids []int) [][]float64 {
	out := make([][]float64, 0, len(ids))
	for _, id := range ids {
		entry := t.ByID(id)
		if entry == nil {
			continue
		}
		out = append(out, entry.Angles)
	}
	return out
}

// SetStart records the distinguished start entry.
func (t *StateTable) SetStart(entry *StateEntry) { t.startEntry = entry }

// SetGoal records the distinguished goal entry.
func (t *StateTable) SetGoal(entry *StateEntry) { t.goalEntry = entry }

// Start returns the distinguished start entry, or nil before setup inserts it.
func (t *StateTable) Start() *StateEntry { return t.startEntry }

// Goal returns the distinguished goal entry, or nil before setup inserts it.
func (t *StateTable) Goal() *StateEntry { return t.goalEntry }
