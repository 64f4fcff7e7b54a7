package searchplan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.viam.com/test"
)

func TestStateTableAddAndLookup(t *testing.T) {
	table := NewStateTable()
	e1 := table.AddEntry(DiscreteConfig{0, 0}, []float64{0, 0}, Voxel{1, 1, 1}, 0)
	test.That(t, e1.StateID, test.ShouldEqual, 0)

	e2 := table.AddEntry(DiscreteConfig{1, 0}, []float64{0.1, 0}, Voxel{2, 1, 1}, 1)
	test.That(t, e2.StateID, test.ShouldEqual, 1)

	test.That(t, table.Lookup(DiscreteConfig{0, 0}), test.ShouldEqual, e1)
	test.That(t, table.Lookup(DiscreteConfig{5, 5}), test.ShouldBeNil)
	test.That(t, table.ByID(0), test.ShouldEqual, e1)
	test.That(t, table.ByID(99), test.ShouldBeNil)
	test.That(t, table.Size(), test.ShouldEqual, 2)
}

func TestStateTableDistinctIDsForDistinctCoords(t *testing.T) {
	table := NewStateTable()
	seen := map[int]DiscreteConfig{}
	for i := 0; i < 5; i++ {
		e := table.AddEntry(DiscreteConfig{i, 0}, []float64{float64(i) * 0.1, 0}, Voxel{}, 0)
		for id, coord := range seen {
			test.That(t, coordsEqual(coord, e.Coord) && id != e.StateID, test.ShouldBeFalse)
		}
		seen[e.StateID] = e.Coord
	}
}

func coordsEqual(a, b DiscreteConfig) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestConvertIDsToAngleSequence(t *testing.T) {
	table := NewStateTable()
	e1 := table.AddEntry(DiscreteConfig{0}, []float64{0}, Voxel{}, 0)
	e2 := table.AddEntry(DiscreteConfig{1}, []float64{0.1}, Voxel{}, 1)

	seq := table.ConvertIDsToAngleSequence([]int{e1.StateID, e2.StateID, 99})
	test.That(t, len(seq), test.ShouldEqual, 2)
	want := [][]float64{{0}, {0.1}}
	if diff := cmp.Diff(want, seq); diff != "" {
		t.Errorf("ConvertIDsToAngleSequence mismatch (-want +got):\n%s", diff)
	}
}
