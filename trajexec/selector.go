package trajexec

import "sort"

// ControllerSelector picks the minimum-cardinality, pairwise joint-disjoint
// subset of the available controllers whose joints cover the actuated
// joints of a trajectory, with a ranked tie-break among same-size options.
// Grounded on the reference design's generateControllerCombination
// recursion and OrderPotentialControllerCombination ranking functor.
type ControllerSelector struct {
	registry *ControllerRegistry
}

// NewControllerSelector returns a selector reading controller info from registry.
func NewControllerSelector(registry *ControllerRegistry) *ControllerSelector {
	return &ControllerSelector{registry: registry}
}

// Select tries subset sizes k = 1, 2, ..., len(available) in turn. For each
// k it enumerates every k-subset of available that is pairwise
// joint-disjoint and whose joint union is a superset of actuatedJoints. The
// smallest k with at least one option wins; among options at that size, the
// ranked winner is returned. If managing is false, the winning size's
// options are first searched for one that is already fully active; if none
// is, larger k are tried in the same hope before falling back to the
// smallest-k ranked winner.
func (s *ControllerSelector) Select(actuatedJoints map[string]struct{}, available []string, managing bool) ([]string, bool) {
	if len(available) == 0 {
		return nil, false
	}

	infos := make(map[string]ControllerInfo, len(available))
	for _, name := range available {
		info, ok := s.registry.Get(name)
		if !ok {
			continue
		}
		infos[name] = info
	}

	type sizeResult struct {
		options [][]string
	}
	results := make(map[int]sizeResult)
	var firstWinningK = -1

	for k := 1; k <= len(available); k++ {
		options := combinationsCovering(available, infos, actuatedJoints, k)
		if len(options) > 0 {
			results[k] = sizeResult{options: options}
			if firstWinningK == -1 {
				firstWinningK = k
			}
			if !managing {
				// keep searching larger k for a fully-active option
				continue
			}
			break
		}
	}

	if firstWinningK == -1 {
		return nil, false
	}

	if !managing {
		for k := firstWinningK; k <= len(available); k++ {
			res, ok := results[k]
			if !ok {
				continue
			}
			for _, opt := range res.options {
				if allActive(opt, infos) {
					return opt, true
				}
			}
		}
		// no fully-active option at any searched size: fall back to the
		// ranked winner at the smallest winning size.
	}

	winning := results[firstWinningK].options
	ranked := rankOptions(winning, infos)
	return ranked[0], true
}

func allActive(opt []string, infos map[string]ControllerInfo) bool {
	for _, name := range opt {
		if !infos[name].Active {
			return false
		}
	}
	return true
}

// combinationsCovering enumerates every k-subset of available that is
// pairwise joint-disjoint and covers actuatedJoints.
func combinationsCovering(available []string, infos map[string]ControllerInfo, actuatedJoints map[string]struct{}, k int) [][]string {
	var out [][]string
	chosen := make([]string, 0, k)

	var recurse func(start int)
	recurse = func(start int) {
		if len(chosen) == k {
			if disjoint(chosen, infos) && covers(chosen, infos, actuatedJoints) {
				out = append(out, append([]string(nil), chosen...))
			}
			return
		}
		remaining := k - len(chosen)
		for i := start; i <= len(available)-remaining; i++ {
			chosen = append(chosen, available[i])
			recurse(i + 1)
			chosen = chosen[:len(chosen)-1]
		}
	}
	recurse(0)
	return out
}

func disjoint(names []string, infos map[string]ControllerInfo) bool {
	seen := make(map[string]struct{})
	for _, name := range names {
		for j := range infos[name].Joints {
			if _, dup := seen[j]; dup {
				return false
			}
			seen[j] = struct{}{}
		}
	}
	return true
}

func covers(names []string, infos map[string]ControllerInfo, actuatedJoints map[string]struct{}) bool {
	union := make(map[string]struct{})
	for _, name := range names {
		for j := range infos[name].Joints {
			union[j] = struct{}{}
		}
	}
	for j := range actuatedJoints {
		if _, ok := union[j]; !ok {
			return false
		}
	}
	return true
}

// rankOptions orders options by the reference design's strict lexicographic
// tie-break: more default-flagged controllers is better, then fewer total
// joints covered (tighter fit), then fewer active controllers (prefer cold
// combinations).
func rankOptions(options [][]string, infos map[string]ControllerInfo) [][]string {
	type scored struct {
		opt         []string
		defaults    int
		totalJoints int
		activeCount int
	}
	scoredOpts := make([]scored, len(options))
	for i, opt := range options {
		s := scored{opt: opt}
		jointUnion := make(map[string]struct{})
		for _, name := range opt {
			info := infos[name]
			if info.Default {
				s.defaults++
			}
			if info.Active {
				s.activeCount++
			}
			for j := range info.Joints {
				jointUnion[j] = struct{}{}
			}
		}
		s.totalJoints = len(jointUnion)
		scoredOpts[i] = s
	}

	sort.SliceStable(scoredOpts, func(i, j int) bool {
		a, b := scoredOpts[i], scoredOpts[j]
		if a.defaults != b.defaults {
			return a.defaults > b.defaults
		}
		if a.totalJoints != b.totalJoints {
			return a.totalJoints < b.totalJoints
		}
		return a.activeCount < b.activeCount
	})

	out := make([][]string, len(scoredOpts))
	for i, s := range scoredOpts {
		out[i] = s.opt
	}
	return out
}
