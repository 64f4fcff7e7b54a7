package trajexec

import (
	"context"
	"time"

	"go.viam.com/motioncore/logging"
)

// Activation drives a controller registry toward a desired active set:
// deactivating overlapping controllers that must yield, gap-filling any
// joints that deactivation would strand, and loading controllers before an
// atomic switch. Grounded on the reference design's
// ensureActiveControllersForGroup/ensureActiveControllersForJoints pair,
// which perform the same load-then-switch sequencing around a selection
// step.
type Activation struct {
	registry *ControllerRegistry
	selector *ControllerSelector
	logger   logging.Logger
	cacheAge time.Duration
}

// NewActivation returns an Activation driving registry via selector,
// refreshing cached controller state older than cacheAge before deciding.
func NewActivation(registry *ControllerRegistry, selector *ControllerSelector, logger logging.Logger, cacheAge time.Duration) *Activation {
	return &Activation{registry: registry, selector: selector, logger: logger, cacheAge: cacheAge}
}

// EnsureActiveForJoints selects a covering combination for actuatedJoints
// from availableControllers, then ensures exactly that combination is
// active, returning the selected controller names.
func (a *Activation) EnsureActiveForJoints(ctx context.Context, actuatedJoints map[string]struct{}, availableControllers []string, managing bool) ([]string, error) {
	selected, ok := a.selector.Select(actuatedJoints, availableControllers, managing)
	if !ok {
		return nil, NewNoCoveringCombinationError()
	}
	if err := a.EnsureActive(ctx, selected, managing); err != nil {
		return nil, err
	}
	return selected, nil
}

// EnsureActive makes desired the active set for their joints. If managing is
// false, EnsureActive never loads or switches anything: it succeeds iff
// every desired controller is already active, and fails with UNSATISFIABLE
// otherwise. If managing is true, any currently active controller
// overlapping a desired controller, but not itself desired, is deactivated.
// If deactivating a controller would strand joints that neither a desired
// controller nor another surviving active controller covers, a gap-filling
// combination of the remaining candidates is searched for; if none exists,
// EnsureActive fails with UNSATISFIABLE. Controllers not yet loaded are
// loaded before the switch is issued, so the switch itself is atomic from
// the controller manager's point of view.
func (a *Activation) EnsureActive(ctx context.Context, desired []string, managing bool) error {
	for _, name := range desired {
		if err := a.registry.EnsureKnown(ctx, name); err != nil {
			return err
		}
	}

	// Refresh every known controller's cached state, not just the desired
	// ones: deciding what to deactivate requires knowing which currently
	// unrelated controllers are active.
	for name := range a.registry.Snapshot() {
		if err := a.registry.UpdateState(ctx, name, a.cacheAge); err != nil {
			return err
		}
	}

	snapshot := a.registry.Snapshot()
	desiredSet := make(map[string]struct{}, len(desired))
	for _, n := range desired {
		desiredSet[n] = struct{}{}
	}

	if !managing {
		// A non-managing caller may not disturb any other controller's
		// coverage, load anything, or issue a switch: it succeeds iff the
		// desired set is already fully active.
		for _, name := range desired {
			info, ok := snapshot[name]
			if !ok || !info.Active {
				return NewUnsatisfiableError()
			}
		}
		return nil
	}

	toDeactivate := make(map[string]struct{})
	for name, info := range snapshot {
		if _, wanted := desiredSet[name]; wanted {
			continue
		}
		if !info.Active {
			continue
		}
		for d := range desiredSet {
			if _, overlaps := info.OverlappingControllers[d]; overlaps {
				toDeactivate[name] = struct{}{}
				break
			}
		}
	}

	stillCovered := make(map[string]struct{})
	for name, info := range snapshot {
		if _, gone := toDeactivate[name]; gone {
			continue
		}
		if _, wanted := desiredSet[name]; wanted || info.Active {
			for j := range info.Joints {
				stillCovered[j] = struct{}{}
			}
		}
	}

	strandedJoints := make(map[string]struct{})
	for name := range toDeactivate {
		info := snapshot[name]
		for j := range info.Joints {
			if _, ok := stillCovered[j]; !ok {
				strandedJoints[j] = struct{}{}
			}
		}
	}

	toActivate := append([]string(nil), desired...)
	if len(strandedJoints) > 0 {
		var candidates []string
		for name := range snapshot {
			if _, wanted := desiredSet[name]; wanted {
				continue
			}
			if _, gone := toDeactivate[name]; gone {
				continue
			}
			candidates = append(candidates, name)
		}

		gapFillers, ok := a.selector.Select(strandedJoints, candidates, true)
		if !ok {
			return NewUnsatisfiableError()
		}
		if a.logger != nil {
			a.logger.Debugf("activation gap-fill: %v covers joints stranded by deactivating %v", gapFillers, keysOf(toDeactivate))
		}
		toActivate = append(toActivate, gapFillers...)
	}

	for _, name := range toActivate {
		info, ok := snapshot[name]
		if ok && info.Loaded {
			continue
		}
		if err := a.registry.manager.LoadController(ctx, name); err != nil {
			return wrapf(err, "load controller %q", name)
		}
	}

	deactivateNames := keysOf(toDeactivate)
	if err := a.registry.manager.SwitchControllers(ctx, toActivate, deactivateNames); err != nil {
		return wrapf(err, "switch controllers")
	}

	return a.registry.Reload(ctx)
}

func keysOf(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
