package trajexec

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"go.viam.com/motioncore/logging"
	"go.viam.com/motioncore/trajectory"
)

// ControllerHandle is the narrow per-controller dispatch collaborator: send
// a trajectory part, cancel it, wait for completion, and read the last
// terminal status. Defined by the host; a production implementation
// typically wraps a live actuator-group connection.
type ControllerHandle interface {
	Name() string
	SendTrajectory(ctx context.Context, part trajectory.Trajectory) error
	CancelExecution(ctx context.Context) error
	WaitForExecution(ctx context.Context, timeout time.Duration) bool
	LastExecutionStatus() TerminalStatus
}

// ControllerManager is the narrow controller-lifecycle collaborator this
// package consumes: listing, loading, and switching controllers, and
// obtaining their dispatch handles. Defined by the host, not by this
// package. Message transport and plugin discovery to reach these
// controllers over the wire are out of scope here.
type ControllerManager interface {
	ListControllers(ctx context.Context) ([]string, error)
	GetControllerJoints(ctx context.Context, name string) ([]string, error)
	GetControllerState(ctx context.Context, name string) (loaded, active, isDefault bool, err error)
	LoadController(ctx context.Context, name string) error
	SwitchControllers(ctx context.Context, activate, deactivate []string) error
	GetControllerHandle(ctx context.Context, name string) (ControllerHandle, error)
}

// ControllerInfo is the registry's view of one controller: its joint set,
// the names of controllers it overlaps with (share at least one joint),
// its (loaded, active, default) state, and when that state was last
// refreshed.
type ControllerInfo struct {
	Name                   string
	Joints                 map[string]struct{}
	OverlappingControllers map[string]struct{}
	Loaded                 bool
	Active                 bool
	Default                bool
	LastUpdate             time.Time
}

// ControllerRegistry is the TEM's known-controllers table: joint sets, the
// overlap graph induced by joint-set intersection, and cached live state.
// Grounded on the reload/updateState split of the reference design's
// TrajectoryExecutionManager, which separates a full re-enumeration of
// controllers from a cheap per-controller state refresh.
type ControllerRegistry struct {
	mu      sync.RWMutex
	manager ControllerManager
	clock   clock.Clock
	logger  logging.Logger

	controllers map[string]*ControllerInfo
}

// NewControllerRegistry constructs an empty registry backed by manager.
// clk defaults to the wall clock if nil.
func NewControllerRegistry(manager ControllerManager, clk clock.Clock, logger logging.Logger) *ControllerRegistry {
	if clk == nil {
		clk = clock.New()
	}
	return &ControllerRegistry{
		manager:     manager,
		clock:       clk,
		logger:      logger,
		controllers: make(map[string]*ControllerInfo),
	}
}

// Reload fetches the current controller list and each one's joint set from
// the manager, then rebuilds the overlap relation in O(K^2) for K
// controllers -- acceptable for the realistic K (tens) this package
// targets; no index is warranted.
func (r *ControllerRegistry) Reload(ctx context.Context) error {
	names, err := r.manager.ListControllers(ctx)
	if err != nil {
		return wrapf(err, "list controllers")
	}

	fresh := make(map[string]*ControllerInfo, len(names))
	for _, name := range names {
		joints, err := r.manager.GetControllerJoints(ctx, name)
		if err != nil {
			return wrapf(err, "joints for controller %q", name)
		}
		jointSet := make(map[string]struct{}, len(joints))
		for _, j := range joints {
			jointSet[j] = struct{}{}
		}
		fresh[name] = &ControllerInfo{
			Name:                   name,
			Joints:                 jointSet,
			OverlappingControllers: make(map[string]struct{}),
		}
	}

	for nameA, infoA := range fresh {
		for nameB, infoB := range fresh {
			if nameA == nameB {
				continue
			}
			if jointSetsOverlap(infoA.Joints, infoB.Joints) {
				infoA.OverlappingControllers[nameB] = struct{}{}
			}
		}
	}

	r.mu.Lock()
	// Preserve cached live-state for controllers that survive the reload,
	// so a reload triggered mid-selection doesn't force an immediate
	// refresh of every controller's state.
	for name, info := range fresh {
		if prev, ok := r.controllers[name]; ok {
			info.Loaded, info.Active, info.Default, info.LastUpdate = prev.Loaded, prev.Active, prev.Default, prev.LastUpdate
		}
	}
	r.controllers = fresh
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.Debugf("controller registry reloaded: %d controllers", len(fresh))
	}
	return nil
}

func jointSetsOverlap(a, b map[string]struct{}) bool {
	for j := range a {
		if _, ok := b[j]; ok {
			return true
		}
	}
	return false
}

// UpdateState refreshes the (loaded, active, default) triple for name from
// the manager if its cached value is older than age.
func (r *ControllerRegistry) UpdateState(ctx context.Context, name string, age time.Duration) error {
	r.mu.RLock()
	info, ok := r.controllers[name]
	var stale bool
	if ok {
		stale = r.clock.Now().Sub(info.LastUpdate) >= age
	}
	r.mu.RUnlock()
	if !ok {
		return NewUnknownControllerError(name)
	}
	if !stale {
		return nil
	}

	loaded, active, isDefault, err := r.manager.GetControllerState(ctx, name)
	if err != nil {
		return wrapf(err, "state for controller %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok = r.controllers[name]
	if !ok {
		return NewUnknownControllerError(name)
	}
	info.Loaded, info.Active, info.Default = loaded, active, isDefault
	info.LastUpdate = r.clock.Now()
	return nil
}

// Get returns a copy of the named controller's info, or false if unknown.
func (r *ControllerRegistry) Get(name string) (ControllerInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.controllers[name]
	if !ok {
		return ControllerInfo{}, false
	}
	return copyInfo(info), true
}

// Snapshot returns a read-only copy of every known controller, for
// diagnostics.
func (r *ControllerRegistry) Snapshot() map[string]ControllerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]ControllerInfo, len(r.controllers))
	for name, info := range r.controllers {
		out[name] = copyInfo(info)
	}
	return out
}

func copyInfo(info *ControllerInfo) ControllerInfo {
	joints := make(map[string]struct{}, len(info.Joints))
	for j := range info.Joints {
		joints[j] = struct{}{}
	}
	overlap := make(map[string]struct{}, len(info.OverlappingControllers))
	for o := range info.OverlappingControllers {
		overlap[o] = struct{}{}
	}
	return ControllerInfo{
		Name:                   info.Name,
		Joints:                 joints,
		OverlappingControllers: overlap,
		Loaded:                 info.Loaded,
		Active:                 info.Active,
		Default:                info.Default,
		LastUpdate:             info.LastUpdate,
	}
}

// EnsureKnown resolves a controller name against the registry, triggering
// exactly one reload if the name is missing, and fails with
// UNKNOWN_CONTROLLER if it is still missing afterward.
func (r *ControllerRegistry) EnsureKnown(ctx context.Context, name string) error {
	if _, ok := r.Get(name); ok {
		return nil
	}
	if err := r.Reload(ctx); err != nil {
		return err
	}
	if _, ok := r.Get(name); !ok {
		return NewUnknownControllerError(name)
	}
	return nil
}
