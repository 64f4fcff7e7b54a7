package trajexec

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
	"go.viam.com/utils"
	"golang.org/x/sync/errgroup"

	"go.viam.com/motioncore/logging"
	"go.viam.com/motioncore/trajectory"
)

// ExecutionContext is one queued unit of dispatch work: a trajectory already
// split across the controllers selected to carry it, one part per
// controller, both sequences the same length.
type ExecutionContext struct {
	Controllers []string
	Parts       []trajectory.Trajectory
}

// JointGroupResolver resolves a named joint group to its member joint
// names, the narrow slice of KinematicModel that
// ensureActiveControllersForGroup needs. Defined by the host.
type JointGroupResolver interface {
	JointsForGroup(group string) ([]string, error)
}

// ExecutionEngine runs a queue of ExecutionContexts through the state
// machine IDLE -> RUNNING -> {SUCCEEDED, ABORTED, PREEMPTED, TIMED_OUT,
// FAILED}, dispatching each context's parts to controller handles,
// supervising completion under a timeout budget, and aggregating results.
// Grounded on the reference design's TrajectoryExecutionManager execution
// loop; the worker goroutine follows control.Loop's
// utils.ManagedGo(fn, wg.Done) pattern, and per-part waits run concurrently
// via golang.org/x/sync/errgroup rather than the reference's sequential
// wait loop (SPEC_FULL's documented concurrency upgrade).
type ExecutionEngine struct {
	registry   *ControllerRegistry
	selector   *ControllerSelector
	splitter   *TrajectorySplitter
	activation *Activation
	resolver   JointGroupResolver
	cfg        Config
	clock      clock.Clock
	logger     logging.Logger
	managing   bool

	mu            sync.Mutex // executionStateLock
	cond          *sync.Cond
	status        TerminalStatus
	completion    bool
	queue         []ExecutionContext
	activeHandles []ControllerHandle
	contextIndex  int
	callback      func(TerminalStatus)
	autoClear     bool

	timeMu             sync.Mutex // timeIndexLock; acquired inside mu when both are needed
	expectedTimestamps []time.Time
	pointIndex         int

	activeBackgroundWorkers sync.WaitGroup
	cancelCtx               context.Context
	cancel                  context.CancelFunc
}

// NewExecutionEngine constructs an idle engine. clk defaults to the wall
// clock if nil. managing controls whether ensureActive is permitted to
// load/unload and switch controllers, or must only verify they are already
// active.
func NewExecutionEngine(
	registry *ControllerRegistry,
	selector *ControllerSelector,
	splitter *TrajectorySplitter,
	activation *Activation,
	resolver JointGroupResolver,
	cfg Config,
	clk clock.Clock,
	logger logging.Logger,
	managing bool,
) *ExecutionEngine {
	if clk == nil {
		clk = clock.New()
	}
	cancelCtx, cancel := context.WithCancel(context.Background())
	e := &ExecutionEngine{
		registry:   registry,
		selector:   selector,
		splitter:   splitter,
		activation: activation,
		resolver:   resolver,
		cfg:        cfg,
		clock:      clk,
		logger:     logger,
		managing:   managing,
		status:     StatusIdle,
		cancelCtx:  cancelCtx,
		cancel:     cancel,
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

func (e *ExecutionEngine) availableControllerNames() []string {
	snapshot := e.registry.Snapshot()
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	return names
}

// Push selects a covering controller combination (or uses controllersHint
// if non-empty), splits traj across it, and appends the resulting
// ExecutionContext to the queue. It fails while an execution is RUNNING.
func (e *ExecutionEngine) Push(traj trajectory.Trajectory, controllersHint []string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == StatusRunning {
		return false
	}

	controllers := controllersHint
	if len(controllers) == 0 {
		selected, ok := e.selector.Select(traj.ActuatedJoints(), e.availableControllerNames(), e.managing)
		if !ok {
			return false
		}
		controllers = selected
	}

	parts := e.splitter.Split(traj, controllers)
	e.queue = append(e.queue, ExecutionContext{Controllers: controllers, Parts: parts})
	return true
}

// Execute transitions IDLE -> RUNNING by starting the worker goroutine.
// It does not block. callback, if non-nil, runs with the terminal status
// once the queue drains or the execution is aborted/preempted/timed out.
// If autoClear, the queue is emptied once execution finishes.
func (e *ExecutionEngine) Execute(callback func(TerminalStatus), autoClear bool) {
	e.mu.Lock()
	if e.status == StatusRunning {
		e.mu.Unlock()
		return
	}
	e.status = StatusRunning
	e.completion = false
	e.callback = callback
	e.autoClear = autoClear
	e.mu.Unlock()

	e.activeBackgroundWorkers.Add(1)
	utils.ManagedGo(e.runWorker, e.activeBackgroundWorkers.Done)
}

// ExecuteAndWait starts execution and blocks until it reaches a terminal
// status, returning that status.
func (e *ExecutionEngine) ExecuteAndWait(autoClear bool) TerminalStatus {
	e.Execute(nil, autoClear)
	return e.WaitForExecution()
}

// WaitForExecution blocks on the completion condition variable until the
// engine reaches a terminal status (or was already there), returning it.
func (e *ExecutionEngine) WaitForExecution() TerminalStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	for !e.completion {
		e.cond.Wait()
	}
	return e.status
}

// StopExecution is idempotent. Unless RUNNING, its only effect is to empty
// the pending queue when autoClear is set. While RUNNING, it sets the
// completion flag before cancelling any active handle, so the worker
// observes the externally-triggered stop and does not overwrite whatever
// status this call (or a prior TIMED_OUT) established, then cancels every
// active handle and joins the worker. Status becomes PREEMPTED unless the
// worker had already set TIMED_OUT, which wins.
func (e *ExecutionEngine) StopExecution(autoClear bool) {
	e.mu.Lock()
	if e.status != StatusRunning {
		if autoClear {
			e.queue = nil
		}
		e.mu.Unlock()
		return
	}
	e.completion = true
	if e.status != StatusTimedOut {
		e.status = StatusPreempted
	}
	if autoClear {
		e.autoClear = true
	}
	handles := append([]ControllerHandle(nil), e.activeHandles...)
	e.mu.Unlock()

	e.cancelHandles(handles, "stop")
	e.activeBackgroundWorkers.Wait()
}

// Clear empties the pending queue. It has no effect while RUNNING.
func (e *ExecutionEngine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == StatusRunning {
		return
	}
	e.queue = nil
}

// GetLastExecutionStatus returns the most recently reached status,
// including RUNNING and IDLE.
func (e *ExecutionEngine) GetLastExecutionStatus() TerminalStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// GetCurrentExpectedIndex reports which queued context is executing and
// which point of its longest part is expected to be current, based on the
// precomputed wall-clock index and the injected clock's current time.
func (e *ExecutionEngine) GetCurrentExpectedIndex() (int, int) {
	e.mu.Lock()
	contextIndex := e.contextIndex
	e.mu.Unlock()

	e.timeMu.Lock()
	defer e.timeMu.Unlock()
	now := e.clock.Now()
	idx := 0
	for idx < len(e.expectedTimestamps) && !now.Before(e.expectedTimestamps[idx]) {
		idx++
	}
	if idx > 0 {
		idx--
	}
	return contextIndex, idx
}

// EnsureActiveControllersForGroup resolves group to its joint names via
// the injected JointGroupResolver and ensures a covering set of
// controllers is active for them.
func (e *ExecutionEngine) EnsureActiveControllersForGroup(ctx context.Context, group string) bool {
	if e.resolver == nil {
		return false
	}
	names, err := e.resolver.JointsForGroup(group)
	if err != nil {
		return false
	}
	return e.EnsureActiveControllersForJoints(ctx, names)
}

// EnsureActiveControllersForJoints ensures a covering, disjoint set of
// controllers is active for jointNames.
func (e *ExecutionEngine) EnsureActiveControllersForJoints(ctx context.Context, jointNames []string) bool {
	jointSet := make(map[string]struct{}, len(jointNames))
	for _, j := range jointNames {
		jointSet[j] = struct{}{}
	}
	_, err := e.activation.EnsureActiveForJoints(ctx, jointSet, e.availableControllerNames(), e.managing)
	return err == nil
}

// HandleEvent applies a value from the external string-valued event
// channel; unknown values are logged and ignored.
func (e *ExecutionEngine) HandleEvent(event string) {
	switch event {
	case "stop":
		e.StopExecution(false)
	default:
		if e.logger != nil {
			e.logger.Warnf("unrecognised execution event %q", event)
		}
	}
}

func (e *ExecutionEngine) runWorker() {
	finalStatus := StatusSucceeded
	for {
		e.mu.Lock()
		if e.completion {
			e.mu.Unlock()
			e.finish(finalStatus)
			return
		}
		if len(e.queue) == 0 {
			e.mu.Unlock()
			break
		}
		execCtx := e.queue[0]
		e.queue = e.queue[1:]
		e.contextIndex++
		e.mu.Unlock()

		status := e.runContext(execCtx)
		if status != StatusSucceeded {
			finalStatus = status
			break
		}
	}
	e.finish(finalStatus)
}

func (e *ExecutionEngine) finish(computedStatus TerminalStatus) {
	e.mu.Lock()
	if !e.completion {
		e.status = computedStatus
		e.completion = true
	}
	finalStatus := e.status
	autoClear := e.autoClear
	callback := e.callback
	if autoClear {
		e.queue = nil
	}
	e.contextIndex = 0
	e.mu.Unlock()

	e.timeMu.Lock()
	e.expectedTimestamps = nil
	e.pointIndex = 0
	e.timeMu.Unlock()

	e.cond.Broadcast()
	if callback != nil {
		callback(finalStatus)
	}
}

// runContext ensures execCtx's controllers are active, dispatches its
// parts in order, then waits on all handles concurrently under a shared
// timeout budget, returning the terminal status this context reached.
func (e *ExecutionEngine) runContext(execCtx ExecutionContext) TerminalStatus {
	ctx := e.cancelCtx

	if err := e.activation.EnsureActive(ctx, execCtx.Controllers, e.managing); err != nil {
		if e.logger != nil {
			e.logger.Warnf("ensureActive failed for queued context: %v", err)
		}
		return StatusFailed
	}

	handles := make([]ControllerHandle, len(execCtx.Controllers))
	for i, name := range execCtx.Controllers {
		handle, err := e.registry.manager.GetControllerHandle(ctx, name)
		if err != nil {
			e.cancelHandles(handles[:i], "handle acquisition failure")
			if e.logger != nil {
				e.logger.Warnf("no handle for controller %q: %v", name, err)
			}
			return StatusFailed
		}
		handles[i] = handle
	}

	e.mu.Lock()
	e.activeHandles = handles
	e.mu.Unlock()

	for i, part := range execCtx.Parts {
		if err := handles[i].SendTrajectory(ctx, part); err != nil {
			e.cancelHandles(handles[:i], "send failure")
			e.mu.Lock()
			e.activeHandles = nil
			e.mu.Unlock()
			if e.logger != nil {
				e.logger.Warnf("send to controller %q failed: %v", execCtx.Controllers[i], err)
			}
			return StatusAborted
		}
	}

	budget := e.timeoutBudget(execCtx)
	e.buildTimeIndex(execCtx)

	grp, gctx := errgroup.WithContext(ctx)
	results := make([]TerminalStatus, len(handles))
	for i, h := range handles {
		i, h := i, h
		grp.Go(func() error {
			if ok := h.WaitForExecution(gctx, budget); !ok {
				e.onTimeout()
			}
			results[i] = h.LastExecutionStatus()
			return nil
		})
	}
	_ = grp.Wait()

	e.mu.Lock()
	e.activeHandles = nil
	externallyDone := e.completion
	currentStatus := e.status
	e.mu.Unlock()
	e.timeMu.Lock()
	e.expectedTimestamps = nil
	e.timeMu.Unlock()

	if externallyDone {
		return currentStatus
	}
	if currentStatus == StatusTimedOut {
		return StatusTimedOut
	}
	for _, s := range results {
		if s != StatusSucceeded {
			return s
		}
	}
	return StatusSucceeded
}

// timeoutBudget computes 1.1*expectedDuration + 0.5s, where
// expectedDuration is the max over parts of (header stamp offset from now,
// if positive) and (the part's last point's timeFromStart).
func (e *ExecutionEngine) timeoutBudget(execCtx ExecutionContext) time.Duration {
	now := e.clock.Now()
	var expected time.Duration
	for _, part := range execCtx.Parts {
		var stampOffset time.Duration
		if part.Stamp.After(now) {
			stampOffset = part.Stamp.Sub(now)
		}
		d := stampOffset
		if last := part.LastTimeFromStart(); last > d {
			d = last
		}
		if d > expected {
			expected = d
		}
	}
	return time.Duration(float64(expected)*e.cfg.TimeoutSlackMultiplicative) + e.cfg.TimeoutSlackAdditive
}

// buildTimeIndex precomputes one absolute wall-clock timestamp per point
// of execCtx's longest part (by point count), for GetCurrentExpectedIndex.
func (e *ExecutionEngine) buildTimeIndex(execCtx ExecutionContext) {
	var longest *trajectory.Trajectory
	for i := range execCtx.Parts {
		if longest == nil || len(execCtx.Parts[i].Points) > len(longest.Points) {
			longest = &execCtx.Parts[i]
		}
	}

	e.timeMu.Lock()
	defer e.timeMu.Unlock()
	if longest == nil {
		e.expectedTimestamps = nil
		return
	}
	now := e.clock.Now()
	timestamps := make([]time.Time, len(longest.Points))
	for i, p := range longest.Points {
		timestamps[i] = now.Add(p.TimeFromStart)
	}
	e.expectedTimestamps = timestamps
	e.pointIndex = 0
}

// onTimeout is the "if a handle exceeds it ... set status = TIMED_OUT and
// preempt" step of the worker loop. It never joins the worker: it is
// always called from within a worker-owned goroutine.
func (e *ExecutionEngine) onTimeout() {
	e.mu.Lock()
	if e.completion || e.status == StatusTimedOut {
		e.mu.Unlock()
		return
	}
	e.status = StatusTimedOut
	handles := append([]ControllerHandle(nil), e.activeHandles...)
	e.mu.Unlock()

	e.cancelHandles(handles, "timeout")
}

func (e *ExecutionEngine) cancelHandles(handles []ControllerHandle, reason string) {
	var aggErr error
	for _, h := range handles {
		if err := h.CancelExecution(e.cancelCtx); err != nil {
			aggErr = multierr.Append(aggErr, err)
		}
	}
	if aggErr != nil && e.logger != nil {
		e.logger.Warnf("errors cancelling controller handles (%s): %v", reason, aggErr)
	}
}
