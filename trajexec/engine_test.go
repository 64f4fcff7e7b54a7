package trajexec

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"

	"go.viam.com/motioncore/trajectory"
)

type fakeHandle struct {
	name      string
	sendErr   error
	waitOK    bool
	status    TerminalStatus
	mu        sync.Mutex
	cancelled int
}

func (h *fakeHandle) Name() string { return h.name }

func (h *fakeHandle) SendTrajectory(ctx context.Context, part trajectory.Trajectory) error {
	return h.sendErr
}

func (h *fakeHandle) CancelExecution(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancelled++
	return nil
}

func (h *fakeHandle) WaitForExecution(ctx context.Context, timeout time.Duration) bool {
	return h.waitOK
}

func (h *fakeHandle) LastExecutionStatus() TerminalStatus { return h.status }

type blockingHandle struct {
	name    string
	status  TerminalStatus
	release chan struct{}
	started chan struct{}
	once    sync.Once
}

func newBlockingHandle(name string) *blockingHandle {
	return &blockingHandle{name: name, status: StatusSucceeded, release: make(chan struct{}), started: make(chan struct{}, 1)}
}

func (h *blockingHandle) Name() string { return h.name }

func (h *blockingHandle) SendTrajectory(ctx context.Context, part trajectory.Trajectory) error {
	select {
	case h.started <- struct{}{}:
	default:
	}
	return nil
}

func (h *blockingHandle) CancelExecution(ctx context.Context) error {
	h.once.Do(func() { close(h.release) })
	return nil
}

func (h *blockingHandle) WaitForExecution(ctx context.Context, timeout time.Duration) bool {
	select {
	case <-h.release:
		return true
	case <-ctx.Done():
		return false
	}
}

func (h *blockingHandle) LastExecutionStatus() TerminalStatus { return h.status }

func newEngineTestSetup(handles map[string]ControllerHandle, jointsOf map[string][]string) (*fakeManager, *ExecutionEngine) {
	mgr := newFakeManager()
	mgr.handles = handles
	for name, j := range jointsOf {
		mgr.names = append(mgr.names, name)
		mgr.jointsOf[name] = j
		mgr.loaded[name] = true
		mgr.active[name] = true
	}
	registry := NewControllerRegistry(mgr, nil, nil)
	selector := NewControllerSelector(registry)
	splitter := NewTrajectorySplitter(registry, nil)
	activation := NewActivation(registry, selector, nil, time.Second)
	ctx := context.Background()
	_ = registry.Reload(ctx)

	engine := NewExecutionEngine(registry, selector, splitter, activation, nil, DefaultConfig(), clock.NewMock(), nil, true)
	return mgr, engine
}

func singlePartTrajectory(joints []string, lastTime time.Duration) trajectory.Trajectory {
	return trajectory.Trajectory{
		JointNames: joints,
		Points: []trajectory.Point{
			{TimeFromStart: 0, Positions: make([]float64, len(joints))},
			{TimeFromStart: lastTime, Positions: make([]float64, len(joints))},
		},
	}
}

func TestScenarioE_ExecutionTimeout(t *testing.T) {
	handle := &fakeHandle{name: "arm", waitOK: false, status: StatusFailed}
	_, engine := newEngineTestSetup(map[string]ControllerHandle{"arm": handle}, map[string][]string{"arm": {"j1"}})

	traj := singlePartTrajectory([]string{"j1"}, 2*time.Second)
	test.That(t, engine.Push(traj, []string{"arm"}), test.ShouldBeTrue)

	status := engine.ExecuteAndWait(false)
	test.That(t, status, test.ShouldEqual, StatusTimedOut)
	test.That(t, engine.GetLastExecutionStatus(), test.ShouldEqual, StatusTimedOut)
	handle.mu.Lock()
	defer handle.mu.Unlock()
	test.That(t, handle.cancelled, test.ShouldBeGreaterThan, 0)
}

func TestScenarioF_Preemption(t *testing.T) {
	handle := newBlockingHandle("arm")
	_, engine := newEngineTestSetup(map[string]ControllerHandle{"arm": handle}, map[string][]string{"arm": {"j1"}})

	traj := singlePartTrajectory([]string{"j1"}, 2*time.Second)
	test.That(t, engine.Push(traj, []string{"arm"}), test.ShouldBeTrue)

	engine.Execute(nil, false)
	<-handle.started

	engine.StopExecution(false)
	status := engine.WaitForExecution()
	test.That(t, status, test.ShouldEqual, StatusPreempted)
}

func TestPushWhileRunningFails(t *testing.T) {
	handle := newBlockingHandle("arm")
	_, engine := newEngineTestSetup(map[string]ControllerHandle{"arm": handle}, map[string][]string{"arm": {"j1"}})

	traj := singlePartTrajectory([]string{"j1"}, 2*time.Second)
	test.That(t, engine.Push(traj, []string{"arm"}), test.ShouldBeTrue)
	engine.Execute(nil, false)
	<-handle.started

	test.That(t, engine.Push(traj, []string{"arm"}), test.ShouldBeFalse)

	engine.StopExecution(false)
}

func TestStopWhileIdleIsNoOp(t *testing.T) {
	_, engine := newEngineTestSetup(nil, nil)
	engine.StopExecution(false)
	test.That(t, engine.GetLastExecutionStatus(), test.ShouldEqual, StatusIdle)
}

func TestScenarioSucceeds(t *testing.T) {
	handle := &fakeHandle{name: "arm", waitOK: true, status: StatusSucceeded}
	_, engine := newEngineTestSetup(map[string]ControllerHandle{"arm": handle}, map[string][]string{"arm": {"j1"}})

	traj := singlePartTrajectory([]string{"j1"}, 100*time.Millisecond)
	test.That(t, engine.Push(traj, []string{"arm"}), test.ShouldBeTrue)

	status := engine.ExecuteAndWait(true)
	test.That(t, status, test.ShouldEqual, StatusSucceeded)
}
