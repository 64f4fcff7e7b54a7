// Package searchplan implements the search-based kinematic planner: a
// discrete graph-search environment over a robot's joint-angle
// configuration space, scored by a heuristic derived from a workspace BFS
// distance field, with collision-gated successor generation. It exposes the
// GraphEnvironment interface for an external heuristic-search algorithm to
// drive; this package performs no search itself.
package searchplan

import (
	"context"
	"time"

	"go.opencensus.io/trace"

	"go.viam.com/motioncore/logging"
	"go.viam.com/motioncore/trajectory"
)

// Successor is one outgoing edge reported by GraphEnvironment.Successors.
type Successor struct {
	ID   int
	Cost int
}

// PlanningRequest is the input to InitMDP: a start robot state and a set of
// per-joint goal constraints, scoped to a single kinematic group. Request
// parsing beyond this point (smoothing, time-parameterisation, high-level
// constraint DSLs) is out of scope for this package.
type PlanningRequest struct {
	Group string
	Start RobotState
	Goal  GoalConstraints
}

// PlanningStatistics accumulates counters over the lifetime of one
// PlanningEnvironment, mirroring the reference design's
// planning_statistics_ member that the distilled spec dropped: cheap to
// keep and useful for diagnosing why a search is slow.
type PlanningStatistics struct {
	Expansions      int
	CollisionChecks int
	ExpansionTime   time.Duration
}

// HeuristicStrategy scores the distance from one state to another. The
// reference design carries two heuristics side by side (joint-integer sum
// and workspace BFS) and only ever exercises the first; here both are
// pluggable strategies instead of one being dead, commented-out code.
type HeuristicStrategy func(env *PlanningEnvironment, fromID, toID int) int

// JointIntegerSumHeuristic is the default heuristic: the sum over joints of
// integerDistance(from, to, deltaLong), scaled by JointDistMult.
func JointIntegerSumHeuristic(env *PlanningEnvironment, fromID, toID int) int {
	from := env.table.ByID(fromID)
	to := env.table.ByID(toID)
	if from == nil || to == nil {
		return 0
	}
	sum := 0
	for j, model := range env.models {
		sum += model.IntegerDistance(from.Angles[j], to.Angles[j], env.cfg.DeltaLong)
	}
	return sum * env.cfg.JointDistMult
}

// WorkspaceBFSHeuristic scores by the precomputed BFS distance from the
// candidate's end-effector voxel to the goal voxel, ignoring joint-space
// distance entirely. Available but never selected by default, matching the
// reference design's dormant second heuristic.
func WorkspaceBFSHeuristic(env *PlanningEnvironment, fromID, toID int) int {
	from := env.table.ByID(fromID)
	if from == nil || env.bfs == nil {
		return 0
	}
	return env.bfsCostToGoal(from.XYZ.X, from.XYZ.Y, from.XYZ.Z)
}

// GraphEnvironment is the interface an external heuristic-search algorithm
// drives. PlanningEnvironment is its only implementation in this package.
type GraphEnvironment interface {
	InitMDP(ctx context.Context, req PlanningRequest) (startID, goalID int, err error)
	Successors(id int) []Successor
	GoalHeuristic(id int) int
	FromToHeuristic(from, to int) int
	SizeofCreated() int
	MaterialiseTrajectory(ids []int) trajectory.Trajectory
}

// PlanningEnvironment is the core graph environment: setup, successor
// generation, and heuristic evaluation over a discretised joint-angle
// configuration space. It is one-shot: after InitMDP, the only mutation is
// StateTable growth via Successors. There is no shrink or prune.
type PlanningEnvironment struct {
	cfg       Config
	logger    logging.Logger
	verbosity logging.Level

	kinematic KinematicModel
	checker   CollisionChecker
	distField DistanceFieldPair

	group      string
	jointNames []string
	models     []JointMotionModel
	primitives []ActionPrimitive

	table *StateTable
	bfs   *BFS3D

	heuristic HeuristicStrategy
	stats     PlanningStatistics
}

// NewPlanningEnvironment constructs an environment ready for InitMDP. The
// kinematic model, collision checker, and distance fields are external
// collaborators the caller owns; the environment exclusively owns its
// StateTable, BFS3D, action primitives, and joint-motion models for the
// lifetime of one planning query.
func NewPlanningEnvironment(
	cfg Config,
	logger logging.Logger,
	kinematic KinematicModel,
	checker CollisionChecker,
	distField DistanceFieldPair,
) *PlanningEnvironment {
	return &PlanningEnvironment{
		cfg:       cfg,
		logger:    logger,
		kinematic: kinematic,
		checker:   checker,
		distField: distField,
		table:     NewStateTable(),
		heuristic: JointIntegerSumHeuristic,
	}
}

// SetHeuristicStrategy overrides the heuristic used by GoalHeuristic and
// FromToHeuristic. Defaults to JointIntegerSumHeuristic; callers must
// opt in to WorkspaceBFSHeuristic explicitly, this package never guesses.
func (env *PlanningEnvironment) SetHeuristicStrategy(h HeuristicStrategy) {
	env.heuristic = h
}

// SetVerbosity sets the per-environment debug verbosity, replacing the
// reference design's process-wide DEBUG_OVER/PRINT_HEURISTIC_UNDER globals.
func (env *PlanningEnvironment) SetVerbosity(level logging.Level) {
	env.verbosity = level
	if env.logger != nil {
		env.logger.SetLevel(level)
	}
}

// Stats returns a snapshot of the environment's planning statistics.
func (env *PlanningEnvironment) Stats() PlanningStatistics { return env.stats }

// Close releases the environment's owned BFS3D and StateTable, scoping
// their lifetime to the environment rather than leaving them as a raw
// owning pointer with no clear teardown point.
func (env *PlanningEnvironment) Close() {
	env.bfs = nil
	env.table = NewStateTable()
}

// InitMDP performs setup: it builds the joint-motion models and action
// primitives, collision-checks the start and goal states, builds the BFS3D
// wall grid from the distance-field pair, seeds it at the goal voxel, and
// inserts the start and goal entries. It returns their state IDs.
func (env *PlanningEnvironment) InitMDP(ctx context.Context, req PlanningRequest) (startID, goalID int, err error) {
	ctx, span := trace.StartSpan(ctx, "searchplan/PlanningEnvironment.InitMDP")
	defer span.End()

	env.group = req.Group
	joints, err := env.kinematic.ActiveJoints(req.Group)
	if err != nil {
		return 0, 0, NewInvalidRobotStateError(wrapf(err, "active joints for group %q", req.Group))
	}
	if len(joints) == 0 {
		return 0, 0, NewInvalidRobotStateError(nil)
	}

	env.jointNames = make([]string, len(joints))
	env.models = make([]JointMotionModel, len(joints))
	for i, j := range joints {
		env.jointNames[i] = j.Name
		env.models[i] = JointMotionModel{Lower: j.Lower, Upper: j.Upper, Continuous: j.Continuous}
	}
	env.primitives = BuildPrimitives(len(joints), env.cfg.DeltaLong)

	startAngles, err := stateToAngles(req.Start, env.jointNames)
	if err != nil {
		return 0, 0, NewInvalidRobotStateError(err)
	}

	if env.checker == nil {
		return 0, 0, NewCollisionCheckingUnavailableError(nil)
	}
	collision, details, err := env.checker.CheckCollision(ctx, req.Start, req.Group)
	env.stats.CollisionChecks++
	if err != nil {
		return 0, 0, NewCollisionCheckingUnavailableError(err)
	}
	if collision {
		return 0, 0, NewStartInCollisionError(detailsError(details))
	}

	if err := env.buildWalls(); err != nil {
		return 0, 0, err
	}

	startCoord := discretise(startAngles, env.cfg.DeltaLong)
	startVoxel, err := env.endEffectorVoxel(ctx, req.Start)
	if err != nil {
		return 0, 0, NewInvalidRobotStateError(err)
	}
	startEntry := env.table.AddEntry(startCoord, startAngles, startVoxel, 0)
	env.table.SetStart(startEntry)

	goalState := applyGoalConstraints(req.Start, req.Goal)
	goalAngles, err := stateToAngles(goalState, env.jointNames)
	if err != nil {
		return 0, 0, NewInvalidGoalConstraintsError(err)
	}
	collision, details, err = env.checker.CheckCollision(ctx, goalState, req.Group)
	env.stats.CollisionChecks++
	if err != nil {
		return 0, 0, NewCollisionCheckingUnavailableError(err)
	}
	if collision {
		return 0, 0, NewGoalInCollisionError(detailsError(details))
	}

	goalVoxel, err := env.endEffectorVoxel(ctx, goalState)
	if err != nil {
		return 0, 0, NewInvalidGoalConstraintsError(err)
	}
	env.bfs.Run(goalVoxel.X, goalVoxel.Y, goalVoxel.Z)

	// A goal that discretises to the same coord as an existing entry (most
	// commonly the start, per the StateTable's one-entry-per-coord
	// invariant) is identified with that entry rather than duplicated.
	goalCoord := discretise(goalAngles, env.cfg.DeltaLong)
	goalEntry := env.table.Lookup(goalCoord)
	if goalEntry == nil {
		goalEntry = env.table.AddEntry(goalCoord, goalAngles, goalVoxel, 0)
	}
	env.table.SetGoal(goalEntry)

	if env.logger != nil {
		env.logger.Debugw("planning environment initialised",
			"group", req.Group, "joints", len(joints), "startID", startEntry.StateID, "goalID", goalEntry.StateID)
	}

	return startEntry.StateID, goalEntry.StateID, nil
}

// buildWalls allocates BFS3D sized to the distance field's dimensions and
// marks a cell as wall iff either field reports zero clearance there,
// restricted to interior cells (the outer 1-voxel rim is an implicit wall
// by convention and is never explicitly marked).
func (env *PlanningEnvironment) buildWalls() error {
	sx, sy, sz := env.distField.Self.Dims()
	wx, wy, wz := env.distField.World.Dims()
	if sx != wx || sy != wy || sz != wz {
		return NewFieldSizeMismatchError(nil)
	}
	env.bfs = NewBFS3D(sx, sy, sz)
	for i := 1; i < sx-1; i++ {
		for j := 1; j < sy-1; j++ {
			for k := 1; k < sz-1; k++ {
				if env.distField.Self.Distance(i, j, k) == 0 || env.distField.World.Distance(i, j, k) == 0 {
					env.bfs.SetWall(i, j, k)
				}
			}
		}
	}
	return nil
}

func (env *PlanningEnvironment) endEffectorVoxel(ctx context.Context, state RobotState) (Voxel, error) {
	pos, err := env.kinematic.EndEffectorPosition(ctx, env.group, state)
	if err != nil {
		return Voxel{}, err
	}
	voxel, ok := env.distField.World.WorldToGrid(pos)
	if !ok {
		return Voxel{}, errorsErrorf("end-effector position %v outside distance field", pos)
	}
	return voxel, nil
}

// Successors implements GraphEnvironment.Successors: the goal state is
// absorbing (returns empty); otherwise each of the 2*N primitives is
// applied, filtered by generation rejection, collision, and voxel bounds,
// then identified with the goal if within one discretisation cell of it in
// every joint, or hash-consed into the StateTable otherwise.
func (env *PlanningEnvironment) Successors(id int) []Successor {
	goal := env.table.Goal()
	if goal != nil && id == goal.StateID {
		return nil
	}
	entry := env.table.ByID(id)
	if entry == nil {
		return nil
	}

	ctx, span := trace.StartSpan(context.Background(), "searchplan/PlanningEnvironment.Successors")
	defer span.End()

	start := time.Now()
	defer func() { env.stats.ExpansionTime += time.Since(start) }()
	env.stats.Expansions++

	var out []Successor
	for primIdx, prim := range env.primitives {
		candidate, ok := prim.Apply(entry.Angles, env.models)
		if !ok {
			continue
		}

		candidateState := anglesToState(candidate, env.jointNames)
		collision, _, err := env.checker.CheckCollision(ctx, candidateState, env.group)
		env.stats.CollisionChecks++
		if err != nil || collision {
			continue
		}

		voxel, err := env.endEffectorVoxel(ctx, candidateState)
		if err != nil {
			continue
		}

		maxInt := 0
		if goal != nil {
			for j, model := range env.models {
				d := model.IntegerDistance(candidate[j], goal.Angles[j], env.cfg.DeltaLong)
				if d > maxInt {
					maxInt = d
				}
			}
		}

		var succID int
		if goal != nil && maxInt == 1 {
			succID = goal.StateID
		} else {
			coord := discretise(candidate, env.cfg.DeltaLong)
			if existing := env.table.Lookup(coord); existing != nil {
				succID = existing.StateID
			} else {
				added := env.table.AddEntry(coord, candidate, voxel, primIdx+1)
				succID = added.StateID
			}
		}

		out = append(out, Successor{ID: succID, Cost: env.cfg.EdgeCost})
	}
	return out
}

// GoalHeuristic returns Heuristic(id, goalID).
func (env *PlanningEnvironment) GoalHeuristic(id int) int {
	goal := env.table.Goal()
	if goal == nil {
		return 0
	}
	return env.FromToHeuristic(id, goal.StateID)
}

// FromToHeuristic evaluates the environment's current heuristic strategy.
func (env *PlanningEnvironment) FromToHeuristic(from, to int) int {
	return env.heuristic(env, from, to)
}

// bfsCostToGoal returns BFS3D.GetDistance(x,y,z) * BFSCellCost, exposed for
// optional workspace-guided heuristics; not used by the default heuristic.
func (env *PlanningEnvironment) bfsCostToGoal(x, y, z int) int {
	if env.bfs == nil {
		return 0
	}
	return env.bfs.GetDistance(x, y, z) * env.cfg.BFSCellCost
}

// BFSCostToGoal exposes bfsCostToGoal to callers outside the package that
// want to build their own workspace-guided heuristic strategy.
func (env *PlanningEnvironment) BFSCostToGoal(x, y, z int) int {
	return env.bfsCostToGoal(x, y, z)
}

// SizeofCreated returns the number of StateEntry values created so far.
func (env *PlanningEnvironment) SizeofCreated() int {
	return env.table.Size()
}

// MaterialiseTrajectory converts a state-ID sequence (typically produced by
// repeated Successors calls starting at InitMDP's startID) into a
// Trajectory whose points carry each state's angles in joint-name order.
// Time-parameterisation is out of scope: TimeFromStart is assigned as a
// placeholder one-second-per-point cadence for a later post-processing
// stage to overwrite.
func (env *PlanningEnvironment) MaterialiseTrajectory(ids []int) trajectory.Trajectory {
	points := make([]trajectory.Point, 0, len(ids))
	for i, id := range ids {
		entry := env.table.ByID(id)
		if entry == nil {
			continue
		}
		points = append(points, trajectory.Point{
			TimeFromStart: time.Duration(i) * time.Second,
			Positions:     append([]float64(nil), entry.Angles...),
		})
	}
	return trajectory.Trajectory{
		JointNames: append([]string(nil), env.jointNames...),
		Points:     points,
	}
}

func discretise(angles []float64, delta float64) DiscreteConfig {
	coord := make(DiscreteConfig, len(angles))
	m := JointMotionModel{}
	for i, a := range angles {
		coord[i] = m.Discretise(a, delta)
	}
	return coord
}

func stateToAngles(state RobotState, jointNames []string) ([]float64, error) {
	angles := make([]float64, len(jointNames))
	for i, name := range jointNames {
		v, ok := state[name]
		if !ok {
			return nil, errorsErrorf("robot state missing joint %q", name)
		}
		angles[i] = v
	}
	return angles, nil
}

func anglesToState(angles []float64, jointNames []string) RobotState {
	state := make(RobotState, len(jointNames))
	for i, name := range jointNames {
		state[name] = angles[i]
	}
	return state
}

func applyGoalConstraints(start RobotState, goal GoalConstraints) RobotState {
	out := make(RobotState, len(start))
	for k, v := range start {
		out[k] = v
	}
	for k, v := range goal {
		out[k] = v
	}
	return out
}
