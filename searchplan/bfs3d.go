package searchplan

// BFS3D performs a 6-connected wavefront propagation over a boolean wall
// grid, the workspace-distance analogue of pointcloud's VoxelGrid but keyed
// by dense integer coordinates rather than a sparse map, since the
// reference design walks every cell of a bounded distance field. Grounded
// on the wavefront/flood-fill shape of BFS3D in the MoveIt source this
// planner reimplements, and on pointcloud.VoxelCoords for the coordinate
// convention.
type BFS3D struct {
	x, y, z int
	wall    []bool
	dist    []int
	ran     bool
}

// bfsUnreachableFactor is added to X*Y*Z to form the sentinel distance for
// cells that were never visited by the last Run, or queried before any Run:
// any value >= X*Y*Z suffices per the reference design.
const bfsUnreachableFactor = 1

// NewBFS3D allocates a BFS3D over the given dimensions. All cells start as
// non-wall and at the sentinel (unreachable) distance.
func NewBFS3D(x, y, z int) *BFS3D {
	b := &BFS3D{
		x:    x,
		y:    y,
		z:    z,
		wall: make([]bool, x*y*z),
		dist: make([]int, x*y*z),
	}
	sentinel := b.sentinel()
	for i := range b.dist {
		b.dist[i] = sentinel
	}
	return b
}

// Dims returns the grid dimensions this BFS3D was constructed with.
func (b *BFS3D) Dims() (x, y, z int) { return b.x, b.y, b.z }

func (b *BFS3D) sentinel() int {
	return b.x*b.y*b.z + bfsUnreachableFactor
}

func (b *BFS3D) inBounds(x, y, z int) bool {
	return x >= 0 && x < b.x && y >= 0 && y < b.y && z >= 0 && z < b.z
}

func (b *BFS3D) idx(x, y, z int) int {
	return x + y*b.x + z*b.x*b.y
}

// SetWall marks (x,y,z) as impassable. Out-of-range coordinates are ignored.
func (b *BFS3D) SetWall(x, y, z int) {
	if !b.inBounds(x, y, z) {
		return
	}
	b.wall[b.idx(x, y, z)] = true
}

// IsWall reports whether (x,y,z) is marked impassable. Out-of-range
// coordinates report true; in-range cells, rim cells included, report
// only what SetWall has marked.
func (b *BFS3D) IsWall(x, y, z int) bool {
	if !b.inBounds(x, y, z) {
		return true
	}
	return b.wall[b.idx(x, y, z)]
}

type voxel struct{ x, y, z int }

// Run performs a 6-connected wavefront propagation from (sx,sy,sz), the
// standard BFS distance-field fill: FIFO queue, seed at distance 0, skip
// walls and already-visited cells. Distances from a prior Run are
// discarded.
func (b *BFS3D) Run(sx, sy, sz int) {
	sentinel := b.sentinel()
	for i := range b.dist {
		b.dist[i] = sentinel
	}
	b.ran = true

	if !b.inBounds(sx, sy, sz) || b.wall[b.idx(sx, sy, sz)] {
		return
	}

	queue := make([]voxel, 0, b.x*b.y*b.z/4+1)
	queue = append(queue, voxel{sx, sy, sz})
	b.dist[b.idx(sx, sy, sz)] = 0

	neighbors := [6]voxel{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		curDist := b.dist[b.idx(cur.x, cur.y, cur.z)]
		for _, n := range neighbors {
			nx, ny, nz := cur.x+n.x, cur.y+n.y, cur.z+n.z
			if !b.inBounds(nx, ny, nz) {
				continue
			}
			ni := b.idx(nx, ny, nz)
			if b.wall[ni] || b.dist[ni] != sentinel {
				continue
			}
			b.dist[ni] = curDist + 1
			queue = append(queue, voxel{nx, ny, nz})
		}
	}
}

// GetDistance returns the hop count computed by the last Run, or the
// sentinel (>= X*Y*Z) if the cell is unreached, out of bounds, or Run has
// never been called.
func (b *BFS3D) GetDistance(x, y, z int) int {
	if !b.inBounds(x, y, z) {
		return b.sentinel()
	}
	return b.dist[b.idx(x, y, z)]
}
