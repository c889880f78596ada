package normals

import (
	"math"

	"github.com/chikichikibangbang/yavne/pkg/math3d"
	"github.com/chikichikibangbang/yavne/pkg/mesh"
)

// Grid is a uniform spatial hash over mesh vertices with cell size equal
// to the merge distance. The cell lookup is a coarse prefilter; Within
// applies the exact squared-distance test. Cell population is unbounded,
// so a query over coincident points degrades to O(n) despite the fixed
// 27-cell scan.
type Grid struct {
	m        *mesh.Mesh
	cellSize float64
	cells    map[[3]int][]int
}

// BuildGrid indexes the given vertices by grid cell.
func BuildGrid(m *mesh.Mesh, verts []int, cellSize float64) *Grid {
	g := &Grid{
		m:        m,
		cellSize: cellSize,
		cells:    make(map[[3]int][]int),
	}
	for _, v := range verts {
		k := g.cellOf(m.Verts[v].Position)
		g.cells[k] = append(g.cells[k], v)
	}
	return g
}

func (g *Grid) cellOf(p math3d.Vec3) [3]int {
	return [3]int{
		int(math.Floor(p.X / g.cellSize)),
		int(math.Floor(p.Y / g.cellSize)),
		int(math.Floor(p.Z / g.cellSize)),
	}
}

// Within returns the indexed vertices whose distance to p is at most
// maxDist, gathered from the 3x3x3 cell neighborhood of p's cell.
func (g *Grid) Within(p math3d.Vec3, maxDist float64) []int {
	center := g.cellOf(p)
	maxSq := maxDist * maxDist

	var out []int
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				cell := [3]int{center[0] + dx, center[1] + dy, center[2] + dz}
				for _, v := range g.cells[cell] {
					if g.m.Verts[v].Position.DistanceSq(p) <= maxSq {
						out = append(out, v)
					}
				}
			}
		}
	}
	return out
}
