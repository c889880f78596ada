package normals

import (
	"sort"

	"github.com/chikichikibangbang/yavne/pkg/mesh"
)

// AreaCache memoizes per-face area lookups for area-weighted aggregation.
// A cache instance belongs to exactly one compute worker and one pass;
// there is no cross-worker sharing or invalidation.
type AreaCache interface {
	// Get returns the weighting area attributed to face f.
	Get(f int) float64
}

// NewAreaCache returns the cache variant selected at construction: the
// linked cache when linked is set, the plain per-face cache otherwise.
func NewAreaCache(m *mesh.Mesh, linked bool, linkAngle float64) AreaCache {
	if linked {
		return &linkedAreaCache{m: m, linkAngle: linkAngle, areas: make(map[int]float64)}
	}
	return &faceAreaCache{m: m, areas: make(map[int]float64)}
}

// faceAreaCache attributes each face its own planar area.
type faceAreaCache struct {
	m     *mesh.Mesh
	areas map[int]float64
}

func (c *faceAreaCache) Get(f int) float64 {
	if a, ok := c.areas[f]; ok {
		return a
	}
	a := c.m.FaceArea(f)
	c.areas[f] = a
	return a
}

// linkedAreaCache attributes each face the summed area of its linked
// island: the faces reachable across edges whose dihedral angle is at most
// the link angle. Small faces inherit the weight of their smooth
// neighborhood.
type linkedAreaCache struct {
	m         *mesh.Mesh
	linkAngle float64
	areas     map[int]float64
}

func (c *linkedAreaCache) Get(f int) float64 {
	if a, ok := c.areas[f]; ok {
		return a
	}

	// Flood fill the face adjacency graph restricted to linked edges.
	island := []int{f}
	seen := map[int]bool{f: true}
	for n := 0; n < len(island); n++ {
		fi := island[n]
		for _, ci := range c.m.Faces[fi].Corners {
			e1, e2 := c.m.CornerEdges(ci)
			for _, e := range [2]int{e1, e2} {
				if c.m.EdgeAngle(e) > c.linkAngle {
					continue
				}
				for _, nf := range c.m.Edges[e].Faces {
					if !seen[nf] {
						seen[nf] = true
						island = append(island, nf)
					}
				}
			}
		}
	}

	// Sum in face-index order: the entry point into the island must not
	// affect the float total.
	sort.Ints(island)
	total := 0.0
	for _, fi := range island {
		total += c.m.FaceArea(fi)
	}

	for _, fi := range island {
		c.areas[fi] = total
	}
	return total
}
