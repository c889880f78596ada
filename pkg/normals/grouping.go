// Package normals implements the YAVNE split-normal engine: shading-group
// partitioning, weighted normal aggregation, the chunked parallel compute
// pass, and distance-based normal merging.
package normals

import (
	"github.com/chikichikibangbang/yavne/pkg/mesh"
)

// SplitCorners partitions vertex v's incident corners into shading groups.
// Two corners join the same group when their faces share an edge at v that
// is not sharp and whose adjacent face normals differ by at most
// smoothAngle (radians). With flatFaces set, a face without its smoothing
// flag is never joined to any neighbor and its corner stays a singleton.
// The groups are pairwise disjoint and cover exactly v's corners.
func SplitCorners(m *mesh.Mesh, v int, smoothAngle float64, flatFaces bool) [][]int {
	corners := m.VertCorners(v)
	if len(corners) == 0 {
		return nil
	}

	// Union-find over local corner positions.
	parent := make([]int, len(corners))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	for i := range corners {
		for j := i + 1; j < len(corners); j++ {
			e := m.SharedEdge(v, corners[i], corners[j])
			if e < 0 {
				continue
			}
			if !smoothEdge(m, e, corners[i], corners[j], smoothAngle, flatFaces) {
				continue
			}
			union(i, j)
		}
	}

	groupOf := make(map[int]int)
	var groups [][]int
	for i, c := range corners {
		root := find(i)
		gi, ok := groupOf[root]
		if !ok {
			gi = len(groups)
			groupOf[root] = gi
			groups = append(groups, nil)
		}
		groups[gi] = append(groups[gi], c)
	}
	return groups
}

func smoothEdge(m *mesh.Mesh, e, c1, c2 int, smoothAngle float64, flatFaces bool) bool {
	if m.Edges[e].Sharp {
		return false
	}
	f1 := m.Corners[c1].Face
	f2 := m.Corners[c2].Face
	if flatFaces && (!m.Faces[f1].Smooth || !m.Faces[f2].Smooth) {
		return false
	}
	return m.Faces[f1].Normal.AngleBetween(m.Faces[f2].Normal) <= smoothAngle
}
