// Package mesh provides the polygon mesh kernel YAVNE computes against:
// shared vertices, ngon faces, per-face corners, edges with sharpness flags,
// and the persisted attribute layers the normal engine reads and writes.
package mesh

import (
	"fmt"

	"github.com/chikichikibangbang/yavne/pkg/math3d"
)

// Vert is a mesh vertex.
type Vert struct {
	Position math3d.Vec3
}

// Edge joins two vertices and records the faces sharing it.
type Edge struct {
	V     [2]int // Vertex indices, low index first
	Sharp bool   // Authored sharpness flag
	Faces []int  // Indices of faces sharing this edge
}

// Face is an ordered polygon boundary of corners.
type Face struct {
	Corners []int       // Indices into Mesh.Corners, in boundary order
	Normal  math3d.Vec3 // Planar normal, filled by RecalcNormals
	Smooth  bool        // Face smoothing flag (flat-face isolation reads this)
}

// Corner pairs one vertex with one incident face. Per-corner attributes
// (authored and computed normals) live in the attribute store.
type Corner struct {
	Vert int
	Face int
}

// Mesh is a polygon mesh with adjacency tables built by BuildTopology.
type Mesh struct {
	Name    string
	Verts   []Vert
	Edges   []Edge
	Faces   []Face
	Corners []Corner

	attrs       AttributeStore
	vertCorners [][]int
	cornerEdges [][2]int
	edgeIndex   map[edgeKey]int
	dirty       bool
}

type edgeKey struct {
	A, B int
}

func keyFor(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// New creates an empty mesh.
func New(name string) *Mesh {
	m := &Mesh{
		Name:      name,
		edgeIndex: make(map[edgeKey]int),
	}
	m.attrs.m = m
	return m
}

// AddVert appends a vertex and returns its index.
func (m *Mesh) AddVert(pos math3d.Vec3) int {
	m.Verts = append(m.Verts, Vert{Position: pos})
	m.dirty = true
	return len(m.Verts) - 1
}

// AddFace appends a face over the given vertex indices, creating one corner
// per vertex. Faces default to smooth. Returns the face index.
func (m *Mesh) AddFace(verts ...int) (int, error) {
	if len(verts) < 3 {
		return 0, fmt.Errorf("face needs at least 3 vertices, got %d", len(verts))
	}
	for _, v := range verts {
		if v < 0 || v >= len(m.Verts) {
			return 0, fmt.Errorf("vertex index %d out of range [0, %d)", v, len(m.Verts))
		}
	}

	fi := len(m.Faces)
	corners := make([]int, len(verts))
	for i, v := range verts {
		corners[i] = len(m.Corners)
		m.Corners = append(m.Corners, Corner{Vert: v, Face: fi})
	}
	m.Faces = append(m.Faces, Face{Corners: corners, Smooth: true})
	m.dirty = true
	return fi, nil
}

// BuildTopology rebuilds the edge list and adjacency tables. It must be
// called after construction and again after any face or vertex is added.
func (m *Mesh) BuildTopology() {
	m.Edges = m.Edges[:0]
	m.edgeIndex = make(map[edgeKey]int)
	m.vertCorners = make([][]int, len(m.Verts))
	m.cornerEdges = make([][2]int, len(m.Corners))

	for fi := range m.Faces {
		corners := m.Faces[fi].Corners
		n := len(corners)
		for i := range n {
			a := m.Corners[corners[i]].Vert
			b := m.Corners[corners[(i+1)%n]].Vert
			ei := m.ensureEdge(a, b)
			m.Edges[ei].Faces = append(m.Edges[ei].Faces, fi)
		}
	}

	for ci, c := range m.Corners {
		m.vertCorners[c.Vert] = append(m.vertCorners[c.Vert], ci)

		corners := m.Faces[c.Face].Corners
		n := len(corners)
		pos := 0
		for i, cc := range corners {
			if cc == ci {
				pos = i
				break
			}
		}
		prev := m.Corners[corners[(pos-1+n)%n]].Vert
		next := m.Corners[corners[(pos+1)%n]].Vert
		m.cornerEdges[ci] = [2]int{
			m.edgeIndex[keyFor(c.Vert, prev)],
			m.edgeIndex[keyFor(c.Vert, next)],
		}
	}
	m.dirty = false
}

func (m *Mesh) ensureEdge(a, b int) int {
	k := keyFor(a, b)
	if ei, ok := m.edgeIndex[k]; ok {
		return ei
	}
	ei := len(m.Edges)
	m.Edges = append(m.Edges, Edge{V: [2]int{k.A, k.B}})
	m.edgeIndex[k] = ei
	return ei
}

// VertCorners returns the indices of the corners incident to vertex v.
// The returned slice must not be modified.
func (m *Mesh) VertCorners(v int) []int {
	return m.vertCorners[v]
}

// CornerEdges returns the two edges bounding corner c within its face.
func (m *Mesh) CornerEdges(c int) (int, int) {
	e := m.cornerEdges[c]
	return e[0], e[1]
}

// EdgeBetween returns the edge joining vertices a and b, or -1 if none.
func (m *Mesh) EdgeBetween(a, b int) int {
	if ei, ok := m.edgeIndex[keyFor(a, b)]; ok {
		return ei
	}
	return -1
}

// SharedEdge returns the edge of vertex v shared by the faces of corners
// c1 and c2, or -1 when the two corners' faces do not share an edge at v.
func (m *Mesh) SharedEdge(v, c1, c2 int) int {
	a := m.cornerEdges[c1]
	b := m.cornerEdges[c2]
	for _, ea := range a {
		for _, eb := range b {
			if ea == eb {
				return ea
			}
		}
	}
	return -1
}

// Attrs returns the mesh's attribute store. Safe to call from concurrent
// readers: it performs no writes.
func (m *Mesh) Attrs() *AttributeStore {
	return &m.attrs
}

// Bounds returns the axis-aligned bounding box of the mesh.
func (m *Mesh) Bounds() (min, max math3d.Vec3) {
	if len(m.Verts) == 0 {
		return math3d.Zero3(), math3d.Zero3()
	}
	min, max = m.Verts[0].Position, m.Verts[0].Position
	for _, v := range m.Verts[1:] {
		min = min.Min(v.Position)
		max = max.Max(v.Position)
	}
	return min, max
}
