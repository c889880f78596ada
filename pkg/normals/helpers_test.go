package normals

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chikichikibangbang/yavne/pkg/math3d"
	"github.com/chikichikibangbang/yavne/pkg/mesh"
)

// hingeMesh builds two triangles sharing the edge v0-v1, with the given
// dihedral angle between their normals. Face 0 has normal +Z and area
// area0; face 1 has normal (sin a, 0, cos a) and area area1. Vertex 0 is
// shared by both faces.
func hingeMesh(t *testing.T, angle, area0, area1 float64) *mesh.Mesh {
	t.Helper()
	m := mesh.New("hinge")
	a := m.AddVert(math3d.V3(0, 0, 0))
	b := m.AddVert(math3d.V3(0, 1, 0))
	c := m.AddVert(math3d.V3(2*area0, 0, 0))
	d := m.AddVert(math3d.V3(-2*area1*math.Cos(angle), 0, 2*area1*math.Sin(angle)))

	_, err := m.AddFace(a, c, b)
	require.NoError(t, err)
	_, err = m.AddFace(a, b, d)
	require.NoError(t, err)

	m.BuildTopology()
	m.RecalcNormals()
	return m
}

// fanMesh builds a triangle fan of n faces around a center vertex at the
// origin, all coplanar in the XY plane.
func fanMesh(t *testing.T, n int) *mesh.Mesh {
	t.Helper()
	m := mesh.New("fan")
	center := m.AddVert(math3d.V3(0, 0, 0))
	ring := make([]int, n+1)
	for i := range n + 1 {
		a := float64(i) * math.Pi / float64(n+1)
		ring[i] = m.AddVert(math3d.V3(math.Cos(a), math.Sin(a), 0))
	}
	for i := range n {
		_, err := m.AddFace(center, ring[i], ring[i+1])
		require.NoError(t, err)
	}
	m.BuildTopology()
	m.RecalcNormals()
	return m
}

// stripMesh builds a quad strip with 2*(n+1) vertices and n faces, bent
// along a sine so face normals vary.
func stripMesh(t *testing.T, n int) *mesh.Mesh {
	t.Helper()
	m := mesh.New("strip")
	for i := range n + 1 {
		z := math.Sin(float64(i) * 0.1)
		m.AddVert(math3d.V3(float64(i), 0, z))
		m.AddVert(math3d.V3(float64(i), 1, z))
	}
	for i := range n {
		_, err := m.AddFace(2*i, 2*i+2, 2*i+3, 2*i+1)
		require.NoError(t, err)
	}
	m.BuildTopology()
	m.RecalcNormals()
	return m
}

func assertVecInDelta(t *testing.T, want, got math3d.Vec3, delta float64) {
	t.Helper()
	if math.Abs(want.X-got.X) > delta || math.Abs(want.Y-got.Y) > delta || math.Abs(want.Z-got.Z) > delta {
		t.Errorf("vector = %v, want %v (±%v)", got, want, delta)
	}
}
