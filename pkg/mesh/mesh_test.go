package mesh

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chikichikibangbang/yavne/pkg/math3d"
)

// quadPair builds two unit quads sharing one edge, lying in the XY plane.
//
//	3 --- 2 --- 5
//	|  0  |  1  |
//	0 --- 1 --- 4
func quadPair(t *testing.T) *Mesh {
	t.Helper()
	m := New("quads")
	v0 := m.AddVert(math3d.V3(0, 0, 0))
	v1 := m.AddVert(math3d.V3(1, 0, 0))
	v2 := m.AddVert(math3d.V3(1, 1, 0))
	v3 := m.AddVert(math3d.V3(0, 1, 0))
	v4 := m.AddVert(math3d.V3(2, 0, 0))
	v5 := m.AddVert(math3d.V3(2, 1, 0))

	_, err := m.AddFace(v0, v1, v2, v3)
	require.NoError(t, err)
	_, err = m.AddFace(v1, v4, v5, v2)
	require.NoError(t, err)

	m.BuildTopology()
	m.RecalcNormals()
	return m
}

func TestAddFaceValidation(t *testing.T) {
	m := New("bad")
	a := m.AddVert(math3d.V3(0, 0, 0))
	b := m.AddVert(math3d.V3(1, 0, 0))

	_, err := m.AddFace(a, b)
	assert.Error(t, err, "two-vertex face")

	_, err = m.AddFace(a, b, 99)
	assert.Error(t, err, "out-of-range vertex")
}

func TestTopologyCounts(t *testing.T) {
	m := quadPair(t)

	assert.Equal(t, 6, len(m.Verts))
	assert.Equal(t, 2, len(m.Faces))
	assert.Equal(t, 8, len(m.Corners))
	assert.Equal(t, 7, len(m.Edges))
}

func TestVertCorners(t *testing.T) {
	m := quadPair(t)

	// Shared vertices carry one corner per face, outer corners one.
	assert.Len(t, m.VertCorners(1), 2)
	assert.Len(t, m.VertCorners(2), 2)
	assert.Len(t, m.VertCorners(0), 1)
	assert.Len(t, m.VertCorners(4), 1)

	for v := range m.Verts {
		for _, c := range m.VertCorners(v) {
			assert.Equal(t, v, m.Corners[c].Vert)
		}
	}
}

func TestEdgeFaces(t *testing.T) {
	m := quadPair(t)

	shared := m.EdgeBetween(1, 2)
	require.GreaterOrEqual(t, shared, 0)
	assert.Len(t, m.Edges[shared].Faces, 2)

	boundary := m.EdgeBetween(0, 1)
	require.GreaterOrEqual(t, boundary, 0)
	assert.Len(t, m.Edges[boundary].Faces, 1)

	assert.Equal(t, -1, m.EdgeBetween(0, 5))
}

func TestSharedEdge(t *testing.T) {
	m := quadPair(t)

	c1 := m.VertCorners(1)
	require.Len(t, c1, 2)
	e := m.SharedEdge(1, c1[0], c1[1])
	assert.Equal(t, m.EdgeBetween(1, 2), e)

	// Corners of faces that meet only at a vertex share no edge.
	m2 := New("bowtie")
	mid := m2.AddVert(math3d.V3(0, 0, 0))
	a := m2.AddVert(math3d.V3(-1, 0, 0))
	b := m2.AddVert(math3d.V3(-1, 1, 0))
	c := m2.AddVert(math3d.V3(1, 0, 0))
	d := m2.AddVert(math3d.V3(1, -1, 0))
	_, err := m2.AddFace(mid, a, b)
	require.NoError(t, err)
	_, err = m2.AddFace(mid, c, d)
	require.NoError(t, err)
	m2.BuildTopology()

	cm := m2.VertCorners(mid)
	require.Len(t, cm, 2)
	assert.Equal(t, -1, m2.SharedEdge(mid, cm[0], cm[1]))
}

func TestCornerEdges(t *testing.T) {
	m := quadPair(t)

	// The corner of vertex 0 in face 0 is bounded by edges 0-1 and 0-3.
	c := m.VertCorners(0)[0]
	e1, e2 := m.CornerEdges(c)
	want := []int{m.EdgeBetween(0, 1), m.EdgeBetween(0, 3)}
	assert.ElementsMatch(t, want, []int{e1, e2})
}

func TestAttrsConcurrentReads(t *testing.T) {
	// Compute workers call Attrs and its getters from multiple
	// goroutines; the accessor must not write any mesh state.
	m := quadPair(t)
	m.Attrs().SetWeightMode(0, WeightArea)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			attrs := m.Attrs()
			for v := range m.Verts {
				_ = attrs.WeightMode(v)
			}
			for f := range m.Faces {
				_ = attrs.Influence(f)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, WeightArea, m.Attrs().WeightMode(0))
}

func TestBounds(t *testing.T) {
	m := quadPair(t)
	min, max := m.Bounds()
	assert.Equal(t, math3d.V3(0, 0, 0), min)
	assert.Equal(t, math3d.V3(2, 1, 0), max)

	empty := New("empty")
	min, max = empty.Bounds()
	assert.Equal(t, math3d.Zero3(), min)
	assert.Equal(t, math3d.Zero3(), max)
}
