package normals

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chikichikibangbang/yavne/pkg/math3d"
	"github.com/chikichikibangbang/yavne/pkg/mesh"
)

func TestChunkRange(t *testing.T) {
	tests := []struct {
		name         string
		chunk, total int
		n            int
		first, last  int
	}{
		{"4 of 4000 chunk 0", 0, 4, 4000, 0, 1000},
		{"4 of 4000 chunk 1", 1, 4, 4000, 1000, 2000},
		{"4 of 4000 chunk 2", 2, 4, 4000, 2000, 3000},
		{"4 of 4000 chunk 3", 3, 4, 4000, 3000, 4000},
		{"single chunk", 0, 1, 17, 0, 17},
		{"uneven first", 0, 3, 10, 0, 3},
		{"uneven last", 2, 3, 10, 6, 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			first, last := ChunkRange(tc.chunk, tc.total, tc.n)
			assert.Equal(t, tc.first, first)
			assert.Equal(t, tc.last, last)
		})
	}
}

func TestChunkRangeCoversDomain(t *testing.T) {
	// For any chunk count, ranges are contiguous, disjoint, and cover
	// [0, n) exactly.
	for _, total := range []int{1, 2, 3, 4, 7, 16} {
		for _, n := range []int{0, 1, 5, 100, 101, 4000} {
			prev := 0
			for chunk := range total {
				first, last := ChunkRange(chunk, total, n)
				assert.Equal(t, prev, first, "total=%d n=%d chunk=%d", total, n, chunk)
				assert.LessOrEqual(t, first, last)
				prev = last
			}
			assert.Equal(t, n, prev, "total=%d n=%d", total, n)
		}
	}
}

func TestComputeCommitsSplitNormals(t *testing.T) {
	m := hingeMesh(t, math.Pi/4, 1, 1)
	e := NewEngine(Options{UseAutoSmooth: true, SmoothAngle: math.Pi / 3}, nil)

	require.NoError(t, e.Compute(context.Background(), m))
	attrs := m.Attrs()
	require.True(t, attrs.HasSplitNormals())

	// 45 degree hinge under a 60 degree threshold smooths across the
	// shared edge: both corners of vertex 0 carry the same normal.
	corners := m.VertCorners(0)
	require.Len(t, corners, 2)
	assertVecInDelta(t, attrs.SplitNormal(corners[0]), attrs.SplitNormal(corners[1]), 1e-12)

	// Unit length on a non-degenerate mesh.
	for _, c := range corners {
		assert.InDelta(t, 1.0, attrs.SplitNormal(c).Len(), 1e-9)
	}
}

func TestComputeAutoSmoothDisabled(t *testing.T) {
	// With auto smooth off the threshold is the full half circle: a 170
	// degree hinge still forms one group.
	m := hingeMesh(t, 17*math.Pi/18, 1, 1)
	e := NewEngine(Options{UseAutoSmooth: false, SmoothAngle: 0}, nil)

	require.NoError(t, e.Compute(context.Background(), m))
	attrs := m.Attrs()
	corners := m.VertCorners(0)
	assertVecInDelta(t, attrs.SplitNormal(corners[0]), attrs.SplitNormal(corners[1]), 1e-12)
}

func TestComputeSkipsIsolatedVertex(t *testing.T) {
	m := mesh.New("isolated")
	a := m.AddVert(math3d.V3(0, 0, 0))
	b := m.AddVert(math3d.V3(1, 0, 0))
	c := m.AddVert(math3d.V3(0, 1, 0))
	m.AddVert(math3d.V3(5, 5, 5)) // no incident faces
	_, err := m.AddFace(a, b, c)
	require.NoError(t, err)
	m.BuildTopology()
	m.RecalcNormals()

	e := NewEngine(DefaultOptions(), nil)
	require.NoError(t, e.Compute(context.Background(), m))

	attrs := m.Attrs()
	for _, ci := range m.VertCorners(a) {
		assertVecInDelta(t, math3d.V3(0, 0, 1), attrs.SplitNormal(ci), 1e-9)
	}
}

func TestComputeParallelMatchesSerial(t *testing.T) {
	// Above the parallel threshold, chunked parallel execution and the
	// single-worker path produce identical per-corner output.
	const quads = 2600 // 5202 vertices
	serial := stripMesh(t, quads)
	parallel := stripMesh(t, quads)
	require.Greater(t, len(serial.Verts), ParallelThreshold)

	// Mix weight modes and influences across the mesh.
	for _, m := range []*mesh.Mesh{serial, parallel} {
		attrs := m.Attrs()
		for v := range m.Verts {
			attrs.SetWeightMode(v, mesh.WeightMode(v%5))
		}
		for f := range m.Faces {
			if f%7 == 0 {
				attrs.SetInfluence(f, mesh.InfluenceStrong)
			}
		}
	}

	opts := Options{
		UseAutoSmooth:     true,
		SmoothAngle:       math.Pi / 3,
		LinkedAreaWeights: true,
		LinkAngle:         math.Pi / 6,
	}

	optsSerial := opts
	optsSerial.Parallel = false
	require.NoError(t, NewEngine(optsSerial, nil).Compute(context.Background(), serial))

	optsParallel := opts
	optsParallel.Parallel = true
	optsParallel.Workers = 4
	require.NoError(t, NewEngine(optsParallel, nil).Compute(context.Background(), parallel))

	sa, pa := serial.Attrs(), parallel.Attrs()
	for c := range serial.Corners {
		assert.Equal(t, sa.SplitNormal(c), pa.SplitNormal(c), "corner %d", c)
	}
}

func TestComputeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Serial and parallel paths fail the same way: wrapped error, no
	// commit.
	for _, workers := range []int{1, 2} {
		m := stripMesh(t, 2600)
		e := NewEngine(Options{
			UseAutoSmooth: true,
			SmoothAngle:   math.Pi / 3,
			Parallel:      workers > 1,
			Workers:       workers,
		}, nil)

		err := e.Compute(ctx, m)
		require.Error(t, err, "workers=%d", workers)
		assert.ErrorContains(t, err, "compute pass")
		assert.False(t, m.Attrs().HasSplitNormals())
	}
}
