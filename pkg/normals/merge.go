package normals

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/chikichikibangbang/yavne/pkg/math3d"
	"github.com/chikichikibangbang/yavne/pkg/mesh"
)

// MergeOptions configures a merge operation.
type MergeOptions struct {
	// Distance is the maximum distance between merged vertex normals.
	Distance float64
	// IncludeUnselected also merges unselected vertices within range of a
	// selected one.
	IncludeUnselected bool
}

// Merge merges the normals of selected vertices lying within the merge
// distance of each other into one shared value. Each cluster member is
// promoted to the unweighted mode and its corners receive the cluster
// normal in corner space, so the value survives later compute passes.
// Every selected vertex is resolved exactly once; clusters of one member
// whose seed already carries a single unique normal are left untouched.
// A recompute pass runs after all clusters resolve.
func Merge(ctx context.Context, m *mesh.Mesh, e *Engine, opts MergeOptions) error {
	if opts.Distance <= 0 {
		return fmt.Errorf("merge distance must be positive, got %v", opts.Distance)
	}

	attrs := m.Attrs()
	selected := attrs.SelectedVerts()
	if len(selected) == 0 {
		return nil
	}

	// Cluster normals average the current committed normals.
	if !attrs.HasSplitNormals() {
		if err := e.Compute(ctx, m); err != nil {
			return err
		}
	}

	verts := selected
	if opts.IncludeUnselected {
		verts = make([]int, len(m.Verts))
		for v := range verts {
			verts[v] = v
		}
	}
	grid := BuildGrid(m, verts, opts.Distance)

	e.log.Debug("merge pass",
		zap.Int("selected", len(selected)),
		zap.Float64("distance", opts.Distance),
		zap.Bool("unselected", opts.IncludeUnselected),
	)

	resolved := make(map[int]bool, len(selected))
	for _, seed := range selected {
		if resolved[seed] {
			continue
		}
		resolved[seed] = true

		cluster := grid.Within(m.Verts[seed].Position, opts.Distance)

		// A lone seed whose corners already agree has nothing to merge.
		if len(cluster) == 1 && uniqueNormals(m, seed) <= 1 {
			continue
		}

		merged := clusterNormal(m, cluster)
		for _, v := range cluster {
			attrs.SetWeightMode(v, mesh.WeightUnweighted)
			for _, c := range m.VertCorners(v) {
				attrs.SetLoopNormal(c, m.ToCornerSpace(c, merged))
			}
			if attrs.Selected(v) {
				resolved[v] = true
			}
		}
	}

	return e.Compute(ctx, m)
}

// clusterNormal averages each cluster member's own vertex normal (the
// normalized sum of its corners' committed normals), then normalizes the
// sum of those per-vertex normals.
func clusterNormal(m *mesh.Mesh, cluster []int) math3d.Vec3 {
	attrs := m.Attrs()
	sum := math3d.Zero3()
	for _, v := range cluster {
		vn := math3d.Zero3()
		for _, c := range m.VertCorners(v) {
			vn = vn.Add(attrs.SplitNormal(c))
		}
		sum = sum.Add(vn.Normalize())
	}
	return sum.Normalize()
}

// uniqueNormals counts the distinct committed normals across a vertex's
// corners.
func uniqueNormals(m *mesh.Mesh, v int) int {
	attrs := m.Attrs()
	seen := make(map[math3d.Vec3]struct{})
	for _, c := range m.VertCorners(v) {
		seen[attrs.SplitNormal(c)] = struct{}{}
	}
	return len(seen)
}
