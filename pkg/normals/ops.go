package normals

import (
	"context"

	"github.com/chikichikibangbang/yavne/pkg/math3d"
	"github.com/chikichikibangbang/yavne/pkg/mesh"
)

// SetWeightMode assigns the weight mode to the given vertices and runs a
// compute pass. Assigning the unweighted mode first captures each corner's
// current computed normal into the authored loop-normal layer in corner
// space, so the shading the author sees is what the mode freezes.
func SetWeightMode(ctx context.Context, m *mesh.Mesh, e *Engine, verts []int, mode mesh.WeightMode) error {
	attrs := m.Attrs()

	if mode == mesh.WeightUnweighted {
		if !attrs.HasSplitNormals() {
			if err := e.Compute(ctx, m); err != nil {
				return err
			}
		}
		for _, v := range verts {
			for _, c := range m.VertCorners(v) {
				attrs.SetLoopNormal(c, m.ToCornerSpace(c, attrs.SplitNormal(c)))
			}
		}
	}

	for _, v := range verts {
		attrs.SetWeightMode(v, mode)
	}
	return e.Compute(ctx, m)
}

// SetFaceInfluence assigns the normal influence to the given faces and
// runs a compute pass.
func SetFaceInfluence(ctx context.Context, m *mesh.Mesh, e *Engine, faces []int, infl mesh.FaceInfluence) error {
	attrs := m.Attrs()
	for _, f := range faces {
		attrs.SetInfluence(f, infl)
	}
	return e.Compute(ctx, m)
}

// SetVertexNormal writes one local-space normal to every corner of the
// given vertices, in each corner's space, and promotes the vertices to the
// unweighted mode before recomputing.
func SetVertexNormal(ctx context.Context, m *mesh.Mesh, e *Engine, verts []int, normal math3d.Vec3) error {
	attrs := m.Attrs()
	for _, v := range verts {
		attrs.SetWeightMode(v, mesh.WeightUnweighted)
		for _, c := range m.VertCorners(v) {
			attrs.SetLoopNormal(c, m.ToCornerSpace(c, normal))
		}
	}
	return e.Compute(ctx, m)
}

// SelectByWeightMode returns the vertices carrying the given weight mode,
// in ascending order.
func SelectByWeightMode(m *mesh.Mesh, mode mesh.WeightMode) []int {
	attrs := m.Attrs()
	var out []int
	for v := range m.Verts {
		if attrs.WeightMode(v) == mode {
			out = append(out, v)
		}
	}
	return out
}

// SelectByInfluence returns the faces carrying the given normal influence,
// in ascending order.
func SelectByInfluence(m *mesh.Mesh, infl mesh.FaceInfluence) []int {
	attrs := m.Attrs()
	var out []int
	for f := range m.Faces {
		if attrs.Influence(f) == infl {
			out = append(out, f)
		}
	}
	return out
}
