package normals

import (
	"github.com/chikichikibangbang/yavne/pkg/math3d"
	"github.com/chikichikibangbang/yavne/pkg/mesh"
)

// GroupNormal aggregates one shading group's contributing face normals into
// a single direction under the given weight mode. Only corners whose face
// holds the group's maximum influence contribute; faces below the maximum
// are excluded entirely. The result is normalized; when contributions
// cancel to zero length the zero vector is returned and callers must
// tolerate the non-unit output.
func GroupNormal(m *mesh.Mesh, group []int, mode mesh.WeightMode, cache AreaCache) math3d.Vec3 {
	attrs := m.Attrs()

	max := attrs.Influence(m.Corners[group[0]].Face)
	for _, c := range group[1:] {
		if infl := attrs.Influence(m.Corners[c].Face); infl > max {
			max = infl
		}
	}

	sum := math3d.Zero3()
	for _, c := range group {
		f := m.Corners[c].Face
		if attrs.Influence(f) != max {
			continue
		}
		switch mode {
		case mesh.WeightUniform:
			sum = sum.Add(m.Faces[f].Normal)
		case mesh.WeightAngle:
			sum = sum.Add(m.Faces[f].Normal.Scale(m.CornerAngle(c)))
		case mesh.WeightArea:
			sum = sum.Add(m.Faces[f].Normal.Scale(cache.Get(f)))
		case mesh.WeightCombined:
			sum = sum.Add(m.Faces[f].Normal.Scale(m.CornerAngle(c) * cache.Get(f)))
		case mesh.WeightUnweighted:
			sum = sum.Add(m.FromCornerSpace(c, attrs.LoopNormal(c)))
		}
	}
	return sum.Normalize()
}
