package mesh

import (
	"fmt"
	"strings"

	"github.com/chikichikibangbang/yavne/pkg/math3d"
)

// WeightMode selects how a vertex's contributing face normals combine into
// one shading-group normal. The integer encoding is persisted with meshes
// and must not be reordered.
type WeightMode int

const (
	WeightUniform    WeightMode = 0
	WeightAngle      WeightMode = 1
	WeightArea       WeightMode = 2
	WeightCombined   WeightMode = 3
	WeightUnweighted WeightMode = 4
)

// String returns the lower-case name of the mode.
func (w WeightMode) String() string {
	switch w {
	case WeightUniform:
		return "uniform"
	case WeightAngle:
		return "angle"
	case WeightArea:
		return "area"
	case WeightCombined:
		return "combined"
	case WeightUnweighted:
		return "unweighted"
	}
	return fmt.Sprintf("weightmode(%d)", int(w))
}

// ParseWeightMode parses a mode name as used in config files and CLI flags.
func ParseWeightMode(s string) (WeightMode, error) {
	switch strings.ToLower(s) {
	case "uniform":
		return WeightUniform, nil
	case "angle":
		return WeightAngle, nil
	case "area":
		return WeightArea, nil
	case "combined":
		return WeightCombined, nil
	case "unweighted":
		return WeightUnweighted, nil
	}
	return 0, fmt.Errorf("unknown weight mode %q", s)
}

// FaceInfluence ranks which faces' normals dominate a shading group. Within
// a group only faces holding the maximum influence contribute. The integer
// encoding is persisted with meshes and must not be reordered.
type FaceInfluence int

const (
	InfluenceWeak   FaceInfluence = -1
	InfluenceMedium FaceInfluence = 0
	InfluenceStrong FaceInfluence = 1
)

// String returns the lower-case name of the influence level.
func (f FaceInfluence) String() string {
	switch f {
	case InfluenceWeak:
		return "weak"
	case InfluenceMedium:
		return "medium"
	case InfluenceStrong:
		return "strong"
	}
	return fmt.Sprintf("influence(%d)", int(f))
}

// ParseFaceInfluence parses an influence name as used in config files and
// CLI flags.
func ParseFaceInfluence(s string) (FaceInfluence, error) {
	switch strings.ToLower(s) {
	case "weak":
		return InfluenceWeak, nil
	case "medium":
		return InfluenceMedium, nil
	case "strong":
		return InfluenceStrong, nil
	}
	return 0, fmt.Errorf("unknown face influence %q", s)
}

// AttributeStore holds the per-vertex, per-face, and per-corner attribute
// layers that persist with the mesh. Layers are created lazily on first use
// and sized to the mesh at that moment; getters on absent layers return
// zero values without creating anything.
type AttributeStore struct {
	m *Mesh

	weightModes   []WeightMode
	influences    []FaceInfluence
	loopNormals   []math3d.Vec3
	splitNormals  []math3d.Vec3
	selectedVerts []bool
}

// WeightMode returns the weight mode of vertex v (WeightUniform when the
// layer has not been created).
func (a *AttributeStore) WeightMode(v int) WeightMode {
	if a.weightModes == nil {
		return WeightUniform
	}
	return a.weightModes[v]
}

// SetWeightMode assigns the weight mode of vertex v.
func (a *AttributeStore) SetWeightMode(v int, w WeightMode) {
	if a.weightModes == nil {
		a.weightModes = make([]WeightMode, len(a.m.Verts))
	}
	a.weightModes[v] = w
}

// Influence returns the normal influence of face f (InfluenceMedium when
// the layer has not been created).
func (a *AttributeStore) Influence(f int) FaceInfluence {
	if a.influences == nil {
		return InfluenceMedium
	}
	return a.influences[f]
}

// SetInfluence assigns the normal influence of face f.
func (a *AttributeStore) SetInfluence(f int, infl FaceInfluence) {
	if a.influences == nil {
		a.influences = make([]FaceInfluence, len(a.m.Faces))
	}
	a.influences[f] = infl
}

// LoopNormal returns the authored corner-space normal of corner c. It is
// meaningful only while the owning vertex is WeightUnweighted.
func (a *AttributeStore) LoopNormal(c int) math3d.Vec3 {
	if a.loopNormals == nil {
		return math3d.Zero3()
	}
	return a.loopNormals[c]
}

// SetLoopNormal assigns the authored corner-space normal of corner c.
func (a *AttributeStore) SetLoopNormal(c int, n math3d.Vec3) {
	if a.loopNormals == nil {
		a.loopNormals = make([]math3d.Vec3, len(a.m.Corners))
	}
	a.loopNormals[c] = n
}

// HasSplitNormals reports whether a compute pass has committed split
// normals to this mesh.
func (a *AttributeStore) HasSplitNormals() bool {
	return a.splitNormals != nil
}

// SplitNormal returns the committed split normal of corner c.
func (a *AttributeStore) SplitNormal(c int) math3d.Vec3 {
	if a.splitNormals == nil {
		return math3d.Zero3()
	}
	return a.splitNormals[c]
}

// CommitSplitNormals writes a full per-corner normal array into the mesh's
// split-normal layer. The buffer length must equal the corner count.
func (a *AttributeStore) CommitSplitNormals(normals []math3d.Vec3) error {
	if len(normals) != len(a.m.Corners) {
		return fmt.Errorf("split normal buffer has %d entries, mesh has %d corners",
			len(normals), len(a.m.Corners))
	}
	if a.splitNormals == nil {
		a.splitNormals = make([]math3d.Vec3, len(a.m.Corners))
	}
	copy(a.splitNormals, normals)
	return nil
}

// Selected reports whether vertex v is selected.
func (a *AttributeStore) Selected(v int) bool {
	if a.selectedVerts == nil {
		return false
	}
	return a.selectedVerts[v]
}

// SetSelected marks vertex v as selected or not.
func (a *AttributeStore) SetSelected(v int, sel bool) {
	if a.selectedVerts == nil {
		a.selectedVerts = make([]bool, len(a.m.Verts))
	}
	a.selectedVerts[v] = sel
}

// SelectedVerts returns the selected vertex indices in ascending order.
func (a *AttributeStore) SelectedVerts() []int {
	var out []int
	for v := range a.selectedVerts {
		if a.selectedVerts[v] {
			out = append(out, v)
		}
	}
	return out
}
