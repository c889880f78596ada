package mesh

import (
	"github.com/chikichikibangbang/yavne/pkg/math3d"
)

// FaceNormal computes the planar normal of face f using Newell's method,
// which stays stable for non-convex and slightly non-planar ngons.
func (m *Mesh) FaceNormal(f int) math3d.Vec3 {
	corners := m.Faces[f].Corners
	n := math3d.Zero3()
	for i := range corners {
		a := m.Verts[m.Corners[corners[i]].Vert].Position
		b := m.Verts[m.Corners[corners[(i+1)%len(corners)]].Vert].Position
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n.Normalize()
}

// RecalcNormals recomputes and stores every face normal.
func (m *Mesh) RecalcNormals() {
	for f := range m.Faces {
		m.Faces[f].Normal = m.FaceNormal(f)
	}
}

// FaceArea returns the planar area of face f.
func (m *Mesh) FaceArea(f int) float64 {
	corners := m.Faces[f].Corners
	sum := math3d.Zero3()
	for i := range corners {
		a := m.Verts[m.Corners[corners[i]].Vert].Position
		b := m.Verts[m.Corners[corners[(i+1)%len(corners)]].Vert].Position
		sum = sum.Add(a.Cross(b))
	}
	return sum.Len() / 2
}

// CornerAngle returns the interior angle of corner c, the angle at the
// corner's vertex between its two bounding edges.
func (m *Mesh) CornerAngle(c int) float64 {
	prev, next := m.cornerNeighbors(c)
	v := m.Verts[m.Corners[c].Vert].Position
	return m.Verts[next].Position.Sub(v).AngleBetween(m.Verts[prev].Position.Sub(v))
}

// EdgeAngle returns the dihedral angle between the two faces sharing edge
// e, or 0 when the edge is a boundary or non-manifold edge.
func (m *Mesh) EdgeAngle(e int) float64 {
	faces := m.Edges[e].Faces
	if len(faces) != 2 {
		return 0
	}
	return m.Faces[faces[0]].Normal.AngleBetween(m.Faces[faces[1]].Normal)
}

// MarkSharpByAngle flags every manifold edge whose dihedral angle exceeds
// the given threshold (radians) as sharp, and clears the flag otherwise.
func (m *Mesh) MarkSharpByAngle(angle float64) {
	for e := range m.Edges {
		if len(m.Edges[e].Faces) == 2 {
			m.Edges[e].Sharp = m.EdgeAngle(e) > angle
		}
	}
}

// cornerNeighbors returns the vertices preceding and following corner c
// along its face boundary.
func (m *Mesh) cornerNeighbors(c int) (prev, next int) {
	corners := m.Faces[m.Corners[c].Face].Corners
	n := len(corners)
	for i, cc := range corners {
		if cc == c {
			prev = m.Corners[corners[(i-1+n)%n]].Vert
			next = m.Corners[corners[(i+1)%n]].Vert
			return prev, next
		}
	}
	return 0, 0
}

// CornerSpaceBasis returns the local-to-corner-space transform of corner c:
// a basis built from the corner's two edge directions and their cross
// product. Corner space follows the surface, so authored normals stored in
// it survive deformation of the underlying geometry. Degenerate corners
// (collinear edges) fall back to the identity.
func (m *Mesh) CornerSpaceBasis(c int) (toCorner, fromCorner math3d.Mat3) {
	prev, next := m.cornerNeighbors(c)
	v := m.Verts[m.Corners[c].Vert].Position
	e1 := m.Verts[next].Position.Sub(v).Normalize()
	e2 := m.Verts[prev].Position.Sub(v).Normalize()
	n := e1.Cross(e2)
	if n.LenSq() == 0 {
		return math3d.Identity3(), math3d.Identity3()
	}

	fromCorner = math3d.Mat3FromCols(e1, e2, n.Normalize())
	toCorner, ok := fromCorner.Inverse()
	if !ok {
		return math3d.Identity3(), math3d.Identity3()
	}
	return toCorner, fromCorner
}

// ToCornerSpace transforms a local-space vector into corner c's space.
func (m *Mesh) ToCornerSpace(c int, v math3d.Vec3) math3d.Vec3 {
	toCorner, _ := m.CornerSpaceBasis(c)
	return toCorner.MulVec3(v)
}

// FromCornerSpace transforms a corner-space vector of corner c back into
// local space.
func (m *Mesh) FromCornerSpace(c int, v math3d.Vec3) math3d.Vec3 {
	_, fromCorner := m.CornerSpaceBasis(c)
	return fromCorner.MulVec3(v)
}
