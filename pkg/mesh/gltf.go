package mesh

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/chikichikibangbang/yavne/pkg/math3d"
)

// LoadGLB loads a GLTF or GLB file into a Mesh. Positions that compare
// exactly equal are welded into shared vertices so corners of adjacent
// triangles meet at one vertex; glTF itself stores a split vertex per
// attribute discontinuity. Topology and face normals are ready on return.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	m := New(filepath.Base(path))
	weld := make(map[[3]float32]int)

	for _, gm := range doc.Meshes {
		for _, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				// Lines and points carry no shading surface.
				continue
			}
			if err := loadPrimitive(doc, prim, m, weld); err != nil {
				return nil, fmt.Errorf("mesh %q: %w", gm.Name, err)
			}
		}
	}

	m.BuildTopology()
	m.RecalcNormals()
	return m, nil
}

func loadPrimitive(doc *gltf.Document, prim *gltf.Primitive, m *Mesh, weld map[[3]float32]int) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}
	positions, err := readVec3Accessor(doc, posIdx)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	// Weld exact-duplicate positions into shared vertices.
	verts := make([]int, len(positions))
	for i, p := range positions {
		if vi, ok := weld[p]; ok {
			verts[i] = vi
			continue
		}
		vi := m.AddVert(math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
		weld[p] = vi
		verts[i] = vi
	}

	var indices []int
	if prim.Indices != nil {
		indices, err = readIndices(doc, *prim.Indices)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]int, len(positions))
		for i := range indices {
			indices[i] = i
		}
	}

	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := verts[indices[i]], verts[indices[i+1]], verts[indices[i+2]]
		if a == b || b == c || a == c {
			// Degenerate triangle collapsed by welding.
			continue
		}
		if _, err := m.AddFace(a, b, c); err != nil {
			return err
		}
	}
	return nil
}

// SaveGLB writes the mesh as a binary glTF file. Each corner becomes one
// glTF vertex carrying the committed split normal (face normals when no
// compute pass has been committed), which is how split shading survives
// export. Ngon faces are fan-triangulated.
func (m *Mesh) SaveGLB(path string) error {
	attrs := m.Attrs()

	positions := make([][3]float32, len(m.Corners))
	normals := make([][3]float32, len(m.Corners))
	for ci, c := range m.Corners {
		p := m.Verts[c.Vert].Position
		positions[ci] = [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}

		n := m.Faces[c.Face].Normal
		if attrs.HasSplitNormals() {
			n = attrs.SplitNormal(ci)
		}
		normals[ci] = [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}
	}

	var indices []uint32
	for _, f := range m.Faces {
		for i := 1; i+1 < len(f.Corners); i++ {
			indices = append(indices,
				uint32(f.Corners[0]), uint32(f.Corners[i]), uint32(f.Corners[i+1]))
		}
	}

	doc := buildDocument(m.Name, positions, normals, indices)
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

func buildDocument(name string, positions, normals [][3]float32, indices []uint32) *gltf.Document {
	var buf []byte
	posOffset := len(buf)
	buf = appendVec3s(buf, positions)
	normOffset := len(buf)
	buf = appendVec3s(buf, normals)
	idxOffset := len(buf)
	for _, i := range indices {
		buf = binary.LittleEndian.AppendUint32(buf, i)
	}

	pmin, pmax := vecBounds(positions)
	scene, meshIdx := 0, 0
	posView, normView, idxView := 0, 1, 2
	posAcc, normAcc, idxAcc := 0, 1, 2

	return &gltf.Document{
		Asset:  gltf.Asset{Version: "2.0", Generator: "yavne"},
		Scene:  &scene,
		Scenes: []*gltf.Scene{{Nodes: []int{0}}},
		Nodes:  []*gltf.Node{{Name: name, Mesh: &meshIdx}},
		Meshes: []*gltf.Mesh{{
			Name: name,
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]int{
					gltf.POSITION: posAcc,
					gltf.NORMAL:   normAcc,
				},
				Indices: &idxAcc,
			}},
		}},
		Accessors: []*gltf.Accessor{
			{
				BufferView:    &posView,
				ComponentType: gltf.ComponentFloat,
				Type:          gltf.AccessorVec3,
				Count:         len(positions),
				Min:           pmin,
				Max:           pmax,
			},
			{
				BufferView:    &normView,
				ComponentType: gltf.ComponentFloat,
				Type:          gltf.AccessorVec3,
				Count:         len(normals),
			},
			{
				BufferView:    &idxView,
				ComponentType: gltf.ComponentUint,
				Type:          gltf.AccessorScalar,
				Count:         len(indices),
			},
		},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: posOffset, ByteLength: len(positions) * 12},
			{Buffer: 0, ByteOffset: normOffset, ByteLength: len(normals) * 12},
			{Buffer: 0, ByteOffset: idxOffset, ByteLength: len(indices) * 4},
		},
		Buffers: []*gltf.Buffer{{ByteLength: len(buf), Data: buf}},
	}
}

func appendVec3s(buf []byte, data [][3]float32) []byte {
	for _, v := range data {
		for j := range 3 {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v[j]))
		}
	}
	return buf
}

func vecBounds(data [][3]float32) (min, max []float64) {
	if len(data) == 0 {
		return nil, nil
	}
	min = []float64{float64(data[0][0]), float64(data[0][1]), float64(data[0][2])}
	max = []float64{float64(data[0][0]), float64(data[0][1]), float64(data[0][2])}
	for _, v := range data[1:] {
		for j := range 3 {
			if float64(v[j]) < min[j] {
				min[j] = float64(v[j])
			}
			if float64(v[j]) > max[j] {
				max[j] = float64(v[j])
			}
		}
	}
	return min, max
}

// readVec3Accessor reads VEC3 float data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([][3]float32, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v/%v", accessor.Type, accessor.ComponentType)
	}

	bufData, start, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([][3]float32, accessor.Count)
	for i := range accessor.Count {
		offset := start + i*stride
		for j := range 3 {
			bits := binary.LittleEndian.Uint32(bufData[offset+j*4:])
			result[i][j] = math.Float32frombits(bits)
		}
	}
	return result, nil
}

// readIndices reads scalar index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR, got %v", accessor.Type)
	}

	var compSize int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		compSize = 1
	case gltf.ComponentUshort:
		compSize = 2
	case gltf.ComponentUint:
		compSize = 4
	default:
		return nil, fmt.Errorf("unexpected index component type: %v", accessor.ComponentType)
	}

	bufData, start, stride, err := accessorBytes(doc, accessor, compSize)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range accessor.Count {
		offset := start + i*stride
		switch compSize {
		case 1:
			result[i] = int(bufData[offset])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(bufData[offset:]))
		case 4:
			result[i] = int(binary.LittleEndian.Uint32(bufData[offset:]))
		}
	}
	return result, nil
}

// accessorBytes resolves an accessor to its backing bytes, start offset,
// and element stride.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor has no buffer view")
	}
	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]

	if buffer.Data == nil {
		return nil, 0, 0, fmt.Errorf("buffer has no data (external buffers not supported)")
	}

	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	return buffer.Data, bufferView.ByteOffset + accessor.ByteOffset, stride, nil
}
