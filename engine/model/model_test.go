package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-primitives/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func TestTriangleModel(t *testing.T) {
	m := NewTriangle()
	if m.Name() != TriangleName {
		t.Errorf("Name() = %q, want %q", m.Name(), TriangleName)
	}
	if m.Indexed() {
		t.Error("triangle should not be indexed")
	}
	if m.VertexCount() != 3 {
		t.Errorf("VertexCount() = %d, want 3", m.VertexCount())
	}
	if m.IndexData() != nil {
		t.Error("IndexData() should be nil for a non-indexed model")
	}
	if m.IndexFormat() != wgpu.IndexFormatUndefined {
		t.Errorf("IndexFormat() = %v, want Undefined", m.IndexFormat())
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	want := [][3]float32{{-1, 0, 0}, {1, 0, 0}, {0, 1.5, 0}}
	for i, v := range m.Vertices() {
		if v.Position != want[i] {
			t.Errorf("vertex %d = %v, want %v", i, v.Position, want[i])
		}
	}
}

func TestBoxModel(t *testing.T) {
	m := NewBox()
	if !m.Indexed() {
		t.Fatal("box should be indexed")
	}
	if m.VertexCount() != 8 {
		t.Errorf("VertexCount() = %d, want 8", m.VertexCount())
	}
	if m.IndexCount() != 36 {
		t.Errorf("IndexCount() = %d, want 36", m.IndexCount())
	}
	if m.IndexFormat() != wgpu.IndexFormatUint16 {
		t.Errorf("IndexFormat() = %v, want Uint16", m.IndexFormat())
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestBoxCornersCoverUnitCube(t *testing.T) {
	seen := map[[3]float32]bool{}
	for _, v := range BoxVertices {
		for _, c := range v.Position {
			if c != 0 && c != 1 {
				t.Fatalf("corner %v has a coordinate outside {0,1}", v.Position)
			}
		}
		seen[v.Position] = true
	}
	if len(seen) != 8 {
		t.Errorf("box has %d distinct corners, want 8", len(seen))
	}
}

func TestBoxFacesWindOutward(t *testing.T) {
	center := [3]float32{0.5, 0.5, 0.5}
	faces := map[[3]float32]int{}

	for tri := 0; tri < len(BoxIndices)/3; tri++ {
		a := BoxVertices[BoxIndices[tri*3]].Position
		b := BoxVertices[BoxIndices[tri*3+1]].Position
		c := BoxVertices[BoxIndices[tri*3+2]].Position

		n := cross(sub(b, a), sub(c, a))
		nonZero := 0
		for _, comp := range n {
			if comp != 0 {
				nonZero++
			}
		}
		if nonZero != 1 {
			t.Fatalf("triangle %d normal %v is not axis aligned", tri, n)
		}

		out := sub(a, center)
		if n[0]*out[0]+n[1]*out[1]+n[2]*out[2] <= 0 {
			t.Errorf("triangle %d (%v %v %v) faces inward", tri, a, b, c)
		}

		var key [3]float32
		for i, comp := range n {
			if comp > 0 {
				key[i] = 1
			} else if comp < 0 {
				key[i] = -1
			}
		}
		faces[key]++
	}

	if len(faces) != 6 {
		t.Fatalf("box covers %d faces, want 6", len(faces))
	}
	for face, count := range faces {
		if count != 2 {
			t.Errorf("face %v has %d triangles, want 2", face, count)
		}
	}
}

func TestWidenIndices(t *testing.T) {
	if WidenIndices(nil) != nil {
		t.Error("WidenIndices(nil) should be nil")
	}
	got := WidenIndices([]uint8{0, 7, 255})
	want := []uint16{0, 7, 255}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestIndexData(t *testing.T) {
	m := NewBox()
	data := m.IndexData()
	if len(data) != 72 {
		t.Fatalf("len(IndexData()) = %d, want 72", len(data))
	}
	for i, idx := range BoxIndices {
		if got := binary.LittleEndian.Uint16(data[i*2:]); got != uint16(idx) {
			t.Errorf("index %d = %d, want %d", i, got, idx)
		}
	}
}

func TestVertexData(t *testing.T) {
	m := NewTriangle()
	data := m.VertexData()
	if len(data) != 36 {
		t.Fatalf("len(VertexData()) = %d, want 36", len(data))
	}
	// apex y
	if got := math.Float32frombits(binary.LittleEndian.Uint32(data[28:])); got != 1.5 {
		t.Errorf("apex y = %v, want 1.5", got)
	}
}

func TestGPUVertexLayout(t *testing.T) {
	v := GPUVertex{Position: [3]float32{1, -2, 3}}
	if v.Size() != 12 {
		t.Errorf("Size() = %d, want 12", v.Size())
	}
	buf := v.Marshal()
	for i, want := range v.Position {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])); got != want {
			t.Errorf("component %d = %v, want %v", i, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []ModelBuilderOption
		wantErr bool
	}{
		{"empty", nil, true},
		{"partial triangle", []ModelBuilderOption{WithVertices(TriangleVertices[:2])}, true},
		{"index out of range", []ModelBuilderOption{WithVertices(TriangleVertices), WithIndices([]uint8{0, 1, 3})}, true},
		{"index count not whole", []ModelBuilderOption{WithVertices(TriangleVertices), WithIndices([]uint8{0, 1})}, true},
		{"indexed triangle", []ModelBuilderOption{WithVertices(TriangleVertices), WithIndices([]uint8{0, 1, 2})}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModel(tt.opts...).Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsCopyInput(t *testing.T) {
	verts := []GPUVertex{{Position: [3]float32{1, 2, 3}}}
	m := NewModel(WithVertices(verts))
	verts[0].Position[0] = 99
	if m.Vertices()[0].Position[0] != 1 {
		t.Error("WithVertices should copy its input")
	}
}

func TestIndices(t *testing.T) {
	if NewTriangle().Indices() != nil {
		t.Error("triangle Indices() should be nil")
	}
	src := []uint8{0, 1, 2}
	m := NewModel(WithVertices(TriangleVertices), WithIndices(src))
	src[0] = 9
	got := m.Indices()
	if len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Errorf("Indices() = %v, want [0 1 2]", got)
	}
}

func TestMeshProvider(t *testing.T) {
	if NewBox().MeshProvider() != nil {
		t.Error("MeshProvider() should be nil before upload")
	}
	p := bind_group_provider.NewBindGroupProvider("box_mesh")
	m := NewModel(WithName(BoxName), WithMeshProvider(p))
	if m.MeshProvider() != p {
		t.Error("WithMeshProvider did not set the provider")
	}
	q := bind_group_provider.NewBindGroupProvider("box_mesh_2")
	m.SetMeshProvider(q)
	if m.MeshProvider() != q {
		t.Error("SetMeshProvider did not replace the provider")
	}
}
