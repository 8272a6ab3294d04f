package game_object

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-primitives/common"
	"github.com/Carmen-Shannon/oxy-primitives/engine/model"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestNewGameObjectDefaults(t *testing.T) {
	obj := NewGameObject(WithModel(model.NewBox()))
	if obj.Color() != common.Red {
		t.Errorf("default color = %v, want red", obj.Color())
	}
	if !obj.Enabled() {
		t.Error("objects should be enabled by default")
	}
	if obj.Name() != model.BoxName {
		t.Errorf("Name() = %q, want model name %q", obj.Name(), model.BoxName)
	}
	if obj.BindGroupProvider() == nil {
		t.Fatal("BindGroupProvider() should not be nil")
	}
	if got := obj.BindGroupProvider().Label(); got != "box_uniform" {
		t.Errorf("provider label = %q, want %q", got, "box_uniform")
	}
}

func TestModelMatrix(t *testing.T) {
	tests := []struct {
		name    string
		pos     [3]float32
		degrees float32
		in      [3]float32
		want    [3]float32
	}{
		{"identity", [3]float32{}, 0, [3]float32{1, 2, 3}, [3]float32{1, 2, 3}},
		{"translate only", [3]float32{0, 0.5, 0}, 0, [3]float32{0, 1.5, 0}, [3]float32{0, 2, 0}},
		{"rotate 90 then translate", [3]float32{1, 0, 0}, 90, [3]float32{1, 0, 0}, [3]float32{1, 0, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := NewGameObject(WithPosition(tt.pos[0], tt.pos[1], tt.pos[2]), WithRotationY(tt.degrees))
			got := common.TransformPoint(obj.ModelMatrix(), tt.in)
			for i := 0; i < 3; i++ {
				if !approx(got[i], tt.want[i]) {
					t.Fatalf("component %d = %v, want %v (got %v)", i, got[i], tt.want[i], got)
				}
			}
		})
	}
}

func TestModelMatrixDoesNotAccumulate(t *testing.T) {
	obj := NewGameObject(WithPosition(-0.5, -0.75, 0), WithRotationY(-15))
	first := obj.ModelMatrix()
	for i := 0; i < 10; i++ {
		if obj.ModelMatrix() != first {
			t.Fatalf("ModelMatrix changed on call %d", i)
		}
	}
}

func TestUniform(t *testing.T) {
	yellow := common.Color{0.8, 0.8, 0, 1}
	obj := NewGameObject(WithPosition(0, 0.5, 0), WithColor(yellow))
	u := obj.Uniform(common.Identity())
	if u.Color != [4]float32(yellow) {
		t.Errorf("Color = %v, want %v", u.Color, yellow)
	}
	if u.MVP != obj.ModelMatrix() {
		t.Error("identity view-projection should yield the model matrix")
	}

	mvp := MarshalMatrix(u.MVP)
	if got := math.Float32frombits(binary.LittleEndian.Uint32(mvp[13*4:])); got != 0.5 {
		t.Errorf("translation y in bytes = %v, want 0.5", got)
	}
	color := MarshalColor(u.Color)
	if got := math.Float32frombits(binary.LittleEndian.Uint32(color)); got != 0.8 {
		t.Errorf("color r in bytes = %v, want 0.8", got)
	}
}

func TestMarshalSizes(t *testing.T) {
	mvp := MarshalMatrix(common.Translate(1, 2, 3))
	color := MarshalColor(common.Red)
	if len(mvp)+len(color) != GPUObjectUniformSize {
		t.Fatalf("matrix %d + color %d bytes, want %d", len(mvp), len(color), GPUObjectUniformSize)
	}
	for i, want := range []float32{1, 2, 3} {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(mvp[(12+i)*4:])); got != want {
			t.Errorf("translation %d = %v, want %v", i, got, want)
		}
	}
	for i, want := range common.Red {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(color[i*4:])); got != want {
			t.Errorf("color %d = %v, want %v", i, got, want)
		}
	}
}

func TestIdentityOptions(t *testing.T) {
	tests := []struct {
		name        string
		opts        []GameObjectBuilderOption
		wantID      uint64
		wantEnabled bool
	}{
		{"defaults", nil, 0, true},
		{"preset id", []GameObjectBuilderOption{WithID(7)}, 7, true},
		{"disabled", []GameObjectBuilderOption{WithEnabled(false)}, 0, false},
		{"both", []GameObjectBuilderOption{WithID(3), WithEnabled(false)}, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := NewGameObject(tt.opts...)
			if obj.ID() != tt.wantID {
				t.Errorf("ID() = %d, want %d", obj.ID(), tt.wantID)
			}
			if obj.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", obj.Enabled(), tt.wantEnabled)
			}
		})
	}
}
