package common

import (
	"math"
	"testing"
)

const eps = 1e-5

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) <= eps*math.Max(1, math.Abs(float64(b)))
}

func assertMat(t *testing.T, got, want Mat4) {
	t.Helper()
	for i := range got {
		if !approx(got[i], want[i]) {
			t.Fatalf("element %d: got %v, want %v\n got  %v\n want %v", i, got[i], want[i], got, want)
		}
	}
}

func TestMul4Identity(t *testing.T) {
	m := Translate(1, 2, 3)
	assertMat(t, Mul4(Identity(), m), m)
	assertMat(t, Mul4(m, Identity()), m)
}

func TestMul4Order(t *testing.T) {
	// translate after rotate: the rotated +X axis is moved by the translation.
	m := Mul4(Translate(0, 0.5, 0), RotateY(Radians(90)))
	p := TransformPoint(m, Vec3{1, 0, 0})
	want := [4]float32{0, 0.5, -1, 1}
	for i := range p {
		if !approx(p[i], want[i]) {
			t.Fatalf("got %v, want %v", p, want)
		}
	}
}

func TestRotateY(t *testing.T) {
	tests := []struct {
		name string
		deg  float32
		in   Vec3
		want [4]float32
	}{
		{"zero", 0, Vec3{1, 2, 3}, [4]float32{1, 2, 3, 1}},
		{"quarter turn x", 90, Vec3{1, 0, 0}, [4]float32{0, 0, -1, 1}},
		{"quarter turn z", 90, Vec3{0, 0, 1}, [4]float32{1, 0, 0, 1}},
		{"y untouched", 37, Vec3{0, 5, 0}, [4]float32{0, 5, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TransformPoint(RotateY(Radians(tt.deg)), tt.in)
			for i := range got {
				if !approx(got[i], tt.want[i]) {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestPerspectiveClosedForm(t *testing.T) {
	tests := []struct {
		w, h int
	}{
		{800, 800},
		{1920, 1080},
		{1, 1000},
	}
	const near, far = 0.1, 5000
	f := float32(1 / math.Tan(math.Pi/6))
	for _, tt := range tests {
		aspect := float32(tt.w) / float32(tt.h)
		got := Perspective(Radians(60), aspect, near, far)
		var want Mat4
		want[0] = f / aspect
		want[5] = f
		want[10] = far / (near - far)
		want[11] = -1
		want[14] = near * far / (near - far)
		assertMat(t, got, want)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	const near, far = 0.1, 5000
	p := Perspective(Radians(60), 1, near, far)

	n := TransformPoint(p, Vec3{0, 0, -near})
	if !approx(n[2]/n[3], 0) {
		t.Errorf("near plane depth = %v, want 0", n[2]/n[3])
	}
	f := TransformPoint(p, Vec3{0, 0, -far})
	if !approx(f[2]/f[3], 1) {
		t.Errorf("far plane depth = %v, want 1", f[2]/f[3])
	}
}

func TestLookAt(t *testing.T) {
	eye := Vec3{0, 0, 4}
	view := LookAt(eye, Vec3{}, Vec3{0, 1, 0})

	origin := TransformPoint(view, eye)
	for i := 0; i < 3; i++ {
		if !approx(origin[i], 0) {
			t.Fatalf("eye maps to %v, want origin", origin)
		}
	}

	target := TransformPoint(view, Vec3{})
	if !approx(target[2], -4) {
		t.Errorf("target depth = %v, want -4", target[2])
	}

	up := TransformPoint(view, Vec3{0, 5, 4})
	if up[1] <= 0 {
		t.Errorf("up vector projects to %v on camera Y, want positive", up[1])
	}
}

func TestLookAtDegenerate(t *testing.T) {
	view := LookAt(Vec3{1, 1, 1}, Vec3{1, 1, 1}, Vec3{0, 1, 0})
	for i, v := range view {
		if math.IsNaN(float64(v)) {
			t.Fatalf("element %d is NaN", i)
		}
	}
}

func TestSliceToBytes(t *testing.T) {
	if SliceToBytes([]float32(nil)) != nil {
		t.Error("expected nil for empty slice")
	}
	b := SliceToBytes([]uint16{1, 2, 3})
	if len(b) != 6 {
		t.Errorf("len = %d, want 6", len(b))
	}
}

func TestViewport(t *testing.T) {
	if !(Viewport{Width: 0, Height: 10}).Empty() {
		t.Error("zero width should be empty")
	}
	if got := (Viewport{Width: 1920, Height: 1080}).Aspect(); !approx(got, 1920.0/1080.0) {
		t.Errorf("aspect = %v", got)
	}
}
