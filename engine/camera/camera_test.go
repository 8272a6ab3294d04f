package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-primitives/common"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 1e-5*math.Max(1, math.Abs(float64(b)))
}

// closedFormProjection computes the zero-to-one right-handed perspective in float64.
func closedFormProjection(fovDeg, aspect, near, far float64) common.Mat4 {
	f := 1 / math.Tan(fovDeg*math.Pi/180/2)
	var m common.Mat4
	m[0] = float32(f / aspect)
	m[5] = float32(f)
	m[10] = float32(far / (near - far))
	m[11] = -1
	m[14] = float32(near * far / (near - far))
	return m
}

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	if c.Eye() != (common.Vec3{0, 0, 4}) || c.Target() != (common.Vec3{}) || c.Up() != (common.Vec3{0, 1, 0}) {
		t.Errorf("eye/target/up = %v %v %v", c.Eye(), c.Target(), c.Up())
	}
	if !approx(c.Fov(), float32(math.Pi/3)) {
		t.Errorf("Fov() = %v, want pi/3", c.Fov())
	}
	if c.Near() != 0.1 || c.Far() != 5000 || c.Aspect() != 1 {
		t.Errorf("near/far/aspect = %v %v %v", c.Near(), c.Far(), c.Aspect())
	}
}

func TestProjectionClosedForm(t *testing.T) {
	tests := []struct {
		width, height int
	}{
		{800, 800},
		{1920, 1080},
		{1, 1000},
	}
	for _, tt := range tests {
		c := NewCamera()
		if !c.Resize(tt.width, tt.height) {
			t.Fatalf("Resize(%d, %d) was ignored", tt.width, tt.height)
		}
		want := closedFormProjection(60, float64(tt.width)/float64(tt.height), 0.1, 5000)
		got := c.ProjectionMatrix()
		for i := range got {
			if !approx(got[i], want[i]) {
				t.Errorf("%dx%d element %d = %v, want %v", tt.width, tt.height, i, got[i], want[i])
			}
		}
	}
}

func TestViewMapsEyeToOrigin(t *testing.T) {
	c := NewCamera()
	p := common.TransformPoint(c.ViewMatrix(), c.Eye())
	for i, want := range [4]float32{0, 0, 0, 1} {
		if !approx(p[i], want) {
			t.Fatalf("view * eye = %v, want origin", p)
		}
	}

	eye := c.Eye()
	above := common.TransformPoint(c.ViewMatrix(), common.Vec3{eye[0], eye[1] + 1, eye[2]})
	if above[1] <= 0 {
		t.Errorf("up should project onto +Y in view space, got %v", above)
	}

	target := common.TransformPoint(c.ViewMatrix(), c.Target())
	if !approx(target[2], -4) {
		t.Errorf("target view z = %v, want -4", target[2])
	}
}

func TestOriginProjectsInsideDepthRange(t *testing.T) {
	c := NewCamera()
	c.Resize(800, 800)
	clip := common.TransformPoint(c.ViewProjectionMatrix(), common.Vec3{})
	if !approx(clip[3], 4) {
		t.Fatalf("w = %v, want 4", clip[3])
	}
	z := clip[2] / clip[3]
	if z <= 0 || z >= 1 {
		t.Errorf("ndc depth = %v, want inside (0, 1)", z)
	}
	if !approx(clip[0], 0) || !approx(clip[1], 0) {
		t.Errorf("origin should land at screen center, got %v", clip)
	}
}

func TestResizeIdempotent(t *testing.T) {
	c := NewCamera()
	c.Resize(1024, 768)
	first := c.ProjectionMatrix()
	firstVP := c.ViewProjectionMatrix()
	c.Resize(1024, 768)
	if c.ProjectionMatrix() != first || c.ViewProjectionMatrix() != firstVP {
		t.Error("resizing to the same size changed the matrices")
	}
}

func TestResizeIgnoresEmptyViewport(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 600},
		{"zero height", 800, 0},
		{"both zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera()
			c.Resize(800, 600)
			before := c.ProjectionMatrix()
			if c.Resize(tt.width, tt.height) {
				t.Error("Resize reported a rebuild for an empty viewport")
			}
			if c.ProjectionMatrix() != before {
				t.Error("matrices changed for an empty viewport")
			}
		})
	}
}

func TestBuilderOptions(t *testing.T) {
	c := NewCamera(WithEye(1, 2, 3), WithTarget(0, 1, 0), WithUp(0, 0, 1), WithFov(90), WithNear(1), WithFar(10))
	if c.Eye() != (common.Vec3{1, 2, 3}) || c.Target() != (common.Vec3{0, 1, 0}) || c.Up() != (common.Vec3{0, 0, 1}) {
		t.Errorf("eye/target/up = %v %v %v", c.Eye(), c.Target(), c.Up())
	}
	if !approx(c.Fov(), float32(math.Pi/2)) || c.Near() != 1 || c.Far() != 10 {
		t.Errorf("fov/near/far = %v %v %v", c.Fov(), c.Near(), c.Far())
	}
	want := closedFormProjection(90, 1, 1, 10)
	got := c.ProjectionMatrix()
	for i := range got {
		if !approx(got[i], want[i]) {
			t.Fatalf("element %d = %v, want %v", i, got[i], want[i])
		}
	}
}
