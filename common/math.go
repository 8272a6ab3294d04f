package common

import (
	"math"
	"unsafe"
)

// Mat4 is a 4x4 float32 matrix in column-major order, the layout WGSL expects for mat4x4<f32>.
type Mat4 = [16]float32

// Vec3 is a three component float32 vector.
type Vec3 = [3]float32

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Radians converts an angle in degrees to radians.
func Radians(deg float32) float32 {
	return deg * math.Pi / 180
}

// SliceToBytes returns a byte view over a slice for GPU buffer uploads.
// The returned slice aliases the input and must not outlive it.
//
// Parameters:
//   - data: source slice of any fixed-size element type
//
// Returns:
//   - []byte: byte view of data, or nil when data is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(unsafe.Sizeof(zero))*len(data))
}

// Mul4 returns the product a * b. Applied to a column vector, b acts first.
//
// Parameters:
//   - a: left-hand matrix
//   - b: right-hand matrix
//
// Returns:
//   - Mat4: the product
func Mul4(a, b Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// RotateY returns a right-handed rotation of angle radians about the +Y axis.
func RotateY(angle float32) Mat4 {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	m := Identity()
	m[0], m[2] = c, -s
	m[8], m[10] = s, c
	return m
}

// TransformPoint applies m to the point (x, y, z, 1) and returns the homogeneous result.
//
// Parameters:
//   - m: transform to apply
//   - p: point in the source space
//
// Returns:
//   - [4]float32: x, y, z, w before perspective division
func TransformPoint(m Mat4, p Vec3) [4]float32 {
	var out [4]float32
	for row := 0; row < 4; row++ {
		out[row] = m[row]*p[0] + m[4+row]*p[1] + m[8+row]*p[2] + m[12+row]
	}
	return out
}

// Perspective builds a right-handed perspective projection that maps view space depth
// onto the WebGPU clip range [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport width divided by height
//   - near: near plane distance, greater than zero
//   - far: far plane distance, greater than near
//
// Returns:
//   - Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := float32(1 / math.Tan(float64(fovY)/2))
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (near - far)
	m[11] = -1
	m[14] = near * far / (near - far)
	return m
}

// LookAt builds a view matrix for a camera at eye looking toward target.
// A degenerate basis (eye == target, or up parallel to the view direction) falls
// back to unnormalised axes instead of producing NaNs.
//
// Parameters:
//   - eye: camera position in world space
//   - target: point the camera looks at
//   - up: approximate up direction
//
// Returns:
//   - Mat4: world to view transform
func LookAt(eye, target, up Vec3) Mat4 {
	back := normalize(Vec3{eye[0] - target[0], eye[1] - target[1], eye[2] - target[2]})
	right := normalize(cross(up, back))
	trueUp := cross(back, right)

	return Mat4{
		right[0], trueUp[0], back[0], 0,
		right[1], trueUp[1], back[1], 0,
		right[2], trueUp[2], back[2], 0,
		-dot(right, eye), -dot(trueUp, eye), -dot(back, eye), 1,
	}
}

func cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b Vec3) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func normalize(v Vec3) Vec3 {
	l := float32(math.Sqrt(float64(dot(v, v))))
	if l == 0 {
		return v
	}
	return Vec3{v[0] / l, v[1] / l, v[2] / l}
}
