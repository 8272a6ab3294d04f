package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-primitives/common"
)

type cameraImpl struct {
	mu *sync.Mutex

	eye    common.Vec3
	target common.Vec3
	up     common.Vec3

	fov    float32 // radians
	aspect float32
	near   float32
	far    float32

	viewMatrix           common.Mat4
	projectionMatrix     common.Mat4
	viewProjectionMatrix common.Mat4
}

// Camera is a fixed perspective camera. The view is set once from eye, target and up; the
// projection is rebuilt whenever the viewport changes size.
type Camera interface {
	// Eye returns the camera position.
	//
	// Returns:
	//   - common.Vec3: world-space position
	Eye() common.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - common.Vec3: world-space target
	Target() common.Vec3

	// Up returns the up vector.
	//
	// Returns:
	//   - common.Vec3: the up direction
	Up() common.Vec3

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio of the last Resize.
	//
	// Returns:
	//   - float32: width / height
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the world to view transform (column-major).
	//
	// Returns:
	//   - common.Mat4: the view matrix
	ViewMatrix() common.Mat4

	// ProjectionMatrix returns the perspective projection (column-major, depth in [0, 1]).
	//
	// Returns:
	//   - common.Mat4: the projection matrix
	ProjectionMatrix() common.Mat4

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - common.Mat4: the combined matrix
	ViewProjectionMatrix() common.Mat4

	// Resize rebuilds the projection for a viewport. A zero width or height is ignored and the
	// previous matrices stay in effect. Calling Resize twice with the same size yields
	// identical matrices.
	//
	// Parameters:
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	//
	// Returns:
	//   - bool: true if the matrices were rebuilt
	Resize(width, height int) bool
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera at (0, 0, 4) looking at the origin with +Y up, a 60 degree
// vertical field of view and clip planes at 0.1 and 5000.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		eye:    common.Vec3{0, 0, 4},
		target: common.Vec3{0, 0, 0},
		up:     common.Vec3{0, 1, 0},
		fov:    common.Radians(60),
		aspect: 1,
		near:   0.1,
		far:    5000,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Eye() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *cameraImpl) Target() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Up() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Resize(width, height int) bool {
	vp := common.Viewport{Width: width, Height: height}
	if vp.Empty() {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = vp.Aspect()
	c.updateMatrices()
	return true
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.viewMatrix = common.LookAt(c.eye, c.target, c.up)
	c.projectionMatrix = common.Perspective(c.fov, c.aspect, c.near, c.far)
	c.viewProjectionMatrix = common.Mul4(c.projectionMatrix, c.viewMatrix)
}
