// Package camera frames registered targets with a damped orthographic rig.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/voxelchunk/pkg/math"
)

// Target is anything the camera should keep in view.
// Implementations must be comparable (pointer types are).
type Target interface {
	Position() math.Vec3
	Active() bool
}

// TargetRegistrar accepts framing targets. Registration is fire-and-forget.
type TargetRegistrar interface {
	AddVisibleTarget(t Target)
}

// FramingConfig holds the framing rig settings.
type FramingConfig struct {
	DampTime         float32 // Approximate time to refocus, seconds
	ScreenEdgeBuffer float32 // Space between the outermost target and the screen edge
	MinSize          float32 // Smallest orthographic half-height
	Aspect           float32 // Viewport width / height

	// View orientation (radians) and eye distance from the rig centre
	Yaw      float32
	Pitch    float32
	Distance float32
	MinPitch float32
	MaxPitch float32

	Near, Far float32

	DragSensitivity float32
}

// DefaultFramingConfig returns the default rig settings.
func DefaultFramingConfig() FramingConfig {
	return FramingConfig{
		DampTime:         0.2,
		ScreenEdgeBuffer: 4,
		MinSize:          6.5,
		Aspect:           16.0 / 9.0,
		Yaw:              math32.Pi / 3,
		Pitch:            math32.Pi * 40 / 180,
		Distance:         200,
		MinPitch:         0.1,
		MaxPitch:         1.5,
		Near:             0.1,
		Far:              1000,
		DragSensitivity:  0.005,
	}
}

// FramingRig moves towards the average position of its active targets and
// sizes an orthographic view so all of them fit.
type FramingRig struct {
	cfg     FramingConfig
	targets []Target
	seen    map[Target]struct{}

	position     math.Vec3
	desired      math.Vec3
	moveVelocity math.Vec3
	size         float32
	zoomSpeed    float32
}

// NewFramingRig creates a rig at the origin with the minimum size.
func NewFramingRig(cfg FramingConfig) *FramingRig {
	if cfg.Aspect <= 0 {
		cfg.Aspect = 1
	}
	return &FramingRig{
		cfg:  cfg,
		seen: make(map[Target]struct{}),
		size: cfg.MinSize,
	}
}

// AddVisibleTarget registers t. Registering the same target again is a no-op.
func (r *FramingRig) AddVisibleTarget(t Target) {
	if t == nil {
		return
	}
	if _, ok := r.seen[t]; ok {
		return
	}
	r.seen[t] = struct{}{}
	r.targets = append(r.targets, t)
}

// Targets returns the registered targets in registration order.
func (r *FramingRig) Targets() []Target {
	return r.targets
}

// Position returns the rig centre.
func (r *FramingRig) Position() math.Vec3 { return r.position }

// Size returns the orthographic half-height.
func (r *FramingRig) Size() float32 { return r.size }

// SetAspect updates the viewport aspect ratio.
func (r *FramingRig) SetAspect(aspect float32) {
	if aspect > 0 {
		r.cfg.Aspect = aspect
	}
}

// Update damps position and size towards the current targets.
func (r *FramingRig) Update(dt float32) {
	r.findAveragePosition()
	r.position = math.SmoothDampVec3(r.position, r.desired, &r.moveVelocity, r.cfg.DampTime, dt)

	required := r.findRequiredSize()
	r.size = math.SmoothDamp(r.size, required, &r.zoomSpeed, r.cfg.DampTime, dt)
}

// SetStartPositionAndSize snaps to the framing of the current targets without damping.
func (r *FramingRig) SetStartPositionAndSize() {
	r.findAveragePosition()
	r.position = r.desired
	r.moveVelocity = math.Vec3{}
	r.size = r.findRequiredSize()
	r.zoomSpeed = 0
}

// HandleDrag rotates the view by a mouse drag delta.
func (r *FramingRig) HandleDrag(deltaX, deltaY float32) {
	r.cfg.Yaw -= deltaX * r.cfg.DragSensitivity
	r.cfg.Pitch += deltaY * r.cfg.DragSensitivity
	if r.cfg.Pitch < r.cfg.MinPitch {
		r.cfg.Pitch = r.cfg.MinPitch
	}
	if r.cfg.Pitch > r.cfg.MaxPitch {
		r.cfg.Pitch = r.cfg.MaxPitch
	}
}

// ViewMatrix returns the view matrix looking at the rig centre.
func (r *FramingRig) ViewMatrix() math.Mat4 {
	forward, _, up := r.basis()
	eye := r.position.Sub(forward.Scale(r.cfg.Distance))
	return math.LookAt(eye, r.position, up)
}

// ProjectionMatrix returns the orthographic projection for the current size.
func (r *FramingRig) ProjectionMatrix() math.Mat4 {
	h := r.size
	w := h * r.cfg.Aspect
	return math.Ortho(-w, w, -h, h, r.cfg.Near, r.cfg.Far)
}

// findAveragePosition sets the desired position to the mean of the active
// targets, keeping the rig's own height.
func (r *FramingRig) findAveragePosition() {
	var avg math.Vec3
	n := 0
	for _, t := range r.targets {
		if !t.Active() {
			continue
		}
		avg = avg.Add(t.Position())
		n++
	}
	if n > 0 {
		avg = avg.Scale(1 / float32(n))
	}
	avg.Y = r.position.Y
	r.desired = avg
}

// findRequiredSize measures every active target in view space relative to
// the desired position.
func (r *FramingRig) findRequiredSize() float32 {
	_, right, up := r.basis()

	var size float32
	for _, t := range r.targets {
		if !t.Active() {
			continue
		}
		d := t.Position().Sub(r.desired)
		size = math32.Max(size, math32.Abs(d.Dot(up)))
		size = math32.Max(size, math32.Abs(d.Dot(right))/r.cfg.Aspect)
	}

	size += r.cfg.ScreenEdgeBuffer
	return math32.Max(size, r.cfg.MinSize)
}

// basis returns the view forward, right and up vectors.
func (r *FramingRig) basis() (forward, right, up math.Vec3) {
	cp := math32.Cos(r.cfg.Pitch)
	offset := math.Vec3{
		X: cp * math32.Sin(r.cfg.Yaw),
		Y: math32.Sin(r.cfg.Pitch),
		Z: cp * math32.Cos(r.cfg.Yaw),
	}
	forward = offset.Scale(-1).Normalize()
	right = forward.Cross(math.Vec3{Y: 1}).Normalize()
	up = right.Cross(forward)
	return forward, right, up
}
