package math

import "github.com/chewxy/math32"

// SmoothDamp moves current towards target with a critically damped spring.
// velocity carries state between calls; smoothTime is roughly the time to reach the target.
func SmoothDamp(current, target float32, velocity *float32, smoothTime, dt float32) float32 {
	if dt <= 0 {
		return current
	}
	smoothTime = math32.Max(0.0001, smoothTime)
	omega := 2 / smoothTime

	x := omega * dt
	exp := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)
	change := current - target
	temp := (*velocity + omega*change) * dt
	*velocity = (*velocity - omega*temp) * exp
	output := target + (change+temp)*exp

	// Clamp overshoot
	if (target-current > 0) == (output > target) {
		output = target
		*velocity = 0
	}
	return output
}

// SmoothDampVec3 applies SmoothDamp per component.
func SmoothDampVec3(current, target Vec3, velocity *Vec3, smoothTime, dt float32) Vec3 {
	return Vec3{
		X: SmoothDamp(current.X, target.X, &velocity.X, smoothTime, dt),
		Y: SmoothDamp(current.Y, target.Y, &velocity.Y, smoothTime, dt),
		Z: SmoothDamp(current.Z, target.Z, &velocity.Z, smoothTime, dt),
	}
}
