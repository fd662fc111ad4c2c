package main

import (
	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/softengine/pkg/math3d"
)

// RotationAxis tracks angle and angular velocity for one axis. Velocity
// eases back to zero on a critically damped spring.
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

// NewRotationAxis creates an axis stepped fps times per second.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update advances the angle by the velocity, then decays the velocity.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// RotationState drives a mesh's yaw, pitch and roll from user impulses.
type RotationState struct {
	Pitch, Yaw, Roll RotationAxis
	fps              int
}

func NewRotationState(fps int) *RotationState {
	fps = max(fps, 1)
	return &RotationState{
		Pitch: NewRotationAxis(fps),
		Yaw:   NewRotationAxis(fps),
		Roll:  NewRotationAxis(fps),
		fps:   fps,
	}
}

func (r *RotationState) Update() {
	r.Pitch.Update()
	r.Yaw.Update()
	r.Roll.Update()
}

func (r *RotationState) ApplyImpulse(pitch, yaw, roll float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
	r.Roll.Velocity += roll
}

func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
	r.Roll = NewRotationAxis(r.fps)
}

// Angles returns the rotation in mesh order: X pitch, Y yaw, Z roll.
func (r *RotationState) Angles() math3d.Vec3 {
	return math3d.V3(r.Pitch.Position, r.Yaw.Position, r.Roll.Position)
}

// torque is held-key input, applied every frame and faded out since key
// release events are not reported by every terminal.
type torque struct {
	pitch, yaw, roll float64
}

const (
	torqueStrength = 3.0
	torqueDecay    = 0.9
)

// apply feeds dt seconds of torque into r and decays it.
func (t *torque) apply(r *RotationState, dt float64) {
	r.ApplyImpulse(t.pitch*dt, t.yaw*dt, t.roll*dt)
	t.pitch *= torqueDecay
	t.yaw *= torqueDecay
	t.roll *= torqueDecay
}
