package arm

import (
	"errors"
	"time"

	"github.com/robolabs/widowlink/pad"
)

// ErrClockSkew is returned when a tick is handed a negative elapsed time.
// The integration step only makes sense against a monotonic clock, so a
// negative delta means the caller's clock source is broken and the
// process must not keep commanding the arm.
var ErrClockSkew = errors.New("arm: negative elapsed time between ticks")

// Q5Max is the top of the fifth motor's position range.
const Q5Max = 1023

// Grip is the 2-bit open/close intent carried in the frame.
type Grip uint8

const (
	GripVoid  Grip = 0b00 // neither pressed
	GripOpen  Grip = 0b01
	GripClose Grip = 0b10
	GripBoth  Grip = 0b11 // both pressed, treated as no-op by the firmware
)

// GripFor derives the intent from the face buttons: cross closes, circle
// opens, both or neither is void.
func GripFor(p pad.State) Grip {
	var g Grip
	if p.Cross {
		g |= GripClose
	}
	if p.Circle {
		g |= GripOpen
	}
	return g
}

// State is the persistent arm target, mutated in place once per tick.
// It is owned exclusively by the control loop and never persisted; a
// zero State (arm at origin, gripper motor at 0, no grip intent) is the
// starting point after every process restart.
type State struct {
	Px, Py, Pz float64 // Cartesian target from the base, cm
	Gamma      float64 // wrist angle from the base Y axis, degrees
	Q5         float64 // fifth motor position, 0..1023
	Grip       Grip
}

// Integrate advances the state by one Idle tick. Stick deflections about
// the axis center become velocities (the left stick's Y axis drives X and
// its X axis drives Y, matching the arm's frame of reference), the
// triggers drive Gamma and Q5 with L1/R1 inverting their direction, and
// every result is clamped into its range. A zero dt is a valid no-op;
// a negative dt returns ErrClockSkew with the state untouched.
func (s *State) Integrate(p pad.State, dt time.Duration, tn Tuning) error {
	if dt < 0 {
		return ErrClockSkew
	}
	step := dt.Seconds()

	vx := deadzone(pad.AxisCenter-float64(p.LeftY), tn.StickThreshold)
	vy := deadzone(pad.AxisCenter-float64(p.LeftX), tn.StickThreshold)
	vz := deadzone(pad.AxisCenter-float64(p.RightY), tn.StickThreshold)

	s.Px = clamp(s.Px+vx*tn.Kp*step, -tn.XYLim, tn.XYLim)
	s.Py = clamp(s.Py+vy*tn.Kp*step, -tn.XYLim, tn.XYLim)
	s.Pz = clamp(s.Pz+vz*tn.Kp*step, tn.ZLimDown, tn.ZLimUp)

	dg := float64(p.R2) * tn.Kg * step
	if p.R1 {
		dg = -dg
	}
	s.Gamma = clamp(s.Gamma+dg, -tn.GammaLim, tn.GammaLim)

	dq := float64(p.L2) * tn.Kq5 * step
	if p.L1 {
		dq = -dq
	}
	s.Q5 = clamp(s.Q5+dq, 0, Q5Max)

	s.Grip = GripFor(p)
	return nil
}

// deadzone snaps velocities below the threshold to exactly zero so an
// un-centered stick cannot drift the target.
func deadzone(v, threshold float64) float64 {
	if v < threshold && v > -threshold {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
