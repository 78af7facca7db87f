package arm_test

import (
	"testing"
	"time"

	"github.com/robolabs/widowlink/arm"
	"github.com/robolabs/widowlink/pad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// neutral is a centered pad snapshot: no buttons, sticks at rest.
func neutral() pad.State {
	return pad.State{DPad: pad.DPadNeutral, LeftX: 0x80, LeftY: 0x80, RightY: 0x80}
}

func TestIntegrateDeadzone(t *testing.T) {
	tn := arm.DefaultTuning()

	// 127.5 - 109 = 18.5, just inside the threshold of 20 on every axis.
	p := neutral()
	p.LeftX, p.LeftY, p.RightY = 109, 109, 109

	var s arm.State
	require.NoError(t, s.Integrate(p, 10*time.Second, tn))
	assert.Zero(t, s.Px)
	assert.Zero(t, s.Py)
	assert.Zero(t, s.Pz)

	// 127.5 - 107 = 20.5, just outside.
	p.LeftY = 107
	require.NoError(t, s.Integrate(p, time.Second, tn))
	assert.InDelta(t, 20.5*tn.Kp, s.Px, 1e-9)
	assert.Zero(t, s.Py)
}

func TestIntegrateAxisCrossMapping(t *testing.T) {
	tn := arm.DefaultTuning()

	// Left stick pushed fully left: LeftX=0 -> +Y velocity, X untouched.
	p := neutral()
	p.LeftX = 0

	var s arm.State
	require.NoError(t, s.Integrate(p, time.Second, tn))
	assert.Zero(t, s.Px)
	assert.InDelta(t, 127.5*tn.Kp, s.Py, 1e-9)

	// Right stick fully forward: RightY=0 -> +Z velocity.
	p = neutral()
	p.RightY = 0
	s = arm.State{}
	require.NoError(t, s.Integrate(p, time.Second, tn))
	assert.InDelta(t, 127.5*tn.Kp, s.Pz, 1e-9)
}

func TestIntegrateClamps(t *testing.T) {
	tn := arm.DefaultTuning()

	// Hold everything at full deflection for a long time; every target
	// must saturate at its documented bound.
	p := neutral()
	p.LeftY = 0  // +X
	p.LeftX = 0  // +Y
	p.RightY = 0 // +Z
	p.R2 = 255
	p.L2 = 255

	var s arm.State
	for i := 0; i < 100; i++ {
		require.NoError(t, s.Integrate(p, time.Second, tn))
	}
	assert.Equal(t, tn.XYLim, s.Px)
	assert.Equal(t, tn.XYLim, s.Py)
	assert.Equal(t, tn.ZLimUp, s.Pz)
	assert.Equal(t, tn.GammaLim, s.Gamma)
	assert.Equal(t, float64(arm.Q5Max), s.Q5)

	// Reverse everything; the opposite bounds must hold.
	p.LeftY = 255
	p.LeftX = 255
	p.RightY = 255
	p.R1 = true
	p.L1 = true
	for i := 0; i < 100; i++ {
		require.NoError(t, s.Integrate(p, time.Second, tn))
	}
	assert.Equal(t, -tn.XYLim, s.Px)
	assert.Equal(t, -tn.XYLim, s.Py)
	assert.Equal(t, tn.ZLimDown, s.Pz)
	assert.Equal(t, -tn.GammaLim, s.Gamma)
	assert.Equal(t, float64(0), s.Q5)
}

func TestIntegrateTriggerDirectionModifiers(t *testing.T) {
	tn := arm.DefaultTuning()

	p := neutral()
	p.R2 = 100
	p.L2 = 100

	var s arm.State
	require.NoError(t, s.Integrate(p, time.Second, tn))
	assert.InDelta(t, 100*tn.Kg, s.Gamma, 1e-9)
	assert.InDelta(t, 100*tn.Kq5, s.Q5, 1e-9)

	// R1/L1 flip the direction without contributing magnitude.
	p.R1 = true
	p.L1 = true
	require.NoError(t, s.Integrate(p, time.Second, tn))
	assert.InDelta(t, 0, s.Gamma, 1e-9)
	assert.InDelta(t, 0, s.Q5, 1e-9)
}

func TestIntegrateZeroDtIsNoOp(t *testing.T) {
	tn := arm.DefaultTuning()

	p := neutral()
	p.LeftY = 0
	p.R2 = 255
	p.L2 = 255

	s := arm.State{Px: 1, Py: 2, Pz: 3, Gamma: 4, Q5: 5}
	before := s
	require.NoError(t, s.Integrate(p, 0, tn))
	before.Grip = arm.GripFor(p) // grip intent still tracks the buttons
	assert.Equal(t, before, s)
}

func TestIntegrateNegativeDt(t *testing.T) {
	var s arm.State
	err := s.Integrate(neutral(), -time.Millisecond, arm.DefaultTuning())
	assert.ErrorIs(t, err, arm.ErrClockSkew)
	assert.Equal(t, arm.State{}, s)
}

func TestGripFor(t *testing.T) {
	type testCase struct {
		name          string
		cross, circle bool
		expected      arm.Grip
	}

	cases := []testCase{
		{name: "neither", expected: arm.GripVoid},
		{name: "circle opens", circle: true, expected: arm.GripOpen},
		{name: "cross closes", cross: true, expected: arm.GripClose},
		{name: "both is a no-op code", cross: true, circle: true, expected: arm.GripBoth},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := neutral()
			p.Cross = tc.cross
			p.Circle = tc.circle
			assert.Equal(t, tc.expected, arm.GripFor(p))
		})
	}
}
