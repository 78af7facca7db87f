package arm_test

import (
	"testing"

	"github.com/robolabs/widowlink/arm"
	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tn := arm.DefaultTuning()

	type testCase struct {
		name     string
		state    arm.State
		mode     arm.Mode
		expected arm.Frame
	}

	cases := []testCase{
		{
			name:     "zero state idle",
			state:    arm.State{},
			mode:     arm.Idle,
			expected: arm.Frame{0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
		{
			// round(10 * 127/43) = 30
			name:     "positive X",
			state:    arm.State{Px: 10},
			mode:     arm.Idle,
			expected: arm.Frame{0x1E, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:     "negative X sets the sign bit",
			state:    arm.State{Px: -10},
			mode:     arm.Idle,
			expected: arm.Frame{0x9E, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:     "negative Y",
			state:    arm.State{Py: -10},
			mode:     arm.Idle,
			expected: arm.Frame{0x00, 0x9E, 0x00, 0x00, 0x00, 0x00},
		},
		{
			// round(10 * 170/52) = 33, offset by 0xAA: 170 + 33 = 203
			name:     "negative Z uses the 0xAA offset",
			state:    arm.State{Pz: -10},
			mode:     arm.Idle,
			expected: arm.Frame{0x00, 0x00, 0xCB, 0x00, 0x00, 0x00},
		},
		{
			// round(10 * 170/52) = 33
			name:     "positive Z",
			state:    arm.State{Pz: 10},
			mode:     arm.Idle,
			expected: arm.Frame{0x00, 0x00, 0x21, 0x00, 0x00, 0x00},
		},
		{
			// full deflection hits the top of the 7-bit magnitude
			name:     "gamma at the limit",
			state:    arm.State{Gamma: -91},
			mode:     arm.Idle,
			expected: arm.Frame{0x00, 0x00, 0x00, 0xFF, 0x00, 0x00},
		},
		{
			// byte4 = grip<<6 | Q5>>4, byte5 = (Q5 & 0xF)<<4 | option
			name:     "open grip with Q5 512",
			state:    arm.State{Q5: 512, Grip: arm.GripOpen},
			mode:     arm.Idle,
			expected: arm.Frame{0x00, 0x00, 0x00, 0x00, 0x60, 0x00},
		},
		{
			name:     "Q5 low nibble lands in byte5",
			state:    arm.State{Q5: 1023, Grip: arm.GripClose},
			mode:     arm.Idle,
			expected: arm.Frame{0x00, 0x00, 0x00, 0x00, 0xBF, 0xF0},
		},
		{
			name:     "mode option code in the low nibble",
			state:    arm.State{},
			mode:     arm.TorqueServos,
			expected: arm.Frame{0x00, 0x00, 0x00, 0x00, 0x00, 0x05},
		},
		{
			name:     "moveRest keeps the encoded state",
			state:    arm.State{Px: 10, Q5: 512},
			mode:     arm.MoveRest,
			expected: arm.Frame{0x1E, 0x00, 0x00, 0x00, 0x20, 0x01},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, arm.Encode(tc.state, tc.mode, tn))
		})
	}
}

func TestEncodeIsPure(t *testing.T) {
	tn := arm.DefaultTuning()
	s := arm.State{Px: -12.3, Py: 4.5, Pz: -6.7, Gamma: 89, Q5: 777, Grip: arm.GripClose}

	first := arm.Encode(s, arm.Idle, tn)
	second := arm.Encode(s, arm.Idle, tn)
	assert.Equal(t, first, second)
}

func TestFrameOption(t *testing.T) {
	f := arm.Encode(arm.State{Q5: 1023}, arm.MoveHome, arm.DefaultTuning())
	assert.Equal(t, uint8(2), f.Option())
}
