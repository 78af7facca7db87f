// Package arm holds the WidowX arm model: the per-tick operating mode,
// the persistent Cartesian/joint state, and the 6-byte command frame
// understood by the arm's motor controller.
package arm

import "github.com/robolabs/widowlink/pad"

// Mode is the exclusive operating mode for one control tick. Its numeric
// value doubles as the option code carried in the frame's low nibble; the
// receiving firmware dispatches on it.
type Mode uint8

const (
	Idle         Mode = 0 // stick-driven motion
	MoveRest     Mode = 1
	MoveHome     Mode = 2
	MoveCenter   Mode = 3
	RelaxServos  Mode = 4
	TorqueServos Mode = 5
)

// ModeFor arbitrates the mode for a tick. First match wins; the order is
// fixed by the firmware's priority: L3 beats R3 beats triangle beats the
// D-pad commands. Only Idle permits motion integration.
func ModeFor(p pad.State) Mode {
	switch {
	case p.L3:
		return MoveRest
	case p.R3:
		return MoveHome
	case p.Triangle:
		return MoveCenter
	case p.DPad == pad.DPadDown:
		return RelaxServos
	case p.DPad == pad.DPadUp:
		return TorqueServos
	default:
		return Idle
	}
}

// Option returns the 4-bit option code encoded into the frame.
func (m Mode) Option() uint8 { return uint8(m) & 0x0F }

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case MoveRest:
		return "moveRest"
	case MoveHome:
		return "moveHome"
	case MoveCenter:
		return "moveCenter"
	case RelaxServos:
		return "relaxServos"
	case TorqueServos:
		return "torqueServos"
	default:
		return "unknown"
	}
}
