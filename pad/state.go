// Package pad decodes DualShock 4 hidraw input reports into a named
// controller snapshot. Only the fields the arm bridge consumes are
// extracted; everything else in the report is ignored.
package pad

import (
	"errors"
	"fmt"
)

// ErrShortReport is returned when a raw report is too short to carry all
// decoded fields. Callers treat it as a recoverable condition and skip
// the tick.
var ErrShortReport = errors.New("pad: report shorter than 10 bytes")

// State is the decoded controller snapshot for a single tick.
// It is immutable once decoded and never outlives the tick.
type State struct {
	Triangle bool
	Circle   bool
	Cross    bool
	Square   bool

	DPad uint8 // 4-bit direction code, see DPad* constants

	L1, R1 bool
	L3, R3 bool

	L2, R2 uint8 // analog triggers, 0-255

	LeftX  uint8 // 0-255, centered at 127.5
	LeftY  uint8
	RightY uint8
}

// UnmarshalBinary decodes a raw hidraw report. Reports longer than
// ReportMinSize are decoded best-effort from their first ten bytes; no
// validation beyond the length check is performed.
func (s *State) UnmarshalBinary(data []byte) error {
	if len(data) < ReportMinSize {
		return fmt.Errorf("%w: got %d", ErrShortReport, len(data))
	}

	b := data[offButtons]
	s.Triangle = b&MaskTriangle != 0
	s.Circle = b&MaskCircle != 0
	s.Cross = b&MaskCross != 0
	s.Square = b&MaskSquare != 0
	s.DPad = b & DPadMask

	c := data[offSticks]
	s.R3 = c&MaskR3 != 0
	s.L3 = c&MaskL3 != 0
	s.R1 = c&MaskR1 != 0
	s.L1 = c&MaskL1 != 0

	s.L2 = data[offL2]
	s.R2 = data[offR2]

	s.LeftX = data[offLeftX]
	s.LeftY = data[offLeftY]
	s.RightY = data[offRightY]
	return nil
}

// String renders the snapshot compactly for trace logs.
func (s *State) String() string {
	btn := func(on bool, r byte) byte {
		if on {
			return r
		}
		return '.'
	}
	return fmt.Sprintf("L(%3d %3d) RY(%3d) 2(%3d %3d) dpad=%x %c%c%c%c%c%c%c%c",
		s.LeftX, s.LeftY, s.RightY, s.L2, s.R2, s.DPad,
		btn(s.Triangle, 'T'), btn(s.Circle, 'O'), btn(s.Cross, 'X'), btn(s.Square, 'S'),
		btn(s.L1, 'l'), btn(s.R1, 'r'), btn(s.L3, 'L'), btn(s.R3, 'R'))
}
