package pad

// ReportMinSize is the smallest raw report the decoder accepts. The DS4
// delivers 64-byte reports over USB hidraw, but every field we consume
// lives in the first ten bytes.
const ReportMinSize = 10

// Byte offsets within a raw hidraw report.
const (
	offLeftX   = 1
	offLeftY   = 2
	offRightY  = 4
	offButtons = 5
	offSticks  = 6
	offL2      = 8
	offR2      = 9
)

// Byte 5: face buttons in the high nibble, D-pad code in the low nibble.
const (
	MaskTriangle = 0x80
	MaskCircle   = 0x40
	MaskCross    = 0x20
	MaskSquare   = 0x10

	DPadMask = 0x0F
)

// Byte 6: stick clicks and shoulder buttons.
const (
	MaskR3 = 0x80
	MaskL3 = 0x40
	MaskR1 = 0x02
	MaskL1 = 0x01
)

// D-pad codes, clockwise from 12 o'clock. 0x08 means released.
const (
	DPadUp        = 0x00
	DPadUpRight   = 0x01
	DPadRight     = 0x02
	DPadDownRight = 0x03
	DPadDown      = 0x04
	DPadDownLeft  = 0x05
	DPadLeft      = 0x06
	DPadUpLeft    = 0x07
	DPadNeutral   = 0x08
)

// AxisCenter is the resting value of an 8-bit stick axis. The physical
// center sits between 127 and 128, so velocities are computed about 127.5.
const AxisCenter = 127.5
