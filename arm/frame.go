package arm

import "math"

// Frame is the 6-byte command consumed by the arm's motor controller.
//
//	0: Px, sign-magnitude (bit 7 = negative), magnitude scaled by XYFactor
//	1: Py, same scheme
//	2: Pz scaled by ZFactor; negative values offset by 0xAA instead of a
//	   sign bit (firmware quirk, see below)
//	3: Gamma, sign-magnitude, scaled by GammaFactor
//	4: grip intent in the top two bits, Q5 bits 9..4 below
//	5: Q5 bits 3..0 in the high nibble, option code in the low nibble
type Frame [6]byte

// zNegOffset marks a negative Pz. The firmware decodes Byte2 >= 0xAA as
// below-base; it is deliberately not the sign-bit scheme of the other
// signed bytes and must not be "fixed" without a firmware change.
const zNegOffset = 0xAA

// Encode builds the frame for the given state and mode. It is a pure
// function of its arguments: upstream clamping guarantees every value is
// in range, so no saturation is applied here.
func Encode(s State, m Mode, tn Tuning) Frame {
	var f Frame
	f[0] = signMag(s.Px, tn.XYFactor())
	f[1] = signMag(s.Py, tn.XYFactor())
	if s.Pz < 0 {
		f[2] = zNegOffset + byte(math.Round(-s.Pz*tn.ZFactor()))
	} else {
		f[2] = byte(math.Round(s.Pz * tn.ZFactor()))
	}
	f[3] = signMag(s.Gamma, tn.GammaFactor())

	q5 := uint16(math.Round(s.Q5)) // fits 10 bits, Q5 <= 1023
	f[4] = uint8(s.Grip)<<6 | byte(q5>>4)
	f[5] = byte(q5&0x0F)<<4 | m.Option()
	return f
}

// Option extracts the mode code from an encoded frame.
func (f Frame) Option() uint8 { return f[5] & 0x0F }

// signMag encodes a scaled magnitude into the low 7 bits with bit 7 as
// the sign.
func signMag(v, factor float64) byte {
	b := byte(math.Round(math.Abs(v) * factor))
	if v < 0 {
		b |= 0x80
	}
	return b
}
