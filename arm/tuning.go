package arm

import "github.com/robolabs/widowlink/pad"

// Tuning collects the workspace limits and integration gains of the arm.
// The defaults match the WidowX workspace; the scale factors fed to the
// frame encoder are derived from the limits so that each encoded
// magnitude spans its full byte range.
type Tuning struct {
	XYLim    float64 // |Px|,|Py| bound, cm
	ZLimUp   float64 // Pz upper bound, cm
	ZLimDown float64 // Pz lower bound, cm (negative)
	GammaLim float64 // |Gamma| bound, degrees

	StickThreshold float64 // deadzone radius on stick velocities

	Kp  float64 // cm per (second * stick unit)
	Kg  float64 // degrees per (second * trigger unit)
	Kq5 float64 // Q5 units per (second * trigger unit)
}

// DefaultTuning returns the stock WidowX calibration:
// XYLim=43cm, ZLimUp=52cm, ZLimDown=-26cm, GammaLim=91 deg,
// StickThreshold=20, Kp=5/127.5, Kg=90/255, Kq5=512/255.
func DefaultTuning() Tuning {
	return Tuning{
		XYLim:          43,
		ZLimUp:         52,
		ZLimDown:       -26,
		GammaLim:       91,
		StickThreshold: 20,
		Kp:             5 / pad.AxisCenter,
		Kg:             90.0 / 255,
		Kq5:            512.0 / 255,
	}
}

// XYFactor is the cm-to-bits scale for Px/Py (127/XYLim).
func (t Tuning) XYFactor() float64 { return 127.0 / t.XYLim }

// ZFactor is the cm-to-bits scale for Pz (170/ZLimUp).
func (t Tuning) ZFactor() float64 { return 170.0 / t.ZLimUp }

// GammaFactor is the degrees-to-bits scale for Gamma (127/GammaLim).
func (t Tuning) GammaFactor() float64 { return 127.0 / t.GammaLim }
