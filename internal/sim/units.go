package sim

import "github.com/san-kum/molsim/internal/dynamo"

// Model temperatures that line up with each species' triple and critical
// points when converting to Kelvin.
const (
	modelTriplePoint   = 0.26
	modelCriticalPoint = 0.8
)

type calibration struct {
	tripleKelvin   float64
	criticalKelvin float64
	// atmospheres per reduced pressure unit
	pressureScale float64
}

var calibrations = map[dynamo.Species]calibration{
	dynamo.Neon:           {tripleKelvin: 23, criticalKelvin: 44, pressureScale: 200},
	dynamo.Argon:          {tripleKelvin: 84, criticalKelvin: 151, pressureScale: 125},
	dynamo.DiatomicOxygen: {tripleKelvin: 54, criticalKelvin: 155, pressureScale: 125},
	dynamo.Water:          {tripleKelvin: 273, criticalKelvin: 647, pressureScale: 150},
	dynamo.UserDefined:    {tripleKelvin: 60, criticalKelvin: 120, pressureScale: 200},
}

// ToKelvin maps a reduced temperature to Kelvin for the species. The curve
// is linear from zero to the triple point, linear between the triple and
// critical points, and continues with that second slope above.
func ToKelvin(s dynamo.Species, t float64) float64 {
	cal, ok := calibrations[s]
	if !ok {
		return 0
	}
	if t <= modelTriplePoint {
		return t * cal.tripleKelvin / modelTriplePoint
	}
	slope := (cal.criticalKelvin - cal.tripleKelvin) / (modelCriticalPoint - modelTriplePoint)
	return cal.tripleKelvin + (t-modelTriplePoint)*slope
}

// ToAtmospheres maps a reduced pressure to atmospheres for the species.
func ToAtmospheres(s dynamo.Species, p float64) float64 {
	return p * calibrations[s].pressureScale
}
