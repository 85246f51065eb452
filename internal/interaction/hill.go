package interaction

import "math"

// Hill is the sigmoidal dose shape d^n/(d^n+ec50^n). Non-positive doses give 0.
func Hill(dose, ec50, n float64) float64 {
	if dose <= 0 {
		return 0
	}
	if ec50 <= 0 {
		return 1
	}
	dn := math.Pow(dose, n)
	return dn / (dn + math.Pow(ec50, n))
}
