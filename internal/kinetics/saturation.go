package kinetics

// EffectiveLoad maps raw saturation mg through three linear segments of
// decreasing slope. scale stretches both thresholds; it is the lean-mass
// scale of the profile, 1 at the reference body.
func EffectiveLoad(raw, scale float64) float64 {
	if raw <= 0 {
		return 0
	}
	if scale <= 0 {
		scale = 1
	}
	t1, t2 := Tier1Mg*scale, Tier2Mg*scale
	switch {
	case raw <= t1:
		return raw * Tier1Slope
	case raw <= t2:
		return t1*Tier1Slope + (raw-t1)*Tier2Slope
	default:
		return t1*Tier1Slope + (t2-t1)*Tier2Slope + (raw-t2)*Tier3Slope
	}
}

// Efficiency is EffectiveLoad/raw, or 1 when there is no load.
func Efficiency(raw, scale float64) float64 {
	if raw <= 0 {
		return 1
	}
	return EffectiveLoad(raw, scale) / raw
}
