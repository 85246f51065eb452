// Package systemic produces the safety snapshot of a stack: organ stress,
// projected labs, receptor occupancy, SHBG dynamics, projected gains and the
// CNS profile.
//
// CalculateCycleMetrics runs the pipeline once:
//
//  1. normalize every entry into weekly active and saturation mg
//  2. derive the shared efficiency ratio from combined saturation
//  3. compute receptor occupancy from uncorrected saturation
//  4. estimate estradiol with every compound fully free
//  5. settle SHBG against that estradiol
//  6. re-estimate estradiol with the SHBG free fractions
//  7. drive gains, organ load and labs from free saturation
//
// The SHBG correction is applied exactly once. It is not iterated to a fixed
// point and it does not feed receptor occupancy.
package systemic
