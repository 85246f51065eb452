// Package binding models the two places a compound competes for binding:
// the androgen receptor (mass-action occupancy) and the SHBG carrier pool
// (equilibrium level plus a finite binding capacity).
package binding
