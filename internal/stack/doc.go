// Package stack aggregates a regimen into benefit, risk and net-score totals.
//
// Evaluate is pure: it reads the injected reference tables and the caller's
// stack and returns a fresh Result. It is safe to call from many goroutines
// at once, which the dose grid search relies on.
//
// Compounds are always processed in lexical id order, so permuting the
// entries of a stack yields exactly the same totals.
package stack
