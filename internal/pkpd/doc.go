// Package pkpd provides the core domain types shared by the simulation engine.
//
// The package defines the static reference data and per-call inputs that every
// model consumes:
//
//   - [Compound]: immutable compound profile with curves, ester variants and
//     toxicity, metabolic and pathway vectors
//   - [PairRecord]: Hill-shaped interaction record for two compounds
//   - [GoalPreset]: dimension weights used to score a stack
//   - [Reference]: injected bundle of the three tables above
//   - [StackEntry] and [UserProfile]: caller-owned inputs, never mutated
//
// # Example
//
//	ref := pkpd.NewReference(compounds, pairs, goals)
//	c, ok := ref.Compound("testosterone")
//	pair, ok := ref.Pair("npp", "testosterone")
//
// # Thread Safety
//
// A Reference is read-only after construction and may be shared by any number
// of goroutines. Nothing in the engine writes to it.
package pkpd
