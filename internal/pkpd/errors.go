package pkpd

import (
	"errors"
	"fmt"
)

// Errors returned at the loading and decoding boundary. The models themselves
// never return errors; they fall back to zero contributions.
var (
	// ErrUnknownCompound indicates a compound id missing from the reference table.
	ErrUnknownCompound = errors.New("pkpd: unknown compound")

	// ErrUnknownPair indicates no interaction record exists for two compounds.
	ErrUnknownPair = errors.New("pkpd: unknown interaction pair")

	// ErrUnknownGoal indicates a goal preset key missing from the reference table.
	ErrUnknownGoal = errors.New("pkpd: unknown goal preset")

	// ErrMalformedCurve indicates a curve that does not start at (0,0), has
	// non-increasing doses, or a risk curve that decreases.
	ErrMalformedCurve = errors.New("pkpd: malformed curve")

	// ErrInvalidReference indicates a structurally broken reference record.
	ErrInvalidReference = errors.New("pkpd: invalid reference data")

	// ErrInvalidStack indicates a stack entry that cannot be simulated.
	ErrInvalidStack = errors.New("pkpd: invalid stack entry")
)

// ValidationError wraps an error with the field that failed validation.
type ValidationError struct {
	Field   string
	Value   any
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (%v): %s", e.Field, e.Value, e.Wrapped.Error())
}

func (e *ValidationError) Unwrap() error {
	return e.Wrapped
}
