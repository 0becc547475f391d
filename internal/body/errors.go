package body

import (
	"errors"
	"fmt"
)

// Construction errors returned by [Builder].
var (
	// ErrDuplicateStar indicates a second Star was added to the tree.
	ErrDuplicateStar = errors.New("body: more than one star")

	// ErrMissingStar indicates a Planet was added, or the tree built, before any Star.
	ErrMissingStar = errors.New("body: no star established")

	// ErrOrphan indicates a Planet whose parent is not a body already in the tree.
	ErrOrphan = errors.New("body: planet has no valid parent")

	// ErrDepth indicates a body whose depth does not match its position in the tree.
	ErrDepth = errors.New("body: depth does not match parent")

	// ErrParameter indicates a physical parameter outside its valid range.
	ErrParameter = errors.New("body: parameter out of valid bounds")
)

// ParamError names the offending field of a rejected body.
type ParamError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("body: %s %s (got %g)", e.Field, e.Reason, e.Value)
}

func (e *ParamError) Unwrap() error {
	return ErrParameter
}
