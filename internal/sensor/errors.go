package sensor

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of a sensor access error.
type ErrorKind int

const (
	// KindWildcards indicates a concrete-chip operation was given a
	// chip name containing wildcard fields
	KindWildcards ErrorKind = iota
	// KindUnknownFeature indicates a feature (or a mapping target) is
	// absent from the catalog
	KindUnknownFeature
	// KindAccessRead indicates the feature does not allow reading
	KindAccessRead
	// KindAccessWrite indicates the feature does not allow writing
	KindAccessWrite
	// KindDivZero indicates division by exact zero, or the logarithm of
	// a negative operand, during expression evaluation
	KindDivZero
	// KindIO indicates a raw backend read or write failure
	KindIO
	// KindDirective indicates a config directive names a feature that
	// cannot be resolved (reported, not fatal)
	KindDirective
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindWildcards:
		return "wildcards not allowed"
	case KindUnknownFeature:
		return "unknown feature"
	case KindAccessRead:
		return "feature not readable"
	case KindAccessWrite:
		return "feature not writable"
	case KindDivZero:
		return "division by zero"
	case KindIO:
		return "backend I/O error"
	case KindDirective:
		return "bad config directive"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Error is the error type returned by all sensor access operations.
type Error struct {
	Kind    ErrorKind // Category of error
	Op      string    // Operation that failed ("get_value", "apply_sets", ...)
	Chip    string    // Chip name, if known
	Feature string    // Feature name or number, if known
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Chip != "" {
		msg += " (chip " + e.Chip
		if e.Feature != "" {
			msg += ", feature " + e.Feature
		}
		msg += ")"
	} else if e.Feature != "" {
		msg += " (feature " + e.Feature + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// NewWildcardsError reports a wildcard chip name passed to a
// concrete-chip operation.
func NewWildcardsError(op, chip string) *Error {
	return &Error{Kind: KindWildcards, Op: op, Chip: chip}
}

// NewUnknownFeatureError reports a feature missing from the catalog.
func NewUnknownFeatureError(op, chip, feature string) *Error {
	return &Error{Kind: KindUnknownFeature, Op: op, Chip: chip, Feature: feature}
}

// NewAccessError reports a read/write mode violation. write selects
// between the read and write kinds.
func NewAccessError(op, chip, feature string, write bool) *Error {
	kind := KindAccessRead
	if write {
		kind = KindAccessWrite
	}
	return &Error{Kind: kind, Op: op, Chip: chip, Feature: feature}
}

// NewDivZeroError reports a numeric domain error during expression
// evaluation.
func NewDivZeroError(op string) *Error {
	return &Error{Kind: KindDivZero, Op: op}
}

// NewIOError wraps a raw backend failure.
func NewIOError(op, chip, feature string, err error) *Error {
	return &Error{Kind: KindIO, Op: op, Chip: chip, Feature: feature, Err: err}
}

// NewDirectiveError reports an unresolvable config directive.
func NewDirectiveError(op, chip, feature string, err error) *Error {
	return &Error{Kind: KindDirective, Op: op, Chip: chip, Feature: feature, Err: err}
}

// IsKind checks whether err is a sensor Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

// IsWildcards checks if an error is a wildcard rejection
func IsWildcards(err error) bool { return IsKind(err, KindWildcards) }

// IsUnknownFeature checks if an error is a missing-feature error
func IsUnknownFeature(err error) bool { return IsKind(err, KindUnknownFeature) }

// IsAccess checks if an error is a read or write mode violation
func IsAccess(err error) bool {
	return IsKind(err, KindAccessRead) || IsKind(err, KindAccessWrite)
}

// IsDivZero checks if an error is a numeric domain error
func IsDivZero(err error) bool { return IsKind(err, KindDivZero) }

// IsIO checks if an error is a raw backend failure
func IsIO(err error) bool { return IsKind(err, KindIO) }

// IsDirective checks if an error is a config directive error
func IsDirective(err error) bool { return IsKind(err, KindDirective) }
