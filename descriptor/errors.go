package descriptor

import "fmt"

// ErrorKind categorizes reflection errors that are not stream corruption.
// Stream and id-range errors are reported as *spirv.Error.
type ErrorKind uint8

const (
	// ErrCapacityExceeded indicates the id scratch table is smaller than the
	// module's id bound, or a (set, binding) pair falls outside the table.
	ErrCapacityExceeded ErrorKind = iota

	// ErrConflictingDescriptorType is a non-fatal warning: one (set, binding)
	// pair was observed with two different kinds. The first kind is kept.
	ErrConflictingDescriptorType

	// ErrUnsupportedStage indicates aggregation was requested for a stage
	// outside vertex, fragment and compute, typically because the module has
	// no supported entry point.
	ErrUnsupportedStage
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrCapacityExceeded:
		return "CapacityExceeded"
	case ErrConflictingDescriptorType:
		return "ConflictingDescriptorType"
	case ErrUnsupportedStage:
		return "UnsupportedStage"
	default:
		return "Unknown"
	}
}

// Error represents a reflection error or warning.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Set and Binding locate the slot involved, when there is one.
	Set     uint32
	Binding uint32

	// Message provides details about the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("descriptor %s: %s", e.Kind, e.Message)
}

// NewError creates a new reflection error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// IsCapacityExceeded returns true if the error is ErrCapacityExceeded.
func (e *Error) IsCapacityExceeded() bool {
	return e.Kind == ErrCapacityExceeded
}

// IsConflict returns true if the error is the ErrConflictingDescriptorType warning.
func (e *Error) IsConflict() bool {
	return e.Kind == ErrConflictingDescriptorType
}
