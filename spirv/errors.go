package spirv

import "fmt"

// ErrorKind categorizes SPIR-V decoding errors.
type ErrorKind uint8

const (
	// ErrMisalignedBuffer indicates the byte length is not a multiple of 4.
	ErrMisalignedBuffer ErrorKind = iota

	// ErrTruncatedModule indicates the buffer is shorter than the 5-word header.
	ErrTruncatedModule

	// ErrInvalidMagicNumber indicates the first word is not the SPIR-V magic
	// number in either byte order.
	ErrInvalidMagicNumber

	// ErrCorruptInstructionStream indicates an instruction with a zero word
	// count, one that runs past the end of the module, or one too short for
	// the operands its opcode requires.
	ErrCorruptInstructionStream

	// ErrIDOutOfRange indicates an id operand at or above the header's id bound.
	ErrIDOutOfRange
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrMisalignedBuffer:
		return "MisalignedBuffer"
	case ErrTruncatedModule:
		return "TruncatedModule"
	case ErrInvalidMagicNumber:
		return "InvalidMagicNumber"
	case ErrCorruptInstructionStream:
		return "CorruptInstructionStream"
	case ErrIDOutOfRange:
		return "IdOutOfRange"
	default:
		return "Unknown"
	}
}

// Error represents a SPIR-V decoding error.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Offset is the word index of the offending instruction, or -1 when the
	// error concerns the buffer or header as a whole.
	Offset int

	// Opcode is the opcode of the offending instruction when Offset >= 0.
	Opcode OpCode

	// Message provides details about the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("spirv %s at word %d (%s): %s", e.Kind, e.Offset, e.Opcode, e.Message)
	}
	return fmt.Sprintf("spirv %s: %s", e.Kind, e.Message)
}

// NewError creates an error that is not tied to an instruction.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Offset: -1, Message: message}
}

// NewInstructionError creates an error for the instruction at the given word offset.
func NewInstructionError(kind ErrorKind, offset int, opcode OpCode, message string) *Error {
	return &Error{Kind: kind, Offset: offset, Opcode: opcode, Message: message}
}

// IsInvalidMagic returns true if the error is ErrInvalidMagicNumber.
func (e *Error) IsInvalidMagic() bool {
	return e.Kind == ErrInvalidMagicNumber
}

// IsCorrupt returns true if the error is ErrCorruptInstructionStream.
func (e *Error) IsCorrupt() bool {
	return e.Kind == ErrCorruptInstructionStream
}

// IsIDOutOfRange returns true if the error is ErrIDOutOfRange.
func (e *Error) IsIDOutOfRange() bool {
	return e.Kind == ErrIDOutOfRange
}
