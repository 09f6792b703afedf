package spirv

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// Module is a host-ordered view of a SPIR-V binary.
//
// The first HeaderWords words hold the magic number, version, generator,
// id bound and schema; instructions follow.
type Module struct {
	words   []uint32
	swapped bool
}

// NewModule validates data and decodes it into an owned, host-ordered word
// slice. The caller's buffer is never modified.
func NewModule(data []byte) (*Module, error) {
	swapped, err := checkBytes(data)
	if err != nil {
		return nil, err
	}

	order := hostOrder()
	if swapped {
		order = foreignOrder()
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = order.Uint32(data[i*4:])
	}
	return &Module{words: words, swapped: swapped}, nil
}

// NewModuleInPlace validates data and normalizes it to host byte order in
// place. This is destructive: when the module was encoded in the opposite
// byte order every word of data is byte-swapped. Callers that need the
// original bytes afterwards must pass a copy or use NewModule.
//
// When data is 4-byte aligned the returned Module aliases it without copying.
func NewModuleInPlace(data []byte) (*Module, error) {
	swapped, err := checkBytes(data)
	if err != nil {
		return nil, err
	}

	if swapped {
		for i := 0; i < len(data); i += 4 {
			data[i], data[i+1], data[i+2], data[i+3] = data[i+3], data[i+2], data[i+1], data[i]
		}
	}

	n := len(data) / 4
	ptr := unsafe.Pointer(unsafe.SliceData(data))
	if uintptr(ptr)%unsafe.Alignof(uint32(0)) == 0 {
		return &Module{words: unsafe.Slice((*uint32)(ptr), n), swapped: swapped}, nil
	}

	order := hostOrder()
	words := make([]uint32, n)
	for i := range words {
		words[i] = order.Uint32(data[i*4:])
	}
	return &Module{words: words, swapped: swapped}, nil
}

// NewModuleFromWords wraps an already-typed word buffer. If the magic number
// reads byte-reversed, every word is swapped in place.
func NewModuleFromWords(words []uint32) (*Module, error) {
	if len(words) < HeaderWords {
		return nil, NewError(ErrTruncatedModule,
			fmt.Sprintf("module has %d words, header needs %d", len(words), HeaderWords))
	}

	switch {
	case words[0] == MagicNumber:
		return &Module{words: words}, nil
	case bits.ReverseBytes32(words[0]) == MagicNumber:
		for i, w := range words {
			words[i] = bits.ReverseBytes32(w)
		}
		return &Module{words: words, swapped: true}, nil
	default:
		return nil, NewError(ErrInvalidMagicNumber, fmt.Sprintf("got 0x%08X", words[0]))
	}
}

// checkBytes validates the buffer shape and magic number and reports whether
// the encoding differs from host byte order. No word is read before the
// length check passes.
func checkBytes(data []byte) (swapped bool, err error) {
	if len(data)%4 != 0 {
		return false, NewError(ErrMisalignedBuffer,
			fmt.Sprintf("length %d is not a multiple of 4", len(data)))
	}
	if len(data) < HeaderWords*4 {
		return false, NewError(ErrTruncatedModule,
			fmt.Sprintf("module has %d bytes, header needs %d", len(data), HeaderWords*4))
	}

	magic := hostOrder().Uint32(data)
	switch {
	case magic == MagicNumber:
		return false, nil
	case bits.ReverseBytes32(magic) == MagicNumber:
		return true, nil
	default:
		return false, NewError(ErrInvalidMagicNumber, fmt.Sprintf("got 0x%08X", magic))
	}
}

func hostOrder() binary.ByteOrder {
	if cpu.IsBigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func foreignOrder() binary.ByteOrder {
	if cpu.IsBigEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Words returns the host-ordered words, header included. The slice must not
// be modified.
func (m *Module) Words() []uint32 { return m.words }

// Len returns the total number of words.
func (m *Module) Len() int { return len(m.words) }

// Version returns the SPIR-V version from the header.
func (m *Module) Version() Version { return versionFromWord(m.words[1]) }

// Generator returns the generator magic from the header.
func (m *Module) Generator() uint32 { return m.words[2] }

// Bound returns the id bound: every id in the module is strictly less than it.
func (m *Module) Bound() uint32 { return m.words[3] }

// Schema returns the reserved schema word.
func (m *Module) Schema() uint32 { return m.words[4] }

// Swapped reports whether the input was encoded in the opposite of host byte order.
func (m *Module) Swapped() bool { return m.swapped }

// ByteOrder returns the byte order the input was encoded in.
func (m *Module) ByteOrder() binary.ByteOrder {
	if m.swapped {
		return foreignOrder()
	}
	return hostOrder()
}
