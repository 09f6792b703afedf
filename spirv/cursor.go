package spirv

import "fmt"

// Cursor walks the instruction stream of a Module in place.
//
// The first word of every instruction packs the word count in its high 16
// bits and the opcode in its low 16 bits.
type Cursor struct {
	words  []uint32
	offset int
}

// NewCursor returns a cursor positioned at the first instruction after the header.
func NewCursor(m *Module) *Cursor {
	return &Cursor{words: m.words, offset: HeaderWords}
}

// Finished reports whether the cursor has consumed every word.
func (c *Cursor) Finished() bool {
	return c.offset >= len(c.words)
}

// Offset returns the word index of the current instruction.
func (c *Cursor) Offset() int {
	return c.offset
}

// Opcode returns the opcode of the current instruction.
func (c *Cursor) Opcode() OpCode {
	return OpCode(c.words[c.offset] & 0xFFFF)
}

// WordCount returns the word count of the current instruction, opcode word included.
func (c *Cursor) WordCount() int {
	return int(c.words[c.offset] >> 16)
}

// Current returns the instruction under the cursor. Its Words alias the
// module and hold the operands only.
func (c *Cursor) Current() (Instruction, error) {
	if err := c.check(); err != nil {
		return Instruction{}, err
	}
	end := c.offset + c.WordCount()
	return Instruction{
		Opcode: c.Opcode(),
		Words:  c.words[c.offset+1 : end : end],
	}, nil
}

// Advance moves past the current instruction. A zero word count is reported
// as ErrCorruptInstructionStream instead of looping in place.
func (c *Cursor) Advance() error {
	if err := c.check(); err != nil {
		return err
	}
	c.offset += c.WordCount()
	return nil
}

func (c *Cursor) check() error {
	count := c.WordCount()
	if count == 0 {
		return NewInstructionError(ErrCorruptInstructionStream, c.offset, c.Opcode(),
			"word count is zero")
	}
	if c.offset+count > len(c.words) {
		return NewInstructionError(ErrCorruptInstructionStream, c.offset, c.Opcode(),
			fmt.Sprintf("word count %d runs past end of module (%d words left)", count, len(c.words)-c.offset))
	}
	return nil
}
