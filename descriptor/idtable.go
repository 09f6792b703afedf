package descriptor

import (
	"fmt"

	"github.com/gogpu/spvreflect/internal/logger"
	"github.com/gogpu/spvreflect/spirv"
)

// IDRecord is the reflection state of one id.
type IDRecord struct {
	Kind    Kind
	Binding uint32
	Set     uint32

	// IsDescriptorVariable is set on Uniform, UniformConstant and
	// StorageBuffer variables.
	IsDescriptorVariable bool

	// ReadOnly and WriteOnly are set by NonWritable and NonReadable
	// decorations on the variable.
	ReadOnly  bool
	WriteOnly bool

	// IsPushConstant is set on PushConstant variables. They take no further
	// part in aggregation.
	IsPushConstant bool

	// Count is the descriptor array length, 0 when the type is not an array.
	Count uint32

	// Image properties, propagated from OpTypeImage.
	Dim          spirv.Dim
	Arrayed      bool
	Depth        bool
	Multisampled bool
	StorageImage bool
	Format       spirv.ImageFormat

	bufferBlock bool
	hasValue    bool
	value       uint32

	// name is a word span into the module, not a copy.
	nameOffset uint32
	nameWords  uint32
}

// classification copies the fields that flow through pointers and arrays.
func (r *IDRecord) classifyAs(src *IDRecord) {
	r.Kind = src.Kind
	r.Count = src.Count
	r.Dim = src.Dim
	r.Arrayed = src.Arrayed
	r.Depth = src.Depth
	r.Multisampled = src.Multisampled
	r.StorageImage = src.StorageImage
	r.Format = src.Format
}

// IDTable is caller-owned scratch holding one IDRecord per id of a module.
// A table can be reused across modules but not shared between concurrent
// Build calls.
type IDTable struct {
	records []IDRecord
	module  *spirv.Module
	bound   uint32

	stage       Stage
	model       spirv.ExecutionModel
	entryOffset int
	entryWords  int
}

// NewIDTable allocates scratch for modules whose id bound is at most capacity.
func NewIDTable(capacity int) *IDTable {
	return &IDTable{records: make([]IDRecord, capacity)}
}

// Cap returns the largest id bound the table can hold.
func (t *IDTable) Cap() int { return len(t.records) }

// Bound returns the id bound of the last module built, 0 before the first
// Build or after a failed one.
func (t *IDTable) Bound() uint32 { return t.bound }

// Stage returns the stage of the module's entry point, StageNone if it has
// no vertex, fragment or compute entry point.
func (t *IDTable) Stage() Stage { return t.stage }

// ExecutionModel returns the execution model of the entry point that set Stage.
func (t *IDTable) ExecutionModel() spirv.ExecutionModel { return t.model }

// EntryPoint returns the name of the entry point that set Stage.
func (t *IDTable) EntryPoint() string {
	if t.module == nil || t.entryWords == 0 {
		return ""
	}
	s, _ := spirv.DecodeString(t.module.Words()[t.entryOffset : t.entryOffset+t.entryWords])
	return s
}

// Record returns the record for id, or the zero record when id is out of range.
func (t *IDTable) Record(id uint32) IDRecord {
	if id >= t.bound {
		return IDRecord{}
	}
	return t.records[id]
}

// Name returns the OpName debug name of id, or "" when it has none.
func (t *IDTable) Name(id uint32) string {
	if id >= t.bound || t.module == nil {
		return ""
	}
	r := &t.records[id]
	if r.nameWords == 0 {
		return ""
	}
	s, _ := spirv.DecodeString(t.module.Words()[r.nameOffset : r.nameOffset+r.nameWords])
	return s
}

// Build classifies every id of m in a single forward pass over its
// instructions. Types must be declared before they are referenced, which
// every conforming SPIR-V producer guarantees; decorations and names may
// appear before or after their targets.
func (t *IDTable) Build(m *spirv.Module) (err error) {
	bound := m.Bound()
	if uint64(bound) > uint64(len(t.records)) {
		t.reset(nil, 0)
		return NewError(ErrCapacityExceeded,
			fmt.Sprintf("module id bound %d exceeds id table capacity %d", bound, len(t.records)))
	}

	t.reset(m, bound)
	defer func() {
		if err != nil {
			t.reset(nil, 0)
		}
	}()

	for c := spirv.NewCursor(m); !c.Finished(); {
		inst, err := c.Current()
		if err != nil {
			return err
		}
		if err := t.visit(operands{offset: c.Offset(), inst: inst, bound: bound}); err != nil {
			return err
		}
		if err := c.Advance(); err != nil {
			return err
		}
	}
	return nil
}

func (t *IDTable) reset(m *spirv.Module, bound uint32) {
	clear(t.records[:bound])
	t.module = m
	t.bound = bound
	t.stage = StageNone
	t.model = 0
	t.entryOffset = 0
	t.entryWords = 0
}

//nolint:gocyclo,cyclop,funlen // one case per reflected opcode
func (t *IDTable) visit(in operands) error {
	if err := in.checkIDs(); err != nil {
		return err
	}
	ops := in.inst.Words

	switch in.inst.Opcode {
	case spirv.OpEntryPoint:
		if err := in.need(3); err != nil {
			return err
		}
		nameWords := spirv.StringWords(ops[2:])
		t.entryPoint(spirv.ExecutionModel(ops[0]), in.offset+3, nameWords)

	case spirv.OpName:
		if err := in.need(2); err != nil {
			return err
		}
		target, err := in.id(0)
		if err != nil {
			return err
		}
		r := &t.records[target]
		r.nameOffset = uint32(in.offset + 2)
		r.nameWords = uint32(len(ops) - 1)

	case spirv.OpDecorate:
		if err := in.need(2); err != nil {
			return err
		}
		target, err := in.id(0)
		if err != nil {
			return err
		}
		r := &t.records[target]
		switch spirv.Decoration(ops[1]) {
		case spirv.DecorationBinding:
			if err := in.need(3); err != nil {
				return err
			}
			r.Binding = ops[2]
		case spirv.DecorationDescriptorSet:
			if err := in.need(3); err != nil {
				return err
			}
			r.Set = ops[2]
		case spirv.DecorationBufferBlock:
			r.bufferBlock = true
		case spirv.DecorationNonWritable:
			r.ReadOnly = true
		case spirv.DecorationNonReadable:
			r.WriteOnly = true
		}

	case spirv.OpConstant:
		if err := in.need(3); err != nil {
			return err
		}
		r := &t.records[ops[1]]
		r.hasValue = true
		r.value = ops[2]

	case spirv.OpTypeImage:
		if err := in.need(8); err != nil {
			return err
		}
		if _, err := in.id(1); err != nil {
			return err
		}
		r := &t.records[ops[0]]
		r.Dim = spirv.Dim(ops[2])
		r.Depth = ops[3] == 1
		r.Arrayed = ops[4] != 0
		r.Multisampled = ops[5] != 0
		r.StorageImage = ops[6] == 2
		r.Format = spirv.ImageFormat(ops[7])
		r.Count = 0
		if r.Dim == spirv.DimBuffer {
			r.Kind = KindStorageTexelBuffer
		} else {
			r.Kind = KindImage
		}

	case spirv.OpTypeSampler:
		r := &t.records[ops[0]]
		r.Kind = KindSampler

	case spirv.OpTypeSampledImage:
		if err := in.need(2); err != nil {
			return err
		}
		image, err := in.id(1)
		if err != nil {
			return err
		}
		r := &t.records[ops[0]]
		r.classifyAs(&t.records[image])
		r.Kind = KindSampledImage
		r.StorageImage = false
		r.Format = spirv.ImageFormatUnknown

	case spirv.OpTypeStruct:
		for i := 1; i < len(ops); i++ {
			if _, err := in.id(i); err != nil {
				return err
			}
		}
		r := &t.records[ops[0]]
		r.Kind = KindUniformBuffer
		r.Count = 0
		// Only the first member decides; nested layouts are not walked.
		if r.bufferBlock || (len(ops) > 1 && t.records[ops[1]].Kind == KindStorageBuffer) {
			r.Kind = KindStorageBuffer
		}

	case spirv.OpTypePointer:
		if err := in.need(3); err != nil {
			return err
		}
		pointee, err := in.id(2)
		if err != nil {
			return err
		}
		t.records[ops[0]].classifyAs(&t.records[pointee])

	case spirv.OpTypeRuntimeArray:
		if err := in.need(2); err != nil {
			return err
		}
		if _, err := in.id(1); err != nil {
			return err
		}
		r := &t.records[ops[0]]
		r.Kind = KindStorageBuffer
		r.Count = 0

	case spirv.OpTypeArray:
		if err := in.need(3); err != nil {
			return err
		}
		element, err := in.id(1)
		if err != nil {
			return err
		}
		length, err := in.id(2)
		if err != nil {
			return err
		}
		r := &t.records[ops[0]]
		r.classifyAs(&t.records[element])
		if r.Kind != KindNone {
			n := uint32(1)
			if l := &t.records[length]; l.hasValue {
				n = l.value
			}
			if r.Count > 0 {
				n *= r.Count
			}
			r.Count = n
		}

	case spirv.OpVariable:
		if err := in.need(3); err != nil {
			return err
		}
		if len(ops) > 3 {
			if _, err := in.id(3); err != nil {
				return err
			}
		}
		r := &t.records[ops[1]]
		switch spirv.StorageClass(ops[2]) {
		case spirv.StorageClassUniform, spirv.StorageClassUniformConstant:
			r.IsDescriptorVariable = true
			r.classifyAs(&t.records[ops[0]])
		case spirv.StorageClassStorageBuffer:
			r.IsDescriptorVariable = true
			r.classifyAs(&t.records[ops[0]])
			r.Kind = KindStorageBuffer
		case spirv.StorageClassPushConstant:
			r.IsPushConstant = true
		}
	}
	return nil
}

func (t *IDTable) entryPoint(model spirv.ExecutionModel, nameOffset, nameWords int) {
	stage := StageFromExecutionModel(model)
	if stage == StageNone {
		logger.Get().Debug("spvreflect: skipping entry point with unsupported execution model",
			"model", model.String())
		return
	}
	if t.stage != StageNone {
		if model != t.model {
			logger.Get().Warn("spvreflect: module has more than one entry point, reflecting the first",
				"first", t.model.String(), "ignored", model.String())
		}
		return
	}
	t.stage = stage
	t.model = model
	t.entryOffset = nameOffset
	t.entryWords = nameWords
}

// operands range-checks the operands of one instruction.
type operands struct {
	offset int
	inst   spirv.Instruction
	bound  uint32
}

func (in operands) need(n int) error {
	if len(in.inst.Words) < n {
		return spirv.NewInstructionError(spirv.ErrCorruptInstructionStream, in.offset, in.inst.Opcode,
			fmt.Sprintf("needs %d operands, has %d", n, len(in.inst.Words)))
	}
	return nil
}

func (in operands) id(i int) (uint32, error) {
	if err := in.need(i + 1); err != nil {
		return 0, err
	}
	id := in.inst.Words[i]
	if id >= in.bound {
		return 0, spirv.NewInstructionError(spirv.ErrIDOutOfRange, in.offset, in.inst.Opcode,
			fmt.Sprintf("operand %d references id %d, bound is %d", i, id, in.bound))
	}
	return id, nil
}

// checkIDs range-checks every id operand of an opcode with a known grammar,
// including opcodes the table otherwise ignores.
func (in operands) checkIDs() error {
	for i, kind := range spirv.Operands(in.inst.Opcode, in.inst.Words) {
		if !kind.IsID() {
			continue
		}
		if _, err := in.id(i); err != nil {
			return err
		}
	}
	return nil
}
