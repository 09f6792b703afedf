package spirv

import (
	"encoding/binary"
	"math"
)

// Instruction is a decoded or to-be-encoded SPIR-V instruction. Words holds
// the operands only; the packed opcode/word-count word is implied.
type Instruction struct {
	Opcode OpCode
	Words  []uint32 // result type ID, result ID, operands
}

// InstructionBuilder builds SPIR-V instructions.
type InstructionBuilder struct {
	words []uint32
}

// NewInstructionBuilder creates a new instruction builder.
func NewInstructionBuilder() *InstructionBuilder {
	return &InstructionBuilder{
		words: make([]uint32, 0, 8),
	}
}

// AddWord adds a word to the instruction.
func (b *InstructionBuilder) AddWord(word uint32) {
	b.words = append(b.words, word)
}

// AddString adds a null-terminated UTF-8 string.
func (b *InstructionBuilder) AddString(s string) {
	bytes := []byte(s)
	// Add null terminator if not present
	if len(bytes) == 0 || bytes[len(bytes)-1] != 0 {
		bytes = append(bytes, 0)
	}

	// Pad to word boundary
	for len(bytes)%4 != 0 {
		bytes = append(bytes, 0)
	}

	for i := 0; i < len(bytes); i += 4 {
		b.words = append(b.words, binary.LittleEndian.Uint32(bytes[i:]))
	}
}

// Build builds the instruction with the given opcode.
func (b *InstructionBuilder) Build(opcode OpCode) Instruction {
	return Instruction{
		Opcode: opcode,
		Words:  b.words,
	}
}

// Encode encodes the instruction to words, packed opcode word first.
func (i Instruction) Encode() []uint32 {
	wordCount := uint32(len(i.Words) + 1) // +1 for opcode word
	result := make([]uint32, 0, wordCount)
	result = append(result, (wordCount<<16)|uint32(i.Opcode))
	result = append(result, i.Words...)
	return result
}

// ModuleBuilder builds complete SPIR-V modules. Reflection tests and
// benchmarks use it to synthesize shaders without a compiler.
type ModuleBuilder struct {
	// Header
	version   Version
	generator uint32
	bound     uint32 // max ID + 1
	schema    uint32

	// Sections (ordered per SPIR-V spec)
	capabilities   []Instruction
	extensions     []Instruction
	extInstImports []Instruction
	memoryModel    *Instruction
	entryPoints    []Instruction
	executionModes []Instruction
	debugNames     []Instruction // OpName, OpMemberName
	annotations    []Instruction // OpDecorate, OpMemberDecorate
	types          []Instruction // OpType*, OpConstant*
	globalVars     []Instruction // OpVariable (global)
	functions      []Instruction // OpFunction...OpFunctionEnd

	// ID allocation
	nextID uint32
}

// NewModuleBuilder creates a new SPIR-V module builder.
func NewModuleBuilder(version Version) *ModuleBuilder {
	return &ModuleBuilder{
		version:   version,
		generator: GeneratorID,
		nextID:    1,
	}
}

// AllocID allocates a new SPIR-V ID.
func (b *ModuleBuilder) AllocID() uint32 {
	id := b.nextID
	b.nextID++
	return id
}

// AddCapability adds a capability.
func (b *ModuleBuilder) AddCapability(capability Capability) {
	builder := NewInstructionBuilder()
	builder.AddWord(uint32(capability))
	b.capabilities = append(b.capabilities, builder.Build(OpCapability))
}

// AddExtension adds an extension.
func (b *ModuleBuilder) AddExtension(name string) {
	builder := NewInstructionBuilder()
	builder.AddString(name)
	b.extensions = append(b.extensions, builder.Build(OpExtension))
}

// AddExtInstImport imports an extended instruction set.
func (b *ModuleBuilder) AddExtInstImport(name string) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(id)
	builder.AddString(name)
	b.extInstImports = append(b.extInstImports, builder.Build(OpExtInstImport))
	return id
}

// SetMemoryModel sets the memory model.
func (b *ModuleBuilder) SetMemoryModel(addressing AddressingModel, memory MemoryModel) {
	builder := NewInstructionBuilder()
	builder.AddWord(uint32(addressing))
	builder.AddWord(uint32(memory))
	inst := builder.Build(OpMemoryModel)
	b.memoryModel = &inst
}

// AddEntryPoint adds an entry point.
func (b *ModuleBuilder) AddEntryPoint(execModel ExecutionModel, funcID uint32, name string, interfaces []uint32) {
	builder := NewInstructionBuilder()
	builder.AddWord(uint32(execModel))
	builder.AddWord(funcID)
	builder.AddString(name)
	for _, iface := range interfaces {
		builder.AddWord(iface)
	}
	b.entryPoints = append(b.entryPoints, builder.Build(OpEntryPoint))
}

// AddExecutionMode adds an execution mode.
func (b *ModuleBuilder) AddExecutionMode(entryPoint uint32, mode ExecutionMode, params ...uint32) {
	builder := NewInstructionBuilder()
	builder.AddWord(entryPoint)
	builder.AddWord(uint32(mode))
	for _, param := range params {
		builder.AddWord(param)
	}
	b.executionModes = append(b.executionModes, builder.Build(OpExecutionMode))
}

// AddName adds a debug name.
func (b *ModuleBuilder) AddName(id uint32, name string) {
	builder := NewInstructionBuilder()
	builder.AddWord(id)
	builder.AddString(name)
	b.debugNames = append(b.debugNames, builder.Build(OpName))
}

// AddMemberName adds a debug member name.
func (b *ModuleBuilder) AddMemberName(structID, member uint32, name string) {
	builder := NewInstructionBuilder()
	builder.AddWord(structID)
	builder.AddWord(member)
	builder.AddString(name)
	b.debugNames = append(b.debugNames, builder.Build(OpMemberName))
}

// AddDecorate adds a decoration.
func (b *ModuleBuilder) AddDecorate(id uint32, decoration Decoration, params ...uint32) {
	builder := NewInstructionBuilder()
	builder.AddWord(id)
	builder.AddWord(uint32(decoration))
	for _, param := range params {
		builder.AddWord(param)
	}
	b.annotations = append(b.annotations, builder.Build(OpDecorate))
}

// AddMemberDecorate adds a member decoration.
func (b *ModuleBuilder) AddMemberDecorate(structID, member uint32, decoration Decoration, params ...uint32) {
	builder := NewInstructionBuilder()
	builder.AddWord(structID)
	builder.AddWord(member)
	builder.AddWord(uint32(decoration))
	for _, param := range params {
		builder.AddWord(param)
	}
	b.annotations = append(b.annotations, builder.Build(OpMemberDecorate))
}

// AddRaw appends an arbitrary instruction to the types section. Tests use it
// to inject opcodes the builder has no helper for.
func (b *ModuleBuilder) AddRaw(opcode OpCode, words ...uint32) {
	b.types = append(b.types, Instruction{Opcode: opcode, Words: words})
}

func (b *ModuleBuilder) addType(opcode OpCode, operands ...uint32) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(id)
	for _, op := range operands {
		builder.AddWord(op)
	}
	b.types = append(b.types, builder.Build(opcode))
	return id
}

// AddTypeVoid adds OpTypeVoid.
func (b *ModuleBuilder) AddTypeVoid() uint32 {
	return b.addType(OpTypeVoid)
}

// AddTypeBool adds OpTypeBool.
func (b *ModuleBuilder) AddTypeBool() uint32 {
	return b.addType(OpTypeBool)
}

// AddTypeFloat adds OpTypeFloat.
func (b *ModuleBuilder) AddTypeFloat(width uint32) uint32 {
	return b.addType(OpTypeFloat, width)
}

// AddTypeInt adds OpTypeInt.
func (b *ModuleBuilder) AddTypeInt(width uint32, signed bool) uint32 {
	var signedness uint32
	if signed {
		signedness = 1
	}
	return b.addType(OpTypeInt, width, signedness)
}

// AddTypeVector adds OpTypeVector.
func (b *ModuleBuilder) AddTypeVector(componentType uint32, count uint32) uint32 {
	return b.addType(OpTypeVector, componentType, count)
}

// AddTypeMatrix adds OpTypeMatrix.
func (b *ModuleBuilder) AddTypeMatrix(columnType uint32, columnCount uint32) uint32 {
	return b.addType(OpTypeMatrix, columnType, columnCount)
}

// AddTypeImage adds OpTypeImage. sampled is 1 for sampled images and 2 for
// storage images.
func (b *ModuleBuilder) AddTypeImage(sampledType uint32, dim Dim, depth uint32, arrayed, multisampled bool, sampled uint32) uint32 {
	return b.addType(OpTypeImage, sampledType, uint32(dim), depth,
		boolWord(arrayed), boolWord(multisampled), sampled,
		uint32(ImageFormatUnknown))
}

// AddTypeStorageImage adds a non-multisampled OpTypeImage with Sampled = 2
// and an explicit format.
func (b *ModuleBuilder) AddTypeStorageImage(sampledType uint32, dim Dim, arrayed bool, format ImageFormat) uint32 {
	return b.addType(OpTypeImage, sampledType, uint32(dim), 0,
		boolWord(arrayed), 0, 2, uint32(format))
}

// AddTypeSampler adds OpTypeSampler.
func (b *ModuleBuilder) AddTypeSampler() uint32 {
	return b.addType(OpTypeSampler)
}

// AddTypeSampledImage adds OpTypeSampledImage.
func (b *ModuleBuilder) AddTypeSampledImage(imageType uint32) uint32 {
	return b.addType(OpTypeSampledImage, imageType)
}

// AddTypeArray adds OpTypeArray.
func (b *ModuleBuilder) AddTypeArray(elementType uint32, length uint32) uint32 {
	return b.addType(OpTypeArray, elementType, length) // length is a constant ID
}

// AddTypeRuntimeArray adds OpTypeRuntimeArray.
func (b *ModuleBuilder) AddTypeRuntimeArray(elementType uint32) uint32 {
	return b.addType(OpTypeRuntimeArray, elementType)
}

// AddTypePointer adds OpTypePointer.
func (b *ModuleBuilder) AddTypePointer(storageClass StorageClass, baseType uint32) uint32 {
	return b.addType(OpTypePointer, uint32(storageClass), baseType)
}

// AddTypeFunction adds OpTypeFunction.
func (b *ModuleBuilder) AddTypeFunction(returnType uint32, paramTypes ...uint32) uint32 {
	return b.addType(OpTypeFunction, append([]uint32{returnType}, paramTypes...)...)
}

// AddTypeStruct adds OpTypeStruct.
func (b *ModuleBuilder) AddTypeStruct(memberTypes ...uint32) uint32 {
	return b.addType(OpTypeStruct, memberTypes...)
}

// AddConstant adds OpConstant.
func (b *ModuleBuilder) AddConstant(typeID uint32, values ...uint32) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(typeID)
	builder.AddWord(id)
	for _, value := range values {
		builder.AddWord(value)
	}
	b.types = append(b.types, builder.Build(OpConstant))
	return id
}

// AddConstantFloat32 adds a 32-bit float constant.
func (b *ModuleBuilder) AddConstantFloat32(typeID uint32, value float32) uint32 {
	return b.AddConstant(typeID, math.Float32bits(value))
}

// AddVariable adds OpVariable.
func (b *ModuleBuilder) AddVariable(pointerType uint32, storageClass StorageClass) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(pointerType)
	builder.AddWord(id)
	builder.AddWord(uint32(storageClass))
	b.globalVars = append(b.globalVars, builder.Build(OpVariable))
	return id
}

// AddFunction adds a function definition.
func (b *ModuleBuilder) AddFunction(funcType uint32, returnType uint32, control FunctionControl) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(returnType)
	builder.AddWord(id)
	builder.AddWord(uint32(control))
	builder.AddWord(funcType)
	b.functions = append(b.functions, builder.Build(OpFunction))
	return id
}

// AddLabel adds a label.
func (b *ModuleBuilder) AddLabel() uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(id)
	b.functions = append(b.functions, builder.Build(OpLabel))
	return id
}

// AddLoad adds OpLoad.
func (b *ModuleBuilder) AddLoad(resultType uint32, pointer uint32) uint32 {
	resultID := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(resultType)
	builder.AddWord(resultID)
	builder.AddWord(pointer)
	b.functions = append(b.functions, builder.Build(OpLoad))
	return resultID
}

// AddReturn adds OpReturn.
func (b *ModuleBuilder) AddReturn() {
	b.functions = append(b.functions, NewInstructionBuilder().Build(OpReturn))
}

// AddFunctionEnd adds OpFunctionEnd.
func (b *ModuleBuilder) AddFunctionEnd() {
	b.functions = append(b.functions, NewInstructionBuilder().Build(OpFunctionEnd))
}

// AddEmptyEntryPoint adds a void function with an empty body and registers
// it as the module's entry point for the given execution model.
func (b *ModuleBuilder) AddEmptyEntryPoint(execModel ExecutionModel, name string) uint32 {
	voidType := b.AddTypeVoid()
	funcType := b.AddTypeFunction(voidType)
	funcID := b.AddFunction(funcType, voidType, FunctionControlNone)
	b.AddLabel()
	b.AddReturn()
	b.AddFunctionEnd()
	b.AddEntryPoint(execModel, funcID, name, nil)
	switch execModel {
	case ExecutionModelFragment:
		b.AddExecutionMode(funcID, ExecutionModeOriginUpperLeft)
	case ExecutionModelGLCompute:
		b.AddExecutionMode(funcID, ExecutionModeLocalSize, 1, 1, 1)
	}
	return funcID
}

// BuildWords generates the module as host-independent words.
func (b *ModuleBuilder) BuildWords() []uint32 {
	// Update bound to max ID
	b.bound = b.nextID

	words := make([]uint32, 0, HeaderWords+64)
	words = append(words, MagicNumber, versionToWord(b.version), b.generator, b.bound, b.schema)

	sections := [][]Instruction{b.capabilities, b.extensions, b.extInstImports}
	if b.memoryModel != nil {
		sections = append(sections, []Instruction{*b.memoryModel})
	}
	sections = append(sections,
		b.entryPoints, b.executionModes, b.debugNames,
		b.annotations, b.types, b.globalVars, b.functions)

	for _, section := range sections {
		for _, inst := range section {
			words = append(words, inst.Encode()...)
		}
	}
	return words
}

// Build generates the final SPIR-V binary in little-endian byte order.
func (b *ModuleBuilder) Build() []byte {
	return b.BuildWithByteOrder(binary.LittleEndian)
}

// BuildWithByteOrder generates the SPIR-V binary in the given byte order.
func (b *ModuleBuilder) BuildWithByteOrder(order binary.ByteOrder) []byte {
	words := b.BuildWords()
	buffer := make([]byte, len(words)*4)
	for i, word := range words {
		order.PutUint32(buffer[i*4:], word)
	}
	return buffer
}

func boolWord(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
