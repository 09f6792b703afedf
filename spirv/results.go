package spirv

import "iter"

// OperandKind is the role of one operand word.
type OperandKind uint8

const (
	OperandLiteral OperandKind = iota
	OperandID
	OperandResultType
	OperandResult
	// OperandString marks the first word of a literal string.
	OperandString
)

// IsID reports whether the operand holds an id.
func (k OperandKind) IsID() bool {
	return k == OperandID || k == OperandResultType || k == OperandResult
}

// grammar is the operand layout of an opcode. Each byte of fixed is one
// operand: T result type, R result id, I id, L literal, S string. rest
// repeats over the remaining operands; M is an operand mask followed by ids.
type grammar struct {
	fixed string
	rest  string
}

var grammars = map[OpCode]grammar{
	OpNop:             {},
	OpUndef:           {"TR", ""},
	OpSourceContinued: {"S", ""},
	OpSource:          {"LLIS", ""},
	OpSourceExtension: {"S", ""},
	OpName:            {"IS", ""},
	OpMemberName:      {"ILS", ""},
	OpString:          {"RS", ""},
	OpLine:            {"ILL", ""},
	OpExtension:       {"S", ""},
	OpExtInstImport:   {"RS", ""},
	OpExtInst:         {"TRIL", "I"},
	OpMemoryModel:     {"LL", ""},
	OpEntryPoint:      {"LIS", "I"},
	OpExecutionMode:   {"IL", "L"},
	OpCapability:      {"L", ""},

	OpTypeVoid:         {"R", ""},
	OpTypeBool:         {"R", ""},
	OpTypeInt:          {"RLL", ""},
	OpTypeFloat:        {"RL", "L"},
	OpTypeVector:       {"RIL", ""},
	OpTypeMatrix:       {"RIL", ""},
	OpTypeImage:        {"RIL", "L"},
	OpTypeSampler:      {"R", ""},
	OpTypeSampledImage: {"RI", ""},
	OpTypeArray:        {"RII", ""},
	OpTypeRuntimeArray: {"RI", ""},
	OpTypeStruct:       {"R", "I"},
	OpTypeOpaque:       {"RS", ""},
	OpTypePointer:      {"RLI", ""},
	OpTypeFunction:     {"RI", "I"},

	OpConstantTrue:          {"TR", ""},
	OpConstantFalse:         {"TR", ""},
	OpConstant:              {"TR", "L"},
	OpConstantComposite:     {"TR", "I"},
	OpConstantSampler:       {"TRLLL", ""},
	OpConstantNull:          {"TR", ""},
	OpSpecConstantTrue:      {"TR", ""},
	OpSpecConstantFalse:     {"TR", ""},
	OpSpecConstant:          {"TR", "L"},
	OpSpecConstantComposite: {"TR", "I"},
	OpSpecConstantOp:        {"TRL", "I"},

	OpFunction:          {"TRLI", ""},
	OpFunctionParameter: {"TR", ""},
	OpFunctionEnd:       {},
	OpFunctionCall:      {"TRI", "I"},

	OpVariable:               {"TRLI", ""},
	OpImageTexelPointer:      {"TRIII", ""},
	OpLoad:                   {"TRI", "L"},
	OpStore:                  {"II", "L"},
	OpCopyMemory:             {"II", "L"},
	OpCopyMemorySized:        {"III", "L"},
	OpAccessChain:            {"TRI", "I"},
	OpInBoundsAccessChain:    {"TRI", "I"},
	OpPtrAccessChain:         {"TRII", "I"},
	OpArrayLength:            {"TRIL", ""},
	OpInBoundsPtrAccessChain: {"TRII", "I"},

	OpDecorate:            {"IL", "L"},
	OpMemberDecorate:      {"ILL", "L"},
	OpDecorationGroup:     {"R", ""},
	OpGroupDecorate:       {"I", "I"},
	OpGroupMemberDecorate: {"I", "IL"},

	OpVectorExtractDynamic: {"TRII", ""},
	OpVectorInsertDynamic:  {"TRIII", ""},
	OpVectorShuffle:        {"TRII", "L"},
	OpCompositeConstruct:   {"TR", "I"},
	OpCompositeExtract:     {"TRI", "L"},
	OpCompositeInsert:      {"TRII", "L"},
	OpCopyObject:           {"TRI", ""},
	OpTranspose:            {"TRI", ""},

	OpSampledImage:                   {"TRII", ""},
	OpImageSampleImplicitLod:         {"TRII", "M"},
	OpImageSampleExplicitLod:         {"TRII", "M"},
	OpImageSampleDrefImplicitLod:     {"TRIII", "M"},
	OpImageSampleDrefExplicitLod:     {"TRIII", "M"},
	OpImageSampleProjImplicitLod:     {"TRII", "M"},
	OpImageSampleProjExplicitLod:     {"TRII", "M"},
	OpImageSampleProjDrefImplicitLod: {"TRIII", "M"},
	OpImageSampleProjDrefExplicitLod: {"TRIII", "M"},
	OpImageFetch:                     {"TRII", "M"},
	OpImageGather:                    {"TRIII", "M"},
	OpImageDrefGather:                {"TRIII", "M"},
	OpImageRead:                      {"TRII", "M"},
	OpImageWrite:                     {"III", "M"},
	OpImage:                          {"TRI", ""},
	OpImageQueryFormat:               {"TRI", ""},
	OpImageQueryOrder:                {"TRI", ""},
	OpImageQuerySizeLod:              {"TRII", ""},
	OpImageQuerySize:                 {"TRI", ""},
	OpImageQueryLod:                  {"TRII", ""},
	OpImageQueryLevels:               {"TRI", ""},
	OpImageQuerySamples:              {"TRI", ""},

	OpControlBarrier: {"III", ""},
	OpMemoryBarrier:  {"II", ""},
	OpAtomicStore:    {"IIII", ""},

	OpPhi:               {"TR", "I"},
	OpLoopMerge:         {"IIL", "L"},
	OpSelectionMerge:    {"IL", ""},
	OpLabel:             {"R", ""},
	OpBranch:            {"I", ""},
	OpBranchConditional: {"III", "L"},
	OpKill:              {},
	OpReturn:            {},
	OpReturnValue:       {"I", ""},
	OpUnreachable:       {},

	// Case literals are assumed to be one word wide.
	OpSwitch: {"II", "LI"},

	OpNoLine:          {},
	OpModuleProcessed: {"S", ""},
	OpExecutionModeId: {"IL", "I"},
	OpDecorateId:      {"IL", "I"},
}

func lookupGrammar(op OpCode) (grammar, bool) {
	if g, ok := grammars[op]; ok {
		return g, true
	}
	if !op.Known() {
		return grammar{}, false
	}
	switch {
	case op >= OpConvertFToU && op <= OpBitCount,
		op >= OpAtomicLoad && op <= OpAtomicXor:
		// Conversion, arithmetic, relational, bit and atomic instructions
		// take only ids after the result.
		return grammar{"TR", "I"}, true
	case op >= OpDPdx && op <= OpFwidthCoarse:
		return grammar{"TRI", ""}, true
	}
	return grammar{}, false
}

// HasGrammar reports whether the operand layout of op is known.
func HasGrammar(op OpCode) bool {
	_, ok := lookupGrammar(op)
	return ok
}

// ResultLayout reports whether an opcode's operands start with a result type
// id and/or a result id. When hasType is true the result type is operand 0
// and the result id operand 1; when only hasResult is true the result id is
// operand 0. Opcodes without a known grammar report false, false.
func ResultLayout(op OpCode) (hasType, hasResult bool) {
	g, ok := lookupGrammar(op)
	if !ok || g.fixed == "" {
		return false, false
	}
	if g.fixed[0] == 'R' {
		return false, true
	}
	return g.fixed[0] == 'T', len(g.fixed) > 1 && g.fixed[1] == 'R'
}

// Operands yields the index and kind of each operand of an instruction with
// a known grammar, and nothing otherwise. A literal string is yielded once,
// at its first word. Operands beyond the grammar are yielded as literals.
func Operands(op OpCode, ops []uint32) iter.Seq2[int, OperandKind] {
	return func(yield func(int, OperandKind) bool) {
		g, ok := lookupGrammar(op)
		if !ok {
			return
		}
		i := 0
		for j := 0; j < len(g.fixed) && i < len(ops); j++ {
			kind := operandKind(g.fixed[j])
			if !yield(i, kind) {
				return
			}
			if kind == OperandString {
				i += StringWords(ops[i:])
			} else {
				i++
			}
		}

		rest := g.rest
		if rest == "M" {
			if i < len(ops) {
				if !yield(i, OperandLiteral) {
					return
				}
				i++
			}
			rest = "I"
		}
		for j := 0; i < len(ops); i, j = i+1, j+1 {
			kind := OperandLiteral
			if rest != "" {
				kind = operandKind(rest[j%len(rest)])
			}
			if !yield(i, kind) {
				return
			}
		}
	}
}

func operandKind(c byte) OperandKind {
	switch c {
	case 'T':
		return OperandResultType
	case 'R':
		return OperandResult
	case 'I':
		return OperandID
	case 'S':
		return OperandString
	}
	return OperandLiteral
}
