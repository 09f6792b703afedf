// Package disasm prints a SPIR-V module as spvasm-style text.
//
// The printer walks the module with its own spirv.Cursor and keeps no
// state beyond a name map, so it can run alongside reflection of the same
// module.
package disasm

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gogpu/spvreflect/spirv"
)

// Options controls the output.
type Options struct {
	// FriendlyNames prints %name instead of %N for ids with a unique OpName.
	FriendlyNames bool

	// Header prints the module header as a comment block.
	Header bool
}

// DefaultOptions returns the options used by Disassemble.
func DefaultOptions() Options {
	return Options{FriendlyNames: true, Header: true}
}

// Disassemble writes m to w using DefaultOptions.
func Disassemble(w io.Writer, m *spirv.Module) error {
	return DisassembleWithOptions(w, m, DefaultOptions())
}

// DisassembleWithOptions writes m to w. It stops at the first corrupt
// instruction and returns the cursor error after printing everything before
// it.
func DisassembleWithOptions(w io.Writer, m *spirv.Module, opts Options) error {
	p := &printer{w: w}
	if opts.FriendlyNames {
		p.names = collectNames(m)
	}

	if opts.Header {
		v := m.Version()
		p.printf("; SPIR-V\n")
		p.printf("; Version: %d.%d\n", v.Major, v.Minor)
		p.printf("; Generator: 0x%08X\n", m.Generator())
		p.printf("; Bound: %d\n", m.Bound())
		p.printf("; Schema: %d\n", m.Schema())
		if m.Swapped() {
			p.printf("; Byte order: swapped\n")
		}
		p.printf("\n")
	}

	for c := spirv.NewCursor(m); !c.Finished(); {
		inst, err := c.Current()
		if err != nil {
			p.printf("; ERROR: %v\n", err)
			if p.err != nil {
				return p.err
			}
			return err
		}
		p.instruction(inst)
		if p.err != nil {
			return p.err
		}
		if err := c.Advance(); err != nil {
			return err
		}
	}
	return p.err
}

// collectNames maps ids to their OpName when the name is a valid unique
// spvasm identifier.
func collectNames(m *spirv.Module) map[uint32]string {
	names := make(map[uint32]string)
	seen := make(map[string]int)
	for c := spirv.NewCursor(m); !c.Finished(); {
		inst, err := c.Current()
		if err != nil {
			break
		}
		if inst.Opcode == spirv.OpName && len(inst.Words) >= 2 {
			s, _ := spirv.DecodeString(inst.Words[1:])
			if validName(s) {
				names[inst.Words[0]] = s
				seen[s]++
			}
		}
		if c.Advance() != nil {
			break
		}
	}
	for id, s := range names {
		if seen[s] > 1 {
			delete(names, id)
		}
	}
	return names
}

func validName(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

type printer struct {
	w     io.Writer
	err   error
	names map[uint32]string
	sb    strings.Builder
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) id(n uint32) string {
	if name, ok := p.names[n]; ok {
		return "%" + name
	}
	return "%" + strconv.FormatUint(uint64(n), 10)
}

func (p *printer) ids(ops []uint32) {
	for _, op := range ops {
		p.sb.WriteByte(' ')
		p.sb.WriteString(p.id(op))
	}
}

func (p *printer) literals(ops []uint32) {
	for _, op := range ops {
		p.sb.WriteByte(' ')
		p.sb.WriteString(strconv.FormatUint(uint64(op), 10))
	}
}

func (p *printer) word(s string) {
	p.sb.WriteByte(' ')
	p.sb.WriteString(s)
}

func (p *printer) str(words []uint32) int {
	s, n := spirv.DecodeString(words)
	p.sb.WriteByte(' ')
	p.sb.WriteString(strconv.Quote(s))
	return n
}

func (p *printer) instruction(inst spirv.Instruction) {
	p.sb.Reset()
	result, ok := p.operands(inst)
	if !ok {
		p.sb.Reset()
		result = ""
		p.literals(inst.Words)
	}
	if result != "" {
		p.printf("%14s = %s%s\n", result, inst.Opcode, p.sb.String())
		return
	}
	p.printf("%17s%s%s\n", "", inst.Opcode, p.sb.String())
}

// operands renders the operands of inst into p.sb and returns the result id
// text. It returns false when the instruction is too short for its grammar.
//
//nolint:gocognit,gocyclo,cyclop,funlen,maintidx // one case per opcode
func (p *printer) operands(inst spirv.Instruction) (string, bool) {
	ops := inst.Words
	need := func(n int) bool { return len(ops) >= n }

	switch inst.Opcode {
	case spirv.OpCapability:
		if !need(1) {
			return "", false
		}
		p.word(spirv.Capability(ops[0]).String())
		return "", true

	case spirv.OpExtension:
		p.str(ops)
		return "", true

	case spirv.OpExtInstImport, spirv.OpString:
		if !need(2) {
			return "", false
		}
		p.str(ops[1:])
		return p.id(ops[0]), true

	case spirv.OpMemoryModel:
		if !need(2) {
			return "", false
		}
		p.word(spirv.AddressingModel(ops[0]).String())
		p.word(spirv.MemoryModel(ops[1]).String())
		return "", true

	case spirv.OpEntryPoint:
		if !need(3) {
			return "", false
		}
		p.word(spirv.ExecutionModel(ops[0]).String())
		p.word(p.id(ops[1]))
		n := p.str(ops[2:])
		p.ids(ops[2+n:])
		return "", true

	case spirv.OpExecutionMode:
		if !need(2) {
			return "", false
		}
		p.word(p.id(ops[0]))
		p.word(spirv.ExecutionMode(ops[1]).String())
		p.literals(ops[2:])
		return "", true

	case spirv.OpSource:
		if !need(2) {
			return "", false
		}
		p.word(sourceLanguage(ops[0]))
		p.literals(ops[1:2])
		if need(3) {
			p.word(p.id(ops[2]))
		}
		if need(4) {
			p.str(ops[3:])
		}
		return "", true

	case spirv.OpName:
		if !need(2) {
			return "", false
		}
		p.word(p.id(ops[0]))
		p.str(ops[1:])
		return "", true

	case spirv.OpMemberName:
		if !need(3) {
			return "", false
		}
		p.word(p.id(ops[0]))
		p.literals(ops[1:2])
		p.str(ops[2:])
		return "", true

	case spirv.OpDecorate:
		if !need(2) {
			return "", false
		}
		p.word(p.id(ops[0]))
		p.decoration(ops[1:])
		return "", true

	case spirv.OpMemberDecorate:
		if !need(3) {
			return "", false
		}
		p.word(p.id(ops[0]))
		p.literals(ops[1:2])
		p.decoration(ops[2:])
		return "", true

	case spirv.OpTypeInt, spirv.OpTypeFloat:
		if !need(2) {
			return "", false
		}
		p.literals(ops[1:])
		return p.id(ops[0]), true

	case spirv.OpTypeVector, spirv.OpTypeMatrix:
		if !need(3) {
			return "", false
		}
		p.word(p.id(ops[1]))
		p.literals(ops[2:])
		return p.id(ops[0]), true

	case spirv.OpTypeImage:
		if !need(8) {
			return "", false
		}
		p.word(p.id(ops[1]))
		p.word(spirv.Dim(ops[2]).String())
		p.literals(ops[3:7])
		p.word(spirv.ImageFormat(ops[7]).String())
		p.literals(ops[8:])
		return p.id(ops[0]), true

	case spirv.OpTypePointer:
		if !need(3) {
			return "", false
		}
		p.word(spirv.StorageClass(ops[1]).String())
		p.word(p.id(ops[2]))
		return p.id(ops[0]), true

	case spirv.OpVariable:
		if !need(3) {
			return "", false
		}
		p.word(p.id(ops[0]))
		p.word(spirv.StorageClass(ops[2]).String())
		p.ids(ops[3:])
		return p.id(ops[1]), true

	case spirv.OpConstant, spirv.OpSpecConstant:
		if !need(3) {
			return "", false
		}
		p.word(p.id(ops[0]))
		p.literals(ops[2:])
		return p.id(ops[1]), true

	case spirv.OpFunction:
		if !need(4) {
			return "", false
		}
		p.word(p.id(ops[0]))
		p.word(functionControl(ops[2]))
		p.word(p.id(ops[3]))
		return p.id(ops[1]), true

	case spirv.OpCompositeExtract:
		if !need(3) {
			return "", false
		}
		p.word(p.id(ops[0]))
		p.word(p.id(ops[2]))
		p.literals(ops[3:])
		return p.id(ops[1]), true
	}

	if !spirv.HasGrammar(inst.Opcode) {
		return "", false
	}
	var result string
	for i, kind := range spirv.Operands(inst.Opcode, ops) {
		switch kind {
		case spirv.OperandResult:
			result = p.id(ops[i])
		case spirv.OperandResultType, spirv.OperandID:
			p.word(p.id(ops[i]))
		case spirv.OperandString:
			p.str(ops[i:])
		default:
			p.literals(ops[i : i+1])
		}
	}
	if _, hasResult := spirv.ResultLayout(inst.Opcode); hasResult && result == "" {
		return "", false
	}
	return result, true
}

func (p *printer) decoration(ops []uint32) {
	d := spirv.Decoration(ops[0])
	p.word(d.String())
	if d == spirv.DecorationBuiltIn && len(ops) > 1 {
		p.word(builtIn(ops[1]))
		p.literals(ops[2:])
		return
	}
	p.literals(ops[1:])
}

var builtInNames = map[uint32]string{
	0: "Position", 1: "PointSize", 3: "CullDistance", 6: "PrimitiveId",
	14: "FragCoord", 15: "PointCoord", 16: "FrontFacing", 17: "SampleId",
	19: "SampleMask", 22: "FragDepth", 24: "NumWorkgroups", 26: "WorkgroupId",
	27: "LocalInvocationId", 28: "GlobalInvocationId", 29: "LocalInvocationIndex",
	42: "VertexIndex", 43: "InstanceIndex",
}

func builtIn(v uint32) string {
	if s, ok := builtInNames[v]; ok {
		return s
	}
	return strconv.FormatUint(uint64(v), 10)
}

func sourceLanguage(v uint32) string {
	switch v {
	case 0:
		return "Unknown"
	case 1:
		return "ESSL"
	case 2:
		return "GLSL"
	case 3:
		return "OpenCL_C"
	case 4:
		return "OpenCL_CPP"
	case 5:
		return "HLSL"
	case 10:
		return "WGSL"
	}
	return strconv.FormatUint(uint64(v), 10)
}

func functionControl(v uint32) string {
	if v == uint32(spirv.FunctionControlNone) {
		return "None"
	}
	var parts []string
	for bit, name := range []string{"Inline", "DontInline", "Pure", "Const"} {
		if v&(1<<bit) != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return strconv.FormatUint(uint64(v), 10)
	}
	return strings.Join(parts, "|")
}
