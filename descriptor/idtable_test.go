package descriptor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gogpu/spvreflect/internal/shadertest"
	"github.com/gogpu/spvreflect/spirv"
)

func build(t *testing.T, b *shadertest.Builder) *IDTable {
	t.Helper()
	m := b.Module()
	ids := NewIDTable(int(m.Bound()))
	if err := ids.Build(m); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return ids
}

func TestIDTable_Classification(t *testing.T) {
	tests := []struct {
		name    string
		declare func(b *shadertest.Builder) uint32
		want    IDRecord
	}{
		{
			name:    "uniform buffer",
			declare: func(b *shadertest.Builder) uint32 { return b.UniformBuffer(1, 0, "ubo") },
			want:    IDRecord{Kind: KindUniformBuffer, Set: 1, Binding: 0, IsDescriptorVariable: true},
		},
		{
			name:    "storage buffer class",
			declare: func(b *shadertest.Builder) uint32 { return b.StorageBuffer(0, 2, "ssbo") },
			want:    IDRecord{Kind: KindStorageBuffer, Binding: 2, IsDescriptorVariable: true},
		},
		{
			name:    "buffer block",
			declare: func(b *shadertest.Builder) uint32 { return b.BufferBlock(0, 3, "") },
			want:    IDRecord{Kind: KindStorageBuffer, Binding: 3, IsDescriptorVariable: true},
		},
		{
			name:    "sampler",
			declare: func(b *shadertest.Builder) uint32 { return b.Sampler(0, 1, "s") },
			want:    IDRecord{Kind: KindSampler, Binding: 1, IsDescriptorVariable: true},
		},
		{
			name:    "texture",
			declare: func(b *shadertest.Builder) uint32 { return b.Texture(2, 4, "t") },
			want:    IDRecord{Kind: KindImage, Set: 2, Binding: 4, IsDescriptorVariable: true, Dim: spirv.Dim2D},
		},
		{
			name:    "depth texture",
			declare: func(b *shadertest.Builder) uint32 { return b.DepthTexture(0, 1, "shadow") },
			want: IDRecord{Kind: KindImage, Binding: 1, IsDescriptorVariable: true,
				Dim: spirv.Dim2D, Depth: true},
		},
		{
			name:    "multisampled texture",
			declare: func(b *shadertest.Builder) uint32 { return b.MultisampledTexture(0, 2, "msaa") },
			want: IDRecord{Kind: KindImage, Binding: 2, IsDescriptorVariable: true,
				Dim: spirv.Dim2D, Multisampled: true},
		},
		{
			name:    "combined image sampler",
			declare: func(b *shadertest.Builder) uint32 { return b.SampledImage(0, 3, "tex") },
			want:    IDRecord{Kind: KindSampledImage, Binding: 3, IsDescriptorVariable: true, Dim: spirv.Dim2D},
		},
		{
			name:    "combined image sampler array",
			declare: func(b *shadertest.Builder) uint32 { return b.SampledImageArray(0, 0, 6, "textures") },
			want:    IDRecord{Kind: KindSampledImage, IsDescriptorVariable: true, Dim: spirv.Dim2D, Count: 6},
		},
		{
			name:    "texel buffer",
			declare: func(b *shadertest.Builder) uint32 { return b.TexelBuffer(0, 5, "") },
			want: IDRecord{Kind: KindStorageTexelBuffer, Binding: 5, IsDescriptorVariable: true,
				Dim: spirv.DimBuffer, StorageImage: true},
		},
		{
			name: "storage image",
			declare: func(b *shadertest.Builder) uint32 {
				return b.StorageImage(0, 6, spirv.ImageFormatRgba8, "out")
			},
			want: IDRecord{Kind: KindImage, Binding: 6, IsDescriptorVariable: true,
				Dim: spirv.Dim2D, StorageImage: true, Format: spirv.ImageFormatRgba8},
		},
		{
			name:    "push constant",
			declare: func(b *shadertest.Builder) uint32 { return b.PushConstant("pc") },
			want:    IDRecord{Kind: KindNone, IsPushConstant: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := shadertest.New().Entry(spirv.ExecutionModelFragment, "main")
			v := tt.declare(b)
			ids := build(t, b)

			if diff := cmp.Diff(tt.want, ids.Record(v), cmpopts.IgnoreUnexported(IDRecord{})); diff != "" {
				t.Errorf("Record(%d) mismatch (-want +got):\n%s", v, diff)
			}
		})
	}
}

func TestIDTable_NonDescriptorVariables(t *testing.T) {
	b := shadertest.New().Entry(spirv.ExecutionModelVertex, "main")
	vec := b.AddTypeVector(b.Float(), 4)
	in := b.AddVariable(b.AddTypePointer(spirv.StorageClassInput, vec), spirv.StorageClassInput)
	private := b.AddVariable(b.AddTypePointer(spirv.StorageClassPrivate, vec), spirv.StorageClassPrivate)
	ids := build(t, b)

	for _, v := range []uint32{in, private} {
		if r := ids.Record(v); r.IsDescriptorVariable || r.Kind != KindNone {
			t.Errorf("variable %d classified as %s (descriptor=%v)", v, r.Kind, r.IsDescriptorVariable)
		}
	}
}

func TestIDTable_DecorationsBeforeAndAfter(t *testing.T) {
	// Decorations live in their own section, ahead of types and variables.
	// Decorating a type after the fact must still reach the struct record.
	b := shadertest.New().Entry(spirv.ExecutionModelGLCompute, "main")
	st := b.AddTypeStruct(b.AddTypeVector(b.Float(), 4))
	b.AddDecorate(st, spirv.DecorationBufferBlock)
	v := b.AddVariable(b.AddTypePointer(spirv.StorageClassUniform, st), spirv.StorageClassUniform)
	b.AddDecorate(v, spirv.DecorationNonWritable)
	b.Bind(v, 3, 7, "particles")
	ids := build(t, b)

	r := ids.Record(v)
	if r.Kind != KindStorageBuffer || r.Set != 3 || r.Binding != 7 || !r.ReadOnly {
		t.Errorf("Record = %+v, want read-only StorageBuffer at 3/7", r)
	}
	if got := ids.Name(v); got != "particles" {
		t.Errorf("Name() = %q, want %q", got, "particles")
	}
}

func TestIDTable_Stage(t *testing.T) {
	tests := []struct {
		name   string
		models []spirv.ExecutionModel
		stage  Stage
		entry  string
	}{
		{"vertex", []spirv.ExecutionModel{spirv.ExecutionModelVertex}, StageVertex, "ep0"},
		{"compute", []spirv.ExecutionModel{spirv.ExecutionModelGLCompute}, StageCompute, "ep0"},
		{"none", nil, StageNone, ""},
		{"unsupported only", []spirv.ExecutionModel{spirv.ExecutionModelGeometry}, StageNone, ""},
		{
			"first supported wins",
			[]spirv.ExecutionModel{spirv.ExecutionModelGeometry, spirv.ExecutionModelFragment, spirv.ExecutionModelVertex},
			StageFragment, "ep1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := shadertest.New()
			for i, model := range tt.models {
				b.Entry(model, "ep"+string(rune('0'+i)))
			}
			ids := build(t, b)
			if ids.Stage() != tt.stage {
				t.Errorf("Stage() = %s, want %s", ids.Stage(), tt.stage)
			}
			if ids.EntryPoint() != tt.entry {
				t.Errorf("EntryPoint() = %q, want %q", ids.EntryPoint(), tt.entry)
			}
		})
	}
}

func TestIDTable_CapacityExceeded(t *testing.T) {
	m := shadertest.New().Entry(spirv.ExecutionModelFragment, "main").Module()
	ids := NewIDTable(int(m.Bound()) - 1)

	err := ids.Build(m)
	var e *Error
	if !errors.As(err, &e) || !e.IsCapacityExceeded() {
		t.Fatalf("Build() = %v, want CapacityExceeded", err)
	}
	if ids.Bound() != 0 {
		t.Errorf("Bound() = %d after failed Build, want 0", ids.Bound())
	}
}

func TestIDTable_IDOutOfRange(t *testing.T) {
	const bad = 1000

	tests := []struct {
		name   string
		inject func(b *shadertest.Builder)
	}{
		{"decorate target", func(b *shadertest.Builder) {
			b.AddDecorate(bad, spirv.DecorationBinding, 0)
		}},
		{"name target", func(b *shadertest.Builder) {
			b.AddName(bad, "ghost")
		}},
		{"pointer pointee", func(b *shadertest.Builder) {
			b.AddTypePointer(spirv.StorageClassUniform, bad)
		}},
		{"variable result", func(b *shadertest.Builder) {
			ptr := b.AddTypePointer(spirv.StorageClassUniform, b.Float())
			b.AddRaw(spirv.OpVariable, ptr, bad, uint32(spirv.StorageClassUniform))
		}},
		{"variable type", func(b *shadertest.Builder) {
			b.AddRaw(spirv.OpVariable, bad, b.AllocID(), uint32(spirv.StorageClassUniform))
		}},
		{"struct member", func(b *shadertest.Builder) {
			b.AddTypeStruct(b.Float(), bad)
		}},
		{"sampled image", func(b *shadertest.Builder) {
			b.AddTypeSampledImage(bad)
		}},
		{"array length", func(b *shadertest.Builder) {
			b.AddTypeArray(b.Float(), bad)
		}},
		{"entry point function", func(b *shadertest.Builder) {
			b.AddEntryPoint(spirv.ExecutionModelVertex, bad, "main", nil)
		}},
		{"entry point interface", func(b *shadertest.Builder) {
			b.AddEntryPoint(spirv.ExecutionModelVertex, b.AllocID(), "main", []uint32{bad})
		}},
		{"ignored opcode result", func(b *shadertest.Builder) {
			b.AddRaw(spirv.OpTypeBool, bad)
		}},
		{"ignored opcode result type", func(b *shadertest.Builder) {
			b.AddRaw(spirv.OpUndef, bad, b.AllocID())
		}},
		{"member decorate target", func(b *shadertest.Builder) {
			b.AddMemberDecorate(bad, 0, spirv.DecorationOffset, 0)
		}},
		{"member name target", func(b *shadertest.Builder) {
			b.AddMemberName(bad, 0, "ghost")
		}},
		{"execution mode target", func(b *shadertest.Builder) {
			b.AddExecutionMode(bad, spirv.ExecutionModeOriginUpperLeft)
		}},
		{"load pointer", func(b *shadertest.Builder) {
			b.AddLoad(b.Float(), bad)
		}},
		{"load result type", func(b *shadertest.Builder) {
			b.AddLoad(bad, b.UniformBuffer(0, 0, ""))
		}},
		{"store object", func(b *shadertest.Builder) {
			b.AddRaw(spirv.OpStore, b.UniformBuffer(0, 0, ""), bad)
		}},
		{"access chain index", func(b *shadertest.Builder) {
			v := b.UniformBuffer(0, 0, "")
			ptr := b.AddTypePointer(spirv.StorageClassUniform, b.Float())
			b.AddRaw(spirv.OpAccessChain, ptr, b.AllocID(), v, bad)
		}},
		{"decoration group result", func(b *shadertest.Builder) {
			b.AddRaw(spirv.OpDecorationGroup, bad)
		}},
		{"group decorate target", func(b *shadertest.Builder) {
			group := b.AllocID()
			b.AddRaw(spirv.OpDecorationGroup, group)
			b.AddRaw(spirv.OpGroupDecorate, group, b.Float(), bad)
		}},
		{"group member decorate target", func(b *shadertest.Builder) {
			group := b.AllocID()
			b.AddRaw(spirv.OpDecorationGroup, group)
			b.AddRaw(spirv.OpGroupMemberDecorate, group, bad, 0)
		}},
		{"matrix column type", func(b *shadertest.Builder) {
			b.AddTypeMatrix(bad, 4)
		}},
		{"constant composite constituent", func(b *shadertest.Builder) {
			vec := b.AddTypeVector(b.Float(), 2)
			b.AddRaw(spirv.OpConstantComposite, vec, b.AllocID(), b.AddConstantFloat32(b.Float(), 1), bad)
		}},
		{"bool constant result", func(b *shadertest.Builder) {
			b.AddRaw(spirv.OpConstantTrue, b.AddTypeBool(), bad)
		}},
		{"extended instruction argument", func(b *shadertest.Builder) {
			const fabs = 4
			b.AddRaw(spirv.OpExtInst, b.Float(), b.AllocID(), b.GLSL(), fabs, bad)
		}},
		{"image operand after mask", func(b *shadertest.Builder) {
			const bias = 1
			b.AddRaw(spirv.OpImageSampleImplicitLod, b.Float(), b.AllocID(), b.AllocID(), b.AllocID(), bias, bad)
		}},
		{"arithmetic operand", func(b *shadertest.Builder) {
			b.AddRaw(spirv.OpIAdd, b.Float(), b.AllocID(), b.AllocID(), bad)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := shadertest.New().Entry(spirv.ExecutionModelFragment, "main")
			tt.inject(b)
			m := b.Module()
			if m.Bound() > bad {
				t.Fatalf("bound %d is not below the bad id", m.Bound())
			}

			ids := NewIDTable(int(m.Bound()))
			err := ids.Build(m)
			var e *spirv.Error
			if !errors.As(err, &e) || !e.IsIDOutOfRange() {
				t.Fatalf("Build() = %v, want IdOutOfRange", err)
			}
		})
	}
}

func TestIDTable_LiteralOperandsNotRangeChecked(t *testing.T) {
	const large = 0xFFFF

	b := shadertest.New().Entry(spirv.ExecutionModelGLCompute, "main")
	st := b.AddTypeStruct(b.AddTypeVector(b.Float(), 4), b.Float())
	b.AddDecorate(st, spirv.DecorationBlock)
	b.AddMemberDecorate(st, 1, spirv.DecorationOffset, large)
	b.AddMemberName(st, 1, "tail")
	v := b.Bind(b.AddVariable(b.AddTypePointer(spirv.StorageClassUniform, st), spirv.StorageClassUniform), 0, large, "big")
	b.AddConstant(b.AddTypeInt(32, false), large)
	b.AddTypeMatrix(b.AddTypeVector(b.Float(), 4), 4)
	b.AddRaw(spirv.OpCompositeExtract, b.Float(), b.AllocID(), b.AllocID(), large)
	const aligned = 2
	b.AddLoad(b.Float(), v)
	b.AddRaw(spirv.OpStore, v, b.AllocID(), aligned, large)
	ids := build(t, b)

	if r := ids.Record(v); r.Kind != KindUniformBuffer || r.Binding != large {
		t.Errorf("Record(%d) = %+v, want UniformBuffer at binding %d", v, r, large)
	}
}

func TestIDTable_ShortInstruction(t *testing.T) {
	b := shadertest.New()
	b.AddRaw(spirv.OpTypePointer, b.AllocID())
	m := b.Module()

	err := NewIDTable(int(m.Bound())).Build(m)
	var e *spirv.Error
	if !errors.As(err, &e) || !e.IsCorrupt() {
		t.Fatalf("Build() = %v, want CorruptInstructionStream", err)
	}
	if e.Opcode != spirv.OpTypePointer {
		t.Errorf("error opcode = %s, want OpTypePointer", e.Opcode)
	}
}

func TestIDTable_ZeroWordCount(t *testing.T) {
	b := shadertest.New()
	b.UniformBuffer(0, 0, "")
	words := append(b.BuildWords(), uint32(spirv.OpNop))
	m, err := spirv.NewModuleFromWords(words)
	if err != nil {
		t.Fatal(err)
	}

	err = NewIDTable(int(m.Bound())).Build(m)
	var e *spirv.Error
	if !errors.As(err, &e) || !e.IsCorrupt() {
		t.Fatalf("Build() = %v, want CorruptInstructionStream", err)
	}
}

func TestIDTable_SkipsUnknownOpcodes(t *testing.T) {
	b := shadertest.New().Entry(spirv.ExecutionModelFragment, "main")
	b.AddRaw(spirv.OpCode(0x7ABC), 0xFFFFFFFF, 0xFFFFFFFF)
	v := b.Sampler(0, 0, "")
	ids := build(t, b)

	if ids.Record(v).Kind != KindSampler {
		t.Errorf("Record(%d).Kind = %s, want Sampler", v, ids.Record(v).Kind)
	}
}

func TestIDTable_Reuse(t *testing.T) {
	big := shadertest.New().Entry(spirv.ExecutionModelFragment, "main")
	big.UniformBuffer(0, 0, "ubo")
	big.Sampler(0, 1, "s")
	mBig := big.Module()

	small := shadertest.New().Entry(spirv.ExecutionModelVertex, "vs")
	mSmall := small.Module()

	ids := NewIDTable(int(mBig.Bound()))
	if err := ids.Build(mBig); err != nil {
		t.Fatal(err)
	}
	if err := ids.Build(mSmall); err != nil {
		t.Fatal(err)
	}

	if ids.Stage() != StageVertex {
		t.Errorf("Stage() = %s, want Vertex", ids.Stage())
	}
	for id := range ids.Bound() {
		if r := ids.Record(id); r.IsDescriptorVariable {
			t.Errorf("id %d still marked as a descriptor variable after rebuild", id)
		}
	}
	if r := ids.Record(ids.Bound()); r != (IDRecord{}) {
		t.Errorf("Record(bound) = %+v, want zero record", r)
	}
}
