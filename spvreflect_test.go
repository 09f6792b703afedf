package spvreflect

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gogpu/spvreflect/descriptor"
	"github.com/gogpu/spvreflect/internal/shadertest"
	"github.com/gogpu/spvreflect/layout"
	"github.com/gogpu/spvreflect/spirv"
)

func vertexModule() *shadertest.Builder {
	b := shadertest.New().Entry(spirv.ExecutionModelVertex, "vs_main")
	b.UniformBuffer(0, 0, "camera")
	return b
}

func fragmentModule() *shadertest.Builder {
	b := shadertest.New().Entry(spirv.ExecutionModelFragment, "fs_main")
	b.Sampler(0, 1, "samp")
	b.Texture(0, 2, "tex")
	b.SampledImage(1, 0, "shadow")
	return b
}

// descriptorOpts ignores image dimensions, which these tests do not check.
var descriptorOpts = cmpopts.IgnoreFields(descriptor.Descriptor{}, "Dim")

func TestPipeline_VertexFragment(t *testing.T) {
	p := NewPipeline(DefaultOptions())

	stage, err := p.AddModule(vertexModule().Bytes())
	if err != nil {
		t.Fatalf("AddModule(vertex) error: %v", err)
	}
	if stage != descriptor.StageVertex {
		t.Errorf("AddModule(vertex) stage = %v, want Vertex", stage)
	}
	stage, err = p.AddModule(fragmentModule().Bytes())
	if err != nil {
		t.Fatalf("AddModule(fragment) error: %v", err)
	}
	if stage != descriptor.StageFragment {
		t.Errorf("AddModule(fragment) stage = %v, want Fragment", stage)
	}

	want := []descriptor.Descriptor{
		{Kind: descriptor.KindUniformBuffer, Set: 0, Binding: 0, Stages: descriptor.MaskVertex, Name: "camera"},
		{Kind: descriptor.KindSampler, Set: 0, Binding: 1, Stages: descriptor.MaskFragment, Name: "samp"},
		{Kind: descriptor.KindImage, Set: 0, Binding: 2, Stages: descriptor.MaskFragment, Name: "tex"},
		{Kind: descriptor.KindSampledImage, Set: 1, Binding: 0, Stages: descriptor.MaskFragment, Name: "shadow"},
	}
	if diff := cmp.Diff(want, p.Table().Descriptors(), descriptorOpts); diff != "" {
		t.Errorf("Descriptors() mismatch (-want +got):\n%s", diff)
	}
	if got := p.Stages(); got != descriptor.MaskVertex|descriptor.MaskFragment {
		t.Errorf("Stages() = %v, want Vertex|Fragment", got)
	}
	if len(p.Warnings()) != 0 {
		t.Errorf("Warnings() = %v, want none", p.Warnings())
	}

	// Every slot not listed above stays empty.
	if d := p.Table().At(0, 3); !d.Empty() || d.Kind != descriptor.KindNone {
		t.Errorf("At(0, 3) = %+v, want empty", d)
	}
	if d := p.Table().At(3, 7); !d.Empty() {
		t.Errorf("At(3, 7) = %+v, want empty", d)
	}
}

func TestPipeline_ByteOrderInvariant(t *testing.T) {
	little := NewPipeline(DefaultOptions())
	big := NewPipeline(DefaultOptions())
	for _, b := range []*shadertest.Builder{vertexModule(), fragmentModule()} {
		if _, err := little.AddModule(b.Bytes()); err != nil {
			t.Fatal(err)
		}
		if _, err := big.AddModule(b.BigEndian()); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff(little.Table().Descriptors(), big.Table().Descriptors()); diff != "" {
		t.Errorf("byte order changed the result (-little +big):\n%s", diff)
	}
}

func TestPipeline_InPlace(t *testing.T) {
	code := fragmentModule().BigEndian()
	orig := bytes.Clone(code)

	if _, err := NewPipeline(DefaultOptions()).AddModule(code); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(code, orig) {
		t.Error("AddModule modified the input without InPlace")
	}

	opts := DefaultOptions()
	opts.InPlace = true
	p := NewPipeline(opts)
	if _, err := p.AddModule(code); err != nil {
		t.Fatal(err)
	}
	if got := p.Table().At(0, 2).Name; got != "tex" {
		t.Errorf("At(0, 2).Name = %q, want %q", got, "tex")
	}
}

func TestPipeline_Errors(t *testing.T) {
	tests := []struct {
		name string
		code func() []byte
		kind spirv.ErrorKind
	}{
		{
			name: "bad magic",
			code: func() []byte { return make([]byte, 20) },
			kind: spirv.ErrInvalidMagicNumber,
		},
		{
			name: "truncated",
			code: func() []byte { return vertexModule().Bytes()[:12] },
			kind: spirv.ErrTruncatedModule,
		},
		{
			name: "misaligned",
			code: func() []byte { return vertexModule().Bytes()[:22] },
			kind: spirv.ErrMisalignedBuffer,
		},
		{
			name: "zero word count",
			code: func() []byte {
				words := vertexModule().BuildWords()
				words[spirv.HeaderWords] = 0
				return wordsToBytes(words)
			},
			kind: spirv.ErrCorruptInstructionStream,
		},
		{
			name: "id out of range",
			code: func() []byte {
				b := vertexModule()
				b.AddRaw(spirv.OpTypePointer, 1, uint32(spirv.StorageClassUniform), 5000)
				return b.Bytes()
			},
			kind: spirv.ErrIDOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(DefaultOptions())
			_, err := p.AddModule(tt.code())
			var spvErr *spirv.Error
			if !errors.As(err, &spvErr) {
				t.Fatalf("AddModule() error = %v, want *spirv.Error", err)
			}
			if spvErr.Kind != tt.kind {
				t.Errorf("error kind = %v, want %v", spvErr.Kind, tt.kind)
			}
			if n := len(p.Table().Descriptors()); n != 0 {
				t.Errorf("failed module left %d descriptors in the table", n)
			}
		})
	}
}

func wordsToBytes(words []uint32) []byte {
	out := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[4*i:], w)
	}
	return out
}

func TestPipeline_Capacity(t *testing.T) {
	t.Run("id bound", func(t *testing.T) {
		opts := DefaultOptions()
		opts.MaxIDBound = 8
		_, err := NewPipeline(opts).AddModule(fragmentModule().Bytes())
		var dErr *descriptor.Error
		if !errors.As(err, &dErr) || !dErr.IsCapacityExceeded() {
			t.Errorf("AddModule() error = %v, want CapacityExceeded", err)
		}
	})

	t.Run("binding", func(t *testing.T) {
		b := shadertest.New().Entry(spirv.ExecutionModelFragment, "main")
		b.Sampler(0, 0, "")
		b.Sampler(0, 8, "")
		p := NewPipeline(DefaultOptions())
		_, err := p.AddModule(b.Bytes())
		var dErr *descriptor.Error
		if !errors.As(err, &dErr) || !dErr.IsCapacityExceeded() {
			t.Fatalf("AddModule() error = %v, want CapacityExceeded", err)
		}
		if n := len(p.Table().Descriptors()); n != 0 {
			t.Errorf("table has %d descriptors after a rejected module, want 0", n)
		}
	})

	t.Run("larger table", func(t *testing.T) {
		b := shadertest.New().Entry(spirv.ExecutionModelFragment, "main")
		b.Sampler(5, 12, "")
		opts := DefaultOptions()
		opts.MaxSets, opts.MaxBindings = 8, 16
		p := NewPipeline(opts)
		if _, err := p.AddModule(b.Bytes()); err != nil {
			t.Fatal(err)
		}
		if d := p.Table().At(5, 12); d.Kind != descriptor.KindSampler {
			t.Errorf("At(5, 12).Kind = %v, want Sampler", d.Kind)
		}
	})
}

func TestPipeline_NoEntryPoint(t *testing.T) {
	b := shadertest.New()
	b.Sampler(0, 0, "")
	_, err := NewPipeline(DefaultOptions()).AddModule(b.Bytes())
	var dErr *descriptor.Error
	if !errors.As(err, &dErr) || dErr.Kind != descriptor.ErrUnsupportedStage {
		t.Errorf("AddModule() error = %v, want UnsupportedStage", err)
	}
}

func TestPipeline_ConflictWarning(t *testing.T) {
	fs := shadertest.New().Entry(spirv.ExecutionModelFragment, "main")
	fs.Sampler(0, 0, "")

	p := NewPipeline(DefaultOptions())
	if _, err := p.AddModule(vertexModule().Bytes()); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AddModule(fs.Bytes()); err != nil {
		t.Fatalf("conflict must not fail: %v", err)
	}
	if len(p.Warnings()) != 1 || !p.Warnings()[0].IsConflict() {
		t.Fatalf("Warnings() = %v, want one conflict", p.Warnings())
	}
	d := p.Table().At(0, 0)
	if d.Kind != descriptor.KindUniformBuffer || d.Stages != descriptor.MaskVertex {
		t.Errorf("At(0, 0) = %v %v, want the vertex uniform buffer kept", d.Kind, d.Stages)
	}
}

func TestPipeline_Reset(t *testing.T) {
	p := NewPipeline(DefaultOptions())
	if _, err := p.AddModule(fragmentModule().Bytes()); err != nil {
		t.Fatal(err)
	}
	p.Reset()
	if len(p.Table().Descriptors()) != 0 || p.Stages() != 0 || p.Warnings() != nil {
		t.Fatal("Reset() left state behind")
	}
	if _, err := p.AddModule(vertexModule().Bytes()); err != nil {
		t.Fatal(err)
	}
	if got := len(p.Table().Descriptors()); got != 1 {
		t.Errorf("after Reset got %d descriptors, want 1", got)
	}
}

func TestReflect(t *testing.T) {
	table, err := Reflect(fragmentModule().Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if got := len(table.Descriptors()); got != 3 {
		t.Errorf("Reflect() found %d descriptors, want 3", got)
	}
	if _, err := Reflect(nil); err == nil {
		t.Error("Reflect(nil) succeeded")
	}
}

func TestReflectStages(t *testing.T) {
	vs := vertexModule()
	vs.Sampler(0, 1, "samp")

	table, warnings, err := ReflectStages(vs.Bytes(), fragmentModule().BigEndian())
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	p := NewPipeline(DefaultOptions())
	for _, code := range [][]byte{vs.Bytes(), fragmentModule().Bytes()} {
		if _, err := p.AddModule(code); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff(p.Table().Descriptors(), table.Descriptors()); diff != "" {
		t.Errorf("ReflectStages differs from sequential AddModule (-seq +concurrent):\n%s", diff)
	}
	if got := table.At(0, 1).Stages; got != descriptor.MaskVertex|descriptor.MaskFragment {
		t.Errorf("shared sampler stages = %v, want Vertex|Fragment", got)
	}
}

func TestReflectStages_Error(t *testing.T) {
	_, _, err := ReflectStages(vertexModule().Bytes(), make([]byte, 20))
	var spvErr *spirv.Error
	if !errors.As(err, &spvErr) || !spvErr.IsInvalidMagic() {
		t.Errorf("ReflectStages() error = %v, want invalid magic", err)
	}
}

func TestReflectStages_ErrorPrefix(t *testing.T) {
	noEntry := shadertest.New()
	noEntry.Sampler(0, 0, "")

	tests := []struct {
		name  string
		codes [][]byte
	}{
		{"decode", [][]byte{vertexModule().Bytes(), make([]byte, 20)}},
		{"aggregate", [][]byte{vertexModule().Bytes(), noEntry.Bytes()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReflectStages(tt.codes...)
			if err == nil {
				t.Fatal("ReflectStages() succeeded")
			}
			if got := err.Error(); !strings.HasPrefix(got, "spvreflect: module 1: ") ||
				strings.Count(got, "spvreflect:") != 1 {
				t.Errorf("ReflectStages() error = %q, want a single \"spvreflect: module 1: \" prefix", got)
			}
		})
	}
}

const wgslTextured = `
struct Material {
    tint: vec4<f32>,
}

@group(0) @binding(0) var<uniform> material: Material;
@group(0) @binding(1) var albedo: texture_2d<f32>;
@group(0) @binding(2) var albedo_sampler: sampler;
@group(1) @binding(0) var<storage, read> lights: array<vec4<f32>>;

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    return textureSample(albedo, albedo_sampler, uv) * material.tint + lights[0];
}
`

func TestPipeline_AddWGSL(t *testing.T) {
	p := NewPipeline(DefaultOptions())
	stage, err := p.AddWGSL(wgslTextured)
	if err != nil {
		t.Fatalf("AddWGSL() error: %v", err)
	}
	if stage != descriptor.StageFragment {
		t.Errorf("AddWGSL() stage = %v, want Fragment", stage)
	}

	tests := []struct {
		set, binding uint32
		kind         descriptor.Kind
	}{
		{0, 0, descriptor.KindUniformBuffer},
		{0, 1, descriptor.KindImage},
		{0, 2, descriptor.KindSampler},
		{1, 0, descriptor.KindStorageBuffer},
	}
	for _, tt := range tests {
		d := p.Table().At(tt.set, tt.binding)
		if d.Kind != tt.kind {
			t.Errorf("At(%d, %d).Kind = %v, want %v", tt.set, tt.binding, d.Kind, tt.kind)
		}
		if d.Stages != descriptor.MaskFragment {
			t.Errorf("At(%d, %d).Stages = %v, want Fragment", tt.set, tt.binding, d.Stages)
		}
	}
}

const wgslDepthAndMultisampled = `
@group(0) @binding(0) var shadow_map: texture_depth_2d;
@group(0) @binding(1) var shadow_sampler: sampler_comparison;
@group(0) @binding(2) var color_ms: texture_multisampled_2d<f32>;

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    let depth = textureSampleCompare(shadow_map, shadow_sampler, uv, 0.5);
    let size = textureDimensions(color_ms);
    return vec4<f32>(depth, f32(size.x), 0.0, 1.0);
}
`

func TestPipeline_AddWGSL_TextureSampleTypes(t *testing.T) {
	p := NewPipeline(DefaultOptions())
	if _, err := p.AddWGSL(wgslDepthAndMultisampled); err != nil {
		t.Fatalf("AddWGSL() error: %v", err)
	}

	tests := []struct {
		binding uint32
		want    gputypes.TextureBindingLayout
	}{
		{0, gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeDepth,
			ViewDimension: gputypes.TextureViewDimension2D,
		}},
		{2, gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeUnfilterableFloat,
			ViewDimension: gputypes.TextureViewDimension2D,
			Multisampled:  true,
		}},
	}
	for _, tt := range tests {
		e, err := layout.Entry(p.Table().At(0, tt.binding))
		if err != nil {
			t.Fatalf("Entry(0, %d) error: %v", tt.binding, err)
		}
		if e.Texture == nil {
			t.Fatalf("Entry(0, %d) has no texture layout: %+v", tt.binding, e)
		}
		if diff := cmp.Diff(tt.want, *e.Texture); diff != "" {
			t.Errorf("Entry(0, %d).Texture mismatch (-want +got):\n%s", tt.binding, diff)
		}
	}
}

func TestPipeline_AddWGSL_CompileError(t *testing.T) {
	_, err := NewPipeline(DefaultOptions()).AddWGSL("fn broken(")
	if err == nil {
		t.Fatal("AddWGSL() succeeded on invalid source")
	}
}
