// Package shadertest synthesizes small SPIR-V modules with descriptor
// bindings for tests and benchmarks.
package shadertest

import (
	"encoding/binary"

	"github.com/gogpu/spvreflect/spirv"
)

// Builder wraps a spirv.ModuleBuilder with one helper per descriptor kind.
// Every helper returns the id of the OpVariable it declares.
type Builder struct {
	*spirv.ModuleBuilder
	float uint32
	glsl  uint32
}

// New starts a module the way WGSL compilers do: the Shader capability, the
// GLSL.std.450 instruction set and a GLSL450 memory model.
func New() *Builder {
	b := &Builder{ModuleBuilder: spirv.NewModuleBuilder(spirv.Version1_3)}
	b.AddCapability(spirv.CapabilityShader)
	b.glsl = b.AddExtInstImport("GLSL.std.450")
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	return b
}

// GLSL returns the id of the GLSL.std.450 import.
func (b *Builder) GLSL() uint32 { return b.glsl }

// Float returns the module's f32 type, declaring it on first use.
func (b *Builder) Float() uint32 {
	if b.float == 0 {
		b.float = b.AddTypeFloat(32)
	}
	return b.float
}

// Entry adds an empty entry point.
func (b *Builder) Entry(model spirv.ExecutionModel, name string) *Builder {
	b.AddEmptyEntryPoint(model, name)
	return b
}

// Bind decorates v with a descriptor set and binding and names it when name
// is not empty.
func (b *Builder) Bind(v, set, binding uint32, name string) uint32 {
	b.AddDecorate(v, spirv.DecorationDescriptorSet, set)
	b.AddDecorate(v, spirv.DecorationBinding, binding)
	if name != "" {
		b.AddName(v, name)
	}
	return v
}

func (b *Builder) variable(class spirv.StorageClass, typ uint32) uint32 {
	return b.AddVariable(b.AddTypePointer(class, typ), class)
}

// UniformBuffer declares a Block struct { vec4 value; } in the Uniform
// storage class.
func (b *Builder) UniformBuffer(set, binding uint32, name string) uint32 {
	st := b.AddTypeStruct(b.AddTypeVector(b.Float(), 4))
	b.AddDecorate(st, spirv.DecorationBlock)
	b.AddMemberName(st, 0, "value")
	b.AddMemberDecorate(st, 0, spirv.DecorationOffset, 0)
	return b.Bind(b.variable(spirv.StorageClassUniform, st), set, binding, name)
}

// StorageBuffer declares a struct { float[] } in the StorageBuffer storage
// class, the SPIR-V 1.3 form.
func (b *Builder) StorageBuffer(set, binding uint32, name string) uint32 {
	st := b.AddTypeStruct(b.AddTypeRuntimeArray(b.Float()))
	b.AddDecorate(st, spirv.DecorationBlock)
	return b.Bind(b.variable(spirv.StorageClassStorageBuffer, st), set, binding, name)
}

// BufferBlock declares a BufferBlock struct { vec4 } in the Uniform storage
// class, the pre-1.3 storage buffer form.
func (b *Builder) BufferBlock(set, binding uint32, name string) uint32 {
	st := b.AddTypeStruct(b.AddTypeVector(b.Float(), 4))
	b.AddDecorate(st, spirv.DecorationBufferBlock)
	return b.Bind(b.variable(spirv.StorageClassUniform, st), set, binding, name)
}

// Sampler declares a sampler.
func (b *Builder) Sampler(set, binding uint32, name string) uint32 {
	return b.Bind(b.variable(spirv.StorageClassUniformConstant, b.AddTypeSampler()), set, binding, name)
}

// Texture declares a sampled 2D image.
func (b *Builder) Texture(set, binding uint32, name string) uint32 {
	img := b.AddTypeImage(b.Float(), spirv.Dim2D, 0, false, false, 1)
	return b.Bind(b.variable(spirv.StorageClassUniformConstant, img), set, binding, name)
}

// DepthTexture declares a sampled 2D depth image.
func (b *Builder) DepthTexture(set, binding uint32, name string) uint32 {
	img := b.AddTypeImage(b.Float(), spirv.Dim2D, 1, false, false, 1)
	return b.Bind(b.variable(spirv.StorageClassUniformConstant, img), set, binding, name)
}

// MultisampledTexture declares a sampled multisampled 2D image.
func (b *Builder) MultisampledTexture(set, binding uint32, name string) uint32 {
	img := b.AddTypeImage(b.Float(), spirv.Dim2D, 0, false, true, 1)
	return b.Bind(b.variable(spirv.StorageClassUniformConstant, img), set, binding, name)
}

// SampledImage declares a combined image sampler over a 2D image.
func (b *Builder) SampledImage(set, binding uint32, name string) uint32 {
	img := b.AddTypeImage(b.Float(), spirv.Dim2D, 0, false, false, 1)
	si := b.AddTypeSampledImage(img)
	return b.Bind(b.variable(spirv.StorageClassUniformConstant, si), set, binding, name)
}

// SampledImageArray declares an array of n combined image samplers.
func (b *Builder) SampledImageArray(set, binding, n uint32, name string) uint32 {
	img := b.AddTypeImage(b.Float(), spirv.Dim2D, 0, false, false, 1)
	si := b.AddTypeSampledImage(img)
	length := b.AddConstant(b.AddTypeInt(32, false), n)
	arr := b.AddTypeArray(si, length)
	return b.Bind(b.variable(spirv.StorageClassUniformConstant, arr), set, binding, name)
}

// StorageImage declares a storage image with the given format.
func (b *Builder) StorageImage(set, binding uint32, format spirv.ImageFormat, name string) uint32 {
	img := b.AddTypeStorageImage(b.Float(), spirv.Dim2D, false, format)
	return b.Bind(b.variable(spirv.StorageClassUniformConstant, img), set, binding, name)
}

// TexelBuffer declares a Buffer-dimensioned image.
func (b *Builder) TexelBuffer(set, binding uint32, name string) uint32 {
	img := b.AddTypeImage(b.Float(), spirv.DimBuffer, 0, false, false, 2)
	return b.Bind(b.variable(spirv.StorageClassUniformConstant, img), set, binding, name)
}

// PushConstant declares a push-constant block.
func (b *Builder) PushConstant(name string) uint32 {
	st := b.AddTypeStruct(b.AddTypeVector(b.Float(), 4))
	b.AddDecorate(st, spirv.DecorationBlock)
	v := b.variable(spirv.StorageClassPushConstant, st)
	if name != "" {
		b.AddName(v, name)
	}
	return v
}

// Bytes encodes the module little-endian.
func (b *Builder) Bytes() []byte { return b.Build() }

// BigEndian encodes the module big-endian.
func (b *Builder) BigEndian() []byte { return b.BuildWithByteOrder(binary.BigEndian) }

// Module encodes the module and decodes it again.
func (b *Builder) Module() *spirv.Module {
	m, err := spirv.NewModuleFromWords(b.BuildWords())
	if err != nil {
		panic(err)
	}
	return m
}
