// Package layout turns a reflected descriptor table into bind group layout
// entries and creates the matching HAL layout objects.
package layout

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/spvreflect/descriptor"
	"github.com/gogpu/spvreflect/spirv"
)

// ErrUnsupportedBinding is returned for descriptors that have no bind group
// layout equivalent, such as subpass inputs.
var ErrUnsupportedBinding = errors.New("layout: unsupported binding")

// Visibility converts a stage mask to shader stage flags.
func Visibility(stages descriptor.StageMask) gputypes.ShaderStages {
	v := gputypes.ShaderStageNone
	if stages.Has(descriptor.StageVertex) {
		v |= gputypes.ShaderStageVertex
	}
	if stages.Has(descriptor.StageFragment) {
		v |= gputypes.ShaderStageFragment
	}
	if stages.Has(descriptor.StageCompute) {
		v |= gputypes.ShaderStageCompute
	}
	return v
}

// Entry converts one descriptor to a bind group layout entry.
func Entry(d descriptor.Descriptor) (gputypes.BindGroupLayoutEntry, error) {
	e := gputypes.BindGroupLayoutEntry{
		Binding:    d.Binding,
		Visibility: Visibility(d.Stages),
	}

	switch d.Kind {
	case descriptor.KindUniformBuffer:
		e.Buffer = &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}

	case descriptor.KindStorageBuffer, descriptor.KindStorageTexelBuffer:
		t := gputypes.BufferBindingTypeStorage
		if d.ReadOnly {
			t = gputypes.BufferBindingTypeReadOnlyStorage
		}
		e.Buffer = &gputypes.BufferBindingLayout{Type: t}

	case descriptor.KindSampler:
		e.Sampler = &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}

	case descriptor.KindImage, descriptor.KindSampledImage:
		dim, err := viewDimension(d)
		if err != nil {
			return e, err
		}
		if d.StorageImage {
			access := gputypes.StorageTextureAccessReadWrite
			switch {
			case d.ReadOnly:
				access = gputypes.StorageTextureAccessReadOnly
			case d.WriteOnly:
				access = gputypes.StorageTextureAccessWriteOnly
			}
			e.StorageTexture = &gputypes.StorageTextureBindingLayout{
				Access:        access,
				Format:        textureFormat(d.Format),
				ViewDimension: dim,
			}
			break
		}
		e.Texture = &gputypes.TextureBindingLayout{
			SampleType:    sampleType(d),
			ViewDimension: dim,
			Multisampled:  d.Multisampled,
		}

	default:
		return e, fmt.Errorf("%w: set %d binding %d has kind %s", ErrUnsupportedBinding, d.Set, d.Binding, d.Kind)
	}
	return e, nil
}

// sampleType picks the sample type from the image declaration alone; the
// sampled component type is not tracked, so color textures are float.
func sampleType(d descriptor.Descriptor) gputypes.TextureSampleType {
	switch {
	case d.Depth:
		return gputypes.TextureSampleTypeDepth
	case d.Multisampled:
		// Multisampled textures cannot be filtered.
		return gputypes.TextureSampleTypeUnfilterableFloat
	}
	return gputypes.TextureSampleTypeFloat
}

func viewDimension(d descriptor.Descriptor) (gputypes.TextureViewDimension, error) {
	switch d.Dim {
	case spirv.Dim1D:
		return gputypes.TextureViewDimension1D, nil
	case spirv.Dim2D, spirv.DimRect:
		if d.Arrayed {
			return gputypes.TextureViewDimension2DArray, nil
		}
		return gputypes.TextureViewDimension2D, nil
	case spirv.Dim3D:
		return gputypes.TextureViewDimension3D, nil
	case spirv.DimCube:
		if d.Arrayed {
			return gputypes.TextureViewDimensionCubeArray, nil
		}
		return gputypes.TextureViewDimensionCube, nil
	}
	return gputypes.TextureViewDimensionUndefined,
		fmt.Errorf("%w: set %d binding %d has image dim %s", ErrUnsupportedBinding, d.Set, d.Binding, d.Dim)
}

func textureFormat(f spirv.ImageFormat) gputypes.TextureFormat {
	switch f {
	case spirv.ImageFormatRgba8:
		return gputypes.TextureFormatRGBA8Unorm
	case spirv.ImageFormatRgba16f:
		return gputypes.TextureFormatRGBA16Float
	case spirv.ImageFormatRgba32f:
		return gputypes.TextureFormatRGBA32Float
	case spirv.ImageFormatR32f:
		return gputypes.TextureFormatR32Float
	case spirv.ImageFormatRg32f:
		return gputypes.TextureFormatRG32Float
	case spirv.ImageFormatR32ui:
		return gputypes.TextureFormatR32Uint
	case spirv.ImageFormatR32i:
		return gputypes.TextureFormatR32Sint
	case spirv.ImageFormatRgba32ui:
		return gputypes.TextureFormatRGBA32Uint
	case spirv.ImageFormatRgba32i:
		return gputypes.TextureFormatRGBA32Sint
	}
	return gputypes.TextureFormatUndefined
}

// Entries returns the layout entries of one set in binding order. Empty
// slots are skipped, so a set with gaps yields fewer entries than bindings.
func Entries(table *descriptor.Table, set uint32) ([]gputypes.BindGroupLayoutEntry, error) {
	descs := table.Set(set)
	entries := make([]gputypes.BindGroupLayoutEntry, 0, len(descs))
	for _, d := range descs {
		e, err := Entry(d)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// PoolSize is the number of descriptors of one kind a descriptor pool must
// hold to allocate one instance of every set in a table.
type PoolSize struct {
	Kind  descriptor.Kind
	Count uint32
}

// PoolSizes totals the table's descriptors per kind, counting each element
// of a descriptor array. Kinds are listed in Kind order and absent kinds
// are omitted.
func PoolSizes(table *descriptor.Table) []PoolSize {
	var counts [descriptor.KindStorageTexelBuffer + 1]uint32
	for _, d := range table.Descriptors() {
		n := d.Count
		if n == 0 {
			n = 1
		}
		counts[d.Kind] += n
	}

	var sizes []PoolSize
	for k, n := range counts {
		if n > 0 {
			sizes = append(sizes, PoolSize{Kind: descriptor.Kind(k), Count: n})
		}
	}
	return sizes
}
