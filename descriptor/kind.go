package descriptor

// Kind classifies a GPU resource binding.
type Kind uint8

const (
	// KindNone marks an id that is not a descriptor, or an unused table slot.
	KindNone Kind = iota
	KindImage
	KindSampler
	KindSampledImage
	KindUniformBuffer
	KindStorageBuffer
	KindStorageTexelBuffer
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindImage:
		return "Image"
	case KindSampler:
		return "Sampler"
	case KindSampledImage:
		return "SampledImage"
	case KindUniformBuffer:
		return "UniformBuffer"
	case KindStorageBuffer:
		return "StorageBuffer"
	case KindStorageTexelBuffer:
		return "StorageTexelBuffer"
	default:
		return "Unknown"
	}
}

// IsBuffer reports whether the kind is backed by a buffer binding.
func (k Kind) IsBuffer() bool {
	return k == KindUniformBuffer || k == KindStorageBuffer || k == KindStorageTexelBuffer
}
