package spirv

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common SPIR-V versions
var (
	Version1_0 = Version{1, 0}
	Version1_3 = Version{1, 3}
	Version1_4 = Version{1, 4}
	Version1_5 = Version{1, 5}
	Version1_6 = Version{1, 6}
)

// versionFromWord decodes the header version word (0 | major | minor | 0).
func versionFromWord(word uint32) Version {
	return Version{Major: uint8(word >> 16), Minor: uint8(word >> 8)}
}

// versionToWord converts Version to SPIR-V word format.
func versionToWord(v Version) uint32 {
	return (uint32(v.Major) << 16) | (uint32(v.Minor) << 8)
}

// SPIR-V magic number and constants
const (
	MagicNumber = 0x07230203
	GeneratorID = 0x00000000 // Unregistered generator

	// HeaderWords is the number of words preceding the first instruction.
	HeaderWords = 5
)

// OpCode represents a SPIR-V opcode.
type OpCode uint16

// Opcodes the reflection pass, the disassembler and the builder know about.
const (
	OpNop                            OpCode = 0
	OpUndef                          OpCode = 1
	OpSourceContinued                OpCode = 2
	OpSource                         OpCode = 3
	OpSourceExtension                OpCode = 4
	OpName                           OpCode = 5
	OpMemberName                     OpCode = 6
	OpString                         OpCode = 7
	OpLine                           OpCode = 8
	OpExtension                      OpCode = 10
	OpExtInstImport                  OpCode = 11
	OpExtInst                        OpCode = 12
	OpMemoryModel                    OpCode = 14
	OpEntryPoint                     OpCode = 15
	OpExecutionMode                  OpCode = 16
	OpCapability                     OpCode = 17
	OpTypeVoid                       OpCode = 19
	OpTypeBool                       OpCode = 20
	OpTypeInt                        OpCode = 21
	OpTypeFloat                      OpCode = 22
	OpTypeVector                     OpCode = 23
	OpTypeMatrix                     OpCode = 24
	OpTypeImage                      OpCode = 25
	OpTypeSampler                    OpCode = 26
	OpTypeSampledImage               OpCode = 27
	OpTypeArray                      OpCode = 28
	OpTypeRuntimeArray               OpCode = 29
	OpTypeStruct                     OpCode = 30
	OpTypeOpaque                     OpCode = 31
	OpTypePointer                    OpCode = 32
	OpTypeFunction                   OpCode = 33
	OpConstantTrue                   OpCode = 41
	OpConstantFalse                  OpCode = 42
	OpConstant                       OpCode = 43
	OpConstantComposite              OpCode = 44
	OpConstantSampler                OpCode = 45
	OpConstantNull                   OpCode = 46
	OpSpecConstantTrue               OpCode = 48
	OpSpecConstantFalse              OpCode = 49
	OpSpecConstant                   OpCode = 50
	OpSpecConstantComposite          OpCode = 51
	OpSpecConstantOp                 OpCode = 52
	OpFunction                       OpCode = 54
	OpFunctionParameter              OpCode = 55
	OpFunctionEnd                    OpCode = 56
	OpFunctionCall                   OpCode = 57
	OpVariable                       OpCode = 59
	OpImageTexelPointer              OpCode = 60
	OpLoad                           OpCode = 61
	OpStore                          OpCode = 62
	OpCopyMemory                     OpCode = 63
	OpCopyMemorySized                OpCode = 64
	OpAccessChain                    OpCode = 65
	OpInBoundsAccessChain            OpCode = 66
	OpPtrAccessChain                 OpCode = 67
	OpArrayLength                    OpCode = 68
	OpInBoundsPtrAccessChain         OpCode = 70
	OpDecorate                       OpCode = 71
	OpMemberDecorate                 OpCode = 72
	OpDecorationGroup                OpCode = 73
	OpGroupDecorate                  OpCode = 74
	OpGroupMemberDecorate            OpCode = 75
	OpVectorExtractDynamic           OpCode = 77
	OpVectorInsertDynamic            OpCode = 78
	OpVectorShuffle                  OpCode = 79
	OpCompositeConstruct             OpCode = 80
	OpCompositeExtract               OpCode = 81
	OpCompositeInsert                OpCode = 82
	OpCopyObject                     OpCode = 83
	OpTranspose                      OpCode = 84
	OpSampledImage                   OpCode = 86
	OpImageSampleImplicitLod         OpCode = 87
	OpImageSampleExplicitLod         OpCode = 88
	OpImageSampleDrefImplicitLod     OpCode = 89
	OpImageSampleDrefExplicitLod     OpCode = 90
	OpImageSampleProjImplicitLod     OpCode = 91
	OpImageSampleProjExplicitLod     OpCode = 92
	OpImageSampleProjDrefImplicitLod OpCode = 93
	OpImageSampleProjDrefExplicitLod OpCode = 94
	OpImageFetch                     OpCode = 95
	OpImageGather                    OpCode = 96
	OpImageDrefGather                OpCode = 97
	OpImageRead                      OpCode = 98
	OpImageWrite                     OpCode = 99
	OpImage                          OpCode = 100
	OpImageQueryFormat               OpCode = 101
	OpImageQueryOrder                OpCode = 102
	OpImageQuerySizeLod              OpCode = 103
	OpImageQuerySize                 OpCode = 104
	OpImageQueryLod                  OpCode = 105
	OpImageQueryLevels               OpCode = 106
	OpImageQuerySamples              OpCode = 107
	OpConvertFToU                    OpCode = 109
	OpIAdd                           OpCode = 128
	OpIEqual                         OpCode = 170
	OpBitCount                       OpCode = 205
	OpDPdx                           OpCode = 207
	OpFwidthCoarse                   OpCode = 215
	OpControlBarrier                 OpCode = 224
	OpMemoryBarrier                  OpCode = 225
	OpAtomicLoad                     OpCode = 227
	OpAtomicStore                    OpCode = 228
	OpAtomicXor                      OpCode = 242
	OpPhi                            OpCode = 245
	OpLoopMerge                      OpCode = 246
	OpSelectionMerge                 OpCode = 247
	OpLabel                          OpCode = 248
	OpBranch                         OpCode = 249
	OpBranchConditional              OpCode = 250
	OpSwitch                         OpCode = 251
	OpKill                           OpCode = 252
	OpReturn                         OpCode = 253
	OpReturnValue                    OpCode = 254
	OpUnreachable                    OpCode = 255
	OpNoLine                         OpCode = 317
	OpModuleProcessed                OpCode = 330
	OpExecutionModeId                OpCode = 331
	OpDecorateId                     OpCode = 332
)

// Decoration represents a SPIR-V decoration.
type Decoration uint32

// Common decorations
const (
	DecorationBlock         Decoration = 2
	DecorationBufferBlock   Decoration = 3
	DecorationRowMajor      Decoration = 4
	DecorationColMajor      Decoration = 5
	DecorationArrayStride   Decoration = 6
	DecorationMatrixStride  Decoration = 7
	DecorationBuiltIn       Decoration = 11
	DecorationNonWritable   Decoration = 24
	DecorationNonReadable   Decoration = 25
	DecorationLocation      Decoration = 30
	DecorationBinding       Decoration = 33
	DecorationDescriptorSet Decoration = 34
	DecorationOffset        Decoration = 35
)

// StorageClass represents a SPIR-V storage class.
type StorageClass uint32

const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassCrossWorkgroup  StorageClass = 5
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassGeneric         StorageClass = 8
	StorageClassPushConstant    StorageClass = 9
	StorageClassAtomicCounter   StorageClass = 10
	StorageClassImage           StorageClass = 11
	StorageClassStorageBuffer   StorageClass = 12
)

// ExecutionModel is the shader stage an entry point targets.
type ExecutionModel uint32

const (
	ExecutionModelVertex                 ExecutionModel = 0
	ExecutionModelTessellationControl    ExecutionModel = 1
	ExecutionModelTessellationEvaluation ExecutionModel = 2
	ExecutionModelGeometry               ExecutionModel = 3
	ExecutionModelFragment               ExecutionModel = 4
	ExecutionModelGLCompute              ExecutionModel = 5
	ExecutionModelKernel                 ExecutionModel = 6
)

// ExecutionMode configures an entry point.
type ExecutionMode uint32

const (
	ExecutionModeOriginUpperLeft ExecutionMode = 7
	ExecutionModeLocalSize       ExecutionMode = 17
)

// Dim is the dimensionality operand of OpTypeImage.
type Dim uint32

const (
	Dim1D          Dim = 0
	Dim2D          Dim = 1
	Dim3D          Dim = 2
	DimCube        Dim = 3
	DimRect        Dim = 4
	DimBuffer      Dim = 5
	DimSubpassData Dim = 6
)

// ImageFormat is the image format operand of OpTypeImage. Only storage
// images carry a format other than ImageFormatUnknown.
type ImageFormat uint32

const (
	ImageFormatUnknown  ImageFormat = 0
	ImageFormatRgba32f  ImageFormat = 1
	ImageFormatRgba16f  ImageFormat = 2
	ImageFormatR32f     ImageFormat = 3
	ImageFormatRgba8    ImageFormat = 4
	ImageFormatRg32f    ImageFormat = 6
	ImageFormatRgba32i  ImageFormat = 21
	ImageFormatR32i     ImageFormat = 24
	ImageFormatRgba32ui ImageFormat = 30
	ImageFormatR32ui    ImageFormat = 33
)

// Capability represents a SPIR-V capability.
type Capability uint32

// Common capabilities
const (
	CapabilityMatrix        Capability = 0 // Implied by Shader
	CapabilityShader        Capability = 1
	CapabilityImageBuffer   Capability = 46
	CapabilitySampledBuffer Capability = 45
)

// AddressingModel is the first operand of OpMemoryModel.
type AddressingModel uint32

const (
	AddressingModelLogical    AddressingModel = 0
	AddressingModelPhysical32 AddressingModel = 1
	AddressingModelPhysical64 AddressingModel = 2
)

// MemoryModel is the second operand of OpMemoryModel.
type MemoryModel uint32

const (
	MemoryModelSimple  MemoryModel = 0
	MemoryModelGLSL450 MemoryModel = 1
	MemoryModelOpenCL  MemoryModel = 2
	MemoryModelVulkan  MemoryModel = 3
)

// FunctionControl is the control mask of OpFunction.
type FunctionControl uint32

const (
	FunctionControlNone FunctionControl = 0
)
