// Package spirv reads and writes the SPIR-V binary word stream.
//
// SPIR-V is the standard intermediate language for GPU shaders,
// used by Vulkan, OpenCL, and other APIs.
//
// # Decoding
//
// A Module is a validated, host-ordered view of a binary. NewModule never
// touches the caller's bytes; NewModuleInPlace byte-swaps them when the
// module was written in the opposite byte order and aliases them afterwards:
//
//	module, err := spirv.NewModule(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for c := spirv.NewCursor(module); !c.Finished(); {
//		inst, err := c.Current()
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println(inst.Opcode, len(inst.Words))
//		if err := c.Advance(); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The cursor refuses instructions with a zero word count or a word count that
// runs past the end of the module, so a corrupt stream can neither loop nor
// read out of bounds.
//
// # Binary Writer
//
// ModuleBuilder constructs modules programmatically:
//
//	builder := spirv.NewModuleBuilder(spirv.Version1_3)
//	builder.AddCapability(spirv.CapabilityShader)
//	builder.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
//
//	sampler := builder.AddTypeSampler()
//	ptr := builder.AddTypePointer(spirv.StorageClassUniformConstant, sampler)
//	v := builder.AddVariable(ptr, spirv.StorageClassUniformConstant)
//	builder.AddDecorate(v, spirv.DecorationBinding, 1)
//
//	binary := builder.Build()
//
// # SPIR-V Structure
//
// SPIR-V modules consist of:
//   - Header (magic, version, generator, bound, schema)
//   - Capabilities (required features)
//   - Extensions (optional extensions)
//   - Extended instruction imports (GLSL.std.450, etc.)
//   - Memory model (addressing and memory model)
//   - Entry points (shader entry functions)
//   - Execution modes (shader configuration)
//   - Debug information (names, source info)
//   - Annotations (decorations)
//   - Types and constants
//   - Global variables
//   - Functions (code)
//
// # References
//
// SPIR-V Specification: https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
package spirv
