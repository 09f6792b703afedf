package descriptor

import (
	"math/bits"
	"strings"

	"github.com/gogpu/spvreflect/spirv"
)

// Stage is the pipeline stage a module's entry point targets.
type Stage uint8

const (
	StageNone Stage = iota
	StageVertex
	StageFragment
	StageCompute
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageNone:
		return "None"
	case StageVertex:
		return "Vertex"
	case StageFragment:
		return "Fragment"
	case StageCompute:
		return "Compute"
	default:
		return "Unknown"
	}
}

// Mask returns the single-bit mask for the stage, or 0 for StageNone.
func (s Stage) Mask() StageMask {
	if s == StageNone || s > StageCompute {
		return 0
	}
	return 1 << (s - 1)
}

// StageFromExecutionModel maps a SPIR-V execution model to a Stage.
// Models outside vertex, fragment and compute map to StageNone.
func StageFromExecutionModel(model spirv.ExecutionModel) Stage {
	switch model {
	case spirv.ExecutionModelVertex:
		return StageVertex
	case spirv.ExecutionModelFragment:
		return StageFragment
	case spirv.ExecutionModelGLCompute:
		return StageCompute
	default:
		return StageNone
	}
}

// StageMask is a set of stages.
type StageMask uint8

// Stage masks
const (
	MaskVertex   StageMask = 1 << 0
	MaskFragment StageMask = 1 << 1
	MaskCompute  StageMask = 1 << 2
)

// Has reports whether the mask contains s.
func (m StageMask) Has(s Stage) bool {
	bit := s.Mask()
	return bit != 0 && m&bit != 0
}

// Count returns the number of stages in the mask.
func (m StageMask) Count() int {
	return bits.OnesCount8(uint8(m))
}

// String renders the mask as "Vertex|Fragment", or "None" when empty.
func (m StageMask) String() string {
	if m == 0 {
		return "None"
	}
	var parts []string
	for _, s := range []Stage{StageVertex, StageFragment, StageCompute} {
		if m.Has(s) {
			parts = append(parts, s.String())
		}
	}
	return strings.Join(parts, "|")
}
