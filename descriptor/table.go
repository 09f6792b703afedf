package descriptor

import "github.com/gogpu/spvreflect/spirv"

// Default table capacities.
const (
	DefaultMaxSets           = 4
	DefaultMaxBindingsPerSet = 8
)

// Descriptor is one populated (set, binding) slot of a Table.
type Descriptor struct {
	Kind    Kind
	Set     uint32
	Binding uint32

	// Stages holds one bit per stage that references the slot.
	Stages StageMask

	// Name is the OpName of the variable first seen at the slot, if any.
	Name string

	// ReadOnly and WriteOnly hold when every stage agrees on the access
	// restriction.
	ReadOnly  bool
	WriteOnly bool

	// Count is the array length for descriptor arrays, 0 otherwise.
	Count uint32

	// Image properties, meaningful for the image kinds only.
	Dim          spirv.Dim
	Arrayed      bool
	Depth        bool
	Multisampled bool
	StorageImage bool
	Format       spirv.ImageFormat
}

// Empty reports whether the slot has never been populated.
func (d Descriptor) Empty() bool { return d.Stages == 0 }

// Table is a fixed-capacity grid of descriptors indexed by set and binding,
// shared by every stage module of one pipeline. It is not safe for
// concurrent use.
type Table struct {
	slots       []Descriptor
	maxSets     uint32
	maxBindings uint32
}

// NewTable creates an empty table. Non-positive capacities fall back to the
// defaults.
func NewTable(maxSets, maxBindings int) *Table {
	if maxSets <= 0 {
		maxSets = DefaultMaxSets
	}
	if maxBindings <= 0 {
		maxBindings = DefaultMaxBindingsPerSet
	}
	return &Table{
		slots:       make([]Descriptor, maxSets*maxBindings),
		maxSets:     uint32(maxSets),
		maxBindings: uint32(maxBindings),
	}
}

// MaxSets returns the set capacity.
func (t *Table) MaxSets() int { return int(t.maxSets) }

// MaxBindings returns the per-set binding capacity.
func (t *Table) MaxBindings() int { return int(t.maxBindings) }

func (t *Table) contains(set, binding uint32) bool {
	return set < t.maxSets && binding < t.maxBindings
}

func (t *Table) slot(set, binding uint32) *Descriptor {
	return &t.slots[set*t.maxBindings+binding]
}

// At returns the slot at (set, binding). Out-of-range coordinates and empty
// slots both yield a descriptor of KindNone.
func (t *Table) At(set, binding uint32) Descriptor {
	if !t.contains(set, binding) {
		return Descriptor{}
	}
	return *t.slot(set, binding)
}

// Descriptors returns the populated slots ordered by set, then binding.
func (t *Table) Descriptors() []Descriptor {
	var out []Descriptor
	for _, d := range t.slots {
		if !d.Empty() {
			out = append(out, d)
		}
	}
	return out
}

// Set returns the populated slots of one set in binding order.
func (t *Table) Set(set uint32) []Descriptor {
	if set >= t.maxSets {
		return nil
	}
	var out []Descriptor
	base := set * t.maxBindings
	for _, d := range t.slots[base : base+t.maxBindings] {
		if !d.Empty() {
			out = append(out, d)
		}
	}
	return out
}

// UsedSets returns one past the highest set index with a populated slot,
// or 0 for an empty table.
func (t *Table) UsedSets() int {
	for set := int(t.maxSets) - 1; set >= 0; set-- {
		base := uint32(set) * t.maxBindings
		for _, d := range t.slots[base : base+t.maxBindings] {
			if !d.Empty() {
				return set + 1
			}
		}
	}
	return 0
}

// Reset empties every slot, keeping the capacities.
func (t *Table) Reset() {
	clear(t.slots)
}
