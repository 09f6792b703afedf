package layout

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/spvreflect/descriptor"
	"github.com/gogpu/spvreflect/internal/logger"
)

// Device is the part of hal.Device that layout creation needs.
type Device interface {
	CreateBindGroupLayout(desc *hal.BindGroupLayoutDescriptor) (hal.BindGroupLayout, error)
	DestroyBindGroupLayout(layout hal.BindGroupLayout)
	CreatePipelineLayout(desc *hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error)
	DestroyPipelineLayout(layout hal.PipelineLayout)
}

var _ Device = hal.Device(nil)

// PipelineLayout owns the bind group layouts created for a table together
// with the pipeline layout that references them.
type PipelineLayout struct {
	// BindGroupLayouts has one layout per set, index = set.
	BindGroupLayouts []hal.BindGroupLayout

	Layout hal.PipelineLayout
}

// Build creates one bind group layout per set up to table.UsedSets() and a
// pipeline layout over them. Unused sets below the highest used one get
// empty layouts. On error every object created so far is destroyed.
func Build(device Device, table *descriptor.Table, label string) (*PipelineLayout, error) {
	n := table.UsedSets()
	pl := &PipelineLayout{BindGroupLayouts: make([]hal.BindGroupLayout, 0, n)}

	for set := range uint32(n) {
		entries, err := Entries(table, set)
		if err != nil {
			pl.Destroy(device)
			return nil, err
		}
		bgl, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s_set%d", label, set),
			Entries: entries,
		})
		if err != nil {
			pl.Destroy(device)
			return nil, fmt.Errorf("layout: failed to create bind group layout for set %d: %w", set, err)
		}
		pl.BindGroupLayouts = append(pl.BindGroupLayouts, bgl)
		logger.Get().Debug("spvreflect: created bind group layout", "label", label, "set", set, "entries", len(entries))
	}

	layout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: pl.BindGroupLayouts,
	})
	if err != nil {
		pl.Destroy(device)
		return nil, fmt.Errorf("layout: failed to create pipeline layout: %w", err)
	}
	pl.Layout = layout
	return pl, nil
}

// Destroy releases the pipeline layout and then the bind group layouts.
// It is safe to call on a partially built layout.
func (pl *PipelineLayout) Destroy(device Device) {
	if pl.Layout != nil {
		device.DestroyPipelineLayout(pl.Layout)
		pl.Layout = nil
	}
	for i := len(pl.BindGroupLayouts) - 1; i >= 0; i-- {
		if bgl := pl.BindGroupLayouts[i]; bgl != nil {
			device.DestroyBindGroupLayout(bgl)
		}
	}
	pl.BindGroupLayouts = nil
}
