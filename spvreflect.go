// Package spvreflect extracts descriptor bindings from SPIR-V shader modules.
//
// A pipeline is built from one module per stage. Each module is validated,
// brought to host byte order, walked once to classify its ids, and its
// descriptor variables are merged into a shared set/binding table. A binding
// used by several stages ends up as one slot with several stage bits:
//
//	p := spvreflect.NewPipeline(spvreflect.DefaultOptions())
//	if _, err := p.AddModule(vertexSPIRV); err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := p.AddModule(fragmentSPIRV); err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range p.Table().Descriptors() {
//	    fmt.Println(d.Set, d.Binding, d.Kind, d.Stages, d.Name)
//	}
//
// WGSL sources can be added directly; they are compiled with naga first:
//
//	stage, err := p.AddWGSL(source)
//
// The table feeds the layout package, which converts it into bind group
// layout entries and HAL pipeline layouts.
package spvreflect

import (
	"fmt"
	"sync"

	"github.com/gogpu/naga"

	"github.com/gogpu/spvreflect/descriptor"
	"github.com/gogpu/spvreflect/internal/logger"
	"github.com/gogpu/spvreflect/spirv"
)

// MaxIDBound is the largest id bound SPIR-V allows.
const MaxIDBound = 0x3FFFFF

// Options configures reflection.
type Options struct {
	// MaxSets and MaxBindings size the descriptor table (default: 4 x 8).
	MaxSets     int
	MaxBindings int

	// MaxIDBound rejects modules declaring a larger id bound before any
	// scratch is allocated (default: MaxIDBound).
	MaxIDBound uint32

	// InPlace lets AddModule byte-swap and alias the caller's buffer instead
	// of copying it. The buffer must not be used as SPIR-V in its original
	// byte order afterwards.
	InPlace bool
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		MaxSets:     descriptor.DefaultMaxSets,
		MaxBindings: descriptor.DefaultMaxBindingsPerSet,
		MaxIDBound:  MaxIDBound,
		InPlace:     false,
	}
}

// Pipeline accumulates the descriptors of the stage modules of one
// pipeline. It is not safe for concurrent use.
type Pipeline struct {
	opts     Options
	ids      *descriptor.IDTable
	table    *descriptor.Table
	warnings []*descriptor.Error
	stages   descriptor.StageMask
}

// NewPipeline creates an empty pipeline.
func NewPipeline(opts Options) *Pipeline {
	if opts.MaxIDBound == 0 || opts.MaxIDBound > MaxIDBound {
		opts.MaxIDBound = MaxIDBound
	}
	return &Pipeline{
		opts:  opts,
		table: descriptor.NewTable(opts.MaxSets, opts.MaxBindings),
	}
}

// AddModule reflects one SPIR-V binary in either byte order and merges its
// descriptors into the table. It returns the stage of the module's entry
// point.
func (p *Pipeline) AddModule(code []byte) (descriptor.Stage, error) {
	var (
		m   *spirv.Module
		err error
	)
	if p.opts.InPlace {
		m, err = spirv.NewModuleInPlace(code)
	} else {
		m, err = spirv.NewModule(code)
	}
	if err != nil {
		return descriptor.StageNone, fmt.Errorf("spvreflect: %w", err)
	}
	return p.Add(m)
}

// AddWGSL compiles a WGSL source with one entry point and reflects the
// result. Debug info is requested, but naga does not name global variables,
// so descriptors from WGSL usually have an empty Name.
func (p *Pipeline) AddWGSL(source string) (descriptor.Stage, error) {
	opts := naga.DefaultOptions()
	opts.Debug = true
	code, err := naga.CompileWithOptions(source, opts)
	if err != nil {
		return descriptor.StageNone, fmt.Errorf("spvreflect: failed to compile WGSL: %w", err)
	}
	m, err := spirv.NewModuleInPlace(code)
	if err != nil {
		return descriptor.StageNone, fmt.Errorf("spvreflect: %w", err)
	}
	return p.Add(m)
}

// Add reflects an already decoded module.
func (p *Pipeline) Add(m *spirv.Module) (descriptor.Stage, error) {
	ids, err := p.scratch(m.Bound())
	if err != nil {
		return descriptor.StageNone, err
	}
	if err := ids.Build(m); err != nil {
		return descriptor.StageNone, fmt.Errorf("spvreflect: %w", err)
	}
	stage, err := p.aggregate(ids)
	if err != nil {
		return stage, fmt.Errorf("spvreflect: %w", err)
	}
	return stage, nil
}

func (p *Pipeline) aggregate(ids *descriptor.IDTable) (descriptor.Stage, error) {
	stage := ids.Stage()
	warnings, err := descriptor.Aggregate(ids, p.table, stage)
	if err != nil {
		return stage, err
	}
	p.warnings = append(p.warnings, warnings...)
	p.stages |= stage.Mask()

	logger.Get().Debug("spvreflect: reflected module",
		"stage", stage.String(),
		"entry", ids.EntryPoint(),
		"bound", ids.Bound(),
		"warnings", len(warnings))
	return stage, nil
}

// scratch returns an id table large enough for bound, reusing the previous
// one when it fits.
func (p *Pipeline) scratch(bound uint32) (*descriptor.IDTable, error) {
	if bound > p.opts.MaxIDBound {
		return nil, fmt.Errorf("spvreflect: %w", descriptor.NewError(descriptor.ErrCapacityExceeded,
			fmt.Sprintf("module id bound %d exceeds limit %d", bound, p.opts.MaxIDBound)))
	}
	if p.ids == nil || p.ids.Cap() < int(bound) {
		p.ids = descriptor.NewIDTable(int(bound))
	}
	return p.ids, nil
}

// Table returns the accumulated descriptor table.
func (p *Pipeline) Table() *descriptor.Table { return p.table }

// Warnings returns the non-fatal conflicts seen so far, in order.
func (p *Pipeline) Warnings() []*descriptor.Error { return p.warnings }

// Stages returns the stages added so far.
func (p *Pipeline) Stages() descriptor.StageMask { return p.stages }

// Reset empties the table and forgets warnings and stages. Scratch is kept.
func (p *Pipeline) Reset() {
	p.table.Reset()
	p.warnings = nil
	p.stages = 0
}

// Reflect reflects a single module with default options.
func Reflect(code []byte) (*descriptor.Table, error) {
	p := NewPipeline(DefaultOptions())
	if _, err := p.AddModule(code); err != nil {
		return nil, err
	}
	return p.Table(), nil
}

// ReflectStages reflects the stage modules of one pipeline with default
// options. Modules are decoded and classified concurrently, each with its
// own scratch; aggregation then runs in argument order, so the result does
// not depend on scheduling.
func ReflectStages(codes ...[]byte) (*descriptor.Table, []*descriptor.Error, error) {
	opts := DefaultOptions()
	tables := make([]*descriptor.IDTable, len(codes))
	errs := make([]error, len(codes))

	var wg sync.WaitGroup
	for i, code := range codes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tables[i], errs[i] = buildIDTable(code, opts.MaxIDBound)
		}()
	}
	wg.Wait()

	p := NewPipeline(opts)
	for i, ids := range tables {
		if errs[i] != nil {
			return nil, nil, fmt.Errorf("spvreflect: module %d: %w", i, errs[i])
		}
		if _, err := p.aggregate(ids); err != nil {
			return nil, nil, fmt.Errorf("spvreflect: module %d: %w", i, err)
		}
	}
	return p.Table(), p.Warnings(), nil
}

func buildIDTable(code []byte, maxBound uint32) (*descriptor.IDTable, error) {
	m, err := spirv.NewModule(code)
	if err != nil {
		return nil, err
	}
	if m.Bound() > maxBound {
		return nil, descriptor.NewError(descriptor.ErrCapacityExceeded,
			fmt.Sprintf("module id bound %d exceeds limit %d", m.Bound(), maxBound))
	}
	ids := descriptor.NewIDTable(int(m.Bound()))
	if err := ids.Build(m); err != nil {
		return nil, err
	}
	return ids, nil
}
