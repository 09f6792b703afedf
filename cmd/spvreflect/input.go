package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/spvreflect"
)

// pipelineFlags are shared by the commands that reflect a set of modules.
type pipelineFlags struct {
	maxSets     int
	maxBindings int
}

func (pf *pipelineFlags) register(f *flag.FlagSet) {
	f.IntVar(&pf.maxSets, "max_sets", spvreflect.DefaultOptions().MaxSets, "number of descriptor sets in the table")
	f.IntVar(&pf.maxBindings, "max_bindings", spvreflect.DefaultOptions().MaxBindings, "number of bindings per set")
}

// load reflects every path into one pipeline. Files ending in .wgsl are
// compiled first; everything else is read as a SPIR-V binary.
func (pf *pipelineFlags) load(paths []string) (*spvreflect.Pipeline, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input files")
	}

	opts := spvreflect.DefaultOptions()
	opts.MaxSets = pf.maxSets
	opts.MaxBindings = pf.maxBindings
	// Buffers are read from disk and never reused.
	opts.InPlace = true
	p := spvreflect.NewPipeline(opts)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(filepath.Ext(path), ".wgsl") {
			_, err = p.AddWGSL(string(data))
		} else {
			_, err = p.AddModule(data)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return p, nil
}
