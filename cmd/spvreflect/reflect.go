package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/gogpu/spvreflect/descriptor"
)

type reflectCmd struct {
	pipelineFlags
	json bool
}

func (*reflectCmd) Name() string { return "reflect" }

func (*reflectCmd) Synopsis() string {
	return "Print the merged descriptor table of one pipeline's stage modules."
}

func (*reflectCmd) Usage() string {
	return "spvreflect reflect [-json] <module.spv|module.wgsl>...\n"
}

func (cmd *reflectCmd) SetFlags(f *flag.FlagSet) {
	cmd.register(f)
	f.BoolVar(&cmd.json, "json", false, "print JSON instead of a table")
}

func (cmd *reflectCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := cmd.execute(os.Stdout, f.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "spvreflect: %s\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// descriptorJSON is the -json form of one slot.
type descriptorJSON struct {
	Set      uint32   `json:"set"`
	Binding  uint32   `json:"binding"`
	Kind     string   `json:"kind"`
	Stages   []string `json:"stages"`
	Name     string   `json:"name,omitempty"`
	Count    uint32   `json:"count,omitempty"`
	ReadOnly bool     `json:"read_only,omitempty"`
}

func (cmd *reflectCmd) execute(w io.Writer, paths []string) error {
	p, err := cmd.load(paths)
	if err != nil {
		return err
	}
	descs := p.Table().Descriptors()

	if cmd.json {
		out := make([]descriptorJSON, 0, len(descs))
		for _, d := range descs {
			out = append(out, descriptorJSON{
				Set:      d.Set,
				Binding:  d.Binding,
				Kind:     d.Kind.String(),
				Stages:   stageNames(d.Stages),
				Name:     d.Name,
				Count:    d.Count,
				ReadOnly: d.ReadOnly,
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SET\tBINDING\tKIND\tSTAGES\tCOUNT\tNAME")
	for _, d := range descs {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%d\t%s\n", d.Set, d.Binding, d.Kind, d.Stages, d.Count, d.Name)
	}
	return tw.Flush()
}

func stageNames(m descriptor.StageMask) []string {
	var names []string
	for _, s := range []descriptor.Stage{descriptor.StageVertex, descriptor.StageFragment, descriptor.StageCompute} {
		if m.Has(s) {
			names = append(names, s.String())
		}
	}
	return names
}
