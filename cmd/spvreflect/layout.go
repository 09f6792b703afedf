package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gogpu/gputypes"
	"github.com/google/subcommands"

	"github.com/gogpu/spvreflect/layout"
)

type layoutCmd struct {
	pipelineFlags
	label string
}

func (*layoutCmd) Name() string { return "layout" }

func (*layoutCmd) Synopsis() string {
	return "Print the bind group layout entries and pool sizes for a pipeline."
}

func (*layoutCmd) Usage() string {
	return "spvreflect layout [-label <name>] <module.spv|module.wgsl>...\n"
}

func (cmd *layoutCmd) SetFlags(f *flag.FlagSet) {
	cmd.register(f)
	f.StringVar(&cmd.label, "label", "pipeline", "label prefix for the bind group layouts")
}

func (cmd *layoutCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := cmd.execute(os.Stdout, f.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "spvreflect: %s\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type bindGroupLayoutJSON struct {
	Label   string                          `json:"label"`
	Group   int                             `json:"group"`
	Entries []gputypes.BindGroupLayoutEntry `json:"entries"`
}

type poolSizeJSON struct {
	Kind  string `json:"kind"`
	Count uint32 `json:"count"`
}

type layoutJSON struct {
	BindGroups []bindGroupLayoutJSON `json:"bind_groups"`
	PoolSizes  []poolSizeJSON        `json:"pool_sizes"`
}

func (cmd *layoutCmd) execute(w io.Writer, paths []string) error {
	p, err := cmd.load(paths)
	if err != nil {
		return err
	}
	table := p.Table()

	out := layoutJSON{}
	for set := range table.UsedSets() {
		entries, err := layout.Entries(table, uint32(set))
		if err != nil {
			return err
		}
		out.BindGroups = append(out.BindGroups, bindGroupLayoutJSON{
			Label:   fmt.Sprintf("%s_set%d", cmd.label, set),
			Group:   set,
			Entries: entries,
		})
	}
	for _, ps := range layout.PoolSizes(table) {
		out.PoolSizes = append(out.PoolSizes, poolSizeJSON{Kind: ps.Kind.String(), Count: ps.Count})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
