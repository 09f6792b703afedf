package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/gogpu/spvreflect/disasm"
	"github.com/gogpu/spvreflect/spirv"
)

type disCmd struct {
	rawIDs   bool
	noHeader bool
}

func (*disCmd) Name() string { return "dis" }

func (*disCmd) Synopsis() string {
	return "Disassemble a SPIR-V module."
}

func (*disCmd) Usage() string {
	return "spvreflect dis [-raw_ids] [-no_header] <module.spv>\n"
}

func (cmd *disCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.rawIDs, "raw_ids", false, "print %N ids even when the module names them")
	f.BoolVar(&cmd.noHeader, "no_header", false, "omit the header comment block")
}

func (cmd *disCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, cmd.Usage())
		return subcommands.ExitUsageError
	}
	if err := cmd.execute(os.Stdout, f.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "spvreflect: %s\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (cmd *disCmd) execute(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	m, err := spirv.NewModuleInPlace(data)
	if err != nil {
		return err
	}
	return disasm.DisassembleWithOptions(w, m, disasm.Options{
		FriendlyNames: !cmd.rawIDs,
		Header:        !cmd.noHeader,
	})
}
