// Command spvreflect prints the descriptor bindings of SPIR-V and WGSL
// shader modules.
//
//	spvreflect reflect shader.vert.spv shader.frag.spv
//	spvreflect layout -label sprite sprite.wgsl
//	spvreflect dis shader.frag.spv
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"github.com/gogpu/spvreflect"
)

var (
	level          slog.Level
	subcommandList []subcommands.Command
)

func init() {
	flag.TextVar(&level, "level", slog.LevelWarn, "log verbosity: debug, info, warn or error")

	subcommandList = append(subcommandList,
		subcommands.HelpCommand(),
		subcommands.FlagsCommand(),
		&reflectCmd{},
		&layoutCmd{},
		&disCmd{},
	)
}

func main() {
	for _, cmd := range subcommandList {
		subcommands.Register(cmd, "")
	}

	flag.Parse()
	spvreflect.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	os.Exit(int(subcommands.Execute(context.Background())))
}
