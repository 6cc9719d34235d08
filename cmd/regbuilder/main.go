package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/astralkit/regbuilder/cmd/regbuilder/commands"
	"github.com/astralkit/regbuilder/internal/version"
)

func main() {
	cli := commands.CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("regbuilder"),
		kong.Description("Generate an extension registry from local plugin metadata"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{Logger: slog.Default()}
	if err := ctx.Run(global, &cli); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
