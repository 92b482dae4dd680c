package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/doxybuild/cmd/doxybuild/commands"
	ferrors "git.home.luguber.info/inful/doxybuild/internal/foundation/errors"
	"git.home.luguber.info/inful/doxybuild/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("doxybuild"),
		kong.Description("Build Doxygen documentation with the doxygen-awesome-css theme."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := parser.Run(&commands.Global{Ctx: ctx, Logger: slog.Default(), Stdout: os.Stdout}, cli)
	stop()

	os.Exit(ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(err))
}
