package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/doxybuild/internal/eventstore"
	ferrors "git.home.luguber.info/inful/doxybuild/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	HistoryDB string `name:"history-db" help:"SQLite database to read (defaults to build.history_db)" type:"path"`
	Limit     int    `short:"n" help:"Number of builds to show" default:"10"`
	JSON      bool   `name:"json" help:"Print builds as JSON"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, layout, err := root.LoadProject(nil)
	if err != nil {
		return err
	}

	dbPath := h.HistoryDB
	if dbPath == "" {
		dbPath = layout.ResolveArtifact(cfg.Build.HistoryDB)
	}
	if dbPath == "" {
		return ferrors.ConfigError("no build history configured (set build.history_db or --history-db)").Build()
	}
	if _, err := os.Stat(dbPath); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryHistory, "build history not found").
			WithContext("path", dbPath).
			Build()
	}

	store, err := eventstore.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	projection := eventstore.NewBuildHistoryProjection(store, h.Limit)
	if err := projection.Rebuild(g.context()); err != nil {
		return err
	}
	builds := projection.GetHistory()

	out := g.stdout()
	if h.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(builds)
	}
	if len(builds) == 0 {
		_, _ = fmt.Fprintln(out, "No builds recorded")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "BUILD\tSTARTED\tDURATION\tOUTCOME\tFAILED STAGE\tEXIT")
	for _, b := range builds {
		exit := "-"
		if b.GeneratorExitCode >= 0 {
			exit = fmt.Sprint(b.GeneratorExitCode)
		}
		failed := b.FailedStage
		if failed == "" {
			failed = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(b.BuildID),
			b.StartedAt.Local().Format(time.DateTime),
			b.Duration.Round(time.Millisecond),
			b.Status,
			failed,
			exit)
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
