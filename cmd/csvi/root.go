package main

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/iw2rmb/csvi"
	"github.com/iw2rmb/csvi/docsync"
	"github.com/iw2rmb/csvi/internal/app"
	"github.com/iw2rmb/csvi/internal/host"
	"github.com/iw2rmb/csvi/internal/session"
	"github.com/iw2rmb/csvi/internal/transport"
)

func newRootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "csvi FILE",
		Short: "Edit comma separated files as a grid in the terminal",
		Long: heredoc.Doc(`
			csvi opens a comma separated file as a grid. Every cell edit, row and
			column change is written back to the text as a minimal edit, and
			changes made to the file by other programs show up in the grid.

			Fields are split on every comma; quoting is not interpreted.
		`),
		Example: heredoc.Doc(`
			csvi data.csv
			csvi --eol crlf export.csv
			csvi serve data.csv --addr 127.0.0.1:7431
			csvi attach ws://127.0.0.1:7431
		`),
		Version:       csvi.Version(),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd.Context(), flags, args[0])
		},
	}
	cmd.SetVersionTemplate("csvi {{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "settings file (default $XDG_CONFIG_HOME/csvi/settings.toml)")
	pf.StringVar(&flags.eol, "eol", "", "line ending: auto, lf or crlf")
	pf.BoolVar(&flags.debug, "debug", false, "log at debug level")
	pf.StringVar(&flags.logFile, "log-file", "", "log file (default $TMPDIR/csvi.log)")
	pf.StringVar(&flags.sessionDB, "session-db", "", `session database, "off" disables it`)

	cmd.AddCommand(newServeCmd(&flags), newAttachCmd(&flags))
	return cmd
}

func runOpen(ctx context.Context, flags globalFlags, path string) error {
	if err := checkFileArg(path); err != nil {
		return err
	}
	e, err := setup(flags)
	if err != nil {
		return err
	}
	defer e.Close()

	file, err := host.Open(path, host.Options{
		EOL:          e.settings.EOL,
		HistoryLimit: e.settings.HistoryLimit,
		Logger:       e.log,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sync := docsync.New(file.Document(), docsync.Options{Logger: e.log})
	wait := runSync(ctx, sync.Run)
	link := transport.NewLocal(sync)
	defer link.Close()

	var events <-chan host.Event
	if e.settings.Watch.Enabled {
		events = file.Watch(ctx, e.settings.Watch.Interval())
	}

	cfg := app.Config{
		Title:          file.Name(),
		Link:           link,
		Host:           file,
		Watch:          events,
		SessionKey:     session.Key(path),
		Clipboard:      app.SystemClipboard{Log: e.log},
		Logger:         e.log,
		MinColumnWidth: e.settings.Grid.MinColumnWidth,
		MaxColumnWidth: e.settings.Grid.MaxColumnWidth,
		DoubleClick:    e.settings.Grid.DoubleClick(),
	}
	if store := e.openSessions(); store != nil {
		cfg.Sessions = store
	}

	runErr := app.Run(ctx, cfg)
	cancel()
	if err := wait(); err != nil {
		e.log.Error("synchronizer stopped", "err", err)
	}
	if file.Dirty() {
		e.log.Warn("quit with unsaved changes", "file", path)
	}
	if runErr != nil {
		return fmt.Errorf("run: %w", runErr)
	}
	return nil
}
