package main

import (
	"context"
	"fmt"
	"net"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/iw2rmb/csvi/buffer"
	"github.com/iw2rmb/csvi/docsync"
	"github.com/iw2rmb/csvi/internal/host"
	"github.com/iw2rmb/csvi/internal/transport"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var (
		addr     string
		autosave bool
	)
	cmd := &cobra.Command{
		Use:   "serve FILE",
		Short: "Host FILE for grid views attached over a websocket",
		Long: heredoc.Doc(`
			serve owns FILE and its synchronizer and accepts any number of views
			with "csvi attach". All views see every change. With --autosave (the
			default) the file is written after every change.
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, *flags, args[0], addr, autosave)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from settings, 127.0.0.1:7431)")
	cmd.Flags().BoolVar(&autosave, "autosave", true, "save the file after every change")
	return cmd
}

func runServe(cmd *cobra.Command, flags globalFlags, path, addr string, autosave bool) error {
	if err := checkFileArg(path); err != nil {
		return err
	}
	e, err := setup(flags)
	if err != nil {
		return err
	}
	defer e.Close()
	if addr == "" {
		addr = e.settings.Serve.Addr
	}

	file, err := host.Open(path, host.Options{
		EOL:          e.settings.EOL,
		HistoryLimit: e.settings.HistoryLimit,
		Logger:       e.log,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sync := docsync.New(file.Document(), docsync.Options{Logger: e.log})
	wait := runSync(ctx, sync.Run)

	if e.settings.Watch.Enabled {
		go logEvents(file.Watch(ctx, e.settings.Watch.Interval()), e.log)
	}
	if autosave {
		go autoSave(ctx, file, e.log)
	}

	srv := transport.NewServer(sync, e.log)
	out := cmd.OutOrStdout()
	err = srv.ListenAndServe(ctx, addr, func(a net.Addr) {
		fmt.Fprintf(out, "serving %s on ws://%s\n", file.Name(), a)
	})
	cancel()
	if werr := wait(); werr != nil {
		e.log.Error("synchronizer stopped", "err", werr)
	}
	if file.Dirty() {
		if serr := file.Save(); serr != nil {
			e.log.Error("final save failed", "err", serr)
		}
	}
	return err
}

func logEvents(events <-chan host.Event, logger *log.Logger) {
	for evt := range events {
		if evt.Err != nil {
			logger.Error("file event", "kind", evt.Kind, "err", evt.Err)
			continue
		}
		logger.Info("file event", "kind", evt.Kind)
	}
}

// autoSave writes the file after local changes. Changes landing while a save
// runs are folded into the next one.
func autoSave(ctx context.Context, file *host.File, logger *log.Logger) {
	pending := make(chan struct{}, 1)
	cancel := file.Document().Subscribe(func(ch buffer.Change) {
		if ch.Source == buffer.ChangeSourceRemote {
			return
		}
		select {
		case pending <- struct{}{}:
		default:
		}
	})
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case <-pending:
			if !file.Dirty() {
				continue
			}
			if err := file.Save(); err != nil {
				logger.Error("autosave failed", "err", err)
			}
		}
	}
}
