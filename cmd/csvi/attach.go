package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/csvi/internal/app"
	"github.com/iw2rmb/csvi/internal/transport"
)

func newAttachCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "attach URL",
		Short:   "Open a grid view on a document served by csvi serve",
		Example: "  csvi attach ws://127.0.0.1:7431",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAttach(cmd.Context(), *flags, args[0])
		},
	}
}

func runAttach(ctx context.Context, flags globalFlags, url string) error {
	e, err := setup(flags)
	if err != nil {
		return err
	}
	defer e.Close()

	client, err := transport.Dial(ctx, url, e.log)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	wait := runSync(ctx, client.Run)

	cfg := app.Config{
		Title:          url,
		Link:           client,
		SessionKey:     url,
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
	_ = client.Close()
	if err := wait(); err != nil {
		e.log.Warn("connection ended", "err", err)
	}
	if runErr != nil {
		return fmt.Errorf("run: %w", runErr)
	}
	return nil
}
