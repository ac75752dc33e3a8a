package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/soundbox/present"
	"github.com/lixenwraith/soundbox/render"
	"github.com/lixenwraith/soundbox/session"
)

// background is the opaque color trails fade into
var background = render.RGB{R: 6, G: 6, B: 14}

func isInteractive() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var flags playbackFlags
	var paused bool

	cmd := &cobra.Command{
		Use:   "play [sequence...]",
		Short: "Play digit sequences with the terminal visualizer",
		Long: `Play up to five digit sequences, each filling one 16-step bar.

Keys: space play/pause, s stop, l loop, m pattern mode, c color mode, b beat style, q or Esc quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isInteractive() {
				return errors.New("play needs an interactive terminal; use snapshot for headless output")
			}
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := flags.apply(cmd, base)
			if err != nil {
				return err
			}

			logFile, logger, err := setupLogging(cfg.Logging.Debug, cfg.Logging.Dir)
			if err != nil {
				return err
			}
			if logFile != nil {
				defer logFile.Close()
			}
			logger.Info("soundbox starting", "config", ctx.configPath, "sequences", args)

			term, err := present.OpenTerminal(background)
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			defer func() {
				if r := recover(); r != nil {
					present.HandleCrash(r)
				}
			}()
			defer term.Close()

			sess := session.New(cfg, term, term.SetStatus, logger)
			sess.SetSequences(args)
			if len(args) > 0 && !paused {
				sess.Dispatch(present.CmdTogglePlay)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			present.Go(func() { term.Run(runCtx, sess.Dispatch) })

			if err := sess.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&paused, "paused", false, "Load the sequences without starting playback")
	return cmd
}
