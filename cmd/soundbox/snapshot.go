package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/soundbox/session"
)

func newSnapshotCommand(ctx *commandContext) *cobra.Command {
	var flags playbackFlags
	var output, wavOutput string
	var frames, width, height int

	cmd := &cobra.Command{
		Use:   "snapshot [sequence...]",
		Short: "Render sequences offline to a PNG, optionally with a WAV of the audio",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := flags.apply(cmd, base)
			if err != nil {
				return err
			}
			if frames < 1 {
				return fmt.Errorf("--frames must be at least 1")
			}
			if width < 1 || height < 1 {
				return fmt.Errorf("--width and --height must be positive")
			}
			if strings.TrimSpace(output) == "" {
				return fmt.Errorf("--output is required")
			}

			logFile, logger, err := setupLogging(cfg.Logging.Debug, cfg.Logging.Dir)
			if err != nil {
				return err
			}
			if logFile != nil {
				defer logFile.Close()
			}

			off := session.NewOffline(cfg, width, height, wavOutput != "", logger)
			off.SetSequences(args)
			if len(args) > 0 {
				if err := off.Play(); err != nil {
					return fmt.Errorf("start playback: %w", err)
				}
			}
			buf := off.Render(frames)

			if err := writePNG(output, buf.FlattenImage(background)); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %dx%d frame %d to %s\n", width, height, frames, output)

			if wavOutput != "" {
				f, err := os.Create(wavOutput)
				if err != nil {
					return fmt.Errorf("create wav: %w", err)
				}
				defer f.Close()
				if err := off.WriteWAV(f); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote %s of audio to %s\n", off.Recorded(), wavOutput)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "soundbox.png", "PNG destination")
	cmd.Flags().StringVar(&wavOutput, "wav", "", "Also write the rendered audio to this WAV file")
	cmd.Flags().IntVar(&frames, "frames", 240, "Frames to simulate before capturing")
	cmd.Flags().IntVar(&width, "width", 640, "Image width in pixels")
	cmd.Flags().IntVar(&height, "height", 480, "Image height in pixels")
	return cmd
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}
