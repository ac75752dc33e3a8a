package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/soundbox/audio"
	"github.com/lixenwraith/soundbox/palindrome"
	"github.com/lixenwraith/soundbox/sequencer"
)

func newPatternCommand(ctx *commandContext) *cobra.Command {
	var bpm int

	cmd := &cobra.Command{
		Use:   "pattern <sequence>...",
		Short: "Show how each sequence is laid out over its 16-step bar",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("bpm") {
				bpm = cfg.Audio.BPM
			}
			step := sequencer.StepDuration(bpm, cfg.Audio.TempoMultiplier)

			out := cmd.OutOrStdout()
			active := palindrome.Active(args)
			if len(active) == 0 {
				active = []string{""}
			}
			for i, seq := range active {
				steps := sequencer.Allocate(seq)
				fmt.Fprintf(out, "Sequence %d %q: %d notes, step %s\n", i+1, seq, len(steps), step)
				fmt.Fprintln(out, renderTable(patternColumns, patternRows(steps, step)))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&bpm, "bpm", 0, "Tempo for the timing columns (defaults to the configured tempo)")
	return cmd
}

var patternColumns = []column{
	num("#"), num("Digit"), col("Note"), num("Hz"),
	num("Offset"), num("Steps"), num("Start"), num("Length"),
}

func patternRows(steps []sequencer.Step, step time.Duration) [][]string {
	rows := make([][]string, 0, len(steps))
	for i, s := range steps {
		digit, note, hz := "rest", "", ""
		if s.Valid() {
			digit = strconv.Itoa(s.Digit)
			note = audio.DigitNote(s.Digit)
			hz = strconv.FormatFloat(audio.DigitFreq(s.Digit), 'f', 2, 64)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			digit,
			note,
			hz,
			strconv.Itoa(s.Offset),
			strconv.Itoa(s.Duration),
			(time.Duration(s.Offset) * step).String(),
			(time.Duration(s.Duration) * step).String(),
		})
	}
	return rows
}
