package main

import (
	"github.com/spf13/cobra"

	"github.com/lixenwraith/soundbox/config"
)

// playbackFlags are per-run overrides shared by play and snapshot
type playbackFlags struct {
	bpm     int
	beat    string
	pattern string
	color   string
	loop    bool
}

func (f *playbackFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.bpm, "bpm", 0, "Tempo in beats per minute")
	cmd.Flags().StringVar(&f.beat, "beat", "", "Beat style: none, basic, driving, breakbeat, halftime")
	cmd.Flags().StringVar(&f.pattern, "pattern", "", "Pattern mode: butterfly, clifford, dejong, lorenz, spiral, flower")
	cmd.Flags().StringVar(&f.color, "color", "", "Color mode: default, butterfly, monarch, blue, rainbow, fire, ocean, neon")
	cmd.Flags().BoolVar(&f.loop, "loop", false, "Loop the sequences")
}

// apply copies changed flags onto a copy of cfg and validates the result
func (f *playbackFlags) apply(cmd *cobra.Command, cfg *config.Config) (*config.Config, error) {
	out := *cfg
	flags := cmd.Flags()
	if flags.Changed("bpm") {
		out.Audio.BPM = f.bpm
	}
	if flags.Changed("beat") {
		out.Audio.BeatStyle = f.beat
	}
	if flags.Changed("pattern") {
		out.Visual.PatternMode = f.pattern
	}
	if flags.Changed("color") {
		out.Visual.ColorMode = f.color
	}
	if flags.Changed("loop") {
		out.Sequencer.Loop = f.loop
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}
