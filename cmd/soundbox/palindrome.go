package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/soundbox/attractor"
	"github.com/lixenwraith/soundbox/palindrome"
)

func newPalindromeCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "palindrome [sequence...]",
		Short:       "Print the palindrome and visual signature for sequences",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			pal := palindrome.Build(args)
			p := attractor.Derive(pal)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Palindrome: %q\n", pal)
			f := func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
			fmt.Fprintln(out, renderTable(
				[]column{col("Parameter"), num("Value")},
				[][]string{
					{"seed", strconv.FormatUint(uint64(p.Seed), 10)},
					{"a", f(p.A)},
					{"b", f(p.B)},
					{"c", f(p.C)},
					{"d", f(p.D)},
					{"k", f(p.K)},
					{"hue", f(p.Hue)},
					{"wing ratio", f(p.WingRatio)},
					{"scale", f(p.PatternScale)},
				},
			))
			return nil
		},
	}
}
