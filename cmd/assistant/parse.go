package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/classify"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/logparse"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/render"
)

type parseFlags struct {
	file     string
	format   string
	maxChars int
	out      string
}

func newParseCmd() *cobra.Command {
	var f parseFlags
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Segment and classify a daily log",
		Long: "Reads a daily log from a file or stdin, splits it into dated fragments,\n" +
			"and classifies each fragment into a work category.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				f.file = args[0]
			}
			return runParse(cmd.Context(), f)
		},
	}
	cmd.Flags().StringVar(&f.format, "format", "json", "output format: json or markdown")
	cmd.Flags().IntVar(&f.maxChars, "max-chars", logparse.DefaultMaxInputLen, "maximum input length in characters")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func runParse(ctx context.Context, f parseFlags) error {
	text, err := readInput(f.file)
	if err != nil {
		return &exitError{code: exitCodeBadInput, err: err}
	}

	seg := logparse.Segmenter{MaxLen: f.maxChars}
	frags, err := seg.Segment(text)
	if err != nil {
		return &exitError{code: exitCodeBadInput, err: err}
	}
	log := classify.Classify(frags)

	switch f.format {
	case "json":
		b, err := render.RenderJSON(&log)
		if err != nil {
			return err
		}
		return writeOutput(f.out, append(b, '\n'))
	case "markdown":
		return writeOutput(f.out, []byte(render.RenderLogMarkdown(&log)))
	default:
		return &exitError{code: exitCodeBadInput, err: fmt.Errorf("unknown format %q (want json or markdown)", f.format)}
	}
}
