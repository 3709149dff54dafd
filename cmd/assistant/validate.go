package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/render"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/validate"
)

type validateFlags struct {
	file   string
	kind   string
	format string
	out    string
}

func newValidateCmd() *cobra.Command {
	var f validateFlags
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a document against its structural template",
		Long: "Validates a weekly report or OKR document read from a file or stdin and\n" +
			"exits with code 2 when required sections are missing or empty.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				f.file = args[0]
			}
			return runValidate(cmd.Context(), f)
		},
	}
	cmd.Flags().StringVar(&f.kind, "kind", "weekly", "document kind: weekly or okr")
	cmd.Flags().StringVar(&f.format, "format", "markdown", "output format: markdown or json")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func runValidate(ctx context.Context, f validateFlags) error {
	kind, err := parseKind(f.kind)
	if err != nil {
		return &exitError{code: exitCodeBadInput, err: err}
	}
	text, err := readInput(f.file)
	if err != nil {
		return &exitError{code: exitCodeBadInput, err: err}
	}
	if strings.TrimSpace(text) == "" {
		return &exitError{code: exitCodeBadInput, err: fmt.Errorf("document is empty")}
	}

	verdict, err := validate.Document(kind, text)
	if err != nil {
		return &exitError{code: exitCodeBadInput, err: err}
	}

	switch f.format {
	case "markdown":
		if err := writeOutput(f.out, []byte(render.RenderVerdictMarkdown(kind, &verdict))); err != nil {
			return err
		}
	case "json":
		b, err := render.RenderJSON(verdict)
		if err != nil {
			return err
		}
		if err := writeOutput(f.out, append(b, '\n')); err != nil {
			return err
		}
	default:
		return &exitError{code: exitCodeBadInput, err: fmt.Errorf("unknown format %q (want markdown or json)", f.format)}
	}

	if !verdict.IsValid {
		return &exitError{code: exitCodeInvalid, err: fmt.Errorf("document failed structure validation")}
	}
	return nil
}
