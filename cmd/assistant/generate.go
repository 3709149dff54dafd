package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/classify"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/config"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/dates"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/generate"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/logparse"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/render"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/schema"
)

type generateFlags struct {
	file       string
	configPath string
	kind       string
	mock       bool
	period     string
	format     string
	out        string
}

func newGenerateCmd() *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Generate a weekly report or OKR draft from a daily log",
		Long: "Reads a daily log from a file or stdin, classifies it, and produces a\n" +
			"structured draft. Without --mock the configured LLM backend is used;\n" +
			"when no backend is configured the deterministic mock fills in.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				f.file = args[0]
			}
			return runGenerate(cmd.Context(), f)
		},
	}
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to the YAML config file")
	cmd.Flags().StringVar(&f.kind, "kind", "weekly", "document kind: weekly or okr")
	cmd.Flags().BoolVar(&f.mock, "mock", false, "use the deterministic mock backend")
	cmd.Flags().StringVar(&f.period, "period", "", "period label, e.g. 2026第一季度 (defaults per kind)")
	cmd.Flags().StringVar(&f.format, "format", "text", "output format: text or json")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func runGenerate(ctx context.Context, f generateFlags) error {
	kind, err := parseKind(f.kind)
	if err != nil {
		return &exitError{code: exitCodeBadInput, err: err}
	}
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return &exitError{code: exitCodeBadInput, err: err}
	}
	text, err := readInput(f.file)
	if err != nil {
		return &exitError{code: exitCodeBadInput, err: err}
	}

	seg := logparse.Segmenter{MaxLen: cfg.Limits.MaxInputChars}
	frags, err := seg.Segment(text)
	if err != nil {
		return &exitError{code: exitCodeBadInput, err: err}
	}

	mode := schema.ModeLive
	if f.mock {
		mode = schema.ModeMock
	}
	req := schema.GenerationRequest{
		Kind:        kind,
		Mode:        mode,
		PeriodLabel: periodLabel(kind, f.period),
		Log:         classify.Classify(frags),
		RawText:     text,
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	res := generate.Document(ctx, req, generateOpts(cfg, logger))
	if !res.Success {
		return &exitError{code: exitCodeAPIError, err: fmt.Errorf("generation failed: %s", res.ErrorDetail)}
	}

	switch f.format {
	case "text":
		doc := strings.TrimRight(res.DocumentText, "\n") + "\n"
		return writeOutput(f.out, []byte(doc))
	case "json":
		b, err := render.RenderJSON(res)
		if err != nil {
			return err
		}
		return writeOutput(f.out, append(b, '\n'))
	default:
		return &exitError{code: exitCodeBadInput, err: fmt.Errorf("unknown format %q (want text or json)", f.format)}
	}
}

// periodLabel returns the explicit label, or the kind's natural default:
// the current Monday-Friday range for weekly reports, the next quarter for
// OKR drafts.
func periodLabel(kind schema.DocumentKind, explicit string) string {
	if explicit != "" {
		return explicit
	}
	now := time.Now()
	if kind == schema.KindOKR {
		return dates.NextQuarterLabel(now)
	}
	return dates.WeekLabel(dates.WeekRange(now))
}

// generateOpts maps the process configuration onto one generation call.
func generateOpts(cfg config.Config, logger *slog.Logger) generate.Options {
	return generate.Options{
		Provider:       cfg.LLM.ResolveProvider(),
		Model:          cfg.LLM.Model,
		APIKey:         cfg.LLM.APIKey,
		MaxTokens:      cfg.LLM.MaxTokens,
		Temperature:    cfg.LLM.Temperature,
		Timeout:        cfg.LLM.Timeout(),
		MaxOutputLen:   cfg.Limits.MaxOutputChars,
		LiveConfigured: cfg.IsLLMConfigured(),
		Logger:         logger,
	}
}
