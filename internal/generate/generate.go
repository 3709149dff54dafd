// Package generate orchestrates document generation: it resolves the backend
// mode, builds prompts from the classified log and the structural template,
// dispatches a single backend call, and polices the output. Callers always
// receive a structured result; generation never raises past this package.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/llm"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/schema"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/structure"
)

// Defaults applied when an Options field is zero.
const (
	DefaultTimeout      = 60 * time.Second
	DefaultMaxTokens    = 2048
	DefaultTemperature  = 0.4
	DefaultMaxOutputLen = 20000
)

// Options configures a Document call.
type Options struct {
	Provider       string // live backend provider name: anthropic, openai, google
	Model          string
	APIKey         string // empty falls back to the provider's environment variable
	MaxTokens      int
	Temperature    *float64      // nil applies DefaultTemperature; 0 is a valid setting
	Timeout        time.Duration // bound on the live backend call
	MaxOutputLen   int           // sanity bound on document length, in characters
	LiveConfigured bool          // whether a live backend is available at all
	Logger         *slog.Logger  // defaults to slog.Default if nil
}

func (o *Options) applyDefaults() {
	if o.MaxTokens == 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Temperature == nil {
		t := DefaultTemperature
		o.Temperature = &t
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxOutputLen == 0 {
		o.MaxOutputLen = DefaultMaxOutputLen
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Document runs one generation pass for req. LIVE mode requires a configured
// backend; when none is available the request silently downgrades to MOCK,
// which is logged but never surfaced as a user-facing error. A live backend
// is invoked exactly once per request: failures, timeouts, empty output, and
// oversized output all return success=false with an error detail rather than
// retrying, so persistent misconfiguration stays visible to the caller.
func Document(ctx context.Context, req schema.GenerationRequest, opts Options) schema.GenerationResult {
	opts.applyDefaults()

	tmpl, err := structure.Load(req.Kind)
	if err != nil {
		return failure(req.Mode, fmt.Sprintf("%s: %v", schema.ErrBackendFailure, err))
	}

	mode := req.Mode
	if mode == "" {
		mode = schema.ModeMock
	}
	if mode == schema.ModeLive && !opts.LiveConfigured {
		opts.Logger.Info("live backend not configured, falling back to mock generation",
			"kind", string(req.Kind))
		mode = schema.ModeMock
	}

	if mode == schema.ModeMock {
		return schema.GenerationResult{
			Success:      true,
			DocumentText: Mock(req, tmpl),
			ModeUsed:     schema.ModeMock,
		}
	}

	return live(ctx, req, tmpl, opts)
}

func live(ctx context.Context, req schema.GenerationRequest, tmpl structure.Template, opts Options) schema.GenerationResult {
	provider, err := llm.NewProvider(opts.Provider, opts.Model, opts.APIKey)
	if err != nil {
		return failure(schema.ModeLive, fmt.Sprintf("%s: %v", schema.ErrBackendFailure, err))
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	raw, err := provider.Complete(ctx, buildSystemPrompt(tmpl), buildUserPrompt(req, tmpl), opts.MaxTokens, *opts.Temperature)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return failure(schema.ModeLive, fmt.Sprintf("%s: generation did not finish within %s", schema.ErrTimeout, opts.Timeout))
		}
		return failure(schema.ModeLive, fmt.Sprintf("%s: %v", schema.ErrBackendFailure, err))
	}

	text := strings.TrimSpace(llm.StripMarkdownFences(raw))
	if text == "" {
		return failure(schema.ModeLive, fmt.Sprintf("%s: backend returned empty output", schema.ErrBackendFailure))
	}
	if n := utf8.RuneCountInString(text); n > opts.MaxOutputLen {
		return failure(schema.ModeLive, fmt.Sprintf("%s: backend output is %d characters, limit %d", schema.ErrBackendFailure, n, opts.MaxOutputLen))
	}

	return schema.GenerationResult{
		Success:      true,
		DocumentText: text,
		ModeUsed:     schema.ModeLive,
	}
}

func failure(mode schema.Mode, detail string) schema.GenerationResult {
	return schema.GenerationResult{
		Success:     false,
		ErrorDetail: detail,
		ModeUsed:    mode,
	}
}

// buildSystemPrompt assembles the backend system prompt from the structural
// template, so generated output lines up with what the validator checks.
func buildSystemPrompt(tmpl structure.Template) string {
	var sb strings.Builder

	if tmpl.Kind == schema.KindOKR {
		sb.WriteString("你是一名经验丰富的 OKR 教练，负责把工作日志提炼成季度 OKR 规划。\n")
		sb.WriteString("输出必须是 Markdown，且满足以下结构要求：\n")
		sb.WriteString("- 至少包含一个目标，标题格式为「目标N：……」；\n")
		sb.WriteString("- 每个目标下至少一条关键结果，格式为「KRn：……」，关键结果必须可衡量；\n")
		sb.WriteString("- 只输出 OKR 正文，不要附加任何解释。\n")
		return sb.String()
	}

	sb.WriteString("你是一名资深的职场写作助手，负责把一周的工作日志整理成结构化周报。\n")
	sb.WriteString("输出必须是 Markdown，且包含以下部分，每个部分都要有内容，没有对应内容时写「暂无」：\n")
	for _, sec := range tmpl.Sections {
		fmt.Fprintf(&sb, "- %s\n", sec.Header)
	}
	sb.WriteString("只输出周报正文，不要附加任何解释。\n")
	return sb.String()
}

// buildUserPrompt assembles the backend user prompt from the classified log.
func buildUserPrompt(req schema.GenerationRequest, tmpl structure.Template) string {
	var sb strings.Builder

	sb.WriteString("以下是按类别整理好的工作日志：\n")
	groups := req.Log.Groups()
	for _, cat := range schema.Categories {
		units := groups[cat]
		if len(units) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n【%s】\n", schema.CategoryLabels[cat])
		for _, u := range units {
			if u.SourceDate != "" {
				fmt.Fprintf(&sb, "- （%s）%s\n", u.SourceDate, flatten(u.RawText))
			} else {
				fmt.Fprintf(&sb, "- %s\n", flatten(u.RawText))
			}
		}
	}

	if req.RawText != "" {
		sb.WriteString("\n原始日志全文：\n")
		sb.WriteString(req.RawText)
		sb.WriteString("\n")
	}

	if tmpl.Kind == schema.KindOKR {
		if req.PeriodLabel != "" {
			fmt.Fprintf(&sb, "\n请生成「%s」的 OKR 规划。", req.PeriodLabel)
		} else {
			sb.WriteString("\n请生成本季度的 OKR 规划。")
		}
		return sb.String()
	}

	if req.PeriodLabel != "" {
		fmt.Fprintf(&sb, "\n请生成「%s」的周报。", req.PeriodLabel)
	} else {
		sb.WriteString("\n请生成本周的周报。")
	}
	return sb.String()
}

// flatten joins a multi-line fragment into a single prompt line.
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
