// Package render produces CLI output for parse and validation results:
// pretty JSON for machine consumption and Markdown for terminal reading.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/schema"
)

// RenderJSON produces a pretty-printed JSON representation of v.
// The output round-trips through json.Unmarshal back to an equal value.
func RenderJSON(v any) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("render: nil value")
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: json marshal: %w", err)
	}
	return b, nil
}

// RenderLogMarkdown produces a Markdown summary of a classified log,
// suitable for terminal output. Every unit in the log appears in the table.
func RenderLogMarkdown(log *schema.ClassifiedLog) string {
	if log == nil {
		return ""
	}
	var sb strings.Builder

	sb.WriteString("## 日志解析结果\n\n")
	fmt.Fprintf(&sb, "**片段数:** %d  \n", len(log.Units))

	groups := log.Groups()
	var counts []string
	for _, cat := range schema.Categories {
		counts = append(counts, fmt.Sprintf("**%s:** %d", schema.CategoryLabels[cat], len(groups[cat])))
	}
	sb.WriteString(strings.Join(counts, " | "))
	sb.WriteString("\n\n")

	if len(log.Units) == 0 {
		return sb.String()
	}

	sb.WriteString("| # | 日期 | 类别 | 内容 |\n")
	sb.WriteString("|---|---|---|---|\n")
	for i, u := range log.Units {
		fmt.Fprintf(&sb, "| %d | %s | %s | %s |\n",
			i+1, u.SourceDate, schema.CategoryLabels[u.Category], mdEscape(u.RawText))
	}
	sb.WriteString("\n")

	return sb.String()
}

// kindLabels maps document kinds to the Chinese display names.
var kindLabels = map[schema.DocumentKind]string{
	schema.KindWeeklyReport: "周报",
	schema.KindOKR:          "OKR",
}

// RenderVerdictMarkdown produces a Markdown summary of a validation verdict.
// Missing sections and warnings each get their own list when present.
func RenderVerdictMarkdown(kind schema.DocumentKind, verdict *schema.ValidationVerdict) string {
	if verdict == nil {
		return ""
	}
	var sb strings.Builder

	sb.WriteString("## 结构校验结果\n\n")
	fmt.Fprintf(&sb, "**文档类型:** %s  \n", kindLabels[kind])
	conclusion := "未通过"
	if verdict.IsValid {
		conclusion = "通过"
	}
	fmt.Fprintf(&sb, "**结论:** %s  \n", conclusion)
	fmt.Fprintf(&sb, "**识别到的部分:** %d\n\n", verdict.SectionCountFound)

	if len(verdict.MissingSections) > 0 {
		sb.WriteString("### 缺失部分\n\n")
		for _, s := range verdict.MissingSections {
			fmt.Fprintf(&sb, "- %s\n", s)
		}
		sb.WriteString("\n")
	}

	if len(verdict.Warnings) > 0 {
		sb.WriteString("### 警告\n\n")
		for _, w := range verdict.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// mdEscape replaces characters that would break Markdown table cells.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}
