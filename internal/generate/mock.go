package generate

import (
	"fmt"
	"strings"

	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/schema"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/structure"
)

// emptyPlaceholder fills sections and key results that have no source
// material, keeping mock output valid under its own template.
const emptyPlaceholder = "暂无"

// okrObjectives fixes the objective themes mock OKR output arranges the log
// categories into. Objectives whose categories hold no units are skipped.
var okrObjectives = []struct {
	title      string
	categories []schema.Category
}{
	{"交付并沉淀本周期重点工作", []schema.Category{
		schema.CategoryCompleted,
		schema.CategoryInProgress,
		schema.CategoryUncategorized,
	}},
	{"解决影响进度的关键阻塞", []schema.Category{schema.CategoryBlocker}},
	{"落实下一阶段计划", []schema.Category{schema.CategoryPlanned}},
}

// Mock produces a document from the classified log by deterministic template
// filling: unit texts are arranged verbatim under the template's sections,
// with no paraphrasing and no external calls. Identical requests yield
// byte-identical output.
func Mock(req schema.GenerationRequest, tmpl structure.Template) string {
	if tmpl.Kind == schema.KindOKR {
		return mockOKR(req, tmpl)
	}
	return mockSections(req, tmpl)
}

func mockSections(req schema.GenerationRequest, tmpl structure.Template) string {
	var sb strings.Builder
	writeTitle(&sb, tmpl.Title, req.PeriodLabel)

	for _, sec := range tmpl.Sections {
		fmt.Fprintf(&sb, "\n## %s\n\n", sec.Header)
		n := 0
		for _, cat := range sec.Categories {
			for _, u := range req.Log.ByCategory(cat) {
				fmt.Fprintf(&sb, "- %s\n", indentContinuation(u.RawText))
				n++
			}
		}
		if n == 0 {
			fmt.Fprintf(&sb, "- %s\n", emptyPlaceholder)
		}
	}
	return sb.String()
}

func mockOKR(req schema.GenerationRequest, tmpl structure.Template) string {
	var sb strings.Builder
	writeTitle(&sb, tmpl.Title, req.PeriodLabel)

	numbered := 0
	for _, obj := range okrObjectives {
		var units []schema.LogUnit
		for _, cat := range obj.categories {
			units = append(units, req.Log.ByCategory(cat)...)
		}
		if len(units) == 0 {
			continue
		}
		numbered++
		fmt.Fprintf(&sb, "\n## 目标%d：%s\n\n", numbered, obj.title)
		for i, u := range units {
			fmt.Fprintf(&sb, "- KR%d：%s\n", i+1, flatten(u.RawText))
		}
	}

	// An empty log still yields a structurally valid document.
	if numbered == 0 {
		sb.WriteString("\n## 目标1：持续推进日常工作\n\n")
		fmt.Fprintf(&sb, "- KR1：%s\n", emptyPlaceholder)
	}
	return sb.String()
}

func writeTitle(sb *strings.Builder, title, periodLabel string) {
	if periodLabel != "" {
		fmt.Fprintf(sb, "# %s（%s）\n", title, periodLabel)
	} else {
		fmt.Fprintf(sb, "# %s\n", title)
	}
}

// indentContinuation keeps a multi-line fragment inside one list item.
func indentContinuation(s string) string {
	return strings.ReplaceAll(s, "\n", "\n  ")
}
