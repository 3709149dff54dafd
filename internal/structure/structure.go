// Package structure defines the structural templates that generated and
// validated documents must follow. Templates are static configuration,
// loaded at process start and read-only afterwards.
package structure

import (
	"fmt"

	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/schema"
)

// Section is one required section of a document template. The canonical
// Header doubles as the section's identifier in validation verdicts; Accepts
// lists the alternative header phrasings the validator tolerates (the
// canonical header included). Categories names the log categories the mock
// generator arranges under this section.
type Section struct {
	Header     string
	Accepts    []string
	Categories []schema.Category
}

// Template is the structural contract for one document kind. Weekly reports
// are section-based; OKR documents are block-based, driven by the objective
// and key-result markers instead of fixed sections.
type Template struct {
	Kind             schema.DocumentKind
	Version          string
	Title            string
	Sections         []Section
	ObjectiveMarkers []string
	KeyResultMarkers []string
}

// builtins is the registry of templates keyed by document kind.
var builtins = map[schema.DocumentKind]Template{
	schema.KindWeeklyReport: {
		Kind:    schema.KindWeeklyReport,
		Version: "v1",
		Title:   "周报",
		Sections: []Section{
			{
				Header: "本周工作总结",
				Accepts: []string{
					"本周工作总结", "本周总结", "工作总结", "本周工作内容", "本周完成工作",
				},
				Categories: []schema.Category{
					schema.CategoryCompleted,
					schema.CategoryInProgress,
					schema.CategoryUncategorized,
				},
			},
			{
				Header: "遇到的问题",
				Accepts: []string{
					"遇到的问题", "问题与风险", "存在的问题", "遇到的困难", "问题和困难", "本周问题",
				},
				Categories: []schema.Category{schema.CategoryBlocker},
			},
			{
				Header: "下周工作计划",
				Accepts: []string{
					"下周工作计划", "下周计划", "后续计划", "下一步计划", "下周安排",
				},
				Categories: []schema.Category{schema.CategoryPlanned},
			},
		},
	},
	schema.KindOKR: {
		Kind:             schema.KindOKR,
		Version:          "v1",
		Title:            "OKR 规划",
		ObjectiveMarkers: []string{"目标", "objective", "o"},
		KeyResultMarkers: []string{"kr", "关键结果", "关键成果", "key result"},
	},
}

// Load returns the template for kind or an error if the kind is unknown.
func Load(kind schema.DocumentKind) (Template, error) {
	t, ok := builtins[kind]
	if !ok {
		return Template{}, fmt.Errorf("structure: unknown document kind %q (available: WEEKLY_REPORT, OKR)", kind)
	}
	return t, nil
}
