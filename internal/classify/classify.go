// Package classify assigns each log fragment a semantic category using
// keyword heuristics.
package classify

import (
	"strings"

	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/logparse"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/schema"
)

type lexicon struct {
	category schema.Category
	phrases  []string
}

// lexicons are consulted in order; the first category with a matching phrase
// wins. Blockers outrank plans, plans outrank completed work, completed work
// outranks in-progress work, so a fragment mentioning both a blocker and a
// finished task surfaces as the blocker.
//
// Matching is substring-based: Chinese has no word boundaries, and the
// English phrases are long enough that substring hits are acceptable.
var lexicons = []lexicon{
	{schema.CategoryBlocker, []string{
		"阻塞", "被阻", "卡住", "卡在", "阻碍", "障碍", "问题", "故障",
		"风险", "延期", "推迟", "等待", "依赖", "缺少", "无法", "失败",
		"报错", "异常", "待解决", "待修复",
		"blocked", "blocker", "stuck", "waiting", "issue", "problem",
		"risk", "failed", "error",
	}},
	{schema.CategoryPlanned, []string{
		"计划", "下周", "下一步", "接下来", "准备", "打算", "待办",
		"安排", "预计", "下个月", "明天",
		"plan", "next week", "todo", "to do", "upcoming", "will ",
	}},
	{schema.CategoryCompleted, []string{
		"完成", "搞定", "上线", "发布", "交付", "解决", "修复", "合并",
		"落地", "结束",
		"done", "completed", "finished", "shipped", "released", "fixed",
		"merged", "resolved",
	}},
	{schema.CategoryInProgress, []string{
		"进行中", "正在", "开发中", "推进", "继续", "处理中", "进展",
		"排查", "优化中",
		"in progress", "ongoing", "working on", "wip", "continuing",
	}},
}

// Categorize returns the category for a single fragment of text, falling
// back to UNCATEGORIZED when no lexicon phrase matches. Matching is
// case-insensitive.
func Categorize(text string) schema.Category {
	t := strings.ToLower(text)
	for _, lex := range lexicons {
		for _, p := range lex.phrases {
			if strings.Contains(t, p) {
				return lex.category
			}
		}
	}
	return schema.CategoryUncategorized
}

// Classify converts segmented fragments into a ClassifiedLog. Each fragment
// is classified independently, in input order. The pass is total and never
// fails: unclassifiable text degrades to UNCATEGORIZED.
func Classify(frags []logparse.Fragment) schema.ClassifiedLog {
	units := make([]schema.LogUnit, 0, len(frags))
	for _, f := range frags {
		units = append(units, schema.LogUnit{
			SourceDate: f.Date,
			RawText:    f.Text,
			Category:   Categorize(f.Text),
		})
	}
	return schema.ClassifiedLog{Units: units}
}
