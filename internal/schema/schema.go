// Package schema defines the canonical data types shared by the parsing,
// generation, and validation layers.
package schema

import "fmt"

// Category classifies one fragment of a daily log.
type Category string

const (
	CategoryCompleted     Category = "COMPLETED"
	CategoryInProgress    Category = "IN_PROGRESS"
	CategoryBlocker       Category = "BLOCKER"
	CategoryPlanned       Category = "PLANNED"
	CategoryUncategorized Category = "UNCATEGORIZED"
)

// Categories lists every category in classifier precedence order: when a
// fragment matches several lexicons, the earliest entry here wins.
var Categories = []Category{
	CategoryBlocker,
	CategoryPlanned,
	CategoryCompleted,
	CategoryInProgress,
	CategoryUncategorized,
}

// CategoryLabels maps categories to the Chinese display labels used in
// prompts and rendered output.
var CategoryLabels = map[Category]string{
	CategoryCompleted:     "已完成",
	CategoryInProgress:    "进行中",
	CategoryBlocker:       "遇到阻塞",
	CategoryPlanned:       "后续计划",
	CategoryUncategorized: "未分类",
}

// ParseCategory converts a string to a Category constant.
// Returns an error for unrecognized values.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryCompleted, CategoryInProgress, CategoryBlocker,
		CategoryPlanned, CategoryUncategorized:
		return Category(s), nil
	}
	return "", fmt.Errorf("schema: unknown category %q", s)
}

// DocumentKind selects the structural template a document must follow.
type DocumentKind string

const (
	KindWeeklyReport DocumentKind = "WEEKLY_REPORT"
	KindOKR          DocumentKind = "OKR"
)

// ParseDocumentKind converts a string to a DocumentKind constant.
// Returns an error for unrecognized values.
func ParseDocumentKind(s string) (DocumentKind, error) {
	switch DocumentKind(s) {
	case KindWeeklyReport, KindOKR:
		return DocumentKind(s), nil
	}
	return "", fmt.Errorf("schema: unknown document kind %q", s)
}

// Mode selects the generation backend.
type Mode string

const (
	ModeLive Mode = "LIVE"
	ModeMock Mode = "MOCK"
)

// ParseMode converts a string to a Mode constant.
// Returns an error for unrecognized values.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLive, ModeMock:
		return Mode(s), nil
	}
	return "", fmt.Errorf("schema: unknown mode %q", s)
}

// LogUnit is one classified fragment of a daily log. RawText holds the
// fragment verbatim; SourceDate is a YYYY-MM-DD day label inferred from the
// input, or empty when no date marker was detected. Units are created by the
// segment+classify pass and never mutated afterwards.
type LogUnit struct {
	SourceDate string   `json:"source_date,omitempty"`
	RawText    string   `json:"raw_text"`
	Category   Category `json:"category"`
}

// ClassifiedLog is the complete ordered classification of one parse pass.
// Every segmented fragment appears exactly once, UNCATEGORIZED included, so
// the union of the per-category views reconstructs the full unit sequence.
type ClassifiedLog struct {
	Units []LogUnit `json:"units"`
}

// ByCategory returns the units in category cat, preserving input order.
func (l *ClassifiedLog) ByCategory(cat Category) []LogUnit {
	var out []LogUnit
	for _, u := range l.Units {
		if u.Category == cat {
			out = append(out, u)
		}
	}
	return out
}

// Groups returns the per-category views keyed by category. Categories with
// no units map to empty (non-nil) slices so JSON output lists every bucket.
func (l *ClassifiedLog) Groups() map[Category][]LogUnit {
	groups := make(map[Category][]LogUnit, len(Categories))
	for _, cat := range Categories {
		groups[cat] = []LogUnit{}
	}
	for _, u := range l.Units {
		groups[u.Category] = append(groups[u.Category], u)
	}
	return groups
}

// GenerationRequest fully determines one generation pass. PeriodLabel names
// the covered period: the OKR target quarter (e.g. "2026第一季度") or the
// weekly Monday-Friday range; it may be empty. Two identical requests in
// MOCK mode yield byte-identical output; LIVE mode carries no such guarantee.
type GenerationRequest struct {
	Kind        DocumentKind
	Mode        Mode
	PeriodLabel string
	Log         ClassifiedLog
	RawText     string
}

// GenerationResult is the structured outcome of one generation pass.
// DocumentText is present iff Success; ErrorDetail is present iff not.
// ModeUsed records the backend that actually ran, which is MOCK whenever the
// live backend was unconfigured even if LIVE was requested.
type GenerationResult struct {
	Success      bool   `json:"success"`
	DocumentText string `json:"document_text,omitempty"`
	ErrorDetail  string `json:"error_detail,omitempty"`
	ModeUsed     Mode   `json:"mode_used"`
}

// Error detail prefixes carried in GenerationResult.ErrorDetail.
const (
	ErrBackendFailure = "BACKEND_FAILURE"
	ErrTimeout        = "TIMEOUT"
)

// ValidationVerdict reports whether a document satisfies the structural
// template for its kind. MissingSections lists required sections absent from
// the text; Warnings lists non-fatal structural issues such as a present
// section with an empty body. The verdict is a pure function of the input
// text: how the text was produced plays no part.
type ValidationVerdict struct {
	IsValid           bool     `json:"is_valid"`
	MissingSections   []string `json:"missing_sections"`
	Warnings          []string `json:"warnings"`
	SectionCountFound int      `json:"section_count_found"`
}
