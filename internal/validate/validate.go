// Package validate checks document text against the structural template for
// its kind. No generation backend is consulted here; the verdict is a pure
// function of the input text.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/logparse"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/schema"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/structure"
)

// Document validates text against the template for kind and returns an
// itemized verdict. Malformed documents are data, not errors: they yield
// is_valid=false with diagnostics. The only error case is an unknown kind.
//
// Weekly reports are valid when every required section header is present and
// each section carries non-empty body content; a present-but-empty section
// is reported in Warnings, not MissingSections, and still invalidates the
// document. OKR documents are valid when at least one objective block exists
// and every objective has at least one key-result line; an objective with no
// key results is identified in Warnings. Warnings that do not bear on those
// rules (e.g. a key result appearing before any objective) never flip
// validity on their own.
func Document(kind schema.DocumentKind, text string) (schema.ValidationVerdict, error) {
	tmpl, err := structure.Load(kind)
	if err != nil {
		return schema.ValidationVerdict{}, fmt.Errorf("validate: %w", err)
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	switch kind {
	case schema.KindWeeklyReport:
		return validateSections(tmpl, lines), nil
	case schema.KindOKR:
		return validateOKR(tmpl, lines), nil
	default:
		return schema.ValidationVerdict{}, fmt.Errorf("validate: unsupported document kind %q", kind)
	}
}

type headerHit struct {
	lineIdx int
	header  string // canonical section header
}

func validateSections(tmpl structure.Template, lines []string) schema.ValidationVerdict {
	verdict := schema.ValidationVerdict{
		MissingSections: []string{},
		Warnings:        []string{},
	}

	// First pass: locate every recognizable section header. Bullet lines are
	// body content even when their text reads like an accepted header
	// phrasing; heading markup, enumeration prefixes, and bare lines remain
	// recognized.
	var hits []headerHit
	headerLine := make(map[int]bool)
	for i, line := range lines {
		if logparse.IsBullet(line) {
			continue
		}
		n := normalizeHeader(line)
		if n == "" {
			continue
		}
		for _, sec := range tmpl.Sections {
			if matchesPhrase(n, sec.Accepts) {
				hits = append(hits, headerHit{lineIdx: i, header: sec.Header})
				headerLine[i] = true
				break
			}
		}
	}

	first := make(map[string]int)
	for _, h := range hits {
		if _, ok := first[h.header]; !ok {
			first[h.header] = h.lineIdx
		}
	}
	verdict.SectionCountFound = len(first)

	var emptyBody int
	for _, sec := range tmpl.Sections {
		idx, ok := first[sec.Header]
		if !ok {
			verdict.MissingSections = append(verdict.MissingSections, sec.Header)
			continue
		}
		// Body runs until the next recognized header of any section.
		end := len(lines)
		for _, h := range hits {
			if h.lineIdx > idx {
				end = h.lineIdx
				break
			}
		}
		if !hasContent(lines, idx+1, end, headerLine) {
			verdict.Warnings = append(verdict.Warnings, fmt.Sprintf("「%s」部分内容为空", sec.Header))
			emptyBody++
		}
	}

	verdict.IsValid = len(verdict.MissingSections) == 0 && emptyBody == 0
	return verdict
}

// hasContent reports whether lines[from:to] contains at least one line of
// real body text. Blank lines, decorator rules, and recognized headers do
// not count.
func hasContent(lines []string, from, to int, headerLine map[int]bool) bool {
	for j := from; j < to && j < len(lines); j++ {
		if headerLine[j] {
			continue
		}
		t := strings.TrimSpace(lines[j])
		if t == "" || logparse.IsDecorator(lines[j]) {
			continue
		}
		return true
	}
	return false
}

func validateOKR(tmpl structure.Template, lines []string) schema.ValidationVerdict {
	verdict := schema.ValidationVerdict{
		MissingSections: []string{},
		Warnings:        []string{},
	}

	type objective struct {
		title string
		krs   int
	}
	var objs []*objective
	orphanKR := false

	for _, line := range lines {
		n := normalizeHeader(line)
		if n == "" {
			continue
		}
		if isObjectiveLine(n, tmpl.ObjectiveMarkers) {
			objs = append(objs, &objective{title: displayTitle(line)})
			continue
		}
		if isKeyResultLine(n, tmpl.KeyResultMarkers) {
			if len(objs) == 0 {
				orphanKR = true
				continue
			}
			objs[len(objs)-1].krs++
		}
	}

	verdict.SectionCountFound = len(objs)

	if len(objs) == 0 {
		verdict.MissingSections = append(verdict.MissingSections, "目标")
		verdict.IsValid = false
		if orphanKR {
			verdict.Warnings = append(verdict.Warnings, "存在不属于任何目标的关键结果")
		}
		return verdict
	}

	valid := true
	for _, o := range objs {
		if o.krs == 0 {
			verdict.Warnings = append(verdict.Warnings, fmt.Sprintf("「%s」缺少关键结果", o.title))
			valid = false
		}
	}
	if orphanKR {
		verdict.Warnings = append(verdict.Warnings, "存在不属于任何目标的关键结果")
	}

	verdict.IsValid = valid
	return verdict
}

// displayTitle cleans a raw line for use in a diagnostic: markdown heading
// hashes and emphasis markers are dropped, the text itself is kept verbatim.
func displayTitle(line string) string {
	t := strings.TrimSpace(line)
	t = strings.TrimLeft(t, "#")
	t = strings.Trim(t, "*_")
	return strings.TrimSpace(t)
}

// normalizeHeader reduces a line to a comparable header form: markdown
// heading hashes, emphasis markers, list prefixes, and trailing colons are
// stripped, whitespace is collapsed, and the result is lowercased. Returns
// "" for lines with no text.
func normalizeHeader(line string) string {
	t := strings.TrimSpace(line)
	t = strings.TrimLeft(t, "#")
	t = strings.TrimSpace(t)
	t = logparse.StripListPrefix(t)
	t = stripCNEnum(t)
	t = strings.Trim(t, "*_")
	t = strings.TrimSpace(t)
	t = strings.TrimRight(t, "：:")
	t = strings.Trim(t, "*_")
	t = strings.TrimSpace(t)
	t = strings.ToLower(t)
	return strings.Join(strings.Fields(t), " ")
}

const cnNumerals = "一二三四五六七八九十"

// stripCNEnum removes a Chinese enumeration prefix such as "一、" or "二．".
func stripCNEnum(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError || !strings.ContainsRune(cnNumerals, first) {
		return s
	}
	rest := s[size:]
	sep, sepSize := utf8.DecodeRuneInString(rest)
	switch sep {
	case '、', '．', '.', ')', '）':
		return strings.TrimSpace(rest[sepSize:])
	}
	return s
}

// matchesPhrase reports whether a normalized line matches one of the
// accepted header phrasings: either exactly, or as a prefix followed by
// punctuation (so "本周工作总结（1.5-1.9）" still matches while ordinary body
// text starting with the same characters does not).
func matchesPhrase(normalized string, accepts []string) bool {
	for _, phrase := range accepts {
		p := strings.ToLower(phrase)
		if normalized == p {
			return true
		}
		if strings.HasPrefix(normalized, p) {
			r, _ := utf8.DecodeRuneInString(normalized[len(p):])
			if strings.ContainsRune("（(：:-—，,、 ", r) {
				return true
			}
		}
	}
	return false
}

// isObjectiveLine reports whether a normalized line opens an objective
// block. Single-letter markers ("o") require an immediately following digit
// so ordinary prose is not mistaken for an objective.
func isObjectiveLine(normalized string, markers []string) bool {
	for _, marker := range markers {
		if !strings.HasPrefix(normalized, marker) {
			continue
		}
		rest := normalized[len(marker):]
		if len(marker) == 1 {
			if rest != "" && rest[0] >= '0' && rest[0] <= '9' {
				return true
			}
			continue
		}
		if rest == "" {
			return true
		}
		r, _ := utf8.DecodeRuneInString(rest)
		if r >= '0' && r <= '9' || strings.ContainsRune(" ：:（(", r) || strings.ContainsRune(cnNumerals, r) {
			return true
		}
	}
	return false
}

// isKeyResultLine reports whether a normalized line is a key-result entry.
func isKeyResultLine(normalized string, markers []string) bool {
	for _, marker := range markers {
		if !strings.HasPrefix(normalized, marker) {
			continue
		}
		rest := normalized[len(marker):]
		if rest == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(rest)
		if r >= '0' && r <= '9' || strings.ContainsRune(" ：:．.-－", r) {
			return true
		}
	}
	return false
}
