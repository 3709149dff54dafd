// Package logparse segments free-text daily work logs into discrete dated
// fragments ready for classification.
package logparse

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultMaxInputLen is the input bound, in characters, applied when a
// Segmenter does not set its own.
const DefaultMaxInputLen = 10000

// ErrInputTooLarge is returned when the input exceeds the configured bound.
// The check runs before any segmentation work.
var ErrInputTooLarge = errors.New("input too large")

// CheckSize reports ErrInputTooLarge when text exceeds limit characters.
// A limit of 0 means DefaultMaxInputLen. The count is in runes, not bytes,
// so Chinese text gets the same character budget as ASCII. Callers that
// bound input before doing anything else use this directly.
func CheckSize(text string, limit int) error {
	if limit == 0 {
		limit = DefaultMaxInputLen
	}
	if n := utf8.RuneCountInString(text); n > limit {
		return fmt.Errorf("logparse: input is %d characters, limit %d: %w", n, limit, ErrInputTooLarge)
	}
	return nil
}

// Fragment is a discrete piece of a daily log. Date is the YYYY-MM-DD label
// of the day marker the fragment appeared under, or empty when the input had
// no date markers.
type Fragment struct {
	Date      string
	LineStart int
	LineEnd   int
	Text      string
}

// DayMarker is a date token recognized at the start of a line. Year is 0 when
// the token carried no year (e.g. "1月5日").
type DayMarker struct {
	Year  int
	Month int
	Day   int
}

// DetectDateFn recognizes a day-marker line. It returns the marker, any
// trailing content on the same line after the marker, and whether the line
// is a marker at all.
type DetectDateFn func(line string) (DayMarker, string, bool)

// Segmenter splits raw log text into fragments.
type Segmenter struct {
	MaxLen      int          // input bound in characters; 0 means DefaultMaxInputLen
	DefaultYear int          // year for markers without one; 0 means the current year
	DetectDate  DetectDateFn // defaults to DetectDayMarker if nil
}

// ParseFile reads the file at path and segments it using s.
func (s Segmenter) ParseFile(path string) ([]Fragment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("logparse: open %s: %w", path, err)
	}
	defer f.Close()
	return s.ParseReader(f)
}

// ParseReader reads all of r and segments it using s.
// This enables feeding stdin without requiring files on disk.
func (s Segmenter) ParseReader(r io.Reader) ([]Fragment, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("logparse: read: %w", err)
	}
	return s.Segment(string(b))
}

// Segment splits text into fragments. Day-marker lines are the primary
// boundary: each marker starts a new day context and every fragment under it
// carries that day's date. Blank lines, bullet lines, and numbered lines
// also start new fragments; input with no markers at all degrades to plain
// paragraph splitting with empty dates. Whitespace-only fragments are
// dropped.
//
// Segmentation is idempotent: joining the returned fragment texts with blank
// lines and segmenting again reproduces the same fragment texts. List
// prefixes are stripped unless the item text would then read as a day
// marker, and no emitted text retains a boundary line.
func (s Segmenter) Segment(text string) ([]Fragment, error) {
	if err := CheckSize(text, s.MaxLen); err != nil {
		return nil, err
	}

	detect := s.DetectDate
	if detect == nil {
		detect = DetectDayMarker
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var fragments []Fragment

	type pending struct {
		date      string
		lineStart int
		lineEnd   int // last consumed line (1-indexed), updated as lines are added
		listItem  bool
		buf       []string
	}

	addLine := func(p *pending, lineNum int, text string) {
		p.buf = append(p.buf, text)
		if lineNum > p.lineEnd {
			p.lineEnd = lineNum
		}
	}

	flush := func(p *pending) {
		if p == nil {
			return
		}
		text := strings.TrimSpace(strings.Join(p.buf, "\n"))
		if text == "" {
			return
		}
		fragments = append(fragments, Fragment{
			Date:      p.date,
			LineStart: p.lineStart,
			LineEnd:   p.lineEnd,
			Text:      text,
		})
	}

	var cur *pending
	curDate := ""
	// openFence is non-empty while inside a fenced code block. Fence content,
	// blank lines included, belongs to the current fragment so pasted code is
	// never split apart or mistaken for day markers.
	var openFence string

	for i, line := range lines {
		lineNum := i + 1 // 1-indexed

		fp := fencePrefix(line)
		if openFence != "" {
			if cur == nil {
				cur = &pending{date: curDate, lineStart: lineNum, lineEnd: lineNum}
			}
			addLine(cur, lineNum, line)
			if isClosingFence(line, openFence) {
				openFence = ""
			}
			continue
		}
		if fp != "" {
			if cur == nil {
				cur = &pending{date: curDate, lineStart: lineNum, lineEnd: lineNum}
			}
			openFence = fp
			addLine(cur, lineNum, line)
			continue
		}

		// Day marker. Content trailing the marker on the same line starts the
		// day's first fragment.
		if marker, rest, ok := detect(line); ok {
			flush(cur)
			cur = nil
			curDate = fmt.Sprintf("%04d-%02d-%02d", s.resolveYear(marker), marker.Month, marker.Day)
			if rest != "" {
				cur = &pending{date: curDate, lineStart: lineNum, lineEnd: lineNum}
				addLine(cur, lineNum, rest)
			}
			continue
		}

		if strings.TrimSpace(line) == "" {
			flush(cur)
			cur = nil
			continue
		}

		// Headings that are not day markers are structural noise, not work
		// items. Flush and drop.
		if IsHeading(line) {
			flush(cur)
			cur = nil
			continue
		}

		// Horizontal rule / decorator. Flush and drop.
		if IsDecorator(line) {
			flush(cur)
			cur = nil
			continue
		}

		// A bullet or numbered line starts a new fragment regardless of
		// indentation, so each listed work item classifies on its own. When
		// the stripped item text would itself read as a day marker, the list
		// prefix is kept so a second pass over the emitted text reproduces
		// the same boundaries.
		if IsBullet(line) || IsNumberedItem(line) {
			flush(cur)
			cur = &pending{date: curDate, lineStart: lineNum, lineEnd: lineNum, listItem: true}
			item := StripListPrefix(line)
			if _, _, ok := detect(item); ok {
				item = strings.TrimSpace(line)
			}
			addLine(cur, lineNum, item)
			continue
		}

		// Plain text. A non-indented line after a list item is a new thought,
		// not a lazy continuation; indented lines continue the item.
		if cur != nil && cur.listItem && !IsIndented(line) {
			flush(cur)
			cur = nil
		}
		if cur == nil {
			cur = &pending{date: curDate, lineStart: lineNum, lineEnd: lineNum}
		}
		addLine(cur, lineNum, strings.TrimSpace(line))
	}

	// An unclosed fence at end of input flushes as part of the enclosing
	// fragment rather than being discarded.
	flush(cur)

	return fragments, nil
}

func (s Segmenter) resolveYear(m DayMarker) int {
	if m.Year != 0 {
		return m.Year
	}
	if s.DefaultYear != 0 {
		return s.DefaultYear
	}
	return time.Now().Year()
}

var (
	// 2026-01-05, 2026/1/5, 2026.01.05
	isoDateRe = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})`)
	// 1月5日, 2026年1月5日
	cnDateRe = regexp.MustCompile(`^(?:(\d{4})年)?(\d{1,2})月(\d{1,2})日`)
	// 周一..周日, 星期一..星期天, optionally parenthesized
	weekdayRe = regexp.MustCompile(`^[（(]?(?:周|星期)[一二三四五六日天][）)]?`)
)

// DetectDayMarker recognizes a day-marker line in any of the project's
// day-label conventions: "2026-01-05", "2026/1/5", "2026.01.05", "1月5日",
// "2026年1月5日", each optionally followed by a weekday ("周一", "星期三",
// parenthesized or not) and an optional colon. The marker may sit inside an
// ATX heading ("# 2026-01-05"). Returns the parsed marker and any content
// after it on the same line.
func DetectDayMarker(line string) (DayMarker, string, bool) {
	t := strings.TrimSpace(line)

	// Allow "# 2026-01-05" style date headings.
	if strings.HasPrefix(t, "#") {
		t = strings.TrimLeft(t, "#")
		t = strings.TrimLeft(t, " \t")
	}

	var m DayMarker
	var matched string
	if sub := isoDateRe.FindStringSubmatch(t); sub != nil {
		m.Year = atoi(sub[1])
		m.Month = atoi(sub[2])
		m.Day = atoi(sub[3])
		matched = sub[0]
	} else if sub := cnDateRe.FindStringSubmatch(t); sub != nil {
		if sub[1] != "" {
			m.Year = atoi(sub[1])
		}
		m.Month = atoi(sub[2])
		m.Day = atoi(sub[3])
		matched = sub[0]
	} else {
		return DayMarker{}, "", false
	}

	if m.Month < 1 || m.Month > 12 || m.Day < 1 || m.Day > 31 {
		return DayMarker{}, "", false
	}

	rest := t[len(matched):]
	// A digit immediately after the date token means the token was a prefix
	// of something longer, not a day marker.
	if rest != "" && rest[0] >= '0' && rest[0] <= '9' {
		return DayMarker{}, "", false
	}
	rest = strings.TrimLeft(rest, " \t")
	if wd := weekdayRe.FindString(rest); wd != "" {
		rest = strings.TrimLeft(rest[len(wd):], " \t")
	}
	rest = strings.TrimPrefix(rest, "：")
	rest = strings.TrimPrefix(rest, ":")
	return m, strings.TrimSpace(rest), true
}

// atoi converts a digits-only string already vetted by a regexp.
func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}

// fencePrefix returns the opening fence string (e.g. "```" or "~~~~") if line
// starts a fenced code block, otherwise returns "".
// CommonMark allows up to 3 leading spaces before the fence marker; 4 or more
// means an indented code block, not a fence.
func fencePrefix(line string) string {
	leading := 0
	for leading < len(line) && line[leading] == ' ' {
		leading++
	}
	if leading >= 4 {
		return ""
	}
	stripped := line[leading:]
	for _, marker := range []byte{'`', '~'} {
		if len(stripped) < 3 || stripped[0] != marker {
			continue
		}
		count := 0
		for count < len(stripped) && stripped[count] == marker {
			count++
		}
		if count >= 3 {
			return stripped[:count]
		}
	}
	return ""
}

// isClosingFence returns true if line is a valid closing fence for openFence:
// same fence character, at least as long, and nothing but optional trailing
// spaces after the markers.
func isClosingFence(line, openFence string) bool {
	if len(openFence) == 0 {
		return false
	}
	fp := fencePrefix(line)
	if fp == "" || fp[0] != openFence[0] || len(fp) < len(openFence) {
		return false
	}
	leading := 0
	for leading < len(line) && line[leading] == ' ' {
		leading++
	}
	rest := strings.TrimLeft(line[leading+len(fp):], " ")
	return rest == ""
}

// IsBullet returns true for lines starting with "- ", "* ", or "• " (after
// trim). '•' is U+2022 BULLET (3 bytes in UTF-8); strings.HasPrefix operates
// on bytes so the comparison is correct.
func IsBullet(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "- ") ||
		strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "• ")
}

// IsIndented returns true for lines with a leading tab or at least two spaces.
func IsIndented(line string) bool {
	return strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "\t")
}

// IsNumberedItem returns true for lines starting with "N. " or "N) " (space
// required) or the Chinese list forms "N、" and "N）" (no space required),
// where N is one or more decimal digits.
func IsNumberedItem(line string) bool {
	t := strings.TrimSpace(line)
	i := 0
	for i < len(t) && t[i] >= '0' && t[i] <= '9' {
		i++
	}
	if i == 0 {
		return false
	}
	r, size := utf8.DecodeRuneInString(t[i:])
	switch r {
	case '.', ')':
		return i+size < len(t) && t[i+size] == ' '
	case '、', '）', '．':
		return len(t) > i+size
	}
	return false
}

// IsHeading returns true for ATX Markdown headings (# through ######).
// A space immediately after the hashes is required. Lines with 4 or more
// leading spaces are indented code blocks, not headings.
func IsHeading(line string) bool {
	leading := 0
	for leading < len(line) && line[leading] == ' ' {
		leading++
	}
	if leading >= 4 {
		return false
	}
	t := strings.TrimSpace(line)
	hashes := strings.IndexFunc(t, func(r rune) bool { return r != '#' })
	return hashes > 0 && hashes <= 6 && len(t) > hashes && t[hashes] == ' '
}

// IsDecorator returns true for lines composed entirely of the same separator
// character repeated at least 3 times. Supported separators: - = * _ ⸻ —
func IsDecorator(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}
	var first rune
	count := 0
	for _, ch := range trimmed {
		if count == 0 {
			first = ch
		}
		if ch != first {
			return false
		}
		count++
	}
	if first != '-' && first != '=' && first != '*' && first != '_' && first != '⸻' && first != '—' {
		return false
	}
	return count >= 3
}

// StripListPrefix removes a bullet or numbered-list prefix ("- ", "* ", "• ",
// "N. ", "N) ", "N、", "N）", "N．") from the start of a line. Returns the
// trimmed text unchanged if no known prefix is found.
func StripListPrefix(line string) string {
	trimmed := strings.TrimSpace(line)
	i := 0
	for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}
	if i > 0 {
		r, size := utf8.DecodeRuneInString(trimmed[i:])
		switch r {
		case '.', ')':
			if i+size < len(trimmed) && trimmed[i+size] == ' ' {
				return strings.TrimSpace(trimmed[i+size:])
			}
		case '、', '）', '．':
			return strings.TrimSpace(trimmed[i+size:])
		}
	}
	for _, pfx := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(trimmed, pfx) {
			return strings.TrimSpace(trimmed[len(pfx):])
		}
	}
	return trimmed
}
