package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/schema"
)

func TestClassifiedLog_JSONRoundTrip(t *testing.T) {
	original := &schema.ClassifiedLog{
		Units: []schema.LogUnit{
			{SourceDate: "2026-01-05", RawText: "完成了登录模块联调", Category: schema.CategoryCompleted},
			{SourceDate: "2026-01-05", RawText: "等待运维开通数据库权限", Category: schema.CategoryBlocker},
			{SourceDate: "2026-01-06", RawText: "正在重构订单服务", Category: schema.CategoryInProgress},
			{RawText: "随手记的一句话", Category: schema.CategoryUncategorized},
		},
	}

	b, err := json.MarshalIndent(original, "", "  ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got schema.ClassifiedLog
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(got.Units) != len(original.Units) {
		t.Fatalf("unit count mismatch: %d vs %d", len(got.Units), len(original.Units))
	}
	for i, u := range got.Units {
		if u != original.Units[i] {
			t.Errorf("unit %d mismatch: %+v vs %+v", i, u, original.Units[i])
		}
	}
	if got.Units[3].SourceDate != "" {
		t.Errorf("unit 3 SourceDate = %q, want empty", got.Units[3].SourceDate)
	}
}

func TestClassifiedLog_ByCategory(t *testing.T) {
	log := &schema.ClassifiedLog{
		Units: []schema.LogUnit{
			{RawText: "a", Category: schema.CategoryCompleted},
			{RawText: "b", Category: schema.CategoryBlocker},
			{RawText: "c", Category: schema.CategoryCompleted},
		},
	}

	done := log.ByCategory(schema.CategoryCompleted)
	if len(done) != 2 || done[0].RawText != "a" || done[1].RawText != "c" {
		t.Errorf("ByCategory(COMPLETED) = %+v, want [a c] in input order", done)
	}
	if got := log.ByCategory(schema.CategoryPlanned); len(got) != 0 {
		t.Errorf("ByCategory(PLANNED) = %+v, want empty", got)
	}
}

func TestClassifiedLog_Groups_AllBucketsPresent(t *testing.T) {
	log := &schema.ClassifiedLog{
		Units: []schema.LogUnit{
			{RawText: "a", Category: schema.CategoryCompleted},
		},
	}

	groups := log.Groups()
	if len(groups) != len(schema.Categories) {
		t.Fatalf("Groups() has %d buckets, want %d", len(groups), len(schema.Categories))
	}
	for _, cat := range schema.Categories {
		units, ok := groups[cat]
		if !ok {
			t.Errorf("Groups() missing bucket %q", cat)
			continue
		}
		if units == nil {
			t.Errorf("Groups()[%q] is nil, want empty slice", cat)
		}
	}
	if len(groups[schema.CategoryCompleted]) != 1 {
		t.Errorf("Groups()[COMPLETED] has %d units, want 1", len(groups[schema.CategoryCompleted]))
	}

	// Every unit lands in exactly one bucket.
	total := 0
	for _, units := range groups {
		total += len(units)
	}
	if total != len(log.Units) {
		t.Errorf("Groups() holds %d units total, want %d", total, len(log.Units))
	}
}

func TestGenerationResult_JSONShape(t *testing.T) {
	ok := schema.GenerationResult{
		Success:      true,
		DocumentText: "# 周报",
		ModeUsed:     schema.ModeMock,
	}
	b, err := json.Marshal(ok)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := m["error_detail"]; present {
		t.Errorf("successful result serialized error_detail: %s", b)
	}

	failed := schema.GenerationResult{
		Success:     false,
		ErrorDetail: schema.ErrTimeout + ": generation exceeded deadline",
		ModeUsed:    schema.ModeLive,
	}
	b, err = json.Marshal(failed)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	m = nil
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := m["document_text"]; present {
		t.Errorf("failed result serialized document_text: %s", b)
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    schema.Category
		wantErr bool
	}{
		{"COMPLETED", schema.CategoryCompleted, false},
		{"IN_PROGRESS", schema.CategoryInProgress, false},
		{"BLOCKER", schema.CategoryBlocker, false},
		{"PLANNED", schema.CategoryPlanned, false},
		{"UNCATEGORIZED", schema.CategoryUncategorized, false},
		{"completed", "", true},
		{"DONE", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		got, err := schema.ParseCategory(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseCategory(%q) = %q, want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCategory(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseDocumentKind(t *testing.T) {
	tests := []struct {
		in      string
		want    schema.DocumentKind
		wantErr bool
	}{
		{"WEEKLY_REPORT", schema.KindWeeklyReport, false},
		{"OKR", schema.KindOKR, false},
		{"okr", "", true},
		{"WEEKLY", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		got, err := schema.ParseDocumentKind(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDocumentKind(%q) = %q, want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDocumentKind(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDocumentKind(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    schema.Mode
		wantErr bool
	}{
		{"LIVE", schema.ModeLive, false},
		{"MOCK", schema.ModeMock, false},
		{"live", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		got, err := schema.ParseMode(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q) = %q, want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMode(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEnumValues_Serialize(t *testing.T) {
	// Verify all enum constants serialize to the expected string values.
	categories := []struct {
		c    schema.Category
		want string
	}{
		{schema.CategoryCompleted, "COMPLETED"},
		{schema.CategoryInProgress, "IN_PROGRESS"},
		{schema.CategoryBlocker, "BLOCKER"},
		{schema.CategoryPlanned, "PLANNED"},
		{schema.CategoryUncategorized, "UNCATEGORIZED"},
	}
	for _, tc := range categories {
		b, _ := json.Marshal(tc.c)
		if string(b) != `"`+tc.want+`"` {
			t.Errorf("Category %q serialized to %s, want %q", tc.c, b, tc.want)
		}
	}

	kinds := []struct {
		k    schema.DocumentKind
		want string
	}{
		{schema.KindWeeklyReport, "WEEKLY_REPORT"},
		{schema.KindOKR, "OKR"},
	}
	for _, tc := range kinds {
		b, _ := json.Marshal(tc.k)
		if string(b) != `"`+tc.want+`"` {
			t.Errorf("DocumentKind %q serialized to %s, want %q", tc.k, b, tc.want)
		}
	}

	modes := []struct {
		m    schema.Mode
		want string
	}{
		{schema.ModeLive, "LIVE"},
		{schema.ModeMock, "MOCK"},
	}
	for _, tc := range modes {
		b, _ := json.Marshal(tc.m)
		if string(b) != `"`+tc.want+`"` {
			t.Errorf("Mode %q serialized to %s, want %q", tc.m, b, tc.want)
		}
	}
}
