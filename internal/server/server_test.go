package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/config"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/dates"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/store"
)

func testServer(t *testing.T, mutate func(*config.Config)) http.Handler {
	t.Helper()
	for _, k := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GOOGLE_API_KEY", "ASSISTANT_API_KEY"} {
		t.Setenv(k, "")
	}

	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	st.DB.SetMaxOpenConns(1)
	t.Cleanup(func() { st.Close() })

	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, st, slog.New(slog.DiscardHandler)).Router()
}

// do sends a request and decodes the JSON response body into a map.
func do(t *testing.T, h http.Handler, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: response is not JSON: %v\n%s", method, path, err, rec.Body.String())
	}
	return rec.Code, out
}

func TestHealth(t *testing.T) {
	h := testServer(t, nil)
	code, body := do(t, h, http.MethodGet, "/api/health", nil)

	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %v", body["status"])
	}
	if body["llm_configured"] != false {
		t.Errorf("llm_configured = %v, want false with no keys", body["llm_configured"])
	}
	if body["max_input_chars"] != float64(10000) {
		t.Errorf("max_input_chars = %v", body["max_input_chars"])
	}
}

func TestWeekRange(t *testing.T) {
	h := testServer(t, nil)
	code, body := do(t, h, http.MethodGet, "/api/week-range", nil)

	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	monday, err := time.Parse(dates.Layout, body["monday"].(string))
	if err != nil {
		t.Fatalf("monday: %v", err)
	}
	friday, err := time.Parse(dates.Layout, body["friday"].(string))
	if err != nil {
		t.Fatalf("friday: %v", err)
	}
	if monday.Weekday() != time.Monday {
		t.Errorf("monday is a %v", monday.Weekday())
	}
	if friday.Sub(monday) != 4*24*time.Hour {
		t.Errorf("range is %v", friday.Sub(monday))
	}
}

func TestParse(t *testing.T) {
	h := testServer(t, nil)
	code, body := do(t, h, http.MethodPost, "/api/parse", map[string]any{
		"content": "2026-01-05\n- 完成了登录模块联调\n- 等待运维开通数据库权限",
	})

	if code != http.StatusOK {
		t.Fatalf("status = %d: %v", code, body)
	}
	if body["success"] != true {
		t.Fatalf("success = %v", body["success"])
	}
	units := body["data"].(map[string]any)["units"].([]any)
	if len(units) != 2 {
		t.Fatalf("units: %v", units)
	}
	first := units[0].(map[string]any)
	if first["source_date"] != "2026-01-05" {
		t.Errorf("source_date = %v", first["source_date"])
	}
	if first["category"] != "COMPLETED" {
		t.Errorf("category = %v", first["category"])
	}
	second := units[1].(map[string]any)
	if second["category"] != "BLOCKER" {
		t.Errorf("category = %v", second["category"])
	}
}

func TestParseMissingContent(t *testing.T) {
	h := testServer(t, nil)
	code, body := do(t, h, http.MethodPost, "/api/parse", map[string]any{})

	if code != http.StatusBadRequest {
		t.Fatalf("status = %d", code)
	}
	if body["error"] != "缺少 content 字段" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestParseOversizedInput(t *testing.T) {
	h := testServer(t, func(c *config.Config) { c.Limits.MaxInputChars = 10 })
	code, body := do(t, h, http.MethodPost, "/api/parse", map[string]any{
		"content": strings.Repeat("很长的输入", 10),
	})

	if code != http.StatusBadRequest {
		t.Fatalf("status = %d: %v", code, body)
	}
	if !strings.Contains(body["error"].(string), "输入超过最大长度限制") {
		t.Errorf("error = %v", body["error"])
	}
}

func TestGenerateOversizedInput(t *testing.T) {
	h := testServer(t, func(c *config.Config) { c.Limits.MaxInputChars = 10 })
	code, body := do(t, h, http.MethodPost, "/api/generate/weekly-report", map[string]any{
		"content":  strings.Repeat("很长的输入", 10),
		"use_mock": true,
	})

	if code != http.StatusBadRequest {
		t.Fatalf("status = %d: %v", code, body)
	}
	if !strings.Contains(body["error"].(string), "输入超过最大长度限制") {
		t.Errorf("error = %v", body["error"])
	}
}

func TestGenerateWeeklyMock(t *testing.T) {
	h := testServer(t, nil)
	code, body := do(t, h, http.MethodPost, "/api/generate/weekly-report", map[string]any{
		"content":  "2026-01-05\n- 完成了登录模块联调\n- 计划下周开始压测",
		"use_mock": true,
	})

	if code != http.StatusOK {
		t.Fatalf("status = %d: %v", code, body)
	}
	if body["success"] != true || body["mode"] != "MOCK" {
		t.Fatalf("success=%v mode=%v", body["success"], body["mode"])
	}
	report := body["report"].(string)
	if !strings.Contains(report, "完成了登录模块联调") {
		t.Errorf("report missing unit text:\n%s", report)
	}
	validation := body["validation"].(map[string]any)
	if validation["is_valid"] != true {
		t.Errorf("generated report invalid: %v", validation)
	}
}

func TestGenerateWeeklyDowngradesWithoutBackend(t *testing.T) {
	h := testServer(t, nil)
	code, body := do(t, h, http.MethodPost, "/api/generate/weekly-report", map[string]any{
		"content": "- 完成了数据迁移",
	})

	if code != http.StatusOK {
		t.Fatalf("status = %d: %v", code, body)
	}
	if body["mode"] != "MOCK" {
		t.Errorf("mode = %v, want MOCK downgrade without API keys", body["mode"])
	}
}

func TestGenerateOKRMock(t *testing.T) {
	h := testServer(t, nil)
	code, body := do(t, h, http.MethodPost, "/api/generate/okr", map[string]any{
		"content":      "2026-01-05\n- 完成了核心服务上线\n- 正在推进性能优化",
		"next_quarter": "2026第二季度",
		"use_mock":     true,
	})

	if code != http.StatusOK {
		t.Fatalf("status = %d: %v", code, body)
	}
	okr := body["okr"].(string)
	if !strings.Contains(okr, "2026第二季度") {
		t.Errorf("okr missing period label:\n%s", okr)
	}
	if !strings.Contains(okr, "目标1") {
		t.Errorf("okr missing objective:\n%s", okr)
	}
	validation := body["validation"].(map[string]any)
	if validation["is_valid"] != true {
		t.Errorf("generated okr invalid: %v", validation)
	}
}

func TestValidateWeekly(t *testing.T) {
	h := testServer(t, nil)

	valid := "# 周报\n\n## 本周工作总结\n- 完成联调\n\n## 遇到的问题\n- 暂无\n\n## 下周工作计划\n- 压测"
	code, body := do(t, h, http.MethodPost, "/api/validate/weekly-report", map[string]any{"report": valid})
	if code != http.StatusOK {
		t.Fatalf("status = %d: %v", code, body)
	}
	validation := body["validation"].(map[string]any)
	if validation["is_valid"] != true {
		t.Errorf("valid report judged invalid: %v", validation)
	}

	code, body = do(t, h, http.MethodPost, "/api/validate/weekly-report", map[string]any{"report": "随便写点什么"})
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	validation = body["validation"].(map[string]any)
	if validation["is_valid"] != false {
		t.Errorf("invalid report judged valid: %v", validation)
	}
	if len(validation["missing_sections"].([]any)) != 3 {
		t.Errorf("missing_sections = %v", validation["missing_sections"])
	}
}

func TestValidateMissingField(t *testing.T) {
	h := testServer(t, nil)

	code, body := do(t, h, http.MethodPost, "/api/validate/weekly-report", map[string]any{})
	if code != http.StatusBadRequest || body["error"] != "缺少 report 字段" {
		t.Errorf("weekly: %d %v", code, body)
	}

	code, body = do(t, h, http.MethodPost, "/api/validate/okr", map[string]any{})
	if code != http.StatusBadRequest || body["error"] != "缺少 okr 字段" {
		t.Errorf("okr: %d %v", code, body)
	}
}

func TestDailyReportEndpoints(t *testing.T) {
	h := testServer(t, nil)

	code, body := do(t, h, http.MethodPost, "/api/daily-reports", map[string]any{
		"entry_date": "2026-01-05",
		"content":    "完成了登录模块联调",
	})
	if code != http.StatusOK || body["message"] != "日报保存成功" {
		t.Fatalf("save: %d %v", code, body)
	}

	code, body = do(t, h, http.MethodGet, "/api/daily-reports/2026-01-05", nil)
	if code != http.StatusOK {
		t.Fatalf("get: %d", code)
	}
	data := body["data"].(map[string]any)
	if data["content"] != "完成了登录模块联调" {
		t.Errorf("content = %v", data["content"])
	}

	// A date with no report returns success with null data.
	code, body = do(t, h, http.MethodGet, "/api/daily-reports/2026-01-06", nil)
	if code != http.StatusOK || body["success"] != true || body["data"] != nil {
		t.Errorf("missing get: %d %v", code, body)
	}

	code, body = do(t, h, http.MethodGet, "/api/daily-reports/range?start_date=2026-01-05&end_date=2026-01-09", nil)
	if code != http.StatusOK || len(body["data"].([]any)) != 1 {
		t.Errorf("range: %d %v", code, body)
	}

	code, _ = do(t, h, http.MethodGet, "/api/daily-reports/range", nil)
	if code != http.StatusBadRequest {
		t.Errorf("range without params: %d", code)
	}

	code, body = do(t, h, http.MethodGet, "/api/daily-reports/dates", nil)
	if code != http.StatusOK || len(body["data"].([]any)) != 1 {
		t.Errorf("dates: %d %v", code, body)
	}

	code, body = do(t, h, http.MethodDelete, "/api/daily-reports/2026-01-05", nil)
	if code != http.StatusOK || body["message"] != "日报删除成功" {
		t.Errorf("delete: %d %v", code, body)
	}
	code, _ = do(t, h, http.MethodDelete, "/api/daily-reports/2026-01-05", nil)
	if code != http.StatusNotFound {
		t.Errorf("second delete: %d", code)
	}
}

func TestWeeklyReportEndpoints(t *testing.T) {
	h := testServer(t, nil)

	code, body := do(t, h, http.MethodPost, "/api/weekly-reports", map[string]any{
		"start_date": "2026-01-05",
		"end_date":   "2026-01-09",
		"content":    "第一周周报",
	})
	if code != http.StatusOK || body["message"] != "周报保存成功" {
		t.Fatalf("save: %d %v", code, body)
	}

	code, body = do(t, h, http.MethodPost, "/api/weekly-reports", map[string]any{"content": "缺日期"})
	if code != http.StatusBadRequest || body["error"] != "缺少 start_date、end_date 或 content 字段" {
		t.Errorf("save missing fields: %d %v", code, body)
	}

	code, body = do(t, h, http.MethodGet, "/api/weekly-reports/query?start_date=2026-01-05&end_date=2026-01-09", nil)
	if code != http.StatusOK {
		t.Fatalf("query: %d", code)
	}
	if body["data"].(map[string]any)["content"] != "第一周周报" {
		t.Errorf("query data: %v", body["data"])
	}

	code, body = do(t, h, http.MethodGet, "/api/weekly-reports/latest", nil)
	if code != http.StatusOK || body["data"] == nil {
		t.Errorf("latest: %d %v", code, body)
	}

	code, body = do(t, h, http.MethodGet, "/api/weekly-reports", nil)
	if code != http.StatusOK || len(body["data"].([]any)) != 1 {
		t.Errorf("list: %d %v", code, body)
	}

	code, body = do(t, h, http.MethodGet, "/api/weekly-reports?start_date=2030-01-01", nil)
	if code != http.StatusOK || len(body["data"].([]any)) != 0 {
		t.Errorf("filtered list: %d %v", code, body)
	}

	code, _ = do(t, h, http.MethodDelete, "/api/weekly-reports?start_date=2026-01-05&end_date=2026-01-09", nil)
	if code != http.StatusOK {
		t.Errorf("delete: %d", code)
	}
	code, _ = do(t, h, http.MethodDelete, "/api/weekly-reports?start_date=2026-01-05&end_date=2026-01-09", nil)
	if code != http.StatusNotFound {
		t.Errorf("second delete: %d", code)
	}
}

func TestOKRReportEndpoints(t *testing.T) {
	h := testServer(t, nil)

	code, body := do(t, h, http.MethodPost, "/api/okr-reports", map[string]any{
		"creation_date": "2026-01-10",
		"content":       "一季度 OKR",
	})
	if code != http.StatusOK || body["message"] != "OKR保存成功" {
		t.Fatalf("save: %d %v", code, body)
	}

	code, body = do(t, h, http.MethodGet, "/api/okr-reports/2026-01-10", nil)
	if code != http.StatusOK || body["data"].(map[string]any)["content"] != "一季度 OKR" {
		t.Errorf("get: %d %v", code, body)
	}

	code, body = do(t, h, http.MethodGet, "/api/okr-reports/latest", nil)
	if code != http.StatusOK || body["data"] == nil {
		t.Errorf("latest: %d %v", code, body)
	}

	code, body = do(t, h, http.MethodGet, "/api/okr-reports", nil)
	if code != http.StatusOK || len(body["data"].([]any)) != 1 {
		t.Errorf("list: %d %v", code, body)
	}

	code, body = do(t, h, http.MethodDelete, "/api/okr-reports/2026-01-10", nil)
	if code != http.StatusOK || body["message"] != "OKR删除成功" {
		t.Errorf("delete: %d %v", code, body)
	}
	code, _ = do(t, h, http.MethodDelete, "/api/okr-reports/2026-01-10", nil)
	if code != http.StatusNotFound {
		t.Errorf("second delete: %d", code)
	}
}

func TestTodoEndpoints(t *testing.T) {
	h := testServer(t, nil)

	code, body := do(t, h, http.MethodPost, "/api/todo-items", map[string]any{"content": "  准备周会材料  "})
	if code != http.StatusOK {
		t.Fatalf("create: %d %v", code, body)
	}
	item := body["data"].(map[string]any)
	if item["content"] != "准备周会材料" {
		t.Errorf("content not trimmed: %v", item["content"])
	}
	if item["completed"] != false {
		t.Errorf("completed = %v", item["completed"])
	}
	path := fmt.Sprintf("/api/todo-items/%.0f", item["id"].(float64))

	code, body = do(t, h, http.MethodPost, "/api/todo-items", map[string]any{"content": "   "})
	if code != http.StatusBadRequest || body["error"] != "内容不能为空" {
		t.Errorf("blank create: %d %v", code, body)
	}

	code, body = do(t, h, http.MethodGet, "/api/todo-items", nil)
	if code != http.StatusOK || len(body["data"].([]any)) != 1 {
		t.Errorf("list: %d %v", code, body)
	}

	code, body = do(t, h, http.MethodPut, path, map[string]any{"completed": true})
	if code != http.StatusOK {
		t.Fatalf("update: %d %v", code, body)
	}
	if body["data"].(map[string]any)["completed"] != true {
		t.Errorf("update result: %v", body["data"])
	}

	code, body = do(t, h, http.MethodPut, "/api/todo-items/999", map[string]any{"completed": true})
	if code != http.StatusNotFound || body["error"] != "更新失败或项目不存在" {
		t.Errorf("update missing: %d %v", code, body)
	}

	code, _ = do(t, h, http.MethodPut, "/api/todo-items/abc", map[string]any{"completed": true})
	if code != http.StatusBadRequest {
		t.Errorf("update bad id: %d", code)
	}

	code, body = do(t, h, http.MethodDelete, path, nil)
	if code != http.StatusOK || body["message"] != "TODO项删除成功" {
		t.Errorf("delete: %d %v", code, body)
	}
	code, _ = do(t, h, http.MethodDelete, path, nil)
	if code != http.StatusNotFound {
		t.Errorf("second delete: %d", code)
	}
}

func TestCORSHeaders(t *testing.T) {
	h := testServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("preflight status = %d", rec.Code)
	}
}

func TestNotFoundIsJSON(t *testing.T) {
	h := testServer(t, nil)
	code, body := do(t, h, http.MethodGet, "/api/nope", nil)
	if code != http.StatusNotFound || body["error"] != "Not found" {
		t.Errorf("%d %v", code, body)
	}
}
