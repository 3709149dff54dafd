package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/classify"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/dates"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/generate"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/logparse"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/schema"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/validate"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "healthy",
		"llm_configured":  s.cfg.IsLLMConfigured(),
		"max_input_chars": s.cfg.Limits.MaxInputChars,
	})
}

func (s *Server) handleWeekRange(w http.ResponseWriter, r *http.Request) {
	monday, friday := dates.CurrentWeekRange()
	writeJSON(w, http.StatusOK, map[string]any{
		"monday": dates.Format(monday),
		"friday": dates.Format(friday),
	})
}

// classifyContent runs the size check, segmentation and classification
// shared by the parse and generate endpoints. It reports false after writing
// the error response.
func (s *Server) classifyContent(w http.ResponseWriter, content string) (schema.ClassifiedLog, bool) {
	if err := logparse.CheckSize(content, s.cfg.Limits.MaxInputChars); err != nil {
		fail(w, http.StatusBadRequest,
			fmt.Sprintf("输入超过最大长度限制 (%d 字符)", s.cfg.Limits.MaxInputChars))
		return schema.ClassifiedLog{}, false
	}

	frags, err := s.segmenter().Segment(content)
	if err != nil {
		// Size was checked above, so any error here is unexpected.
		if errors.Is(err, logparse.ErrInputTooLarge) {
			fail(w, http.StatusBadRequest,
				fmt.Sprintf("输入超过最大长度限制 (%d 字符)", s.cfg.Limits.MaxInputChars))
		} else {
			s.logger.Error("segment failed", "error", err)
			fail(w, http.StatusInternalServerError, "解析失败")
		}
		return schema.ClassifiedLog{}, false
	}

	return classify.Classify(frags), true
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content *string `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Content == nil {
		fail(w, http.StatusBadRequest, "缺少 content 字段")
		return
	}

	log, ok := s.classifyContent(w, *req.Content)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    log,
	})
}

func (s *Server) handleGenerateWeekly(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content *string `json:"content"`
		UseMock bool    `json:"use_mock"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Content == nil {
		fail(w, http.StatusBadRequest, "缺少 content 字段")
		return
	}

	log, ok := s.classifyContent(w, *req.Content)
	if !ok {
		return
	}

	mode := schema.ModeLive
	if req.UseMock {
		mode = schema.ModeMock
	}
	monday, friday := dates.CurrentWeekRange()

	res := generate.Document(r.Context(), schema.GenerationRequest{
		Kind:        schema.KindWeeklyReport,
		Mode:        mode,
		PeriodLabel: dates.WeekLabel(monday, friday),
		Log:         log,
		RawText:     *req.Content,
	}, s.generateOpts())

	if !res.Success {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   res.ErrorDetail,
			"mode":    res.ModeUsed,
		})
		return
	}

	verdict, err := validate.Document(schema.KindWeeklyReport, res.DocumentText)
	if err != nil {
		s.logger.Error("validate generated report", "error", err)
		fail(w, http.StatusInternalServerError, "生成结果校验失败")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"report":     res.DocumentText,
		"mode":       res.ModeUsed,
		"validation": verdict,
	})
}

func (s *Server) handleGenerateOKR(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content     *string `json:"content"`
		NextQuarter string  `json:"next_quarter"`
		UseMock     bool    `json:"use_mock"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Content == nil {
		fail(w, http.StatusBadRequest, "缺少 content 字段")
		return
	}

	log, ok := s.classifyContent(w, *req.Content)
	if !ok {
		return
	}

	mode := schema.ModeLive
	if req.UseMock {
		mode = schema.ModeMock
	}
	period := req.NextQuarter
	if period == "" {
		period = dates.NextQuarterLabel(time.Now())
	}

	res := generate.Document(r.Context(), schema.GenerationRequest{
		Kind:        schema.KindOKR,
		Mode:        mode,
		PeriodLabel: period,
		Log:         log,
		RawText:     *req.Content,
	}, s.generateOpts())

	if !res.Success {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   res.ErrorDetail,
			"mode":    res.ModeUsed,
		})
		return
	}

	verdict, err := validate.Document(schema.KindOKR, res.DocumentText)
	if err != nil {
		s.logger.Error("validate generated okr", "error", err)
		fail(w, http.StatusInternalServerError, "生成结果校验失败")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"okr":        res.DocumentText,
		"mode":       res.ModeUsed,
		"validation": verdict,
	})
}

func (s *Server) handleValidateWeekly(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Report *string `json:"report"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Report == nil {
		fail(w, http.StatusBadRequest, "缺少 report 字段")
		return
	}
	s.respondVerdict(w, schema.KindWeeklyReport, *req.Report)
}

func (s *Server) handleValidateOKR(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OKR *string `json:"okr"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.OKR == nil {
		fail(w, http.StatusBadRequest, "缺少 okr 字段")
		return
	}
	s.respondVerdict(w, schema.KindOKR, *req.OKR)
}

func (s *Server) respondVerdict(w http.ResponseWriter, kind schema.DocumentKind, text string) {
	verdict, err := validate.Document(kind, strings.TrimSpace(text))
	if err != nil {
		s.logger.Error("validate document", "kind", string(kind), "error", err)
		fail(w, http.StatusInternalServerError, "校验失败")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"validation": verdict,
	})
}
