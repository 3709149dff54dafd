package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/dates"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/store"
)

// --- Daily reports ---

func (s *Server) handleSaveDaily(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntryDate *string `json:"entry_date"`
		Content   *string `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.EntryDate == nil || req.Content == nil {
		fail(w, http.StatusBadRequest, "缺少 entry_date 或 content 字段")
		return
	}

	if err := s.store.SaveDailyReport(r.Context(), *req.EntryDate, *req.Content); err != nil {
		s.logger.Error("save daily report", "error", err)
		fail(w, http.StatusInternalServerError, "日报保存失败")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "日报保存成功",
	})
}

func (s *Server) handleGetDaily(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.GetDailyReport(r.Context(), chi.URLParam(r, "entry_date"))
	if err != nil {
		s.logger.Error("get daily report", "error", err)
		fail(w, http.StatusInternalServerError, "日报查询失败")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    report,
	})
}

func (s *Server) handleDailyRange(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")
	if startDate == "" || endDate == "" {
		fail(w, http.StatusBadRequest, "缺少 start_date 或 end_date 参数")
		return
	}

	reports, err := s.store.DailyReportsInRange(r.Context(), startDate, endDate)
	if err != nil {
		s.logger.Error("daily reports in range", "error", err)
		fail(w, http.StatusInternalServerError, "日报查询失败")
		return
	}
	if reports == nil {
		reports = []*store.DailyReport{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    reports,
	})
}

func (s *Server) handleDailyDates(w http.ResponseWriter, r *http.Request) {
	ds, err := s.store.DailyReportDates(r.Context())
	if err != nil {
		s.logger.Error("daily report dates", "error", err)
		fail(w, http.StatusInternalServerError, "日报查询失败")
		return
	}
	if ds == nil {
		ds = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    ds,
	})
}

func (s *Server) handleDeleteDaily(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.store.DeleteDailyReport(r.Context(), chi.URLParam(r, "entry_date"))
	if err != nil {
		s.logger.Error("delete daily report", "error", err)
		fail(w, http.StatusInternalServerError, "日报删除失败")
		return
	}
	if !deleted {
		fail(w, http.StatusNotFound, "日报不存在或删除失败")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "日报删除成功",
	})
}

// --- Weekly reports ---

func (s *Server) handleSaveWeekly(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate *string `json:"start_date"`
		EndDate   *string `json:"end_date"`
		Content   *string `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.StartDate == nil || req.EndDate == nil || req.Content == nil {
		fail(w, http.StatusBadRequest, "缺少 start_date、end_date 或 content 字段")
		return
	}

	if err := s.store.SaveWeeklyReport(r.Context(), *req.StartDate, *req.EndDate, *req.Content); err != nil {
		s.logger.Error("save weekly report", "error", err)
		fail(w, http.StatusInternalServerError, "周报保存失败")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "周报保存成功",
	})
}

func (s *Server) handleListWeekly(w http.ResponseWriter, r *http.Request) {
	reports, err := s.store.SearchWeeklyReports(r.Context(),
		r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	if err != nil {
		s.logger.Error("list weekly reports", "error", err)
		fail(w, http.StatusInternalServerError, "周报查询失败")
		return
	}
	if reports == nil {
		reports = []*store.WeeklyReport{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    reports,
	})
}

func (s *Server) handleQueryWeekly(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")
	if startDate == "" || endDate == "" {
		fail(w, http.StatusBadRequest, "缺少 start_date 或 end_date 参数")
		return
	}

	report, err := s.store.GetWeeklyReport(r.Context(), startDate, endDate)
	if err != nil {
		s.logger.Error("query weekly report", "error", err)
		fail(w, http.StatusInternalServerError, "周报查询失败")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    report,
	})
}

func (s *Server) handleLatestWeekly(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.LatestWeeklyReport(r.Context(), dates.Format(time.Now()))
	if err != nil {
		s.logger.Error("latest weekly report", "error", err)
		fail(w, http.StatusInternalServerError, "周报查询失败")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    report,
	})
}

func (s *Server) handleDeleteWeekly(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")
	if startDate == "" || endDate == "" {
		fail(w, http.StatusBadRequest, "缺少 start_date 或 end_date 参数")
		return
	}

	deleted, err := s.store.DeleteWeeklyReport(r.Context(), startDate, endDate)
	if err != nil {
		s.logger.Error("delete weekly report", "error", err)
		fail(w, http.StatusInternalServerError, "周报删除失败")
		return
	}
	if !deleted {
		fail(w, http.StatusNotFound, "周报不存在或删除失败")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "周报删除成功",
	})
}

// --- OKR reports ---

func (s *Server) handleSaveOKR(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CreationDate *string `json:"creation_date"`
		Content      *string `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CreationDate == nil || req.Content == nil {
		fail(w, http.StatusBadRequest, "缺少 creation_date 或 content 字段")
		return
	}

	if err := s.store.SaveOKRReport(r.Context(), *req.CreationDate, *req.Content); err != nil {
		s.logger.Error("save okr report", "error", err)
		fail(w, http.StatusInternalServerError, "OKR保存失败")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "OKR保存成功",
	})
}

func (s *Server) handleGetOKR(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.GetOKRReport(r.Context(), chi.URLParam(r, "creation_date"))
	if err != nil {
		s.logger.Error("get okr report", "error", err)
		fail(w, http.StatusInternalServerError, "OKR查询失败")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    report,
	})
}

func (s *Server) handleLatestOKR(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.LatestOKRReport(r.Context())
	if err != nil {
		s.logger.Error("latest okr report", "error", err)
		fail(w, http.StatusInternalServerError, "OKR查询失败")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    report,
	})
}

func (s *Server) handleListOKR(w http.ResponseWriter, r *http.Request) {
	reports, err := s.store.AllOKRReports(r.Context())
	if err != nil {
		s.logger.Error("list okr reports", "error", err)
		fail(w, http.StatusInternalServerError, "OKR查询失败")
		return
	}
	if reports == nil {
		reports = []*store.OKRReport{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    reports,
	})
}

func (s *Server) handleDeleteOKR(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.store.DeleteOKRReport(r.Context(), chi.URLParam(r, "creation_date"))
	if err != nil {
		s.logger.Error("delete okr report", "error", err)
		fail(w, http.StatusInternalServerError, "OKR删除失败")
		return
	}
	if !deleted {
		fail(w, http.StatusNotFound, "OKR不存在或删除失败")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "OKR删除成功",
	})
}
