// Package server exposes the assistant over a JSON HTTP API: parsing,
// generation, and validation of reports, plus persistence for daily reports,
// weekly reports, OKR documents and TODO items. Response envelopes and error
// strings follow the product's frontend contract, so user-facing messages
// are Chinese.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/config"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/generate"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/logparse"
	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/store"
)

// Server holds the shared dependencies of all handlers.
type Server struct {
	cfg    config.Config
	store  *store.Store
	logger *slog.Logger
}

// New builds a Server around the given configuration and store.
func New(cfg config.Config, st *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, store: st, logger: logger}
}

// Router returns the HTTP handler with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Not found"})
	})

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/week-range", s.handleWeekRange)
	r.Post("/api/parse", s.handleParse)
	r.Post("/api/generate/weekly-report", s.handleGenerateWeekly)
	r.Post("/api/generate/okr", s.handleGenerateOKR)
	r.Post("/api/validate/weekly-report", s.handleValidateWeekly)
	r.Post("/api/validate/okr", s.handleValidateOKR)

	r.Post("/api/daily-reports", s.handleSaveDaily)
	r.Get("/api/daily-reports/range", s.handleDailyRange)
	r.Get("/api/daily-reports/dates", s.handleDailyDates)
	r.Get("/api/daily-reports/{entry_date}", s.handleGetDaily)
	r.Delete("/api/daily-reports/{entry_date}", s.handleDeleteDaily)

	r.Post("/api/weekly-reports", s.handleSaveWeekly)
	r.Get("/api/weekly-reports", s.handleListWeekly)
	r.Get("/api/weekly-reports/query", s.handleQueryWeekly)
	r.Get("/api/weekly-reports/latest", s.handleLatestWeekly)
	r.Delete("/api/weekly-reports", s.handleDeleteWeekly)

	r.Post("/api/okr-reports", s.handleSaveOKR)
	r.Get("/api/okr-reports", s.handleListOKR)
	r.Get("/api/okr-reports/latest", s.handleLatestOKR)
	r.Get("/api/okr-reports/{creation_date}", s.handleGetOKR)
	r.Delete("/api/okr-reports/{creation_date}", s.handleDeleteOKR)

	r.Get("/api/todo-items", s.handleListTodos)
	r.Post("/api/todo-items", s.handleCreateTodo)
	r.Put("/api/todo-items/{id}", s.handleUpdateTodo)
	r.Delete("/api/todo-items/{id}", s.handleDeleteTodo)

	return r
}

// cors allows any origin, matching the open CORS policy the browser
// frontend relies on.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// generateOpts maps the process configuration onto one generation call.
func (s *Server) generateOpts() generate.Options {
	return generate.Options{
		Provider:       s.cfg.LLM.ResolveProvider(),
		Model:          s.cfg.LLM.Model,
		APIKey:         s.cfg.LLM.APIKey,
		MaxTokens:      s.cfg.LLM.MaxTokens,
		Temperature:    s.cfg.LLM.Temperature,
		Timeout:        s.cfg.LLM.Timeout(),
		MaxOutputLen:   s.cfg.Limits.MaxOutputChars,
		LiveConfigured: s.cfg.IsLLMConfigured(),
		Logger:         s.logger,
	}
}

func (s *Server) segmenter() logparse.Segmenter {
	return logparse.Segmenter{MaxLen: s.cfg.Limits.MaxInputChars}
}
