package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appdocs "github.com/bryanwahyu/legalens/internal/application/documents"
	"github.com/bryanwahyu/legalens/internal/application/search"
	domai "github.com/bryanwahyu/legalens/internal/domain/ai"
	"github.com/bryanwahyu/legalens/internal/domain/findings"
	"github.com/bryanwahyu/legalens/internal/middleware"
)

type Router struct {
	docs *appdocs.Service
}

func NewRouter(docs *appdocs.Service) http.Handler {
	r := &Router{docs: docs}
	mux := chi.NewRouter()

	mux.Route("/v1/documents", func(rt chi.Router) {
		rt.Post("/", r.wrap(r.handleCreate))
		rt.Route("/{id}", func(dt chi.Router) {
			dt.Use(documentIDCtx)
			dt.Delete("/", r.wrap(r.handleDelete))
			dt.Post("/pages/{page}/analyze", r.wrap(r.handleAnalyze))
			dt.Get("/pages/{page}/analysis", r.wrap(r.handleCachedAnalysis))
			dt.Get("/search", r.wrap(r.handleSearch))
			dt.Get("/findings", r.wrap(r.handleFilter))
			dt.Get("/actions", r.wrap(r.handleActions))
			dt.Get("/report", r.wrap(r.handleReport))
			dt.Post("/report/export", r.wrap(r.handleExportReport))
		})
	})

	return mux
}

// documentIDCtx rejects malformed session IDs before they reach handlers.
func documentIDCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if err := middleware.ValidateDocumentID(chi.URLParam(req, "id")); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, req)
	})
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var failed *domai.AnalysisFailedError
		switch {
		case errors.Is(err, appdocs.ErrSessionNotFound),
			errors.Is(err, appdocs.ErrPageNotAnalyzed):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, appdocs.ErrPageOutOfRange),
			errors.Is(err, domai.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domai.ErrNotInitialized),
			errors.Is(err, appdocs.ErrExportUnavailable):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		case errors.Is(err, domai.ErrQuotaExceeded):
			http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
		case errors.As(err, &failed):
			http.Error(w, err.Error(), http.StatusBadGateway)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

func pageParam(req *http.Request) (int, error) {
	page, err := strconv.Atoi(chi.URLParam(req, "page"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", appdocs.ErrPageOutOfRange, chi.URLParam(req, "page"))
	}
	return page, nil
}

// POST /v1/documents
// Body: {"name": "...", "pages": ["page 1 text", ...]}
func (r *Router) handleCreate(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Name  string   `json:"name"`
		Pages []string `json:"pages"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	body.Name = middleware.SanitizeString(body.Name)
	if body.Name == "" {
		body.Name = "untitled"
	}
	if err := middleware.ValidateDocumentName(body.Name); err != nil {
		return fmt.Errorf("%w: %v", domai.ErrInvalidInput, err)
	}
	if err := middleware.ValidatePages(body.Pages); err != nil {
		return fmt.Errorf("%w: %v", domai.ErrInvalidInput, err)
	}
	sess := r.docs.Create(body.Name, body.Pages)
	w.WriteHeader(http.StatusCreated)
	return writeJSON(w, sess)
}

// DELETE /v1/documents/{id}
func (r *Router) handleDelete(w http.ResponseWriter, req *http.Request) error {
	if err := r.docs.Delete(chi.URLParam(req, "id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// POST /v1/documents/{id}/pages/{page}/analyze?force=true
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	page, err := pageParam(req)
	if err != nil {
		return err
	}
	force := req.URL.Query().Get("force") == "true"
	middleware.IncrementAnalyses()
	res, err := r.docs.AnalyzePage(req.Context(), chi.URLParam(req, "id"), page, force)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}
	middleware.AddAnalysisRetries(res.RetryCount)
	return writeJSON(w, res)
}

// GET /v1/documents/{id}/pages/{page}/analysis
func (r *Router) handleCachedAnalysis(w http.ResponseWriter, req *http.Request) error {
	page, err := pageParam(req)
	if err != nil {
		return err
	}
	res, err := r.docs.CachedResult(chi.URLParam(req, "id"), page)
	if err != nil {
		return err
	}
	return writeJSON(w, res)
}

// GET /v1/documents/{id}/search?q=payment+terms
func (r *Router) handleSearch(w http.ResponseWriter, req *http.Request) error {
	results, err := r.docs.Search(chi.URLParam(req, "id"), req.URL.Query().Get("q"))
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{"results": results})
}

// GET /v1/documents/{id}/findings?category=&risk_level=&text=
func (r *Router) handleFilter(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	filter := search.Filter{
		Category:  findings.Category(q.Get("category")),
		RiskLevel: q.Get("risk_level"),
		Text:      q.Get("text"),
	}
	results, err := r.docs.Filter(chi.URLParam(req, "id"), filter)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{"findings": results})
}

// GET /v1/documents/{id}/actions?page=2 (page omitted = all pages)
func (r *Router) handleActions(w http.ResponseWriter, req *http.Request) error {
	page := 0
	if v := req.URL.Query().Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %q", appdocs.ErrPageOutOfRange, v)
		}
		page = p
	}
	items, err := r.docs.ActionItems(chi.URLParam(req, "id"), page)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{"actionItems": items})
}

// GET /v1/documents/{id}/report
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	report, err := r.docs.Report(chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return writeJSON(w, report)
}

// POST /v1/documents/{id}/report/export
func (r *Router) handleExportReport(w http.ResponseWriter, req *http.Request) error {
	url, err := r.docs.ExportReport(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]string{"url": url})
}
