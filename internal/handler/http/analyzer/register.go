package analyzer

import (
	"net/http"

	"text-analyzer/internal/repository"
	"text-analyzer/internal/usecase/analyze"
)

// Register registers the page, static assets and analyzer endpoints.
// limit wraps POST /analyze, the only route that calls the summarizer.
func Register(mux *http.ServeMux, page *Page, svc *analyze.Service, results repository.ResultRepository, limit func(http.Handler) http.Handler) {
	mux.Handle("GET /{$}", page)
	mux.Handle("GET /static/", StaticHandler())

	mux.Handle("POST /analyze", limit(AnalyzeHandler{svc}))
	mux.Handle("POST /clear", ClearHandler{svc})
	mux.Handle("GET "+DownloadPath, DownloadHandler{results})
}
