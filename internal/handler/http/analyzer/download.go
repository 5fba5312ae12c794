package analyzer

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"text-analyzer/internal/domain/entity"
	"text-analyzer/internal/handler/http/respond"
	"text-analyzer/internal/handler/http/session"
	"text-analyzer/internal/observability/logging"
	"text-analyzer/internal/repository"
)

var errNoResult = errors.New("result not found")

// DownloadHandler serves the caller's latest result file as an attachment.
type DownloadHandler struct{ Results repository.ResultRepository }

func (h DownloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := session.FromRequest(r)
	if !ok {
		respond.SafeError(w, http.StatusNotFound, errNoResult)
		return
	}

	rc, err := h.Results.Open(r.Context(), id)
	if errors.Is(err, repository.ErrResultNotFound) {
		respond.SafeError(w, http.StatusNotFound, errNoResult)
		return
	}
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	defer func() { _ = rc.Close() }()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": entity.ResultFileName}))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		logging.FromContext(r.Context()).Warn("result download interrupted", slog.Any("error", err))
	}
}
