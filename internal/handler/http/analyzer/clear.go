package analyzer

import (
	"net/http"

	"text-analyzer/internal/handler/http/respond"
	"text-analyzer/internal/usecase/analyze"
)

// ClearHandler resets the outputs. Saved results stay downloadable.
type ClearHandler struct{ Svc *analyze.Service }

func (h ClearHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, toDTO(h.Svc.Clear()))
}
