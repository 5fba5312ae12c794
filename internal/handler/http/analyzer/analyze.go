package analyzer

import (
	"errors"
	"net/http"

	"text-analyzer/internal/domain/entity"
	"text-analyzer/internal/handler/http/respond"
	"text-analyzer/internal/handler/http/session"
	"text-analyzer/internal/infra/upload"
	"text-analyzer/internal/usecase/analyze"
)

// maxFormMemory is how much of a multipart form is kept in memory; the rest spills to disk.
const maxFormMemory = 8 << 20

// AnalyzeHandler runs an analysis for the caller's session.
//
// POST /analyze, multipart form with optional "file" and "prompt".
// 200 carries the summary, 422 a rejected input, 502 a failed
// summarization and 500 a file error. Every outcome uses the OutputsDTO shape.
type AnalyzeHandler struct{ Svc *analyze.Service }

func (h AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := session.Ensure(w, r)

	in, err := parseInput(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.SafeError(w, http.StatusRequestEntityTooLarge,
				respond.NewAppError(http.StatusRequestEntityTooLarge, "upload too large", err))
			return
		}
		respond.SafeError(w, http.StatusBadRequest,
			respond.NewAppError(http.StatusBadRequest, "invalid form data", err))
		return
	}

	result, err := h.Svc.Analyze(r.Context(), sessionID, in)
	if err != nil {
		respond.JSON(w, statusFor(err), toDTO(entity.ErrorOutputs(analyze.UserMessage(err))))
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	respond.JSON(w, http.StatusOK, toDTO(result.Outputs(DownloadPath)))
}

// parseInput accepts multipart and url-encoded forms.
// A file part without a file name (nothing chosen in the browser) counts as no file.
func parseInput(r *http.Request) (analyze.Input, error) {
	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return analyze.Input{}, err
	}

	in := analyze.Input{Prompt: r.PostFormValue("prompt")}
	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["file"]; len(files) > 0 {
			in.File = upload.FromFileHeader(files[0])
		}
	}
	return in, nil
}

func statusFor(err error) int {
	switch {
	case analyze.IsInputError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, analyze.ErrFileIO):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
