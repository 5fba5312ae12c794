package analyzer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"

	"text-analyzer/internal/handler/http/session"
	"text-analyzer/internal/observability/logging"
	"text-analyzer/internal/usecase/analyze"
)

//go:embed assets
var assets embed.FS

// headerMarkdown is the page introduction.
const headerMarkdown = `## 🧠 AI-Powered Text Analyzer

📝 *Enter a prompt or upload a .txt file*, or both, and click *Analyze* to generate an AI summary.`

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(extension.Typographer),
	goldmark.WithRendererOptions(htmlrenderer.WithXHTML()),
)

type pageData struct {
	Header        template.HTML
	Provider      string
	MaxInputChars int
}

// Page renders the analyzer UI. The template and header are prepared once.
type Page struct {
	tmpl *template.Template
	data pageData
}

// NewPage parses the embedded template and renders the Markdown header.
func NewPage(provider string) (*Page, error) {
	tmpl, err := template.ParseFS(assets, "assets/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	var header bytes.Buffer
	if err := markdownEngine.Convert([]byte(headerMarkdown), &header); err != nil {
		return nil, fmt.Errorf("render page header: %w", err)
	}

	return &Page{
		tmpl: tmpl,
		data: pageData{
			// #nosec G203 -- rendered from a constant; goldmark escapes raw HTML
			Header:        template.HTML(header.String()),
			Provider:      provider,
			MaxInputChars: analyze.MaxInputChars,
		},
	}, nil
}

// ServeHTTP renders the page and makes sure the browser has a session.
func (p *Page) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session.Ensure(w, r)

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, p.data); err != nil {
		logging.FromContext(r.Context()).Error("failed to render page", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// StaticHandler serves the page's script and stylesheet under /static/.
func StaticHandler() http.Handler {
	static, err := fs.Sub(assets, "assets/static")
	if err != nil {
		// the directory is embedded at compile time
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(static))
}
