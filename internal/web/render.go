package web

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/errors"
	"github.com/hpungsan/outreach/internal/logging"
	"github.com/hpungsan/outreach/internal/ops"
	"github.com/hpungsan/outreach/internal/view"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title    string
	Version  string
	Nav      string // active nav item: "contacts", "new"
	SignedIn string // email of the signed-in user, if any
	AuthOn   bool
}

// Column is one sortable table header.
type Column struct {
	Label  string
	URL    string
	Active bool
	Order  view.SortOrder
}

// ListPageData is the template data for the contacts table.
type ListPageData struct {
	PageData
	Result *ops.ListOutput

	Search     string
	FollowUp   string
	Statuses   map[contact.Status]bool
	Industries map[string]bool

	StatusOptions   []contact.Status
	IndustryOptions []contact.Industry
	Periods         []view.FollowUpPeriod

	Columns   []Column
	From, To  int
	PrevURL   string
	NextURL   string
	BannerURL string
	ClearURL  string
	ReturnURL string
	Notice    string
}

// FormPageData is the template data for the create/edit form.
type FormPageData struct {
	PageData
	Editing bool
	ID      string
	Input   contact.Input
	Errors  contact.ValidationErrors

	StatusOptions     []contact.Status
	IndustryOptions   []contact.Industry
	ConnectionOptions []contact.ConnectionType
}

// DetailPageData is the template data for a single contact.
type DetailPageData struct {
	PageData
	Contact   *ops.FetchOutput
	NotesHTML template.HTML
}

// LoginPageData is the template data for the sign-in page.
type LoginPageData struct {
	PageData
	Email  string
	Error  string
	Notice string
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	log       logging.Logger
	now       func() time.Time
}

// NewRenderer parses every page template from templateFS on top of the
// shared layout. now drives relative date formatting.
func NewRenderer(templateFS fs.FS, version string, log logging.Logger, now func() time.Time) (*Renderer, error) {
	if log == nil {
		log = logging.Nop()
	}
	if now == nil {
		now = time.Now
	}
	r := &Renderer{version: version, log: log, now: now}

	funcMap := template.FuncMap{
		"add":          func(a, b int) int { return a + b },
		"formatDate":   func(s *string) string { return contact.FormatDateTime(deref(s), r.now()) },
		"isOverdue":    func(s *string) bool { return contact.IsOverdue(deref(s), r.now()) },
		"isDueToday":   func(s *string) bool { return contact.IsDueToday(deref(s), r.now()) },
		"formatMillis": formatMillis,
		"deref":        deref,
		"industry":     func(c contact.Contact) string { return c.IndustryName() },
		"connection":   connectionName,
		"markdown":     renderMarkdown,
	}

	layout, err := template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := map[string]string{
		"list":   "list.html",
		"form":   "form.html",
		"detail": "detail.html",
		"login":  "login.html",
		"error":  "error.html",
	}

	r.templates = make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.templates[name] = t
	}

	return r, nil
}

// renderPage renders a named page template with HTTP 200.
func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.renderPageStatus(w, req, http.StatusOK, name, data)
}

// renderPageStatus renders a page. htmx requests get only the "content"
// block so the layout is not duplicated.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	block := "layout"
	if isHTMX(req) {
		block = "content"
	}
	r.renderBlock(w, req.Context(), status, name, block, data)
}

// renderBlock renders one named block of a page template.
func (r *Renderer) renderBlock(w http.ResponseWriter, ctx context.Context, status int, page, block string, data any) {
	t, ok := r.templates[page]
	if !ok {
		r.log.Error(ctx, "template not found", "template", page)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		r.log.Error(ctx, "template execution failed", "template", page, "block", block, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	var oErr *errors.OutreachError
	if !stderrors.As(err, &oErr) {
		oErr = errors.NewInternal(err)
	}
	if oErr.Status >= 500 {
		r.log.Error(req.Context(), "request failed", "path", req.URL.Path, "error", oErr)
	}

	status := oErr.Status
	if status == 499 {
		// Client went away; the status is only for logs.
		status = http.StatusServiceUnavailable
	}

	if isHTMX(req) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, `<div class="error-message">%s</div>`, template.HTMLEscapeString(oErr.Message))
		return
	}

	if wantsJSON(req) {
		body := map[string]any{
			"code":    string(oErr.Code),
			"message": oErr.Message,
			"status":  status,
		}
		if fields := errors.FieldErrors(oErr); fields != nil {
			body["fields"] = fields
		}
		renderJSON(w, status, map[string]any{"error": body})
		return
	}

	r.renderPageStatus(w, req, status, "error", ErrorPageData{
		PageData: PageData{
			Title:   fmt.Sprintf("Error %d", status),
			Version: r.version,
		},
		StatusCode: status,
		Message:    oErr.Message,
	})
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))

// renderMarkdown converts notes to HTML. Raw HTML in the source is
// dropped by goldmark's default renderer.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// formatMillis formats epoch milliseconds as "2006-01-02 15:04" in local time.
func formatMillis(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func connectionName(c contact.Contact) string {
	if c.ConnectionType == nil {
		return ""
	}
	return string(*c.ConnectionType)
}

// withQuery returns path with q encoded, dropping empty values.
func withQuery(path string, q url.Values) string {
	clean := url.Values{}
	for k, vs := range q {
		for _, v := range vs {
			if v != "" {
				clean.Add(k, v)
			}
		}
	}
	if len(clean) == 0 {
		return path
	}
	return path + "?" + clean.Encode()
}
