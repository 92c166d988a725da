package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hpungsan/outreach/internal/auth"
	"github.com/hpungsan/outreach/internal/config"
	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/errors"
	"github.com/hpungsan/outreach/internal/logging"
	"github.com/hpungsan/outreach/internal/ops"
	"github.com/hpungsan/outreach/internal/view"
)

// Authenticator is the sign-in collaborator. *auth.Service implements it.
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (*auth.Session, error)
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	Verify(token string) (*auth.Claims, error)
}

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	tracker  *ops.Tracker
	auth     Authenticator
	cfg      *config.Config
	renderer *Renderer
	log      logging.Logger
}

var columns = []struct {
	field view.SortField
	label string
}{
	{view.SortName, "Name"},
	{view.SortTitle, "Title"},
	{view.SortCompany, "Company"},
	{view.SortIndustry, "Industry"},
	{view.SortStatus, "Status"},
	{view.SortDateMessaged, "Messaged"},
	{view.SortFollowUpDate, "Follow-up"},
}

// HandleList handles GET /contacts: the filtered, sorted, paged table.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	input := ops.ListInput{
		Search:     q.Get("q"),
		Statuses:   q["status"],
		Industries: q["industry"],
		FollowUp:   q.Get("follow_up"),
		Sort:       q.Get("sort"),
		Order:      q.Get("order"),
		Page:       parseIntParam(r, "page", 1),
		PageSize:   parseIntParam(r, "page_size", 0),
	}

	result, err := h.tracker.List(r.Context(), input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "list", h.listPageData(r, result))
}

func (h *Handlers) listPageData(r *http.Request, result *ops.ListOutput) ListPageData {
	data := ListPageData{
		PageData:        h.pageData(r, "Contacts", "contacts"),
		Result:          result,
		Search:          result.Filter.Search,
		FollowUp:        string(result.Filter.FollowUp),
		Statuses:        map[contact.Status]bool{},
		Industries:      map[string]bool{},
		StatusOptions:   contact.AllStatuses(),
		IndustryOptions: contact.Industries(),
		Periods:         view.FollowUpPeriods(),
		Notice:          r.URL.Query().Get("notice"),
	}
	for _, s := range result.Filter.Statuses {
		data.Statuses[s] = true
	}
	for _, i := range result.Filter.Industries {
		data.Industries[string(i)] = true
	}

	// base carries the filter; headers and pager add sort and page on top.
	base := url.Values{}
	base.Set("q", result.Filter.Search)
	for _, s := range result.Filter.Statuses {
		base.Add("status", string(s))
	}
	for _, i := range result.Filter.Industries {
		base.Add("industry", string(i))
	}
	if result.Filter.FollowUp != view.FollowUpAll {
		base.Set("follow_up", string(result.Filter.FollowUp))
	}

	for _, col := range columns {
		next := result.Sort.Toggle(col.field)
		q := cloneValues(base)
		q.Set("sort", string(next.Field))
		q.Set("order", string(next.Order))
		data.Columns = append(data.Columns, Column{
			Label:  col.label,
			URL:    withQuery("/contacts", q),
			Active: result.Sort.Field == col.field,
			Order:  result.Sort.Order,
		})
	}

	pageURL := func(page int) string {
		q := cloneValues(base)
		q.Set("sort", string(result.Sort.Field))
		q.Set("order", string(result.Sort.Order))
		q.Set("page", strconv.Itoa(page))
		return withQuery("/contacts", q)
	}
	if result.Page > 1 {
		data.PrevURL = pageURL(result.Page - 1)
	}
	if result.Page < result.PageCount {
		data.NextURL = pageURL(result.Page + 1)
	}
	data.From, data.To = result.PageRange()

	if result.ShowBanner() {
		data.BannerURL = withQuery("/contacts", url.Values{"follow_up": {string(result.BannerPeriod())}})
	}

	data.ClearURL = withQuery("/contacts", url.Values{"q": {result.Filter.Search}})
	data.ReturnURL = r.URL.RequestURI()

	return data
}

// HandleNew handles GET /contacts/new: an empty form.
func (h *Handlers) HandleNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, "", contact.Input{Status: string(contact.DefaultStatus)}, nil)
}

// HandleEdit handles GET /contacts/{id}/edit: the form prefilled.
func (h *Handlers) HandleEdit(w http.ResponseWriter, r *http.Request) {
	c, err := h.tracker.Fetch(r.Context(), ops.FetchInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.renderForm(w, r, http.StatusOK, c.ID, contact.InputFrom(c.Contact), nil)
}

// HandleCreate handles POST /contacts.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in, err := parseContactInput(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if err := h.pause(r.Context()); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	out, err := h.tracker.Add(r.Context(), ops.AddInput{Input: in})
	if err != nil {
		h.formError(w, r, "", in, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusCreated, out)
		return
	}
	h.redirect(w, r, withQuery("/contacts", url.Values{"notice": {"Contact added"}}))
}

// HandleUpdate handles POST /contacts/{id}.
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	in, err := parseContactInput(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if err := h.pause(r.Context()); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	out, err := h.tracker.Update(r.Context(), ops.UpdateInput{ID: id, Fields: in})
	if err != nil {
		h.formError(w, r, id, in, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}
	h.redirect(w, r, withQuery("/contacts", url.Values{"notice": {"Contact updated"}}))
}

// HandleDetail handles GET /contacts/{id}.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	c, err := h.tracker.Fetch(r.Context(), ops.FetchInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, c)
		return
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData:  h.pageData(r, c.Name, "contacts"),
		Contact:   c,
		NotesHTML: renderMarkdown(deref(c.Notes)),
	})
}

// HandleDelete handles DELETE /contacts/{id} and its form fallback
// POST /contacts/{id}/delete.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	result, err := h.tracker.Delete(r.Context(), ops.DeleteInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	h.redirect(w, r, withQuery("/contacts", url.Values{"notice": {"Contact deleted"}}))
}

// HandleBulk handles POST /contacts/bulk: action=status (with status) or
// action=delete over the checked ids.
func (h *Handlers) HandleBulk(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	ids := r.PostForm["id"]
	back := r.PostFormValue("return")
	if !strings.HasPrefix(back, "/contacts") {
		back = "/contacts"
	}

	var (
		result  any
		message string
	)
	switch r.PostFormValue("action") {
	case "status":
		out, err := h.tracker.BulkUpdateStatus(r.Context(), ops.BulkStatusInput{IDs: ids, Status: r.PostFormValue("status")})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		result, message = out, out.Message
	case "delete":
		out, err := h.tracker.BulkDelete(r.Context(), ops.BulkDeleteInput{IDs: ids})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		result, message = out, out.Message
	default:
		h.renderer.renderError(w, r, errors.NewInvalidRequest(`action must be "status" or "delete"`))
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	h.redirect(w, r, addNotice(back, message))
}

// HandleAlerts handles GET /contacts/alerts.
func (h *Handlers) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	out, err := h.tracker.Alerts(r.Context())
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

func (h *Handlers) renderForm(w http.ResponseWriter, r *http.Request, status int, id string, in contact.Input, errs contact.ValidationErrors) {
	title := "Add Contact"
	if id != "" {
		title = "Edit Contact"
	}
	h.renderer.renderPageStatus(w, r, status, "form", FormPageData{
		PageData:          h.pageData(r, title, "new"),
		Editing:           id != "",
		ID:                id,
		Input:             in,
		Errors:            errs,
		StatusOptions:     contact.AllStatuses(),
		IndustryOptions:   contact.Industries(),
		ConnectionOptions: contact.ConnectionTypes(),
	})
}

// formError re-renders the form with per-field messages for validation
// errors; anything else goes through renderError.
func (h *Handlers) formError(w http.ResponseWriter, r *http.Request, id string, in contact.Input, err error) {
	fields := errors.FieldErrors(err)
	if fields == nil || wantsJSON(r) {
		h.renderer.renderError(w, r, err)
		return
	}
	h.renderForm(w, r, http.StatusUnprocessableEntity, id, in, fields)
}

// pause waits SaveDelayMS before a form save, returning early when the
// request is cancelled.
func (h *Handlers) pause(ctx context.Context) error {
	if h.cfg.SaveDelayMS <= 0 {
		return nil
	}
	timer := time.NewTimer(time.Duration(h.cfg.SaveDelayMS) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return errors.NewCancelled("save")
	}
}

// redirect sends htmx clients an HX-Redirect and everyone else a 303.
func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, to string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *Handlers) pageData(r *http.Request, title, nav string) PageData {
	pd := PageData{
		Title:   title,
		Version: h.renderer.version,
		Nav:     nav,
		AuthOn:  h.auth != nil,
	}
	if claims, ok := claimsFrom(r.Context()); ok {
		pd.SignedIn = claims.Email
	}
	return pd
}

// parseContactInput reads a JSON body or a form submission.
func parseContactInput(r *http.Request) (contact.Input, error) {
	var in contact.Input
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			return in, errors.NewInvalidRequest(fmt.Sprintf("invalid JSON body: %v", err))
		}
		return in, nil
	}

	if err := r.ParseForm(); err != nil {
		return in, errors.NewInvalidRequest("invalid form data")
	}
	f := r.PostForm
	in = contact.Input{
		Name:             f.Get("name"),
		Title:            f.Get("title"),
		Company:          f.Get("company"),
		Industry:         f.Get("industry"),
		LinkedInURL:      f.Get("linkedin_url"),
		DateMessaged:     f.Get("date_messaged"),
		Status:           f.Get("status"),
		FollowUpDate:     f.Get("follow_up_date"),
		Notes:            f.Get("notes"),
		ConnectionType:   f.Get("connection_type"),
		ResponseReceived: parseCheckbox(f.Get("response_received")),
		CallScheduled:    parseCheckbox(f.Get("call_scheduled")),
		CallDate:         f.Get("call_date"),
	}
	return in, nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func parseCheckbox(s string) bool {
	return s == "on" || s == "true" || s == "1"
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// addNotice appends a notice parameter to a local URL.
func addNotice(to, notice string) string {
	u, err := url.Parse(to)
	if err != nil {
		return "/contacts"
	}
	q := u.Query()
	q.Set("notice", notice)
	u.RawQuery = q.Encode()
	return u.String()
}
