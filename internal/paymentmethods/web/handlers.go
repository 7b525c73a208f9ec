// Package web serves the payment methods admin screen as server-rendered HTML.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/PaymentAdmin/internal/finance/domain"
	financeErrors "github.com/sebuszqo/PaymentAdmin/internal/finance/errors"
	"github.com/sebuszqo/PaymentAdmin/internal/middleware"
	"github.com/sebuszqo/PaymentAdmin/internal/paymentmethods/client"
	"github.com/sebuszqo/PaymentAdmin/internal/paymentmethods/query"
	"github.com/sebuszqo/PaymentAdmin/internal/paymentmethods/screen"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	listPath          = "/payment-methods"
	defaultSessionTTL = 12 * time.Hour
)

type Handler struct {
	sessions *Sessions
	pages    map[string]*template.Template
	listWait time.Duration
}

type Options struct {
	// ListWait bounds how long a page waits for the list before rendering
	// the loading placeholder.
	ListWait   time.Duration
	SessionTTL time.Duration
}

func NewHandler(q *query.Query, opts Options) (*Handler, error) {
	if opts.ListWait <= 0 {
		opts.ListWait = 2 * time.Second
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}

	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Handler{
		sessions: NewSessions(opts.SessionTTL, func() *screen.Screen { return screen.New(q) }),
		pages:    pages,
		listWait: opts.ListWait,
	}, nil
}

func parseTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"yesNo": func(b bool) string {
			if b {
				return "Yes"
			}
			return "No"
		},
		"year": func() int { return time.Now().Year() },
	}

	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{"index.html", "confirm.html", "error.html"} {
		base, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		page, err := base.ParseFS(templatesFS, "templates/"+name)
		if err != nil {
			return nil, err
		}
		pages[name] = page
	}
	return pages, nil
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, listPath, http.StatusFound)
	})
	mux.HandleFunc("GET /ready", h.handleReady)
	mux.HandleFunc("GET "+listPath, h.handleList)
	mux.HandleFunc("POST "+listPath+"/new", h.handleAdd)
	mux.HandleFunc("POST "+listPath+"/cancel", h.handleCancel)
	mux.HandleFunc("POST "+listPath+"/submit", h.handleSubmit)
	mux.HandleFunc("POST "+listPath+"/{id}/edit", h.handleEdit)
	mux.HandleFunc("GET "+listPath+"/{id}/delete", h.handleConfirmDelete)
	mux.HandleFunc("POST "+listPath+"/{id}/delete", h.handleDelete)
	return middleware.Logging(mux)
}

type formView struct {
	Open    bool
	Editing bool
	ID      int
	Draft   domain.Draft
	Errors  []string
}

type listView struct {
	Title   string
	Loading bool
	Methods []domain.PaymentMethod
	Form    formView
	Types   []domain.MethodType
}

func (h *Handler) handleReady(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	sc := h.sessions.Screen(w, r)
	h.renderList(w, r, sc, http.StatusOK, nil)
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, sc *screen.Screen, status int, formErrors []string) {
	state := sc.State()
	view := listView{
		Title: "Payment Methods",
		Types: domain.MethodTypes,
		Form: formView{
			Open:    state.FormOpen,
			Editing: state.Editing(),
			Draft:   state.Draft,
			Errors:  formErrors,
		},
	}
	if state.EditingID != nil {
		view.Form.ID = *state.EditingID
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.listWait)
	defer cancel()
	methods, err := sc.List(ctx)
	switch {
	case errors.Is(err, query.ErrPending):
		view.Loading = true
	case err != nil:
		log.Error().Err(err).Msg("load payment methods")
		h.renderError(w, http.StatusBadGateway, "Could not load payment methods: "+err.Error())
		return
	default:
		view.Methods = methods
	}

	h.render(w, "index.html", status, view)
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	h.sessions.Screen(w, r).Add()
	redirectToList(w, r)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	h.sessions.Screen(w, r).Cancel()
	redirectToList(w, r)
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	sc := h.sessions.Screen(w, r)
	pm, ok := h.lookup(w, r, sc)
	if !ok {
		return
	}
	sc.Edit(pm)
	redirectToList(w, r)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sc := h.sessions.Screen(w, r)
	if err := r.ParseForm(); err != nil {
		h.renderError(w, http.StatusBadRequest, "Invalid form")
		return
	}

	if err := sc.SetDraft(draftFromForm(r)); err != nil {
		// form was closed in another tab; nothing to submit
		redirectToList(w, r)
		return
	}

	_, err := sc.Submit(r.Context())
	switch {
	case err == nil:
		redirectToList(w, r)
	case errors.Is(err, screen.ErrFormClosed), errors.Is(err, screen.ErrSubmitInFlight):
		redirectToList(w, r)
	case financeErrors.IsValidationError(err):
		h.renderList(w, r, sc, http.StatusUnprocessableEntity, financeErrors.Messages(err))
	default:
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest && len(apiErr.Errors) > 0 {
			h.renderList(w, r, sc, http.StatusUnprocessableEntity, apiErr.Errors)
			return
		}
		log.Error().Err(err).Msg("submit payment method")
		h.renderError(w, http.StatusBadGateway, "Could not save payment method: "+err.Error())
	}
}

func (h *Handler) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	sc := h.sessions.Screen(w, r)
	pm, ok := h.lookup(w, r, sc)
	if !ok {
		return
	}
	h.render(w, "confirm.html", http.StatusOK, struct {
		Title  string
		Method domain.PaymentMethod
	}{Title: "Delete payment method", Method: pm})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	sc := h.sessions.Screen(w, r)
	pm, ok := h.lookup(w, r, sc)
	if !ok {
		return
	}

	confirmed := r.FormValue("confirm") == "yes"
	if _, err := sc.Delete(r.Context(), pm, func(domain.PaymentMethod) bool { return confirmed }); err != nil {
		log.Error().Err(err).Int("id", pm.ID).Msg("delete payment method")
		h.renderError(w, http.StatusBadGateway, "Could not delete payment method: "+err.Error())
		return
	}
	redirectToList(w, r)
}

// lookup finds the record named by the {id} path value in the current list.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request, sc *screen.Screen) (domain.PaymentMethod, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.renderError(w, http.StatusNotFound, "Payment method not found")
		return domain.PaymentMethod{}, false
	}

	methods, err := sc.List(r.Context())
	if err != nil {
		h.renderError(w, http.StatusBadGateway, "Could not load payment methods: "+err.Error())
		return domain.PaymentMethod{}, false
	}
	for _, pm := range methods {
		if pm.ID == id {
			return pm, true
		}
	}
	h.renderError(w, http.StatusNotFound, "Payment method not found")
	return domain.PaymentMethod{}, false
}

func draftFromForm(r *http.Request) domain.Draft {
	return domain.Draft{
		Name:              strings.TrimSpace(r.FormValue("name")),
		Type:              domain.MethodType(r.FormValue("type")),
		RequiresReference: r.FormValue("requiresReference") != "",
		SortOrder:         atoiDefault(r.FormValue("sortOrder"), 0),
	}
}

func (h *Handler) render(w http.ResponseWriter, name string, status int, data any) {
	page, ok := h.pages[name]
	if !ok {
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.ExecuteTemplate(w, "layout.html", data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render")
	}
}

func (h *Handler) renderError(w http.ResponseWriter, status int, msg string) {
	h.render(w, "error.html", status, struct {
		Title    string
		ErrorMsg string
	}{Title: "Payment Methods", ErrorMsg: msg})
}

func redirectToList(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

func atoiDefault(s string, d int) int {
	if s == "" {
		return d
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return d
	}
	return i
}
