package web

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/mikey/phish-dashboard/internal/core"
	"github.com/mikey/phish-dashboard/internal/display"
	"github.com/mikey/phish-dashboard/internal/evidence"
	"github.com/mikey/phish-dashboard/internal/session"
	"github.com/mikey/phish-dashboard/internal/views"
	"go.uber.org/zap"
)

// SessionCookie names the cookie carrying the session id
const SessionCookie = "phish_dashboard_session"

// Handler renders the dashboard pages for a browser session
type Handler struct {
	sessions  *session.Store
	vocab     evidence.Vocabulary
	formatter *display.Formatter
	logger    *zap.Logger
	pages     map[string]*template.Template
}

// NewHandler creates the page handler
func NewHandler(sessions *session.Store, vocab evidence.Vocabulary, formatter *display.Formatter, logger *zap.Logger) *Handler {
	return &Handler{
		sessions:  sessions,
		vocab:     vocab,
		formatter: formatter,
		logger:    logger,
		pages:     parsePages(),
	}
}

type pageData struct {
	Title  string
	Active string
	Body   any
}

type checkerPage struct {
	Loading bool
	Error   string
	Input   any
	Result  *views.ResultView
}

type historyPage struct {
	State   views.HistoryState
	IsEmail bool
	Note    string
}

// msgHistoryReplaced answers a tab request overtaken by a newer selection
const msgHistoryReplaced = "A newer history request replaced this one. Select the tab again to reload it."

func (h *Handler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}

	sess, created := h.sessions.Get(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	state, err := sess.Stats.Load(r.Context())
	if errors.Is(err, views.ErrSuperseded) {
		state = sess.Stats.State()
	}

	h.render(w, r, http.StatusOK, "dashboard", pageData{Title: "Dashboard", Active: "dashboard", Body: state})
}

// urlCheckerPage mounts a fresh checker; a check still in flight is dropped
func (h *Handler) urlCheckerPage(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.URL.Reset()
	h.renderURLChecker(w, r, http.StatusOK, sess.URL.State())
}

func (h *Handler) submitURL(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	req := core.URLCheckRequest{
		URL:          r.PostForm.Get("url"),
		FetchContent: formBool(r.PostForm.Get("fetch_content")),
	}

	state, err := sess.URL.Submit(r.Context(), req)
	if errors.Is(err, views.ErrSuperseded) {
		state = sess.URL.State()
	}
	h.renderURLChecker(w, r, statusFor(err), state)
}

func (h *Handler) renderURLChecker(w http.ResponseWriter, r *http.Request, status int, state views.CheckState[core.URLCheckRequest]) {
	body := checkerPage{
		Loading: state.Loading(),
		Error:   state.Error,
		Input:   state.Input,
		Result:  views.NewResultView(core.KindURL, state.Result, h.vocab, h.formatter),
	}
	h.render(w, r, status, "url-checker", pageData{Title: "URL Checker", Active: "url-checker", Body: body})
}

func (h *Handler) emailCheckerPage(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.Email.Reset()
	h.renderEmailChecker(w, r, http.StatusOK, sess.Email.State())
}

func (h *Handler) submitEmail(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	req := core.EmailCheckRequest{
		Subject: r.PostForm.Get("subject"),
		Sender:  strings.TrimSpace(r.PostForm.Get("sender")),
		Body:    h.formatter.SanitizeUTF8(r.PostForm.Get("body")),
	}

	state, err := sess.Email.Submit(r.Context(), req)
	if errors.Is(err, views.ErrSuperseded) {
		state = sess.Email.State()
	}
	h.renderEmailChecker(w, r, statusFor(err), state)
}

func (h *Handler) renderEmailChecker(w http.ResponseWriter, r *http.Request, status int, state views.CheckState[core.EmailCheckRequest]) {
	body := checkerPage{
		Loading: state.Loading(),
		Error:   state.Error,
		Input:   state.Input,
		Result:  views.NewResultView(core.KindEmail, state.Result, h.vocab, h.formatter),
	}
	h.render(w, r, status, "email-checker", pageData{Title: "Email Checker", Active: "email-checker", Body: body})
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	tab := core.KindURL
	if raw := r.URL.Query().Get("tab"); raw != "" {
		kind, err := core.ParseCheckKind(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		tab = kind
	}

	body := historyPage{IsEmail: tab == core.KindEmail}
	state, err := sess.History.SelectTab(r.Context(), tab)
	if errors.Is(err, views.ErrSuperseded) {
		// the session now belongs to another selection; keep this page on its own tab
		body.Note = msgHistoryReplaced
		state = views.HistoryState{Tab: tab}
	}
	body.State = state

	h.render(w, r, http.StatusOK, "history", pageData{Title: "History", Active: "history", Body: body})
}

func (h *Handler) about(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "about", pageData{Title: "About", Active: "about"})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "not-found", pageData{Title: "Not Found"})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	tmpl, ok := h.pages[page]
	if !ok {
		h.logger.Error("Unknown page template", zap.String("page", page))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("Failed to render page", zap.String("page", page), zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// statusFor maps a submission outcome onto the response status
func statusFor(err error) int {
	var verr *core.ValidationError
	switch {
	case err == nil, errors.Is(err, views.ErrSuperseded):
		return http.StatusOK
	case errors.Is(err, core.ErrBusy):
		return http.StatusConflict
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func formBool(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}
