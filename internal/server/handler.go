// Package server exposes a form definition over HTTP. GET renders the form,
// POST binds the posted values and validates or submits them.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-controlbox/pkg/control"
	"github.com/goliatone/go-controlbox/pkg/controlbox"
	"github.com/goliatone/go-controlbox/pkg/formdef"
	"github.com/goliatone/go-controlbox/pkg/render"
)

// ActionDismiss re-renders the posted values without validating them.
const ActionDismiss = "dismiss"

// HTTPError lets guards choose the response status.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError is an HTTPError carrying a fixed status code.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Guard inspects a POST before any value is bound.
type Guard func(r *http.Request) error

// TokenSource returns a hidden field, usually a CSRF token, added to every
// rendered form.
type TokenSource func(r *http.Request) render.HiddenField

// Handler serves a single form definition. Every request works on a fresh
// box so concurrent requests never share control state.
type Handler struct {
	def      formdef.Definition
	registry *control.Registry
	renderer render.Renderer
	logger   *zap.Logger

	onValidate controlbox.Callback
	onSubmit   controlbox.Callback
	guard      Guard
	token      TokenSource
	hidden     map[string]string
	options    render.RenderOptions
}

// New builds a handler for def. A renderer is required.
func New(def formdef.Definition, options ...Option) (*Handler, error) {
	if err := def.Check(); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	h := &Handler{def: def, logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	if h.renderer == nil {
		return nil, errors.New("server: renderer is required")
	}
	if h.registry == nil {
		h.registry = control.NewDefaultRegistry()
	}
	// fail fast on definitions the registry cannot build
	if _, err := h.newBox(); err != nil {
		return nil, err
	}
	return h, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.serveForm(w, r)
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		w.Header().Set("Allow", strings.Join([]string{http.MethodGet, http.MethodHead, http.MethodPost}, ", "))
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *Handler) serveForm(w http.ResponseWriter, r *http.Request) {
	box, err := h.newBox()
	if err != nil {
		h.internalError(w, "build form", err)
		return
	}
	h.write(w, r, box, http.StatusOK)
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	if h.guard != nil {
		if err := h.guard(r); err != nil {
			h.logger.Info("server: request rejected by guard", zap.Error(err))
			writeGuardError(w, err)
			return
		}
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, fmt.Sprintf("parse form: %v", err), http.StatusBadRequest)
		return
	}

	box, err := h.newBox()
	if err != nil {
		h.internalError(w, "build form", err)
		return
	}

	action := strings.TrimSpace(r.PostForm.Get(render.ActionField))
	bindErrs := BindValues(box, r.PostForm)

	switch {
	case action == ActionDismiss:
	case len(bindErrs) > 0:
		box.SetError(&controlbox.ValidationError{Errors: bindErrs})
	case action == render.ActionValidate:
		_, err = box.Validate(r.Context())
	default:
		_, err = box.Submit(r.Context())
	}

	var payloadErr *render.PayloadError
	if errors.As(err, &payloadErr) {
		mapping := render.ApplyErrorPayload(box, payloadErr.Payload)
		h.logger.Debug("server: applied error payload",
			zap.Int("fields", len(mapping.Fields)),
			zap.Int("form", len(mapping.Form)))
	}

	status := http.StatusOK
	if box.State() == controlbox.StateErroneous {
		status = http.StatusUnprocessableEntity
	}
	h.logger.Debug("server: form posted",
		zap.String("form_id", box.FormID()),
		zap.String("action", action),
		zap.String("state", box.State().String()),
		zap.Int("status", status),
		zap.NamedError("cause", err))
	h.write(w, r, box, status)
}

func (h *Handler) newBox() (*controlbox.Box, error) {
	opts := []controlbox.Option{controlbox.WithLogger(h.logger)}
	if h.onValidate != nil {
		opts = append(opts, controlbox.WithOnValidate(h.onValidate))
	}
	if h.onSubmit != nil {
		opts = append(opts, controlbox.WithOnSubmit(h.onSubmit))
	}
	box, err := formdef.Build(h.def, h.registry, opts...)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	return box, nil
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, box *controlbox.Box, status int) {
	if wantsJSON(r) {
		h.writeJSON(w, r, box, status)
		return
	}

	opts := h.options
	if opts.Action == "" {
		opts.Action = r.URL.Path
	}
	var extra []render.HiddenField
	if h.token != nil {
		extra = append(extra, h.token(r))
	}
	opts.HiddenFields = render.MergeHiddenFields(h.hidden, extra...)

	body, err := h.renderer.Render(r.Context(), box, opts)
	if err != nil {
		h.internalError(w, "render form", err)
		return
	}
	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

type response struct {
	FormID string              `json:"formId"`
	State  string              `json:"state"`
	Value  map[string]any      `json:"value,omitempty"`
	Error  string              `json:"error,omitempty"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, box *controlbox.Box, status int) {
	payload := response{
		FormID: box.FormID(),
		State:  box.State().String(),
		Value:  box.Value(),
	}
	if err := box.Err(); err != nil {
		payload.Error = err.Error()
		payload.Fields = fieldErrors(box)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func (h *Handler) internalError(w http.ResponseWriter, what string, err error) {
	h.logger.Error("server: "+what, zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// BindValues copies posted values into the box controls that accept text
// input. Missing checkboxes bind as false; other missing fields keep their
// current value. Repeated array fields are joined one item per line.
func BindValues(box *controlbox.Box, values url.Values) []error {
	var errs []error
	for _, c := range box.Controls() {
		binder, ok := c.(control.Binder)
		if !ok {
			continue
		}
		name := c.Name()
		raw, present := values[name]
		kind := control.KindOf(c)
		if !present && kind != control.KindBoolean {
			continue
		}

		var input string
		switch {
		case kind == control.KindArray:
			input = strings.Join(raw, "\n")
		case len(raw) > 0:
			input = raw[len(raw)-1]
		}
		if err := binder.Bind(input); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func fieldErrors(box *controlbox.Box) map[string][]string {
	out := make(map[string][]string)
	for _, c := range box.Controls() {
		holder, ok := c.(control.ErrorHolder)
		if !ok || holder.Err() == nil {
			continue
		}
		var fe *control.FieldError
		if errors.As(holder.Err(), &fe) {
			out[c.Name()] = append(out[c.Name()], fe.ErrorMessage())
			continue
		}
		out[c.Name()] = append(out[c.Name()], holder.Err().Error())
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func writeGuardError(w http.ResponseWriter, err error) {
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
