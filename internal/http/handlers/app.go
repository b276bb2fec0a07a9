package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"styleme/internal/capture"
	"styleme/internal/catalog"
	"styleme/internal/domain"
	"styleme/internal/handoff"
	"styleme/internal/middleware"
	"styleme/internal/remote"
	"styleme/internal/session"
)

// DefaultBatchSize is used when a generate request omits count.
const DefaultBatchSize = 6

type App struct {
	Logger          zerolog.Logger
	Catalog         *catalog.Catalog
	Sessions        *session.Registry
	Capture         *capture.Adapter
	Remote          remote.Client
	Handoff         handoff.Store
	GenerateTimeout time.Duration
	// RequireOwner rejects handoff reads for other users once auth is on.
	RequireOwner bool

	// background is the parent of detached generations; cancelled on Close.
	background context.Context
	stop       context.CancelFunc
	upgrader   websocket.Upgrader
}

func NewApp(app App) *App {
	a := app
	if a.Catalog == nil {
		a.Catalog = catalog.Default()
	}
	if a.Remote == nil {
		a.Remote = remote.Disabled{}
	}
	if a.GenerateTimeout <= 0 {
		a.GenerateTimeout = 10 * time.Minute
	}
	a.background, a.stop = context.WithCancel(context.Background())
	a.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
	return &a
}

// Close cancels generations started in the background.
func (a *App) Close() {
	if a.stop != nil {
		a.stop()
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// fail maps a domain error onto the HTTP error envelope.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrPayloadTooLarge):
		status, code = http.StatusRequestEntityTooLarge, "payload_too_large"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		status, code = http.StatusUnsupportedMediaType, "unsupported_format"
	case errors.Is(err, domain.ErrImageDecode):
		status, code = http.StatusUnprocessableEntity, "image_decode"
	case errors.Is(err, domain.ErrUnknownCategory):
		status, code = http.StatusUnprocessableEntity, "unknown_category"
	case errors.Is(err, domain.ErrNoStylesAvailable):
		status, code = http.StatusUnprocessableEntity, "no_styles_available"
	case errors.Is(err, domain.ErrInvalidSelection):
		status, code = http.StatusNotFound, "invalid_selection"
	case errors.Is(err, domain.ErrNoSelection):
		status, code = http.StatusConflict, "no_selection"
	case errors.Is(err, domain.ErrNoSource):
		status, code = http.StatusConflict, "no_source"
	case errors.Is(err, domain.ErrStaleGeneration):
		status, code = http.StatusConflict, "superseded"
	case errors.Is(err, domain.ErrCaptureUnavailable):
		status, code = http.StatusServiceUnavailable, "capture_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusGatewayTimeout, "timeout"
	}
	if status >= http.StatusInternalServerError {
		a.Logger.Error().Err(err).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
		a.error(w, status, code, "internal error")
		return
	}
	a.error(w, status, code, err.Error())
}

// session resolves {id} and hides sessions owned by someone else.
func (a *App) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := a.Sessions.Get(chi.URLParam(r, "id"))
	if err == nil && sess.Owner() != "" && sess.Owner() != a.currentUserID(r) {
		err = domain.ErrSessionNotFound
	}
	if err != nil {
		a.fail(w, r, err)
		return nil, false
	}
	return sess, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
