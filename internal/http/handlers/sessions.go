package handlers

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"styleme/internal/domain"
	"styleme/internal/middleware"
	"styleme/internal/session"
)

type generateRequest struct {
	Category string `json:"category"`
	Count    *int   `json:"count"`
}

type selectRequest struct {
	StyleID string `json:"style_id"`
}

type confirmRequest struct {
	Notes string `json:"notes"`
}

func (a *App) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := a.Sessions.Create(a.currentUserID(r))
	a.Logger.Info().
		Str("session_id", sess.ID()).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Msg("session created")
	a.json(w, http.StatusCreated, sess.Snapshot())
}

func (a *App) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, sess.Snapshot())
}

func (a *App) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	if err := a.Sessions.Delete(r.Context(), sess.ID()); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage accepts either a raw image body or a multipart form with an
// "image" field.
func (a *App) UploadImage(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	body, err := uploadBody(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	defer body.Close()

	img, err := a.Capture.ReadUpload(body)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	sess.SetSource(img)
	a.json(w, http.StatusOK, sess.Snapshot())
}

func uploadBody(r *http.Request) (io.ReadCloser, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "multipart/") {
		return r.Body, nil
	}
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, errors.New(`multipart field "image" is required`)
		}
		if err != nil {
			return nil, err
		}
		if part.FormName() == "image" {
			return part, nil
		}
		_ = part.Close()
	}
}

// Generate starts a batch for the session. It answers 202 right away and
// the client follows progress over the websocket or by polling the session;
// with ?wait=true it blocks and returns the batch.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	count := DefaultBatchSize
	if req.Count != nil {
		if *req.Count < 1 {
			a.error(w, http.StatusBadRequest, "bad_request", "count must be at least 1")
			return
		}
		count = *req.Count
	}
	if a.Catalog.Size(category) == 0 {
		a.fail(w, r, domain.ErrNoStylesAvailable)
		return
	}
	if sess.Snapshot().Source == nil {
		a.fail(w, r, domain.ErrNoSource)
		return
	}

	if r.URL.Query().Get("wait") == "true" {
		ctx, cancel := context.WithTimeout(r.Context(), a.GenerateTimeout)
		defer cancel()
		batch, err := sess.Generate(ctx, category, count, nil)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		a.json(w, http.StatusOK, map[string]any{"styles": batch, "session": sess.Snapshot()})
		return
	}

	go a.runGeneration(sess, category, count)
	a.json(w, http.StatusAccepted, map[string]any{
		"session_id": sess.ID(),
		"status":     session.StatusGenerating,
		"progress":   "/v1/sessions/" + sess.ID() + "/progress",
	})
}

func (a *App) runGeneration(sess *session.Session, category domain.StyleCategory, count int) {
	ctx, cancel := context.WithTimeout(a.background, a.GenerateTimeout)
	defer cancel()
	logger := a.Logger.With().Str("session_id", sess.ID()).Str("category", string(category)).Logger()
	batch, err := sess.Generate(ctx, category, count, nil)
	switch {
	case errors.Is(err, domain.ErrStaleGeneration):
		logger.Debug().Msg("generation superseded")
	case err != nil:
		logger.Warn().Err(err).Msg("generation failed")
	default:
		logger.Info().Int("count", len(batch)).Msg("generation finished")
	}
}

func (a *App) Select(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.StyleID) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "style_id is required")
		return
	}
	if err := sess.Select(req.StyleID); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, sess.Snapshot())
}

func (a *App) Modify(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	var adj domain.Adjustment
	if err := decodeJSON(w, r, &adj); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), a.GenerateTimeout)
	defer cancel()
	style, err := sess.Modify(ctx, adj)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, style)
}

func (a *App) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	favorite, err := sess.ToggleFavorite(chi.URLParam(r, "styleID"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"favorite":  favorite,
		"favorites": sess.Favorites(),
	})
}

func (a *App) Confirm(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	var req confirmRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	rec, err := sess.Confirm(r.Context(), strings.TrimSpace(req.Notes))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"handoff_key": sess.HandoffKey(),
		"selection":   rec,
	})
}

func (a *App) Reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	if err := sess.Reset(r.Context()); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, sess.Snapshot())
}
