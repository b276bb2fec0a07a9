package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"styleme/internal/handoff"
)

// anonymousOwner addresses the shared selectedStyle key.
const anonymousOwner = "_"

func (a *App) handoffKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner := chi.URLParam(r, "owner")
	if owner == anonymousOwner {
		owner = ""
	}
	if a.RequireOwner {
		user := a.currentUserID(r)
		if user == "" {
			a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
			return "", false
		}
		if owner != user {
			a.error(w, http.StatusForbidden, "forbidden", "handoff belongs to another user")
			return "", false
		}
	}
	return handoff.Key(owner), true
}

// GetHandoff lets the booking flow read the confirmed selection. With
// ?consume=true the record is removed in the same step.
func (a *App) GetHandoff(w http.ResponseWriter, r *http.Request) {
	key, ok := a.handoffKey(w, r)
	if !ok {
		return
	}
	load := handoff.Load
	if r.URL.Query().Get("consume") == "true" {
		load = handoff.Consume
	}
	rec, err := load(r.Context(), a.Handoff, key)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, rec)
}

func (a *App) DeleteHandoff(w http.ResponseWriter, r *http.Request) {
	key, ok := a.handoffKey(w, r)
	if !ok {
		return
	}
	if err := a.Handoff.Clear(r.Context(), key); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
