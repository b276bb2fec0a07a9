package handlers

import (
	"context"
	"net/http"
	"time"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := map[string]any{
		"status":   "ok",
		"remote":   a.Remote.Name(),
		"sessions": a.Sessions.Len(),
	}
	health, err := a.Remote.Health(ctx)
	if err != nil {
		// generation still works through the local filters
		resp["remote_status"] = "unavailable"
		resp["remote_error"] = err.Error()
	} else {
		resp["remote_status"] = health.Status
		resp["remote_health"] = health
	}
	a.json(w, http.StatusOK, resp)
}
