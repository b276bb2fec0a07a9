package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"styleme/internal/domain"
	"styleme/internal/filter"
	"styleme/internal/middleware"
)

type catalogEntry struct {
	Key    string           `json:"key"`
	Kind   domain.StyleKind `json:"style_type"`
	Label  string           `json:"label"`
	Filter string           `json:"filter"`
}

type catalogResponse struct {
	Category domain.StyleCategory `json:"category"`
	Locale   domain.Locale        `json:"locale"`
	Size     int                  `json:"size"`
	Styles   []catalogEntry       `json:"styles"`
}

func (a *App) ListCatalog(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	size := a.Catalog.Size(category)
	count := size
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "count must be an integer")
			return
		}
		count = n
	}
	locale := middleware.LocaleFromContext(r.Context())
	descriptors := a.Catalog.DescriptorsFor(category, count)
	resp := catalogResponse{
		Category: category,
		Locale:   locale,
		Size:     size,
		Styles:   make([]catalogEntry, 0, len(descriptors)),
	}
	for _, d := range descriptors {
		resp.Styles = append(resp.Styles, catalogEntry{
			Key:    d.Key,
			Kind:   d.Kind,
			Label:  d.Labels.In(locale),
			Filter: filter.Format(d.Filter),
		})
	}
	a.json(w, http.StatusOK, resp)
}
