package session

import (
	"time"

	"styleme/internal/domain"
)

// SourceView describes the source photo without its bytes.
type SourceView struct {
	ID     string `json:"id"`
	MIME   string `json:"mime"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// View is a point-in-time read model of a session.
type View struct {
	ID         string                  `json:"id"`
	Owner      string                  `json:"owner,omitempty"`
	Status     Status                  `json:"status"`
	Progress   int                     `json:"progress"`
	Category   domain.StyleCategory    `json:"category,omitempty"`
	Source     *SourceView             `json:"source,omitempty"`
	Styles     []domain.GeneratedStyle `json:"styles"`
	SelectedID string                  `json:"selected_id,omitempty"`
	Favorites  []string                `json:"favorites"`
	Selection  *domain.SelectionRecord `json:"selection,omitempty"`
	Error      string                  `json:"error,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
}

// Snapshot returns the current view.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{
		ID:         s.id,
		Owner:      s.owner,
		Status:     s.status,
		Progress:   s.progress,
		Category:   s.category,
		Styles:     cloneBatch(s.batch),
		SelectedID: s.selectedID,
		Favorites:  s.favoritesLocked(),
		Error:      s.lastErr,
		CreatedAt:  s.created,
	}
	if v.Styles == nil {
		v.Styles = []domain.GeneratedStyle{}
	}
	if s.source != nil {
		v.Source = &SourceView{ID: s.source.ID, MIME: s.source.MIME, Width: s.source.Width, Height: s.source.Height}
	}
	if s.record != nil {
		rec := *s.record
		v.Selection = &rec
	}
	return v
}
