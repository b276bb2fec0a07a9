package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"styleme/internal/domain"
	"styleme/pkg/zip"
)

// StylesArchive downloads the current batch as a zip: one image per style
// plus styles.json. Styles the remote only returned as a URL appear in the
// manifest without an image file.
func (a *App) StylesArchive(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	batch := sess.Batch()
	if len(batch) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no generated styles")
		return
	}
	assets := make([]zip.Asset, 0, len(batch)+1)
	for _, style := range batch {
		img, ok := styleImage(style)
		if !ok {
			continue
		}
		assets = append(assets, zip.Asset{
			Filename: fmt.Sprintf("%s%s", style.ID, extension(img.MIME)),
			MIME:     img.MIME,
			Data:     img.Data,
		})
	}
	manifest, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	assets = append(assets, zip.Asset{Filename: "styles.json", MIME: "application/json", Data: manifest})

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="styles-%s.zip"`, sess.ID()))
	if err := zip.WriteArchive(w, assets, time.Now().UTC()); err != nil {
		a.Logger.Error().Err(err).Str("session_id", sess.ID()).Msg("write archive")
	}
}

func styleImage(style domain.GeneratedStyle) (domain.Image, bool) {
	if style.Image != nil && len(style.Image.Data) > 0 {
		return *style.Image, true
	}
	if mime, data, ok := domain.DecodeDataURI(style.ImageURL); ok && len(data) > 0 {
		return domain.Image{MIME: mime, Data: data}, true
	}
	return domain.Image{}, false
}

func extension(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
