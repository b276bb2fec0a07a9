// Package zip bundles generated styles into a downloadable archive.
package zip

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
)

type Asset struct {
	Filename string
	MIME     string
	Data     []byte
}

// WriteArchive streams assets into w. PNG and JPEG payloads are already
// compressed and are stored as-is.
func WriteArchive(w io.Writer, assets []Asset, modified time.Time) error {
	zw := zip.NewWriter(w)
	seen := make(map[string]int, len(assets))
	for _, asset := range assets {
		name := asset.Filename
		if n := seen[name]; n > 0 {
			name = fmt.Sprintf("%d-%s", n, name)
		}
		seen[asset.Filename]++
		method := zip.Deflate
		switch asset.MIME {
		case "image/png", "image/jpeg", "image/webp", "image/gif":
			method = zip.Store
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method, Modified: modified})
		if err != nil {
			return fmt.Errorf("zip: create %s: %w", name, err)
		}
		if _, err := fw.Write(asset.Data); err != nil {
			return fmt.Errorf("zip: write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("zip: close: %w", err)
	}
	return nil
}

// ArchiveAssets builds the archive in memory.
func ArchiveAssets(assets []Asset) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := WriteArchive(buf, assets, time.Now().UTC()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
