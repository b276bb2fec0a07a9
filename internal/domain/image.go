package domain

import (
	"encoding/base64"
	"strings"
)

// SourceImage is the photo a session works from. It is produced once by the
// capture adapter and treated as read-only afterwards.
type SourceImage struct {
	ID     string
	Data   []byte
	MIME   string
	Format string
	Width  int
	Height int
}

// Empty reports whether the image carries no bytes.
func (s SourceImage) Empty() bool {
	return len(s.Data) == 0
}

// DataURI encodes the image as a data: URI.
func (s SourceImage) DataURI() string {
	return EncodeDataURI(s.MIME, s.Data)
}

// Image is a rendered raster produced by the filter engine.
type Image struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// DataURI encodes the image as a data: URI.
func (i Image) DataURI() string {
	return EncodeDataURI(i.MIME, i.Data)
}

// EncodeDataURI builds a base64 data URI, defaulting the MIME type to PNG.
func EncodeDataURI(mime string, data []byte) string {
	mime = strings.TrimSpace(mime)
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI splits a base64 data URI into its MIME type and payload. The
// boolean is false when the value is not a base64 data URI.
func DecodeDataURI(uri string) (string, []byte, bool) {
	uri = strings.TrimSpace(uri)
	if !strings.HasPrefix(uri, "data:") {
		return "", nil, false
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return "", nil, false
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, false
	}
	return strings.TrimSuffix(header, ";base64"), data, true
}
