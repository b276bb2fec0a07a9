package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"styleme/internal/domain"
)

var testSource = domain.SourceImage{ID: "src", Data: []byte{0x89, 'P', 'N', 'G'}, MIME: "image/png", Width: 1, Height: 1}

func newTestHTTPClient(t *testing.T, srv *httptest.Server, timeout time.Duration) *HTTPClient {
	t.Helper()
	c, err := NewHTTPClient(HTTPOptions{BaseURL: srv.URL + "/", Timeout: timeout, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("NewHTTPClient() error = %v", err)
	}
	return c
}

func TestRequestStyleSuccess(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ai/generate_hairstyle" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"generated_image": "https://cdn.example.com/out.png"})
	}))
	defer srv.Close()

	res := newTestHTTPClient(t, srv, time.Second).RequestStyle(context.Background(), testSource, "short fade")
	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	if res.ImageURL != "https://cdn.example.com/out.png" {
		t.Fatalf("image url = %q", res.ImageURL)
	}
	if _, ok := res.Image(); ok {
		t.Fatalf("url answers carry no inline bytes")
	}
	if got.Prompt != "short fade" || !strings.HasPrefix(got.Image, "data:image/png;base64,") {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestRequestStyleDataURIAnswer(t *testing.T) {
	uri := domain.EncodeDataURI("image/jpeg", []byte{1, 2, 3})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"generated_image": uri})
	}))
	defer srv.Close()

	res := newTestHTTPClient(t, srv, time.Second).RequestStyle(context.Background(), testSource, "p")
	img, ok := res.Image()
	if !ok || img.MIME != "image/jpeg" || len(img.Data) != 3 {
		t.Fatalf("unexpected inline image %+v ok=%v", img, ok)
	}
}

func TestRequestStyleFailuresAreNormalized(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		reason  string
	}{
		{
			name: "error status with payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`{"error":"model offline"}`))
			},
			reason: "status 502: model offline",
		},
		{
			name: "error status without payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`<html>oops</html>`))
			},
			reason: "status 500",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
			reason: "malformed response",
		},
		{
			name: "error field on 200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"error":"no face detected"}`))
			},
			reason: "no face detected",
		},
		{
			name: "missing image",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{}`))
			},
			reason: "response carried no image",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			res := newTestHTTPClient(t, srv, time.Second).RequestStyle(context.Background(), testSource, "p")
			if res.OK() || res.Err == nil {
				t.Fatalf("expected failure, got %+v", res)
			}
			if !strings.Contains(res.Err.Reason, tc.reason) {
				t.Fatalf("reason = %q, want it to contain %q", res.Err.Reason, tc.reason)
			}
		})
	}
}

func TestRequestStyleTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	res := newTestHTTPClient(t, srv, 50*time.Millisecond).RequestStyle(context.Background(), testSource, "p")
	if res.Err == nil || res.Err.Reason != "timeout" {
		t.Fatalf("expected timeout failure, got %+v", res)
	}
}

func TestRequestStyleUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := newTestHTTPClient(t, srv, time.Second)
	srv.Close()
	if res := c.RequestStyle(context.Background(), testSource, "p"); res.Err == nil {
		t.Fatalf("expected failure against a closed server")
	}
}

func TestModifyAndHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/ai/modify_hairstyle":
			var req modifyRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.ModificationPrompt != "shorter sides" {
				t.Errorf("modification prompt = %q", req.ModificationPrompt)
			}
			_, _ = w.Write([]byte(`{"modified_image":"https://cdn.example.com/mod.png"}`))
		case "/api/ai/health":
			_, _ = w.Write([]byte(`{"status":"healthy","deepface_available":false,"hair_model_available":true,"message":"ready"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newTestHTTPClient(t, srv, time.Second)
	if res := c.Modify(context.Background(), testSource, "shorter sides"); res.ImageURL != "https://cdn.example.com/mod.png" {
		t.Fatalf("modify result = %+v", res)
	}
	status, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if !status.Healthy() || !status.HairModelAvailable || status.DeepfaceAvailable {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestNewHTTPClientRequiresBaseURL(t *testing.T) {
	if _, err := NewHTTPClient(HTTPOptions{}); err == nil {
		t.Fatalf("expected error without base url")
	}
}

func TestDisabledAlwaysFails(t *testing.T) {
	res := Disabled{}.RequestStyle(context.Background(), testSource, "p")
	if res.OK() || res.Err.Reason != "disabled" {
		t.Fatalf("unexpected result %+v", res)
	}
}
