package infra

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestHTTPServerStartAndShutdown(t *testing.T) {
	cfg := &Config{Port: "0", HTTPReadTimeout: time.Second, HTTPWriteTimeout: time.Second, HTTPIdleTimeout: time.Second}
	srv := NewHTTPServer(cfg, http.NotFoundHandler())
	if srv.Addr() != ":0" {
		t.Fatalf("Addr() = %q", srv.Addr())
	}

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start() returned %v after shutdown", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return")
	}
}
