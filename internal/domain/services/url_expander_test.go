package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"elderguard/pkg/logger"
)

func TestURLExpander_Expand(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/short", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/hop", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/hop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusFound)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("landing"))
	})
	mux.HandleFunc("/app", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "tg://resolve?domain=scam")
		w.WriteHeader(http.StatusFound)
	})
	mux.HandleFunc("/nohead", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			hj, ok := w.(http.Hijacker)
			if ok {
				conn, _, _ := hj.Hijack()
				_ = conn.Close()
				return
			}
		}
		http.Redirect(w, r, "/final", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	e := NewURLExpander(logger.Nop())

	tests := []struct {
		name         string
		url          string
		wantURL      string
		wantExpanded bool
	}{
		{"redirect chain", srv.URL + "/short", srv.URL + "/final", true},
		{"no redirect", srv.URL + "/final", srv.URL + "/final", false},
		{"redirect to app scheme stops", srv.URL + "/app", srv.URL + "/app", false},
		{"HEAD failure falls back to GET", srv.URL + "/nohead", srv.URL + "/final", true},
		{"non-http scheme", "javascript:alert(1)", "javascript:alert(1)", false},
		{"unreachable", "http://127.0.0.1:1/x", "http://127.0.0.1:1/x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Expand(context.Background(), tt.url)
			if got.OriginalURL != tt.url {
				t.Errorf("OriginalURL = %q", got.OriginalURL)
			}
			if got.ExpandedURL != tt.wantURL || got.WasExpanded != tt.wantExpanded {
				t.Errorf("Expand() = %+v, want %q expanded=%v", got, tt.wantURL, tt.wantExpanded)
			}
		})
	}
}
