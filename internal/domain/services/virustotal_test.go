package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"elderguard/internal/domain/models"
	"elderguard/internal/infrastructure/cache"
	"elderguard/pkg/logger"
)

type fakeVT struct {
	submits  atomic.Int32
	analyses atomic.Int32
	// stats returned per analysis read; the last entry repeats
	responses []string
	status    int
}

func (f *fakeVT) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("x-apikey") != "test-key" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":{"code":"QuotaExceededError"}}`))
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/urls":
		f.submits.Add(1)
		if err := r.ParseForm(); err != nil || r.PostForm.Get("url") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"type":"analysis","id":"u-abc-123"}}`))
	case r.Method == http.MethodGet && r.URL.Path == "/analyses/u-abc-123":
		n := int(f.analyses.Add(1)) - 1
		if n >= len(f.responses) {
			n = len(f.responses) - 1
		}
		_, _ = w.Write([]byte(f.responses[n]))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

const (
	vtQueued    = `{"data":{"attributes":{"status":"queued","stats":{"malicious":0,"suspicious":0,"harmless":0,"undetected":0}}}}`
	vtClean     = `{"data":{"attributes":{"status":"completed","stats":{"malicious":1,"suspicious":0,"harmless":72,"undetected":20}}}}`
	vtMalicious = `{"data":{"attributes":{"status":"completed","stats":{"malicious":15,"suspicious":2,"harmless":20,"undetected":30}}}}`
)

func newTestVT(t *testing.T, f *fakeVT, c *cache.RedisCache) *VirusTotalClient {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	vt := NewVirusTotalClient(VirusTotalOptions{
		APIKey:   "test-key",
		BaseURL:  srv.URL,
		Timeout:  2 * time.Second,
		CacheTTL: time.Hour,
	}, c, logger.Nop())
	vt.pendingWait = 10 * time.Millisecond
	return vt
}

func TestVirusTotalClient_ScanURL(t *testing.T) {
	tests := []struct {
		name       string
		responses  []string
		wantReads  int32
		wantLevel  models.RiskLevel
		wantSafe   bool
		wantStatus string
	}{
		{"immediate clean", []string{vtClean}, 1, models.RiskSafe, true, "completed"},
		{"immediate malicious", []string{vtMalicious}, 1, models.RiskScam, false, "completed"},
		{"pending then completed", []string{vtQueued, vtMalicious}, 2, models.RiskScam, false, "queued"},
		{"still pending after wait", []string{vtQueued, vtQueued}, 2, models.RiskSafe, true, "queued"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeVT{responses: tt.responses}
			vt := newTestVT(t, f, nil)

			scan, err := vt.ScanURL(context.Background(), "http://evil.test/x")
			if err != nil {
				t.Fatalf("ScanURL() error = %v", err)
			}
			if scan.AnalysisID != "u-abc-123" {
				t.Errorf("AnalysisID = %q", scan.AnalysisID)
			}
			if scan.RiskLevel != tt.wantLevel || scan.IsSafe != tt.wantSafe {
				t.Errorf("scan = %+v, want level %q safe %v", scan, tt.wantLevel, tt.wantSafe)
			}
			if scan.AnalysisStatus != tt.wantStatus {
				t.Errorf("AnalysisStatus = %q, want %q", scan.AnalysisStatus, tt.wantStatus)
			}
			if got := f.analyses.Load(); got != tt.wantReads {
				t.Errorf("analysis reads = %d, want %d", got, tt.wantReads)
			}
			if f.submits.Load() != 1 {
				t.Errorf("submits = %d, want 1", f.submits.Load())
			}
		})
	}
}

func TestVirusTotalClient_NotConfigured(t *testing.T) {
	vt := NewVirusTotalClient(VirusTotalOptions{}, nil, logger.Nop())
	if vt.Configured() {
		t.Fatal("Configured() = true without key")
	}
	if _, err := vt.ScanURL(context.Background(), "https://a.test"); !errors.Is(err, ErrReputationNotConfigured) {
		t.Errorf("ScanURL() error = %v, want ErrReputationNotConfigured", err)
	}
}

func TestVirusTotalClient_UpstreamError(t *testing.T) {
	vt := newTestVT(t, &fakeVT{status: http.StatusTooManyRequests}, nil)

	_, err := vt.ScanURL(context.Background(), "https://a.test")
	var statusErr *CollaboratorStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("ScanURL() error = %v, want 429 status error", err)
	}
}

func TestVirusTotalClient_PendingRespectsContext(t *testing.T) {
	vt := newTestVT(t, &fakeVT{responses: []string{vtQueued}}, nil)
	vt.pendingWait = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := vt.ScanURL(ctx, "https://a.test"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("ScanURL() error = %v, want deadline exceeded", err)
	}
}

func TestVirusTotalClient_Cache(t *testing.T) {
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(s.Close)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	rc := cache.NewFromClient(client, "test:", logger.Nop())

	f := &fakeVT{responses: []string{vtMalicious}}
	vt := newTestVT(t, f, rc)
	ctx := context.Background()

	first, err := vt.ScanURL(ctx, "http://evil.test/x")
	if err != nil {
		t.Fatalf("ScanURL() error = %v", err)
	}
	if first.Cached {
		t.Error("first scan reported as cached")
	}
	if !s.Exists("test:" + cache.URLScanKey("http://evil.test/x")) {
		t.Fatal("completed scan not cached")
	}

	second, err := vt.ScanURL(ctx, "http://evil.test/x")
	if err != nil {
		t.Fatalf("ScanURL() error = %v", err)
	}
	if !second.Cached || second.RiskLevel != models.RiskScam {
		t.Errorf("second scan = %+v", second)
	}
	if f.submits.Load() != 1 {
		t.Errorf("submits = %d, want 1", f.submits.Load())
	}
}

func TestVirusTotalClient_PendingNotCached(t *testing.T) {
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(s.Close)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	vt := newTestVT(t, &fakeVT{responses: []string{vtQueued}}, cache.NewFromClient(client, "test:", logger.Nop()))

	if _, err := vt.ScanURL(context.Background(), "https://slow.test"); err != nil {
		t.Fatalf("ScanURL() error = %v", err)
	}
	if len(s.Keys()) != 0 {
		t.Errorf("pending scan cached: %v", s.Keys())
	}
}

func TestVirusTotalClient_UnreadableCacheEntryDropped(t *testing.T) {
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(s.Close)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	key := "test:" + cache.URLScanKey("https://slow.test")
	if err := s.Set(key, "{not json"); err != nil {
		t.Fatal(err)
	}

	f := &fakeVT{responses: []string{vtQueued}}
	vt := newTestVT(t, f, cache.NewFromClient(client, "test:", logger.Nop()))

	scan, err := vt.ScanURL(context.Background(), "https://slow.test")
	if err != nil {
		t.Fatalf("ScanURL() error = %v", err)
	}
	if scan.Cached {
		t.Error("unreadable entry served as cached")
	}
	if f.submits.Load() != 1 {
		t.Errorf("submits = %d, want 1", f.submits.Load())
	}
	if s.Exists(key) {
		t.Error("unreadable cache entry was not removed")
	}
}
