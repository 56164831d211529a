package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bobmcallan/langsmith-mcp/internal/common"
	"github.com/bobmcallan/langsmith-mcp/internal/config"
	"github.com/bobmcallan/langsmith-mcp/internal/tools"
)

func testConfig(endpoint, apiKey string) *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.LangSmith.Endpoint = endpoint
	cfg.LangSmith.APIKey = apiKey
	cfg.Cache.TTLSeconds = 0
	return cfg
}

func newTestGateway(endpoint, apiKey string) *Gateway {
	return NewGateway(testConfig(endpoint, apiKey), common.NewSilentLogger())
}

func infoServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/info" {
			hits.Add(1)
			w.Write([]byte(`{"version":"test"}`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGateway_NoCredentialFailsFast(t *testing.T) {
	// The endpoint must never be contacted without a credential.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend contacted despite missing credential")
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL, "")

	_, err := gw.ListDatasets(context.Background(), DatasetFilter{})
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if tools.KindOf(err) != tools.KindConfiguration {
		t.Errorf("expected configuration kind, got %s", tools.KindOf(err))
	}
	if gw.State() != StateFailed {
		t.Errorf("expected failed state, got %s", gw.State())
	}

	// Every subsequent domain operation fails the same way, no network.
	if _, err := gw.QueryRuns(context.Background(), RunQuery{}); tools.KindOf(err) != tools.KindConfiguration {
		t.Errorf("expected configuration kind on later call, got %v", err)
	}
	if _, err := gw.GetPrompt(context.Background(), "-", "p"); tools.KindOf(err) != tools.KindConfiguration {
		t.Errorf("expected configuration kind on later call, got %v", err)
	}
}

func TestGateway_EnsureReadyIdempotent(t *testing.T) {
	var hits atomic.Int32
	srv := infoServer(t, &hits)

	gw := newTestGateway(srv.URL, "test-key")

	for i := 0; i < 5; i++ {
		if _, err := gw.EnsureReady(context.Background()); err != nil {
			t.Fatalf("EnsureReady call %d failed: %v", i, err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("expected exactly 1 handshake, got %d", got)
	}
	if gw.State() != StateReady {
		t.Errorf("expected ready state, got %s", gw.State())
	}
}

func TestGateway_ConcurrentFirstUseSingleHandshake(t *testing.T) {
	var hits atomic.Int32
	srv := infoServer(t, &hits)

	gw := newTestGateway(srv.URL, "test-key")

	const n = 16
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = gw.EnsureReady(context.Background())
		}(i)
	}
	wg.Wait()

	if got := hits.Load(); got != 1 {
		t.Errorf("expected exactly 1 handshake across %d concurrent callers, got %d", n, got)
	}
	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d: unexpected error: %v", i, err)
		}
	}
	if gw.State() != StateReady {
		t.Errorf("expected ready state, got %s", gw.State())
	}
}

func TestGateway_ConcurrentFirstUseFailedHandshake(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL, "test-key")

	const n = 10
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = gw.EnsureReady(context.Background())
		}(i)
	}
	wg.Wait()

	if got := hits.Load(); got != 1 {
		t.Errorf("expected exactly 1 handshake attempt, got %d", got)
	}
	for i, err := range errs {
		if err == nil {
			t.Errorf("caller %d: expected error", i)
			continue
		}
		if tools.KindOf(err) != tools.KindConfiguration {
			t.Errorf("caller %d: expected configuration kind, got %s", i, tools.KindOf(err))
		}
	}
	if gw.State() != StateFailed {
		t.Errorf("expected failed state, got %s", gw.State())
	}

	// Failed is terminal: no retry happens on later calls.
	gw.EnsureReady(context.Background())
	if got := hits.Load(); got != 1 {
		t.Errorf("expected no retry after permanent failure, got %d attempts", got)
	}
}

func TestGateway_PassThroughAfterReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/info":
			w.Write([]byte(`{}`))
		case "/datasets":
			w.Write([]byte(`[{"id":"d1","name":"first"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL, "test-key")

	datasets, err := gw.ListDatasets(context.Background(), DatasetFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(datasets) != 1 || datasets[0].ID != "d1" {
		t.Errorf("unexpected datasets: %+v", datasets)
	}
}

func TestGateway_AbandonedFirstCallDoesNotPoison(t *testing.T) {
	var hits atomic.Int32
	srv := infoServer(t, &hits)

	gw := newTestGateway(srv.URL, "key")

	// The caller walks away before the handshake starts.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := gw.EnsureReady(ctx); err != nil {
		t.Fatalf("canceled caller must not fail a healthy gateway: %v", err)
	}

	if gw.State() != StateReady {
		t.Fatalf("expected ready state, got %s", gw.State())
	}
	if _, err := gw.EnsureReady(context.Background()); err != nil {
		t.Errorf("later callers must see the ready gateway: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("expected exactly one handshake, got %d", hits.Load())
	}
}
