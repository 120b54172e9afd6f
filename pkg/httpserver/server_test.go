package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rmcole/binscan/pkg/healthprobe"
	"github.com/rmcole/binscan/pkg/types"
	"go.uber.org/zap"
)

type fakeSnapshotSource struct {
	snapshot types.OpportunitiesSnapshot
}

func (f fakeSnapshotSource) Snapshot() types.OpportunitiesSnapshot { return f.snapshot }

type fakePairsSource struct {
	pairs []types.MarketPair
}

func (f fakePairsSource) MarketPairs() []types.MarketPair { return f.pairs }

func TestHealthAndReadyEndpoints(t *testing.T) {
	logger := zap.NewNop()
	hc := healthprobe.New()

	server := New(&Config{Port: "0", Logger: logger, HealthChecker: hc})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.server.Handler.ServeHTTP(w, req)
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", w.Result().StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/ready", nil)
	w = httptest.NewRecorder()
	server.server.Handler.ServeHTTP(w, req)
	if w.Result().StatusCode != http.StatusServiceUnavailable {
		t.Errorf("ready status before SetReady = %d, want 503", w.Result().StatusCode)
	}

	hc.SetReady(true)
	req = httptest.NewRequest(http.MethodGet, "/ready", nil)
	w = httptest.NewRecorder()
	server.server.Handler.ServeHTTP(w, req)
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("ready status after SetReady = %d, want 200", w.Result().StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := New(&Config{Port: "0", Logger: zap.NewNop(), HealthChecker: healthprobe.New()})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	server.server.Handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("metrics status = %d, want 200", w.Result().StatusCode)
	}
}

func TestSnapshotEndpoint(t *testing.T) {
	want := types.OpportunitiesSnapshot{
		Opportunities: []types.OpportunityDTO{{ID: "a:b", EventName: "Test Event"}},
		ScannedAt:     time.Now(),
		TotalCount:    1,
	}

	server := New(&Config{
		Port:           "0",
		Logger:         zap.NewNop(),
		HealthChecker:  healthprobe.New(),
		SnapshotSource: fakeSnapshotSource{snapshot: want},
	})

	req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
	w := httptest.NewRecorder()
	server.server.Handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("snapshot status = %d, want 200", w.Result().StatusCode)
	}

	var got types.OpportunitiesSnapshot
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if got.TotalCount != 1 || len(got.Opportunities) != 1 || got.Opportunities[0].EventName != "Test Event" {
		t.Errorf("unexpected snapshot body: %+v", got)
	}
}

func TestPairsEndpoint(t *testing.T) {
	pairs := []types.MarketPair{
		{
			Matched: types.MatchedPair{
				Name: "Test Event", Category: "test",
				VenueAIdentifier: "test-event", VenueBIdentifier: "TESTEVENT",
				MatchType: types.MatchStatic,
			},
			Confidence: 1.0,
			Spread:     0.05,
		},
	}

	server := New(&Config{
		Port:           "0",
		Logger:         zap.NewNop(),
		HealthChecker:  healthprobe.New(),
		SnapshotSource: fakeSnapshotSource{},
		PairsSource:    fakePairsSource{pairs: pairs},
	})

	req := httptest.NewRequest(http.MethodGet, "/pairs", nil)
	w := httptest.NewRecorder()
	server.server.Handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("pairs status = %d, want 200", w.Result().StatusCode)
	}

	var got []pairDTO
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode pairs: %v", err)
	}
	if len(got) != 1 || got[0].VenueBIdentifier != "TESTEVENT" {
		t.Errorf("unexpected pairs body: %+v", got)
	}
}

func TestSnapshotEndpoint_AbsentWithoutSource(t *testing.T) {
	server := New(&Config{Port: "0", Logger: zap.NewNop(), HealthChecker: healthprobe.New()})

	req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
	w := httptest.NewRecorder()
	server.server.Handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("snapshot without a source status = %d, want 404", w.Result().StatusCode)
	}
}

func TestRouteNotFound(t *testing.T) {
	server := New(&Config{Port: "0", Logger: zap.NewNop(), HealthChecker: healthprobe.New()})

	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	w := httptest.NewRecorder()
	server.server.Handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", w.Result().StatusCode)
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	server := New(&Config{Port: "0", Logger: zap.NewNop(), HealthChecker: healthprobe.New()})

	done := make(chan error, 1)
	go func() { done <- server.Start() }()

	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() returned error after shutdown: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after shutdown")
	}
}
