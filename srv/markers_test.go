package srv

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/webframp/docstracker/feed"
)

type markerSink struct {
	mu      sync.Mutex
	markers []Marker
	paths   []string
	keys    []string
}

func (s *markerSink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var m Marker
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.markers = append(s.markers, m)
	s.paths = append(s.paths, r.URL.Path)
	s.keys = append(s.keys, r.Header.Get("X-Honeycomb-Team"))
	s.mu.Unlock()
	w.WriteHeader(http.StatusCreated)
}

func testMarkerClient(t *testing.T) (*MarkerClient, *markerSink) {
	t.Helper()
	sink := &markerSink{}
	ts := httptest.NewServer(sink)
	t.Cleanup(ts.Close)
	return &MarkerClient{
		apiKey:  "test-key",
		dataset: "docstracker-test",
		baseURL: ts.URL,
		client:  ts.Client(),
	}, sink
}

func TestNewMarkerClient_NoAPIKey(t *testing.T) {
	t.Setenv("HONEYCOMB_API_KEY", "")
	if mc := NewMarkerClient(); mc != nil {
		t.Error("expected nil client without an API key")
	}
}

func TestNewMarkerClient_DatasetDefault(t *testing.T) {
	t.Setenv("HONEYCOMB_API_KEY", "key")
	t.Setenv("OTEL_SERVICE_NAME", "")
	mc := NewMarkerClient()
	if mc == nil || mc.dataset != "docstracker" {
		t.Fatalf("unexpected client: %+v", mc)
	}
}

func TestMarkerClient_NilIsNoop(t *testing.T) {
	var mc *MarkerClient
	mc.CreateMarker(context.Background(), Marker{Message: "x"})
	mc.CreateDeployMarker(context.Background())
	mc.CreateFeedReloadMarker(context.Background(), feed.Snapshot{})
}

func TestCreateFeedReloadMarker(t *testing.T) {
	mc, sink := testMarkerClient(t)
	loadedAt := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	mc.CreateFeedReloadMarker(context.Background(), feed.Snapshot{
		Generation: 3,
		Changes:    make([]feed.ChangeRecord, 2),
		LoadedAt:   loadedAt,
	})

	if len(sink.markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(sink.markers))
	}
	m := sink.markers[0]
	if m.Type != MarkerTypeFeedReload {
		t.Errorf("type = %q", m.Type)
	}
	if m.Message != "Feed generation 3: 2 changes" {
		t.Errorf("message = %q", m.Message)
	}
	if m.StartTime != loadedAt.Unix() {
		t.Errorf("start time = %d, want %d", m.StartTime, loadedAt.Unix())
	}
	if sink.paths[0] != "/1/markers/docstracker-test" {
		t.Errorf("path = %q", sink.paths[0])
	}
	if sink.keys[0] != "test-key" {
		t.Errorf("api key header = %q", sink.keys[0])
	}
}

func TestCreateDeployMarker(t *testing.T) {
	oldVersion, oldSHA := Version, CommitSHA
	Version, CommitSHA = "v1.2.3", "abcdef0123456789"
	t.Cleanup(func() { Version, CommitSHA = oldVersion, oldSHA })

	mc, sink := testMarkerClient(t)
	mc.CreateDeployMarker(context.Background())

	if len(sink.markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(sink.markers))
	}
	if got := sink.markers[0].Message; got != "Deploy v1.2.3 (abcdef0)" {
		t.Errorf("message = %q", got)
	}
	if sink.markers[0].StartTime == 0 {
		t.Error("start time should default to now")
	}
}
