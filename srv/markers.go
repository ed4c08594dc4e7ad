package srv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/webframp/docstracker/feed"
)

// Marker types for grouping in Honeycomb UI
const (
	MarkerTypeDeploy     = "deploy"
	MarkerTypeFeedReload = "feed-reload"
)

// Build-time variables (set via -ldflags)
var (
	Version   = "dev"
	CommitSHA = "unknown"
)

const honeycombAPI = "https://api.honeycomb.io"

// Marker represents a Honeycomb marker
type Marker struct {
	StartTime int64  `json:"start_time"`
	EndTime   int64  `json:"end_time,omitempty"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	URL       string `json:"url,omitempty"`
}

// MarkerClient handles communication with Honeycomb Markers API
type MarkerClient struct {
	apiKey  string
	dataset string
	baseURL string
	client  *http.Client
}

// NewMarkerClient creates a new marker client from environment variables.
// Returns nil if HONEYCOMB_API_KEY is not set; a nil client is a no-op.
func NewMarkerClient() *MarkerClient {
	apiKey := os.Getenv("HONEYCOMB_API_KEY")
	if apiKey == "" {
		return nil
	}

	dataset := os.Getenv("OTEL_SERVICE_NAME")
	if dataset == "" {
		dataset = "docstracker"
	}

	return &MarkerClient{
		apiKey:  apiKey,
		dataset: dataset,
		baseURL: honeycombAPI,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateMarker sends a marker to Honeycomb.
// Logs errors but doesn't return them - markers are best-effort.
func (mc *MarkerClient) CreateMarker(ctx context.Context, m Marker) {
	if mc == nil {
		return
	}

	if m.StartTime == 0 {
		m.StartTime = time.Now().Unix()
	}

	body, err := json.Marshal(m)
	if err != nil {
		slog.Error("marshal marker", "error", err)
		return
	}

	url := fmt.Sprintf("%s/1/markers/%s", mc.baseURL, mc.dataset)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		slog.Error("create marker request", "error", err)
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Honeycomb-Team", mc.apiKey)

	resp, err := mc.client.Do(req)
	if err != nil {
		slog.Error("send marker", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		slog.Error("marker API error", "status", resp.StatusCode, "type", m.Type, "message", m.Message)
		return
	}

	slog.Info("marker created", "type", m.Type, "message", m.Message)
}

// CreateDeployMarker creates a deploy marker with version and commit info
func (mc *MarkerClient) CreateDeployMarker(ctx context.Context) {
	if mc == nil {
		return
	}

	message := fmt.Sprintf("Deploy %s", Version)
	if CommitSHA != "unknown" && CommitSHA != "" {
		message = fmt.Sprintf("Deploy %s (%s)", Version, CommitSHA[:min(7, len(CommitSHA))])
	}

	mc.CreateMarker(ctx, Marker{
		Message: message,
		Type:    MarkerTypeDeploy,
	})
}

// CreateFeedReloadMarker records that a new feed snapshot was published.
func (mc *MarkerClient) CreateFeedReloadMarker(ctx context.Context, snap feed.Snapshot) {
	if mc == nil {
		return
	}

	mc.CreateMarker(ctx, Marker{
		StartTime: snap.LoadedAt.Unix(),
		Message:   fmt.Sprintf("Feed generation %d: %d changes", snap.Generation, len(snap.Changes)),
		Type:      MarkerTypeFeedReload,
	})
}
