package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultSource is the feed path relative to the deployed assets.
const DefaultSource = "public/changes.json"

// MaxFeedSize caps how much of a feed body is read (16MB).
const MaxFeedSize = 16 << 20

// ErrStatus is returned when the feed URL answers with a non-2xx status.
var ErrStatus = errors.New("unexpected feed status")

var tracer = otel.Tracer("docstracker/feed")

// Loader reads the feed from an HTTP(S) URL or a local file.
type Loader struct {
	Source string
	Client *http.Client
}

// NewLoader returns a loader for source. A "file://" prefix is stripped;
// anything not starting with http:// or https:// is read from disk.
func NewLoader(source string) *Loader {
	return &Loader{
		Source: strings.TrimPrefix(source, "file://"),
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// IsRemote reports whether the source is fetched over HTTP.
func (l *Loader) IsRemote() bool {
	return strings.HasPrefix(l.Source, "http://") || strings.HasPrefix(l.Source, "https://")
}

// Load performs one read of the feed and returns its records in feed order.
func (l *Loader) Load(ctx context.Context) ([]ChangeRecord, error) {
	ctx, span := tracer.Start(ctx, "feed.load",
		trace.WithAttributes(attribute.String("feed.source", l.Source)),
	)
	defer span.End()

	var (
		body []byte
		err  error
	)
	if l.IsRemote() {
		body, err = l.fetchRemote(ctx)
	} else {
		body, err = os.ReadFile(l.Source)
		if err != nil {
			err = fmt.Errorf("read feed file: %w", err)
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	changes, err := Decode(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("feed.changes", len(changes)))
	return changes, nil
}

func (l *Loader) fetchRemote(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.Source, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxFeedSize))
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}
	return body, nil
}

// Fetch loads and sorts the feed, degrading to an empty list on any
// failure. The failure is logged, never returned.
func (l *Loader) Fetch(ctx context.Context) []ChangeRecord {
	changes, err := l.Load(ctx)
	if err != nil {
		slog.Error("load feed", "source", l.Source, "error", err)
		return []ChangeRecord{}
	}
	if dups := DuplicateSHAs(changes); len(dups) > 0 {
		slog.Warn("feed has duplicate shas", "source", l.Source, "shas", dups)
	}
	return SortByDate(changes)
}
