package srv

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/webframp/docstracker/feed"
	"github.com/webframp/docstracker/view"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type Server struct {
	Config     Config
	Store      *feed.Store
	Location   *time.Location
	Memo       *view.Memo
	APILimiter *RateLimiter
	Hub        *Hub
	Markers    *MarkerClient
	templates  *template.Template
	httpServer *http.Server
}

type pageData struct {
	Hostname   string
	GuideURL   string
	Now        string
	Year       int
	Term       string
	Error      string
	Rows       []pageRow
	Visible    int
	Total      int
	Generation uint64
	LoadedAt   string
}

type pageRow struct {
	view.Row
	ToggleURL string
}

// ChangesResponse is the body of GET /api/changes.
type ChangesResponse struct {
	Query      string           `json:"query"`
	Generation uint64           `json:"generation"`
	Total      int              `json:"total"`
	Changes    []ChangeResponse `json:"changes"`
}

// ChangeResponse is one record with its summary normalized to text.
type ChangeResponse struct {
	SHA         string         `json:"sha"`
	Date        string         `json:"date"`
	DisplayDate string         `json:"display_date"`
	Author      string         `json:"author"`
	URL         string         `json:"url"`
	Summary     feed.Summary   `json:"summary"`
	Files       []FileResponse `json:"files"`
}

// FileResponse is a changed file with its display label.
type FileResponse struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Label     string `json:"label,omitempty"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// ReloadResponse is the body of POST /api/reload.
type ReloadResponse struct {
	Generation uint64 `json:"generation"`
	Changes    int    `json:"changes"`
}

// ErrorResponse is returned for rejected API requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

func New(cfg Config) (*Server, error) {
	loc := cfg.Location()
	srv := &Server{
		Config:     cfg,
		Store:      feed.NewStore(feed.NewLoader(cfg.FeedSource)),
		Location:   loc,
		Memo:       view.NewMemo(loc),
		APILimiter: NewRateLimiter(cfg.APIRateLimit, cfg.APIRateInterval, cfg.APIRateBurst),
		Hub:        NewHub(),
		Markers:    NewMarkerClient(),
	}
	if err := srv.loadTemplates(); err != nil {
		return nil, err
	}
	srv.Store.Subscribe(srv.Hub.Broadcast)
	srv.Store.Subscribe(func(snap feed.Snapshot) {
		go srv.Markers.CreateFeedReloadMarker(context.Background(), snap)
	})
	return srv, nil
}

// Start performs the initial feed load and, for a local feed file with
// watching enabled, reloads on every change until ctx is done.
func (s *Server) Start(ctx context.Context) {
	s.Store.Reload(ctx)

	loader := s.Store.Loader()
	if !s.Config.FeedWatch || loader.IsRemote() {
		return
	}
	go func() {
		err := feed.Watch(ctx, loader.Source, func() { s.Store.Reload(ctx) })
		if err != nil {
			slog.Warn("feed watch disabled", "source", loader.Source, "error", err)
		}
	}()
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.Store.Current(); !ok {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintln(w, "unhealthy: feed not loaded")
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

// currentSnapshot returns the published snapshot, or an empty one while the
// first load is still running.
func (s *Server) currentSnapshot() feed.Snapshot {
	snap, _ := s.Store.Current()
	return snap
}

// viewState rebuilds the table state from the query string: q is the
// search term, each open is an expanded sha.
func viewState(query url.Values, changes []feed.ChangeRecord) view.State {
	st := view.Searched(view.Loaded(view.State{}, changes), query.Get("q"))
	for _, sha := range query["open"] {
		if sha != "" && !view.IsExpanded(st, sha) {
			st = view.Toggled(st, sha)
		}
	}
	return st
}

// stateURL encodes st as a link back to the table.
func stateURL(st view.State, anchor string) string {
	v := url.Values{}
	if st.Term != "" {
		v.Set("q", st.Term)
	}
	for _, sha := range view.ExpandedSHAs(st) {
		v.Add("open", sha)
	}
	u := "/"
	if len(v) > 0 {
		u += "?" + v.Encode()
	}
	if anchor != "" {
		u += "#row-" + anchor
	}
	return u
}

func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var errMsg string
	if term := query.Get("q"); ValidateSearchTerm(term) != nil {
		errMsg = fmt.Sprintf("Search was shortened to %d characters.", MaxSearchTermLen)
		query.Set("q", TruncateSearchTerm(strings.ToValidUTF8(term, "")))
	}

	snap := s.currentSnapshot()
	st := viewState(query, snap.Changes)
	visible := s.Memo.Filter(snap, st.Term)
	AnnotateView(r.Context(), st.Term, len(visible), len(snap.Changes), snap.Generation)

	if WantsJSON(r) {
		s.writeJSON(w, http.StatusOK, changesResponse(st.Term, snap, visible, s.Location))
		return
	}

	rows := view.Rows(st, visible, s.Location)
	pageRows := make([]pageRow, len(rows))
	for i, row := range rows {
		pageRows[i] = pageRow{Row: row, ToggleURL: stateURL(view.Toggled(st, row.SHA), row.SHA)}
	}

	now := time.Now()
	data := pageData{
		Hostname:   s.Config.Hostname,
		GuideURL:   s.Config.GuideURL,
		Now:        now.Format(time.RFC3339),
		Year:       now.Year(),
		Term:       st.Term,
		Error:      errMsg,
		Rows:       pageRows,
		Visible:    len(visible),
		Total:      len(snap.Changes),
		Generation: snap.Generation,
	}
	if !snap.LoadedAt.IsZero() {
		data.LoadedAt = view.FormatDate(snap.LoadedAt, true, s.Location)
	}

	name := "index"
	if query.Get("partial") == "1" {
		name = "table"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderTemplate(w, name, data); err != nil {
		RecordError(trace.SpanFromContext(r.Context()), err)
		slog.Warn("render template", "url", r.URL.Path, "error", err)
	}
}

// HandleChanges lists the filtered feed.
//
//	@Summary		List documentation changes
//	@Description	Returns the feed sorted most recent first, filtered by an optional case-insensitive search term matched against summary, author, filenames and formatted date.
//	@Tags			changes
//	@Produce		json
//	@Param			q	query		string	false	"Search term"
//	@Success		200	{object}	ChangesResponse
//	@Failure		400	{object}	ErrorResponse	"Search term too long"
//	@Failure		429	"Rate limit exceeded"
//	@Router			/api/changes [get]
func (s *Server) HandleChanges(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if err := ValidateSearchTerm(term); err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	snap := s.currentSnapshot()
	visible := s.Memo.Filter(snap, term)
	AnnotateView(r.Context(), term, len(visible), len(snap.Changes), snap.Generation)
	s.writeJSON(w, http.StatusOK, changesResponse(term, snap, visible, s.Location))
}

// HandleReload re-reads the feed source.
//
//	@Summary		Reload the feed
//	@Description	Reloads changes.json from the configured source. Failures publish an empty feed.
//	@Tags			changes
//	@Produce		json
//	@Success		200	{object}	ReloadResponse
//	@Failure		429	"Rate limit exceeded"
//	@Router			/api/reload [post]
func (s *Server) HandleReload(w http.ResponseWriter, r *http.Request) {
	// A client hanging up must not publish a failed load to everyone.
	snap := s.Store.Reload(context.WithoutCancel(r.Context()))
	s.writeJSON(w, http.StatusOK, ReloadResponse{Generation: snap.Generation, Changes: len(snap.Changes)})
}

func changesResponse(term string, snap feed.Snapshot, visible []feed.ChangeRecord, loc *time.Location) ChangesResponse {
	resp := ChangesResponse{
		Query:      strings.TrimSpace(term),
		Generation: snap.Generation,
		Total:      len(snap.Changes),
		Changes:    make([]ChangeResponse, len(visible)),
	}
	for i, c := range visible {
		files := make([]FileResponse, len(c.Files))
		for j, f := range c.Files {
			label, _ := view.FileLabel(f.Status)
			files[j] = FileResponse{
				Filename:  f.Filename,
				Status:    string(f.Status),
				Label:     label,
				Additions: f.Additions,
				Deletions: f.Deletions,
			}
		}
		resp.Changes[i] = ChangeResponse{
			SHA:         c.SHA,
			Date:        c.Date,
			DisplayDate: view.DisplayDate(c, loc),
			Author:      c.Author,
			URL:         c.URL,
			Summary:     c.Summary,
			Files:       files,
		}
	}
	return resp
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode json", "error", err)
	}
}

func (s *Server) loadTemplates() error {
	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	s.templates = tmpl
	slog.Debug("templates loaded", "count", len(tmpl.Templates()))
	return nil
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data any) error {
	if s.templates.Lookup(name) == nil {
		return fmt.Errorf("template %q not found", name)
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("execute template %q: %w", name, err)
	}
	return nil
}

// Handler returns the full route table with middleware applied.
func (s *Server) Handler() http.Handler {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.HandleRoot)
	mux.HandleFunc("GET /health", s.HandleHealth)
	mux.Handle("GET /static/", http.StripPrefix("/static/", StaticFileServer(static)))

	// API routes with rate limiting
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /api/changes", s.HandleChanges)
	apiMux.HandleFunc("POST /api/reload", s.HandleReload)
	apiMux.HandleFunc("GET /api/openapi.json", s.HandleAPISpec)
	mux.Handle("/api/", s.APILimiter.Middleware(apiMux))

	// The websocket handshake needs the raw ResponseWriter, so /live sits
	// outside the middleware chain.
	root := http.NewServeMux()
	root.Handle("GET /live", s.Hub)
	root.Handle("/", otelhttp.NewHandler(RequestLogger(SecurityHeaders(Gzip(LimitRequestBody(mux)))), "docstracker"))
	return root
}

// Serve loads the feed and listens on addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	s.Start(ctx)
	s.Markers.CreateDeployMarker(ctx)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", addr, "feed", s.Config.FeedSource)
		errc <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.Hub.Close()
	s.APILimiter.Stop()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
