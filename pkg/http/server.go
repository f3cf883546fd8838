package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leowmjw/go-temporal-chartview/pkg/hcl"
	"github.com/leowmjw/go-temporal-chartview/pkg/metrics"
	"github.com/leowmjw/go-temporal-chartview/pkg/render"
	"github.com/leowmjw/go-temporal-chartview/pkg/source"
	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
	"github.com/leowmjw/go-temporal-chartview/pkg/view"
)

var ErrWidgetNotFound = errors.New("widget not found")

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// Options holds the optional collaborators of a Server
type Options struct {
	Store        *source.MemoryStore
	Metrics      *metrics.Registry
	Presets      []view.Config
	LoadingDelay time.Duration
}

// Server represents the HTTP server for the chart widgets
type Server struct {
	logger       *slog.Logger
	builder      source.Builder
	store        *source.MemoryStore
	metrics      *metrics.Registry
	presets      map[string]view.Config
	loadingDelay time.Duration
	addr         string

	mu      sync.RWMutex
	widgets map[string]*widget
}

// widget is one mounted view-model
type widget struct {
	id     string
	config view.Config
	model  *view.Model
}

// NewServer creates a new HTTP server. builder turns widget sources into
// loaders, either in-process or through Temporal.
func NewServer(logger *slog.Logger, builder source.Builder, addr string, opts Options) *Server {
	store := opts.Store
	if store == nil {
		store = source.NewMemoryStore()
	}

	presets := make(map[string]view.Config, len(opts.Presets))
	for _, cfg := range opts.Presets {
		presets[cfg.Name] = cfg
	}

	return &Server{
		logger:       logger,
		builder:      builder,
		store:        store,
		metrics:      opts.Metrics,
		presets:      presets,
		loadingDelay: opts.LoadingDelay,
		addr:         addr,
		widgets:      make(map[string]*widget),
	}
}

// Handler returns the routed handler wrapped in the logging middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /widgets", s.handleListWidgets)
	mux.HandleFunc("POST /widgets", s.handleMountWidget)
	mux.HandleFunc("GET /widgets/{id}", s.handleGetWidget)
	mux.HandleFunc("DELETE /widgets/{id}", s.handleUnmountWidget)
	mux.HandleFunc("GET /widgets/{id}/page", s.handlePage)
	mux.HandleFunc("GET /widgets/{id}/chart.svg", s.handleChart)
	mux.HandleFunc("GET /widgets/{id}/panel", s.handlePanel)
	mux.HandleFunc("POST /widgets/{id}/actions", s.handleAction)
	mux.HandleFunc("POST /widgets/{id}/refresh", s.handleRefresh)
	mux.HandleFunc("POST /series/{name}/points", s.handleIngestPoints)
	mux.HandleFunc("GET /series/{name}", s.handleGetSeries)
	mux.HandleFunc("GET /presets", s.handleListPresets)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	return s.loggingMiddleware(mux)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Starting HTTP server", "addr", s.addr)

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")
		s.unmountAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}

// Mount creates a widget from cfg and starts its acquisition
func (s *Server) Mount(cfg view.Config) (string, *view.Acquisition, error) {
	cfg = cfg.WithDefaults()

	loader, err := s.builder.Build(cfg.Source)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build source: %w", err)
	}
	opts, err := cfg.ModelOptions(s.loadingDelay)
	if err != nil {
		return "", nil, err
	}

	id := uuid.NewString()
	logger := s.logger.With("widgetID", id, "widget", cfg.Name)
	kind := cfg.Source.WithDefaults().Kind

	w := &widget{
		id:     id,
		config: cfg,
		model:  view.NewModel(logger, opts),
	}
	acq := w.model.Mount(context.Background(), source.NewDataSource(kind, loader, logger, s.metrics))

	s.mu.Lock()
	s.widgets[id] = w
	s.mu.Unlock()
	s.metrics.WidgetMounted(1)

	logger.Info("Widget mounted", "kind", kind, "timeFrame", opts.TimeFrame)
	return id, acq, nil
}

// Unmount removes a widget and discards its pending acquisition
func (s *Server) Unmount(id string) error {
	s.mu.Lock()
	w, ok := s.widgets[id]
	delete(s.widgets, id)
	s.mu.Unlock()

	if !ok {
		return ErrWidgetNotFound
	}
	w.model.Unmount()
	s.metrics.WidgetMounted(-1)
	s.logger.Info("Widget unmounted", "widgetID", id)
	return nil
}

func (s *Server) unmountAll() {
	s.mu.RLock()
	ids := make([]string, 0, len(s.widgets))
	for id := range s.widgets {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		_ = s.Unmount(id)
	}
}

func (s *Server) lookup(id string) (*widget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.widgets[id]
	if !ok {
		return nil, ErrWidgetNotFound
	}
	return w, nil
}

// lookupOrRespond resolves the {id} path value, writing a 404 when unknown
func (s *Server) lookupOrRespond(w http.ResponseWriter, r *http.Request) (*widget, bool) {
	id := r.PathValue("id")
	if id == "" {
		s.respondError(w, http.StatusBadRequest, "widget ID is required")
		return nil, false
	}
	wd, err := s.lookup(id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return wd, true
}

// widgetResponse is the JSON view of a mounted widget
type widgetResponse struct {
	ID       string         `json:"id"`
	Config   view.Config    `json:"config"`
	Snapshot view.Snapshot  `json:"snapshot"`
	Stats    timeline.Stats `json:"stats"`
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
}

func newWidgetResponse(w *widget) widgetResponse {
	snap := w.model.Snapshot()
	return widgetResponse{
		ID:       w.id,
		Config:   w.config,
		Snapshot: snap,
		Stats:    w.model.Stats(),
		Title:    render.Title(snap.Last, w.config.Currency),
		Subtitle: render.Subtitle(snap.Delta),
	}
}

func (s *Server) handleListWidgets(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.widgets))
	for id := range s.widgets {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"widgets": ids,
		"count":   len(ids),
	})
}

// Mount endpoint; the body is a JSON or HCL widget config, or ?preset=name
func (s *Server) handleMountWidget(w http.ResponseWriter, r *http.Request) {
	var cfg view.Config

	if name := r.URL.Query().Get("preset"); name != "" {
		preset, ok := s.presets[name]
		if !ok {
			s.respondError(w, http.StatusNotFound, fmt.Sprintf("unknown preset %q", name))
			return
		}
		cfg = preset
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		contentType, err := hcl.DetectContentType(r)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "failed to read request body")
			return
		}

		switch contentType {
		case hcl.ContentTypeHCL:
			body, err := io.ReadAll(r.Body)
			if err != nil {
				s.respondError(w, http.StatusBadRequest, "failed to read request body")
				return
			}
			configs, err := hcl.ParseHCLWidgets(string(body))
			if err != nil {
				s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid HCL body: %v", err))
				return
			}
			if len(configs) != 1 {
				s.respondError(w, http.StatusBadRequest, "exactly one widget block is required")
				return
			}
			cfg = configs[0]
		default:
			if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
				s.respondError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
		}
	}

	id, _, err := s.Mount(cfg)
	if err != nil {
		s.logger.Error("Failed to mount widget", "error", err)
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	wd, err := s.lookup(id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	w.Header().Set("Location", "/widgets/"+id)
	s.respondJSON(w, http.StatusCreated, newWidgetResponse(wd))
}

func (s *Server) handleGetWidget(w http.ResponseWriter, r *http.Request) {
	wd, ok := s.lookupOrRespond(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, newWidgetResponse(wd))
}

func (s *Server) handleUnmountWidget(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.Unmount(id); err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{
		"message": "widget unmounted",
		"id":      id,
	})
}

// Re-runs the acquisition; any result still in flight is discarded
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	wd, ok := s.lookupOrRespond(w, r)
	if !ok {
		return
	}

	loader, err := s.builder.Build(wd.config.Source)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	kind := wd.config.Source.WithDefaults().Kind
	logger := s.logger.With("widgetID", wd.id, "widget", wd.config.Name)
	wd.model.Mount(context.Background(), source.NewDataSource(kind, loader, logger, s.metrics))

	s.respondJSON(w, http.StatusAccepted, newWidgetResponse(wd))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	wd, ok := s.lookupOrRespond(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	data := render.NewPageData(wd.config, wd.model.Snapshot(), "/widgets/"+wd.id)
	if err := render.Page(&buf, data); err != nil {
		s.logger.Error("Failed to render page", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	s.metrics.ObserveRender("html")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	wd, ok := s.lookupOrRespond(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := render.SVG(&buf, wd.model.Snapshot()); err != nil {
		s.logger.Error("Failed to render chart", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	s.metrics.ObserveRender("svg")

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	wd, ok := s.lookupOrRespond(w, r)
	if !ok {
		return
	}

	snap := wd.model.Snapshot()
	s.metrics.ObserveRender("json")
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"active_tab": snap.State.ActiveTab,
		"text":       view.PanelText(snap.State.ActiveTab),
		"chrome":     render.BuildChrome(snap),
	})
}

// Action endpoint; JSON and HCL bodies get the snapshot back, HTML forms are
// redirected to the page
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	wd, ok := s.lookupOrRespond(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	contentType, err := hcl.DetectContentType(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var action view.Action
	switch contentType {
	case hcl.ContentTypeForm:
		if err := r.ParseForm(); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid form body")
			return
		}
		action = view.Action{
			Type:  view.ActionType(r.PostFormValue("type")),
			Tab:   view.Tab(r.PostFormValue("tab")),
			Frame: timeline.TimeFrame(r.PostFormValue("frame")),
		}
	case hcl.ContentTypeHCL:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "failed to read request body")
			return
		}
		action, err = hcl.ParseHCLAction(string(body))
		if err != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid HCL body: %v", err))
			return
		}
	default:
		if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	err = wd.model.Dispatch(action)
	s.metrics.ObserveAction(string(action.Type), err)
	if err != nil {
		switch {
		case errors.Is(err, view.ErrUnknownTab), errors.Is(err, view.ErrUnknownAction):
			s.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, view.ErrUnmounted):
			s.respondError(w, http.StatusGone, err.Error())
		default:
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.logger.Info("Action applied", "widgetID", wd.id, "type", action.Type)

	if contentType == hcl.ContentTypeForm {
		http.Redirect(w, r, "/widgets/"+wd.id+"/page", http.StatusSeeOther)
		return
	}
	s.respondJSON(w, http.StatusOK, newWidgetResponse(wd))
}

// Ingest endpoint; appends a JSON array of points to a named series
func (s *Server) handleIngestPoints(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		s.respondError(w, http.StatusBadRequest, "series name is required")
		return
	}

	var points timeline.Series
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&points); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(points) == 0 {
		s.respondError(w, http.StatusBadRequest, "at least one point is required")
		return
	}

	if err := s.store.Append(r.Context(), name, points); err != nil {
		s.logger.Error("Failed to append points", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to store points")
		return
	}
	s.metrics.ObserveIngest(len(points))
	s.logger.Info("Ingested points", "series", name, "count", len(points))

	s.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"message":     "points stored",
		"series":      name,
		"point_count": len(points),
		"total":       s.store.Count(name),
	})
}

func (s *Server) handleGetSeries(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	series, err := s.store.Load(r.Context(), name)
	if err != nil {
		if errors.Is(err, source.ErrSeriesNotFound) {
			s.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		s.respondError(w, http.StatusInternalServerError, "failed to load series")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":   name,
		"points": series,
		"stats":  timeline.Summarize(series),
	})
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.presets))
	for name := range s.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"presets": names})
}

// Health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	mounted := len(s.widgets)
	s.mu.RUnlock()

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"time":    time.Now().Format(time.RFC3339),
		"widgets": mounted,
	})
}

// Middleware for request logging
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap ResponseWriter to capture status code
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		s.logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start),
			"user_agent", r.UserAgent(),
		)
	})
}

// Response helpers
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.logger.Warn("HTTP error response", "status", status, "message", message)
	s.respondJSON(w, status, map[string]string{"error": message})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
