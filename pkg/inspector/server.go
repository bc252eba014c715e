package inspector

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	werrors "github.com/vango-dev/weft/internal/errors"
)

// DefaultAddr is the inspector's default listen address.
const DefaultAddr = "127.0.0.1:7070"

// ServerConfig configures a Server.
type ServerConfig struct {
	// Addr is the listen address. Default: DefaultAddr.
	Addr string

	// Inspector provides snapshots. Required.
	Inspector *Inspector

	// Hub streams snapshots. Default: a new Hub fed by Inspector.
	Hub *Hub

	// Gatherer serves /metrics. Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Logger is the structured logger. Default: slog.Default()
	Logger *slog.Logger
}

// Server exposes an inspector over HTTP:
//
//	GET /healthz   liveness
//	GET /tree      latest snapshot as JSON, or a table with ?format=table
//	GET /ws        websocket stream of snapshots
//	GET /metrics   Prometheus metrics
type Server struct {
	addr      string
	inspector *Inspector
	hub       *Hub
	gatherer  prometheus.Gatherer
	logger    *slog.Logger
	router    chi.Router
}

// NewServer creates a server and subscribes its hub to the inspector.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if cfg.Hub == nil {
		cfg.Hub = NewHub(cfg.Logger)
		cfg.Inspector.OnSnapshot(func(s *Snapshot) { cfg.Hub.Broadcast(s) })
	}

	s := &Server{
		addr:      cfg.Addr,
		inspector: cfg.Inspector,
		hub:       cfg.Hub,
		gatherer:  cfg.Gatherer,
		logger:    cfg.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/tree", s.handleTree)
	r.Get("/ws", s.hub.HandleWebSocket)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	snap := s.inspector.Latest()
	if snap == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no tree committed yet"})
		return
	}
	if r.URL.Query().Get("format") == "table" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(Table(snap)))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the server's websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return werrors.New("E061").WithDetailf("listen on %s", s.addr).Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspector listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return werrors.New("E061").Wrap(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return werrors.New("E061").WithDetail("shutdown").Wrap(err)
	}
	return nil
}
