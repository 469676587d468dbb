package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"sparkbot/internal/metrics"
)

// WebhookPath is the endpoint the platform delivers message events to.
const WebhookPath = "/webhook_messages"

// ServerConfig configures the inbound HTTP server.
type ServerConfig struct {
	Host    string
	Port    int
	Webhook http.Handler
	Logger  *slog.Logger
}

// Server hosts the webhook endpoint plus a hello banner and /metrics.
type Server struct {
	addr    string
	webhook http.Handler
	logger  *slog.Logger
	server  *http.Server
}

func NewServer(cfg ServerConfig) *Server {
	if cfg.Port == 0 {
		cfg.Port = 5000
	}
	return &Server{
		addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		webhook: cfg.Webhook,
		logger:  cfg.Logger,
	}
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.Handle(WebhookPath, s.webhook)
	mux.Handle("/metrics", metrics.Default.Handler())

	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("webhook server starting", "addr", s.addr, "path", WebhookPath)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("webhook server: %w", err)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	fmt.Fprint(w, "Hello Spark World!")
}
