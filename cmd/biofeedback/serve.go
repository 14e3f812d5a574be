package main

import (
	"context"
	"encoding/json"
	"net/http"
	osSignal "os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/biofeedback/internal/config"
	"codeberg.org/mutker/biofeedback/internal/errors"
	"codeberg.org/mutker/biofeedback/internal/logger"
	"codeberg.org/mutker/biofeedback/internal/pid"
	"codeberg.org/mutker/biofeedback/internal/session"
	"codeberg.org/mutker/biofeedback/internal/stream"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout    = 5 * time.Second
	defaultIdleTimeout = 10 * time.Minute
	minSweepInterval   = time.Second
)

func newServeCmd() *cobra.Command {
	var (
		idle    time.Duration
		pidPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Process live sessions from NATS and push reports over a websocket",
		Long: `Subscribes to <subject>.open, .close, .rr, .facial, .ppg, .pulse and
.clear, keeps one processor per session and publishes a report to
<subject>.metrics.<session> after every update. Reports are also pushed to websocket clients on /ws.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := osSignal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return serve(ctx, cfg, idle, pidPath)
		},
	}

	config.RegisterServeFlags(cmd.Flags())
	cmd.Flags().DurationVar(&idle, "idle-timeout", defaultIdleTimeout, "Close sessions without updates for this long (0 disables)")
	cmd.Flags().StringVar(&pidPath, "pid-file", pid.Path(pid.DefaultName), "PID file path")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, idle time.Duration, pidPath string) error {
	errFactory := errors.New()

	if err := pid.Write(pidPath); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(pidPath); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove PID file")
		}
	}()

	nc, err := stream.Connect(cfg.NATSURL)
	if err != nil {
		return err
	}
	defer nc.Drain()
	logger.Info().Str("url", nc.ConnectedUrl()).Msg("Connected to NATS")

	registry, err := session.NewRegistry(cfg.SamplingRate, session.WithLogger(logger.Default()))
	if err != nil {
		return err
	}

	hub := stream.NewHub(logger.Default())
	defer hub.Close()

	bridge := stream.NewBridge(nc, cfg.Subject, registry,
		stream.WithBroadcaster(hub),
		stream.WithLogger(logger.Default()))
	if err := bridge.Start(); err != nil {
		return err
	}
	defer bridge.Stop()

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.Handle("/healthz", healthHandler(registry, hub, func() string { return nc.Status().String() }))

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- errFactory.Wrap(errors.ErrInitFailed, err)
		}
		close(serveErr)
	}()

	if idle > 0 {
		go expireSessions(ctx, registry, idle)
	}

	select {
	case <-ctx.Done():
		logger.Info().Msg("Received termination signal.")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errFactory.Wrap(errors.ErrShutdownFailed, err)
	}
	logger.Info().Msg("Exiting...")

	return nil
}

// sweepInterval is how often idle sessions are looked for.
func sweepInterval(idle time.Duration) time.Duration {
	return max(idle/2, minSweepInterval)
}

func expireSessions(ctx context.Context, registry *session.Registry, idle time.Duration) {
	ticker := time.NewTicker(sweepInterval(idle))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, id := range registry.Expire(idle) {
				logger.Debug().Str("session", id).Msg("Session expired")
			}
		}
	}
}

type health struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	Clients  int    `json:"clients"`
	NATS     string `json:"nats"`
}

func healthHandler(registry *session.Registry, hub *stream.Hub, natsStatus func() string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		h := health{
			Status:   "ok",
			Sessions: registry.Len(),
			Clients:  hub.Len(),
			NATS:     natsStatus(),
		}

		w.Header().Set("Content-Type", "application/json")
		if h.NATS != "CONNECTED" {
			h.Status = "degraded"
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(h)
	})
}
