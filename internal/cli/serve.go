package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vytor/mathcat/internal/api"
	"github.com/vytor/mathcat/internal/config"
	"github.com/vytor/mathcat/internal/gateway"
	"github.com/vytor/mathcat/internal/identity"
	"github.com/vytor/mathcat/internal/jobs"
	"github.com/vytor/mathcat/internal/logger"
	"github.com/vytor/mathcat/internal/schedule"
	"github.com/vytor/mathcat/internal/services"
	"github.com/vytor/mathcat/internal/worker"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the local practice API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *cfg)
		},
	}
}

func runServe(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	log := logger.Default()
	log.Info("mathcat starting")
	log.Debug("addr=%s api_base_url=%s identity_backend=%s", cfg.Addr, cfg.APIBaseURL, cfg.IdentityBackend)
	log.Debug("history_worker_count=%d history_queue_size=%d", cfg.HistoryWorkerCount, cfg.HistoryQueueSize)

	backend, err := openIdentityBackend(cfg)
	if err != nil {
		log.Error("failed to open identity backend: %v", err)
		return err
	}
	defer func() {
		if err := backend.close(); err != nil {
			log.Warn("failed to close identity backend: %v", err)
		}
	}()

	client := gateway.New(cfg.APIBaseURL)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	historyPool := worker.NewPool(cfg.HistoryWorkerCount, cfg.HistoryQueueSize)
	historyPool.Start(context.WithoutCancel(ctx))

	store := identity.NewStore(backend.slot)
	learners := services.NewLearnerService(store, client, jobs.NewWorkerQueue(historyPool, client), schedule.Real{})
	if learner, err := learners.Restore(ctx); err != nil {
		log.Warn("starting without a restored learner: %v", err)
	} else if learner != nil {
		log.Info("restored learner: user_id=%d", learner.UserID)
	}

	srv := api.NewServer(learners, services.NewHistoryService(client), services.NewQuestionService(client), backend.ready)
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			log.Error("HTTP server error: %v", err)
		}
		learners.Close()
		historyPool.Stop()
		return err
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	learners.Close()
	log.Debug("draining history queue")
	historyPool.Stop()

	log.Info("mathcat stopped")
	return nil
}
