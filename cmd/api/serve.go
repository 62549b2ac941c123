package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tripmate/cmd/app"
	"tripmate/internal/logger"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and the notification retry worker",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY is not set")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	workerDone, err := a.StartWorker(ctx)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           app.NewRouter(a.Handlers, a.Services.Auth, cfg.FrontendURL, cfg.Debug),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Log.WithFields(logrus.Fields{
			"addr":     server.Addr,
			"database": cfg.DB.DbNAME,
		}).Info("server started")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		logger.Log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("server shutdown")
	}

	stop()
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		logger.Log.Warn("retry worker did not stop in time")
	}

	return nil
}
