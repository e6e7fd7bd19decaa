package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/internal/handlers"
	"github.com/diewo77/go-gestion/internal/services"
	"github.com/diewo77/go-gestion/internal/store"
)

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, log := opts.cfg, opts.log

	dbConn, err := openDatabase(opts)
	if err != nil {
		return err
	}

	auth.SetSecret(cfg.Server.SessionSecret)
	auth.SetUserResolver(handlers.UserResolver(dbConn))

	company := services.NewCompanyService(dbConn, cfg.Company.Settings())
	ws := services.NewWorkspace(store.New(dbConn), company, log, services.WithChartYear(cfg.App.ChartYear))
	if err := ws.Load(ctx); err != nil {
		return err
	}

	app := NewApp(Deps{DB: dbConn, Workspace: ws, Company: company}, log)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Bool("dev", cfg.App.Dev).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped gracefully")
	return nil
}
