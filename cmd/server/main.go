package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/classmate-labs/debate-live-backend/internal/auth"
	"github.com/classmate-labs/debate-live-backend/internal/config"
	"github.com/classmate-labs/debate-live-backend/internal/httpapi"
	"github.com/classmate-labs/debate-live-backend/internal/hub"
	"github.com/classmate-labs/debate-live-backend/internal/store"
	"github.com/classmate-labs/debate-live-backend/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var log *zap.Logger
	if cfg.Env == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	st, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}
	if err := st.AutoMigrate(); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	h := hub.NewHub(ctx, st, log)
	authSvc := auth.NewService(cfg.JWTSecret)
	api := httpapi.New(st, h, authSvc, log)
	handler := httpapi.SetupRoutes(api, ws.Handler(h, log))

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		h.Inbox() <- hub.ShutdownHub{}
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
	log.Info("server exited")
}
