// Package main запускает HTTP-сервер витрины Improve.Together.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/devabrarkhan/improve-together/internal/config"
	"github.com/devabrarkhan/improve-together/internal/handler"
	"github.com/devabrarkhan/improve-together/internal/loader"
	"github.com/devabrarkhan/improve-together/internal/model"
	"github.com/devabrarkhan/improve-together/internal/payment"
	"github.com/devabrarkhan/improve-together/internal/render"
	"github.com/devabrarkhan/improve-together/internal/service"
	"github.com/devabrarkhan/improve-together/internal/session"
	"github.com/devabrarkhan/improve-together/internal/validation"
)

const sessionTTL = 30 * time.Minute

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	if !validation.IsValidVPA(cfg.PayeeVPA) {
		sugar.Fatalw("invalid payee VPA", "vpa", cfg.PayeeVPA)
	}

	if cfg.AccessKey == "" {
		sugar.Warn("ACCESS_KEY is not set, checkout will be rejected")
	}

	secret := cfg.SessionSecret
	if secret == "" {
		// Без заданного секрета cookie живут до перезапуска сервера.
		secret = uuid.NewString()
		sugar.Warn("SESSION_SECRET is not set, using a random per-run secret")
	}

	sessions := session.NewManager(secret, sessionTTL)

	renderer := render.New(cfg.SiteBase, cfg.LazyMarginPx, cfg.DragMultiplier)

	submitter := payment.NewClient(cfg.CheckoutEndpoint, cfg.AccessKey)

	svc := service.New(
		loader.New(cfg.DataBase),
		submitter,
		renderer,
		payment.Payee{VPA: cfg.PayeeVPA, Name: cfg.PayeeName},
		model.UIConfig{
			SiteBase:       cfg.SiteBase,
			DebounceMS:     cfg.DebounceMS,
			LazyMarginPx:   cfg.LazyMarginPx,
			DragMultiplier: cfg.DragMultiplier,
		},
		logger,
	)
	defer svc.Close()

	h := handler.NewHandler(svc, logger, sessions)
	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := svc.Bootstrap(ctx); err != nil {
		sugar.Fatalw("bootstrap error", "error", err.Error())
	}

	g, ctx := errgroup.WithContext(ctx)

	// Фоновая чистка простаивающих сессий
	g.Go(func() error {
		sessions.StartCleanup(ctx)
		return nil
	})

	// Перезагрузка данных по SIGHUP: частые сигналы сворачиваются в одну
	g.Go(func() error {
		reload := make(chan os.Signal, 1)
		signal.Notify(reload, syscall.SIGHUP)
		defer signal.Stop(reload)

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-reload:
				sugar.Info("reload requested")
				svc.RequestReload()
			}
		}
	})

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting storefront server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
