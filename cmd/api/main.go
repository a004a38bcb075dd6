package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/budgie/internal/admin"
	adminStore "github.com/MrJamesThe3rd/budgie/internal/admin/store"
	"github.com/MrJamesThe3rd/budgie/internal/analytics"
	"github.com/MrJamesThe3rd/budgie/internal/auth"
	"github.com/MrJamesThe3rd/budgie/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/budgie/internal/budget/store"
	"github.com/MrJamesThe3rd/budgie/internal/category"
	categoryStore "github.com/MrJamesThe3rd/budgie/internal/category/store"
	"github.com/MrJamesThe3rd/budgie/internal/config"
	"github.com/MrJamesThe3rd/budgie/internal/database"
	"github.com/MrJamesThe3rd/budgie/internal/events"
	"github.com/MrJamesThe3rd/budgie/internal/export"
	"github.com/MrJamesThe3rd/budgie/internal/goal"
	goalStore "github.com/MrJamesThe3rd/budgie/internal/goal/store"
	budgieHttp "github.com/MrJamesThe3rd/budgie/internal/http"
	adminHandler "github.com/MrJamesThe3rd/budgie/internal/http/admin"
	analyticsHandler "github.com/MrJamesThe3rd/budgie/internal/http/analytics"
	budgetHandler "github.com/MrJamesThe3rd/budgie/internal/http/budget"
	categoryHandler "github.com/MrJamesThe3rd/budgie/internal/http/category"
	goalHandler "github.com/MrJamesThe3rd/budgie/internal/http/goal"
	txHandler "github.com/MrJamesThe3rd/budgie/internal/http/transaction"
	userHandler "github.com/MrJamesThe3rd/budgie/internal/http/user"
	"github.com/MrJamesThe3rd/budgie/internal/importer"
	"github.com/MrJamesThe3rd/budgie/internal/mail"
	"github.com/MrJamesThe3rd/budgie/internal/transaction"
	txStore "github.com/MrJamesThe3rd/budgie/internal/transaction/store"
	"github.com/MrJamesThe3rd/budgie/internal/user"
	userStore "github.com/MrJamesThe3rd/budgie/internal/user/store"
)

const importRowLimit = 5000

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg)

	if auth.DevBypassCompiled && cfg.IsProduction() {
		slog.Error("refusing to start: binary built with devauth in production")
		os.Exit(1)
	}

	if cfg.DB.Migrate {
		if err := database.Migrate(cfg.ConnectionString()); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 5*time.Second)
	db, err := database.New(connectCtx, cfg.ConnectionString())
	cancelConnect()

	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	var adminOpts []admin.Option

	if cfg.AMQP.URL != "" {
		publisher, err := events.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			slog.Error("failed to connect to message broker", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()

		adminOpts = append(adminOpts, admin.WithPublisher(publisher))
	}

	if cfg.Mailjet.APIKey != "" {
		adminOpts = append(adminOpts, admin.WithNotifier(mail.NewNotifier(
			cfg.Mailjet.APIKey,
			cfg.Mailjet.APISecret,
			cfg.Mailjet.SenderEmail,
			cfg.Mailjet.SenderName,
			cfg.App.Name,
		)))
	}

	var (
		categoryService    = category.NewService(categoryStore.New(db))
		userService        = user.NewService(userStore.New(db), categoryService, cfg.AdminEmails())
		transactionService = transaction.NewService(txStore.New(db), categoryService)
		budgetService      = budget.NewService(budgetStore.New(db), categoryService, transactionService)
		goalService        = goal.NewService(goalStore.New(db))
		analyticsService   = analytics.NewService(transactionService, categoryService)
		exportService      = export.NewService(transactionService, categoryService)
		adminService       = admin.NewService(
			adminStore.New(db),
			userService,
			auth.NewResetLinker(issuer, cfg.Auth.ResetURL, cfg.Auth.ResetTTL),
			adminOpts...,
		)
	)

	handlers := budgieHttp.Handlers{
		Users:        userHandler.NewHandler(userService),
		Categories:   categoryHandler.NewHandler(categoryService),
		Transactions: txHandler.NewHandler(transactionService, importer.NewParser(importRowLimit), exportService),
		Budgets:      budgetHandler.NewHandler(budgetService),
		Goals:        goalHandler.NewHandler(goalService),
		Analytics:    analyticsHandler.NewHandler(analyticsService),
		Admin:        adminHandler.NewHandler(adminService),
	}

	router := budgieHttp.New(
		handlers,
		auth.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience),
		userService,
		db,
		budgieHttp.Options{AllowedOrigins: cfg.CORS.AllowedOrigins, Timeout: cfg.Server.Timeout},
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
	}

	go func() {
		slog.Info("starting server", "port", srv.Addr, "env", cfg.App.Env)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}

func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(h).With("app", cfg.App.Name))
}
