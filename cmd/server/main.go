package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/ZarakiLancelot/NutriSnap/internal/analysis"
	"github.com/ZarakiLancelot/NutriSnap/internal/auth"
	"github.com/ZarakiLancelot/NutriSnap/internal/config"
	"github.com/ZarakiLancelot/NutriSnap/internal/fit"
	"github.com/ZarakiLancelot/NutriSnap/internal/httpapi"
	"github.com/ZarakiLancelot/NutriSnap/internal/logging"
	"github.com/ZarakiLancelot/NutriSnap/internal/nutrition"
	"github.com/ZarakiLancelot/NutriSnap/internal/reconcile"
	"github.com/ZarakiLancelot/NutriSnap/internal/server"
	"github.com/ZarakiLancelot/NutriSnap/internal/social"
	"github.com/ZarakiLancelot/NutriSnap/internal/store"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("config error: %w", err))
	}

	logger := logging.NewLogger("nutrisnap-api")

	local, err := store.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		panic(fmt.Errorf("sqlite store: %w", err))
	}
	defer local.Close()

	// The cloud tier is optional. Without a project the tracker runs
	// purely on the local store.
	var (
		cloud reconcile.CloudStore
		soc   *social.Service
	)
	if cfg.GCPProjectID != "" {
		client, err := firestore.NewClient(ctx, cfg.GCPProjectID)
		if err != nil {
			panic(fmt.Errorf("firestore client: %w", err))
		}
		defer client.Close()
		cloud = reconcile.NewRemote(client, cfg.SyncLimit)
		soc = social.New(client)
	}
	repo := reconcile.New(local, cloud, logger)

	analyzer, err := analysis.NewGeminiAnalyzer(ctx, analysis.GeminiConfig{
		APIKey:    cfg.Gemini.APIKey,
		Model:     cfg.Gemini.Model,
		UseVertex: cfg.Gemini.UseVertex,
		Project:   cfg.Gemini.Project,
		Location:  cfg.Gemini.Location,
	})
	if err != nil {
		panic(fmt.Errorf("gemini analyzer: %w", err))
	}
	defer analyzer.Close()

	fitFactory := func(token string) nutrition.FitProvider {
		return fit.NewClient(fit.StaticToken(token))
	}

	service := nutrition.New(repo, analyzer, fitFactory, logger)

	verifier, err := auth.NewVerifier(auth.Config{
		Mode:     auth.Mode(cfg.Auth.Mode),
		JWKSURL:  cfg.Auth.JWKSURL,
		Audience: cfg.Auth.Audience,
		Issuer:   cfg.Auth.Issuer,
	})
	if err != nil {
		panic(fmt.Errorf("auth verifier error: %w", err))
	}

	router := server.NewRouter("nutrisnap-api", func(r chi.Router) {
		httpapi.RegisterRoutes(r, service, soc, repo, verifier, logger)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if err := server.Run(ctx, srv, logger); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
}
