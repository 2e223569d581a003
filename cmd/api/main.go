package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"giveflow/internal/adapter/repo"
	"giveflow/internal/assistant"
	"giveflow/internal/http/handlers"
	"giveflow/internal/http/httpapi"
	"giveflow/internal/infra"
	"giveflow/internal/infra/geoip"
	"giveflow/internal/middleware"
	"giveflow/internal/providers/textgen"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	gen, err := newGenerator(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build text generator")
	}

	campaigns := repo.NewCampaignRepository(dbpool)
	donations := repo.NewDonationRepository(dbpool)
	users := repo.NewUserRepository(dbpool)

	catalog := assistant.NewCatalog(campaigns)
	resolver := assistant.NewResolver(catalog)
	planner := assistant.NewPlanner(gen, logger)
	ledger := assistant.NewLedger(campaigns, donations, users, logger)
	svc := assistant.NewService(catalog, resolver, planner, ledger, gen, logger)

	var lookup middleware.CountryLookup
	countries, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, donor countries disabled")
	} else if countries != nil {
		lookup = countries.CountryCode
	}

	app := handlers.NewApp(svc, campaigns, donations, gen, cfg.JWTSecret, logger)
	router := httpapi.NewRouter(app, cfg, logger, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func newGenerator(cfg *infra.Config) (textgen.Generator, error) {
	switch cfg.TextGenProvider {
	case "openai":
		return textgen.NewOpenAIGenerator(textgen.OpenAIOptions{
			APIKey:       cfg.OpenAIAPIKey,
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
		})
	case "gemini":
		return textgen.NewGeminiGenerator(textgen.GeminiOptions{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
		})
	default:
		return nil, fmt.Errorf("unsupported TEXTGEN_PROVIDER %q", cfg.TextGenProvider)
	}
}
