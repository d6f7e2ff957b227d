package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/ninjas3242/truck-bot/internal/api"
	"github.com/ninjas3242/truck-bot/internal/api/router"
	appconfig "github.com/ninjas3242/truck-bot/internal/config"
	"github.com/ninjas3242/truck-bot/internal/booking"
	"github.com/ninjas3242/truck-bot/internal/conversation"
	"github.com/ninjas3242/truck-bot/internal/inventory"
	"github.com/ninjas3242/truck-bot/internal/notify"
	"github.com/ninjas3242/truck-bot/internal/observability/metrics"
	"github.com/ninjas3242/truck-bot/internal/search"
	"github.com/ninjas3242/truck-bot/internal/session"
	"github.com/ninjas3242/truck-bot/internal/webchat"
	"github.com/ninjas3242/truck-bot/pkg/logging"
)

func main() {
	// Running without a .env file is normal in production.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel, cfg.Env)
	logger.Info("starting truck-bot API server", "env", cfg.Env, "port", cfg.Port)

	index, err := inventory.Load(cfg.DataDir, logger.WithComponent("inventory"))
	if err != nil {
		if !errors.Is(err, inventory.ErrKnowledgeUnavailable) {
			logger.Error("failed to load knowledge base", "error", err, "data_dir", cfg.DataDir)
			os.Exit(1)
		}
		// Degraded mode: greetings and generation still work, the health
		// endpoint reports the missing knowledge base.
		logger.Error("no knowledge sources loaded, running degraded", "data_dir", cfg.DataDir)
	}

	scorer := search.NewScorer(index, logger.WithComponent("search"),
		search.WithRecencyYears(cfg.UsedRecencyYears))

	redisOpts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()
	store := session.NewStore(redisClient, cfg.SessionTTL, nil)

	llm, closeLLM, err := buildLLM(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize LLM clients", "error", err)
		os.Exit(1)
	}
	defer closeLLM()

	chatMetrics := metrics.NewChatMetrics(nil)

	prompts := conversation.PromptBuilder{
		Company:       cfg.CompanyName,
		SalesContacts: cfg.SalesContacts,
		Showroom:      cfg.ShowroomLocation,
	}
	calendar := booking.CalendarLinkBuilder{
		Company:       cfg.CompanyName,
		SalesContacts: cfg.SalesContacts,
		Location:      cfg.ShowroomLocation,
	}

	var notifier conversation.BookingNotifier
	sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger.WithComponent("notify"))
	if sender != nil {
		if sn := notify.NewSalesNotifier(sender, cfg.SalesNotifyEmail, logger.WithComponent("notify")); sn != nil {
			notifier = sn
		}
	}

	engine := conversation.NewEngine(
		scorer,
		store,
		llm,
		booking.NewResolver(cfg.DefaultBookingHour),
		calendar,
		prompts,
		notifier,
		chatMetrics,
		conversation.EngineConfig{
			Model:            cfg.GeminiModel,
			MaxTokens:        cfg.LLMMaxTokens,
			Temperature:      cfg.LLMTemperature,
			MaxSearchResults: cfg.MaxSearchResults,
		},
		logger.WithComponent("conversation"),
	)

	r := router.New(&router.Config{
		Logger:         logger,
		Webchat:        webchat.NewHandler(engine, store, cfg.SalesContacts, logger.WithComponent("webchat")),
		Health:         api.NewHealthHandler(index),
		Search:         api.NewSearchHandler(engine),
		MetricsHandler: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	logger.Info("server stopped")
}

var errMissingLLMKeys = errors.New("no LLM provider configured: set GEMINI_API_KEY or OPENAI_API_KEY")

// buildLLM assembles the Gemini-primary, OpenAI-fallback completion chain
// from whichever API keys are configured.
func buildLLM(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (conversation.LLMClient, func(), error) {
	closer := func() {}

	var primary conversation.LLMClient
	if cfg.GeminiAPIKey != "" {
		gemini, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, closer, err
		}
		primary = gemini
		closer = func() { _ = gemini.Close() }
	}

	var fallback conversation.LLMClient
	if cfg.OpenAIAPIKey != "" {
		openAI, err := conversation.NewOpenAILLMClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, closer, err
		}
		fallback = openAI
	}

	if primary == nil && fallback == nil {
		return nil, closer, errMissingLLMKeys
	}
	if primary == nil {
		primary, fallback = fallback, nil
	}

	return conversation.NewFallbackLLMClient(primary, fallback, logger.WithComponent("llm")), closer, nil
}
