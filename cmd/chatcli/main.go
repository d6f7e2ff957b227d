// Command chatcli runs the chat pipeline against a local terminal, for
// exercising prompts and the booking flow without the HTTP surface.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/ninjas3242/truck-bot/internal/config"
	"github.com/ninjas3242/truck-bot/internal/booking"
	"github.com/ninjas3242/truck-bot/internal/conversation"
	"github.com/ninjas3242/truck-bot/internal/inventory"
	"github.com/ninjas3242/truck-bot/internal/search"
	"github.com/ninjas3242/truck-bot/internal/session"
	"github.com/ninjas3242/truck-bot/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New("warn", "development")

	index, err := inventory.Load(cfg.DataDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load knowledge base: %v\n", err)
		os.Exit(1)
	}
	scorer := search.NewScorer(index, logger, search.WithRecencyYears(cfg.UsedRecencyYears))

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	defer redisClient.Close()
	store := session.NewStore(redisClient, cfg.SessionTTL, nil)

	ctx := context.Background()
	gemini, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create gemini client: %v\n", err)
		os.Exit(1)
	}
	defer gemini.Close()

	var fallback conversation.LLMClient
	if cfg.OpenAIAPIKey != "" {
		if openAI, err := conversation.NewOpenAILLMClient(cfg.OpenAIAPIKey, cfg.OpenAIModel); err == nil {
			fallback = openAI
		}
	}
	llm := conversation.NewFallbackLLMClient(gemini, fallback, logger)

	prompts := conversation.PromptBuilder{
		Company:       cfg.CompanyName,
		SalesContacts: cfg.SalesContacts,
		Showroom:      cfg.ShowroomLocation,
	}
	engine := conversation.NewEngine(
		scorer, store, llm,
		booking.NewResolver(cfg.DefaultBookingHour),
		booking.CalendarLinkBuilder{Company: cfg.CompanyName, SalesContacts: cfg.SalesContacts, Location: cfg.ShowroomLocation},
		prompts, nil, nil,
		conversation.EngineConfig{
			Model:            cfg.GeminiModel,
			MaxTokens:        cfg.LLMMaxTokens,
			Temperature:      cfg.LLMTemperature,
			MaxSearchResults: cfg.MaxSearchResults,
		},
		logger,
	)

	sessionID := uuid.NewString()
	fmt.Printf("%s chat (session %s). Type 'quit' to exit.\n", cfg.CompanyName, sessionID[:8])

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "quit" || text == "exit" {
			return
		}

		callCtx, cancel := context.WithTimeout(ctx, cfg.LLMTimeout)
		reply, err := engine.ProcessMessage(callCtx, conversation.Request{SessionID: sessionID, Text: text})
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		fmt.Println(reply.Text)
		if reply.CalendarLink != "" {
			fmt.Println("calendar:", reply.CalendarLink)
		}
	}
}
