package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/careguide-ai/server/internal/core"
	"github.com/careguide-ai/server/internal/engine/cache"
	"github.com/careguide-ai/server/internal/engine/llm"
	"github.com/careguide-ai/server/internal/engine/model"
	"github.com/careguide-ai/server/internal/engine/orchestrator"
	"github.com/careguide-ai/server/internal/engine/repo"
	"github.com/careguide-ai/server/internal/engine/resilience"
	"github.com/careguide-ai/server/internal/engine/tools"
	logx "github.com/careguide-ai/server/pkg/logger"
	pkgredis "github.com/careguide-ai/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the guidance engine,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Engine configs
	Model     model.ModelConfig
	Loop      model.LoopConfig
	RateLimit model.RateLimitConfig
	Retry     model.RetryConfig
	Breaker   model.BreakerConfig
	Cache     model.CacheConfig
	Session   model.SessionConfig
}

func main() {
	fmt.Println("Coverage guidance engine demo...")
	ctx := context.Background()
	logx.Init(logx.LoggerOpts{Environment: core.Development})

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	rdb, err := cfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	fmt.Println("Connected to Redis successfully")

	store := repo.NewRedisSessionStore(rdb, cfg.Session.TTL)
	governor := resilience.NewGovernor(cfg.RateLimit, cfg.Breaker, cfg.Retry)
	lookupCache := cache.New(cfg.Cache.MaxEntries)

	registry, err := tools.NewDefaultRegistry(ctx, tools.Deps{
		Governor: governor,
		Cache:    lookupCache,
		CacheTTL: cfg.Cache.TTL,
	})
	if err != nil {
		log.Fatalf("Failed to build capability registry: %v", err)
	}

	provider, err := llm.NewGeminiProvider(ctx, llm.GeminiConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	}, registry.Infos())
	if err != nil {
		log.Fatalf("Failed to build model provider: %v", err)
	}

	engine := orchestrator.New(provider, registry, governor, cfg.Loop, []string{"web_search"})

	testTurns := []struct {
		description string
		message     string
	}{
		{
			description: "Initial symptom report",
			message:     "Hi, my back hurts and I'm worried about what my insurance will cover.",
		},
		{
			description: "Duration follow-up",
			message:     "It's been going on for about 8 weeks. I already tried physical therapy.",
		},
		{
			description: "Procedure coverage question",
			message:     "My doctor wants an MRI of my lower back. Will that be covered?",
		},
	}

	conversationID := "demo-conversation-001"

	for i, turn := range testTurns {
		fmt.Printf("\nTurn %d: %s\n", i+1, turn.description)
		fmt.Printf("Patient: %q\n", turn.message)

		history, err := store.LoadHistory(ctx, conversationID)
		if err != nil {
			log.Fatalf("Failed to load history for turn %d: %v", i+1, err)
		}
		session, err := store.LoadSession(ctx, conversationID)
		if err != nil {
			log.Fatalf("Failed to load session for turn %d: %v", i+1, err)
		}

		result, err := engine.RunTurn(ctx, model.TurnRequest{
			ConversationID: conversationID,
			UserMessage:    turn.message,
			History:        history.Messages,
			Session:        session,
		})
		if err != nil {
			log.Fatalf("Turn %d failed: %v", i+1, err)
		}

		if err := store.AppendMessages(ctx, conversationID, result.Messages...); err != nil {
			log.Fatalf("Failed to persist messages for turn %d: %v", i+1, err)
		}
		if err := store.SaveSession(ctx, conversationID, result.Session); err != nil {
			log.Fatalf("Failed to persist session for turn %d: %v", i+1, err)
		}

		fmt.Printf("Assistant: %s\n", result.FinalText)
		if len(result.Suggestions) > 0 {
			fmt.Printf("Suggestions: %s\n", strings.Join(result.Suggestions, " | "))
		}
		if len(result.CapabilitiesUsed) > 0 {
			fmt.Printf("Capabilities: %s\n", strings.Join(result.CapabilitiesUsed, ", "))
		}
		fmt.Println(strings.Repeat("-", 45))

		time.Sleep(500 * time.Millisecond)
	}

	fmt.Println("\nDemo complete.")
}
