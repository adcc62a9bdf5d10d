package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jirayus/storeline-service-agent/agent/agents/assistant"
	"github.com/jirayus/storeline-service-agent/agent/catalog"
	contractx "github.com/jirayus/storeline-service-agent/agent/contract"
	llmx "github.com/jirayus/storeline-service-agent/agent/llm"
	oraclex "github.com/jirayus/storeline-service-agent/agent/oracle"
	configx "github.com/jirayus/storeline-service-agent/pkg/config"
	_ "github.com/jirayus/storeline-service-agent/pkg/logger/autoload"
	ollamax "github.com/jirayus/storeline-service-agent/pkg/ollama"
)

type AppConfig struct {
	CatalogPath string `envconfig:"CATALOG_PATH" split_words:"true" default:"products.json"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")
	llmCfg := configx.MustNew[llmx.Config]("LLM")
	ollamaCfg := configx.MustNew[ollamax.Config]("OLLAMA")
	pgCfg := configx.MustNew[catalog.PostgresConfig]("CATALOG_PG")

	store, err := loadCatalog(context.Background(), appCfg.CatalogPath, *pgCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("catalog load failed")
	}
	log.Info().Int("products", store.Len()).Msg("catalog loaded")

	client := ollamax.NewClient(*ollamaCfg)
	if client == nil {
		log.Fatal().Msg("ollama client configuration is incomplete")
	}
	oracle, err := oraclex.New(client)
	if err != nil {
		log.Fatal().Err(err).Msg("oracle init failed")
	}

	svc, err := assistant.New(store, oracle, *llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("assistant init failed")
	}

	runSession(context.Background(), svc)
}

func loadCatalog(ctx context.Context, path string, pgCfg catalog.PostgresConfig) (*catalog.Store, error) {
	if strings.TrimSpace(pgCfg.DSN) != "" {
		return catalog.LoadPostgres(ctx, pgCfg)
	}
	return catalog.LoadFile(path)
}

// runSession owns this session's history: the assistant is a pure function
// over (input, history) and keeps no conversational state of its own.
func runSession(ctx context.Context, svc *assistant.Assistant) {
	fmt.Println("Service Assistant ready. Ask about our products (ctrl-d to quit).")

	var history []contractx.Message
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		reply, newHistory, err := svc.HandleTurn(ctx, text, history)
		if err != nil {
			log.Error().Err(err).Msg("turn failed")
			fmt.Println("Sorry, something went wrong. Please try again.")
			continue
		}
		history = newHistory
		fmt.Println(reply)
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("stdin read failed")
	}
}
