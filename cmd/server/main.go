package main

import (
	"context"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/internal/config"
	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/internal/core"
	httpserver "github.com/Nopriorauthorization/nopriorauthorization-app-sub004/internal/http"
	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/internal/llm"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		// No logger yet.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	embedder, err := llm.NewEmbedder(ctx, cfg.Embedding.Provider, cfg.Embedding.APIKey, cfg.Embedding.Model, cfg.Embedding.Endpoint)
	if err != nil {
		logger.Fatal("embedding backend", zap.Error(err))
	}
	// The generation client never embeds, so it keeps its own default
	// embedding model regardless of the configured embedding backend.
	client := llm.NewOpenAIClient(config.OpenAIAPIKey(), "", "")

	holder, err := core.NewHolder(cfg.ContentDir, logger)
	if err != nil {
		logger.Fatal("loading knowledge corpus", zap.Error(err))
	}

	engine := core.NewEngine(holder, embedder, client, logger)
	engine.SetChatModel(cfg.Chat.Model)
	engine.Ranker().SetMaxEntries(cfg.Retrieval.FreeMaxEntries, cfg.Retrieval.PremiumMaxEntries)

	srv := httpserver.NewServer(engine, holder, logger)
	logger.Info("listening", zap.String("addr", cfg.ListenAddr))
	if err := http.ListenAndServe(cfg.ListenAddr, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
