package admin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Farerworks/secondbrain-coach/internal/api/handlers"
	"github.com/Farerworks/secondbrain-coach/internal/config"
	"github.com/Farerworks/secondbrain-coach/internal/knowledge"
	"github.com/Farerworks/secondbrain-coach/internal/openai"
	"github.com/Farerworks/secondbrain-coach/internal/rag"
	"github.com/Farerworks/secondbrain-coach/internal/search"
	"github.com/Farerworks/secondbrain-coach/internal/server"
	"github.com/Farerworks/secondbrain-coach/internal/service"
	"github.com/Farerworks/secondbrain-coach/internal/store"
	"github.com/Farerworks/secondbrain-coach/internal/telemetry"
	openaisdk "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the coaching API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	vectorStore, err := store.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	log.Printf("vector store ready at %s", cfg.DataDir)

	embedder := openai.NewLazyClient(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		BaseURL:             cfg.OpenAIBaseURL,
		EmbeddingModel:      openaisdk.EmbeddingModel(cfg.EmbeddingModel),
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})
	ragSvc := rag.NewService(vectorStore, embedder)

	corpus, err := knowledge.Load()
	if err != nil {
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}
	index := search.NewIndex(corpus.Items)
	log.Printf("knowledge base loaded (%d items, %d curated)", len(corpus.Items), len(corpus.Curated))

	var answerer service.AnswerClient
	if cfg.HasModel() {
		answerer = openai.NewChatClient(openai.ChatConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.ChatModel,
		})
		log.Printf("chat model configured (%s)", cfg.ChatModel)
	}
	chatSvc := service.NewChatService(index, answerer)

	routerCfg := server.RouterConfig{
		SearchHandler:   handlers.NewSearchHandler(index),
		ChatHandler:     handlers.NewChatHandler(chatSvc),
		NotebookHandler: handlers.NewNotebookHandler(ragSvc),
		AskHandler:      handlers.NewAskHandler(ragSvc, chatSvc),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}
