package admin

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Farerworks/secondbrain-coach/internal/config"
	"github.com/Farerworks/secondbrain-coach/internal/openai"
	"github.com/Farerworks/secondbrain-coach/internal/rag"
	"github.com/Farerworks/secondbrain-coach/internal/store"
	openaisdk "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
)

// IngestCmd returns the ingest command group for loading documents
// into notebooks without running the server.
func IngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest documents into a notebook",
	}

	cmd.AddCommand(ingestFileCmd())
	cmd.AddCommand(ingestCuratedCmd())

	return cmd
}

func ingestFileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Ingest a local file into a notebook",
		Args:  cobra.ExactArgs(1),
		RunE:  runIngestFile,
	}

	cmd.Flags().String("notebook", "", "Target notebook ID (created from --title when empty)")
	cmd.Flags().String("title", "", "Title for a new notebook")

	return cmd
}

func ingestCuratedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curated",
		Short: "Ingest the bundled coaching collections into a notebook",
		RunE:  runIngestCurated,
	}

	cmd.Flags().String("notebook", "", "Target notebook ID (created from --title when empty)")
	cmd.Flags().String("title", "", "Title for a new notebook")

	return cmd
}

func runIngestFile(cmd *cobra.Command, args []string) error {
	svc, notebookID, err := ingestSetup(cmd)
	if err != nil {
		return err
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	result, err := svc.Ingest(context.Background(), notebookID, filepath.Base(path), data, "")
	if err != nil {
		return err
	}

	log.Printf("ingested %s: %d chunks (source %s)", path, result.AddedChunks, result.SourceID)
	return nil
}

func runIngestCurated(cmd *cobra.Command, args []string) error {
	svc, notebookID, err := ingestSetup(cmd)
	if err != nil {
		return err
	}

	result, err := svc.IngestCurated(context.Background(), notebookID)
	if err != nil {
		return err
	}

	log.Printf("ingested curated collections: %d chunks (source %s)", result.AddedChunks, result.SourceID)
	return nil
}

func ingestSetup(cmd *cobra.Command) (*rag.Service, string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	vectorStore, err := store.New(cfg.DataDir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open vector store: %w", err)
	}

	embedder := openai.NewLazyClient(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		BaseURL:             cfg.OpenAIBaseURL,
		EmbeddingModel:      openaisdk.EmbeddingModel(cfg.EmbeddingModel),
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})
	svc := rag.NewService(vectorStore, embedder)

	notebookID, _ := cmd.Flags().GetString("notebook")
	if notebookID != "" {
		return svc, notebookID, nil
	}

	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		return nil, "", fmt.Errorf("either --notebook or --title is required")
	}

	notebook, err := svc.CreateNotebook(title)
	if err != nil {
		return nil, "", err
	}
	log.Printf("created notebook %q (id: %s)", notebook.Title, notebook.ID)
	return svc, notebook.ID, nil
}
