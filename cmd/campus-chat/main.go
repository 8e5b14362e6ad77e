package main

import (
	"errors"
	"flag"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/SaiSandeep10/campusinfo/internal/answer"
	"github.com/SaiSandeep10/campusinfo/internal/config"
	"github.com/SaiSandeep10/campusinfo/internal/domain"
	"github.com/SaiSandeep10/campusinfo/internal/embedding/openai"
	"github.com/SaiSandeep10/campusinfo/internal/embedding/tfidf"
	"github.com/SaiSandeep10/campusinfo/internal/retriever"
	"github.com/SaiSandeep10/campusinfo/internal/service"
	"github.com/SaiSandeep10/campusinfo/internal/tui"
	"github.com/SaiSandeep10/campusinfo/internal/vectorstore/file"
	"github.com/SaiSandeep10/campusinfo/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/campusinfo/config.yaml if not provided)")
	flag.Parse()

	logger := log.Default()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, cfgPath, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	// Assemble components
	var indexDir string
	if cfg.VectorStore.Type == "file" || cfg.VectorStore.Type == "" {
		indexDir = cfg.VectorStore.File.Dir
	}

	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "openai", "":
		client, err := openai.New(openai.Config{
			APIKeyEnv:  cfg.Embedder.OpenAI.APIKeyEnv,
			Model:      cfg.Embedder.OpenAI.Model,
			Timeout:    time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
			MaxRetries: cfg.Embedder.OpenAI.MaxRetries,
		})
		if err != nil {
			logger.Fatalf("openai embedder init failed: %v", err)
		}
		emb = client
	case "tfidf":
		// The vector space was fixed at build time; restore it from the index dir.
		tf := tfidf.NewEmbedder()
		if indexDir == "" {
			logger.Fatalf("tfidf embedder requires the file vector store")
		}
		if err := tf.LoadState(indexDir); err != nil {
			logger.Fatalf("loading embedder state failed (rebuild with campus-index): %v", err)
		}
		emb = tf
	default:
		logger.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var st domain.VectorStore
	summary := "Ask about the indexed campus documents."
	switch cfg.VectorStore.Type {
	case "file", "":
		store, err := file.Open(indexDir, emb.ModelInfo())
		switch {
		case errors.Is(err, domain.ErrIndexNotFound):
			logger.Fatalf("no index in %s; run campus-index first", indexDir)
		case errors.Is(err, domain.ErrModelMismatch):
			logger.Fatalf("index/embedder mismatch: %v; rebuild with campus-index", err)
		case err != nil:
			logger.Fatalf("opening index failed: %v", err)
		}
		if s := store.Summary(); s != "" {
			summary = s
		}
		logger.Info("index loaded", "dir", indexDir, "chunks", store.Len(), "model", store.ModelInfo())
		st = store
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			logger.Fatalf("qdrant config missing")
		}
		st = qdrant.NewStore(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		})
	default:
		logger.Fatalf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	synth, err := answer.New(answer.Config{
		APIKeyEnv:   cfg.LLM.APIKeyEnv,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})
	if err != nil {
		if errors.Is(err, domain.ErrMissingCredential) {
			logger.Fatalf("%v", err)
		}
		logger.Fatalf("answer synthesizer init failed: %v", err)
	}

	ret := retriever.New(emb, st, cfg.Retriever.TopK, cfg.Retriever.MinScore)
	assistant := service.NewCampusAssistant(ret, synth)

	m := tui.New(assistant, summary)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		logger.Fatalf("%v", err)
	}
}
