package main

import (
	"context"
	"flag"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/SaiSandeep10/campusinfo/internal/chunker"
	"github.com/SaiSandeep10/campusinfo/internal/config"
	"github.com/SaiSandeep10/campusinfo/internal/domain"
	"github.com/SaiSandeep10/campusinfo/internal/embedding"
	"github.com/SaiSandeep10/campusinfo/internal/embedding/openai"
	"github.com/SaiSandeep10/campusinfo/internal/embedding/tfidf"
	"github.com/SaiSandeep10/campusinfo/internal/index"
	"github.com/SaiSandeep10/campusinfo/internal/loader"
	"github.com/SaiSandeep10/campusinfo/internal/summarizer"
	"github.com/SaiSandeep10/campusinfo/internal/vectorstore/file"
	"github.com/SaiSandeep10/campusinfo/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var scrape bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/campusinfo/config.yaml if not provided)")
	flag.BoolVar(&scrape, "scrape", false, "Fetch the configured pages before indexing (refreshes the scraped-text cache)")
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
	logger.Info("config loaded", "path", cfgPath)

	// Assemble components
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
		emb = tfidf.NewEmbedder()
	default:
		logger.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	ch, err := chunker.NewOverlapChunker(cfg.Chunker.MaxChars, cfg.Chunker.OverlapChars)
	if err != nil {
		logger.Fatalf("chunker init failed: %v", err)
	}

	var st domain.VectorStore
	var indexDir string
	switch cfg.VectorStore.Type {
	case "file", "":
		indexDir = cfg.VectorStore.File.Dir
		st = file.NewStore(indexDir)
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

	ctx := context.Background()

	if scrape {
		if len(cfg.Sources.Pages) == 0 {
			logger.Warn("-scrape given but no pages configured")
		} else {
			scraper := loader.NewScraper(loader.ScraperOptions{Logger: logger})
			scraped := scraper.ScrapeAll(ctx, cfg.Sources.Pages)
			for _, sk := range scraped.Skipped {
				logger.Warn("page skipped", "url", sk.Source, "reason", sk.Reason)
			}
			if err := loader.SaveTextDir(cfg.Sources.ScrapedDir, scraped.Documents); err != nil {
				logger.Fatalf("saving scraped pages failed: %v", err)
			}
			logger.Info("pages scraped", "fetched", len(scraped.Documents), "skipped", len(scraped.Skipped))
		}
	}

	corpus := loader.TextDir(cfg.Sources.ScrapedDir)
	corpus.Merge(loader.PDFs(cfg.Sources.PDFs))
	if len(corpus.Documents) == 0 {
		logger.Fatalf("no readable sources; configure pdfs/pages in %s or run with -scrape", cfgPath)
	}

	builder := index.NewBuilder(ch, emb, st, summarizer.NewFrequencySummarizer(), index.Options{
		SummaryMaxSentences: cfg.Summarizer.MaxSentences,
		Logger:              logger,
		Progress:            true,
	})
	report, err := builder.Build(ctx, corpus)
	if err != nil {
		logger.Fatalf("index build failed: %v", err)
	}

	// A prepared vector space has to survive to query time alongside the index.
	if stateful, ok := emb.(embedding.Stateful); ok && indexDir != "" {
		if err := stateful.SaveState(indexDir); err != nil {
			logger.Fatalf("saving embedder state failed: %v", err)
		}
	}

	for _, sk := range report.SkippedSources {
		logger.Warn("source skipped", "source", sk.Source, "reason", sk.Reason)
	}
	logger.Info("done",
		"documents", report.Documents,
		"chunks", report.Chunks,
		"skipped_sources", len(report.SkippedSources),
		"skipped_chunks", len(report.SkippedChunks))
}
