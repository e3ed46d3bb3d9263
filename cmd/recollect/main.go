// Copyright 2025 Sothis Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	recollect "github.com/sothis-labs/recollect"
	"github.com/sothis-labs/recollect/ai"
	"github.com/sothis-labs/recollect/ai/openai"
	"github.com/sothis-labs/recollect/analysis"
	"github.com/sothis-labs/recollect/config"
	"github.com/sothis-labs/recollect/ingestion"
	"github.com/sothis-labs/recollect/reembed"
	"github.com/sothis-labs/recollect/source"
	"github.com/sothis-labs/recollect/source/telegram"
	"github.com/sothis-labs/recollect/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "recollect",
		Usage: "Ingestion and semantic retrieval for conversational data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest records from a JSONL export into the archive",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to JSONL export file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "container",
						Usage:    "Container (conversation) identifier to ingest",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of records to fetch per run",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to embed per batch",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent batch workers",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the archive for records similar to a query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results to return",
						Value: 5,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
				},
			},
			{
				Name:   "recent",
				Usage:  "Show the most recent records for a container",
				Action: recentCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.StringFlag{
						Name:     "container",
						Usage:    "Container (conversation) identifier",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of records to show",
						Value: 10,
					},
				},
			},
			{
				Name:   "analyze",
				Usage:  "Summarize recent records for a container with a language model",
				Action: analyzeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.StringFlag{
						Name:     "container",
						Usage:    "Container (conversation) identifier",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of recent records to analyze",
						Value: 50,
					},
					&cli.StringFlag{
						Name:  "model-host",
						Usage: "Completion service host URL",
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "Completion model name",
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all stored records with new embeddings",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:   "collect",
				Usage:  "Collect Telegram messages and periodically ingest them",
				Action: collectCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.StringFlag{
						Name:  "telegram-token",
						Usage: "Telegram bot API token",
					},
					&cli.StringFlag{
						Name:  "container",
						Usage: "Container (chat) identifier to ingest; empty means all chats",
					},
					&cli.DurationFlag{
						Name:  "flush-interval",
						Usage: "How often to ingest the collected buffer",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	archive, err := openArchive(c, cfg)
	if err != nil {
		return err
	}
	defer archive.Close()

	ingestor, err := archive.NewIngestor(
		ingestion.WithLimit(intFlag(c, "limit", cfg.Ingest.Limit)),
		ingestion.WithBatchSize(intFlag(c, "batch-size", cfg.Ingest.BatchSize)),
		ingestion.WithWorkers(intFlag(c, "workers", cfg.Ingest.Workers)),
	)
	if err != nil {
		return fmt.Errorf("failed to create ingestor: %w", err)
	}

	src := source.NewJSONL(c.String("input"))

	stats, err := ingestor.Ingest(ctx, src, c.String("container"))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Fetched %d records: %d stored, %d already present, %d skipped, %d errors\n",
		stats.TotalFetched, stats.NewStored, stats.AlreadyExists, stats.SkippedNoText, stats.Errors)

	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(c.Args().First())
	if query == "" {
		return fmt.Errorf("a search query is required")
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	archive, err := openArchive(c, cfg)
	if err != nil {
		return err
	}
	defer archive.Close()

	searcher, err := archive.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	results, err := searcher.Search(ctx, query, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for _, r := range results {
		fmt.Printf("%8.4f  %s  %s\n", r.Distance, r.Timestamp.Format(time.RFC3339), r.Excerpt)
	}

	return nil
}

func recentCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	archive, err := openArchive(c, cfg)
	if err != nil {
		return err
	}
	defer archive.Close()

	records, err := archive.RecordRepository().GetRecentRecords(ctx, c.String("container"), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to load recent records: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No records.")
		return nil
	}

	for _, rec := range records {
		fmt.Printf("%s  %s\n", rec.Timestamp.Format(time.RFC3339), rec.Text)
	}

	return nil
}

func analyzeCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if c.IsSet("model-host") {
		cfg.AI.CompletionHost = c.String("model-host")
	}
	if c.IsSet("model") {
		cfg.AI.CompletionModel = c.String("model")
	}

	archive, err := openArchive(c, cfg)
	if err != nil {
		return err
	}
	defer archive.Close()

	analyzer, err := archive.NewAnalyzer(analysis.WithModelName(cfg.AI.CompletionModel))
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}

	result, err := analyzer.Summarize(ctx, c.String("container"), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Println(result.Result)

	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbPath := stringFlag(c, "db", cfg.Store.Path)
	if dbPath == "" {
		return fmt.Errorf("database path is required")
	}

	backend, err := badger.OpenBackend(dbPath, false, badger.ParseMetric(cfg.Store.Metric))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewRecordRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	host := stringFlag(c, "embedding-host", cfg.AI.EmbeddingHost)

	// Completion settings are unused for reembedding; defaults suffice.
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(host),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := reembed.NewReembedder(repo, embedder, reembedConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", host)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	return nil
}

func collectCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	token := stringFlag(c, "telegram-token", cfg.Telegram.Token)
	if token == "" {
		return fmt.Errorf("telegram-token is required")
	}
	container := stringFlag(c, "container", cfg.Telegram.Container)

	flushInterval := cfg.Telegram.FlushInterval()
	if c.IsSet("flush-interval") {
		flushInterval = c.Duration("flush-interval")
	}
	if flushInterval <= 0 {
		return fmt.Errorf("flush-interval must be greater than 0")
	}

	archive, err := openArchive(c, cfg)
	if err != nil {
		return err
	}
	defer archive.Close()

	ingestor, err := archive.NewIngestor(
		ingestion.WithLimit(cfg.Ingest.Limit),
		ingestion.WithBatchSize(cfg.Ingest.BatchSize),
		ingestion.WithWorkers(cfg.Ingest.Workers),
	)
	if err != nil {
		return fmt.Errorf("failed to create ingestor: %w", err)
	}

	collector := telegram.NewCollector(token,
		telegram.WithBufferSize(cfg.Telegram.BufferSize))

	collectorErr := make(chan error, 1)
	go func() {
		collectorErr <- collector.Start(ctx)
	}()

	slog.Info("collecting messages", "flush_interval", flushInterval)

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Final flush before shutdown.
			flushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			_, flushErr := ingestor.Ingest(flushCtx, collector, container)
			cancel()
			if flushErr != nil {
				slog.Warn("final flush failed", "error", flushErr)
			}
			return nil
		case err := <-collectorErr:
			if err != nil {
				return fmt.Errorf("collector stopped: %w", err)
			}
			return nil
		case <-ticker.C:
			stats, err := ingestor.Ingest(ctx, collector, container)
			if err != nil {
				slog.Warn("periodic ingestion failed", "error", err)
				continue
			}
			if stats.TotalFetched > 0 {
				slog.Info("ingested buffer",
					"fetched", stats.TotalFetched,
					"stored", stats.NewStored,
					"duplicates", stats.AlreadyExists,
					"skipped", stats.SkippedNoText,
					"errors", stats.Errors)
			}
		}
	}
}

// openArchive opens the archive using the database path, metric, and AI
// settings from the configuration, with flag overrides where provided.
func openArchive(c *cli.Context, cfg *config.Config) (*recollect.Archive, error) {
	dbPath := stringFlag(c, "db", cfg.Store.Path)
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(stringFlag(c, "embedding-host", cfg.AI.EmbeddingHost)),
		ai.WithEmbeddingModel(stringFlag(c, "embedding-model", cfg.AI.EmbeddingModel)),
		ai.WithCompletionHost(cfg.AI.CompletionHost),
		ai.WithCompletionModel(cfg.AI.CompletionModel),
		ai.WithEmbeddingDims(cfg.AI.EmbeddingDims),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	archive, err := recollect.Open(dbPath,
		recollect.WithAIConfig(aiConfig),
		recollect.WithMetric(badger.ParseMetric(cfg.Store.Metric)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	return archive, nil
}

// stringFlag returns the flag value if set on the command line, otherwise
// the configuration fallback.
func stringFlag(c *cli.Context, name, fallback string) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	if v := c.String(name); v != "" {
		return v
	}
	return fallback
}

func intFlag(c *cli.Context, name string, fallback int) int {
	if c.IsSet(name) {
		return c.Int(name)
	}
	if v := c.Int(name); v != 0 {
		return v
	}
	return fallback
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
