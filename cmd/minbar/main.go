// Copyright 2025 Minbar AI
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
	"strings"

	"github.com/minbar-ai/minbar"
	"github.com/minbar-ai/minbar/ai"
	"github.com/minbar-ai/minbar/core"
	"github.com/minbar-ai/minbar/engine"
	"github.com/minbar-ai/minbar/ingestion"
	"github.com/urfave/cli/v2"
)

func main() {
	dbFlag := &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}
	emailFlag := &cli.StringFlag{
		Name:     "email",
		Aliases:  []string{"e"},
		Usage:    "Email of the user running the command",
		Required: true,
	}
	embeddingHostFlag := &cli.StringFlag{
		Name:  "embedding-host",
		Usage: "Embedding service host URL",
		Value: "http://localhost:11434/v1",
	}
	embeddingModelFlag := &cli.StringFlag{
		Name:  "embedding-model",
		Usage: "Embedding model name",
		Value: "all-minilm",
	}

	app := &cli.App{
		Name:  "minbar",
		Usage: "Scholarly research assistant for Quran, Hadith, and Fiqh",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Load a corpus JSON file into the database",
				Action: ingestCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the corpus JSON file",
						Required: true,
					},
				},
			},
			{
				Name:   "embed",
				Usage:  "Backfill embedding vectors for corpus items that have none",
				Action: embedCommand,
				Flags: []cli.Flag{
					dbFlag,
					embeddingHostFlag,
					embeddingModelFlag,
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of items to embed in each batch",
						Value: 32,
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a question as a user",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					dbFlag,
					emailFlag,
					embeddingHostFlag,
					embeddingModelFlag,
					&cli.StringFlag{
						Name:    "generation-token",
						Usage:   "API token for the generation backend",
						EnvVars: []string{"GROQ_API_KEY"},
					},
					&cli.StringFlag{
						Name:    "tavily-key",
						Usage:   "Tavily API key enabling the web search fallback",
						EnvVars: []string{"TAVILY_API_KEY"},
					},
					&cli.Uint64Flag{
						Name:    "session",
						Aliases: []string{"s"},
						Usage:   "Continue an existing session instead of starting a new one",
					},
					&cli.BoolFlag{
						Name:  "comparative",
						Usage: "Compare positions across the fiqh schools",
					},
				},
			},
			{
				Name:   "history",
				Usage:  "List a user's recent conversation turns",
				Action: historyCommand,
				Flags: []cli.Flag{
					dbFlag,
					emailFlag,
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of turns to show",
						Value:   20,
					},
				},
			},
			{
				Name:  "user",
				Usage: "Manage users",
				Subcommands: []*cli.Command{
					{
						Name:   "add",
						Usage:  "Create a user",
						Action: userAddCommand,
						Flags: []cli.Flag{
							dbFlag,
							emailFlag,
							&cli.StringFlag{
								Name:  "name",
								Usage: "Display name",
							},
							&cli.StringFlag{
								Name:  "tier",
								Usage: "Subscription tier (free, pro)",
								Value: "free",
							},
							&cli.StringFlag{
								Name:  "locale",
								Usage: "Response language (en, bn, ar)",
								Value: "en",
							},
							&cli.StringFlag{
								Name:  "school",
								Usage: "Preferred fiqh school (Hanafi, Maliki, Shafi'i, Hanbali)",
							},
						},
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

	items, err := ingestion.LoadCorpusFile(c.String("file"))
	if err != nil {
		return err
	}

	assistant, err := minbar.NewAssistant(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer assistant.Close()

	added, err := assistant.CorpusRepository().AddCorpusItems(ctx, items...)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Ingested %d corpus items. Run 'minbar embed' to generate their vectors.\n", len(added))
	return nil
}

func embedCommand(c *cli.Context) error {
	ctx := context.Background()

	assistant, err := minbar.NewAssistant(c.String("db"),
		minbar.WithAIConfig(ai.NewConfig(
			ai.WithEmbeddingHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
		)),
	)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer assistant.Close()

	pipeline, err := assistant.NewIngestionPipeline(
		ingestion.WithBatchSize(c.Int("batch-size")),
	)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	embedded, err := pipeline.Backfill(ctx)
	if err != nil {
		return fmt.Errorf("embedding backfill failed after %d items: %w", embedded, err)
	}

	fmt.Printf("Embedded %d corpus items.\n", embedded)
	return nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	opts := []minbar.AssistantOption{
		minbar.WithAIConfig(ai.NewConfig(
			ai.WithEmbeddingHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
			ai.WithGenerationToken(c.String("generation-token")),
		)),
	}
	if key := c.String("tavily-key"); key != "" {
		opts = append(opts, minbar.WithTavilyAPIKey(key))
	}

	assistant, err := minbar.NewAssistant(c.String("db"), opts...)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer assistant.Close()

	user, err := assistant.UserRepository().GetUserByEmail(ctx, c.String("email"))
	if err != nil {
		return fmt.Errorf("looking up user %q: %w", c.String("email"), err)
	}

	eng, err := assistant.NewEngine()
	if err != nil {
		return err
	}

	mode := core.ModeStandard
	if c.Bool("comparative") {
		mode = core.ModeComparative
	}

	response, err := eng.Answer(ctx, user.Id, &engine.Request{
		Query:     question,
		SessionId: core.ID(c.Uint64("session")),
		Mode:      mode,
	})
	if err != nil {
		return err
	}

	fmt.Printf("[session %d: %s]\n\n", response.SessionId, response.SessionTitle)
	fmt.Println(response.Response)
	if len(response.Citations) > 0 {
		fmt.Println("\nSources:")
		for _, citation := range response.Citations {
			fmt.Printf("  - %s\n", citation)
		}
	}
	return nil
}

func historyCommand(c *cli.Context) error {
	ctx := context.Background()

	assistant, err := minbar.NewAssistant(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer assistant.Close()

	user, err := assistant.UserRepository().GetUserByEmail(ctx, c.String("email"))
	if err != nil {
		return fmt.Errorf("looking up user %q: %w", c.String("email"), err)
	}

	turns, err := assistant.HistoryRepository().GetRecentTurns(ctx, user.Id, c.Int("limit"))
	if err != nil {
		return err
	}

	if len(turns) == 0 {
		fmt.Println("No conversation history.")
		return nil
	}
	for _, turn := range turns {
		fmt.Printf("[%s] (session %d)\nQ: %s\nA: %s\n\n",
			turn.CreatedAt.Format("2006-01-02 15:04"), turn.SessionId, turn.Query, turn.Response)
	}
	return nil
}

func userAddCommand(c *cli.Context) error {
	ctx := context.Background()

	tier, err := parseTier(c.String("tier"))
	if err != nil {
		return err
	}
	if school := c.String("school"); school != "" && !core.IsRecognizedSchool(school) {
		return fmt.Errorf("unrecognized school %q: must be one of %s", school, strings.Join(core.Schools, ", "))
	}

	assistant, err := minbar.NewAssistant(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer assistant.Close()

	user, err := assistant.UserRepository().AddUser(ctx, &core.User{
		Email:  c.String("email"),
		Name:   c.String("name"),
		Tier:   tier,
		Locale: c.String("locale"),
		School: c.String("school"),
	})
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	fmt.Printf("Created user %d (%s, %s tier, %d queries/day).\n",
		user.Id, user.Email, user.Tier, user.UsageLimit)
	return nil
}

func parseTier(name string) (core.Tier, error) {
	switch strings.ToLower(name) {
	case "free":
		return core.TierFree, nil
	case "pro":
		return core.TierPro, nil
	default:
		return 0, fmt.Errorf("invalid tier %q: must be free or pro", name)
	}
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
