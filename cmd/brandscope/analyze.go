package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/brandscope/internal/backends"
	"github.com/jonathan/brandscope/internal/db"
	"github.com/jonathan/brandscope/internal/keywords"
	"github.com/jonathan/brandscope/internal/llm"
	"github.com/jonathan/brandscope/internal/observability"
	"github.com/jonathan/brandscope/internal/prompts"
	"github.com/jonathan/brandscope/internal/research"
	"github.com/jonathan/brandscope/internal/session"
	"github.com/jonathan/brandscope/internal/sov"
	"github.com/jonathan/brandscope/internal/types"
)

var (
	analyzeBrand      string
	analyzeProduct    string
	analyzeWebsite    string
	analyzePrompts    int
	analyzeBackends   []string
	analyzeRegenerate bool
	analyzeVerbose    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one analysis from the command line",
	Long:  `Run a full visibility analysis for a brand and print the results when it completes.`,
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeBrand, "brand", "", "Brand name to analyze (required)")
	analyzeCmd.Flags().StringVar(&analyzeProduct, "product", "", "Product name to focus the analysis on")
	analyzeCmd.Flags().StringVar(&analyzeWebsite, "website", "", "Brand website URL")
	analyzeCmd.Flags().IntVar(&analyzePrompts, "prompts", 0, "Number of prompts to generate")
	analyzeCmd.Flags().StringSliceVar(&analyzeBackends, "backends", []string{"gemini-flash"}, "Backends to query")
	analyzeCmd.Flags().BoolVar(&analyzeRegenerate, "regenerate-prompts", false, "Generate fresh prompts even when saved ones exist")
	analyzeCmd.Flags().BoolVar(&analyzeVerbose, "verbose", false, "Print research and per-response detail")
	_ = analyzeCmd.MarkFlagRequired("brand")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	ctx := cmd.Context()

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	registry := backends.NewRegistry()
	registry.Register(backends.NewGeminiFlash(client))
	registry.Register(backends.NewGeminiPro(client))
	registry.RegisterExclusive(backends.NewAIOverview())

	orchestrator := session.New(
		database,
		research.NewService(client),
		keywords.NewExtractor(client),
		prompts.NewGenerator(client),
		backends.NewExecutor(registry),
	)

	req := &types.AnalysisRequest{
		BrandName:         analyzeBrand,
		ProductName:       analyzeProduct,
		WebsiteURL:        analyzeWebsite,
		NumPrompts:        analyzePrompts,
		Backends:          analyzeBackends,
		RegeneratePrompts: analyzeRegenerate,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	sessionID, err := orchestrator.Start(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to start analysis: %w", err)
	}
	fmt.Printf("Started analysis %s\n", sessionID)

	if err := waitForCompletion(ctx, orchestrator, sessionID); err != nil {
		return err
	}

	return printResults(ctx, database, sessionID)
}

// waitForCompletion polls session progress until a terminal state.
func waitForCompletion(ctx context.Context, orchestrator *session.Orchestrator, sessionID string) error {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	lastStep := ""
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		progress, err := orchestrator.Status(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}
		if progress.CurrentStep != lastStep {
			fmt.Printf("[%3d%%] %s\n", progress.Progress, progress.CurrentStep)
			lastStep = progress.CurrentStep
		}

		switch progress.Status {
		case types.StatusCompleted:
			return nil
		case types.StatusError:
			return fmt.Errorf("analysis failed: %s", progress.Error)
		}
	}
}

// printResults loads the finished session's artifacts and prints them.
func printResults(ctx context.Context, database *db.DB, sessionID string) error {
	printer := observability.NewPrinter(os.Stdout)

	sess, err := database.SessionByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if sess == nil {
		return fmt.Errorf("session %s not found", sessionID)
	}

	if analyzeVerbose {
		printer.PrintResearch(sess.Research)

		responses, err := database.SessionResponses(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to load responses: %w", err)
		}
		printer.PrintResponses(responses)
	}

	summary, err := database.SessionSummary(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load summary: %w", err)
	}
	printer.PrintSummary(summary)

	entities, err := database.SessionShareOfVoice(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load share of voice: %w", err)
	}
	ranking := sov.Ranking{
		Entities:      entities,
		TotalEntities: len(entities),
		BrandName:     sess.BrandName,
	}
	for _, e := range entities {
		if e.EntityName == sess.BrandName {
			ranking.BrandRank = e.Rank
			break
		}
	}
	printer.PrintShareOfVoice(ranking)

	return nil
}
