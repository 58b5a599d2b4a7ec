// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/meshintel/brief-engine/internal/fetch"
	"github.com/meshintel/brief-engine/internal/llm"
	"github.com/meshintel/brief-engine/internal/pipeline"
	"github.com/meshintel/brief-engine/internal/store"
	"github.com/meshintel/brief-engine/internal/synth"
	"github.com/meshintel/brief-engine/internal/telemetry"
	"github.com/meshintel/brief-engine/internal/websearch"
	"github.com/meshintel/brief-engine/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [topic]",
	Short: "Run the research pipeline for a topic",
	Long: `Research runs the full pipeline for a topic: context resolution,
planning, web search, content fetching, per-source summarization, and
synthesis into a final brief. The brief is printed to stdout and
archived for later retrieval.

Depth controls breadth: 1 (shallow) searches 5 results and fetches 3
pages, 2 (medium) 10/6, 3 (deep) 15/10. Follow-up requests reuse the
user's stored conversation history as context.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().Int("depth", 2, "research depth: 1 (shallow), 2 (medium), or 3 (deep)")
	researchCmd.Flags().String("user", "cli", "user ID for history and the brief archive")
	researchCmd.Flags().Bool("follow-up", false, "treat as a follow-up using stored conversation history")
	researchCmd.Flags().Int("context-limit", 0, "max prior exchanges to load for follow-up context (0 = store default)")
	researchCmd.Flags().Bool("generative", false, "use a generative model for synthesis when a key is configured")
	researchCmd.Flags().Bool("json", false, "output the brief as JSON")
	researchCmd.Flags().Bool("no-save", false, "skip archiving the brief and exchange")
	researchCmd.Flags().Bool("verbose", false, "log stage telemetry to stderr")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	topic := strings.Join(args, " ")
	depth, _ := cmd.Flags().GetInt("depth")
	userID, _ := cmd.Flags().GetString("user")
	followUp, _ := cmd.Flags().GetBool("follow-up")
	contextLimit, _ := cmd.Flags().GetInt("context-limit")
	generative, _ := cmd.Flags().GetBool("generative")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	noSave, _ := cmd.Flags().GetBool("no-save")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg := pipelineConfig(generative)

	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	req := types.ResearchRequest{
		Topic:        topic,
		Depth:        depth,
		FollowUp:     followUp,
		UserID:       userID,
		ContextLimit: contextLimit,
	}
	if followUp {
		history, err := st.History(userID, contextLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not load history: %v\n", err)
		}
		req.History = history
	}

	p := buildPipeline(cfg, verbose)

	state, err := p.Run(context.Background(), req)
	if err != nil {
		return err
	}

	if !noSave {
		if err := st.SaveBrief(userID, state.FinalBrief); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not archive brief: %v\n", err)
		}
		if err := st.SaveExchange(userID, topic, state.FinalBrief.ExecutiveSummary); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not record exchange: %v\n", err)
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(state.FinalBrief)
	}
	printBrief(state.FinalBrief)
	return nil
}

// buildPipeline assembles the stage implementations from config.
func buildPipeline(cfg types.PipelineConfig, verbose bool) *pipeline.Pipeline {
	client := &http.Client{Timeout: cfg.Search.Timeout}

	backends := []websearch.Backend{
		&websearch.DuckDuckGoBackend{Client: client},
	}
	if cfg.Search.TavilyAPIKey != "" {
		backends = append(backends, &websearch.TavilyBackend{Client: client, APIKey: cfg.Search.TavilyAPIKey})
	}

	var generator llm.Generator
	if cfg.Synthesis.APIKey != "" {
		generator = &llm.GeminiBackend{APIKey: cfg.Synthesis.APIKey, Model: cfg.Synthesis.Model}
	}

	var logger *zap.Logger
	if verbose {
		logger, _ = zap.NewDevelopment()
	}

	return &pipeline.Pipeline{
		Backends:    backends,
		Fetcher:     fetch.New(nil, cfg.Fetch),
		Synthesizer: synth.New(generator, cfg.Synthesis),
		Tracker:     telemetry.New(logger),
		Config:      cfg,
		Out:         os.Stderr,
	}
}

// pipelineConfig merges viper settings with loaded secrets.
func pipelineConfig(generative bool) types.PipelineConfig {
	viper.SetDefault("http.timeout_seconds", 30)
	viper.SetDefault("http.user_agent", "brief-engine/"+version)
	viper.SetDefault("fetch.max_concurrent", 5)
	viper.SetDefault("fetch.max_content_length", 50000)
	viper.SetDefault("summarize.min_content_length", 100)
	viper.SetDefault("ai.model", "gemini-2.0-flash")
	viper.SetDefault("ai.max_retries", 2)
	viper.SetDefault("store.data_dir", "data")
	viper.SetDefault("store.max_history", 10)

	httpCfg := types.HTTPConfig{
		Timeout:   time.Duration(viper.GetInt("http.timeout_seconds")) * time.Second,
		UserAgent: viper.GetString("http.user_agent"),
	}

	aiCfg := types.AIConfig{
		Model:      viper.GetString("ai.model"),
		APIKey:     secretDefault("gemini-api-key", viper.GetString("ai.api_key")),
		MaxRetries: viper.GetInt("ai.max_retries"),
	}

	return types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig:   httpCfg,
			MaxResults:   viper.GetInt("search.max_results"),
			TavilyAPIKey: secretDefault("tavily-api-key", viper.GetString("search.tavily_api_key")),
		},
		Fetch: types.FetchConfig{
			HTTPConfig:       httpCfg,
			MaxConcurrent:    viper.GetInt("fetch.max_concurrent"),
			MaxContentLength: viper.GetInt("fetch.max_content_length"),
		},
		Summarize: types.SummarizeConfig{
			MinContentLength: viper.GetInt("summarize.min_content_length"),
		},
		Plan: types.PlanConfig{AIConfig: aiCfg},
		Synthesis: types.SynthesisConfig{
			AIConfig:      aiCfg,
			UseGenerative: generative,
		},
		Store: types.StoreConfig{
			DataDir:    viper.GetString("store.data_dir"),
			MaxHistory: viper.GetInt("store.max_history"),
		},
	}
}

// printBrief renders the brief as readable text.
func printBrief(brief *types.FinalBrief) {
	fmt.Printf("Research Brief: %s\n", brief.Topic)
	fmt.Printf("Request ID: %s\n", brief.RequestID)
	fmt.Printf("Depth: %s   Confidence: %.1f/10   Sources: %d   Time: %s\n\n",
		brief.ResearchDepth, brief.ConfidenceScore, brief.SourceCount,
		brief.ProcessingTime.Round(time.Millisecond))

	fmt.Println("EXECUTIVE SUMMARY")
	fmt.Println(brief.ExecutiveSummary)
	fmt.Println()

	fmt.Println("KEY FINDINGS")
	for i, finding := range brief.KeyFindings {
		fmt.Printf("%d. %s\n", i+1, finding)
	}
	fmt.Println()

	fmt.Println("DETAILED ANALYSIS")
	fmt.Println(brief.DetailedAnalysis)
	fmt.Println()

	if len(brief.Insights) > 0 {
		fmt.Println("INSIGHTS")
		for _, insight := range brief.Insights {
			fmt.Printf("[%s] %s\n", insight.Category, insight.Description)
		}
		fmt.Println()
	}

	if len(brief.Sources) > 0 {
		fmt.Println("SOURCES")
		for _, src := range brief.Sources {
			fmt.Printf("- %s (%s) credibility %.1f\n", src.Metadata.Title, src.Metadata.URL, src.Metadata.CredibilityScore)
		}
		fmt.Println()
	}

	if len(brief.Limitations) > 0 {
		fmt.Println("LIMITATIONS")
		for _, lim := range brief.Limitations {
			fmt.Printf("- %s\n", lim)
		}
	}
}
