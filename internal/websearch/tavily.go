// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/meshintel/brief-engine/internal/httputil"
	"github.com/meshintel/brief-engine/pkg/types"
)

// tavilyAPIBase is the Tavily search endpoint. Package-level var for test
// substitution.
var tavilyAPIBase = "https://api.tavily.com/search"

// tavilyDefaultScore is used when the API omits a per-result score.
const tavilyDefaultScore = 9.0

// TavilyBackend queries the key-gated Tavily API (R2.1). It is only wired
// into the backend list when an API key is configured.
type TavilyBackend struct {
	Client *http.Client
	APIKey string
}

// Name returns the backend identifier.
func (b *TavilyBackend) Name() string { return "tavily" }

// tavilyRequest is the Tavily search request body.
type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

// tavilyResponse is the Tavily search response body.
type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Search posts the query to the Tavily API and converts its results.
func (b *TavilyBackend) Search(ctx context.Context, query string, maxResults int, cfg types.SearchConfig) ([]types.SearchResult, error) {
	if b.APIKey == "" {
		return nil, fmt.Errorf("tavily API key not configured")
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:      b.APIKey,
		Query:       query,
		SearchDepth: "advanced",
		MaxResults:  maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyAPIBase, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Tavily request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Tavily returned HTTP %d", resp.StatusCode)
	}

	var tr tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("parsing Tavily response: %w", err)
	}

	var results []types.SearchResult
	for _, item := range tr.Results {
		score := tavilyDefaultScore
		if item.Score > 0 {
			// Tavily scores are in [0,1]; rescale to the [0,10] range.
			score = types.ClampScore(item.Score * 10)
		}
		results = append(results, types.SearchResult{
			Title:          item.Title,
			URL:            item.URL,
			Snippet:        item.Content,
			Source:         "tavily",
			RelevanceScore: score,
		})
	}
	return results, nil
}
