// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websearch queries web search backends and returns unified,
// deduplicated results. Implements: prd002-search (R1-R5);
//
//	docs/ARCHITECTURE § Search.
package websearch

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/meshintel/brief-engine/pkg/types"
)

// Backend searches a single web search provider. Each backend (DuckDuckGo,
// Tavily) implements this interface per the Strategy pattern (R2.4). A
// backend reports its own failures as an error; the stage converts them to
// warnings and an empty contribution rather than failing the run.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int, cfg types.SearchConfig) ([]types.SearchResult, error)
}

// querySuffixes derives supplementary query variants beyond the base topic.
// Deterministic per prd002-search R2.2: variants are the topic plus fixed
// suffixes, taken in order up to the depth's variant count.
var querySuffixes = []string{
	"research analysis",
	"current trends",
	"challenges limitations",
	"future prospects",
}

// QueryVariants returns the ordered search queries for a topic: the raw
// topic first, then fixed-suffix variants up to count (R2.2).
func QueryVariants(topic string, count int) []string {
	if count < 1 {
		count = 1
	}
	queries := []string{topic}
	for _, suffix := range querySuffixes {
		if len(queries) >= count {
			break
		}
		queries = append(queries, topic+" "+suffix)
	}
	return queries
}

// SearchOutput holds the merged results and per-backend failure notes.
type SearchOutput struct {
	Results       []types.SearchResult
	QueriesUsed   []string
	DupsRemoved   int
	BackendErrors []string
}

// Search runs every query variant for the request's depth against all
// backends concurrently, deduplicates by URL, and returns results ordered
// by descending relevance, capped at the depth's result count (R1-R3).
func Search(ctx context.Context, topic string, depth int, backends []Backend, cfg types.SearchConfig, w io.Writer) (SearchOutput, error) {
	if topic == "" {
		return SearchOutput{}, fmt.Errorf("search topic is empty")
	}
	if len(backends) == 0 {
		return SearchOutput{}, fmt.Errorf("no search backends configured")
	}

	maxResults, variants := types.DepthSearchParams(depth)
	if cfg.MaxResults > 0 && cfg.MaxResults < maxResults {
		maxResults = cfg.MaxResults
	}
	queries := QueryVariants(topic, variants)

	type backendResult struct {
		results []types.SearchResult
		err     error
		name    string
	}

	// Results are gathered into launch-order slots so the merge (and
	// therefore which duplicate survives dedup) does not depend on
	// goroutine scheduling.
	slots := make([]backendResult, len(queries)*len(backends))
	var wg sync.WaitGroup

	for qi, query := range queries {
		for bi, b := range backends {
			wg.Add(1)
			go func(slot int, b Backend, query string) {
				defer wg.Done()
				results, err := b.Search(ctx, query, maxResults, cfg)
				slots[slot] = backendResult{results: results, err: err, name: b.Name()}
			}(qi*len(backends)+bi, b, query)
		}
	}
	wg.Wait()

	var all []types.SearchResult
	var backendErrors []string
	for _, br := range slots {
		if br.err != nil {
			msg := fmt.Sprintf("%s: %v", br.name, br.err)
			backendErrors = append(backendErrors, msg)
			fmt.Fprintf(w, "warning: backend %s failed: %v\n", br.name, br.err)
			continue
		}
		all = append(all, br.results...)
	}

	deduped, removed := deduplicate(all)

	// Stable sort keeps first-seen order among equal scores (R3.2).
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].RelevanceScore > deduped[j].RelevanceScore
	})

	if len(deduped) > maxResults {
		deduped = deduped[:maxResults]
	}

	return SearchOutput{
		Results:       deduped,
		QueriesUsed:   queries,
		DupsRemoved:   removed,
		BackendErrors: backendErrors,
	}, nil
}

// deduplicate merges results that share a URL; the first occurrence wins
// (R3.1). Results without a URL are dropped.
func deduplicate(results []types.SearchResult) ([]types.SearchResult, int) {
	seen := make(map[string]bool)
	var deduped []types.SearchResult
	removed := 0

	for _, r := range results {
		if r.URL == "" {
			continue
		}
		if seen[r.URL] {
			removed++
			continue
		}
		seen[r.URL] = true
		r.RelevanceScore = types.ClampScore(r.RelevanceScore)
		deduped = append(deduped, r)
	}
	return deduped, removed
}
