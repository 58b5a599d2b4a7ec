// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchResult is one candidate source returned by a web search backend.
// Per prd002-search R4.1, results are deduplicated by URL before ranking.
type SearchResult struct {
	// Title is the result title as returned by the backend.
	Title string `json:"title" yaml:"title"`

	// URL is the result link and the deduplication key (R3.1).
	URL string `json:"url" yaml:"url"`

	// Snippet is the short excerpt shown with the result.
	Snippet string `json:"snippet" yaml:"snippet"`

	// Source identifies which backend found this result
	// (e.g. "duckduckgo", "tavily").
	Source string `json:"source" yaml:"source"`

	// RelevanceScore is a value in [0,10]; results are ordered by it
	// descending (R3.3).
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
}
