// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// FetchedContent is the cleaned text retrieved from one URL. The fetch stage
// returns exactly one record per requested URL: a failed fetch yields a
// record with Success=false and synthetic explanatory content rather than
// being dropped (prd003-fetch R1.2, R3.1).
type FetchedContent struct {
	// URL is the address the content was fetched from.
	URL string `json:"url" yaml:"url"`

	// Title is the page title, or a synthetic label for failed fetches.
	Title string `json:"title" yaml:"title"`

	// Content is the cleaned visible text, truncated to the configured
	// maximum length. For failed fetches it is a human-readable fallback
	// explanation referencing the domain and reason.
	Content string `json:"content" yaml:"content"`

	// WordCount is the whitespace-token count of Content.
	WordCount int `json:"word_count" yaml:"word_count"`

	// Metadata holds extracted page structure: meta tags, headings, and
	// for failed fetches the HTTP status and domain.
	Metadata map[string]any `json:"metadata" yaml:"metadata"`

	// FetchDuration is how long the fetch (including parsing) took.
	FetchDuration time.Duration `json:"fetch_duration" yaml:"fetch_duration"`

	// Success reports whether the page was retrieved and parsed.
	Success bool `json:"success" yaml:"success"`

	// ErrorMessage describes the failure when Success is false.
	ErrorMessage string `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}
