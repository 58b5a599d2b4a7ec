// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "brief-engine/0.1"). The fetch stage overrides this with
	// browser-like headers per prd003-fetch R5.1.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the search stage.
// Per prd002-search R2.1-R2.4, R5.1-R5.3.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of results returned per query
	// before the depth table applies (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// TavilyAPIKey enables the key-gated Tavily backend when non-empty.
	TavilyAPIKey string `json:"tavily_api_key,omitempty" yaml:"tavily_api_key,omitempty"`
}

// FetchConfig holds settings for the content fetch stage.
// Per prd003-fetch R2.2, R5.1-R5.3.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxConcurrent caps concurrent fetches (default 5).
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`

	// MaxContentLength truncates cleaned page text (default 50000).
	MaxContentLength int `json:"max_content_length" yaml:"max_content_length"`
}

// SummarizeConfig holds settings for the per-source summarization stage.
type SummarizeConfig struct {
	// MinContentLength is the minimum cleaned-text length a source needs
	// to be summarized; shorter sources are skipped (default 100).
	MinContentLength int `json:"min_content_length" yaml:"min_content_length"`
}

// AIConfig holds shared settings for stages that call a text-generation API.
type AIConfig struct {
	// Model is the generation model identifier
	// (e.g. "gemini-1.5-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the generation API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed generation
	// calls before falling back (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SynthesisConfig holds settings for the synthesis stage.
// Per prd005-synthesis R5.1-R5.4.
type SynthesisConfig struct {
	AIConfig `yaml:",inline"`

	// UseGenerative selects the generative strategy when a generator is
	// configured; the deterministic extraction strategy is the fallback.
	UseGenerative bool `json:"use_generative" yaml:"use_generative"`
}

// PlanConfig holds settings for the planning stage.
type PlanConfig struct {
	AIConfig `yaml:",inline"`
}

// StoreConfig holds settings for the persistence collaborator.
// Per prd008-persistence R1.1-R1.3.
type StoreConfig struct {
	// DataDir is the directory holding the sqlite database file.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxHistory caps conversation-history entries loaded per user
	// (default 5).
	MaxHistory int `json:"max_history" yaml:"max_history"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Search    SearchConfig    `json:"search" yaml:"search"`
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch"`
	Summarize SummarizeConfig `json:"summarize" yaml:"summarize"`
	Plan      PlanConfig      `json:"plan" yaml:"plan"`
	Synthesis SynthesisConfig `json:"synthesis" yaml:"synthesis"`
	Store     StoreConfig     `json:"store" yaml:"store"`
}

// DepthSearchParams returns (maxResults, queryVariants) for a depth level.
// Per prd002-search R2.1: shallow→(5,1), medium→(10,2), deep→(15,3).
func DepthSearchParams(depth int) (maxResults, queryVariants int) {
	switch depth {
	case 1:
		return 5, 1
	case 3:
		return 15, 3
	default:
		return 10, 2
	}
}

// DepthFetchCount returns how many URLs the fetch stage retrieves for a
// depth level. Per prd003-fetch R2.1: shallow→3, medium→6, deep→10.
func DepthFetchCount(depth int) int {
	switch depth {
	case 1:
		return 3
	case 3:
		return 10
	default:
		return 6
	}
}
