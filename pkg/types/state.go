// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"time"

	"github.com/google/uuid"
)

// StageStatus is the terminal (or in-flight) status of one stage execution.
type StageStatus string

const (
	StagePending    StageStatus = "pending"
	StageInProgress StageStatus = "in_progress"
	StageCompleted  StageStatus = "completed"
	StageFailed     StageStatus = "failed"
	StageSkipped    StageStatus = "skipped"
)

// StageResult records the outcome of one logical stage execution.
// Records are append-only: once appended to a PipelineState they are never
// edited (prd001-pipeline R3.2). RetryCount reflects internal retries the
// stage already exhausted before reporting its terminal status.
type StageResult struct {
	// Stage is the stage name (e.g. "search", "synthesize").
	Stage string `json:"stage" yaml:"stage"`

	// Status is the stage outcome.
	Status StageStatus `json:"status" yaml:"status"`

	// Output holds stage-specific bounded result data.
	Output map[string]any `json:"output,omitempty" yaml:"output,omitempty"`

	// ErrorMessage describes the failure when Status is failed.
	ErrorMessage string `json:"error_message,omitempty" yaml:"error_message,omitempty"`

	// Duration is the wall-clock stage execution time.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// RetryCount counts internal retries already exhausted.
	RetryCount int `json:"retry_count" yaml:"retry_count"`
}

// PipelineState is the single state object threaded through all pipeline
// stages. One instance exists per run; no cross-run shared mutable state
// exists in the core (prd001-pipeline R2.1). Each stage reads and mutates
// only its designated fields and appends exactly one StageResult.
type PipelineState struct {
	// Request is the originating research request.
	Request ResearchRequest `json:"request" yaml:"request"`

	// RequestID uniquely identifies this run.
	RequestID string `json:"request_id" yaml:"request_id"`

	// ContextSummary is set by the context stage.
	ContextSummary *ContextSummary `json:"context_summary,omitempty" yaml:"context_summary,omitempty"`

	// Plan is set by the planning stage.
	Plan *ResearchPlan `json:"research_plan,omitempty" yaml:"research_plan,omitempty"`

	// SearchResults is set by the search stage.
	SearchResults []SearchResult `json:"search_results" yaml:"search_results"`

	// FetchedContent is set by the fetch stage, one record per URL.
	FetchedContent []FetchedContent `json:"fetched_content" yaml:"fetched_content"`

	// SourceSummaries is set by the summarize stage.
	SourceSummaries []SourceSummary `json:"source_summaries" yaml:"source_summaries"`

	// FinalBrief is set by the synthesize stage (or the postprocess
	// fallback). Never nil once the run completes.
	FinalBrief *FinalBrief `json:"final_brief,omitempty" yaml:"final_brief,omitempty"`

	// StageResults records every stage execution in order. Append-only.
	StageResults []StageResult `json:"stage_results" yaml:"stage_results"`

	// StartTime and EndTime bound the whole run.
	StartTime time.Time `json:"start_time" yaml:"start_time"`
	EndTime   time.Time `json:"end_time,omitempty" yaml:"end_time,omitempty"`

	// ProviderCalls counts text-generation calls by provider.
	ProviderCalls map[string]int `json:"provider_calls" yaml:"provider_calls"`

	// TokenUsage counts estimated tokens by stage.
	TokenUsage map[string]int `json:"token_usage" yaml:"token_usage"`
}

// NewPipelineState creates the state for one run with a fresh request id.
func NewPipelineState(req ResearchRequest) *PipelineState {
	return &PipelineState{
		Request:       req,
		RequestID:     uuid.NewString(),
		StartTime:     time.Now().UTC(),
		ProviderCalls: make(map[string]int),
		TokenUsage:    make(map[string]int),
	}
}

// AppendStageResult appends one stage record. Past records are never
// modified; this is the only sanctioned way to record stage outcomes.
func (s *PipelineState) AppendStageResult(r StageResult) {
	s.StageResults = append(s.StageResults, r)
}

// AddTokens accrues estimated token usage for a stage.
func (s *PipelineState) AddTokens(stage string, tokens int) {
	if tokens <= 0 {
		return
	}
	if s.TokenUsage == nil {
		s.TokenUsage = make(map[string]int)
	}
	s.TokenUsage[stage] += tokens
}

// CountProviderCall accrues one text-generation call for a provider.
func (s *PipelineState) CountProviderCall(provider string) {
	if s.ProviderCalls == nil {
		s.ProviderCalls = make(map[string]int)
	}
	s.ProviderCalls[provider]++
}

// TotalTokens sums estimated token usage across all stages.
func (s *PipelineState) TotalTokens() int {
	total := 0
	for _, n := range s.TokenUsage {
		total += n
	}
	return total
}
