// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ClampScore clamps v into the [0,10] score range. Every score stored in a
// brief passes through this on construction, so no caller can observe an
// out-of-range value (prd005-synthesis R4.3).
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// ResearchInsight is one cross-source insight in the final brief.
type ResearchInsight struct {
	// InsightID uniquely identifies the insight.
	InsightID string `json:"insight_id" yaml:"insight_id"`

	// Category labels the insight's theme
	// (e.g. "Trend Insight", "Technical Limitation").
	Category string `json:"category" yaml:"category"`

	// Description analyzes the insight's significance (>= 50 chars).
	Description string `json:"description" yaml:"description"`

	// SupportingSources lists source IDs backing this insight.
	SupportingSources []string `json:"supporting_sources" yaml:"supporting_sources"`

	// ConfidenceLevel is confidence in the insight, in [0,10].
	ConfidenceLevel float64 `json:"confidence_level" yaml:"confidence_level"`
}

// FinalBrief is the structured research report returned to the caller.
// Invariants (prd005-synthesis R4.1-R4.4): SourceCount == len(Sources);
// all scores in [0,10]; 3-15 key findings; at least one insight and one
// source. A pipeline run always yields a FinalBrief — on total failure a
// minimally populated fallback brief is returned instead of no result.
type FinalBrief struct {
	// RequestID ties the brief to its originating pipeline run.
	RequestID string `json:"request_id" yaml:"request_id"`

	// Topic is the research topic.
	Topic string `json:"topic" yaml:"topic"`

	// ExecutiveSummary condenses the findings (200-1000 characters).
	ExecutiveSummary string `json:"executive_summary" yaml:"executive_summary"`

	// KeyFindings lists 3-15 key research findings.
	KeyFindings []string `json:"key_findings" yaml:"key_findings"`

	// DetailedAnalysis is the long-form synthesis (>= 500 characters).
	DetailedAnalysis string `json:"detailed_analysis" yaml:"detailed_analysis"`

	// Insights lists at least one cross-source research insight.
	Insights []ResearchInsight `json:"insights" yaml:"insights"`

	// Sources lists at least one source summary.
	Sources []SourceSummary `json:"sources" yaml:"sources"`

	// SourceCount equals len(Sources).
	SourceCount int `json:"source_count" yaml:"source_count"`

	// ResearchDepth records the depth the research was conducted at.
	ResearchDepth ResearchDepth `json:"research_depth" yaml:"research_depth"`

	// ConfidenceScore is overall confidence in the findings, in [0,10].
	ConfidenceScore float64 `json:"confidence_score" yaml:"confidence_score"`

	// Limitations lists research limitations and caveats.
	Limitations []string `json:"limitations" yaml:"limitations"`

	// FollowUpSuggestions lists suggested follow-up research.
	FollowUpSuggestions []string `json:"follow_up_suggestions" yaml:"follow_up_suggestions"`

	// IsFollowUp indicates the brief answered a follow-up query.
	IsFollowUp bool `json:"is_follow_up" yaml:"is_follow_up"`

	// ContextUsed snapshots the conversation context applied, if any.
	ContextUsed *ContextSummary `json:"context_used,omitempty" yaml:"context_used,omitempty"`

	// ProcessingTime is the total pipeline run duration, when recorded.
	ProcessingTime time.Duration `json:"processing_time,omitempty" yaml:"processing_time,omitempty"`

	// TokenUsage breaks down token consumption by stage, when recorded.
	TokenUsage map[string]int `json:"token_usage,omitempty" yaml:"token_usage,omitempty"`

	// Metadata holds free-form execution metadata.
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// CreatedAt records when the brief was produced.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
