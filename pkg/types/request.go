// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the brief-engine pipeline.
// Implements: prd001-pipeline (ResearchRequest, PipelineState, StageResult);
//
//	prd002-search (SearchResult);
//	prd003-fetch (FetchedContent);
//	prd004-summarization (SourceSummary, SourceMetadata);
//	prd005-synthesis (FinalBrief, ResearchInsight);
//	prd006-context (ContextSummary);
//	prd007-planning (ResearchPlan, ResearchStep).
//
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

import "fmt"

// ResearchDepth selects research thoroughness. It controls search fan-out,
// fetch counts, and synthesis detail (prd002-search R2.1, prd003-fetch R2.1).
type ResearchDepth string

const (
	DepthShallow ResearchDepth = "shallow"
	DepthMedium  ResearchDepth = "medium"
	DepthDeep    ResearchDepth = "deep"
)

// DepthFromLevel maps the ordinal depth level (1..3) to its enum value.
// Out-of-range levels map to medium.
func DepthFromLevel(level int) ResearchDepth {
	switch level {
	case 1:
		return DepthShallow
	case 3:
		return DepthDeep
	default:
		return DepthMedium
	}
}

// ConversationTurn is one prior exchange in a user's research session:
// the query they asked and the response they received.
type ConversationTurn struct {
	// Query is the user's research question for this turn.
	Query string `json:"query" yaml:"query"`

	// Response is the answer text (or brief summary) returned for the turn.
	Response string `json:"response" yaml:"response"`
}

// ResearchRequest describes one research brief to generate. Immutable once
// created; Validate must pass before a pipeline run is constructed (R1.1).
type ResearchRequest struct {
	// Topic is the free-text research topic (5-500 characters).
	Topic string `json:"topic" yaml:"topic"`

	// Depth is the research depth level: 1=shallow, 2=medium, 3=deep.
	Depth int `json:"depth" yaml:"depth"`

	// FollowUp indicates this request continues a prior conversation.
	FollowUp bool `json:"follow_up" yaml:"follow_up"`

	// UserID identifies the requesting user (1-100 characters).
	UserID string `json:"user_id" yaml:"user_id"`

	// ContextLimit caps how many history entries the context stage
	// considers (1-10, default 5).
	ContextLimit int `json:"context_limit,omitempty" yaml:"context_limit,omitempty"`

	// History holds prior conversation turns, oldest first.
	History []ConversationTurn `json:"conversation_history,omitempty" yaml:"conversation_history,omitempty"`
}

// FieldError describes a single request field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the request bounds and returns one FieldError per
// offending field. An empty slice means the request is acceptable.
func (r ResearchRequest) Validate() []FieldError {
	var errs []FieldError
	if len(r.Topic) < 5 || len(r.Topic) > 500 {
		errs = append(errs, FieldError{Field: "topic", Message: "must be 5-500 characters"})
	}
	if r.Depth < 1 || r.Depth > 3 {
		errs = append(errs, FieldError{Field: "depth", Message: "must be 1 (shallow), 2 (medium), or 3 (deep)"})
	}
	if r.UserID == "" || len(r.UserID) > 100 {
		errs = append(errs, FieldError{Field: "user_id", Message: "must be 1-100 characters"})
	}
	if r.ContextLimit < 0 || r.ContextLimit > 10 {
		errs = append(errs, FieldError{Field: "context_limit", Message: "must be 1-10"})
	}
	return errs
}

// ResearchDepth returns the depth enum for this request.
func (r ResearchRequest) ResearchDepth() ResearchDepth {
	return DepthFromLevel(r.Depth)
}
