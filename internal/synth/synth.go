// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synth assembles the final research brief from everything the
// earlier stages gathered. Implements: prd005-synthesis (R1-R5);
//
//	docs/ARCHITECTURE § Synthesis.
//
// Synthesis always yields a complete brief: a generative path when a
// model is configured, a rule-based path otherwise, and degraded
// fallback briefs when no content survived or synthesis itself failed.
package synth

import (
	"context"
	"strings"

	"github.com/meshintel/brief-engine/internal/llm"
	"github.com/meshintel/brief-engine/pkg/types"
)

const defaultMaxRetries = 2

// Synthesizer builds final briefs. A nil Generator (or UseGenerative
// false) selects the deterministic path.
type Synthesizer struct {
	Generator llm.Generator
	Config    types.SynthesisConfig
}

// New returns a Synthesizer for the given generator and config.
func New(gen llm.Generator, cfg types.SynthesisConfig) *Synthesizer {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	return &Synthesizer{Generator: gen, Config: cfg}
}

// Synthesize produces the final brief for the pipeline state. It never
// returns nil: with no usable content it returns the no-sources
// fallback, and a generative failure degrades to the rule-based brief
// (R1.1, R5). The second return value is the number of model tokens
// consumed.
func (s *Synthesizer) Synthesize(ctx context.Context, state *types.PipelineState) (*types.FinalBrief, int) {
	if !hasUsableContent(state) {
		return fallbackBrief(state, reasonNoSources, ""), 0
	}

	if s.Config.UseGenerative && s.Generator != nil {
		brief, tokens, err := generativeBrief(ctx, s.Generator, state, s.Config.MaxRetries)
		if err == nil {
			return brief, tokens
		}
		// Degrade to the rule-based path; tokens spent still count.
		analysis := analyzeContent(state.FetchedContent, state.Request.Topic)
		return deterministicBrief(state, analysis), tokens
	}

	analysis := analyzeContent(state.FetchedContent, state.Request.Topic)
	return deterministicBrief(state, analysis), 0
}

// ErrorBrief builds the degraded brief for a synthesis-stage failure.
// The pipeline uses it so a run always ends with a brief.
func ErrorBrief(state *types.PipelineState, errMsg string) *types.FinalBrief {
	return fallbackBrief(state, reasonError, errMsg)
}

// hasUsableContent reports whether anything survived the earlier stages
// worth synthesizing: a summary, or a successfully fetched page with
// text. Failed fetches carry explanatory fallback text in Content, so
// non-empty content alone is not enough.
func hasUsableContent(state *types.PipelineState) bool {
	if len(state.SourceSummaries) > 0 {
		return true
	}
	for _, c := range state.FetchedContent {
		if c.Success && strings.TrimSpace(c.Content) != "" {
			return true
		}
	}
	return false
}
