// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates the research stages as an explicit
// directed graph over shared state. Implements: prd001-pipeline (R1-R6);
//
//	docs/ARCHITECTURE § Pipeline.
//
// Stages run in a fixed order: resolve_context, plan, search, fetch,
// summarize, synthesize, postprocess. Each stage is failure-isolated: an
// error or panic records a failed StageResult, installs the stage's safe
// default, and the run continues. A run always ends with a FinalBrief.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/meshintel/brief-engine/internal/fetch"
	"github.com/meshintel/brief-engine/internal/history"
	"github.com/meshintel/brief-engine/internal/plan"
	"github.com/meshintel/brief-engine/internal/summarize"
	"github.com/meshintel/brief-engine/internal/synth"
	"github.com/meshintel/brief-engine/internal/telemetry"
	"github.com/meshintel/brief-engine/internal/websearch"
	"github.com/meshintel/brief-engine/pkg/types"
)

// Stage names, in execution order.
const (
	StageContext     = "resolve_context"
	StagePlan        = "plan"
	StageSearch      = "search"
	StageFetch       = "fetch"
	StageSummarize   = "summarize"
	StageSynthesize  = "synthesize"
	StagePostprocess = "postprocess"
)

// Pipeline wires the stage implementations together.
type Pipeline struct {
	Backends    []websearch.Backend
	Fetcher     *fetch.Fetcher
	Synthesizer *synth.Synthesizer
	Tracker     *telemetry.Tracker
	Config      types.PipelineConfig
	Out         io.Writer
}

// stage is one node of the execution graph. run mutates the state and
// returns the stage's output record; onFailure installs the safe default
// after an error or panic so downstream stages see usable state.
type stage struct {
	name      string
	run       func(ctx context.Context, st *types.PipelineState) (map[string]any, error)
	onFailure func(st *types.PipelineState)
}

// Run executes the full pipeline for one request. The returned state
// always carries a non-nil FinalBrief; the error is non-nil only for an
// invalid request, which is the one condition that prevents a run from
// starting (R1.2).
func (p *Pipeline) Run(ctx context.Context, req types.ResearchRequest) (*types.PipelineState, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid request: %v", errs[0])
	}
	if p.Out == nil {
		p.Out = io.Discard
	}

	state := types.NewPipelineState(req)
	if p.Tracker != nil {
		p.Tracker.StartRun(state.RequestID, req.Topic)
	}

	for _, s := range p.stages() {
		p.runStage(ctx, s, state)
	}

	state.EndTime = time.Now().UTC()
	if p.Tracker != nil {
		p.Tracker.FinishRun(state.RequestID)
	}
	return state, nil
}

// runStage executes one stage with panic isolation. Panics and errors
// both produce a failed StageResult and invoke the stage's fallback;
// neither terminates the run (R4.1, R4.2).
func (p *Pipeline) runStage(ctx context.Context, s stage, state *types.PipelineState) {
	start := time.Now()

	output, err := func() (out map[string]any, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("stage panicked: %v", r)
			}
		}()
		return s.run(ctx, state)
	}()

	elapsed := time.Since(start)
	result := types.StageResult{
		Stage:    s.name,
		Status:   types.StageCompleted,
		Output:   output,
		Duration: elapsed,
	}

	if err != nil {
		result.Status = types.StageFailed
		result.ErrorMessage = err.Error()
		result.Output = map[string]any{"error": err.Error()}
		if s.onFailure != nil {
			s.onFailure(state)
		}
		fmt.Fprintf(p.Out, "stage %s failed: %v\n", s.name, err)
	} else {
		fmt.Fprintf(p.Out, "stage %s completed in %s\n", s.name, elapsed.Round(time.Millisecond))
	}

	state.AppendStageResult(result)
	if p.Tracker != nil {
		p.Tracker.StageCompleted(state.RequestID, s.name, err != nil, elapsed)
	}
}

// stages builds the execution graph for this pipeline instance.
func (p *Pipeline) stages() []stage {
	return []stage{
		{
			name: StageContext,
			run:  p.resolveContext,
			onFailure: func(st *types.PipelineState) {
				st.ContextSummary = history.Unavailable()
			},
		},
		{
			name: StagePlan,
			run:  p.buildPlan,
			onFailure: func(st *types.PipelineState) {
				fallback := plan.Fallback(st.Request.Topic)
				st.Plan = &fallback
			},
		},
		{
			name: StageSearch,
			run:  p.search,
		},
		{
			name: StageFetch,
			run:  p.fetchContent,
		},
		{
			name: StageSummarize,
			run:  p.summarizeSources,
		},
		{
			name: StageSynthesize,
			run:  p.synthesize,
		},
		{
			name: StagePostprocess,
			run:  p.postprocess,
			onFailure: func(st *types.PipelineState) {
				if st.FinalBrief == nil {
					st.FinalBrief = synth.ErrorBrief(st, "postprocessing failed")
				}
			},
		},
	}
}

func (p *Pipeline) resolveContext(_ context.Context, st *types.PipelineState) (map[string]any, error) {
	st.ContextSummary = history.Resolve(st.Request.History)
	return map[string]any{
		"previous_topics_count": len(st.ContextSummary.PreviousTopics),
		"has_context":           len(st.ContextSummary.PreviousTopics) > 0,
	}, nil
}

func (p *Pipeline) buildPlan(_ context.Context, st *types.PipelineState) (map[string]any, error) {
	built := plan.Build(st.Request, st.ContextSummary)
	st.Plan = &built
	return map[string]any{
		"refined_topic": built.RefinedTopic,
		"step_count":    len(built.Steps),
		"complexity":    built.ComplexityScore,
	}, nil
}

func (p *Pipeline) search(ctx context.Context, st *types.PipelineState) (map[string]any, error) {
	topic := st.Request.Topic
	if st.Plan != nil && st.Plan.RefinedTopic != "" {
		topic = st.Plan.RefinedTopic
	}

	out, err := websearch.Search(ctx, topic, st.Request.Depth, p.Backends, p.Config.Search, p.Out)
	if err != nil {
		return nil, err
	}

	st.SearchResults = out.Results
	return map[string]any{
		"result_count":   len(out.Results),
		"queries_used":   out.QueriesUsed,
		"dups_removed":   out.DupsRemoved,
		"backend_errors": out.BackendErrors,
	}, nil
}

func (p *Pipeline) fetchContent(ctx context.Context, st *types.PipelineState) (map[string]any, error) {
	if len(st.SearchResults) == 0 {
		return map[string]any{"fetched_count": 0, "note": "no search results to fetch"}, nil
	}

	limit := types.DepthFetchCount(st.Request.Depth)
	urls := make([]string, 0, limit)
	for _, r := range st.SearchResults {
		urls = append(urls, r.URL)
		if len(urls) >= limit {
			break
		}
	}

	st.FetchedContent = p.Fetcher.FetchAll(ctx, urls)

	succeeded := 0
	for _, c := range st.FetchedContent {
		if c.Success {
			succeeded++
		}
	}
	return map[string]any{
		"fetched_count": len(st.FetchedContent),
		"succeeded":     succeeded,
	}, nil
}

func (p *Pipeline) summarizeSources(_ context.Context, st *types.PipelineState) (map[string]any, error) {
	st.SourceSummaries = summarize.Summarize(st.FetchedContent, st.Request.Topic, p.Config.Summarize)
	return map[string]any{
		"summary_count":    len(st.SourceSummaries),
		"sources_received": len(st.FetchedContent),
	}, nil
}

func (p *Pipeline) synthesize(ctx context.Context, st *types.PipelineState) (map[string]any, error) {
	brief, tokens := p.Synthesizer.Synthesize(ctx, st)
	st.FinalBrief = brief

	if tokens > 0 {
		st.AddTokens(StageSynthesize, tokens)
		provider := "unknown"
		if p.Synthesizer.Generator != nil {
			provider = p.Synthesizer.Generator.Name()
		}
		st.CountProviderCall(provider)
		if p.Tracker != nil {
			p.Tracker.ProviderCall(st.RequestID, provider, tokens)
		}
	}

	return map[string]any{
		"brief_generated":  true,
		"sources_analyzed": len(st.FetchedContent),
		"tokens_used":      tokens,
	}, nil
}

// postprocess finalizes the brief: the always-return contract means a
// nil brief here gets the error fallback, and run-level bookkeeping is
// stamped onto the brief (R6).
func (p *Pipeline) postprocess(_ context.Context, st *types.PipelineState) (map[string]any, error) {
	if st.FinalBrief == nil {
		st.FinalBrief = synth.ErrorBrief(st, "synthesis produced no brief")
	}

	st.FinalBrief.ProcessingTime = time.Since(st.StartTime)
	st.FinalBrief.TokenUsage = st.TokenUsage
	if st.FinalBrief.Metadata == nil {
		st.FinalBrief.Metadata = make(map[string]any)
	}
	st.FinalBrief.Metadata["stages_run"] = len(st.StageResults) + 1
	st.FinalBrief.Metadata["provider_calls"] = st.ProviderCalls

	failed := 0
	for _, r := range st.StageResults {
		if r.Status == types.StageFailed {
			failed++
		}
	}
	st.FinalBrief.Metadata["stages_failed"] = failed

	return map[string]any{
		"total_tokens":  st.TotalTokens(),
		"stages_failed": failed,
	}, nil
}
