// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/meshintel/brief-engine/internal/llm"
	"github.com/meshintel/brief-engine/pkg/types"
)

const richContent = `According to industry analysts, the market grew by 45% last year and is ` +
	`expected to grow further through 2030. Research shows that adoption of machine learning ` +
	`accelerated across sectors, with rising demand for automation tooling. The total market ` +
	`reached $12 billion in revenue. "Experts believe this trajectory will continue for the ` +
	`foreseeable future and reshape entire industries over the coming decade." Studies indicate ` +
	`that sustainability concerns now influence most investment decisions in this space.`

func testState(contents []types.FetchedContent, summaries []types.SourceSummary) *types.PipelineState {
	state := types.NewPipelineState(types.ResearchRequest{
		Topic:  "machine learning market",
		Depth:  2,
		UserID: "tester",
	})
	state.FetchedContent = contents
	state.SourceSummaries = summaries
	return state
}

func richState() *types.PipelineState {
	var contents []types.FetchedContent
	var summaries []types.SourceSummary
	for i := 1; i <= 3; i++ {
		contents = append(contents, types.FetchedContent{
			URL:     fmt.Sprintf("https://example.com/%d", i),
			Title:   fmt.Sprintf("Source %d", i),
			Content: richContent,
			Success: true,
		})
		summaries = append(summaries, types.SourceSummary{
			SourceID: fmt.Sprintf("source_%d", i),
			Metadata: types.SourceMetadata{URL: fmt.Sprintf("https://example.com/%d", i)},
		})
	}
	return testState(contents, summaries)
}

// --- deterministic path ---

func TestSynthesizeDeterministicBrief(t *testing.T) {
	state := richState()
	s := New(nil, types.SynthesisConfig{})

	brief, tokens := s.Synthesize(context.Background(), state)
	if tokens != 0 {
		t.Errorf("tokens = %d, want 0 for rule-based path", tokens)
	}
	if brief == nil {
		t.Fatal("brief is nil")
	}
	if brief.RequestID != state.RequestID {
		t.Errorf("RequestID = %q, want %q", brief.RequestID, state.RequestID)
	}
	if n := len(brief.KeyFindings); n < 3 || n > 6 {
		t.Errorf("key findings = %d, want 3-6", n)
	}
	if len(brief.Insights) == 0 {
		t.Error("no insights")
	}
	if brief.SourceCount != 3 {
		t.Errorf("SourceCount = %d, want 3", brief.SourceCount)
	}
	if brief.ConfidenceScore < 0 || brief.ConfidenceScore > 9.5 {
		t.Errorf("confidence = %f, want within (0, 9.5]", brief.ConfidenceScore)
	}
	if brief.ResearchDepth != types.DepthMedium {
		t.Errorf("depth = %q, want medium", brief.ResearchDepth)
	}
}

func TestConfidenceScoreAccumulates(t *testing.T) {
	empty := confidenceScore(contentAnalysis{})
	if empty != 5.0 {
		t.Errorf("empty analysis confidence = %f, want 5.0", empty)
	}

	full := confidenceScore(contentAnalysis{
		statistics:     []string{"s"},
		trends:         []string{"t"},
		keyFacts:       []string{"f"},
		expertOpinions: []string{"o"},
		sources:        make([]types.FetchedContent, 3),
	})
	if full != 9.5 {
		t.Errorf("full analysis confidence = %f, want 9.5", full)
	}

	single := confidenceScore(contentAnalysis{sources: make([]types.FetchedContent, 1)})
	if single != 5.5 {
		t.Errorf("single source confidence = %f, want 5.5", single)
	}
}

func TestAnalyzeContentExtraction(t *testing.T) {
	contents := []types.FetchedContent{{URL: "https://example.com", Content: richContent}}
	analysis := analyzeContent(contents, "machine learning market")

	if len(analysis.statistics) == 0 {
		t.Error("no statistics extracted from content with percentages and dollar figures")
	}
	if len(analysis.trends) == 0 {
		t.Error("no trends extracted from content with growth language")
	}
	if len(analysis.keyFacts) == 0 {
		t.Error("no key facts extracted from attributed sentences")
	}
	if len(analysis.expertOpinions) == 0 {
		t.Error("no expert opinions extracted from quoted text")
	}

	found := false
	for _, theme := range analysis.themes {
		if theme == "Machine Learning" {
			found = true
		}
	}
	if !found {
		t.Errorf("themes = %v, want Machine Learning", analysis.themes)
	}
}

func TestAnalyzeContentCaps(t *testing.T) {
	huge := strings.Repeat(richContent+" ", 20)
	analysis := analyzeContent([]types.FetchedContent{{URL: "u", Content: huge}}, "topic")

	if len(analysis.themes) > maxThemes {
		t.Errorf("themes = %d, cap %d", len(analysis.themes), maxThemes)
	}
	if len(analysis.statistics) > maxStatistics {
		t.Errorf("statistics = %d, cap %d", len(analysis.statistics), maxStatistics)
	}
	if len(analysis.trends) > maxTrends {
		t.Errorf("trends = %d, cap %d", len(analysis.trends), maxTrends)
	}
	if len(analysis.keyFacts) > maxKeyFacts {
		t.Errorf("facts = %d, cap %d", len(analysis.keyFacts), maxKeyFacts)
	}
	if len(analysis.expertOpinions) > maxExpertOpinions {
		t.Errorf("opinions = %d, cap %d", len(analysis.expertOpinions), maxExpertOpinions)
	}
}

// --- fallback paths ---

func TestSynthesizeNoContentFallback(t *testing.T) {
	state := testState(nil, nil)
	s := New(nil, types.SynthesisConfig{})

	brief, _ := s.Synthesize(context.Background(), state)
	if brief == nil {
		t.Fatal("brief is nil")
	}
	if brief.ConfidenceScore != 1.0 {
		t.Errorf("confidence = %f, want 1.0", brief.ConfidenceScore)
	}
	if brief.SourceCount != 1 || len(brief.Sources) != 1 {
		t.Errorf("sources = %d/%d, want exactly one system source", brief.SourceCount, len(brief.Sources))
	}
	if len(brief.Insights) != 1 {
		t.Errorf("insights = %d, want 1", len(brief.Insights))
	}
	if brief.Sources[0].Metadata.URL != "internal://no-sources-available" {
		t.Errorf("source URL = %q", brief.Sources[0].Metadata.URL)
	}
	if !strings.Contains(brief.ExecutiveSummary, "machine learning market") {
		t.Errorf("summary should mention the topic: %q", brief.ExecutiveSummary)
	}
}

func TestSynthesizeBuildsSourcesFromContent(t *testing.T) {
	// Summarize can come up empty while fetch still succeeded, e.g. when
	// every page fell under the summarizer's length gate. The brief must
	// still list the fetched pages as sources.
	state := testState([]types.FetchedContent{{
		URL:     "https://example.com/short",
		Title:   "Short Page",
		Content: "Storage pilots cut curtailment by one third.",
		Success: true,
	}}, nil)
	s := New(nil, types.SynthesisConfig{})

	brief, _ := s.Synthesize(context.Background(), state)
	if brief == nil {
		t.Fatal("brief is nil")
	}
	if brief.SourceCount != 1 || len(brief.Sources) != 1 {
		t.Fatalf("sources = %d/%d, want one source built from fetched content", brief.SourceCount, len(brief.Sources))
	}
	if brief.Sources[0].SourceID != "source_1" {
		t.Errorf("SourceID = %q, want source_1", brief.Sources[0].SourceID)
	}
	if brief.Sources[0].Metadata.SourceType != types.SourceWebArticle {
		t.Errorf("source type = %q, want %q", brief.Sources[0].Metadata.SourceType, types.SourceWebArticle)
	}
	if brief.Sources[0].Metadata.URL != "https://example.com/short" {
		t.Errorf("source URL = %q", brief.Sources[0].Metadata.URL)
	}
	if brief.ConfidenceScore == 1.0 {
		t.Error("confidence at fallback minimum despite usable content")
	}
}

func TestSynthesizeFailedFetchesFallBack(t *testing.T) {
	// Failed fetches carry explanatory text in Content; that text alone
	// is not evidence and must not keep the run off the degraded path.
	state := testState([]types.FetchedContent{
		{
			URL:     "https://example.com/blocked",
			Content: "Content from https://example.com/blocked could not be retrieved (HTTP 403).",
			Success: false,
		},
		{
			URL:     "https://example.com/timeout",
			Content: "Content from https://example.com/timeout could not be retrieved (timeout).",
			Success: false,
		},
	}, nil)
	s := New(nil, types.SynthesisConfig{})

	brief, _ := s.Synthesize(context.Background(), state)
	if brief.ConfidenceScore != 1.0 {
		t.Errorf("confidence = %f, want 1.0 for the no-sources brief", brief.ConfidenceScore)
	}
	if brief.SourceCount != 1 || len(brief.Sources) != 1 {
		t.Fatalf("sources = %d/%d, want the single system source", brief.SourceCount, len(brief.Sources))
	}
	if brief.Sources[0].Metadata.URL != "internal://no-sources-available" {
		t.Errorf("source URL = %q", brief.Sources[0].Metadata.URL)
	}
	if brief.Sources[0].Metadata.SourceType != types.SourceOther {
		t.Errorf("source type = %q, want %q", brief.Sources[0].Metadata.SourceType, types.SourceOther)
	}
}

func TestContentSourceSummaries(t *testing.T) {
	contents := []types.FetchedContent{
		{URL: "https://example.edu/paper", Title: "Paper", Content: richContent, Success: true},
		{URL: "https://example.com/failed", Content: "explanatory failure text", Success: false},
		{URL: "https://example.com/blank", Content: "   ", Success: true},
	}

	summaries := contentSourceSummaries(contents)
	if len(summaries) != 1 {
		t.Fatalf("len(summaries) = %d, want 1 (failed and blank pages skipped)", len(summaries))
	}
	s := summaries[0]
	if s.Metadata.CredibilityScore != 8.0 {
		t.Errorf("credibility = %f, want 8.0 for .edu domain", s.Metadata.CredibilityScore)
	}
	if len(s.KeyPoints) == 0 || len(s.KeyPoints) > maxSourceKeyPoints {
		t.Errorf("key points = %d, want 1-%d", len(s.KeyPoints), maxSourceKeyPoints)
	}
	if s.SummaryText == "" {
		t.Error("empty summary text")
	}
	if s.Metadata.WordCount == 0 {
		t.Error("word count not populated")
	}
}

func TestFallbackAnalysesAreSubstantial(t *testing.T) {
	state := testState(nil, nil)
	s := New(nil, types.SynthesisConfig{})

	noSources, _ := s.Synthesize(context.Background(), state)
	if n := len(noSources.DetailedAnalysis); n < 500 {
		t.Errorf("no-sources analysis = %d chars, want >= 500", n)
	}

	errBrief := ErrorBrief(state, "provider unavailable")
	if n := len(errBrief.DetailedAnalysis); n < 500 {
		t.Errorf("error analysis = %d chars, want >= 500", n)
	}
	if !strings.Contains(errBrief.DetailedAnalysis, "provider unavailable") {
		t.Error("error analysis missing the failure detail")
	}
}

func TestErrorBriefTruncatesDetail(t *testing.T) {
	state := testState(nil, nil)
	long := strings.Repeat("x", 500)

	brief := ErrorBrief(state, long)
	if brief.ConfidenceScore != 1.0 {
		t.Errorf("confidence = %f, want 1.0", brief.ConfidenceScore)
	}
	if strings.Contains(brief.DetailedAnalysis, strings.Repeat("x", 201)) {
		t.Error("error detail not truncated to 200 characters")
	}
	if !strings.Contains(brief.DetailedAnalysis, "xxx") {
		t.Error("truncated detail missing entirely")
	}
	if brief.Insights[0].Category != "Technical Error" {
		t.Errorf("insight category = %q", brief.Insights[0].Category)
	}
}

// --- generative path ---

type stubGenerator struct {
	response string
	err      error
	calls    int
}

func (s *stubGenerator) Name() string { return "stub" }

func (s *stubGenerator) Generate(_ context.Context, _ string) (llm.Result, error) {
	s.calls++
	if s.err != nil {
		return llm.Result{}, s.err
	}
	return llm.Result{Text: s.response, TokensUsed: 100}, nil
}

func TestSynthesizeGenerativeBrief(t *testing.T) {
	gen := &stubGenerator{response: "Category: Market Trends\nDescription: " + strings.Repeat("analysis ", 10)}
	s := New(gen, types.SynthesisConfig{UseGenerative: true})

	brief, tokens := s.Synthesize(context.Background(), richState())
	if brief == nil {
		t.Fatal("brief is nil")
	}
	if tokens != 400 {
		t.Errorf("tokens = %d, want 400 (four prompts)", tokens)
	}
	if gen.calls != 4 {
		t.Errorf("generator calls = %d, want 4", gen.calls)
	}
	if brief.ConfidenceScore != generativeConfidence {
		t.Errorf("confidence = %f, want %f", brief.ConfidenceScore, generativeConfidence)
	}
	if len(brief.KeyFindings) < 3 {
		t.Errorf("findings = %d, want >= 3", len(brief.KeyFindings))
	}
}

func TestSynthesizeGenerativeFailureDegrades(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("provider down")}
	s := New(gen, types.SynthesisConfig{UseGenerative: true, AIConfig: types.AIConfig{MaxRetries: 1}})

	brief, _ := s.Synthesize(context.Background(), richState())
	if brief == nil {
		t.Fatal("brief is nil")
	}
	// Degraded to the rule-based path, not the error fallback.
	if brief.ConfidenceScore == generativeConfidence {
		t.Error("confidence matches generative path despite failure")
	}
	if brief.SourceCount != 3 {
		t.Errorf("SourceCount = %d, want 3 (rule-based brief keeps real sources)", brief.SourceCount)
	}
}

func TestParseInsights(t *testing.T) {
	text := "Category: Market Trends\nDescription: " + strings.Repeat("a", 60) +
		"\n---\nCategory: Industry Impact\nDescription: " + strings.Repeat("b", 60)

	insights := parseInsights(text, "topic", nil)
	if len(insights) != 2 {
		t.Fatalf("len(insights) = %d, want 2", len(insights))
	}
	if insights[0].Category != "Market Trends" || insights[1].Category != "Industry Impact" {
		t.Errorf("categories = %q, %q", insights[0].Category, insights[1].Category)
	}
}

func TestParseInsightsFallback(t *testing.T) {
	insights := parseInsights("garbage", "some topic", nil)
	if len(insights) != 1 {
		t.Fatalf("len(insights) = %d, want 1 fallback", len(insights))
	}
	if !strings.Contains(insights[0].Description, "some topic") {
		t.Errorf("fallback description = %q", insights[0].Description)
	}
}

func TestParseFindingsPadsAndCaps(t *testing.T) {
	short := parseFindings("one finding")
	if len(short) != 3 {
		t.Errorf("padded findings = %d, want 3", len(short))
	}

	var lines []string
	for i := 0; i < 12; i++ {
		lines = append(lines, fmt.Sprintf("finding %d", i))
	}
	many := parseFindings(strings.Join(lines, "\n"))
	if len(many) != 8 {
		t.Errorf("capped findings = %d, want 8", len(many))
	}
}
