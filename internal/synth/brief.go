// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meshintel/brief-engine/pkg/types"
)

// deterministicBrief assembles the final brief from rule-based content
// analysis. No model in the loop: the same inputs always produce the
// same brief modulo generated IDs and timestamps.
func deterministicBrief(state *types.PipelineState, analysis contentAnalysis) *types.FinalBrief {
	topic := state.Request.Topic
	sources := briefSources(state)

	return &types.FinalBrief{
		RequestID:           state.RequestID,
		Topic:               topic,
		ExecutiveSummary:    executiveSummary(topic, analysis),
		KeyFindings:         keyFindings(analysis),
		DetailedAnalysis:    detailedAnalysis(topic, analysis),
		Insights:            researchInsights(analysis),
		Sources:             sources,
		SourceCount:         len(sources),
		ResearchDepth:       state.Request.ResearchDepth(),
		ConfidenceScore:     confidenceScore(analysis),
		Limitations:         limitations(analysis),
		FollowUpSuggestions: followUpSuggestions(topic),
		IsFollowUp:          state.Request.FollowUp,
		ContextUsed:         state.ContextSummary,
		CreatedAt:           time.Now().UTC(),
	}
}

// executiveSummary narrates the analysis counts in a fixed structure.
func executiveSummary(topic string, analysis contentAnalysis) string {
	parts := []string{
		fmt.Sprintf("This research brief analyzes current developments and trends related to %s.", topic),
	}
	if n := len(analysis.sources); n > 0 {
		parts = append(parts, fmt.Sprintf("Analysis draws from %d authoritative sources to provide comprehensive insights.", n))
	}
	if len(analysis.themes) > 0 {
		top := analysis.themes
		if len(top) > 3 {
			top = top[:3]
		}
		parts = append(parts, fmt.Sprintf("Key areas of focus include %s.", strings.Join(top, ", ")))
	}
	if n := len(analysis.statistics); n > 0 {
		parts = append(parts, fmt.Sprintf("Research reveals %d significant data points and market indicators.", n))
	}
	if n := len(analysis.trends); n > 0 {
		parts = append(parts, fmt.Sprintf("Analysis identifies %d major trends shaping the current landscape.", n))
	}
	parts = append(parts, "The findings provide actionable insights for stakeholders and decision-makers in this domain.")
	return strings.Join(parts, " ")
}

// detailedAnalysis expands each analysis dimension into prose.
func detailedAnalysis(topic string, analysis contentAnalysis) string {
	var parts []string

	if len(analysis.themes) > 0 {
		top := analysis.themes
		if len(top) > 4 {
			top = top[:4]
		}
		parts = append(parts, fmt.Sprintf("The research identifies several key themes: %s. ", strings.Join(top, ", ")))
	}
	if len(analysis.statistics) > 0 {
		preview := analysis.statistics
		if len(preview) > 2 {
			preview = preview[:2]
		}
		parts = append(parts, "Market data reveals significant metrics: "+strings.Join(preview, " ")+" ")
	}
	if len(analysis.trends) > 0 {
		preview := analysis.trends
		if len(preview) > 2 {
			preview = preview[:2]
		}
		parts = append(parts, "Current trends indicate: "+strings.Join(preview, " ")+" ")
	}
	if n := len(analysis.expertOpinions); n > 0 {
		parts = append(parts, fmt.Sprintf("Industry experts provide valuable perspectives with %d key insights identified. ", n))
	}
	if n := len(analysis.keyFacts); n > 0 {
		parts = append(parts, fmt.Sprintf("Research is supported by %d factual findings from authoritative sources. ", n))
	}

	if len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("Comprehensive analysis of %s reveals evolving market dynamics and emerging opportunities. ", topic))
	}
	parts = append(parts, "This analysis provides a foundation for understanding current developments and future implications in this domain.")
	return strings.Join(parts, "")
}

// keyFindings assembles three to six findings from statistics, facts,
// and trends, each labeled by kind.
func keyFindings(analysis contentAnalysis) []string {
	var findings []string

	for _, stat := range capSlice(analysis.statistics, 3) {
		findings = append(findings, "Market Data: "+stat)
	}
	for _, fact := range capSlice(analysis.keyFacts, 3) {
		findings = append(findings, "Research Finding: "+fact)
	}
	for _, trend := range capSlice(analysis.trends, 2) {
		findings = append(findings, "Trend Analysis: "+trend)
	}

	for len(findings) < 3 {
		findings = append(findings, "Additional insights identified through comprehensive analysis")
	}
	if len(findings) > 6 {
		findings = findings[:6]
	}
	return findings
}

// researchInsights derives insights from themes and trends, always at
// least one.
func researchInsights(analysis contentAnalysis) []types.ResearchInsight {
	var insights []types.ResearchInsight

	for _, theme := range capSlice(analysis.themes, 3) {
		insights = append(insights, types.ResearchInsight{
			InsightID:       uuid.NewString(),
			Category:        "Theme Analysis",
			Description:     fmt.Sprintf("Research identifies %s as a significant factor influencing current developments and future trends.", theme),
			ConfidenceLevel: 8.0,
		})
	}
	for _, trend := range capSlice(analysis.trends, 2) {
		insights = append(insights, types.ResearchInsight{
			InsightID:       uuid.NewString(),
			Category:        "Trend Insight",
			Description:     "Market analysis reveals: " + trend,
			ConfidenceLevel: 7.5,
		})
	}

	if len(insights) == 0 {
		insights = append(insights, types.ResearchInsight{
			InsightID:       uuid.NewString(),
			Category:        "General Finding",
			Description:     "Research analysis reveals significant insights into current market dynamics and emerging trends.",
			ConfidenceLevel: 7.0,
		})
	}
	return insights
}

// confidenceScore rates the brief by the breadth of evidence gathered:
// base 5.0, +1 per populated evidence class (+0.5 for opinions), +1.0
// for three or more sources (+0.5 for at least one), capped at 9.5. The
// rule-based path never claims full confidence.
func confidenceScore(analysis contentAnalysis) float64 {
	score := 5.0
	if len(analysis.statistics) > 0 {
		score += 1.0
	}
	if len(analysis.trends) > 0 {
		score += 1.0
	}
	if len(analysis.keyFacts) > 0 {
		score += 1.0
	}
	if len(analysis.expertOpinions) > 0 {
		score += 0.5
	}

	switch n := len(analysis.sources); {
	case n >= 3:
		score += 1.0
	case n >= 1:
		score += 0.5
	}

	if score > 9.5 {
		score = 9.5
	}
	return score
}

func limitations(analysis contentAnalysis) []string {
	lims := []string{"Analysis based on publicly available information"}
	if len(analysis.sources) < 5 {
		lims = append(lims, "Limited number of sources available")
	}
	lims = append(lims,
		"Findings reflect current market conditions",
		"Results may vary with new data availability",
	)
	return lims
}

func followUpSuggestions(topic string) []string {
	return []string{
		fmt.Sprintf("Conduct deeper analysis of specific aspects of %s", topic),
		"Monitor developments over time for trend validation",
		"Seek additional industry expert perspectives",
		"Analyze regional or demographic variations",
	}
}

func capSlice(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
