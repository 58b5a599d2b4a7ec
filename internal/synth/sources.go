// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"fmt"
	"strings"

	"github.com/meshintel/brief-engine/pkg/types"
)

const (
	maxSourceKeyPoints  = 5
	sourceRelevance     = 8.0
	sourceConfidence    = 7.5
	baseSourceCredScore = 6.0
)

// sourceKeywords mark sentences worth keeping as per-source key points.
var sourceKeywords = []string{
	"data", "research", "study", "analysis", "shows", "indicates", "reveals",
}

// credibleDomains boost a source's credibility score when present in its URL.
var credibleDomains = []string{
	".edu", ".gov", ".org", "reuters", "bloomberg", "forbes",
	"harvard", "mit", "nature", "science", "ieee",
}

// briefSources returns the summaries the brief should list: the
// summarize stage's output when it produced any, otherwise summaries
// built directly from the successfully fetched content. A brief on the
// non-degraded path therefore always lists at least one source.
func briefSources(state *types.PipelineState) []types.SourceSummary {
	if len(state.SourceSummaries) > 0 {
		return state.SourceSummaries
	}
	return contentSourceSummaries(state.FetchedContent)
}

// contentSourceSummaries builds minimal source summaries straight from
// fetched pages, for runs where every page fell under the summarizer's
// length gate.
func contentSourceSummaries(contents []types.FetchedContent) []types.SourceSummary {
	var summaries []types.SourceSummary
	for _, c := range contents {
		if !c.Success || strings.TrimSpace(c.Content) == "" {
			continue
		}

		title := c.Title
		if title == "" {
			title = fmt.Sprintf("Source %d", len(summaries)+1)
		}

		summaries = append(summaries, types.SourceSummary{
			SourceID: fmt.Sprintf("source_%d", len(summaries)+1),
			Metadata: types.SourceMetadata{
				URL:              c.URL,
				Title:            title,
				SourceType:       types.SourceWebArticle,
				CredibilityScore: sourceCredibility(c.URL),
				WordCount:        len(strings.Fields(c.Content)),
			},
			KeyPoints:       sourceKeyPoints(c.Content),
			SummaryText:     sourceSummaryText(c.Content, title),
			RelevanceScore:  sourceRelevance,
			ConfidenceScore: sourceConfidence,
		})
	}
	return summaries
}

// sourceKeyPoints keeps keyword-bearing sentences of moderate length.
func sourceKeyPoints(content string) []string {
	var points []string
	for _, sentence := range synthSentenceSplit.Split(content, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) <= 50 || len(sentence) >= 200 {
			continue
		}
		lower := strings.ToLower(sentence)
		for _, kw := range sourceKeywords {
			if strings.Contains(lower, kw) {
				points = append(points, sentence)
				break
			}
		}
		if len(points) >= maxSourceKeyPoints {
			break
		}
	}
	if len(points) == 0 {
		points = []string{"Key information extracted from source"}
	}
	return points
}

// sourceSummaryText joins the first two substantial sentences.
func sourceSummaryText(content, title string) string {
	var sentences []string
	for _, sentence := range synthSentenceSplit.Split(content, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) > 30 {
			sentences = append(sentences, sentence)
			if len(sentences) >= 2 {
				break
			}
		}
	}
	if len(sentences) == 0 {
		return fmt.Sprintf("This source titled '%s' provides relevant information and analysis about the research topic.", title)
	}
	return strings.Join(sentences, ". ") + "."
}

// sourceCredibility scores a URL: base 6.0, +2.0 for a credible domain.
func sourceCredibility(url string) float64 {
	score := baseSourceCredScore
	lower := strings.ToLower(url)
	for _, domain := range credibleDomains {
		if strings.Contains(lower, domain) {
			score += 2.0
			break
		}
	}
	return types.ClampScore(score)
}
