// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize condenses fetched sources into structured per-source
// summaries. Implements: prd004-summarization (R1-R4);
//
//	docs/ARCHITECTURE § Summarization.
//
// The summarizer is fully deterministic: the same content and topic always
// produce the same summary, so results are reproducible and testable
// without a model in the loop.
package summarize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/meshintel/brief-engine/pkg/types"
)

const (
	defaultMinContentLength = 100
	maxKeyPoints            = 5
	maxQuotes               = 3
	maxSummaryLength        = 2000
	defaultConfidence       = 8.0
)

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// keyPointKeywords mark sentences as informative enough to keep.
var keyPointKeywords = []string{
	"trend", "growth", "increase", "decrease", "market", "data", "research",
	"study", "analysis", "report", "according", "shows", "indicates",
}

// reliableDomains earn a credibility boost.
var reliableDomains = []string{
	".edu", ".gov", ".org", "reuters", "bloomberg", "forbes",
	"harvard", "mit", "stanford", "nature", "science",
}

// professionalTitleWords earn a smaller credibility boost.
var professionalTitleWords = []string{"research", "study", "analysis", "report"}

// fallbackKeyPoints stand in when no sentence meets the keyword filter.
var fallbackKeyPoints = []string{
	"Key information extracted from this source",
	"Relevant data points identified",
	"Important insights discovered",
}

// Summarize builds one SourceSummary per usable source, in input order.
// Sources with fewer than the minimum content characters are skipped
// (R1.2); skipping never fails the batch. SourceIDs are assigned
// sequentially among kept sources.
func Summarize(contents []types.FetchedContent, topic string, cfg types.SummarizeConfig) []types.SourceSummary {
	minLen := cfg.MinContentLength
	if minLen <= 0 {
		minLen = defaultMinContentLength
	}

	var summaries []types.SourceSummary
	for _, content := range contents {
		if len(strings.TrimSpace(content.Content)) < minLen {
			continue
		}

		title := content.Title
		if title == "" {
			title = "Unknown Source"
		}

		summaries = append(summaries, types.SourceSummary{
			SourceID: fmt.Sprintf("source_%d", len(summaries)+1),
			Metadata: types.SourceMetadata{
				URL:              content.URL,
				Title:            title,
				SourceType:       types.SourceWebArticle,
				CredibilityScore: assessCredibility(content.URL, title),
				WordCount:        content.WordCount,
			},
			KeyPoints:       extractKeyPoints(content.Content),
			RelevantQuotes:  extractRelevantQuotes(content.Content, topic),
			SummaryText:     summaryText(content.Content, title),
			RelevanceScore:  assessRelevance(content.Content, topic),
			ConfidenceScore: defaultConfidence,
		})
	}
	return summaries
}

// extractKeyPoints keeps sentences of moderate length that contain at
// least one informative keyword, capped at maxKeyPoints (R2.1). Fixed
// fallback points keep the field non-empty.
func extractKeyPoints(content string) []string {
	var points []string
	for _, sentence := range sentenceSplit.Split(content, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) <= 50 || len(sentence) >= 200 {
			continue
		}
		lower := strings.ToLower(sentence)
		for _, kw := range keyPointKeywords {
			if strings.Contains(lower, kw) {
				points = append(points, sentence)
				break
			}
		}
		if len(points) >= maxKeyPoints {
			break
		}
	}
	if len(points) == 0 {
		return append([]string(nil), fallbackKeyPoints...)
	}
	return points
}

// summaryText joins the first three substantial sentences, pads short
// summaries to a readable minimum, and caps the result (R2.2).
func summaryText(content, title string) string {
	var sentences []string
	for _, sentence := range sentenceSplit.Split(content, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) > 30 {
			sentences = append(sentences, sentence)
			if len(sentences) >= 3 {
				break
			}
		}
	}

	var summary string
	if len(sentences) > 0 {
		summary = strings.Join(sentences, ". ") + "."
	} else {
		summary = fmt.Sprintf("This source titled '%s' provides information about the research topic.", title)
	}

	if len(summary) < 150 {
		summary += " The content covers various aspects of the topic with detailed analysis and insights." +
			" This source contributes valuable information to understanding the subject matter."
	}
	if len(summary) > maxSummaryLength {
		summary = summary[:maxSummaryLength]
	}
	return summary
}

// extractRelevantQuotes wraps sentences that mention a topic word in
// quotation marks, capped at maxQuotes (R2.3).
func extractRelevantQuotes(content, topic string) []string {
	topicWords := strings.Fields(strings.ToLower(topic))

	var quotes []string
	for _, sentence := range sentenceSplit.Split(content, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) <= 50 || len(sentence) >= 300 {
			continue
		}
		lower := strings.ToLower(sentence)
		for _, word := range topicWords {
			if strings.Contains(lower, word) {
				quotes = append(quotes, `"`+sentence+`"`)
				break
			}
		}
		if len(quotes) >= maxQuotes {
			break
		}
	}
	return quotes
}

// assessCredibility scores a source from its URL and title: base 5.0,
// +2.0 for reliable domains, +1.0 for professional title wording,
// capped at 10 (R3.1).
func assessCredibility(pageURL, title string) float64 {
	score := 5.0
	lowerURL := strings.ToLower(pageURL)
	for _, domain := range reliableDomains {
		if strings.Contains(lowerURL, domain) {
			score += 2.0
			break
		}
	}
	lowerTitle := strings.ToLower(title)
	for _, word := range professionalTitleWords {
		if strings.Contains(lowerTitle, word) {
			score += 1.0
			break
		}
	}
	return types.ClampScore(score)
}

// assessRelevance scores topic-word overlap against the content, scaled
// to [0,10] with a floor of 5.0 (R3.2).
func assessRelevance(content, topic string) float64 {
	topicWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(topic)) {
		topicWords[w] = true
	}
	if len(topicWords) == 0 {
		return 5.0
	}

	contentWords := make(map[string]bool)
	for _, w := range wordPattern.FindAllString(strings.ToLower(content), -1) {
		contentWords[w] = true
	}

	overlap := 0
	for w := range topicWords {
		if contentWords[w] {
			overlap++
		}
	}

	relevance := types.ClampScore(float64(overlap) / float64(len(topicWords)) * 10)
	if relevance < 5.0 {
		return 5.0
	}
	return relevance
}
