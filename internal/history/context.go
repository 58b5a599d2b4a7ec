// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history turns prior conversation exchanges into a structured
// context summary for follow-up research. Implements: prd006-context
// (R1-R4);
//
//	docs/ARCHITECTURE § Context Resolution.
package history

import (
	"sort"
	"strings"

	"github.com/meshintel/brief-engine/pkg/types"
)

const (
	maxThemes          = 5
	responsePreviewLen = 200
	minNarrativeLen    = 50
)

// freshNarrative is the summary for a request with no prior exchanges.
const freshNarrative = "This is the beginning of a new research conversation. " +
	"No previous context is available. The user is starting fresh with their " +
	"research inquiry and this system will help build comprehensive research " +
	"briefs based on their questions and interests."

// unavailableNarrative is used when context resolution itself fails;
// the pipeline proceeds without prior context rather than aborting.
const unavailableNarrative = "Context summarization is currently unavailable " +
	"due to a technical issue. The system will proceed with generating research " +
	"briefs based on the current query without previous context integration."

// limitedHistoryGap flags sessions too short to establish themes.
const limitedHistoryGap = "Limited research history - may need more comprehensive analysis"

// Resolve summarizes the conversation history into prior topics, recurring
// themes, knowledge gaps, and a narrative of at least minNarrativeLen
// characters (R1-R3). Empty history yields the fixed fresh-conversation
// summary with empty lists (R1.1).
func Resolve(history []types.ConversationTurn) *types.ContextSummary {
	if len(history) == 0 {
		return &types.ContextSummary{
			PreviousTopics:  []string{},
			RecurringThemes: []string{},
			KnowledgeGaps:   []string{},
			SummaryText:     freshNarrative,
		}
	}

	var topics []string
	var previews []string
	for _, turn := range history {
		if turn.Query != "" {
			topics = append(topics, turn.Query)
		}
		if turn.Response != "" {
			preview := turn.Response
			if len(preview) > responsePreviewLen {
				preview = preview[:responsePreviewLen] + "..."
			}
			previews = append(previews, preview)
		}
	}

	themes := recurringThemes(previews)

	var gaps []string
	if len(history) < 3 {
		gaps = append(gaps, limitedHistoryGap)
	}

	return &types.ContextSummary{
		PreviousTopics:  topics,
		RecurringThemes: themes,
		KnowledgeGaps:   gaps,
		SummaryText:     narrative(topics, themes),
	}
}

// Unavailable returns the degraded context used when resolution fails.
func Unavailable() *types.ContextSummary {
	return &types.ContextSummary{
		PreviousTopics:  []string{},
		RecurringThemes: []string{},
		KnowledgeGaps:   []string{},
		SummaryText:     unavailableNarrative,
	}
}

// recurringThemes ranks meaningful words across response previews by
// frequency and keeps the top maxThemes (R2.2). Only alphabetic words
// longer than four characters count. Ties break alphabetically so the
// result is deterministic.
func recurringThemes(previews []string) []string {
	counts := make(map[string]int)
	for _, word := range strings.Fields(strings.ToLower(strings.Join(previews, " "))) {
		if len(word) > 4 && isAlpha(word) {
			counts[word]++
		}
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > maxThemes {
		words = words[:maxThemes]
	}
	return words
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) > 0
}

// narrative templates the summary from the last three topics and top
// three themes, padded to the minimum length (R3.1, R3.2).
func narrative(topics, themes []string) string {
	topicsText := "general topics"
	if len(topics) > 0 {
		recent := topics
		if len(recent) > 3 {
			recent = recent[len(recent)-3:]
		}
		topicsText = strings.Join(recent, ", ")
	}

	themesText := "initial exploration"
	if len(themes) > 0 {
		top := themes
		if len(top) > 3 {
			top = top[:3]
		}
		themesText = strings.Join(top, ", ")
	}

	text := "Previous research in this session has covered: " + topicsText +
		". Key recurring themes identified include: " + themesText +
		". This follow-up query should build on these previous insights and " +
		"expand the research scope to provide comprehensive analysis."

	if len(text) < minNarrativeLen {
		text += " The research assistant will integrate this context to provide " +
			"more targeted and relevant information for the user's continued investigation."
	}
	return text
}
