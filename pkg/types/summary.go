// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SourceType classifies a research source.
type SourceType string

const (
	SourceWebArticle    SourceType = "web_article"
	SourceAcademicPaper SourceType = "academic_paper"
	SourceNewsArticle   SourceType = "news_article"
	SourceBlogPost      SourceType = "blog_post"
	SourceDocumentation SourceType = "documentation"
	SourceOther         SourceType = "other"
)

// SourceMetadata describes where a summary's content came from.
// Per prd004-summarization R4.1.
type SourceMetadata struct {
	// URL is the source address, when available.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Title is the source title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Author is the source author, when known.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// PublishDate is the publication date, when known.
	PublishDate time.Time `json:"publish_date,omitempty" yaml:"publish_date,omitempty"`

	// SourceType classifies the source.
	SourceType SourceType `json:"source_type" yaml:"source_type"`

	// CredibilityScore is a value in [0,10] assessing source trust.
	CredibilityScore float64 `json:"credibility_score" yaml:"credibility_score"`

	// WordCount is the source's word count.
	WordCount int `json:"word_count" yaml:"word_count"`
}

// SourceSummary is the bounded structured summary of one source.
// Per prd004-summarization R4.2: 1-10 key points, at most 5 quotes,
// summary text within [100,2000] characters, scores in [0,10].
type SourceSummary struct {
	// SourceID uniquely identifies the source within a run
	// (e.g. "source_1").
	SourceID string `json:"source_id" yaml:"source_id"`

	// Metadata describes the source.
	Metadata SourceMetadata `json:"metadata" yaml:"metadata"`

	// KeyPoints lists 1-10 bounded key statements from the source.
	KeyPoints []string `json:"key_points" yaml:"key_points"`

	// RelevantQuotes lists up to 5 quotes drawn from the source.
	RelevantQuotes []string `json:"relevant_quotes" yaml:"relevant_quotes"`

	// SummaryText is the comprehensive summary (100-2000 characters).
	SummaryText string `json:"summary_text" yaml:"summary_text"`

	// RelevanceScore is relevance to the research topic, in [0,10].
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`

	// ConfidenceScore is confidence in summary accuracy, in [0,10].
	ConfidenceScore float64 `json:"confidence_score" yaml:"confidence_score"`
}

// ContextSummary condenses prior conversation turns for follow-up research.
// Constructible even from an empty history (prd006-context R1.2): the
// narrative is never shorter than 50 characters.
type ContextSummary struct {
	// PreviousTopics lists prior research queries, oldest first.
	PreviousTopics []string `json:"previous_topics" yaml:"previous_topics"`

	// RecurringThemes lists deduplicated themes across prior responses.
	RecurringThemes []string `json:"recurring_themes" yaml:"recurring_themes"`

	// KnowledgeGaps lists areas the history suggests need follow-up.
	KnowledgeGaps []string `json:"knowledge_gaps" yaml:"knowledge_gaps"`

	// SummaryText is the narrative context summary (at least 50 chars).
	SummaryText string `json:"summary_text" yaml:"summary_text"`
}
