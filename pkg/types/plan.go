// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ResearchStep is one ordered step in a research plan.
// Per prd007-planning R2.1: description at least 10 characters, 1-5 search
// queries, 1-10 expected sources, priority 1 (highest) to 5 (lowest).
type ResearchStep struct {
	// StepID uniquely identifies the step within the plan.
	StepID string `json:"step_id" yaml:"step_id"`

	// Description states what the step accomplishes (>= 10 chars).
	Description string `json:"description" yaml:"description"`

	// SearchQueries lists 1-5 queries for this step.
	SearchQueries []string `json:"search_queries" yaml:"search_queries"`

	// ExpectedSources is the expected number of sources (1-10).
	ExpectedSources int `json:"expected_sources" yaml:"expected_sources"`

	// Priority is the step priority: 1 highest, 5 lowest.
	Priority int `json:"priority" yaml:"priority"`
}

// ResearchPlan is the planner's structured output. The plan is advisory:
// later stages may drive search directly from the topic and depth, but a
// produced plan must satisfy these bounds (prd007-planning R1.1-R1.5).
type ResearchPlan struct {
	// Topic is the original research topic.
	Topic string `json:"topic" yaml:"topic"`

	// RefinedTopic is the clarified research topic.
	RefinedTopic string `json:"refined_topic" yaml:"refined_topic"`

	// ResearchQuestions lists 1-8 key questions to answer.
	ResearchQuestions []string `json:"research_questions" yaml:"research_questions"`

	// Steps lists 1-10 ordered research steps.
	Steps []ResearchStep `json:"steps" yaml:"steps"`

	// EstimatedDurationMinutes is the estimated research time (5-120).
	EstimatedDurationMinutes int `json:"estimated_duration_minutes" yaml:"estimated_duration_minutes"`

	// ComplexityScore rates research complexity in [1,10].
	ComplexityScore float64 `json:"complexity_score" yaml:"complexity_score"`
}
