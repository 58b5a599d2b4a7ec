// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan derives a structured research plan from the request and
// resolved context. Implements: prd007-planning (R1-R3);
//
//	docs/ARCHITECTURE § Planning.
package plan

import (
	"fmt"
	"strings"

	"github.com/meshintel/brief-engine/pkg/types"
)

// Contract bounds for a valid plan. Plans outside these bounds are
// replaced by the fallback plan rather than propagated.
const (
	minQuestions       = 1
	maxQuestions       = 8
	minSteps           = 1
	maxSteps           = 10
	minStepDescription = 10
	minStepQueries     = 1
	maxStepQueries     = 5
	minExpectedSources = 1
	maxExpectedSources = 10
	minPriority        = 1
	maxPriority        = 5
	minDuration        = 5
	maxDuration        = 120
)

// stepTemplates define the research phases, in execution order. Depth
// selects a prefix of this list.
var stepTemplates = []struct {
	description     string
	querySuffix     string
	expectedSources int
	priority        int
}{
	{"Survey the current landscape and established background of the topic", "overview background", 5, 5},
	{"Gather recent data, statistics, and market indicators", "statistics data 2026", 4, 4},
	{"Identify open challenges, criticisms, and limitations", "challenges limitations criticism", 3, 3},
	{"Collect expert commentary and forward-looking projections", "expert opinion forecast", 3, 2},
}

// Build produces a deterministic plan for the request. Prior context
// sharpens the refined topic for follow-up queries; depth controls the
// step count and estimated effort. The returned plan always satisfies
// the contract bounds.
func Build(req types.ResearchRequest, ctx *types.ContextSummary) types.ResearchPlan {
	refined := refineTopic(req, ctx)

	stepCount := req.Depth + 1
	if stepCount < minSteps {
		stepCount = minSteps
	}
	if stepCount > len(stepTemplates) {
		stepCount = len(stepTemplates)
	}

	steps := make([]types.ResearchStep, 0, stepCount)
	for i := 0; i < stepCount; i++ {
		tmpl := stepTemplates[i]
		steps = append(steps, types.ResearchStep{
			StepID:          fmt.Sprintf("step_%d", i+1),
			Description:     tmpl.description,
			SearchQueries:   []string{req.Topic, req.Topic + " " + tmpl.querySuffix},
			ExpectedSources: tmpl.expectedSources,
			Priority:        tmpl.priority,
		})
	}

	p := types.ResearchPlan{
		Topic:                    req.Topic,
		RefinedTopic:             refined,
		ResearchQuestions:        researchQuestions(req.Topic, req.Depth),
		Steps:                    steps,
		EstimatedDurationMinutes: estimateDuration(req.Depth),
		ComplexityScore:          complexityScore(req),
	}

	if err := Validate(p); err != nil {
		return Fallback(req.Topic)
	}
	return p
}

// refineTopic narrows the topic using the most recent prior topic for
// follow-up requests; fresh requests keep the topic as-is.
func refineTopic(req types.ResearchRequest, ctx *types.ContextSummary) string {
	if !req.FollowUp || ctx == nil || len(ctx.PreviousTopics) == 0 {
		return req.Topic
	}
	last := ctx.PreviousTopics[len(ctx.PreviousTopics)-1]
	if strings.EqualFold(last, req.Topic) {
		return req.Topic
	}
	return req.Topic + " (building on prior research into " + last + ")"
}

// researchQuestions templates depth+1 guiding questions, capped at the
// contract maximum.
func researchQuestions(topic string, depth int) []string {
	all := []string{
		"What is the current state of " + topic + "?",
		"What recent data and statistics describe " + topic + "?",
		"What are the main challenges and limitations around " + topic + "?",
		"How is " + topic + " expected to develop going forward?",
	}
	count := depth + 1
	if count < minQuestions {
		count = minQuestions
	}
	if count > len(all) {
		count = len(all)
	}
	return all[:count]
}

func estimateDuration(depth int) int {
	switch depth {
	case 1:
		return 10
	case 3:
		return 45
	default:
		return 20
	}
}

// complexityScore rates the request on [1,10] from depth and topic
// breadth.
func complexityScore(req types.ResearchRequest) float64 {
	score := float64(req.Depth) * 2.5
	if len(strings.Fields(req.Topic)) > 5 {
		score += 1.0
	}
	if req.FollowUp {
		score += 0.5
	}
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}
	return score
}

// Fallback is the degraded plan used when planning fails: a single
// implicit step that searches the raw topic (R3.1).
func Fallback(topic string) types.ResearchPlan {
	return types.ResearchPlan{
		Topic:        topic,
		RefinedTopic: topic,
		ResearchQuestions: []string{
			"What is known about " + topic + "?",
		},
		Steps: []types.ResearchStep{{
			StepID:          "step_1",
			Description:     "Search the topic directly and review top sources",
			SearchQueries:   []string{topic},
			ExpectedSources: 5,
			Priority:        5,
		}},
		EstimatedDurationMinutes: minDuration,
		ComplexityScore:          1,
	}
}

// Validate checks a plan against the contract bounds and returns the
// first violation found.
func Validate(p types.ResearchPlan) error {
	if strings.TrimSpace(p.RefinedTopic) == "" {
		return fmt.Errorf("refined topic is empty")
	}
	if n := len(p.ResearchQuestions); n < minQuestions || n > maxQuestions {
		return fmt.Errorf("question count %d outside [%d,%d]", n, minQuestions, maxQuestions)
	}
	if n := len(p.Steps); n < minSteps || n > maxSteps {
		return fmt.Errorf("step count %d outside [%d,%d]", n, minSteps, maxSteps)
	}
	for _, step := range p.Steps {
		if len(step.Description) < minStepDescription {
			return fmt.Errorf("step %s: description too short", step.StepID)
		}
		if n := len(step.SearchQueries); n < minStepQueries || n > maxStepQueries {
			return fmt.Errorf("step %s: query count %d outside [%d,%d]", step.StepID, n, minStepQueries, maxStepQueries)
		}
		if step.ExpectedSources < minExpectedSources || step.ExpectedSources > maxExpectedSources {
			return fmt.Errorf("step %s: expected sources %d outside [%d,%d]", step.StepID, step.ExpectedSources, minExpectedSources, maxExpectedSources)
		}
		if step.Priority < minPriority || step.Priority > maxPriority {
			return fmt.Errorf("step %s: priority %d outside [%d,%d]", step.StepID, step.Priority, minPriority, maxPriority)
		}
	}
	if p.EstimatedDurationMinutes < minDuration || p.EstimatedDurationMinutes > maxDuration {
		return fmt.Errorf("duration %d outside [%d,%d] minutes", p.EstimatedDurationMinutes, minDuration, maxDuration)
	}
	if p.ComplexityScore < 1 || p.ComplexityScore > 10 {
		return fmt.Errorf("complexity %.1f outside [1,10]", p.ComplexityScore)
	}
	return nil
}
