// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plan

import (
	"strings"
	"testing"

	"github.com/meshintel/brief-engine/pkg/types"
)

func testRequest(depth int) types.ResearchRequest {
	return types.ResearchRequest{
		Topic:  "electric vehicle adoption",
		Depth:  depth,
		UserID: "tester",
	}
}

func TestBuildSatisfiesContract(t *testing.T) {
	for depth := 1; depth <= 3; depth++ {
		p := Build(testRequest(depth), nil)
		if err := Validate(p); err != nil {
			t.Errorf("depth %d: Validate() = %v", depth, err)
		}
	}
}

func TestBuildStepCountScalesWithDepth(t *testing.T) {
	tests := []struct {
		depth     int
		wantSteps int
	}{
		{1, 2},
		{2, 3},
		{3, 4},
	}
	for _, tt := range tests {
		p := Build(testRequest(tt.depth), nil)
		if len(p.Steps) != tt.wantSteps {
			t.Errorf("depth %d: steps = %d, want %d", tt.depth, len(p.Steps), tt.wantSteps)
		}
	}
}

func TestBuildStepsQuerySourceTopic(t *testing.T) {
	p := Build(testRequest(2), nil)
	for _, step := range p.Steps {
		found := false
		for _, q := range step.SearchQueries {
			if strings.Contains(q, "electric vehicle adoption") {
				found = true
			}
		}
		if !found {
			t.Errorf("step %s queries %v never mention the topic", step.StepID, step.SearchQueries)
		}
	}
}

func TestRefineTopicFollowUp(t *testing.T) {
	ctx := &types.ContextSummary{
		PreviousTopics: []string{"battery chemistry", "charging infrastructure"},
	}

	req := testRequest(2)
	req.FollowUp = true
	p := Build(req, ctx)
	if !strings.Contains(p.RefinedTopic, "charging infrastructure") {
		t.Errorf("RefinedTopic = %q, want reference to most recent prior topic", p.RefinedTopic)
	}

	// Fresh request ignores context.
	fresh := Build(testRequest(2), ctx)
	if fresh.RefinedTopic != "electric vehicle adoption" {
		t.Errorf("fresh RefinedTopic = %q, want unchanged topic", fresh.RefinedTopic)
	}
}

func TestRefineTopicSameAsLast(t *testing.T) {
	ctx := &types.ContextSummary{PreviousTopics: []string{"Electric Vehicle Adoption"}}
	req := testRequest(2)
	req.FollowUp = true
	p := Build(req, ctx)
	if p.RefinedTopic != "electric vehicle adoption" {
		t.Errorf("RefinedTopic = %q, repeat topic should stay unchanged", p.RefinedTopic)
	}
}

func TestFallbackPlanIsValid(t *testing.T) {
	p := Fallback("some topic")
	if err := Validate(p); err != nil {
		t.Fatalf("Validate(Fallback) = %v", err)
	}
	if len(p.Steps) != 1 {
		t.Errorf("fallback steps = %d, want 1", len(p.Steps))
	}
	if p.Steps[0].SearchQueries[0] != "some topic" {
		t.Errorf("fallback query = %q, want raw topic", p.Steps[0].SearchQueries[0])
	}
}

func TestValidateRejectsViolations(t *testing.T) {
	base := func() types.ResearchPlan { return Fallback("valid topic") }

	tests := []struct {
		name   string
		mutate func(*types.ResearchPlan)
	}{
		{"empty refined topic", func(p *types.ResearchPlan) { p.RefinedTopic = " " }},
		{"no questions", func(p *types.ResearchPlan) { p.ResearchQuestions = nil }},
		{"too many questions", func(p *types.ResearchPlan) {
			p.ResearchQuestions = make([]string, 9)
		}},
		{"no steps", func(p *types.ResearchPlan) { p.Steps = nil }},
		{"short description", func(p *types.ResearchPlan) { p.Steps[0].Description = "short" }},
		{"no queries", func(p *types.ResearchPlan) { p.Steps[0].SearchQueries = nil }},
		{"bad priority", func(p *types.ResearchPlan) { p.Steps[0].Priority = 6 }},
		{"bad sources", func(p *types.ResearchPlan) { p.Steps[0].ExpectedSources = 0 }},
		{"duration too low", func(p *types.ResearchPlan) { p.EstimatedDurationMinutes = 2 }},
		{"duration too high", func(p *types.ResearchPlan) { p.EstimatedDurationMinutes = 300 }},
		{"complexity out of range", func(p *types.ResearchPlan) { p.ComplexityScore = 11 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.mutate(&p)
			if err := Validate(p); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestComplexityScoreBounds(t *testing.T) {
	for depth := 1; depth <= 3; depth++ {
		req := testRequest(depth)
		req.FollowUp = true
		req.Topic = "a very long and multifaceted research topic about several things"
		score := complexityScore(req)
		if score < 1 || score > 10 {
			t.Errorf("depth %d: complexity %f outside [1,10]", depth, score)
		}
	}
}
