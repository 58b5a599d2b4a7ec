// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "testing"

func TestNewPipelineState(t *testing.T) {
	req := validRequest()
	state := NewPipelineState(req)

	if state.RequestID == "" {
		t.Error("RequestID not assigned")
	}
	if state.Request.Topic != req.Topic {
		t.Errorf("Request.Topic = %q", state.Request.Topic)
	}
	if state.ProviderCalls == nil || state.TokenUsage == nil {
		t.Error("counter maps not initialized")
	}

	other := NewPipelineState(req)
	if other.RequestID == state.RequestID {
		t.Error("request IDs collide across runs")
	}
}

func TestAppendStageResult(t *testing.T) {
	state := NewPipelineState(validRequest())

	state.AppendStageResult(StageResult{Stage: "search", Status: StageCompleted})
	state.AppendStageResult(StageResult{Stage: "fetch", Status: StageFailed, ErrorMessage: "boom"})

	if len(state.StageResults) != 2 {
		t.Fatalf("StageResults = %d, want 2", len(state.StageResults))
	}
	if state.StageResults[0].Stage != "search" || state.StageResults[1].Stage != "fetch" {
		t.Errorf("stage order = %q, %q", state.StageResults[0].Stage, state.StageResults[1].Stage)
	}
}

func TestTokenAccounting(t *testing.T) {
	state := NewPipelineState(validRequest())

	state.AddTokens("synthesize", 120)
	state.AddTokens("synthesize", 80)
	state.AddTokens("plan", 50)
	state.AddTokens("plan", 0)
	state.AddTokens("plan", -10)

	if state.TokenUsage["synthesize"] != 200 {
		t.Errorf("synthesize tokens = %d, want 200", state.TokenUsage["synthesize"])
	}
	if state.TokenUsage["plan"] != 50 {
		t.Errorf("plan tokens = %d, want 50 (non-positive amounts ignored)", state.TokenUsage["plan"])
	}
	if state.TotalTokens() != 250 {
		t.Errorf("TotalTokens() = %d, want 250", state.TotalTokens())
	}
}

func TestTokenAccountingNilMaps(t *testing.T) {
	var state PipelineState

	state.AddTokens("synthesize", 10)
	state.CountProviderCall("gemini")
	state.CountProviderCall("gemini")

	if state.TokenUsage["synthesize"] != 10 {
		t.Errorf("tokens = %d, want 10", state.TokenUsage["synthesize"])
	}
	if state.ProviderCalls["gemini"] != 2 {
		t.Errorf("provider calls = %d, want 2", state.ProviderCalls["gemini"])
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-1, 0},
		{0, 0},
		{7.3, 7.3},
		{10, 10},
		{12.5, 10},
	}
	for _, tt := range tests {
		if got := ClampScore(tt.in); got != tt.want {
			t.Errorf("ClampScore(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
