// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// geminiAPIBase is the Generative Language API root. Package-level var
// for test substitution.
var geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiBackend calls the Google Generative Language API.
type GeminiBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// Name returns the provider identifier.
func (g *GeminiBackend) Name() string { return "gemini" }

// geminiRequest is the generateContent request body.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse is the generateContent response body.
type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// Generate posts the prompt to the generateContent endpoint and returns
// the first candidate's text.
func (g *GeminiBackend) Generate(ctx context.Context, prompt string) (Result, error) {
	if g.APIKey == "" {
		return Result{}, fmt.Errorf("gemini API key not configured")
	}

	model := g.Model
	if model == "" {
		model = defaultGeminiModel
	}

	bodyBytes, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", geminiAPIBase, model, g.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return Result{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, string(body))
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return Result{}, fmt.Errorf("decoding Gemini response: %w", err)
	}

	for _, cand := range gResp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text == "" {
				continue
			}
			tokens := gResp.UsageMetadata.TotalTokenCount
			if tokens == 0 {
				tokens = EstimateTokens(prompt + part.Text)
			}
			return Result{Text: part.Text, TokensUsed: tokens}, nil
		}
	}

	return Result{}, fmt.Errorf("Gemini API returned no text content")
}
