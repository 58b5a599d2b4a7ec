// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/meshintel/brief-engine/internal/llm"
	"github.com/meshintel/brief-engine/pkg/types"
)

// Per-prompt input caps keep requests inside provider context limits.
const (
	summaryContentCap  = 4000
	analysisContentCap = 6000
	findingsContentCap = 5000
	insightsContentCap = 4000
	perSourceCap       = 3000
)

// generativeConfidence is the fixed confidence for model-written briefs.
const generativeConfidence = 8.5

var summaryPromptTmpl = template.Must(template.New("summary").Parse(`You are a research analyst creating an executive summary for a research brief on "{{.Topic}}".

{{.DepthInstruction}} based on the following content from multiple sources:

{{.Content}}

Create an executive summary that:
1. Is 300-900 characters long
2. Highlights the main findings and insights
3. Mentions the number of sources analyzed
4. Identifies key focus areas
5. Provides context about market indicators or significant developments

Write in a professional, analytical tone suitable for business decision-makers.
`))

var analysisPromptTmpl = template.Must(template.New("analysis").Parse(`You are a research analyst creating a detailed analysis section for a research brief on "{{.Topic}}".

{{.DepthInstruction}} based on the following content from multiple sources:

{{.Content}}

Create a detailed analysis that:
1. Synthesizes information from all sources
2. Identifies key themes, trends, and patterns
3. Includes specific data points, statistics, and facts from the sources
4. Analyzes implications and significance
5. Maintains academic rigor while being accessible

Structure with clear paragraphs covering different aspects of the topic.
Write in a professional, analytical tone.
`))

var findingsPromptTmpl = template.Must(template.New("findings").Parse(`You are a research analyst extracting key findings from research on "{{.Topic}}".

Based on the following content from multiple sources:

{{.Content}}

Extract 4-8 key findings that:
1. Are specific and factual
2. Include data points, statistics, or concrete information
3. Represent the most important insights

Format each finding as a concise statement (1-2 sentences).
Return only the findings, one per line, without numbering.
`))

var insightsPromptTmpl = template.Must(template.New("insights").Parse(`You are a research analyst generating insights for a research brief on "{{.Topic}}".

Based on the following content:

{{.Content}}

Generate 2-4 research insights that synthesize information across sources
and identify implications beyond the raw facts.

For each insight, provide:
- A category (e.g., "Market Trends", "Technical Development", "Industry Impact")
- A detailed description analyzing the significance

Format as:
Category: [category name]
Description: [detailed analysis]

---

Category: [next category]
Description: [next analysis]
`))

// summaryDepthInstructions select the summary scope per research depth.
var summaryDepthInstructions = map[int]string{
	1: "Provide a concise overview",
	2: "Provide a comprehensive summary",
	3: "Provide an in-depth executive summary",
}

// analysisDepthInstructions select the analysis scope per research depth.
var analysisDepthInstructions = map[int]string{
	1: "Create a focused analysis with 3-4 paragraphs",
	2: "Create a comprehensive analysis with 5-7 paragraphs",
	3: "Create an in-depth analysis with 8+ paragraphs covering all major aspects",
}

// generativeBrief writes the brief with the generator producing each
// section. Any generation failure aborts the generative path; the caller
// falls back to the deterministic brief. Returns the brief and total
// tokens consumed.
func generativeBrief(ctx context.Context, gen llm.Generator, state *types.PipelineState, maxRetries int) (*types.FinalBrief, int, error) {
	topic := state.Request.Topic
	depth := state.Request.Depth

	combined := combineSources(state.FetchedContent)
	if combined == "" {
		return nil, 0, fmt.Errorf("no source content to synthesize")
	}

	totalTokens := 0
	generate := func(tmpl *template.Template, data any) (string, error) {
		prompt, err := renderPrompt(tmpl, data)
		if err != nil {
			return "", err
		}
		result, err := llm.GenerateWithRetry(ctx, gen, prompt, maxRetries)
		if err != nil {
			return "", err
		}
		totalTokens += result.TokensUsed
		return strings.TrimSpace(result.Text), nil
	}

	execSummary, err := generate(summaryPromptTmpl, promptData{
		Topic:            topic,
		DepthInstruction: depthInstruction(summaryDepthInstructions, depth),
		Content:          truncate(combined, summaryContentCap),
	})
	if err != nil {
		return nil, totalTokens, fmt.Errorf("generating executive summary: %w", err)
	}
	if len(execSummary) > 1000 {
		execSummary = execSummary[:1000]
	}

	analysis, err := generate(analysisPromptTmpl, promptData{
		Topic:            topic,
		DepthInstruction: depthInstruction(analysisDepthInstructions, depth),
		Content:          truncate(combined, analysisContentCap),
	})
	if err != nil {
		return nil, totalTokens, fmt.Errorf("generating detailed analysis: %w", err)
	}

	findingsText, err := generate(findingsPromptTmpl, promptData{
		Topic:   topic,
		Content: truncate(combined, findingsContentCap),
	})
	if err != nil {
		return nil, totalTokens, fmt.Errorf("generating key findings: %w", err)
	}
	findings := parseFindings(findingsText)

	insightsText, err := generate(insightsPromptTmpl, promptData{
		Topic:   topic,
		Content: truncate(combined, insightsContentCap),
	})
	if err != nil {
		return nil, totalTokens, fmt.Errorf("generating insights: %w", err)
	}
	sources := briefSources(state)
	insights := parseInsights(insightsText, topic, sources)

	brief := &types.FinalBrief{
		RequestID:        state.RequestID,
		Topic:            topic,
		ExecutiveSummary: execSummary,
		KeyFindings:      findings,
		DetailedAnalysis: analysis,
		Insights:         insights,
		Sources:          sources,
		SourceCount:      len(sources),
		ResearchDepth:    state.Request.ResearchDepth(),
		ConfidenceScore:  generativeConfidence,
		Limitations: []string{
			"Analysis based on available web sources",
			"Content accuracy depends on source reliability",
		},
		FollowUpSuggestions: []string{
			"Explore specific subtopics in greater detail",
			"Consult academic sources for deeper research",
			"Monitor recent developments in this field",
		},
		IsFollowUp:  state.Request.FollowUp,
		ContextUsed: state.ContextSummary,
		CreatedAt:   time.Now().UTC(),
	}
	return brief, totalTokens, nil
}

type promptData struct {
	Topic            string
	DepthInstruction string
	Content          string
}

func depthInstruction(m map[int]string, depth int) string {
	if instr, ok := m[depth]; ok {
		return instr
	}
	return m[2]
}

func renderPrompt(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}

// combineSources concatenates per-source blocks with titles and URLs so
// the model can attribute its statements.
func combineSources(contents []types.FetchedContent) string {
	var sb strings.Builder
	n := 0
	for _, c := range contents {
		if strings.TrimSpace(c.Content) == "" {
			continue
		}
		n++
		fmt.Fprintf(&sb, "Source %d: %s\nURL: %s\nContent: %s\n\n",
			n, c.Title, c.URL, truncate(c.Content, perSourceCap))
	}
	return sb.String()
}

// parseFindings splits the model output into one finding per non-empty
// line, capped at 8; short responses are padded to 3.
func parseFindings(text string) []string {
	var findings []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			findings = append(findings, line)
		}
	}
	if len(findings) > 8 {
		findings = findings[:8]
	}
	for len(findings) < 3 {
		findings = append(findings, "Additional research required to identify more specific findings")
	}
	return findings
}

// parseInsights splits "Category:/Description:" sections delimited by
// "---"; unparseable output falls back to a single generic insight.
func parseInsights(text, topic string, sources []types.SourceSummary) []types.ResearchInsight {
	var supporting []string
	for _, s := range sources {
		supporting = append(supporting, s.SourceID)
		if len(supporting) >= 2 {
			break
		}
	}

	var insights []types.ResearchInsight
	for _, section := range strings.Split(text, "---") {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}

		category := "Research Insight"
		description := section
		for _, line := range strings.Split(section, "\n") {
			line = strings.TrimSpace(line)
			if after, ok := strings.CutPrefix(line, "Category:"); ok {
				category = strings.TrimSpace(after)
			} else if after, ok := strings.CutPrefix(line, "Description:"); ok {
				description = strings.TrimSpace(after)
			}
		}

		if len(description) > 50 {
			insights = append(insights, types.ResearchInsight{
				InsightID:         uuid.NewString(),
				Category:          category,
				Description:       truncate(description, 500),
				SupportingSources: supporting,
				ConfidenceLevel:   generativeConfidence,
			})
		}
		if len(insights) >= 4 {
			break
		}
	}

	if len(insights) == 0 {
		insights = append(insights, types.ResearchInsight{
			InsightID:         uuid.NewString(),
			Category:          "Research Analysis",
			Description:       fmt.Sprintf("Comprehensive analysis of %s reveals multiple important trends and developments based on authoritative sources.", topic),
			SupportingSources: supporting,
			ConfidenceLevel:   7.0,
		})
	}
	return insights
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
