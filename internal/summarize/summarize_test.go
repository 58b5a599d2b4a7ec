// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"reflect"
	"strings"
	"testing"

	"github.com/meshintel/brief-engine/pkg/types"
)

const articleContent = `Quantum computing research shows rapid progress across the industry. ` +
	`The market data indicates that investment in quantum hardware grew significantly last year. ` +
	`According to several studies, error correction remains the central challenge for practical machines. ` +
	`Short sentence. ` +
	`Many laboratories continue to publish results on new qubit designs and their applications in optimization.`

func testContents() []types.FetchedContent {
	return []types.FetchedContent{
		{
			URL:       "https://research.example.edu/quantum",
			Title:     "Quantum Computing Research Report",
			Content:   articleContent,
			WordCount: 70,
			Success:   true,
		},
	}
}

func TestSummarizeProducesOneSummaryPerUsableSource(t *testing.T) {
	contents := append(testContents(), types.FetchedContent{
		URL:     "https://example.com/tiny",
		Title:   "Too Short",
		Content: "barely anything here",
	})

	summaries := Summarize(contents, "quantum computing", types.SummarizeConfig{})
	if len(summaries) != 1 {
		t.Fatalf("len(summaries) = %d, want 1 (short source skipped)", len(summaries))
	}
	if summaries[0].SourceID != "source_1" {
		t.Errorf("SourceID = %q, want source_1", summaries[0].SourceID)
	}
	if summaries[0].Metadata.SourceType != types.SourceWebArticle {
		t.Errorf("SourceType = %q, want %q", summaries[0].Metadata.SourceType, types.SourceWebArticle)
	}
}

func TestSummarizeIsDeterministic(t *testing.T) {
	a := Summarize(testContents(), "quantum computing", types.SummarizeConfig{})
	b := Summarize(testContents(), "quantum computing", types.SummarizeConfig{})
	if !reflect.DeepEqual(a, b) {
		t.Error("Summarize is not deterministic for identical input")
	}
}

func TestKeyPointsFilterAndFallback(t *testing.T) {
	points := extractKeyPoints(articleContent)
	if len(points) == 0 || len(points) > maxKeyPoints {
		t.Fatalf("len(points) = %d", len(points))
	}
	for _, p := range points {
		if len(p) <= 50 || len(p) >= 200 {
			t.Errorf("point length %d outside (50,200): %q", len(p), p)
		}
	}

	fallback := extractKeyPoints("Nothing useful. Tiny. Words only here.")
	if !reflect.DeepEqual(fallback, fallbackKeyPoints) {
		t.Errorf("fallback = %v, want fixed fallback points", fallback)
	}
}

func TestSummaryTextBounds(t *testing.T) {
	text := summaryText(articleContent, "Report")
	if len(text) < 150 {
		t.Errorf("summary length %d below minimum padding threshold", len(text))
	}
	if len(text) > maxSummaryLength {
		t.Errorf("summary length %d exceeds cap", len(text))
	}

	empty := summaryText("", "My Title")
	if !strings.Contains(empty, "My Title") {
		t.Errorf("empty-content summary should reference title, got %q", empty)
	}
}

func TestRelevantQuotesMentionTopic(t *testing.T) {
	quotes := extractRelevantQuotes(articleContent, "quantum computing")
	if len(quotes) == 0 || len(quotes) > maxQuotes {
		t.Fatalf("len(quotes) = %d", len(quotes))
	}
	for _, q := range quotes {
		if !strings.HasPrefix(q, `"`) || !strings.HasSuffix(q, `"`) {
			t.Errorf("quote not wrapped: %q", q)
		}
		if !strings.Contains(strings.ToLower(q), "quantum") && !strings.Contains(strings.ToLower(q), "computing") {
			t.Errorf("quote does not mention topic: %q", q)
		}
	}
}

func TestAssessCredibility(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		title string
		want  float64
	}{
		{"base", "https://randomblog.com/post", "My Opinions", 5.0},
		{"edu domain", "https://cs.stanford.edu/paper", "Notes", 7.0},
		{"professional title", "https://randomblog.com/post", "Market Research", 6.0},
		{"both boosts", "https://nature.com/article", "A Study of X", 8.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := assessCredibility(tt.url, tt.title); got != tt.want {
				t.Errorf("assessCredibility() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestAssessRelevanceFloorAndCap(t *testing.T) {
	// No overlap still floors at 5.0.
	if got := assessRelevance("completely unrelated words", "quantum computing"); got != 5.0 {
		t.Errorf("floor = %f, want 5.0", got)
	}
	// Full overlap caps at 10.0.
	if got := assessRelevance("quantum computing is quantum computing", "quantum computing"); got != 10.0 {
		t.Errorf("full overlap = %f, want 10.0", got)
	}
}

func TestScoresWithinRange(t *testing.T) {
	summaries := Summarize(testContents(), "quantum computing", types.SummarizeConfig{})
	for _, s := range summaries {
		for name, score := range map[string]float64{
			"credibility": s.Metadata.CredibilityScore,
			"relevance":   s.RelevanceScore,
			"confidence":  s.ConfidenceScore,
		} {
			if score < 0 || score > 10 {
				t.Errorf("%s score %f outside [0,10]", name, score)
			}
		}
	}
}
