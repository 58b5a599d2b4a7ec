// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"regexp"
	"sort"
	"strings"

	"github.com/meshintel/brief-engine/pkg/types"
)

// Extraction caps keep the analysis focused on the strongest signals.
const (
	maxThemes         = 8
	maxStatistics     = 8
	maxTrends         = 6
	maxKeyFacts       = 8
	maxExpertOpinions = 5
)

// contentAnalysis holds everything the deterministic synthesizer mines
// out of the combined source text.
type contentAnalysis struct {
	themes         []string
	statistics     []string
	trends         []string
	keyFacts       []string
	expertOpinions []string
	sources        []types.FetchedContent
}

// themePatterns match recurring market and technology themes. Each entry
// pairs the pattern with its display label.
var themePatterns = []struct {
	re    *regexp.Regexp
	label string
}{
	{regexp.MustCompile(`(?i)market\s+trends?`), "Market Trends"},
	{regexp.MustCompile(`(?i)growth\s+rates?`), "Growth Rates"},
	{regexp.MustCompile(`(?i)consumer\s+behavior`), "Consumer Behavior"},
	{regexp.MustCompile(`(?i)technology\s+adoption`), "Technology Adoption"},
	{regexp.MustCompile(`(?i)economic\s+impact`), "Economic Impact"},
	{regexp.MustCompile(`(?i)innovations?`), "Innovations"},
	{regexp.MustCompile(`(?i)digital\s+transformation`), "Digital Transformation"},
	{regexp.MustCompile(`(?i)sustainability`), "Sustainability"},
	{regexp.MustCompile(`(?i)supply\s+chain`), "Supply Chain"},
	{regexp.MustCompile(`(?i)investments?`), "Investments"},
	{regexp.MustCompile(`(?i)revenue\s+growth`), "Revenue Growth"},
	{regexp.MustCompile(`(?i)competitive\s+landscape`), "Competitive Landscape"},
	{regexp.MustCompile(`(?i)artificial\s+intelligence`), "Artificial Intelligence"},
	{regexp.MustCompile(`(?i)machine\s+learning`), "Machine Learning"},
	{regexp.MustCompile(`(?i)cloud\s+computing`), "Cloud Computing"},
	{regexp.MustCompile(`(?i)data\s+analytics`), "Data Analytics"},
	{regexp.MustCompile(`(?i)cybersecurity`), "Cybersecurity"},
	{regexp.MustCompile(`(?i)remote\s+work`), "Remote Work"},
	{regexp.MustCompile(`(?i)automation`), "Automation"},
	{regexp.MustCompile(`(?i)globalization`), "Globalization"},
}

// statisticPatterns match numeric claims worth surfacing as findings.
var statisticPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*%(?:\s+(?:increase|decrease|growth|decline|of|by))?`),
	regexp.MustCompile(`(?i)\d+(?:,\d{3})*(?:\.\d+)?\s*(?:billion|million|thousand|trillion)`),
	regexp.MustCompile(`(?i)\d{4}\s*(?:to|through|by)\s*\d{4}`),
	regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:times|fold)\s*(?:increase|growth)`),
	regexp.MustCompile(`(?i)\$\d+(?:,\d{3})*(?:\.\d+)?\s*(?:billion|million|thousand|trillion)?`),
}

// trendPatterns match directional statements about the market.
var trendPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)trending\s+(?:upward|downward|higher|lower)`),
	regexp.MustCompile(`(?i)(?:significant|substantial|notable)\s+(?:increase|decrease|growth|decline)`),
	regexp.MustCompile(`(?i)(?:rising|falling|growing|declining)\s+(?:demand|interest|usage|adoption)`),
	regexp.MustCompile(`(?i)(?:emerging|declining)\s+trends?`),
	regexp.MustCompile(`(?i)(?:expected|projected|anticipated)\s+to\s+(?:grow|increase|rise|decline)`),
	regexp.MustCompile(`(?i)(?:accelerating|slowing)\s+(?:growth|adoption)`),
}

// factPatterns mark sentences that attribute a claim to a source.
var factPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)according\s+to`),
	regexp.MustCompile(`(?i)research\s+shows`),
	regexp.MustCompile(`(?i)studies\s+indicate`),
	regexp.MustCompile(`(?i)data\s+reveals`),
	regexp.MustCompile(`(?i)analysis\s+suggests`),
	regexp.MustCompile(`(?i)findings\s+show`),
	regexp.MustCompile(`(?i)reports\s+that`),
	regexp.MustCompile(`(?i)survey\s+found`),
}

// opinionPatterns match quoted material and expert attributions.
var opinionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"([^"]{50,300})"`),
	regexp.MustCompile(`(?i)(?:experts?|analysts?|researchers?)\s+(?:says?|believes?|suggests?)`),
	regexp.MustCompile(`(?i)according\s+to\s+(?:industry\s+)?(?:experts?|analysts?)`),
}

var synthSentenceSplit = regexp.MustCompile(`[.!?]+`)

// analyzeContent mines the combined text of all fetched sources for
// themes, statistics, trends, facts, and opinions.
func analyzeContent(contents []types.FetchedContent, topic string) contentAnalysis {
	var sb strings.Builder
	var sources []types.FetchedContent
	for _, c := range contents {
		sb.WriteString(c.Content)
		sb.WriteString(" ")
		if c.URL != "" {
			sources = append(sources, c)
		}
	}
	text := sb.String()

	if strings.TrimSpace(text) == "" {
		return contentAnalysis{sources: sources}
	}

	return contentAnalysis{
		themes:         extractThemes(text, topic),
		statistics:     matchSentences(text, statisticPatterns, 20, maxStatistics),
		trends:         matchSentences(text, trendPatterns, 30, maxTrends),
		keyFacts:       extractKeyFacts(text),
		expertOpinions: extractExpertOpinions(text),
		sources:        sources,
	}
}

// extractThemes collects matched theme labels plus topic-word themes,
// deduplicated, capped at maxThemes. Output order is deterministic:
// pattern order first, then topic-word order.
func extractThemes(text, topic string) []string {
	seen := make(map[string]bool)
	var themes []string

	add := func(theme string) {
		if !seen[theme] && len(themes) < maxThemes {
			seen[theme] = true
			themes = append(themes, theme)
		}
	}

	for _, tp := range themePatterns {
		if tp.re.MatchString(text) {
			add(tp.label)
		}
	}

	lower := strings.ToLower(text)
	for _, word := range strings.Fields(strings.ToLower(topic)) {
		if len(word) > 3 && strings.Contains(lower, word) {
			add(strings.ToUpper(word[:1]) + word[1:] + " Development")
		}
	}

	return themes
}

// matchSentences returns the sentences containing a pattern match, in
// text order, deduplicated and capped.
func matchSentences(text string, patterns []*regexp.Regexp, minLen, cap int) []string {
	type hit struct {
		pos      int
		sentence string
	}
	seen := make(map[string]bool)
	var hits []hit

	for _, re := range patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			sentence := sentenceAt(text, loc[0])
			if len(sentence) <= minLen || seen[sentence] {
				continue
			}
			seen[sentence] = true
			hits = append(hits, hit{pos: loc[0], sentence: sentence})
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	var out []string
	for _, h := range hits {
		if len(out) >= cap {
			break
		}
		out = append(out, h.sentence)
	}
	return out
}

// extractKeyFacts keeps attributed sentences of reasonable length.
func extractKeyFacts(text string) []string {
	var facts []string
	for _, sentence := range synthSentenceSplit.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) <= 50 || len(sentence) >= 400 {
			continue
		}
		for _, re := range factPatterns {
			if re.MatchString(sentence) {
				facts = append(facts, sentence)
				break
			}
		}
		if len(facts) >= maxKeyFacts {
			break
		}
	}
	return facts
}

// extractExpertOpinions collects quoted passages and attributed expert
// statements.
func extractExpertOpinions(text string) []string {
	seen := make(map[string]bool)
	var opinions []string

	add := func(op string) {
		op = strings.TrimSpace(op)
		if len(op) > 30 && !seen[op] && len(opinions) < maxExpertOpinions {
			seen[op] = true
			opinions = append(opinions, op)
		}
	}

	for i, re := range opinionPatterns {
		if i == 0 {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				add(`"` + m[1] + `"`)
			}
			continue
		}
		for _, loc := range re.FindAllStringIndex(text, -1) {
			add(sentenceAt(text, loc[0]))
		}
	}
	return opinions
}

// sentenceAt returns the trimmed sentence containing the byte position,
// or "" when the surrounding sentence is too short to be useful.
func sentenceAt(text string, pos int) string {
	start := pos
	for start > 0 && !isSentenceEnd(text[start]) {
		start--
	}
	if start < len(text) && isSentenceEnd(text[start]) {
		start++
	}

	end := pos
	for end < len(text) && !isSentenceEnd(text[end]) {
		end++
	}
	if end < len(text) && isSentenceEnd(text[end]) {
		end++
	}

	sentence := strings.TrimSpace(text[start:end])
	if len(sentence) <= 20 {
		return ""
	}
	return sentence
}

func isSentenceEnd(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}
