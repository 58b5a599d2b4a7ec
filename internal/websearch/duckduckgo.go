// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/meshintel/brief-engine/internal/httputil"
	"github.com/meshintel/brief-engine/pkg/types"
)

// duckduckgoBase is the DuckDuckGo HTML search endpoint. Declared as a var
// so tests can substitute an httptest server.
var duckduckgoBase = "https://html.duckduckgo.com/html/"

// ddgDefaultScore is the relevance assigned to DuckDuckGo results; the
// endpoint exposes no per-result score (R2.3).
const ddgDefaultScore = 8.0

// DuckDuckGoBackend queries the no-key-required DuckDuckGo HTML endpoint
// and scrapes the result list (R2.1).
type DuckDuckGoBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *DuckDuckGoBackend) Name() string { return "duckduckgo" }

// Search posts the query to the HTML endpoint and parses the result list.
func (b *DuckDuckGoBackend) Search(ctx context.Context, query string, maxResults int, cfg types.SearchConfig) ([]types.SearchResult, error) {
	form := url.Values{"q": {query}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, duckduckgoBase, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("DuckDuckGo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DuckDuckGo returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing DuckDuckGo response: %w", err)
	}

	var results []types.SearchResult
	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link := sel.Find(".result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}

		r := types.SearchResult{
			Title:          strings.TrimSpace(link.Text()),
			URL:            resolveRedirect(href),
			Snippet:        strings.TrimSpace(sel.Find(".result__snippet").First().Text()),
			Source:         "duckduckgo",
			RelevanceScore: ddgDefaultScore,
		}
		if r.URL == "" {
			return true
		}

		results = append(results, r)
		return len(results) < maxResults
	})

	return results, nil
}

// resolveRedirect unwraps DuckDuckGo's redirect links
// ("//duckduckgo.com/l/?uddg=<encoded>") to the target URL. Direct links
// pass through unchanged.
func resolveRedirect(href string) string {
	if !strings.Contains(href, "duckduckgo.com/l/") {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
