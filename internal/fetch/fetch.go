// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves and cleans web page text for the pipeline.
// Implements: prd003-fetch (R1-R5);
//
//	docs/ARCHITECTURE § Content Fetching.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/meshintel/brief-engine/pkg/types"
)

const (
	defaultMaxConcurrent    = 5
	defaultMaxContentLength = 50000
	defaultTimeout          = 30 * time.Second
)

// browserHeaders are sent with every fetch to reduce blocked requests
// (R5.1). Sites commonly refuse requests with bare library user agents.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Cache-Control":   "max-age=0",
}

// Fetcher retrieves page content with per-URL failure isolation and
// bounded concurrency.
type Fetcher struct {
	client *http.Client
	cfg    types.FetchConfig
}

// New returns a Fetcher with defaults applied for unset config fields.
func New(client *http.Client, cfg types.FetchConfig) *Fetcher {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	if cfg.MaxContentLength <= 0 {
		cfg.MaxContentLength = defaultMaxContentLength
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Fetcher{client: client, cfg: cfg}
}

// FetchAll retrieves every URL concurrently under a weighted semaphore and
// returns exactly one FetchedContent per input URL, in input order (R1.1,
// R1.2). Individual failures never cancel sibling fetches: each failed URL
// yields a fallback record instead (R3.1).
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []types.FetchedContent {
	if len(urls) == 0 {
		return nil
	}

	results := make([]types.FetchedContent, len(urls))
	sem := semaphore.NewWeighted(int64(f.cfg.MaxConcurrent))

	for i, u := range urls {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context cancelled: fill the remaining slots with
			// fallback records so cardinality still holds.
			for j := i; j < len(urls); j++ {
				results[j] = connectionFallback(urls[j], err, 0)
			}
			break
		}
		go func(i int, u string) {
			defer sem.Release(1)
			results[i] = f.fetchOne(ctx, u)
		}(i, u)
	}

	// Wait for all in-flight fetches by draining the semaphore.
	if err := sem.Acquire(context.Background(), int64(f.cfg.MaxConcurrent)); err == nil {
		sem.Release(int64(f.cfg.MaxConcurrent))
	}

	return results
}

// fetchOne retrieves a single URL. It never returns an error: every
// failure class produces a descriptive fallback record (R3.1-R3.3).
func (f *Fetcher) fetchOne(ctx context.Context, pageURL string) types.FetchedContent {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return connectionFallback(pageURL, err, time.Since(start))
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return connectionFallback(pageURL, err, time.Since(start))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		extracted := extractText(resp.Body, pageURL, f.cfg.MaxContentLength)
		return types.FetchedContent{
			URL:           pageURL,
			Title:         extracted.title,
			Content:       extracted.content,
			WordCount:     extracted.wordCount,
			Metadata:      extracted.metadata,
			FetchDuration: time.Since(start),
			Success:       true,
		}
	case resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusServiceUnavailable:
		return accessFallback(pageURL, resp.StatusCode, time.Since(start))
	default:
		return retrievalFallback(pageURL, resp.StatusCode, time.Since(start))
	}
}

// accessStatusMessages describe the access-restriction statuses (R3.2).
var accessStatusMessages = map[int]string{
	http.StatusForbidden:          "HTTP 403 - Access Forbidden (website blocked the request)",
	http.StatusTooManyRequests:    "HTTP 429 - Too Many Requests (rate limited)",
	http.StatusServiceUnavailable: "HTTP 503 - Service Unavailable (website temporarily unavailable)",
}

// accessFallback builds the record for 403/429/503 responses: not a hard
// error, but a descriptive stand-in referencing the domain and reason.
func accessFallback(pageURL string, status int, elapsed time.Duration) types.FetchedContent {
	reason := accessStatusMessages[status]
	domain, site := domainAndSite(pageURL)

	content := fmt.Sprintf(
		"Content from %s (%s) could not be accessed due to %s. "+
			"The requested URL was: %s. "+
			"Based on the URL, this appears to be content about %s. "+
			"The site %s is known for providing information on this topic. "+
			"Consider checking this source directly in a browser or using an alternative source.",
		site, domain, reason, pageURL, slugWords(pageURL), site)

	return types.FetchedContent{
		URL:       pageURL,
		Title:     "Access Issue - " + site,
		Content:   content,
		WordCount: len(strings.Fields(content)),
		Metadata: map[string]any{
			"status":      "access_restricted",
			"domain":      domain,
			"http_status": status,
		},
		FetchDuration: elapsed,
		Success:       false,
		ErrorMessage:  reason,
	}
}

// retrievalFallback builds the record for other non-200 responses.
func retrievalFallback(pageURL string, status int, elapsed time.Duration) types.FetchedContent {
	domain, site := domainAndSite(pageURL)

	content := fmt.Sprintf(
		"Unable to retrieve content from %s (%s). "+
			"The server returned HTTP status %d. "+
			"This may be temporary - consider trying again later.",
		site, domain, status)

	return types.FetchedContent{
		URL:       pageURL,
		Title:     "Retrieval Failed - " + site,
		Content:   content,
		WordCount: len(strings.Fields(content)),
		Metadata: map[string]any{
			"status": status,
			"domain": domain,
		},
		FetchDuration: elapsed,
		Success:       false,
		ErrorMessage:  fmt.Sprintf("HTTP %d", status),
	}
}

// connectionFallback builds the record for network and client errors.
func connectionFallback(pageURL string, err error, elapsed time.Duration) types.FetchedContent {
	domain, site := domainAndSite(pageURL)

	content := fmt.Sprintf(
		"Unable to connect to %s (%s). "+
			"Error: %v. "+
			"This could be due to network issues, DNS problems, or the site being unavailable.",
		site, domain, err)

	return types.FetchedContent{
		URL:       pageURL,
		Title:     "Connection Error - " + site,
		Content:   content,
		WordCount: len(strings.Fields(content)),
		Metadata: map[string]any{
			"error_type": "client_error",
			"domain":     domain,
		},
		FetchDuration: elapsed,
		Success:       false,
		ErrorMessage:  err.Error(),
	}
}

// domainAndSite extracts the host and a display name for a URL
// (e.g. "www.example.com" → "example.com", "Example").
func domainAndSite(pageURL string) (domain, site string) {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return pageURL, pageURL
	}
	domain = u.Host
	name := strings.TrimPrefix(domain, "www.")
	if idx := strings.Index(name, "."); idx > 0 {
		name = name[:idx]
	}
	if name == "" {
		return domain, domain
	}
	return domain, strings.ToUpper(name[:1]) + name[1:]
}

// slugWords turns the last URL path segment into readable words
// ("/ai-market-trends" → "ai market trends").
func slugWords(pageURL string) string {
	trimmed := strings.TrimRight(pageURL, "/")
	segment := trimmed
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		segment = trimmed[idx+1:]
	}
	return strings.Join(strings.Split(segment, "-"), " ")
}
