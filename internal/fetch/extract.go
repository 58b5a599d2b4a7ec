// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// contentSelectors are tried in priority order when locating the main
// article body (R2.2). The document body is the fallback.
var contentSelectors = []string{
	"main",
	"article",
	".content",
	"#content",
	".post",
	".entry",
}

// strippedElements are removed before text extraction; they carry
// navigation chrome rather than article content (R2.1).
const strippedElements = "script, style, nav, footer, aside"

const maxHeadings = 10

type extractedPage struct {
	title     string
	content   string
	wordCount int
	metadata  map[string]any
}

// extractText parses an HTML body and pulls out the readable article text,
// title, headings, and meta tags. Unparseable documents yield an empty
// page rather than an error; the caller still records the fetch as made.
func extractText(body io.Reader, pageURL string, maxContentLength int) extractedPage {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return extractedPage{
			title:    titleFromURL(pageURL),
			metadata: map[string]any{"parse_error": err.Error()},
		}
	}

	doc.Find(strippedElements).Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = titleFromURL(pageURL)
	}

	content := mainText(doc)
	if len(content) > maxContentLength {
		content = content[:maxContentLength]
	}

	return extractedPage{
		title:     title,
		content:   content,
		wordCount: len(strings.Fields(content)),
		metadata:  pageMetadata(doc),
	}
}

// mainText returns the collapsed text of the first matching content
// selector, falling back to the whole body (R2.2, R2.3).
func mainText(doc *goquery.Document) string {
	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 {
			if text := collapseWhitespace(sel.Text()); text != "" {
				return text
			}
		}
	}
	return collapseWhitespace(doc.Find("body").Text())
}

// pageMetadata collects meta tags and the first headings of the page
// (R2.4). Meta keys come from name= or property= attributes, with any
// "og:" prefix stripped from properties.
func pageMetadata(doc *goquery.Document) map[string]any {
	meta := make(map[string]any)

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		content, ok := sel.Attr("content")
		if !ok || content == "" {
			return
		}
		key, ok := sel.Attr("name")
		if !ok {
			prop, hasProp := sel.Attr("property")
			if !hasProp {
				return
			}
			key = strings.TrimPrefix(prop, "og:")
		}
		if key != "" {
			meta[key] = content
		}
	})

	var headings []string
	doc.Find("h1, h2, h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if text := collapseWhitespace(sel.Text()); text != "" {
			headings = append(headings, text)
		}
		return len(headings) < maxHeadings
	})
	if len(headings) > 0 {
		meta["headings"] = headings
	}

	return meta
}

// collapseWhitespace normalizes runs of whitespace to single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// titleFromURL derives a fallback title from the URL host.
func titleFromURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return pageURL
	}
	return u.Host
}
