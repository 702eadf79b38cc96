package parser

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"FomcToneScanner/internal/normalizer"
)

// Fed sites block default Go user agents; present a browser instead.
const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Containers that hold the speech body, tried in order. Each bank's CMS
// wraps remarks differently.
var contentSelectors = []string{
	"div#article",
	"div.col-xs-12.col-sm-8.col-md-8",
	"div.ts-article-content",
	"div.speech-content",
	"div#content-detail",
	"div.entry-content",
	"article",
	"main",
	"div#content",
}

const minContentChars = 300

// TextFetcher downloads a speech page and extracts its main body text.
type TextFetcher struct {
	client   *http.Client
	maxChars int
}

// NewTextFetcher wires an HTTP client; maxChars caps the extracted text,
// with 0 meaning no cap.
func NewTextFetcher(client *http.Client, maxChars int) *TextFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &TextFetcher{client: client, maxChars: maxChars}
}

// Fetch returns the normalized body text of the speech at url, or "" with
// an error when the page yields nothing usable.
func (f *TextFetcher) Fetch(ctx context.Context, url string) (string, error) {
	doc, err := fetchDocument(ctx, f.client, url)
	if err != nil {
		return "", err
	}

	doc.Find("nav, footer, header, script, style, aside").Remove()

	for _, sel := range contentSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		text := normalizer.CollapseWhitespace(el.Text())
		if len(text) > minContentChars {
			return f.clamp(text), nil
		}
	}

	body := normalizer.CollapseWhitespace(doc.Find("body").Text())
	if body == "" {
		return "", fmt.Errorf("no extractable text at %s", url)
	}
	return f.clamp(body), nil
}

func (f *TextFetcher) clamp(text string) string {
	if f.maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= f.maxChars {
		return text
	}
	return string(runes[:f.maxChars])
}

func fetchDocument(ctx context.Context, client *http.Client, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}
