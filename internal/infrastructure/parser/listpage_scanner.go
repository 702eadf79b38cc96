package parser

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"FomcToneScanner/internal/dates"
	"FomcToneScanner/internal/domain"
	"FomcToneScanner/internal/scanner"
)

var (
	slashDateExpr = regexp.MustCompile(`(\d{4})[-/](\d{2})[-/](\d{2})`)

	// URL fragments that mark a link as pointing at a speech page, used by
	// the fallback when a site's list selectors stop matching.
	speechHrefHints = []string{"/speech", "speech/", "/remarks", "/talk"}
)

const minFallbackTitleChars = 12

// ListPageScanner is the selector-driven generic scraper covering the NY
// Fed and the eleven regional bank sites. Item and date selectors come from
// per-site configuration; when none match, it falls back to scanning all
// links whose URLs look like speech pages.
type ListPageScanner struct {
	client *http.Client
	text   *TextFetcher
	logger *slog.Logger
}

// NewListPageScanner wires an HTTP client and the shared text fetcher.
func NewListPageScanner(client *http.Client, text *TextFetcher, logger *slog.Logger) *ListPageScanner {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ListPageScanner{client: client, text: text, logger: logger}
}

// Name identifies the strategy inside the registry.
func (l *ListPageScanner) Name() string {
	return "listpage"
}

// Scan extracts speeches published at or after req.Since from the site's
// listing page, fetching each speech's full body text.
func (l *ListPageScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawSpeech, error) {
	doc, err := fetchDocument(ctx, l.client, req.Site.ListURL)
	if err != nil {
		return nil, err
	}

	items := selectFirst(doc, req.Site.ItemSelector)
	if items == nil || items.Length() == 0 {
		l.logger.Debug("no items via selectors, using link fallback", "source", req.Site.SourceID)
		return l.scanLinks(ctx, doc, req), nil
	}

	var speeches []domain.RawSpeech
	items.Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a").First()
		if link.Length() == 0 {
			return
		}

		dateText := itemDate(item, req.Site.DateSelector)
		publishedAt, err := dates.Parse(dateText)
		if err != nil {
			publishedAt, err = dates.Parse(item.Text())
		}
		if err != nil || publishedAt.Before(req.Since) {
			return
		}

		href, _ := link.Attr("href")
		speechURL := absoluteURL(req.Site.BaseURL, href)
		raw := domain.RawSpeech{
			SourceID:     req.Site.SourceID,
			URL:          speechURL,
			Title:        strings.TrimSpace(link.Text()),
			Description:  strings.TrimSpace(item.Text()),
			PublishedRaw: publishedAt.Format("2006-01-02"),
			FetchedAt:    time.Now().UTC(),
		}
		raw.RawText = l.fetchText(ctx, speechURL)
		speeches = append(speeches, raw)
	})

	l.logger.Debug("listpage scan done", "source", req.Site.SourceID, "found", len(speeches))
	return speeches, nil
}

// scanLinks is the last-resort strategy: walk every anchor and keep those
// whose URLs look like speech pages and whose surroundings carry a date.
func (l *ListPageScanner) scanLinks(ctx context.Context, doc *goquery.Document, req scanner.Request) []domain.RawSpeech {
	var speeches []domain.RawSpeech
	seen := map[string]struct{}{}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		title := strings.TrimSpace(a.Text())
		if title == "" || len(title) < minFallbackTitleChars {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		if !looksLikeSpeechHref(href) {
			return
		}
		seen[href] = struct{}{}

		desc := title
		if parent := a.Closest("li, div, article, tr, p"); parent.Length() > 0 {
			desc = strings.TrimSpace(parent.Text())
		}

		publishedAt, err := dates.Parse(desc)
		if err != nil {
			var ok bool
			publishedAt, ok = hrefSlashDate(href)
			if !ok {
				return
			}
		}
		if publishedAt.Before(req.Since) {
			return
		}

		speechURL := absoluteURL(req.Site.BaseURL, href)
		raw := domain.RawSpeech{
			SourceID:     req.Site.SourceID,
			URL:          speechURL,
			Title:        title,
			Description:  desc,
			PublishedRaw: publishedAt.Format("2006-01-02"),
			FetchedAt:    time.Now().UTC(),
		}
		raw.RawText = l.fetchText(ctx, speechURL)
		speeches = append(speeches, raw)
	})

	l.logger.Debug("link fallback done", "source", req.Site.SourceID, "found", len(speeches))
	return speeches
}

func (l *ListPageScanner) fetchText(ctx context.Context, url string) string {
	text, err := l.text.Fetch(ctx, url)
	if err != nil {
		l.logger.Warn("text fetch failed", "url", url, "error", err)
		return ""
	}
	return text
}

// selectFirst tries each comma-separated selector and returns the first
// non-empty match set.
func selectFirst(doc *goquery.Document, selectors string) *goquery.Selection {
	for _, sel := range strings.Split(selectors, ",") {
		sel = strings.TrimSpace(sel)
		if sel == "" {
			continue
		}
		if items := doc.Find(sel); items.Length() > 0 {
			return items
		}
	}
	return nil
}

// itemDate extracts the date string from an item using the site's date
// selectors, then the common defaults, preferring a datetime attribute
// over element text.
func itemDate(item *goquery.Selection, dateSelectors string) string {
	selectors := strings.Split(dateSelectors, ",")
	selectors = append(selectors, "time", ".date", "span[class*='date']")
	for _, sel := range selectors {
		sel = strings.TrimSpace(sel)
		if sel == "" {
			continue
		}
		el := item.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if dt, ok := el.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
			return dt
		}
		if text := strings.TrimSpace(el.Text()); text != "" {
			return text
		}
	}
	return ""
}

func looksLikeSpeechHref(href string) bool {
	h := strings.ToLower(href)
	for _, hint := range speechHrefHints {
		if strings.Contains(h, hint) {
			return true
		}
	}
	return false
}

func hrefSlashDate(href string) (time.Time, bool) {
	m := slashDateExpr.FindStringSubmatch(href)
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	t, err := dates.FromYMD(year, month, day)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
