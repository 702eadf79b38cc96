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

var hrefDateExpr = regexp.MustCompile(`(\d{8})`)

// BoardScanner crawls the Board of Governors speech listing at
// federalreserve.gov and extracts speeches published since the cutoff.
type BoardScanner struct {
	client *http.Client
	text   *TextFetcher
	logger *slog.Logger
}

// NewBoardScanner wires an HTTP client and the shared text fetcher.
func NewBoardScanner(client *http.Client, text *TextFetcher, logger *slog.Logger) *BoardScanner {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BoardScanner{client: client, text: text, logger: logger}
}

// Name identifies the strategy inside the registry.
func (b *BoardScanner) Name() string {
	return "board"
}

// Scan walks the event listing rows and returns raw speeches at or after
// req.Since, each with its full body text fetched.
func (b *BoardScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawSpeech, error) {
	doc, err := fetchDocument(ctx, b.client, req.Site.ListURL)
	if err != nil {
		return nil, err
	}

	var speeches []domain.RawSpeech
	doc.Find("div.row.eventlist").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("em a, p.itemPara a, a").First()
		if link.Length() == 0 {
			return
		}

		dateText := strings.TrimSpace(row.Find("p.itemDate, .datetime, time").First().Text())
		href, _ := link.Attr("href")

		publishedAt, ok := boardDate(dateText, href)
		if !ok || publishedAt.Before(req.Since) {
			return
		}

		speechURL := absoluteURL(req.Site.BaseURL, href)
		raw := domain.RawSpeech{
			SourceID:     req.Site.SourceID,
			URL:          speechURL,
			Title:        strings.TrimSpace(link.Text()),
			Description:  strings.TrimSpace(row.Text()),
			PublishedRaw: publishedAt.Format("2006-01-02"),
			FetchedAt:    time.Now().UTC(),
		}
		raw.RawText = b.fetchText(ctx, speechURL)
		speeches = append(speeches, raw)
	})

	b.logger.Debug("board scan done", "source", req.Site.SourceID, "found", len(speeches))
	return speeches, nil
}

func (b *BoardScanner) fetchText(ctx context.Context, url string) string {
	text, err := b.text.Fetch(ctx, url)
	if err != nil {
		// Emit the speech anyway; normalization rejects it as empty text so
		// the run summary reports it instead of dropping it silently.
		b.logger.Warn("text fetch failed", "url", url, "error", err)
		return ""
	}
	return text
}

// boardDate parses the row's date string, falling back to the yyyymmdd
// fragment the board embeds in speech URLs.
func boardDate(dateText, href string) (time.Time, bool) {
	if t, err := dates.Parse(dateText); err == nil {
		return t, true
	}
	if m := hrefDateExpr.FindString(href); m != "" {
		year, _ := strconv.Atoi(m[:4])
		month, _ := strconv.Atoi(m[4:6])
		day, _ := strconv.Atoi(m[6:8])
		if t, err := dates.FromYMD(year, month, day); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func absoluteURL(base, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return strings.TrimSuffix(base, "/") + href
}
