package parser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"FomcToneScanner/internal/config"
	"FomcToneScanner/internal/domain"
	"FomcToneScanner/internal/ports"
	"FomcToneScanner/internal/scanner"
)

// SourceSet implements ports.SpeechSource over registered scanner
// strategies, one configured site per source id.
type SourceSet struct {
	registry *scanner.Registry
	sites    map[string]config.SiteConfig
	order    []string
	logger   *slog.Logger
}

var _ ports.SpeechSource = (*SourceSet)(nil)

// NewSourceSet wires the scanner registry with config-defined sites.
func NewSourceSet(reg *scanner.Registry, sites []config.SiteConfig, logger *slog.Logger) *SourceSet {
	if logger == nil {
		logger = slog.Default()
	}
	set := &SourceSet{
		registry: reg,
		sites:    make(map[string]config.SiteConfig, len(sites)),
		logger:   logger,
	}
	for _, site := range sites {
		if _, dup := set.sites[site.SourceID]; dup {
			continue
		}
		set.sites[site.SourceID] = site
		set.order = append(set.order, site.SourceID)
	}
	return set
}

// Sources lists configured source ids in configuration order.
func (s *SourceSet) Sources() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Fetch runs the configured scanner strategy for one source. Errors are
// recoverable and isolated per source by the caller.
func (s *SourceSet) Fetch(ctx context.Context, sourceID string, since time.Time) ([]domain.RawSpeech, error) {
	site, ok := s.sites[sourceID]
	if !ok {
		return nil, fmt.Errorf("source %s is not configured", sourceID)
	}

	strategy, err := s.registry.Resolve(site.Scanner)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", sourceID, err)
	}

	s.logger.Debug("fetching source", "source", sourceID, "scanner", site.Scanner, "since", since.Format("2006-01-02"))

	req := scanner.Request{
		Since: since,
		Site: scanner.Site{
			SourceID:     site.SourceID,
			BaseURL:      site.BaseURL,
			ListURL:      site.ListURL,
			ItemSelector: site.ItemSelector,
			DateSelector: site.DateSelector,
		},
	}

	raws, err := strategy.Scan(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("scan source %s: %w", sourceID, err)
	}

	s.logger.Debug("source produced speeches", "source", sourceID, "count", len(raws))
	return raws, nil
}
