package scraping

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hojyokin-go/internal/model"
)

// Config bounds one scrape run.
type Config struct {
	MaxPages     int // 0 means follow pagination to the end
	FetchDetails bool
}

// Result is everything a run produced. Records collected before a failure
// stay in Subsidies so callers can keep partial output, with Err saying why
// the run stopped early.
type Result struct {
	Run       model.ScrapeRun
	Subsidies []model.Subsidy
	Pages     int
	Err       error
}

type Service struct {
	source ListingSource
	log    *slog.Logger
}

func NewService(source ListingSource, log *slog.Logger) *Service {
	return &Service{source: source, log: log}
}

// Run walks listing pages from page one until the portal stops advertising
// a next page, the page limit is hit, or a fetch fails. Records are kept in
// page order and deduplicated by URL across the whole run.
func (s *Service) Run(ctx context.Context, cfg Config) Result {
	res := Result{
		Run: model.ScrapeRun{
			Source:       s.source.Source(),
			PrefectureID: s.source.PrefID(),
			ScrapedAt:    time.Now().UTC(),
		},
		Subsidies: []model.Subsidy{},
	}

	seen := map[string]bool{}
	duplicates := 0

	for page := 1; ; page++ {
		s.log.Info("fetching listing page", "page", page)
		listing, err := s.source.FetchListing(ctx, page)
		if err != nil {
			s.log.Error("listing fetch failed, keeping pages scraped so far", "page", page, "err", err)
			res.Err = fmt.Errorf("fetch page %d: %w", page, err)
			break
		}
		res.Pages++

		added := 0
		for _, rec := range listing.Records {
			if rec.URL == "" {
				continue
			}
			if seen[rec.URL] {
				duplicates++
				continue
			}
			seen[rec.URL] = true
			res.Subsidies = append(res.Subsidies, rec)
			added++
		}

		if page == 1 && listing.TotalCount > 0 {
			s.log.Info("portal reports matching subsidies", "count", listing.TotalCount)
		}
		s.log.Info("listing page scraped", "page", page, "added", added, "total", len(res.Subsidies))

		if !listing.HasNext {
			break
		}
		if cfg.MaxPages > 0 && page >= cfg.MaxPages {
			s.log.Info("page limit reached", "max_pages", cfg.MaxPages)
			break
		}
	}

	if cfg.FetchDetails && res.Err == nil {
		s.fetchDetails(ctx, res.Subsidies)
	}

	res.Run.TotalCount = len(res.Subsidies)
	s.log.Info("scrape finished",
		"pages", res.Pages,
		"records", len(res.Subsidies),
		"duplicates", duplicates,
		"duration", time.Since(res.Run.ScrapedAt),
	)
	return res
}

func (s *Service) fetchDetails(ctx context.Context, subsidies []model.Subsidy) {
	for i := range subsidies {
		details, err := s.source.FetchDetails(ctx, subsidies[i].URL)
		if err != nil {
			if ctx.Err() != nil {
				s.log.Warn("detail fetching cancelled", "err", ctx.Err())
				return
			}
			s.log.Warn("detail fetch failed", "url", subsidies[i].URL, "err", err)
			continue
		}
		if details == (model.SubsidyDetails{}) {
			continue
		}
		subsidies[i].Details = &details
	}
}
