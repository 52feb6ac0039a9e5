// Package hojokin scrapes subsidy listings off hojyokin-portal.jp.
package hojokin

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"hojyokin-go/internal/model"
)

const (
	portalBaseURL = "https://hojyokin-portal.jp"
	listPath      = "/subsidies/list"

	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	languageHeader = "ja,en-US;q=0.7,en;q=0.3"

	DefaultPrefID = 18
	DefaultDelay  = time.Second
)

// Scraper pulls listing and detail pages for one prefecture, pacing every
// request through a shared limiter so the portal sees at most one request
// per delay interval.
type Scraper struct {
	client  *http.Client
	limiter *rate.Limiter
	portal  string
	prefID  int
}

type Option func(*Scraper)

// WithPortalURL points the scraper at another portal root. Tests use it to
// swap in a local server.
func WithPortalURL(portal string) Option {
	return func(s *Scraper) { s.portal = strings.TrimRight(portal, "/") }
}

func NewScraper(client *http.Client, prefID int, delay time.Duration, opts ...Option) *Scraper {
	every := rate.Inf
	if delay > 0 {
		every = rate.Every(delay)
	}
	s := &Scraper{
		client:  client,
		limiter: rate.NewLimiter(every, 1),
		portal:  portalBaseURL,
		prefID:  prefID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scraper) Source() string {
	return s.portal + listPath
}

func (s *Scraper) PrefID() int {
	return s.prefID
}

// FetchListing downloads one listing page and parses its records.
func (s *Scraper) FetchListing(ctx context.Context, page int) (model.Listing, error) {
	doc, err := s.fetchDocument(ctx, s.listURL(page))
	if err != nil {
		return model.Listing{}, err
	}
	return parseListing(doc, s.portal, page)
}

// FetchDetails downloads a subsidy's own page and parses the extra fields.
func (s *Scraper) FetchDetails(ctx context.Context, url string) (model.SubsidyDetails, error) {
	doc, err := s.fetchDocument(ctx, url)
	if err != nil {
		return model.SubsidyDetails{}, err
	}
	return parseDetails(doc), nil
}

func (s *Scraper) listURL(page int) string {
	url := fmt.Sprintf("%s%s?pref_id=%d", s.portal, listPath, s.prefID)
	if page > 1 {
		url = fmt.Sprintf("%s&page=%d", url, page)
	}
	return url
}

func (s *Scraper) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", languageHeader)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}
