package hojokin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newPortalServer(t *testing.T) (*httptest.Server, *[]*http.Request) {
	t.Helper()
	var requests []*http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Clone(context.Background()))
		switch {
		case r.URL.Path == "/subsidies/list" && r.URL.Query().Get("page") == "":
			_, _ = w.Write([]byte(listingPageOne))
		case r.URL.Path == "/subsidies/list":
			_, _ = w.Write([]byte(listingPageLast))
		case r.URL.Path == "/subsidies/12345":
			_, _ = w.Write([]byte(detailPage))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestFetchListing(t *testing.T) {
	srv, requests := newPortalServer(t)
	s := NewScraper(srv.Client(), 18, 0, WithPortalURL(srv.URL))

	listing, err := s.FetchListing(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, listing.Records, 2)
	require.True(t, listing.HasNext)

	// hrefs resolve against the configured portal, not the production host
	require.True(t, strings.HasPrefix(listing.Records[0].URL, srv.URL), listing.Records[0].URL)

	require.Len(t, *requests, 1)
	got := (*requests)[0]
	require.Equal(t, "18", got.URL.Query().Get("pref_id"))
	require.False(t, got.URL.Query().Has("page"))
	require.Equal(t, userAgent, got.Header.Get("User-Agent"))
	require.Equal(t, acceptHeader, got.Header.Get("Accept"))
	require.Equal(t, languageHeader, got.Header.Get("Accept-Language"))
}

func TestFetchListingLaterPageCarriesPageParam(t *testing.T) {
	srv, requests := newPortalServer(t)
	s := NewScraper(srv.Client(), 18, 0, WithPortalURL(srv.URL))

	listing, err := s.FetchListing(context.Background(), 3)
	require.NoError(t, err)
	require.False(t, listing.HasNext)

	require.Len(t, *requests, 1)
	require.Equal(t, "3", (*requests)[0].URL.Query().Get("page"))
}

func TestFetchListingUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	s := NewScraper(srv.Client(), 18, 0, WithPortalURL(srv.URL))
	_, err := s.FetchListing(context.Background(), 1)
	require.ErrorContains(t, err, "unexpected status: 500")
}

func TestFetchDetails(t *testing.T) {
	srv, _ := newPortalServer(t)
	s := NewScraper(srv.Client(), 18, 0, WithPortalURL(srv.URL))

	details, err := s.FetchDetails(context.Background(), srv.URL+"/subsidies/12345")
	require.NoError(t, err)
	require.Equal(t, "2/3以内", details.SubsidyRate)
	require.NotEmpty(t, details.Overview)
}

func TestScraperPacesRequests(t *testing.T) {
	srv, _ := newPortalServer(t)
	s := NewScraper(srv.Client(), 18, 100*time.Millisecond, WithPortalURL(srv.URL))

	_, err := s.FetchListing(context.Background(), 1)
	require.NoError(t, err)

	start := time.Now()
	_, err = s.FetchListing(context.Background(), 3)
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestScraperPacingHonorsContext(t *testing.T) {
	srv, _ := newPortalServer(t)
	s := NewScraper(srv.Client(), 18, time.Hour, WithPortalURL(srv.URL))

	_, err := s.FetchListing(context.Background(), 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = s.FetchListing(ctx, 3)
	require.Error(t, err)
}
