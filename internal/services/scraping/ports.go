package scraping

import (
	"context"

	"hojyokin-go/internal/model"
)

// ListingSource pages through one subsidy portal and resolves individual
// subsidy pages.
type ListingSource interface {
	Source() string
	PrefID() int
	FetchListing(ctx context.Context, page int) (model.Listing, error)
	FetchDetails(ctx context.Context, url string) (model.SubsidyDetails, error)
}
