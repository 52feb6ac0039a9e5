// Package jgrants is a thin client for the public JGrants grant search API.
package jgrants

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"hojyokin-go/internal/model"
)

const (
	DefaultBaseURL = "https://api.jgrants-portal.go.jp/exp/v1/public"
	DefaultTimeout = 15 * time.Second

	maxDetailIDLength = 18
)

// ErrInvalidID rejects a detail lookup before it reaches the API.
var ErrInvalidID = errors.New("subsidy id must be 1 to 18 characters")

// Client wraps the API with the two calls the UI needs. Every request runs
// once, failures surface to the caller untouched.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(baseURL)
	httpClient.SetTimeout(timeout)
	httpClient.SetHeader("Accept", "application/json")

	return &Client{http: httpClient}
}

// Search queries the grant list. Only the filters present in q make it into
// the query string, so an empty query returns the API's unfiltered set.
func (c *Client) Search(ctx context.Context, q model.SearchQuery) (SearchResponse, error) {
	req := c.http.R().SetContext(ctx)

	if q.Keyword != "" {
		req.SetQueryParam("keyword", q.Keyword)
	}
	if q.Sort != "" {
		req.SetQueryParam("sort", q.Sort)
	}
	if q.Order != "" {
		req.SetQueryParam("order", q.Order)
	}
	if q.AcceptingOnly {
		req.SetQueryParam("acceptance", "1")
	}
	if q.TargetArea != "" {
		req.SetQueryParam("target_area_search", q.TargetArea)
	}
	if q.MaxLimit > 0 {
		req.SetQueryParam("subsidy_max_limit", strconv.FormatInt(q.MaxLimit, 10))
	}
	if q.Employees != "" {
		req.SetQueryParam("target_number_of_employees", q.Employees)
	}
	if q.Purpose != "" {
		req.SetQueryParam("use_purpose", q.Purpose)
	}

	var payload SearchResponse
	resp, err := req.SetResult(&payload).Get("/subsidies")
	if err != nil {
		return SearchResponse{}, fmt.Errorf("jgrants search: %w", err)
	}
	if resp.IsError() {
		return SearchResponse{}, fmt.Errorf("jgrants search: unexpected status: %d", resp.StatusCode())
	}
	return payload, nil
}

// Detail fetches one grant by its JGrants id. A response without a body
// yields a zero Detail, the renderer shows those fields as absent.
func (c *Client) Detail(ctx context.Context, id string) (Detail, error) {
	if id == "" || len(id) > maxDetailIDLength {
		return Detail{}, ErrInvalidID
	}

	var payload DetailResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&payload).
		SetPathParam("id", id).
		Get("/subsidies/id/{id}")
	if err != nil {
		return Detail{}, fmt.Errorf("jgrants detail: %w", err)
	}
	if resp.IsError() {
		return Detail{}, fmt.Errorf("jgrants detail: unexpected status: %d", resp.StatusCode())
	}
	if len(payload.Result) == 0 {
		return Detail{}, nil
	}
	return payload.Result[0], nil
}
