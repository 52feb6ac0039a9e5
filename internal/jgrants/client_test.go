package jgrants

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hojyokin-go/internal/model"
)

const searchBody = `{
  "metadata": {"type": "subsidies", "resultset": {"count": 2}},
  "result": [
    {
      "id": "a0W5h00000LHl1OEAT",
      "name": "jizokuka_hojokin",
      "title": "小規模事業者持続化補助金",
      "target_area_search": "全国",
      "subsidy_max_limit": 2000000,
      "acceptance_start_datetime": "2026-04-01T00:00:00.000Z",
      "acceptance_end_datetime": "2027-02-27T23:59:59.000Z",
      "target_number_of_employees": "20名以下"
    },
    {
      "id": "a0W5h00000LHl2PEAT",
      "name": "it_dounyuu",
      "title": "IT導入補助金"
    }
  ]
}`

const detailBody = `{
  "metadata": {"type": "subsidies"},
  "result": [
    {
      "id": "a0W5h00000LHl1OEAT",
      "name": "jizokuka_hojokin",
      "title": "小規模事業者持続化補助金",
      "subsidy_catch_phrase": "販路開拓を支援",
      "detail": "小規模事業者の販路開拓の取組を支援します。",
      "use_purpose": "販路拡大・海外展開をしたい",
      "industry": "全業種",
      "subsidy_rate": "2/3",
      "subsidy_max_limit": 2000000,
      "front_subsidy_detail_page_url": "https://www.jgrants-portal.go.jp/subsidy/a0W5h00000LHl1OEAT",
      "workflow": [{"step": 1, "name": "申請"}]
    }
  ]
}`

func newAPIServer(t *testing.T, status int, body string) (*httptest.Server, *[]*http.Request) {
	t.Helper()
	var requests []*http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Clone(context.Background()))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestSearchSendsOnlyPresentFilters(t *testing.T) {
	srv, requests := newAPIServer(t, http.StatusOK, searchBody)
	c := NewClient(srv.URL, time.Second)

	_, err := c.Search(context.Background(), model.SearchQuery{
		Keyword:       "ものづくり",
		Sort:          "created_date",
		Order:         "DESC",
		AcceptingOnly: true,
		TargetArea:    "福井県",
		Employees:     "20名以下",
	})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	got := (*requests)[0]
	require.Equal(t, "/subsidies", got.URL.Path)

	params := got.URL.Query()
	require.Equal(t, url.Values{
		"keyword":                    {"ものづくり"},
		"sort":                       {"created_date"},
		"order":                      {"DESC"},
		"acceptance":                 {"1"},
		"target_area_search":         {"福井県"},
		"target_number_of_employees": {"20名以下"},
	}, params)
}

func TestSearchEmptyQuerySendsNoFilters(t *testing.T) {
	srv, requests := newAPIServer(t, http.StatusOK, searchBody)
	c := NewClient(srv.URL, time.Second)

	_, err := c.Search(context.Background(), model.SearchQuery{})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	require.Empty(t, (*requests)[0].URL.RawQuery)
}

func TestSearchParsesOptionalFields(t *testing.T) {
	srv, _ := newAPIServer(t, http.StatusOK, searchBody)
	c := NewClient(srv.URL, time.Second)

	resp, err := c.Search(context.Background(), model.SearchQuery{Keyword: "補助金"})
	require.NoError(t, err)

	require.Equal(t, 2, resp.Metadata.Resultset.Count)
	require.Len(t, resp.Result, 2)

	first := resp.Result[0]
	require.NotNil(t, first.MaxLimit)
	require.Equal(t, int64(2_000_000), *first.MaxLimit)
	require.NotNil(t, first.TargetArea)
	require.Equal(t, "全国", *first.TargetArea)

	second := resp.Result[1]
	require.Nil(t, second.MaxLimit)
	require.Nil(t, second.TargetArea)
	require.Nil(t, second.AcceptStart)
}

func TestSearchUpstreamError(t *testing.T) {
	srv, _ := newAPIServer(t, http.StatusBadGateway, `{"message":"upstream down"}`)
	c := NewClient(srv.URL, time.Second)

	_, err := c.Search(context.Background(), model.SearchQuery{Keyword: "補助金"})
	require.ErrorContains(t, err, "unexpected status: 502")
}

func TestDetailValidatesID(t *testing.T) {
	srv, requests := newAPIServer(t, http.StatusOK, detailBody)
	c := NewClient(srv.URL, time.Second)

	_, err := c.Detail(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidID)

	_, err = c.Detail(context.Background(), "a0W5h00000LHl1OEAT0") // 19 chars
	require.ErrorIs(t, err, ErrInvalidID)

	require.Empty(t, *requests)
}

func TestDetailFetchesByID(t *testing.T) {
	srv, requests := newAPIServer(t, http.StatusOK, detailBody)
	c := NewClient(srv.URL, time.Second)

	d, err := c.Detail(context.Background(), "a0W5h00000LHl1OEAT")
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	require.Equal(t, "/subsidies/id/a0W5h00000LHl1OEAT", (*requests)[0].URL.Path)

	require.NotNil(t, d.Title)
	require.Equal(t, "小規模事業者持続化補助金", *d.Title)
	require.NotNil(t, d.SubsidyRate)
	require.Equal(t, "2/3", *d.SubsidyRate)
	require.JSONEq(t, `[{"step":1,"name":"申請"}]`, string(d.Workflow))
}

func TestDetailEmptyResult(t *testing.T) {
	srv, _ := newAPIServer(t, http.StatusOK, `{"metadata":{"type":"subsidies"},"result":[]}`)
	c := NewClient(srv.URL, time.Second)

	d, err := c.Detail(context.Background(), "a0W5h00000LHl1OEAT")
	require.NoError(t, err)
	require.Nil(t, d.Title)
}
