package localstore

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hojyokin-go/internal/export"
	"hojyokin-go/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedDumps(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	run := model.ScrapeRun{
		Source:       "https://hojyokin-portal.jp/subsidies/list",
		PrefectureID: 18,
		ScrapedAt:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	fukui := []model.Subsidy{
		{
			Status:      "公募中",
			Title:       "福井県：「小規模事業者持続化補助金」",
			URL:         "https://hojyokin-portal.jp/subsidies/12345",
			Prefecture:  "福井県",
			MaxAmount:   "200万円",
			Description: "販路開拓に取り組む小規模事業者を支援します。",
			Tags:        []string{"#ものづくり", "#小規模事業者"},
			ID:          "12345",
			Details:     &model.SubsidyDetails{Overview: "持続化の取組を支援する制度です。"},
		},
		{
			Status:     "公募終了",
			Title:      "福井県：「伝統工芸後継者育成支援補助金」",
			URL:        "https://hojyokin-portal.jp/subsidies/67890",
			Prefecture: "福井県",
			Tags:       []string{},
			ID:         "67890",
		},
	}
	require.NoError(t, export.WriteJSON(filepath.Join(dir, "subsidies_fukui.json"), run, fukui))

	// older dumps were bare arrays without the metadata envelope
	hokkaido := []model.Subsidy{
		{
			Status:     "公募中",
			Title:      "北海道：「観光DX・IT導入支援補助金」",
			URL:        "https://hojyokin-portal.jp/subsidies/99999",
			Prefecture: "北海道",
			Tags:       []string{"#全国対応"},
			ID:         "99999",
		},
	}
	raw, err := json.Marshal(hokkaido)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "subsidies_hokkaido.json"), raw, 0o644))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("not json at all"), 0o644))
	return dir
}

func loadedStore(t *testing.T) *Store {
	t.Helper()
	s := New(seedDumps(t), testLogger())
	require.NoError(t, s.Reload(context.Background()))
	return s
}

func TestReloadLoadsAllDumps(t *testing.T) {
	s := loadedStore(t)
	require.Equal(t, 3, s.Count())

	rec, err := s.Get("local_12345")
	require.NoError(t, err)
	require.Equal(t, "福井県：「小規模事業者持続化補助金」", rec.Title)
	require.Equal(t, "subsidies_fukui.json", rec.SourceFile)
}

func TestReloadMissingDirectory(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent"), testLogger())
	require.NoError(t, s.Reload(context.Background()))
	require.Equal(t, 0, s.Count())
}

func TestSearchKeyword(t *testing.T) {
	s := loadedStore(t)

	hits := s.Search("持続化", "", false)
	require.Len(t, hits, 1)
	require.Equal(t, "12345", hits[0].ID)

	// matches detail text too
	hits = s.Search("取組を支援する制度", "", false)
	require.Len(t, hits, 1)
	require.Equal(t, "12345", hits[0].ID)

	require.Empty(t, s.Search("存在しない語", "", false))
}

func TestSearchKeywordIsCaseInsensitive(t *testing.T) {
	s := loadedStore(t)
	hits := s.Search("it導入", "", false)
	require.Len(t, hits, 1)
	require.Equal(t, "99999", hits[0].ID)
}

func TestSearchArea(t *testing.T) {
	s := loadedStore(t)

	hits := s.Search("", "福井", false)
	require.Len(t, hits, 2)
	require.Equal(t, "12345", hits[0].ID)
	require.Equal(t, "67890", hits[1].ID)

	// matched through a tag when the prefecture differs
	hits = s.Search("", "全国", false)
	require.Len(t, hits, 1)
	require.Equal(t, "99999", hits[0].ID)
}

func TestSearchOpenOnly(t *testing.T) {
	s := loadedStore(t)
	hits := s.Search("", "", true)
	require.Len(t, hits, 2)
	for _, rec := range hits {
		require.Equal(t, "公募中", rec.Status)
	}
}

func TestSearchCombinedFilters(t *testing.T) {
	s := loadedStore(t)
	hits := s.Search("補助金", "北海道", true)
	require.Len(t, hits, 1)
	require.Equal(t, "99999", hits[0].ID)
}

func TestGetUnknownID(t *testing.T) {
	s := loadedStore(t)

	_, err := s.Get("local_00000")
	require.ErrorIs(t, err, ErrNotFound)

	// ids without the local_ prefix never resolve here
	_, err = s.Get("12345")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReloadReplacesDataSet(t *testing.T) {
	dir := seedDumps(t)
	s := New(dir, testLogger())
	require.NoError(t, s.Reload(context.Background()))
	require.Equal(t, 3, s.Count())

	// reloading the same directory must not duplicate records
	require.NoError(t, s.Reload(context.Background()))
	require.Equal(t, 3, s.Count())

	require.NoError(t, os.Remove(filepath.Join(dir, "subsidies_hokkaido.json")))
	require.NoError(t, s.Reload(context.Background()))
	require.Equal(t, 2, s.Count())

	_, err := s.Get("local_99999")
	require.ErrorIs(t, err, ErrNotFound)
}
