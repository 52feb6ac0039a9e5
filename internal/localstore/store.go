// Package localstore serves subsidies out of the JSON dumps the scraper
// writes, so locally scraped data shows up next to live API results.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"hojyokin-go/internal/model"
)

var ErrNotFound = errors.New("subsidy not found")

// LocalIDPrefix marks ids that resolve against this store instead of the
// JGrants API.
const LocalIDPrefix = "local_"

const loadConcurrency = 4

// Record is one scraped subsidy plus where it came from.
type Record struct {
	model.Subsidy
	LocalID    string
	SourceFile string

	searchable string
}

// Store holds the records of every readable dump in a directory. Reload
// swaps the data set atomically, readers never see a half-loaded state.
type Store struct {
	dir string
	log *slog.Logger

	mu      sync.RWMutex
	records []Record
	byID    map[string]Record
}

func New(dir string, log *slog.Logger) *Store {
	return &Store{
		dir:  dir,
		log:  log,
		byID: map[string]Record{},
	}
}

// Reload re-reads every *.json dump under the store directory. Unreadable
// files are skipped with a warning, a missing directory simply yields an
// empty store.
func (s *Store) Reload(ctx context.Context) error {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return fmt.Errorf("list dumps: %w", err)
	}

	perFile := make([][]Record, len(paths))
	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(loadConcurrency)

	for i, path := range paths {
		group.Go(func() error {
			records, err := loadDump(path)
			if err != nil {
				s.log.Warn("skipping unreadable dump", "file", path, "err", err)
				return nil
			}
			perFile[i] = records
			return nil
		})
	}
	_ = group.Wait()

	var records []Record
	byID := map[string]Record{}
	for _, recs := range perFile {
		for _, rec := range recs {
			records = append(records, rec)
			if rec.LocalID != LocalIDPrefix {
				byID[rec.LocalID] = rec
			}
		}
	}

	s.mu.Lock()
	s.records = records
	s.byID = byID
	s.mu.Unlock()

	s.log.Info("local dumps loaded", "files", len(paths), "records", len(records))
	return nil
}

// Search filters the loaded records. keyword matches case-insensitively
// against the record's text, area against prefecture or tags, and openOnly
// keeps records still accepting applications.
func (s *Store) Search(keyword, area string, openOnly bool) []Record {
	kw := strings.ToLower(strings.TrimSpace(keyword))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Record{}
	for _, rec := range s.records {
		if kw != "" && !strings.Contains(rec.searchable, kw) {
			continue
		}
		if area != "" && !rec.matchesArea(area) {
			continue
		}
		if openOnly && !model.IsOpen(rec.Status) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Get resolves a local_ prefixed id.
func (s *Store) Get(localID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[localID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// Count reports how many records are currently loaded.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (r Record) matchesArea(area string) bool {
	if r.Prefecture != "" &&
		(strings.Contains(r.Prefecture, area) || strings.Contains(area, r.Prefecture)) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(tag, area) {
			return true
		}
	}
	return false
}

func loadDump(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	subsidies, err := decodeDump(data)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(subsidies))
	for _, sub := range subsidies {
		records = append(records, Record{
			Subsidy:    sub,
			LocalID:    LocalIDPrefix + sub.ID,
			SourceFile: filepath.Base(path),
			searchable: searchText(sub),
		})
	}
	return records, nil
}

// decodeDump accepts both the scraper's metadata envelope and a bare record
// array, the format older dumps used.
func decodeDump(data []byte) ([]model.Subsidy, error) {
	var doc struct {
		Subsidies []model.Subsidy `json:"subsidies"`
	}
	if err := json.Unmarshal(data, &doc); err == nil && doc.Subsidies != nil {
		return doc.Subsidies, nil
	}

	var list []model.Subsidy
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func searchText(sub model.Subsidy) string {
	parts := []string{
		sub.Title,
		sub.Description,
		sub.Prefecture,
		sub.Status,
		sub.MaxAmount,
	}
	parts = append(parts, sub.Tags...)
	if sub.Details != nil {
		parts = append(parts,
			sub.Details.Overview,
			sub.Details.Target,
			sub.Details.EligibleExpenses,
			sub.Details.FullDescription,
		)
	}
	return strings.ToLower(strings.Join(parts, "\n"))
}
