package model

import "time"

// ScrapeRun describes one scraper invocation and doubles as the metadata
// envelope of the output file.
type ScrapeRun struct {
	Source       string    `json:"source"`
	PrefectureID int       `json:"prefecture_id"`
	ScrapedAt    time.Time `json:"scraped_at"`
	TotalCount   int       `json:"total_count"`
}
