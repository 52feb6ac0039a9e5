package model

import "strings"

const (
	StatusOpen   = "公募中"
	StatusClosed = "公募終了"
)

// IsOpen reports whether a scraped status denotes a call that still accepts
// applications.
func IsOpen(status string) bool {
	return strings.Contains(status, StatusOpen)
}
