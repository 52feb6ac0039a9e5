package model

// SearchQuery carries the filters of one grant search. Zero values mean the
// filter is absent and must not reach the upstream query string.
type SearchQuery struct {
	Keyword       string
	TargetArea    string
	MaxLimit      int64
	Employees     string
	Purpose       string
	AcceptingOnly bool
	Sort          string
	Order         string
}
