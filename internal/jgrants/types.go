package jgrants

import "encoding/json"

// Subsidy is one entry of a JGrants search result. Pointer fields keep a
// key that was absent from the payload apart from one that was present but
// empty.
type Subsidy struct {
	ID              *string `json:"id"`
	Name            *string `json:"name"`
	Title           *string `json:"title"`
	TargetArea      *string `json:"target_area_search"`
	MaxLimit        *int64  `json:"subsidy_max_limit"`
	AcceptStart     *string `json:"acceptance_start_datetime"`
	AcceptEnd       *string `json:"acceptance_end_datetime"`
	TargetEmployees *string `json:"target_number_of_employees"`
}

// Detail is the full record served for a single subsidy id. Workflow stays
// opaque, the UI passes it through untouched.
type Detail struct {
	Subsidy
	CatchPhrase *string         `json:"subsidy_catch_phrase"`
	DetailText  *string         `json:"detail"`
	UsePurpose  *string         `json:"use_purpose"`
	Industry    *string         `json:"industry"`
	SubsidyRate *string         `json:"subsidy_rate"`
	DetailURL   *string         `json:"front_subsidy_detail_page_url"`
	Workflow    json.RawMessage `json:"workflow"`
}

type SearchResponse struct {
	Metadata struct {
		Type      string `json:"type"`
		Resultset struct {
			Count int `json:"count"`
		} `json:"resultset"`
	} `json:"metadata"`
	Result []Subsidy `json:"result"`
}

type DetailResponse struct {
	Metadata struct {
		Type string `json:"type"`
	} `json:"metadata"`
	Result []Detail `json:"result"`
}
