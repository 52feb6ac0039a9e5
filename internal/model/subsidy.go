package model

// Subsidy is one grant listing scraped from the subsidy portal. The JSON
// tags define the output file contract, so their order and spelling stay
// fixed.
type Subsidy struct {
	Status            string          `json:"status"`
	Title             string          `json:"title"`
	URL               string          `json:"url"`
	Prefecture        string          `json:"prefecture"`
	ApplicationPeriod string          `json:"application_period"`
	StartDate         string          `json:"start_date"`
	EndDate           string          `json:"end_date"`
	MaxAmount         string          `json:"max_amount"`
	Description       string          `json:"description"`
	Tags              []string        `json:"tags"`
	ID                string          `json:"id"`
	Details           *SubsidyDetails `json:"details,omitempty"`
}

// SubsidyDetails holds the extra fields scraped from a subsidy's own page.
type SubsidyDetails struct {
	Overview          string `json:"overview,omitempty"`
	Target            string `json:"target,omitempty"`
	SubsidyRate       string `json:"subsidy_rate,omitempty"`
	SubsidyLimit      string `json:"subsidy_limit,omitempty"`
	EligibleExpenses  string `json:"eligible_expenses,omitempty"`
	ApplicationMethod string `json:"application_method,omitempty"`
	Contact           string `json:"contact,omitempty"`
	FullDescription   string `json:"full_description,omitempty"`
	OfficialURL       string `json:"official_url,omitempty"`
}

// Listing is the parsed content of one listing page.
type Listing struct {
	Page       int
	Records    []Subsidy
	HasNext    bool
	TotalCount int
}
