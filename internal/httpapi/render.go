package httpapi

import (
	"encoding/json"

	"hojyokin-go/internal/jgrants"
	"hojyokin-go/internal/localstore"
	"hojyokin-go/internal/providers/common"
)

const localSourceName = "補助金ポータル"

// subsidyView is one row of a search response, shaped for the page script.
// The source fields are only set for records served from local dumps.
type subsidyView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	TargetArea  string   `json:"target_area"`
	MaxLimit    string   `json:"subsidy_max_limit"`
	AcceptStart string   `json:"acceptance_start"`
	AcceptEnd   string   `json:"acceptance_end"`
	Employees   string   `json:"target_employees"`
	Source      string   `json:"source,omitempty"`
	SourceURL   string   `json:"source_url,omitempty"`
	Status      string   `json:"status,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type detailView struct {
	subsidyView
	CatchPhrase       string          `json:"catch_phrase"`
	Detail            string          `json:"detail"`
	UsePurpose        string          `json:"use_purpose"`
	Industry          string          `json:"industry"`
	SubsidyRate       string          `json:"subsidy_rate"`
	DetailURL         string          `json:"detail_url"`
	Workflow          json.RawMessage `json:"workflow"`
	ApplicationPeriod string          `json:"application_period,omitempty"`
	ApplicationMethod string          `json:"application_method,omitempty"`
	Contact           string          `json:"contact,omitempty"`
	OfficialURL       string          `json:"official_url,omitempty"`
}

func apiSubsidyView(s jgrants.Subsidy) subsidyView {
	return subsidyView{
		ID:          deref(s.ID),
		Name:        deref(s.Name),
		Title:       deref(s.Title),
		TargetArea:  deref(s.TargetArea),
		MaxLimit:    common.FormatAmount(s.MaxLimit),
		AcceptStart: deref(s.AcceptStart),
		AcceptEnd:   deref(s.AcceptEnd),
		Employees:   deref(s.TargetEmployees),
	}
}

func localSubsidyView(rec localstore.Record) subsidyView {
	v := subsidyView{
		ID:          rec.LocalID,
		Name:        common.TruncateRunes(rec.Title, 30),
		Title:       rec.Title,
		TargetArea:  rec.Prefecture,
		MaxLimit:    rec.MaxAmount,
		AcceptStart: rec.StartDate,
		AcceptEnd:   rec.EndDate,
		Employees:   "-",
		Source:      localSourceName,
		SourceURL:   rec.URL,
		Status:      rec.Status,
		Description: rec.Description,
		Tags:        rec.Tags,
	}
	if v.MaxLimit == "" {
		v.MaxLimit = "-"
		if rec.Details != nil && rec.Details.SubsidyLimit != "" {
			v.MaxLimit = rec.Details.SubsidyLimit
		}
	}
	return v
}

func apiDetailView(d jgrants.Detail) detailView {
	v := detailView{
		subsidyView: apiSubsidyView(d.Subsidy),
		CatchPhrase: deref(d.CatchPhrase),
		Detail:      deref(d.DetailText),
		UsePurpose:  deref(d.UsePurpose),
		Industry:    deref(d.Industry),
		SubsidyRate: deref(d.SubsidyRate),
		DetailURL:   deref(d.DetailURL),
		Workflow:    d.Workflow,
	}
	if v.Workflow == nil {
		v.Workflow = json.RawMessage("[]")
	}
	return v
}

func localDetailView(rec localstore.Record) detailView {
	v := detailView{
		subsidyView:       localSubsidyView(rec),
		Detail:            rec.Description,
		ApplicationPeriod: rec.ApplicationPeriod,
		Workflow:          json.RawMessage("[]"),
	}
	if d := rec.Details; d != nil {
		v.Detail = firstNonEmpty(d.FullDescription, d.Overview, rec.Description)
		v.SubsidyRate = d.SubsidyRate
		v.ApplicationMethod = d.ApplicationMethod
		v.Contact = d.Contact
		v.OfficialURL = d.OfficialURL
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
