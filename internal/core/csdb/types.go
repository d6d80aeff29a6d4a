package csdb

// DocumentSummary is one catalog row.
type DocumentSummary struct {
	Path             string `json:"path"`
	DMCode           string `json:"dmCode"`
	DMTitle          string `json:"dmTitle"`
	HasApplicability bool   `json:"has_applicability"`
}

// DocumentRef identifies a Data Module in resolve results.
type DocumentRef struct {
	Path    string `json:"path"`
	DMCode  string `json:"dmCode"`
	DMTitle string `json:"dmTitle"`
}

// RawMarkup is the raw XML of a Data Module.
type RawMarkup struct {
	Path       string `json:"path"`
	XML        string `json:"xml"`
	ApplicText string `json:"applic_text"`
}

// EvalResult is the applicability verdict for one Data Module.
type EvalResult struct {
	Path          string `json:"path"`
	Applies       bool   `json:"applies"`
	ReasonKind    string `json:"reason_kind"`
	ReasonText    string `json:"reason_text"`
	ReasonGroupID string `json:"reason_group_id"`
	ACTDMCode     string `json:"act_dmCode"`
	ACTPath       string `json:"act_path"`
	HasStructures bool   `json:"has_applic_structures"`
}

// ResolveResult is the applicable set for a label selection. The backend
// truncates both lists; the counts are exact.
type ResolveResult struct {
	Selected        []string      `json:"selected"`
	ApplicableCount int           `json:"applicable_count"`
	Applicable      []DocumentRef `json:"applicable"`
	ExcludedCount   int           `json:"excluded_count"`
	Excluded        []DocumentRef `json:"excluded"`
}

// Resource is a fetched media resource.
type Resource struct {
	URN         string
	ContentType string
	Data        []byte
}

// Health is the backend health report.
type Health struct {
	Status string `json:"status"`
}

type catalogResponse struct {
	Items []DocumentSummary `json:"items"`
}

type resolveRequest struct {
	Selected []string `json:"selected"`
}
