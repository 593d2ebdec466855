// Package model defines the persisted MPLADS entities and the JSON shapes
// served by the API.
package model

import (
	"strings"
	"time"
)

type TransparencyStatus string

const (
	StatusCurrent  TransparencyStatus = "Current"
	StatusOutdated TransparencyStatus = "Outdated"
	StatusMissing  TransparencyStatus = "Missing"
)

type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

const (
	CategoryRoadConstruction        = "Road Construction"
	CategoryEducation               = "Education"
	CategoryHealthSanitation        = "Health & Sanitation"
	CategoryCommunityInfrastructure = "Community Infrastructure"
	CategoryDrinkingWater           = "Drinking Water"
	CategoryOther                   = "Other"
)

// Categories is the fixed list offered to the model, in display order.
var Categories = []string{
	CategoryRoadConstruction,
	CategoryEducation,
	CategoryHealthSanitation,
	CategoryCommunityInfrastructure,
	CategoryDrinkingWater,
	CategoryOther,
}

// NormalizeCategory maps free text onto one of Categories. Anything
// unrecognised becomes Other.
func NormalizeCategory(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, c := range Categories {
		if strings.EqualFold(raw, c) {
			return c
		}
	}
	return CategoryOther
}

type Constituency struct {
	ID                 int64              `json:"id"`
	MPName             string             `json:"mp_name"`
	ConstituencyName   string             `json:"constituency_name"`
	State              string             `json:"state"`
	TransparencyStatus TransparencyStatus `json:"transparency_status"`
	LastReportDate     *Date              `json:"last_report_date"`
	MPEmail            *string            `json:"mp_email"`
	MPImageURL         *string            `json:"mp_image_url"`
}

type Project struct {
	ID              int64   `json:"id"`
	ConstituencyID  int64   `json:"constituency_id"`
	Description     *string `json:"project_description"`
	AllocatedAmount float64 `json:"allocated_amount"`
	ExpenditureDate *Date   `json:"expenditure_date"`
	Location        *string `json:"location"`
	ContractorName  *string `json:"contractor_ngo_name"`
	Category        string  `json:"category"`
}

// NewProject is a project row about to be inserted.
type NewProject struct {
	Description     *string
	AllocatedAmount float64
	Location        *string
	ContractorName  *string
	Category        string
}

type Insight struct {
	ID             int64    `json:"id"`
	ConstituencyID int64    `json:"-"`
	Title          string   `json:"title"`
	Finding        string   `json:"finding"`
	Severity       Severity `json:"severity"`
}

type NewInsight struct {
	ConstituencyID int64
	Title          string
	Finding        string
	Severity       Severity
}

type NewEvidence struct {
	ProjectID int64
	Reasoning string
}

// EvidenceDetail is an evidence row joined with the project it cites.
type EvidenceDetail struct {
	EvidenceID      int64
	Reasoning       string
	ProjectID       int64
	Description     *string
	AllocatedAmount float64
	ContractorName  *string
}

// Date is a calendar date that serialises as YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(t time.Time) *Date {
	y, m, d := t.Date()
	return &Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// DateFromTime converts a nullable DATE column value.
func DateFromTime(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	return NewDate(*t)
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
