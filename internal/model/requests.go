package model

import "github.com/deppfellow/netanomics/internal/validation"

// DefaultTotalBudget is the five-year MPLADS entitlement in INR.
const DefaultTotalBudget = 50_000_000

// EmptyRequest is bound by routes that take no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error { return nil }

type DashboardRequest struct {
	ConstituencyName string `param:"constituency_name" validate:"required"`
}

func (r *DashboardRequest) Validate() error {
	return validation.Struct(r)
}

type InsightDetailRequest struct {
	InsightID       int64  `json:"insight_id" validate:"required,gt=0"`
	OriginalTitle   string `json:"original_title" validate:"required"`
	OriginalFinding string `json:"original_finding" validate:"required"`
}

func (r *InsightDetailRequest) Validate() error {
	return validation.Struct(r)
}

type LegalRequest struct {
	ConstituencyName string `json:"constituency_name" validate:"required,max=200"`
	MPName           string `json:"mp_name" validate:"required,max=200"`
	Finding          string `json:"finding" validate:"required,max=4000"`
}

func (r *LegalRequest) Validate() error {
	return validation.Struct(r)
}

// BudgetRequest leaves TotalBudget at zero to mean DefaultTotalBudget.
type BudgetRequest struct {
	ConstituencyName    string  `json:"constituency_name" validate:"required,max=200"`
	ConstituencyProfile string  `json:"constituency_profile" validate:"required,max=4000"`
	TotalBudget         float64 `json:"total_budget" validate:"gte=0"`
}

func (r *BudgetRequest) Validate() error {
	return validation.Struct(r)
}

type AuditRequest struct {
	ConstituencyID int64 `param:"constituency_id" validate:"required,gt=0"`
}

func (r *AuditRequest) Validate() error {
	return validation.Struct(r)
}
