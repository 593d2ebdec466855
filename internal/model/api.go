package model

// ConstituencyScorecard is one row of GET /api/v1/constituencies.
type ConstituencyScorecard struct {
	ID                 int64              `json:"id"`
	MPName             string             `json:"mp_name"`
	ConstituencyName   string             `json:"constituency_name"`
	State              string             `json:"state"`
	TransparencyStatus TransparencyStatus `json:"transparency_status"`
	LastReportDate     *Date              `json:"last_report_date"`
	MPEmail            *string            `json:"mp_email"`
	MPImageURL         *string            `json:"mp_image_url"`
}

func (c Constituency) Scorecard() ConstituencyScorecard {
	return ConstituencyScorecard(c)
}

type SpendingByCategory struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type ContractorSpend struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// CategoryTotal is a raw per-category sum before percentages are applied.
type CategoryTotal struct {
	Category string
	Amount   float64
}

// ProjectSummary holds the aggregates the dashboard is built from.
type ProjectSummary struct {
	TotalExpenditure float64
	TotalProjects    int64
	Categories       []CategoryTotal
	TopContractors   []ContractorSpend
}

type DashboardResponse struct {
	ID                 int64                `json:"id"`
	MPName             string               `json:"mp_name"`
	ConstituencyName   string               `json:"constituency_name"`
	State              string               `json:"state"`
	LastReportDate     *Date                `json:"last_report_date"`
	TotalExpenditure   float64              `json:"total_expenditure"`
	TotalProjects      int64                `json:"total_projects"`
	SpendingByCategory []SpendingByCategory `json:"spending_by_category"`
	TopContractors     []ContractorSpend    `json:"top_10_contractors"`
	AIInsights         []Insight            `json:"ai_insights"`
}

type InsightDetailResponse struct {
	DetailedBrief string `json:"detailed_brief"`
}

type LegalDocsResponse struct {
	RTIApplication string `json:"rti_application"`
	FirstAppeal    string `json:"first_appeal"`
	PILBrief       string `json:"pil_brief"`
}

type BudgetItem struct {
	Category       string  `json:"category"`
	Amount         float64 `json:"amount"`
	Justification  string  `json:"justification"`
	ExampleProject string  `json:"example_project"`
}

type BudgetResponse struct {
	OptimalAllocation []BudgetItem `json:"optimal_allocation"`
}

// ProcessResult reports one inbox run.
type ProcessResult struct {
	Status              string   `json:"status"`
	Message             string   `json:"message,omitempty"`
	NewReportsProcessed int      `json:"new_reports_processed"`
	FailedReports       int      `json:"failed_reports"`
	Unrecognized        []string `json:"unrecognized,omitempty"`
}

type EnqueueResponse struct {
	Status string `json:"status"`
	TaskID string `json:"task_id"`
	Queue  string `json:"queue"`
}

type AuditResponse struct {
	ConstituencyID int64     `json:"constituency_id"`
	Insights       []Insight `json:"ai_insights"`
}
