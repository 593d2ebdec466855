package email

// PreviewData holds sample data for rendering each template locally.
var PreviewData = map[Template]any{
	TemplateAuditAlert: AuditAlertData{
		ConstituencyName: "Hassan",
		MPName:           "Shreyas M. Patel",
		Findings: []AlertFinding{
			{
				Title:   "High Spending Concentration: Sri Ganesh Constructions",
				Finding: "Contractor 'Sri Ganesh Constructions' received ₹12,40,000, which is 52.3% of the total expenditure.",
			},
		},
	},
}
