package email

import "fmt"

type AlertFinding struct {
	Title   string
	Finding string
}

type AuditAlertData struct {
	ConstituencyName string
	MPName           string
	Findings         []AlertFinding
}

// SendAuditAlert mails the High severity findings of one constituency.
func (c *Client) SendAuditAlert(to []string, data AuditAlertData) error {
	subject := fmt.Sprintf("Neta-Nomics: %d high severity finding(s) for %s", len(data.Findings), data.ConstituencyName)
	return c.SendEmail(to, subject, TemplateAuditAlert, data)
}
