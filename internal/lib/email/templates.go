package email

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/pkg/errors"
)

// Template names a file under templates/emails without its extension.
type Template string

const (
	TemplateAuditAlert Template = "audit_alert"
)

//go:embed templates/emails/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/emails/*.html"))

// Render executes a named template into an HTML string.
func Render(name Template, data any) (string, error) {
	tmpl := templates.Lookup(string(name) + ".html")
	if tmpl == nil {
		return "", errors.Errorf("unknown email template %s", name)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", name)
	}
	return body.String(), nil
}
