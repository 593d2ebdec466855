package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/netanomics/internal/errs"
)

type legalPayload struct {
	ConstituencyName string  `json:"constituency_name" validate:"required"`
	Finding          string  `json:"finding" validate:"required,max=20"`
	TotalBudget      float64 `json:"total_budget" validate:"gt=0"`
}

func (p *legalPayload) Validate() error {
	return Struct(p)
}

func newContext(body string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidateSuccess(t *testing.T) {
	var p legalPayload
	err := BindAndValidate(newContext(`{"constituency_name":"Hassan","finding":"Missing","total_budget":10}`), &p)
	if err != nil {
		t.Fatalf("BindAndValidate() error = %v", err)
	}
	if p.ConstituencyName != "Hassan" {
		t.Errorf("ConstituencyName = %q", p.ConstituencyName)
	}
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	var p legalPayload
	err := BindAndValidate(newContext(`{"finding":"this finding is far too long","total_budget":0}`), &p)

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %T, want *errs.HTTPError", err)
	}
	if httpErr.Status != http.StatusBadRequest {
		t.Fatalf("Status = %d", httpErr.Status)
	}

	got := map[string]string{}
	for _, fe := range httpErr.Errors {
		got[fe.Field] = fe.Error
	}
	want := map[string]string{
		"constituency_name": "is required",
		"finding":           "must not exceed 20 characters",
		"total_budget":      "must be greater than 0",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("field %s = %q, want %q", field, got[field], msg)
		}
	}
}

func TestBindAndValidateMalformedJSON(t *testing.T) {
	var p legalPayload
	err := BindAndValidate(newContext(`{"constituency_name":`), &p)

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != http.StatusBadRequest {
		t.Fatalf("error = %v, want 400", err)
	}
	if httpErr.Errors != nil {
		t.Errorf("Errors = %v, want none for a bind failure", httpErr.Errors)
	}
}

func TestCustomValidationErrors(t *testing.T) {
	msg, fields := extractValidationError(CustomValidationErrors{{Field: "insight_id", Message: "must be positive"}})
	if msg != "Validation failed" || len(fields) != 1 || fields[0].Field != "insight_id" {
		t.Fatalf("got %q %v", msg, fields)
	}
}
