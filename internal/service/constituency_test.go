package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/netanomics/internal/errs"
	"github.com/deppfellow/netanomics/internal/model"
)

func newConstituencyFixture() (*ConstituencyService, *fakeCache, *fakeProjects) {
	projects := &fakeProjects{summary: &model.ProjectSummary{
		TotalExpenditure: 300000,
		TotalProjects:    3,
		Categories: []model.CategoryTotal{
			{Category: model.CategoryRoadConstruction, Amount: 200000},
			{Category: model.CategoryEducation, Amount: 100000},
		},
		TopContractors: []model.ContractorSpend{{Name: "Kaveri Builders", Amount: 200000}},
	}}
	c := newFakeCache()
	svc := NewConstituencyService(
		&fakeConstituencies{rows: []model.Constituency{
			{ID: 1, ConstituencyName: "Hassan", MPName: "H. D. Devegowda", State: "Karnataka", TransparencyStatus: model.StatusCurrent},
			{ID: 2, ConstituencyName: "Bidar", State: "Karnataka", TransparencyStatus: model.StatusMissing},
		}},
		projects,
		&fakeInsights{},
		c,
		nopLogger(),
	)
	return svc, c, projects
}

func TestListScorecards(t *testing.T) {
	svc, _, _ := newConstituencyFixture()

	cards, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(cards) != 2 || cards[1].TransparencyStatus != model.StatusMissing {
		t.Fatalf("cards = %+v", cards)
	}
}

func TestDashboard(t *testing.T) {
	svc, c, _ := newConstituencyFixture()

	resp, err := svc.Dashboard(context.Background(), "HASSAN")
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if resp.ID != 1 || resp.TotalProjects != 3 || resp.TotalExpenditure != 300000 {
		t.Fatalf("resp = %+v", resp)
	}
	if got := resp.SpendingByCategory[0].Percentage; got != 66.7 {
		t.Errorf("road percentage = %v, want 66.7", got)
	}
	if got := resp.SpendingByCategory[1].Percentage; got != 33.3 {
		t.Errorf("education percentage = %v, want 33.3", got)
	}
	if resp.AIInsights == nil {
		t.Error("ai_insights must encode as [] not null")
	}
	if _, ok := c.data["hassan"]; !ok {
		t.Error("dashboard not cached under the lowercase name")
	}
}

func TestDashboardTrimsNameBeforeLookup(t *testing.T) {
	svc, c, _ := newConstituencyFixture()

	resp, err := svc.Dashboard(context.Background(), "  Hassan ")
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if resp.ID != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	if _, ok := c.data["hassan"]; !ok {
		t.Error("dashboard not cached under the trimmed name")
	}
}

func TestDashboardZeroTotal(t *testing.T) {
	svc, _, projects := newConstituencyFixture()
	projects.summary = &model.ProjectSummary{Categories: []model.CategoryTotal{{Category: model.CategoryOther}}}

	resp, err := svc.Dashboard(context.Background(), "Hassan")
	if err != nil {
		t.Fatal(err)
	}
	if resp.SpendingByCategory[0].Percentage != 0 {
		t.Errorf("percentage = %v, want 0", resp.SpendingByCategory[0].Percentage)
	}
	if resp.TopContractors == nil {
		t.Error("top_10_contractors must encode as []")
	}
}

func TestDashboardServedFromCache(t *testing.T) {
	svc, c, _ := newConstituencyFixture()
	c.data["bidar"] = []byte(`{"id": 2, "constituency_name": "Bidar", "total_projects": 9}`)

	resp, err := svc.Dashboard(context.Background(), "Bidar")
	if err != nil {
		t.Fatal(err)
	}
	if resp.TotalProjects != 9 {
		t.Fatalf("resp = %+v, want the cached copy", resp)
	}
}

func TestDashboardCacheErrorIsIgnored(t *testing.T) {
	svc, c, _ := newConstituencyFixture()
	c.getErr = errors.New("redis: connection refused")

	if _, err := svc.Dashboard(context.Background(), "Hassan"); err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
}

func TestDashboardNotFound(t *testing.T) {
	svc, _, _ := newConstituencyFixture()

	_, err := svc.Dashboard(context.Background(), "Atlantis")
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != http.StatusNotFound {
		t.Fatalf("error = %v, want 404", err)
	}
	if httpErr.Message != "Constituency data not found" {
		t.Errorf("message = %q", httpErr.Message)
	}
}
