package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/netanomics/internal/config"
	"github.com/deppfellow/netanomics/internal/lib/cache"
	"github.com/deppfellow/netanomics/internal/lib/job"
	"github.com/deppfellow/netanomics/internal/model"
	"github.com/deppfellow/netanomics/internal/sqlerr"
)

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func strPtr(s string) *string { return &s }

type statusUpdate struct {
	id     int64
	status model.TransparencyStatus
	date   *time.Time
}

type fakeConstituencies struct {
	rows      []model.Constituency
	listErr   error
	statusErr error
	updates   []statusUpdate
	upserted  []model.Constituency
}

func (f *fakeConstituencies) List(context.Context) ([]model.Constituency, error) {
	return f.rows, f.listErr
}

func (f *fakeConstituencies) GetByID(_ context.Context, id int64) (*model.Constituency, error) {
	for _, c := range f.rows {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, sqlerr.NoRows("constituencies")
}

func (f *fakeConstituencies) GetByName(_ context.Context, name string) (*model.Constituency, error) {
	for _, c := range f.rows {
		if strings.EqualFold(c.ConstituencyName, name) {
			return &c, nil
		}
	}
	return nil, sqlerr.NoRows("constituencies")
}

func (f *fakeConstituencies) SetStatus(_ context.Context, id int64, status model.TransparencyStatus, date *time.Time) error {
	f.updates = append(f.updates, statusUpdate{id, status, date})
	return f.statusErr
}

func (f *fakeConstituencies) UpsertMany(_ context.Context, rows []model.Constituency) (int, error) {
	f.upserted = rows
	inserted := 0
	for _, r := range rows {
		if _, err := f.GetByName(context.Background(), r.ConstituencyName); err != nil {
			inserted++
		}
	}
	return inserted, nil
}

type fakeProjects struct {
	byConstituency map[int64][]model.Project
	summary        *model.ProjectSummary
	replaced       []model.NewProject
	replaceDate    time.Time
	replaceErr     error
}

func (f *fakeProjects) ListByConstituency(_ context.Context, id int64) ([]model.Project, error) {
	return f.byConstituency[id], nil
}

func (f *fakeProjects) ReplaceReport(_ context.Context, _ int64, projects []model.NewProject, date time.Time) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaced, f.replaceDate = projects, date
	return nil
}

func (f *fakeProjects) Summary(context.Context, int64, int) (*model.ProjectSummary, error) {
	if f.summary == nil {
		return &model.ProjectSummary{}, nil
	}
	return f.summary, nil
}

type createdInsight struct {
	in       model.NewInsight
	evidence []model.NewEvidence
}

type fakeInsights struct {
	created   []createdInsight
	cleared   int
	createErr error
	list      []model.Insight
	evidence  map[int64][]model.EvidenceDetail
}

func (f *fakeInsights) ClearForConstituency(context.Context, int64) (int64, error) {
	f.cleared++
	return 0, nil
}

func (f *fakeInsights) CreateWithEvidence(_ context.Context, in model.NewInsight, evidence []model.NewEvidence) (*model.Insight, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, createdInsight{in, evidence})
	return &model.Insight{
		ID:             int64(len(f.created)),
		ConstituencyID: in.ConstituencyID,
		Title:          in.Title,
		Finding:        in.Finding,
		Severity:       in.Severity,
	}, nil
}

func (f *fakeInsights) ListByConstituency(context.Context, int64) ([]model.Insight, error) {
	return f.list, nil
}

func (f *fakeInsights) EvidenceForInsight(_ context.Context, id int64) ([]model.EvidenceDetail, error) {
	return f.evidence[id], nil
}

// fakeLLM answers each prompt with the first reply whose key the prompt
// contains, or with fallback.
type fakeLLM struct {
	mu       sync.Mutex
	replies  map[string]string
	fallback string
	err      error
	prompts  []string
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	for key, reply := range f.replies {
		if strings.Contains(prompt, key) {
			return reply, nil
		}
	}
	return f.fallback, nil
}

type fakeCache struct {
	data    map[string][]byte
	getErr  error
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, v any) error {
	if f.getErr != nil {
		return f.getErr
	}
	b, ok := f.data[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(b, v)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.data[key] = b
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.data, key)
	return nil
}

type fakeAlerts struct {
	payloads []job.AuditAlertPayload
}

func (f *fakeAlerts) EnqueueAuditAlert(_ context.Context, p job.AuditAlertPayload) error {
	f.payloads = append(f.payloads, p)
	return nil
}

type fakeExtractor struct {
	pages []string
	err   error
}

func (f *fakeExtractor) Extract(context.Context, string) ([]string, error) {
	return f.pages, f.err
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Pipeline.BatchDelay = 0
	return cfg
}

func project(id int64, amount float64, contractor, description string) model.Project {
	p := model.Project{ID: id, ConstituencyID: 1, AllocatedAmount: amount, Category: model.CategoryOther}
	if contractor != "" {
		p.ContractorName = strPtr(contractor)
	}
	if description != "" {
		p.Description = strPtr(description)
	}
	return p
}

var errModelDown = errors.New("model unavailable")

func pageOf(n int) string {
	return fmt.Sprintf("Page %d. %s", n, strings.Repeat("MPLADS work order details ", 5))
}
