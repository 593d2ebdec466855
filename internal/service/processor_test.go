package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/deppfellow/netanomics/internal/config"
	"github.com/deppfellow/netanomics/internal/lib/inbox"
	"github.com/deppfellow/netanomics/internal/model"
)

type fakePipeline struct {
	fail  map[string]bool
	calls []string
}

func (f *fakePipeline) RunFullPipeline(_ context.Context, _ int64, path string) error {
	name := filepath.Base(path)
	f.calls = append(f.calls, name)
	if f.fail[name] {
		return errors.New("structuring failed: no projects extracted")
	}
	return nil
}

type processorFixture struct {
	svc            *ProcessorService
	pipeline       *fakePipeline
	constituencies *fakeConstituencies
	inboxDir       string
	processedDir   string
}

func newProcessorFixture(t *testing.T, dryRun bool, files ...string) *processorFixture {
	t.Helper()
	root := t.TempDir()
	cfg := config.InboxConfig{
		InboxDir:     filepath.Join(root, "report_inbox"),
		ProcessedDir: filepath.Join(root, "processed_reports"),
	}
	box := inbox.New(cfg)
	if err := box.Ensure(); err != nil {
		t.Fatal(err)
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(cfg.InboxDir, name), []byte("%PDF-1.4"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	f := &processorFixture{
		pipeline: &fakePipeline{fail: map[string]bool{}},
		constituencies: &fakeConstituencies{rows: []model.Constituency{
			{ID: 1, ConstituencyName: "Hassan"},
			{ID: 2, ConstituencyName: "Bangalore North"},
			{ID: 3, ConstituencyName: "Chamarajanagar (SC)"},
		}},
		inboxDir:     cfg.InboxDir,
		processedDir: cfg.ProcessedDir,
	}
	f.svc = NewProcessorService(f.constituencies, f.pipeline, box, dryRun, nopLogger())
	return f
}

func (f *processorFixture) processed(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.processedDir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestProcessInboxEmpty(t *testing.T) {
	f := newProcessorFixture(t, false, "notes.txt")

	result, err := f.svc.ProcessInbox(context.Background())
	if err != nil {
		t.Fatalf("ProcessInbox() error = %v", err)
	}
	if result.Status != "success" || result.Message != "Inbox empty" || result.NewReportsProcessed != 0 {
		t.Fatalf("result = %+v", result)
	}
}

func TestProcessInbox(t *testing.T) {
	f := newProcessorFixture(t, false, "Hassan.pdf", "bangalore_north_2018.PDF", "Mysore.pdf", "CHAMARAJANAGAR.pdf")
	f.pipeline.fail["CHAMARAJANAGAR.pdf"] = true

	result, err := f.svc.ProcessInbox(context.Background())
	if err != nil {
		t.Fatalf("ProcessInbox() error = %v", err)
	}
	if result.NewReportsProcessed != 2 || result.FailedReports != 1 {
		t.Fatalf("result = %+v", result)
	}
	if len(result.Unrecognized) != 1 || result.Unrecognized[0] != "Mysore.pdf" {
		t.Errorf("unrecognized = %v", result.Unrecognized)
	}
	if len(f.pipeline.calls) != 3 {
		t.Errorf("pipeline calls = %v", f.pipeline.calls)
	}

	processed := f.processed(t)
	if len(processed) != 4 {
		t.Fatalf("processed = %v", processed)
	}
	var failed, rejected, archived int
	for _, name := range processed {
		switch {
		case strings.HasPrefix(name, "FAILED_CHAMARAJANAGAR_"):
			failed++
		case name == "UNRECOGNIZED_Mysore.pdf":
			rejected++
		case strings.HasPrefix(name, "Hassan_"), strings.HasPrefix(name, "bangalore_north_2018_"):
			archived++
		}
	}
	if failed != 1 || rejected != 1 || archived != 2 {
		t.Errorf("processed = %v", processed)
	}

	left, _ := os.ReadDir(f.inboxDir)
	if len(left) != 0 {
		t.Errorf("inbox still holds %d files", len(left))
	}
}

func TestProcessInboxDryRun(t *testing.T) {
	f := newProcessorFixture(t, true, "Hassan.pdf")

	result, err := f.svc.ProcessInbox(context.Background())
	if err != nil {
		t.Fatalf("ProcessInbox() error = %v", err)
	}
	if result.NewReportsProcessed != 1 {
		t.Fatalf("result = %+v", result)
	}
	if len(f.pipeline.calls) != 0 {
		t.Error("pipeline ran in dry-run mode")
	}
	if len(f.constituencies.updates) != 1 || f.constituencies.updates[0].status != model.StatusCurrent {
		t.Errorf("status updates = %+v", f.constituencies.updates)
	}
}

func TestProcessInboxKeepsReportsWithDottedNames(t *testing.T) {
	f := newProcessorFixture(t, true, "Hassan.2019-20.pdf", "Hassan.2020-21.pdf")

	result, err := f.svc.ProcessInbox(context.Background())
	if err != nil {
		t.Fatalf("ProcessInbox() error = %v", err)
	}
	if result.NewReportsProcessed != 2 {
		t.Fatalf("result = %+v", result)
	}

	processed := f.processed(t)
	if len(processed) != 2 {
		t.Fatalf("processed = %v", processed)
	}
	if !strings.HasPrefix(processed[0], "Hassan.2019-20_") || !strings.HasPrefix(processed[1], "Hassan.2020-21_") {
		t.Errorf("processed = %v", processed)
	}
}

func TestProcessInboxListError(t *testing.T) {
	f := newProcessorFixture(t, false, "Hassan.pdf")
	f.constituencies.listErr = errors.New("db down")

	if _, err := f.svc.ProcessInbox(context.Background()); err == nil {
		t.Fatal("ProcessInbox() error = nil")
	}
}
