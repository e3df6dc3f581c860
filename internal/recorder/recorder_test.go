package recorder

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"MarketBulletin/internal/model"
)

func TestSQLiteRecorderRoundTrip(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "db", "bulletin.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rec.Close()

	if _, _, err := rec.LastRun(); !errors.Is(err, ErrNoRuns) {
		t.Fatalf("expected ErrNoRuns on empty db, got %v", err)
	}

	start := time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC)
	id, err := rec.BeginRun(start)
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}
	sections := []*SectionRecord{
		{RunID: id, Section: "gold", OK: true, Artifacts: []string{"out/gold.txt", "out/gold.png"}, Duration: 1500 * time.Millisecond},
		{RunID: id, Section: "fii-dii", OK: false, ErrorKind: "fetch", Error: "status 404"},
	}
	for _, s := range sections {
		if err := rec.RecordSection(s); err != nil {
			t.Fatalf("record section: %v", err)
		}
	}
	if err := rec.RecordIndicators(id, []IndicatorRecord{
		{Section: "gold", Name: "gold_24k", Date: start, Value: 7245},
	}); err != nil {
		t.Fatalf("record indicators: %v", err)
	}
	if err := rec.FinishRun(&RunRecord{ID: id, FinishedAt: start.Add(time.Minute), Total: 2, Succeeded: 1}); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	run, got, err := rec.LastRun()
	if err != nil {
		t.Fatalf("last run: %v", err)
	}
	if run.ID != id || run.Total != 2 || run.Succeeded != 1 {
		t.Errorf("unexpected run: %+v", run)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(got))
	}
	if !got[0].OK || len(got[0].Artifacts) != 2 || got[0].Duration != 1500*time.Millisecond {
		t.Errorf("unexpected first section: %+v", got[0])
	}
	if got[1].OK || got[1].ErrorKind != "fetch" {
		t.Errorf("unexpected second section: %+v", got[1])
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	if _, err := r.BeginRun(time.Now()); err != nil {
		t.Fatal(err)
	}
	if _, _, err := r.LastRun(); !errors.Is(err, ErrNoRuns) {
		t.Errorf("expected ErrNoRuns, got %v", err)
	}
}

func TestPCRHistoryPreviousSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcr_history.csv")
	csv := "Date,PCR\n2024-03-01,0.91\n2024-03-05,1.10\n2024-03-04,1.02\n2024-03-03,0.97\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	h := NewPCRHistory(path)
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	got, err := h.PreviousSessions(now, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(got))
	}
	if got[0].Date.Day() != 4 || got[0].Value != 1.02 {
		t.Errorf("first session = %+v, want 2024-03-04 1.02", got[0])
	}
	if got[1].Date.Day() != 3 || got[1].Value != 0.97 {
		t.Errorf("second session = %+v, want 2024-03-03 0.97", got[1])
	}
}

func TestPCRHistoryMissingFile(t *testing.T) {
	h := NewPCRHistory(filepath.Join(t.TempDir(), "none.csv"))
	if _, err := h.PreviousSessions(time.Now(), 2); !errors.Is(err, ErrNoHistory) {
		t.Errorf("expected ErrNoHistory, got %v", err)
	}
}

func TestPCRHistoryAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "pcr_history.csv")
	h := NewPCRHistory(path)
	day := time.Date(2024, 3, 5, 15, 30, 0, 0, time.UTC)

	wrote, err := h.Append(model.PCRReading{Date: day, Value: 1.2345, Defined: true})
	if err != nil || !wrote {
		t.Fatalf("first append: wrote=%v err=%v", wrote, err)
	}
	wrote, err = h.Append(model.PCRReading{Date: day, Value: 9, Defined: true})
	if err != nil || wrote {
		t.Fatalf("duplicate append: wrote=%v err=%v", wrote, err)
	}
	if _, err := h.Append(model.PCRReading{Date: day.AddDate(0, 0, 1)}); err == nil {
		t.Error("expected error for undefined reading")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Date,PCR\n2024-03-05,1.2345\n" {
		t.Errorf("unexpected file contents: %q", string(data))
	}
}
