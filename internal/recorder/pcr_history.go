package recorder

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"MarketBulletin/internal/model"
	"MarketBulletin/internal/normalize"
)

// ErrNoHistory is returned when the PCR history file does not exist yet.
var ErrNoHistory = errors.New("pcr history file not found")

const pcrDateLayout = "2006-01-02"

// PCRHistory is an append-only CSV of daily put/call ratios with a
// "Date,PCR" header.
type PCRHistory struct {
	Path string
}

// NewPCRHistory returns a history backed by path.
func NewPCRHistory(path string) *PCRHistory {
	return &PCRHistory{Path: path}
}

// Load reads every recorded session, newest first.
func (h *PCRHistory) Load() ([]model.PCRReading, error) {
	f, err := os.Open(h.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoHistory, h.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("open pcr history: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var out []model.PCRReading
	for line := 1; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read pcr history line %d: %w", line, err)
		}
		if line == 1 && len(rec) > 0 && rec[0] == "Date" {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("pcr history line %d: want 2 fields, got %d", line, len(rec))
		}
		date, err := normalize.ParseDate("Date", rec[0], pcrDateLayout, "02-01-2006")
		if err != nil {
			return nil, fmt.Errorf("pcr history line %d: %w", line, err)
		}
		v, err := normalize.ParseNumber("PCR", rec[1])
		if err != nil {
			return nil, fmt.Errorf("pcr history line %d: %w", line, err)
		}
		out = append(out, model.PCRReading{Date: date, Value: v, Defined: true})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// PreviousSessions returns up to n sessions dated strictly before the day of now, newest first.
func (h *PCRHistory) PreviousSessions(now time.Time, n int) ([]model.PCRReading, error) {
	all, err := h.Load()
	if err != nil {
		return nil, err
	}
	today := normalize.Day(now)
	var out []model.PCRReading
	for _, r := range all {
		if !r.Date.Before(today) {
			continue
		}
		out = append(out, r)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

// Append adds a reading unless its date is already recorded. It reports
// whether a row was written. Undefined readings are never written.
func (h *PCRHistory) Append(r model.PCRReading) (bool, error) {
	if !r.Defined {
		return false, fmt.Errorf("pcr for %s is undefined", r.Date.Format(pcrDateLayout))
	}
	existing, err := h.Load()
	if err != nil && !errors.Is(err, ErrNoHistory) {
		return false, err
	}
	day := normalize.Day(r.Date)
	for _, e := range existing {
		if e.Date.Equal(day) {
			return false, nil
		}
	}

	if dir := filepath.Dir(h.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create pcr history dir: %w", err)
		}
	}
	f, err := os.OpenFile(h.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return false, fmt.Errorf("open pcr history: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if st, err := f.Stat(); err == nil && st.Size() == 0 {
		if err := w.Write([]string{"Date", "PCR"}); err != nil {
			return false, err
		}
	}
	if err := w.Write([]string{day.Format(pcrDateLayout), strconv.FormatFloat(r.Value, 'f', 4, 64)}); err != nil {
		return false, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return false, fmt.Errorf("write pcr history: %w", err)
	}
	return true, nil
}
