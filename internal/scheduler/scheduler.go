package scheduler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"MarketBulletin/internal/notifier"
	"MarketBulletin/internal/recorder"
	"MarketBulletin/internal/report"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ErrBusy is returned when a report run is requested while another is in progress.
var ErrBusy = errors.New("a report run is already in progress")

// Scheduler manages the cron tasks and answers chat commands.
type Scheduler struct {
	Cron          *cron.Cron
	Runner        *report.Runner
	Env           *report.Env
	Notifier      *notifier.TelegramNotifier // nil disables delivery
	Recorder      recorder.Recorder
	SendDocuments bool
	Ctx           context.Context

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner *report.Runner, env *report.Env, tn *notifier.TelegramNotifier, rec recorder.Recorder) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   runner,
		Env:      env,
		Notifier: tn,
		Recorder: rec,
		Ctx:      ctx,
	}
}

// RegisterAll registers the daily report and the PCR history snapshot.
func (s *Scheduler) RegisterAll(dailyCron, pcrCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	if pcrCron != "" {
		if _, err := s.Cron.AddFunc(pcrCron, s.pcrTask); err != nil {
			return fmt.Errorf("register pcr task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	zap.L().Info("scheduler started", zap.Int("entries", len(s.Cron.Entries())))
}

// Go runs fn in a goroutine that Stop waits for.
func (s *Scheduler) Go(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

// Stop stops the cron scheduler and waits for running jobs and goroutines
// started with Go to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	zap.L().Info("scheduler stopped")
}

// RunNow executes the daily task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.dailyTask()
}

// RunReport runs the named sections, or all of them, unless a run is already
// in progress.
func (s *Scheduler) RunReport(ids ...string) (*report.Summary, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	return s.Runner.Run(s.Ctx, ids...)
}

func (s *Scheduler) dailyTask() {
	zap.L().Info("running daily report")
	sum, err := s.RunReport()
	if err != nil {
		zap.L().Error("daily report", zap.Error(err))
		s.trySend(fmt.Sprintf("❌ Daily report failed: %v", err))
		return
	}
	s.trySend(notifier.FormatRunSummary(sum))
	if s.SendDocuments {
		s.sendDocuments(sum)
	}
}

func (s *Scheduler) pcrTask() {
	reading, written, err := report.RecordPCR(s.Ctx, s.Env)
	if err != nil {
		zap.L().Error("record pcr", zap.Error(err))
		return
	}
	zap.L().Info("pcr recorded", zap.Float64("pcr", reading.Value), zap.Bool("written", written))
}

func (s *Scheduler) sendDocuments(sum *report.Summary) {
	if s.Notifier == nil {
		return
	}
	for _, r := range sum.Results {
		for _, path := range r.Artifacts {
			switch strings.ToLower(filepath.Ext(path)) {
			case ".pdf", ".docx":
			default:
				continue
			}
			if err := s.Notifier.SendDocument(s.Ctx, path, r.Title); err != nil {
				zap.L().Error("send document", zap.String("path", path), zap.Error(err))
			}
		}
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return usage()
	}
	switch fields[0] {
	case "/report":
		sum, err := s.RunReport(fields[1:]...)
		if err != nil {
			return "❌ " + err.Error()
		}
		return notifier.FormatRunSummary(sum)
	case "/sections":
		return notifier.FormatSections(s.Runner.Sections())
	case "/last":
		run, sections, err := s.Recorder.LastRun()
		if errors.Is(err, recorder.ErrNoRuns) {
			return "No report runs recorded yet."
		}
		if err != nil {
			return "❌ " + err.Error()
		}
		return notifier.FormatLastRun(run, sections)
	default:
		return usage()
	}
}

func usage() string {
	return "Available commands:\n• /report [section...]\n• /sections\n• /last"
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		zap.L().Info("notification skipped, telegram disabled")
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		zap.L().Error("send notification", zap.Error(err))
	}
}
