package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"MarketBulletin/internal/recorder"
	"MarketBulletin/internal/report"
)

// FormatRunSummary formats a finished report run into a Telegram message.
func FormatRunSummary(sum *report.Summary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Market Bulletin</b> | %s\n\n", sum.StartedAt.Format("02 Jan 2006")))
	for _, r := range sum.Results {
		if r.OK {
			b.WriteString(fmt.Sprintf("✅ %s", html.EscapeString(r.Title)))
			if r.Summary != "" {
				b.WriteString(": " + html.EscapeString(r.Summary))
			}
			b.WriteString("\n")
			continue
		}
		b.WriteString(fmt.Sprintf("❌ %s (%s)\n", html.EscapeString(r.Title), r.Kind()))
	}
	b.WriteString(fmt.Sprintf("\n<b>%s</b>", sum.String()))
	if d := sum.FinishedAt.Sub(sum.StartedAt); d > 0 {
		b.WriteString(fmt.Sprintf(" in %s", d.Round(time.Second)))
	}
	return b.String()
}

// FormatLastRun formats a recorded run for the /last command.
func FormatLastRun(run *recorder.RunRecord, sections []recorder.SectionRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>Last run #%d</b> | %s\n\n", run.ID, run.StartedAt.Format("02 Jan 2006 15:04")))
	for _, s := range sections {
		if s.OK {
			b.WriteString(fmt.Sprintf("✅ %s (%d files)\n", s.Section, len(s.Artifacts)))
		} else {
			b.WriteString(fmt.Sprintf("❌ %s: %s\n", s.Section, html.EscapeString(s.ErrorKind)))
		}
	}
	b.WriteString(fmt.Sprintf("\n%d / %d sections executed successfully", run.Succeeded, run.Total))
	return b.String()
}

// FormatSections lists the runnable section ids.
func FormatSections(sections []report.Section) string {
	var b strings.Builder
	b.WriteString("📋 <b>Sections</b>\n\n")
	for _, s := range sections {
		b.WriteString(fmt.Sprintf("• <code>%s</code> %s\n", s.ID(), html.EscapeString(s.Title())))
	}
	return b.String()
}
