package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gwi.com/telegram-assistant/internal/store"
)

// SummaryFailed replaces the LLM summary when the API call fails.
const SummaryFailed = "Report generation failed"

type DialogSource interface {
	Day(t time.Time) ([]store.DialogEntry, error)
}

type ReportWriter interface {
	WriteHourly(hour int, text string) (string, error)
	WriteDaily(text string) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

type Generator struct {
	dialogs    DialogSource
	reports    ReportWriter
	summarizer Summarizer
	logger     logrus.FieldLogger
	now        func() time.Time
}

// NewGenerator builds a report generator. now supplies the current time in
// the reporting time zone.
func NewGenerator(dialogs DialogSource, reports ReportWriter, summarizer Summarizer, logger logrus.FieldLogger, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		dialogs:    dialogs,
		reports:    reports,
		summarizer: summarizer,
		logger:     logger,
		now:        now,
	}
}

// Hourly writes the report for the clock hour containing now and returns its path.
func (g *Generator) Hourly(ctx context.Context) (string, error) {
	now := g.now()
	hourStart := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	hourEnd := hourStart.Add(time.Hour)

	var hourly []store.DialogEntry
	for _, e := range g.todayEntries(now) {
		if !e.Timestamp.Before(hourStart) && e.Timestamp.Before(hourEnd) {
			hourly = append(hourly, e)
		}
	}

	text := RenderHourly(now, Analyze(hourly))
	path, err := g.reports.WriteHourly(now.Hour(), text)
	if err != nil {
		return "", err
	}
	g.logger.WithField("path", path).Info("Hourly report created")
	return path, nil
}

// Daily writes the report over all of today's messages, including an LLM
// summary, and returns that summary.
func (g *Generator) Daily(ctx context.Context) (string, error) {
	now := g.now()
	analysis := Analyze(g.todayEntries(now))

	summary, err := g.summarizer.Summarize(ctx, SummaryPrompt(analysis))
	if err != nil {
		g.logger.WithError(err).Error("Failed to get API summary for the daily report")
		summary = SummaryFailed
	}

	path, err := g.reports.WriteDaily(RenderDaily(now, analysis, summary))
	if err != nil {
		return "", err
	}
	g.logger.WithField("path", path).Info("Daily report created")
	return summary, nil
}

func (g *Generator) todayEntries(now time.Time) []store.DialogEntry {
	entries, err := g.dialogs.Day(now)
	if err != nil {
		g.logger.WithError(err).Warn("Failed to read today's dialogs, reporting on what was read")
	}
	return entries
}

// SummaryPrompt asks the LLM for a short narrative over the local analysis.
func SummaryPrompt(a Analysis) string {
	questions := a.Interesting
	if len(questions) > 2 {
		questions = questions[:2]
	}
	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		questionsJSON = []byte("[]")
	}

	return fmt.Sprintf(
		"During the day there were %d messages from %d users.\n"+
			"Main discussion topics: %s.\n"+
			"Interesting questions: %s.\n"+
			"Write a short, clear report (2-3 sentences) on what was discussed and what the trends are.",
		a.Total, a.Users, strings.Join(a.ThemeNames(), ", "), questionsJSON,
	)
}
