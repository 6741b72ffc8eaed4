package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gwi.com/telegram-assistant/internal/store"
)

type fakeSummarizer struct {
	summary string
	err     error
	prompt  string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.summary, f.err
}

type fakeNotifier struct {
	chatID int64
	text   string
	calls  int
}

func (f *fakeNotifier) SendText(ctx context.Context, chatID int64, text string) error {
	f.calls++
	f.chatID = chatID
	f.text = text
	return nil
}

func newTestGenerator(t *testing.T, now time.Time, summarizer Summarizer) (*Generator, *store.DialogLog, *store.ReportFiles) {
	t.Helper()
	dir := t.TempDir()
	dialogs, err := store.NewDialogLog(dir + "/dialogs")
	require.NoError(t, err)
	reports, err := store.NewReportFiles(dir + "/reports")
	require.NoError(t, err)
	logger, _ := logtest.NewNullLogger()
	return NewGenerator(dialogs, reports, summarizer, logger, func() time.Time { return now }), dialogs, reports
}

func TestHourlyReportCoversCurrentHourOnly(t *testing.T) {
	now := time.Date(2024, 5, 1, 14, 40, 0, 0, time.UTC)
	g, dialogs, _ := newTestGenerator(t, now, &fakeSummarizer{})

	require.NoError(t, dialogs.Append(store.DialogEntry{Timestamp: now.Add(-time.Hour), UserID: 1, MessageText: "earlier"}))
	require.NoError(t, dialogs.Append(store.DialogEntry{Timestamp: now.Add(-40 * time.Minute), UserID: 1, MessageText: "python"}))
	require.NoError(t, dialogs.Append(store.DialogEntry{Timestamp: now.Add(-5 * time.Minute), UserID: 2, MessageText: "news"}))

	path, err := g.Hourly(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "hourly_report_14.txt"))

	text := readFile(t, path)
	assert.Contains(t, text, "=== HOURLY REPORT (14:00) ===")
	assert.Contains(t, text, "- Messages: 2\n- Unique users: 2")
	assert.Contains(t, text, "  • programming: 1")
}

func TestDailyReportIncludesSummary(t *testing.T) {
	now := time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC)
	summarizer := &fakeSummarizer{summary: "People talked about code."}
	g, dialogs, reports := newTestGenerator(t, now, summarizer)

	require.NoError(t, dialogs.Append(store.DialogEntry{Timestamp: now.Add(-2 * time.Hour), UserID: 1, UserName: "alice", MessageText: "How do I write python code for this task?"}))

	summary, err := g.Daily(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "People talked about code.", summary)
	assert.Contains(t, summarizer.prompt, "1 messages from 1 users")
	assert.Contains(t, summarizer.prompt, `"user":"alice"`)

	text, found, err := reports.ReadDaily()
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, text, "Date: 2024-05-01")
	assert.Contains(t, text, "📝 API analysis:\nPeople talked about code.")
	assert.Contains(t, text, "❓ Interesting questions:\n  • alice: how do i write python code for this task?...")
}

func TestDailyReportFallsBackWhenSummaryFails(t *testing.T) {
	now := time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC)
	g, _, reports := newTestGenerator(t, now, &fakeSummarizer{err: errors.New("boom")})

	summary, err := g.Daily(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SummaryFailed, summary)

	text, _, _ := reports.ReadDaily()
	assert.Contains(t, text, "- Total messages: 0")
	assert.Contains(t, text, SummaryFailed)
}

func TestSchedulerRunDailyNotifiesAdmin(t *testing.T) {
	now := time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC)
	g, _, _ := newTestGenerator(t, now, &fakeSummarizer{summary: "quiet day"})
	logger, _ := logtest.NewNullLogger()
	notifier := &fakeNotifier{}

	s, err := NewScheduler(g, notifier, 99, time.UTC, logger)
	require.NoError(t, err)
	s.RunDaily(context.Background())

	assert.Equal(t, int64(99), notifier.chatID)
	assert.Equal(t, "📊 DAILY REPORT\n\nquiet day", notifier.text)
}

func TestSchedulerWithoutAdminDoesNotNotify(t *testing.T) {
	now := time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC)
	g, _, _ := newTestGenerator(t, now, &fakeSummarizer{summary: "quiet day"})
	logger, _ := logtest.NewNullLogger()
	notifier := &fakeNotifier{}

	s, err := NewScheduler(g, notifier, 0, time.UTC, logger)
	require.NoError(t, err)
	s.RunDaily(context.Background())
	s.RunHourly(context.Background())

	assert.Zero(t, notifier.calls)
}

func TestSchedulerStartStop(t *testing.T) {
	g, _, _ := newTestGenerator(t, time.Now(), &fakeSummarizer{})
	logger, _ := logtest.NewNullLogger()

	s, err := NewScheduler(g, &fakeNotifier{}, 0, time.UTC, logger)
	require.NoError(t, err)
	s.Start()
	assert.Len(t, s.cron.Entries(), 2)

	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestSchedulerAddJob(t *testing.T) {
	g, _, _ := newTestGenerator(t, time.Now(), &fakeSummarizer{})
	logger, _ := logtest.NewNullLogger()

	s, err := NewScheduler(g, &fakeNotifier{}, 0, time.UTC, logger)
	require.NoError(t, err)

	require.NoError(t, s.AddJob("5 0 * * *", "cleanup", func(ctx context.Context) error { return nil }))
	assert.Len(t, s.cron.Entries(), 3)

	assert.Error(t, s.AddJob("not a schedule", "broken", func(ctx context.Context) error { return nil }))
}
