package report

import (
	"fmt"
	"strings"
	"time"
)

func RenderHourly(now time.Time, a Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== HOURLY REPORT (%s:00) ===\n", now.Format("15"))
	fmt.Fprintf(&b, "Time: %s\n\n", now.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "📊 Statistics:\n- Messages: %d\n- Unique users: %d\n\n", a.Total, a.Users)
	writeThemesAndQuestions(&b, a)
	b.WriteString("\n✅ Report created automatically\n")
	return b.String()
}

func RenderDaily(now time.Time, a Analysis, summary string) string {
	var b strings.Builder
	b.WriteString("=== DAILY REPORT ===\n")
	fmt.Fprintf(&b, "Date: %s\n\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "📊 Statistics:\n- Total messages: %d\n- Unique users: %d\n\n", a.Total, a.Users)
	writeThemesAndQuestions(&b, a)
	fmt.Fprintf(&b, "\n📝 API analysis:\n%s\n", summary)
	fmt.Fprintf(&b, "\n✅ Report created: %s\n", now.Format("15:04:05"))
	return b.String()
}

func writeThemesAndQuestions(b *strings.Builder, a Analysis) {
	b.WriteString("🏷️ Main topics:\n")
	for _, t := range a.Themes {
		fmt.Fprintf(b, "  • %s: %d\n", t.Theme, t.Count)
	}

	if len(a.Interesting) > 0 {
		b.WriteString("\n❓ Interesting questions:\n")
		for _, q := range a.Interesting {
			fmt.Fprintf(b, "  • %s: %s...\n", q.User, q.Text)
		}
	}
}
