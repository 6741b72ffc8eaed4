// Package report turns the dialog log into hourly and daily activity reports.
package report

import (
	"sort"
	"strings"
	"unicode"

	"gwi.com/telegram-assistant/internal/store"
	"gwi.com/telegram-assistant/internal/utils"
)

const (
	maxThemes            = 5
	maxInteresting       = 3
	minQuestionLen       = 20
	interestingTextLimit = 100
)

type theme struct {
	name string
	// keywords match as substrings of the lower-cased text, so short ones
	// such as "я" match inside longer words too.
	keywords []string
	// words must appear as whole words: "how" counts, "show" does not.
	words []string
}

var themes = []theme{
	{name: "programming", keywords: []string{"код", "python", "javascript", "debug"}, words: []string{"code"}},
	{name: "questions", keywords: []string{"?", "как", "почему", "что"}, words: []string{"how", "why", "what"}},
	{name: "news", keywords: []string{"новость", "произошло", "случилось"}, words: []string{"news"}},
	{name: "personal", keywords: []string{"я", "мне", "мой", "моя"}},
}

type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

type Question struct {
	User string `json:"user"`
	Text string `json:"text"`
}

// Analysis is the local, API-free summary of a set of dialog entries.
type Analysis struct {
	Total       int
	Users       int
	Themes      []ThemeCount // most frequent first, at most five
	Interesting []Question   // at most three
}

func Analyze(entries []store.DialogEntry) Analysis {
	if len(entries) == 0 {
		return Analysis{Themes: []ThemeCount{}, Interesting: []Question{}}
	}

	users := make(map[int64]struct{})
	counts := make(map[string]int)
	var order []string // first-seen order, used to break ties
	interesting := []Question{}

	for _, e := range entries {
		users[e.UserID] = struct{}{}
		text := strings.ToLower(e.MessageText)
		words := wordSet(text)

		for _, th := range themes {
			if th.matches(text, words) {
				if _, seen := counts[th.name]; !seen {
					order = append(order, th.name)
				}
				counts[th.name]++
			}
		}

		if strings.Contains(text, "?") && utils.RuneLen(text) > minQuestionLen {
			interesting = append(interesting, Question{
				User: e.UserName,
				Text: utils.Truncate(text, interestingTextLimit),
			})
		}
	}

	ranked := make([]ThemeCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, ThemeCount{Theme: name, Count: counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > maxThemes {
		ranked = ranked[:maxThemes]
	}
	if len(interesting) > maxInteresting {
		interesting = interesting[:maxInteresting]
	}

	return Analysis{
		Total:       len(entries),
		Users:       len(users),
		Themes:      ranked,
		Interesting: interesting,
	}
}

// ThemeNames lists the detected themes in rank order.
func (a Analysis) ThemeNames() []string {
	names := make([]string, 0, len(a.Themes))
	for _, t := range a.Themes {
		names = append(names, t.Theme)
	}
	return names
}

func (th theme) matches(text string, words map[string]struct{}) bool {
	for _, kw := range th.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	for _, w := range th.words {
		if _, ok := words[w]; ok {
			return true
		}
	}
	return false
}

func wordSet(text string) map[string]struct{} {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
