package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gwi.com/telegram-assistant/internal/utils"
)

const dayLayout = "2006-01-02"

// DialogLog appends inbound messages to one JSON array file per day.
type DialogLog struct {
	mu  sync.Mutex
	dir string
}

func NewDialogLog(dir string) (*DialogLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create dialogs directory %s: %w", dir, err)
	}
	return &DialogLog{dir: dir}, nil
}

// DayFile is the path of the log file holding entries of t's day.
func (l *DialogLog) DayFile(t time.Time) string {
	return filepath.Join(l.dir, fmt.Sprintf("dialogs_%s.json", t.Format(dayLayout)))
}

// Append records entry in the file of its timestamp's day. Missing ID and
// timestamp are filled in and the text is cut to MaxLoggedTextLen characters.
// A file that cannot be parsed is left untouched and an error is returned.
func (l *DialogLog) Append(entry DialogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.MessageText = utils.Truncate(entry.MessageText, MaxLoggedTextLen)

	l.mu.Lock()
	defer l.mu.Unlock()

	filename := l.DayFile(entry.Timestamp)
	entries, err := readEntries(filename)
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to encode dialog log: %w", err)
	}

	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write dialog log %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, filename); err != nil {
		return fmt.Errorf("failed to replace dialog log %s: %w", filename, err)
	}
	return nil
}

// Day returns the entries logged on t's day. A missing file yields no entries.
func (l *DialogLog) Day(t time.Time) ([]DialogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := readEntries(l.DayFile(t))
	if err != nil {
		return []DialogEntry{}, err
	}
	return entries, nil
}

func readEntries(filename string) ([]DialogEntry, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []DialogEntry{}, nil
		}
		return nil, fmt.Errorf("failed to read dialog log %s: %w", filename, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []DialogEntry{}, nil
	}

	var entries []DialogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse dialog log %s: %w", filename, err)
	}
	return entries, nil
}
