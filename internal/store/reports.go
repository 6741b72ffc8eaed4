package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const dailyReportFile = "daily_report.txt"

// ReportFiles stores the generated reports as plain text files. Every write
// replaces the previous report of the same slot.
type ReportFiles struct {
	dir string
}

func NewReportFiles(dir string) (*ReportFiles, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory %s: %w", dir, err)
	}
	return &ReportFiles{dir: dir}, nil
}

func (r *ReportFiles) HourlyPath(hour int) string {
	return filepath.Join(r.dir, fmt.Sprintf("hourly_report_%02d.txt", hour))
}

func (r *ReportFiles) DailyPath() string {
	return filepath.Join(r.dir, dailyReportFile)
}

func (r *ReportFiles) WriteHourly(hour int, text string) (string, error) {
	path := r.HourlyPath(hour)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write hourly report %s: %w", path, err)
	}
	return path, nil
}

func (r *ReportFiles) WriteDaily(text string) (string, error) {
	path := r.DailyPath()
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write daily report %s: %w", path, err)
	}
	return path, nil
}

// ReadDaily returns the latest daily report; found is false when none was generated yet.
func (r *ReportFiles) ReadDaily() (text string, found bool, err error) {
	data, err := os.ReadFile(r.DailyPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read daily report: %w", err)
	}
	return string(data), true, nil
}
