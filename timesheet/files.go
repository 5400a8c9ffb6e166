package timesheet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultRetention is how long rendered reports are kept.
const DefaultRetention = 30 * 24 * time.Hour

// Filename returns the file name of a customer's report for the given week.
func Filename(customerName, weekLabel string) string {
	return fmt.Sprintf("Arbeitszeitreport_%s_%s.pdf",
		strings.ReplaceAll(customerName, " ", "_"),
		strings.ReplaceAll(weekLabel, " ", "_"))
}

// CleanupOld deletes *.pdf files in dir last modified before now minus retention and
// returns the removed paths. A missing directory is not an error. Files that cannot
// be inspected or removed are skipped.
func CleanupOld(dir string, retention time.Duration, now time.Time) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("timesheet: cleanup: %w", err)
	}

	cutoff := now.Add(-retention)
	var removed []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil {
			continue
		}
		removed = append(removed, path)
	}
	return removed, nil
}
