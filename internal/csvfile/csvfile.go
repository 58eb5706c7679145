// Package csvfile reads and writes the spreadsheets exchanged with the partner.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// writeAtomic writes records to a temporary file next to path and renames it
// into place, so readers never see a half-written file.
func writeAtomic(path string, header []string, records [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

// headerIndex maps normalized header names to column positions
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		key := normalizeHeader(h)
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// field returns the value of the first present alias, or ""
func field(record []string, idx map[string]int, aliases ...string) string {
	for _, a := range aliases {
		if i, ok := idx[normalizeHeader(a)]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
	}
	return ""
}

func hasAny(idx map[string]int, aliases ...string) bool {
	for _, a := range aliases {
		if _, ok := idx[normalizeHeader(a)]; ok {
			return true
		}
	}
	return false
}
