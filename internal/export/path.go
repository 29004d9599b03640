package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/intervals/internal/store"
)

// Format selects the export file type.
type Format int

const (
	CSV Format = iota
	JSON
)

func (f Format) String() string {
	if f == JSON {
		return "JSON"
	}
	return "CSV"
}

func (f Format) ext() string {
	if f == JSON {
		return "json"
	}
	return "csv"
}

// DefaultPath returns ~/intervals-export-YYYY-MM-DD.<ext> for day.
func DefaultPath(f Format, day time.Time) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, fileName(f, day)), nil
}

func fileName(f Format, day time.Time) string {
	return fmt.Sprintf("intervals-export-%s.%s", day.Format("2006-01-02"), f.ext())
}

// Write exports runs to path in format f.
func Write(f Format, runs []store.Run, path string) error {
	if f == JSON {
		return ToJSON(runs, path)
	}
	return ToCSV(runs, path)
}
