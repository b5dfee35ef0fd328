// Package export writes a run's dataset to a CSV file and reads it back.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kjstillabower/weather-collector/internal/models"
)

// ErrWrite marks an output failure. It is the only error that fails a run.
var ErrWrite = errors.New("write output")

const filenameLayout = "20060102_150405"

// DefaultFilename returns weather_data_YYYYMMDD_HHMMSS.csv for now.
func DefaultFilename(now time.Time) string {
	return "weather_data_" + now.Format(filenameLayout) + ".csv"
}

// Write serializes records to path with models.Columns as the header, one row
// per record in slice order. An empty slice yields a header-only file.
// Rows go to a temporary file in the same directory that is renamed into
// place, so path only ever holds a complete file.
func Write(records []models.WeatherRecord, path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory %s: %w", ErrWrite, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrWrite, path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(models.Columns); err != nil {
		return fmt.Errorf("%w: header: %w", ErrWrite, err)
	}
	for i, r := range records {
		if err := w.Write(r.Values()); err != nil {
			return fmt.Errorf("%w: row %d: %w", ErrWrite, i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush: %w", ErrWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %w", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ErrWrite, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("%w: chmod: %w", ErrWrite, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: rename to %s: %w", ErrWrite, path, err)
	}
	return nil
}

// Read parses a CSV file written by Write into its header and data rows.
func Read(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}
