// Package report renders human-readable views of a run's dataset.
package report

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/kjstillabower/weather-collector/internal/models"
)

// PreviewLimit is how many records Summarize lists.
const PreviewLimit = 3

// Summarize returns the run summary: counts, then up to PreviewLimit records
// as "<city>, <country>: <temp_c>°C, <condition>".
func Summarize(records []models.WeatherRecord, attempted, succeeded int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Fetched %d/%d locations", succeeded, attempted)
	if failed := attempted - succeeded; failed > 0 {
		fmt.Fprintf(&sb, " (%d failed)", failed)
	}
	sb.WriteString("\n")

	if len(records) == 0 {
		sb.WriteString("No weather data collected\n")
		return sb.String()
	}

	n := min(len(records), PreviewLimit)
	for _, r := range records[:n] {
		fmt.Fprintf(&sb, "%s, %s: %s°C, %s\n", r.City, r.Country, models.FormatNumber(r.TemperatureC), r.Condition)
	}
	if rest := len(records) - n; rest > 0 {
		fmt.Fprintf(&sb, "... and %d more\n", rest)
	}
	return sb.String()
}

// Table renders header and rows as an aligned pipe table. Widths are display
// widths, so CJK and accented names line up.
func Table(header []string, rows [][]string) string {
	cols := len(header)
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		sb.WriteString("|")
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			sb.WriteString(" ")
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	writeRow(header)
	sb.WriteString("|")
	for _, w := range widths {
		sb.WriteString(strings.Repeat("-", w+2))
		sb.WriteString("|")
	}
	sb.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}
