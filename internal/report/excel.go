package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Prthmsh0210/hire-nerd/internal/candidate"
)

const (
	sheetName     = "Matched Candidates"
	filePrefix    = "MatchedCandidates_"
	timestampFmt  = "20060102_150405"
	noneRedFlags  = "None"
	notAvailable  = "N/A"
	headerFillHex = "4472C4"
)

var headers = []string{
	"Candidate Name",
	"JD Fit (%)",
	"Interview Score (X/5)",
	"Red Flags",
	"Experience Summary",
	"Original Filename",
}

// Export writes the candidates to a new workbook in dir and returns its path.
func Export(candidates []*candidate.Candidate, dir string, now time.Time) (string, error) {
	if len(candidates) == 0 {
		return "", fmt.Errorf("no candidates to export")
	}

	if dir = strings.TrimSpace(dir); dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}

	path := filepath.Join(dir, filePrefix+now.Format(timestampFmt)+".xlsx")

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return "", err
	}

	if err := writeHeader(f); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}

	for idx, c := range candidates {
		cell, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return "", err
		}
		if err := f.SetSheetRow(sheetName, cell, &[]any{
			stringOr(c.Name),
			floatOr(c.JDFit),
			floatOr(c.InterviewScore),
			redFlags(c),
			stringOr(c.ExperienceSummary),
			stringOr(c.OriginalFilename),
		}); err != nil {
			return "", fmt.Errorf("writing row %d: %w", idx+1, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 25); err != nil {
		return "", err
	}
	if err := f.SetColWidth(sheetName, "D", "E", 50); err != nil {
		return "", err
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving report: %w", err)
	}

	return path, nil
}

func writeHeader(f *excelize.File) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFillHex}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	row := make([]any, 0, len(headers))
	for _, h := range headers {
		row = append(row, h)
	}

	if err := f.SetSheetRow(sheetName, "A1", &row); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}

	return f.SetCellStyle(sheetName, "A1", last, style)
}

func redFlags(c *candidate.Candidate) string {
	flags := c.RedFlagDescriptions()
	if len(flags) == 0 {
		return noneRedFlags
	}
	return strings.Join(flags, ", ")
}

func stringOr(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func floatOr(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
