// Package export writes match analyses and corpus trends to Excel workbooks.
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/job-matcher/internal/types"
)

// Sheet names.
const (
	MatchesSheet  = "Matches"
	TrendingSheet = "Trending"
)

var matchHeaders = []string{"Title", "Company", "Location", "Match %", "Verdict", "Matching", "Missing", "Fair Chance", "URL"}

// Row is one posting in the Matches sheet.
type Row struct {
	Title      string
	Company    string
	Location   string
	URL        string
	Percentage int
	Band       types.VerdictBand
	Verdict    string
	Matching   []string
	Missing    []string
	FairChance string // Confidence and signal, empty when none
}

// Report is the content of a workbook.
type Report struct {
	Generated time.Time
	Resume    string // Resume skills the postings were scored against
	Postings  int    // Corpus size behind Trending
	Rows      []Row
	Trending  []types.SkillCount
}

// RowFromAnalysis flattens a posting analysis into a report row.
func RowFromAnalysis(a types.PostingAnalysis) Row {
	row := Row{
		Title:    a.Posting.Title,
		Company:  a.Posting.Company,
		Location: a.Posting.Location,
		URL:      a.Posting.URL,
		Band:     types.BandNone,
	}
	if a.Match != nil {
		row.Percentage = a.Match.MatchPercentage
		row.Band = a.Match.Band
		row.Verdict = a.Match.Verdict
		row.Matching = a.Match.MatchingSkills
		row.Missing = make([]string, 0, len(a.Match.PrioritizedMissingSkills))
		for _, s := range a.Match.PrioritizedMissingSkills {
			row.Missing = append(row.Missing, s.Skill)
		}
	}
	if a.FairChance.Matched {
		row.FairChance = fmt.Sprintf("%s: %s", a.FairChance.Confidence, a.FairChance.Signal)
	}
	return row
}

// Write encodes the report as an xlsx workbook.
func Write(w io.Writer, report Report) error {
	f, err := build(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile saves the report to path, adding an .xlsx extension when missing.
func WriteFile(path string, report Report) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f, err := build(report)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}

func build(report Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", MatchesSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create matches sheet: %w", err)
	}
	if _, err := f.NewSheet(TrendingSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create trending sheet: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create styles: %w", err)
	}
	if err := writeMatches(f, styles, report.Rows); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to fill matches sheet: %w", err)
	}
	if err := writeTrending(f, styles, report); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to fill trending sheet: %w", err)
	}
	return f, nil
}

type styles struct {
	header int
	label  int
	bands  map[types.VerdictBand]int
}

func bordered() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

func newStyles(f *excelize.File) (*styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    bordered(),
	})
	if err != nil {
		return nil, err
	}
	label, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	s := &styles{header: header, label: label, bands: map[types.VerdictBand]int{}}
	fills := map[types.VerdictBand]string{
		types.BandStrong:  "C6EFCE",
		types.BandGood:    "FFEB9C",
		types.BandStretch: "FFC7CE",
		types.BandLow:     "FF9999",
		types.BandNone:    "F2F2F2",
	}
	for band, color := range fills {
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
			Border:    bordered(),
		})
		if err != nil {
			return nil, err
		}
		s.bands[band] = id
	}
	return s, nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func writeHeader(f *excelize.File, sheet string, header int, row int, titles []string) error {
	for i, title := range titles {
		c := cell(i+1, row)
		if err := f.SetCellValue(sheet, c, title); err != nil {
			return err
		}
	}
	return f.SetCellStyle(sheet, cell(1, row), cell(len(titles), row), header)
}

func writeMatches(f *excelize.File, s *styles, rows []Row) error {
	widths := []float64{30, 22, 18, 9, 12, 30, 30, 22, 40}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(MatchesSheet, col, col, w); err != nil {
			return err
		}
	}
	if err := writeHeader(f, MatchesSheet, s.header, 1, matchHeaders); err != nil {
		return err
	}

	for i, r := range rows {
		row := i + 2
		values := []any{
			r.Title, r.Company, r.Location, r.Percentage, r.Verdict,
			strings.Join(r.Matching, ", "), strings.Join(r.Missing, ", "), r.FairChance, r.URL,
		}
		for col, v := range values {
			if err := f.SetCellValue(MatchesSheet, cell(col+1, row), v); err != nil {
				return err
			}
		}
		style, ok := s.bands[r.Band]
		if !ok {
			style = s.bands[types.BandNone]
		}
		if err := f.SetCellStyle(MatchesSheet, cell(1, row), cell(len(values), row), style); err != nil {
			return err
		}
		if r.URL != "" {
			if err := f.SetCellHyperLink(MatchesSheet, cell(len(values), row), r.URL, "External"); err != nil {
				return err
			}
		}
	}

	if len(rows) > 0 {
		ref := fmt.Sprintf("A1:%s", cell(len(matchHeaders), len(rows)+1))
		if err := f.AutoFilter(MatchesSheet, ref, []excelize.AutoFilterOptions{}); err != nil {
			return err
		}
	}
	return f.SetPanes(MatchesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeTrending(f *excelize.File, s *styles, report Report) error {
	if err := f.SetColWidth(TrendingSheet, "A", "A", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(TrendingSheet, "B", "C", 14); err != nil {
		return err
	}

	generated := report.Generated
	if generated.IsZero() {
		generated = time.Now()
	}
	summary := [][2]any{
		{"Generated:", generated.Format("2006-01-02 15:04:05")},
		{"Resume skills:", report.Resume},
		{"Postings:", report.Postings},
	}
	for i, kv := range summary {
		row := i + 1
		if err := f.SetCellValue(TrendingSheet, cell(1, row), kv[0]); err != nil {
			return err
		}
		if err := f.SetCellStyle(TrendingSheet, cell(1, row), cell(1, row), s.label); err != nil {
			return err
		}
		if err := f.SetCellValue(TrendingSheet, cell(2, row), kv[1]); err != nil {
			return err
		}
	}

	headerRow := len(summary) + 2
	if err := writeHeader(f, TrendingSheet, s.header, headerRow, []string{"Skill", "Postings", "Share %"}); err != nil {
		return err
	}
	for i, sc := range report.Trending {
		row := headerRow + 1 + i
		share := 0
		if report.Postings > 0 {
			share = sc.Count * 100 / report.Postings
		}
		for col, v := range []any{sc.Skill, sc.Count, share} {
			if err := f.SetCellValue(TrendingSheet, cell(col+1, row), v); err != nil {
				return err
			}
		}
	}
	return nil
}
