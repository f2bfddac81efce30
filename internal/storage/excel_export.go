package storage

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"talentscout/internal/errors"
	"talentscout/internal/types"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet    = "Summary"
	candidatesSheet = "Candidates"
	responsesSheet  = "Technical Responses"
)

// ExportExcel writes a workbook with summary, candidate and response sheets and
// returns the path written, which always ends in .xlsx
func ExportExcel(records []types.CandidateRecord, stats Statistics, path string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return "", excelError(err)
	}
	for _, sheet := range []string{candidatesSheet, responsesSheet} {
		if _, err := f.NewSheet(sheet); err != nil {
			return "", excelError(err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return "", excelError(err)
	}

	if err := writeSummarySheet(f, headerStyle, stats); err != nil {
		return "", excelError(err)
	}
	if err := writeCandidatesSheet(f, headerStyle, records); err != nil {
		return "", excelError(err)
	}
	if err := writeResponsesSheet(f, headerStyle, records); err != nil {
		return "", excelError(err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "cannot save workbook", err).
			WithContext("path", path)
	}
	return path, nil
}

func excelError(err error) error {
	return errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "cannot build workbook", err)
}

func writeSummarySheet(f *excelize.File, headerStyle int, stats Statistics) error {
	_ = f.SetColWidth(summarySheet, "A", "A", 28)
	_ = f.SetColWidth(summarySheet, "B", "B", 40)

	rows := [][]any{
		{"TalentScout Candidate Report"},
		{},
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Total Candidates:", stats.TotalCandidates},
		{"Average Experience (years):", stats.AvgExperience},
		{},
		{"Positions"},
	}
	for _, position := range slices.Sorted(maps.Keys(stats.Positions)) {
		rows = append(rows, []any{position, stats.Positions[position]})
	}
	rows = append(rows, []any{}, []any{"Top Technologies"})
	for _, tech := range stats.TopTechnologies {
		rows = append(rows, []any{tech.Technology, tech.Count})
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
		if len(row) == 1 {
			if err := f.SetCellStyle(summarySheet, cell, fmt.Sprintf("B%d", i+1), headerStyle); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeCandidatesSheet(f *excelize.File, headerStyle int, records []types.CandidateRecord) error {
	header := make([]any, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(candidatesSheet, "A1", &header); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(csvHeader))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(candidatesSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, r := range records {
		row := []any{
			r.ID, formatTimestamp(r.CreatedAt), r.Name, r.Email, r.Phone, r.ExperienceYears,
			r.Position, r.Location, strings.Join(r.TechStack, ", "), len(r.TechnicalQA),
			r.SentimentSummary, r.Language, r.ExitedEarly,
		}
		if err := f.SetSheetRow(candidatesSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}

	if len(records) > 0 {
		if err := f.AutoFilter(candidatesSheet, fmt.Sprintf("A1:%s%d", lastCol, len(records)+1), []excelize.AutoFilterOptions{}); err != nil {
			return err
		}
	}
	return f.SetPanes(candidatesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeResponsesSheet(f *excelize.File, headerStyle int, records []types.CandidateRecord) error {
	_ = f.SetColWidth(responsesSheet, "A", "B", 20)
	_ = f.SetColWidth(responsesSheet, "C", "D", 60)

	header := []any{"Candidate ID", "Name", "Question", "Answer"}
	if err := f.SetSheetRow(responsesSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(responsesSheet, "A1", "D1", headerStyle); err != nil {
		return err
	}

	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}

	row := 2
	for _, r := range records {
		for _, qa := range r.TechnicalQA {
			values := []any{r.ID, r.Name, qa.Question, qa.Answer}
			if err := f.SetSheetRow(responsesSheet, fmt.Sprintf("A%d", row), &values); err != nil {
				return err
			}
			if err := f.SetCellStyle(responsesSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), wrapStyle); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}
