package storage

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"talentscout/internal/errors"
	"talentscout/internal/types"
)

var csvHeader = []string{
	"candidate_id", "timestamp", "name", "email", "phone", "experience", "position",
	"location", "tech_stack", "technical_responses", "sentiment_summary", "language", "exited_early",
}

// WriteCSV writes one row per record after a header row
func WriteCSV(w io.Writer, records []types.CandidateRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.ID,
			formatTimestamp(r.CreatedAt),
			r.Name,
			r.Email,
			r.Phone,
			strconv.FormatFloat(r.ExperienceYears, 'f', -1, 64),
			r.Position,
			r.Location,
			strings.Join(r.TechStack, ", "),
			formatQA(r.TechnicalQA),
			r.SentimentSummary,
			r.Language,
			strconv.FormatBool(r.ExitedEarly),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportCSV writes records to path; an empty record set is an error
func ExportCSV(records []types.CandidateRecord, path string) error {
	if len(records) == 0 {
		return errors.NewPersistenceError(errors.ErrCodeRecordNotFound, "no candidates to export", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "cannot create export directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "cannot create export file", err).
			WithContext("path", path)
	}
	defer func() { _ = file.Close() }()

	if err := WriteCSV(file, records); err != nil {
		return errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "cannot write CSV export", err).
			WithContext("path", path)
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatQA(pairs []types.QAPair) string {
	parts := make([]string, 0, len(pairs))
	for _, qa := range pairs {
		parts = append(parts, "Q: "+qa.Question+" A: "+qa.Answer)
	}
	return strings.Join(parts, " | ")
}
