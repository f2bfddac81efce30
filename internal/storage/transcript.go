package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"talentscout/internal/errors"
	"talentscout/internal/types"
)

var (
	heavyRule = strings.Repeat("=", 60)
	lightRule = strings.Repeat("-", 60)
)

// TranscriptExporter writes plain-text interview transcripts
type TranscriptExporter struct {
	dir string
	now func() time.Time
}

// NewTranscriptExporter writes default-named transcripts under dir
func NewTranscriptExporter(dir string) *TranscriptExporter {
	if dir == "" {
		dir = "."
	}
	return &TranscriptExporter{dir: dir, now: time.Now}
}

// DefaultFilename is transcript_<Name_With_Underscores>_<YYYYmmdd_HHMMSS>.txt
func (e *TranscriptExporter) DefaultFilename(record *types.CandidateRecord) string {
	name := "Unknown"
	if record != nil && record.Name != "" {
		name = strings.ReplaceAll(record.Name, " ", "_")
	}
	return fmt.Sprintf("transcript_%s_%s.txt", name, e.now().Format("20060102_150405"))
}

// Export writes history and the collected candidate fields into the transcript
// directory and returns the path. An empty filename uses DefaultFilename; a
// name with path separators is rejected.
func (e *TranscriptExporter) Export(history []types.Message, record *types.CandidateRecord, filename string) (string, error) {
	if filename == "" {
		filename = e.DefaultFilename(record)
	}
	if strings.ContainsAny(filename, `/\`) || filename == "." || filename == ".." {
		return "", errors.NewValidationError(errors.ErrCodeInvalidRequest, "transcript filename must not contain a path", nil).
			WithContext("filename", filename)
	}
	path := filepath.Join(e.dir, filename)

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return "", errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "cannot create transcript directory", err).
			WithContext("path", path)
	}
	if err := os.WriteFile(path, []byte(e.Render(history, record)), 0600); err != nil {
		return "", errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "cannot write transcript", err).
			WithContext("path", path)
	}
	return path, nil
}

// Render produces the transcript text
func (e *TranscriptExporter) Render(history []types.Message, record *types.CandidateRecord) string {
	var b strings.Builder

	b.WriteString(heavyRule + "\n")
	b.WriteString("TALENTSCOUT HIRING ASSISTANT - INTERVIEW TRANSCRIPT\n")
	b.WriteString(heavyRule + "\n\n")

	b.WriteString("CANDIDATE INFORMATION:\n")
	b.WriteString(lightRule + "\n")
	for _, line := range candidateInfo(record) {
		fmt.Fprintf(&b, "%s: %s\n", line[0], line[1])
	}
	b.WriteString("\n")

	b.WriteString("CONVERSATION TRANSCRIPT:\n")
	b.WriteString(lightRule + "\n\n")
	for _, msg := range history {
		if msg.Role == types.RoleSystem {
			continue
		}
		role := "CANDIDATE"
		if msg.Role == types.RoleAssistant {
			role = "ASSISTANT"
		}
		fmt.Fprintf(&b, "%s:\n%s\n\n", role, msg.Content)
	}

	b.WriteString(heavyRule + "\n")
	fmt.Fprintf(&b, "Transcript generated: %s\n", e.now().Format("2006-01-02 15:04:05"))
	b.WriteString(heavyRule + "\n")
	return b.String()
}

// candidateInfo lists the collected fields in collection order, skipping unset
// ones; id, timestamp and conversation history are never included
func candidateInfo(record *types.CandidateRecord) [][2]string {
	if record == nil {
		return nil
	}

	var lines [][2]string
	add := func(key, value string) {
		if value != "" {
			lines = append(lines, [2]string{key, value})
		}
	}

	add("NAME", record.Name)
	add("EMAIL", record.Email)
	add("PHONE", record.Phone)
	// zero years is only distinguishable from unset once the position is known
	if record.ExperienceYears > 0 || record.Position != "" {
		add("EXPERIENCE", strconv.FormatFloat(record.ExperienceYears, 'f', -1, 64))
	}
	add("POSITION", record.Position)
	add("LOCATION", record.Location)
	add("TECH_STACK", strings.Join(record.TechStack, ", "))
	if len(record.TechnicalQA) > 0 {
		add("TECHNICAL_RESPONSES", strconv.Itoa(len(record.TechnicalQA)))
	}
	add("SENTIMENT_SUMMARY", record.SentimentSummary)
	add("LANGUAGE", record.Language)
	if record.ExitedEarly {
		add("EXITED_EARLY", "true")
	}
	return lines
}
