package formatters

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"talentscout/internal/storage"
	"talentscout/internal/types"
)

func sampleRecord() types.CandidateRecord {
	return types.CandidateRecord{
		ID:              "TS202501021504050001",
		CreatedAt:       time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC),
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Phone:           "+44 20 7946 0958",
		ExperienceYears: 4.5,
		Position:        "Backend Engineer",
		Location:        "London",
		TechStack:       []string{"Go", "PostgreSQL"},
		TechnicalQA: []types.QAPair{
			{Question: "How do goroutines differ from threads?", Answer: "They are multiplexed onto OS threads."},
		},
		SentimentSummary: "Positive",
		Language:         "English",
	}
}

func TestFormatCandidates(t *testing.T) {
	records := []types.CandidateRecord{sampleRecord()}

	tests := []struct {
		format   string
		contains []string
	}{
		{"text", []string{"=== CANDIDATES (1) ===", "Ada Lovelace <ada@example.com>", "4.5 yrs", "[Go, PostgreSQL]"}},
		{"markdown", []string{"# Candidates", "| TS202501021504050001 | Ada Lovelace |"}},
		{"csv", []string{"candidate_id,timestamp,name", "Ada Lovelace,ada@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := GlobalRegistry.Format(records, tt.format)
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("Expected output to contain %q, got:\n%s", want, out)
				}
			}
		})
	}
}

func TestFormatEmptyCandidates(t *testing.T) {
	out, err := GlobalRegistry.Format([]types.CandidateRecord{}, "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if out != "No candidates stored.\n" {
		t.Errorf("Expected empty notice, got %q", out)
	}
}

func TestFormatCandidate(t *testing.T) {
	record := sampleRecord()

	out, err := GlobalRegistry.Format(&record, "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	for _, want := range []string{"Name: Ada Lovelace", "Experience: 4.5 years", "Recorded: 2025-01-02 15:04:05", "1. How do goroutines differ from threads?"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}

	md, err := GlobalRegistry.Format(record, "markdown")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.HasPrefix(md, "# Ada Lovelace\n") {
		t.Errorf("Expected markdown heading, got:\n%s", md)
	}
}

func TestFormatStatistics(t *testing.T) {
	stats := storage.ComputeStatistics([]types.CandidateRecord{sampleRecord()})

	out, err := GlobalRegistry.Format(stats, "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	for _, want := range []string{"Total candidates: 1", "Average experience: 4.5 years", "- Backend Engineer: 1", "- Go: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	out, err := GlobalRegistry.Format([]types.CandidateRecord{sampleRecord()}, "json")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	var decoded []types.CandidateRecord
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got error: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Email != "ada@example.com" {
		t.Errorf("Unexpected decoded records: %+v", decoded)
	}
}

func TestFormatUnknown(t *testing.T) {
	if _, err := GlobalRegistry.Format(sampleRecord(), "csv"); err == nil {
		t.Error("Expected error for csv of a single record")
	}
	if _, err := GlobalRegistry.Format(sampleRecord(), "yaml"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestFormatYears(t *testing.T) {
	tests := map[float64]string{0: "0", 5: "5", 10: "10", 4.5: "4.5"}
	for in, want := range tests {
		if got := formatYears(in); got != want {
			t.Errorf("formatYears(%v): Expected %q, got %q", in, want, got)
		}
	}
}
