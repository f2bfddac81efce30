package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"talentscout/internal/storage"
	"talentscout/internal/types"
)

// Data type keys used by the registry
const (
	typeAny        = "any"
	typeCandidates = "CandidateRecords"
	typeCandidate  = "CandidateRecord"
	typeStatistics = "Statistics"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// GlobalRegistry holds the default formatters
var GlobalRegistry = NewFormatterRegistry()

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", typeAny, &JSONFormatter{})
	registry.RegisterFormatter("text", typeCandidates, &CandidatesTextFormatter{})
	registry.RegisterFormatter("markdown", typeCandidates, &CandidatesMarkdownFormatter{})
	registry.RegisterFormatter("csv", typeCandidates, &CandidatesCSVFormatter{})
	registry.RegisterFormatter("text", typeCandidate, &CandidateTextFormatter{})
	registry.RegisterFormatter("markdown", typeCandidate, &CandidateMarkdownFormatter{})
	registry.RegisterFormatter("text", typeStatistics, &StatisticsTextFormatter{})
	registry.RegisterFormatter("markdown", typeStatistics, &StatisticsMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters[typeAny]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case []types.CandidateRecord:
		return typeCandidates
	case types.CandidateRecord, *types.CandidateRecord:
		return typeCandidate
	case storage.Statistics:
		return typeStatistics
	default:
		return typeAny
	}
}

func candidateOf(data any) (types.CandidateRecord, error) {
	switch v := data.(type) {
	case types.CandidateRecord:
		return v, nil
	case *types.CandidateRecord:
		if v == nil {
			return types.CandidateRecord{}, fmt.Errorf("expected CandidateRecord, got nil")
		}
		return *v, nil
	}
	return types.CandidateRecord{}, fmt.Errorf("expected CandidateRecord, got %T", data)
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return typeAny
}

// CandidatesTextFormatter lists stored candidates one per line
type CandidatesTextFormatter struct{}

func (f *CandidatesTextFormatter) Format(data any) (string, error) {
	records, ok := data.([]types.CandidateRecord)
	if !ok {
		return "", fmt.Errorf("expected []CandidateRecord, got %T", data)
	}
	if len(records) == 0 {
		return "No candidates stored.\n", nil
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("=== CANDIDATES (%d) ===\n\n", len(records)))
	for _, r := range records {
		output.WriteString(fmt.Sprintf("%s  %s <%s>  %s, %s yrs  [%s]\n",
			r.ID, r.Name, r.Email, r.Position, formatYears(r.ExperienceYears), strings.Join(r.TechStack, ", ")))
	}
	return output.String(), nil
}

func (f *CandidatesTextFormatter) SupportedType() string {
	return typeCandidates
}

// CandidatesMarkdownFormatter renders stored candidates as a table
type CandidatesMarkdownFormatter struct{}

func (f *CandidatesMarkdownFormatter) Format(data any) (string, error) {
	records, ok := data.([]types.CandidateRecord)
	if !ok {
		return "", fmt.Errorf("expected []CandidateRecord, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Candidates\n\n")
	if len(records) == 0 {
		output.WriteString("No candidates stored.\n")
		return output.String(), nil
	}

	output.WriteString("| ID | Name | Email | Position | Experience | Tech Stack |\n")
	output.WriteString("|---|---|---|---|---|---|\n")
	for _, r := range records {
		output.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			r.ID, escapeCell(r.Name), r.Email, escapeCell(r.Position),
			formatYears(r.ExperienceYears), escapeCell(strings.Join(r.TechStack, ", "))))
	}
	return output.String(), nil
}

func (f *CandidatesMarkdownFormatter) SupportedType() string {
	return typeCandidates
}

// CandidatesCSVFormatter writes the same columns as the CSV export
type CandidatesCSVFormatter struct{}

func (f *CandidatesCSVFormatter) Format(data any) (string, error) {
	records, ok := data.([]types.CandidateRecord)
	if !ok {
		return "", fmt.Errorf("expected []CandidateRecord, got %T", data)
	}
	var output strings.Builder
	if err := storage.WriteCSV(&output, records); err != nil {
		return "", err
	}
	return output.String(), nil
}

func (f *CandidatesCSVFormatter) SupportedType() string {
	return typeCandidates
}

// CandidateTextFormatter shows one candidate in full
type CandidateTextFormatter struct{}

func (f *CandidateTextFormatter) Format(data any) (string, error) {
	r, err := candidateOf(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	output.WriteString("=== CANDIDATE ===\n\n")
	for _, row := range candidateRows(r) {
		output.WriteString(fmt.Sprintf("%s: %s\n", row[0], row[1]))
	}

	if len(r.TechnicalQA) > 0 {
		output.WriteString("\n=== TECHNICAL RESPONSES ===\n\n")
		for i, qa := range r.TechnicalQA {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, qa.Question))
			output.WriteString("   Answer: ")
			output.WriteString(qa.Answer)
			output.WriteString("\n\n")
		}
	}
	return output.String(), nil
}

func (f *CandidateTextFormatter) SupportedType() string {
	return typeCandidate
}

// CandidateMarkdownFormatter shows one candidate in full
type CandidateMarkdownFormatter struct{}

func (f *CandidateMarkdownFormatter) Format(data any) (string, error) {
	r, err := candidateOf(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("# %s\n\n", r.Name))
	for _, row := range candidateRows(r) {
		output.WriteString(fmt.Sprintf("- **%s:** %s\n", row[0], row[1]))
	}

	if len(r.TechnicalQA) > 0 {
		output.WriteString("\n## Technical Responses\n\n")
		for i, qa := range r.TechnicalQA {
			output.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, qa.Question))
			output.WriteString(qa.Answer)
			output.WriteString("\n\n")
		}
	}
	return output.String(), nil
}

func (f *CandidateMarkdownFormatter) SupportedType() string {
	return typeCandidate
}

// StatisticsTextFormatter summarises the stored candidates
type StatisticsTextFormatter struct{}

func (f *StatisticsTextFormatter) Format(data any) (string, error) {
	stats, ok := data.(storage.Statistics)
	if !ok {
		return "", fmt.Errorf("expected Statistics, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== CANDIDATE STATISTICS ===\n\n")
	output.WriteString(fmt.Sprintf("Total candidates: %d\n", stats.TotalCandidates))
	output.WriteString(fmt.Sprintf("Average experience: %s years\n", formatYears(stats.AvgExperience)))

	if len(stats.Positions) > 0 {
		output.WriteString("\nPositions:\n")
		for _, position := range sortedKeys(stats.Positions) {
			output.WriteString(fmt.Sprintf("- %s: %d\n", position, stats.Positions[position]))
		}
	}
	if len(stats.TopTechnologies) > 0 {
		output.WriteString("\nTop technologies:\n")
		for _, tc := range stats.TopTechnologies {
			output.WriteString(fmt.Sprintf("- %s: %d\n", tc.Technology, tc.Count))
		}
	}
	return output.String(), nil
}

func (f *StatisticsTextFormatter) SupportedType() string {
	return typeStatistics
}

// StatisticsMarkdownFormatter summarises the stored candidates
type StatisticsMarkdownFormatter struct{}

func (f *StatisticsMarkdownFormatter) Format(data any) (string, error) {
	stats, ok := data.(storage.Statistics)
	if !ok {
		return "", fmt.Errorf("expected Statistics, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Candidate Statistics\n\n")
	output.WriteString(fmt.Sprintf("**Total candidates:** %d\n\n", stats.TotalCandidates))
	output.WriteString(fmt.Sprintf("**Average experience:** %s years\n\n", formatYears(stats.AvgExperience)))

	if len(stats.Positions) > 0 {
		output.WriteString("## Positions\n\n")
		for _, position := range sortedKeys(stats.Positions) {
			output.WriteString(fmt.Sprintf("- %s: %d\n", position, stats.Positions[position]))
		}
		output.WriteString("\n")
	}
	if len(stats.TopTechnologies) > 0 {
		output.WriteString("## Top Technologies\n\n")
		output.WriteString("| Technology | Candidates |\n|---|---|\n")
		for _, tc := range stats.TopTechnologies {
			output.WriteString(fmt.Sprintf("| %s | %d |\n", escapeCell(tc.Technology), tc.Count))
		}
	}
	return output.String(), nil
}

func (f *StatisticsMarkdownFormatter) SupportedType() string {
	return typeStatistics
}

func candidateRows(r types.CandidateRecord) [][2]string {
	rows := [][2]string{
		{"ID", r.ID},
		{"Name", r.Name},
		{"Email", r.Email},
		{"Phone", r.Phone},
		{"Experience", formatYears(r.ExperienceYears) + " years"},
		{"Position", r.Position},
		{"Location", r.Location},
		{"Tech Stack", strings.Join(r.TechStack, ", ")},
		{"Language", r.Language},
		{"Sentiment", r.SentimentSummary},
	}
	if !r.CreatedAt.IsZero() {
		rows = append(rows, [2]string{"Recorded", r.CreatedAt.Format("2006-01-02 15:04:05")})
	}
	if r.ExitedEarly {
		rows = append(rows, [2]string{"Status", "exited early"})
	}
	return rows
}

func formatYears(years float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", years), "0"), ".")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
