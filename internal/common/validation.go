package common

import (
	"fmt"
	"slices"
	"strings"

	"talentscout/internal/utils"
)

// FormatXLSX is written straight to a workbook file and never to stdout
const FormatXLSX = "xlsx"

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// ResolveFormat picks the explicit format, then one implied by the output
// file extension, then the configured default
func ResolveFormat(format, outputFile, defaultFormat string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	switch utils.GetFileExtension(outputFile) {
	case ".json":
		return "json"
	case ".md", ".markdown":
		return "markdown"
	case ".csv":
		return "csv"
	case ".xlsx":
		return FormatXLSX
	case ".txt", ".text":
		return "text"
	}
	return defaultFormat
}
