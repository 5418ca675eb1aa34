package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/thesavant42/dexsome/internal/db"
	"github.com/thesavant42/dexsome/internal/models"
)

// DefaultExportName returns the dated default filename for a catalog export
func DefaultExportName(now time.Time) string {
	return fmt.Sprintf("dexsome-%s.md", now.Format("2006-01-02"))
}

// RenderCatalogMarkdown builds the markdown document for an export
func RenderCatalogMarkdown(records []models.FullRecord, typeCounts []db.TypeCount, generated time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Catalog Export\n\n")
	sb.WriteString(fmt.Sprintf("**Total Records:** %d\n", len(records)))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", generated.Format("2006-01-02 15:04:05")))

	if len(typeCounts) > 0 {
		sb.WriteString("## Types\n\n")
		sb.WriteString("| Type | Records |\n")
		sb.WriteString("|------|---------|\n")
		for _, tc := range typeCounts {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", tc.Type, tc.Count))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Records\n\n")
	if len(records) == 0 {
		sb.WriteString("No data\n")
		return sb.String()
	}
	sb.WriteString("| # | Name | Types | Total |\n")
	sb.WriteString("|---|------|-------|-------|\n")
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d |\n",
			models.FormatID(r.ID), models.FormatName(r.Name), strings.Join(r.Categories(), " / "), r.StatTotal()))
	}
	return sb.String()
}

// ExportRecordsToMarkdown writes the catalog export to filename
func ExportRecordsToMarkdown(filename string, records []models.FullRecord, typeCounts []db.TypeCount) error {
	content := RenderCatalogMarkdown(records, typeCounts, time.Now())
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write markdown file: %w", err)
	}
	return nil
}
