package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/grokify/releaseconductor/pkg/model"
)

// TableFormatter formats results as text tables.
type TableFormatter struct{}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// FormatPublishResult formats a publish result as a text table.
func (f *TableFormatter) FormatPublishResult(result *model.PublishResult) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Release %s %s (%s)\n",
		result.Release.TagName, releaseAction(result), result.Timestamp.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Repository: %s | Mode: %s | Override: %t\n",
		result.Release.Repo.FullName(), result.Mode, result.Override))
	sb.WriteString(fmt.Sprintf("Uploaded: %d | Skipped: %d | Failed: %d\n",
		result.UploadedCount, result.SkippedCount, result.FailedCount))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if len(result.Files) == 0 {
		sb.WriteString("No files matched.\n")
		return sb.String(), nil
	}

	sb.WriteString(fmt.Sprintf("%-30s %-20s %-10s %-10s\n", "ASSET", "DECISION", "OUTCOME", "SIZE"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, file := range result.Files {
		size := ""
		if file.Size > 0 {
			size = humanize.Bytes(uint64(file.Size))
		}
		sb.WriteString(fmt.Sprintf("%-30s %-20s %-10s %-10s\n",
			truncate(file.AssetName, 30), file.Decision, file.Outcome, size))
	}

	var failed []model.FileResult
	for _, file := range result.Files {
		if file.Outcome == model.OutcomeFailed {
			failed = append(failed, file)
		}
	}
	if len(failed) > 0 {
		sb.WriteString("\nErrors:\n")
		for _, file := range failed {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", file.AssetName, file.Error))
		}
	}

	return sb.String(), nil
}
