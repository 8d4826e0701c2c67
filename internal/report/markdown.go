package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/grokify/releaseconductor/pkg/model"
)

// MarkdownFormatter formats results as Markdown.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new Markdown formatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// FormatPublishResult formats a publish result as Markdown.
func (f *MarkdownFormatter) FormatPublishResult(result *model.PublishResult) (string, error) {
	var sb strings.Builder

	rel := result.Release
	if rel.HTMLURL != "" {
		sb.WriteString(fmt.Sprintf("# Release [%s](%s)\n\n", rel.TagName, rel.HTMLURL))
	} else {
		sb.WriteString(fmt.Sprintf("# Release %s\n\n", rel.TagName))
	}
	sb.WriteString(fmt.Sprintf("**Repository:** %s\n\n", rel.Repo.FullName()))
	sb.WriteString(fmt.Sprintf("**Release:** %s (%s)\n\n", releaseAction(result), result.Timestamp.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("**Uploaded:** %d | **Skipped:** %d | **Failed:** %d\n\n",
		result.UploadedCount, result.SkippedCount, result.FailedCount))

	if len(result.Files) == 0 {
		sb.WriteString("_No files matched._\n")
		return sb.String(), nil
	}

	sb.WriteString("| Asset | Decision | Outcome | Size |\n")
	sb.WriteString("|-------|----------|---------|------|\n")

	for _, file := range result.Files {
		name := file.AssetName
		if file.BrowserDownloadURL != "" {
			name = fmt.Sprintf("[%s](%s)", file.AssetName, file.BrowserDownloadURL)
		}
		size := ""
		if file.Size > 0 {
			size = humanize.Bytes(uint64(file.Size))
		}
		outcome := outcomeIcon(file.Outcome) + " " + string(file.Outcome)
		if file.Error != "" {
			outcome += ": " + truncate(file.Error, 60)
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", name, file.Decision, outcome, size))
	}

	return sb.String(), nil
}

func outcomeIcon(o model.Outcome) string {
	switch o {
	case model.OutcomeUploaded, model.OutcomeReplaced:
		return "✅"
	case model.OutcomeSkipped:
		return "⏭️"
	default:
		return "❌"
	}
}
