package report

import (
	"fmt"

	"github.com/grokify/releaseconductor/pkg/model"
)

// Formatter defines the interface for formatting results.
type Formatter interface {
	// FormatPublishResult formats a publish result.
	FormatPublishResult(result *model.PublishResult) (string, error)
}

// New returns the formatter for a format name.
func New(format string) (Formatter, error) {
	switch format {
	case "", "table":
		return NewTableFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "markdown", "md":
		return NewMarkdownFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	case "yaml", "yml":
		return NewYAMLFormatter(), nil
	}
	return nil, fmt.Errorf("unknown output format %q (want table, json, markdown, csv or yaml)", format)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func releaseAction(result *model.PublishResult) string {
	if result.ReleaseCreated {
		return "created"
	}
	return "updated"
}
