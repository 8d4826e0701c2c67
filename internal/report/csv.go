package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/grokify/releaseconductor/pkg/model"
)

// CSVFormatter formats results as CSV.
type CSVFormatter struct{}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// FormatPublishResult formats a publish result as CSV, one row per file.
func (f *CSVFormatter) FormatPublishResult(result *model.PublishResult) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Repository", "Tag", "Path", "Asset", "Decision", "Outcome", "Size", "Asset ID", "URL", "Error"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, file := range result.Files {
		row := []string{
			result.Release.Repo.FullName(),
			result.Release.TagName,
			file.Path,
			file.AssetName,
			string(file.Decision),
			string(file.Outcome),
			strconv.FormatInt(file.Size, 10),
			strconv.FormatInt(file.AssetID, 10),
			file.BrowserDownloadURL,
			file.Error,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return buf.String(), w.Error()
}
