package report

import (
	"gopkg.in/yaml.v3"

	"github.com/grokify/releaseconductor/pkg/model"
)

// YAMLFormatter formats results as YAML.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// FormatPublishResult formats a publish result as YAML.
func (f *YAMLFormatter) FormatPublishResult(result *model.PublishResult) (string, error) {
	data, err := yaml.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
