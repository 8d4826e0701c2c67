package model

import "time"

// Decision is the reconciliation verdict for a single local file.
type Decision string

const (
	DecisionUpload           Decision = "upload-new"
	DecisionDeleteAndReplace Decision = "delete-and-reupload"
	DecisionSkipDuplicate    Decision = "skip-duplicate"
)

// Decide derives the reconciliation decision from a name match and the override flag.
func Decide(exists, override bool) Decision {
	switch {
	case !exists:
		return DecisionUpload
	case override:
		return DecisionDeleteAndReplace
	default:
		return DecisionSkipDuplicate
	}
}

// Outcome is the terminal state of a single file.
type Outcome string

const (
	OutcomeUploaded Outcome = "uploaded"
	OutcomeReplaced Outcome = "replaced"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFailed   Outcome = "failed"
)

// PublishResult contains the results of publishing a release and its assets.
type PublishResult struct {
	Timestamp          time.Time    `json:"timestamp" yaml:"timestamp"`
	Release            Release      `json:"release" yaml:"release"`
	ReleaseCreated     bool         `json:"releaseCreated" yaml:"releaseCreated"`
	Mode               string       `json:"mode" yaml:"mode"`
	Override           bool         `json:"override" yaml:"override"`
	Files              []FileResult `json:"files,omitempty" yaml:"files,omitempty"`
	UploadedCount      int          `json:"uploadedCount" yaml:"uploadedCount"`
	SkippedCount       int          `json:"skippedCount" yaml:"skippedCount"`
	FailedCount        int          `json:"failedCount" yaml:"failedCount"`
	BrowserDownloadURL string       `json:"browserDownloadUrl,omitempty" yaml:"browserDownloadUrl,omitempty"`
}

// FileResult records what happened to one matched file.
type FileResult struct {
	Path               string   `json:"path" yaml:"path"`
	AssetName          string   `json:"assetName" yaml:"assetName"`
	Decision           Decision `json:"decision" yaml:"decision"`
	Outcome            Outcome  `json:"outcome" yaml:"outcome"`
	Size               int64    `json:"size,omitempty" yaml:"size,omitempty"`
	AssetID            int64    `json:"assetId,omitempty" yaml:"assetId,omitempty"`
	BrowserDownloadURL string   `json:"browserDownloadUrl,omitempty" yaml:"browserDownloadUrl,omitempty"`
	Error              string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// Add appends a file result and updates the counters.
func (r *PublishResult) Add(f FileResult) {
	r.Files = append(r.Files, f)
	switch f.Outcome {
	case OutcomeUploaded, OutcomeReplaced:
		r.UploadedCount++
	case OutcomeSkipped:
		r.SkippedCount++
	case OutcomeFailed:
		r.FailedCount++
	}
}
