package releaser

import (
	"context"
	"errors"

	"github.com/grokify/releaseconductor/pkg/model"
)

// ErrReleaseNotFound is returned when no release exists for the requested tag.
var ErrReleaseNotFound = errors.New("release not found")

// Releaser defines the release and asset operations consumed by the publisher.
type Releaser interface {
	// GetReleaseByTag returns the release for a tag, or ErrReleaseNotFound.
	GetReleaseByTag(ctx context.Context, repo model.RepoRef, tag string) (*model.Release, error)

	// CreateRelease creates a new release for a repository.
	CreateRelease(ctx context.Context, req *model.ReleaseRequest) (*model.Release, error)

	// UpdateRelease overwrites the mutable fields of an existing release.
	UpdateRelease(ctx context.Context, releaseID int64, req *model.ReleaseRequest) (*model.Release, error)

	// ListAssets returns every asset attached to a release.
	ListAssets(ctx context.Context, repo model.RepoRef, releaseID int64) ([]model.Asset, error)

	// DeleteAsset removes a release asset.
	DeleteAsset(ctx context.Context, repo model.RepoRef, assetID int64) error

	// UploadAsset sends a buffered file to a release upload URL template.
	UploadAsset(ctx context.Context, uploadURL string, upload *model.AssetUpload) (*model.Asset, error)
}

// Options configures the GitHub client.
type Options struct {
	Token    string // Bearer token; empty means anonymous
	BaseURL  string // REST API base, e.g. https://ghe.example.com/api/v3/
	TimeZone string // Forwarded as the Time-Zone request header
}

// NewGitHub creates a new GitHub releaser.
func NewGitHub(opts Options) (Releaser, error) {
	return NewGitHubReleaser(opts)
}
