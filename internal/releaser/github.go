package releaser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v84/github"
	ghErrors "github.com/grokify/gogithub/errors"
	"github.com/grokify/gogithub/release"

	"github.com/grokify/releaseconductor/pkg/model"
)

// GitHubReleaser implements Releaser for GitHub.
type GitHubReleaser struct {
	client *github.Client
}

// NewGitHubReleaser creates a new GitHub releaser.
func NewGitHubReleaser(opts Options) (*GitHubReleaser, error) {
	client := github.NewClient(newHTTPClient(context.Background(), opts.Token, opts.TimeZone))

	if opts.BaseURL != "" && strings.TrimSuffix(opts.BaseURL, "/") != strings.TrimSuffix(client.BaseURL.String(), "/") {
		// Uploads always go to the release's own upload_url, so the
		// enterprise upload base is only a placeholder.
		enterprise, err := client.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set api url %q: %w", opts.BaseURL, err)
		}
		client = enterprise
	}

	return &GitHubReleaser{client: client}, nil
}

// NewGitHubReleaserWithClient wraps an existing go-github client.
func NewGitHubReleaserWithClient(client *github.Client) *GitHubReleaser {
	return &GitHubReleaser{client: client}
}

// GetReleaseByTag returns the release for a tag, or ErrReleaseNotFound.
func (r *GitHubReleaser) GetReleaseByTag(ctx context.Context, repo model.RepoRef, tag string) (*model.Release, error) {
	ghRelease, err := release.GetReleaseByTag(ctx, r.client, repo.Owner, repo.Name, tag)
	if err != nil {
		if ghErrors.IsNotFound(ghErrors.Translate(err, nil)) {
			return nil, fmt.Errorf("%s tag %s: %w", repo.FullName(), tag, ErrReleaseNotFound)
		}
		return nil, fmt.Errorf("failed to get release by tag %s: %w", tag, err)
	}
	return convertRelease(ghRelease, repo), nil
}

// CreateRelease creates a new release for a repository.
func (r *GitHubReleaser) CreateRelease(ctx context.Context, req *model.ReleaseRequest) (*model.Release, error) {
	ghRelease := &github.RepositoryRelease{
		TagName:    github.Ptr(req.TagName),
		Name:       github.Ptr(req.Name),
		Body:       github.Ptr(req.Body),
		Draft:      github.Ptr(req.Draft),
		Prerelease: github.Ptr(req.Prerelease),
	}

	created, err := release.CreateRelease(ctx, r.client, req.Repo.Owner, req.Repo.Name, ghRelease)
	if err != nil {
		return nil, fmt.Errorf("failed to create release: %w", err)
	}

	return convertRelease(created, req.Repo), nil
}

// UpdateRelease overwrites name, body, draft and prerelease of a release.
func (r *GitHubReleaser) UpdateRelease(ctx context.Context, releaseID int64, req *model.ReleaseRequest) (*model.Release, error) {
	ghRelease := &github.RepositoryRelease{
		Name:       github.Ptr(req.Name),
		Body:       github.Ptr(req.Body),
		Draft:      github.Ptr(req.Draft),
		Prerelease: github.Ptr(req.Prerelease),
	}

	updated, err := release.EditRelease(ctx, r.client, req.Repo.Owner, req.Repo.Name, releaseID, ghRelease)
	if err != nil {
		return nil, fmt.Errorf("failed to update release %d: %w", releaseID, err)
	}

	return convertRelease(updated, req.Repo), nil
}

// ListAssets returns every asset attached to a release, following pagination.
func (r *GitHubReleaser) ListAssets(ctx context.Context, repo model.RepoRef, releaseID int64) ([]model.Asset, error) {
	ghAssets, err := release.ListReleaseAssets(ctx, r.client, repo.Owner, repo.Name, releaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets for release %d: %w", releaseID, err)
	}

	assets := make([]model.Asset, 0, len(ghAssets))
	for _, a := range ghAssets {
		if a == nil {
			continue
		}
		assets = append(assets, convertAsset(a))
	}
	return assets, nil
}

// DeleteAsset removes a release asset.
func (r *GitHubReleaser) DeleteAsset(ctx context.Context, repo model.RepoRef, assetID int64) error {
	if _, err := r.client.Repositories.DeleteReleaseAsset(ctx, repo.Owner, repo.Name, assetID); err != nil {
		return fmt.Errorf("failed to delete asset %d: %w", assetID, err)
	}
	return nil
}

// UploadAsset sends the buffered upload to the release's upload URL
// template. go-github's UploadReleaseAsset requires an *os.File, so the
// request is built by hand to send the in-memory content.
func (r *GitHubReleaser) UploadAsset(ctx context.Context, uploadURL string, upload *model.AssetUpload) (*model.Asset, error) {
	u, err := ExpandUploadURL(uploadURL, upload.Name)
	if err != nil {
		return nil, err
	}

	req, err := r.client.NewUploadRequest(u, bytes.NewReader(upload.Content), upload.Size, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request for %s: %w", upload.Name, err)
	}

	asset := new(github.ReleaseAsset)
	if _, err := r.client.Do(ctx, req, asset); err != nil {
		return nil, fmt.Errorf("failed to upload asset %s: %w", upload.Name, err)
	}

	result := convertAsset(asset)
	return &result, nil
}

// ExpandUploadURL strips the RFC 6570 query template (e.g. "{?name,label}")
// from a release upload_url and adds the asset name as a query parameter.
func ExpandUploadURL(template, name string) (string, error) {
	if template == "" {
		return "", errors.New("release has no upload url")
	}
	base, _, _ := strings.Cut(template, "{")

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("failed to parse upload url %q: %w", template, err)
	}
	q := u.Query()
	q.Set("name", name)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func convertRelease(r *github.RepositoryRelease, repo model.RepoRef) *model.Release {
	return &model.Release{
		ID:         r.GetID(),
		TagName:    r.GetTagName(),
		Name:       r.GetName(),
		Body:       r.GetBody(),
		Draft:      r.GetDraft(),
		Prerelease: r.GetPrerelease(),
		UploadURL:  r.GetUploadURL(),
		HTMLURL:    r.GetHTMLURL(),
		Repo:       repo,
	}
}

func convertAsset(a *github.ReleaseAsset) model.Asset {
	return model.Asset{
		ID:                 a.GetID(),
		Name:               a.GetName(),
		ContentType:        a.GetContentType(),
		Size:               int64(a.GetSize()),
		BrowserDownloadURL: a.GetBrowserDownloadURL(),
	}
}
