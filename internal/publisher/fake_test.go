package publisher

import (
	"context"
	"fmt"

	"github.com/grokify/releaseconductor/internal/releaser"
	"github.com/grokify/releaseconductor/pkg/model"
)

// fakeReleaser is an in-memory Releaser that records every call.
type fakeReleaser struct {
	nextID   int64
	releases map[string]*model.Release
	assets   map[int64][]model.Asset

	getErr     error
	uploadErrs map[string]error
	deleteErrs map[int64]error

	creates []model.ReleaseRequest
	updates []model.ReleaseRequest
	deletes []int64
	uploads []model.AssetUpload
}

func newFakeReleaser() *fakeReleaser {
	return &fakeReleaser{
		nextID:     100,
		releases:   map[string]*model.Release{},
		assets:     map[int64][]model.Asset{},
		uploadErrs: map[string]error{},
		deleteErrs: map[int64]error{},
	}
}

var _ releaser.Releaser = (*fakeReleaser)(nil)

func (f *fakeReleaser) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeReleaser) addRelease(tag string, assetNames ...string) *model.Release {
	rel := &model.Release{
		ID:        f.id(),
		TagName:   tag,
		Name:      "old name",
		Body:      "old body",
		UploadURL: fmt.Sprintf("https://uploads.example.com/releases/%s/assets{?name,label}", tag),
	}
	f.releases[tag] = rel
	for _, name := range assetNames {
		f.assets[rel.ID] = append(f.assets[rel.ID], model.Asset{
			ID:                 f.id(),
			Name:               name,
			BrowserDownloadURL: "https://example.com/old/" + name,
		})
	}
	return rel
}

func (f *fakeReleaser) releaseByUploadURL(uploadURL string) *model.Release {
	for _, rel := range f.releases {
		if rel.UploadURL == uploadURL {
			return rel
		}
	}
	return nil
}

func (f *fakeReleaser) assetNames(tag string) []string {
	var names []string
	for _, a := range f.assets[f.releases[tag].ID] {
		names = append(names, a.Name)
	}
	return names
}

func (f *fakeReleaser) GetReleaseByTag(ctx context.Context, repo model.RepoRef, tag string) (*model.Release, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	rel, ok := f.releases[tag]
	if !ok {
		return nil, fmt.Errorf("%s: %w", tag, releaser.ErrReleaseNotFound)
	}
	cp := *rel
	return &cp, nil
}

func (f *fakeReleaser) CreateRelease(ctx context.Context, req *model.ReleaseRequest) (*model.Release, error) {
	f.creates = append(f.creates, *req)
	rel := &model.Release{
		ID:         f.id(),
		TagName:    req.TagName,
		Name:       req.Name,
		Body:       req.Body,
		Draft:      req.Draft,
		Prerelease: req.Prerelease,
		Repo:       req.Repo,
	}
	rel.UploadURL = fmt.Sprintf("https://uploads.example.com/releases/%s/assets{?name,label}", req.TagName)
	f.releases[req.TagName] = rel
	cp := *rel
	return &cp, nil
}

func (f *fakeReleaser) UpdateRelease(ctx context.Context, releaseID int64, req *model.ReleaseRequest) (*model.Release, error) {
	f.updates = append(f.updates, *req)
	for _, rel := range f.releases {
		if rel.ID == releaseID {
			rel.Name = req.Name
			rel.Body = req.Body
			rel.Draft = req.Draft
			rel.Prerelease = req.Prerelease
			rel.Repo = req.Repo
			cp := *rel
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("release %d does not exist", releaseID)
}

func (f *fakeReleaser) ListAssets(ctx context.Context, repo model.RepoRef, releaseID int64) ([]model.Asset, error) {
	return append([]model.Asset(nil), f.assets[releaseID]...), nil
}

func (f *fakeReleaser) DeleteAsset(ctx context.Context, repo model.RepoRef, assetID int64) error {
	f.deletes = append(f.deletes, assetID)
	if err := f.deleteErrs[assetID]; err != nil {
		return err
	}
	for relID, list := range f.assets {
		for i, a := range list {
			if a.ID == assetID {
				f.assets[relID] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("asset %d does not exist", assetID)
}

func (f *fakeReleaser) UploadAsset(ctx context.Context, uploadURL string, upload *model.AssetUpload) (*model.Asset, error) {
	f.uploads = append(f.uploads, *upload)
	if err := f.uploadErrs[upload.Name]; err != nil {
		return nil, err
	}
	rel := f.releaseByUploadURL(uploadURL)
	if rel == nil {
		return nil, fmt.Errorf("unknown upload url %s", uploadURL)
	}
	for _, a := range f.assets[rel.ID] {
		if a.Name == upload.Name {
			return nil, fmt.Errorf("asset %s already_exists", upload.Name)
		}
	}
	asset := model.Asset{
		ID:                 f.id(),
		Name:               upload.Name,
		ContentType:        upload.ContentType,
		Size:               upload.Size,
		BrowserDownloadURL: "https://example.com/download/" + rel.TagName + "/" + upload.Name,
	}
	f.assets[rel.ID] = append(f.assets[rel.ID], asset)
	return &asset, nil
}

// recordingAnnotator collects warnings and debug messages.
type recordingAnnotator struct {
	warnings []string
	debugs   []string
}

func (r *recordingAnnotator) Warningf(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func (r *recordingAnnotator) Debugf(format string, args ...any) {
	r.debugs = append(r.debugs, fmt.Sprintf(format, args...))
}
