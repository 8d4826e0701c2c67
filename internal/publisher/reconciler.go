package publisher

import (
	"context"
	"fmt"

	"github.com/grokify/releaseconductor/internal/assets"
	"github.com/grokify/releaseconductor/pkg/model"
)

// Reconcile expands opts.AssetPath and uploads each file that is missing
// from the release, deleting same-named assets first when override is set.
// The asset list is fetched once and is not refreshed during the loop.
//
// In single-file mode any per-file problem aborts the run. In multi-file
// mode duplicates are skipped and failures are reported as warnings.
func (p *Publisher) Reconcile(ctx context.Context, release *model.Release, opts Options, result *model.PublishResult) error {
	existing, err := p.releaser.ListAssets(ctx, release.Repo, release.ID)
	if err != nil {
		return err
	}

	paths, err := assets.Expand(opts.AssetPath)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		p.annotator.Warningf("no files matched %s", opts.AssetPath)
		p.log.Warn(fmt.Sprintf("no files matched %s", opts.AssetPath))
		return nil
	}

	single := opts.Mode == ModeSingle
	if single && len(paths) > 1 {
		return fmt.Errorf("single-file mode: %s matched %d files", opts.AssetPath, len(paths))
	}

	for _, path := range paths {
		name := assets.Name(path)
		if single && opts.AssetName != "" {
			name = opts.AssetName
		}

		file, err := p.reconcileFile(ctx, release, existing, path, name, opts)
		result.Add(file)
		if err == nil {
			if single {
				result.BrowserDownloadURL = file.BrowserDownloadURL
			}
			continue
		}
		if single {
			return err
		}
		p.annotator.Warningf("%s: %v", name, err)
		p.log.Warn(fmt.Sprintf("%s: %v", name, err))
	}

	return nil
}

// reconcileFile drives a single file to a terminal outcome. A skipped
// duplicate returns ErrDuplicateAsset only in single-file mode.
func (p *Publisher) reconcileFile(ctx context.Context, release *model.Release, existing []model.Asset, path, name string, opts Options) (model.FileResult, error) {
	dup, found := model.FindAsset(existing, name)
	file := model.FileResult{
		Path:      path,
		AssetName: name,
		Decision:  model.Decide(found, opts.Override),
	}

	switch file.Decision {
	case model.DecisionSkipDuplicate:
		file.Outcome = model.OutcomeSkipped
		if opts.Mode == ModeSingle {
			err := fmt.Errorf("an asset called %s already exists in release %s: %w", name, release.TagName, ErrDuplicateAsset)
			file.Error = err.Error()
			return file, err
		}
		p.log.Info(fmt.Sprintf("asset %s already exists in release %s, skipping", name, release.TagName))
		return file, nil

	case model.DecisionDeleteAndReplace:
		msg := fmt.Sprintf("asset %s already exists in release %s, overwriting", name, release.TagName)
		p.annotator.Debugf("%s", msg)
		p.log.Debug(msg)
		if err := p.releaser.DeleteAsset(ctx, release.Repo, dup.ID); err != nil {
			file.Outcome = model.OutcomeFailed
			file.Error = err.Error()
			return file, err
		}
	}

	asset, err := p.UploadAsset(ctx, release, path, name, opts.ContentType)
	if err != nil {
		file.Outcome = model.OutcomeFailed
		file.Error = err.Error()
		return file, err
	}

	file.Outcome = model.OutcomeUploaded
	if file.Decision == model.DecisionDeleteAndReplace {
		file.Outcome = model.OutcomeReplaced
	}
	file.AssetID = asset.ID
	file.Size = asset.Size
	file.BrowserDownloadURL = asset.BrowserDownloadURL
	return file, nil
}
