package publisher

import (
	"context"
	"errors"
	"fmt"

	"github.com/grokify/releaseconductor/internal/releaser"
	"github.com/grokify/releaseconductor/pkg/model"
)

// ResolveRelease updates the release for opts.Tag in place, or creates it
// when the tag has no release yet. The boolean reports whether a release
// was created.
func (p *Publisher) ResolveRelease(ctx context.Context, opts Options) (*model.Release, bool, error) {
	req := &model.ReleaseRequest{
		Repo:       opts.Repo,
		TagName:    opts.Tag,
		Name:       opts.Name,
		Body:       opts.Body,
		Draft:      opts.Draft,
		Prerelease: opts.Prerelease,
	}

	existing, err := p.releaser.GetReleaseByTag(ctx, opts.Repo, opts.Tag)
	switch {
	case err == nil:
		updated, err := p.releaser.UpdateRelease(ctx, existing.ID, req)
		if err != nil {
			return nil, false, err
		}
		p.log.Info(fmt.Sprintf("%s release %s with id %d updated", opts.Repo.FullName(), opts.Tag, updated.ID))
		return updated, false, nil

	case errors.Is(err, releaser.ErrReleaseNotFound):
		created, err := p.releaser.CreateRelease(ctx, req)
		if err != nil {
			return nil, false, err
		}
		p.log.Info(fmt.Sprintf("%s release %s with id %d created", opts.Repo.FullName(), opts.Tag, created.ID))
		return created, true, nil

	default:
		return nil, false, fmt.Errorf("get release by %s tag: %w", opts.Tag, err)
	}
}
