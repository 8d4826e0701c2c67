package publisher

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/grokify/releaseconductor/internal/assets"
	"github.com/grokify/releaseconductor/pkg/model"
)

// UploadAsset reads path into memory and uploads it to the release under
// name. contentType overrides extension based detection when set.
func (p *Publisher) UploadAsset(ctx context.Context, release *model.Release, path, name, contentType string) (*model.Asset, error) {
	upload, err := assets.Load(path, name, contentType)
	if err != nil {
		return nil, err
	}

	asset, err := p.releaser.UploadAsset(ctx, release.UploadURL, upload)
	if err != nil {
		return nil, err
	}
	if asset.Size == 0 {
		asset.Size = upload.Size
	}

	p.log.Info(fmt.Sprintf("uploaded %s (%s, %s) to release %s: %s",
		name, humanize.Bytes(uint64(upload.Size)), upload.ContentType, release.TagName, asset.BrowserDownloadURL))
	return asset, nil
}
