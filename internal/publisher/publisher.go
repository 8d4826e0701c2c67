package publisher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/grokify/releaseconductor/internal/assets"
	"github.com/grokify/releaseconductor/internal/releaser"
	"github.com/grokify/releaseconductor/pkg/model"
)

// ErrDuplicateAsset is returned in single-file mode when an asset with the
// same name exists and override is disabled.
var ErrDuplicateAsset = errors.New("asset already exists")

// Mode selects how duplicates and per-file failures are treated.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// ParseMode parses an upload mode name. Empty means ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeSingle, ModeMulti:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid upload mode %q (want auto, single or multi)", s)
}

// Resolve turns ModeAuto into single or multi depending on whether
// assetPath is expanded as a glob.
func (m Mode) Resolve(assetPath string) Mode {
	if m != ModeAuto && m != "" {
		return m
	}
	if assets.IsGlob(assetPath) {
		return ModeMulti
	}
	return ModeSingle
}

// Options describes one publishing run.
type Options struct {
	Repo       model.RepoRef
	Tag        string
	Name       string
	Body       string
	Draft      bool
	Prerelease bool

	Override    bool
	AssetPath   string
	AssetName   string // single-file only; defaults to the file's base name
	ContentType string // overrides extension based detection
	Mode        Mode
}

// Annotator surfaces warnings and debug messages to the invoking pipeline.
type Annotator interface {
	Warningf(format string, args ...any)
	Debugf(format string, args ...any)
}

type nopAnnotator struct{}

func (nopAnnotator) Warningf(string, ...any) {}
func (nopAnnotator) Debugf(string, ...any) {}

// Publisher resolves a release and attaches assets to it.
type Publisher struct {
	releaser  releaser.Releaser
	log       *zap.Logger
	annotator Annotator
	now       func() time.Time
}

// New creates a publisher. annotator may be nil.
func New(log *zap.Logger, rel releaser.Releaser, annotator Annotator) *Publisher {
	if annotator == nil {
		annotator = nopAnnotator{}
	}
	return &Publisher{
		releaser:  rel,
		log:       log,
		annotator: annotator,
		now:       time.Now,
	}
}

// Publish runs release resolution followed by asset reconciliation. The
// result is returned even when err is non-nil so partial progress can be
// reported.
func (p *Publisher) Publish(ctx context.Context, opts Options) (*model.PublishResult, error) {
	mode := opts.Mode.Resolve(opts.AssetPath)
	result := &model.PublishResult{
		Timestamp: p.now(),
		Mode:      string(mode),
		Override:  opts.Override,
	}

	release, created, err := p.ResolveRelease(ctx, opts)
	if err != nil {
		return result, err
	}
	result.Release = *release
	result.ReleaseCreated = created

	opts.Mode = mode
	if err := p.Reconcile(ctx, release, opts, result); err != nil {
		return result, err
	}

	p.log.Info(fmt.Sprintf("release %s: %d uploaded, %d skipped, %d failed",
		release.TagName, result.UploadedCount, result.SkippedCount, result.FailedCount))
	return result, nil
}
