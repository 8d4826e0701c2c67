// Package assets turns an asset path pattern into buffered uploads.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/grokify/releaseconductor/pkg/model"
)

// DefaultContentType is used when the extension is not recognized.
const DefaultContentType = "application/octet-stream"

// ErrNoSuchFile is returned when a literal asset path does not name a regular file.
var ErrNoSuchFile = errors.New("no such file")

// IsPattern reports whether path contains glob metacharacters.
func IsPattern(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// IsGlob reports whether path should be expanded as a glob. A path that
// names an existing regular file is literal even if it contains
// metacharacters, e.g. "dist/app[linux].bin".
func IsGlob(path string) bool {
	return IsPattern(path) && checkFile(path) != nil
}

// Expand returns the regular files matching pattern in walk order. A
// literal path is returned as-is when it names a regular file.
func Expand(pattern string) ([]string, error) {
	if !IsGlob(pattern) {
		if err := checkFile(pattern); err != nil {
			return nil, err
		}
		return []string{pattern}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to expand %q: %w", pattern, err)
	}
	return matches, nil
}

// Name derives the asset name from the final path segment.
func Name(path string) string {
	return filepath.Base(path)
}

// ContentType maps the asset name's extension to a MIME type.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return DefaultContentType
}

// Load reads the whole file into memory. contentType overrides extension
// based detection when non-empty.
func Load(path, name, contentType string) (*model.AssetUpload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNoSuchFile)
	}

	content, err := os.ReadFile(filepath.Clean(path)) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if contentType == "" {
		contentType = ContentType(name)
	}

	return &model.AssetUpload{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(content)),
		Content:     content,
	}, nil
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, ErrNoSuchFile)
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file: %w", path, ErrNoSuchFile)
	}
	return nil
}
