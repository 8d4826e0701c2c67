package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/grokify/releaseconductor/internal/publisher"
	"github.com/grokify/releaseconductor/internal/releaser"
	"github.com/grokify/releaseconductor/pkg/model"
)

// Input keys. With the INPUT env prefix they match the variables a
// workflow runner injects, e.g. tag_name -> INPUT_TAG_NAME.
const (
	KeyOwner            = "owner"
	KeyRepo             = "repo"
	KeyTagName          = "tag_name"
	KeyReleaseName      = "release_name"
	KeyBody             = "body"
	KeyDraft            = "draft"
	KeyPrerelease       = "prerelease"
	KeyOverride         = "override"
	KeyAssetPath        = "asset_path"
	KeyAssetName        = "asset_name"
	KeyAssetContentType = "asset_content_type"
	KeyUploadMode       = "upload_mode"
	KeyFormat           = "format"
	KeyToken            = "token"
	KeyAPIURL           = "api_url"
	KeyTimeZone         = "time_zone"
	KeyVerbose          = "verbose"
)

// EnvPrefix is prepended to input keys when reading the environment.
const EnvPrefix = "INPUT"

var (
	// ErrAssetPathRequired is returned when no asset path was supplied.
	ErrAssetPathRequired = errors.New("input required and not supplied: asset_path")

	refPrefix = regexp.MustCompile(`^refs/\w+/`)
)

// Config is built once at the process boundary and handed to the core.
type Config struct {
	Repo        model.RepoRef
	Tag         string
	ReleaseName string
	Body        string
	Draft       bool
	Prerelease  bool
	Override    bool

	AssetPath        string
	AssetName        string
	AssetContentType string
	Mode             publisher.Mode

	Format   string
	Token    string
	APIURL   string
	TimeZone string
	Verbose  bool
}

// NewViper returns a viper instance that resolves keys from INPUT_<KEY>
// environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	Configure(v)
	return v
}

// Configure sets up env lookup and input defaults on v.
func Configure(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyOverride, "true")
	v.SetDefault(KeyFormat, "table")
	v.SetDefault(KeyUploadMode, string(publisher.ModeAuto))
}

// Load reads inputs from v and fills defaults from the runner environment
// via getenv (GITHUB_REPOSITORY, GITHUB_REF, GITHUB_TOKEN, GITHUB_API_URL,
// TZ, TIME_ZONE).
func Load(v *viper.Viper, getenv func(string) string) (Config, error) {
	repo := model.ParseRepoRef(getenv("GITHUB_REPOSITORY"))
	if owner := v.GetString(KeyOwner); owner != "" {
		repo.Owner = owner
	}
	if name := v.GetString(KeyRepo); name != "" {
		repo.Name = name
	}

	ref := getenv("GITHUB_REF")
	tag := StripRef(firstNonEmpty(v.GetString(KeyTagName), ref))
	releaseName := StripRef(firstNonEmpty(v.GetString(KeyReleaseName), ref, tag))

	mode, err := publisher.ParseMode(v.GetString(KeyUploadMode))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Repo:        repo,
		Tag:         tag,
		ReleaseName: releaseName,
		Body:        v.GetString(KeyBody),
		Draft:       v.GetString(KeyDraft) == "true",
		Prerelease:  v.GetString(KeyPrerelease) == "true",
		Override:    v.GetString(KeyOverride) != "false",

		AssetPath:        v.GetString(KeyAssetPath),
		AssetName:        v.GetString(KeyAssetName),
		AssetContentType: v.GetString(KeyAssetContentType),
		Mode:             mode,

		Format:   firstNonEmpty(v.GetString(KeyFormat), "table"),
		Token:    firstNonEmpty(v.GetString(KeyToken), getenv("GITHUB_TOKEN")),
		APIURL:   firstNonEmpty(v.GetString(KeyAPIURL), getenv("GITHUB_API_URL")),
		TimeZone: firstNonEmpty(v.GetString(KeyTimeZone), getenv("TZ"), getenv("TIME_ZONE")),
		Verbose:  v.GetBool(KeyVerbose),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// StripRef removes a leading "refs/<kind>/" from a git ref.
func StripRef(ref string) string {
	return refPrefix.ReplaceAllString(ref, "")
}

func (c Config) validate() error {
	if c.AssetPath == "" {
		return ErrAssetPathRequired
	}
	if c.Repo.IsZero() {
		return errors.New("owner and repo cannot be empty (set inputs or GITHUB_REPOSITORY)")
	}
	if c.Tag == "" {
		return errors.New("tag_name cannot be empty (set input or GITHUB_REF)")
	}
	return nil
}

// PublishOptions returns the options for one publishing run.
func (c Config) PublishOptions() publisher.Options {
	return publisher.Options{
		Repo:        c.Repo,
		Tag:         c.Tag,
		Name:        c.ReleaseName,
		Body:        c.Body,
		Draft:       c.Draft,
		Prerelease:  c.Prerelease,
		Override:    c.Override,
		AssetPath:   c.AssetPath,
		AssetName:   c.AssetName,
		ContentType: c.AssetContentType,
		Mode:        c.Mode,
	}
}

// ReleaserOptions returns the GitHub client options.
func (c Config) ReleaserOptions() releaser.Options {
	return releaser.Options{
		Token:    c.Token,
		BaseURL:  c.APIURL,
		TimeZone: c.TimeZone,
	}
}

func (c Config) String() string {
	token := "*****"
	if len(c.Token) == 0 {
		token = "<empty>"
	}
	return fmt.Sprintf("repo: %q, tag: %q, release-name: %q, draft: %t, prerelease: %t, override: %t, asset-path: %q, upload-mode: %q, token: %q",
		c.Repo.FullName(), c.Tag, c.ReleaseName, c.Draft, c.Prerelease, c.Override, c.AssetPath, c.Mode, token)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
