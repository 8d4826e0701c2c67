package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grokify/releaseconductor/internal/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "releaseconductor",
	Short: "Create or update a GitHub release and upload assets to it",
	Long: `ReleaseConductor publishes a release for a tag and attaches build
artifacts to it. It is meant to run as a pipeline step after a tag push.

Every flag can also be supplied as an INPUT_<NAME> environment variable
(e.g. INPUT_TAG_NAME), which is how workflow runners inject step inputs.
Owner, repo and tag default to GITHUB_REPOSITORY and GITHUB_REF.

Examples:
  # Upload one file, failing if it already exists
  releaseconductor --asset-path dist/app.bin --override=false

  # Upload every archive, replacing existing assets of the same name
  releaseconductor --tag-name v1.2.3 --asset-path 'dist/*.tar.gz'

  # Create a draft prerelease from a glob, summarised as Markdown
  releaseconductor --asset-path 'dist/**/*.zip' --draft --prerelease --format markdown`,
	RunE:          runPublish,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// flagKeys maps CLI flag names to input keys.
var flagKeys = map[string]string{
	"owner":              config.KeyOwner,
	"repo":               config.KeyRepo,
	"tag-name":           config.KeyTagName,
	"release-name":       config.KeyReleaseName,
	"body":               config.KeyBody,
	"draft":              config.KeyDraft,
	"prerelease":         config.KeyPrerelease,
	"override":           config.KeyOverride,
	"asset-path":         config.KeyAssetPath,
	"asset-name":         config.KeyAssetName,
	"asset-content-type": config.KeyAssetContentType,
	"upload-mode":        config.KeyUploadMode,
	"format":             config.KeyFormat,
	"token":              config.KeyToken,
	"api-url":            config.KeyAPIURL,
	"time-zone":          config.KeyTimeZone,
	"verbose":            config.KeyVerbose,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.releaseconductor.yaml)")
	flags.String("owner", "", "Repository owner (default from GITHUB_REPOSITORY)")
	flags.String("repo", "", "Repository name (default from GITHUB_REPOSITORY)")
	flags.String("tag-name", "", "Release tag (default from GITHUB_REF, refs/<kind>/ stripped)")
	flags.String("release-name", "", "Release display name (default same as tag)")
	flags.String("body", "", "Release description")
	flags.Bool("draft", false, "Mark the release as a draft")
	flags.Bool("prerelease", false, "Mark the release as a prerelease")
	flags.Bool("override", true, "Replace existing assets with the same name")
	flags.String("asset-path", "", "File path or glob pattern of assets to upload (required)")
	flags.String("asset-name", "", "Asset name for single-file uploads (default is the file name)")
	flags.String("asset-content-type", "", "Content type for uploads (default from file extension)")
	flags.String("upload-mode", "auto", "Upload mode: auto, single, multi")
	flags.String("format", "table", "Output format: table, json, markdown, csv, yaml")
	flags.String("token", "", "GitHub token (or set GITHUB_TOKEN env var)")
	flags.String("api-url", "", "GitHub API base URL (or set GITHUB_API_URL env var)")
	flags.String("time-zone", "", "Time zone sent with API requests (or set TZ / TIME_ZONE)")
	flags.Bool("verbose", false, "Enable verbose output")

	// Bind flags to viper
	for flag, key := range flagKeys {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".releaseconductor" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".releaseconductor")
	}

	// INPUT_<KEY> environment variables
	config.Configure(viper.GetViper())

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool(config.KeyVerbose) {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
