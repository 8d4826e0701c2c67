package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/grokify/releaseconductor/internal/actions"
	"github.com/grokify/releaseconductor/internal/config"
	"github.com/grokify/releaseconductor/internal/logger"
	"github.com/grokify/releaseconductor/internal/publisher"
	"github.com/grokify/releaseconductor/internal/releaser"
	"github.com/grokify/releaseconductor/internal/report"
	"github.com/grokify/releaseconductor/pkg/model"
)

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(viper.GetViper(), os.Getenv)
	if err != nil {
		return err
	}
	if cfg.Token == "" {
		return errors.New("GitHub token required. Set GITHUB_TOKEN or use --token flag")
	}

	log, err := logger.NewZapLogger(logger.Level(cfg.Verbose))
	if err != nil {
		return fmt.Errorf("new zap logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	log.Info(cfg.String())

	formatter, err := report.New(cfg.Format)
	if err != nil {
		return err
	}

	rel, err := releaser.NewGitHub(cfg.ReleaserOptions())
	if err != nil {
		return err
	}

	gh := actions.NewWriterFromEnv(cmd.OutOrStdout())
	result, publishErr := publisher.New(log, rel, gh).Publish(ctx, cfg.PublishOptions())

	return finishPublish(cmd.OutOrStdout(), log, gh, formatter, result, publishErr)
}

// finishPublish writes outputs and the summary for whatever the run
// achieved. publishErr stays first in the returned error so the fatal
// cause is the one annotated.
func finishPublish(out io.Writer, log *zap.Logger, gh *actions.Writer, formatter report.Formatter, result *model.PublishResult, publishErr error) error {
	if err := writeOutputs(gh, result); err != nil {
		log.Warn(fmt.Sprintf("set outputs: %v", err))
	}

	var summaryErr error
	if result.Release.ID != 0 {
		summaryErr = writeSummary(out, log, gh, formatter, result)
	}

	return errors.Join(publishErr, summaryErr)
}

// writeOutputs publishes release and asset identifiers as step outputs.
func writeOutputs(gh *actions.Writer, result *model.PublishResult) error {
	if result.Release.ID == 0 {
		return nil
	}

	outputs := [][2]string{
		{"release_id", strconv.FormatInt(result.Release.ID, 10)},
		{"upload_url", result.Release.UploadURL},
		{"html_url", result.Release.HTMLURL},
	}
	if result.BrowserDownloadURL != "" {
		outputs = append(outputs, [2]string{"browser_download_url", result.BrowserDownloadURL})
	}

	var errs []error
	for _, o := range outputs {
		if err := gh.SetOutput(o[0], o[1]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// writeSummary prints the result in the configured format and appends a
// Markdown copy to the job summary.
func writeSummary(out io.Writer, log *zap.Logger, gh *actions.Writer, formatter report.Formatter, result *model.PublishResult) error {
	output, err := formatter.FormatPublishResult(result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Fprintln(out, output)

	md, err := report.NewMarkdownFormatter().FormatPublishResult(result)
	if err != nil {
		return fmt.Errorf("failed to format summary: %w", err)
	}
	if err := gh.AppendSummary(md); err != nil {
		log.Warn(fmt.Sprintf("write job summary: %v", err))
	}
	return nil
}
