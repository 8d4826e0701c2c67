// Package actions writes workflow commands, step outputs and job summaries
// for the invoking pipeline.
package actions

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const outputDelimiter = "ghadelimiter_releaseconductor"

// Writer talks to the pipeline through stdout commands and the files named
// by GITHUB_OUTPUT and GITHUB_STEP_SUMMARY.
type Writer struct {
	out         io.Writer
	outputPath  string
	summaryPath string
}

// NewWriter creates a writer. Empty paths disable the corresponding file.
func NewWriter(out io.Writer, outputPath, summaryPath string) *Writer {
	return &Writer{out: out, outputPath: outputPath, summaryPath: summaryPath}
}

// NewWriterFromEnv creates a writer for the current process environment.
func NewWriterFromEnv(out io.Writer) *Writer {
	return NewWriter(out, os.Getenv("GITHUB_OUTPUT"), os.Getenv("GITHUB_STEP_SUMMARY"))
}

// SetOutput publishes a step output.
func (w *Writer) SetOutput(name, value string) error {
	if w.outputPath == "" {
		_, err := fmt.Fprintf(w.out, "::set-output name=%s::%s\n", name, escapeData(value))
		return err
	}

	var entry string
	if strings.ContainsAny(value, "\r\n") {
		entry = fmt.Sprintf("%s<<%s\n%s\n%s\n", name, outputDelimiter, value, outputDelimiter)
	} else {
		entry = fmt.Sprintf("%s=%s\n", name, value)
	}
	return appendFile(w.outputPath, entry)
}

// AppendSummary adds markdown to the job summary. It is a no-op when no
// summary file is configured.
func (w *Writer) AppendSummary(markdown string) error {
	if w.summaryPath == "" {
		return nil
	}
	if !strings.HasSuffix(markdown, "\n") {
		markdown += "\n"
	}
	return appendFile(w.summaryPath, markdown)
}

// Warningf emits a warning annotation.
func (w *Writer) Warningf(format string, args ...any) {
	w.command("warning", fmt.Sprintf(format, args...))
}

// Debugf emits a debug message, shown only when step debugging is enabled.
func (w *Writer) Debugf(format string, args ...any) {
	w.command("debug", fmt.Sprintf(format, args...))
}

// Fail emits an error annotation. The caller sets the exit code.
func (w *Writer) Fail(err error) {
	w.command("error", err.Error())
}

func (w *Writer) command(name, msg string) {
	fmt.Fprintf(w.out, "::%s::%s\n", name, escapeData(msg))
}

func escapeData(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A").Replace(s)
}

func appendFile(path, data string) error {
	f, err := os.OpenFile(filepath.Clean(path), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if _, err := f.WriteString(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
