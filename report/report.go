// Package report renders link validation results as a markdown document and
// writes it to a timestamped file.
package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lukemcguire/linkprobe/result"
)

const (
	fileNameLayout  = "external-links-20060102-150405.md"
	generatedLayout = "2006-01-02 15:04:05"
)

// ErrExists is returned when every name variant for a report is taken.
var ErrExists = errors.New("report already exists")

// FileName returns the report file name for a run started at now.
func FileName(now time.Time) string {
	return now.Format(fileNameLayout)
}

// Render returns the markdown report: a title, the generation time, the
// valid links section and the invalid links section. Each entry is rendered
// as "- [value](link) link" where value is the status code or the error.
func Render(now time.Time, v result.Validation) string {
	var builder strings.Builder

	builder.WriteString("# External Link Check Report\n\n")
	fmt.Fprintf(&builder, "Generated: %s\n\n", now.Format(generatedLayout))

	builder.WriteString("## ✅ Valid Links (200 OK)\n")
	writeEntries(&builder, v.Valid)
	builder.WriteString("\n")

	builder.WriteString("## ❌ Invalid Links\n")
	writeEntries(&builder, v.Invalid)

	return builder.String()
}

func writeEntries(builder *strings.Builder, links []result.LinkStatus) {
	for _, link := range links {
		fmt.Fprintf(builder, "- [%s](%s) %s\n", link.Value(), link.URL, link.URL)
	}
}

// maxSuffix bounds the "-N" variants tried when the report name is taken.
const maxSuffix = 100

// Write renders the report and stores it in dir under FileName(now).
// The file appears complete or not at all: content goes to a temporary file
// in dir that is hard-linked into place, which never replaces an existing
// file. When the name is taken, "-2", "-3", ... are tried before ErrExists.
func Write(dir string, now time.Time, v result.Validation) (string, error) {
	tmpFile, err := os.CreateTemp(dir, ".external-links-*.md.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp report: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.WriteString(Render(now, v)); err != nil {
		_ = tmpFile.Close()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return "", fmt.Errorf("chmod report: %w", err)
	}

	return publish(tmpPath, filepath.Join(dir, FileName(now)))
}

// publish links tmpPath to path or to the first free "-N" variant of it.
func publish(tmpPath, path string) (string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)

	candidate := path
	for n := 2; n <= maxSuffix+1; n++ {
		err := os.Link(tmpPath, candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("publish report: %w", err)
		}
		candidate = fmt.Sprintf("%s-%d%s", base, n, ext)
	}
	return "", fmt.Errorf("%w: %s", ErrExists, path)
}

// AppendSection appends a "## title" section with body to the report at path.
func AppendSection(path, title, body string) (err error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close report: %w", closeErr)
		}
	}()

	if _, err := fmt.Fprintf(file, "\n\n## %s\n%s", title, body); err != nil {
		return fmt.Errorf("append %q section: %w", title, err)
	}
	return nil
}
