package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukemcguire/linkprobe/checker"
	"github.com/lukemcguire/linkprobe/report"
	"github.com/lukemcguire/linkprobe/result"
	"github.com/lukemcguire/linkprobe/suggest"
)

var fixedNow = time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)

type fakeSuggester struct {
	got  []result.LinkStatus
	text string
	err  error
}

func (f *fakeSuggester) Suggest(_ context.Context, invalid []result.LinkStatus) (string, error) {
	f.got = invalid
	return f.text, f.err
}

func newTestRunner() (*runner, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &runner{
		out:    &out,
		errOut: &errOut,
		now:    func() time.Time { return fixedNow },
		prompt: func() (string, error) { return "", errors.New("unexpected prompt") },
		suggester: func(suggest.Config) (suggest.Suggester, error) {
			return nil, suggest.ErrNoAPIKey
		},
		newProgram: tea.NewProgram,
	}, &out, &errOut
}

func execute(t *testing.T, r *runner, args ...string) error {
	t.Helper()
	cmd := newRootCommand(r)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

// newSite serves a page at / linking to /about, an external /ok and an
// external /gone. External links use "localhost" so they never share the
// page's "127.0.0.1:<port>" network-location.
func newSite(t *testing.T, pageStatus int) *httptest.Server {
	t.Helper()
	external := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(external.Close)
	host := strings.Replace(external.URL, "127.0.0.1", "localhost", 1)

	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(pageStatus)
		_, _ = fmt.Fprintf(w, `<a href="/about">About</a><a href="%[1]s/ok">OK</a><a href="%[1]s/gone">Gone</a>`, host)
	}))
	t.Cleanup(page.Close)
	return page
}

func reportFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: ExitOK},
		{name: "known bad status", err: fmt.Errorf("fetch: %w", &checker.StatusError{StatusCode: 404, Known: true}), want: ExitKnownBadStatus},
		{name: "unrecognized status", err: &checker.StatusError{StatusCode: 418}, want: ExitUnknownStatus},
		{name: "network failure", err: fmt.Errorf("x: %w", checker.ErrFetch), want: ExitSetup},
		{name: "robots disallow", err: checker.ErrDisallowed, want: ExitSetup},
		{name: "report exists", err: fmt.Errorf("write report: %w", report.ErrExists), want: ExitSetup},
		{name: "cancelled", err: context.Canceled, want: ExitSetup},
		{name: "invalid links", err: fmt.Errorf("%w: 1 of 2", ErrInvalidLinks), want: ExitInvalidLinks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestRun_WritesReport(t *testing.T) {
	site := newSite(t, http.StatusOK)
	dir := t.TempDir()
	r, out, _ := newTestRunner()

	err := execute(t, r, "--plain", "--output-dir", dir, site.URL)
	require.NoError(t, err)

	path := filepath.Join(dir, report.FileName(fixedNow))
	assert.Equal(t, []string{report.FileName(fixedNow)}, reportFiles(t, dir))

	stdout := out.String()
	assert.Contains(t, stdout, "Internal Links:\n/about\n")
	assert.Contains(t, stdout, "200 - ")
	assert.Contains(t, stdout, "404 - ")
	assert.Contains(t, stdout, "📝 Markdown report saved as: "+path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "# External Link Check Report\n"))
	assert.Contains(t, string(content), "## ❌ Invalid Links\n- [404](")
}

func TestRun_PageNotFound(t *testing.T) {
	site := newSite(t, http.StatusNotFound)
	dir := t.TempDir()
	r, _, _ := newTestRunner()

	err := execute(t, r, "--plain", "--output-dir", dir, site.URL)
	require.Error(t, err)
	assert.Equal(t, ExitKnownBadStatus, ExitCode(err))
	assert.Empty(t, reportFiles(t, dir))
}

func TestRun_UnrecognizedStatus(t *testing.T) {
	site := newSite(t, http.StatusTeapot)
	dir := t.TempDir()
	r, _, _ := newTestRunner()

	err := execute(t, r, "--plain", "--output-dir", dir, site.URL)
	require.Error(t, err)
	assert.Equal(t, ExitUnknownStatus, ExitCode(err))
	assert.Empty(t, reportFiles(t, dir))
}

func TestRun_InvalidURL(t *testing.T) {
	dir := t.TempDir()
	r, _, _ := newTestRunner()

	err := execute(t, r, "--plain", "--output-dir", dir, "ftp://example.com")
	require.Error(t, err)
	assert.Equal(t, ExitSetup, ExitCode(err))
	assert.Empty(t, reportFiles(t, dir))
}

func TestRun_FailOnInvalid(t *testing.T) {
	site := newSite(t, http.StatusOK)
	dir := t.TempDir()
	r, _, _ := newTestRunner()

	err := execute(t, r, "--plain", "--fail-on-invalid", "--output-dir", dir, site.URL)
	require.ErrorIs(t, err, ErrInvalidLinks)
	assert.Equal(t, ExitInvalidLinks, ExitCode(err))
	// The report is still written.
	assert.Len(t, reportFiles(t, dir), 1)
}

func TestRun_NoURL(t *testing.T) {
	r, _, _ := newTestRunner()

	err := execute(t, r, "--plain", "--output-dir", t.TempDir())
	require.ErrorIs(t, err, ErrNoURL)
	assert.Equal(t, ExitSetup, ExitCode(err))
}

func TestRun_PromptsWhenInteractive(t *testing.T) {
	site := newSite(t, http.StatusOK)
	dir := t.TempDir()
	r, out, _ := newTestRunner()
	r.interactive = true
	prompted := false
	r.prompt = func() (string, error) {
		prompted = true
		return site.URL, nil
	}

	err := execute(t, r, "--plain", "--output-dir", dir)
	require.NoError(t, err)
	assert.True(t, prompted)
	assert.Contains(t, out.String(), "External Links:")
}

func TestRun_JSONFormat(t *testing.T) {
	site := newSite(t, http.StatusOK)
	dir := t.TempDir()
	r, out, _ := newTestRunner()

	err := execute(t, r, "--format", "json", "--output-dir", dir, site.URL)
	require.NoError(t, err)

	// The report path line follows the JSON array.
	listing, _, found := strings.Cut(out.String(), "\n📝")
	require.True(t, found)

	var links []map[string]any
	require.NoError(t, json.Unmarshal([]byte(listing), &links))
	assert.Len(t, links, 2)
}

func TestRun_Suggestions(t *testing.T) {
	site := newSite(t, http.StatusOK)
	dir := t.TempDir()
	r, out, _ := newTestRunner()
	fake := &fakeSuggester{text: "- [Replacement](https://example.org/new)"}
	r.suggester = func(suggest.Config) (suggest.Suggester, error) { return fake, nil }

	err := execute(t, r, "--plain", "--suggest", "--output-dir", dir, site.URL)
	require.NoError(t, err)

	require.Len(t, fake.got, 1)
	assert.True(t, strings.HasSuffix(fake.got[0].URL, "/gone"))
	assert.Contains(t, out.String(), suggest.SectionTitle)

	content, err := os.ReadFile(filepath.Join(dir, report.FileName(fixedNow)))
	require.NoError(t, err)
	assert.Contains(t, string(content), "## "+suggest.SectionTitle+"\n- [Replacement](https://example.org/new)")
}

func TestRun_SuggestionFailureKeepsExitCode(t *testing.T) {
	site := newSite(t, http.StatusOK)
	dir := t.TempDir()
	r, _, errOut := newTestRunner()
	r.suggester = func(suggest.Config) (suggest.Suggester, error) {
		return &fakeSuggester{err: errors.New("upstream unavailable")}, nil
	}

	err := execute(t, r, "--plain", "--suggest", "--output-dir", dir, site.URL)
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "Suggestion request failed")
}

// headless runs the terminal UI without a terminal and hands each program
// to the test.
func headless(r *runner) <-chan *tea.Program {
	programs := make(chan *tea.Program, 1)
	r.interactive = true
	r.newProgram = func(m tea.Model, opts ...tea.ProgramOption) *tea.Program {
		program := tea.NewProgram(m, append(opts, tea.WithInput(nil), tea.WithoutRenderer())...)
		programs <- program
		return program
	}
	return programs
}

func TestRun_TUI_WritesReport(t *testing.T) {
	site := newSite(t, http.StatusOK)
	dir := t.TempDir()
	r, out, _ := newTestRunner()
	programs := headless(r)

	err := execute(t, r, "--output-dir", dir, site.URL)
	require.NoError(t, err)
	require.Len(t, programs, 1)

	assert.Equal(t, []string{report.FileName(fixedNow)}, reportFiles(t, dir))
	stdout := out.String()
	assert.Contains(t, stdout, "Internal Links:\n/about\n")
	assert.Contains(t, stdout, "External Links:\n")
	assert.Contains(t, stdout, "📝 Markdown report saved as: ")
}

func TestRun_TUI_QuitCancelsCheck(t *testing.T) {
	requested := make(chan struct{}, 1)
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case requested <- struct{}{}:
		default:
		}
		<-r.Context().Done()
	}))
	t.Cleanup(page.Close)

	dir := t.TempDir()
	r, _, _ := newTestRunner()
	programs := headless(r)

	go func() {
		program := <-programs
		<-requested
		program.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	}()

	err := execute(t, r, "--output-dir", dir, page.URL)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ExitSetup, ExitCode(err))
	assert.Empty(t, reportFiles(t, dir))
}
