package checker_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukemcguire/linkprobe/checker"
)

// newExternalServer stands in for other sites. It is addressed through
// "localhost" so that its network-location never contains the page
// server's "127.0.0.1:<port>".
func newExternalServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/also-ok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, strings.Replace(server.URL, "127.0.0.1", "localhost", 1)
}

// newPageServer serves body at / with the given status.
func newPageServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		if _, err := fmt.Fprint(w, body); err != nil {
			t.Errorf("write page: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCheckerRun(t *testing.T) {
	_, external := newExternalServer(t)
	page := newPageServer(t, http.StatusOK, fmt.Sprintf(`<html><body>
		<a href="/about">About</a>
		<a href="#top">Top</a>
		<a href="">Self</a>
		<a href="%[1]s/ok">OK</a>
		<a href="%[1]s/ok">OK again</a>
		<a href="%[1]s/gone">Gone</a>
	</body></html>`, external))

	cfg := checker.DefaultConfig(page.URL)
	res, err := checker.New(cfg, nil, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, page.URL, res.PageURL)
	assert.Equal(t, http.StatusOK, res.PageStatus)
	assert.Equal(t, []string{"/about"}, res.Links.Internal)
	assert.ElementsMatch(t, []string{external + "/ok", external + "/gone"}, res.Links.External)

	require.Len(t, res.Validation.Valid, 1)
	assert.Equal(t, external+"/ok", res.Validation.Valid[0].URL)
	require.Len(t, res.Validation.Invalid, 1)
	assert.Equal(t, http.StatusGone, res.Validation.Invalid[0].StatusCode)

	assert.Equal(t, 1, res.Stats.Internal)
	assert.Equal(t, 2, res.Stats.External)
	assert.Equal(t, 1, res.Stats.Valid)
	assert.Equal(t, 1, res.Stats.Invalid)
}

func TestCheckerRun_AllValid(t *testing.T) {
	_, external := newExternalServer(t)
	page := newPageServer(t, http.StatusOK, fmt.Sprintf(
		`<a href="%[1]s/ok">a</a><a href="%[1]s/also-ok">b</a>`, external))

	res, err := checker.New(checker.DefaultConfig(page.URL), nil, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, res.Validation.Valid, 2)
	assert.Empty(t, res.Validation.Invalid)
	assert.False(t, res.HasInvalidLinks())
}

func TestCheckerRun_PageStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		known  bool
	}{
		{name: "not found", status: http.StatusNotFound, known: true},
		{name: "teapot", status: http.StatusTeapot, known: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := newPageServer(t, tt.status, "")

			res, err := checker.New(checker.DefaultConfig(page.URL), nil, nil).Run(context.Background())
			assert.Nil(t, res)

			var statusErr *checker.StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.known, statusErr.Known)
		})
	}
}

func TestCheckerRun_InvalidURL(t *testing.T) {
	_, err := checker.New(checker.DefaultConfig("example.com"), nil, nil).Run(context.Background())
	require.Error(t, err)
}

func TestCheckerRun_ProgressEvents(t *testing.T) {
	_, external := newExternalServer(t)
	page := newPageServer(t, http.StatusOK, fmt.Sprintf(`<a href="%s/ok">ok</a>`, external))

	progressCh := make(chan checker.Event, 10)
	_, err := checker.New(checker.DefaultConfig(page.URL), nil, progressCh).Run(context.Background())
	require.NoError(t, err)
	close(progressCh)

	var stages []checker.Stage
	for evt := range progressCh {
		stages = append(stages, evt.Stage)
	}
	assert.Equal(t, []checker.Stage{checker.StageFetched, checker.StageClassified, checker.StageValidated}, stages)
}

func TestCheckerRun_Cancelled(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(slow.Close)
	slowURL := strings.Replace(slow.URL, "127.0.0.1", "localhost", 1)
	page := newPageServer(t, http.StatusOK, fmt.Sprintf(`<a href="%[1]s/a">a</a><a href="%[1]s/b">b</a>`, slowURL))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	res, err := checker.New(checker.DefaultConfig(page.URL), nil, nil).Run(ctx)
	assert.Nil(t, res)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDefaultConfig(t *testing.T) {
	cfg := checker.DefaultConfig("https://example.com")

	assert.Equal(t, "https://example.com", cfg.PageURL)
	assert.Equal(t, "curl/8.11.1", cfg.UserAgent)
	assert.Equal(t, "*/*", cfg.Accept)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Zero(t, cfg.RateLimit)
	assert.Equal(t, checker.MatchContains, cfg.MatchRule)
}
