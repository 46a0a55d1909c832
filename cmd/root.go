// Package cmd implements the linkprobe command-line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lukemcguire/linkprobe/checker"
	"github.com/lukemcguire/linkprobe/config"
	"github.com/lukemcguire/linkprobe/suggest"
	"github.com/lukemcguire/linkprobe/urlutil"
)

// ErrNoURL is returned when no page URL is given and none can be prompted for.
var ErrNoURL = errors.New("no page URL given")

// runner holds the process dependencies of one invocation.
type runner struct {
	out         io.Writer
	errOut      io.Writer
	interactive bool
	now         func() time.Time
	prompt      func() (string, error)
	suggester   func(suggest.Config) (suggest.Suggester, error)
	newProgram  func(tea.Model, ...tea.ProgramOption) *tea.Program
}

func defaultRunner() *runner {
	return &runner{
		out:         os.Stdout,
		errOut:      os.Stderr,
		interactive: isTerminal(os.Stdin) && isTerminal(os.Stdout),
		now:         time.Now,
		prompt:      promptURL,
		suggester: func(cfg suggest.Config) (suggest.Suggester, error) {
			return suggest.NewAnthropic(cfg)
		},
		newProgram: tea.NewProgram,
	}
}

// Execute runs the root command. It returns the error the run ended with;
// ExitCode maps it onto the process exit status.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the linkprobe root command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultRunner())
}

func newRootCommand(r *runner) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "linkprobe [flags] [url]",
		Short: "Check a web page for broken external links",
		Long: `linkprobe fetches one web page, sorts its links into internal and external
ones, probes every external link with a HEAD request and writes a markdown
report of the valid and invalid links.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnvFile(); err != nil {
				return err
			}

			v := config.NewViper()
			if err := config.ReadFile(v, cfgFile); err != nil {
				return err
			}
			if err := config.BindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			if len(args) > 0 {
				cfg.URL = strings.TrimSpace(args[0])
			}
			if cfg.URL == "" {
				if !r.interactive {
					return fmt.Errorf("%w: pass it as an argument or set url in the config", ErrNoURL)
				}
				if cfg.URL, err = r.prompt(); err != nil {
					return err
				}
			}

			return r.run(cmd.Context(), cfg)
		},
	}

	defaults := checker.DefaultConfig("")
	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./linkprobe.yaml)")
	flags.String("user-agent", defaults.UserAgent, "User-Agent header sent with every request")
	flags.String("accept", defaults.Accept, "Accept header sent with every request")
	flags.Duration("fetch-timeout", defaults.FetchTimeout, "timeout for the page request (0 disables it)")
	flags.Duration("timeout", defaults.RequestTimeout, "timeout for each link check")
	flags.Float64("rate-limit", 0, "link checks per second (0 = unlimited)")
	flags.String("output-dir", ".", "directory the markdown report is written to")
	flags.String("format", config.FormatText, "console listing format: text, json or csv")
	flags.Bool("plain", false, "print plain output instead of the interactive UI")
	flags.Bool("respect-robots", false, "refuse pages disallowed by robots.txt")
	flags.Bool("strict-hosts", false, "treat only the page host and its subdomains as internal")
	flags.Bool("fail-on-invalid", false, "exit with status 4 when invalid links are found")
	flags.Bool("suggest", false, "ask an LLM for replacement links (needs ANTHROPIC_API_KEY)")
	flags.String("suggest-model", suggest.DefaultModel, "model used for suggestions")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-file", "", "also write logs to this rotating file")

	return cmd
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// promptURL asks for the page to check.
func promptURL() (string, error) {
	var raw string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Page to check").
				Description("Full URL of the article or post, starting with http:// or https://").
				Placeholder("https://example.com/blog/post").
				Value(&raw).
				Validate(func(s string) error {
					_, err := urlutil.ParseTarget(s)
					return err
				}),
		),
	)

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}
	return strings.TrimSpace(raw), nil
}
