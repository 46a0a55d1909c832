package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lukemcguire/linkprobe/checker"
	"github.com/lukemcguire/linkprobe/config"
	"github.com/lukemcguire/linkprobe/logging"
	"github.com/lukemcguire/linkprobe/report"
	"github.com/lukemcguire/linkprobe/result"
	"github.com/lukemcguire/linkprobe/suggest"
	"github.com/lukemcguire/linkprobe/tui"
)

// progressBuffer sizes the event channel between the pipeline and the UI.
const progressBuffer = 100

// run checks the page, prints the results, writes the report and runs the
// optional suggestion step.
func (r *runner) run(ctx context.Context, cfg config.Config) error {
	useTUI := r.interactive && !cfg.Plain && cfg.Format == config.FormatText

	logger, closer, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Quiet:   useTUI,
		Console: r.errOut,
	})
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	var res *result.Result
	if useTUI {
		res, err = r.runTUI(ctx, cfg, logger)
	} else {
		res, err = r.runPlain(ctx, cfg, logger)
	}
	if err != nil {
		return err
	}

	path, err := report.Write(cfg.OutputDir, r.now(), res.Validation)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	r.printf("\n📝 Markdown report saved as: %s\n", path)
	logger.Info("Report written", "path", path)

	if cfg.Suggest.Enabled {
		r.suggest(ctx, cfg, res, path, logger)
	}

	if cfg.FailOnInvalid && res.HasInvalidLinks() {
		return fmt.Errorf("%w: %d of %d", ErrInvalidLinks, res.Stats.Invalid, res.Stats.External)
	}
	return nil
}

func (r *runner) runPlain(ctx context.Context, cfg config.Config, logger *log.Logger) (*result.Result, error) {
	res, err := checker.New(cfg.Checker(), logger, nil).Run(ctx)
	if err != nil {
		return nil, err
	}

	switch cfg.Format {
	case config.FormatJSON:
		err = result.WriteJSON(r.out, res.Validation)
	case config.FormatCSV:
		err = result.WriteCSV(r.out, res.Validation)
	default:
		result.PrintLinks(r.out, res.Links)
		result.PrintResults(r.out, res)
	}
	if err != nil {
		return nil, fmt.Errorf("print results: %w", err)
	}
	return res, nil
}

// runTUI runs the pipeline in one goroutine and the Bubble Tea program in
// another. Quitting the UI cancels the pipeline; the pipeline's outcome is
// delivered to the UI as a DoneMsg.
func (r *runner) runTUI(ctx context.Context, cfg config.Config, logger *log.Logger) (*result.Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	progressCh := make(chan checker.Event, progressBuffer)
	chk := checker.New(cfg.Checker(), logger, progressCh)
	program := r.newProgram(tui.NewModel(cfg.URL, cancel, progressCh), tea.WithOutput(r.out))

	var (
		res      *result.Result
		runErr   error
		quitting bool
	)

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		defer close(progressCh)
		res, runErr = chk.Run(gctx)
		program.Send(tui.DoneMsg{Result: res, Err: runErr})
		return nil
	})
	g.Go(func() error {
		defer func() {
			// Unblock the pipeline if the UI exited before it finished.
			cancel()
			for range progressCh {
			}
		}()
		final, err := program.Run()
		if err != nil {
			return fmt.Errorf("run terminal UI: %w", err)
		}
		if model, ok := final.(tui.Model); ok {
			quitting = model.Quitting()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if runErr != nil {
		return nil, runErr
	}
	if quitting {
		return nil, fmt.Errorf("check cancelled: %w", context.Canceled)
	}

	// The summary only counts links; list them below it.
	r.printf("\n")
	result.PrintLinks(r.out, res.Links)
	return res, nil
}

// suggest asks for replacement links and appends them to the report.
// Failures are logged and never change the outcome of the run.
func (r *runner) suggest(ctx context.Context, cfg config.Config, res *result.Result, path string, logger *log.Logger) {
	if !res.HasInvalidLinks() {
		logger.Info("No invalid links, skipping suggestions")
		return
	}

	suggester, err := r.suggester(cfg.SuggestSettings())
	if err != nil {
		logger.Warn("Suggestions unavailable", "err", err)
		return
	}

	logger.Info("Requesting replacement suggestions", "links", len(res.Validation.Invalid))
	text, err := suggester.Suggest(ctx, res.Validation.Invalid)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.Warn("Suggestion request failed", "err", err)
		return
	}
	if text == "" {
		return
	}

	r.printf("\n%s\n%s\n", suggest.SectionTitle, text)
	if err := report.AppendSection(path, suggest.SectionTitle, text); err != nil {
		logger.Warn("Could not add suggestions to report", "path", path, "err", err)
	}
}

func (r *runner) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}
