package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/arthur-debert/cleanfiles/pkg/config"
	"github.com/arthur-debert/cleanfiles/pkg/decision"
	"github.com/arthur-debert/cleanfiles/pkg/errors"
	"github.com/arthur-debert/cleanfiles/pkg/lock"
	"github.com/arthur-debert/cleanfiles/pkg/paths"
	"github.com/arthur-debert/cleanfiles/pkg/pipeline"
	"github.com/arthur-debert/cleanfiles/pkg/report"
	"github.com/arthur-debert/cleanfiles/pkg/types"
	"github.com/arthur-debert/cleanfiles/pkg/ui/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// runCleanup loads the configuration, checks the directories and runs the
// pipeline. The summary is printed even when the run stops on an error.
func runCleanup(cmd *cobra.Command, args []string, opts runOptions) error {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	overrides, err := buildOverrides(opts)
	if err != nil {
		return err
	}

	dirs, err := absDirs(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(config.LoadOptions{
		MainDir:    dirs[0],
		AuxDirs:    dirs[1:],
		ConfigFile: opts.configFile,
		Overrides:  overrides,
	})
	if err != nil {
		return err
	}
	if err := cfg.ValidateDirs(); err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if cfg.Actions.AnyAsk() {
		if f, ok := in.(*os.File); ok && !styles.IsTerminal(f) {
			return errors.New(errors.ErrConfigInvalid, MsgErrNoTerminal)
		}
	}

	runLock, err := lock.Acquire(paths.LockFile(cfg.MainDir))
	if err != nil {
		return err
	}
	defer func() {
		if err := runLock.Release(); err != nil {
			log.Warn().Err(err).Str("path", runLock.Path()).Msg("Failed to release lock")
		}
	}()

	// Machine readable summaries own stdout; progress and prompts move to stderr.
	stdout := cmd.OutOrStdout()
	progressOut := stdout
	if format != report.FormatText {
		progressOut = cmd.ErrOrStderr()
	}
	styles.ConfigureColor(progressOut, opts.noColor)

	summary := report.NewSummary(cfg.MainDir, cfg.AuxDirs)
	p := pipeline.New(cfg, pipeline.Options{
		Provider: decision.NewConsole(in, progressOut),
		Recorder: report.Multi{report.NewProgress(progressOut, opts.showInspected), summary},
	})

	runErr := p.Run(cmd.Context())
	summary.Finish(runErr)

	if err := renderSummary(stdout, summary, format, cfg.Actions.DoNothing); err != nil {
		if runErr != nil {
			return runErr
		}
		return err
	}
	return runErr
}

func renderSummary(out io.Writer, summary *report.Summary, format report.Format, dryRun bool) error {
	if format == report.FormatText {
		_, _ = fmt.Fprintln(out)
	}
	if err := report.Render(out, summary, format); err != nil {
		return errors.Wrap(err, errors.ErrInternal, MsgErrRenderSummary)
	}
	if dryRun && format == report.FormatText {
		_, _ = fmt.Fprintln(out, styles.Render("Warning", MsgDryRunNotice))
	}
	return nil
}

// buildOverrides turns --yes, --action and --dry-run into configuration
// keys. --yes takes the suggested answer of every prompt: each action is
// applied and merged files are moved. --action entries apply after --yes so
// they can narrow it.
func buildOverrides(opts runOptions) (map[string]interface{}, error) {
	overrides := map[string]interface{}{}
	if opts.yes {
		for _, key := range types.ActionKeys {
			overrides["actions."+key] = types.PolicyTextAlways
		}
		overrides["actions.copy"] = types.PolicyTextNever
	}

	for _, entry := range opts.actions {
		key, value, ok := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, MsgErrActionFormat, entry)
		}
		if !slices.Contains(types.ActionKeys, key) {
			return nil, errors.Newf(errors.ErrInvalidInput, MsgErrActionKey, key, strings.Join(types.ActionKeys, ", "))
		}
		policy, err := types.ParsePolicy(value)
		if err != nil {
			return nil, errors.Newf(errors.ErrInvalidInput, MsgErrActionValue, key, err)
		}
		overrides["actions."+key] = policy.String()
	}

	if opts.dryRun {
		overrides["actions.do_nothing"] = true
	}
	return overrides, nil
}

func absDirs(args []string) ([]string, error) {
	dirs := make([]string, len(args))
	for i, arg := range args {
		abs, err := filepath.Abs(paths.ExpandHome(arg))
		if err != nil {
			return nil, errors.PathError(err, errors.ErrDirAccess, "resolve directory", arg)
		}
		dirs[i] = abs
	}
	return dirs, nil
}
