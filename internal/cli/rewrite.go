package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gohtmlrewrite/internal/configloader"
	"github.com/yaklabco/gohtmlrewrite/internal/logging"
	"github.com/yaklabco/gohtmlrewrite/internal/ui/pretty"
	"github.com/yaklabco/gohtmlrewrite/pkg/config"
	"github.com/yaklabco/gohtmlrewrite/pkg/filters"
	"github.com/yaklabco/gohtmlrewrite/pkg/htmlparse"
	"github.com/yaklabco/gohtmlrewrite/pkg/runner"
)

// ErrRewriteIssues is returned when the rewrite run had errors or, in
// strict mode, markup warnings.
var ErrRewriteIssues = errors.New("rewrite issues found")

// stdinURL names the document when input arrives over a pipe.
const stdinURL = "stdin:///document.html"

type rewriteFlags struct {
	inPlace    bool
	diff       bool
	filterList []string
	noCoalesce bool
	strict     bool
	summary    bool
}

func newRewriteCommand() *cobra.Command {
	var cfg config.Config
	flags := &rewriteFlags{}

	cmd := &cobra.Command{
		Use:   "rewrite [paths...]",
		Short: "Rewrite HTML files through the filter chain",
		Long:  rewriteLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(cmd, args, &cfg, flags)
		},
	}

	addRewriteFlags(cmd, &cfg, flags)

	return cmd
}

const rewriteLongDescription = `Rewrite HTML files through the configured filter chain.

By default, rewrites all .html, .htm and .xhtml files in the current
directory and subdirectories and streams the results to stdout. Specify
paths to rewrite specific files or directories, or "-" to read a single
document from stdin.

Examples:
  gohtmlrewrite rewrite                      # Rewrite current directory to stdout
  gohtmlrewrite rewrite site/                # Rewrite the site directory
  gohtmlrewrite rewrite page.html            # Rewrite a single file
  gohtmlrewrite rewrite --in-place site/     # Rewrite files in place, with backups
  gohtmlrewrite rewrite --diff site/         # Preview changes as a unified diff
  gohtmlrewrite rewrite --filter debug page.html
  gohtmlrewrite rewrite - < page.html        # Rewrite stdin to stdout
  gohtmlrewrite rewrite --strict             # Treat markup warnings as errors`

func runRewrite(cmd *cobra.Command, args []string, cfg *config.Config, flags *rewriteFlags) error {
	logger := logging.Default()

	// Map flags onto the CLI config layer. Only values the user actually
	// set participate in the merge.
	if flags.inPlace && flags.diff {
		return errors.New("--in-place and --diff are mutually exclusive")
	}
	if flags.inPlace {
		cfg.Output = config.OutputInPlace
	}
	if flags.diff {
		cfg.Output = config.OutputDiff
	}
	if cmd.Flags().Changed("filter") {
		cfg.Filters = flags.filterList
	}
	if flags.noCoalesce {
		off := false
		cfg.Coalesce = &off
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cfg,
	})
	if err != nil {
		return errors.Join(errors.New("failed to load configuration"), err)
	}

	finalCfg := loadResult.Config

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}
	if finalCfg.LogLevel != "" && !cmd.Flags().Changed("debug") {
		logging.SetLevel(finalCfg.LogLevel)
	}

	logger.Debug("configuration loaded",
		logging.FieldFilters, finalCfg.Filters,
		logging.FieldCoalesce, finalCfg.CoalesceEnabled(),
		logging.FieldInPlace, finalCfg.Output == config.OutputInPlace,
		logging.FieldJobs, finalCfg.Jobs,
	)

	if len(args) == 1 && args[0] == "-" {
		return rewriteStdin(cmd, finalCfg, flags)
	}

	rewriteRunner := runner.New(nil, logger)

	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		ExcludeGlobs: finalCfg.Ignore,
		Jobs:         finalCfg.Jobs,
		Config:       finalCfg,
	}

	logger.Debug("starting rewrite run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := rewriteRunner.Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("rewrite run failed"), err)
	}

	reportResult(cmd, result, finalCfg, flags)

	if ExitCodeFromResult(result, flags.strict) != ExitSuccess {
		return ErrRewriteIssues
	}
	return nil
}

// reportResult writes outputs and diagnostics per the output mode: in
// stdout mode the rewritten documents stream to stdout, in in-place mode
// a per-file status list goes there instead. Summaries go to stderr so
// they never mix with document bytes.
func reportResult(cmd *cobra.Command, result *runner.Result, cfg *config.Config, flags *rewriteFlags) {
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout()))

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	switch cfg.Output {
	case config.OutputInPlace:
		for _, outcome := range result.Files {
			fmt.Fprint(out, styles.FormatOutcome(outcome))
		}
		fmt.Fprint(errOut, styles.FormatSummaryOneLine(result.Stats))
	case config.OutputDiff:
		for _, outcome := range result.Files {
			if outcome.Diff.HasChanges() {
				fmt.Fprint(out, outcome.Diff.Unified())
			}
			if outcome.Error != nil {
				fmt.Fprint(errOut, styles.FormatOutcome(outcome))
			}
		}
	default:
		for _, outcome := range result.Files {
			if outcome.Error == nil && !outcome.Skipped {
				_, _ = out.Write(outcome.Output)
			}
		}
		for _, outcome := range result.Files {
			if outcome.Error != nil {
				fmt.Fprint(errOut, styles.FormatOutcome(outcome))
			}
		}
	}

	if flags.summary {
		fmt.Fprint(errOut, styles.FormatSummary(result.Stats))
	}
}

// rewriteStdin runs a single document from stdin through the filter
// chain and writes it to stdout.
func rewriteStdin(cmd *cobra.Command, cfg *config.Config, flags *rewriteFlags) error {
	if configloader.IsInteractive() {
		return errors.New("stdin is a terminal; pipe a document or name files instead")
	}

	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	logger := logging.NewInteractive()

	handler := htmlparse.NewRecordingHandler()
	pctx := htmlparse.NewParseContext(handler)
	pctx.SetCoalescing(cfg.CoalesceEnabled())

	var out bytes.Buffer
	deps := filters.Deps{Out: &out, Logger: logger}

	names := cfg.Filters
	if len(names) == 0 {
		names = []string{"writer"}
	}
	var writer *filters.Writer
	for _, name := range names {
		factory, ok := filters.DefaultRegistry.Get(name)
		if !ok {
			return fmt.Errorf("unknown filter %q", name)
		}
		f := factory(deps)
		if w, ok := f.(*filters.Writer); ok {
			writer = w
		}
		pctx.AddFilter(f)
	}

	if !pctx.StartParse(stdinURL) {
		return fmt.Errorf("invalid document url %q", stdinURL)
	}
	pctx.ParseChunk(content)
	pctx.FinishParse()

	warnings := 0
	for _, m := range handler.Messages() {
		text := fmt.Sprintf("%s:%d: %s", m.File, m.Line, m.Text)
		switch m.Level {
		case htmlparse.LevelWarning:
			warnings++
			logger.Warn(text)
		case htmlparse.LevelError, htmlparse.LevelFatal:
			logger.Error(text)
		default:
			logger.Debug(text)
		}
	}

	if writer != nil && writer.Err() != nil {
		return fmt.Errorf("serialize stdin: %w", writer.Err())
	}
	if _, err := cmd.OutOrStdout().Write(out.Bytes()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if flags.strict && warnings > 0 {
		return ErrRewriteIssues
	}
	return nil
}

func addRewriteFlags(cmd *cobra.Command, cfg *config.Config, flags *rewriteFlags) {
	cmd.Flags().BoolVar(&flags.inPlace, "in-place", false, "rewrite files in place instead of streaming to stdout")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print pending changes as a unified diff instead of writing")
	cmd.Flags().StringSliceVar(&flags.filterList, "filter", nil, "filter chain, in order (default: writer)")
	cmd.Flags().BoolVar(&flags.noCoalesce, "no-coalesce", false, "disable merging of adjacent text nodes")
	cmd.Flags().BoolVar(&cfg.Force, "force", false, "rewrite files even when they do not look like HTML")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&cfg.Ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation for in-place rewrites")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat markup warnings as errors for exit code")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print a summary block to stderr")
}
