package runner

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gohtmlrewrite/internal/logging"
	"github.com/yaklabco/gohtmlrewrite/pkg/config"
	"github.com/yaklabco/gohtmlrewrite/pkg/filters"
	"github.com/yaklabco/gohtmlrewrite/pkg/fsutil"
	"github.com/yaklabco/gohtmlrewrite/pkg/htmlparse"
	"github.com/yaklabco/gohtmlrewrite/pkg/langdetect"
	"github.com/yaklabco/gohtmlrewrite/pkg/textdiff"
)

// chunkSize is how many bytes each ParseChunk call feeds the engine.
const chunkSize = 32 * 1024

// Runner orchestrates rewriting many files concurrently. Each file gets
// its own parse context and filter instances; only the registry, logger,
// and configuration are shared across workers.
type Runner struct {
	// Registry resolves configured filter names to factories.
	Registry *filters.Registry

	// Logger receives per-file diagnostics. Nil means the default logger.
	Logger *log.Logger
}

// New creates a Runner. A nil registry uses the built-in filter registry.
func New(registry *filters.Registry, logger *log.Logger) *Runner {
	if registry == nil {
		registry = filters.DefaultRegistry
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{Registry: registry, Logger: logger}
}

// Run discovers files under opts.Paths and rewrites them concurrently
// with a worker pool. Results come back in deterministic path order, and
// the run respects context cancellation.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(files) {
		jobs = len(files)
	}

	cfg := opts.effectiveConfig()

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, cfg)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order; reassemble in discovery order.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}

// worker rewrites files from workCh and sends outcomes to outCh.
func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan string,
	outCh chan<- FileOutcome,
	cfg *config.Config,
) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.process(ctx, path, cfg)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// process rewrites one file through a fresh parse context.
func (r *Runner) process(ctx context.Context, path string, cfg *config.Config) (outcome FileOutcome) {
	outcome = FileOutcome{Path: path}

	// A filter bug panics the parse context; contain it to this file.
	defer func() {
		if rec := recover(); rec != nil {
			outcome.Error = fmt.Errorf("rewrite %s: %v", path, rec)
		}
	}()

	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.BytesIn = len(content)

	if !cfg.Force && !langdetect.IsHTML(content) {
		outcome.Skipped = true
		outcome.SkipReason = "content does not look like HTML"
		return outcome
	}

	handler := htmlparse.NewRecordingHandler()
	pctx := htmlparse.NewParseContext(handler)
	pctx.SetCoalescing(cfg.CoalesceEnabled())

	var out bytes.Buffer
	deps := filters.Deps{Out: &out, Logger: r.Logger}

	names := cfg.Filters
	if len(names) == 0 {
		names = []string{"writer"}
	}
	chain := make([]htmlparse.Filter, 0, len(names))
	for _, name := range names {
		factory, ok := r.Registry.Get(name)
		if !ok {
			outcome.Error = fmt.Errorf("unknown filter %q", name)
			return outcome
		}
		f := factory(deps)
		chain = append(chain, f)
		pctx.AddFilter(f)
	}

	docURL := "file://" + filepath.ToSlash(path)
	if !pctx.StartParse(docURL) {
		outcome.Error = fmt.Errorf("invalid document url %q", docURL)
		return outcome
	}
	for off := 0; off < len(content); off += chunkSize {
		end := off + chunkSize
		if end > len(content) {
			end = len(content)
		}
		pctx.ParseChunk(content[off:end])
	}
	pctx.FinishParse()

	r.forwardMessages(handler, &outcome)

	for _, f := range chain {
		if w, ok := f.(*filters.Writer); ok && w.Err() != nil {
			outcome.Error = fmt.Errorf("serialize %s: %w", path, w.Err())
			return outcome
		}
	}

	outcome.Output = out.Bytes()
	outcome.Unchanged = bytes.Equal(content, outcome.Output)

	if cfg.Output == config.OutputDiff && !outcome.Unchanged {
		outcome.Diff = textdiff.Compute(path, content, outcome.Output)
	}

	if cfg.Output == config.OutputInPlace && !outcome.Unchanged {
		written, err := r.writeInPlace(ctx, path, info, outcome.Output, cfg)
		if err != nil {
			outcome.Error = err
			return outcome
		}
		if !written {
			outcome.Skipped = true
			outcome.SkipReason = "file modified during rewrite"
			return outcome
		}
		outcome.Written = true
	}

	return outcome
}

// forwardMessages relays the per-file diagnostics to the shared logger
// and counts the markup warnings.
func (r *Runner) forwardMessages(handler *htmlparse.RecordingHandler, outcome *FileOutcome) {
	for _, m := range handler.Messages() {
		text := fmt.Sprintf("%s:%d: %s", m.File, m.Line, m.Text)
		switch m.Level {
		case htmlparse.LevelWarning:
			outcome.Warnings++
			r.Logger.Warn(text)
		case htmlparse.LevelError, htmlparse.LevelFatal:
			r.Logger.Error(text)
		default:
			r.Logger.Debug(text)
		}
	}
}

// writeInPlace backs up and atomically replaces path, refusing when the
// file changed under us between read and write.
func (r *Runner) writeInPlace(
	ctx context.Context,
	path string,
	info *fsutil.FileInfo,
	output []byte,
	cfg *config.Config,
) (bool, error) {
	modified, err := fsutil.CheckModified(ctx, info)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", path, err)
	}
	if modified {
		return false, nil
	}

	if cfg.BackupsEnabled() {
		backupCfg := fsutil.BackupConfig{
			Enabled: true,
			Mode:    fsutil.BackupMode(cfg.Backups.Mode),
		}
		if _, err := fsutil.CreateBackup(ctx, path, backupCfg); err != nil {
			return false, fmt.Errorf("backup %s: %w", path, err)
		}
	}

	if err := fsutil.WriteAtomic(ctx, path, output, info.Mode); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
