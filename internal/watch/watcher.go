package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RunFunc is called each time the watcher triggers a transformation.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult describes the outcome of a single run.
type RunResult struct {
	// OutputPath is where the result was written ("" for stdout).
	OutputPath string
	// Bytes is the size of the rendered output.
	Bytes int
	// Unchanged reports that the output equals the previous run's.
	Unchanged bool
}

// Options configures the watch behaviour.
type Options struct {
	// Files are the files whose changes trigger a run, typically the source
	// document and the rules file.
	Files []string

	// Debounce is the quiet period before triggering a run.
	Debounce time.Duration

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 300 * time.Millisecond,
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// Run starts the file watcher and blocks until the context is cancelled
// or a SIGINT/SIGTERM signal is received. runFn is invoked once up front
// and again after every debounced change.
//
// Parent directories are watched rather than the files themselves so that
// editors replacing a file through rename keep triggering runs.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	if len(opts.Files) == 0 {
		return fmt.Errorf("no files to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	targets, err := addFiles(watcher, opts.Files)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(opts.Out, "watching %s (debounce=%s)\n", strings.Join(opts.Files, ", "), opts.Debounce)

	doRun(sigCtx, opts, runFn, "(initial)")

	debouncer := NewDebouncer(opts.Debounce, func(path string) {
		doRun(sigCtx, opts, runFn, path)
	}).WithLogger(opts.Logger)
	defer debouncer.Stop()

	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(opts.Out, "\nshutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event) || !targets[filepath.Clean(event.Name)] {
				continue
			}

			opts.Logger.Debug("file changed",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()),
			)

			debouncer.Trigger(event.Name)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// doRun executes a single run and prints the status line.
func doRun(ctx context.Context, opts Options, runFn RunFunc, trigger string) {
	now := time.Now().Format("15:04:05")

	result, err := runFn(ctx)
	if err != nil {
		fmt.Fprintf(opts.Out, "[%s] %s → ERROR: %v\n", now, trigger, err)
		return
	}

	if result == nil {
		result = &RunResult{}
	}

	target := result.OutputPath
	if target == "" {
		target = "stdout"
	}

	if result.Unchanged {
		fmt.Fprintf(opts.Out, "[%s] %s → OK (no changes)\n", now, trigger)
		return
	}

	fmt.Fprintf(opts.Out, "[%s] %s → OK (%d bytes to %s)\n", now, trigger, result.Bytes, target)
}

// addFiles watches the parent directory of every file and returns the set of
// absolute file paths that should trigger a run.
func addFiles(watcher *fsnotify.Watcher, files []string) (map[string]bool, error) {
	targets := make(map[string]bool, len(files))
	dirs := make(map[string]bool)

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", f, err)
		}

		if _, err := os.Stat(abs); err != nil {
			return nil, fmt.Errorf("watching file %q: %w", f, err)
		}

		targets[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}

		if err := watcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watching directory %q: %w", dir, err)
		}

		dirs[dir] = true
	}

	return targets, nil
}

// isRelevant filters out chmod-only events and editor scratch files.
func isRelevant(event fsnotify.Event) bool {
	if event.Op == 0 {
		return false
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Base(event.Name)

	if strings.HasSuffix(name, "~") || strings.HasSuffix(name, ".swp") || strings.HasPrefix(name, "#") {
		return false
	}

	return true
}
