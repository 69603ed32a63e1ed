// Package watch uploads log files to the SOC backend as they appear in a
// directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/minisoc/socdash/internal/safefile"
	"github.com/minisoc/socdash/internal/telemetry"
	"github.com/minisoc/socdash/sdk"
)

// DefaultDebounce is the quiet period after the last write to a file before
// it is uploaded.
const DefaultDebounce = 500 * time.Millisecond

// DefaultExtensions are the file extensions uploaded when none are configured.
var DefaultExtensions = []string{".txt", ".log"}

// Uploader sends log content to the backend.
type Uploader interface {
	UploadLog(ctx context.Context, name string, content io.Reader) (*sdk.AnalysisResponse, error)
}

// Result is the outcome of one upload.
type Result struct {
	Path     string
	Response *sdk.AnalysisResponse
	Err      error
}

// Options configures a Watcher.
type Options struct {
	Extensions []string
	Debounce   time.Duration
	// OnResult is called from the watch loop after every upload.
	OnResult func(Result)
	Metrics  *telemetry.Metrics
	Logger   *slog.Logger
}

// Watcher uploads log files in one directory as they change. After the
// first upload of a file only the bytes appended since are sent. A file
// that is recreated or truncated is sent again from the start.
type Watcher struct {
	dir    string
	up     Uploader
	exts   []string
	delay  time.Duration
	onRes  func(Result)
	m      *telemetry.Metrics
	logger *slog.Logger
}

// New creates a watcher for dir.
func New(dir string, up Uploader, opts Options) *Watcher {
	exts := make([]string, 0, len(opts.Extensions))
	for _, e := range opts.Extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	if len(exts) == 0 {
		exts = slices.Clone(DefaultExtensions)
	}
	delay := opts.Debounce
	if delay <= 0 {
		delay = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Watcher{
		dir:    dir,
		up:     up,
		exts:   exts,
		delay:  delay,
		onRes:  opts.OnResult,
		m:      opts.Metrics,
		logger: logger,
	}
}

// Matches reports whether name has one of the watched extensions.
func (w *Watcher) Matches(name string) bool {
	return slices.Contains(w.exts, strings.ToLower(filepath.Ext(name)))
}

// Run watches until ctx is cancelled. Pending uploads are dropped on exit.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("watch dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch dir: %s is not a directory", w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close() //nolint:errcheck

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.logger.Info("watching log directory", "dir", w.dir, "extensions", w.exts, "debounce", w.delay)

	timers := make(map[string]*time.Timer)
	// offsets holds how far each file has been uploaded.
	offsets := make(map[string]int64)
	ready := make(chan string)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.Matches(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				delete(offsets, ev.Name)
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if t, ok := timers[ev.Name]; ok {
				// A timer that already fired has an upload queued that
				// will read this write too.
				if t.Stop() {
					t.Reset(w.delay)
				}
				continue
			}
			path := ev.Name
			timers[path] = time.AfterFunc(w.delay, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case path := <-ready:
			delete(timers, path)
			if end, ok := w.upload(ctx, path, offsets[path]); ok {
				offsets[path] = end
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// upload sends the part of path past offset. It returns the new offset and
// whether the upload succeeded.
func (w *Watcher) upload(ctx context.Context, path string, offset int64) (int64, bool) {
	tail, err := safefile.OpenTail(path, offset, safefile.MaxLogBytes)
	if errors.Is(err, os.ErrNotExist) {
		// removed before the debounce fired
		w.logger.Debug("log file vanished", "path", path)
		return 0, false
	}
	if err == nil && tail.Len() == 0 {
		tail.Close() //nolint:errcheck // read-only
		return tail.End, true
	}

	res := Result{Path: path}
	if err != nil {
		res.Err = err
	} else {
		res.Response, res.Err = w.up.UploadLog(ctx, filepath.Base(path), tail)
		tail.Close() //nolint:errcheck // read-only
	}
	if w.m != nil {
		w.m.ObserveUpload(res.Err)
	}
	if res.Err != nil {
		w.logger.Error("uploading log", "path", path, "error", res.Err)
	} else {
		w.logger.Info("log uploaded", "path", path, "bytes", tail.Len(), "alerts_detected", res.Response.AlertsDetected)
	}
	if w.onRes != nil {
		w.onRes(res)
	}
	if res.Err != nil {
		return offset, false
	}
	return tail.End, true
}
