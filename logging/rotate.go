// Package logging wires slog to the console and to rotating JSON log files.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultRetentionDays = 30
	defaultMaxFileSize   = 50 * 1024 * 1024
	filePrefix           = "harmonizer-"
)

var numberedFilePattern = regexp.MustCompile(`harmonizer-\d{4}-\d{2}-\d{2}_(\d{2})\.log$`)

// RotatingLogger writes to one log file per day, starts a numbered sibling
// when a file outgrows maxFileSize, and sweeps files older than the
// retention period.
type RotatingLogger struct {
	logDir      string
	retention   time.Duration
	maxFileSize int64

	mu          sync.Mutex
	currentFile *os.File
	currentDay  string
	currentSize int64

	cancel    context.CancelFunc
	sweepDone chan struct{}
}

// NewRotatingLogger creates a rotating logger with the default retention
// and size limit.
func NewRotatingLogger(logDir string) *RotatingLogger {
	return &RotatingLogger{
		logDir:      logDir,
		retention:   defaultRetentionDays * 24 * time.Hour,
		maxFileSize: defaultMaxFileSize,
		sweepDone:   make(chan struct{}),
	}
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Write implements io.Writer for the slog JSON handler. Rotation happens
// inline when the day changes or the size limit would be crossed.
func (rl *RotatingLogger) Write(p []byte) (int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	day := dayKey(time.Now())
	rotate := rl.currentFile == nil || rl.currentDay != day
	if !rotate && rl.maxFileSize > 0 && rl.currentSize+int64(len(p)) > rl.maxFileSize {
		rotate = true
	}

	if rotate {
		if err := rl.openFileFor(day); err != nil {
			return 0, err
		}
	}

	n, err := rl.currentFile.Write(p)
	rl.currentSize += int64(n)
	return n, err
}

// openFileFor opens the next usable log file for day: the plain daily file
// while it has room, then numbered continuations. Caller holds mu.
func (rl *RotatingLogger) openFileFor(day string) error {
	if rl.currentFile != nil {
		if err := rl.currentFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "closing log file: %v\n", err)
		}
		rl.currentFile = nil
	}

	name := filePrefix + day + ".log"
	path := filepath.Join(rl.logDir, name)
	if info, err := os.Stat(path); err == nil && rl.maxFileSize > 0 && info.Size() >= rl.maxFileSize {
		seq := rl.highestSequence(day) + 1
		name = fmt.Sprintf("%s%s_%02d.log", filePrefix, day, seq)
		path = filepath.Join(rl.logDir, name)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}

	rl.currentFile = f
	rl.currentDay = day
	rl.currentSize = 0
	if info, err := f.Stat(); err == nil {
		rl.currentSize = info.Size()
	}
	return nil
}

// highestSequence returns the largest continuation number already present
// for day, 0 when only the plain daily file exists.
func (rl *RotatingLogger) highestSequence(day string) int {
	matches, _ := filepath.Glob(filepath.Join(rl.logDir, fmt.Sprintf("%s%s_??.log", filePrefix, day)))
	highest := 0
	for _, m := range matches {
		sub := numberedFilePattern.FindStringSubmatch(filepath.Base(m))
		if len(sub) < 2 {
			continue
		}
		if n, err := strconv.Atoi(sub[1]); err == nil && n > highest {
			highest = n
		}
	}
	return highest
}

// sweepOldLogs removes log files whose modification time is past the
// retention period.
func (rl *RotatingLogger) sweepOldLogs() error {
	entries, err := os.ReadDir(rl.logDir)
	if err != nil {
		return fmt.Errorf("reading log directory: %w", err)
	}

	cutoff := time.Now().Add(-rl.retention)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(rl.logDir, name)); err == nil {
				removed++
			}
		}
	}

	if removed > 0 {
		// stderr, not slog: sweeping from inside the handler would recurse
		fmt.Fprintf(os.Stderr, "removed %d expired log files\n", removed)
	}
	return nil
}

// startSweeper runs the retention sweep once a day until Close.
func (rl *RotatingLogger) startSweeper(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	defer close(rl.sweepDone)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := rl.sweepOldLogs(); err != nil {
				fmt.Fprintf(os.Stderr, "log sweep failed: %v\n", err)
			}
		}
	}
}

// Close stops the sweeper and closes the current file.
func (rl *RotatingLogger) Close() error {
	if rl.cancel != nil {
		rl.cancel()
		select {
		case <-rl.sweepDone:
		case <-time.After(time.Second):
		}
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.currentFile != nil {
		err := rl.currentFile.Close()
		rl.currentFile = nil
		return err
	}
	return nil
}

// SetupLogger builds the service logger: text on stdout plus JSON in
// rotating files under logDir, both filtered at level. An empty or
// uncreatable logDir degrades to console-only logging.
func SetupLogger(logDir string, level slog.Level) *slog.Logger {
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	if logDir == "" {
		return slog.New(consoleHandler)
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		console := slog.New(consoleHandler)
		console.Error("Failed to create log directory, logging to console only", "error", err)
		return console
	}

	rl := NewRotatingLogger(logDir)
	ctx, cancel := context.WithCancel(context.Background())
	rl.cancel = cancel
	go rl.startSweeper(ctx)

	fileHandler := slog.NewJSONHandler(rl, &slog.HandlerOptions{Level: level})

	return slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}})
}

// multiHandler fans records out to every handler that accepts the level.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}
