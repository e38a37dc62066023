package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

// consoleHandler writes bare messages, no timestamps or level prefixes
type consoleHandler struct {
	writer  io.Writer
	debug   *atomic.Bool
	quiet   *atomic.Bool
	onError func(error)
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level == slog.LevelDebug {
		return h.debug.Load()
	}
	return true
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if h.quiet.Load() {
		return nil
	}
	_, err := fmt.Fprintln(h.writer, record.Message)
	if err != nil && h.onError != nil {
		h.onError(err)
	}
	return err
}

func (h *consoleHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *consoleHandler) WithGroup(_ string) slog.Handler {
	return h
}

// envInt reads a positive integer override from the environment
func envInt(name string, fallback int, allowZero bool) int {
	value := os.Getenv(name)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 || (n == 0 && !allowZero) {
		return fallback
	}
	return n
}

// newRotatingWriter creates the log file writer, sized from GIT_STORY_LOG_* variables
func newRotatingWriter(logFilePath string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    envInt("GIT_STORY_LOG_MAX_SIZE", 1, false),
		MaxBackups: envInt("GIT_STORY_LOG_MAX_BACKUPS", 2, true),
		MaxAge:     envInt("GIT_STORY_LOG_MAX_AGE", 30, false),
		Compress:   false,
	}
}

// multiHandler fans out log records to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// Splog writes user-facing output and mirrors it to the log file
type Splog struct {
	logger    *slog.Logger
	writer    io.Writer
	logWriter io.WriteCloser
	debug     atomic.Bool
	quiet     atomic.Bool
	writeErr  atomic.Pointer[error]
}

// NewSplog creates a console-only logger writing to stdout.
// Debug messages are enabled when the DEBUG environment variable is set.
func NewSplog() *Splog {
	splog, _ := NewSplogWithConfig(os.Stdout, "")
	return splog
}

// NewSplogWithConfig creates a logger writing to w and, when logFilePath
// is set, to a rotating log file
func NewSplogWithConfig(w io.Writer, logFilePath string) (*Splog, error) {
	splog := &Splog{writer: w}
	splog.debug.Store(os.Getenv("DEBUG") != "")

	handlers := []slog.Handler{&consoleHandler{
		writer: w,
		debug:   &splog.debug,
		quiet:   &splog.quiet,
		onError: splog.recordWriteErr,
	}}

	if logFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		rotating := newRotatingWriter(logFilePath)
		splog.logWriter = rotating

		handlers = append(handlers, slog.NewTextHandler(rotating, &slog.HandlerOptions{
			Level: slog.LevelDebug,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.Attr{Key: a.Key, Value: slog.StringValue(a.Value.Time().Format("2006-01-02 15:04:05.000"))}
				}
				return a
			},
		}))
	}

	splog.logger = slog.New(&multiHandler{handlers: handlers})
	return splog, nil
}

// Logger exposes the underlying structured logger for library code
func (s *Splog) Logger() *slog.Logger {
	return s.logger
}

// Writer is where console output goes
func (s *Splog) Writer() io.Writer {
	return s.writer
}

// SetDebug toggles debug output on the console
func (s *Splog) SetDebug(debug bool) {
	s.debug.Store(debug)
}

// SetQuiet suppresses console output, e.g. while a full screen UI runs
func (s *Splog) SetQuiet(quiet bool) {
	s.quiet.Store(quiet)
}

func (s *Splog) log(level slog.Level, prefix, format string, args []any) {
	msg := prefix + format
	if len(args) > 0 {
		msg = fmt.Sprintf(prefix+format, args...)
	}
	s.logger.Log(context.Background(), level, msg)
}

// Info writes an info message
func (s *Splog) Info(format string, args ...any) {
	s.log(slog.LevelInfo, "", format, args)
}

// Warn writes a warning message
func (s *Splog) Warn(format string, args ...any) {
	s.log(slog.LevelWarn, "⚠️  ", format, args)
}

// Error writes an error message
func (s *Splog) Error(format string, args ...any) {
	s.log(slog.LevelError, "❌ ", format, args)
}

// Debug writes a debug message
func (s *Splog) Debug(format string, args ...any) {
	s.log(slog.LevelDebug, "", format, args)
}

// Tip writes a tip message
func (s *Splog) Tip(format string, args ...any) {
	s.log(slog.LevelInfo, "💡 ", format, args)
}

// Page writes content as is, bypassing the log file
func (s *Splog) Page(content string) {
	if _, err := fmt.Fprint(s.writer, content); err != nil {
		s.recordWriteErr(err)
	}
}

func (s *Splog) recordWriteErr(err error) {
	s.writeErr.CompareAndSwap(nil, &err)
}

// WriteErr returns the first error writing to the console, e.g. EPIPE when
// the reading end of a pipe went away
func (s *Splog) WriteErr() error {
	if err := s.writeErr.Load(); err != nil {
		return *err
	}
	return nil
}

// Close closes the log file if one was opened
func (s *Splog) Close() error {
	if s.logWriter != nil {
		return s.logWriter.Close()
	}
	return nil
}
