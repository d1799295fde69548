package htmlparse

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// MessageHandler is the pluggable leveled diagnostic sink for a parse
// context. The file argument is the document URL and line is the 1-based
// source line the message refers to.
//
// A handler shared between parse contexts running on different goroutines
// must be safe for concurrent use.
type MessageHandler interface {
	Info(file string, line int, format string, args ...any)
	Warning(file string, line int, format string, args ...any)
	Error(file string, line int, format string, args ...any)

	// FatalError reports an internal consistency violation (a filter bug,
	// never bad input). Implementations may terminate the process; if they
	// return, the parse context panics.
	FatalError(file string, line int, format string, args ...any)
}

// LogHandler routes parser diagnostics to a charmbracelet logger.
// FatalError terminates the process through the logger.
type LogHandler struct {
	logger *log.Logger
}

// NewLogHandler creates a handler backed by the given logger.
// A nil logger uses the process default.
func NewLogHandler(logger *log.Logger) *LogHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHandler{logger: logger}
}

func (h *LogHandler) format(file string, line int, format string, args ...any) string {
	return fmt.Sprintf("%s:%d: %s", file, line, fmt.Sprintf(format, args...))
}

// Info logs an informational message.
func (h *LogHandler) Info(file string, line int, format string, args ...any) {
	h.logger.Info(h.format(file, line, format, args...))
}

// Warning logs a malformed-markup recovery.
func (h *LogHandler) Warning(file string, line int, format string, args ...any) {
	h.logger.Warn(h.format(file, line, format, args...))
}

// Error logs an error-level message.
func (h *LogHandler) Error(file string, line int, format string, args ...any) {
	h.logger.Error(h.format(file, line, format, args...))
}

// FatalError logs and exits.
func (h *LogHandler) FatalError(file string, line int, format string, args ...any) {
	h.logger.Fatal(h.format(file, line, format, args...))
}

// MessageLevel classifies a recorded diagnostic.
type MessageLevel uint8

const (
	LevelInfo MessageLevel = iota
	LevelWarning
	LevelError
	LevelFatal
)

// String returns the lowercase level name.
func (l MessageLevel) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Message is one recorded diagnostic.
type Message struct {
	Level MessageLevel
	File  string
	Line  int
	Text  string
}

// RecordingHandler captures diagnostics in memory. It is safe for
// concurrent use, so one recorder may serve several parse contexts.
// FatalError records and returns, leaving termination to the context
// (which panics); that keeps filter-bug tests hermetic.
type RecordingHandler struct {
	mu       sync.Mutex
	messages []Message
}

// NewRecordingHandler creates an empty recorder.
func NewRecordingHandler() *RecordingHandler {
	return &RecordingHandler{}
}

func (h *RecordingHandler) record(level MessageLevel, file string, line int, format string, args ...any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, Message{
		Level: level,
		File:  file,
		Line:  line,
		Text:  fmt.Sprintf(format, args...),
	})
}

func (h *RecordingHandler) Info(file string, line int, format string, args ...any) {
	h.record(LevelInfo, file, line, format, args...)
}

func (h *RecordingHandler) Warning(file string, line int, format string, args ...any) {
	h.record(LevelWarning, file, line, format, args...)
}

func (h *RecordingHandler) Error(file string, line int, format string, args ...any) {
	h.record(LevelError, file, line, format, args...)
}

func (h *RecordingHandler) FatalError(file string, line int, format string, args ...any) {
	h.record(LevelFatal, file, line, format, args...)
}

// Messages returns a copy of everything recorded so far.
func (h *RecordingHandler) Messages() []Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// CountAtLeast returns how many recorded messages are at or above level.
func (h *RecordingHandler) CountAtLeast(level MessageLevel) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, m := range h.messages {
		if m.Level >= level {
			n++
		}
	}
	return n
}

// Reset discards all recorded messages.
func (h *RecordingHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = nil
}
