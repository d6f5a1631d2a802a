// Package logger is a thin zerolog wrapper shared by the CLI, the controller
// and the storage layer. A nil *Logger discards everything.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/alexisbeaulieu97/picgrid/internal/domain/gallery"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	// Level is one of trace, debug, info, warn or error. Empty means info.
	Level string
	// HumanReadable selects the uncoloured console format over JSON lines.
	HumanReadable bool
	// Writer defaults to stderr so stdout stays reserved for command output.
	Writer io.Writer
}

// Logger wraps zerolog to provide a simplified API for the application.
type Logger struct {
	base zerolog.Logger
}

// New creates a configured Logger instance based on Options.
func New(opts Options) (*Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	base := zerolog.New(newOutput(opts)).Level(level).With().Timestamp().Logger()
	return &Logger{base: base}, nil
}

func parseLevel(raw string) (zerolog.Level, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(raw)
}

func newOutput(opts Options) io.Writer {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	if !opts.HumanReadable {
		return writer
	}
	return zerolog.ConsoleWriter{
		Out:        writer,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
}

// Nop returns a logger that discards every entry.
func Nop() *Logger {
	return &Logger{base: zerolog.Nop()}
}

func (l *Logger) derive(ctx zerolog.Context) *Logger {
	return &Logger{base: ctx.Logger()}
}

// WithFields returns a derived logger that always writes the supplied fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l == nil {
		return nil
	}
	return l.derive(l.base.With().Fields(fields))
}

// WithComponent tags every entry with the emitting component.
func (l *Logger) WithComponent(component string) *Logger {
	if l == nil {
		return nil
	}
	return l.derive(l.base.With().Str("component", component))
}

// WithImage tags every entry with the image identifier and author.
func (l *Logger) WithImage(img domain.Image) *Logger {
	if l == nil {
		return nil
	}
	ctx := l.base.With().Str("image_id", img.ID.String())
	if img.Author != "" {
		ctx = ctx.Str("author", img.Author)
	}
	return l.derive(ctx)
}

// Enabled reports whether entries at level would be written. Unknown levels
// report false.
func (l *Logger) Enabled(level string) bool {
	if l == nil {
		return false
	}
	parsed, err := parseLevel(level)
	if err != nil {
		return false
	}
	return parsed >= l.base.GetLevel()
}

func (l *Logger) Trace(msg string) {
	if l == nil {
		return
	}
	l.base.Trace().Msg(msg)
}

func (l *Logger) Debug(msg string) {
	if l == nil {
		return
	}
	l.base.Debug().Msg(msg)
}

func (l *Logger) Info(msg string) {
	if l == nil {
		return
	}
	l.base.Info().Msg(msg)
}

// Warn writes a warning, attaching err when non-nil. Recoverable failures
// such as an unsaved favorites set are logged here.
func (l *Logger) Warn(err error, msg string) {
	if l == nil {
		return
	}
	l.base.Warn().Err(err).Msg(msg)
}

// Error writes an error entry including err.
func (l *Logger) Error(err error, msg string) {
	if l == nil {
		return
	}
	l.base.Error().Err(err).Msg(msg)
}
