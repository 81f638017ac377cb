package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Logger writes classified console lines (info, success, warn, error, debug)
// with optional file output
type Logger struct {
	Verbose   bool
	writer    io.Writer
	errWriter io.Writer
	mu        sync.Mutex
	fileLog   *os.File
	hasBar    bool
	palette   map[string]*color.Color
}

// New creates a Logger writing to stdout and stderr
func New(verbose bool) *Logger {
	return NewWithWriters(verbose, os.Stdout, os.Stderr)
}

// NewWithWriters creates a Logger writing to the given streams.
// Colors are enabled per stream, only when that stream is a terminal.
func NewWithWriters(verbose bool, out, errOut io.Writer) *Logger {
	return newLogger(verbose, out, errOut, isTerminal(out), isTerminal(errOut))
}

func newLogger(verbose bool, out, errOut io.Writer, colorOut, colorErr bool) *Logger {
	l := &Logger{
		Verbose:   verbose,
		writer:    out,
		errWriter: errOut,
		palette: map[string]*color.Color{
			"INFO":    color.New(color.FgHiYellow),
			"SUCCESS": color.New(color.FgHiGreen),
			"WARN":    color.New(color.FgHiMagenta),
			"ERROR":   color.New(color.FgHiRed),
			"DEBUG":   color.New(color.FgHiBlack),
		},
	}

	// ERROR is the only class written to errOut
	for level, c := range l.palette {
		colorize := colorOut
		if level == "ERROR" {
			colorize = colorErr
		}
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return l
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetFileLog enables logging to a file
func (l *Logger) SetFileLog(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.fileLog = f
	return nil
}

// SetProgressBar indicates that a progress bar is active
func (l *Logger) SetProgressBar(active bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hasBar = active
}

// Close closes the log file if open
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileLog != nil {
		err := l.fileLog.Close()
		l.fileLog = nil
		return err
	}
	return nil
}

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.log("INFO", format, args...)
}

// Success logs a completed step
func (l *Logger) Success(format string, args ...interface{}) {
	l.log("SUCCESS", format, args...)
}

// Debug logs detailed messages only in verbose mode
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.Verbose {
		l.log("DEBUG", format, args...)
	} else {
		// Always log debug to file even in non-verbose mode
		l.logToFile("DEBUG", format, args...)
	}
}

// Error logs error messages to stderr. Errors are shown even while a progress bar is active.
func (l *Logger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf("[ERROR] "+format, args...)
	fmt.Fprintln(l.errWriter, l.palette["ERROR"].Sprint(msg))

	if l.fileLog != nil {
		l.fileLog.WriteString(msg + "\n")
	}
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log("WARN", format, args...)
}

// log handles the actual logging
func (l *Logger) log(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var msg string
	if level == "INFO" || level == "SUCCESS" {
		msg = fmt.Sprintf(format, args...)
	} else {
		msg = fmt.Sprintf("["+level+"] "+format, args...)
	}

	// Write to stdout (unless we have a progress bar and not verbose)
	if l.Verbose || !l.hasBar {
		fmt.Fprintln(l.writer, l.palette[level].Sprint(msg))
	}

	if l.fileLog != nil {
		l.fileLog.WriteString(msg + "\n")
	}
}

// logToFile writes only to file
func (l *Logger) logToFile(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileLog != nil {
		msg := fmt.Sprintf("["+level+"] "+format+"\n", args...)
		l.fileLog.WriteString(msg)
	}
}
