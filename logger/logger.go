// Package pnglog provides a small thread-safe leveled logger for the pngmeta tools.
// It supports four log levels (INFO, WARNING, ERROR, DEBUG) and four output modes
// (DEV, RELEASE, VERBOSE, HIDDEN).
//
// Console lines are colored, file lines are plain and go to a timestamped file
// inside the log directory.
//
// Example:
//
//	logger, _ := pnglog.NewLogger(pnglog.Options{Dir: "./logs", Mode: pnglog.RELEASE})
//	logger.Log("Rewrite", pnglog.INFO, "inserted tEXt chunk")
//	defer logger.Close()
package pnglog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogType is the severity of a message
type LogType uint8

const (
	INFO    LogType = iota // Normal operations
	WARNING                // Potential issues
	ERROR                  // Failed operations
	DEBUG                  // Development detail
)

// LogMode controls how and where logs are output
type LogMode uint8

const (
	DEV     LogMode = iota // Console only, all logs
	RELEASE                // Console + file, no DEBUG
	VERBOSE                // Console + file, all logs
	HIDDEN                 // Console + file, INFO and ERROR only
)

// ANSI color codes for console output
const (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
)

const (
	module     = "[PNGMeta]"
	timeFormat = "2006-01-02 15:04:05"
	bufferSize = 4096
)

var logTypeStrings = [4]string{
	INFO:    "INFO",
	WARNING: "WARNING",
	ERROR:   "ERROR",
	DEBUG:   "DEBUG",
}

var logModeStrings = [4]string{
	DEV:     "dev",
	RELEASE: "release",
	VERBOSE: "verbose",
	HIDDEN:  "hidden",
}

// String returns the lowercase mode name used in config files and flags.
func (m LogMode) String() string {
	if m >= 4 {
		return "invalid"
	}
	return logModeStrings[m]
}

// ParseLogMode maps a mode name (case-insensitive) back to a LogMode.
func ParseLogMode(name string) (LogMode, error) {
	for mode, s := range logModeStrings {
		if strings.EqualFold(name, s) {
			return LogMode(mode), nil
		}
	}
	return DEV, fmt.Errorf("unknown log mode %q (want dev, release, verbose or hidden)", name)
}

// Options configures a Logger. Zero Console means os.Stderr.
type Options struct {
	Dir     string    // Directory for log files (ignored in DEV mode)
	Mode    LogMode   // Output mode
	Console io.Writer // Console destination
	Tag     string    // Optional tag printed after the module, e.g. a run ID
}

// Logger writes leveled messages to the console and, outside DEV mode, a log file.
type Logger struct {
	mu      sync.Mutex
	console io.Writer
	logFile *os.File
	writer  *bufio.Writer
	colors  [4]string
	mode    LogMode
	prefix  string
	closed  bool
	sb      strings.Builder
}

// NewLogger creates a logger. Non-DEV modes create Dir and open a new log file in it.
func NewLogger(opts Options) (*Logger, error) {
	l := &Logger{
		console: opts.Console,
		mode:    opts.Mode,
		prefix:  module,
		colors: [4]string{
			INFO:    Green,
			WARNING: Yellow,
			ERROR:   Red,
			DEBUG:   Blue,
		},
	}
	if l.console == nil {
		l.console = os.Stderr
	}
	if opts.Tag != "" {
		l.prefix = module + " [" + opts.Tag + "]"
	}
	l.sb.Grow(256)

	if opts.Mode != DEV {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("[PNGLog] failed to create log directory: %w", err)
		}

		filename := filepath.Join(opts.Dir, time.Now().Format("20060102_150405")+".log")
		file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("[PNGLog] failed to create log file: %w", err)
		}

		l.logFile = file
		l.writer = bufio.NewWriterSize(file, bufferSize)
	}

	return l, nil
}

// Pre-computed [mode][logType] -> [print, save]
var logBehavior = [4][4][2]bool{
	DEV: {
		INFO:    {true, false},
		WARNING: {true, false},
		ERROR:   {true, false},
		DEBUG:   {true, false},
	},
	RELEASE: {
		INFO:    {true, true},
		WARNING: {true, true},
		ERROR:   {true, true},
		DEBUG:   {false, false},
	},
	VERBOSE: {
		INFO:    {true, true},
		WARNING: {true, true},
		ERROR:   {true, true},
		DEBUG:   {true, true},
	},
	HIDDEN: {
		INFO:    {true, true},
		WARNING: {false, false},
		ERROR:   {true, true},
		DEBUG:   {false, false},
	},
}

func behavior(mode LogMode, logType LogType) (toConsole, toFile bool) {
	if mode >= 4 || logType >= 4 {
		return false, false
	}
	b := logBehavior[mode][logType]
	return b[0], b[1]
}

// Log writes a message for consumer at the given level.
func (l *Logger) Log(consumer string, logType LogType, message string) {
	toConsole, toFile := behavior(l.mode, logType)
	if !toConsole && !toFile {
		return
	}

	timestamp := time.Now().Format(timeFormat)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	if toConsole {
		fmt.Fprint(l.console, l.format(timestamp, consumer, logType, message, true))
	}
	if toFile && l.writer != nil {
		if _, err := l.writer.WriteString(l.format(timestamp, consumer, logType, message, false)); err != nil {
			fmt.Fprintf(l.console, "%s[ERROR]%s Failed to write log: %v\n", Red, Reset, err)
		}
	}
}

// Logf formats according to a format specifier and logs the result.
func (l *Logger) Logf(consumer string, logType LogType, format string, args ...any) {
	if toConsole, toFile := behavior(l.mode, logType); !toConsole && !toFile {
		return
	}
	l.Log(consumer, logType, fmt.Sprintf(format, args...))
}

// format builds "[TYPE] [time] [PNGMeta] [consumer] message\n"; caller holds mu.
func (l *Logger) format(timestamp, consumer string, logType LogType, message string, color bool) string {
	l.sb.Reset()
	l.sb.WriteByte('[')
	if color {
		l.sb.WriteString(l.colors[logType])
	}
	l.sb.WriteString(logTypeStrings[logType])
	if color {
		l.sb.WriteString(Reset)
	}
	l.sb.WriteString("] [")
	l.sb.WriteString(timestamp)
	l.sb.WriteString("] ")
	l.sb.WriteString(l.prefix)
	l.sb.WriteString(" [")
	l.sb.WriteString(consumer)
	l.sb.WriteString("] ")
	l.sb.WriteString(message)
	l.sb.WriteByte('\n')
	return l.sb.String()
}

// FilePath returns the path of the log file, or "" in DEV mode.
func (l *Logger) FilePath() string {
	if l.logFile == nil {
		return ""
	}
	return l.logFile.Name()
}

// Flush forces buffered log data to disk
func (l *Logger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.writer != nil {
		return l.writer.Flush()
	}
	return nil
}

// Close flushes and closes the log file. Later calls to Log are ignored.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	if l.writer != nil {
		if err := l.writer.Flush(); err != nil {
			return fmt.Errorf("failed to flush buffer: %w", err)
		}
	}
	if l.logFile != nil {
		if err := l.logFile.Close(); err != nil {
			return fmt.Errorf("failed to close log file: %w", err)
		}
	}
	return nil
}

// SetColor changes the console color for a log type
func (l *Logger) SetColor(logType LogType, color string) {
	if logType >= 4 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	switch color {
	case Red, Green, Yellow, Blue, Magenta, Cyan:
		l.colors[logType] = color
	}
}
