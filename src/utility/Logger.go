package utility

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config level name ("debug", "info", ...) to a LogLevel.
// Unknown names fall back to INFO.
func ParseLevel(name string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

const archiveDepth = 8

// Logger provides logging capabilities with file rotation
type Logger struct {
	level      LogLevel
	logDir     string
	currentLog *os.File
	out        io.Writer
	mu         sync.Mutex
	mode       string // "file", "cli", "journal"
}

var (
	instance *Logger
	once     sync.Once
)

var levelColors = map[LogLevel]*color.Color{
	DEBUG: color.New(color.FgBlue),
	INFO:  color.New(color.FgGreen),
	WARN:  color.New(color.FgHiYellow, color.Bold),
	ERROR: color.New(color.FgRed),
}

// GetLogger returns the singleton logger instance
func GetLogger() *Logger {
	once.Do(func() {
		instance = &Logger{
			level:  INFO,
			logDir: "log",
			mode:   "cli",
			out:    os.Stdout,
		}
	})
	return instance
}

// NewLogger creates a new logger with the specified mode
func NewLogger(mode string, level LogLevel) *Logger {
	return NewLoggerIn("log", mode, level)
}

// NewLoggerIn creates a logger whose "file" mode writes below dir.
func NewLoggerIn(dir, mode string, level LogLevel) *Logger {
	logger := &Logger{
		level:  level,
		logDir: dir,
		mode:   mode,
		out:    os.Stdout,
	}
	if mode == "file" {
		logger.init()
	}
	return logger
}

// init initializes the logger and performs log rotation
func (l *Logger) init() {
	if err := os.MkdirAll(l.logDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		return
	}

	l.rotateLogs()

	currentLogPath := filepath.Join(l.logDir, "current.log")
	file, err := os.OpenFile(currentLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		return
	}

	l.currentLog = file
}

// rotateLogs shifts archive/edgelight-N.log up by one and moves current.log to edgelight-1.log
func (l *Logger) rotateLogs() {
	archiveDir := filepath.Join(l.logDir, "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return
	}

	currentLogPath := filepath.Join(l.logDir, "current.log")
	if _, err := os.Stat(currentLogPath); err != nil {
		return
	}

	os.Remove(filepath.Join(archiveDir, fmt.Sprintf("edgelight-%d.log", archiveDepth)))
	for i := archiveDepth - 1; i >= 1; i-- {
		oldPath := filepath.Join(archiveDir, fmt.Sprintf("edgelight-%d.log", i))
		newPath := filepath.Join(archiveDir, fmt.Sprintf("edgelight-%d.log", i+1))
		if _, err := os.Stat(oldPath); err == nil {
			os.Rename(oldPath, newPath)
		}
	}

	os.Rename(currentLogPath, filepath.Join(archiveDir, "edgelight-1.log"))
}

// log writes a log message
func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	timestamp := time.Now().Format("15:04:05.000")
	message := fmt.Sprintf(format, args...)
	logLine := fmt.Sprintf("[%s] [%s] %s\n", timestamp, level.String(), message)

	switch l.mode {
	case "file":
		if l.currentLog != nil {
			l.currentLog.WriteString(logLine)
		} else {
			fmt.Fprint(os.Stderr, logLine)
		}
	case "cli":
		l.printColoredLog(level, timestamp, message)
	default:
		// journal: systemd adds its own timestamps, plain lines are enough
		fmt.Fprint(l.out, logLine)
	}
}

// printColoredLog prints a colored log message to the console
func (l *Logger) printColoredLog(level LogLevel, timestamp, message string) {
	c, ok := levelColors[level]
	if !ok {
		c = color.New(color.Reset)
	}
	fmt.Fprintf(l.out, "%s %s\n", c.Sprintf("[%s] [%s]", timestamp, level.String()), message)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput redirects cli and journal output.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentLog != nil {
		err := l.currentLog.Close()
		l.currentLog = nil
		return err
	}
	return nil
}

// ListLogFiles returns a list of all log files
func (l *Logger) ListLogFiles() []string {
	files := []string{}

	currentLogPath := filepath.Join(l.logDir, "current.log")
	if _, err := os.Stat(currentLogPath); err == nil {
		files = append(files, currentLogPath)
	}

	archiveDir := filepath.Join(l.logDir, "archive")
	if entries, err := os.ReadDir(archiveDir); err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				files = append(files, filepath.Join(archiveDir, entry.Name()))
			}
		}
	}

	return files
}
