package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ncobase/remind/logging/logger/config"
	"github.com/ncobase/remind/logging/observes"
	"github.com/sirupsen/logrus"
)

// Key constants
const (
	VersionKey = "version"
	badKey     = "!BADKEY"
)

// Logger represents logger instance
type Logger struct {
	*logrus.Logger
	mu           sync.Mutex
	version      string
	logFile      *os.File
	logPath      string
	desensitizer *Desensitizer
	stop         chan struct{}
}

var (
	// stdLogger is the global logger
	stdLogger *Logger
	// once ensures that the logger is initialized only once
	once sync.Once
)

// StdLogger returns the single logger instance
func StdLogger() *Logger {
	once.Do(func() {
		stdLogger = newLogger()
	})
	return stdLogger
}

func newLogger() *Logger {
	l := &Logger{Logger: logrus.New()}
	l.SetFormatter(&logrus.JSONFormatter{})
	return l
}

// NewLogger creates a standalone logger, independent of StdLogger.
func NewLogger(c *config.Config) (*Logger, func(), error) {
	l := newLogger()
	cleanup, err := l.Init(c)
	if err != nil {
		return nil, nil, err
	}
	return l, cleanup, nil
}

// SetVersion sets the version for logging
func (l *Logger) SetVersion(v string) {
	l.version = v
}

// Init initializes the logger with the given configuration
func (l *Logger) Init(c *config.Config) (func(), error) {
	if c == nil {
		c = config.Default()
	}
	l.SetLevel(logrus.Level(c.Level))

	switch c.Format {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	switch c.Output {
	case "stderr":
		l.SetOutput(os.Stderr)
	case "file":
		if c.OutputFile == "" {
			return nil, fmt.Errorf("logger output is file but output_file is empty")
		}
		l.logPath = c.OutputFile
		if err := l.setupLogFile(); err != nil {
			return nil, err
		}
		l.stop = make(chan struct{})
		go l.periodicLogRotation(l.stop)
	default:
		l.SetOutput(os.Stdout)
	}

	if c.Desensitization != nil && c.Desensitization.Enabled {
		l.desensitizer = NewDesensitizer(c.Desensitization)
	} else {
		l.desensitizer = nil
	}

	reporting := false
	if c.Sentry != nil && c.Sentry.Endpoint != "" {
		if err := observes.NewSentry(&observes.SentryOptions{
			Dsn:         c.Sentry.Endpoint,
			Release:     c.Sentry.Release,
			Environment: c.Sentry.Environment,
			SampleRate:  c.Sentry.SampleRate,
		}); err != nil {
			return nil, fmt.Errorf("failed to initialize sentry: %w", err)
		}
		l.ReplaceHooks(make(logrus.LevelHooks))
		l.AddHook(observes.NewSentryHook(nil))
		reporting = true
	}

	return func() {
		if reporting {
			observes.Flush(2 * time.Second)
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.stop != nil {
			close(l.stop)
			l.stop = nil
		}
		if l.logFile != nil {
			_ = l.logFile.Close()
			l.logFile = nil
		}
	}, nil
}

// setupLogFile sets up the log file
func (l *Logger) setupLogFile() error {
	if err := os.MkdirAll(filepath.Dir(l.logPath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return l.rotateLog()
}

// rotateLog switches output to the file for the current day
func (l *Logger) rotateLog() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	logFilePath := fmt.Sprintf("%s.%s.log", strings.TrimSuffix(l.logPath, ".log"), time.Now().Format("2006-01-02"))
	f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to open new log file: %w", err)
	}

	previous := l.logFile
	l.logFile = f
	l.Logger.SetOutput(f)
	if previous != nil {
		_ = previous.Close()
	}
	return nil
}

// periodicLogRotation rotates the log every 24 hours
func (l *Logger) periodicLogRotation(stop <-chan struct{}) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := l.rotateLog(); err != nil {
				l.Logger.Errorf("Error rotating log: %v", err)
			}
		}
	}
}


// entryWithArgs splits args into a message and key/value fields.
// log.Info(ctx, "task created", "id", id) logs message "task created"
// with field id. Without key/value pairs args are joined like fmt.Sprint.
func (l *Logger) entryWithArgs(ctx context.Context, args []any) (*logrus.Entry, string) {
	entry := l.entryFromContext(ctx)
	if len(args) == 0 {
		return entry, ""
	}

	msg, ok := args[0].(string)
	if !ok || len(args) == 1 {
		return entry, fmt.Sprint(args...)
	}

	fields := logrus.Fields{}
	kv := args[1:]
	for i := 0; i < len(kv); i += 2 {
		key, isKey := kv[i].(string)
		if !isKey || i+1 >= len(kv) {
			fields[badKey] = kv[i]
			continue
		}
		value := kv[i+1]
		if err, isErr := value.(error); isErr {
			value = err.Error()
		}
		fields[key] = value
	}

	if l.desensitizer != nil {
		fields = l.desensitizer.DesensitizeFields(fields)
	}
	return entry.WithFields(fields), msg
}

// log logs a message with the given level
func (l *Logger) log(ctx context.Context, level logrus.Level, args ...any) {
	if !l.IsLevelEnabled(level) {
		return
	}
	entry, msg := l.entryWithArgs(ctx, args)
	entry.Log(level, msg)
}

// logf logs a formatted message
func (l *Logger) logf(ctx context.Context, level logrus.Level, format string, args ...any) {
	l.entryFromContext(ctx).Logf(level, format, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(ctx context.Context, args ...any) {
	l.log(ctx, logrus.DebugLevel, args...)
}

// Info logs an info message
func (l *Logger) Info(ctx context.Context, args ...any) {
	l.log(ctx, logrus.InfoLevel, args...)
}

// Warn logs a warn message
func (l *Logger) Warn(ctx context.Context, args ...any) {
	l.log(ctx, logrus.WarnLevel, args...)
}

// Error logs an error message
func (l *Logger) Error(ctx context.Context, args ...any) {
	l.log(ctx, logrus.ErrorLevel, args...)
}

// Infof logs an info message with format
func (l *Logger) Infof(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.InfoLevel, format, args...)
}

// Errorf logs an error message with format
func (l *Logger) Errorf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.ErrorLevel, format, args...)
}

// SetOutput sets the output destination for the logger
func (l *Logger) SetOutput(out io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Logger.SetOutput(out)
}

// AddHook adds a hook to the logger
func (l *Logger) AddHook(hook logrus.Hook) {
	if !l.hookExists(hook) {
		l.Logger.AddHook(hook)
	}
}

// hookExists checks if hook already exists
func (l *Logger) hookExists(hook logrus.Hook) bool {
	for _, h := range l.Hooks {
		for _, existingHook := range h {
			if existingHook == hook {
				return true
			}
		}
	}
	return false
}

// SetVersion sets the version for logging
func SetVersion(v string) { StdLogger().SetVersion(v) }

// New initializes the standard logger
func New(c *config.Config) (func(), error) { return StdLogger().Init(c) }

// Info logs info message
func Info(ctx context.Context, args ...any) { StdLogger().Info(ctx, args...) }

// Warn logs warn message
func Warn(ctx context.Context, args ...any) { StdLogger().Warn(ctx, args...) }

// Error logs error message
func Error(ctx context.Context, args ...any) { StdLogger().Error(ctx, args...) }
