// Package logger records editor events in a file. The screen owns the
// terminal, so nothing is ever logged to stdout or stderr.
package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MaxLogBytes is the size past which the previous sessions' log is moved to
// <path>.1 when a new session starts.
const MaxLogBytes = 4 << 20

var (
	L *zap.Logger
	S *zap.SugaredLogger

	level   = zap.NewAtomicLevel()
	logFile *os.File
	logPath string
)

// Init starts logging to DefaultPath.
func Init(debug bool) error {
	p, err := DefaultPath()
	if err != nil {
		return err
	}
	return InitPath(p, debug)
}

// InitPath starts logging to p. Sessions append to the same file until it
// outgrows MaxLogBytes.
func InitPath(p string, debug bool) error {
	Close()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	if info, err := os.Stat(p); err == nil && info.Size() > MaxLogBytes {
		_ = os.Rename(p, p+".1")
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	SetDebug(debug)

	enc := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(f), level)
	// Skip the package helpers so callers show up as the log site.
	L = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.Int("pid", os.Getpid()))
	S = L.Sugar()
	logFile, logPath = f, p

	S.Infow("session start", "path", p, "debug", debug)
	return nil
}

// SetDebug switches debug records on or off for the running logger.
func SetDebug(on bool) {
	if on {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.InfoLevel)
	}
}

// Path is the file being logged to, or "" before InitPath.
func Path() string { return logPath }

// Close flushes and closes the log. Later calls to the helpers are dropped.
func Close() {
	if L != nil {
		_ = L.Sync()
	}
	if logFile != nil {
		_ = logFile.Close()
	}
	L, S, logFile, logPath = nil, nil, nil, ""
}

// DebugEnabled reports whether QMACS_DEBUG asks for debug logging.
func DebugEnabled() bool {
	switch os.Getenv("QMACS_DEBUG") {
	case "", "0", "false":
		return false
	}
	return true
}

// DefaultPath is $QMACS_LOG_FILE, else qmacs.log in the config directory:
// $QMACS_CONFIG_HOME, $XDG_CONFIG_HOME/qmacs or ~/.config/qmacs.
func DefaultPath() (string, error) {
	if v := os.Getenv("QMACS_LOG_FILE"); v != "" {
		return v, nil
	}
	if v := os.Getenv("QMACS_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qmacs.log"), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qmacs", "qmacs.log"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qmacs", "qmacs.log"), nil
}

func Debug(msg string, keysAndValues ...any) {
	if S != nil {
		S.Debugw(msg, keysAndValues...)
	}
}

func Info(msg string, keysAndValues ...any) {
	if S != nil {
		S.Infow(msg, keysAndValues...)
	}
}

func Warn(msg string, keysAndValues ...any) {
	if S != nil {
		S.Warnw(msg, keysAndValues...)
	}
}

func Error(msg string, keysAndValues ...any) {
	if S != nil {
		S.Errorw(msg, keysAndValues...)
	}
}
