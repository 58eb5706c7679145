package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TimeLayout is the timestamp prefix of every run log line
const TimeLayout = "2006-01-02 15:04:05"

// New builds the process logger. Console output follows the environment
// (production JSON or development console); every entry is also appended to
// logFile as "YYYY-MM-DD HH:MM:SS - message" followed by its fields.
// The returned close func syncs the logger and closes the file.
func New(environment, level, logFile string) (*zap.Logger, func(), error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var console *zap.Logger
	if environment == "production" {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		console, err = cfg.Build()
	} else {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		console, err = cfg.Build()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	if logFile == "" {
		return console, func() { _ = console.Sync() }, nil
	}

	f, err := OpenAppend(logFile)
	if err != nil {
		return nil, nil, err
	}

	fileCore := zapcore.NewCore(NewFileEncoder(), zapcore.AddSync(f), lvl)
	logger := zap.New(zapcore.NewTee(console.Core(), fileCore), zap.AddCaller())

	return logger, func() {
		_ = logger.Sync()
		_ = f.Close()
	}, nil
}

// OpenAppend opens path for appending, creating it and its directory if missing
func OpenAppend(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// NewFileEncoder encodes entries as "<time> - <message>[ - <json fields>]"
func NewFileEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "ts",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(TimeLayout),
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " - ",
	})
}
