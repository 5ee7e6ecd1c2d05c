package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultLogsDir is where InitLogger writes log files, relative to the working directory
const DefaultLogsDir = "logs"

// Log files are rotated past maxLogSizeMB and old ones pruned after maxLogAgeDays
const (
	maxLogSizeMB  = 10
	maxLogBackups = 5
	maxLogAgeDays = 30
)

// LogFile is the file a logger writes JSON entries to. Close it after the final Sync.
type LogFile struct {
	Path string
	out  *lumberjack.Logger
}

// Close releases the file handle
func (f *LogFile) Close() error {
	return f.out.Close()
}

// InitLogger initializes a zap logger with console and file outputs.
// Console output goes to stderr so that table output on stdout can be piped.
func InitLogger(env string) (*zap.Logger, *LogFile, error) {
	return NewLogger(DefaultLogsDir, env, os.Stderr)
}

// NewLogger tees Info+ human-readable logs to console and Debug+ JSON logs to a
// timestamped file in logsDir. env prefixes the file name.
func NewLogger(logsDir, env string, console io.Writer) (*zap.Logger, *LogFile, error) {
	if env == "" {
		env = "default"
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFileName := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", env, timestamp))
	logFile := &lumberjack.Logger{
		Filename:   logFileName,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
	}

	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.TimeKey = "timestamp"
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig), zapcore.AddSync(console), zapcore.InfoLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), zapcore.AddSync(logFile), zapcore.DebugLevel),
	)

	logger := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("env", env)),
	)

	return logger, &LogFile{Path: logFileName, out: logFile}, nil
}
