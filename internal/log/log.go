package log

import (
	"context"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config configures the global logger.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string `conf:"level" yaml:"level" json:"level"`
	// Format is one of json, console.
	Format string `conf:"format" yaml:"format" json:"format"`
	// File enables file output with rotation when Path is set.
	File FileConfig `conf:"file" yaml:"file" json:"file"`
}

// FileConfig configures rotated file output.
type FileConfig struct {
	Path       string `conf:"path" yaml:"path" json:"path"`
	MaxSizeMB  int    `conf:"max_size_mb" yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `conf:"max_backups" yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `conf:"max_age_days" yaml:"max_age_days" json:"max_age_days"`
}

var global atomic.Pointer[zap.Logger]

func init() {
	global.Store(zap.NewNop())
}

// Init builds the global logger from config. Safe to call more than once;
// the last call wins.
func Init(cfg Config) error {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); cfg.Level != "" && err != nil {
		return err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var sink zapcore.WriteSyncer
	if cfg.File.Path != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
		})
	} else {
		sink = zapcore.AddSync(os.Stderr)
	}

	core := zapcore.NewCore(encoder, sink, level)
	global.Store(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)))

	return nil
}

// SetLogger replaces the global logger. Intended for tests.
func SetLogger(logger *zap.Logger) {
	global.Store(logger)
}

// Sync flushes buffered log entries.
func Sync() error {
	return global.Load().Sync()
}

// Debug logs a debug message with context-derived fields appended.
func Debug(ctx context.Context, msg string, fields ...Field) {
	global.Load().Debug(msg, withHookFields(ctx, msg, fields)...)
}

// Info logs an info message with context-derived fields appended.
func Info(ctx context.Context, msg string, fields ...Field) {
	global.Load().Info(msg, withHookFields(ctx, msg, fields)...)
}

// Warn logs a warning with context-derived fields appended.
func Warn(ctx context.Context, msg string, fields ...Field) {
	global.Load().Warn(msg, withHookFields(ctx, msg, fields)...)
}

// Error logs an error with context-derived fields appended.
func Error(ctx context.Context, msg string, fields ...Field) {
	global.Load().Error(msg, withHookFields(ctx, msg, fields)...)
}

func withHookFields(ctx context.Context, msg string, fields []Field) []Field {
	for _, hook := range hooks() {
		fields = append(fields, hook.Apply(ctx, msg)...)
	}

	return fields
}
