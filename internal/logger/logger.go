// Package logger holds the process-wide zap logger. It discards everything
// until Init or Setup runs, so packages may log from tests without setup.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Log is the global logger.
	Log = zap.NewNop()
	// Sugar is Log with printf-style helpers.
	Sugar = Log.Sugar()
)

// Format selects how the log file is encoded.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Rotation bounds the log file on disk.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultRotation keeps three compressed 50 MB files for a week.
func DefaultRotation() Rotation {
	return Rotation{MaxSizeMB: 50, MaxBackups: 3, MaxAgeDays: 7, Compress: true}
}

// Options configures Setup.
type Options struct {
	Level    string // zap level name; empty means info
	Console  bool   // coloured text on stdout
	File     string // empty disables file output
	Format   Format // file encoding; empty means text
	Rotation Rotation
}

// Init logs to stdout and, when logFile is set, to a rotated file written
// in format ("text" or "json").
func Init(level, logFile, format string) error {
	return Setup(Options{
		Level:    level,
		Console:  true,
		File:     logFile,
		Format:   Format(format),
		Rotation: DefaultRotation(),
	})
}

// Setup replaces the global logger. On error the previous logger stays.
func Setup(opts Options) error {
	lvl, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	var cores []zapcore.Core
	if opts.Console {
		enc := baseEncoder()
		enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stdout), lvl))
	}
	if opts.File != "" {
		core, err := fileCore(opts, lvl)
		if err != nil {
			return err
		}
		cores = append(cores, core)
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	Sugar = Log.Sugar()
	return nil
}

func fileCore(opts Options, lvl zapcore.Level) (zapcore.Core, error) {
	enc := baseEncoder()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	switch opts.Format {
	case "", FormatText:
		encoder = zapcore.NewConsoleEncoder(enc)
	case FormatJSON:
		encoder = zapcore.NewJSONEncoder(enc)
	default:
		return nil, fmt.Errorf("log format %q is not text or json", opts.Format)
	}

	w := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.Rotation.MaxSizeMB,
		MaxBackups: opts.Rotation.MaxBackups,
		MaxAge:     opts.Rotation.MaxAgeDays,
		Compress:   opts.Rotation.Compress,
		LocalTime:  true,
	}
	return zapcore.NewCore(encoder, zapcore.AddSync(w), lvl), nil
}

func baseEncoder() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "component",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}
}

// Named returns a child of the current global logger tagged with component.
// Take it after Init; loggers taken earlier keep discarding output.
func Named(component string) *zap.Logger {
	return Log.Named(component)
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}

func Debug(msg string, fields ...zap.Field) { Log.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { Log.Info(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Log.Error(msg, fields...) }
