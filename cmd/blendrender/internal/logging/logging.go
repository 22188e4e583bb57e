// Package logging builds the blendrender logger: a zap core that writes
// human-readable lines to the console and, optionally, JSON lines to a
// size-rotated file.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// File rotation defaults.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 14
)

// Config selects the outputs of New.
type Config struct {
	// Verbose lowers the level from info to debug.
	Verbose bool

	// FilePath enables the rotated JSON log file when non-empty.
	FilePath string

	// MaxSizeMB, MaxBackups and MaxAgeDays control rotation. Zero values
	// use the defaults.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func (c Config) level() zapcore.Level {
	if c.Verbose {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// New returns a logger writing to console and, when cfg.FilePath is set,
// to a rotated file. Call Sync and then the returned close func before
// exiting; close releases the log file and is a no-op without one.
func New(cfg Config, console io.Writer) (*zap.Logger, func() error) {
	if cfg.FilePath == "" {
		return zap.New(NewCore(cfg.level(), zapcore.AddSync(console), nil)), func() error { return nil }
	}
	w := newFileWriter(cfg)
	return zap.New(NewCore(cfg.level(), zapcore.AddSync(console), zapcore.AddSync(w))), w.Close
}

// NewCore tees a console core and an optional file core. A nil file
// writer disables the file output.
func NewCore(level zapcore.Level, console, file zapcore.WriteSyncer) zapcore.Core {
	consoleEnc := zap.NewDevelopmentEncoderConfig()
	consoleEnc.TimeKey = ""
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEnc), console, level),
	}
	if file != nil {
		fileEnc := zap.NewProductionEncoderConfig()
		fileEnc.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEnc), file, level))
	}
	return zapcore.NewTee(cores...)
}

func newFileWriter(cfg Config) *lumberjack.Logger {
	w := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	if w.MaxSize <= 0 {
		w.MaxSize = DefaultMaxSizeMB
	}
	if w.MaxBackups <= 0 {
		w.MaxBackups = DefaultMaxBackups
	}
	if w.MaxAge <= 0 {
		w.MaxAge = DefaultMaxAgeDays
	}
	return w
}
