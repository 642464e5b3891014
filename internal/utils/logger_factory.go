package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	defaultLogFileMaxSizeConstant        = 10
	defaultLogFileMaxBackupsConstant     = 3
	defaultLogFileMaxAgeDaysConstant     = 28
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

// LoggerOptions describes the requested logger behavior.
type LoggerOptions struct {
	Level      LogLevel
	Format     LogFormat
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
}

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct {
	consoleWriter zapcore.WriteSyncer
}

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// NewLoggerFactory constructs a logger factory writing diagnostics to standard error.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{consoleWriter: zapcore.Lock(os.Stderr)}
}

// NewLoggerFactoryWithWriter constructs a logger factory writing diagnostics to the provided writer.
func NewLoggerFactoryWithWriter(writer io.Writer) *LoggerFactory {
	if writer == nil {
		return NewLoggerFactory()
	}
	return &LoggerFactory{consoleWriter: zapcore.AddSync(writer)}
}

// CreateLogger produces a zap.Logger honoring the requested level and format, teeing into a rotating file when configured.
func (factory *LoggerFactory) CreateLogger(options LoggerOptions) (*zap.Logger, error) {
	zapLevel, levelExists := logLevelMapping[options.Level]
	if !levelExists {
		return nil, fmt.Errorf(unsupportedLogLevelTemplateConstant, options.Level)
	}

	consoleEncoder, encoderError := newEncoder(options.Format)
	if encoderError != nil {
		return nil, encoderError
	}

	atomicLevel := zap.NewAtomicLevelAt(zapLevel)
	cores := []zapcore.Core{zapcore.NewCore(consoleEncoder, factory.resolveConsoleWriter(), atomicLevel)}

	if logFilePath := strings.TrimSpace(options.FilePath); len(logFilePath) > 0 {
		fileEncoder, _ := newEncoder(LogFormatStructured)
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   logFilePath,
			MaxSize:    positiveOrDefault(options.MaxSizeMB, defaultLogFileMaxSizeConstant),
			MaxBackups: positiveOrDefault(options.MaxBackups, defaultLogFileMaxBackupsConstant),
			MaxAge:     defaultLogFileMaxAgeDaysConstant,
		})
		cores = append(cores, zapcore.NewCore(fileEncoder, fileWriter, atomicLevel))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func (factory *LoggerFactory) resolveConsoleWriter() zapcore.WriteSyncer {
	if factory == nil || factory.consoleWriter == nil {
		return zapcore.Lock(os.Stderr)
	}
	return factory.consoleWriter
}

func newEncoder(format LogFormat) (zapcore.Encoder, error) {
	encoderConfiguration := zap.NewProductionEncoderConfig()
	encoderConfiguration.EncodeTime = zapcore.ISO8601TimeEncoder

	switch format {
	case LogFormatStructured:
		return zapcore.NewJSONEncoder(encoderConfiguration), nil
	case LogFormatConsole:
		encoderConfiguration.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encoderConfiguration), nil
	default:
		return nil, fmt.Errorf(unsupportedLogFormatTemplateConstant, format)
	}
}

func positiveOrDefault(value int, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
