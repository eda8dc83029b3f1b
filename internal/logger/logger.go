// internal/logger/logger.go
//
// Structured JSON logger (Zap + Lumberjack).
//
// Context
// -------
// dbpool writes lifecycle and error events to one rotating JSON log
// under `<root>/logs/dbpool.log`.  When running in an interactive TTY
// the same events are teed, colorized, to stdout.  Rotation,
// compression, and retention are handled by Lumberjack; no external
// log-rotate job is required.
//
// Usage
// -----
//
//	log, err := logger.New(rootDir, runningInTTY())
//	if err != nil { … }
//	log.Infow("database connection pool online", "host", host)
//
// The logger is installed as the process-wide default via
// zap.ReplaceGlobals so zap.S() works in packages that are not handed a
// logger explicitly (e.g., the config loader during early boot).
package logger

import (
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a *zap.SugaredLogger writing JSON to <root>/logs.  When
// tee == true a colored console core is also attached.
func New(rootDir string, tee bool) (*zap.SugaredLogger, error) {
	logDir := filepath.Join(rootDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	fileSink := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "dbpool.log"),
		MaxSize:    50, // MB
		MaxBackups: 7,
		MaxAge:     14, // days
		Compress:   true,
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(fileSink),
		zap.InfoLevel,
	)}

	if tee {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stdout),
			zap.InfoLevel,
		))
	}

	z := zap.New(
		zapcore.NewTee(cores...),
		zap.ErrorOutput(zapcore.AddSync(fileSink)),
	).Sugar()

	zap.ReplaceGlobals(z.Desugar())
	return z, nil
}
