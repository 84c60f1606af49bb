package logflags

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ScatterLogger builds the logger used by the scatter engine for per-entry
// failure traces. Traces are debug-level only: entry failures are part of
// the engine's normal contract and must stay silent unless asked for.
func ScatterLogger() Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:      "timestamp",
		LevelKey:     "level",
		MessageKey:   "message",
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	level := zapcore.ErrorLevel
	if scatter {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(zapcore.AddSync(logOut)),
		level,
	)

	return zap.New(core, zap.AddCaller()).Sugar()
}
