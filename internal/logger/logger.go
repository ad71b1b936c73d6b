package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init builds the process-wide zap logger and installs it via
// zap.ReplaceGlobals. When filename is non-empty, JSON output is written
// to a rotated file in addition to the console.
func Init(mode, filename string) {
	var zapConfig zap.Config
	if mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	var log *zap.Logger
	if filename != "" {
		rotated := &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(rotated),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		log = zap.New(core, zap.AddCaller())
	} else {
		built, err := zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
		log = built
	}

	zap.ReplaceGlobals(log)
}
