package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	// Verbose enables debug output, i.e. one line per corrective action.
	Verbose bool
	// Development adds caller and stack information.
	Development bool
	// Output defaults to stderr.
	Output io.Writer
}

// New builds a console logger.
func New(cfg Config) *zap.SugaredLogger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	level := zapcore.InfoLevel
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	if !cfg.Development {
		encCfg.CallerKey = ""
		encCfg.StacktraceKey = ""
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(zapcore.AddSync(out)), level)

	var opts []zap.Option
	if cfg.Development {
		opts = append(opts, zap.AddCaller(), zap.Development())
	}
	return zap.New(core, opts...).Sugar()
}
