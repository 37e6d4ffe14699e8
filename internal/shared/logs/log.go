package logs

import (
	"io"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"WordDice/internal/shared/config"
	"WordDice/modules/kit/logx"
)

var (
	logger = zap.NewNop()
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Init 初始化全局 logger：控制台彩色输出 + 文件 JSON 输出（lumberjack 切割）。
//
//	2026-01-28T10:00:00 INFO  sim-server  server start  server_main.go:12
func Init(appName string, cfg config.LogConfig) error {
	level.SetLevel(parseLevel(cfg.Level))

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	// 控制台带颜色，文件不带，避免 ANSI 转义写进日志文件
	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(consoleCfg)

	fileCfg := encoderCfg
	fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	jsonEncoder := zapcore.NewJSONEncoder(fileCfg)

	consoleSyncer := zapcore.Lock(os.Stderr)
	core := zapcore.NewCore(consoleEncoder, consoleSyncer, level)
	if cfg.FileDir != "" {
		var fileWriter io.Writer = &lumberjack.Logger{
			Filename:   cfg.FileDir,
			MaxSize:    max(1, cfg.MaxSize), // MB，至少 1
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAge),
			Compress:   cfg.Compress,
		}
		core = zapcore.NewTee(
			core,
			zapcore.NewCore(jsonEncoder, zapcore.AddSync(fileWriter), level),
		)
	}

	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}
	if cfg.Dev {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	_ = logger.Sync()
	logger = zap.New(core, opts...).Named(appName)
	return nil
}

// SetLevel 在配置热更新时调整日志级别，非法值回退到 info。
func SetLevel(lvl string) {
	level.SetLevel(parseLevel(lvl))
}

func Level() zapcore.Level {
	return level.Level()
}

func parseLevel(s string) zapcore.Level {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// Logger 返回不带 caller skip 的底层 logger，给需要 *zap.Logger 的组件使用。
func Logger() *zap.Logger {
	return logger.WithOptions(zap.AddCallerSkip(-1))
}

// L 返回 logx.Logger 适配，供 app/interfaces 层按 ctx 打印 trace 字段。
func L() logx.Logger {
	return logx.NewZapLogger(Logger())
}

func Sync() {
	_ = logger.Sync()
}

func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

// Info 建议使用 zap.String、zap.Int、zap.Duration 等构造强类型字段。
func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

// Fatal 输出后 os.Exit(1)。
func Fatal(msg string, fields ...zap.Field) {
	logger.Fatal(msg, fields...)
}
