package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// impl is the concrete Logger, a thin wrapper over a zap.SugaredLogger whose
// level can be raised or lowered at runtime via a zap.AtomicLevel.
type impl struct {
	name  string
	level zap.AtomicLevel
	sugar *zap.SugaredLogger
}

func newImpl(name string, level Level) *impl {
	atom := zap.NewAtomicLevelAt(level.zapLevel())

	cfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(zapcore.AddSync(os.Stdout)), atom)
	zl := zap.New(core, zap.AddCaller()).Named(name)

	return &impl{name: name, level: atom, sugar: zl.Sugar()}
}

func (imp *impl) Debug(args ...interface{})                        { imp.sugar.Debug(args...) }
func (imp *impl) Debugf(template string, args ...interface{})      { imp.sugar.Debugf(template, args...) }
func (imp *impl) Debugw(msg string, kv ...interface{})             { imp.sugar.Debugw(msg, kv...) }
func (imp *impl) Info(args ...interface{})                         { imp.sugar.Info(args...) }
func (imp *impl) Infof(template string, args ...interface{})       { imp.sugar.Infof(template, args...) }
func (imp *impl) Infow(msg string, kv ...interface{})              { imp.sugar.Infow(msg, kv...) }
func (imp *impl) Warn(args ...interface{})                         { imp.sugar.Warn(args...) }
func (imp *impl) Warnf(template string, args ...interface{})       { imp.sugar.Warnf(template, args...) }
func (imp *impl) Warnw(msg string, kv ...interface{})              { imp.sugar.Warnw(msg, kv...) }
func (imp *impl) Error(args ...interface{})                        { imp.sugar.Error(args...) }
func (imp *impl) Errorf(template string, args ...interface{})      { imp.sugar.Errorf(template, args...) }
func (imp *impl) Errorw(msg string, kv ...interface{})             { imp.sugar.Errorw(msg, kv...) }

func (imp *impl) SetLevel(level Level) { imp.level.SetLevel(level.zapLevel()) }

func (imp *impl) GetLevel() Level {
	switch imp.level.Level() {
	case zapcore.DebugLevel:
		return DEBUG
	case zapcore.WarnLevel:
		return WARN
	case zapcore.ErrorLevel:
		return ERROR
	default:
		return INFO
	}
}

func (imp *impl) AsZap() *zap.SugaredLogger { return imp.sugar }

func (imp *impl) Sublogger(subname string) Logger {
	name := subname
	if imp.name != "" {
		name = fmt.Sprintf("%s.%s", imp.name, subname)
	}
	return &impl{name: name, level: imp.level, sugar: imp.sugar.Named(subname)}
}
