package logging

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type impl struct {
	name  string
	level zap.AtomicLevel
	core  zapcore.Core

	// sugar skips one frame so callers show up instead of this file.
	sugar *zap.SugaredLogger
}

func newImpl(name string, level zap.AtomicLevel, core zapcore.Core) *impl {
	imp := &impl{name: name, level: level, core: core}
	imp.sugar = imp.build(zap.AddCaller(), zap.AddCallerSkip(1))
	return imp
}

func (imp *impl) build(opts ...zap.Option) *zap.SugaredLogger {
	zl := zap.New(&levelCore{Core: imp.core, level: imp.level}, opts...)
	if imp.name != "" {
		zl = zl.Named(imp.name)
	}
	return zl.Sugar()
}

func (imp *impl) Sublogger(subname string) Logger {
	newName := subname
	if imp.name != "" {
		newName = fmt.Sprintf("%s.%s", imp.name, subname)
	}
	return newImpl(newName, zap.NewAtomicLevelAt(imp.level.Level()), imp.core)
}

func (imp *impl) SetLevel(level Level) {
	imp.level.SetLevel(level.AsZap())
}

func (imp *impl) GetLevel() Level {
	switch imp.level.Level() {
	case zapcore.DebugLevel:
		return DEBUG
	case zapcore.InfoLevel:
		return INFO
	case zapcore.WarnLevel:
		return WARN
	default:
		return ERROR
	}
}

func (imp *impl) AsZap() *zap.SugaredLogger {
	return imp.build(zap.AddCaller())
}

func (imp *impl) Sync() error {
	return imp.core.Sync()
}

func (imp *impl) Debug(args ...interface{})                   { imp.sugar.Debug(args...) }
func (imp *impl) Debugf(template string, args ...interface{}) { imp.sugar.Debugf(template, args...) }
func (imp *impl) Debugw(msg string, kvs ...interface{})       { imp.sugar.Debugw(msg, kvs...) }
func (imp *impl) Info(args ...interface{})                    { imp.sugar.Info(args...) }
func (imp *impl) Infof(template string, args ...interface{})  { imp.sugar.Infof(template, args...) }
func (imp *impl) Infow(msg string, kvs ...interface{})        { imp.sugar.Infow(msg, kvs...) }
func (imp *impl) Warn(args ...interface{})                    { imp.sugar.Warn(args...) }
func (imp *impl) Warnf(template string, args ...interface{})  { imp.sugar.Warnf(template, args...) }
func (imp *impl) Warnw(msg string, kvs ...interface{})        { imp.sugar.Warnw(msg, kvs...) }
func (imp *impl) Error(args ...interface{})                   { imp.sugar.Error(args...) }
func (imp *impl) Errorf(template string, args ...interface{}) { imp.sugar.Errorf(template, args...) }
func (imp *impl) Errorw(msg string, kvs ...interface{})       { imp.sugar.Errorw(msg, kvs...) }

// levelCore lets subloggers share outputs while keeping their own level.
type levelCore struct {
	zapcore.Core
	level zap.AtomicLevel
}

func (lc *levelCore) Enabled(level zapcore.Level) bool {
	return lc.level.Enabled(level) && lc.Core.Enabled(level)
}

func (lc *levelCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelCore{Core: lc.Core.With(fields), level: lc.level}
}

func (lc *levelCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !lc.level.Enabled(entry.Level) {
		return checked
	}
	return lc.Core.Check(entry, checked)
}

func utcTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	zapcore.ISO8601TimeEncoder(t.UTC(), enc)
}
