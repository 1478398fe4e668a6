package logging

import (
	"context"
	"recoverable/internal/core/domain/logging"

	"go.uber.org/zap"
)

type ZapLogger struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

func NewZapLogger(debug bool) *ZapLogger {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	} else {
		logger, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		panic("Could not create Zap logger.")
	}
	return FromZap(logger)
}

func FromZap(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: logger, sugar: logger.Sugar()}
}

func (l *ZapLogger) Sync() {
	l.logger.Sync()
}

func (l *ZapLogger) Debug(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Debugw(msg, prepareArgs(entries...)...)
}

func (l *ZapLogger) Info(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Infow(msg, prepareArgs(entries...)...)
}

func (l *ZapLogger) Warning(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Warnw(msg, prepareArgs(entries...)...)
}

func (l *ZapLogger) Error(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Errorw(msg, prepareArgs(entries...)...)
}

func prepareArgs(entries ...logging.LogEntry) []interface{} {
	args := make([]interface{}, 0, len(entries)*2)
	for _, e := range entries {
		args = append(args, e.Key, e.Value)
	}
	return args
}
