package logging

import (
	"context"
	"recoverable/internal/core/domain/logging"
	"recoverable/internal/core/domain/user"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEntriesBecomeFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	log.Info(
		context.Background(),
		"User has been recovered.",
		logging.Entry("userID", user.ID(42)),
		logging.Entry("token", user.RecoveryToken("secret")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	require.Equal(t, zapcore.InfoLevel, entry.Level)
	require.Equal(t, "User has been recovered.", entry.Message)
	fields := entry.ContextMap()
	require.EqualValues(t, 42, fields["userID"])
	require.Equal(t, "***", fields["token"])
}

func TestLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))
	ctx := context.Background()

	log.Debug(ctx, "debug")
	log.Info(ctx, "info")
	log.Warning(ctx, "warning")
	log.Error(ctx, "error")

	levels := make([]zapcore.Level, 0, 4)
	for _, entry := range logs.All() {
		levels = append(levels, entry.Level)
	}
	require.Equal(
		t,
		[]zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel},
		levels,
	)
}

func TestCanceledContextIsNotLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	logging.Error(context.Background(), log, context.Canceled)

	require.Equal(t, 0, logs.Len())
}
