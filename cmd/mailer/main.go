package main

import (
	"context"
	"os"
	"os/signal"
	"recoverable/internal/app/consumers"
	"recoverable/internal/app/deps"
	"syscall"

	dl "recoverable/internal/core/domain/logging"
)

func main() {
	deps, shutdownDeps := deps.InitMailerDeps()
	shutdownConsumers := consumers.InitConsumers(deps)

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer close(stopCh)

	sig := <-stopCh
	deps.Logger.Info(context.Background(), "Mailer is stopping.", dl.Entry("signal", sig.String()))

	shutdownConsumers()
	shutdownDeps()
}
