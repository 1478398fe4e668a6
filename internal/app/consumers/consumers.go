package consumers

import (
	"context"
	"recoverable/internal/app/deps"
	dl "recoverable/internal/core/domain/logging"
	recoveryinstructions "recoverable/internal/rabbitmq/consumers/recovery_instructions"
)

func initRecoveryInstructionsConsumer(deps *deps.Deps) func() {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	queue := deps.Config.RabbitmqRecoveryQueue
	if err := rabbitmqChannel.DeclareQueue(queue); err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ queue.", dl.Entry("err", err))
		panic(err)
	}

	consumer := recoveryinstructions.New(deps.Logger, rabbitmqChannel, queue, deps.EmailSender)
	if err = consumer.Consume(); err != nil {
		deps.Logger.Error(
			context.Background(),
			"Could not start RabbitMQ consuming.",
			dl.Entry("err", err),
			dl.Entry("queue", queue),
		)
		panic(err)
	}

	deps.Logger.Info(context.Background(), "Consumer has started.", dl.Entry("queue", queue))
	return func() { rabbitmqChannel.Close() }
}

func InitConsumers(deps *deps.Deps) func() {
	shutdownRecoveryInstructionsConsumer := initRecoveryInstructionsConsumer(deps)

	return func() {
		shutdownRecoveryInstructionsConsumer()
	}
}
