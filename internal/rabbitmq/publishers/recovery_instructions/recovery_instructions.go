package recoveryinstructions

import (
	"context"
	e "recoverable/internal/core/domain/errors"
	"recoverable/internal/core/domain/logging"
	"recoverable/internal/core/domain/user"
	"recoverable/internal/rabbitmq/schema"
)

type jsonPublisher interface {
	PublishJSON(ctx context.Context, queue string, message interface{}) error
}

// RabbitMQ hands recovery instructions over to the mailer.
type RabbitMQ struct {
	log       logging.Logger
	channel   jsonPublisher
	queue     string
	tokenType user.TokenType
}

func NewRabbitMQ(
	log logging.Logger,
	channel jsonPublisher,
	queue string,
	tokenType user.TokenType,
) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic("queue name must not be empty")
	}
	return &RabbitMQ{log: log, channel: channel, queue: queue, tokenType: tokenType}
}

func (p *RabbitMQ) SendRecoveryInstructions(ctx context.Context, subject string, u user.User) error {
	message, err := schema.NewRecoveryInstructions(subject, u, p.tokenType)
	if err != nil {
		return err
	}

	err = p.channel.PublishJSON(ctx, p.queue, message)
	if err != nil {
		logging.Error(ctx, p.log, err, logging.Entry("userID", u.ID))
		return err
	}
	p.log.Info(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("queue", p.queue),
		logging.Entry("userID", u.ID),
	)
	return nil
}
