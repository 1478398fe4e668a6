package recoveryinstructions

import (
	"context"
	e "recoverable/internal/core/domain/errors"
	"recoverable/internal/core/domain/logging"
	"recoverable/internal/core/domain/user"
	"recoverable/internal/rabbitmq"
	"recoverable/internal/rabbitmq/schema"

	"github.com/rabbitmq/amqp091-go"
)

type recoveryEmailSender interface {
	SendRecoveryEmail(ctx context.Context, subject string, u user.User, tokenType user.TokenType) error
}

type Consumer struct {
	log     logging.Logger
	channel *rabbitmq.Channel
	queue   string
	sender  recoveryEmailSender
}

func New(
	log logging.Logger,
	channel *rabbitmq.Channel,
	queue string,
	sender recoveryEmailSender,
) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic("queue name must not be empty")
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	return &Consumer{log: log, channel: channel, queue: queue, sender: sender}
}

func (c *Consumer) Consume() error {
	deliveries, err := c.channel.Consume(c.queue, "")
	if err != nil {
		c.log.Error(context.Background(), "Could not start consuming.", logging.Entry("err", err))
		return err
	}

	go func() {
		for delivery := range deliveries {
			if c.Handle(context.Background(), delivery.Body) {
				c.ack(delivery)
			} else {
				c.nack(delivery)
			}
		}
	}()
	return nil
}

// Handle delivers one message. It returns false if the message should be
// redelivered. Malformed messages are dropped.
func (c *Consumer) Handle(ctx context.Context, body []byte) bool {
	instructions := &schema.RecoveryInstructions{}
	if err := instructions.Unmarshal(body); err != nil {
		c.log.Error(
			ctx,
			"Could not unmarshal recovery instructions.",
			logging.Entry("err", err),
			logging.Entry("bodyLength", len(body)),
		)
		return true
	}

	u := instructions.User()
	c.log.Info(ctx, "Got recovery instructions for sending.", logging.Entry("userID", u.ID))
	if err := c.sender.SendRecoveryEmail(ctx, instructions.Subject, u, instructions.Type()); err != nil {
		c.log.Error(
			ctx,
			"Could not send recovery instructions.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return false
	}
	return true
}

func (c *Consumer) ack(delivery amqp091.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.log.Error(context.Background(), "Could not ACK AMQP message.", logging.Entry("err", err))
	}
}

func (c *Consumer) nack(delivery amqp091.Delivery) {
	if err := delivery.Nack(false, !delivery.Redelivered); err != nil {
		c.log.Error(context.Background(), "Could not NACK AMQP message.", logging.Entry("err", err))
	}
}
