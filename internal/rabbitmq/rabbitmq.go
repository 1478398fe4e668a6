package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"recoverable/internal/core/domain/logging"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const reconnectDelay = 3 * time.Second

// Connection is an amqp.Connection which redials after a broker failure.
type Connection struct {
	*amqp.Connection
	log logging.Logger
}

func Dial(url string, log logging.Logger) (*Connection, error) {
	if log == nil {
		return nil, fmt.Errorf("log argument must not be nil")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	connection := &Connection{Connection: conn, log: log}
	go connection.redialOnClose(url)
	return connection, nil
}

func (c *Connection) redialOnClose(url string) {
	ctx := context.Background()
	for {
		reason, ok := <-c.Connection.NotifyClose(make(chan *amqp.Error))
		if !ok {
			c.log.Info(ctx, "RabbitMQ connection closed.")
			return
		}

		c.log.Warning(ctx, "RabbitMQ connection lost.", logging.Entry("reason", reason.Error()))
		for {
			time.Sleep(reconnectDelay)

			conn, err := amqp.Dial(url)
			if err == nil {
				c.Connection = conn
				c.log.Info(ctx, "RabbitMQ reconnect success.")
				break
			}
			c.log.Error(ctx, "RabbitMQ reconnect failed.", logging.Entry("err", err))
		}
	}
}

// Channel opens a channel that is recreated until it is closed explicitly.
func (c *Connection) Channel() (*Channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}

	channel := &Channel{Channel: ch, log: c.log}
	go c.reopenOnClose(channel)
	return channel, nil
}

func (c *Connection) reopenOnClose(channel *Channel) {
	ctx := context.Background()
	for {
		reason, ok := <-channel.Channel.NotifyClose(make(chan *amqp.Error))
		if !ok || channel.IsClosed() {
			// Sets the closed flag when the connection went away first.
			channel.Close()
			return
		}

		c.log.Warning(ctx, "RabbitMQ channel closed.", logging.Entry("reason", reason.Error()))
		for {
			time.Sleep(reconnectDelay)

			ch, err := c.Connection.Channel()
			if err == nil {
				c.log.Info(ctx, "RabbitMQ channel recreated.")
				channel.Channel = ch
				break
			}
			c.log.Error(ctx, "RabbitMQ channel recreation failed.", logging.Entry("err", err))
		}
	}
}

type Channel struct {
	*amqp.Channel
	closed int32
	log    logging.Logger
}

func (ch *Channel) IsClosed() bool {
	return atomic.LoadInt32(&ch.closed) == 1
}

func (ch *Channel) Close() error {
	if ch.IsClosed() {
		return amqp.ErrClosed
	}
	atomic.StoreInt32(&ch.closed, 1)
	return ch.Channel.Close()
}

// DeclareQueue declares a durable queue bound to the default exchange.
func (ch *Channel) DeclareQueue(name string) error {
	_, err := ch.Channel.QueueDeclare(name, true, false, false, false, nil)
	return err
}

func (ch *Channel) PublishJSON(ctx context.Context, queue string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return ch.Channel.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// Consume keeps delivering messages across channel recreations and stops
// only when the channel is closed explicitly.
func (ch *Channel) Consume(queue string, consumer string) (<-chan amqp.Delivery, error) {
	deliveries := make(chan amqp.Delivery)
	ctx := context.Background()

	go func() {
		defer close(deliveries)
		for {
			d, err := ch.Channel.Consume(queue, consumer, false, false, false, false, nil)
			if err != nil {
				if ch.IsClosed() {
					return
				}
				ch.log.Error(ctx, "Consume failed.", logging.Entry("err", err))
				time.Sleep(reconnectDelay)
				continue
			}

			for msg := range d {
				deliveries <- msg
			}

			// The closed flag may be set after the delivery channel is drained.
			time.Sleep(reconnectDelay)

			if ch.IsClosed() {
				ch.log.Info(ctx, "Channel is closed, stop consuming.", logging.Entry("queue", queue))
				return
			}
		}
	}()

	return deliveries, nil
}
