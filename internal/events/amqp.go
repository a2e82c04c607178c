package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"finance-tracker-go/pkg/logger"
)

const publishTimeout = 5 * time.Second

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

type AMQPConfig struct {
	URL      string
	Exchange string
	Queue    string
}

type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  amqpChannel
	exchange string
	queue    string
	log      logger.Logger
}

// NewAMQPPublisher dials the broker and declares a durable direct exchange with a
// queue bound under the queue name.
func NewAMQPPublisher(cfg AMQPConfig, log logger.Logger) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareTopology(channel, cfg.Exchange, cfg.Queue); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	publisher := newPublisher(channel, cfg.Exchange, cfg.Queue, log)
	publisher.conn = conn
	return publisher, nil
}

func newPublisher(channel amqpChannel, exchange, queue string, log logger.Logger) *AMQPPublisher {
	if log == nil {
		log = logger.NewNop()
	}
	return &AMQPPublisher{
		channel:  channel,
		exchange: exchange,
		queue:    queue,
		log:      log,
	}
}

func declareTopology(channel *amqp091.Channel, exchange, queue string) error {
	if err := channel.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := channel.QueueBind(queue, queue, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) PublishImportCompleted(ctx context.Context, event ImportCompleted) error {
	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	err = p.channel.PublishWithContext(ctx, p.exchange, p.queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    event.CompletedAt,
		Type:         event.Type,
		Body:         body,
	})
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	p.log.Debug("events.publish: import completed",
		"owner_id", event.OwnerID,
		"exchange", p.exchange,
		"queue", p.queue,
	)
	return nil
}

func (p *AMQPPublisher) Close() error {
	var firstErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			firstErr = err
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
