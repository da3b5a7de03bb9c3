// Package amqp publishes ledger events to RabbitMQ and consumes them back.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fintrack/internal/log"

	"github.com/rabbitmq/amqp091-go"
)

// Circuit breaker states.
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures    = 5
	openTimeout    = 30 * time.Second
	maxBackoff     = 30 * time.Second
	publishRetries = 3
	publishTimeout = 5 * time.Second
)

// Client owns one connection and channel. Publishing goes through a
// circuit breaker so a dead broker does not stall ledger commands.
type Client struct {
	url          string
	exchangeName string
	queueName    string
	logger       *log.Logger

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel

	failureCount int64
	state        int32
	lastFailure  time.Time
}

// NewClient dials url and declares a topic exchange plus a durable queue
// bound to every ledger event.
func NewClient(url, exchangeName, queueName string) (*Client, error) {
	c := &Client{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
		logger:       log.Default().WithComponent(log.ComponentAMQP),
	}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if err := setup(channel, c.exchangeName, c.queueName); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("setup exchange and queue: %w", err)
	}
	c.conn, c.channel = conn, channel
	return nil
}

func setup(ch *amqp091.Channel, exchange, queue string) error {
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(queue, "ledger.#", exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

func routingKey(t EventType) string {
	return "ledger." + string(t)
}

// Publish sends e as a persistent JSON message. Connection failures are
// retried with exponential backoff after reconnecting.
func (c *Client) Publish(ctx context.Context, e *Event) error {
	if c.isCircuitOpen() {
		return fmt.Errorf("publish %s: circuit breaker is open", e.Type)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := e.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < publishRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(exponentialBackoff(attempt - 1)):
			}
			if err := c.connect(); err != nil {
				lastErr = err
				c.recordFailure()
				continue
			}
		}

		lastErr = c.publishOnce(ctx, e, body)
		if lastErr == nil {
			c.recordSuccess()
			c.logger.DebugContext(ctx, "Published ledger event",
				"event", e.Type, "exchange", c.exchangeName)
			return nil
		}
		c.recordFailure()
		if !isConnectionError(lastErr) {
			break
		}
		c.logger.WarnContext(ctx, "AMQP connection error, retrying",
			log.FieldError, lastErr, "attempt", attempt+1)
	}
	return fmt.Errorf("publish %s: %w", e.Type, lastErr)
}

func (c *Client) publishOnce(ctx context.Context, e *Event, body []byte) error {
	c.mu.Lock()
	ch := c.channel
	c.mu.Unlock()
	if ch == nil {
		return amqp091.ErrClosed
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return ch.PublishWithContext(ctx, c.exchangeName, routingKey(e.Type), false, false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    e.Timestamp,
			Type:         string(e.Type),
			Body:         body,
		})
}

// Consume delivers events to handler until ctx is done. Undecodable
// messages are dropped; handler errors requeue the message.
func (c *Client) Consume(ctx context.Context, handler func(context.Context, *Event) error) error {
	c.mu.Lock()
	ch := c.channel
	c.mu.Unlock()
	if ch == nil {
		return amqp091.ErrClosed
	}

	msgs, err := ch.Consume(c.queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}
	c.logger.InfoContext(ctx, "Started consuming ledger events", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "Stopping event consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			e, err := EventFromJSON(delivery.Body)
			if err != nil {
				c.logger.ErrorContext(ctx, "Failed to decode event", log.FieldError, err)
				delivery.Nack(false, false)
				continue
			}
			if err := handler(ctx, e); err != nil {
				c.logger.ErrorContext(ctx, "Failed to handle event", log.FieldError, err, "event", e.Type)
				delivery.Nack(false, true)
				continue
			}
			delivery.Ack(false)
		}
	}
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

func (c *Client) isCircuitOpen() bool {
	if atomic.LoadInt32(&c.state) != StateOpen {
		return false
	}
	c.mu.Lock()
	last := c.lastFailure
	c.mu.Unlock()
	if time.Since(last) > openTimeout {
		atomic.CompareAndSwapInt32(&c.state, StateOpen, StateHalfOpen)
		return false
	}
	return true
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

func (c *Client) recordFailure() {
	c.mu.Lock()
	c.lastFailure = time.Now()
	c.mu.Unlock()
	if atomic.AddInt64(&c.failureCount, 1) >= maxFailures {
		atomic.StoreInt32(&c.state, StateOpen)
	}
}

func exponentialBackoff(attempt int) time.Duration {
	if attempt > 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "eof", "broken pipe"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
