package notify

import (
	"cab-booking-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPSink publishes booking events to a topic exchange with publisher
// confirms. Routing keys are booking.created and booking.status_changed.
type AMQPSink struct {
	exchange string

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	confirms chan amqp.Confirmation
}

// DialAMQP connects to url, declares the exchange and enables confirms.
func DialAMQP(url, exchange string) (*AMQPSink, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(30 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("amqp sink: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp sink: open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp sink: declare exchange %q: %w", exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp sink: enable confirms: %w", err)
	}

	log.Printf("amqp sink ready exchange=%s", exchange)
	return &AMQPSink{
		exchange: exchange,
		conn:     conn,
		ch:       ch,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

func (s *AMQPSink) Notify(ctx context.Context, n ports.Notification) error {
	body, err := encodeEvent(n)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil || s.conn.IsClosed() {
		return errors.New("amqp sink: connection is not open")
	}
	if s.ch == nil || s.ch.IsClosed() {
		return errors.New("amqp sink: channel is not open")
	}

	tag := s.ch.GetNextPublishSeqNo()
	err = s.ch.PublishWithContext(ctx, s.exchange, routingKey(n.Event), false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    n.Booking.ID,
		Timestamp:    n.Booking.UpdatedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("amqp sink: publish: %w", err)
	}

	return awaitConfirm(ctx, s.confirms, tag, confirmGrace)
}

// confirmGrace bounds the extra wait for a confirm after ctx is done.
const confirmGrace = 2 * time.Second

// awaitConfirm waits for the confirm carrying tag. Confirms for earlier tags
// belong to publishes that already gave up and are skipped. When ctx ends
// first it keeps reading for at most grace, so a late confirm is consumed
// here rather than by the next publish.
func awaitConfirm(ctx context.Context, confirms <-chan amqp.Confirmation, tag uint64, grace time.Duration) error {
	for {
		select {
		case c, ok := <-confirms:
			if !ok {
				return errors.New("amqp sink: confirm stream closed")
			}
			if c.DeliveryTag < tag {
				continue
			}
			if !c.Ack {
				return errors.New("amqp sink: publish not acknowledged")
			}
			return nil
		case <-ctx.Done():
			return drainConfirm(ctx, confirms, tag, grace)
		}
	}
}

func drainConfirm(ctx context.Context, confirms <-chan amqp.Confirmation, tag uint64, grace time.Duration) error {
	timer := time.NewTimer(grace)
	defer timer.Stop()

	for {
		select {
		case c, ok := <-confirms:
			if !ok {
				return ctx.Err()
			}
			if c.DeliveryTag < tag {
				continue
			}
			if !c.Ack {
				return fmt.Errorf("amqp sink: publish not acknowledged after %w", ctx.Err())
			}
			return ctx.Err()
		case <-timer.C:
			log.Printf("amqp sink: confirm tag=%d not received within grace=%s", tag, grace)
			return ctx.Err()
		}
	}
}

func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.ch != nil {
		errs = append(errs, s.ch.Close())
		s.ch = nil
	}
	if s.conn != nil {
		errs = append(errs, s.conn.Close())
		s.conn = nil
	}
	return errors.Join(errs...)
}
