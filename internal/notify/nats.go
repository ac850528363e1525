// Package notify fans session notices out to a message bus.
package notify

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Publisher sends raw messages to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg []byte) error
	Close() error
}

// HandlerFunc receives one raw message.
type HandlerFunc func(ctx context.Context, msg []byte) error

type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("warehouse-sim"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	return p.conn.Publish(topic, msg)
}

// Close flushes pending messages before closing the connection.
func (p *NATSPublisher) Close() error {
	err := p.conn.Flush()
	p.conn.Close()
	return err
}

type NATSSubscriber struct {
	conn *nats.Conn
}

func NewNATSSubscriber(url string) (*NATSSubscriber, error) {
	conn, err := nats.Connect(url, nats.Name("warehouse-sim-watch"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSSubscriber{conn: conn}, nil
}

// Subscribe delivers every message on topic to handler until ctx is done.
func (s *NATSSubscriber) Subscribe(ctx context.Context, topic string, handler HandlerFunc) error {
	sub, err := s.conn.Subscribe(topic, deliver(ctx, handler))
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
	}()
	return nil
}

// deliver adapts handler to a NATS callback; handler errors are logged, not fatal.
func deliver(ctx context.Context, handler HandlerFunc) nats.MsgHandler {
	return func(msg *nats.Msg) {
		if err := handler(ctx, msg.Data); err != nil {
			logrus.Warnf("notify: handling message on %s: %v", msg.Subject, err)
		}
	}
}

func (s *NATSSubscriber) Close() error {
	s.conn.Close()
	return nil
}
