package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/persistfsm/pkg/logger"
	"github.com/dmitrymomot/persistfsm/pkg/persist"
)

var (
	// ErrPublishFailed wraps failures to publish a change notification.
	ErrPublishFailed = errors.New("failed to publish state change")
	// ErrMalformedMessage is passed to the decode error handler for payloads
	// that are not a Message.
	ErrMalformedMessage = errors.New("malformed state change message")
)

// Message is the JSON payload published for every persisted change.
type Message struct {
	ID    string    `json:"id"`
	From  string    `json:"from"`
	To    string    `json:"to"`
	Event string    `json:"event"`
	At    time.Time `json:"at"`
}

// Publisher is a persist listener that publishes each durable change on a
// Redis pub/sub channel. Subscribers only ever see committed changes.
type Publisher[ID, S, E comparable] struct {
	persist.ListenerAdapter[ID, S, E]
	client  redis.UniversalClient
	channel string
	codec   persist.Codec[S]
	now     func() time.Time
}

// NewPublisher returns a Publisher writing to channel.
func NewPublisher[ID, S, E comparable](client redis.UniversalClient, channel string, codec persist.Codec[S]) *Publisher[ID, S, E] {
	if client == nil {
		panic("redisstore: nil client")
	}
	if channel == "" {
		panic("redisstore: empty channel")
	}
	return &Publisher[ID, S, E]{
		client:  client,
		channel: channel,
		codec:   codec,
		now:     time.Now,
	}
}

func (p *Publisher[ID, S, E]) AfterPersist(ctx context.Context, c persist.Change[ID, S, E]) error {
	from, err := p.codec.Encode(c.From)
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	to, err := p.codec.Encode(c.To)
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}

	payload, err := json.Marshal(Message{
		ID:    persist.Key(c.ID),
		From:  from,
		To:    to,
		Event: fmt.Sprint(c.Event),
		At:    p.now().UTC(),
	})
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	return nil
}

// DecodeErrorHandler receives payloads on the channel that are not a Message.
type DecodeErrorHandler func(ctx context.Context, payload string, err error)

// SubscribeOption configures Subscribe.
type SubscribeOption func(*subscribeConfig)

type subscribeConfig struct {
	onDecodeError DecodeErrorHandler
}

// WithDecodeErrorHandler replaces the default handling of malformed
// payloads, which is a warning on slog.Default.
func WithDecodeErrorHandler(fn DecodeErrorHandler) SubscribeOption {
	return func(c *subscribeConfig) {
		if fn != nil {
			c.onDecodeError = fn
		}
	}
}

// LogDecodeErrors returns a DecodeErrorHandler warning on log.
func LogDecodeErrors(log *slog.Logger) DecodeErrorHandler {
	if log == nil {
		log = slog.Default()
	}
	return func(ctx context.Context, payload string, err error) {
		log.WarnContext(ctx, "skipping malformed state change message",
			slog.Int("payload_bytes", len(payload)),
			logger.Error(err),
		)
	}
}

// Subscribe decodes messages from channel until ctx ends. The returned
// channel is closed when the subscription stops. Payloads that fail to
// decode are skipped and handed to the decode error handler.
func Subscribe(ctx context.Context, client redis.UniversalClient, channel string, opts ...SubscribeOption) (<-chan Message, error) {
	cfg := subscribeConfig{onDecodeError: LogDecodeErrors(nil)}
	for _, opt := range opts {
		opt(&cfg)
	}

	sub := client.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan Message)
	go func() {
		defer close(out)
		defer sub.Close()
		relay(ctx, sub.Channel(), out, cfg.onDecodeError)
	}()
	return out, nil
}

func relay(ctx context.Context, in <-chan *redis.Message, out chan<- Message, onDecodeError DecodeErrorHandler) {
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-in:
			if !ok {
				return
			}
			var msg Message
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				onDecodeError(ctx, m.Payload, errors.Join(ErrMalformedMessage, err))
				continue
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}
}
