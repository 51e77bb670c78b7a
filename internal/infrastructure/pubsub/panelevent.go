package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"ticketdash/internal/shared/config"
	"ticketdash/internal/shared/goroutine"
	"ticketdash/internal/shared/logger"
)

// PanelEvent carries one panel's snapshot to other consoles following the session.
type PanelEvent struct {
	Panel      string          `json:"panel"`
	InstanceID string          `json:"instance_id"`
	Timestamp  int64           `json:"timestamp"`
	Snapshot   json.RawMessage `json:"snapshot"`
}

// PanelPublisher publishes panel changes.
type PanelPublisher interface {
	PublishPanel(ctx context.Context, panel string, snapshot any) error
}

// PanelSubscriber follows panel changes published by other instances.
type PanelSubscriber interface {
	SubscribePanels(ctx context.Context, handler func(event PanelEvent)) error
}

// RedisPanelBus implements PanelPublisher and PanelSubscriber using Redis Pub/Sub.
type RedisPanelBus struct {
	client     *redis.Client
	logger     logger.Interface
	prefix     string
	instanceID string // Unique ID for this instance to avoid self-delivery
}

// NewRedisPanelBus creates a panel bus publishing on "<prefix>:panel:<name>".
func NewRedisPanelBus(client *redis.Client, prefix string, log logger.Interface) *RedisPanelBus {
	if prefix == "" {
		prefix = "ticketdash"
	}
	return &RedisPanelBus{
		client:     client,
		logger:     log.Named("pubsub"),
		prefix:     prefix,
		instanceID: uuid.NewString(),
	}
}

// NewRedisClient creates and pings a Redis client.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// InstanceID identifies this publisher in its events.
func (b *RedisPanelBus) InstanceID() string {
	return b.instanceID
}

// Channel returns the channel a panel's events are published on.
func (b *RedisPanelBus) Channel(panel string) string {
	return fmt.Sprintf("%s:panel:%s", b.prefix, panel)
}

// PublishPanel publishes a panel snapshot.
func (b *RedisPanelBus) PublishPanel(ctx context.Context, panel string, snapshot any) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal %s snapshot: %w", panel, err)
	}
	data, err := json.Marshal(PanelEvent{
		Panel:      panel,
		InstanceID: b.instanceID,
		Timestamp:  time.Now().UTC().UnixMilli(),
		Snapshot:   raw,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal panel event: %w", err)
	}

	if err := b.client.Publish(ctx, b.Channel(panel), data).Err(); err != nil {
		b.logger.Errorw("failed to publish panel event",
			"panel", panel,
			"error", err,
		)
		return fmt.Errorf("failed to publish panel event: %w", err)
	}

	b.logger.Debugw("panel event published", "panel", panel)
	return nil
}

// SubscribePanels follows every panel channel under the prefix until ctx ends.
// Events published by this instance are filtered out.
func (b *RedisPanelBus) SubscribePanels(ctx context.Context, handler func(event PanelEvent)) error {
	return b.subscribeWithReconnect(ctx, b.Channel("*"), func(payload string) {
		var event PanelEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			b.logger.Warnw("failed to unmarshal panel event",
				"payload", truncate(payload, 256),
				"error", err,
			)
			return
		}
		if event.InstanceID == b.instanceID {
			return
		}
		handler(event)
	})
}

// subscribeWithReconnect wraps subscribe with automatic reconnection and exponential backoff.
func (b *RedisPanelBus) subscribeWithReconnect(ctx context.Context, pattern string, handler func(payload string)) error {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := b.subscribe(ctx, pattern, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warnw("panel subscription disconnected, reconnecting",
			"pattern", pattern,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (b *RedisPanelBus) subscribe(ctx context.Context, pattern string, handler func(payload string)) error {
	sub := b.client.PSubscribe(ctx, pattern)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", pattern, err)
	}
	b.logger.Infow("subscribed to panel events", "pattern", pattern)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("panel event channel closed", "pattern", pattern)
				return nil
			}
			// Handlers run in order on this goroutine so events stay in sequence
			goroutine.Protect(b.logger, "panel-event-handler", func() {
				handler(msg.Payload)
			})
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return strings.TrimSpace(s[:n]) + "..."
}
