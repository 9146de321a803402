package sinks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vnykmshr/taskreg/pkg/tasks/registry"
)

const (
	// DefaultRedisChannel is the pub/sub channel events are published to
	// when RedisConfig.Channel is empty.
	DefaultRedisChannel = "taskreg:events"

	// DefaultPublishTimeout bounds each publish when
	// RedisConfig.PublishTimeout is zero.
	DefaultPublishTimeout = 2 * time.Second
)

// RedisConfig configures a redis event sink.
type RedisConfig struct {
	// Client is the redis client used to publish. Required.
	Client redis.UniversalClient

	// Channel is the pub/sub channel to publish to.
	// Defaults to DefaultRedisChannel.
	Channel string

	// PublishTimeout bounds each publish call.
	// Defaults to DefaultPublishTimeout.
	PublishTimeout time.Duration
}

// Event is the JSON payload published for each registry event.
type Event struct {
	Task    string    `json:"task,omitempty"`
	Message string    `json:"message"`
	Level   string    `json:"level"`
	Error   string    `json:"error,omitempty"`
	Time    time.Time `json:"time"`
}

// NewRedis returns a sink that publishes each event as a JSON Event to a
// redis pub/sub channel. Publish failures are dropped; a sink must never
// fail the registry's fan-out.
func NewRedis(cfg RedisConfig) registry.Sink {
	channel := cfg.Channel
	if channel == "" {
		channel = DefaultRedisChannel
	}
	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}

	return func(e *registry.Entry, msg string, level registry.Level, err error) {
		payload, merr := json.Marshal(newEvent(e, msg, level, err, time.Now()))
		if merr != nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = cfg.Client.Publish(ctx, channel, payload).Err()
	}
}

func newEvent(e *registry.Entry, msg string, level registry.Level, err error, now time.Time) Event {
	ev := Event{
		Message: msg,
		Level:   level.String(),
		Time:    now,
	}
	if e != nil {
		ev.Task = e.Name()
	}
	if err != nil {
		ev.Error = err.Error()
	}
	return ev
}
