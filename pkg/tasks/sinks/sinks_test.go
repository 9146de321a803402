package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vnykmshr/taskreg/internal/testutil"
	"github.com/vnykmshr/taskreg/pkg/tasks/registry"
)

func newTestEntry(t *testing.T) (*registry.Registry, *registry.Entry) {
	t.Helper()
	reg := registry.New()
	t.Cleanup(reg.Close)

	e, err := reg.Register(registry.Task{
		Name:          "reindex",
		Interval:      time.Hour,
		DeferFirstRun: true,
		Action: registry.ActionFunc(func(context.Context, *registry.Entry) error {
			return nil
		}),
	})
	testutil.AssertNoError(t, err)
	return reg, e
}

func TestNewSlog_Levels(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSlog(slog.New(slog.NewTextHandler(&buf, nil)))

	_, e := newTestEntry(t)

	sink(e, "run started", registry.LevelInfo, nil)
	sink(e, "run skipped: task is paused", registry.LevelWarning, nil)
	sink(e, "run failed", registry.LevelException, errors.New("boom"))

	out := buf.String()
	for _, want := range []string{
		"level=INFO", "level=WARN", "level=ERROR",
		"run started", "run skipped", "run failed",
		`task=reindex`, "error=boom",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNewSlog_NilEntry(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSlog(slog.New(slog.NewTextHandler(&buf, nil)))

	sink(nil, "registry closed", registry.LevelInfo, nil)

	out := buf.String()
	if !strings.Contains(out, "registry closed") {
		t.Errorf("output missing message:\n%s", out)
	}
	if strings.Contains(out, "task=") {
		t.Errorf("nil entry should produce no task attribute:\n%s", out)
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsole(&buf)

	_, e := newTestEntry(t)
	sink(e, "task registered", registry.LevelInfo, nil)

	out := buf.String()
	if !strings.Contains(out, "task registered") {
		t.Errorf("output missing message:\n%s", out)
	}
}

func TestNewEvent(t *testing.T) {
	_, e := newTestEntry(t)
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	ev := newEvent(e, "run failed", registry.LevelException, errors.New("boom"), now)
	testutil.AssertEqual(t, ev.Task, "reindex")
	testutil.AssertEqual(t, ev.Message, "run failed")
	testutil.AssertEqual(t, ev.Level, "Exception")
	testutil.AssertEqual(t, ev.Error, "boom")
	testutil.AssertEqual(t, ev.Time, now)

	payload, err := json.Marshal(ev)
	testutil.AssertNoError(t, err)
	for _, want := range []string{`"task":"reindex"`, `"level":"Exception"`, `"error":"boom"`} {
		if !strings.Contains(string(payload), want) {
			t.Errorf("payload missing %q: %s", want, payload)
		}
	}
}

func TestNewEvent_NilEntryOmitsFields(t *testing.T) {
	ev := newEvent(nil, "registry closed", registry.LevelInfo, nil, time.Now())
	testutil.AssertEqual(t, ev.Task, "")
	testutil.AssertEqual(t, ev.Error, "")

	payload, err := json.Marshal(ev)
	testutil.AssertNoError(t, err)
	if strings.Contains(string(payload), `"task"`) || strings.Contains(string(payload), `"error"`) {
		t.Errorf("empty fields should be omitted: %s", payload)
	}
}

func TestNewRedis_PublishFailureIsDropped(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1", // nothing listens here
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	sink := NewRedis(RedisConfig{
		Client:         client,
		PublishTimeout: 100 * time.Millisecond,
	})

	// Must return without panicking even when redis is unreachable.
	sink(nil, "registry closed", registry.LevelInfo, nil)
}
