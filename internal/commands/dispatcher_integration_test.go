package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-sitebuilder/internal/logging"
)

type retryCommand struct{}

func (retryCommand) Type() string    { return "sitebuilder.test.dispatcher.retry" }
func (retryCommand) Validate() error { return nil }

type invalidCommand struct{}

func (invalidCommand) Type() string    { return "sitebuilder.test.dispatcher.invalid" }
func (invalidCommand) Validate() error { return errors.New("page_id is required") }

func TestDispatcherRetriesTransientFailures(t *testing.T) {
	var (
		attempts int
		seen     any
	)
	handler := NewHandler(func(ctx context.Context, _ retryCommand) error {
		attempts++
		seen = logging.ContextFields(ctx)["command"]
		if attempts == 1 {
			return errors.New("database busy")
		}
		return nil
	}, WithTimeout[retryCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), retryCommand{}); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
	if seen != "sitebuilder.test.dispatcher.retry" {
		t.Fatalf("expected command type on the execution context, got %v", seen)
	}
}

func TestDispatcherNeverExecutesInvalidMessages(t *testing.T) {
	calls := 0
	handler := NewHandler(func(context.Context, invalidCommand) error {
		calls++
		return nil
	})

	sub := dispatcher.SubscribeCommand(handler)
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), invalidCommand{}); err == nil {
		t.Fatal("expected validation failure from dispatcher")
	}
	if calls != 0 {
		t.Fatalf("expected handler function skipped, got %d calls", calls)
	}
}
