// Package activity publishes audit events for content changes.
package activity

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	VerbSaveContent = "save_content"
	VerbCopy        = "copy"
	VerbPublish     = "publish"
	VerbUnpublish   = "unpublish"
	VerbActivate    = "activate"
	VerbImport      = "import"

	ObjectPage   = "page"
	ObjectMenu   = "menu"
	ObjectFooter = "footer"
	ObjectSite   = "site"

	DefaultChannel = "sitebuilder"
)

// Event describes one auditable change.
type Event struct {
	Verb           string
	ActorID        string
	UserID         string
	TenantID       string
	ObjectType     string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OccurredAt     time.Time
}

// Hook receives emitted events.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, event Event) error

func (f HookFunc) Notify(ctx context.Context, event Event) error { return f(ctx, event) }

// Emitter fans events out to hooks. A nil or disabled Emitter drops events.
type Emitter struct {
	hooks   []Hook
	enabled bool
	now     func() time.Time
}

// EmitterOption configures an Emitter.
type EmitterOption func(*Emitter)

// WithClock overrides the clock used to stamp events.
func WithClock(now func() time.Time) EmitterOption {
	return func(e *Emitter) {
		if now != nil {
			e.now = now
		}
	}
}

// WithEnabled toggles emission.
func WithEnabled(enabled bool) EmitterOption {
	return func(e *Emitter) { e.enabled = enabled }
}

// NewEmitter builds an enabled emitter over hooks.
func NewEmitter(hooks []Hook, opts ...EmitterOption) *Emitter {
	e := &Emitter{enabled: true, now: time.Now}
	for _, hook := range hooks {
		if hook != nil {
			e.hooks = append(e.hooks, hook)
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Enabled reports whether events reach any hook.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled && len(e.hooks) > 0
}

// Emit stamps and forwards event to every hook. Hook failures are joined;
// every hook is called regardless.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Verb) == "" {
		return nil
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.now().UTC()
	}
	if event.Channel == "" {
		event.Channel = DefaultChannel
	}
	var errs []error
	for _, hook := range e.hooks {
		if err := hook.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
