package gologger

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

func TestNewProviderFormats(t *testing.T) {
	cases := []struct {
		format  string
		wantErr bool
	}{
		{format: ""},
		{format: "json"},
		{format: "Console"},
		{format: " pretty "},
		{format: "xml", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			p, err := NewProvider(Config{Level: "debug", Format: tc.format})
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected format %q to be rejected", tc.format)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider(%q): %v", tc.format, err)
			}
			logger := p.GetLogger("sitebuilder.render").(interfaces.FieldsLogger).WithFields(map[string]any{"site_id": "s-1"})
			if logger == nil {
				t.Fatal("expected logger")
			}
			logger.Debug("provider.ready")
		})
	}
}

func TestNilProviderReturnsNoOp(t *testing.T) {
	var p *Provider
	if p.GetLogger("sitebuilder.pages") == nil {
		t.Fatal("expected no-op logger from nil provider")
	}
}

func TestAdapterForwardsLevels(t *testing.T) {
	stub := &recordingLogger{}
	logger := wrap(stub)

	emit := map[string]func(interfaces.Logger){
		"trace": func(l interfaces.Logger) { l.Trace("m") },
		"debug": func(l interfaces.Logger) { l.Debug("m") },
		"info":  func(l interfaces.Logger) { l.Info("m") },
		"warn":  func(l interfaces.Logger) { l.Warn("m") },
		"error": func(l interfaces.Logger) { l.Error("m") },
		"fatal": func(l interfaces.Logger) { l.Fatal("m") },
	}
	for level, fn := range emit {
		stub.calls = nil
		fn(logger)
		if len(stub.calls) != 1 || stub.calls[0] != level {
			t.Fatalf("%s: expected one %s call, got %v", level, level, stub.calls)
		}
	}
}

func TestAdapterWithFieldsCopiesInput(t *testing.T) {
	stub := &recordingLogger{}
	logger := wrap(stub)

	fields := map[string]any{"page_id": "p-1"}
	logger.(interfaces.FieldsLogger).WithFields(fields)
	fields["page_id"] = "p-2"

	if len(stub.fields) != 1 || stub.fields[0]["page_id"] != "p-1" {
		t.Fatalf("expected caller map to be copied, got %v", stub.fields)
	}

	logger.(interfaces.FieldsLogger).WithFields(nil)
	if len(stub.fields) != 1 {
		t.Fatalf("expected empty fields to be skipped, got %d calls", len(stub.fields))
	}
}

func TestAdapterWithContextAppliesContextFields(t *testing.T) {
	stub := &recordingLogger{}
	logger := wrap(stub)

	plain := context.Background()
	logger.WithContext(plain)
	if len(stub.contexts) != 1 || len(stub.fields) != 0 {
		t.Fatalf("expected bare context bind, got contexts=%d fields=%v", len(stub.contexts), stub.fields)
	}

	ctx := logging.ContextWithFields(plain, map[string]any{"command": "pages.publish"})
	logger.WithContext(ctx)
	if len(stub.contexts) != 2 || stub.contexts[1] != ctx {
		t.Fatalf("expected context propagation, got %d binds", len(stub.contexts))
	}
	if len(stub.fields) != 1 || stub.fields[0]["command"] != "pages.publish" {
		t.Fatalf("expected context fields applied, got %v", stub.fields)
	}
}

type recordingLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var (
	_ glog.Logger       = (*recordingLogger)(nil)
	_ glog.FieldsLogger = (*recordingLogger)(nil)
)

func (r *recordingLogger) Trace(string, ...any) { r.calls = append(r.calls, "trace") }
func (r *recordingLogger) Debug(string, ...any) { r.calls = append(r.calls, "debug") }
func (r *recordingLogger) Info(string, ...any)  { r.calls = append(r.calls, "info") }
func (r *recordingLogger) Warn(string, ...any)  { r.calls = append(r.calls, "warn") }
func (r *recordingLogger) Error(string, ...any) { r.calls = append(r.calls, "error") }
func (r *recordingLogger) Fatal(string, ...any) { r.calls = append(r.calls, "fatal") }

func (r *recordingLogger) WithContext(ctx context.Context) glog.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

func (r *recordingLogger) WithFields(fields map[string]any) glog.Logger {
	r.fields = append(r.fields, fields)
	return r
}
