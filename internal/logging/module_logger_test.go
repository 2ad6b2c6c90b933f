package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-translations/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "translations.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerAnnotatesModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	ServiceLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != serviceModule {
		t.Fatalf("expected module %s, got %v", serviceModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != serviceModule {
		t.Fatalf("expected module field %s, got %v", serviceModule, rec.fields)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	ModuleLogger(provider, "")

	if provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestWithTranslationContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	WithTranslationContext(rec, " common.buttons.save ", "", "")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	got := rec.fields[0]
	if got[fieldTranslationKey] != "common.buttons.save" {
		t.Fatalf("expected trimmed key, got %v", got[fieldTranslationKey])
	}
	if _, ok := got[fieldNamespace]; ok {
		t.Fatalf("expected namespace to be omitted, got %v", got)
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{RequestIDField: "abc"})
	ctx = ContextWithFields(ctx, map[string]any{"route": "/translations"})

	fields := ContextFields(ctx)
	if fields[RequestIDField] != "abc" || fields["route"] != "/translations" {
		t.Fatalf("unexpected merged fields %v", fields)
	}
	if RequestID(ctx) != "abc" {
		t.Fatalf("expected request id abc, got %q", RequestID(ctx))
	}

	fields["route"] = "mutated"
	if ContextFields(ctx)["route"] != "/translations" {
		t.Fatalf("expected ContextFields to return a copy")
	}
}
