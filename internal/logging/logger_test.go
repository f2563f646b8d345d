package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerRedactsSensitiveKeys(t *testing.T) {
	core, recorded := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core))

	logger.Info("login", "email", "a@example.com", "password", "Secret123")

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["password"] != "[REDACTED]" {
		t.Fatalf("password field = %v, want [REDACTED]", fields["password"])
	}
	if fields["email"] != "a@example.com" {
		t.Fatalf("email field = %v, want a@example.com", fields["email"])
	}
}

func TestLoggerWithKeepsScope(t *testing.T) {
	core, recorded := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core)).With("component", "reminders")

	logger.Warn("send failed", "user_id", 7)

	fields := recorded.All()[0].ContextMap()
	if fields["component"] != "reminders" {
		t.Fatalf("component field = %v, want reminders", fields["component"])
	}
}

func TestRedactKeepsDanglingKey(t *testing.T) {
	got := redact([]any{"user_id", 1, "orphan"})
	if len(got) != 3 || got[2] != "orphan" {
		t.Fatalf("redact() = %#v", got)
	}
}
