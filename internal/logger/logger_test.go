package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"prod", "dev", ""} {
		l, err := NewLogger(env)
		if err != nil || l == nil {
			t.Fatalf("NewLogger(%q): %v", env, err)
		}
	}
	l, err := NewLogger("prod", "warn")
	if err != nil {
		t.Fatalf("NewLogger with level: %v", err)
	}
	if l.Core().Enabled(zap.InfoLevel) {
		t.Fatal("info should be disabled at warn level")
	}
	if _, err := NewLogger("staging"); err == nil {
		t.Fatal("expected error for unknown env")
	}
	if _, err := NewLogger("dev", "loud"); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected nop logger")
	}
	l := zap.NewExample()
	if got := FromContext(ContextWithLogger(context.Background(), l)); got != l {
		t.Fatal("expected stored logger")
	}
}
