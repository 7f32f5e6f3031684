package logger

import (
	"testing"
)

func TestNew_DevelopmentAndProduction(t *testing.T) {
	for _, env := range []string{"development", "production", "test"} {
		log := New(env)
		if log == nil {
			t.Fatalf("New(%q) returned nil", env)
		}
		// Smoke the level methods; output formatting is zerolog's concern.
		log.Debug("debug message", map[string]interface{}{"k": "v"})
		log.Info("info message", nil)
		log.Warn("warn message", map[string]interface{}{"count": 3})
		log.Error("error message", nil, nil)
	}
}

func TestWithRequestID(t *testing.T) {
	log := New("test")
	child := log.WithRequestID("req-123")
	if child == nil {
		t.Fatal("WithRequestID returned nil")
	}
	if child == log {
		t.Error("WithRequestID should return a child logger, not the receiver")
	}
	child.Info("message with request id", nil)
}
