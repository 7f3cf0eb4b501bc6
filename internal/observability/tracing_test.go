package observability

import (
	"context"
	"testing"

	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/logger"
)

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), logger.Nop(), config.TracingConfig{Enabled: false})
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestInitTracingStdout(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), logger.Nop(), config.TracingConfig{Enabled: true})
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}
