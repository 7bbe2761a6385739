package cli

import (
	"context"
	"testing"
	"time"
)

func TestLoadContext(t *testing.T) {
	ctx, cancel := LoadContext(context.Background(), 0)
	defer cancel()
	if _, ok := ctx.Deadline(); ok {
		t.Fatalf("zero timeout must not set a deadline")
	}

	ctx, cancel = LoadContext(context.Background(), time.Minute)
	defer cancel()
	deadline, ok := ctx.Deadline()
	if !ok || time.Until(deadline) > time.Minute {
		t.Fatalf("expected deadline within a minute, got %v %v", deadline, ok)
	}
}

func TestSetupLogger(t *testing.T) {
	logger := SetupLogger("debug")
	if !logger.Enabled(context.Background(), -4) {
		t.Fatalf("debug level should be enabled")
	}
	logger = SetupLogger("")
	if logger.Enabled(context.Background(), -4) {
		t.Fatalf("debug level should be disabled by default")
	}
}
