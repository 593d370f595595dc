package telemetry

import (
	"errors"
	"testing"
)

func TestStageRecordsTiming(t *testing.T) {
	c := NewCollector()

	if err := c.Stage("build", func() error { return nil }); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	timings := c.Timings()
	if len(timings) != 1 || timings[0].Stage != "build" {
		t.Fatalf("Expected one timing for stage build, got %v", timings)
	}
}

func TestStagePropagatesError(t *testing.T) {
	c := NewCollector()
	wantErr := errors.New("boom")

	err := c.Stage("write", func() error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("Expected propagated error, got %v", err)
	}
	if len(c.Timings()) != 1 {
		t.Error("Failed stage must still be timed")
	}
}

func TestCounters(t *testing.T) {
	c := NewCollector()
	c.Count("bodies", 12)
	c.Count("bodies", 3)

	if got := c.Counter("bodies"); got != 15 {
		t.Errorf("Expected counter 15, got %d", got)
	}
	if got := c.Counter("missing"); got != 0 {
		t.Errorf("Expected zero counter, got %d", got)
	}
}
