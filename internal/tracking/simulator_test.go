package tracking

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sliceworks/pizzeria-backend/pkg/logger"
)

func testSimulator(t *testing.T, interval time.Duration) *Simulator {
	t.Helper()

	logg := logger.New(logger.Options{
		ServiceName: "tracking-test",
		Level:       zerolog.ErrorLevel,
		Output:      io.Discard,
	})
	sim, err := NewSimulator(logg, nil, interval)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	t.Cleanup(sim.Shutdown)
	return sim
}

func TestUnknownSessionIsIdle(t *testing.T) {
	t.Parallel()

	sim := testSimulator(t, time.Hour)
	status := sim.Status("nobody")
	if status.Stage != 0 || status.IsComplete {
		t.Fatalf("status = %+v, want idle", status)
	}
}

func TestStartEntersStageOne(t *testing.T) {
	t.Parallel()

	sim := testSimulator(t, time.Hour)
	status := sim.Start(context.Background(), "session-1")
	if status.Stage != 1 {
		t.Fatalf("stage = %d", status.Stage)
	}
	if status.IsComplete {
		t.Fatal("fresh tracking cannot be complete")
	}
	if status.StartedAt.IsZero() {
		t.Fatal("start time not recorded")
	}
}

func TestAdvanceClampsAtFinalStage(t *testing.T) {
	t.Parallel()

	sim := testSimulator(t, time.Hour)
	ctx := context.Background()
	sim.Start(ctx, "session-1")

	var status Status
	for i := 0; i < FinalStage+3; i++ {
		status = sim.Advance(ctx, "session-1")
	}
	if status.Stage != FinalStage {
		t.Fatalf("stage = %d, want clamp at %d", status.Stage, FinalStage)
	}
	if !status.IsComplete {
		t.Fatal("final stage must derive completion")
	}
	if status.Progress != 1 {
		t.Fatalf("progress = %f", status.Progress)
	}
}

func TestAdvanceIdleSessionIsNoOp(t *testing.T) {
	t.Parallel()

	sim := testSimulator(t, time.Hour)
	status := sim.Advance(context.Background(), "session-1")
	if status.Stage != 0 {
		t.Fatalf("stage = %d, idle session must stay idle", status.Stage)
	}
}

func TestTickerAdvancesToCompletion(t *testing.T) {
	t.Parallel()

	sim := testSimulator(t, 5*time.Millisecond)
	ctx := context.Background()
	sim.Start(ctx, "session-1")

	deadline := time.After(2 * time.Second)
	for {
		if sim.Status("session-1").IsComplete {
			break
		}
		select {
		case <-deadline:
			t.Fatal("ticker never completed the simulation")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// Completion halts auto-advance; the stage must hold.
	time.Sleep(25 * time.Millisecond)
	if got := sim.Status("session-1").Stage; got != FinalStage {
		t.Fatalf("stage = %d after completion", got)
	}
}

func TestResetReturnsToIdle(t *testing.T) {
	t.Parallel()

	sim := testSimulator(t, time.Hour)
	ctx := context.Background()
	sim.Start(ctx, "session-1")
	sim.Advance(ctx, "session-1")

	status := sim.Reset(ctx, "session-1")
	if status.Stage != 0 {
		t.Fatalf("stage = %d", status.Stage)
	}
	if sim.Status("session-1").Stage != 0 {
		t.Fatal("session survived reset")
	}
}

func TestRestartBeginsFromStageOne(t *testing.T) {
	t.Parallel()

	sim := testSimulator(t, time.Hour)
	ctx := context.Background()
	sim.Start(ctx, "session-1")
	sim.Advance(ctx, "session-1")
	sim.Advance(ctx, "session-1")

	status := sim.Start(ctx, "session-1")
	if status.Stage != 1 {
		t.Fatalf("stage = %d, restart must begin over", status.Stage)
	}
}
