package tracking

import (
	"context"
	"sync"
	"time"

	pkgerrors "github.com/sliceworks/pizzeria-backend/pkg/errors"
	"github.com/sliceworks/pizzeria-backend/pkg/logger"
	"github.com/sliceworks/pizzeria-backend/pkg/metrics"
)

// FinalStage is the terminal stage of the delivery simulation.
const FinalStage = 5

const defaultTickInterval = 10 * time.Second

// Status is a snapshot of one session's simulated order progress. Stage
// zero means no active order; completion is always derived from the
// stage, never stored.
type Status struct {
	Stage      int       `json:"stage"`
	FinalStage int       `json:"final_stage"`
	Progress   float64   `json:"progress"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	IsComplete bool      `json:"is_complete"`
}

type session struct {
	stage     int
	startedAt time.Time
	cancel    context.CancelFunc
}

// Simulator drives the cosmetic order-status progression. Each session
// gets its own ticker goroutine that advances the stage until the final
// stage is reached or the session is reset.
type Simulator struct {
	logg     *logger.Logger
	metrics  *metrics.StorefrontMetrics
	interval time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

// NewSimulator builds the simulator. Interval is the auto-advance
// cadence; zero means the default.
func NewSimulator(logg *logger.Logger, m *metrics.StorefrontMetrics, interval time.Duration) (*Simulator, error) {
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	if interval <= 0 {
		interval = defaultTickInterval
	}
	return &Simulator{
		logg:     logg,
		metrics:  m,
		interval: interval,
		sessions: map[string]*session{},
	}, nil
}

// Start moves the session from idle to stage one and begins the
// auto-advance ticker. Starting an already-tracking session restarts it
// from stage one.
func (s *Simulator) Start(ctx context.Context, sessionID string) Status {
	s.mu.Lock()
	if existing, ok := s.sessions[sessionID]; ok {
		existing.cancel()
	}

	tickCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sess := &session{stage: 1, startedAt: time.Now().UTC(), cancel: cancel}
	s.sessions[sessionID] = sess
	status := s.snapshot(sess)
	s.mu.Unlock()

	logCtx := s.logg.WithSessionID(ctx, sessionID)
	s.logg.Info(logCtx, "order tracking started")
	go s.run(tickCtx, sessionID)

	return status
}

// Advance bumps the stage by one, clamped at the final stage. It is a
// no-op for idle sessions.
func (s *Simulator) Advance(ctx context.Context, sessionID string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || sess.stage == 0 {
		return Status{FinalStage: FinalStage}
	}
	s.advanceLocked(ctx, sessionID, sess)
	return s.snapshot(sess)
}

// Reset returns the session to the idle stage unconditionally and stops
// its ticker.
func (s *Simulator) Reset(ctx context.Context, sessionID string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sessionID]; ok {
		sess.cancel()
		delete(s.sessions, sessionID)
		s.logg.Info(s.logg.WithSessionID(ctx, sessionID), "order tracking reset")
	}
	return Status{FinalStage: FinalStage}
}

// Status returns the session's current snapshot. Unknown sessions are
// idle, not an error.
func (s *Simulator) Status(sessionID string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return Status{FinalStage: FinalStage}
	}
	return s.snapshot(sess)
}

// Shutdown stops every running ticker.
func (s *Simulator) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		sess.cancel()
		delete(s.sessions, id)
	}
}

func (s *Simulator) run(ctx context.Context, sessionID string) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			sess, ok := s.sessions[sessionID]
			if !ok {
				s.mu.Unlock()
				return
			}
			s.advanceLocked(ctx, sessionID, sess)
			done := sess.stage >= FinalStage
			s.mu.Unlock()
			if done {
				return
			}
		}
	}
}

func (s *Simulator) advanceLocked(ctx context.Context, sessionID string, sess *session) {
	if sess.stage >= FinalStage {
		return
	}
	sess.stage++
	s.metrics.IncTrackingTick()

	logCtx := s.logg.WithSessionID(ctx, sessionID)
	logCtx = s.logg.WithField(logCtx, "stage", sess.stage)
	s.logg.Info(logCtx, "order tracking advanced")

	if sess.stage >= FinalStage {
		sess.cancel()
		s.metrics.IncTrackingComplete()
		s.logg.Info(logCtx, "order tracking complete")
	}
}

func (s *Simulator) snapshot(sess *session) Status {
	return Status{
		Stage:      sess.stage,
		FinalStage: FinalStage,
		Progress:   float64(sess.stage) / float64(FinalStage),
		StartedAt:  sess.startedAt,
		IsComplete: sess.stage >= FinalStage,
	}
}
