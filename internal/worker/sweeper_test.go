package worker

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeSessions struct {
	mu    sync.Mutex
	calls []time.Duration
	close int
}

func (f *fakeSessions) SweepIdle(_ time.Time, idleTTL time.Duration) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, idleTTL)
	return f.close
}

type fakePurger struct{ purged int }

func (f *fakePurger) Purge() int {
	f.purged++
	return 1
}

type fakeRecorder struct{ swept int }

func (f *fakeRecorder) SessionsSwept(n int) { f.swept += n }

func TestNewSweeper_RejectsBadCron(t *testing.T) {
	if _, err := NewSweeper(&fakeSessions{}, SweeperConfig{Cron: "whenever"}, zap.NewNop().Sugar()); err == nil {
		t.Fatal("expected error for invalid cron")
	}
}

func TestSweeper_RunOnce(t *testing.T) {
	sessions := &fakeSessions{close: 2}
	previews := &fakePurger{}
	rec := &fakeRecorder{}

	s, err := NewSweeper(sessions, SweeperConfig{
		Cron:     "*/10 * * * *",
		IdleTTL:  2 * time.Hour,
		Previews: previews,
		Recorder: rec,
	}, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewSweeper: %v", err)
	}

	if closed := s.RunOnce(); closed != 2 {
		t.Errorf("expected 2 closed, got %d", closed)
	}
	if len(sessions.calls) != 1 || sessions.calls[0] != 2*time.Hour {
		t.Errorf("unexpected sweep calls: %v", sessions.calls)
	}
	if previews.purged != 1 || rec.swept != 2 {
		t.Errorf("expected purge and metric update, got purged=%d swept=%d", previews.purged, rec.swept)
	}
}

func TestSweeper_NextTick(t *testing.T) {
	s, err := NewSweeper(&fakeSessions{}, SweeperConfig{Cron: "*/10 * * * *"}, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewSweeper: %v", err)
	}

	from := time.Date(2024, 6, 1, 9, 3, 0, 0, time.UTC)
	next, err := s.next(from)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if want := time.Date(2024, 6, 1, 9, 10, 0, 0, time.UTC); !next.Equal(want) {
		t.Errorf("expected %s, got %s", want, next)
	}
}

func TestSweeper_StartStop(t *testing.T) {
	s, err := NewSweeper(&fakeSessions{}, SweeperConfig{Cron: "0 0 1 1 *"}, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewSweeper: %v", err)
	}

	s.Start()
	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
