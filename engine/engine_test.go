package engine

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/config"
	"github.com/Carmen-Shannon/oxy-view/engine/frame"
	"github.com/go-gl/mathgl/mgl32"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestEngine(options ...EngineBuilderOption) Engine {
	options = append([]EngineBuilderOption{WithLogger(quietLogger())}, options...)
	return NewEngine(options...)
}

func TestScheduleFiresPerPeriod(t *testing.T) {
	e := newTestEngine()
	calls := 0
	e.Schedule(40*time.Millisecond, func() { calls++ })

	e.Tick(0.1)
	if calls != 2 {
		t.Errorf("expected 2 calls after 100ms, got %d", calls)
	}
	e.Tick(0.025)
	if calls != 3 {
		t.Errorf("expected 3 calls after 125ms, got %d", calls)
	}
}

func TestScheduleCatchUpIsBounded(t *testing.T) {
	e := newTestEngine(WithMaxCatchUp(3))
	calls := 0
	e.Schedule(10*time.Millisecond, func() { calls++ })

	e.Tick(1)
	if calls != 3 {
		t.Errorf("expected the backlog capped at 3 calls, got %d", calls)
	}
	e.Tick(0.005)
	if calls != 3 {
		t.Errorf("expected the dropped backlog not to carry over, got %d calls", calls)
	}
}

func TestScheduleCancel(t *testing.T) {
	e := newTestEngine()
	calls := 0
	cancel := e.Schedule(time.Millisecond, func() { calls++ })
	if e.ScheduledTasks() != 1 {
		t.Fatalf("expected 1 task, got %d", e.ScheduledTasks())
	}
	cancel()
	cancel()
	e.Tick(1)
	if calls != 0 || e.ScheduledTasks() != 0 {
		t.Errorf("expected no calls and no tasks, got %d calls and %d tasks", calls, e.ScheduledTasks())
	}
}

func TestCancelDuringTick(t *testing.T) {
	e := newTestEngine()
	calls := 0
	var cancel func()
	cancel = e.Schedule(10*time.Millisecond, func() {
		calls++
		cancel()
	})
	e.Tick(0.035)
	if calls != 1 {
		t.Errorf("expected a cancelled task to stop firing within the tick, got %d calls", calls)
	}
}

func TestTickOrder(t *testing.T) {
	e := newTestEngine()
	var order []string
	e.Schedule(0, func() { order = append(order, "task") })
	e.SetTickCallback(func(dt float32) {
		if dt != 0.5 {
			t.Errorf("expected delta 0.5, got %v", dt)
		}
		order = append(order, "callback")
	})
	e.Tick(0.5)
	if len(order) != 2 || order[0] != "task" || order[1] != "callback" {
		t.Errorf("expected [task callback], got %v", order)
	}
}

func TestViewportRegistry(t *testing.T) {
	c := camera.NewCamera(camera.WithLogger(quietLogger()))
	w := camera.NewWindow(camera.WithLogger(quietLogger()))
	e := newTestEngine(WithViewport(1, c))
	e.AddViewport(0, w)
	e.AddViewport(5, nil)

	if e.Viewport(1) != c || e.Viewport(0) != w {
		t.Error("expected both viewports registered")
	}
	if len(e.Viewports()) != 2 {
		t.Errorf("expected 2 viewports, got %d", len(e.Viewports()))
	}
	e.Tick(0.016)

	e.RemoveViewport(1)
	if e.Viewport(1) != nil || len(e.Viewports()) != 1 {
		t.Errorf("expected viewport 1 removed, got %v", e.Viewports())
	}
}

func TestEngineDrivesInterpolation(t *testing.T) {
	e := newTestEngine()
	c := camera.NewCamera(camera.WithLogger(quietLogger()), camera.WithScheduler(e))
	e.AddViewport(0, c)

	target := frame.IdentityPose()
	target.Position = mgl32.Vec3{0, 0, 10}
	c.InterpolateTo(target, 1)
	if e.ScheduledTasks() != 1 {
		t.Fatalf("expected the transition scheduled, got %d tasks", e.ScheduledTasks())
	}

	for range 40 {
		e.Tick(0.04)
	}
	if got := c.Position(); !got.ApproxEqualThreshold(target.Position, 1e-5) {
		t.Errorf("expected the eye at %v, got %v", target.Position, got)
	}
	if e.ScheduledTasks() != 0 {
		t.Errorf("expected the finished transition to unschedule, got %d tasks", e.ScheduledTasks())
	}
}

func TestTickRate(t *testing.T) {
	e := newTestEngine(WithTickRate(0))
	if e.TickRate() != time.Second/60 {
		t.Errorf("expected the default 60Hz, got %v", e.TickRate())
	}
	e.SetTickRate(200)
	if e.TickRate() != 5*time.Millisecond {
		t.Errorf("expected 5ms, got %v", e.TickRate())
	}
}

func TestRunAndQuit(t *testing.T) {
	e := newTestEngine(WithTickRate(500))
	var ticks atomic.Int32
	started := make(chan struct{})
	var once sync.Once
	e.SetTickCallback(func(float32) {
		ticks.Add(1)
		once.Do(func() { close(started) })
	})

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("expected the loop to tick")
	}
	if err := e.Run(context.Background()); !errors.Is(err, ErrRunning) {
		t.Errorf("expected ErrRunning, got %v", err)
	}

	e.Quit()
	e.Quit()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected a clean stop, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected Run to return after Quit")
	}
	if ticks.Load() == 0 {
		t.Error("expected at least one tick")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	e := newTestEngine(WithTickRate(1000))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := e.Run(ctx); err != nil {
		t.Errorf("expected nil after cancellation, got %v", err)
	}
}

func TestRunWatchesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view.yaml")
	if err := config.Save(config.Default(), path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	reloaded := make(chan *config.Config, 1)
	e := newTestEngine(WithConfigWatch(path, func(cfg *config.Config) {
		if cfg.TickRate != 25 {
			return
		}
		select {
		case reloaded <- cfg:
		default:
		}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	updated := config.Default()
	updated.TickRate = 25
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
wait:
	for {
		select {
		case <-reloaded:
			break wait
		case <-ticker.C:
			if err := config.Save(updated, path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		case <-deadline:
			t.Fatal("timed out waiting for a reload")
		}
	}

	if e.TickRate() != 40*time.Millisecond {
		t.Errorf("expected the reloaded tick rate 40ms, got %v", e.TickRate())
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("expected a clean stop, got %v", err)
	}
}
