package engine

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/config"
	"github.com/Carmen-Shannon/oxy-view/engine/interpolator"
	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
	"golang.org/x/sync/errgroup"
)

// ErrRunning is returned by Run when the engine loop is already running.
var ErrRunning = errors.New("engine: already running")

// task is a periodic callback registered through Schedule.
type task struct {
	period    time.Duration
	fn        func()
	elapsed   time.Duration
	cancelled bool
}

// engine implements the Engine interface.
// Drives scheduled interpolator updates, the tick callback and per-tick viewport refreshes.
type engine struct {
	mu     *sync.Mutex
	logger *log.Logger

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates
	engineTickRate  time.Duration
	running         bool

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback func(deltaTime float32)

	viewports map[int]camera.Viewport

	tasks      map[int]*task
	nextTaskID int
	maxCatchUp int

	configPath     string
	onConfigChange func(*config.Config)
}

// Engine is the main entry point for the engine.
// It owns the tick loop that advances keyframe playback and keeps registered viewports current.
type Engine interface {
	interpolator.Scheduler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// TickRate returns the interval between engine ticks.
	//
	// Returns:
	//   - time.Duration: the tick interval
	TickRate() time.Duration

	// SetTickRate sets the engine tick rate in ticks per second.
	// The tick callback will be called at this rate.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick, after scheduled callbacks
	// and before viewports are refreshed.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// AddViewport registers a viewport at the given key. Viewports are refreshed in ascending key order.
	//
	// Parameters:
	//   - key: the ordering key
	//   - v: the viewport to register
	AddViewport(key int, v camera.Viewport)

	// RemoveViewport removes the viewport at the given key.
	//
	// Parameters:
	//   - key: the key of the viewport to remove
	RemoveViewport(key int)

	// Viewport retrieves the viewport registered at the given key.
	// Returns nil if no viewport exists at that key.
	//
	// Parameters:
	//   - key: the key of the viewport to retrieve
	//
	// Returns:
	//   - camera.Viewport: the viewport at the key, or nil if not found
	Viewport(key int) camera.Viewport

	// Viewports returns a copy of all registered viewports.
	//
	// Returns:
	//   - map[int]camera.Viewport: a copy of the viewports map
	Viewports() map[int]camera.Viewport

	// ScheduledTasks returns the number of active scheduled callbacks.
	//
	// Returns:
	//   - int: the number of callbacks registered through Schedule and not yet cancelled
	ScheduledTasks() int

	// Tick advances the engine by deltaTime seconds on the calling goroutine.
	// Scheduled callbacks whose period elapsed fire first, then the tick callback runs,
	// then every viewport is refreshed, then the profiler samples.
	//
	// Parameters:
	//   - deltaTime: the elapsed time in seconds
	Tick(deltaTime float32)

	// Run starts the tick loop and, when configured, the config watcher.
	// Blocks until ctx is cancelled, Quit is called or the watcher fails.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: ErrRunning if already running, the watcher error, or nil
	Run(ctx context.Context) error

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.Mutex{},
		logger:          log.Default(),
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		viewports:       make(map[int]camera.Viewport),
		tasks:           make(map[int]*task),
		engineTickRate:  time.Second / 60,
		maxCatchUp:      4,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	return e
}

func (e *engine) Schedule(period time.Duration, fn func()) func() {
	if fn == nil {
		return func() {}
	}
	e.mu.Lock()
	id := e.nextTaskID
	e.nextTaskID++
	t := &task{period: period, fn: fn}
	e.tasks[id] = t
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			t.cancelled = true
			delete(e.tasks, id)
			e.mu.Unlock()
		})
	}
}

func (e *engine) ScheduledTasks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.tasks)
}

func (e *engine) Tick(deltaTime float32) {
	dt := time.Duration(float64(deltaTime) * float64(time.Second))

	e.mu.Lock()
	due := e.dueTasks(dt)
	callback := e.tickCallback
	viewports := e.sortedViewports()
	prof := e.profiler
	profiling := e.profilingEnabled
	e.mu.Unlock()

	for _, t := range due {
		e.mu.Lock()
		cancelled := t.cancelled
		e.mu.Unlock()
		if !cancelled {
			t.fn()
		}
	}

	if callback != nil {
		callback(deltaTime)
	}

	for _, v := range viewports {
		v.Update()
	}

	if profiling && prof != nil {
		prof.Tick()
	}
}

func (e *engine) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrRunning
	}
	e.running = true
	rate := e.engineTickRate
	configPath := e.configPath
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e.handleEngine(gctx, rate)
		return nil
	})
	if configPath != "" {
		g.Go(func() error {
			return config.Watch(gctx, configPath, e.applyConfig, func(err error) {
				e.logger.Printf("[Engine] config reload failed: %v", err)
			})
		})
	}
	g.Go(func() error {
		select {
		case <-gctx.Done():
			return nil
		case <-e.quitChannel:
			return errQuit
		}
	})

	err := g.Wait()
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// errQuit cancels the run group when Quit is called.
var errQuit = errors.New("engine: quit")

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handleEngine runs the fixed-rate engine tick loop.
// Listens for dynamic rate changes via tickRateChannel. Exits when ctx is cancelled.
func (e *engine) handleEngine(ctx context.Context, rate time.Duration) {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			e.Tick(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
		}
	}
}

// applyConfig adopts the tick rate of a reloaded document and forwards it to the registered handler.
func (e *engine) applyConfig(cfg *config.Config) {
	if cfg.TickRate > 0 {
		e.SetTickRate(float64(cfg.TickRate))
	}
	e.logger.Printf("[Engine] config reloaded (version %s)", cfg.Version)

	e.mu.Lock()
	handler := e.onConfigChange
	e.mu.Unlock()
	if handler != nil {
		handler(cfg)
	}
}

// dueTasks advances every task by dt and returns one entry per period that elapsed, in registration order.
// Each task fires at most maxCatchUp times per tick; the rest of a longer backlog is dropped.
// Caller must hold the mutex.
func (e *engine) dueTasks(dt time.Duration) []*task {
	ids := make([]int, 0, len(e.tasks))
	for id := range e.tasks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var due []*task
	for _, id := range ids {
		t := e.tasks[id]
		if t.period <= 0 {
			due = append(due, t)
			continue
		}
		t.elapsed += dt
		n := 0
		for t.elapsed >= t.period && n < e.maxCatchUp {
			t.elapsed -= t.period
			n++
			due = append(due, t)
		}
		if t.elapsed >= t.period {
			t.elapsed = 0
		}
	}
	return due
}

// sortedViewports returns the registered viewports in ascending key order.
// Caller must hold the mutex.
func (e *engine) sortedViewports() []camera.Viewport {
	keys := make([]int, 0, len(e.viewports))
	for k := range e.viewports {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]camera.Viewport, 0, len(keys))
	for _, k := range keys {
		out = append(out, e.viewports[k])
	}
	return out
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.profilingEnabled {
		e.profiler.Reset()
	}
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) TickRate() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.engineTickRate
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	e.mu.Lock()
	e.engineTickRate = newRate
	running := e.running
	e.mu.Unlock()

	if running {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			select {
			case e.tickRateChannel <- newRate:
			default:
			}
		}
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) AddViewport(key int, v camera.Viewport) {
	if v == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewports[key] = v
}

func (e *engine) RemoveViewport(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.viewports, key)
}

func (e *engine) Viewport(key int) camera.Viewport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewports[key]
}

func (e *engine) Viewports() map[int]camera.Viewport {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[int]camera.Viewport, len(e.viewports))
	for k, v := range e.viewports {
		out[k] = v
	}
	return out
}
