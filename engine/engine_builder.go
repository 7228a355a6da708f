package engine

import (
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/config"
	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler uses a preconfigured profiler instead of the default one.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithTickRate sets the engine tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithLogger sets the logger for engine diagnostics.
//
// Parameters:
//   - logger: the logger; nil keeps log.Default()
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *log.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = common.Coalesce(logger, e.logger)
	}
}

// WithViewport registers a viewport at the given key during engine construction.
//
// Parameters:
//   - key: the ordering key
//   - v: the viewport to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithViewport(key int, v camera.Viewport) EngineBuilderOption {
	return func(e *engine) {
		if v != nil {
			e.viewports[key] = v
		}
	}
}

// WithMaxCatchUp bounds how many times one scheduled callback may fire in a single tick
// when the tick delta spans several of its periods.
//
// Parameters:
//   - n: the bound; values below 1 keep the default of 4
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMaxCatchUp(n int) EngineBuilderOption {
	return func(e *engine) {
		if n >= 1 {
			e.maxCatchUp = n
		}
	}
}

// WithConfigWatch makes Run watch the config document at path. Each valid reload updates the
// tick rate and is passed to onChange.
//
// Parameters:
//   - path: the config document path
//   - onChange: called with every reloaded configuration; may be nil
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfigWatch(path string, onChange func(*config.Config)) EngineBuilderOption {
	return func(e *engine) {
		e.configPath = path
		e.onConfigChange = onChange
	}
}
