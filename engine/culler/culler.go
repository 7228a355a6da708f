// Package culler classifies batches of bounding volumes against a snapshot of viewport boundary planes.
// Large batches are split into chunks and classified in parallel on a reusable worker pool.
package culler

import (
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-view/common"
)

type cullerImpl struct {
	mu     *sync.Mutex
	logger *log.Logger

	pool      worker.DynamicWorkerPool
	workers   int
	queueSize int
	idle      time.Duration
	chunkSize int
	closed    bool
	nextID    int
}

// Culler classifies spheres and boxes against boundary planes.
// The planes passed in are copied before any work is scheduled, so callers may reuse their slice.
type Culler interface {
	// CullSpheres classifies every sphere against planes.
	//
	// Parameters:
	//   - planes: the boundary planes, positive half-space inside
	//   - spheres: the spheres to classify
	//
	// Returns:
	//   - []common.Visibility: one result per sphere, in input order
	CullSpheres(planes []common.Plane, spheres []common.Sphere) []common.Visibility

	// CullBoxes classifies every axis-aligned box against planes.
	//
	// Parameters:
	//   - planes: the boundary planes, positive half-space inside
	//   - boxes: the boxes to classify
	//
	// Returns:
	//   - []common.Visibility: one result per box, in input order
	CullBoxes(planes []common.Plane, boxes []common.Box) []common.Visibility

	// Workers returns the configured worker count.
	Workers() int

	// ChunkSize returns the number of volumes classified per task.
	ChunkSize() int

	// Close stops handing work to the pool. Later calls classify on the calling goroutine.
	Close()
}

var _ Culler = &cullerImpl{}

// NewCuller creates a culler backed by a dynamic worker pool.
//
// Parameters:
//   - options: functional options to configure the culler
//
// Returns:
//   - Culler: the newly created culler
func NewCuller(options ...CullerBuilderOption) Culler {
	c := &cullerImpl{
		mu:        &sync.Mutex{},
		logger:    log.Default(),
		workers:   max(runtime.NumCPU()-1, 1),
		queueSize: 256,
		idle:      1 * time.Second,
		chunkSize: 64,
	}

	for _, option := range options {
		option(c)
	}

	// Workers idle-exit after c.idle, so an unused culler holds no goroutines.
	c.pool = worker.NewDynamicWorkerPool(c.workers, c.queueSize, c.idle)
	return c
}

func (c *cullerImpl) CullSpheres(planes []common.Plane, spheres []common.Sphere) []common.Visibility {
	snapshot := clonePlanes(planes)
	out := make([]common.Visibility, len(spheres))
	c.run(len(spheres), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = common.SphereVisibility(snapshot, spheres[i].Center, spheres[i].Radius)
		}
	})
	return out
}

func (c *cullerImpl) CullBoxes(planes []common.Plane, boxes []common.Box) []common.Visibility {
	snapshot := clonePlanes(planes)
	out := make([]common.Visibility, len(boxes))
	c.run(len(boxes), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = common.BoxVisibility(snapshot, boxes[i].Min, boxes[i].Max)
		}
	})
	return out
}

func (c *cullerImpl) Workers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.workers
}

func (c *cullerImpl) ChunkSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chunkSize
}

func (c *cullerImpl) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.logger.Printf("[Culler] closed; further batches run on the caller goroutine")
}

// run splits [0, n) into chunks and calls fn for each, returning once every chunk is done.
// A batch that fits in one chunk, or a closed culler, runs inline.
func (c *cullerImpl) run(n int, fn func(lo, hi int)) {
	if n == 0 {
		return
	}
	c.mu.Lock()
	chunk, closed := c.chunkSize, c.closed
	firstID := c.nextID
	if !closed && n > chunk {
		c.nextID += (n + chunk - 1) / chunk
	}
	c.mu.Unlock()

	if closed || n <= chunk {
		fn(0, n)
		return
	}

	// A WaitGroup is the per-call barrier; the pool's own Wait blocks until workers idle-exit.
	var wg sync.WaitGroup
	id := firstID
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		wg.Add(1)
		start, end := lo, hi
		c.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				fn(start, end)
				return nil, nil
			},
		})
		id++
	}
	wg.Wait()
}

// clonePlanes copies planes so workers never read caller-owned memory.
func clonePlanes(planes []common.Plane) []common.Plane {
	out := make([]common.Plane, len(planes))
	copy(out, planes)
	return out
}
