package sim

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/cytosoup/components"
)

// parallelThreshold is the minimum particle count to use parallel
// processing. Below this, single-threaded is faster due to goroutine
// overhead.
const parallelThreshold = 256

// workChunk represents a range of particle indices for a worker to process.
type workChunk struct {
	start, end int32
}

// parallelState holds the persistent worker pool used for the
// embarrassingly-parallel integrate and confine passes. Each pass completes
// before the spatial index is touched, preserving write-then-index ordering.
type parallelState struct {
	numWorkers int

	fn       func(start, end int32) // current pass body; set before dispatch
	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newParallelState() *parallelState {
	return &parallelState{numWorkers: runtime.GOMAXPROCS(0)}
}

// start launches persistent worker goroutines.
func (p *parallelState) start() {
	if p.running {
		return
	}
	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *parallelState) stop() {
	if !p.running {
		return
	}
	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *parallelState) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.fn(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// dispatch runs fn over [0, n) split across the worker pool, blocking until
// every chunk completes. Small populations run inline.
func (p *parallelState) dispatch(n int32, fn func(start, end int32)) {
	if n == 0 {
		return
	}
	if n < parallelThreshold {
		fn(0, n)
		return
	}
	if !p.running {
		p.start()
	}

	p.fn = fn
	chunkSize := (n + int32(p.numWorkers) - 1) / int32(p.numWorkers)
	dispatched := 0
	for start := int32(0); start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		p.workChan <- workChunk{start: start, end: end}
		dispatched++
	}
	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}

// integrate advances positions by velocity with viscous damping and a
// Brownian kick. The kick is derived from a counter hash of (seed, tick,
// index) rather than the shared RNG, so the pass stays deterministic under
// any worker scheduling.
func (s *Sim) integrate() {
	damping := float32(s.cfg.Physics.Damping)
	jitter := float32(s.cfg.Physics.Jitter)
	base := s.seed ^ uint64(s.tick)*0x9e3779b97f4a7c15

	s.parallel.dispatch(s.store.Count(), func(start, end int32) {
		for i := start; i < end; i++ {
			vel := s.store.Vel[i].Scale(damping).Add(brownianKick(base, i, jitter))
			s.store.Vel[i] = vel
			s.store.Pos[i] = s.store.Pos[i].Add(vel)
		}
	})
}

// confine pushes every particle back inside the capsule. Runs after
// constraint relaxation and before the index resync, so the grid always
// reflects post-confinement positions.
func (s *Sim) confine() {
	s.parallel.dispatch(s.store.Count(), func(start, end int32) {
		for i := start; i < end; i++ {
			s.store.Pos[i], s.store.Vel[i] = s.capsule.Confine(s.store.Pos[i], s.store.Vel[i])
		}
	})
}

// splitmix64 is the counter-hash underlying the Brownian kicks.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e9b5
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// hashUnit maps a hash to a float in [-0.5, 0.5).
func hashUnit(h uint64) float32 {
	return float32(h>>40)/float32(1<<24) - 0.5
}

// brownianKick returns the thermal velocity increment for particle i.
func brownianKick(base uint64, i int32, mag float32) components.Vec3 {
	h := splitmix64(base ^ uint64(uint32(i)))
	x := hashUnit(h)
	h = splitmix64(h)
	y := hashUnit(h)
	h = splitmix64(h)
	z := hashUnit(h)
	return components.Vec3{X: x * mag, Y: y * mag, Z: z * mag}
}
