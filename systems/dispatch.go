package systems

import (
	"runtime"
	"sync"
)

// DefaultParallelThreshold is the minimum agent count to use the worker pool.
// Below this, evaluating inline is faster than the goroutine handoff.
const DefaultParallelThreshold = 64

// DeltaVelocityEvent is the evaluator's velocity change for one agent.
type DeltaVelocityEvent struct {
	ID uint32
	DV Vec2
}

// ColorEvent is the evaluator's blended color for one agent.
type ColorEvent struct {
	ID    uint32
	Color Vec3
}

// Batch holds one tick's evaluator output. Events within a chunk keep agent
// order; chunks are concatenated in chunk order.
type Batch struct {
	DV     []DeltaVelocityEvent
	Colors []ColorEvent
}

// Frame is the read-only context shared by all workers during one dispatch.
type Frame struct {
	Arena   *Arena
	Index   *SpatialIndex
	Values  Values
	Pointer PointerTarget
}

// workerScratch holds per-worker reusable buffers.
type workerScratch struct {
	Neighbors []Neighbor
	Keeper    Keeper
}

// workChunk represents a contiguous range of agents for a worker to process.
type workChunk struct {
	slot       int
	start, end int
}

// chunkOutput is the ordered result of one chunk.
type chunkOutput struct {
	dv     []DeltaVelocityEvent
	colors []ColorEvent
}

// Dispatcher fans steering evaluation across a persistent worker pool.
type Dispatcher struct {
	// Threshold is the agent count below which evaluation runs on the caller.
	Threshold int

	numWorkers int
	scratches  []workerScratch
	outputs    []chunkOutput
	frame      Frame

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

// NewDispatcher creates a dispatcher with the given number of workers.
// workers <= 0 uses GOMAXPROCS.
func NewDispatcher(workers int) *Dispatcher {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	scratches := make([]workerScratch, workers)
	for i := range scratches {
		scratches[i].Neighbors = make([]Neighbor, 0, 128)
	}
	return &Dispatcher{
		Threshold:  DefaultParallelThreshold,
		numWorkers: workers,
		scratches:  scratches,
		outputs:    make([]chunkOutput, workers),
	}
}

// NumWorkers returns the pool size.
func (d *Dispatcher) NumWorkers() int {
	return d.numWorkers
}

// start launches persistent worker goroutines.
func (d *Dispatcher) start() {
	if d.running {
		return
	}

	d.workChan = make(chan workChunk, d.numWorkers)
	d.doneChan = make(chan struct{}, d.numWorkers)
	d.stopChan = make(chan struct{})
	d.running = true

	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

// Stop signals all workers to exit and waits for them.
func (d *Dispatcher) Stop() {
	if !d.running {
		return
	}

	close(d.stopChan)
	d.wg.Wait()
	close(d.workChan)
	close(d.doneChan)
	d.running = false
}

// worker processes chunks until stopped. A panic here is not recovered and
// takes the process down with it.
func (d *Dispatcher) worker(workerID int) {
	defer d.wg.Done()
	scratch := &d.scratches[workerID]

	for {
		select {
		case <-d.stopChan:
			return
		case chunk, ok := <-d.workChan:
			if !ok {
				return
			}
			computeChunk(&d.frame, chunk.start, chunk.end, scratch, &d.outputs[chunk.slot])
			d.doneChan <- struct{}{}
		}
	}
}

// Dispatch evaluates every agent of frame.Arena exactly once and blocks until all
// chunks are done. The arena must not be mutated until Dispatch returns.
func (d *Dispatcher) Dispatch(frame Frame) Batch {
	n := frame.Arena.Len()
	if n == 0 {
		return Batch{}
	}
	d.frame = frame

	chunks := 1
	if n < d.Threshold || d.numWorkers == 1 {
		computeChunk(&d.frame, 0, n, &d.scratches[0], &d.outputs[0])
	} else {
		chunks = d.dispatchParallel(n)
	}

	return d.collect(chunks, n, frame.Values.ColorBlend)
}

// dispatchParallel sends contiguous chunks to the pool and waits for all of them.
func (d *Dispatcher) dispatchParallel(n int) int {
	d.start()

	chunkSize := (n + d.numWorkers - 1) / d.numWorkers

	chunksDispatched := 0
	for w := 0; w < d.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		d.workChan <- workChunk{slot: chunksDispatched, start: start, end: end}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-d.doneChan
	}
	return chunksDispatched
}

// collect concatenates chunk outputs into a freshly owned Batch.
func (d *Dispatcher) collect(chunks, n int, withColor bool) Batch {
	b := Batch{DV: make([]DeltaVelocityEvent, 0, n)}
	if withColor {
		b.Colors = make([]ColorEvent, 0, n)
	}
	for i := 0; i < chunks; i++ {
		out := &d.outputs[i]
		b.DV = append(b.DV, out.dv...)
		if withColor {
			b.Colors = append(b.Colors, out.colors...)
		}
	}
	return b
}

// computeChunk evaluates agents [i0, i1) into out.
func computeChunk(f *Frame, i0, i1 int, scratch *workerScratch, out *chunkOutput) {
	out.dv = out.dv[:0]
	out.colors = out.colors[:0]

	for i := i0; i < i1; i++ {
		id := uint32(i)
		pos := f.Arena.Agents[i].Pos

		scratch.Neighbors = f.Index.KNearest(scratch.Neighbors[:0], pos, f.Values.MaxNeighbors, &scratch.Keeper)

		s := ComputeDV(id, f.Arena, scratch.Neighbors, f.Values, f.Pointer)
		out.dv = append(out.dv, DeltaVelocityEvent{ID: id, DV: s.DV})
		if f.Values.ColorBlend {
			out.colors = append(out.colors, ColorEvent{ID: id, Color: s.Color})
		}
	}
}
