package dispatch

import (
	"runtime"
	"sync"
)

// workChunk is a contiguous index range for one worker.
type workChunk struct {
	start, end int
}

// Pool is a persistent worker-goroutine backend. Workers are started
// lazily on the first dispatch and live until Stop. A Pool serializes its
// own dispatches; concurrent For calls are the caller's bug.
type Pool struct {
	numWorkers int

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool

	fn func(i int)
}

// NewPool creates a pool with the given worker count; zero or negative
// means GOMAXPROCS.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{numWorkers: workers}
}

func (p *Pool) Name() string { return "pool" }

func (p *Pool) Available() bool { return p.numWorkers > 0 }

// start launches the persistent workers.
func (p *Pool) start() {
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

// Stop signals all workers to exit and waits for them. Idempotent.
func (p *Pool) Stop() {
	if !p.running {
		return
	}
	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			for i := chunk.start; i < chunk.end; i++ {
				p.fn(i)
			}
			p.doneChan <- struct{}{}
		}
	}
}

// For chunks [0,n) across the workers and blocks until every chunk is done.
func (p *Pool) For(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if !p.running {
		p.start()
	}
	p.fn = fn

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
	p.fn = nil
}
