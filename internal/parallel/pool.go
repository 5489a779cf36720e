package parallel

import (
	"runtime"
	"sync"
)

// WorkerPool runs tasks on a fixed set of goroutines.
//
// Each worker owns a queue. A worker whose queue is empty steals from the
// others before blocking, so a few slow bands do not leave the rest of the
// pool idle.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup

	// mu is held shared by Run and exclusively by Close: no task is
	// queued once done is closed.
	mu      sync.RWMutex
	running bool
}

// NewWorkerPool starts a pool of n workers. If n <= 0, GOMAXPROCS is used.
func NewWorkerPool(n int) *WorkerPool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	queueSize := max(n*4, 8)

	p := &WorkerPool{
		workers: n,
		queues:  make([]chan func(), n),
		done:    make(chan struct{}),
	}
	for i := range n {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running = true

	p.wg.Add(n)
	for i := range n {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]

	for {
		select {
		case <-p.done:
			drain(own)
			return
		case task := <-own:
			run(task)
			continue
		default:
		}

		if task := p.steal(id); task != nil {
			task()
			continue
		}

		select {
		case <-p.done:
			drain(own)
			return
		case task := <-own:
			run(task)
		}
	}
}

func run(task func()) {
	if task != nil {
		task()
	}
}

func drain(q chan func()) {
	for {
		select {
		case task := <-q:
			run(task)
		default:
			return
		}
	}
}

// steal takes one task from another worker's queue, or returns nil.
func (p *WorkerPool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case task := <-p.queues[i]:
			return task
		default:
		}
	}
	return nil
}

// Run distributes tasks round-robin and waits until all of them have
// finished. It returns immediately on a closed pool. Tasks must not call
// Run on the same pool.
func (p *WorkerPool) Run(tasks []func()) {
	if len(tasks) == 0 {
		return
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running {
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for i, fn := range tasks {
		p.queues[i%p.workers] <- func() {
			defer wg.Done()
			fn()
		}
	}
	wg.Wait()
}

// Close stops accepting work, lets the workers finish what is queued and
// waits for them to exit. Close waits for running Run calls and may be
// called more than once.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers.
func (p *WorkerPool) Workers() int { return p.workers }
