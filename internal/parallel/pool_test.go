package parallel

import (
	"image"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// WorkerPool Creation Tests
// =============================================================================

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.running {
		t.Error("Pool should be running after creation")
	}
}

func TestWorkerPool_CreateDefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -5} {
		pool := NewWorkerPool(n)
		if got, want := pool.Workers(), runtime.GOMAXPROCS(0); got != want {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want %d (GOMAXPROCS)", n, got, want)
		}
		pool.Close()
	}
}

// =============================================================================
// Run Tests
// =============================================================================

func TestWorkerPool_Run(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	tasks := make([]func(), 100)
	for i := range tasks {
		tasks[i] = func() { counter.Add(1) }
	}
	pool.Run(tasks)

	if counter.Load() != 100 {
		t.Errorf("counter = %d, want 100", counter.Load())
	}
}

func TestWorkerPool_RunAllIndices(t *testing.T) {
	pool := NewWorkerPool(3)
	defer pool.Close()

	var mu sync.Mutex
	seen := make(map[int]bool)
	tasks := make([]func(), 10)
	for i := range tasks {
		tasks[i] = func() {
			mu.Lock()
			seen[i] = true
			mu.Unlock()
		}
	}
	pool.Run(tasks)

	for i := range 10 {
		if !seen[i] {
			t.Errorf("missing index %d", i)
		}
	}
}

func TestWorkerPool_RunEmpty(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	// Should not panic or block
	pool.Run(nil)
	pool.Run([]func(){})
}

// =============================================================================
// Close Tests
// =============================================================================

func TestWorkerPool_CloseIdempotent(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Close()
	pool.Close()

	if pool.running {
		t.Error("Pool should not be running after Close")
	}
}

func TestWorkerPool_OperationsAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()

	var executed atomic.Bool
	pool.Run([]func(){func() { executed.Store(true) }})

	if executed.Load() {
		t.Error("work ran on a closed pool")
	}
}

func TestWorkerPool_RunRacingClose(t *testing.T) {
	for range 50 {
		pool := NewWorkerPool(2)

		var ran atomic.Int64
		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tasks := make([]func(), 16)
				for i := range tasks {
					tasks[i] = func() { ran.Add(1) }
				}
				pool.Run(tasks)
			}()
		}
		pool.Close()

		finished := make(chan struct{})
		go func() {
			wg.Wait()
			close(finished)
		}()
		select {
		case <-finished:
		case <-time.After(5 * time.Second):
			t.Fatal("Run blocked after Close")
		}
		// Each Run either ran all of its tasks or none.
		if ran.Load()%16 != 0 {
			t.Fatalf("%d tasks ran, want a multiple of 16", ran.Load())
		}
	}
}

// =============================================================================
// Concurrency Tests
// =============================================================================

func TestWorkerPool_ConcurrentRun(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tasks := make([]func(), 50)
			for i := range tasks {
				tasks[i] = func() { counter.Add(1) }
			}
			pool.Run(tasks)
		}()
	}
	wg.Wait()

	if counter.Load() != 400 {
		t.Errorf("counter = %d, want 400", counter.Load())
	}
}

func TestWorkerPool_WorkStealing(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	// Every fourth task is slow; the rest must not wait behind them.
	var counter atomic.Int64
	tasks := make([]func(), 40)
	for i := range tasks {
		tasks[i] = func() {
			if i%4 == 0 {
				time.Sleep(time.Millisecond)
			}
			counter.Add(1)
		}
	}
	pool.Run(tasks)

	if counter.Load() != 40 {
		t.Errorf("counter = %d, want 40", counter.Load())
	}
}

// =============================================================================
// Tile Tests
// =============================================================================

func TestTiles(t *testing.T) {
	tests := []struct {
		name   string
		bounds image.Rectangle
		size   int
		want   int
		last   image.Rectangle
	}{
		{"exact", image.Rect(0, 0, 128, 64), 64, 2, image.Rect(64, 0, 128, 64)},
		{"clipped edge", image.Rect(0, 0, 100, 70), 64, 4, image.Rect(64, 64, 100, 70)},
		{"offset bounds", image.Rect(10, 10, 20, 20), 4, 9, image.Rect(18, 18, 20, 20)},
		{"default size", image.Rect(0, 0, 65, 1), 0, 2, image.Rect(64, 0, 65, 1)},
		{"empty", image.Rectangle{}, 64, 0, image.Rectangle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := Tiles(tt.bounds, tt.size)
			if len(tiles) != tt.want {
				t.Fatalf("len(Tiles) = %d, want %d", len(tiles), tt.want)
			}
			if tt.want == 0 {
				return
			}
			if got := tiles[len(tiles)-1]; got != tt.last {
				t.Errorf("last tile = %v, want %v", got, tt.last)
			}
			area := 0
			for _, r := range tiles {
				area += r.Dx() * r.Dy()
			}
			if area != tt.bounds.Dx()*tt.bounds.Dy() {
				t.Errorf("tiles cover %d pixels, want %d", area, tt.bounds.Dx()*tt.bounds.Dy())
			}
		})
	}
}

func TestForEachTile(t *testing.T) {
	bounds := image.Rect(0, 0, 200, 150)
	for _, pool := range []*WorkerPool{nil, NewWorkerPool(4)} {
		var pixels atomic.Int64
		ForEachTile(pool, bounds, 32, func(r image.Rectangle) {
			pixels.Add(int64(r.Dx() * r.Dy()))
		})
		if pixels.Load() != 200*150 {
			t.Errorf("visited %d pixels, want %d", pixels.Load(), 200*150)
		}
		if pool != nil {
			pool.Close()
		}
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkWorkerPool_Run(b *testing.B) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	tasks := make([]func(), 64)
	for i := range tasks {
		tasks[i] = func() {}
	}
	b.ReportAllocs()
	for b.Loop() {
		pool.Run(tasks)
	}
}
