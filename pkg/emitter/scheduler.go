package emitter

import (
	"context"
	"sync"
)

// Scheduler runs deferred tasks in the order they were scheduled.
type Scheduler interface {
	Schedule(task func())
}

// Loop is a FIFO task queue drained by its owner, for hosts that want every
// deferred send to run on one goroutine of their choosing.
type Loop struct {
	mu    sync.Mutex
	tasks []func()
	wake  chan struct{}
}

// NewLoop returns an empty Loop.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Schedule enqueues task. Safe to call from any goroutine.
func (l *Loop) Schedule(task func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Len reports how many tasks are waiting.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tasks) == 0 {
		return nil, false
	}
	task := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]
	return task, true
}

// RunPending runs queued tasks on the calling goroutine until the queue is
// empty, including tasks scheduled while it runs. It returns the count run.
func (l *Loop) RunPending() int {
	n := 0
	for {
		task, ok := l.next()
		if !ok {
			return n
		}
		task()
		n++
	}
}

// Run drains the queue until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunPending()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// worker is the default Scheduler: a goroutine started on demand that drains
// the queue in order and exits when it is empty.
type worker struct {
	mu      sync.Mutex
	tasks   []func()
	running bool
}

func (w *worker) Schedule(task func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tasks = append(w.tasks, task)
	if !w.running {
		w.running = true
		go w.drain()
	}
}

func (w *worker) drain() {
	for {
		w.mu.Lock()
		if len(w.tasks) == 0 {
			w.running = false
			w.mu.Unlock()
			return
		}
		task := w.tasks[0]
		w.tasks[0] = nil
		w.tasks = w.tasks[1:]
		w.mu.Unlock()
		task()
	}
}
