package emitter

// Depth returns how many dispatches of this emitter are in flight. Nested
// dispatches from within a handler count once per level. It equals the
// nesting level only while one goroutine drives the emitter, as with a Loop
// scheduler; sends on the default worker are counted too while they run.
func (e *Emitter) Depth() int { return int(e.depth.Load()) }

// Info maps every event with at least one handler to its handler count.
func (e *Emitter) Info() map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]int, len(e.events))
	for event, list := range e.events {
		out[event] = len(list)
	}
	return out
}

// Hook installs h as the pre-dispatch hook, or clears it when h is nil, and
// returns the previous hook.
func (e *Emitter) Hook(h HookFunc) HookFunc {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.hook
	e.hook = h
	return prev
}

// Reporter installs r as the post-dispatch reporter, or clears it when r is
// nil, and returns the previous reporter.
func (e *Emitter) Reporter(r ReporterFunc) ReporterFunc {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.reporter
	e.reporter = r
	return prev
}

// SetExecutor replaces the handler invoker and returns the previous one.
// A nil x restores Execute.
func (e *Emitter) SetExecutor(x Executor) Executor {
	if x == nil {
		x = Execute
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.exec
	e.exec = x
	return prev
}
