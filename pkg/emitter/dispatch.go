package emitter

// Entry is the read-only view of a subscription handed to an Executor.
type Entry struct {
	Event   string
	Handler Handler
	Owner   any
	Once    bool
}

// Executor invokes one handler. Wrapping the default Execute is the way to
// trace or profile every handler call.
type Executor func(en Entry, args []any) (any, error)

// Execute is the default Executor: it calls the handler with its owner.
func Execute(en Entry, args []any) (any, error) {
	return en.Handler(en.Owner, args...)
}

// Dispatch synchronously runs the handlers of event, newest first, until one
// returns something other than NoResult. A handler error stops the dispatch
// and is returned unchanged; handler panics propagate unchanged.
func (e *Emitter) Dispatch(event string, args ...any) (any, error) {
	full := make([]any, 0, len(args)+1)
	full = append(full, event)
	return e.dispatch(append(full, args...))
}

func (e *Emitter) dispatch(full []any) (any, error) {
	e.mu.Lock()
	hook := e.hook
	e.mu.Unlock()
	if hook != nil {
		full = hook(full)
	}

	var event string
	var payload []any
	if len(full) > 0 {
		event, _ = full[0].(string)
		payload = full[1:]
	}

	e.mu.Lock()
	snapshot := append([]*entry(nil), e.events[event]...)
	exec := e.exec
	e.mu.Unlock()

	res, invoked, err := e.run(exec, event, snapshot, payload)
	if err != nil {
		return NoResult, err
	}

	e.mu.Lock()
	reporter := e.reporter
	e.mu.Unlock()
	if reporter != nil {
		reporter(event, invoked, payload)
	}
	return res, nil
}

func (e *Emitter) run(exec Executor, event string, snapshot []*entry, payload []any) (any, int, error) {
	if len(snapshot) == 0 {
		return NoResult, 0, nil
	}
	e.depth.Add(1)
	defer e.depth.Add(-1)

	invoked := 0
	for i := len(snapshot) - 1; i >= 0; i-- {
		en := snapshot[i]
		// a once entry already consumed by a nested dispatch must not fire again
		if en.once && !e.detach(event, en) {
			continue
		}
		invoked++
		res, err := exec(Entry{Event: event, Handler: en.handler, Owner: en.owner, Once: en.once}, payload)
		if err != nil {
			return NoResult, invoked, err
		}
		if res != NoResult {
			return res, invoked, nil
		}
	}
	return NoResult, invoked, nil
}
