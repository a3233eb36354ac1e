package emitter

// Send schedules a dispatch of event on the emitter's scheduler and returns
// immediately. A handler failure is wrapped in a *SendError and handed to the
// unhandled-failure sink.
func (e *Emitter) Send(event string, args ...any) *Emitter {
	return e.send(nil, event, args)
}

// SendFunc is like Send, but the outcome goes to cb as (nil, result, args) or
// (err, NoResult, args). args carries the event name first.
func (e *Emitter) SendFunc(cb Callback, event string, args ...any) *Emitter {
	return e.send(cb, event, args)
}

func (e *Emitter) send(cb Callback, event string, args []any) *Emitter {
	checkEvent("send", event)
	full := make([]any, 0, len(args)+1)
	full = append(full, event)
	full = append(full, args...)

	e.sched.Schedule(func() { e.deliver(cb, event, full) })
	return e
}

func (e *Emitter) deliver(cb Callback, event string, full []any) {
	res, err := e.safeDispatch(append([]any(nil), full...))
	switch {
	case err == nil:
		if cb != nil {
			cb(nil, res, full)
		}
	case cb != nil:
		cb(err, NoResult, full)
	default:
		e.unhandled(&SendError{Event: event, Err: err})
	}
}

func (e *Emitter) safeDispatch(full []any) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = NoResult, asError(r)
		}
	}()
	return e.dispatch(full)
}
