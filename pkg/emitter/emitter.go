package emitter

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

type noResult struct{}

// unhandledOutput receives unanswered send failures when the emitter has no
// logger of its own.
var unhandledOutput io.Writer = os.Stderr

// NoResult is returned by handlers that do not answer an event, letting the
// dispatch move on to the next handler. Dispatch returns it when no handler
// answered. Any other value, nil included, stops the dispatch.
var NoResult any = noResult{}

// Handler receives the payload of a dispatched event (the event name is not
// part of args). owner is the value the handler was registered with, or nil.
type Handler func(owner any, args ...any) (any, error)

// Callback receives the outcome of a deferred send. args holds the event name
// followed by the payload.
type Callback func(err error, result any, args []any)

// HookFunc sees the full argument list of every dispatch, event name first,
// and returns the list that is actually dispatched.
type HookFunc func(args []any) []any

// ReporterFunc is called after every dispatch that did not fail.
type ReporterFunc func(event string, invoked int, args []any)

type entry struct {
	handler  Handler
	fn       uintptr
	owner    any
	key      ownerKey
	hasOwner bool
	once     bool
}

func (en *entry) matches(fn uintptr, key ownerKey, hasOwner bool) bool {
	return en.fn == fn && en.hasOwner == hasOwner && en.key == key
}

// Emitter is an event registry with synchronous and deferred dispatch.
// Instances never share state. It is safe for concurrent use; handlers always
// run outside the internal lock.
type Emitter struct {
	mu       sync.Mutex
	events   map[string][]*entry
	hook     HookFunc
	reporter ReporterFunc
	exec     Executor

	depth atomic.Int64

	sched     Scheduler
	log       zerolog.Logger
	hasLog    bool
	unhandled func(error)
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithScheduler sets where deferred sends run. Defaults to a per-emitter
// FIFO worker goroutine, which runs sends concurrently with the caller; pass
// a Loop to run them on a goroutine of your choosing instead.
func WithScheduler(s Scheduler) Option { return func(e *Emitter) { e.sched = s } }

// WithExecutor replaces the function that invokes handlers.
func WithExecutor(x Executor) Option { return func(e *Emitter) { e.exec = x } }

// WithLogger sets the logger used for registry changes and unhandled failures.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Emitter) { e.log, e.hasLog = l, true }
}

// WithUnhandled sets the sink for failures of deferred sends made without a
// callback. The default logs them at error level to the emitter's logger, or
// to stderr when none was given.
func WithUnhandled(fn func(error)) Option { return func(e *Emitter) { e.unhandled = fn } }

// New returns an empty Emitter.
//
// Without WithScheduler, sends run on a worker goroutine: their handlers may
// overlap the caller's own dispatches, and Depth then counts both.
func New(opts ...Option) *Emitter {
	e := &Emitter{
		events: make(map[string][]*entry),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sched == nil {
		e.sched = &worker{}
	}
	if e.exec == nil {
		e.exec = Execute
	}
	if e.unhandled == nil {
		l := e.log
		if !e.hasLog {
			l = zerolog.New(unhandledOutput).With().Timestamp().Logger()
		}
		e.unhandled = func(err error) {
			l.Error().Err(err).Msg("unhandled send failure")
		}
	}
	return e
}

// Register appends h to the handlers of event. Duplicates are kept and fire
// independently.
func (e *Emitter) Register(event string, h Handler, owner ...any) *Emitter {
	e.add("register", event, h, owner, false)
	return e
}

// RegisterOnce is like Register, but the entry is removed right before its
// first invocation.
func (e *Emitter) RegisterOnce(event string, h Handler, owner ...any) *Emitter {
	e.add("registerOnce", event, h, owner, true)
	return e
}

func (e *Emitter) add(op, event string, h Handler, owner []any, once bool) {
	checkEvent(op, event)
	fn := checkHandler(op, h)
	key, hasOwner := checkOwner(op, owner)

	en := &entry{handler: h, fn: fn, key: key, hasOwner: hasOwner, once: once}
	if hasOwner {
		en.owner = owner[0]
	}
	e.mu.Lock()
	e.events[event] = append(e.events[event], en)
	n := len(e.events[event])
	e.mu.Unlock()
	e.log.Debug().Str("event", event).Bool("once", once).Int("handlers", n).Msg("register")
}

// Unregister removes the most recently registered entry of event whose handler
// and owner match. It is a no-op when nothing matches.
func (e *Emitter) Unregister(event string, h Handler, owner ...any) *Emitter {
	checkEvent("unregister", event)
	key, hasOwner := checkOwner("unregister", owner)
	fn := handlerKey(h)
	if fn == 0 {
		return e
	}
	e.mu.Lock()
	e.removeLast(event, func(en *entry) bool { return en.matches(fn, key, hasOwner) })
	e.mu.Unlock()
	return e
}

// UnregisterAll drops every handler of event.
func (e *Emitter) UnregisterAll(event string) *Emitter {
	checkEvent("unregisterAll", event)
	e.mu.Lock()
	delete(e.events, event)
	e.mu.Unlock()
	return e
}

// UnplugAll removes every entry registered with owner, across all events.
func (e *Emitter) UnplugAll(owner any) *Emitter {
	key, ok := ownerKeyOf(owner)
	if !ok {
		invalid("unplugAll", "owner must be a non-nil reference value")
	}
	match := func(en *entry) bool { return en.hasOwner && en.key == key }

	removed := 0
	e.mu.Lock()
	for event := range e.events {
		for e.removeLast(event, match) {
			removed++
		}
	}
	e.mu.Unlock()
	e.log.Debug().Int("removed", removed).Msg("unplug")
	return e
}

// removeLast deletes the last entry of event satisfying match and drops the
// event once its list is empty. Callers hold e.mu.
func (e *Emitter) removeLast(event string, match func(*entry) bool) bool {
	list := e.events[event]
	for i := len(list) - 1; i >= 0; i-- {
		if !match(list[i]) {
			continue
		}
		if len(list) == 1 {
			delete(e.events, event)
			return true
		}
		next := make([]*entry, 0, len(list)-1)
		next = append(next, list[:i]...)
		e.events[event] = append(next, list[i+1:]...)
		return true
	}
	return false
}

// detach removes en from event if it is still registered.
func (e *Emitter) detach(event string, en *entry) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.removeLast(event, func(x *entry) bool { return x == en })
}
