// Package emitter provides an in-process publish/subscribe event emitter used
// to decouple independently loaded modules that only talk through named events.
//
// The package is split into small files by concern:
//
//   - emitter.go: Emitter type, construction options, registration and removal.
//   - dispatch.go: synchronous Dispatch and the Executor extension point.
//   - send.go: deferred Send/SendFunc and error funneling.
//   - scheduler.go: Scheduler implementations used by Send (Loop, worker).
//   - introspect.go: Depth, Info, Hook, Reporter.
//   - errors.go: ArgumentError, SendError and predicates.
//
// Dispatch order is last-registered-fires-first. The first handler returning
// anything other than NoResult stops the dispatch and its value becomes the
// result:
//
//	bus := emitter.New()
//	bus.Register("user", func(owner any, args ...any) (any, error) {
//	    if args[0] == "hello" {
//	        return "world", nil
//	    }
//	    return emitter.NoResult, nil
//	}, mod)
//	res, err := bus.Dispatch("user", "hello") // "world", nil
//
// Sends run on a per-emitter worker goroutine unless WithScheduler says
// otherwise. Hosts that want the single-threaded model, where a send never
// overlaps the code that made it, pass a Loop and drain it themselves.
//
// Modules pass themselves as owner so they can be detached in one call with
// UnplugAll. Handlers are identified by the func value passed to Register, so
// keep that value (a method value included) to Unregister it. Argument misuse
// (empty event names, nil handlers, non-reference owners) panics with an
// *ArgumentError at the call site.
package emitter
