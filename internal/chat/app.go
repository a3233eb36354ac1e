package chat

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"eventist/pkg/emitter"
)

// App is the console module: it tracks connected modules, mourns the ones
// that quit, and ends the session on "app close".
type App struct {
	bus         *emitter.Emitter
	quitSeconds int
	quitStep    int
	tick        time.Duration
	verbose     bool

	mu        sync.Mutex
	connected []string
	closing   bool

	done     chan struct{}
	doneOnce sync.Once
}

// NewApp counts down quitSeconds in steps of quitStep seconds once a module
// quits. With verbose set, every non-ui dispatch is mirrored as "ui log".
func NewApp(quitSeconds, quitStep int, verbose bool) *App {
	return &App{
		quitSeconds: quitSeconds,
		quitStep:    quitStep,
		tick:        time.Duration(quitStep) * time.Second,
		verbose:     verbose,
		done:        make(chan struct{}),
	}
}

func (a *App) Name() string { return "console" }

func (a *App) Attach(bus *emitter.Emitter) {
	a.bus = bus
	bus.Register(EventConnected, a.connect, a).
		RegisterOnce(EventQuit, a.quit, a).
		Register(EventApp, a.command, a)
	if a.verbose {
		bus.Hook(a.mirror)
	}
}

// Done is closed when the session should end.
func (a *App) Done() <-chan struct{} { return a.done }

// Connected lists the modules that announced themselves, in order.
func (a *App) Connected() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.connected...)
}

func (a *App) connect(_ any, args ...any) (any, error) {
	a.mu.Lock()
	a.connected = append(a.connected, arg(args, 0))
	a.mu.Unlock()
	return true, nil
}

func (a *App) quit(_ any, args ...any) (any, error) {
	a.bus.Send(EventUI, "say", fmt.Sprintf("Ewwww... you have killed my %s!!!  :,(", arg(args, 0)))
	left := a.quitSeconds
	var die func()
	die = func() {
		for left > 0 {
			a.bus.Send(EventUI, "say", fmt.Sprintf("I'll die in %d seconds...", left))
			left -= a.quitStep
			if a.tick > 0 {
				time.AfterFunc(a.tick, die)
				return
			}
		}
		a.bus.Send(EventUI, "say", "Good-bye, Cruel World!").
			Send(EventApp, "close", "world!")
	}
	die()
	return true, nil
}

func (a *App) command(_ any, args ...any) (any, error) {
	switch arg(args, 0) {
	case "close":
		a.mu.Lock()
		closing := a.closing
		a.closing = true
		a.mu.Unlock()
		if !closing {
			a.bus.Send(EventUI, "say", "Have a great day!").Send(EventApp, "exit")
		}
	case "exit":
		a.doneOnce.Do(func() { close(a.done) })
	default:
		return emitter.NoResult, nil
	}
	return true, nil
}

func (a *App) mirror(args []any) []any {
	if len(args) == 0 || args[0] == EventUI {
		return args
	}
	parts := make([]string, len(args))
	for i, v := range args {
		parts[i] = fmt.Sprint(v)
	}
	a.bus.Send(EventUI, "log", strings.Join(parts, "::"))
	return args
}
