package chat

import "eventist/pkg/emitter"

// helpEvery is how many bad inputs pass between two offers of help.
const helpEvery = 5

// Filter is attached after the decoder, so it sees user input first and may
// swallow or rewrite it.
type Filter struct {
	bus    *emitter.Emitter
	prompt string
	count  int
}

func NewFilter(prompt string) *Filter { return &Filter{prompt: prompt} }

func (f *Filter) Name() string { return "filter" }

func (f *Filter) Attach(bus *emitter.Emitter) {
	f.bus = bus
	bus.Register(EventApp, f.translate, f).
		Register(EventUser, f.decode, f).
		Send(EventConnected, f.Name()).
		Send(EventUI, "set.prompt", f.prompt)
}

// translate answers "app bad-user": "help" now and then, nil (ignore the
// input) otherwise.
func (f *Filter) translate(_ any, args ...any) (any, error) {
	if arg(args, 0) != "bad-user" {
		return emitter.NoResult, nil
	}
	f.count--
	if f.count <= 0 {
		f.count = helpEvery
		return "help", nil
	}
	f.bus.Send(EventUI, "prompt")
	return nil, nil
}

func (f *Filter) decode(_ any, args ...any) (any, error) {
	switch arg(args, 0) {
	case "help":
		// let through only the help translate asked for
		if f.count != helpEvery {
			f.bus.Send(EventUI, "prompt")
			return true, nil
		}
	case "filter off":
		f.bus.Send(EventUI, "say", "disabling safety filter...")
		f.bus.UnplugAll(f).
			Send(EventUI, "set.prompt", "OHAY").
			Send(EventUI, "prompt")
		return true, nil
	}
	return emitter.NoResult, nil
}
