package chat

import (
	"fmt"

	"eventist/pkg/emitter"
)

// Decoder translates user input into application actions. Unknown input is
// first offered to "app bad-user" for a replacement; after the tolerance runs
// out the decoder detaches itself.
type Decoder struct {
	bus       *emitter.Emitter
	tolerance int
	left      int
}

func NewDecoder(tolerance int) *Decoder {
	return &Decoder{tolerance: tolerance, left: tolerance}
}

func (d *Decoder) Name() string { return "decoder" }

func (d *Decoder) Attach(bus *emitter.Emitter) {
	d.bus = bus
	bus.Register(EventUser, d.handle, d).Send(EventConnected, d.Name())
}

func (d *Decoder) handle(_ any, args ...any) (any, error) {
	command := arg(args, 0)
	switch command {
	case "help":
		d.bus.Send(EventUI, "say", "Available commands: clear help hello exit quit")
	case "clear":
		d.bus.Send(EventUI, "clear")
	case "hello":
		d.bus.Send(EventUI, "say", "world!")
	case "exit", "quit":
		d.bus.Send(EventApp, "close")
	default:
		return d.unknown(command)
	}
	d.left = d.tolerance
	d.bus.Send(EventUI, "prompt")
	return true, nil
}

func (d *Decoder) unknown(command string) (any, error) {
	res, err := d.bus.Dispatch(EventApp, "bad-user", command)
	if err != nil {
		return nil, err
	}
	if replacement, ok := res.(string); ok {
		d.bus.Send(EventUser, replacement)
		return true, nil
	}
	if res != emitter.NoResult {
		return true, nil
	}

	if d.left > 0 {
		d.bus.Send(EventUI, "say",
			fmt.Sprintf("I do not understand! Type \"help\" if you mind... %d try left.", d.left))
		d.left--
		d.bus.Send(EventUI, "prompt")
		return emitter.NoResult, nil
	}
	d.bus.UnplugAll(d).Send(EventQuit, d.Name())
	return emitter.NoResult, nil
}
