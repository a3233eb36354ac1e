package chat

import (
	"bufio"
	"io"
	"strings"

	"github.com/fatih/color"

	"eventist/pkg/emitter"
)

const clearScreen = "\033[H\033[2J"

// UI renders "ui" commands on out and forwards input lines as "user" events.
type UI struct {
	bus    *emitter.Emitter
	out    io.Writer
	prompt string

	sayColor    *color.Color
	logColor    *color.Color
	promptColor *color.Color
}

func NewUI(out io.Writer, prompt string) *UI {
	return &UI{
		out:         out,
		prompt:      prompt,
		sayColor:    color.New(color.FgMagenta),
		logColor:    color.New(color.FgBlue),
		promptColor: color.New(color.FgGreen),
	}
}

func (u *UI) Name() string { return "ui-simple" }

func (u *UI) Attach(bus *emitter.Emitter) {
	u.bus = bus
	bus.Register(EventUI, u.handle, u).Send(EventConnected, u.Name())
}

func (u *UI) handle(_ any, args ...any) (any, error) {
	a1 := arg(args, 1)
	switch arg(args, 0) {
	case "clear":
		_, _ = io.WriteString(u.out, clearScreen)
	case "say":
		_, _ = u.sayColor.Fprintln(u.out, a1)
	case "log":
		_, _ = u.logColor.Fprintln(u.out, "LOG: "+a1)
	case "set.prompt":
		u.prompt = a1
	case "prompt":
		_, _ = u.promptColor.Fprint(u.out, u.prompt+"> ")
	case "close":
		u.bus.Send(EventApp, "close")
	default:
		return emitter.NoResult, nil
	}
	return true, nil
}

// ReadInput sends every trimmed line of r as a "user" event, then asks the UI
// to close once r is exhausted.
func (u *UI) ReadInput(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		u.bus.Send(EventUser, strings.TrimSpace(sc.Text()))
	}
	u.bus.Send(EventUI, "close")
	return sc.Err()
}
