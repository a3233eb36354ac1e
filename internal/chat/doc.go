// Package chat is a small terminal chat bot assembled from independent modules
// that only communicate through a shared emitter:
//
//   - app.go: App answers module.connected, runs the quit countdown, and ends
//     the session on "app close".
//   - ui.go: UI renders ui commands and turns input lines into "user" events.
//   - decoder.go: Decoder maps user commands to actions.
//   - filter.go: Filter sits in front of the decoder and rewrites input.
//   - session.go: Session wires the modules to one bus and runs them.
//
// Every module registers with itself as owner and leaves with UnplugAll.
package chat

import "eventist/pkg/emitter"

// Event names shared by the modules.
const (
	EventUI        = "ui"
	EventUser      = "user"
	EventApp       = "app"
	EventConnected = "module.connected"
	EventQuit      = "module.quit"
)

// arg returns args[i] as a string, or "" when absent.
func arg(args []any, i int) string {
	if i >= len(args) {
		return ""
	}
	s, _ := args[i].(string)
	return s
}

// Module is implemented by every chat module.
type Module interface {
	Name() string
	Attach(bus *emitter.Emitter)
}
