// Package types holds the JSON payloads of the admin HTTP API.
package types

// InfoResponse is returned by GET /info.
type InfoResponse struct {
	// Handler count per event; only events with at least one handler appear.
	// example: {"ui":1,"user":2}
	Events map[string]int `json:"events"`
	// Number of dispatches currently in flight.
	// example: 0
	Depth int `json:"depth"`
	// Modules that announced themselves on module.connected, in order.
	// example: ["ui-simple","decoder","filter"]
	Modules []string `json:"modules"`
}

// EventInfoResponse is returned by GET /info/{event}.
type EventInfoResponse struct {
	// example: user
	Event string `json:"event" example:"user"`
	// example: 2
	Handlers int `json:"handlers" example:"2"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: no handlers for event
	Error string `json:"error" example:"no handlers for event"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}
