package main

// General API documentation for swaggo. Run `swag init -g cmd/eventist/docs.go` to regenerate.
//
// @title           eventist admin API
// @version         1.0
// @description     Read-only view of a running chat session's event bus.
//
// @contact.name   eventist maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
