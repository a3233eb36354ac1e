//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

// docTemplate is the OpenAPI document of the admin API.
const docTemplate = `{
  "swagger": "2.0",
  "info": {"title": "eventist admin API", "version": "1.0",
           "description": "Read-only introspection of a running event emitter."},
  "basePath": "/",
  "paths": {
    "/info": {"get": {"summary": "Subscription counts", "produces": ["application/json"],
      "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.InfoResponse"}}}}},
    "/info/{event}": {"get": {"summary": "Handlers of one event", "produces": ["application/json"],
      "parameters": [{"name": "event", "in": "path", "required": true, "type": "string"}],
      "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.EventInfoResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}}
  },
  "definitions": {
    "types.InfoResponse": {"type": "object", "properties": {
      "events": {"type": "object", "additionalProperties": {"type": "integer"}},
      "depth": {"type": "integer"},
      "modules": {"type": "array", "items": {"type": "string"}}}},
    "types.EventInfoResponse": {"type": "object", "properties": {
      "event": {"type": "string"}, "handlers": {"type": "integer"}}},
    "types.ErrorResponse": {"type": "object", "properties": {
      "error": {"type": "string"}, "code": {"type": "integer"}}}
  }
}`

type swaggerDoc struct{}

func (swaggerDoc) ReadDoc() string { return docTemplate }

func init() {
	swag.Register(swag.Name, swaggerDoc{})
}

// MountSwagger serves the swagger UI under /swagger/.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
