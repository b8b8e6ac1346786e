// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/session": {"get": {"tags": ["session"], "summary": "Current session", "responses": {"200": {"description": "OK"}}}},
        "/session/offline": {"post": {"tags": ["session"], "summary": "Use the app without an account", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/session/welcome": {"post": {"tags": ["session"], "summary": "Mark the welcome screen as seen", "responses": {"200": {"description": "OK"}}}},
        "/session/activate": {"post": {"tags": ["session"], "summary": "Run the daily rollover", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/session/merge": {
            "post": {"tags": ["session"], "summary": "Copy local goals into the account", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}},
            "delete": {"tags": ["session"], "summary": "Keep local goals out of the account", "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict"}}}
        },
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Create an account", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Sign in", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "429": {"description": "Too Many Requests"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Sign out", "responses": {"200": {"description": "OK"}}}},
        "/settings": {
            "get": {"tags": ["settings"], "summary": "Current settings", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["settings"], "summary": "Change settings", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/goals": {
            "get": {"tags": ["goals"], "summary": "List goals", "parameters": [{"type": "boolean", "name": "all", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["goals"], "summary": "Create a goal", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/goals/{id}": {
            "get": {"tags": ["goals"], "summary": "Get a goal", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["goals"], "summary": "Update a goal", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}},
            "delete": {"tags": ["goals"], "summary": "Delete a goal", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/goals/{id}/visibility": {"post": {"tags": ["goals"], "summary": "Hide or show a goal", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/goals/{id}/days/{date}": {"post": {"tags": ["goals"], "summary": "Mark a day", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "date", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/goals/{id}/stats": {"get": {"tags": ["goals"], "summary": "Progress and streak", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/notifications/tokens": {"post": {"tags": ["notifications"], "summary": "Register a device for reminders", "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict"}}}}
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Goals API",
	Description:      "Goal tracking with daily check-ins, local or account storage.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
