// Package docs registers the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/wash_machines": {
            "get": {
                "produces": ["application/json"],
                "tags": ["wash_machines"],
                "summary": "List wash machines",
                "responses": {
                    "200": {"description": "count, wash_machines", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/v1/wash_machines/{name}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["wash_machines"],
                "summary": "Get one wash machine",
                "parameters": [
                    {"type": "string", "description": "Wash machine name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.WashMachine"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/wash_machines/{name}/phases": {
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "The new order must be a permutation of the current phases. It is persisted and pushed to open dashboards.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["wash_machines"],
                "summary": "Reorder phases",
                "parameters": [
                    {"type": "string", "description": "Wash machine name", "name": "name", "in": "path", "required": true},
                    {"description": "Phase order", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.ReorderParams"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.WashMachine"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List recorded events",
                "parameters": [
                    {"type": "string", "description": "Start (RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD')", "name": "from", "in": "query"},
                    {"type": "string", "description": "End (same formats; a date means end of day)", "name": "to", "in": "query"},
                    {"enum": ["DISCOVERY", "DISCOVERY_ERROR", "POLL_ERROR", "POLL_RECOVERED", "REORDER"], "type": "string", "description": "Event type", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, events", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/console": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "Recent log lines",
                "parameters": [
                    {"type": "integer", "default": 200, "description": "Number of lines", "name": "n", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, entries", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/auth/sign-up": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register an operator",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/sign-in": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in and obtain a bearer token",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "service.ReorderParams": {
            "type": "object",
            "required": ["phases"],
            "properties": {
                "phases": {"type": "array", "items": {"type": "string"}, "example": ["drying", "heating"]}
            }
        },
        "handlers.authCredentials": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "models.TempLog": {
            "type": "object",
            "properties": {
                "datetime": {"type": "array", "items": {}},
                "temps": {"type": "array", "items": {"type": "number"}}
            }
        },
        "models.WashMachine": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phases": {"type": "array", "items": {"type": "string"}},
                "temp_log": {"$ref": "#/definitions/models.TempLog"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "pivovar",
	Description:      "Home-brewery dashboard: wash machine temperature logs and phase order.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
