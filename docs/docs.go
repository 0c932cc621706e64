// Package docs Service Directory API.
//
// Справочник локальных сервисов: поиск по радиусу, текстовый поиск, категории
// и админское управление записями. Документ отдается по /swagger/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health check",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}}
                }
            }
        },
        "/api/services/nearby": {
            "get": {
                "tags": ["Services"],
                "summary": "Nearby services",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "number", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "name": "lng", "in": "query", "required": true},
                    {"type": "integer", "default": 5000, "name": "radius", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "integer", "default": 20, "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/services/search": {
            "get": {
                "tags": ["Services"],
                "summary": "Search services",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "q", "in": "query", "required": true},
                    {"type": "number", "name": "lat", "in": "query"},
                    {"type": "number", "name": "lng", "in": "query"},
                    {"type": "integer", "default": 10000, "name": "radius", "in": "query"},
                    {"type": "integer", "default": 20, "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/services/category/{category}": {
            "get": {
                "tags": ["Services"],
                "summary": "Services by category",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "category", "in": "path", "required": true},
                    {"type": "number", "name": "lat", "in": "query"},
                    {"type": "number", "name": "lng", "in": "query"},
                    {"type": "integer", "default": 10000, "name": "radius", "in": "query"},
                    {"type": "integer", "default": 50, "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/services/{id}": {
            "get": {
                "tags": ["Services"],
                "summary": "Service by id",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/categories": {
            "get": {
                "tags": ["Categories"],
                "summary": "Active categories",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}}
                }
            }
        },
        "/api/categories/{name}": {
            "get": {
                "tags": ["Categories"],
                "summary": "Category by name",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/admin/services": {
            "get": {
                "tags": ["Admin"],
                "summary": "Admin service list",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "name": "limit", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "default": "createdAt", "name": "sortBy", "in": "query"},
                    {"type": "string", "default": "desc", "name": "sortOrder", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Create service",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/admin/services/{id}": {
            "put": {
                "tags": ["Admin"],
                "summary": "Update service",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete service",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/admin/stats": {
            "get": {
                "tags": ["Admin"],
                "summary": "Directory statistics",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "utils.SuccessResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "count": {"type": "integer"},
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "pages": {"type": "integer"}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "code": {"type": "string"},
                "errors": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "field": {"type": "string"},
                            "message": {"type": "string"}
                        }
                    }
                },
                "stack": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:5000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Service Directory API",
	Description:      "Справочник локальных сервисов: поиск по радиусу, текстовый поиск, категории и админское управление записями.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
