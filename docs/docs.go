// Package docs holds the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/planner/main.go -o docs
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
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/v1/plans": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["plans"],
                "summary": "Discover plans near the caller",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Caller coordinate as lat,lng", "name": "Location", "in": "header", "required": true},
                    {"type": "number", "description": "Search radius in kilometres", "name": "radius", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.PlanView"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["plans"],
                "summary": "Create a plan",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createPlanRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.PlanView"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/v1/plans/{plan_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["plans"],
                "summary": "Get a plan",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Caller coordinate as lat,lng", "name": "Location", "in": "header", "required": true},
                    {"type": "string", "description": "Plan id", "name": "plan_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.PlanView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/v1/plans/{plan_id}/join": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["plans"],
                "summary": "Request to join a plan",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Caller coordinate as lat,lng", "name": "Location", "in": "header", "required": true},
                    {"type": "string", "description": "Plan id", "name": "plan_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.PlanView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/v1/plans/{plan_id}/members/{user_id}/approve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["members"],
                "summary": "Approve a join request",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Plan id", "name": "plan_id", "in": "path", "required": true},
                    {"type": "string", "description": "Requesting user id", "name": "user_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.successResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/v1/plans/{plan_id}/members/{user_id}/block": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["members"],
                "summary": "Block a user from a plan",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Plan id", "name": "plan_id", "in": "path", "required": true},
                    {"type": "string", "description": "User id to block", "name": "user_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.successResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/v1/plans/{plan_id}/comments": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["comments"],
                "summary": "Comment on a plan",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Plan id", "name": "plan_id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.addCommentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.CommentView"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/v1/plans/{plan_id}/comments/{comment_id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["comments"],
                "summary": "Remove a comment",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Plan id", "name": "plan_id", "in": "path", "required": true},
                    {"type": "string", "description": "Comment id", "name": "comment_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.successResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/v1/ratings": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["ratings"],
                "summary": "Rate another user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.rateUserRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.successResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/v1/notifications": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["notifications"],
                "summary": "List the caller's notifications",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.NotificationView"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/v1/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Get the caller's profile",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Caller coordinate as lat,lng", "name": "Location", "in": "header", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.Profile"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Update the caller's profile",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateProfileRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/health": {
            "get": {"tags": ["health"], "summary": "Liveness probe", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/health/ready": {
            "get": {"tags": ["health"], "summary": "Readiness probe", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        }
    },
    "definitions": {
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "email": {"type": "string"}, "name": {"type": "string"},
                "rating": {"type": "number"}, "push": {"type": "boolean"},
                "created": {"type": "string"}, "updated": {"type": "string"}
            }
        },
        "domain.UserSummary": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "rating": {"type": "number"}}
        },
        "domain.Meta": {
            "type": "object",
            "properties": {
                "comments": {"type": "integer"}, "distance": {"type": "number"},
                "going": {"type": "integer"}, "max": {"type": "integer"}, "full": {"type": "boolean"}
            }
        },
        "domain.CommentView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "body": {"type": "string"}, "pinned": {"type": "boolean"},
                "user": {"$ref": "#/definitions/domain.UserSummary"}, "created": {"type": "string"}
            }
        },
        "domain.MemberView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "name": {"type": "string"}, "rating": {"type": "number"},
                "approved": {"type": "boolean"}, "joined": {"type": "string"},
                "owner": {"type": "boolean"}, "self": {"type": "boolean"}
            }
        },
        "domain.PlanView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "description": {"type": "string"},
                "type": {"type": "string", "enum": ["beach", "concert", "educational", "movie", "road_trip", "shopping"]},
                "status": {"type": "string", "enum": ["new", "requested", "joined"]},
                "time": {"type": "string"}, "expires": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.UserSummary"},
                "comments": {"type": "array", "items": {"$ref": "#/definitions/domain.CommentView"}},
                "members": {"type": "array", "items": {"$ref": "#/definitions/domain.MemberView"}},
                "meta": {"$ref": "#/definitions/domain.Meta"},
                "created": {"type": "string"}, "updated": {"type": "string"}
            }
        },
        "domain.RefView": {
            "type": "object",
            "properties": {
                "__typename": {"type": "string", "enum": ["Plan", "User"]}, "id": {"type": "string"},
                "name": {"type": "string"}, "description": {"type": "string"}, "type": {"type": "string"}
            }
        },
        "domain.NotificationView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "action": {"type": "string", "enum": ["new_request", "new_comment", "request_approved"]},
                "source": {"$ref": "#/definitions/domain.RefView"},
                "target": {"$ref": "#/definitions/domain.RefView"},
                "created": {"type": "string"}
            }
        },
        "ports.Profile": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/domain.User"},
                "plans": {"type": "array", "items": {"$ref": "#/definitions/domain.PlanView"}}
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["name", "email", "password"],
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string", "minLength": 8}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/domain.User"}}
        },
        "handler.coordinatesRequest": {
            "type": "object",
            "required": ["lat", "lng"],
            "properties": {"lat": {"type": "number"}, "lng": {"type": "number"}}
        },
        "handler.createPlanRequest": {
            "type": "object",
            "required": ["description", "type", "location", "time"],
            "properties": {
                "description": {"type": "string"},
                "type": {"type": "string", "enum": ["beach", "concert", "educational", "movie", "road_trip", "shopping"]},
                "location": {"$ref": "#/definitions/handler.coordinatesRequest"},
                "max": {"type": "integer", "minimum": 0},
                "time": {"type": "string"}, "expires": {"type": "string"}
            }
        },
        "handler.addCommentRequest": {
            "type": "object",
            "required": ["body"],
            "properties": {"body": {"type": "string"}, "pinned": {"type": "boolean"}}
        },
        "handler.rateUserRequest": {
            "type": "object",
            "required": ["score", "plan", "user"],
            "properties": {"score": {"type": "integer", "minimum": 1, "maximum": 5}, "plan": {"type": "string"}, "user": {"type": "string"}}
        },
        "handler.updateProfileRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "push": {"type": "boolean"}}
        },
        "handler.successResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}}
        },
        "handler.errorBody": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Plans API",
	Description:      "Location-based coordination of small social plans.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
