// Package docs registers the OpenAPI document served under /swagger
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "schemes": {{ marshal .Schemes }},
  "swagger": "2.0",
  "info": {"description": "{{escape .Description}}", "title": "{{.Title}}", "contact": {}, "version": "{{.Version}}"},
  "host": "{{.Host}}",
  "basePath": "{{.BasePath}}",
  "paths": {
    "/auth/login": {
      "post": {"tags": ["auth"], "summary": "Login", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}]}
    },
    "/connections/send": {
      "post": {"tags": ["connections"], "summary": "Send connection request", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}]}
    },
    "/connections/status/{userId}": {
      "get": {"tags": ["connections"], "summary": "Get connection status", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "userId", "in": "path", "required": true, "type": "integer"}]}
    },
    "/connections": {
      "get": {"tags": ["connections"], "summary": "List my connections", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "page", "in": "query", "required": false, "type": "integer"}, {"name": "size", "in": "query", "required": false, "type": "integer"}]}
    },
    "/connections/details": {
      "get": {"tags": ["connections"], "summary": "List my connections with profile details", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "page", "in": "query", "required": false, "type": "integer"}, {"name": "size", "in": "query", "required": false, "type": "integer"}]}
    },
    "/connections/pending": {
      "get": {"tags": ["connections"], "summary": "List pending requests", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "direction", "in": "query", "required": false, "type": "string"}]}
    },
    "/connections/{id}/accept": {
      "put": {"tags": ["connections"], "summary": "Accept connection request", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}]}
    },
    "/connections/{id}/reject": {
      "put": {"tags": ["connections"], "summary": "Reject connection request", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}]}
    },
    "/connections/{id}/respond": {
      "put": {"tags": ["connections"], "summary": "Respond to connection request", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}, {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}]}
    },
    "/connections/{id}": {
      "delete": {"tags": ["connections"], "summary": "Remove connection", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}]}
    },
    "/connections/request/{id}/cancel": {
      "delete": {"tags": ["connections"], "summary": "Cancel connection request", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}]}
    },
    "/messages/send": {
      "post": {"tags": ["messages"], "summary": "Send direct message", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "receiver_id", "in": "formData", "required": true, "type": "integer"}, {"name": "message_text", "in": "formData", "required": false, "type": "string"}, {"name": "attachments", "in": "formData", "required": false, "type": "file"}], "consumes": ["multipart/form-data"]}
    },
    "/messages/conversations": {
      "get": {"tags": ["messages"], "summary": "List conversations", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}]}
    },
    "/messages/unread-count": {
      "get": {"tags": ["messages"], "summary": "Unread message count", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}]}
    },
    "/messages/conversation/{userId}": {
      "get": {"tags": ["messages"], "summary": "Get conversation", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "userId", "in": "path", "required": true, "type": "integer"}]}
    },
    "/messages/conversation/{userId}/read": {
      "put": {"tags": ["messages"], "summary": "Mark conversation read", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "userId", "in": "path", "required": true, "type": "integer"}]}
    },
    "/messages/{id}": {
      "delete": {"tags": ["messages"], "summary": "Delete message", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}, {"name": "delete_for", "in": "query", "required": false, "type": "string"}]}
    },
    "/groups": {
      "get": {"tags": ["groups"], "summary": "List my groups", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}]},
      "post": {"tags": ["groups"], "summary": "Create group", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "group_name", "in": "formData", "required": true, "type": "string"}, {"name": "group_description", "in": "formData", "required": false, "type": "string"}, {"name": "member_ids", "in": "formData", "required": true, "type": "string"}, {"name": "avatar", "in": "formData", "required": false, "type": "file"}], "consumes": ["multipart/form-data"]}
    },
    "/groups/{id}": {
      "get": {"tags": ["groups"], "summary": "Get group", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}]},
      "delete": {"tags": ["groups"], "summary": "Delete group", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}]}
    },
    "/groups/{id}/members": {
      "post": {"tags": ["groups"], "summary": "Add group members", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}, {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}]}
    },
    "/groups/{id}/members/{userId}": {
      "delete": {"tags": ["groups"], "summary": "Remove group member", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}, {"name": "userId", "in": "path", "required": true, "type": "integer"}]}
    },
    "/groups/{id}/members/{userId}/role": {
      "put": {"tags": ["groups"], "summary": "Update member role", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}, {"name": "userId", "in": "path", "required": true, "type": "integer"}, {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}]}
    },
    "/groups/{id}/leave": {
      "post": {"tags": ["groups"], "summary": "Leave group", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}]}
    },
    "/groups/{id}/messages": {
      "get": {"tags": ["groups"], "summary": "List group messages", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}, {"name": "page", "in": "query", "required": false, "type": "integer"}, {"name": "size", "in": "query", "required": false, "type": "integer"}]},
      "post": {"tags": ["groups"], "summary": "Send group message", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}, {"name": "message_text", "in": "formData", "required": false, "type": "string"}, {"name": "attachments", "in": "formData", "required": false, "type": "file"}], "consumes": ["multipart/form-data"]}
    },
    "/groups/{id}/messages/{messageId}": {
      "delete": {"tags": ["groups"], "summary": "Delete group message", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}, {"name": "messageId", "in": "path", "required": true, "type": "integer"}, {"name": "delete_for", "in": "query", "required": false, "type": "string"}]}
    },
    "/notifications": {
      "get": {"tags": ["notifications"], "summary": "List notifications", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "unread_only", "in": "query", "required": false, "type": "boolean"}, {"name": "page", "in": "query", "required": false, "type": "integer"}, {"name": "size", "in": "query", "required": false, "type": "integer"}]},
      "delete": {"tags": ["notifications"], "summary": "Delete all notifications", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "read_only", "in": "query", "required": false, "type": "boolean"}]}
    },
    "/notifications/unread-count": {
      "get": {"tags": ["notifications"], "summary": "Unread notification count", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}]}
    },
    "/notifications/read-all": {
      "put": {"tags": ["notifications"], "summary": "Mark all notifications read", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}]}
    },
    "/notifications/{id}/read": {
      "put": {"tags": ["notifications"], "summary": "Mark notification read", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}]}
    },
    "/notifications/{id}": {
      "delete": {"tags": ["notifications"], "summary": "Delete notification", "produces": ["application/json"], "responses": {"200": {"$ref": "#/responses/OK"}, "default": {"$ref": "#/responses/Error"}}, "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}]}
    }
  },
  "definitions": {
    "dto.APIResponse": {"type": "object", "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "data": {}, "timestamp": {"type": "string"}}},
    "dto.ErrorDetail": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "field": {"type": "string"}, "details": {}, "severity": {"type": "string"}}},
    "dto.ErrorResponse": {"type": "object", "properties": {"success": {"type": "boolean"}, "error": {"$ref": "#/definitions/dto.ErrorDetail"}, "timestamp": {"type": "string"}}}
  },
  "securityDefinitions": {
    "BearerAuth": {"description": "JWT token for authorization", "type": "apiKey", "name": "Authorization", "in": "header"}
  },
  "responses": {
    "OK": {"description": "Success envelope", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
    "Error": {"description": "Error envelope", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
  }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Alumni Network API",
	Description:      "Connections, direct messages, group chats and notifications between alumni",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
