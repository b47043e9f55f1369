// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

// Package docs registers the Tourbuddy OpenAPI document with swag so
// http-swagger can serve it at /swagger/doc.json.
//
// Regenerate from the handler annotations with:
//
//	swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/health/live": {
            "get": {"tags": ["Health"], "summary": "Liveness probe", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/health/ready": {
            "get": {"tags": ["Health"], "summary": "Readiness probe", "produces": ["application/json"],
                "responses": {"200": {"description": "Ready"}, "503": {"description": "Store unavailable"}}}
        },
        "/auth/signup": {
            "post": {"tags": ["Auth"], "summary": "Create an account", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}, "409": {"description": "Email already registered"}}}
        },
        "/auth/login": {
            "post": {"tags": ["Auth"], "summary": "Log in", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}}
        },
        "/destination": {
            "get": {"tags": ["Destinations"], "summary": "Get destination by coordinates", "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "lat", "type": "number", "required": true},
                    {"in": "query", "name": "lon", "type": "number", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid coordinates"}, "404": {"description": "Not found"}}}
        },
        "/nearby-destinations": {
            "get": {"tags": ["Destinations"], "summary": "Recommend nearby destinations", "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "lat", "type": "number", "required": true},
                    {"in": "query", "name": "lon", "type": "number", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid coordinates"}, "401": {"description": "Authentication required"}, "502": {"description": "Prediction service failed"}}}
        },
        "/review": {
            "get": {"tags": ["Reviews"], "summary": "List reviews", "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "destination_id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Destination missing or has no reviews"}}}
        },
        "/addreview": {
            "post": {"tags": ["Reviews"], "summary": "Add a review", "consumes": ["application/json"], "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/AddReviewRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}, "401": {"description": "Invalid token"}, "404": {"description": "Destination not found"}}}
        },
        "/import-destinations": {
            "post": {"tags": ["Admin"], "summary": "Import and backfill destinations", "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Admin role required"}, "409": {"description": "Import already running"}, "502": {"description": "Import failed"}}}
        }
    },
    "definitions": {
        "SignupRequest": {
            "type": "object",
            "required": ["username", "email", "password"],
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 8}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "AddReviewRequest": {
            "type": "object",
            "required": ["destination_id", "rating"],
            "properties": {
                "destination_id": {"type": "string"},
                "review": {"type": "string"},
                "rating": {"type": "integer", "minimum": 1, "maximum": 5}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Tourbuddy API",
	Description:      "Travel destination recommendations, reviews and ratings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
