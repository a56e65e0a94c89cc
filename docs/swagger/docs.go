// Package swagger holds the OpenAPI document served at /swagger. It is kept
// by hand in swag's layout; update it alongside the handler annotations.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "description": "List polls newest first with the caller's voting status",
                "produces": ["application/json"],
                "tags": ["poll"],
                "summary": "List polls",
                "parameters": [
                    {"type": "string", "description": "Browser fingerprint", "name": "fingerprint", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/handler.StandardResponse"},
                                {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/service.PollSummary"}}}}
                            ]
                        }
                    },
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.StandardResponse"}}
                }
            }
        },
        "/api/captcha": {
            "get": {
                "description": "Returns the challenge image and its single-use token (also in the X-Captcha-Token header)",
                "produces": ["application/json"],
                "tags": ["captcha"],
                "summary": "Issue a captcha challenge",
                "parameters": [
                    {"type": "string", "description": "text or position", "name": "kind", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.IssuedChallenge"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.StandardResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.StandardResponse"}}
                }
            }
        },
        "/api/captcha/verify": {
            "post": {
                "description": "Consumes the challenge token; on success returns a short-lived verified token for the vote endpoint",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["captcha"],
                "summary": "Verify a captcha answer",
                "parameters": [
                    {"description": "Answer", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.VerifyCaptchaRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.VerifyCaptchaResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.VerifyCaptchaResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.VerifyCaptchaResponse"}}
                }
            }
        },
        "/create": {
            "get": {
                "produces": ["application/json"],
                "tags": ["poll"],
                "summary": "Poll creation constraints",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/handler.StandardResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/handler.CreateFormResponse"}}}
                            ]
                        }
                    }
                }
            },
            "post": {
                "description": "Create a poll with a question and at least two options",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["poll"],
                "summary": "Create a poll",
                "parameters": [
                    {"description": "Poll", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreatePollRequest"}}
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/handler.StandardResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/domain.Poll"}}}
                            ]
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.StandardResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.StandardResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.StandardResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Reports whether the service and its stores are reachable",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check endpoint",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.HealthResponse"}}
                }
            }
        },
        "/results/{pollId}": {
            "get": {
                "description": "Per-option vote counts and percentages",
                "produces": ["application/json"],
                "tags": ["poll"],
                "summary": "Poll results",
                "parameters": [
                    {"type": "integer", "description": "Poll ID", "name": "pollId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/handler.StandardResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/service.PollResults"}}}
                            ]
                        }
                    },
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.StandardResponse"}}
                }
            }
        },
        "/vote/{pollId}": {
            "get": {
                "description": "Poll and options; redirects to the results when the caller already voted",
                "produces": ["application/json"],
                "tags": ["vote"],
                "summary": "Voting form",
                "parameters": [
                    {"type": "integer", "description": "Poll ID", "name": "pollId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/handler.StandardResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/handler.VoteFormResponse"}}}
                            ]
                        }
                    },
                    "303": {"description": "See Other"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.StandardResponse"}}
                }
            },
            "post": {
                "description": "Record one vote for an option; requires a verified captcha token",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["vote"],
                "summary": "Cast a vote",
                "parameters": [
                    {"type": "integer", "description": "Poll ID", "name": "pollId", "in": "path", "required": true},
                    {"description": "Vote", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CastVoteRequest"}}
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/handler.StandardResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/handler.CastVoteResponse"}}}
                            ]
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.StandardResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.StandardResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.StandardResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.StandardResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Option": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "option_text": {"type": "string"},
                "poll_id": {"type": "integer"},
                "votes": {"type": "integer"}
            }
        },
        "domain.Poll": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "id": {"type": "integer"},
                "options": {"type": "array", "items": {"$ref": "#/definitions/domain.Option"}},
                "question": {"type": "string"}
            }
        },
        "handler.CastVoteRequest": {
            "type": "object",
            "required": ["option"],
            "properties": {
                "captcha_token": {"type": "string"},
                "fingerprint": {"type": "string", "maxLength": 128},
                "option": {"type": "integer"}
            }
        },
        "handler.CastVoteResponse": {
            "type": "object",
            "properties": {
                "option_id": {"type": "integer"},
                "poll_id": {"type": "integer"},
                "results_url": {"type": "string"}
            }
        },
        "handler.CreateFormResponse": {
            "type": "object",
            "properties": {
                "min_options": {"type": "integer"},
                "requires_secret": {"type": "boolean"}
            }
        },
        "handler.CreatePollRequest": {
            "type": "object",
            "required": ["options", "question"],
            "properties": {
                "options": {"type": "array", "items": {"type": "string"}},
                "question": {"type": "string", "maxLength": 500, "example": "Favorite language?"}
            }
        },
        "handler.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"type": "object", "additionalProperties": {"type": "string"}},
                "duration": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "handler.StandardResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "error": {},
                "message": {"type": "string"}
            }
        },
        "handler.VerifyCaptchaRequest": {
            "type": "object",
            "required": ["token"],
            "properties": {
                "answer": {"type": "string"},
                "position": {"type": "number"},
                "token": {"type": "string"}
            }
        },
        "handler.VerifyCaptchaResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "success": {"type": "boolean"},
                "verifiedToken": {"type": "string"}
            }
        },
        "handler.VoteFormResponse": {
            "type": "object",
            "properties": {
                "poll": {"$ref": "#/definitions/domain.Poll"}
            }
        },
        "service.IssuedChallenge": {
            "type": "object",
            "properties": {
                "expires_at": {"type": "string"},
                "height": {"type": "integer"},
                "image": {"type": "string"},
                "kind": {"type": "string"},
                "slider_width": {"type": "integer"},
                "token": {"type": "string"},
                "width": {"type": "integer"}
            }
        },
        "service.OptionResult": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "option_text": {"type": "string"},
                "percentage": {"type": "string"},
                "votes": {"type": "integer"}
            }
        },
        "service.PollResults": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "id": {"type": "integer"},
                "options": {"type": "array", "items": {"$ref": "#/definitions/service.OptionResult"}},
                "question": {"type": "string"},
                "total_votes": {"type": "integer"}
            }
        },
        "service.PollSummary": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "has_voted": {"type": "boolean"},
                "id": {"type": "integer"},
                "question": {"type": "string"},
                "vote_time": {"type": "string"},
                "vote_time_ago": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "",
	Description:      "",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
