// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

// Package docs registers the OpenAPI document served under /swagger/.
//
// The template mirrors the swag annotations on the handlers in internal/api
// and the general API info in cmd/server/docs.go. Regenerate with:
//
//	swag init -g cmd/server/main.go -o docs --parseInternal
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "GitHub Repository",
            "url": "https://github.com/tomtom215/solvedrec/issues"
        },
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/duels": {
            "get": {
                "description": "Lists the open and finished matches a user takes part in.",
                "produces": ["application/json"],
                "tags": ["Duels"],
                "summary": "List a user's duels",
                "parameters": [
                    {"type": "string", "description": "solved.ac handle", "name": "user", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Matches", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/api.DuelView"}}}}]}},
                    "400": {"description": "Invalid handle", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Duels are not available", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            },
            "post": {
                "description": "Joins the oldest open match on the problem, or opens a new one with the caller as host.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Duels"],
                "summary": "Open or join a duel",
                "parameters": [
                    {"description": "Duel request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.OpenDuelRequest"}}
                ],
                "responses": {
                    "201": {"description": "Match opened or joined", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.DuelView"}}}]}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "409": {"description": "User would duel themselves", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Duels are not available", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/duels/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Duels"],
                "summary": "Get a duel with its result",
                "parameters": [
                    {"type": "string", "description": "Match ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Match", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.DuelView"}}}]}},
                    "404": {"description": "Match not found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/duels/{id}/finish": {
            "post": {
                "description": "Records the caller's elapsed time. The result is decided once both sides finish.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Duels"],
                "summary": "Finish a duel",
                "parameters": [
                    {"type": "string", "description": "Match ID", "name": "id", "in": "path", "required": true},
                    {"description": "Finishing user", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.FinishDuelRequest"}}
                ],
                "responses": {
                    "200": {"description": "Match", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.DuelView"}}}]}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Match not found", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "409": {"description": "Side already finished", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/health/live": {
            "get": {
                "description": "Returns 200 whenever the process can answer.",
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "Service is alive", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.HealthStatus"}}}]}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "description": "Returns 503 until the first model is published.",
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Model is serving", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.HealthStatus"}}}]}},
                    "503": {"description": "Model not ready", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/model/snapshot": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Model"],
                "summary": "Save a snapshot of the serving model",
                "responses": {
                    "201": {"description": "Snapshot saved", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/storage.Metadata"}}}]}},
                    "500": {"description": "No snapshot store or write failure", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Model not ready", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/model/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Model"],
                "summary": "Training status and handle counters",
                "responses": {
                    "200": {"description": "Model status", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.ModelStatus"}}}]}}
                }
            }
        },
        "/model/train": {
            "post": {
                "description": "Queues an asynchronous training run. Poll /model/status for the outcome.",
                "produces": ["application/json"],
                "tags": ["Model"],
                "summary": "Trigger retraining",
                "responses": {
                    "202": {"description": "Training queued", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "409": {"description": "A run is already queued", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Training is not available", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/recommendations": {
            "post": {
                "description": "A known handle takes the trained-user path. An unknown handle or no handle with a solved history takes the cold-start path.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Recommend problems for a handle or a solve history",
                "parameters": [
                    {"description": "Recommendation request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.RecommendRequest"}}
                ],
                "responses": {
                    "200": {"description": "Recommendations", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/recommend.Response"}}}]}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Unknown user without history", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Model not ready", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/recommendations/user/{handle}": {
            "get": {
                "description": "Returns recommendations for a user present in the trained model.",
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Recommend problems for a known user",
                "parameters": [
                    {"type": "string", "description": "solved.ac handle", "name": "handle", "in": "path", "required": true},
                    {"type": "integer", "description": "Number of results (default 10)", "name": "n", "in": "query"},
                    {"type": "string", "description": "Algorithm tag, e.g. dp or dynamic programming", "name": "tag", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Recommendations", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/recommend.Response"}}}]}},
                    "400": {"description": "Invalid parameters", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Unknown user", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Model not ready", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/tags": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "List the tag difficulty ranges",
                "responses": {
                    "200": {"description": "Tag ranges sorted by name", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/recommend.TagRange"}}}}]}}
                }
            }
        },
        "/users/{handle}/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Solve statistics for a known user",
                "parameters": [
                    {"type": "string", "description": "solved.ac handle", "name": "handle", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "User statistics", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/recommend.UserStats"}}}]}},
                    "404": {"description": "Unknown user", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Model not ready", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {},
                "message": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "api.APIMeta": {
            "type": "object",
            "properties": {
                "duration_ms": {"type": "integer"},
                "request_id": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/api.APIError"},
                "meta": {"$ref": "#/definitions/api.APIMeta"},
                "success": {"type": "boolean"}
            }
        },
        "api.DuelView": {
            "type": "object",
            "properties": {
                "host": {"type": "string"},
                "host_finished": {"type": "boolean"},
                "host_start": {"type": "string"},
                "host_time_ns": {"type": "integer"},
                "id": {"type": "string"},
                "opponent": {"type": "string"},
                "opponent_finished": {"type": "boolean"},
                "opponent_start": {"type": "string"},
                "opponent_time_ns": {"type": "integer"},
                "problem_id": {"type": "integer"},
                "result": {"$ref": "#/definitions/duel.Result"}
            }
        },
        "api.FinishDuelRequest": {
            "type": "object",
            "required": ["user"],
            "properties": {
                "user": {"type": "string"}
            }
        },
        "api.HealthStatus": {
            "type": "object",
            "properties": {
                "model_ready": {"type": "boolean"},
                "model_version": {"type": "integer"},
                "status": {"type": "string"},
                "uptime_seconds": {"type": "number"}
            }
        },
        "api.ModelStatus": {
            "type": "object",
            "properties": {
                "counters": {"$ref": "#/definitions/recommend.Metrics"},
                "training": {"$ref": "#/definitions/recommend.TrainingStatus"}
            }
        },
        "api.OpenDuelRequest": {
            "type": "object",
            "required": ["problem_id", "user"],
            "properties": {
                "problem_id": {"type": "integer", "minimum": 1},
                "user": {"type": "string"}
            }
        },
        "api.RecommendRequest": {
            "type": "object",
            "properties": {
                "handle": {"type": "string"},
                "n": {"type": "integer", "maximum": 1000, "minimum": 0},
                "solved": {"type": "array", "items": {"$ref": "#/definitions/api.SolvedProblem"}},
                "tag": {"type": "string"}
            }
        },
        "api.SolvedProblem": {
            "type": "object",
            "properties": {
                "difficulty": {"type": "integer", "maximum": 30, "minimum": 0},
                "problem_id": {"type": "integer", "minimum": 1}
            }
        },
        "duel.Result": {
            "type": "object",
            "properties": {
                "decided": {"type": "boolean"},
                "winner": {"type": "string"}
            }
        },
        "recommend.Metrics": {
            "type": "object",
            "properties": {
                "cache_hits": {"type": "integer"},
                "cache_misses": {"type": "integer"},
                "error_count": {"type": "integer"},
                "fallback_count": {"type": "integer"},
                "request_count": {"type": "integer"},
                "training_count": {"type": "integer"}
            }
        },
        "recommend.Response": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/recommend.ScoredProblem"}},
                "metadata": {"$ref": "#/definitions/recommend.ResponseMetadata"},
                "source": {"type": "string", "enum": ["collaborative", "popularity"]}
            }
        },
        "recommend.ResponseMetadata": {
            "type": "object",
            "properties": {
                "cache_hit": {"type": "boolean"},
                "latency_ms": {"type": "integer"},
                "mode": {"type": "string"},
                "model_version": {"type": "integer"},
                "neighbors": {"type": "integer"},
                "request_id": {"type": "string"},
                "tag": {"type": "string"}
            }
        },
        "recommend.ScoredProblem": {
            "type": "object",
            "properties": {
                "problem_id": {"type": "integer"},
                "score": {"type": "number"}
            }
        },
        "recommend.TagRange": {
            "type": "object",
            "properties": {
                "max": {"type": "integer"},
                "min": {"type": "integer"},
                "tag": {"type": "string"}
            }
        },
        "recommend.TrainingStatus": {
            "type": "object",
            "properties": {
                "entry_count": {"type": "integer"},
                "is_training": {"type": "boolean"},
                "last_error": {"type": "string"},
                "last_trained_at": {"type": "string"},
                "last_training_duration_ms": {"type": "integer"},
                "model_version": {"type": "integer"},
                "problem_count": {"type": "integer"},
                "state": {"type": "string"},
                "user_count": {"type": "integer"}
            }
        },
        "recommend.UserStats": {
            "type": "object",
            "properties": {
                "avg_difficulty": {"type": "number"},
                "difficulty_histogram": {"type": "object", "additionalProperties": {"type": "integer"}},
                "handle": {"type": "string"},
                "max_difficulty": {"type": "integer"},
                "min_difficulty": {"type": "integer"},
                "total_solved": {"type": "integer"}
            }
        },
        "storage.Metadata": {
            "type": "object",
            "properties": {
                "checksum": {"type": "string"},
                "entry_count": {"type": "integer"},
                "name": {"type": "string"},
                "problem_count": {"type": "integer"},
                "saved_at": {"type": "string"},
                "size_bytes": {"type": "integer"},
                "trained_at": {"type": "string"},
                "training_duration_ms": {"type": "integer"},
                "user_count": {"type": "integer"},
                "version": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Solvedrec API",
	Description:      "Collaborative-filtering problem recommendations for solved.ac users.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
