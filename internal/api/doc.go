// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

/*
Package api serves the recommendation engine, model administration and
duels over HTTP using the chi router.

# Response Format

Every endpoint answers with the same envelope:

	{
	  "success": true,
	  "data": { ... },
	  "error": {"code": "UNKNOWN_USER", "message": "...", "request_id": "..."},
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}
	}

# Endpoints

	GET  /api/v1/health/live
	GET  /api/v1/health/ready                   503 until a model is published
	GET  /api/v1/recommendations/user/{handle}  ?n=&tag=
	POST /api/v1/recommendations                {handle, solved, n, tag}
	GET  /api/v1/users/{handle}/stats
	GET  /api/v1/tags
	GET  /api/v1/model/status
	POST /api/v1/model/train                    202, runs in the trainer service
	POST /api/v1/model/snapshot
	GET  /api/v1/duels?user=
	POST /api/v1/duels                          {user, problem_id}
	GET  /api/v1/duels/{id}
	POST /api/v1/duels/{id}/finish              {user}
	GET  /metrics
	GET  /swagger/*                             OpenAPI UI, document at /swagger/doc.json

# Error Mapping

	model not trained       503 MODEL_NOT_READY
	unknown user            404 UNKNOWN_USER
	validation failure      400 VALIDATION_FAILED
	training in progress    409 TRAINING_IN_PROGRESS
	invalid dataset         422 INVALID_DATASET
	snapshot failure        500 SNAPSHOT_FAILED
	match not found         404 MATCH_NOT_FOUND

# Middleware

Request ID, real IP, access log, panic recovery, CORS (go-chi/cors) and
gzip are global. The /api/v1 routes other than health are rate limited per
IP with go-chi/httprate and instrumented with Prometheus.
*/
package api
