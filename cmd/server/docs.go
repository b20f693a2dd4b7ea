// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

// @title Solvedrec API
// @version 1.0
// @description Collaborative-filtering problem recommendations for solved.ac users.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address.
// @description Health endpoints are not rate limited.
// @description
// @description ## Error Responses
// @description
// @description All responses use the same envelope:
// @description ```json
// @description {
// @description   "success": false,
// @description   "error": {"code": "UNKNOWN_USER", "message": "unknown user"},
// @description   "meta": {"request_id": "...", "timestamp": "2026-01-02T15:04:05Z", "duration_ms": 1}
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/solvedrec/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Core
// @tag.description Health probes
//
// @tag.name Recommendations
// @tag.description Problem recommendations, user statistics and tag ranges
//
// @tag.name Model
// @tag.description Training status, retraining and snapshots
//
// @tag.name Duels
// @tag.description Head-to-head matches on a single problem

package main
