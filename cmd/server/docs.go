// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

// Package main provides the Razzieboard HTTP server
//
// Razzieboard serves Golden Raspberry Awards "Worst Movie" analytics:
// producer win intervals, studio rankings, and full movie list management.
//
// @title Razzieboard API
// @version 1.0
// @description Analytics service for the Golden Raspberry Awards "Worst Movie" category
// @description
// @description ## Features
// @description
// @description - **Producer Intervals**: Shortest and longest gaps between consecutive wins, ties included
// @description - **Movie Management**: Full CRUD over the nominee list
// @description - **Studio Rankings**: Win counts per studio with multi-studio entries split
// @description - **CSV Import/Export**: Semicolon-delimited movie lists, replace or append mode
// @description - **Audit Trail**: Every data-changing operation is recorded and queryable
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message"
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-02-01T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/razzieboard/razzieboard/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:1981
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Health
// @tag.description Health and readiness probes
//
// @tag.name Movies
// @tag.description Movie list management endpoints
//
// @tag.name Awards
// @tag.description Producer interval and analytics endpoints
//
// @tag.name Data
// @tag.description CSV import and export endpoints
//
// @tag.name Audit
// @tag.description Audit trail query endpoints
package main
