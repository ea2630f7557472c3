// Package api hosts the read-only HTTP server, middleware, and JSON handlers
// over the scraper. Notable routes:
//   - GET /healthz / readyz for probes.
//   - GET /metrics for Prometheus scraping.
//   - GET /v1/players/{id} and /v1/players/{id}/gamelogs/{season}.
//   - GET /v1/teams/{code} and /v1/teams/{code}/rosters/{year}.
//   - GET /v1/drafts/{year}, /v1/boxscores/{game_id} and /v1/search.
package api
