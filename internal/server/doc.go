// Package server exposes the analysis pipeline over HTTP. It accepts
// multipart uploads on /api/v1/analyze and serves health, configuration,
// statistics and Prometheus metrics endpoints.
package server
