// Package server exposes a synchronized attribute store over HTTP.
//
// Routes:
//
//	GET    /attributes          list every entry with its state and value
//	GET    /attributes/{name}   read one value
//	PATCH  /attributes          apply a JSON object of assignments as one batch
//	DELETE /attributes/{name}   remove a definition
//	GET    /order?seed=a        recalculation order for the given seeds
//	GET    /health              liveness check
//	GET    /metrics             prometheus metrics, when configured
//
// Errors are returned as JSON objects with an "error" message and a "kind".
package server
