// Package feed subscribes a store to a socket.io event stream. Every event
// carries a JSON object of assignments which is applied as one Set batch;
// the outcome is emitted back on "<event>_result".
package feed
