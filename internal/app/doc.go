// Package app contains the core application logic. It loads sheets into an
// attribute store and exposes the store through one-shot evaluation, order
// inspection and a long-running HTTP server, decoupled from any specific
// entrypoint like a CLI.
package app
