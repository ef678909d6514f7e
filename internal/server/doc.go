// Package server runs the local API of the sync daemon.
//
// The server is a worker: it serves until its context is done and then
// shuts down gracefully, letting in-flight requests finish.
package server
