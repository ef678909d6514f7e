// Package http implements the local API of the sync daemon.
//
// It exposes the sync status read-model, the coordinator controls (retry,
// cancel, dismiss), held conflicts and their manual resolution, local event
// capture and the host connectivity signal. Request tracing, access logging,
// response compression and optional HMAC signing are handled here before
// requests reach the service layer.
package http
