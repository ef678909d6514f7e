// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the sync daemon runtime.
//
// It wires the local event store, the remote adapter, the sync coordinator,
// the network monitor, the background scheduler and the local API into a
// single process lifecycle.
package client
