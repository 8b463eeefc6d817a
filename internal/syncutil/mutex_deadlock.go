//go:build deadlock

// Package syncutil provides mutex types with optional deadlock detection.
// This file is compiled when building with -tags=deadlock and swaps in
// github.com/sasha-s/go-deadlock for lock-ordering diagnostics.
package syncutil

import deadlock "github.com/sasha-s/go-deadlock"

// Mutex wraps deadlock.Mutex for deadlock detection.
type Mutex struct {
	deadlock.Mutex
}

// RWMutex wraps deadlock.RWMutex for deadlock detection.
type RWMutex struct {
	deadlock.RWMutex
}
