// Copyright 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mfrc522

import (
	"errors"
	"fmt"
)

// Error categories for better error handling and retry logic
var (
	// Bus errors - potentially retryable
	ErrBusWrite   = errors.New("bus write failed")
	ErrBusRead    = errors.New("bus read failed")
	ErrBusClosed  = errors.New("bus is closed")
	ErrBusTimeout = errors.New("bus timeout")

	// Protocol errors
	ErrInvalidResponse = errors.New("invalid response from chip")

	// Self-test errors - reportable, never fatal to the process
	ErrSelfTestMismatch = errors.New("self-test output mismatch")
	ErrUnknownVersion   = errors.New("unknown chip version")
)

// ErrorType represents the category of error for retry logic
type ErrorType int

const (
	// ErrorTypeTransient indicates a potentially retryable error
	ErrorTypeTransient ErrorType = iota
	// ErrorTypePermanent indicates a non-retryable error
	ErrorTypePermanent
	// ErrorTypeTimeout indicates a timeout error (special handling)
	ErrorTypeTimeout
)

// BusError wraps bus-level errors with additional context
type BusError struct {
	Err       error     // Underlying error
	Op        string    // Operation that failed
	Port      string    // Port or bus identifier
	Type      ErrorType // Error category
	Retryable bool      // Whether the error is retryable
}

func (e *BusError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is potentially retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var be *BusError
	if errors.As(err, &be) {
		return be.Retryable
	}

	switch {
	case errors.Is(err, ErrBusTimeout),
		errors.Is(err, ErrBusRead),
		errors.Is(err, ErrBusWrite):
		return true
	default:
		return false
	}
}

// IsFatal returns true if the error indicates the bus is gone and no
// further operations should be attempted. This is distinct from
// IsRetryable which indicates whether a single operation can be retried.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var be *BusError
	if errors.As(err, &be) {
		return be.Type == ErrorTypePermanent
	}

	return errors.Is(err, ErrBusClosed)
}

// Error constructors for consistent error creation

// NewBusError creates a standard bus error with consistent formatting
func NewBusError(op, port string, err error, errType ErrorType) *BusError {
	return &BusError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType == ErrorTypeTransient || errType == ErrorTypeTimeout,
	}
}

// NewTimeoutError creates a timeout error for bus operations
func NewTimeoutError(op, port string) *BusError {
	return NewBusError(op, port, ErrBusTimeout, ErrorTypeTimeout)
}

// NewBusWriteError creates a write error (transient)
func NewBusWriteError(op, port string) *BusError {
	return NewBusError(op, port, ErrBusWrite, ErrorTypeTransient)
}

// NewBusReadError creates a read error (transient)
func NewBusReadError(op, port string) *BusError {
	return NewBusError(op, port, ErrBusRead, ErrorTypeTransient)
}

// NewBusClosedError creates a closed-bus error (permanent)
func NewBusClosedError(op, port string) *BusError {
	return NewBusError(op, port, ErrBusClosed, ErrorTypePermanent)
}

// NewInvalidResponseError creates an invalid response error (permanent)
func NewInvalidResponseError(op, port string) *BusError {
	return NewBusError(op, port, ErrInvalidResponse, ErrorTypePermanent)
}
