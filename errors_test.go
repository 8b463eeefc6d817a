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
	"testing"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "bus timeout retryable", err: ErrBusTimeout, want: true},
		{name: "bus read retryable", err: ErrBusRead, want: true},
		{name: "bus write retryable", err: ErrBusWrite, want: true},
		{name: "bus closed not retryable", err: ErrBusClosed, want: false},
		{name: "mismatch not retryable", err: ErrSelfTestMismatch, want: false},
		{name: "unknown version not retryable", err: ErrUnknownVersion, want: false},
		{
			name: "wrapped timeout error retryable",
			err:  NewTimeoutError("waitSelfTestDone", "spi"),
			want: true,
		},
		{
			name: "wrapped closed error not retryable",
			err:  NewBusClosedError("ReadRegister", "spi"),
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := IsRetryable(tt.err)
			if got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "bus closed fatal", err: ErrBusClosed, want: true},
		{name: "timeout not fatal", err: ErrBusTimeout, want: false},
		{name: "mismatch not fatal", err: ErrSelfTestMismatch, want: false},
		{
			name: "permanent bus error fatal",
			err:  NewInvalidResponseError("WriteRegister", "uart"),
			want: true,
		},
		{
			name: "transient bus error not fatal",
			err:  NewBusReadError("ReadRegister", "spi"),
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := IsFatal(tt.err)
			if got != tt.want {
				t.Errorf("IsFatal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBusErrorFormatting(t *testing.T) {
	t.Parallel()

	withPort := NewTimeoutError("waitSelfTestDone", "/dev/spidev0.0")
	want := "waitSelfTestDone /dev/spidev0.0: bus timeout"
	if got := withPort.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	withoutPort := NewBusWriteError("WriteRegister", "")
	want = "WriteRegister: bus write failed"
	if got := withoutPort.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestBusErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := NewTimeoutError("waitSelfTestDone", "spi")
	if !errors.Is(err, ErrBusTimeout) {
		t.Error("timeout BusError should unwrap to ErrBusTimeout")
	}

	var be *BusError
	if !errors.As(err, &be) {
		t.Fatal("errors.As should find *BusError")
	}
	if be.Type != ErrorTypeTimeout {
		t.Errorf("Type = %v, want ErrorTypeTimeout", be.Type)
	}
	if !be.Retryable {
		t.Error("timeout errors should be retryable")
	}
}
