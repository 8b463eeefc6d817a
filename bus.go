// go-mfrc522
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-mfrc522.
//
// go-mfrc522 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-mfrc522 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-mfrc522; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package mfrc522

import (
	"github.com/ZaparooProject/go-mfrc522/internal/syncutil"
)

// RegisterBus is the single-register access primitive used to drive the
// MFRC522. Implementations own the frame format and the chip-select (or
// equivalent) bracketing for each transfer. A transfer is atomic: the bus
// must never interleave two logical operations, and bus ownership must be
// released on every exit path.
//
// This can be implemented by SPI or UART backends.
type RegisterBus interface {
	// WriteRegister writes one value to a chip register.
	WriteRegister(reg Register, value byte) error

	// ReadRegister reads one value from a chip register.
	ReadRegister(reg Register) (byte, error)

	// Close releases the bus.
	Close() error

	// IsConnected returns true if the bus is usable.
	IsConnected() bool

	// Type returns the bus type.
	Type() BusType
}

// BusType represents the type of register bus.
type BusType string

const (
	// BusSPI represents the chip-select-gated SPI interface.
	BusSPI BusType = "spi"
	// BusUART represents the chip's serial UART interface.
	BusUART BusType = "uart"
	// BusMock represents a mock bus for testing.
	BusMock BusType = "mock"
)

// RegisterWrite records one write observed by the MockBus.
type RegisterWrite struct {
	Reg   Register
	Value byte
}

// MockBus provides a mock implementation of RegisterBus for testing.
// Reads are scripted per register; writes are recorded in order.
type MockBus struct {
	reads      map[Register][]byte
	readErrs   map[Register]error
	writeErrs  map[Register]error
	readCounts map[Register]int
	writes     []RegisterWrite
	mu         syncutil.RWMutex
	connected  bool
}

// NewMockBus creates a new mock bus.
func NewMockBus() *MockBus {
	return &MockBus{
		connected:  true,
		reads:      make(map[Register][]byte),
		readErrs:   make(map[Register]error),
		writeErrs:  make(map[Register]error),
		readCounts: make(map[Register]int),
	}
}

// WriteRegister implements RegisterBus.
func (m *MockBus) WriteRegister(reg Register, value byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return NewBusClosedError("WriteRegister", string(BusMock))
	}
	if err, exists := m.writeErrs[reg]; exists {
		return err
	}
	m.writes = append(m.writes, RegisterWrite{Reg: reg, Value: value})
	return nil
}

// ReadRegister implements RegisterBus. Scripted values for the register
// are consumed in order; the last value repeats once the script runs out.
func (m *MockBus) ReadRegister(reg Register) (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return 0, NewBusClosedError("ReadRegister", string(BusMock))
	}
	m.readCounts[reg]++
	if err, exists := m.readErrs[reg]; exists {
		return 0, err
	}

	queue := m.reads[reg]
	if len(queue) == 0 {
		return 0, nil
	}
	value := queue[0]
	if len(queue) > 1 {
		m.reads[reg] = queue[1:]
	}
	return value, nil
}

// Close implements RegisterBus.
func (m *MockBus) Close() error {
	m.mu.Lock()
	m.connected = false
	m.mu.Unlock()
	return nil
}

// IsConnected implements RegisterBus.
func (m *MockBus) IsConnected() bool {
	m.mu.RLock()
	connected := m.connected
	m.mu.RUnlock()
	return connected
}

// Type implements RegisterBus.
func (*MockBus) Type() BusType {
	return BusMock
}

// Test helper methods

// SetReadResponse scripts the values returned by reads of a register.
func (m *MockBus) SetReadResponse(reg Register, values ...byte) {
	m.mu.Lock()
	m.reads[reg] = values
	m.mu.Unlock()
}

// SetReadError configures an error to be returned for reads of a register.
func (m *MockBus) SetReadError(reg Register, err error) {
	m.mu.Lock()
	m.readErrs[reg] = err
	m.mu.Unlock()
}

// SetWriteError configures an error to be returned for writes to a register.
func (m *MockBus) SetWriteError(reg Register, err error) {
	m.mu.Lock()
	m.writeErrs[reg] = err
	m.mu.Unlock()
}

// Writes returns the writes observed so far, in order.
func (m *MockBus) Writes() []RegisterWrite {
	m.mu.RLock()
	defer m.mu.RUnlock()
	writes := make([]RegisterWrite, len(m.writes))
	copy(writes, m.writes)
	return writes
}

// ReadCount returns how many times a register was read.
func (m *MockBus) ReadCount(reg Register) int {
	m.mu.RLock()
	count := m.readCounts[reg]
	m.mu.RUnlock()
	return count
}

// Reset clears recorded traffic and reconnects the bus.
func (m *MockBus) Reset() {
	m.mu.Lock()
	m.writes = nil
	m.readCounts = make(map[Register]int)
	m.connected = true
	m.mu.Unlock()
}
