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

// Package testing provides test utilities including a register-level
// MFRC522 simulator.
//
// The Chip type implements mfrc522.RegisterBus and models the subset of
// chip behavior the digital self test exercises: the FIFO buffer, the
// Mem and CalcCRC commands, the auto-test register and the version
// register (MFRC522 datasheet sections 9.3.1 and 16.1.1).
package testing

import (
	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"github.com/ZaparooProject/go-mfrc522/internal/syncutil"
)

// Op records one register access observed by the simulated chip.
// For reads, Value is the byte the chip returned.
type Op struct {
	Reg   mfrc522.Register
	Value byte
	Read  bool
}

// Chip simulates the MFRC522 register interface closely enough to run
// the digital self test against a scripted outcome. Every register
// access is recorded so tests can assert the exact bus trace.
type Chip struct {
	fifo       []byte
	trace      []Op
	output     [mfrc522.SelfTestLength]byte
	mu         syncutil.Mutex
	version    byte
	autoTest   byte
	pollsLeft  int
	readyAfter int
	running    bool
	neverReady bool
	closed     bool
}

// NewChip creates a simulated chip reporting the given hardware
// revision. When the revision has a golden vector, the simulated self
// test produces exactly that vector.
func NewChip(version mfrc522.Version) *Chip {
	c := &Chip{
		version:    byte(version),
		readyAfter: 2,
	}
	if reference, err := mfrc522.SelfTestReference(version); err == nil {
		copy(c.output[:], reference)
	}
	return c
}

// SetOutput overrides the bytes the simulated self test produces.
func (c *Chip) SetOutput(data []byte) {
	c.mu.Lock()
	copy(c.output[:], data)
	c.mu.Unlock()
}

// CorruptByte flips the output byte at the given position.
func (c *Chip) CorruptByte(i int) {
	c.mu.Lock()
	c.output[i] ^= 0xFF
	c.mu.Unlock()
}

// SetReadyAfter sets how many FIFO level reads report the test still
// running before the output appears.
func (c *Chip) SetReadyAfter(polls int) {
	c.mu.Lock()
	c.readyAfter = polls
	c.mu.Unlock()
}

// SetNeverReady makes the simulated self test never complete, so the
// FIFO level stays at zero for as long as the sequencer polls.
func (c *Chip) SetNeverReady(never bool) {
	c.mu.Lock()
	c.neverReady = never
	c.mu.Unlock()
}

// WriteRegister implements mfrc522.RegisterBus.
func (c *Chip) WriteRegister(reg mfrc522.Register, value byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return mfrc522.NewBusClosedError("WriteRegister", "chip-sim")
	}
	c.trace = append(c.trace, Op{Reg: reg, Value: value})

	switch reg {
	case mfrc522.RegCommand:
		c.execute(mfrc522.Command(value))
	case mfrc522.RegFIFOLevel:
		if value&0x80 != 0 {
			c.fifo = nil
		}
	case mfrc522.RegFIFOData:
		if len(c.fifo) < mfrc522.SelfTestLength {
			c.fifo = append(c.fifo, value)
		}
	case mfrc522.RegAutoTest:
		c.autoTest = value
	case mfrc522.RegVersion:
		// read-only
	}
	return nil
}

// execute models the commands the self test uses.
func (c *Chip) execute(cmd mfrc522.Command) {
	switch cmd {
	case mfrc522.CmdSoftReset:
		c.fifo = nil
		c.autoTest = 0
		c.running = false
	case mfrc522.CmdMem:
		// Transfer FIFO contents to the internal buffer.
		c.fifo = nil
	case mfrc522.CmdCalcCRC:
		if c.autoTest == 0x09 {
			c.running = true
			c.pollsLeft = c.readyAfter
		}
	case mfrc522.CmdIdle:
		c.running = false
	}
}

// ReadRegister implements mfrc522.RegisterBus.
func (c *Chip) ReadRegister(reg mfrc522.Register) (byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, mfrc522.NewBusClosedError("ReadRegister", "chip-sim")
	}

	var value byte
	switch reg {
	case mfrc522.RegVersion:
		value = c.version
	case mfrc522.RegFIFOLevel:
		value = c.readFIFOLevel()
	case mfrc522.RegFIFOData:
		if len(c.fifo) > 0 {
			value = c.fifo[0]
			c.fifo = c.fifo[1:]
		}
	case mfrc522.RegAutoTest:
		value = c.autoTest
	case mfrc522.RegCommand:
		// idle
	}

	c.trace = append(c.trace, Op{Reg: reg, Value: value, Read: true})
	return value, nil
}

// readFIFOLevel reports the FIFO fill level, completing a running self
// test once the configured number of polls has elapsed.
func (c *Chip) readFIFOLevel() byte {
	if c.running {
		if c.neverReady {
			return 0
		}
		if c.pollsLeft > 0 {
			c.pollsLeft--
			return byte(len(c.fifo))
		}
		c.running = false
		c.fifo = append([]byte(nil), c.output[:]...)
	}
	return byte(len(c.fifo))
}

// Close implements mfrc522.RegisterBus.
func (c *Chip) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

// IsConnected implements mfrc522.RegisterBus.
func (c *Chip) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// Type implements mfrc522.RegisterBus.
func (*Chip) Type() mfrc522.BusType {
	return mfrc522.BusMock
}

// Trace returns a copy of the register accesses observed so far.
func (c *Chip) Trace() []Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	trace := make([]Op, len(c.trace))
	copy(trace, c.trace)
	return trace
}

// ClearTrace discards the recorded accesses.
func (c *Chip) ClearTrace() {
	c.mu.Lock()
	c.trace = nil
	c.mu.Unlock()
}

// AutoTest returns the current auto-test register value.
func (c *Chip) AutoTest() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoTest
}

// FIFOLen returns the number of bytes currently in the FIFO.
func (c *Chip) FIFOLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.fifo)
}
