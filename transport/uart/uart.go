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

// Package uart provides the UART register bus implementation for the MFRC522
package uart

import (
	"errors"
	"fmt"
	"io"
	"time"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"github.com/ZaparooProject/go-mfrc522/internal/syncutil"
	"go.bug.st/serial"
)

// UART frame format (datasheet section 8.1.3): the address byte carries
// the direction in bit 7 and the register address in bits 5..0. A write
// is acknowledged by the chip echoing the address byte back before the
// data byte is sent; a read returns the register value directly.
const (
	directionRead = 0x80
	addressMask   = 0x3F

	// defaultBaudRate is the chip's power-on UART speed.
	defaultBaudRate = 9600

	// readTimeout bounds each single-byte response wait.
	readTimeout = 50 * time.Millisecond
)

// serialPort is the subset of serial.Port the transport needs. Narrowed
// for testability.
type serialPort interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

// Transport implements the mfrc522.RegisterBus interface for UART
// communication.
type Transport struct {
	port     serialPort
	portName string
	mu       syncutil.Mutex
	closed   bool
}

// New creates a new UART transport.
func New(portName string) (*Transport, error) {
	port, err := serial.Open(portName, &serial.Mode{
		BaudRate: defaultBaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open UART port %s: %w", portName, err)
	}

	if err := port.SetReadTimeout(readTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to set UART read timeout: %w", err)
	}

	return newTransport(port, portName), nil
}

// newTransport wires a transport from its parts. Split out so tests can
// substitute a fake port.
func newTransport(port serialPort, portName string) *Transport {
	return &Transport{
		port:     port,
		portName: portName,
	}
}

// WriteRegister implements mfrc522.RegisterBus. The chip acknowledges
// the address byte by echoing it before the value is sent.
func (t *Transport) WriteRegister(reg mfrc522.Register, value byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return mfrc522.NewBusClosedError("WriteRegister", t.portName)
	}

	addr := byte(reg) & addressMask
	if _, err := t.port.Write([]byte{addr}); err != nil {
		return mfrc522.NewBusWriteError("WriteRegister", t.portName)
	}

	echo, err := t.readByte()
	if err != nil {
		return t.classifyReadError("WriteRegister", err)
	}
	if echo != addr {
		// Resync: discard whatever the chip is mid-way through sending.
		_ = t.port.ResetInputBuffer()
		return mfrc522.NewInvalidResponseError("WriteRegister", t.portName)
	}

	if _, err := t.port.Write([]byte{value}); err != nil {
		return mfrc522.NewBusWriteError("WriteRegister", t.portName)
	}
	return nil
}

// ReadRegister implements mfrc522.RegisterBus.
func (t *Transport) ReadRegister(reg mfrc522.Register) (byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, mfrc522.NewBusClosedError("ReadRegister", t.portName)
	}

	addr := directionRead | (byte(reg) & addressMask)
	if _, err := t.port.Write([]byte{addr}); err != nil {
		return 0, mfrc522.NewBusWriteError("ReadRegister", t.portName)
	}

	value, err := t.readByte()
	if err != nil {
		return 0, t.classifyReadError("ReadRegister", err)
	}
	return value, nil
}

// classifyReadError maps a readByte failure onto the bus error taxonomy:
// an exhausted wait is a timeout, anything else is a read failure.
func (t *Transport) classifyReadError(op string, err error) error {
	if errors.Is(err, mfrc522.ErrBusTimeout) {
		return mfrc522.NewTimeoutError(op, t.portName)
	}
	return mfrc522.NewBusReadError(op, t.portName)
}

// readByte reads exactly one response byte. serial reads return zero
// bytes on timeout rather than an error, so an empty read is a timeout.
func (t *Transport) readByte() (byte, error) {
	var buf [1]byte
	n, err := t.port.Read(buf[:])
	if err != nil {
		return 0, fmt.Errorf("UART read failed: %w", err)
	}
	if n == 0 {
		return 0, mfrc522.ErrBusTimeout
	}
	return buf[0], nil
}

// Close closes the transport connection.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("UART close failed: %w", err)
	}
	return nil
}

// IsConnected returns true if the transport is usable.
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed
}

// Type returns the bus type.
func (*Transport) Type() mfrc522.BusType {
	return mfrc522.BusUART
}
