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

// Package spi provides the SPI register bus implementation for the MFRC522
package spi

import (
	"fmt"
	"time"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"github.com/ZaparooProject/go-mfrc522/internal/syncutil"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const (
	// directionRead is ORed into the address byte for register reads.
	// Register addresses occupy bits 6..1; bit 0 is unused (datasheet
	// section 8.1.2.3).
	directionRead = 0x80

	// Default SPI settings: the chip tops out at 10 MHz, 1 MHz is the
	// conservative rate the reference bring-up uses.
	defaultFreq = 1 * physic.MegaHertz
	busMode     = spi.Mode0 // CPOL=0, CPHA=0, MSB first

	// csSettleTime is the minimum delay after asserting and before
	// deasserting chip-select, covering the chip's setup/hold timing.
	csSettleTime = 2 * time.Microsecond

	// resetPulseTime is how long the hardware reset line is held low.
	resetPulseTime = 50 * time.Millisecond
)

// Config selects the SPI port and control lines for a transport.
type Config struct {
	// Port is the SPI port name, e.g. "/dev/spidev0.0" ("" for the
	// first available port).
	Port string
	// CSPin is the GPIO name of the chip-select line (active low).
	CSPin string
	// ResetPin is the GPIO name of the hardware reset line (active
	// low). Optional; when set, the chip is reset on open.
	ResetPin string
}

// Transport implements the mfrc522.RegisterBus interface for SPI
// communication. Chip-select is driven manually so each register access
// owns the bus for exactly one assert/transfer/deassert bracket.
type Transport struct {
	port     spi.PortCloser
	conn     spi.Conn
	cs       gpio.PinIO
	portName string
	mu       syncutil.Mutex
	closed   bool
}

// New creates a new SPI transport and resets the chip if a reset line
// is configured.
func New(cfg Config) (*Transport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	port, err := spireg.Open(cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %q: %w", cfg.Port, err)
	}

	// Chip-select is bracketed manually around each transfer, so the
	// port's own CS handling is disabled.
	conn, err := port.Connect(defaultFreq, busMode|spi.NoCS, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to connect SPI: %w", err)
	}

	cs := gpioreg.ByName(cfg.CSPin)
	if cs == nil {
		_ = port.Close()
		return nil, fmt.Errorf("chip-select pin %q not found", cfg.CSPin)
	}
	if err := cs.Out(gpio.High); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to release chip-select: %w", err)
	}

	if cfg.ResetPin != "" {
		if err := pulseReset(cfg.ResetPin); err != nil {
			_ = port.Close()
			return nil, err
		}
	}

	t := newTransport(conn, cs, cfg.Port)
	t.port = port
	return t, nil
}

// newTransport wires a transport from its parts. Split out so tests can
// substitute a fake connection and pin.
func newTransport(conn spi.Conn, cs gpio.PinIO, portName string) *Transport {
	return &Transport{
		conn:     conn,
		cs:       cs,
		portName: portName,
	}
}

// pulseReset pulses the hardware reset line low, then waits for the
// chip to come back up.
func pulseReset(pinName string) error {
	reset := gpioreg.ByName(pinName)
	if reset == nil {
		return fmt.Errorf("reset pin %q not found", pinName)
	}
	if err := reset.Out(gpio.Low); err != nil {
		return fmt.Errorf("failed to assert reset: %w", err)
	}
	time.Sleep(resetPulseTime)
	if err := reset.Out(gpio.High); err != nil {
		return fmt.Errorf("failed to release reset: %w", err)
	}
	time.Sleep(mfrc522.ResetSettleTime)
	return nil
}

// WriteRegister implements mfrc522.RegisterBus. The two-byte frame
// [reg<<1, value] is sent inside a single chip-select bracket. The chip
// gives no acknowledgement for writes.
func (t *Transport) WriteRegister(reg mfrc522.Register, value byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	release, err := t.acquire("WriteRegister")
	if err != nil {
		return err
	}
	defer release()

	frame := [2]byte{byte(reg) << 1, value}
	if err := t.conn.Tx(frame[:], nil); err != nil {
		return mfrc522.NewBusWriteError("WriteRegister", t.portName)
	}
	return nil
}

// ReadRegister implements mfrc522.RegisterBus. The address byte
// [0x80 | reg<<1] is sent and the response byte is clocked in on the
// second word of the same full-duplex transfer.
func (t *Transport) ReadRegister(reg mfrc522.Register) (byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	release, err := t.acquire("ReadRegister")
	if err != nil {
		return 0, err
	}
	defer release()

	frame := [2]byte{directionRead | byte(reg)<<1, 0x00}
	var resp [2]byte
	if err := t.conn.Tx(frame[:], resp[:]); err != nil {
		return 0, mfrc522.NewBusReadError("ReadRegister", t.portName)
	}
	return resp[1], nil
}

// acquire asserts chip-select for one logical transfer and returns the
// release function. The caller must defer the release so the line is
// deasserted on every exit path.
func (t *Transport) acquire(op string) (func(), error) {
	if t.closed {
		return nil, mfrc522.NewBusClosedError(op, t.portName)
	}
	if err := t.cs.Out(gpio.Low); err != nil {
		return nil, mfrc522.NewBusWriteError(op, t.portName)
	}
	time.Sleep(csSettleTime)
	return func() {
		time.Sleep(csSettleTime)
		_ = t.cs.Out(gpio.High)
	}, nil
}

// Close releases the chip-select line and closes the SPI port.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	_ = t.cs.Out(gpio.High)
	if t.port != nil {
		if err := t.port.Close(); err != nil {
			return fmt.Errorf("SPI close failed: %w", err)
		}
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
	return mfrc522.BusSPI
}
