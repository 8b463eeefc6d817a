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
	"errors"
	"fmt"
	"time"
)

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// SelfTestTimeout bounds the wait for the self test to complete.
	SelfTestTimeout time.Duration
	// PollInterval is the delay between FIFO level reads during the wait.
	PollInterval time.Duration
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		SelfTestTimeout: DefaultSelfTestTimeout,
		PollInterval:    DefaultPollInterval,
	}
}

// Device represents an MFRC522 reader chip on a register bus.
//
// Thread Safety: Device is NOT thread-safe. All methods must be called
// from a single goroutine or protected with external synchronization.
// The register bus is a single shared resource; each bus operation owns
// it for exactly one transfer.
type Device struct {
	bus    RegisterBus
	config *DeviceConfig
}

// Option configures a Device during New
type Option func(*Device) error

// WithConfig sets the full device configuration
func WithConfig(config *DeviceConfig) Option {
	return func(d *Device) error {
		if config == nil {
			return errors.New("config cannot be nil")
		}
		d.config = config
		return nil
	}
}

// WithSelfTestTimeout bounds the self-test FIFO wait
func WithSelfTestTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout <= 0 {
			return errors.New("self-test timeout must be positive")
		}
		d.config.SelfTestTimeout = timeout
		return nil
	}
}

// WithPollInterval sets the delay between FIFO level reads
func WithPollInterval(interval time.Duration) Option {
	return func(d *Device) error {
		if interval <= 0 {
			return errors.New("poll interval must be positive")
		}
		d.config.PollInterval = interval
		return nil
	}
}

// New creates a new MFRC522 device on the given register bus
func New(bus RegisterBus, opts ...Option) (*Device, error) {
	if bus == nil {
		return nil, errors.New("bus cannot be nil")
	}

	device := &Device{
		bus:    bus,
		config: DefaultDeviceConfig(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	return device, nil
}

// Reset performs a soft reset and waits for the chip to settle.
// Register state read before the settle interval elapses is stale.
func (d *Device) Reset() error {
	if err := d.command(CmdSoftReset); err != nil {
		return fmt.Errorf("soft reset: %w", err)
	}
	time.Sleep(ResetSettleTime)
	Debugln("soft reset complete")
	return nil
}

// Version reads the chip hardware revision from the version register
func (d *Device) Version() (Version, error) {
	value, err := d.bus.ReadRegister(RegVersion)
	if err != nil {
		return 0, fmt.Errorf("read version register: %w", err)
	}
	return Version(value), nil
}

// Close releases the underlying bus
func (d *Device) Close() error {
	if err := d.bus.Close(); err != nil {
		return fmt.Errorf("close bus: %w", err)
	}
	return nil
}

// command writes an opcode to the command register
func (d *Device) command(cmd Command) error {
	if err := d.bus.WriteRegister(RegCommand, byte(cmd)); err != nil {
		return fmt.Errorf("command %v: %w", cmd, err)
	}
	return nil
}

// flushFIFO discards any stale FIFO contents
func (d *Device) flushFIFO() error {
	if err := d.bus.WriteRegister(RegFIFOLevel, fifoFlushBit); err != nil {
		return fmt.Errorf("flush FIFO: %w", err)
	}
	return nil
}

// fifoLevel reads the current number of bytes in the FIFO
func (d *Device) fifoLevel() (int, error) {
	value, err := d.bus.ReadRegister(RegFIFOLevel)
	if err != nil {
		return 0, fmt.Errorf("read FIFO level: %w", err)
	}
	return int(value & fifoLevelMask), nil
}
