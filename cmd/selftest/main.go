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

// Command selftest runs the MFRC522 digital self test and reports the
// result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"github.com/ZaparooProject/go-mfrc522/transport/spi"
	"github.com/ZaparooProject/go-mfrc522/transport/uart"
	"go.bug.st/serial"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

type config struct {
	transport string
	device    string
	csPin     string
	resetPin  string
	timeout   time.Duration
	debug     bool
	list      bool
}

// Package-level flag variables
var (
	flagTransport string
	flagDevice    string
	flagCSPin     string
	flagResetPin  string
	flagTimeout   time.Duration
	flagDebug     bool
	flagList      bool
)

func init() {
	flag.StringVar(&flagTransport, "transport", "spi", "Bus type: spi or uart")
	flag.StringVar(&flagDevice, "device", "", "Port name (first available SPI port if empty)")
	flag.StringVar(&flagCSPin, "cs", "GPIO8", "Chip-select GPIO name (SPI only)")
	flag.StringVar(&flagResetPin, "reset", "", "Hardware reset GPIO name (SPI only, optional)")
	flag.DurationVar(&flagTimeout, "timeout", mfrc522.DefaultSelfTestTimeout, "Self-test completion timeout")
	flag.BoolVar(&flagDebug, "debug", false, "Enable debug output")
	flag.BoolVar(&flagList, "list", false, "List candidate ports and exit")
}

func parseConfig() *config {
	cfg := &config{
		transport: strings.ToLower(flagTransport),
		device:    flagDevice,
		csPin:     flagCSPin,
		resetPin:  flagResetPin,
		timeout:   flagTimeout,
		debug:     flagDebug,
		list:      flagList,
	}

	if cfg.debug {
		mfrc522.SetDebugEnabled(true)
	}

	return cfg
}

func main() {
	flag.Parse()
	os.Exit(run(parseConfig()))
}

func run(cfg *config) int {
	if cfg.list {
		return listPorts()
	}

	bus, err := openBus(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	device, err := mfrc522.New(bus, mfrc522.WithSelfTestTimeout(cfg.timeout))
	if err != nil {
		_ = bus.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = device.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runSelfTest(ctx, device)
}

func runSelfTest(ctx context.Context, device *mfrc522.Device) int {
	version, err := device.Version()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading chip version: %v\n", err)
		return 1
	}
	fmt.Printf("Chip version: %v\n", version)

	result, err := device.SelfTest(ctx)
	if result != nil && len(result.Data) > 0 {
		fmt.Println("Captured output:")
		fmt.Print(hexDump(result.Data))
	}

	switch {
	case err == nil:
		fmt.Println("Self test: PASS")
		return 0
	case errors.Is(err, mfrc522.ErrSelfTestMismatch):
		fmt.Printf("Self test: FAIL (%v)\n", err)
		return 1
	case errors.Is(err, mfrc522.ErrUnknownVersion):
		fmt.Fprintf(os.Stderr, "No reference vector for this chip: %v\n", err)
		return 2
	case errors.Is(err, mfrc522.ErrBusTimeout):
		fmt.Fprintf(os.Stderr, "Chip did not respond: %v\n", err)
		return 2
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
}

// openBus creates the register bus selected by the configuration.
func openBus(cfg *config) (mfrc522.RegisterBus, error) {
	switch cfg.transport {
	case "spi":
		bus, err := spi.New(spi.Config{
			Port:     cfg.device,
			CSPin:    cfg.csPin,
			ResetPin: cfg.resetPin,
		})
		if err != nil {
			return nil, fmt.Errorf("open SPI bus: %w", err)
		}
		return bus, nil
	case "uart":
		if cfg.device == "" {
			return nil, errors.New("uart transport requires -device")
		}
		bus, err := uart.New(cfg.device)
		if err != nil {
			return nil, fmt.Errorf("open UART bus: %w", err)
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.transport)
	}
}

// listPorts prints candidate SPI and serial ports.
func listPorts() int {
	if _, err := host.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Println("SPI ports:")
	for _, ref := range spireg.All() {
		fmt.Printf("  %s\n", ref.Name)
	}

	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing serial ports: %v\n", err)
		return 1
	}
	fmt.Println("Serial ports:")
	for _, port := range ports {
		fmt.Printf("  %s\n", port)
	}
	return 0
}

// hexDump formats bytes as rows of eight, the way the datasheet prints
// the reference vectors.
func hexDump(data []byte) string {
	var sb strings.Builder
	for i, b := range data {
		if i%8 == 0 {
			sb.WriteString("  ")
		}
		fmt.Fprintf(&sb, "%02X", b)
		if (i+1)%8 == 0 || i == len(data)-1 {
			sb.WriteString("\n")
		} else {
			sb.WriteString(" ")
		}
	}
	return sb.String()
}
