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

import "fmt"

// Register identifies an MFRC522 control or status register by its raw
// 7-bit address from the datasheet (section 9.2). The direction bit and
// address shift required by the serial frame format are applied inside
// the bus implementation; callers never build frames themselves.
type Register byte

// Registers used by the driver.
const (
	// RegCommand starts and stops chip commands.
	RegCommand Register = 0x01
	// RegFIFOData is the input/output port of the 64-byte FIFO buffer.
	RegFIFOData Register = 0x09
	// RegFIFOLevel reports the number of bytes stored in the FIFO.
	// Writing with the flush bit set discards the FIFO contents.
	RegFIFOLevel Register = 0x0A
	// RegAutoTest selects the chip's self-test mode.
	RegAutoTest Register = 0x36
	// RegVersion holds the chip hardware revision.
	RegVersion Register = 0x37
)

// String returns the datasheet name of the register.
func (r Register) String() string {
	switch r {
	case RegCommand:
		return "CommandReg"
	case RegFIFOData:
		return "FIFODataReg"
	case RegFIFOLevel:
		return "FIFOLevelReg"
	case RegAutoTest:
		return "AutoTestReg"
	case RegVersion:
		return "VersionReg"
	default:
		return fmt.Sprintf("Reg(0x%02X)", byte(r))
	}
}

// Command is an opcode written to RegCommand to start a chip action
// (datasheet section 10.3). Opaque to the bus layer.
type Command byte

// Commands used by the self-test procedure.
const (
	// CmdIdle cancels the current command.
	CmdIdle Command = 0x00
	// CmdMem transfers 25 bytes from the FIFO to the internal buffer.
	CmdMem Command = 0x01
	// CmdCalcCRC activates the CRC coprocessor, or performs the digital
	// self test when self-test mode is enabled in RegAutoTest.
	CmdCalcCRC Command = 0x03
	// CmdSoftReset resets the chip.
	CmdSoftReset Command = 0x0F
)

// String returns the datasheet name of the command.
func (c Command) String() string {
	switch c {
	case CmdIdle:
		return "Idle"
	case CmdMem:
		return "Mem"
	case CmdCalcCRC:
		return "CalcCRC"
	case CmdSoftReset:
		return "SoftReset"
	default:
		return fmt.Sprintf("Cmd(0x%02X)", byte(c))
	}
}

// Register values fixed by the chip's documented self-test procedure.
const (
	// fifoFlushBit discards the FIFO contents when written to RegFIFOLevel.
	fifoFlushBit = 0x80
	// fifoLevelMask extracts the byte count from a RegFIFOLevel read.
	fifoLevelMask = 0x7F
	// autoTestEnable switches CmdCalcCRC into self-test mode.
	autoTestEnable = 0x09
	// autoTestDisable restores normal CRC operation.
	autoTestDisable = 0x00
)
