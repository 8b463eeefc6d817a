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
	"context"
	"errors"
	"fmt"
)

// CardOperations is the capability surface of a companion card-handling
// stack (ISO14443 detection, anticollision and authentication). This
// package only consumes the surface; implementations live elsewhere.
type CardOperations interface {
	// DetectCard reports whether a new card is present in the field.
	DetectCard(ctx context.Context) (bool, error)

	// ReadSerial selects the card in the field and returns its UID.
	ReadSerial(ctx context.Context) ([]byte, error)

	// DumpInfo returns a human-readable dump of the selected card.
	DumpInfo(ctx context.Context) (string, error)
}

// CardReport is passed to the WatchCards callback for each card seen.
type CardReport struct {
	UID  []byte
	Info string
}

// WatchCards drives a card stack in the usual bring-up loop: wait for a
// card, select it, dump it, report it. Runs until the context is
// cancelled, the callback returns false, or an operation fails.
func WatchCards(ctx context.Context, ops CardOperations, report func(CardReport) bool) error {
	if ops == nil {
		return errors.New("card operations cannot be nil")
	}

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("card watch: %w", ctx.Err())
		default:
		}

		present, err := ops.DetectCard(ctx)
		if err != nil {
			return fmt.Errorf("detect card: %w", err)
		}
		if !present {
			continue
		}

		uid, err := ops.ReadSerial(ctx)
		if err != nil {
			return fmt.Errorf("read serial: %w", err)
		}

		info, err := ops.DumpInfo(ctx)
		if err != nil {
			return fmt.Errorf("dump info: %w", err)
		}

		if !report(CardReport{UID: uid, Info: info}) {
			return nil
		}
	}
}
