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

import "time"

// Self-test protocol constants fixed by the chip's documented procedure
// (MFRC522 datasheet section 16.1.1). These are not tunable.
const (
	// SelfTestLength is the number of output bytes the self test emits.
	SelfTestLength = 64
	// fifoClearLength is the number of zero bytes written to the FIFO to
	// put the internal buffer into a known state before the test.
	fifoClearLength = 25
)

// Timing constants control settle delays and the bounded FIFO wait.
const (
	// ResetSettleTime is how long the chip needs to complete a soft
	// reset before its registers are valid again.
	ResetSettleTime = 50 * time.Millisecond

	// DefaultSelfTestTimeout bounds the wait for the self test to fill
	// the FIFO. The chip normally completes well under 100ms; an
	// unresponsive chip hits this bound instead of hanging the caller.
	DefaultSelfTestTimeout = 1 * time.Second

	// DefaultPollInterval is the delay between FIFO level reads while
	// waiting for the self test to complete.
	DefaultPollInterval = 2 * time.Millisecond
)
