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

package mfrc522_test

import (
	"context"
	"testing"
	"time"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	chip "github.com/ZaparooProject/go-mfrc522/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDevice(t *testing.T, sim *chip.Chip) *mfrc522.Device {
	t.Helper()
	device, err := mfrc522.New(sim,
		mfrc522.WithSelfTestTimeout(500*time.Millisecond),
		mfrc522.WithPollInterval(time.Millisecond),
	)
	require.NoError(t, err)
	return device
}

func TestSelfTestPass(t *testing.T) {
	t.Parallel()

	for _, version := range []mfrc522.Version{mfrc522.Version1, mfrc522.Version2} {
		version := version
		t.Run(version.String(), func(t *testing.T) {
			t.Parallel()

			sim := chip.NewChip(version)
			device := newTestDevice(t, sim)

			result, err := device.SelfTest(context.Background())
			require.NoError(t, err)
			require.NotNil(t, result)

			assert.True(t, result.Passed)
			assert.Equal(t, version, result.Version)

			reference, err := mfrc522.SelfTestReference(version)
			require.NoError(t, err)
			assert.Equal(t, reference, result.Data)

			assert.Equal(t, byte(0x00), sim.AutoTest(), "test mode must be disabled after the run")
		})
	}
}

func TestSelfTestMismatchKeepsFullCapture(t *testing.T) {
	t.Parallel()

	sim := chip.NewChip(mfrc522.Version2)
	sim.CorruptByte(37)
	device := newTestDevice(t, sim)

	result, err := device.SelfTest(context.Background())
	require.ErrorIs(t, err, mfrc522.ErrSelfTestMismatch)
	require.NotNil(t, result)

	assert.False(t, result.Passed)
	// No early termination: the chip emits all 64 bytes and all are kept.
	require.Len(t, result.Data, mfrc522.SelfTestLength)

	reference, refErr := mfrc522.SelfTestReference(mfrc522.Version2)
	require.NoError(t, refErr)
	assert.Equal(t, reference[36], result.Data[36])
	assert.NotEqual(t, reference[37], result.Data[37])
	assert.Equal(t, reference[38], result.Data[38])

	assert.Contains(t, err.Error(), "byte 37")
	assert.Equal(t, byte(0x00), sim.AutoTest(), "test mode must be disabled even on mismatch")
}

func TestSelfTestUnknownVersion(t *testing.T) {
	t.Parallel()

	sim := chip.NewChip(mfrc522.Version(0xB2))
	device := newTestDevice(t, sim)

	result, err := device.SelfTest(context.Background())
	require.ErrorIs(t, err, mfrc522.ErrUnknownVersion)
	require.NotNil(t, result)
	assert.False(t, result.Passed)
	assert.Empty(t, result.Data)
	assert.Equal(t, mfrc522.Version(0xB2), result.Version)

	// The sequencer must bail before touching the chip: the only bus
	// traffic is the version read.
	trace := sim.Trace()
	require.Len(t, trace, 1)
	assert.True(t, trace[0].Read)
	assert.Equal(t, mfrc522.RegVersion, trace[0].Reg)
}

func TestSelfTestTimeout(t *testing.T) {
	t.Parallel()

	sim := chip.NewChip(mfrc522.Version1)
	sim.SetNeverReady(true)

	device, err := mfrc522.New(sim,
		mfrc522.WithSelfTestTimeout(30*time.Millisecond),
		mfrc522.WithPollInterval(time.Millisecond),
	)
	require.NoError(t, err)

	start := time.Now()
	result, err := device.SelfTest(context.Background())
	elapsed := time.Since(start)

	require.ErrorIs(t, err, mfrc522.ErrBusTimeout)
	require.NotNil(t, result)
	assert.False(t, result.Passed)
	assert.Empty(t, result.Data)

	// Bounded: well under a second even though the chip never answers.
	// The reset settle interval accounts for most of the elapsed time.
	assert.Less(t, elapsed, 500*time.Millisecond)
	assert.Equal(t, byte(0x00), sim.AutoTest(), "test mode must be disabled on timeout")
}

func TestSelfTestContextCancellation(t *testing.T) {
	t.Parallel()

	sim := chip.NewChip(mfrc522.Version1)
	sim.SetNeverReady(true)

	device, err := mfrc522.New(sim,
		mfrc522.WithSelfTestTimeout(10*time.Second),
		mfrc522.WithPollInterval(time.Millisecond),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = device.SelfTest(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, byte(0x00), sim.AutoTest(), "test mode must be disabled on cancellation")
}

// TestSelfTestTraceShape pins down the exact bus sequence of a full run:
// version read, soft reset, FIFO flush, 25 zero writes, Mem, test
// enable, trigger byte, CalcCRC, level polls, 64 data reads, test
// disable. Any deviation is a protocol regression.
func TestSelfTestTraceShape(t *testing.T) {
	t.Parallel()

	sim := chip.NewChip(mfrc522.Version1)
	sim.SetReadyAfter(2)
	device := newTestDevice(t, sim)

	_, err := device.SelfTest(context.Background())
	require.NoError(t, err)

	trace := sim.Trace()
	require.Len(t, trace, 100)

	i := 0
	expectWrite := func(reg mfrc522.Register, value byte) {
		t.Helper()
		require.False(t, trace[i].Read, "op %d should be a write", i)
		assert.Equal(t, reg, trace[i].Reg, "op %d register", i)
		assert.Equal(t, value, trace[i].Value, "op %d value", i)
		i++
	}
	expectRead := func(reg mfrc522.Register) {
		t.Helper()
		require.True(t, trace[i].Read, "op %d should be a read", i)
		assert.Equal(t, reg, trace[i].Reg, "op %d register", i)
		i++
	}

	expectRead(mfrc522.RegVersion)
	expectWrite(mfrc522.RegCommand, byte(mfrc522.CmdSoftReset))
	expectWrite(mfrc522.RegFIFOLevel, 0x80)
	for i := 0; i < 25; i++ {
		expectWrite(mfrc522.RegFIFOData, 0x00)
	}
	expectWrite(mfrc522.RegCommand, byte(mfrc522.CmdMem))
	expectWrite(mfrc522.RegAutoTest, 0x09)
	expectWrite(mfrc522.RegFIFOData, 0x00)
	expectWrite(mfrc522.RegCommand, byte(mfrc522.CmdCalcCRC))
	for i := 0; i < 3; i++ {
		expectRead(mfrc522.RegFIFOLevel)
	}
	for i := 0; i < 64; i++ {
		expectRead(mfrc522.RegFIFOData)
	}
	expectWrite(mfrc522.RegAutoTest, 0x00)
	assert.Equal(t, len(trace), i)
}

func TestSelfTestVersionReadFailure(t *testing.T) {
	t.Parallel()

	sim := chip.NewChip(mfrc522.Version1)
	require.NoError(t, sim.Close())

	device, err := mfrc522.New(sim)
	require.NoError(t, err)

	_, err = device.SelfTest(context.Background())
	require.ErrorIs(t, err, mfrc522.ErrBusClosed)
}
