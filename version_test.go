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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfTestReferenceKnownVersions(t *testing.T) {
	t.Parallel()

	v1, err := SelfTestReference(Version1)
	require.NoError(t, err)
	require.Len(t, v1, SelfTestLength)
	assert.Equal(t, byte(0x00), v1[0])
	assert.Equal(t, byte(0xC6), v1[1])
	assert.Equal(t, byte(0x79), v1[63])

	v2, err := SelfTestReference(Version2)
	require.NoError(t, err)
	require.Len(t, v2, SelfTestLength)
	assert.Equal(t, byte(0x00), v2[0])
	assert.Equal(t, byte(0xEB), v2[1])
	assert.Equal(t, byte(0x2F), v2[63])

	assert.NotEqual(t, v1, v2, "each revision has its own vector")
}

func TestSelfTestReferenceUnknownVersion(t *testing.T) {
	t.Parallel()

	_, err := SelfTestReference(Version(0x88))
	require.ErrorIs(t, err, ErrUnknownVersion)
	assert.Contains(t, err.Error(), "0x88")
}

func TestSelfTestReferenceReturnsCopy(t *testing.T) {
	t.Parallel()

	a, err := SelfTestReference(Version1)
	require.NoError(t, err)
	a[0] = 0xFF

	b, err := SelfTestReference(Version1)
	require.NoError(t, err)
	assert.Equal(t, byte(0x00), b[0], "callers must not be able to mutate the table")
}

func TestVersionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.0", Version1.String())
	assert.Equal(t, "2.0", Version2.String())
	assert.Equal(t, "unknown (0xB2)", Version(0xB2).String())
}

func TestVersionKnown(t *testing.T) {
	t.Parallel()

	assert.True(t, Version1.Known())
	assert.True(t, Version2.Known())
	assert.False(t, Version(0x00).Known())
}
