// go-pn532-i2c
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-pn532-i2c.
//
// go-pn532-i2c is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-pn532-i2c is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-pn532-i2c; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package polling

import (
	"testing"
	"time"

	pn532 "github.com/ZaparooProject/go-pn532-i2c"
	"github.com/stretchr/testify/assert"
)

func TestCardState_Observe(t *testing.T) {
	t.Parallel()
	now := time.Now()
	tagA := &pn532.TagRecord{UID: []byte{0xDE, 0xAD, 0xBE, 0xEF}}
	tagB := &pn532.TagRecord{UID: []byte{0x04, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66}}

	steps := []struct {
		tag         *pn532.TagRecord
		name        string
		wantNew     bool
		wantRemoved bool
		wantPresent bool
	}{
		{name: "empty field", tag: nil},
		{name: "tag arrives", tag: tagA, wantNew: true, wantPresent: true},
		{name: "same tag again", tag: tagA, wantPresent: true},
		{name: "tag swapped", tag: tagB, wantNew: true, wantRemoved: true, wantPresent: true},
		{name: "tag removed", tag: nil, wantRemoved: true},
		{name: "still empty", tag: nil},
		{name: "first tag back", tag: tagA, wantNew: true, wantPresent: true},
	}

	// steps depend on each other, so they run in order
	var state CardState
	for i, step := range steps {
		isNew, removed := state.Observe(step.tag, now.Add(time.Duration(i)*time.Second))
		assert.Equal(t, step.wantNew, isNew, step.name)
		assert.Equal(t, step.wantRemoved, removed, step.name)
		assert.Equal(t, step.wantPresent, state.Present, step.name)
	}
	assert.Equal(t, tagA.UID, state.LastUID)
	assert.Equal(t, now.Add(6*time.Second), state.LastSeenTime)
}

func TestCardState_KeepsOwnUIDCopy(t *testing.T) {
	t.Parallel()
	tag := &pn532.TagRecord{UID: []byte{0x01, 0x02, 0x03, 0x04}}

	var state CardState
	state.Observe(tag, time.Now())
	tag.UID[0] = 0xFF

	isNew, _ := state.Observe(&pn532.TagRecord{UID: []byte{0x01, 0x02, 0x03, 0x04}}, time.Now())
	assert.False(t, isNew)
}
