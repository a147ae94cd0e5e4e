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
	"bytes"
	"time"

	pn532 "github.com/ZaparooProject/go-pn532-i2c"
)

// CardState tracks the tag currently in the field between polling cycles
type CardState struct {
	LastSeenTime time.Time
	LastUID      []byte
	Present      bool
}

// Observe records the outcome of a successful poll. It reports whether the
// tag is new (not the one already present) and whether a previously
// present tag has gone.
func (cs *CardState) Observe(tag *pn532.TagRecord, now time.Time) (isNew, removed bool) {
	if tag == nil {
		removed = cs.Present
		cs.Present = false
		cs.LastUID = nil
		return false, removed
	}

	isNew = !cs.Present || !bytes.Equal(cs.LastUID, tag.UID)
	removed = cs.Present && isNew
	cs.Present = true
	cs.LastUID = append(cs.LastUID[:0], tag.UID...)
	cs.LastSeenTime = now
	return isNew, removed
}
