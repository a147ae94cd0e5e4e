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

package pn532

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// TagType is the tag family as derived from its SEL_RES (SAK) byte.
type TagType string

// Tag types
const (
	TagTypeMIFARE1K   TagType = "MIFARE Classic 1K"
	TagTypeMIFARE4K   TagType = "MIFARE Classic 4K"
	TagTypeMIFAREMini TagType = "MIFARE Mini"
	TagTypeNTAG       TagType = "NTAG/MIFARE Ultralight"
	TagTypeISO14443_4 TagType = "ISO14443-4"
	TagTypeUnknown    TagType = "Unknown"
)

// Offsets in an InListPassiveTarget response, echo byte at 0
const (
	offTargetCount = 1
	offTargetNum   = 2
	offSensRes     = 3
	offSelRes      = 5
	offUIDLength   = 6
	offUID         = 7
)

// TagRecord describes the tag found by one InListPassiveTarget exchange.
type TagRecord struct {
	UID          []byte
	SensRes      [2]byte
	TargetCount  byte
	TargetNumber byte
	SelRes       byte
}

// ParseTagRecord extracts the first target from an InListPassiveTarget
// response payload. A target count of zero means no tag is present and
// yields a nil record without error.
func ParseTagRecord(resp []byte) (*TagRecord, error) {
	if len(resp) <= offTargetCount || resp[0] != cmdInListPassiveTarget+1 {
		return nil, fmt.Errorf("not an InListPassiveTarget response: % X: %w", resp, ErrUnexpectedResponse)
	}

	count := resp[offTargetCount]
	if count == 0 {
		return nil, nil
	}

	if len(resp) <= offUIDLength {
		return nil, fmt.Errorf("target data truncated at %d bytes: %w", len(resp), ErrUnexpectedResponse)
	}

	uidLen := int(resp[offUIDLength])
	if uidLen == 0 || len(resp) < offUID+uidLen {
		return nil, fmt.Errorf("UID length %d does not fit %d byte response: %w",
			uidLen, len(resp), ErrUnexpectedResponse)
	}

	return &TagRecord{
		TargetCount:  count,
		TargetNumber: resp[offTargetNum],
		SensRes:      [2]byte{resp[offSensRes], resp[offSensRes+1]},
		SelRes:       resp[offSelRes],
		UID:          append([]byte(nil), resp[offUID:offUID+uidLen]...),
	}, nil
}

// UIDHex returns the UID as lowercase hex.
func (t *TagRecord) UIDHex() string {
	return hex.EncodeToString(t.UID)
}

// Type classifies the tag by its SEL_RES byte.
func (t *TagRecord) Type() TagType {
	switch {
	case t.SelRes&0x20 != 0:
		return TagTypeISO14443_4
	case t.SelRes == 0x08:
		return TagTypeMIFARE1K
	case t.SelRes == 0x18:
		return TagTypeMIFARE4K
	case t.SelRes == 0x09:
		return TagTypeMIFAREMini
	case t.SelRes == 0x00:
		return TagTypeNTAG
	default:
		return TagTypeUnknown
	}
}

func (t *TagRecord) String() string {
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "UID: %s (%d bytes)", strings.ToUpper(t.UIDHex()), len(t.UID))
	_, _ = fmt.Fprintf(&sb, ", Type: %s, ATQA: %02X%02X, SAK: %02X", t.Type(), t.SensRes[0], t.SensRes[1], t.SelRes)
	return sb.String()
}
