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

package testing

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ZaparooProject/go-pn532-i2c/internal/frame"
)

// ErrNoDevice is returned for transactions addressed to anything but the
// virtual controller.
var ErrNoDevice = errors.New("no device at address")

const (
	statusNotReady = 0x00
	statusReady    = 0x01
)

// VirtualTag represents a simulated ISO14443A tag in the field
type VirtualTag struct {
	UID  []byte
	ATQA [2]byte
	SAK  byte
}

// NewVirtualMIFARE1K creates a virtual MIFARE Classic 1K tag
func NewVirtualMIFARE1K(uid []byte) *VirtualTag {
	if uid == nil {
		uid = TestMIFARE1KUID
	}
	return &VirtualTag{UID: uid, ATQA: [2]byte{0x00, 0x04}, SAK: 0x08}
}

// NewVirtualMIFARE4K creates a virtual MIFARE Classic 4K tag
func NewVirtualMIFARE4K(uid []byte) *VirtualTag {
	if uid == nil {
		uid = TestMIFARE4KUID
	}
	return &VirtualTag{UID: uid, ATQA: [2]byte{0x00, 0x02}, SAK: 0x18}
}

// NewVirtualNTAG213 creates a virtual NTAG213 tag
func NewVirtualNTAG213(uid []byte) *VirtualTag {
	if uid == nil {
		uid = TestNTAG213UID
	}
	return &VirtualTag{UID: uid, ATQA: [2]byte{0x00, 0x44}, SAK: 0x00}
}

// Handler produces the response payload (echo byte first) for the
// parameters of one command. A nil result makes the controller answer with
// a syntax error frame.
type Handler func(params []byte) []byte

// VirtualPN532 simulates a PN532 on an I2C bus. Every read starts with the
// status byte; a one-byte read only samples the status, longer reads
// consume the pending frame. Writing a command discards whatever was still
// pending, as the chip does.
type VirtualPN532 struct {
	handlers      map[byte]Handler
	tag           *VirtualTag
	pending       [][]byte
	readErrs      []error
	frameReadErrs []error
	writeErrs     []error
	nextAck       []byte
	nextResponse  []byte
	writes        [][]byte
	busyPolls     int
	busyLeft      int
	statusReads   int
	mu            sync.Mutex
	Address       uint16
}

// NewVirtualPN532 creates a virtual controller answering the commands the
// driver uses. No tag is in the field.
func NewVirtualPN532() *VirtualPN532 {
	v := &VirtualPN532{
		Address:  0x24,
		handlers: make(map[byte]Handler),
	}
	v.handlers[CmdGetFirmwareVersion] = func([]byte) []byte { return BuildFirmwareVersionResponse() }
	v.handlers[CmdSAMConfiguration] = func([]byte) []byte { return BuildSAMConfigurationResponse() }
	v.handlers[CmdRFConfiguration] = func([]byte) []byte { return BuildRFConfigurationResponse() }
	v.handlers[CmdInListPassiveTarget] = v.listPassiveTarget
	return v
}

// listPassiveTarget runs under v.mu, called from Write.
func (v *VirtualPN532) listPassiveTarget([]byte) []byte {
	if v.tag == nil {
		return BuildNoTagResponse()
	}
	return BuildTagDetectionResponse(v.tag.ATQA, v.tag.SAK, v.tag.UID)
}

// SetTag places tag in the field
func (v *VirtualPN532) SetTag(tag *VirtualTag) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tag = tag
}

// RemoveTag empties the field
func (v *VirtualPN532) RemoveTag() {
	v.SetTag(nil)
}

// SetHandler overrides the response for a command code
func (v *VirtualPN532) SetHandler(cmd byte, h Handler) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.handlers[cmd] = h
}

// SetBusyPolls makes the controller report not-ready for n status polls
// before each frame becomes readable.
func (v *VirtualPN532) SetBusyPolls(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.busyPolls = n
}

// FailReads makes the next n reads of any kind fail with err.
func (v *VirtualPN532) FailReads(n int, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := 0; i < n; i++ {
		v.readErrs = append(v.readErrs, err)
	}
}

// FailFrameReads makes the next n frame reads (ACK or data) fail with err.
// Status polls are unaffected.
func (v *VirtualPN532) FailFrameReads(n int, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := 0; i < n; i++ {
		v.frameReadErrs = append(v.frameReadErrs, err)
	}
}

// FailDataRead lets the next ACK read through and fails the data frame
// read after it with err.
func (v *VirtualPN532) FailDataRead(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.frameReadErrs = append(v.frameReadErrs, nil, err)
}

// FailNextWrite makes the next write fail with err.
func (v *VirtualPN532) FailNextWrite(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.writeErrs = append(v.writeErrs, err)
}

// SetNextAck replaces the ACK of the next command with raw (bytes after
// the status byte).
func (v *VirtualPN532) SetNextAck(raw []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nextAck = raw
}

// SetNextResponse replaces the data frame of the next command with raw
// (bytes after the status byte).
func (v *VirtualPN532) SetNextResponse(raw []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nextResponse = raw
}

// Writes returns a copy of every frame written so far
func (v *VirtualPN532) Writes() [][]byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([][]byte, len(v.writes))
	for i, w := range v.writes {
		out[i] = append([]byte(nil), w...)
	}
	return out
}

// Commands returns the command codes of every valid frame written so far
func (v *VirtualPN532) Commands() []byte {
	var cmds []byte
	for _, w := range v.Writes() {
		if payload, err := frame.Decode(w, frame.HostToPn532); err == nil && len(payload) > 0 {
			cmds = append(cmds, payload[0])
		}
	}
	return cmds
}

// StatusReads returns how many one-byte status polls found the controller ready
func (v *VirtualPN532) StatusReads() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.statusReads
}

// Write implements the bus write primitive
func (v *VirtualPN532) Write(addr uint16, data []byte, _ time.Duration) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if addr != v.Address {
		return fmt.Errorf("write to 0x%02X: %w", addr, ErrNoDevice)
	}
	if len(v.writeErrs) > 0 {
		err := v.writeErrs[0]
		v.writeErrs = v.writeErrs[1:]
		return err
	}
	v.writes = append(v.writes, append([]byte(nil), data...))

	v.pending = v.pending[:0]
	v.busyLeft = v.busyPolls

	payload, err := frame.Decode(data, frame.HostToPn532)
	if err != nil || len(payload) == 0 {
		v.pending = append(v.pending, BuildNackRead())
		return nil
	}

	ack := BuildAckRead()
	if v.nextAck != nil {
		ack, v.nextAck = v.nextAck, nil
	}
	v.pending = append(v.pending, ack)

	resp := BuildSyntaxErrorRead()
	if h, ok := v.handlers[payload[0]]; ok {
		if out := h(payload[1:]); out != nil {
			resp = BuildDataRead(out)
		}
	}
	if v.nextResponse != nil {
		resp, v.nextResponse = v.nextResponse, nil
	}
	v.pending = append(v.pending, resp)
	return nil
}

// Read implements the bus read primitive
func (v *VirtualPN532) Read(addr uint16, p []byte, _ time.Duration) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if addr != v.Address {
		return fmt.Errorf("read from 0x%02X: %w", addr, ErrNoDevice)
	}
	if len(v.readErrs) > 0 {
		err := v.readErrs[0]
		v.readErrs = v.readErrs[1:]
		return err
	}
	if len(p) == 0 {
		return nil
	}

	clear(p)
	if len(v.pending) == 0 || v.busyLeft > 0 {
		if v.busyLeft > 0 {
			v.busyLeft--
		}
		p[0] = statusNotReady
		return nil
	}

	p[0] = statusReady
	if len(p) == 1 {
		v.statusReads++
		return nil
	}

	if len(v.frameReadErrs) > 0 {
		err := v.frameReadErrs[0]
		v.frameReadErrs = v.frameReadErrs[1:]
		if err != nil {
			return err
		}
	}

	copy(p[1:], v.pending[0])
	v.pending = v.pending[1:]
	v.busyLeft = v.busyPolls
	return nil
}
