// zinput hub
// Copyright (c) 2026 zinput contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package registry

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/zinput/hub/device"
)

// record is the registry's unit of ownership: one device's immutable
// info, its mutable state behind a reader/writer lock, the set of
// channels subscribed to its updates, and the two atomics that decide
// when it becomes collectable.
//
// Grounded on original_source's InternalDevice: an Arc-shared record with
// an atomic "handle alive" bool and an atomic view counter, reclaimed
// only when both say the record has no remaining interest.
type record struct {
	id   uuid.UUID
	info *device.Info

	deviceMu sync.RWMutex
	dev      *device.Device

	writerAlive atomic.Bool
	views       atomic.Int32

	channels *channelSet
}

func newRecord(id uuid.UUID, info *device.Info) *record {
	return &record{
		id:       id,
		info:     info,
		dev:      device.New(info),
		channels: newChannelSet(),
	}
}

func (r *record) stableID() string {
	if r.info.ID == nil {
		return ""
	}
	return *r.info.ID
}

// shouldRemove reports whether the record has no writer and no views,
// i.e. it is safe for the registry to drop it from its map.
func (r *record) shouldRemove() bool {
	return !r.writerAlive.Load() && r.views.Load() == 0
}

// withWrite runs fn with exclusive access to the device, then fans the
// record's identifier out on every subscribed channel. The fan-out
// happens after the lock is released, per the concurrency contract in
// spec §4.1.
func (r *record) withWrite(fn func(*device.Device)) {
	r.deviceMu.Lock()
	fn(r.dev)
	r.deviceMu.Unlock()

	r.channels.notify(r.id)
}

// readLock takes a read lock on the device and returns the device
// pointer, valid until the returned release function is called.
func (r *record) readLock() (*device.Device, func()) {
	r.deviceMu.RLock()
	return r.dev, r.deviceMu.RUnlock
}
