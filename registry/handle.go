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

	"github.com/google/uuid"

	"github.com/zinput/hub/device"
)

// WriterHandle is the unique right to mutate one device's state. At most
// one WriterHandle exists per device at a time; NewDevice is the only
// constructor.
type WriterHandle struct {
	r    *Registry
	rec  *record
	once sync.Once
}

func newWriterHandle(r *Registry, rec *record) *WriterHandle {
	return &WriterHandle{r: r, rec: rec}
}

// UUID returns the device's identifier.
func (h *WriterHandle) UUID() uuid.UUID {
	return h.rec.id
}

// Info returns the device's immutable capability description.
func (h *WriterHandle) Info() *device.Info {
	return h.rec.info
}

// Update acquires the write lock on the device, invokes fn with a
// pointer to its mutable state, releases the lock, and then fans the
// device's identifier out to every subscribed view (outside the lock).
func (h *WriterHandle) Update(fn func(*device.Device)) {
	h.rec.withWrite(fn)
}

// View manufactures an additional read-capable View of this handle's
// device.
func (h *WriterHandle) View() *View {
	return newView(h.r, h.rec)
}

// Close releases the write handle, allowing a future NewDevice call with
// the same stable id to succeed, and makes the record collectable once
// no views remain. Close is idempotent.
func (h *WriterHandle) Close() {
	h.once.Do(func() {
		h.rec.writerAlive.Store(false)
		h.r.removeIfCollectable(h.rec.id)
	})
}
