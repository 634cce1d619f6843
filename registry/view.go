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

// View is a shared read-capable reference to one device's state. It is
// cheap to Clone and must be Closed when no longer needed so the
// underlying record can eventually be reclaimed.
type View struct {
	r    *Registry
	rec  *record
	mu   sync.Mutex
	chanToken *int
	closed    bool
}

func newView(r *Registry, rec *record) *View {
	rec.views.Add(1)
	return &View{r: r, rec: rec}
}

// UUID returns the identifier of the device this view observes.
func (v *View) UUID() uuid.UUID {
	return v.rec.id
}

// Info returns the device's immutable capability description.
func (v *View) Info() *device.Info {
	return v.rec.info
}

// DeviceRead is a read guard on a device's current state. It must be
// released by calling Release once the caller is done reading.
type DeviceRead struct {
	dev     *device.Device
	release func()
}

// Device returns the current device state under a read guard.
func (d *DeviceRead) Device() *device.Device { return d.dev }

// Release releases the read lock. It must be called exactly once.
func (d *DeviceRead) Release() { d.release() }

// Device acquires a read guard on the device's current state. Multiple
// views (and the same view, from different goroutines) may hold read
// guards concurrently; a guard blocks only while a writer's Update call
// is in progress.
func (v *View) Device() *DeviceRead {
	dev, release := v.rec.readLock()
	return &DeviceRead{dev: dev, release: release}
}

// RegisterChannel installs ch to receive this device's identifier on
// every subsequent writer Update call, replacing any channel previously
// registered on this view.
func (v *View) RegisterChannel(ch chan<- uuid.UUID) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.chanToken != nil {
		v.rec.channels.remove(*v.chanToken)
	}
	token := v.rec.channels.add(ch)
	v.chanToken = &token
}

// Clone returns a new View over the same device, incrementing the
// record's view count. The clone does not inherit the original's
// registered channel.
func (v *View) Clone() *View {
	return newView(v.r, v.rec)
}

// Close releases this view. If it had a registered channel, the channel
// is unregistered first. Close is idempotent.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	token := v.chanToken
	v.chanToken = nil
	v.mu.Unlock()

	if token != nil {
		v.rec.channels.remove(*token)
	}

	if v.rec.views.Add(-1) < 0 {
		// Defensive: mirrors the assertion in original_source's
		// DeviceView::drop that the counter never underflows.
		v.rec.views.Store(0)
	}
	v.r.removeIfCollectable(v.rec.id)
}
