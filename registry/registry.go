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

// Package registry is the concurrent device map: a shared in-process
// table from device identifier to device state, with one exclusive
// writer handle and any number of reader views per device, and
// handle-lifecycle-driven garbage collection.
package registry

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/zinput/hub/device"
	"github.com/zinput/hub/logger"
)

// minSweepGap floors how often a sweep pass can actually run, independent
// of the configured sweep interval, so a caller setting a pathologically
// small interval can't spin the registry's write lock.
const minSweepGap = 10 * time.Millisecond

// ErrDeviceNotFound is returned by operations that look a device up by id
// when no live record matches.
var ErrDeviceNotFound = errors.New("registry: device not found")

// NameCollisionError is returned by NewDevice when info.ID names a stable
// identifier already held by a live writer handle.
type NameCollisionError struct {
	ExistingID uuid.UUID
}

func (e *NameCollisionError) Error() string {
	return "registry: device id already in use by " + e.ExistingID.String()
}

// Registry is a concurrent map from device identifier to internal device
// record. Inserts, removes, and lookups are guarded by a single RWMutex
// over the map's structure; per-device state has its own, finer-grained
// lock (see record.go) so that reads/writes to one device never block
// access to another.
type Registry struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*record

	sweepInterval time.Duration
	sweepLimiter  *rate.Limiter
	stop          chan struct{}
	stopOnce      sync.Once
}

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithSweepInterval overrides the default interval at which the registry
// reclaims records whose writer handle is gone and whose view count has
// dropped to zero.
func WithSweepInterval(d time.Duration) Option {
	return func(r *Registry) { r.sweepInterval = d }
}

// New creates an empty Registry and starts its background sweep
// goroutine. Call Close to stop the goroutine.
func New(opts ...Option) *Registry {
	r := &Registry{
		records:       make(map[uuid.UUID]*record),
		sweepInterval: 5 * time.Second,
		sweepLimiter:  rate.NewLimiter(rate.Every(minSweepGap), 1),
		stop:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	go r.sweepLoop()
	return r
}

// Close stops the registry's background sweep goroutine. It does not
// invalidate any outstanding handles or views.
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// NewDevice registers a new device described by info and returns the
// sole WriterHandle able to mutate it. If info.ID names a stable
// identifier already held by a live writer handle, NewDevice fails with
// a *NameCollisionError naming the existing device's id.
func (r *Registry) NewDevice(info *device.Info) (*WriterHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if info.ID != nil {
		for id, rec := range r.records {
			if rec.writerAlive.Load() && rec.stableID() == *info.ID {
				return nil, &NameCollisionError{ExistingID: id}
			}
		}
	}

	id := uuid.New()
	rec := newRecord(id, info)
	rec.writerAlive.Store(true)
	r.records[id] = rec

	logger.WithFields(logger.Fields{"id": id, "name": info.Name}).Info("[registry] registered new device")
	return newWriterHandle(r, rec), nil
}

// GetDevice acquires one additional view onto the device named by id, or
// ErrDeviceNotFound if no live record matches.
func (r *Registry) GetDevice(id uuid.UUID) (*View, error) {
	r.mu.RLock()
	rec, ok := r.records[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrDeviceNotFound
	}
	return newView(r, rec), nil
}

// Devices returns a point-in-time snapshot of the DeviceInfo for every
// currently live device. The snapshot is consistent per entry but not
// globally atomic: a device registered or removed concurrently with this
// call may or may not appear.
func (r *Registry) Devices() []InfoSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]InfoSnapshot, 0, len(r.records))
	for id, rec := range r.records {
		out = append(out, InfoSnapshot{ID: id, Info: rec.info})
	}
	return out
}

// InfoSnapshot pairs a device's identifier with its immutable info, as
// returned by Devices().
type InfoSnapshot struct {
	ID   uuid.UUID
	Info *device.Info
}

// DevicesMatching returns the InfoSnapshot of every live device whose
// stable identifier matches the given glob pattern. Devices with no
// stable identifier never match.
func (r *Registry) DevicesMatching(pattern string) ([]InfoSnapshot, error) {
	g, err := compileGlob(pattern)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []InfoSnapshot
	for id, rec := range r.records {
		if rec.info.ID != nil && g.Match(*rec.info.ID) {
			out = append(out, InfoSnapshot{ID: id, Info: rec.info})
		}
	}
	return out, nil
}

func (r *Registry) sweepLoop() {
	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			if !r.sweepLimiter.Allow() {
				continue
			}
			r.sweep()
		}
	}
}

func (r *Registry) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, rec := range r.records {
		if rec.shouldRemove() {
			delete(r.records, id)
			logger.WithFields(logger.Fields{"id": id}).Debug("[registry] swept collectable device record")
		}
	}
}

// removeIfCollectable is invoked directly by a handle/view Close() so
// that a device with no remaining interest is reclaimed promptly instead
// of waiting for the next sweep tick.
func (r *Registry) removeIfCollectable(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if ok && rec.shouldRemove() {
		delete(r.records, id)
	}
}
