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

package registry_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinput/hub/device"
	"github.com/zinput/hub/registry"
)

func controllerInfo(id string) *device.Info {
	return &device.Info{
		Name:        "test controller",
		ID:          &id,
		Controllers: []device.ControllerInfo{{ButtonNames: []string{"a", "b"}}},
	}
}

func TestRegistry_Exclusivity(t *testing.T) {
	r := registry.New(registry.WithSweepInterval(time.Hour))
	defer r.Close()

	h1, err := r.NewDevice(controllerInfo("x"))
	require.NoError(t, err)

	_, err = r.NewDevice(controllerInfo("x"))
	require.Error(t, err)
	var collision *registry.NameCollisionError
	assert.ErrorAs(t, err, &collision)
	assert.Equal(t, h1.UUID(), collision.ExistingID)

	h1.Close()

	h2, err := r.NewDevice(controllerInfo("x"))
	require.NoError(t, err)
	assert.NotEqual(t, h1.UUID(), h2.UUID())
}

func TestRegistry_ViewObservesWriterOrder(t *testing.T) {
	r := registry.New(registry.WithSweepInterval(time.Hour))
	defer r.Close()

	h, err := r.NewDevice(controllerInfo("y"))
	require.NoError(t, err)
	defer h.Close()

	view := h.View()
	defer view.Close()

	for _, val := range []uint64{10, 20, 30, 40} {
		val := val
		h.Update(func(d *device.Device) {
			d.Controllers[0].Buttons = val
		})

		read := view.Device()
		got := read.Device().Controllers[0].Buttons
		read.Release()
		assert.Equal(t, val, got)
	}
}

func TestRegistry_Coalescing(t *testing.T) {
	r := registry.New(registry.WithSweepInterval(time.Hour))
	defer r.Close()

	h, err := r.NewDevice(controllerInfo("z"))
	require.NoError(t, err)
	defer h.Close()

	view := h.View()
	defer view.Close()

	ch := make(chan uuid.UUID, 1)
	view.RegisterChannel(ch)

	for _, val := range []uint64{10, 20, 30, 40} {
		val := val
		h.Update(func(d *device.Device) {
			d.Controllers[0].Buttons = val
		})
	}

	select {
	case id := <-ch:
		assert.Equal(t, h.UUID(), id)
	case <-time.After(time.Second):
		t.Fatal("expected a coalesced notification")
	}

	select {
	case <-ch:
		t.Fatal("expected exactly one outstanding notification")
	default:
	}

	read := view.Device()
	got := read.Device().Controllers[0].Buttons
	read.Release()
	assert.Equal(t, uint64(40), got)
}

func TestRegistry_CleanupOnHandleAndViewDrop(t *testing.T) {
	r := registry.New(registry.WithSweepInterval(time.Hour))
	defer r.Close()

	h, err := r.NewDevice(controllerInfo("w"))
	require.NoError(t, err)
	id := h.UUID()

	view := h.View()

	h.Close()
	got, err := r.GetDevice(id)
	require.NoError(t, err, "a view keeps the record alive after the writer closes")
	got.Close()

	view.Close()
	_, err = r.GetDevice(id)
	assert.ErrorIs(t, err, registry.ErrDeviceNotFound)
}

func TestRegistry_DevicesSnapshot(t *testing.T) {
	r := registry.New(registry.WithSweepInterval(time.Hour))
	defer r.Close()

	h1, err := r.NewDevice(controllerInfo("a"))
	require.NoError(t, err)
	defer h1.Close()

	h2, err := r.NewDevice(controllerInfo("b"))
	require.NoError(t, err)
	defer h2.Close()

	snaps := r.Devices()
	assert.Len(t, snaps, 2)

	matches, err := r.DevicesMatching("a")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}
