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

package pipeline_test

import (
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinput/hub/device"
	"github.com/zinput/hub/lang/ir"
	"github.com/zinput/hub/pipeline"
	"github.com/zinput/hub/registry"
)

func controllerInfo(name string) *device.Info {
	return &device.Info{
		Name:        name,
		Controllers: []device.ControllerInfo{{ButtonNames: []string{"a", "b"}}},
	}
}

// copyButtons is a fake compile.Program: it copies the sole input's
// Buttons word to the output's Buttons word and reports the number of
// inputs it was actually called with via calls.
type copyButtons struct {
	calls int
}

func (c *copyButtons) Run(entryIndex int, out unsafe.Pointer, ins []unsafe.Pointer) uint32 {
	c.calls++
	if len(ins) != 1 {
		return ir.ErrInvalidNumberOfInputs
	}
	*(*uint64)(out) = *(*uint64)(ins[0])
	return ir.OK
}

type faultyProgram struct{ calls int }

func (f *faultyProgram) Run(entryIndex int, out unsafe.Pointer, ins []unsafe.Pointer) uint32 {
	f.calls++
	return ir.ErrIndexOutOfBounds
}

func TestPipeline_DispatchesOnInputUpdate(t *testing.T) {
	r := registry.New(registry.WithSweepInterval(time.Hour))
	defer r.Close()

	inHandle, err := r.NewDevice(controllerInfo("in"))
	require.NoError(t, err)
	defer inHandle.Close()

	outHandle, err := r.NewDevice(controllerInfo("out"))
	require.NoError(t, err)
	defer outHandle.Close()

	inView := inHandle.View()
	defer inView.Close()

	prog := &copyButtons{}

	p := pipeline.New()
	require.NoError(t, p.Insert("vd", []*registry.View{inView}, outHandle, prog))

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		p.Run(stop)
		close(done)
	}()
	defer func() {
		close(stop)
		<-done
	}()

	inHandle.Update(func(d *device.Device) {
		d.Controllers[0].Buttons = 0x42
	})

	require.Eventually(t, func() bool {
		outView := outHandle.View()
		defer outView.Close()
		read := outView.Device()
		defer read.Release()
		return read.Device().Controllers[0].Buttons == 0x42
	}, time.Second, 5*time.Millisecond)

	assert.GreaterOrEqual(t, prog.calls, 1)
}

func TestPipeline_InsertRejectsDuplicateName(t *testing.T) {
	r := registry.New(registry.WithSweepInterval(time.Hour))
	defer r.Close()

	inHandle, err := r.NewDevice(controllerInfo("in"))
	require.NoError(t, err)
	defer inHandle.Close()
	outHandle, err := r.NewDevice(controllerInfo("out"))
	require.NoError(t, err)
	defer outHandle.Close()

	inView := inHandle.View()
	defer inView.Close()

	p := pipeline.New()
	require.NoError(t, p.Insert("vd", []*registry.View{inView}, outHandle, &copyButtons{}))
	err = p.Insert("vd", []*registry.View{inView}, outHandle, &copyButtons{})
	assert.ErrorIs(t, err, pipeline.ErrAlreadyExists)
}

func TestPipeline_RemoveStopsFurtherDispatch(t *testing.T) {
	r := registry.New(registry.WithSweepInterval(time.Hour))
	defer r.Close()

	inHandle, err := r.NewDevice(controllerInfo("in"))
	require.NoError(t, err)
	defer inHandle.Close()
	outHandle, err := r.NewDevice(controllerInfo("out"))
	require.NoError(t, err)
	defer outHandle.Close()

	inView := inHandle.View()
	defer inView.Close()

	prog := &copyButtons{}
	p := pipeline.New()
	require.NoError(t, p.Insert("vd", []*registry.View{inView}, outHandle, prog))
	require.NoError(t, p.Remove("vd"))

	err = p.Remove("vd")
	assert.ErrorIs(t, err, pipeline.ErrNotFound)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		p.Run(stop)
		close(done)
	}()
	defer func() {
		close(stop)
		<-done
	}()

	inHandle.Update(func(d *device.Device) {
		d.Controllers[0].Buttons = 0x99
	})

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, prog.calls, "a removed virtual device must never dispatch again")
}

func TestPipeline_NonZeroReturnCodeIsLoggedNotFatal(t *testing.T) {
	r := registry.New(registry.WithSweepInterval(time.Hour))
	defer r.Close()

	inHandle, err := r.NewDevice(controllerInfo("in"))
	require.NoError(t, err)
	defer inHandle.Close()
	outHandle, err := r.NewDevice(controllerInfo("out"))
	require.NoError(t, err)
	defer outHandle.Close()

	inView := inHandle.View()
	defer inView.Close()

	prog := &faultyProgram{}
	p := pipeline.New()
	require.NoError(t, p.Insert("vd", []*registry.View{inView}, outHandle, prog))

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		p.Run(stop)
		close(done)
	}()
	defer func() {
		close(stop)
		<-done
	}()

	// A faulting program must not panic the pipeline thread or remove
	// the virtual device; a second update must still be dispatched.
	inHandle.Update(func(d *device.Device) { d.Controllers[0].Buttons = 1 })
	inHandle.Update(func(d *device.Device) { d.Controllers[0].Buttons = 2 })

	require.Eventually(t, func() bool { return prog.calls >= 2 }, time.Second, 5*time.Millisecond)
}
