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

// Package pipeline is the virtual-device dispatcher: a single thread
// that fans upstream device notifications out to the compiled programs
// that read from them, one virtual device at a time, per spec §4.4.
package pipeline

import (
	"errors"
	"sync"
	"time"
	"unsafe"

	"github.com/google/uuid"

	"github.com/zinput/hub/device"
	"github.com/zinput/hub/lang/compile"
	"github.com/zinput/hub/lang/ir"
	"github.com/zinput/hub/logger"
	"github.com/zinput/hub/registry"
)

// ErrAlreadyExists is returned by Insert when name is already bound to a
// virtual device.
var ErrAlreadyExists = errors.New("pipeline: virtual device already exists")

// ErrNotFound is returned by Remove when name names no virtual device.
var ErrNotFound = errors.New("pipeline: virtual device not found")

// binding is one input view's subscription: which virtual device it
// feeds, and at which index (the entry the compiled program runs when
// this particular view fires).
type binding struct {
	name      string
	viewIndex int
}

// inputSpec is one virtual device's bound input: the view it reads, and
// which controller component of that device's memory the program
// addresses. Every virtual device binds its output and inputs to
// component index 0, the one component kind lang/hostschema currently
// describes (see hostschema.ControllerType's doc comment).
type inputSpec struct {
	view      *registry.View
	component int
}

type virtualDevice struct {
	name         string
	inputs       []inputSpec
	out          *registry.WriterHandle
	outView      *registry.View
	outComponent int
	program      compile.Program
}

// Pipeline is the virtual-device dispatcher described by spec §4.4: one
// shared notification channel every input view is registered against,
// and a lookup table from a firing view's identifier to the virtual
// devices that subscribe to it.
type Pipeline struct {
	notify chan uuid.UUID

	mu       sync.RWMutex
	devices  map[string]*virtualDevice
	bindings map[uuid.UUID][]binding
}

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithChannelCapacity sets the shared dispatch channel's buffer size.
func WithChannelCapacity(n int) Option {
	return func(p *Pipeline) { p.notify = make(chan uuid.UUID, n) }
}

// New creates an empty Pipeline. Call Run on its own goroutine to start
// dispatching, and Insert/Remove concurrently from any goroutine.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		notify:   make(chan uuid.UUID, 64),
		devices:  make(map[string]*virtualDevice),
		bindings: make(map[uuid.UUID][]binding),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Insert registers a new virtual device: name, its ordered input views,
// its output writer handle, and the compiled program that reads the
// former and writes the latter. Each view is subscribed to the
// pipeline's shared notification channel; views and the output handle
// remain owned by the caller, who is responsible for eventually closing
// them.
func (p *Pipeline) Insert(name string, views []*registry.View, out *registry.WriterHandle, program compile.Program) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.devices[name]; exists {
		return ErrAlreadyExists
	}

	vd := &virtualDevice{
		name:    name,
		inputs:  make([]inputSpec, len(views)),
		out:     out,
		outView: out.View(),
		program: program,
	}

	for i, v := range views {
		v.RegisterChannel(p.notify)
		vd.inputs[i] = inputSpec{view: v, component: 0}
		id := v.UUID()
		p.bindings[id] = append(p.bindings[id], binding{name: name, viewIndex: i})
	}

	p.devices[name] = vd

	logger.WithFields(logger.Fields{"name": name, "inputs": len(views)}).Info("[pipeline] inserted virtual device")
	return nil
}

// Remove unregisters name. The pipeline's lookup map is updated under
// the same lock that would otherwise let a dispatch find it, so no
// dispatch started after Remove returns can reach its program (spec
// §4.4's removal invariant).
func (p *Pipeline) Remove(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	vd, ok := p.devices[name]
	if !ok {
		return ErrNotFound
	}
	delete(p.devices, name)
	vd.outView.Close()

	for _, in := range vd.inputs {
		id := in.view.UUID()
		var kept []binding
		for _, b := range p.bindings[id] {
			if b.name != name {
				kept = append(kept, b)
			}
		}
		if len(kept) == 0 {
			delete(p.bindings, id)
		} else {
			p.bindings[id] = kept
		}
	}

	logger.WithFields(logger.Fields{"name": name}).Info("[pipeline] removed virtual device")
	return nil
}

// Run is the pipeline's single dispatch thread: it blocks receiving
// fired view identifiers and invokes every virtual device subscribed to
// each, until stop is closed. The select below checks stop on every
// wakeup and at least once a second even when idle, meeting spec §5's
// "periodically (>= once per second) checks a shared atomic stop flag"
// cancellation model the idiomatic Go way.
func (p *Pipeline) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			p.drain()
			return
		case id := <-p.notify:
			p.dispatch(id)
		case <-ticker.C:
			// Wake up at least once a second even with no traffic, so a
			// stop signal is never left unnoticed for long.
		}
	}
}

// drain discards any notifications left buffered in the channel once
// Run has decided to stop, so a concurrent writer's non-blocking send
// never wedges against a full channel after shutdown.
func (p *Pipeline) drain() {
	for {
		select {
		case <-p.notify:
		default:
			return
		}
	}
}

func (p *Pipeline) dispatch(id uuid.UUID) {
	p.mu.RLock()
	binds := append([]binding(nil), p.bindings[id]...)
	p.mu.RUnlock()

	for _, b := range binds {
		p.mu.RLock()
		vd, ok := p.devices[b.name]
		p.mu.RUnlock()
		if !ok {
			continue
		}
		p.runOne(vd, b.viewIndex)
	}
}

// runOne snapshots every one of vd's inputs and its output's current
// value under brief read guards, releasing each immediately, then runs
// vd.program.Run entirely over those local copies with no lock held, and
// finally takes the output's write guard only long enough to copy the
// staged result in. No lock is held across a program execution (spec
// §5). It logs (but does not remove the virtual device) on a non-zero
// return code per spec §4.4's error policy.
func (p *Pipeline) runOne(vd *virtualDevice, firedIndex int) {
	ins := make([]device.ControllerData, len(vd.inputs))
	insPtrs := make([]unsafe.Pointer, len(vd.inputs))
	for i, in := range vd.inputs {
		r := in.view.Device()
		ins[i] = r.Device().Controllers[in.component]
		r.Release()
		insPtrs[i] = unsafe.Pointer(&ins[i])
	}

	outRead := vd.outView.Device()
	out := outRead.Device().Controllers[vd.outComponent]
	outRead.Release()

	rc := vd.program.Run(firedIndex, unsafe.Pointer(&out), insPtrs)

	vd.out.Update(func(dev *device.Device) {
		dev.Controllers[vd.outComponent] = out
	})

	if rc != ir.OK {
		logger.WithFields(logger.Fields{
			"name": vd.name,
			"code": rc,
		}).Warn("[pipeline] virtual device program returned a non-zero error code")
	}
}
