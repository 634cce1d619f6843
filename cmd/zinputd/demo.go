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

package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/zinput/hub/config"
	"github.com/zinput/hub/device"
	"github.com/zinput/hub/lang/hostschema"
	"github.com/zinput/hub/lang/types"
	"github.com/zinput/hub/lang/vm"
	"github.com/zinput/hub/logger"
	"github.com/zinput/hub/pipeline"
	"github.com/zinput/hub/registry"
)

// demoControllerInfo is the fixed capability set every synthetic device
// this binary creates is given. A real driver would describe its own
// device's actual buttons and analog channels.
func demoControllerInfo() device.ControllerInfo {
	return device.ControllerInfo{
		ButtonNames:  []string{"a", "b", "x", "y"},
		AnalogsCount: 2,
	}
}

// wireVirtualDevices registers a synthetic registry device for every
// input/output device name referenced in cfg.VirtualDevices, starts a
// synthetic update loop on each input device, compiles each virtual
// device's source, and inserts it into pl. Every virtual
// device's source is expected to name its input blocks and output
// device with the same identifiers used for those devices in config —
// this binary does not run a config/source reconciliation pass beyond
// that convention.
func wireVirtualDevices(cfg *config.Config, reg *registry.Registry, pl *pipeline.Pipeline, stop <-chan struct{}) ([]*registry.WriterHandle, error) {
	handles := make(map[string]*registry.WriterHandle)
	var created []*registry.WriterHandle

	getOrCreate := func(name string) (*registry.WriterHandle, error) {
		if h, ok := handles[name]; ok {
			return h, nil
		}
		id := name
		info := demoControllerInfo()
		h, err := reg.NewDevice(&device.Info{
			Name:        name,
			ID:          &id,
			Controllers: []device.ControllerInfo{info},
		})
		if err != nil {
			return nil, fmt.Errorf("creating device %q: %w", name, err)
		}
		handles[name] = h
		created = append(created, h)
		return h, nil
	}
	driven := make(map[string]bool)

	for name, vd := range cfg.VirtualDevices {
		src, err := os.ReadFile(vd.Source)
		if err != nil {
			return created, fmt.Errorf("virtual device %q: reading source %q: %w", name, vd.Source, err)
		}

		outHandle, err := getOrCreate(vd.Output)
		if err != nil {
			return created, err
		}
		outType := hostschema.ControllerType(&outHandle.Info().Controllers[0])

		roots := make(map[string]types.Struct, len(vd.Inputs))
		inputHandles := make(map[string]*registry.WriterHandle, len(vd.Inputs))
		for _, inName := range vd.Inputs {
			h, err := getOrCreate(inName)
			if err != nil {
				return created, err
			}
			inputHandles[inName] = h
			roots[inName] = hostschema.ControllerType(&h.Info().Controllers[0])
			if !driven[inName] {
				driven[inName] = true
				go driveDemoInput(h, stop)
			}
		}

		prog, err := vm.Compile(string(src), vd.Output, outType, roots)
		if err != nil {
			return created, fmt.Errorf("virtual device %q: compiling %q: %w", name, vd.Source, err)
		}

		views := make([]*registry.View, len(prog.IR.Entries))
		for i, entry := range prog.IR.Entries {
			h, ok := inputHandles[entry.Device]
			if !ok {
				return created, fmt.Errorf("virtual device %q: source references input %q not listed in its config inputs", name, entry.Device)
			}
			views[i] = h.View()
		}

		if err := pl.Insert(name, views, outHandle, prog.Native); err != nil {
			return created, fmt.Errorf("virtual device %q: inserting into pipeline: %w", name, err)
		}
	}

	return created, nil
}

// driveDemoInput periodically mutates h's controller state, standing in
// for a real driver's hardware poll loop, until stop is closed.
func driveDemoInput(h *registry.WriterHandle, stop <-chan struct{}) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			h.Update(func(d *device.Device) {
				d.Controllers[0].Buttons = rng.Uint64() & 0xF
				d.Controllers[0].LeftStickX = int16(rng.Intn(1 << 15))
			})
			logger.WithFields(logger.Fields{"device": h.Info().Name}).Debug("[zinputd] demo input updated")
		}
	}
}
