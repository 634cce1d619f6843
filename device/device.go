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

package device

// Info is the immutable, per-device description of static capabilities.
// It never changes after the device is created.
type Info struct {
	// Name is a human-readable display name for the device.
	Name string

	// ID is an optional stable identifier used for configuration
	// persistence and for rejecting duplicate registrations. A nil ID
	// means the device has no stable identity and can never collide.
	ID *string

	// AutoLoadConfig indicates a host UI should auto-load any saved
	// per-device configuration for this device on registration.
	AutoLoadConfig bool

	Controllers []ControllerInfo
	Motions     []MotionInfo
	Analogs     []AnalogsInfo
	Buttons     []ButtonsInfo
	TouchPads   []TouchPadInfo
	Mice        []MouseInfo
}

// Device is the mutable current state of a device's components. The
// length of every slice always matches the corresponding Info slice
// length for the lifetime of the Device.
type Device struct {
	Controllers []ControllerData
	Motions     []MotionData
	Analogs     []AnalogsData
	Buttons     []ButtonsData
	TouchPads   []TouchPadData
	Mice        []MouseData
}

// New builds a zero-valued Device whose component slices match the shape
// described by info. This is the only constructor: it is the registry's
// job to call it when a device is registered (see the registry package).
func New(info *Info) *Device {
	controllers := make([]ControllerData, len(info.Controllers))
	for i, ci := range info.Controllers {
		if ci.AnalogsCount == 0 {
			continue
		}
		backing := make([]uint16, ci.AnalogsCount)
		controllers[i].analogsBacking = backing
		controllers[i].Analogs = AnalogsSlice{Ptr: &backing[0], Len: uint32(ci.AnalogsCount)}
	}

	return &Device{
		Controllers: controllers,
		Motions:     make([]MotionData, len(info.Motions)),
		Analogs:     make([]AnalogsData, len(info.Analogs)),
		Buttons:     make([]ButtonsData, len(info.Buttons)),
		TouchPads:   make([]TouchPadData, len(info.TouchPads)),
		Mice:        make([]MouseData, len(info.Mice)),
	}
}

// MatchesShape reports whether d's component-slice lengths match info's,
// the invariant the registry maintains for every live device.
func (d *Device) MatchesShape(info *Info) bool {
	return len(d.Controllers) == len(info.Controllers) &&
		len(d.Motions) == len(info.Motions) &&
		len(d.Analogs) == len(info.Analogs) &&
		len(d.Buttons) == len(info.Buttons) &&
		len(d.TouchPads) == len(info.TouchPads) &&
		len(d.Mice) == len(info.Mice)
}
