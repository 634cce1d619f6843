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

// Package device defines the data shape shared by every driver and output
// in the hub: the closed set of component kinds, their info/data structs,
// and the DeviceInfo/Device pair the registry holds on a caller's behalf.
package device

// Kind is one of the closed set of component kinds a Device may expose.
type Kind uint8

const (
	KindController Kind = iota
	KindMotion
	KindAnalogs
	KindButtons
	KindTouchPad
	KindMouse

	numKinds
)

func (k Kind) String() string {
	switch k {
	case KindController:
		return "controller"
	case KindMotion:
		return "motion"
	case KindAnalogs:
		return "analogs"
	case KindButtons:
		return "buttons"
	case KindTouchPad:
		return "touch_pad"
	case KindMouse:
		return "mouse"
	default:
		return "unknown"
	}
}

// ControllerInfo describes the static capabilities of one controller
// component: the names of the buttons it can produce (slice index is bit
// position in ControllerData.Buttons) and how many generic analog
// channels it exposes beyond the named sticks/triggers.
type ControllerInfo struct {
	ButtonNames  []string
	AnalogsCount uint8
}

// AnalogsSlice is the in-memory representation of a variable-length
// analog channel list: a data pointer plus a length, matching the
// language's Slice type exactly (spec §3: "slice-of-T (fat pointer:
// data pointer + length)"). It intentionally does not carry a Go slice's
// third (cap) word so that the compiled program's view of a slice value
// is exactly two machine words.
type AnalogsSlice struct {
	Ptr *uint16
	Len uint32
}

// ControllerData is the current value of one controller component. Its
// field layout is exposed to the virtual-device language verbatim (see
// lang/hostschema), so field order and types here are load-bearing.
type ControllerData struct {
	Buttons                   uint64
	LeftStickX, LeftStickY    int16
	RightStickX, RightStickY  int16
	LeftTrigger, RightTrigger uint8
	Analogs                   AnalogsSlice

	analogsBacking []uint16
}

// MotionInfo describes whether a motion component has a gyro and/or
// accelerometer.
type MotionInfo struct {
	HasGyro  bool
	HasAccel bool
}

// MotionData is the current value of one motion component.
type MotionData struct {
	GyroX, GyroY, GyroZ    float32
	AccelX, AccelY, AccelZ float32
}

// AnalogsInfo describes the number of analog channels a component has.
type AnalogsInfo struct {
	Count uint8
}

// AnalogsData holds up to four analog channel values. Count beyond the
// info-declared length is unused, kept fixed-size so the struct stays POD.
type AnalogsData struct {
	Values [4]uint16
}

// ButtonsInfo names the bits of a buttons component.
type ButtonsInfo struct {
	Names [64]string
}

// ButtonsData is a single bitfield of button state.
type ButtonsData struct {
	Buttons uint64
}

// TouchPadInfo describes a touch surface: how many simultaneous touches
// it can report and whether it can also act as a button.
type TouchPadInfo struct {
	IsButton    bool
	TouchCount  uint8
}

// Touch is one finger's contact point on a TouchPad component.
type Touch struct {
	X, Y     uint16
	Touching bool
	ID       uint8
}

// TouchPadData is the current value of one touch-pad component.
type TouchPadData struct {
	Touches     [4]Touch
	ButtonState bool
}

// MouseInfo describes whether a mouse component reports a wheel.
type MouseInfo struct {
	HasWheel bool
}

// MouseData is the current relative-motion value of one mouse component.
type MouseData struct {
	DX, DY int32
	Wheel  int32
	Buttons uint8
}
