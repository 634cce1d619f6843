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

package compile

import "unsafe"

// Program is the ABI both backends expose: one callable entry point per
// input block, matching spec §6's compiled-program contract
// `(out_ptr, in_list_ptr, num_ins) -> u32`. entryIndex selects the
// input block (the one whose view fired); ins must have exactly
// len(ir.Program.InputNames) elements or ErrInvalidNumberOfInputs is
// returned.
type Program interface {
	Run(entryIndex int, out unsafe.Pointer, ins []unsafe.Pointer) uint32
}
