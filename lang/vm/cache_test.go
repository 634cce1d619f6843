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

package vm_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinput/hub/device"
	"github.com/zinput/hub/lang/hostschema"
	"github.com/zinput/hub/lang/types"
	"github.com/zinput/hub/lang/vm"
)

func padRoots() (types.Struct, map[string]types.Struct) {
	info := &device.ControllerInfo{ButtonNames: []string{"a", "b"}}
	out := hostschema.ControllerType(info)
	return out, map[string]types.Struct{"in": hostschema.ControllerType(info)}
}

func TestCache_ReturnsSameProgramForUnchangedSource(t *testing.T) {
	out, roots := padRoots()
	c := vm.NewCache(time.Minute)

	src := "device out; in { out.buttons.a = in.buttons.b; }"
	p1, err := c.CompileCached(src, "out", out, roots)
	require.NoError(t, err)

	p2, err := c.CompileCached(src, "out", out, roots)
	require.NoError(t, err)

	assert.Same(t, p1, p2, "an unchanged source string must not be recompiled")
}

func TestCache_RecompilesOnSourceChange(t *testing.T) {
	out, roots := padRoots()
	c := vm.NewCache(time.Minute)

	p1, err := c.CompileCached("device out; in { out.buttons.a = in.buttons.b; }", "out", out, roots)
	require.NoError(t, err)

	p2, err := c.CompileCached("device out; in { out.buttons.a = in.buttons.a; }", "out", out, roots)
	require.NoError(t, err)

	assert.NotSame(t, p1, p2)
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	out, roots := padRoots()
	c := vm.NewCache(10 * time.Millisecond)

	src := "device out; in { out.buttons.a = in.buttons.b; }"
	p1, err := c.CompileCached(src, "out", out, roots)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	p2, err := c.CompileCached(src, "out", out, roots)
	require.NoError(t, err)
	assert.NotSame(t, p1, p2, "an expired entry must be recompiled, not reused")
}
