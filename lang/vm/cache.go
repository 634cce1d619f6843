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

package vm

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/zinput/hub/lang/types"
)

// Cache caches compiled Programs keyed by a hash of their source and
// root type set, so reloading config that names the same virtual device
// module doesn't recompile and re-JIT it, mirroring teacher sdk.go's
// TTL-expired readings cache.
type Cache struct {
	c *cache.Cache
}

// NewCache creates a Cache whose entries expire ttl after their last
// compile, cleaned up on a timer running at twice that interval.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{c: cache.New(ttl, ttl*2)}
}

// CompileCached behaves like Compile, but returns a previously compiled
// Program instead of recompiling when src, outputName, and the root
// type names are unchanged and the cache entry hasn't expired.
func (c *Cache) CompileCached(src string, outputName string, outputType types.Struct, roots map[string]types.Struct) (*Program, error) {
	key := cacheKey(src, outputName, roots)

	if v, ok := c.c.Get(key); ok {
		return v.(*Program), nil
	}

	prog, err := Compile(src, outputName, outputType, roots)
	if err != nil {
		return nil, err
	}

	c.c.Set(key, prog, cache.DefaultExpiration)
	return prog, nil
}

// cacheKey hashes the compile inputs that affect the resulting Program.
// The root types themselves aren't hashed, only their names — the host
// schema they're drawn from doesn't change at runtime, only which
// devices are bound to which name.
func cacheKey(src, outputName string, roots map[string]types.Struct) string {
	names := make([]string, 0, len(roots))
	for name := range roots {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	h.Write([]byte(src))
	h.Write([]byte{0})
	h.Write([]byte(outputName))
	for _, name := range names {
		h.Write([]byte{0})
		h.Write([]byte(name))
	}
	return hex.EncodeToString(h.Sum(nil))
}
