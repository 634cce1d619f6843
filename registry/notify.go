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

package registry

import (
	"sync"

	"github.com/google/uuid"
)

// channelSet is the short-mutex-guarded collection of subscription
// channels installed on one device record's views. Each view may hold at
// most one entry; registering a second replaces the first (see View's
// RegisterChannel).
type channelSet struct {
	mu       sync.Mutex
	next     int
	channels map[int]chan<- uuid.UUID
}

func newChannelSet() *channelSet {
	return &channelSet{channels: make(map[int]chan<- uuid.UUID)}
}

// add installs ch and returns a token used to remove it later.
func (s *channelSet) add(ch chan<- uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := s.next
	s.next++
	s.channels[token] = ch
	return token
}

// remove uninstalls the channel registered under token, if any.
func (s *channelSet) remove(token int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.channels, token)
}

// notify sends id into every installed channel using non-blocking
// semantics: a full channel is treated as already notified and skipped,
// never blocking the writer. This yields the coalescing property in
// spec §4.3 — a burst of writes collapses to at most the channel's
// capacity worth of outstanding notifications.
//
// Go channels have no "disconnected" signal the way spec §4.3 describes
// for its sender/receiver pair; a view instead explicitly unregisters
// its channel when it is closed (see View.Close), which is the
// idiomatic equivalent of the spec's disconnect-and-remove behavior.
func (s *channelSet) notify(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.channels {
		select {
		case ch <- id:
		default:
		}
	}
}
