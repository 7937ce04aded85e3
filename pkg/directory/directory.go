// Package directory implements PlayerDirectory: the collection of
// currently connected players keyed by UUID and by peer socket address,
// under one reader-writer lock (spec.md §3, §9).
package directory

import (
	"net"
	"sync"

	"github.com/google/uuid"
)

// Player is the directory's record of a connected player. It is a value
// type (not *Connection) so the directory never reaches back into
// connection-owned state; the connection driver pushes a copy in on
// insert and removes by address on teardown.
type Player struct {
	UUID     uuid.UUID
	Username string
	Addr     string
}

// Directory is the shared, concurrency-safe player registry. Readers
// (Status responses, the tick loop) prefer RLock; writers (connection
// insert/remove) take the write lock only briefly.
type Directory struct {
	mu      sync.RWMutex
	byUUID  map[uuid.UUID]Player
	byAddr  map[string]uuid.UUID
}

// New constructs an empty Directory.
func New() *Directory {
	return &Directory{
		byUUID: make(map[uuid.UUID]Player),
		byAddr: make(map[string]uuid.UUID),
	}
}

// Insert adds player, keyed by both its UUID and addr. Per spec.md's
// invariant, at most one entry exists per peer address; inserting a new
// player at an address already present replaces the stale entry (this
// only happens if a prior removal was missed, e.g. on a panic-recovered
// connection task).
func (d *Directory) Insert(player Player, addr net.Addr) {
	key := addr.String()
	player.Addr = key

	d.mu.Lock()
	defer d.mu.Unlock()
	if old, ok := d.byAddr[key]; ok {
		delete(d.byUUID, old)
	}
	d.byUUID[player.UUID] = player
	d.byAddr[key] = player.UUID
}

// Remove deletes the player (if any) at addr. Safe to call even if no
// player was ever inserted for addr (e.g. a connection that disconnected
// during Status or before LoginSuccess).
func (d *Directory) Remove(addr net.Addr) {
	key := addr.String()

	d.mu.Lock()
	defer d.mu.Unlock()
	id, ok := d.byAddr[key]
	if !ok {
		return
	}
	delete(d.byAddr, key)
	delete(d.byUUID, id)
}

// Count returns the number of currently registered players; consumed by
// the tick loop to refresh Status.Players.Online.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byUUID)
}

// Get looks up a player by UUID.
func (d *Directory) Get(id uuid.UUID) (Player, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.byUUID[id]
	return p, ok
}

// Snapshot returns a copy of every currently registered player, useful
// for building a Status sample list.
func (d *Directory) Snapshot() []Player {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Player, 0, len(d.byUUID))
	for _, p := range d.byUUID {
		out = append(out, p)
	}
	return out
}
