// Package world stands in for the block/entity simulation spec.md treats
// as an opaque collaborator: "World/chunk storage, terrain generation,
// block registry, entity simulation... treated as an opaque WorldTick(Δt)
// callback" (spec.md §1, §4.F). The teacher repo's terrain generator,
// chunk cache, biome and village systems are out of this engine's scope
// and were not carried forward (see DESIGN.md); what remains is the
// narrow seam the server loop calls once per tick.
package world

import "sync"

// Ticker is the opaque collaborator the server loop drives once per
// 50ms tick. A real implementation would advance block updates, entity
// AI, and redstone here; this engine only needs the seam to exist and be
// called with the correct Δt.
type Ticker interface {
	Tick(dt float64)
}

// World is the default Ticker: a seed-addressed placeholder that counts
// ticks and exposes a block-state map for whatever minimal Play-phase
// interaction (e.g. a future BlockChange handler) needs a backing store.
// It intentionally carries no terrain generation.
type World struct {
	mu        sync.RWMutex
	seed      int64
	ticks     uint64
	overrides map[BlockPos]int32
}

// BlockPos addresses a single block cell.
type BlockPos struct {
	X, Y, Z int32
}

// New constructs a World for the given seed.
func New(seed int64) *World {
	return &World{seed: seed, overrides: make(map[BlockPos]int32)}
}

// Seed returns the world seed this instance was constructed with.
func (w *World) Seed() int64 { return w.seed }

// Tick implements Ticker.
func (w *World) Tick(dt float64) {
	w.mu.Lock()
	w.ticks++
	w.mu.Unlock()
}

// Ticks returns the number of Tick calls observed so far.
func (w *World) Ticks() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.ticks
}

// SetBlock records a manual block override, the only mutation this stub
// supports.
func (w *World) SetBlock(pos BlockPos, blockID int32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.overrides[pos] = blockID
}

// GetBlock returns the block state at pos, or 0 (air) if unset.
func (w *World) GetBlock(pos BlockPos) int32 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.overrides[pos]
}
