package sim

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey is the seed of a run. The same key, layout and commands replay
// the same orders and processing delays.
type SimulationKey int64

func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Random streams drawn by the engine and the CLI.
const (
	// SubsystemOrders is seeded with the key itself, so `order --seed N`
	// prints round 1 of `play --seed N`.
	SubsystemOrders     = "orders"
	SubsystemProcessing = "processing"
	SubsystemInventory  = "inventory"
)

// seedFor derives the seed of one stream: the key for orders, otherwise the
// key XOR the FNV-1a hash of the stream name.
func (k SimulationKey) seedFor(stream string) int64 {
	if stream == SubsystemOrders {
		return int64(k)
	}
	return int64(k) ^ streamSalt(stream)
}

func streamSalt(stream string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(stream))
	return int64(h.Sum64())
}

// PartitionedRNG hands out one lazily created *rand.Rand per stream, so extra
// draws on one stream never shift another. Not safe for concurrent use.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, streams: map[string]*rand.Rand{}}
}

// ForSubsystem returns the stream for name, creating it on first use.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	r, ok := p.streams[name]
	if !ok {
		r = rand.New(rand.NewSource(p.key.seedFor(name)))
		p.streams[name] = r
	}
	return r
}

func (p *PartitionedRNG) Key() SimulationKey { return p.key }
