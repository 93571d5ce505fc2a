package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical event logs.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemRequests is the RNG subsystem for request-stream generation
	// (uses master seed directly for backward compatibility).
	SubsystemRequests = "requests"

	// SubsystemDispatcher is the RNG subsystem for dispatch tie-breaking
	// and greedy-mode candidate ordering.
	SubsystemDispatcher = "dispatcher"

	// SubsystemRepositioning is the RNG subsystem for repositioning
	// destination sampling.
	SubsystemRepositioning = "repositioning"
)

// SubsystemFleet returns the subsystem name for fleet N, used for
// per-fleet RNG isolation when multiple fleets run independent policies.
func SubsystemFleet(id string) string {
	return fmt.Sprintf("fleet_%s", id)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per
// subsystem: any randomness must be seeded from config so scenarios replay
// deterministically.
//
// Derivation formula:
// - For SubsystemRequests: uses masterSeed directly (backward compatibility)
// - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. The tick loop is single-threaded,
// so this is never accessed concurrently.
type PartitionedRNG struct {
	key SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key: key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem. The same subsystem name always returns the same *rand.Rand
// instance (cached). Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemRequests {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
