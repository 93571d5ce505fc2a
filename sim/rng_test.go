package sim

import (
	"math"
	"math/rand"
	"testing"
)

// === SimulationKey Tests ===

func TestSimulationKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
		{"min int64", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewSimulationKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewSimulationKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

// === PartitionedRNG Tests ===

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// BDD: Same key+name produces same sequence
	rng1 := NewPartitionedRNG(NewSimulationKey(42))
	rng2 := NewPartitionedRNG(NewSimulationKey(42))

	vals1 := make([]float64, 3)
	vals2 := make([]float64, 3)

	for i := 0; i < 3; i++ {
		vals1[i] = rng1.ForSubsystem(SubsystemDispatcher).Float64()
	}
	for i := 0; i < 3; i++ {
		vals2[i] = rng2.ForSubsystem(SubsystemDispatcher).Float64()
	}

	for i := 0; i < 3; i++ {
		if vals1[i] != vals2[i] {
			t.Errorf("Value %d: got %v and %v, want identical", i, vals1[i], vals2[i])
		}
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// BDD: Drawing from subsystem A doesn't affect subsystem B
	rngA := NewPartitionedRNG(NewSimulationKey(42))
	rngB := NewPartitionedRNG(NewSimulationKey(42))

	// Draw 10 values from A's requests subsystem (should NOT affect dispatcher)
	for i := 0; i < 10; i++ {
		rngA.ForSubsystem(SubsystemRequests).Float64()
	}

	// Draw 5 values from B's dispatcher subsystem
	for i := 0; i < 5; i++ {
		rngB.ForSubsystem(SubsystemDispatcher).Float64()
	}

	aDispatcherFirst := rngA.ForSubsystem(SubsystemDispatcher).Float64()
	bDispatcherSixth := rngB.ForSubsystem(SubsystemDispatcher).Float64()

	fresh := NewPartitionedRNG(NewSimulationKey(42))
	expectedFirst := fresh.ForSubsystem(SubsystemDispatcher).Float64()

	if aDispatcherFirst != expectedFirst {
		t.Errorf("A's dispatcher first value = %v, want %v (isolation broken)", aDispatcherFirst, expectedFirst)
	}

	if bDispatcherSixth == expectedFirst {
		t.Error("B's 6th dispatcher value equals 1st value - unexpected")
	}
}

func TestPartitionedRNG_RequestsBackwardCompat(t *testing.T) {
	// BDD: "requests" subsystem uses master seed directly
	seed := int64(42)
	rng := NewPartitionedRNG(NewSimulationKey(seed))

	requestsRNG := rng.ForSubsystem(SubsystemRequests)
	directRNG := newRandFromSeed(seed)

	for i := 0; i < 10; i++ {
		got := requestsRNG.Float64()
		want := directRNG.Float64()
		if got != want {
			t.Errorf("Value %d: requests RNG = %v, direct RNG = %v", i, got, want)
		}
	}
}

func TestPartitionedRNG_CachesInstance(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))

	rng1 := rng.ForSubsystem(SubsystemRequests)
	rng2 := rng.ForSubsystem(SubsystemRequests)

	if rng1 != rng2 {
		t.Error("ForSubsystem returned different instances for same name")
	}
}

func TestPartitionedRNG_Key(t *testing.T) {
	seed := int64(12345)
	rng := NewPartitionedRNG(NewSimulationKey(seed))

	if rng.Key() != SimulationKey(seed) {
		t.Errorf("Key() = %v, want %v", rng.Key(), seed)
	}
}

func TestPartitionedRNG_EmptySubsystemName(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	result := rng.ForSubsystem("")

	if result == nil {
		t.Error("ForSubsystem(\"\") returned nil")
	}

	rng3 := NewPartitionedRNG(NewSimulationKey(42))
	val1 := result.Float64()
	val2 := rng3.ForSubsystem("").Float64()

	if val1 != val2 {
		t.Errorf("Empty subsystem not deterministic: %v != %v", val1, val2)
	}
}

func TestPartitionedRNG_ZeroSeed(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(0))

	requests := rng.ForSubsystem(SubsystemRequests)
	dispatcher := rng.ForSubsystem(SubsystemDispatcher)

	if requests == nil || dispatcher == nil {
		t.Error("ForSubsystem returned nil with zero seed")
	}

	directRNG := newRandFromSeed(0)
	if requests.Float64() != directRNG.Float64() {
		t.Error("Requests with seed 0 not matching direct RNG")
	}
}

func TestPartitionedRNG_NegativeSeed(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(math.MinInt64))

	requests := rng.ForSubsystem(SubsystemRequests)
	dispatcher := rng.ForSubsystem(SubsystemDispatcher)

	if requests == nil || dispatcher == nil {
		t.Error("ForSubsystem returned nil with MinInt64 seed")
	}

	val := requests.Float64()
	if val < 0 || val >= 1 {
		t.Errorf("Float64() returned %v, want [0, 1)", val)
	}
}

func TestPartitionedRNG_LazyInitialization(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))

	if len(rng.subsystems) != 0 {
		t.Errorf("New PartitionedRNG has %d subsystems, want 0", len(rng.subsystems))
	}

	rng.ForSubsystem(SubsystemRequests)

	if len(rng.subsystems) != 1 {
		t.Errorf("After one ForSubsystem call, have %d subsystems, want 1", len(rng.subsystems))
	}
}

// === fnv1a64 Tests ===

func TestFnv1a64_Deterministic(t *testing.T) {
	input := "test_subsystem"
	hash1 := fnv1a64(input)
	hash2 := fnv1a64(input)

	if hash1 != hash2 {
		t.Errorf("fnv1a64(%q) not deterministic: %v != %v", input, hash1, hash2)
	}
}

func TestFnv1a64_Collision(t *testing.T) {
	names := []string{
		SubsystemRequests,
		SubsystemDispatcher,
		SubsystemRepositioning,
		"fleet_0",
		"fleet_1",
		"",
	}

	hashes := make(map[int64]string)
	for _, name := range names {
		h := fnv1a64(name)
		if existing, ok := hashes[h]; ok {
			t.Errorf("Hash collision: %q and %q both hash to %d", name, existing, h)
		}
		hashes[h] = name
	}
}

// === SubsystemFleet Tests ===

func TestSubsystemFleet(t *testing.T) {
	tests := []struct {
		id string
		want string
	}{
		{"0", "fleet_0"},
		{"alpha", "fleet_alpha"},
	}

	for _, tt := range tests {
		got := SubsystemFleet(tt.id)
		if got != tt.want {
			t.Errorf("SubsystemFleet(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

// === Benchmark ===

func BenchmarkPartitionedRNG_ForSubsystem_CacheHit(b *testing.B) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	rng.ForSubsystem(SubsystemRequests)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rng.ForSubsystem(SubsystemRequests)
	}
}

func BenchmarkPartitionedRNG_ForSubsystem_CacheMiss(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rng := NewPartitionedRNG(NewSimulationKey(42))
		rng.ForSubsystem(SubsystemRequests)
	}
}

// === Helper ===

func newRandFromSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
