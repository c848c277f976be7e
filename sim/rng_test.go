package sim

import (
	"math"
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

func TestDeriveKey_DeterministicAndDistinct(t *testing.T) {
	base := NewSimulationKey(42)
	a := DeriveKey(base, SubsystemReplicate(0))
	b := DeriveKey(base, SubsystemReplicate(0))
	c := DeriveKey(base, SubsystemReplicate(1))

	if a != b {
		t.Errorf("DeriveKey not deterministic: %d != %d", a, b)
	}
	if a == c {
		t.Error("replicates 0 and 1 derived the same key")
	}
	if a == base {
		t.Error("derived key equals base key")
	}
}

// === PartitionedRNG Tests ===

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// BDD: Same key+name produces same sequence
	rng1 := NewPartitionedRNG(NewSimulationKey(42))
	rng2 := NewPartitionedRNG(NewSimulationKey(42))

	for i := 0; i < 3; i++ {
		v1 := rng1.ForSubsystem(SubsystemAssigner).Float64()
		v2 := rng2.ForSubsystem(SubsystemAssigner).Float64()
		if v1 != v2 {
			t.Errorf("Value %d: got %v and %v, want identical", i, v1, v2)
		}
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// BDD: Drawing from subsystem A doesn't affect subsystem B
	rngA := NewPartitionedRNG(NewSimulationKey(42))

	// Draw 10 values from traffic (this should NOT affect assigner)
	for i := 0; i < 10; i++ {
		rngA.ForSubsystem(SubsystemTraffic).Float64()
	}
	aFirst := rngA.ForSubsystem(SubsystemAssigner).Float64()

	fresh := NewPartitionedRNG(NewSimulationKey(42))
	expectedFirst := fresh.ForSubsystem(SubsystemAssigner).Float64()

	if aFirst != expectedFirst {
		t.Errorf("assigner first value = %v, want %v (isolation broken)", aFirst, expectedFirst)
	}
}

func TestPartitionedRNG_TrafficUsesMasterSeed(t *testing.T) {
	// BDD: "traffic" subsystem uses master seed directly
	seed := int64(42)
	rng := NewPartitionedRNG(NewSimulationKey(seed))
	trafficRNG := rng.ForSubsystem(SubsystemTraffic)
	directRNG := newRandFromSeed(seed)

	for i := 0; i < 10; i++ {
		got := trafficRNG.Float64()
		want := directRNG.Float64()
		if got != want {
			t.Errorf("Value %d: traffic RNG = %v, direct RNG = %v", i, got, want)
		}
	}
}

func TestPartitionedRNG_CachesInstance(t *testing.T) {
	// BDD: Same name returns same *rand.Rand instance
	rng := NewPartitionedRNG(NewSimulationKey(42))

	if rng.ForSubsystem(SubsystemTraffic) != rng.ForSubsystem(SubsystemTraffic) {
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

func TestPartitionedRNG_NegativeSeed(t *testing.T) {
	// BDD: MinInt64 seed works correctly
	rng := NewPartitionedRNG(NewSimulationKey(math.MinInt64))

	traffic := rng.ForSubsystem(SubsystemTraffic)
	if traffic == nil {
		t.Fatal("ForSubsystem returned nil with MinInt64 seed")
	}
	val := traffic.Float64()
	if val < 0 || val >= 1 {
		t.Errorf("Float64() returned %v, want [0, 1)", val)
	}
}

func TestPartitionedRNG_LazyInitialization(t *testing.T) {
	// BDD: Subsystems map is empty until ForSubsystem is called
	rng := NewPartitionedRNG(NewSimulationKey(42))

	if len(rng.subsystems) != 0 {
		t.Errorf("New PartitionedRNG has %d subsystems, want 0", len(rng.subsystems))
	}

	rng.ForSubsystem(SubsystemTraffic)

	if len(rng.subsystems) != 1 {
		t.Errorf("After one ForSubsystem call, have %d subsystems, want 1", len(rng.subsystems))
	}
}

// === fnv1a64 Tests ===

func TestFnv1a64_Collision(t *testing.T) {
	// Different subsystem names should produce different hashes (spot check)
	names := []string{
		SubsystemTraffic,
		SubsystemAssigner,
		"replicate_0",
		"replicate_1",
		"replicate_100",
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

func TestSubsystemReplicate(t *testing.T) {
	tests := []struct {
		id   int
		want string
	}{
		{0, "replicate_0"},
		{1, "replicate_1"},
		{100, "replicate_100"},
	}

	for _, tt := range tests {
		if got := SubsystemReplicate(tt.id); got != tt.want {
			t.Errorf("SubsystemReplicate(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

// === Benchmark ===

func BenchmarkPartitionedRNG_ForSubsystem_CacheHit(b *testing.B) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	rng.ForSubsystem(SubsystemTraffic)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rng.ForSubsystem(SubsystemTraffic)
	}
}
