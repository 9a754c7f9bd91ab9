package walk

import "math/rand"

// defaultSeed is the fixed seed used when callers pass seed==0.
const defaultSeed int64 = 1

// NewRand returns a deterministic *rand.Rand.
// Policy: seed==0 ⇒ defaultSeed; otherwise the provided seed verbatim.
// The returned source is not goroutine-safe.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// DeriveSeed mixes a parent seed and a stream id into a new seed
// (SplitMix64 finalizer), so attempt k of a run gets an independent stream.
func DeriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// randomPlan draws k uniform doors from rng.
func randomPlan(rng *rand.Rand, k int) Plan {
	p := make(Plan, k)
	for i := range p {
		p[i] = Door(rng.Intn(DoorCount))
	}

	return p
}
