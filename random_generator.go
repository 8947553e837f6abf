package lottery

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"sync"
)

// RandomGenerator is the source of uniformly distributed integers used by the Sampler
type RandomGenerator interface {
	// GenerateInRange returns a uniformly distributed integer in [min, max] (inclusive)
	GenerateInRange(min, max int) (int, error)
}

// SecureRandomGenerator implements secure random number generation using crypto/rand with caching
type SecureRandomGenerator struct {
	cache      []float64
	cacheSize  int
	cacheIndex int
	cacheMtx   sync.Mutex
}

// NewSecureRandomGenerator creates a new fast secure random generator with specified cache size
//
// If no cache size is provided, the default cache size will be used.
// The cache size should be a positive integer.
func NewSecureRandomGenerator(cacheSize ...int) *SecureRandomGenerator {
	size := DefaultFastRandomGeneratorCacheSize
	if len(cacheSize) > 0 && cacheSize[0] > 0 {
		size = cacheSize[0]
	}

	generator := &SecureRandomGenerator{
		cache:     make([]float64, size),
		cacheSize: size,
	}

	// 预填充缓存
	generator.refillCache()
	return generator
}

// refillCache refills the random number cache
func (g *SecureRandomGenerator) refillCache() {
	for i := range g.cacheSize {
		val, err := generateFloat()
		if err != nil {
			// crypto/rand 失败时退回到 math/rand
			val = mrand.Float64()
		}
		g.cache[i] = val
	}

	g.cacheIndex = 0
}

// GenerateFloat generates a fast secure random float between 0 and 1 (exclusive of 1)
func (g *SecureRandomGenerator) GenerateFloat() (float64, error) {
	g.cacheMtx.Lock()
	defer g.cacheMtx.Unlock()

	if g.cacheIndex >= g.cacheSize {
		g.refillCache()
	}

	result := g.cache[g.cacheIndex]
	g.cacheIndex++
	return result, nil
}

// GenerateInRange generates a fast secure random number within the specified range [min, max] (inclusive)
func (g *SecureRandomGenerator) GenerateInRange(min, max int) (int, error) {
	if min > max {
		return 0, ErrInvalidRange
	}

	if min == max {
		return min, nil
	}

	randomFloat, err := g.GenerateFloat()
	if err != nil {
		return 0, err
	}

	rangeSize := max - min + 1
	result := int(randomFloat*float64(rangeSize)) + min

	// floating point precision guard
	if result > max {
		result = max
	}

	return result, nil
}

// generateFloat generates a secure random float between 0 and 1 (exclusive of 1)
func generateFloat() (float64, error) {
	randomBig, err := rand.Int(rand.Reader, big.NewInt(1<<53)) // Use 53 bits for precision
	if err != nil {
		return 0, err
	}

	return float64(randomBig.Int64()) / float64(1<<53), nil
}

// SeededRandomGenerator is a reproducible PCG-backed generator.
// Two generators built from the same seed yield the same sequence.
type SeededRandomGenerator struct {
	mu   sync.Mutex
	rng  *mrand.Rand
	seed uint64
}

// NewSeededRandomGenerator creates a deterministic generator for tests and replayable runs
func NewSeededRandomGenerator(seed uint64) *SeededRandomGenerator {
	return &SeededRandomGenerator{
		rng:  mrand.New(mrand.NewPCG(seed, 0)),
		seed: seed,
	}
}

// Seed returns the seed the generator was created with
func (g *SeededRandomGenerator) Seed() uint64 { return g.seed }

// GenerateInRange returns a uniformly distributed integer in [min, max]
func (g *SeededRandomGenerator) GenerateInRange(min, max int) (int, error) {
	if min > max {
		return 0, ErrInvalidRange
	}
	if min == max {
		return min, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	return min + g.rng.IntN(max-min+1), nil
}
