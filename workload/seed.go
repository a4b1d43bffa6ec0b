package workload

import (
	mrand "math/rand"
	"time"
)

// Seeder draws the per-trial seeds. Every variant of a trial receives the
// same seed so the workload content is identical across them.
type Seeder struct {
	rng *mrand.Rand
}

// NewSeeder creates a Seeder from an explicit source seed.
func NewSeeder(seed int64) *Seeder {
	return &Seeder{rng: mrand.New(mrand.NewSource(seed))}
}

// NewTimeSeeder creates a Seeder seeded from the current time.
func NewTimeSeeder() *Seeder {
	return NewSeeder(time.Now().UnixNano())
}

// Next returns a seed drawn uniformly from the full uint32 range.
func (s *Seeder) Next() uint32 {
	return s.rng.Uint32()
}
