package workload

import (
	"math/rand/v2"
	"sync"
)

// chunkSize is the allocation unit of a churn pass.
const chunkSize = 64 << 10

// Churn allocates garbage between collections so each cycle has something
// to reclaim. A fraction of every pass is kept alive until the next one,
// so the used heap does not drop to zero.
type Churn struct {
	mu       sync.Mutex
	bytes    int
	retain   float64
	retained [][]byte
	rng      *rand.Rand
}

// NewChurn allocates mb MiB per pass and keeps retain (0..1) of it alive.
func NewChurn(mb int, retain float64) *Churn {
	if retain < 0 {
		retain = 0
	}
	if retain > 1 {
		retain = 1
	}
	return &Churn{
		bytes:  mb << 20,
		retain: retain,
		rng:    rand.New(rand.NewPCG(1, 2)),
	}
}

// Run performs one pass and returns the bytes allocated.
func (c *Churn) Run() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	chunks := c.bytes / chunkSize
	keep := int(float64(chunks) * c.retain)
	c.retained = c.retained[:0]
	for i := 0; i < chunks; i++ {
		buf := make([]byte, chunkSize)
		// Touch the pages so they are backed.
		buf[c.rng.IntN(chunkSize)] = 1
		if i < keep {
			c.retained = append(c.retained, buf)
		}
	}
	return chunks * chunkSize
}

// Retained returns the bytes kept alive from the last pass.
func (c *Churn) Retained() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.retained) * chunkSize
}

// Release drops everything retained.
func (c *Churn) Release() {
	c.mu.Lock()
	c.retained = nil
	c.mu.Unlock()
}
