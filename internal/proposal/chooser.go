package proposal

import (
	"math/rand/v2"
	"sync"
)

// Chooser picks an index in [0, n). Implementations used by a shared
// Generator must be safe for concurrent use.
type Chooser interface {
	IntN(n int) int
}

type globalChooser struct{}

func (globalChooser) IntN(n int) int { return rand.IntN(n) }

// DefaultChooser uses the package-level math/rand/v2 source, which is safe
// for concurrent use.
func DefaultChooser() Chooser { return globalChooser{} }

// lockedChooser serializes access to a PCG source, which is not safe for
// concurrent use on its own.
type lockedChooser struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (c *lockedChooser) IntN(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.r.IntN(n)
}

// NewSeededChooser returns a reproducible chooser that is safe for concurrent
// use. Identical seeds yield identical proposals for the same sequence of
// calls; concurrent callers interleave on one stream.
func NewSeededChooser(seed uint64) Chooser {
	return &lockedChooser{r: rand.New(rand.NewPCG(seed, seed))}
}
