package ccd

import (
	"sort"
	"sync"

	"go.uber.org/multierr"
)

// Impact records one confirmed collision: the conservative time of impact,
// the global edge (2D) or face (3D) index, the global vertex index, and the
// edge/face parameter of the contact point at the time of impact.
type Impact struct {
	Time       float64
	EdgeOrFace int
	Vertex     int
	Alpha      float64
}

// Candidate is one (vertex, edge-or-face) global index pair the broad phase
// proposes for a continuous-collision test.
type Candidate struct {
	Vertex     int
	EdgeOrFace int
}

// BroadPhase is the external collaborator contract: given the inflation
// factor on candidate displacement, return the global index pairs whose
// swept bounds could touch during the step. The core never implements this;
// the driver binary plugs in a trivial AABB sweep.
type BroadPhase interface {
	Candidates(collisionEps float64) []Candidate
}

// ParallelQuery runs query over the index range [0, n) on a fixed pool of
// workers and returns the confirmed impacts sorted by non-decreasing Time,
// ties broken by input index, so the reduction is deterministic regardless
// of worker scheduling. Each query must only read immutable geometry
// and the step's pose pair. Query errors from distinct pairs are combined
// rather than dropped after the first.
func ParallelQuery(n, workers int, query func(i int) (Impact, bool, error)) ([]Impact, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	type slot struct {
		impact Impact
		hit    bool
		err    error
	}
	slots := make([]slot, n)

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				impact, hit, err := query(i)
				slots[i] = slot{impact: impact, hit: hit, err: err}
			}
		}()
	}
	for i := 0; i < n; i++ {
		indices <- i
	}
	close(indices)
	wg.Wait()

	var err error
	impacts := make([]Impact, 0, n)
	for i := range slots {
		if slots[i].err != nil {
			err = multierr.Append(err, slots[i].err)
		}
		// A query may report a hit alongside ErrTolerancesExhausted; the
		// conservative bound is still usable.
		if slots[i].hit {
			impacts = append(impacts, slots[i].impact)
		}
	}
	// Input order is the insertion order, so a stable sort gives the tie
	// break for free.
	sort.SliceStable(impacts, func(a, b int) bool { return impacts[a].Time < impacts[b].Time })
	return impacts, err
}
