package smt

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Rishitha745/MerkleTrees/common"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Update is a single keyed write of a batch.
type Update struct {
	Key   string
	Value string
}

// BatchEngine applies whole batches of updates using Angela's
// conflict-partition scheme: after sorting the batch by key, the lowest
// common ancestor of every adjacent pair of update paths is marked as a
// conflict node. Below the conflict nodes update paths are disjoint and
// workers climb them in parallel; at each conflict node the first arriving
// worker stops, leaving the recomputation to the last arrival, which by then
// sees both children at their final values.
type BatchEngine struct{}

// NewBatchEngine creates a batch engine. The engine is stateless; all
// per-batch coordination lives in the visited flags of the tree's nodes.
func NewBatchEngine() *BatchEngine {
	return &BatchEngine{}
}

// ProcessBatch applies every update of the batch to the tree using the given
// number of workers and returns the wall-clock time spent between worker
// start and join. An empty batch returns immediately without touching the
// tree.
//
// Batches holding several updates for the same key have no defined surviving
// value; callers wanting last-write-wins semantics must deduplicate first.
func (e *BatchEngine) ProcessBatch(tree *Tree, updates []Update, numWorkers int) (time.Duration, error) {
	if numWorkers <= 0 {
		return 0, fmt.Errorf("%w: number of workers must be positive, got %d", common.ErrInvalidArgument, numWorkers)
	}
	if len(updates) == 0 {
		return 0, nil
	}

	sorted := slices.Clone(updates)
	slices.SortStableFunc(sorted, func(a, b Update) bool {
		return strings.Compare(a.Key, b.Key) < 0
	})

	// Resolve and validate all leaves before any worker starts; an invalid
	// key fails the whole batch with nothing written.
	leaves := make([]*Node, len(sorted))
	for i, update := range sorted {
		leaf, err := tree.leafFor(update.Key)
		if err != nil {
			return 0, err
		}
		leaves[i] = leaf
	}

	// Adjacent keys in sorted order share their longest prefix with no other
	// pair below it; each such prefix names the lowest common ancestor of
	// two update paths.
	conflicts := make(map[string]struct{})
	for i := 0; i+1 < len(sorted); i++ {
		conflicts[commonPrefix(sorted[i].Key, sorted[i+1].Key)] = struct{}{}
	}

	for _, prefix := range maps.Keys(conflicts) {
		node, err := tree.NodeByPrefix(prefix)
		if err != nil {
			return 0, err
		}
		node.visited.Store(0)
	}

	var next atomic.Int64
	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			for {
				idx := int(next.Add(1)) - 1
				if idx >= len(sorted) {
					return
				}
				e.apply(tree, leaves[idx], sorted[idx].Value, conflicts)
			}
		}()
	}
	wg.Wait()

	return time.Since(start), nil
}

// apply writes one leaf and climbs towards the root, stopping at the first
// not-yet-visited conflict node on the way.
func (e *BatchEngine) apply(tree *Tree, leaf *Node, value string, conflicts map[string]struct{}) {
	leaf.mutex.Lock()
	leaf.hash = tree.hasher.Hash([]byte(value))
	leaf.mutex.Unlock()

	for current := leaf; current != tree.root; {
		parent := current.parent
		parent.mutex.Lock()

		if _, isConflict := conflicts[parent.key]; isConflict {
			if parent.visited.CompareAndSwap(0, 1) {
				// First arrival. The partner still climbing towards this
				// node recomputes it once both children are final.
				parent.mutex.Unlock()
				return
			}
		}

		parent.hash = tree.hashChildren(parent.left.hash, parent.right.hash)
		parent.mutex.Unlock()

		current = parent
	}
}

// commonPrefix returns the longest common prefix of two keys.
func commonPrefix(a, b string) string {
	limit := len(a)
	if len(b) < limit {
		limit = len(b)
	}
	i := 0
	for i < limit && a[i] == b[i] {
		i++
	}
	return a[:i]
}
