package smt

import (
	"fmt"

	"github.com/Rishitha745/MerkleTrees/common"
)

// LiveEngine applies individual updates concurrently, percolating each change
// from leaf to root under fine-grained per-node locking. When the path of one
// update overtakes another at a shared ancestor, the overtaken worker is told
// to abandon its remaining climb through the engine's stop table: every hash
// it would still write is recomputed, from fresher child values, by the
// worker that displaced it.
//
// An engine instance carries the stop table for all workers driving it; the
// same instance must be shared by every worker updating the same tree.
type LiveEngine struct {
	stops *stopTable
}

// NewLiveEngine creates an engine with stop cursors for MaxWorkers workers.
func NewLiveEngine() *LiveEngine {
	return &LiveEngine{stops: newStopTable(MaxWorkers)}
}

// StopCursor returns the current stop cursor of the given worker.
func (e *LiveEngine) StopCursor(worker int) int {
	return e.stops.get(worker)
}

// Update writes the hash of the given value into the leaf named by the key
// and recomputes ancestor hashes up to the root. The id must carry the
// calling worker's own index, with a count strictly greater than any the
// worker used before.
//
// The call may return before reaching the root: when the leaf already holds
// a newer write, or when the worker's own stop cursor advances past the id's
// count mid-climb. In both cases some later update has taken over, or will
// take over, the abandoned recomputations. Every hash written reflects the
// two child hashes observed atomically under lock at write time.
func (e *LiveEngine) Update(tree *Tree, key, value string, id UpdateId) error {
	if id.Worker < 0 || id.Worker >= len(e.stops.cursors) {
		return fmt.Errorf("%w: worker index must be in [0;%d), got %d", common.ErrInvalidArgument, len(e.stops.cursors), id.Worker)
	}
	leaf, err := tree.leafFor(key)
	if err != nil {
		return err
	}

	leaf.mutex.Lock()
	if id.Count <= leaf.lastWriter.Count {
		// A newer update already wrote this leaf; the incoming one is stale.
		leaf.mutex.Unlock()
		return nil
	}
	if last := leaf.lastWriter; last.Worker != id.Worker && last.Worker != noWorker {
		e.stops.advance(last.Worker, last.Count)
	}
	leaf.hash = tree.hasher.Hash([]byte(value))
	leaf.lastWriter = id
	leaf.mutex.Unlock()

	for current := leaf; current != tree.root; {
		parent := current.parent
		parent.mutex.Lock()

		if e.stops.stopped(id) {
			parent.mutex.Unlock()
			return nil
		}

		// If this update is already recorded as the writer feeding this
		// parent from the current side, a second pass would write an
		// identical state.
		if current == parent.left {
			if parent.leftChildWriter == id {
				parent.mutex.Unlock()
				return nil
			}
		} else if parent.rightChildWriter == id {
			parent.mutex.Unlock()
			return nil
		}

		// Read both children atomically with respect to each other so the
		// parent hash reflects a coherent pair. Left before right, always.
		parent.left.mutex.Lock()
		parent.right.mutex.Lock()
		leftHash, leftWriter := parent.left.hash, parent.left.lastWriter
		rightHash, rightWriter := parent.right.hash, parent.right.lastWriter
		parent.right.mutex.Unlock()
		parent.left.mutex.Unlock()

		if last := parent.lastWriter; last.Worker != id.Worker && last.Worker != noWorker {
			// The hash just overwritten came from another worker's climb;
			// everything it would still write above this node is stale.
			e.stops.advance(last.Worker, last.Count)
		}

		parent.hash = tree.hashChildren(leftHash, rightHash)
		parent.leftChildWriter = leftWriter
		parent.rightChildWriter = rightWriter
		parent.lastWriter = id
		parent.mutex.Unlock()

		current = parent
	}
	return nil
}
