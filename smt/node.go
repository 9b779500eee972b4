package smt

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// noWorker is the worker index encoding "none": a fresh node has not been
// written by any update yet.
const noWorker = -1

// UpdateId names a single live update. It pairs the index of the worker
// executing the update with that worker's update counter. Counters start at 1
// and are strictly increasing across a worker's successive updates.
type UpdateId struct {
	Worker int
	Count  int
}

// NoUpdate returns the id recorded on nodes that have never been written.
func NoUpdate() UpdateId {
	return UpdateId{Worker: noWorker}
}

func (id UpdateId) String() string {
	return fmt.Sprintf("%d_%d", id.Worker, id.Count)
}

// Node is a single node of the materialised sparse Merkle tree. The tree
// topology (children, parent, key, leaf flag) is fixed at construction and
// may be read without synchronisation; the hash and the live-update metadata
// are guarded by the node's mutex. The visited flag is the batch engine's
// rendezvous bit and is accessed atomically only.
type Node struct {
	mutex sync.Mutex

	hash   string
	left   *Node
	right  *Node
	parent *Node
	key    string
	leaf   bool

	// Live-engine metadata, guarded by mutex: the update that last wrote
	// this node, and the updates that had last written each child at the
	// time of this node's last recomputation.
	lastWriter       UpdateId
	leftChildWriter  UpdateId
	rightChildWriter UpdateId

	// Batch-engine rendezvous flag, reset per batch for conflict nodes.
	visited atomic.Int32
}

// Key returns the binary string naming the root-to-node path, '0' for left
// and '1' for right. It is empty at the root and depth-long at leaves.
func (n *Node) Key() string {
	return n.key
}

// IsLeaf returns true for nodes on the lowest level of the tree.
func (n *Node) IsLeaf() bool {
	return n.leaf
}

// Hash returns the node's current hash under the node's lock, guaranteeing a
// tear-free read. No consistency across multiple nodes is implied.
func (n *Node) Hash() string {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.hash
}
