package smt

import (
	"fmt"

	"github.com/Rishitha745/MerkleTrees/common"
)

const (
	// ErrInvalidDepth is reported when a tree is requested with a negative depth.
	ErrInvalidDepth = common.ConstError("tree depth must be non-negative")

	// ErrInvalidKey is reported when a leaf key has the wrong length or does
	// not name a leaf of the tree.
	ErrInvalidKey = common.ConstError("invalid leaf key")

	// ErrNotLeaf is reported when an update reaches a node marked non-leaf
	// where a leaf was required.
	ErrNotLeaf = common.ConstError("node is not a leaf")
)

// Tree is a sparse Merkle tree of fixed depth, materialised in full: a tree
// of depth D owns all 2^(D+1)-1 nodes from construction to teardown, and no
// node is ever created or destroyed during operation. Every leaf position is
// defined, holding the hash of the empty input until written.
//
// Concurrent readers and writers coexist through per-node locking; the tree
// itself holds no global lock.
type Tree struct {
	root            *Node
	depth           int
	hasher          common.Hasher
	defaultLeafHash string
	leaves          map[string]*Node
}

// NewTree builds the complete tree of the given depth using the default
// SHA-256 hasher.
func NewTree(depth int) (*Tree, error) {
	return NewTreeWithHasher(depth, common.NewSha256Hasher())
}

// NewTreeWithHasher builds the complete tree of the given depth. Every leaf
// is initialised to the hash of the empty input and every internal node to
// the hash of its children's concatenated hashes.
func NewTreeWithHasher(depth int, hasher common.Hasher) (*Tree, error) {
	if depth < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDepth, depth)
	}
	tree := &Tree{
		depth:           depth,
		hasher:          hasher,
		defaultLeafHash: hasher.Hash(nil),
		leaves:          make(map[string]*Node, 1<<depth),
	}
	tree.root = tree.build(depth, nil, "")
	return tree, nil
}

func (t *Tree) build(levels int, parent *Node, prefix string) *Node {
	node := &Node{parent: parent, key: prefix, leaf: levels == 0}
	if levels == 0 {
		node.hash = t.defaultLeafHash
		node.lastWriter = NoUpdate()
		t.leaves[prefix] = node
		return node
	}
	node.left = t.build(levels-1, node, prefix+"0")
	node.right = t.build(levels-1, node, prefix+"1")
	node.hash = t.hashChildren(node.left.hash, node.right.hash)
	node.lastWriter = NoUpdate()
	node.leftChildWriter = NoUpdate()
	node.rightChildWriter = NoUpdate()
	return node
}

// hashChildren combines two child hashes into their parent's hash.
func (t *Tree) hashChildren(left, right string) string {
	return t.hasher.Hash([]byte(left + right))
}

// Depth returns the depth the tree was built with.
func (t *Tree) Depth() int {
	return t.depth
}

// LeafCount returns the number of leaves, 2^depth.
func (t *Tree) LeafCount() int {
	return len(t.leaves)
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// RootHash returns the current root hash under the root's lock.
func (t *Tree) RootHash() string {
	return t.root.Hash()
}

// LeafHash returns the current hash of the leaf named by the given key under
// that leaf's lock.
func (t *Tree) LeafHash(key string) (string, error) {
	leaf, err := t.leafFor(key)
	if err != nil {
		return "", err
	}
	return leaf.Hash(), nil
}

// LeafNode resolves a full-length key to its leaf node.
func (t *Tree) LeafNode(key string) (*Node, error) {
	return t.leafFor(key)
}

// NodeByPrefix descends from the root along the given path prefix, '0'
// selecting the left and '1' the right child.
func (t *Tree) NodeByPrefix(prefix string) (*Node, error) {
	if len(prefix) > t.depth {
		return nil, fmt.Errorf("%w: prefix %q exceeds tree depth %d", ErrInvalidKey, prefix, t.depth)
	}
	current := t.root
	for i := 0; i < len(prefix); i++ {
		switch prefix[i] {
		case '0':
			current = current.left
		case '1':
			current = current.right
		default:
			return nil, fmt.Errorf("%w: prefix %q contains non-binary character", ErrInvalidKey, prefix)
		}
	}
	return current, nil
}

// leafFor validates a key against the tree and resolves its leaf node.
func (t *Tree) leafFor(key string) (*Node, error) {
	if len(key) != t.depth {
		return nil, fmt.Errorf("%w: key %q has length %d, tree depth is %d", ErrInvalidKey, key, len(key), t.depth)
	}
	leaf, exists := t.leaves[key]
	if !exists {
		return nil, fmt.Errorf("%w: no leaf for key %q", ErrInvalidKey, key)
	}
	if !leaf.leaf {
		return nil, fmt.Errorf("%w: node at key %q", ErrNotLeaf, key)
	}
	return leaf, nil
}
