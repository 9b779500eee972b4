package smt

// UpdateSerial writes the hash of the given value into the leaf named by the
// key and recomputes every ancestor's hash bottom-up, without any
// synchronisation. It is the reference oracle defining the canonical
// semantics both concurrent engines must reproduce; it must not run
// concurrently with anything else touching the tree.
func UpdateSerial(tree *Tree, key, value string) error {
	leaf, err := tree.leafFor(key)
	if err != nil {
		return err
	}
	leaf.hash = tree.hasher.Hash([]byte(value))

	for current := leaf; current != tree.root; {
		parent := current.parent
		parent.hash = tree.hashChildren(parent.left.hash, parent.right.hash)
		current = parent
	}
	return nil
}
