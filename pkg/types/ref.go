package types

import "fmt"

// NodeRef identifies either the synthetic root or a real node. It replaces
// the bare-integer convention where 0 doubled as both "root" and "no node",
// so a query target can never be confused with the sentinel by accident.
type NodeRef struct {
	id   int64
	root bool
}

// RootRef returns a reference to the synthetic root.
func RootRef() NodeRef {
	return NodeRef{root: true}
}

// Ref returns a reference to the node with the given ID. Non-positive IDs
// normalize to the root reference.
func Ref(id int64) NodeRef {
	if id <= 0 {
		return RootRef()
	}
	return NodeRef{id: id}
}

// IsRoot reports whether the reference names the synthetic root.
func (r NodeRef) IsRoot() bool {
	return r.root
}

// ID returns the referenced node ID and true, or (0, false) for the root.
func (r NodeRef) ID() (int64, bool) {
	if r.root {
		return 0, false
	}
	return r.id, true
}

// String renders the reference for logs and error messages.
func (r NodeRef) String() string {
	if r.root {
		return "root"
	}
	return fmt.Sprintf("node(%d)", r.id)
}
