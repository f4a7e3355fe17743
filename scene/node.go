// Copyright (c) 2024, Penumbra 3D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene implements the transform-and-visibility core of the
// renderer: the node hierarchy that owns spatial state, the per-frame
// geometric-state update that composes world transforms top-down, and the
// bucket classification and sorting of leaves for drawing.
//
// The graph is a tree with exactly two node kinds: Group collects children
// and Leaf carries a drawable payload.  A caller drives one frame by calling
// UpdateGeometricState on the root, submitting visible leaves into a Queue,
// sorting, and iterating the buckets in draw order.  All of it is
// single-threaded: nothing here locks, and concurrent mutation of the same
// graph or bucket is a caller bug.  Threads that populate leaves in parallel
// must each fill a private Bucket and Merge the results on one thread.
package scene

import (
	"strings"

	"github.com/penumbra3d/penumbra/xform"
)

// Node is a node in the scene graph.  Exactly two implementations exist:
// Group and Leaf.
type Node interface {
	// AsNodeBase returns the embedded NodeBase for this node.
	AsNodeBase() *NodeBase

	// update refreshes this node's world transform from the given parent
	// world transform, then recurses into children.
	update(parent *xform.Transform)
}

// NodeBase is the state shared by Group and Leaf: a name, the non-owning
// parent back-reference, the local transform, and the cached world
// transform.  The world cache is only written by UpdateGeometricState; it
// reads as the identity before the first update.
type NodeBase struct {
	// Name identifies the node for debugging and ChildByName lookup.
	Name string

	// Local is this node's transform relative to its parent.
	Local xform.Transform

	// Bucket is the render bucket this node is assigned to.  nil or the
	// registry's Legacy sentinel means inherit from the nearest ancestor
	// with an explicit bucket, defaulting to Opaque at the root.
	Bucket *BucketType

	// Layer is the render layer used for queue filtering; nil means
	// always submitted.
	Layer *Layer

	// Hidden excludes this node, and for a Group its whole subtree, from
	// submission.  Geometric state is still updated.
	Hidden bool

	world  xform.Transform
	parent *Group
}

func (nb *NodeBase) init(name string) {
	nb.Name = name
	nb.Local.Defaults()
	nb.world.Defaults()
}

func (nb *NodeBase) AsNodeBase() *NodeBase { return nb }

// World returns the cached world transform, valid immediately after the
// last UpdateGeometricState that covered this node.
func (nb *NodeBase) World() *xform.Transform { return &nb.world }

// Parent returns the owning group, or nil for an orphan.
func (nb *NodeBase) Parent() *Group { return nb.parent }

// IsOrphan reports whether the node has no parent.
func (nb *NodeBase) IsOrphan() bool { return nb.parent == nil }

// Path returns the slash-separated names from the root down to this node.
func (nb *NodeBase) Path() string {
	var names []string
	for n := nb; n != nil; {
		names = append(names, n.Name)
		if n.parent == nil {
			break
		}
		n = &n.parent.NodeBase
	}
	var sb strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		sb.WriteString("/")
		sb.WriteString(names[i])
	}
	return sb.String()
}

var identityWorld = xform.Identity()

// UpdateGeometricState refreshes the world transform of n and everything
// under it, top-down: each node's world transform is composed strictly
// after its parent's has been refreshed.  An orphan composes against the
// identity; an attached node composes against its parent's cached world,
// so calling this on an interior node uses whatever the parent's cache
// currently holds.
func UpdateGeometricState(n Node) {
	nb := n.AsNodeBase()
	if nb.parent == nil {
		n.update(&identityWorld)
	} else {
		n.update(nb.parent.World())
	}
}
