// Copyright (c) 2024, Penumbra 3D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"

	"github.com/penumbra3d/penumbra/xform"
)

// Group collects child nodes but carries no drawable of its own.  Its
// transform applies to everything under it.  A Group owns its children
// exclusively: a child belongs to at most one parent at a time, and
// AddChild detaches from any previous parent first.
type Group struct {
	NodeBase

	// Children in insertion order.  Position carries no meaning beyond
	// traversal order.
	Children []Node
}

// NewGroup returns a new orphan group with the given name.
func NewGroup(name string) *Group {
	g := &Group{}
	g.init(name)
	return g
}

// AddChild appends child to this group, detaching it from its current
// parent first if it has one.  Returns an error, leaving the graph
// unchanged, if child is this group or one of its ancestors (the attach
// would create a cycle).
func (g *Group) AddChild(child Node) error {
	if cg, ok := child.(*Group); ok {
		for anc := g; anc != nil; anc = anc.parent {
			if anc == cg {
				return fmt.Errorf("scene: attaching %q to %q would create a cycle", cg.Name, g.Name)
			}
		}
	}
	cb := child.AsNodeBase()
	if cb.parent != nil {
		cb.parent.RemoveChild(child)
	}
	cb.parent = g
	g.Children = append(g.Children, child)
	return nil
}

// RemoveChild detaches child from this group, preserving the order of the
// remaining children.  Reports whether child was found.
func (g *Group) RemoveChild(child Node) bool {
	cb := child.AsNodeBase()
	for i, c := range g.Children {
		if c.AsNodeBase() == cb {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			cb.parent = nil
			return true
		}
	}
	return false
}

// Detach removes child from its parent.  No-op if child is already an
// orphan.
func Detach(child Node) {
	if p := child.AsNodeBase().parent; p != nil {
		p.RemoveChild(child)
	}
}

// ChildByName returns the first direct child with the given name, or nil.
func (g *Group) ChildByName(name string) Node {
	for _, c := range g.Children {
		if c.AsNodeBase().Name == name {
			return c
		}
	}
	return nil
}

func (g *Group) update(parent *xform.Transform) {
	g.world = g.Local.ComposeWorld(parent)
	for _, c := range g.Children {
		c.update(&g.world)
	}
}

// WalkDown traverses the subtree rooted at g in pre-order, calling fn on
// every node.  If fn returns false for a Group, its children are skipped.
func (g *Group) WalkDown(fn func(Node) bool) {
	if !fn(g) {
		return
	}
	for _, c := range g.Children {
		if cg, ok := c.(*Group); ok {
			cg.WalkDown(fn)
		} else {
			fn(c)
		}
	}
}

var _ Node = &Group{}
