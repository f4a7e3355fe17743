// Copyright (c) 2024, Penumbra 3D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"github.com/chewxy/math32"

	"github.com/penumbra3d/penumbra/xform"
)

// distUnset marks a leaf's camera distance as not yet computed this frame.
var distUnset = math32.Inf(-1)

// Leaf is a drawable node.  It has no children; its payload is an opaque
// handle (mesh and material, owned elsewhere) that the core passes through
// to the draw callback without interpreting.
type Leaf struct {
	NodeBase

	// Drawable is the payload handed to the draw callback.  The core
	// never dereferences it.
	Drawable any

	// dist is the camera-relative distance for bucket sorting, recomputed
	// once per frame by the bucket holding the leaf.  distUnset before
	// first use each frame.
	dist float32
}

// NewLeaf returns a new orphan leaf with the given name.
func NewLeaf(name string) *Leaf {
	l := &Leaf{dist: distUnset}
	l.init(name)
	return l
}

func (l *Leaf) update(parent *xform.Transform) {
	l.world = l.Local.ComposeWorld(parent)
}

var _ Node = &Leaf{}
