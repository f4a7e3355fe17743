// Copyright (c) 2024, Penumbra 3D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

// Scene ties together the pieces of one rendering surface: the root of the
// node hierarchy, the active camera, the registry of bucket types and
// layers, and the queue that orders leaves for drawing.  It is a
// convenience wrapper; everything it does can be driven piecewise.
type Scene struct {
	// Root is the top of the node hierarchy.
	Root *Group

	// Camera is the active viewpoint.
	Camera *Camera

	// Registry interns the scene's bucket types and layers.
	Registry *Registry

	// Queue classifies and orders leaves each frame.
	Queue *Queue
}

// NewScene returns a scene with an empty root group, a default camera, and
// a fresh registry and queue wired to it.
func NewScene(name string) *Scene {
	sc := &Scene{
		Root:     NewGroup(name),
		Camera:   NewCamera(),
		Registry: NewRegistry(),
	}
	sc.Queue = NewQueue(sc.Registry)
	sc.Queue.SetCamera(sc.Camera)
	return sc
}

// UpdateNodes refreshes the world transform of every node in the scene,
// top-down from the root.
func (sc *Scene) UpdateNodes() {
	UpdateGeometricState(sc.Root)
}

// RenderFrame runs one full frame: update geometric state, submit every
// visible leaf, sort the buckets, iterate them in draw order calling draw,
// then flush the buckets for reuse.
func (sc *Scene) RenderFrame(draw func(*Leaf)) {
	sc.UpdateNodes()
	sc.Queue.SubmitTree(sc.Root)
	sc.Queue.SortAll()
	sc.Queue.Render(draw)
	sc.Queue.FlushAll()
}
