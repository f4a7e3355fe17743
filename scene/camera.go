// Copyright (c) 2024, Penumbra 3D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/penumbra3d/penumbra/xform"
)

// Viewpoint supplies the world-space position that bucket distance sorting
// measures against.  Camera satisfies it; so does anything else with a
// position (a light rendering a shadow pass, for example).
type Viewpoint interface {
	WorldPosition() mgl32.Vec3
}

// Camera is the active viewpoint for a frame.  Only its pose participates
// in this core; projection and frustum state belong to the renderer.
type Camera struct {
	// Pose is the camera's world transform.
	Pose xform.Transform
}

// NewCamera returns a camera with an identity pose.
func NewCamera() *Camera {
	c := &Camera{}
	c.Pose.Defaults()
	return c
}

// WorldPosition returns the camera's world-space position.
func (c *Camera) WorldPosition() mgl32.Vec3 { return c.Pose.Pos() }

var _ Viewpoint = &Camera{}
