// Copyright (c) 2024, Penumbra 3D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xform provides the decomposed spatial transform used by scene
// nodes: a translation, a 3x3 rotation basis, and a per-axis scale, with
// cached classification flags that let world composition skip general
// matrix work whenever a cheaper special case applies.
package xform

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// orthoTol is the tolerance for deciding that a 3x3 basis is orthonormal
// (R * R^T == I within this threshold per element).
const orthoTol = 1.0e-5

// Transform is a decomposed spatial transform: translation, rotation basis,
// and scale, applied to a point as rot * (scale * p) + pos.
//
// Three flags are recomputed eagerly by every mutator: identity (the whole
// transform is a no-op), rotMatrix (the 3x3 basis is a pure orthonormal
// rotation, with scale held separately), and uniformScale (all three scale
// components are equal).  When rotMatrix is false the basis carries scale
// folded in and the scale field is pinned at (1,1,1); scale mutators reject
// that state until a pure rotation is re-established with SetRot or
// SetRotQuat.
type Transform struct {
	pos mgl32.Vec3
	rot mgl32.Mat3
	scl mgl32.Vec3

	identity     bool
	rotMatrix    bool
	uniformScale bool
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{
		rot:          mgl32.Ident3(),
		scl:          mgl32.Vec3{1, 1, 1},
		identity:     true,
		rotMatrix:    true,
		uniformScale: true,
	}
}

// Defaults resets the transform to the identity.  Must be called on any
// zero-value Transform before use.
func (t *Transform) Defaults() {
	*t = Identity()
}

// Pos returns the translation component.
func (t *Transform) Pos() mgl32.Vec3 { return t.pos }

// Rot returns the 3x3 basis.  This is a pure rotation only when
// IsRotationMatrix reports true; otherwise scale has been folded in.
func (t *Transform) Rot() mgl32.Mat3 { return t.rot }

// Scale returns the per-axis scale.  Meaningful only when IsRotationMatrix
// reports true; otherwise it is pinned at (1,1,1).
func (t *Transform) Scale() mgl32.Vec3 { return t.scl }

// IsIdentity reports whether the transform is a no-op.
func (t *Transform) IsIdentity() bool { return t.identity }

// IsRotationMatrix reports whether the 3x3 basis is a pure orthonormal
// rotation with scale held separately.
func (t *Transform) IsRotationMatrix() bool { return t.rotMatrix }

// IsUniformScale reports whether all three scale components are equal.
func (t *Transform) IsUniformScale() bool { return t.uniformScale }

// updateFlags recomputes the identity and uniform-scale flags after a
// mutation.  rotMatrix is maintained by the individual mutators.
func (t *Transform) updateFlags() {
	t.uniformScale = t.scl[0] == t.scl[1] && t.scl[1] == t.scl[2]
	t.identity = t.rotMatrix &&
		t.pos == (mgl32.Vec3{}) &&
		t.scl == (mgl32.Vec3{1, 1, 1}) &&
		t.rot == mgl32.Ident3()
}

// SetPos sets the translation component.
func (t *Transform) SetPos(v mgl32.Vec3) {
	t.pos = v
	t.updateFlags()
}

// Move adds delta to the translation component.
func (t *Transform) Move(delta mgl32.Vec3) {
	t.pos = t.pos.Add(delta)
	t.updateFlags()
}

// SetRot sets the 3x3 basis.  If m is orthonormal the transform returns to
// the pure-rotation state and scale mutators become legal again; otherwise
// the basis is taken as carrying its own scale and the scale field is pinned
// at (1,1,1).
func (t *Transform) SetRot(m mgl32.Mat3) {
	t.rot = m
	t.rotMatrix = isRotation(m)
	if !t.rotMatrix {
		t.scl = mgl32.Vec3{1, 1, 1}
	}
	t.updateFlags()
}

// SetRotQuat sets the basis from a quaternion, normalizing first.
// The result is always a pure rotation.
func (t *Transform) SetRotQuat(q mgl32.Quat) {
	t.rot = q.Normalize().Mat4().Mat3()
	t.rotMatrix = true
	t.updateFlags()
}

// SetAxisRotation sets the basis to a rotation of angle degrees about the
// given axis.
func (t *Transform) SetAxisRotation(x, y, z, angle float32) {
	t.SetRotQuat(mgl32.QuatRotate(mgl32.DegToRad(angle), mgl32.Vec3{x, y, z}.Normalize()))
}

// SetEulerRotation sets the basis from euler angles in degrees, applied in
// XYZ order.
func (t *Transform) SetEulerRotation(x, y, z float32) {
	t.SetRotQuat(mgl32.AnglesToQuat(mgl32.DegToRad(x), mgl32.DegToRad(y), mgl32.DegToRad(z), mgl32.XYZ))
}

// RotateBy applies an additional rotation on top of the current basis.
func (t *Transform) RotateBy(q mgl32.Quat) {
	t.rot = q.Normalize().Mat4().Mat3().Mul3(t.rot)
	t.updateFlags()
}

// SetScale sets the per-axis scale.  Panics if any component is <= 0, or if
// the basis is not currently a pure rotation (scale is folded into the basis
// and cannot be set independently until SetRot or SetRotQuat re-establishes
// a pure rotation).
func (t *Transform) SetScale(v mgl32.Vec3) {
	t.checkScalable(v)
	t.scl = v
	t.updateFlags()
}

// SetScaleScalar sets a uniform scale of s on all three axes.
// Same preconditions as SetScale.
func (t *Transform) SetScaleScalar(s float32) {
	t.SetScale(mgl32.Vec3{s, s, s})
}

// ScaleBy multiplies the current scale componentwise by v.
// Same preconditions as SetScale.
func (t *Transform) ScaleBy(v mgl32.Vec3) {
	t.SetScale(mgl32.Vec3{t.scl[0] * v[0], t.scl[1] * v[1], t.scl[2] * v[2]})
}

func (t *Transform) checkScalable(v mgl32.Vec3) {
	if !t.rotMatrix {
		panic("xform: scale mutation on a transform whose basis is not a pure rotation")
	}
	if v[0] <= 0 || v[1] <= 0 || v[2] <= 0 {
		panic(fmt.Sprintf("xform: scale components must be > 0, got %v", v))
	}
}

// isRotation reports whether m is orthonormal within orthoTol.
func isRotation(m mgl32.Mat3) bool {
	return m.Mul3(m.Transpose()).ApproxEqualThreshold(mgl32.Ident3(), orthoTol)
}

// ComposeWorld composes t with a parent world transform, producing the world
// transform of the node owning t: the result applies parent first, then t.
// The cheapest valid path is selected in priority order:
//
//  1. t is the identity: the parent is returned verbatim.
//  2. parent is the identity: t is returned verbatim.
//  3. both bases are pure rotations and t has uniform scale: rotations are
//     multiplied directly and scale stays decomposed, so the result remains
//     a pure-rotation transform.
//  4. general fallback: each side's scale is folded into its basis, the two
//     3x3 blocks are multiplied, and the result is marked as no longer a
//     pure rotation.  Scale is then inseparable from the basis; the scale
//     field reads (1,1,1) and scale mutators reject the result until a
//     pure rotation is re-established.  No decomposition is attempted to
//     recover it.
func (t *Transform) ComposeWorld(parent *Transform) Transform {
	if t.identity {
		return *parent
	}
	if parent.identity {
		return *t
	}
	var w Transform
	if t.rotMatrix && parent.rotMatrix && t.uniformScale {
		s := t.scl[0]
		w.rot = t.rot.Mul3(parent.rot)
		w.pos = t.rot.Mul3x1(parent.pos).Mul(s).Add(t.pos)
		w.scl = parent.scl.Mul(s)
		w.rotMatrix = true
		w.updateFlags()
		return w
	}
	a := t.rot
	if t.rotMatrix {
		a = a.Mul3(mgl32.Diag3(t.scl))
	}
	b := parent.rot
	if parent.rotMatrix {
		b = b.Mul3(mgl32.Diag3(parent.scl))
	}
	w.rot = a.Mul3(b)
	w.pos = a.Mul3x1(parent.pos).Add(t.pos)
	w.scl = mgl32.Vec3{1, 1, 1}
	w.rotMatrix = false
	w.uniformScale = true
	w.identity = false
	return w
}

// Matrix4 flattens the transform into a 4x4 model matrix in mgl32's
// column-major layout: the upper-left 3x3 block is rot * diag(scale) and the
// translation occupies the last column (elements 12..14).  Shaders consuming
// the matrix via Populate should declare the uniform column-major.
func (t *Transform) Matrix4() mgl32.Mat4 {
	if t.identity {
		return mgl32.Ident4()
	}
	m := t.rot
	if t.rotMatrix {
		m = m.Mul3(mgl32.Diag3(t.scl))
	}
	return mgl32.Mat4{
		m[0], m[1], m[2], 0,
		m[3], m[4], m[5], 0,
		m[6], m[7], m[8], 0,
		t.pos[0], t.pos[1], t.pos[2], 1,
	}
}

// Populate writes the 16 floats of the model matrix into buf in column-major
// order (see Matrix4).  Panics if buf holds fewer than 16 elements.
func (t *Transform) Populate(buf []float32) {
	if len(buf) < 16 {
		panic(fmt.Sprintf("xform: Populate requires a buffer of at least 16 floats, got %d", len(buf)))
	}
	m := t.Matrix4()
	copy(buf, m[:])
}

// ApproxEqual reports whether two transforms are equal within tol on every
// component of translation, basis, and scale.
func (t *Transform) ApproxEqual(o *Transform, tol float32) bool {
	for i := 0; i < 3; i++ {
		if math32.Abs(t.pos[i]-o.pos[i]) > tol || math32.Abs(t.scl[i]-o.scl[i]) > tol {
			return false
		}
	}
	for i := 0; i < 9; i++ {
		if math32.Abs(t.rot[i]-o.rot[i]) > tol {
			return false
		}
	}
	return true
}

func (t *Transform) String() string {
	return fmt.Sprintf("Pos: %v, Rot: %v, Scale: %v", t.pos, t.rot, t.scl)
}
