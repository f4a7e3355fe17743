// Copyright (c) 2024, Penumbra 3D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestRegistryInterning(t *testing.T) {
	reg := NewRegistry()
	assert.Same(t, reg.Opaque, reg.BucketType("Opaque"))
	assert.Same(t, reg.BucketType("Glow"), reg.BucketType("Glow"))
	assert.NotSame(t, reg.Opaque, reg.Transparent)

	l1 := reg.Layer("UI", 10)
	assert.Same(t, l1, reg.Layer("UI", 99))
	assert.Equal(t, 10, l1.Index) // first registration wins
}

func TestClassifyLegacyFallback(t *testing.T) {
	reg := NewRegistry()
	q := NewQueue(reg)

	group := NewGroup("group")
	group.Bucket = reg.Transparent
	leaf := NewLeaf("leaf")
	leaf.Bucket = reg.Legacy
	assert.NoError(t, group.AddChild(leaf))
	assert.Same(t, reg.Transparent, q.Classify(leaf))

	// nil bucket inherits the same way
	leaf2 := NewLeaf("leaf2")
	assert.NoError(t, group.AddChild(leaf2))
	assert.Same(t, reg.Transparent, q.Classify(leaf2))

	// orphan with no explicit bucket defaults to Opaque
	orphan := NewLeaf("orphan")
	orphan.Bucket = reg.Legacy
	assert.Same(t, reg.Opaque, q.Classify(orphan))

	// an explicit bucket wins over any ancestor
	leaf3 := NewLeaf("leaf3")
	leaf3.Bucket = reg.Opaque
	assert.NoError(t, group.AddChild(leaf3))
	assert.Same(t, reg.Opaque, q.Classify(leaf3))
}

func TestNoneBypassesBuckets(t *testing.T) {
	reg := NewRegistry()
	q := NewQueue(reg)
	q.SetCamera(NewCamera())

	var immediate []string
	q.Immediate = func(l *Leaf) { immediate = append(immediate, l.Name) }

	l := leafAt("now", mgl32.Vec3{1, 0, 0})
	l.Bucket = reg.None
	q.Submit(l)

	assert.Equal(t, []string{"now"}, immediate)
	for _, b := range q.order {
		assert.Equal(t, 0, b.Len())
	}
}

func TestDrawOrderTransparentLast(t *testing.T) {
	reg := NewRegistry()
	q := NewQueue(reg)
	cam := NewCamera()
	q.SetCamera(cam)

	glass := leafAt("glass", mgl32.Vec3{1, 0, 0})
	glass.Bucket = reg.Transparent
	wall := leafAt("wall", mgl32.Vec3{2, 0, 0})
	decal := leafAt("decal", mgl32.Vec3{3, 0, 0})
	decal.Bucket = reg.BucketType("Decal")

	// submit transparent first to prove draw order is not submission order
	q.Submit(glass)
	q.Submit(wall)
	q.Submit(decal)
	q.SortAll()

	var drawn []string
	q.Render(func(l *Leaf) { drawn = append(drawn, l.Name) })
	assert.Equal(t, []string{"wall", "decal", "glass"}, drawn)
}

func TestTransparentSortsBackToFront(t *testing.T) {
	reg := NewRegistry()
	q := NewQueue(reg)
	q.SetCamera(NewCamera())

	for _, c := range []struct {
		name string
		x    float32
	}{{"near", 1}, {"far", 5}, {"mid", 3}} {
		l := leafAt(c.name, mgl32.Vec3{c.x, 0, 0})
		l.Bucket = reg.Transparent
		q.Submit(l)
	}
	q.SortAll()

	var drawn []string
	q.Render(func(l *Leaf) { drawn = append(drawn, l.Name) })
	assert.Equal(t, []string{"far", "mid", "near"}, drawn)
}

func TestLayerFiltering(t *testing.T) {
	reg := NewRegistry()
	q := NewQueue(reg)
	q.SetCamera(NewCamera())
	debug := reg.Layer("Debug", 100)

	l := leafAt("gizmo", mgl32.Vec3{1, 0, 0})
	l.Layer = debug

	q.DisableLayer(debug)
	q.Submit(l)
	assert.Equal(t, 0, q.Bucket(reg.Opaque).Len())

	q.EnableLayer(debug)
	q.Submit(l)
	assert.Equal(t, 1, q.Bucket(reg.Opaque).Len())
}

func TestHiddenLeafSkipped(t *testing.T) {
	reg := NewRegistry()
	q := NewQueue(reg)
	q.SetCamera(NewCamera())

	l := leafAt("ghost", mgl32.Vec3{1, 0, 0})
	l.Hidden = true
	q.Submit(l)
	assert.Equal(t, 0, q.Bucket(reg.Opaque).Len())
}

func TestSceneRenderFrame(t *testing.T) {
	sc := buildFrameScene()

	var drawn []string
	sc.RenderFrame(func(l *Leaf) { drawn = append(drawn, l.Name) })
	// opaque front-to-back, then transparent back-to-front
	assert.Equal(t, []string{"near", "far", "fog", "haze"}, drawn)

	// buckets were flushed; a second frame repopulates cleanly
	drawn = nil
	sc.RenderFrame(func(l *Leaf) { drawn = append(drawn, l.Name) })
	assert.Equal(t, []string{"near", "far", "fog", "haze"}, drawn)
}

// buildFrameScene builds a small scene with two opaque and two transparent
// leaves at known camera distances.
func buildFrameScene() *Scene {
	sc := NewScene("test")
	add := func(name string, x float32, bucket *BucketType) {
		l := NewLeaf(name)
		l.Local.SetPos(mgl32.Vec3{x, 0, 0})
		l.Bucket = bucket
		if err := sc.Root.AddChild(l); err != nil {
			panic(err)
		}
	}
	add("far", 8, nil)
	add("near", 2, nil)
	add("haze", 4, sc.Registry.Transparent)
	add("fog", 6, sc.Registry.Transparent)
	return sc
}
