// Copyright (c) 2024, Penumbra 3D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

// leafAt returns an updated orphan leaf at the given world position.
func leafAt(name string, pos mgl32.Vec3) *Leaf {
	l := NewLeaf(name)
	l.Local.SetPos(pos)
	UpdateGeometricState(l)
	return l
}

func newTestBucket() (*Bucket, *Camera) {
	reg := NewRegistry()
	b := NewBucket(reg.Opaque)
	cam := NewCamera()
	b.SetCamera(cam)
	return b, cam
}

func TestBucketGrowth(t *testing.T) {
	b, _ := newTestBucket()
	const n = 40 // more than double the initial capacity
	for i := 0; i < n; i++ {
		b.Add(leafAt(fmt.Sprintf("leaf%d", i), mgl32.Vec3{float32(i), 0, 0}))
	}
	assert.Equal(t, n, b.Len())
	for i, l := range b.Items() {
		assert.Equal(t, fmt.Sprintf("leaf%d", i), l.Name)
	}
}

func TestSortAscendingDescending(t *testing.T) {
	b, _ := newTestBucket()
	b.Add(leafAt("far", mgl32.Vec3{5, 0, 0}))
	b.Add(leafAt("near", mgl32.Vec3{1, 0, 0}))
	b.Add(leafAt("mid", mgl32.Vec3{3, 0, 0}))

	b.Sort()
	names := func() []string {
		var out []string
		for _, l := range b.Items() {
			out = append(out, l.Name)
		}
		return out
	}
	assert.Equal(t, []string{"near", "mid", "far"}, names())

	b.SetComparator(DescendingDistance(b))
	b.Sort()
	assert.Equal(t, []string{"far", "mid", "near"}, names())
}

func TestSortFewItemsNoOp(t *testing.T) {
	b, _ := newTestBucket()
	b.SetComparator(nil)
	assert.NotPanics(t, func() { b.Sort() }) // empty: no-op before the nil check
	b.Add(leafAt("only", mgl32.Vec3{1, 0, 0}))
	assert.NotPanics(t, func() { b.Sort() })
	b.Add(leafAt("second", mgl32.Vec3{2, 0, 0}))
	assert.Panics(t, func() { b.Sort() })
}

func TestDistanceMemoization(t *testing.T) {
	b, cam := newTestBucket()
	l := leafAt("l", mgl32.Vec3{3, 4, 0})
	b.Add(l)

	d1 := b.Distance(l)
	assert.InDelta(t, 5, d1, 1.0e-6)
	d2 := b.Distance(l)
	assert.Equal(t, d1, d2)

	// the cache holds even if the camera moves mid-frame; Add resets it
	cam.Pose.SetPos(mgl32.Vec3{100, 0, 0})
	assert.Equal(t, d1, b.Distance(l))
	b.Flush()
	b.Add(l)
	assert.InDelta(t, 97.082, b.Distance(l), 1.0e-2)
}

func TestDistanceWithoutCameraPanics(t *testing.T) {
	reg := NewRegistry()
	b := NewBucket(reg.Opaque)
	l := leafAt("l", mgl32.Vec3{1, 0, 0})
	b.Add(l)
	assert.Panics(t, func() { b.Distance(l) })
}

func TestMergeThenSort(t *testing.T) {
	b1, cam := newTestBucket()
	b2 := NewBucket(b1.Kind)
	b2.SetCamera(cam)

	b1.Add(leafAt("d4", mgl32.Vec3{4, 0, 0}))
	b2.Add(leafAt("d2", mgl32.Vec3{2, 0, 0}))
	b2.Add(leafAt("d6", mgl32.Vec3{6, 0, 0}))

	b1.Merge(b2)
	assert.Equal(t, 3, b1.Len())
	assert.Equal(t, 2, b2.Len())

	b1.Sort()
	var names []string
	for _, l := range b1.Items() {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"d2", "d4", "d6"}, names)
}

func TestFlushKeepsStorage(t *testing.T) {
	b, _ := newTestBucket()
	for i := 0; i < 20; i++ {
		b.Add(leafAt(fmt.Sprintf("l%d", i), mgl32.Vec3{float32(i), 0, 0}))
	}
	grown := cap(b.items)
	b.Flush()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, grown, cap(b.items))

	b.Add(leafAt("again", mgl32.Vec3{1, 0, 0}))
	assert.Equal(t, 1, b.Len())
}
