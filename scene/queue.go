// Copyright (c) 2024, Penumbra 3D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "log/slog"

// TraceQueue, when set, logs per-frame queue statistics at Debug level.
var TraceQueue = false

// Queue routes submitted leaves into one bucket per classification,
// sorts each bucket, and iterates the buckets in draw order: opaque and
// custom buckets in registration order, Transparent always last.
type Queue struct {
	// Immediate is called for leaves classified None, which bypass
	// bucketing entirely and draw unsorted at submission time.
	Immediate func(*Leaf)

	reg      *Registry
	cam      Viewpoint
	buckets  map[*BucketType]*Bucket
	order    []*Bucket
	disabled map[*Layer]bool
}

// NewQueue returns a queue over the given registry's bucket types.
func NewQueue(reg *Registry) *Queue {
	return &Queue{
		reg:      reg,
		buckets:  make(map[*BucketType]*Bucket),
		disabled: make(map[*Layer]bool),
	}
}

// Registry returns the registry this queue classifies against.
func (q *Queue) Registry() *Registry { return q.reg }

// SetCamera sets the viewpoint for distance sorting on all buckets,
// including ones created later.
func (q *Queue) SetCamera(v Viewpoint) {
	q.cam = v
	for _, b := range q.order {
		b.SetCamera(v)
	}
}

// Bucket returns the queue's bucket for the given type, creating it on
// first use.  A Transparent bucket is created with the back-to-front
// comparator.
func (q *Queue) Bucket(bt *BucketType) *Bucket {
	if b, ok := q.buckets[bt]; ok {
		return b
	}
	b := NewBucket(bt)
	b.SetCamera(q.cam)
	if bt == q.reg.Transparent {
		b.SetComparator(DescendingDistance(b))
	}
	q.buckets[bt] = b
	q.order = append(q.order, b)
	return b
}

// Classify resolves the bucket type for l: its own explicit bucket if set,
// else the nearest ancestor's, defaulting to Opaque when no ancestor
// specifies one.  May return None, which is a directive to draw
// immediately, not a bucket membership.
func (q *Queue) Classify(l *Leaf) *BucketType {
	for nb := &l.NodeBase; ; {
		if bt := nb.Bucket; bt != nil && bt != q.reg.Legacy {
			return bt
		}
		if nb.parent == nil {
			return q.reg.Opaque
		}
		nb = &nb.parent.NodeBase
	}
}

// Submit routes l into its classified bucket.  Hidden leaves and leaves on
// a disabled layer are skipped; None leaves go to the Immediate callback.
func (q *Queue) Submit(l *Leaf) {
	if l.Hidden {
		return
	}
	if l.Layer != nil && q.disabled[l.Layer] {
		return
	}
	bt := q.Classify(l)
	if bt == q.reg.None {
		if q.Immediate != nil {
			q.Immediate(l)
		}
		return
	}
	q.Bucket(bt).Add(l)
}

// SubmitTree walks the subtree under root and submits every leaf, skipping
// hidden subtrees.
func (q *Queue) SubmitTree(root Node) {
	switch n := root.(type) {
	case *Leaf:
		q.Submit(n)
	case *Group:
		n.WalkDown(func(c Node) bool {
			if c.AsNodeBase().Hidden {
				return false
			}
			if l, ok := c.(*Leaf); ok {
				q.Submit(l)
			}
			return true
		})
	}
}

// SortAll sorts every bucket with its comparator.
func (q *Queue) SortAll() {
	for _, b := range q.order {
		b.Sort()
	}
}

// Render iterates the buckets in draw order, calling draw for each item.
// Buckets must already be sorted; Render does not sort.
func (q *Queue) Render(draw func(*Leaf)) {
	if TraceQueue {
		n := 0
		for _, b := range q.order {
			n += b.Len()
		}
		slog.Debug("scene: render queue", "buckets", len(q.order), "items", n)
	}
	for _, b := range q.drawOrder() {
		for _, l := range b.Items() {
			draw(l)
		}
	}
}

// drawOrder returns the buckets with Transparent moved to the end; the
// rest keep their registration order.
func (q *Queue) drawOrder() []*Bucket {
	out := make([]*Bucket, 0, len(q.order))
	var trans *Bucket
	for _, b := range q.order {
		if b.Kind == q.reg.Transparent {
			trans = b
			continue
		}
		out = append(out, b)
	}
	if trans != nil {
		out = append(out, trans)
	}
	return out
}

// FlushAll clears every bucket for the next frame, keeping storage.
func (q *Queue) FlushAll() {
	for _, b := range q.order {
		b.Flush()
	}
}

// DisableLayer excludes leaves on l from submission until EnableLayer.
func (q *Queue) DisableLayer(l *Layer) { q.disabled[l] = true }

// EnableLayer re-admits leaves on l.
func (q *Queue) EnableLayer(l *Layer) { delete(q.disabled, l) }
