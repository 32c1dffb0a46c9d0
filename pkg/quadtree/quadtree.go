// This file is part of reachmap (https://github.com/spezifisch/reachmap).
// Copyright (C) 2021-2022 spezifisch <spezifisch-7e6@below.fr> (https://github.com/spezifisch).
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, version 3 of the License.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS
// FOR A PARTICULAR PURPOSE. See the GNU Affero General Public License for more
// details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// Package quadtree indexes payloads by a bounding rectangle that may be larger
// than the quadrant holding its center.
//
// Items are filed by the center of their shape. Every node additionally keeps
// searchBounds, the union of its own bounds and the full extent of every shape
// below it, so a query never misses a wide shape whose center lives in a
// neighbouring quadrant.
package quadtree

import (
	log "github.com/sirupsen/logrus"

	"github.com/spezifisch/reachmap/pkg/geo"
)

const (
	// NodeCapacity is the number of items a leaf holds before it splits
	NodeCapacity = 32

	// MaxDepth stops splitting so that many items sharing one center can't recurse forever
	MaxDepth = 32
)

type entry[T any] struct {
	shape   geo.Bounds
	center  geo.LatLng
	payload T
}

type node[T any] struct {
	bounds       geo.Bounds
	searchBounds geo.Bounds
	depth        int

	// leaf when children is nil
	entries  []entry[T]
	children *[4]node[T]
}

// Tree is a read-only index once built and may be queried concurrently.
type Tree[T any] struct {
	root node[T]
	size int
}

// Build indexes items by the rectangle shapeOf returns for each of them.
// Items with an empty shape (inverted, NaN or infinite) are left out.
func Build[T any](items []T, shapeOf func(T) geo.Bounds) *Tree[T] {
	t := &Tree[T]{}

	entries := make([]entry[T], 0, len(items))
	for _, item := range items {
		shape := shapeOf(item)
		if shape.IsEmpty() {
			log.WithField("shape", shape.String()).Debug("quadtree: skipping empty shape")
			continue
		}
		entries = append(entries, entry[T]{shape: shape, center: shape.Center(), payload: item})
	}
	if len(entries) == 0 {
		t.root = newNode[T](geo.Bounds{}, 0)
		return t
	}

	bounds := geo.PointBounds(entries[0].center)
	for _, e := range entries[1:] {
		bounds = bounds.Extend(geo.PointBounds(e.center))
	}

	t.root = newNode[T](bounds, 0)
	for _, e := range entries {
		if !t.root.insert(e) {
			log.WithField("shape", e.shape.String()).Debug("quadtree: item outside root bounds")
			continue
		}
		t.size++
	}
	return t
}

func newNode[T any](bounds geo.Bounds, depth int) node[T] {
	return node[T]{
		bounds:       bounds,
		searchBounds: bounds,
		depth:        depth,
		entries:      make([]entry[T], 0, 4),
	}
}

// Len returns the number of indexed items
func (t *Tree[T]) Len() int {
	return t.size
}

// SearchBounds covers the full extent of every indexed shape.
func (t *Tree[T]) SearchBounds() geo.Bounds {
	return t.root.searchBounds
}

// Query returns every payload whose shape intersects rect, in no particular order.
func (t *Tree[T]) Query(rect geo.Bounds) []T {
	return t.root.query(rect, nil)
}

// All returns every payload
func (t *Tree[T]) All() []T {
	return t.Query(t.root.searchBounds)
}

func (n *node[T]) insert(e entry[T]) bool {
	if !n.bounds.Contains(e.center) {
		return false
	}

	n.searchBounds = n.searchBounds.Extend(e.shape)

	if n.children == nil {
		if len(n.entries) < NodeCapacity || n.depth >= MaxDepth {
			n.entries = append(n.entries, e)
			return true
		}
		n.subdivide()
	}

	return n.insertIntoChildren(e)
}

func (n *node[T]) insertIntoChildren(e entry[T]) bool {
	for i := range n.children {
		if n.children[i].insert(e) {
			return true
		}
	}
	// unreachable: the quadrants cover n.bounds
	return false
}

// subdivide turns a full leaf into an inner node.
func (n *node[T]) subdivide() {
	quadrants := n.bounds.Quadrants()
	n.children = &[4]node[T]{}
	for i, q := range quadrants {
		n.children[i] = newNode[T](q, n.depth+1)
	}

	entries := n.entries
	n.entries = nil
	for _, e := range entries {
		n.insertIntoChildren(e)
	}
}

func (n *node[T]) query(rect geo.Bounds, out []T) []T {
	if !n.searchBounds.Intersects(rect) {
		return out
	}

	if n.children == nil {
		for _, e := range n.entries {
			if e.shape.Intersects(rect) {
				out = append(out, e.payload)
			}
		}
		return out
	}

	for i := range n.children {
		out = n.children[i].query(rect, out)
	}
	return out
}
