package surface

import "testing"

func TestTileReplacementQueueMarkTileRenderedMovesToHead(t *testing.T) {
	q := NewTileReplacementQueue()
	a, b, c := newTestTile(), newTestTile(), newTestTile()
	q.MarkTileRendered(a, 1)
	q.MarkTileRendered(b, 1)
	q.MarkTileRendered(c, 1)

	if q.head != c {
		t.Fatalf("head = %p, want most recently touched tile %p", q.head, c)
	}

	q.MarkTileRendered(a, 1) // touch a again: should move to head
	if q.head != a {
		t.Errorf("head = %p, want %p after re-touching a", q.head, a)
	}
	if q.Len() != 3 {
		t.Errorf("Len() = %d, want 3", q.Len())
	}
}

func TestTileReplacementQueueTrimTilesRespectsRoots(t *testing.T) {
	q := NewTileReplacementQueue()
	root := newTestTile() // parent == nil => IsRoot()
	child := root.GetChildren(WGS84)[0]

	q.MarkTileRendered(root, 1)
	q.MarkTileRendered(child, 1)

	q.TrimTiles(0, 2)

	if q.Len() != 1 {
		t.Fatalf("Len() after TrimTiles(0) = %d, want 1 (root pinned)", q.Len())
	}
	if !root.inReplQueue {
		t.Error("root tile should remain in the replacement queue after trimming")
	}
	if child.inReplQueue {
		t.Error("non-root tile should have been evicted")
	}
	if child.TerrainState != TerrainUnloaded {
		t.Errorf("evicted tile's TerrainState = %v, want %v (destroyed)", child.TerrainState, TerrainUnloaded)
	}
}

func TestTileReplacementQueueTrimTilesSkipsLoadQueueMembers(t *testing.T) {
	q := NewTileReplacementQueue()
	loadQueue := NewTileLoadQueue()

	root := newTestTile()
	child := root.GetChildren(WGS84)[0]
	loadQueue.InsertBeforeInsertionPoint(child)

	q.MarkTileRendered(root, 1)
	q.MarkTileRendered(child, 1)

	q.TrimTiles(0, 2)

	if !child.inReplQueue {
		t.Error("a tile pending load should not be evicted even when over budget")
	}
}

func TestTileReplacementQueueTrimTilesSkipsTilesTouchedThisFrame(t *testing.T) {
	q := NewTileReplacementQueue()
	root := newTestTile() // parent == nil => IsRoot(), always pinned
	a := root.GetChildren(WGS84)[0]
	b := root.GetChildren(WGS84)[1]

	q.MarkTileRendered(root, 5)
	q.MarkTileRendered(a, 5)
	q.MarkTileRendered(b, 5)

	q.TrimTiles(0, 5)

	if !a.inReplQueue || !b.inReplQueue {
		t.Error("tiles stamped with the current frame should not be evicted, even over budget")
	}
	if q.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (nothing evictable this frame)", q.Len())
	}
}

func TestTileReplacementQueueRemove(t *testing.T) {
	q := NewTileReplacementQueue()
	a := newTestTile()
	q.MarkTileRendered(a, 1)
	q.Remove(a)
	if a.inReplQueue {
		t.Error("Remove should clear inReplQueue")
	}
	if q.Len() != 0 {
		t.Errorf("Len() after Remove = %d, want 0", q.Len())
	}
}

func TestTileReplacementQueueEachOrder(t *testing.T) {
	q := NewTileReplacementQueue()
	a, b := newTestTile(), newTestTile()
	q.MarkTileRendered(a, 1)
	q.MarkTileRendered(b, 1)

	var order []*Tile
	q.Each(func(t *Tile) bool { order = append(order, t); return true })
	if len(order) != 2 || order[0] != b || order[1] != a {
		t.Errorf("Each order = %v, want [b, a] (most recent first)", order)
	}
}
