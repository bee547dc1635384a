package surface

// TileLoadQueue is an intrusive, doubly-linked priority queue of tiles
// awaiting terrain or imagery work, ordered highest-priority-first. Tiles
// are their own list nodes: a *Tile is already a stable handle, so no
// separate slab/index layer is needed.
type TileLoadQueue struct {
	head, tail *Tile
	insertion  *Tile // markInsertionPoint cursor; nil means "at the head"
	length     int
}

// NewTileLoadQueue returns an empty queue.
func NewTileLoadQueue() *TileLoadQueue { return &TileLoadQueue{} }

func (q *TileLoadQueue) Len() int { return q.length }

// MarkInsertionPoint remembers the queue's current head as the point
// before which subsequent InsertBeforeInsertionPoint calls will land, so a
// frame's newly-discovered tiles sort ahead of tiles already queued from an
// earlier frame.
func (q *TileLoadQueue) MarkInsertionPoint() { q.insertion = q.head }

// InsertBeforeInsertionPoint inserts tile immediately before the
// remembered insertion point, or at the head when there is none
// (MarkInsertionPoint never called, called on an empty queue, or the
// queue Reset since). Removing the marked tile moves the point to that
// tile's successor, or clears it if the tile was last.
func (q *TileLoadQueue) InsertBeforeInsertionPoint(tile *Tile) {
	if tile.inLoadQueue {
		q.remove(tile)
	}
	if q.insertion == nil {
		q.pushFront(tile)
		return
	}
	q.insertBefore(q.insertion, tile)
}

func (q *TileLoadQueue) pushFront(tile *Tile) {
	tile.loadPrev = nil
	tile.loadNext = q.head
	if q.head != nil {
		q.head.loadPrev = tile
	} else {
		q.tail = tile
	}
	q.head = tile
	tile.inLoadQueue = true
	q.length++
}

func (q *TileLoadQueue) insertBefore(mark, tile *Tile) {
	tile.loadPrev = mark.loadPrev
	tile.loadNext = mark
	if mark.loadPrev != nil {
		mark.loadPrev.loadNext = tile
	} else {
		q.head = tile
	}
	mark.loadPrev = tile
	tile.inLoadQueue = true
	q.length++
}

// Remove drops tile from the queue if present; a no-op otherwise.
func (q *TileLoadQueue) Remove(tile *Tile) { q.remove(tile) }

func (q *TileLoadQueue) remove(tile *Tile) {
	if !tile.inLoadQueue {
		return
	}
	if q.insertion == tile {
		q.insertion = tile.loadNext
	}
	if tile.loadPrev != nil {
		tile.loadPrev.loadNext = tile.loadNext
	} else {
		q.head = tile.loadNext
	}
	if tile.loadNext != nil {
		tile.loadNext.loadPrev = tile.loadPrev
	} else {
		q.tail = tile.loadPrev
	}
	tile.loadPrev = nil
	tile.loadNext = nil
	tile.inLoadQueue = false
	q.length--
}

// Front returns the highest-priority tile, or nil if empty.
func (q *TileLoadQueue) Front() *Tile { return q.head }

// PopFront removes and returns the highest-priority tile, or nil if empty.
func (q *TileLoadQueue) PopFront() *Tile {
	t := q.head
	if t == nil {
		return nil
	}
	q.remove(t)
	return t
}

// Each walks the queue head-to-tail, stopping early if fn returns false.
func (q *TileLoadQueue) Each(fn func(*Tile) bool) {
	for t := q.head; t != nil; {
		next := t.loadNext
		if !fn(t) {
			return
		}
		t = next
	}
}

// Reset empties the queue without touching tiles' other queue membership.
func (q *TileLoadQueue) Reset() {
	for t := q.head; t != nil; {
		next := t.loadNext
		t.loadPrev = nil
		t.loadNext = nil
		t.inLoadQueue = false
		t = next
	}
	q.head, q.tail, q.insertion = nil, nil, nil
	q.length = 0
}
