package surface

import "sort"

// onLayerAdded gives every resident tile a skeleton for the newly added
// layer. index is the layer's position in the collection, not a
// tile.Imagery slice offset: Add only ever appends, so the new layer's
// block always belongs at the tail of every tile's imagery, after
// whatever contiguous blocks already precede it.
func onLayerAdded(queue *TileReplacementQueue, layer *ImageryLayer, index int) {
	queue.Each(func(t *Tile) bool {
		if t.TerrainState == TerrainUnloaded {
			return true
		}
		layer.createTileImagerySkeletons(t, -1)
		t.refreshRenderable()
		return true
	})
}

// onLayerRemoved releases every resident tile's binding to layer.
func onLayerRemoved(queue *TileReplacementQueue, layer *ImageryLayer) {
	queue.Each(func(t *Tile) bool {
		kept := t.Imagery[:0]
		for _, ti := range t.Imagery {
			if ti.Layer() == layer {
				ti.release()
				continue
			}
			kept = append(kept, ti)
		}
		t.Imagery = kept
		t.refreshRenderable()
		return true
	})
}

// onLayerMoved re-sorts every resident tile's imagery bindings to match
// the collection's new layer order.
func onLayerMoved(queue *TileReplacementQueue, collection *ImageryLayerCollection) {
	queue.Each(func(t *Tile) bool {
		reorderTileImagery(t, collection)
		return true
	})
}

func reorderTileImagery(t *Tile, collection *ImageryLayerCollection) {
	sort.SliceStable(t.Imagery, func(i, j int) bool {
		return layerIndex(collection, t.Imagery[i].Layer()) < layerIndex(collection, t.Imagery[j].Layer())
	})
}

func layerIndex(collection *ImageryLayerCollection, layer *ImageryLayer) int {
	for i := 0; i < collection.Len(); i++ {
		if collection.At(i) == layer {
			return i
		}
	}
	return collection.Len()
}
