package surface

// ImageryLayer is one ordered layer of a surface's imagery stack: a
// provider plus the texture pyramid it has produced so far.
type ImageryLayer struct {
	Provider ImageryProvider
	Alpha    float64
	Show     bool

	pyramid map[TileKey]*Imagery
}

// NewImageryLayer wraps provider in a fresh, empty pyramid. Alpha defaults
// to fully opaque and the layer starts shown.
func NewImageryLayer(provider ImageryProvider) *ImageryLayer {
	return &ImageryLayer{
		Provider: provider,
		Alpha:    1.0,
		Show:     true,
		pyramid:  make(map[TileKey]*Imagery),
	}
}

// forget removes img from the pyramid once its last reference is released
// (called from Imagery.releaseReference).
func (l *ImageryLayer) forget(img *Imagery) {
	if existing, ok := l.pyramid[img.Key]; ok && existing == img {
		delete(l.pyramid, img.Key)
	}
}

// getOrCreateImagery returns the pyramid node at key, creating it (and its
// ancestor chain, lazily) if absent.
func (l *ImageryLayer) getOrCreateImagery(scheme TilingScheme, key TileKey) *Imagery {
	if existing, ok := l.pyramid[key]; ok {
		return existing
	}
	var parent *Imagery
	if key.Level > 0 {
		parentKey := TileKey{Level: key.Level - 1, X: key.X / 2, Y: key.Y / 2}
		parent = l.getOrCreateImagery(scheme, parentKey)
	}
	extent := scheme.Extent(key.Level, key.X, key.Y)
	img := newImagery(l, key, extent, parent)
	l.pyramid[key] = img
	return img
}

// createTileImagerySkeletons appends TileImagery bindings covering tile's
// extent at this layer's appropriate level, inserted at insertAt (or
// appended when insertAt is negative or past the end). Returns false when
// the provider isn't ready yet.
func (l *ImageryLayer) createTileImagerySkeletons(tile *Tile, insertAt int) bool {
	if !l.Provider.Ready() {
		return false
	}
	scheme := l.Provider.TilingScheme()
	if scheme == nil {
		return false
	}
	level := clampLevel(tile.Key.Level, l.Provider.MinLevel(), l.Provider.MaxLevel())
	keys := scheme.TileKeysForExtent(tile.Extent, level)
	if len(keys) == 0 {
		return false
	}
	skeletons := make([]*TileImagery, 0, len(keys))
	for _, key := range keys {
		img := l.getOrCreateImagery(scheme, key)
		coordExtent := textureCoordinateExtentOf(tile.Extent, img.Extent)
		skeletons = append(skeletons, newTileImagery(img, coordExtent))
	}
	if insertAt < 0 || insertAt > len(tile.Imagery) {
		insertAt = len(tile.Imagery)
	}
	tail := append([]*TileImagery{}, tile.Imagery[insertAt:]...)
	tile.Imagery = append(tile.Imagery[:insertAt], append(skeletons, tail...)...)
	return true
}

func clampLevel(level, min, max uint32) uint32 {
	if level < min {
		return min
	}
	if max > 0 && level > max {
		return max
	}
	return level
}

// textureCoordinateExtentOf maps imageryExtent into tileExtent's [0,1]^2
// space, clamped to the tile's bounds.
func textureCoordinateExtentOf(tileExtent, imageryExtent Extent) Extent {
	tw := tileExtent.East - tileExtent.West
	th := tileExtent.North - tileExtent.South
	if tw == 0 || th == 0 {
		return Extent{}
	}
	w := clampRange(imageryExtent.West, tileExtent.West, tileExtent.East)
	e := clampRange(imageryExtent.East, tileExtent.West, tileExtent.East)
	s := clampRange(imageryExtent.South, tileExtent.South, tileExtent.North)
	n := clampRange(imageryExtent.North, tileExtent.South, tileExtent.North)
	return Extent{
		West:  (w - tileExtent.West) / tw,
		East:  (e - tileExtent.West) / tw,
		South: (s - tileExtent.South) / th,
		North: (n - tileExtent.South) / th,
	}
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ImageryLayerCollection is an ordered stack of layers, bottom to top,
// matching a surface's overall imagery draw order.
type ImageryLayerCollection struct {
	layers  []*ImageryLayer
	onAdd   func(layer *ImageryLayer, index int)
	onMove  func(layer *ImageryLayer, newIndex, oldIndex int)
	onRemove func(layer *ImageryLayer, index int)
}

// NewImageryLayerCollection returns an empty collection. The on* callbacks
// are optional hooks the owning Surface installs to keep resident tiles in
// sync with layer membership changes.
func NewImageryLayerCollection() *ImageryLayerCollection {
	return &ImageryLayerCollection{}
}

func (c *ImageryLayerCollection) Len() int { return len(c.layers) }

func (c *ImageryLayerCollection) At(i int) *ImageryLayer { return c.layers[i] }

// Add appends layer to the top of the stack.
func (c *ImageryLayerCollection) Add(layer *ImageryLayer) {
	c.layers = append(c.layers, layer)
	if c.onAdd != nil {
		c.onAdd(layer, len(c.layers)-1)
	}
}

// Remove drops layer from the stack, reporting whether it was present.
func (c *ImageryLayerCollection) Remove(layer *ImageryLayer) bool {
	for i, l := range c.layers {
		if l == layer {
			c.layers = append(c.layers[:i], c.layers[i+1:]...)
			if c.onRemove != nil {
				c.onRemove(layer, i)
			}
			return true
		}
	}
	return false
}

// Move relocates layer to newIndex, clamped to the stack's bounds.
func (c *ImageryLayerCollection) Move(layer *ImageryLayer, newIndex int) bool {
	oldIndex := -1
	for i, l := range c.layers {
		if l == layer {
			oldIndex = i
			break
		}
	}
	if oldIndex < 0 {
		return false
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex >= len(c.layers) {
		newIndex = len(c.layers) - 1
	}
	if newIndex == oldIndex {
		return true
	}
	c.layers = append(c.layers[:oldIndex], c.layers[oldIndex+1:]...)
	c.layers = append(c.layers[:newIndex], append([]*ImageryLayer{layer}, c.layers[newIndex:]...)...)
	if c.onMove != nil {
		c.onMove(layer, newIndex, oldIndex)
	}
	return true
}
