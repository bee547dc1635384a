package surface

import (
	"log/slog"
	"time"
)

// Options configures a new Surface.
type Options struct {
	TerrainProvider TerrainProvider
	Layers          *ImageryLayerCollection
	ShaderSet       ShaderSet

	// MaxScreenSpaceError defaults to 2 when zero.
	MaxScreenSpaceError float64
	// MaxTextureUnits defaults to 4 when zero.
	MaxTextureUnits int
	// LoadBudget defaults to 10ms when zero.
	LoadBudget time.Duration

	Logger *slog.Logger
}

// Surface is the engine's top-level handle: one quadtree, its queues, and
// the imagery stack draped across it.
type Surface struct {
	terrainProvider TerrainProvider
	layers          *ImageryLayerCollection

	loadQueue *TileLoadQueue
	replQueue *TileReplacementQueue
	selector  *Selector
	pump      *LoadPump
	assembler *Assembler

	loadBudget time.Duration
	roots      []*Tile
	rootsByKey map[TileKey]*Tile
}

// NewSurface validates opts and wires the engine's components together.
// Level-zero root tiles are created lazily on the first Update once the
// terrain provider's tiling scheme is available; until then, Update
// returns no commands.
func NewSurface(opts Options) (*Surface, error) {
	if opts.TerrainProvider == nil || opts.Layers == nil {
		return nil, ErrMissingCollaborator
	}
	if opts.Logger != nil {
		SetLogger(opts.Logger)
	}

	maxSSE := opts.MaxScreenSpaceError
	if maxSSE == 0 {
		maxSSE = 2
	}
	maxTextureUnits := opts.MaxTextureUnits
	if maxTextureUnits == 0 {
		maxTextureUnits = 4
	}
	loadBudget := opts.LoadBudget
	if loadBudget == 0 {
		loadBudget = 10 * time.Millisecond
	}

	loadQueue := NewTileLoadQueue()
	replQueue := NewTileReplacementQueue()
	selector := NewSelector(opts.TerrainProvider, loadQueue, replQueue, maxSSE)
	pump := NewLoadPump(loadQueue, replQueue, opts.TerrainProvider, opts.Layers)
	assembler := NewAssembler(opts.ShaderSet, maxTextureUnits)

	opts.Layers.onAdd = func(layer *ImageryLayer, index int) { onLayerAdded(replQueue, layer, index) }
	opts.Layers.onRemove = func(layer *ImageryLayer, _ int) { onLayerRemoved(replQueue, layer) }
	opts.Layers.onMove = func(*ImageryLayer, int, int) { onLayerMoved(replQueue, opts.Layers) }

	s := &Surface{
		terrainProvider: opts.TerrainProvider,
		layers:          opts.Layers,
		loadQueue:       loadQueue,
		replQueue:       replQueue,
		selector:        selector,
		pump:            pump,
		assembler:       assembler,
		loadBudget:      loadBudget,
		rootsByKey:      make(map[TileKey]*Tile),
	}
	Logger().Info("surface constructed", "maxScreenSpaceError", maxSSE, "maxTextureUnits", maxTextureUnits)
	return s, nil
}

// ensureRoots lazily creates level-zero tiles once the terrain provider's
// tiling scheme becomes available.
func (s *Surface) ensureRoots() {
	if len(s.roots) > 0 {
		return
	}
	scheme := s.terrainProvider.TilingScheme()
	if scheme == nil {
		return
	}
	nx := scheme.NumberOfLevelZeroTilesX()
	ny := scheme.NumberOfLevelZeroTilesY()
	for y := uint32(0); y < ny; y++ {
		for x := uint32(0); x < nx; x++ {
			extent := scheme.Extent(0, x, y)
			key := TileKey{Level: 0, X: x, Y: y}
			tile := newTile(key, extent, 0, 0, nil, WGS84)
			s.roots = append(s.roots, tile)
			s.rootsByKey[key] = tile
		}
	}
	s.selector.Roots = s.roots
	Logger().Debug("level-zero roots created", "count", len(s.roots))
}

// Update runs one frame: selection, then the bounded load pump, then
// command assembly, in that order so a tile's load state transitions
// after it has already been judged this frame.
func (s *Surface) Update(ctx Context, frame FrameState) []Command {
	s.ensureRoots()
	if len(s.roots) == 0 {
		return nil
	}

	result := s.selector.SelectTiles(frame)
	s.pump.Pump(ctx, time.Now().Add(s.loadBudget), frame.FrameNumber)
	return s.assembler.Assemble(ctx, result, frame)
}

// ToggleLODUpdate freezes or unfreezes selection for debugging.
func (s *Surface) ToggleLODUpdate() {
	s.selector.SetFrozen(!s.selector.frozen)
}

// DebugBoundingSphereAt returns the bounding sphere of a resident tile,
// for debug visualization.
func (s *Surface) DebugBoundingSphereAt(pick TileKey) (BoundingSphere, bool) {
	tile := s.findTile(pick)
	if tile == nil {
		return BoundingSphere{}, false
	}
	return tile.BoundingSphere3D, true
}

func (s *Surface) findTile(key TileKey) *Tile {
	if key.Level == 0 {
		return s.rootsByKey[key]
	}
	root := s.rootsByKey[TileKey{Level: 0, X: rootXFor(key), Y: rootYFor(key)}]
	return walkToTile(root, key)
}

// rootXFor/rootYFor locate which level-zero tile an arbitrary key
// descends from by repeatedly halving its coordinates up to level zero.
func rootXFor(key TileKey) uint32 {
	x, level := key.X, key.Level
	for level > 0 {
		x /= 2
		level--
	}
	return x
}

func rootYFor(key TileKey) uint32 {
	y, level := key.Y, key.Level
	for level > 0 {
		y /= 2
		level--
	}
	return y
}

func walkToTile(tile *Tile, key TileKey) *Tile {
	if tile == nil {
		return nil
	}
	if tile.Key == key {
		return tile
	}
	if !tile.HasChildren() || tile.Key.Level >= key.Level {
		return nil
	}
	shift := key.Level - tile.Key.Level - 1
	childX := (key.X >> shift) & 1
	childY := (key.Y >> shift) & 1
	return walkToTile(tile.children[childY*2+childX], key)
}

// Destroy releases every tile, queue, and GPU resource this Surface owns.
// It never touches TerrainProvider or the ImageryLayerCollection: callers
// supplied those and own them.
func (s *Surface) Destroy() {
	for _, root := range s.roots {
		if root.TerrainState != TerrainUnloaded {
			root.destroy()
		}
	}
	s.loadQueue.Reset()
	s.replQueue.Each(func(t *Tile) bool {
		s.replQueue.Remove(t)
		return true
	})
	s.roots = nil
	s.rootsByKey = make(map[TileKey]*Tile)
	s.selector.Roots = nil
	Logger().Info("surface destroyed")
}
