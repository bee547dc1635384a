package surface

import "time"

// LoadPump advances tiles sitting in the load queue through their terrain
// and imagery state machines under a per-frame wall clock budget.
type LoadPump struct {
	Queue           *TileLoadQueue
	ReplQueue       *TileReplacementQueue
	TerrainProvider TerrainProvider
	Layers          *ImageryLayerCollection

	// ResidentTarget is trimTiles' keepCount argument, defaulting to 100.
	ResidentTarget int
}

// NewLoadPump wires a pump over the engine's shared queues and providers.
func NewLoadPump(queue *TileLoadQueue, replQueue *TileReplacementQueue, terrainProvider TerrainProvider, layers *ImageryLayerCollection) *LoadPump {
	return &LoadPump{
		Queue:           queue,
		ReplQueue:       replQueue,
		TerrainProvider: terrainProvider,
		Layers:          layers,
		ResidentTarget:  100,
	}
}

// Pump walks the load queue from its head, stepping each tile's state
// machines, until either the queue is exhausted or deadline passes. The
// pump never blocks: a tile mid-transition is left exactly where it is and
// revisited next frame once its provider callback lands in the inbox.
// currentFrame is stamped on newly-resident tiles so TrimTiles won't evict
// a tile the same frame that started loading it.
func (p *LoadPump) Pump(ctx Context, deadline time.Time, currentFrame uint64) {
	tile := p.Queue.Front()
	for tile != nil {
		next := tile.loadNext
		if time.Now().After(deadline) {
			return
		}
		p.pumpTile(ctx, tile, currentFrame)
		tile = next
	}
}

func (p *LoadPump) pumpTile(ctx Context, tile *Tile, currentFrame uint64) {
	tile.drainTerrainInbox()
	p.stepTerrain(ctx, tile, currentFrame)
	p.stepImagery(ctx, tile)
	tile.refreshRenderable()
	if tile.DoneLoading || tile.Failed {
		p.Queue.Remove(tile)
	}
}

// stepTerrain advances tile.TerrainState by at most one transition, to
// keep per-frame work bounded.
func (p *LoadPump) stepTerrain(ctx Context, tile *Tile, currentFrame uint64) {
	switch tile.TerrainState {
	case TerrainUnloaded:
		tile.TerrainState = TerrainTransitioning
		p.TerrainProvider.RequestTileGeometry(tile)
		p.ReplQueue.MarkTileRendered(tile, currentFrame)
		p.ReplQueue.TrimTiles(p.ResidentTarget, currentFrame)
		for i := 0; i < p.Layers.Len(); i++ {
			p.Layers.At(i).createTileImagerySkeletons(tile, -1)
		}
	case TerrainReceived:
		tile.TerrainState = TerrainTransitioning
		p.TerrainProvider.TransformGeometry(ctx, tile)
	case TerrainTransformed:
		tile.TerrainState = TerrainTransitioning
		p.TerrainProvider.CreateResources(ctx, tile)
	case TerrainFailed:
		// Mark-subtree-failed, no retry: the tile has nothing further
		// to do.
		tile.Failed = true
	}
}

// stepImagery advances every TileImagery binding on tile by at most one
// state transition each.
func (p *LoadPump) stepImagery(ctx Context, tile *Tile) {
	i := 0
	for i < len(tile.Imagery) {
		ti := tile.Imagery[i]
		if ti.imagery == nil {
			i++
			continue
		}
		ti.imagery.drainInbox()

		switch ti.imagery.State {
		case ImageryPlaceholder:
			layer := ti.Layer()
			if layer != nil && layer.Provider.Ready() {
				ti.release()
				tile.Imagery = append(tile.Imagery[:i], tile.Imagery[i+1:]...)
				layer.createTileImagerySkeletons(tile, i)
				continue // retry at the same index
			}
		case ImageryUnloaded:
			ti.imagery.State = ImageryTransitioning
			ti.Layer().Provider.RequestImagery(ti.imagery)
		case ImageryReceived:
			ti.imagery.State = ImageryTransitioning
			ti.Layer().Provider.CreateTexture(ctx, ti.imagery)
		case ImageryTextureLoaded:
			ti.imagery.State = ImageryTransitioning
			ti.Layer().Provider.ReprojectTexture(ctx, ti.imagery)
		case ImageryFailed, ImageryInvalid:
			ti.processFallback()
		}

		if ti.imagery != nil && ti.imagery.State == ImageryReady {
			ti.computeTranslationAndScale(tile.Extent)
		}
		i++
	}
}
