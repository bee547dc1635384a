package surface

import "math"

// SelectionResult is one frame's output from Selector.SelectTiles.
type SelectionResult struct {
	TilesToRenderByTextureCount [][]*Tile
	TilesRendered               int
	CulledCount                 int
}

// Selector runs the per-frame breadth-first LOD traversal.
type Selector struct {
	Roots           []*Tile
	LoadQueue       *TileLoadQueue
	ReplQueue       *TileReplacementQueue
	TerrainProvider TerrainProvider

	MaxScreenSpaceError float64

	frozen     bool
	lastResult SelectionResult
}

// NewSelector wires a selector with no roots yet. SelectTiles returns an
// empty result until Roots is assigned.
func NewSelector(terrainProvider TerrainProvider, loadQueue *TileLoadQueue, replQueue *TileReplacementQueue, maxSSE float64) *Selector {
	return &Selector{
		LoadQueue:            loadQueue,
		ReplQueue:            replQueue,
		TerrainProvider:      terrainProvider,
		MaxScreenSpaceError:  maxSSE,
	}
}

// SetFrozen implements Surface.ToggleLODUpdate's debug freeze: while
// frozen, SelectTiles returns the previous frame's result unchanged.
func (s *Selector) SetFrozen(frozen bool) { s.frozen = frozen }

// SelectTiles runs one frame of LOD selection: a breadth-first quadtree
// traversal that refines tiles whose screen-space error exceeds the
// configured threshold, gated by culling and load readiness.
func (s *Selector) SelectTiles(frame FrameState) SelectionResult {
	if s.frozen {
		return s.lastResult
	}
	result := SelectionResult{}
	if len(s.Roots) == 0 {
		s.lastResult = result
		return result
	}

	s.LoadQueue.MarkInsertionPoint()

	var bfs []*Tile
	for _, root := range s.Roots {
		if !root.DoneLoading {
			s.enqueueForLoad(root)
		}
		if root.Renderable && s.isVisible(root, frame) {
			bfs = append(bfs, root)
		} else {
			result.CulledCount++
		}
	}

	maxLevel := s.TerrainProvider.MaxLevel()
	for len(bfs) > 0 {
		tile := bfs[0]
		bfs = bfs[1:]

		s.ReplQueue.MarkTileRendered(tile, frame.FrameNumber)

		sse := s.screenSpaceError(tile, frame)
		if sse < s.MaxScreenSpaceError {
			s.addToRenderList(tile, &result)
			continue
		}

		refined := false
		if maxLevel == 0 || tile.Key.Level < maxLevel {
			children := tile.GetChildren(WGS84)
			allRenderable := true
			for _, c := range children {
				if !c.DoneLoading && !c.Failed {
					s.enqueueForLoad(c)
				}
				if !c.Renderable {
					allRenderable = false
				}
			}
			if allRenderable {
				refined = true
				for _, c := range children {
					if s.isVisible(c, frame) {
						bfs = append(bfs, c)
					} else {
						result.CulledCount++
					}
				}
			}
		}
		if !refined {
			s.addToRenderList(tile, &result)
		}
	}

	s.lastResult = result
	return result
}

func (s *Selector) enqueueForLoad(tile *Tile) {
	if tile.Failed {
		return
	}
	s.LoadQueue.InsertBeforeInsertionPoint(tile)
}

func (s *Selector) addToRenderList(tile *Tile, result *SelectionResult) {
	n := tile.ReadyImageryCount()
	for len(result.TilesToRenderByTextureCount) <= n {
		result.TilesToRenderByTextureCount = append(result.TilesToRenderByTextureCount, nil)
	}
	result.TilesToRenderByTextureCount[n] = append(result.TilesToRenderByTextureCount[n], tile)
	result.TilesRendered++
}

// isVisible is the mode-dependent visibility test: culling volume first,
// then horizon occlusion outside Mode2D.
func (s *Selector) isVisible(tile *Tile, frame FrameState) bool {
	sphere := tile.BoundingSphere3D
	switch frame.Mode {
	case Mode2D, ModeColumbusView:
		sphere = tile.BoundingSphere2D
	case ModeMorphing:
		sphere = unionBoundingSpheres(tile.BoundingSphere3D, tile.BoundingSphere2D)
	}
	if frame.Culler != nil && !frame.Culler.Intersects(sphere) {
		return false
	}
	if frame.Occluder != nil && tile.OccludeePoint != nil && frame.Mode != Mode2D {
		if !frame.Occluder.IsVisible(*tile.OccludeePoint) {
			return false
		}
	}
	return true
}

// screenSpaceError computes the tile's geometric error projected into
// screen pixels, caching tile.Distance for the command assembler's
// front-to-back sort.
func (s *Selector) screenSpaceError(tile *Tile, frame FrameState) float64 {
	maxGeometricError := math.Cos(tile.Extent.ClosestLatitudeToEquator()) *
		s.TerrainProvider.LevelMaximumGeometricError(tile.Key.Level)

	if frame.Mode == Mode2D {
		tile.Distance = 0
		viewport := maxUint(frame.ViewportWidth, frame.ViewportHeight)
		if viewport == 0 {
			return math.Inf(1)
		}
		pixelSize := math.Max(frame.FrustumWidth, frame.FrustumHeight) / float64(viewport)
		if pixelSize == 0 {
			return 0
		}
		return maxGeometricError / pixelSize
	}

	distSq := distanceSquaredToTile(tile, frame.Camera.PositionCartesian, frame.Camera.PositionCartographic.Height)
	distance := math.Sqrt(distSq)
	tile.Distance = distance
	if distance == 0 {
		return math.Inf(1)
	}
	return (maxGeometricError * float64(frame.ViewportHeight)) / (2 * distance * math.Tan(frame.Camera.FovY/2))
}

func maxUint(a, b int) int {
	if a > b {
		return a
	}
	return b
}
