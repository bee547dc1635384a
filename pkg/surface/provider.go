package surface

// TilingScheme maps quadtree tile coordinates to geographic extents. It is a
// pure-function collaborator: implementations hold no mutable engine state.
type TilingScheme interface {
	NumberOfLevelZeroTilesX() uint32
	NumberOfLevelZeroTilesY() uint32
	Extent(level, x, y uint32) Extent
	// TileKeysForExtent returns every tile at level whose extent intersects
	// extent: the inverse of Extent, used to build imagery skeletons
	// covering a terrain tile. Projection-specific (geographic vs. Web
	// Mercator grids are uniform in different coordinate spaces), so it
	// belongs with the scheme, not the engine.
	TileKeysForExtent(extent Extent, level uint32) []TileKey
}

// TerrainProvider supplies quadtree geometry. RequestTileGeometry,
// TransformGeometry and CreateResources report progress through
// tile.CompleteTerrainTransition, which the load pump applies to
// tile.TerrainState on its next pass; they may return before the
// transition completes (see Tile.terrainInbox).
type TerrainProvider interface {
	TilingScheme() TilingScheme
	LevelMaximumGeometricError(level uint32) float64
	MaxLevel() uint32
	RequestTileGeometry(tile *Tile)
	TransformGeometry(ctx Context, tile *Tile)
	CreateResources(ctx Context, tile *Tile)
}

// ImageryProvider supplies one layer's texture pyramid.
type ImageryProvider interface {
	Ready() bool
	TilingScheme() TilingScheme
	MinLevel() uint32
	MaxLevel() uint32
	RequestImagery(img *Imagery)
	CreateTexture(ctx Context, img *Imagery)
	ReprojectTexture(ctx Context, img *Imagery)
}
