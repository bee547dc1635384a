package main

import "github.com/kjkrol/gosurface/pkg/surface"

// fakeTerrainProvider reports every terrain transition immediately and
// attaches an empty vertex array, so the demo has something to select and
// render without a real tile server. It satisfies surface.TerrainProvider.
type fakeTerrainProvider struct {
	scheme   surface.TilingScheme
	maxLevel uint32
}

func newFakeTerrainProvider(maxLevel uint32) *fakeTerrainProvider {
	return &fakeTerrainProvider{scheme: surface.NewGeographicTilingScheme(), maxLevel: maxLevel}
}

func (p *fakeTerrainProvider) TilingScheme() surface.TilingScheme { return p.scheme }

func (p *fakeTerrainProvider) LevelMaximumGeometricError(level uint32) float64 {
	return 200000.0 / float64(uint32(1)<<level)
}

func (p *fakeTerrainProvider) MaxLevel() uint32 { return p.maxLevel }

func (p *fakeTerrainProvider) RequestTileGeometry(tile *surface.Tile) {
	tile.CompleteTerrainTransition(surface.TerrainReceived)
}

func (p *fakeTerrainProvider) TransformGeometry(ctx surface.Context, tile *surface.Tile) {
	tile.CompleteTerrainTransition(surface.TerrainTransformed)
}

func (p *fakeTerrainProvider) CreateResources(ctx surface.Context, tile *surface.Tile) {
	tile.VertexArray = ctx.CreateVertexArrayFromMesh(nil)
	tile.CompleteTerrainTransition(surface.TerrainReady)
}

// fakeImageryProvider manufactures a solid-color texture per tile,
// satisfying surface.ImageryProvider without any network fetch.
type fakeImageryProvider struct {
	scheme       surface.TilingScheme
	minLevel     uint32
	maxLevel     uint32
	pixelRGBA    []byte
}

func newFakeImageryProvider(minLevel, maxLevel uint32, rgba []byte) *fakeImageryProvider {
	return &fakeImageryProvider{
		scheme:    surface.NewGeographicTilingScheme(),
		minLevel:  minLevel,
		maxLevel:  maxLevel,
		pixelRGBA: rgba,
	}
}

func (p *fakeImageryProvider) Ready() bool                       { return true }
func (p *fakeImageryProvider) TilingScheme() surface.TilingScheme { return p.scheme }
func (p *fakeImageryProvider) MinLevel() uint32                  { return p.minLevel }
func (p *fakeImageryProvider) MaxLevel() uint32                  { return p.maxLevel }

func (p *fakeImageryProvider) RequestImagery(img *surface.Imagery) {
	img.CompleteImageryTransition(surface.ImageryReceived)
}

func (p *fakeImageryProvider) CreateTexture(ctx surface.Context, img *surface.Imagery) {
	img.Texture = ctx.CreateTexture2D(1, 1, p.pixelRGBA)
	img.CompleteImageryTransition(surface.ImageryTextureLoaded)
}

func (p *fakeImageryProvider) ReprojectTexture(ctx surface.Context, img *surface.Imagery) {
	img.CompleteImageryTransition(surface.ImageryReady)
}
