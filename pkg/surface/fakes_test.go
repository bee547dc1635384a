package surface

// fakeTerrainProvider completes every transition synchronously so tests
// don't need to wait on goroutines.
type fakeTerrainProvider struct {
	scheme       TilingScheme
	maxLevel     uint32
	failAtLevel  uint32 // RequestTileGeometry fails tiles at this level; 0 means never
	geomErrorFor func(level uint32) float64
}

func newFakeTerrainProvider(maxLevel uint32) *fakeTerrainProvider {
	return &fakeTerrainProvider{scheme: NewGeographicTilingScheme(), maxLevel: maxLevel}
}

func (p *fakeTerrainProvider) TilingScheme() TilingScheme { return p.scheme }

func (p *fakeTerrainProvider) LevelMaximumGeometricError(level uint32) float64 {
	if p.geomErrorFor != nil {
		return p.geomErrorFor(level)
	}
	return 200000.0 / float64(uint32(1)<<level)
}

func (p *fakeTerrainProvider) MaxLevel() uint32 { return p.maxLevel }

func (p *fakeTerrainProvider) RequestTileGeometry(tile *Tile) {
	if p.failAtLevel != 0 && tile.Key.Level == p.failAtLevel {
		tile.CompleteTerrainTransition(TerrainFailed)
		return
	}
	tile.CompleteTerrainTransition(TerrainReceived)
}

func (p *fakeTerrainProvider) TransformGeometry(ctx Context, tile *Tile) {
	tile.CompleteTerrainTransition(TerrainTransformed)
}

func (p *fakeTerrainProvider) CreateResources(ctx Context, tile *Tile) {
	if ctx != nil {
		tile.VertexArray = ctx.CreateVertexArrayFromMesh(nil)
	}
	tile.CompleteTerrainTransition(TerrainReady)
}

// fakeImageryProvider manufactures a trivial texture per image, completing
// every transition synchronously.
type fakeImageryProvider struct {
	scheme   TilingScheme
	ready    bool
	minLevel uint32
	maxLevel uint32
	failAll  bool
}

func newFakeImageryProvider(minLevel, maxLevel uint32) *fakeImageryProvider {
	return &fakeImageryProvider{scheme: NewGeographicTilingScheme(), ready: true, minLevel: minLevel, maxLevel: maxLevel}
}

func (p *fakeImageryProvider) Ready() bool            { return p.ready }
func (p *fakeImageryProvider) TilingScheme() TilingScheme { return p.scheme }
func (p *fakeImageryProvider) MinLevel() uint32       { return p.minLevel }
func (p *fakeImageryProvider) MaxLevel() uint32       { return p.maxLevel }

func (p *fakeImageryProvider) RequestImagery(img *Imagery) {
	if p.failAll {
		img.CompleteImageryTransition(ImageryFailed)
		return
	}
	img.CompleteImageryTransition(ImageryReceived)
}

func (p *fakeImageryProvider) CreateTexture(ctx Context, img *Imagery) {
	if ctx != nil {
		img.Texture = ctx.CreateTexture2D(1, 1, []byte{255, 255, 255, 255})
	}
	img.CompleteImageryTransition(ImageryTextureLoaded)
}

func (p *fakeImageryProvider) ReprojectTexture(ctx Context, img *Imagery) {
	img.CompleteImageryTransition(ImageryReady)
}

// fakeTexture/fakeVertexArray satisfy Texture/VertexArray with release
// tracking, so tests can assert eviction actually frees GPU resources.
type fakeTexture struct{ released *bool }

func (t fakeTexture) Release() {
	if t.released != nil {
		*t.released = true
	}
}

type fakeVertexArray struct{ released *bool }

func (v fakeVertexArray) Release() {
	if v.released != nil {
		*v.released = true
	}
}

// fakeContext is a minimal Context that hands back fakeTexture/fakeVertexArray.
type fakeContext struct{ maxTextureUnits int }

func (c *fakeContext) CreateTexture2D(width, height int, pixels []byte) Texture {
	return fakeTexture{}
}

func (c *fakeContext) CreateVertexArrayFromMesh(mesh any) VertexArray {
	return fakeVertexArray{}
}

func (c *fakeContext) MaximumTextureImageUnits() int {
	if c.maxTextureUnits == 0 {
		return 4
	}
	return c.maxTextureUnits
}

// fakeShaderSet hands back a distinct program value per texture count, so
// tests can assert the assembler buckets by count correctly.
type fakeShaderSet struct{}

func (fakeShaderSet) GetShaderProgram(ctx Context, numTextures int) ShaderProgram {
	return numTextures
}

// alwaysVisibleCuller and neverVisibleCuller are CullingVolume stubs.
type alwaysVisibleCuller struct{}

func (alwaysVisibleCuller) Intersects(BoundingSphere) bool { return true }

type neverVisibleCuller struct{}

func (neverVisibleCuller) Intersects(BoundingSphere) bool { return false }
