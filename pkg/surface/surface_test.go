package surface

import (
	"errors"
	"testing"
	"time"
)

func TestNewSurfaceRequiresCollaborators(t *testing.T) {
	_, err := NewSurface(Options{})
	if !errors.Is(err, ErrMissingCollaborator) {
		t.Errorf("err = %v, want %v", err, ErrMissingCollaborator)
	}

	_, err = NewSurface(Options{TerrainProvider: newFakeTerrainProvider(4)})
	if !errors.Is(err, ErrMissingCollaborator) {
		t.Errorf("err = %v, want %v when Layers is nil", err, ErrMissingCollaborator)
	}
}

func TestNewSurfaceAppliesDefaults(t *testing.T) {
	s, err := NewSurface(Options{
		TerrainProvider: newFakeTerrainProvider(4),
		Layers:          NewImageryLayerCollection(),
	})
	if err != nil {
		t.Fatalf("NewSurface returned %v", err)
	}
	if s.selector.MaxScreenSpaceError != 2 {
		t.Errorf("MaxScreenSpaceError = %v, want default 2", s.selector.MaxScreenSpaceError)
	}
	if s.assembler.MaxTextureUnits != 4 {
		t.Errorf("MaxTextureUnits = %v, want default 4", s.assembler.MaxTextureUnits)
	}
	if s.loadBudget != 10*time.Millisecond {
		t.Errorf("loadBudget = %v, want default 10ms", s.loadBudget)
	}
}

func TestUpdateReturnsNilBeforeRootsExist(t *testing.T) {
	s, err := NewSurface(Options{
		TerrainProvider: &nilSchemeProvider{},
		Layers:          NewImageryLayerCollection(),
	})
	if err != nil {
		t.Fatalf("NewSurface returned %v", err)
	}
	cmds := s.Update(&fakeContext{}, FrameState{})
	if cmds != nil {
		t.Errorf("Update = %v, want nil before the tiling scheme is available", cmds)
	}
}

func TestUpdateCreatesRootsOnceSchemeAvailable(t *testing.T) {
	s, err := NewSurface(Options{
		TerrainProvider: newFakeTerrainProvider(4),
		Layers:          NewImageryLayerCollection(),
		ShaderSet:       fakeShaderSet{},
	})
	if err != nil {
		t.Fatalf("NewSurface returned %v", err)
	}

	s.Update(&fakeContext{}, FrameState{})
	if len(s.roots) != 2 {
		t.Fatalf("len(roots) = %d, want 2 (GeographicTilingScheme's 2x1 level zero)", len(s.roots))
	}
	if s.selector.Roots == nil {
		t.Error("ensureRoots should have wired the selector's Roots")
	}
}

func TestToggleLODUpdateFreezesSelector(t *testing.T) {
	s, _ := NewSurface(Options{TerrainProvider: newFakeTerrainProvider(4), Layers: NewImageryLayerCollection()})
	if s.selector.frozen {
		t.Fatal("selector should start unfrozen")
	}
	s.ToggleLODUpdate()
	if !s.selector.frozen {
		t.Error("ToggleLODUpdate should freeze the selector")
	}
	s.ToggleLODUpdate()
	if s.selector.frozen {
		t.Error("ToggleLODUpdate should unfreeze the selector on a second call")
	}
}

func TestDebugBoundingSphereAtUnknownKey(t *testing.T) {
	s, _ := NewSurface(Options{TerrainProvider: newFakeTerrainProvider(4), Layers: NewImageryLayerCollection()})
	s.Update(&fakeContext{}, FrameState{})

	_, ok := s.DebugBoundingSphereAt(TileKey{Level: 9, X: 9, Y: 9})
	if ok {
		t.Error("DebugBoundingSphereAt should report false for a key with no resident tile")
	}

	sphere, ok := s.DebugBoundingSphereAt(TileKey{Level: 0, X: 0, Y: 0})
	if !ok {
		t.Fatal("DebugBoundingSphereAt should find a resident level-zero root")
	}
	if sphere != s.roots[0].BoundingSphere3D {
		t.Error("DebugBoundingSphereAt should return the tile's own bounding sphere")
	}
}

func TestFindTileWalksIntoChildren(t *testing.T) {
	s, _ := NewSurface(Options{TerrainProvider: newFakeTerrainProvider(4), Layers: NewImageryLayerCollection()})
	s.Update(&fakeContext{}, FrameState{})

	root := s.roots[0]
	child := root.GetChildren(WGS84)[2]
	grandchild := child.GetChildren(WGS84)[1]

	found := s.findTile(grandchild.Key)
	if found != grandchild {
		t.Errorf("findTile(%v) = %v, want the grandchild tile itself", grandchild.Key, found)
	}
}

func TestDestroyResetsState(t *testing.T) {
	s, _ := NewSurface(Options{TerrainProvider: newFakeTerrainProvider(4), Layers: NewImageryLayerCollection()})
	s.Update(&fakeContext{}, FrameState{})
	root := s.roots[0]
	root.TerrainState = TerrainReady

	s.Destroy()

	if len(s.roots) != 0 || len(s.rootsByKey) != 0 {
		t.Error("Destroy should clear roots and rootsByKey")
	}
	if s.selector.Roots != nil {
		t.Error("Destroy should clear the selector's Roots")
	}
	if root.TerrainState != TerrainUnloaded {
		t.Error("Destroy should have torn down resident roots")
	}
}

// nilSchemeProvider is a TerrainProvider whose tiling scheme is never
// available, so ensureRoots can never create level-zero tiles.
type nilSchemeProvider struct{}

func (nilSchemeProvider) TilingScheme() TilingScheme                     { return nil }
func (nilSchemeProvider) LevelMaximumGeometricError(level uint32) float64 { return 0 }
func (nilSchemeProvider) MaxLevel() uint32                               { return 0 }
func (nilSchemeProvider) RequestTileGeometry(tile *Tile)                 {}
func (nilSchemeProvider) TransformGeometry(ctx Context, tile *Tile)      {}
func (nilSchemeProvider) CreateResources(ctx Context, tile *Tile)        {}
