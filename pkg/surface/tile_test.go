package surface

import "testing"

func rootExtent() Extent {
	return Extent{West: -1, East: 1, South: -1, North: 1}
}

func TestNewTileComputesCenterAndSphere(t *testing.T) {
	tile := newTile(TileKey{}, rootExtent(), 0, 0, nil, WGS84)
	if tile.BoundingSphere3D.Radius <= 0 {
		t.Errorf("BoundingSphere3D.Radius = %v, want > 0", tile.BoundingSphere3D.Radius)
	}
	if !tile.IsRoot() {
		t.Error("a tile with a nil parent should report IsRoot() == true")
	}
}

func TestTileGetChildrenQuadrantSplit(t *testing.T) {
	tile := newTile(TileKey{Level: 0, X: 0, Y: 0}, rootExtent(), 0, 0, nil, WGS84)
	if tile.HasChildren() {
		t.Fatal("freshly created tile should have no children yet")
	}
	children := tile.GetChildren(WGS84)
	if !tile.HasChildren() {
		t.Fatal("GetChildren should create all four children")
	}
	for i, c := range children {
		if c == nil {
			t.Fatalf("child %d is nil", i)
		}
		if c.parent != tile {
			t.Errorf("child %d's parent = %p, want %p", i, c.parent, tile)
		}
		if c.Key.Level != 1 {
			t.Errorf("child %d Key.Level = %d, want 1", i, c.Key.Level)
		}
	}
	// second call must return the same children, not rebuild them
	again := tile.GetChildren(WGS84)
	for i := range children {
		if again[i] != children[i] {
			t.Errorf("GetChildren called twice returned different pointers at index %d", i)
		}
	}
}

func TestChildrenRenderableRequiresAllFour(t *testing.T) {
	tile := newTile(TileKey{}, rootExtent(), 0, 0, nil, WGS84)
	if tile.ChildrenRenderable() {
		t.Error("tile with no children should not report ChildrenRenderable")
	}
	children := tile.GetChildren(WGS84)
	if tile.ChildrenRenderable() {
		t.Error("tile with unrenderable children should not report ChildrenRenderable")
	}
	for _, c := range children {
		c.Renderable = true
	}
	if !tile.ChildrenRenderable() {
		t.Error("tile whose four children are all renderable should report ChildrenRenderable")
	}
}

func TestCompleteTerrainTransitionQueuesUntilDrained(t *testing.T) {
	tile := newTile(TileKey{}, rootExtent(), 0, 0, nil, WGS84)
	tile.CompleteTerrainTransition(TerrainReceived)
	if tile.TerrainState != TerrainUnloaded {
		t.Errorf("state should not change before drainTerrainInbox, got %v", tile.TerrainState)
	}
	tile.drainTerrainInbox()
	if tile.TerrainState != TerrainReceived {
		t.Errorf("TerrainState after drain = %v, want %v", tile.TerrainState, TerrainReceived)
	}
}

func TestRefreshRenderableNoImagery(t *testing.T) {
	tile := newTile(TileKey{}, rootExtent(), 0, 0, nil, WGS84)
	tile.TerrainState = TerrainReady
	tile.refreshRenderable()
	if !tile.Renderable {
		t.Error("a ready tile with no imagery bindings should be renderable")
	}
	if !tile.DoneLoading {
		t.Error("a ready tile with no imagery bindings should be done loading")
	}
}

func TestRefreshRenderableWaitsOnImagery(t *testing.T) {
	tile := newTile(TileKey{}, rootExtent(), 0, 0, nil, WGS84)
	tile.TerrainState = TerrainReady

	layer := NewImageryLayer(newFakeImageryProvider(0, 0))
	img := layer.getOrCreateImagery(layer.Provider.TilingScheme(), TileKey{})
	ti := newTileImagery(img, Extent{East: 1, North: 1})
	tile.Imagery = []*TileImagery{ti}

	tile.refreshRenderable()
	if tile.Renderable {
		t.Error("tile should not be renderable while its only imagery binding isn't ready")
	}
	if tile.DoneLoading {
		t.Error("tile should not be done loading while its only imagery binding isn't settled")
	}

	img.State = ImageryReady
	tile.refreshRenderable()
	if !tile.Renderable {
		t.Error("tile should become renderable once its imagery binding is ready")
	}
	if !tile.DoneLoading {
		t.Error("tile should be done loading once its imagery binding is ready")
	}
}

func TestTileDestroyReleasesResourcesRecursively(t *testing.T) {
	tile := newTile(TileKey{}, rootExtent(), 0, 0, nil, WGS84)
	released := false
	tile.VertexArray = fakeVertexArray{released: &released}
	tile.TerrainState = TerrainReady

	children := tile.GetChildren(WGS84)
	childReleased := false
	children[0].VertexArray = fakeVertexArray{released: &childReleased}
	children[0].TerrainState = TerrainReady

	tile.destroy()

	if !released {
		t.Error("destroy should release the tile's own VertexArray")
	}
	if !childReleased {
		t.Error("destroy should recursively release a resident child's VertexArray")
	}
	if tile.TerrainState != TerrainUnloaded {
		t.Errorf("TerrainState after destroy = %v, want %v", tile.TerrainState, TerrainUnloaded)
	}
	if tile.Renderable || tile.DoneLoading || tile.Failed {
		t.Error("destroy should clear Renderable, DoneLoading and Failed")
	}
}

func TestTileDestroySkipsUnloadedChildren(t *testing.T) {
	tile := newTile(TileKey{}, rootExtent(), 0, 0, nil, WGS84)
	children := tile.GetChildren(WGS84)
	released := false
	children[0].VertexArray = fakeVertexArray{released: &released}
	// children[0].TerrainState stays TerrainUnloaded: destroy should not
	// recurse into it, mirroring "never requested, nothing to free."
	tile.destroy()
	if released {
		t.Error("destroy should not touch an unloaded child's resources")
	}
}
