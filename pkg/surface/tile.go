package surface

import "github.com/go-gl/mathgl/mgl64"

// TerrainState is Tile's terrain lifecycle, a tagged union with explicit
// transition functions rather than mutation-from-a-getter.
type TerrainState int

const (
	TerrainUnloaded TerrainState = iota
	TerrainTransitioning
	TerrainReceived
	TerrainTransformed
	TerrainReady
	TerrainFailed
)

func (s TerrainState) String() string {
	switch s {
	case TerrainUnloaded:
		return "Unloaded"
	case TerrainTransitioning:
		return "Transitioning"
	case TerrainReceived:
		return "Received"
	case TerrainTransformed:
		return "Transformed"
	case TerrainReady:
		return "Ready"
	case TerrainFailed:
		return "Failed"
	default:
		return "Invalid"
	}
}

// TileKey identifies a quadtree node by level and tile-scheme coordinates.
type TileKey struct {
	Level, X, Y uint32
}

// terrainTransition is a provider callback's result, queued into a tile's
// inbox rather than applied by direct mutation from an arbitrary
// goroutine.
type terrainTransition struct {
	state TerrainState
}

// Tile is one quadtree node.
type Tile struct {
	Key    TileKey
	Extent Extent

	Center                   mgl64.Vec3
	SouthwestCornerCartesian mgl64.Vec3
	NortheastCornerCartesian mgl64.Vec3
	WestNormal               mgl64.Vec3
	EastNormal               mgl64.Vec3
	SouthNormal              mgl64.Vec3
	NorthNormal              mgl64.Vec3
	MinHeight, MaxHeight     float64
	BoundingSphere3D         BoundingSphere
	BoundingSphere2D         BoundingSphere
	OccludeePoint            *mgl64.Vec3

	parent   *Tile
	children [4]*Tile

	TerrainState TerrainState
	VertexArray  VertexArray

	Imagery []*TileImagery

	Renderable  bool
	DoneLoading bool
	// Failed marks a tile whose terrain will never be requested again:
	// mark-subtree-failed, no silent retry.
	Failed bool

	LastSelectionFrame uint64
	Distance           float64

	loadPrev, loadNext   *Tile
	inLoadQueue           bool
	replPrev, replNext    *Tile
	inReplQueue           bool

	terrainInbox chan terrainTransition
}

func newTile(key TileKey, extent Extent, minHeight, maxHeight float64, parent *Tile, ellipsoid Ellipsoid) *Tile {
	sw, ne := ellipsoid.ExtentCorners(extent, minHeight)
	west, east, south, north := ellipsoid.ExtentPlaneNormals(extent)
	center := ellipsoid.CartographicToCartesian(extent.Center())
	corners := []mgl64.Vec3{
		sw, ne,
		ellipsoid.CartographicToCartesian(Cartographic{Longitude: extent.West, Latitude: extent.North, Height: maxHeight}),
		ellipsoid.CartographicToCartesian(Cartographic{Longitude: extent.East, Latitude: extent.South, Height: maxHeight}),
	}
	return &Tile{
		Key:                      key,
		Extent:                   extent,
		Center:                   center,
		SouthwestCornerCartesian: sw,
		NortheastCornerCartesian: ne,
		WestNormal:               west,
		EastNormal:               east,
		SouthNormal:              south,
		NorthNormal:              north,
		MinHeight:                minHeight,
		MaxHeight:                maxHeight,
		BoundingSphere3D:         boundingSphereFromPoints(corners),
		BoundingSphere2D:         boundingSphereFromBound(projectedBound(ellipsoid.RadiiX, extent)),
		parent:                   parent,
		TerrainState:             TerrainUnloaded,
		terrainInbox:             make(chan terrainTransition, 4),
	}
}

// IsRoot reports whether t is a level-zero tile with no owning parent.
func (t *Tile) IsRoot() bool { return t.parent == nil }

// Parent returns t's non-owning back reference, nil for roots.
func (t *Tile) Parent() *Tile { return t.parent }

// HasChildren reports whether all four children have been created
// (invariant 5: children are either all four present or all four absent).
func (t *Tile) HasChildren() bool { return t.children[0] != nil }

// GetChildren lazily creates t's four children on first call, splitting
// t.Extent at its midpoint, and returns them in (x,y) = (0,0),(1,0),(0,1),(1,1)
// order.
func (t *Tile) GetChildren(ellipsoid Ellipsoid) [4]*Tile {
	if t.HasChildren() {
		return t.children
	}
	mid := t.Extent.Center()
	for dy := uint32(0); dy < 2; dy++ {
		for dx := uint32(0); dx < 2; dx++ {
			childExtent := quadrant(t.Extent, mid, dx, dy)
			childKey := TileKey{Level: t.Key.Level + 1, X: t.Key.X*2 + dx, Y: t.Key.Y*2 + dy}
			t.children[dy*2+dx] = newTile(childKey, childExtent, t.MinHeight, t.MaxHeight, t, ellipsoid)
		}
	}
	return t.children
}

func quadrant(extent Extent, mid Cartographic, dx, dy uint32) Extent {
	out := extent
	if dx == 0 {
		out.East = mid.Longitude
	} else {
		out.West = mid.Longitude
	}
	// Tiling schemes count y from the north, so dy == 0 is the northern half.
	if dy == 0 {
		out.South = mid.Latitude
	} else {
		out.North = mid.Latitude
	}
	return out
}

// ChildrenRenderable reports whether all four children exist and are each
// renderable; the selector refines only when this holds, never partially.
func (t *Tile) ChildrenRenderable() bool {
	if !t.HasChildren() {
		return false
	}
	for _, c := range t.children {
		if c == nil || !c.Renderable {
			return false
		}
	}
	return true
}

// ReadyImageryCount counts imagery bindings whose backing Imagery is
// Ready, used to bucket tiles by texture count.
func (t *Tile) ReadyImageryCount() int {
	n := 0
	for _, ti := range t.Imagery {
		if ti.imagery != nil && ti.imagery.State == ImageryReady {
			n++
		}
	}
	return n
}

// refreshRenderable recomputes Renderable and DoneLoading from current
// terrain/imagery state.
func (t *Tile) refreshRenderable() {
	terrainReady := t.TerrainState == TerrainReady
	if !terrainReady {
		t.Renderable = false
		t.DoneLoading = false
		return
	}
	if len(t.Imagery) == 0 {
		t.Renderable = true
	} else {
		t.Renderable = t.ReadyImageryCount() > 0
	}

	allSettled := true
	for _, ti := range t.Imagery {
		if ti.imagery == nil {
			allSettled = false
			break
		}
		switch ti.imagery.State {
		case ImageryReady:
		case ImageryFailed, ImageryInvalid:
			if ti.originalImagery == nil {
				allSettled = false
			}
		default:
			allSettled = false
		}
		if !allSettled {
			break
		}
	}
	t.DoneLoading = allSettled
}

// CompleteTerrainTransition queues a provider callback's result for the
// pump to observe next frame. Safe to call from any goroutine; this is
// the method TerrainProvider implementations call to report a state
// transition.
func (t *Tile) CompleteTerrainTransition(state TerrainState) {
	select {
	case t.terrainInbox <- terrainTransition{state: state}:
	default:
	}
}

func (t *Tile) drainTerrainInbox() {
	for {
		select {
		case tr := <-t.terrainInbox:
			t.TerrainState = tr.state
		default:
			return
		}
	}
}

// destroy releases every GPU resource and imagery reference held by t and,
// recursively, by any resident children, and returns them to
// TerrainUnloaded. It does not unlink t or its children from the load or
// replacement queues.
func (t *Tile) destroy() {
	if t.VertexArray != nil {
		t.VertexArray.Release()
		t.VertexArray = nil
	}
	for _, ti := range t.Imagery {
		ti.release()
	}
	t.Imagery = nil
	for i, c := range t.children {
		if c != nil && c.TerrainState != TerrainUnloaded {
			c.destroy()
		}
		t.children[i] = nil
	}
	t.TerrainState = TerrainUnloaded
	t.Renderable = false
	t.DoneLoading = false
	t.Failed = false
}
