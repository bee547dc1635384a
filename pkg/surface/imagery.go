package surface

// ImageryState is Imagery's lifecycle, mirroring TerrainState's
// tagged-union shape.
type ImageryState int

const (
	ImageryPlaceholder ImageryState = iota
	ImageryUnloaded
	ImageryTransitioning
	ImageryReceived
	ImageryTextureLoaded
	ImageryReady
	ImageryFailed
	ImageryInvalid
)

func (s ImageryState) String() string {
	switch s {
	case ImageryPlaceholder:
		return "Placeholder"
	case ImageryUnloaded:
		return "Unloaded"
	case ImageryTransitioning:
		return "Transitioning"
	case ImageryReceived:
		return "Received"
	case ImageryTextureLoaded:
		return "TextureLoaded"
	case ImageryReady:
		return "Ready"
	case ImageryFailed:
		return "Failed"
	case ImageryInvalid:
		return "Invalid"
	default:
		return "Invalid"
	}
}

type imageryTransition struct {
	state ImageryState
}

// Imagery is one node of a layer's texture pyramid, shared by every
// TileImagery that references it.
type Imagery struct {
	Layer  *ImageryLayer
	Key    TileKey
	Extent Extent
	Parent *Imagery
	State  ImageryState
	Texture Texture

	refCount int
	inbox    chan imageryTransition
}

func newImagery(layer *ImageryLayer, key TileKey, extent Extent, parent *Imagery) *Imagery {
	state := ImageryUnloaded
	if !layer.Provider.Ready() {
		state = ImageryPlaceholder
	}
	// A child holds a reference on its parent, given back by
	// releaseReference once the child's own count reaches zero.
	if parent != nil {
		parent.addReference()
	}
	return &Imagery{
		Layer:  layer,
		Key:    key,
		Extent: extent,
		Parent: parent,
		State:  state,
		inbox:  make(chan imageryTransition, 4),
	}
}

// addReference increments the share count (invariant 6).
func (img *Imagery) addReference() { img.refCount++ }

// releaseReference decrements the share count, releasing the texture and
// the parent's own reference once it reaches zero.
func (img *Imagery) releaseReference() {
	img.refCount--
	if img.refCount > 0 {
		return
	}
	if img.Texture != nil {
		img.Texture.Release()
		img.Texture = nil
	}
	if img.Parent != nil {
		img.Parent.releaseReference()
	}
	img.Layer.forget(img)
}

// CompleteImageryTransition queues a provider callback's result. Safe to
// call from any goroutine; this is the method ImageryProvider
// implementations call to report a state transition.
func (img *Imagery) CompleteImageryTransition(state ImageryState) {
	select {
	case img.inbox <- imageryTransition{state: state}:
	default:
	}
}

func (img *Imagery) drainInbox() {
	for {
		select {
		case tr := <-img.inbox:
			img.State = tr.state
		default:
			return
		}
	}
}
