package surface

// TileImagery binds a terrain tile to one imagery texture region, with a
// fallback chain to an ancestor's imagery on failure.
type TileImagery struct {
	imagery         *Imagery
	originalImagery *Imagery

	textureCoordinateExtent Extent // sub-rectangle of [0,1]^2 this imagery covers
	tx, ty, sx, sy          float64
	translationScaleReady   bool
}

func newTileImagery(imagery *Imagery, textureCoordinateExtent Extent) *TileImagery {
	imagery.addReference()
	return &TileImagery{imagery: imagery, textureCoordinateExtent: textureCoordinateExtent}
}

// Layer reports which layer this binding belongs to, or nil once released.
func (ti *TileImagery) Layer() *ImageryLayer {
	if ti.imagery == nil {
		return nil
	}
	return ti.imagery.Layer
}

// ReadyTexture returns the texture to draw for this binding: the imagery's
// own texture if ready, else nil.
func (ti *TileImagery) ReadyTexture() Texture {
	if ti.imagery == nil || ti.imagery.State != ImageryReady {
		return nil
	}
	return ti.imagery.Texture
}

// processFallback walks the imagery.Parent chain when imagery has failed,
// substituting the nearest usable ancestor while keeping the failed
// imagery alive in originalImagery.
func (ti *TileImagery) processFallback() {
	if ti.imagery == nil {
		return
	}
	if ti.imagery.State != ImageryFailed && ti.imagery.State != ImageryInvalid {
		return
	}
	if ti.originalImagery == nil {
		ti.originalImagery = ti.imagery
	}
	candidate := ti.imagery.Parent
	for candidate != nil && (candidate.State == ImageryFailed || candidate.State == ImageryInvalid) {
		candidate = candidate.Parent
	}
	if candidate == nil || candidate == ti.imagery {
		return
	}
	candidate.addReference()
	if ti.imagery != ti.originalImagery {
		ti.imagery.releaseReference()
	}
	ti.imagery = candidate
	ti.translationScaleReady = false
}

// computeTranslationAndScale caches textureTranslationAndScale the first
// time the bound imagery reaches Ready.
func (ti *TileImagery) computeTranslationAndScale(tileExtent Extent) {
	if ti.translationScaleReady || ti.imagery == nil || ti.imagery.State != ImageryReady {
		return
	}
	ie := ti.imagery.Extent
	imageryW := ie.East - ie.West
	imageryH := ie.North - ie.South
	if imageryW == 0 || imageryH == 0 {
		return
	}
	ti.sx = (tileExtent.East - tileExtent.West) / imageryW
	ti.sy = (tileExtent.North - tileExtent.South) / imageryH
	ti.tx = (tileExtent.West - ie.West) / imageryW
	ti.ty = (tileExtent.South - ie.South) / imageryH
	ti.translationScaleReady = true
}

func (ti *TileImagery) release() {
	if ti.originalImagery != nil {
		if ti.imagery != nil && ti.imagery != ti.originalImagery {
			ti.imagery.releaseReference()
		}
		ti.originalImagery.releaseReference()
	} else if ti.imagery != nil {
		ti.imagery.releaseReference()
	}
	ti.imagery = nil
	ti.originalImagery = nil
}
