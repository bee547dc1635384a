package surface

import "math"

// GeographicTilingScheme subdivides the full globe uniformly in
// longitude/latitude radians, Cesium's default 2x1 level-zero layout.
type GeographicTilingScheme struct {
	NumXAtLevelZero, NumYAtLevelZero uint32
}

// NewGeographicTilingScheme returns the standard 2x1 level-zero scheme.
func NewGeographicTilingScheme() *GeographicTilingScheme {
	return &GeographicTilingScheme{NumXAtLevelZero: 2, NumYAtLevelZero: 1}
}

func (s *GeographicTilingScheme) NumberOfLevelZeroTilesX() uint32 { return s.NumXAtLevelZero }
func (s *GeographicTilingScheme) NumberOfLevelZeroTilesY() uint32 { return s.NumYAtLevelZero }

func (s *GeographicTilingScheme) Extent(level, x, y uint32) Extent {
	nx := s.NumXAtLevelZero << level
	ny := s.NumYAtLevelZero << level
	tileW := 2 * math.Pi / float64(nx)
	tileH := math.Pi / float64(ny)
	west := -math.Pi + float64(x)*tileW
	north := math.Pi/2 - float64(y)*tileH
	return Extent{West: west, East: west + tileW, North: north, South: north - tileH}
}

func (s *GeographicTilingScheme) TileKeysForExtent(extent Extent, level uint32) []TileKey {
	nx := s.NumXAtLevelZero << level
	ny := s.NumYAtLevelZero << level
	tileW := 2 * math.Pi / float64(nx)
	tileH := math.Pi / float64(ny)

	xStart := clampTileIndex(int((extent.West+math.Pi)/tileW), nx)
	xEnd := clampTileIndex(int(math.Ceil((extent.East+math.Pi)/tileW))-1, nx)
	yStart := clampTileIndex(int((math.Pi/2-extent.North)/tileH), ny)
	yEnd := clampTileIndex(int(math.Ceil((math.Pi/2-extent.South)/tileH))-1, ny)

	var keys []TileKey
	for y := yStart; y <= yEnd; y++ {
		for x := xStart; x <= xEnd; x++ {
			keys = append(keys, TileKey{Level: level, X: uint32(x), Y: uint32(y)})
		}
	}
	return keys
}

// WebMercatorTilingScheme subdivides the globe uniformly in projected Web
// Mercator Y, the scheme most imagery providers actually use.
type WebMercatorTilingScheme struct {
	NumXAtLevelZero, NumYAtLevelZero uint32
}

// NewWebMercatorTilingScheme returns the standard 1x1 level-zero scheme.
func NewWebMercatorTilingScheme() *WebMercatorTilingScheme {
	return &WebMercatorTilingScheme{NumXAtLevelZero: 1, NumYAtLevelZero: 1}
}

func (s *WebMercatorTilingScheme) NumberOfLevelZeroTilesX() uint32 { return s.NumXAtLevelZero }
func (s *WebMercatorTilingScheme) NumberOfLevelZeroTilesY() uint32 { return s.NumYAtLevelZero }

func (s *WebMercatorTilingScheme) Extent(level, x, y uint32) Extent {
	nx := s.NumXAtLevelZero << level
	ny := s.NumYAtLevelZero << level
	tileW := 2 * math.Pi / float64(nx)
	tileYH := 2 * math.Pi / float64(ny)
	west := -math.Pi + float64(x)*tileW
	topY := math.Pi - float64(y)*tileYH
	bottomY := topY - tileYH
	return Extent{
		West:  west,
		East:  west + tileW,
		North: mercatorYInverse(topY),
		South: mercatorYInverse(bottomY),
	}
}

func (s *WebMercatorTilingScheme) TileKeysForExtent(extent Extent, level uint32) []TileKey {
	nx := s.NumXAtLevelZero << level
	ny := s.NumYAtLevelZero << level
	tileW := 2 * math.Pi / float64(nx)
	tileYH := 2 * math.Pi / float64(ny)

	topY := mercatorY(extent.North)
	bottomY := mercatorY(extent.South)

	xStart := clampTileIndex(int((extent.West+math.Pi)/tileW), nx)
	xEnd := clampTileIndex(int(math.Ceil((extent.East+math.Pi)/tileW))-1, nx)
	yStart := clampTileIndex(int((math.Pi-topY)/tileYH), ny)
	yEnd := clampTileIndex(int(math.Ceil((math.Pi-bottomY)/tileYH))-1, ny)

	var keys []TileKey
	for y := yStart; y <= yEnd; y++ {
		for x := xStart; x <= xEnd; x++ {
			keys = append(keys, TileKey{Level: level, X: uint32(x), Y: uint32(y)})
		}
	}
	return keys
}

// mercatorYInverse undoes mercatorY: given projected Y, returns latitude
// in radians.
func mercatorYInverse(y float64) float64 {
	return 2*math.Atan(math.Exp(y)) - math.Pi/2
}

func clampTileIndex(i int, n uint32) int {
	if i < 0 {
		return 0
	}
	if i >= int(n) {
		return int(n) - 1
	}
	return i
}
