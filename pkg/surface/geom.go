package surface

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
)

// Cartographic is a geodetic position in radians plus meters above the
// ellipsoid.
type Cartographic struct {
	Longitude float64
	Latitude  float64
	Height    float64
}

// Extent is a geographic rectangle in radians (west/south/east/north).
type Extent struct {
	West, South, East, North float64
}

func (e Extent) Center() Cartographic {
	return Cartographic{
		Longitude: (e.West + e.East) / 2,
		Latitude:  (e.South + e.North) / 2,
	}
}

// ClosestLatitudeToEquator returns the latitude within e nearest zero,
// used by the screen-space-error formula's cos(latitude) geometric-error
// correction.
func (e Extent) ClosestLatitudeToEquator() float64 {
	if e.South > 0 {
		return e.South
	}
	if e.North < 0 {
		return e.North
	}
	return 0
}

// BoundingSphere is the culling aid stored on Tile.
type BoundingSphere struct {
	Center mgl64.Vec3
	Radius float64
}

// boundingSphereFromPoints returns a sphere guaranteed to contain every
// point: center is the centroid, radius the farthest point from it. Not a
// minimal-radius sphere, but sufficient as a culling aid and cheap to
// compute per tile creation.
func boundingSphereFromPoints(points []mgl64.Vec3) BoundingSphere {
	if len(points) == 0 {
		return BoundingSphere{}
	}
	var sum mgl64.Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	center := sum.Mul(1 / float64(len(points)))
	radius := 0.0
	for _, p := range points {
		if d := p.Sub(center).Len(); d > radius {
			radius = d
		}
	}
	return BoundingSphere{Center: center, Radius: radius}
}

// Ellipsoid is the planet shape collaborator, consumed as a pure-function
// library.
type Ellipsoid struct {
	RadiiX, RadiiY, RadiiZ float64
}

// WGS84 is the default ellipsoid, radii in meters.
var WGS84 = Ellipsoid{RadiiX: 6378137.0, RadiiY: 6378137.0, RadiiZ: 6356752.3142451793}

func (e Ellipsoid) geodeticSurfaceNormal(c Cartographic) mgl64.Vec3 {
	cosLat := math.Cos(c.Latitude)
	return mgl64.Vec3{cosLat * math.Cos(c.Longitude), cosLat * math.Sin(c.Longitude), math.Sin(c.Latitude)}
}

// CartographicToCartesian converts a geodetic position to ECEF, following
// the standard geodetic-surface-normal construction (scale the normal by
// the ellipsoid's radii-squared, divide by the square root of that scaled
// vector's dot product with the normal, then offset along the normal by
// height).
func (e Ellipsoid) CartographicToCartesian(c Cartographic) mgl64.Vec3 {
	n := e.geodeticSurfaceNormal(c)
	radiiSq := mgl64.Vec3{e.RadiiX * e.RadiiX, e.RadiiY * e.RadiiY, e.RadiiZ * e.RadiiZ}
	k := mgl64.Vec3{radiiSq[0] * n[0], radiiSq[1] * n[1], radiiSq[2] * n[2]}
	gamma := math.Sqrt(n[0]*k[0] + n[1]*k[1] + n[2]*k[2])
	surface := mgl64.Vec3{k[0] / gamma, k[1] / gamma, k[2] / gamma}
	return surface.Add(n.Mul(c.Height))
}

// ExtentCorners returns the southwest and northeast corners of e in
// Cartesian space, used to seed Tile.southwestCornerCartesian /
// northeastCornerCartesian.
func (e Ellipsoid) ExtentCorners(extent Extent, minHeight float64) (sw, ne mgl64.Vec3) {
	sw = e.CartographicToCartesian(Cartographic{Longitude: extent.West, Latitude: extent.South, Height: minHeight})
	ne = e.CartographicToCartesian(Cartographic{Longitude: extent.East, Latitude: extent.North, Height: minHeight})
	return sw, ne
}

// ExtentPlaneNormals returns outward-facing plane normals for the four
// sides of extent, used by distanceSquaredToTile.
func (e Ellipsoid) ExtentPlaneNormals(extent Extent) (west, east, south, north mgl64.Vec3) {
	westMid := e.geodeticSurfaceNormal(Cartographic{Longitude: extent.West, Latitude: extent.Center().Latitude})
	eastMid := e.geodeticSurfaceNormal(Cartographic{Longitude: extent.East, Latitude: extent.Center().Latitude})
	up := mgl64.Vec3{0, 0, 1}
	west = westMid.Cross(up).Normalize()
	east = up.Cross(eastMid).Normalize()

	southMid := e.geodeticSurfaceNormal(Cartographic{Longitude: extent.Center().Longitude, Latitude: extent.South})
	northMid := e.geodeticSurfaceNormal(Cartographic{Longitude: extent.Center().Longitude, Latitude: extent.North})
	east2 := mgl64.Vec3{-math.Sin(extent.Center().Longitude), math.Cos(extent.Center().Longitude), 0}
	south = east2.Cross(southMid).Normalize()
	north = northMid.Cross(east2).Normalize()
	return west, east, south, north
}

// mercatorY returns the Web Mercator projected Y for a latitude in
// radians. Hand-rolled: no available library performs this specific
// projection, and the formula is small enough not to warrant one.
func mercatorY(latitudeRadians float64) float64 {
	return math.Log(math.Tan(math.Pi/4 + latitudeRadians/2))
}

// splitFloat splits a float64 into a high/low float32 pair so the GPU can
// recover precision lost in a single float32.
func splitFloat(v float64) (hi, lo float32) {
	hi = float32(v)
	lo = float32(v - float64(hi))
	return hi, lo
}

// projectedBound returns extent's Web Mercator projection in meters, using
// orb.Bound as the 2D/Columbus representation. The Y axis still comes from
// this package's own mercatorY, since no available library performs that
// specific projection.
func projectedBound(radius float64, extent Extent) orb.Bound {
	return orb.Bound{
		Min: orb.Point{extent.West * radius, radius * mercatorY(extent.South)},
		Max: orb.Point{extent.East * radius, radius * mercatorY(extent.North)},
	}
}

// boundingSphereFromBound wraps a projected 2D bound in the same
// BoundingSphere shape used for 3D culling, so Selector can use one
// CullingVolume interface regardless of scene mode.
func boundingSphereFromBound(b orb.Bound) BoundingSphere {
	c := b.Center()
	radius := math.Hypot(b.Max.X()-c.X(), b.Max.Y()-c.Y())
	return BoundingSphere{Center: mgl64.Vec3{c.X(), c.Y(), 0}, Radius: radius}
}

// unionBoundingSpheres returns a sphere containing both a and b, used for
// MORPHING mode's union with the 3D sphere.
func unionBoundingSpheres(a, b BoundingSphere) BoundingSphere {
	center := a.Center.Add(b.Center).Mul(0.5)
	da := center.Sub(a.Center).Len() + a.Radius
	db := center.Sub(b.Center).Len() + b.Radius
	radius := da
	if db > radius {
		radius = db
	}
	return BoundingSphere{Center: center, Radius: radius}
}

// distanceSquaredToTile is an AABB-on-ellipsoid "slab" distance estimate:
// squared positive components from west-or-east, south-or-north, and top.
func distanceSquaredToTile(tile *Tile, cameraPosition mgl64.Vec3, cameraHeight float64) float64 {
	var result float64

	fromSW := cameraPosition.Sub(tile.SouthwestCornerCartesian)
	if d := fromSW.Dot(tile.WestNormal); d > 0 {
		result += d * d
	}
	if d := fromSW.Dot(tile.SouthNormal); d > 0 {
		result += d * d
	}

	fromNE := cameraPosition.Sub(tile.NortheastCornerCartesian)
	if d := fromNE.Dot(tile.EastNormal); d > 0 {
		result += d * d
	}
	if d := fromNE.Dot(tile.NorthNormal); d > 0 {
		result += d * d
	}

	if cameraHeight > tile.MaxHeight {
		d := cameraHeight - tile.MaxHeight
		result += d * d
	}
	return result
}
