package surface

import "github.com/go-gl/mathgl/mgl64"

// Mode is the scene's current projection mode: 3D, 2D, Columbus View, or
// MORPHING (transitioning between 3D and 2D).
type Mode int

const (
	Mode3D Mode = iota
	Mode2D
	ModeColumbusView
	ModeMorphing
)

// CullingVolume is the camera's frustum. Camera and frustum computation
// are external collaborators never implemented inside this package.
type CullingVolume interface {
	Intersects(sphere BoundingSphere) bool
}

// Occluder is the ellipsoidal horizon occluder consumed for tiles that
// carry an OccludeePoint.
type Occluder interface {
	IsVisible(occludeePoint mgl64.Vec3) bool
}

// Camera is the frame's eye state, supplied by the caller each frame.
// Camera computation itself is an external collaborator.
type Camera struct {
	PositionCartesian    mgl64.Vec3
	PositionCartographic Cartographic
	ViewMatrix           mgl64.Mat4
	ProjectionMatrix     mgl64.Mat4
	FovY                 float64
}

// FrameState bundles everything Selector.SelectTiles and
// Assembler.Assemble need about the current frame.
type FrameState struct {
	FrameNumber uint64
	Camera      Camera
	Mode        Mode
	Culler      CullingVolume
	Occluder    Occluder

	ViewportWidth, ViewportHeight int

	// FrustumWidth/FrustumHeight feed the 2D screen-space-error's
	// pixelSize term; unused outside Mode2D.
	FrustumWidth, FrustumHeight float64

	// WireframeDebug selects PrimitiveLines instead of PrimitiveTriangles
	// in the command assembler.
	WireframeDebug bool
}
