package surface

// Texture, VertexArray and ShaderProgram are opaque GPU handles owned by a
// Context implementation. The engine never inspects them; it only tracks
// their lifetime (create once, Release on eviction).
type Texture interface {
	Release()
}

type VertexArray interface {
	Release()
}

type ShaderProgram interface{}

// RenderState is an opaque backend render-state handle (depth test, blend,
// etc). The engine passes it through unmodified.
type RenderState interface{}

// Context is the rendering backend: texture/vertex-array creation and GPU
// state queries, nothing else. No draw-submission method lives here;
// submission happens outside the engine, against the Command values
// Update returns.
type Context interface {
	CreateTexture2D(width, height int, pixels []byte) Texture
	CreateVertexArrayFromMesh(mesh any) VertexArray
	MaximumTextureImageUnits() int
}

// ShaderSet hands back a program specialized for drawing a tile with
// numTextures bound imagery textures.
type ShaderSet interface {
	GetShaderProgram(ctx Context, numTextures int) ShaderProgram
}

type PrimitiveType int

const (
	PrimitiveTriangles PrimitiveType = iota
	PrimitiveLines
)

// UniformMap bundles the per-tile uniforms a Command carries. Keys are
// named by uniform intent, not shader-specific locations; the backend
// resolves them.
type UniformMap map[string]any

// Command is one draw call: a tile's vertex array plus up to maxTextureUnits
// imagery textures and their uniforms.
type Command struct {
	ShaderProgram  ShaderProgram
	RenderState    RenderState
	PrimitiveType  PrimitiveType
	VertexArray    VertexArray
	UniformMap     UniformMap
	BoundingVolume BoundingSphere
}
