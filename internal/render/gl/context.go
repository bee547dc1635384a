//go:build !js

// Package gl implements surface.Context and surface.ShaderSet over
// desktop OpenGL, adapted from internal/renderer/renderer_gl.go and
// pkg/gfx/renderer_gl.go's program-build and resource-pooling patterns.
package gl

import (
	"fmt"
	"strings"

	glcore "github.com/go-gl/gl/v3.3-core/gl"
	"github.com/kjkrol/gosurface/pkg/surface"
)

// Texture wraps a GL texture object.
type Texture struct{ id uint32 }

func (t *Texture) Release() {
	if t.id != 0 {
		glcore.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// VertexArray wraps a GL VAO plus the VBO backing it.
type VertexArray struct{ vao, vbo uint32 }

func (v *VertexArray) Release() {
	if v.vbo != 0 {
		glcore.DeleteBuffers(1, &v.vbo)
		v.vbo = 0
	}
	if v.vao != 0 {
		glcore.DeleteVertexArrays(1, &v.vao)
		v.vao = 0
	}
}

// Context is the engine's surface.Context backed by desktop OpenGL.
type Context struct {
	maxTextureUnits int
}

// NewContext queries the driver's texture unit limit once and returns a
// ready-to-use Context. Must be called with a current GL context.
func NewContext() *Context {
	var max int32
	glcore.GetIntegerv(glcore.MAX_TEXTURE_IMAGE_UNITS, &max)
	return &Context{maxTextureUnits: int(max)}
}

func (c *Context) MaximumTextureImageUnits() int { return c.maxTextureUnits }

// CreateTexture2D uploads a tightly packed RGBA buffer as a non-mipmapped
// 2D texture.
func (c *Context) CreateTexture2D(width, height int, pixels []byte) surface.Texture {
	var id uint32
	glcore.GenTextures(1, &id)
	glcore.BindTexture(glcore.TEXTURE_2D, id)
	glcore.TexParameteri(glcore.TEXTURE_2D, glcore.TEXTURE_WRAP_S, glcore.CLAMP_TO_EDGE)
	glcore.TexParameteri(glcore.TEXTURE_2D, glcore.TEXTURE_WRAP_T, glcore.CLAMP_TO_EDGE)
	glcore.TexParameteri(glcore.TEXTURE_2D, glcore.TEXTURE_MIN_FILTER, glcore.LINEAR)
	glcore.TexParameteri(glcore.TEXTURE_2D, glcore.TEXTURE_MAG_FILTER, glcore.LINEAR)
	var ptr *byte
	if len(pixels) > 0 {
		ptr = &pixels[0]
	}
	glcore.TexImage2D(glcore.TEXTURE_2D, 0, glcore.RGBA, int32(width), int32(height), 0, glcore.RGBA, glcore.UNSIGNED_BYTE, glcore.Ptr(ptr))
	return &Texture{id: id}
}

// CreateVertexArrayFromMesh expects mesh to be a []float32 of
// interleaved position/texcoord data (position.xyz, texcoord.uv per
// vertex); nil produces an empty VAO so providers can defer real geometry
// upload.
func (c *Context) CreateVertexArrayFromMesh(mesh any) surface.VertexArray {
	var vao, vbo uint32
	glcore.GenVertexArrays(1, &vao)
	glcore.GenBuffers(1, &vbo)
	glcore.BindVertexArray(vao)
	glcore.BindBuffer(glcore.ARRAY_BUFFER, vbo)

	data, _ := mesh.([]float32)
	if len(data) > 0 {
		glcore.BufferData(glcore.ARRAY_BUFFER, len(data)*4, glcore.Ptr(data), glcore.STATIC_DRAW)
	}

	const stride = 5 * 4 // position.xyz + texcoord.uv, float32
	glcore.VertexAttribPointer(0, 3, glcore.FLOAT, false, stride, glcore.PtrOffset(0))
	glcore.EnableVertexAttribArray(0)
	glcore.VertexAttribPointer(1, 2, glcore.FLOAT, false, stride, glcore.PtrOffset(3*4))
	glcore.EnableVertexAttribArray(1)

	glcore.BindVertexArray(0)
	return &VertexArray{vao: vao, vbo: vbo}
}

// ShaderSet builds one program per imagery texture count on first request
// and caches it, following renderer_gl.go's buildProgram/buildShaderSource
// #define-preprocessor pattern (here, "#define NUM_TEXTURES n" instead of
// a pass name).
type ShaderSet struct {
	VertexSource, FragmentSource string

	programs map[int]uint32
}

// NewShaderSet wraps raw GLSL source carrying a "NUM_TEXTURES" macro
// switch point.
func NewShaderSet(vertexSource, fragmentSource string) *ShaderSet {
	return &ShaderSet{
		VertexSource:   vertexSource,
		FragmentSource: fragmentSource,
		programs:       make(map[int]uint32),
	}
}

func (s *ShaderSet) GetShaderProgram(ctx surface.Context, numTextures int) surface.ShaderProgram {
	if program, ok := s.programs[numTextures]; ok {
		return program
	}
	program := s.buildProgram(numTextures)
	s.programs[numTextures] = program
	return program
}

func (s *ShaderSet) buildProgram(numTextures int) uint32 {
	define := fmt.Sprintf("#define NUM_TEXTURES %d\n", numTextures)
	vertexShader, err := compileShader(glcore.VERTEX_SHADER, "#version 330 core\n"+define+s.VertexSource)
	if err != nil {
		panic(err)
	}
	fragmentShader, err := compileShader(glcore.FRAGMENT_SHADER, "#version 330 core\n"+define+s.FragmentSource)
	if err != nil {
		panic(err)
	}

	program := glcore.CreateProgram()
	glcore.AttachShader(program, vertexShader)
	glcore.AttachShader(program, fragmentShader)
	glcore.LinkProgram(program)

	var status int32
	glcore.GetProgramiv(program, glcore.LINK_STATUS, &status)
	if status == glcore.FALSE {
		var logLength int32
		glcore.GetProgramiv(program, glcore.INFO_LOG_LENGTH, &logLength)
		logBuf := strings.Repeat("\x00", int(logLength+1))
		glcore.GetProgramInfoLog(program, logLength, nil, glcore.Str(logBuf))
		panic(fmt.Errorf("surface shader link error: %s", logBuf))
	}

	glcore.DeleteShader(vertexShader)
	glcore.DeleteShader(fragmentShader)
	return program
}

func compileShader(shaderType uint32, source string) (uint32, error) {
	shader := glcore.CreateShader(shaderType)
	csources, free := glcore.Strs(source + "\x00")
	glcore.ShaderSource(shader, 1, csources, nil)
	free()
	glcore.CompileShader(shader)

	var status int32
	glcore.GetShaderiv(shader, glcore.COMPILE_STATUS, &status)
	if status == glcore.FALSE {
		var logLength int32
		glcore.GetShaderiv(shader, glcore.INFO_LOG_LENGTH, &logLength)
		logBuf := strings.Repeat("\x00", int(logLength+1))
		glcore.GetShaderInfoLog(shader, logLength, nil, glcore.Str(logBuf))
		return 0, fmt.Errorf("surface shader compile error: %s", logBuf)
	}
	return shader, nil
}
