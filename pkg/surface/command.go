package surface

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Assembler turns a frame's selected tiles into draw commands, packing up
// to MaxTextureUnits ready imagery textures per command.
type Assembler struct {
	ShaderSet        ShaderSet
	MaxTextureUnits  int
	SolidRenderState RenderState
	WireRenderState  RenderState

	pool        []*Command
	uniformPool []UniformMap
}

// NewAssembler wires an assembler against a shader set and the backend's
// texture unit limit.
func NewAssembler(shaderSet ShaderSet, maxTextureUnits int) *Assembler {
	return &Assembler{ShaderSet: shaderSet, MaxTextureUnits: maxTextureUnits}
}

type readyImagerySlot struct {
	ti      *TileImagery
	texture Texture
	alpha   float64
}

// Assemble emits one command list for result, front-to-back sorted within
// each texture-count bucket. Each call copies out of Assembler's internal
// pool, which is reused (and its prior contents overwritten) on the next
// Assemble call.
func (a *Assembler) Assemble(ctx Context, result SelectionResult, frame FrameState) []Command {
	index := 0
	for textureCount, bucket := range result.TilesToRenderByTextureCount {
		if len(bucket) == 0 {
			continue
		}
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].Distance < bucket[j].Distance })
		program := a.ShaderSet.GetShaderProgram(ctx, textureCount)
		for _, tile := range bucket {
			index = a.emitTile(tile, program, frame, index)
		}
	}
	// The last written slot is index-1, so truncating to index (not
	// index-1 or index-0) keeps exactly the commands just emitted.
	a.pool = a.pool[:index]
	out := make([]Command, index)
	for i, cmd := range a.pool {
		out[i] = *cmd
	}
	return out
}

func (a *Assembler) emitTile(tile *Tile, program ShaderProgram, frame FrameState, index int) int {
	ready := make([]readyImagerySlot, 0, len(tile.Imagery))
	for _, ti := range tile.Imagery {
		tex := ti.ReadyTexture()
		if tex == nil {
			continue
		}
		alpha := 1.0
		if layer := ti.Layer(); layer != nil {
			alpha = layer.Alpha
		}
		ready = append(ready, readyImagerySlot{ti: ti, texture: tex, alpha: alpha})
	}

	batches := 1
	if a.MaxTextureUnits > 0 && len(ready) > 0 {
		batches = (len(ready) + a.MaxTextureUnits - 1) / a.MaxTextureUnits
	}

	mv, mvp := relativeToCenterMatrices(tile.Center, frame.Camera.ViewMatrix, frame.Camera.ProjectionMatrix)
	quad := computeMercatorQuad(tile.Extent)

	for b := 0; b < batches; b++ {
		start := b * a.MaxTextureUnits
		end := start + a.MaxTextureUnits
		if a.MaxTextureUnits == 0 || end > len(ready) {
			end = len(ready)
		}

		cmd, um := a.slotAt(index)
		index++

		um["u_center3D"] = tile.Center
		um["u_modifiedModelView"] = mv
		um["u_modifiedModelViewProjection"] = mvp
		um["u_tileExtent"] = tile.Extent

		if frame.Mode == Mode2D || frame.Mode == ModeColumbusView {
			um["u_southAndNorthLatitude"] = [2]float64{quad.SouthLatitude, quad.NorthLatitude}
			um["u_southMercatorYHighLow"] = [2]float32{quad.SouthMercatorYHigh, quad.SouthMercatorYLow}
			um["u_oneOverMercatorHeight"] = quad.OneOverMercatorHeight
		}

		for slot, entry := range ready[start:end] {
			um[fmt.Sprintf("u_dayTextures[%d]", slot)] = entry.texture
			um[fmt.Sprintf("u_dayTextureTranslationAndScale[%d]", slot)] = [4]float64{entry.ti.tx, entry.ti.ty, entry.ti.sx, entry.ti.sy}
			um[fmt.Sprintf("u_dayTextureTexCoordsRectangle[%d]", slot)] = entry.ti.textureCoordinateExtent
			um[fmt.Sprintf("u_dayTextureAlpha[%d]", slot)] = entry.alpha
		}

		cmd.ShaderProgram = program
		cmd.VertexArray = tile.VertexArray
		cmd.UniformMap = um
		cmd.BoundingVolume = tile.BoundingSphere3D
		if frame.WireframeDebug {
			cmd.PrimitiveType = PrimitiveLines
			cmd.RenderState = a.WireRenderState
		} else {
			cmd.PrimitiveType = PrimitiveTriangles
			cmd.RenderState = a.SolidRenderState
		}
	}
	return index
}

// slotAt returns the pooled Command/UniformMap pair at index, growing the
// pool and clearing a reused map as needed.
func (a *Assembler) slotAt(index int) (*Command, UniformMap) {
	for len(a.pool) <= index {
		a.pool = append(a.pool, &Command{})
		a.uniformPool = append(a.uniformPool, UniformMap{})
	}
	um := a.uniformPool[index]
	for k := range um {
		delete(um, k)
	}
	return a.pool[index], um
}

// relativeToCenterMatrices computes the RTC modified model-view and
// model-view-projection matrices: the view matrix's translation column is
// replaced by the tile center transformed into eye space, so vertex
// positions can be stored relative to the tile center without losing
// float precision.
func relativeToCenterMatrices(center mgl64.Vec3, view, projection mgl64.Mat4) (mv, mvp mgl64.Mat4) {
	centerEye := view.Mul4x1(mgl64.Vec4{center[0], center[1], center[2], 1})
	mv = view
	mv.SetCol(3, centerEye)
	mvp = projection.Mul4(mv)
	return mv, mvp
}

// mercatorQuad carries the 2D/Columbus-mode Mercator precision data: a
// high/low float32 split of the south Y so the GPU can recover precision.
type mercatorQuad struct {
	SouthLatitude, NorthLatitude       float64
	SouthMercatorYHigh, SouthMercatorYLow float32
	OneOverMercatorHeight              float64
}

func computeMercatorQuad(extent Extent) mercatorQuad {
	southY := mercatorY(extent.South)
	northY := mercatorY(extent.North)
	hi, lo := splitFloat(southY)
	height := northY - southY
	oneOver := 0.0
	if height != 0 {
		oneOver = 1 / height
	}
	return mercatorQuad{
		SouthLatitude:         extent.South,
		NorthLatitude:         extent.North,
		SouthMercatorYHigh:    hi,
		SouthMercatorYLow:     lo,
		OneOverMercatorHeight: oneOver,
	}
}
