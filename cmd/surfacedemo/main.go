// Command surfacedemo drives a Surface against synthetic terrain and
// imagery providers on a fixed tick, logging what each frame selects and
// assembles. It exists to exercise the engine end to end without a real
// tile server or a live GPU window.
package main

import (
	_ "embed"
	"context"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-gl/mathgl/mgl64"
	glbackend "github.com/kjkrol/gosurface/internal/render/gl"
	"github.com/kjkrol/gosurface/pkg/sim"
	"github.com/kjkrol/gosurface/pkg/surface"
)

//go:embed surface.vert
var surfaceVertexSource string

//go:embed surface.frag
var surfaceFragmentSource string

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	terrainProvider := newFakeTerrainProvider(4)
	imageryProvider := newFakeImageryProvider(0, 4, []byte{200, 180, 120, 255})

	layers := surface.NewImageryLayerCollection()
	layers.Add(surface.NewImageryLayer(imageryProvider))

	shaderSet := glbackend.NewShaderSet(surfaceVertexSource, surfaceFragmentSource)
	surf, err := surface.NewSurface(surface.Options{
		TerrainProvider:     terrainProvider,
		Layers:              layers,
		ShaderSet:           shaderSet,
		MaxScreenSpaceError: 2,
		MaxTextureUnits:     4,
		Logger:              logger,
	})
	if err != nil {
		logger.Error("failed to construct surface", "err", err)
		os.Exit(1)
	}

	renderCtx := newRenderContext()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	frameNumber := uint64(0)
	simulation := sim.New(0, func() {
		frameNumber++
		frame := renderCtx.buildFrame(frameNumber)
		commands := surf.Update(renderCtx.gfxContext, frame)
		logger.Info("frame assembled", "frame", frameNumber, "commands", len(commands))
	})
	simulation.Run(ctx)

	<-ctx.Done()
	surf.Destroy()
	logger.Info("surfacedemo stopped")
}

// renderContext owns the OpenGL-backed surface.Context handed to every
// Update; buildFrame computes the orbiting camera for each tick.
type renderContext struct {
	gfxContext surface.Context
}

func newRenderContext() *renderContext {
	return &renderContext{gfxContext: glbackend.NewContext()}
}

// buildFrame computes a camera slowly orbiting the ellipsoid at a fixed
// height, with an always-visible culling volume since frustum culling is
// an external collaborator this demo does not implement.
func (r *renderContext) buildFrame(frameNumber uint64) surface.FrameState {
	angle := float64(frameNumber) * 0.01
	height := 20000000.0
	radius := surface.WGS84.RadiiX + height
	position := mgl64.Vec3{radius * math.Cos(angle), radius * math.Sin(angle), 0}

	view := mgl64.LookAt(position[0], position[1], position[2], 0, 0, 0, 0, 0, 1)
	projection := mgl64.Perspective(math.Pi/3, 1, 1, radius*4)

	return surface.FrameState{
		FrameNumber: frameNumber,
		Camera: surface.Camera{
			PositionCartesian: position,
			ViewMatrix:        view,
			ProjectionMatrix:  projection,
			FovY:              math.Pi / 3,
		},
		Mode:           surface.Mode3D,
		Culler:         alwaysVisible{},
		ViewportWidth:  1024,
		ViewportHeight: 1024,
	}
}

type alwaysVisible struct{}

func (alwaysVisible) Intersects(surface.BoundingSphere) bool { return true }
