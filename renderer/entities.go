// Package renderer draws the world through the game camera.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meltdown/camera"
	"github.com/pthm-cable/meltdown/components"
	"github.com/pthm-cable/meltdown/systems"
)

// materialColors is indexed by components.Material. Index 0 is the
// near-terminal look, the last index the freshest atoms.
var materialColors = []rl.Color{
	{R: 255, G: 90, B: 60, A: 255},
	{R: 255, G: 160, B: 60, A: 255},
	{R: 240, G: 220, B: 90, A: 255},
	{R: 140, G: 230, B: 120, A: 255},
	{R: 90, G: 200, B: 255, A: 255},
}

var (
	neutronColor  = rl.Color{R: 200, G: 240, B: 255, A: 255}
	hostileColor  = rl.Color{R: 255, G: 80, B: 200, A: 255}
	pickupColor   = rl.Color{R: 120, G: 255, B: 160, A: 255}
	playerColor   = rl.Color{R: 245, G: 245, B: 250, A: 255}
	emitterColor  = rl.Color{R: 120, G: 120, B: 140, A: 255}
	outlineColor  = rl.Color{R: 0, G: 255, B: 0, A: 200}
	gridLineColor = rl.Color{R: 30, G: 34, B: 48, A: 255}
)

// EntityRenderer draws every visible gameplay entity as simple shapes.
type EntityRenderer struct {
	atoms     ecs.Filter3[components.Transform, components.Collider, components.Material]
	neutrons  ecs.Filter2[components.Transform, components.Collider]
	pickups   ecs.Filter2[components.Transform, components.Collider]
	players   ecs.Filter4[components.Transform, components.Collider, components.Player, components.Dash]
	emitters  ecs.Filter1[components.Transform]
	outlines  ecs.Filter2[components.Transform, components.Indicator]
	hostileOf *ecs.Map[components.RemoveOnPlayerCollision]
}

// NewEntityRenderer creates the draw queries for w.
func NewEntityRenderer(w *ecs.World) *EntityRenderer {
	return &EntityRenderer{
		atoms: *ecs.NewFilter3[components.Transform, components.Collider, components.Material](w).
			With(ecs.C[components.Atom]()),
		neutrons: *ecs.NewFilter2[components.Transform, components.Collider](w).
			With(ecs.C[components.Neutron]()),
		pickups: *ecs.NewFilter2[components.Transform, components.Collider](w).
			With(ecs.C[components.BulletsPickup]()),
		players: *ecs.NewFilter4[components.Transform, components.Collider, components.Player, components.Dash](w),
		emitters: *ecs.NewFilter1[components.Transform](w).
			With(ecs.C[components.Emitter]()),
		outlines:  *ecs.NewFilter2[components.Transform, components.Indicator](w),
		hostileOf: ecs.NewMap[components.RemoveOnPlayerCollision](w),
	}
}

// Draw renders the grid, entities and, when enabled, collider outlines.
func (r *EntityRenderer) Draw(cam *camera.Camera, showOutlines bool) {
	drawGrid(cam, 100)

	eq := r.emitters.Query()
	for eq.Next() {
		t := eq.Get()
		sx, sy := cam.WorldToScreen(float32(t.Translation.X), float32(t.Translation.Y))
		size := 14 * cam.Zoom
		rl.DrawRectangleV(rl.Vector2{X: sx - size/2, Y: sy - size/2}, rl.Vector2{X: size, Y: size}, emitterColor)
	}

	pq := r.pickups.Query()
	for pq.Next() {
		t, c := pq.Get()
		abs := systems.Absolute(*c, *t)
		r.drawRing(cam, abs, pickupColor)
	}

	aq := r.atoms.Query()
	for aq.Next() {
		t, c, m := aq.Get()
		abs := systems.Absolute(*c, *t)
		color := materialColors[min(max(m.Index, 0), len(materialColors)-1)]
		r.drawSpinning(cam, abs, t, color)
	}

	nq := r.neutrons.Query()
	for nq.Next() {
		t, c := nq.Get()
		abs := systems.Absolute(*c, *t)
		color := neutronColor
		if r.hostileOf.Has(nq.Entity()) {
			color = hostileColor
		}
		r.drawDisc(cam, abs, color)
	}

	plq := r.players.Query()
	for plq.Next() {
		t, c, p, dash := plq.Get()
		abs := systems.Absolute(*c, *t)
		color := playerColor
		if dash.Active() {
			color = rl.Fade(playerColor, 0.5)
		}
		r.drawDisc(cam, abs, color)

		center := abs.Center()
		sx, sy := cam.WorldToScreen(float32(center.X), float32(center.Y))
		reach := float32(abs.Circle.Radius*1.6) * cam.Zoom
		fx, fy := float32(p.Facing.X), float32(p.Facing.Y)
		rl.DrawLineEx(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: sx + fx*reach, Y: sy + fy*reach}, 2, playerColor)
	}

	if showOutlines {
		oq := r.outlines.Query()
		for oq.Next() {
			t, ind := oq.Get()
			r.drawOutline(cam, systems.Absolute(ind.Shape, *t))
		}
	}
}

func (r *EntityRenderer) drawDisc(cam *camera.Camera, abs systems.AbsoluteCollider, color rl.Color) {
	c := abs.Circle
	if !cam.IsVisible(float32(c.Position.X), float32(c.Position.Y), float32(c.Radius)) {
		return
	}
	sx, sy := cam.WorldToScreen(float32(c.Position.X), float32(c.Position.Y))
	rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, float32(c.Radius)*cam.Zoom, color)
}

func (r *EntityRenderer) drawRing(cam *camera.Camera, abs systems.AbsoluteCollider, color rl.Color) {
	c := abs.Circle
	if !cam.IsVisible(float32(c.Position.X), float32(c.Position.Y), float32(c.Radius)) {
		return
	}
	sx, sy := cam.WorldToScreen(float32(c.Position.X), float32(c.Position.Y))
	radius := float32(c.Radius) * cam.Zoom
	rl.DrawRing(rl.Vector2{X: sx, Y: sy}, radius*0.7, radius, 0, 360, 24, color)
}

// drawSpinning draws an atom with a spoke showing its current spin.
func (r *EntityRenderer) drawSpinning(cam *camera.Camera, abs systems.AbsoluteCollider, t *components.Transform, color rl.Color) {
	c := abs.Circle
	if !cam.IsVisible(float32(c.Position.X), float32(c.Position.Y), float32(c.Radius)) {
		return
	}
	sx, sy := cam.WorldToScreen(float32(c.Position.X), float32(c.Position.Y))
	radius := float32(c.Radius) * cam.Zoom
	rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, rl.Fade(color, 0.35))
	rl.DrawCircleLinesV(rl.Vector2{X: sx, Y: sy}, radius, color)

	angle := zAngle(t)
	dx := float32(math.Cos(angle)) * radius
	dy := float32(math.Sin(angle)) * radius
	rl.DrawLineEx(rl.Vector2{X: sx - dx, Y: sy - dy}, rl.Vector2{X: sx + dx, Y: sy + dy}, 2, color)
}

func (r *EntityRenderer) drawOutline(cam *camera.Camera, abs systems.AbsoluteCollider) {
	switch abs.Kind {
	case components.ShapeRect:
		tl := abs.Rect.TL
		sx, sy := cam.WorldToScreen(float32(tl.X), float32(tl.Y))
		w := float32(abs.Rect.Size.X) * cam.Zoom
		h := float32(abs.Rect.Size.Y) * cam.Zoom
		rl.DrawRectangleLinesEx(rl.Rectangle{X: sx, Y: sy, Width: w, Height: h}, 1, outlineColor)
	default:
		c := abs.Circle
		sx, sy := cam.WorldToScreen(float32(c.Position.X), float32(c.Position.Y))
		rl.DrawCircleLinesV(rl.Vector2{X: sx, Y: sy}, float32(c.Radius)*cam.Zoom, outlineColor)
	}
}

// drawGrid draws world-aligned grid lines spaced step units apart.
func drawGrid(cam *camera.Camera, step float32) {
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	startX := float32(math.Floor(float64(minX/step))) * step
	startY := float32(math.Floor(float64(minY/step))) * step

	for x := startX; x <= maxX; x += step {
		sx, _ := cam.WorldToScreen(x, 0)
		rl.DrawLineV(rl.Vector2{X: sx, Y: 0}, rl.Vector2{X: sx, Y: cam.ViewportH}, gridLineColor)
	}
	for y := startY; y <= maxY; y += step {
		_, sy := cam.WorldToScreen(0, y)
		rl.DrawLineV(rl.Vector2{X: 0, Y: sy}, rl.Vector2{X: cam.ViewportW, Y: sy}, gridLineColor)
	}
}

// zAngle extracts the rotation around Z from a transform's quaternion.
func zAngle(t *components.Transform) float64 {
	q := t.Rotation
	return math.Atan2(2*(q.Real*q.Kmag+q.Imag*q.Jmag), 1-2*(q.Jmag*q.Jmag+q.Kmag*q.Kmag))
}
