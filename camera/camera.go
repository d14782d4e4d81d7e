// Package camera provides the player-following camera with screen shake.
package camera

import (
	"math"
	"math/rand"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Settings tunes how the camera chases the player. Persisted between runs.
type Settings struct {
	MinSmooth    float32 `yaml:"min_smooth"`
	MaxSmooth    float32 `yaml:"max_smooth"`
	MaxDistance  float32 `yaml:"max_distance"`
	SnapDistance float32 `yaml:"snap_distance"`
	LeadFactor   float32 `yaml:"lead_factor"`
	ShakeScale   float32 `yaml:"shake_scale"`
}

// shake is one active screen shake. The tween decays intensity to zero.
type shake struct {
	tween   *gween.Tween
	current float32
}

// Camera follows a point in an unbounded world.
type Camera struct {
	// Follow point in world coordinates (without shake)
	X, Y float32

	// Shake offset applied on top of the follow point
	ShakeX, ShakeY float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	Settings Settings

	shakes []shake
	rng    *rand.Rand
}

// New creates a camera centered on the origin with 1:1 zoom.
func New(viewportW, viewportH float32, settings Settings, rng *rand.Rand) *Camera {
	return &Camera{
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   0.25,
		MaxZoom:   4.0,
		Settings:  settings,
		rng:       rng,
	}
}

// Follow moves the follow point toward the target, leading in the direction
// of travel. The chase rate grows with distance, up to MaxSmooth at MaxDistance.
func (c *Camera) Follow(px, py, vx, vy, dt float32) {
	tx, ty := px, py
	if l := float32(math.Hypot(float64(vx), float64(vy))); l > 1e-6 {
		tx += vx / l * c.Settings.LeadFactor
		ty += vy / l * c.Settings.LeadFactor
	}

	dx := tx - c.X
	dy := ty - c.Y
	dist := float32(math.Hypot(float64(dx), float64(dy)))
	if dist < c.Settings.SnapDistance {
		c.X, c.Y = tx, ty
		return
	}

	t := float32(1)
	if c.Settings.MaxDistance > 0 {
		t = clamp(dist/c.Settings.MaxDistance, 0, 1)
	}
	smooth := c.Settings.MinSmooth + (c.Settings.MaxSmooth-c.Settings.MinSmooth)*t
	step := clamp(smooth*dt, 0, 1)
	c.X += dx * step
	c.Y += dy * step
}

// CenterOn jumps the follow point to a world position.
func (c *Camera) CenterOn(x, y float32) {
	c.X, c.Y = x, y
}

// PushShake starts a shake that decays linearly over duration seconds.
// Shakes stack; the strongest active one drives the offset.
func (c *Camera) PushShake(intensity, duration float32) {
	if duration <= 0 || intensity <= 0 {
		return
	}
	scaled := intensity * c.Settings.ShakeScale
	c.shakes = append(c.shakes, shake{
		tween:   gween.New(scaled, 0, duration, ease.Linear),
		current: scaled,
	})
}

// Update advances active shakes and recomputes the shake offset.
func (c *Camera) Update(dt float32) {
	kept := c.shakes[:0]
	var strongest float32
	for _, s := range c.shakes {
		v, finished := s.tween.Update(dt)
		if finished {
			continue
		}
		s.current = v
		strongest = max(strongest, v)
		kept = append(kept, s)
	}
	clear(c.shakes[len(kept):])
	c.shakes = kept

	if strongest == 0 || c.rng == nil {
		c.ShakeX, c.ShakeY = 0, 0
		return
	}
	c.ShakeX = (c.rng.Float32()*2 - 1) * strongest
	c.ShakeY = (c.rng.Float32()*2 - 1) * strongest
}

// ActiveShakes returns the number of shakes still decaying.
func (c *Camera) ActiveShakes() int {
	return len(c.shakes)
}

// ShakeIntensity returns the strongest current shake intensity.
func (c *Camera) ShakeIntensity() float32 {
	var strongest float32
	for _, s := range c.shakes {
		strongest = max(strongest, s.current)
	}
	return strongest
}

// Position returns the view center including shake.
func (c *Camera) Position() (x, y float32) {
	return c.X + c.ShakeX, c.Y + c.ShakeY
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	cx, cy := c.Position()
	sx = c.ViewportW/2 + (wx-cx)*c.Zoom
	sy = c.ViewportH/2 + (wy-cy)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	cx, cy := c.Position()
	wx = cx + (sx-c.ViewportW/2)/c.Zoom
	wy = cy + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	cx, cy := c.Position()
	halfW := c.ViewportW/2/c.Zoom + radius
	halfH := c.ViewportH/2/c.Zoom + radius
	return absf(wx-cx) <= halfW && absf(wy-cy) <= halfH
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// SetZoom sets zoom level with clamping.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies current zoom by factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers on the origin, clears shakes and restores 1:1 zoom.
func (c *Camera) Reset() {
	c.X, c.Y = 0, 0
	c.ShakeX, c.ShakeY = 0, 0
	c.Zoom = 1.0
	c.shakes = c.shakes[:0]
}

// VisibleWorldBounds returns the world-space rectangle visible on screen.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	cx, cy := c.Position()
	halfW := c.ViewportW / 2 / c.Zoom
	halfH := c.ViewportH / 2 / c.Zoom
	return cx - halfW, cy - halfH, cx + halfW, cy + halfH
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
