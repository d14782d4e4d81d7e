// Package ui draws the HUD and debug panels and reads player input.
package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/meltdown/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Tick         int32
	Speed        int
	FPS          int32
	Atoms        int
	Neutrons     int
	Pickups      int
	Threat       int
	MaxThreat    int
	TotalEvents  uint64
	Health       float64
	MaxHealth    float64
	Bullets      int
	MaxBullets   int
	DashReady    bool
	GameOver     bool
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer

	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Atoms: %d | Neutrons: %d | Pickups: %d", data.Atoms, data.Neutrons, data.Pickups),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d | Fissions: %d", data.Tick, data.Speed, data.FPS, data.TotalEvents),
		10, 55, 16, rl.LightGray,
	)

	y := int32(80)
	y = r.DrawMeter(10, y, "Health", float32(data.Health), float32(data.MaxHealth), 260)
	y = r.DrawMeter(10, y, "Ammo", float32(data.Bullets), float32(data.MaxBullets), 260)
	y = r.DrawPips(10, y, "Threat", data.Threat, data.MaxThreat, 260)

	dashText, dashColor := "Dash ready", rl.Green
	if !data.DashReady {
		dashText, dashColor = "Dash charging", rl.Gray
	}
	rl.DrawText(dashText, 10, y, r.Theme.FontSize, dashColor)

	if data.GameOver {
		h.drawGameOver(data)
	}
}

func (h *HUD) drawGameOver(data HUDData) {
	const title = "MELTDOWN"
	titleWidth := rl.MeasureText(title, 48)
	rl.DrawText(title, data.ScreenWidth/2-titleWidth/2, data.ScreenHeight/2-40, 48, rl.Red)

	sub := fmt.Sprintf("%d fissions in %d ticks", data.TotalEvents, data.Tick)
	subWidth := rl.MeasureText(sub, 20)
	rl.DrawText(sub, data.ScreenWidth/2-subWidth/2, data.ScreenHeight/2+20, 20, rl.LightGray)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase tick timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel, slowest phases first.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y
	phases := stats.Slowest()
	p.renderer.DrawPanel(x-6, y-6, 360, 48+14*int32(len(phases)))

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s | %.0f ticks/s", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, st := range phases {
		color := rl.LightGray
		if st.Pct > 20 {
			color = rl.Red
		} else if st.Pct > 10 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-16s %6s %5.1f%% peak %s", st.Phase, st.Avg.Round(time.Microsecond), st.Pct, st.Peak.Round(time.Microsecond)),
			x, y, 12, color,
		)
		y += 14
	}
}
