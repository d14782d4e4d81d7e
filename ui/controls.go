package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsState is what the controls panel shows.
type ControlsState struct {
	ShowIndicators bool
	ShowPerf       bool
	Speed          int
	Shakes         int
	Audio          bool
	AudibleStems   int
}

// ControlsAction is what the user clicked this frame.
type ControlsAction struct {
	ToggleIndicators bool
	TogglePerf       bool
	TestShake        bool
	SpeedDelta       int
}

// ControlsPanel renders the left-side debug panel with toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  false,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and returns the clicked actions.
func (c *ControlsPanel) Draw(state ControlsState) ControlsAction {
	var act ControlsAction
	if !c.visible {
		return act
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	inner := float32(c.width - padding*2)
	buttonH := float32(24)

	panelHeight := lineHeight*6 + int32(buttonH)*4 + padding*6
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Debug", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	bx := float32(c.x + padding)
	if gui.Button(rl.Rectangle{X: bx, Y: float32(y), Width: inner, Height: buttonH}, toggleText(state.ShowIndicators, "Hide colliders [H]", "Show colliders [H]")) {
		act.ToggleIndicators = true
	}
	y += int32(buttonH) + 4

	if gui.Button(rl.Rectangle{X: bx, Y: float32(y), Width: inner, Height: buttonH}, toggleText(state.ShowPerf, "Hide perf [P]", "Show perf [P]")) {
		act.TogglePerf = true
	}
	y += int32(buttonH) + 4

	if gui.Button(rl.Rectangle{X: bx, Y: float32(y), Width: inner, Height: buttonH}, "Test shake [I]") {
		act.TestShake = true
	}
	y += int32(buttonH) + 4

	half := (inner - 4) / 2
	if gui.Button(rl.Rectangle{X: bx, Y: float32(y), Width: half, Height: buttonH}, "Slower [,]") {
		act.SpeedDelta = -1
	}
	if gui.Button(rl.Rectangle{X: bx + half + 4, Y: float32(y), Width: half, Height: buttonH}, "Faster [.]") {
		act.SpeedDelta = 1
	}
	y += int32(buttonH) + padding

	y = r.DrawSectionHeader(c.x+padding, y, "State")
	y = r.DrawLabelValue(c.x+padding, y, "Speed", fmt.Sprintf("%dx", state.Speed))
	y = r.DrawLabelValue(c.x+padding, y, "Shakes", fmt.Sprintf("%d", state.Shakes))
	if state.Audio {
		r.DrawLabelValue(c.x+padding, y, "Stems", fmt.Sprintf("%d", state.AudibleStems))
	} else {
		r.DrawLabelValue(c.x+padding, y, "Audio", "off")
	}

	return act
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
