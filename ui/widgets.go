package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws themed HUD widgets. Every Draw method returns the next free Y.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a bordered panel background.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	r.label(x, y, label)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawMeter draws a current/max gauge that shifts from green to red as it drains.
func (r *Renderer) DrawMeter(x, y int32, label string, current, total float32, width int32) int32 {
	var ratio float32
	if total > 0 {
		ratio = min(max(current/total, 0), 1)
	}

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 60

	r.label(x, y, label)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.MeterHeight, r.Theme.MeterBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*ratio), r.Theme.MeterHeight, r.Theme.meterColor(ratio))
	rl.DrawText(fmt.Sprintf("%.0f/%.0f", current, total), barX+barWidth+6, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawPips draws level out of total as a row of segments, lit from the left.
func (r *Renderer) DrawPips(x, y int32, label string, level, total int, width int32) int32 {
	r.label(x, y, label)
	if total <= 0 {
		return y + r.Theme.LineHeight + 2
	}

	rowX := x + r.Theme.LabelWidth
	rowWidth := width - r.Theme.LabelWidth - 60
	gap := r.Theme.PipGap
	pipWidth := (rowWidth - gap*int32(total-1)) / int32(total)

	for i := range total {
		c := r.Theme.PipOff
		if i < level {
			c = r.Theme.pipColor(i)
		}
		rl.DrawRectangle(rowX+int32(i)*(pipWidth+gap), y+2, pipWidth, r.Theme.MeterHeight, c)
	}
	rl.DrawText(fmt.Sprintf("%d/%d", level, total), rowX+rowWidth+6, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

func (r *Renderer) label(x, y int32, text string) {
	rl.DrawText(text+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
}
