package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color

	MeterBg    rl.Color
	MeterFull  rl.Color
	MeterHalf  rl.Color
	MeterEmpty rl.Color

	// Threat pips, coolest first. Levels past the end reuse the last color.
	ThreatPips []rl.Color
	PipOff     rl.Color

	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	MeterHeight    int32
	PipGap         int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the reactor-console palette.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:       rl.Color{R: 16, G: 18, B: 22, A: 235},
		PanelBorder:   rl.Color{R: 90, G: 80, B: 40, A: 255},
		SectionHeader: rl.Color{R: 255, G: 200, B: 60, A: 255},
		LabelColor:    rl.LightGray,
		ValueColor:    rl.RayWhite,

		MeterBg:    rl.Color{R: 36, G: 36, B: 40, A: 255},
		MeterFull:  rl.Color{R: 90, G: 210, B: 130, A: 255},
		MeterHalf:  rl.Color{R: 230, G: 190, B: 70, A: 255},
		MeterEmpty: rl.Color{R: 220, G: 70, B: 60, A: 255},

		ThreatPips: []rl.Color{
			{R: 90, G: 200, B: 120, A: 255},
			{R: 220, G: 210, B: 70, A: 255},
			{R: 240, G: 140, B: 40, A: 255},
			{R: 230, G: 50, B: 40, A: 255},
		},
		PipOff: rl.Color{R: 50, G: 50, B: 55, A: 255},

		Padding:        10,
		LineHeight:     16,
		LabelWidth:     60,
		MeterHeight:    12,
		PipGap:         4,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// meterColor picks the fill color for a meter at ratio full.
func (t Theme) meterColor(ratio float32) rl.Color {
	switch {
	case ratio < 0.3:
		return t.MeterEmpty
	case ratio < 0.6:
		return t.MeterHalf
	default:
		return t.MeterFull
	}
}

// pipColor returns the color of lit pip i (zero-based).
func (t Theme) pipColor(i int) rl.Color {
	if len(t.ThreatPips) == 0 {
		return t.ValueColor
	}
	return t.ThreatPips[min(i, len(t.ThreatPips)-1)]
}
