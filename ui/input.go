package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meltdown/camera"
	"github.com/pthm-cable/meltdown/systems"
)

// Hotkeys are the non-gameplay keys pressed this frame.
type Hotkeys struct {
	ToggleIndicators bool
	ToggleControls   bool
	ToggleHUD        bool
	TogglePerf       bool
	TestShake        bool
	SpeedDelta       int
	Restart          bool
	Fullscreen       bool
	ResetCamera      bool
	Zoom             float32 // Multiplicative zoom, 1 when unchanged
}

// ReadInput maps keyboard and mouse state to one tick of player intent.
// WASD or arrows move, space or shift dashes, J or left click fires toward
// the mouse.
func ReadInput(cam *camera.Camera) systems.PlayerInput {
	var in systems.PlayerInput

	if rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp) {
		in.Move.Y--
	}
	if rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown) {
		in.Move.Y++
	}
	if rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft) {
		in.Move.X--
	}
	if rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight) {
		in.Move.X++
	}

	in.Dash = rl.IsKeyPressed(rl.KeySpace) || rl.IsKeyPressed(rl.KeyLeftShift)
	in.Fire = rl.IsKeyPressed(rl.KeyJ) || rl.IsMouseButtonPressed(rl.MouseButtonLeft)

	mouse := rl.GetMousePosition()
	wx, wy := cam.ScreenToWorld(mouse.X, mouse.Y)
	in.Aim = r3.Vec{X: float64(wx), Y: float64(wy)}
	in.HasAim = true

	return in
}

// ReadHotkeys reads debug and view keys.
func ReadHotkeys() Hotkeys {
	var k Hotkeys
	k.ToggleIndicators = rl.IsKeyPressed(rl.KeyH)
	k.ToggleControls = rl.IsKeyPressed(rl.KeyTab)
	k.ToggleHUD = rl.IsKeyPressed(rl.KeyF1)
	k.TogglePerf = rl.IsKeyPressed(rl.KeyP)
	k.TestShake = rl.IsKeyPressed(rl.KeyI)
	k.Restart = rl.IsKeyPressed(rl.KeyR)
	if rl.IsKeyPressed(rl.KeyComma) {
		k.SpeedDelta--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		k.SpeedDelta++
	}
	k.Fullscreen = rl.IsKeyPressed(rl.KeyF11)
	k.ResetCamera = rl.IsKeyPressed(rl.KeyHome)

	// Zoom controls: mouse wheel or +/- keys
	k.Zoom = 1 + rl.GetMouseWheelMove()*0.1
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		k.Zoom *= 1.25
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		k.Zoom *= 0.8
	}
	return k
}
