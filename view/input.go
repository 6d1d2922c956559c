package view

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard, mouse and touch input.
func (v *View) handleInput() {
	// Window resize propagation
	v.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		v.game.AdvancePhase()
	}

	// Taps arrive as left clicks; the HUD button handles its own clicks
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		mouse := rl.GetMousePosition()
		if !v.showHUD || !rl.CheckCollisionPointRec(mouse, v.hud.Bounds()) {
			v.game.AdvancePhase()
		}
	}

	v.insp.HandleInput(rl.GetMousePosition(), &v.frame)

	if rl.IsKeyPressed(rl.KeyP) {
		v.game.SetPaused(!v.game.Paused())
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		v.game.SetStepsPerUpdate(v.game.StepsPerUpdate() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		v.game.SetStepsPerUpdate(v.game.StepsPerUpdate() + 1)
	}

	if rl.IsKeyPressed(rl.KeyH) {
		v.showHUD = !v.showHUD
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (v *View) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth = w
	v.screenHeight = h

	if v.followScreen {
		v.game.Resize(float64(w), float64(h))
	}
}
