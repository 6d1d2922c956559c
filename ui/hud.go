package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Nodes          int
	Tick           int64
	StepsPerUpdate int
	FPS            int32
	Paused         bool

	Target   string
	Progress float64
	Fog      float64
	Net      float64
	Fluid    float64

	GravitySign  float64
	GravityScale float64
}

// Weight bar fills, matching the node tints.
var (
	fogFill   = rl.Color{R: 110, G: 125, B: 150, A: 255}
	netFill   = rl.Color{R: 235, G: 235, B: 245, A: 255}
	fluidFill = rl.Color{R: 80, G: 200, B: 255, A: 255}
)

const (
	hudX      = 10
	hudY      = 10
	hudWidth  = 240
	hudHeight = 214
)

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Bounds returns the screen rectangle the HUD occupies.
func (h *HUD) Bounds() rl.Rectangle {
	return rl.Rectangle{X: hudX, Y: hudY, Width: hudWidth, Height: hudHeight}
}

// Draw renders the HUD and reports whether the Advance button was pressed.
func (h *HUD) Draw(data HUDData) bool {
	r := h.renderer
	pad := r.Theme.Padding
	x := int32(hudX) + pad

	r.DrawPanel(hudX, hudY, hudWidth, hudHeight)

	y := r.DrawSectionHeader(x, hudY+pad, data.Title)
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d (%dx)", data.Tick, data.StepsPerUpdate))
	y = r.DrawLabelValue(x, y, "Nodes", fmt.Sprintf("%d", data.Nodes))
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS))
	y = r.DrawLabelValue(x, y, "Target", fmt.Sprintf("%s (%.2f)", data.Target, data.Progress))
	y = r.DrawLabelValue(x, y, "Gravity", fmt.Sprintf("%+.0f x %.2f", data.GravitySign, data.GravityScale))
	y += 4

	inner := int32(hudWidth) - 2*pad
	y = r.DrawBar(x, y, "Fog", data.Fog, fogFill, inner)
	y = r.DrawBar(x, y, "Net", data.Net, netFill, inner)
	y = r.DrawBar(x, y, "Fluid", data.Fluid, fluidFill, inner)
	y += 4

	pressed := gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: 100, Height: 24}, "Advance")

	if data.Paused {
		rl.DrawText("PAUSED", x+110, y+6, 14, rl.Yellow)
	}
	return pressed
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
