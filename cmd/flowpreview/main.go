// Flow field preview tool - interactive visualization of the fog and fluid
// noise angle fields with sliders.
//
// Usage: go run ./cmd/flowpreview
package main

import (
	"fmt"
	"image/color"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/phasefield/config"
	"github.com/pthm-cable/phasefield/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 128
	arrowStep    = 16 // grid cells between arrows
)

// FlowParams holds the noise field parameters being previewed.
type FlowParams struct {
	Fluid         bool // fluid field (two turns) instead of fog (four turns)
	Perlin        bool
	NoiseScale    float32
	TimeScale     float32
	PerlinAlpha   float32
	PerlinBeta    float32
	PerlinOctaves int
	Seed          int64
}

// defaultParams seeds the sliders from the embedded config.
func defaultParams() FlowParams {
	cfg := config.Defaults()
	return FlowParams{
		Perlin:        cfg.Noise.Backend == config.NoisePerlin,
		NoiseScale:    float32(cfg.Fog.NoiseScale),
		TimeScale:     float32(cfg.Fog.TimeScale),
		PerlinAlpha:   float32(cfg.Noise.PerlinAlpha),
		PerlinBeta:    float32(cfg.Noise.PerlinBeta),
		PerlinOctaves: cfg.Noise.PerlinOctaves,
		Seed:          12345,
	}
}

func (p FlowParams) noiseConfig() config.NoiseConfig {
	backend := config.NoiseSimplex
	if p.Perlin {
		backend = config.NoisePerlin
	}
	return config.NoiseConfig{
		Backend:       backend,
		PerlinAlpha:   float64(p.PerlinAlpha),
		PerlinBeta:    float64(p.PerlinBeta),
		PerlinOctaves: p.PerlinOctaves,
	}
}

// turns is the number of full rotations across the noise range.
func (p FlowParams) turns() float64 {
	if p.Fluid {
		return 2
	}
	return 4
}

func (p FlowParams) section() string {
	if p.Fluid {
		return "fluid"
	}
	return "fog"
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Flow Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()
	cfg := config.Defaults()

	// Preview covers the configured world
	worldW, worldH := cfg.Derived.WorldW, cfg.Derived.WorldH

	angles := make([]float64, gridSize*gridSize)
	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var frame float64
	animating := false
	needsRegen := true

	field, err := systems.NewNoiseField(params.noiseConfig(), params.Seed)
	if err != nil {
		panic(err)
	}

	for !rl.WindowShouldClose() {
		if animating {
			frame++
			needsRegen = true
		}

		if needsRegen {
			generateAngles(angles, field, params, worldW, worldH, frame)
			updateTexture(texture, angles)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		drawArrows(angles)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Frame: %.0f  World: %.0fx%.0f", frame, worldW, worldH), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Field: %s  Backend: %s", params.section(), params.noiseConfig().Backend), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Flow Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rebuild := false
		changed := false

		var v float32
		v, panelY = slider(panelX, panelY, "Noise scale (spatial frequency)", "%.4f", params.NoiseScale, 0.0005, 0.02)
		changed = changed || v != params.NoiseScale
		params.NoiseScale = v

		v, panelY = slider(panelX, panelY, "Time scale (drift per frame)", "%.4f", params.TimeScale, 0, 0.05)
		changed = changed || v != params.TimeScale
		params.TimeScale = v

		if params.Perlin {
			v, panelY = slider(panelX, panelY, "Perlin alpha (octave weight)", "%.2f", params.PerlinAlpha, 1, 4)
			rebuild = rebuild || v != params.PerlinAlpha
			params.PerlinAlpha = v

			v, panelY = slider(panelX, panelY, "Perlin beta (octave frequency)", "%.2f", params.PerlinBeta, 1, 4)
			rebuild = rebuild || v != params.PerlinBeta
			params.PerlinBeta = v

			v, panelY = slider(panelX, panelY, "Perlin octaves", "%.0f", float32(params.PerlinOctaves), 1, 6)
			rebuild = rebuild || int(v) != params.PerlinOctaves
			params.PerlinOctaves = int(v)
		}

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(params.Fluid, "Show Fog", "Show Fluid")) {
			params.Fluid = !params.Fluid
			noiseScale, timeScale := cfg.Fog.NoiseScale, cfg.Fog.TimeScale
			if params.Fluid {
				noiseScale, timeScale = cfg.Fluid.NoiseScale, cfg.Fluid.TimeScale
			}
			params.NoiseScale = float32(noiseScale)
			params.TimeScale = float32(timeScale)
			changed = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(params.Perlin, "Simplex", "Perlin")) {
			params.Perlin = !params.Perlin
			rebuild = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			rebuild = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			frame = 0
			rebuild = true
		}
		panelY += 55

		if rebuild {
			field, err = systems.NewNoiseField(params.noiseConfig(), params.Seed)
			if err != nil {
				panic(err)
			}
		}
		if rebuild || changed {
			needsRegen = true
		}

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := yamlSnippet(params)
		for _, line := range yaml {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			text := ""
			for _, line := range yaml {
				text += line + "\n"
			}
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider and returns the new value and next Y.
func slider(x, y float32, label, format string, value, lo, hi float32) (float32, float32) {
	rl.DrawText(label, int32(x), int32(y), 14, rl.Gray)
	y += 18
	out := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf(format, lo), fmt.Sprintf(format, hi),
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(y+2), 16, rl.DarkGray)
	return out, y + 35
}

func yamlSnippet(p FlowParams) []string {
	nc := p.noiseConfig()
	lines := []string{
		p.section() + ":",
		fmt.Sprintf("  noise_scale: %.4f", p.NoiseScale),
		fmt.Sprintf("  time_scale: %.4f", p.TimeScale),
		"noise:",
		fmt.Sprintf("  backend: %s", nc.Backend),
	}
	if p.Perlin {
		lines = append(lines,
			fmt.Sprintf("  perlin_alpha: %.2f", p.PerlinAlpha),
			fmt.Sprintf("  perlin_beta: %.2f", p.PerlinBeta),
			fmt.Sprintf("  perlin_octaves: %d", p.PerlinOctaves),
		)
	}
	return lines
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// generateAngles samples the force angle at each grid cell, the same mapping
// the force pass uses.
func generateAngles(angles []float64, field systems.NoiseField, p FlowParams, worldW, worldH, frame float64) {
	scale := float64(p.NoiseScale)
	t := frame * float64(p.TimeScale)
	turns := p.turns()

	for y := 0; y < gridSize; y++ {
		wy := (float64(y) + 0.5) / gridSize * worldH
		for x := 0; x < gridSize; x++ {
			wx := (float64(x) + 0.5) / gridSize * worldW
			n := field.Eval3(wx*scale, wy*scale, t)
			angles[y*gridSize+x] = n * 2 * math.Pi * turns
		}
	}
}

// drawArrows overlays a coarse grid of direction strokes.
func drawArrows(angles []float64) {
	cell := float32(previewSize) / gridSize
	length := cell * arrowStep * 0.4

	for y := arrowStep / 2; y < gridSize; y += arrowStep {
		for x := arrowStep / 2; x < gridSize; x += arrowStep {
			sin, cos := math.Sincos(angles[y*gridSize+x])
			cx := 10 + (float32(x)+0.5)*cell
			cy := 10 + (float32(y)+0.5)*cell
			end := rl.Vector2{X: cx + float32(cos)*length, Y: cy + float32(sin)*length}
			rl.DrawLineEx(rl.Vector2{X: cx, Y: cy}, end, 2, rl.Color{R: 255, G: 255, B: 255, A: 200})
			rl.DrawCircleV(end, 2, rl.White)
		}
	}
}

// updateTexture colors each cell by its angle hue.
func updateTexture(texture rl.Texture2D, angles []float64) {
	pixels := make([]color.RGBA, len(angles))
	for i, a := range angles {
		hue := math.Mod(a, 2*math.Pi) / (2 * math.Pi) * 360
		c := rl.ColorFromHSV(float32(hue), 0.55, 0.8)
		pixels[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}
