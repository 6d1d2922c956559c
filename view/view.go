// Package view runs the interactive raylib front end over a Game.
package view

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/phasefield/game"
	"github.com/pthm-cable/phasefield/inspector"
	"github.com/pthm-cable/phasefield/renderer"
	"github.com/pthm-cable/phasefield/ui"
)

const controlsText = "Click/Space: advance | Right click: inspect | P: pause | </>: speed | H: hud | F11: fullscreen"

// View owns the window-side state for one Game.
type View struct {
	game  *game.Game
	nodes *renderer.NodeRenderer
	hud   *ui.HUD
	insp  *inspector.Inspector
	frame game.Frame

	showHUD bool

	// followScreen resizes the domain with the window when no world size is configured.
	followScreen              bool
	screenWidth, screenHeight float32
}

// New creates a view for g. The raylib window must already be open.
func New(g *game.Game) *View {
	cfg := g.Config()
	return &View{
		game:         g,
		nodes:        renderer.NewNodeRenderer(cfg.Visual, cfg.Net),
		hud:          ui.NewHUD(),
		insp:         inspector.NewInspector(cfg.Visual.NodeSize),
		showHUD:      true,
		followScreen: cfg.World.Width == 0 && cfg.World.Height == 0,
		screenWidth:  float32(rl.GetScreenWidth()),
		screenHeight: float32(rl.GetScreenHeight()),
	}
}

// Update handles input then advances the simulation.
func (v *View) Update() {
	v.handleInput()
	v.game.Update()
	v.game.Perf().RecordFrame()
}

// Draw renders the current frame.
func (v *View) Draw() {
	v.game.Snapshot(&v.frame)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 8, G: 10, B: 14, A: 255})

	v.nodes.Draw(&v.frame)
	v.insp.Draw(v.game, int32(v.screenWidth))

	if v.showHUD {
		profile := v.frame.Profile
		advance := v.hud.Draw(ui.HUDData{
			Title:          "Phasefield",
			Nodes:          len(v.frame.Nodes),
			Tick:           v.frame.Tick,
			StepsPerUpdate: v.game.StepsPerUpdate(),
			FPS:            rl.GetFPS(),
			Paused:         v.game.Paused(),
			Target:         v.frame.Target.String(),
			Progress:       v.frame.Progress,
			Fog:            v.frame.Weights.Fog,
			Net:            v.frame.Weights.Net,
			Fluid:          v.frame.Weights.Fluid,
			GravitySign:    profile.GravitySign,
			GravityScale:   profile.GravityScale,
		})
		if advance {
			v.game.AdvancePhase()
		}
		v.hud.DrawControls(int32(v.screenHeight), controlsText)
	}

	rl.EndDrawing()
}

// Unload releases the game's resources.
func (v *View) Unload() {
	v.game.Unload()
}

// Tick returns the simulation tick.
func (v *View) Tick() int64 {
	return v.game.Tick()
}
