// Package inspector shows the live state of a selected node.
package inspector

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/phasefield/game"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30

	hitTolerance = 6 // extra pick radius around a node dot
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorHighlight   = rl.Color{R: 253, G: 249, B: 0, A: 255}
)

// Inspector manages node selection and panel rendering.
type Inspector struct {
	selected    uint32
	hasSelected bool
	hitRadius   float64
}

// NewInspector creates an inspector that picks nodes within nodeSize of the cursor.
func NewInspector(nodeSize float64) *Inspector {
	return &Inspector{hitRadius: nodeSize + hitTolerance}
}

// HandleInput selects the node nearest a right click, or clears the
// selection on a right click over empty space.
func (ins *Inspector) HandleInput(mouse rl.Vector2, f *game.Frame) {
	if !rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		return
	}

	id, ok := Pick(f.Nodes, float64(mouse.X), float64(mouse.Y), ins.hitRadius)
	if !ok {
		ins.Deselect()
		return
	}
	ins.selected = id
	ins.hasSelected = true
}

// Pick returns the ID of the node closest to (x, y) within radius.
func Pick(nodes []game.NodeView, x, y, radius float64) (uint32, bool) {
	var closest uint32
	closestDist := radius * radius
	found := false

	for _, n := range nodes {
		dx := n.X - x
		dy := n.Y - y
		if dist := dx*dx + dy*dy; dist <= closestDist {
			closest = n.ID
			closestDist = dist
			found = true
		}
	}
	return closest, found
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the currently selected node ID.
func (ins *Inspector) Selected() (uint32, bool) {
	return ins.selected, ins.hasSelected
}

// Draw renders the selection ring and the detail panel at the right edge of the screen.
func (ins *Inspector) Draw(g *game.Game, screenWidth int32) {
	if !ins.hasSelected {
		return
	}

	detail, ok := g.Inspect(ins.selected)
	if !ok {
		ins.Deselect()
		return
	}

	cx, cy := int32(detail.X), int32(detail.Y)
	rl.DrawCircleLines(cx, cy, float32(ins.hitRadius), ColorHighlight)
	conn := g.Config().Net.ConnectionDist
	rl.DrawCircleLines(cx, cy, float32(conn), rl.Color{R: 200, G: 200, B: 200, A: 50})

	fields := ExtractFields(detail)

	panelHeight := int32(HeaderHeight + 2*PanelPadding)
	for _, f := range fields {
		panelHeight += FieldHeight(f)
	}

	panelX := screenWidth - PanelWidth - 10
	panelY := int32(10)

	rl.DrawRectangle(panelX, panelY, PanelWidth, panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(panelX), Y: float32(panelY), Width: PanelWidth, Height: float32(panelHeight)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(panelX, panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("NODE", panelX+PanelPadding, panelY+7, 16, ColorHeaderText)

	x := panelX + PanelPadding
	y := panelY + HeaderHeight + PanelPadding
	for _, f := range fields {
		y += DrawField(x, y, f)
	}
}
