package systems

import "math"

// Phase is a discrete behavioral regime.
type Phase int

const (
	PhaseFog   Phase = iota // Noise-driven drift
	PhaseNet                // Local attraction/repulsion network
	PhaseFluid              // Global vortex flow
)

// String returns the display name for a Phase.
func (p Phase) String() string {
	switch p {
	case PhaseFog:
		return "fog"
	case PhaseNet:
		return "net"
	case PhaseFluid:
		return "fluid"
	}
	return "unknown"
}

// Weights holds the blend weight of each regime, each in [0, 1].
// They do not sum to 1 during transitions.
type Weights struct {
	Fog   float64
	Net   float64
	Fluid float64
}

// WeightsAt derives blend weights from a progress value in [0, 2].
func WeightsAt(progress float64) Weights {
	return Weights{
		Fog:   clamp01(1 - progress),
		Net:   clamp01(1 - math.Abs(progress-1)),
		Fluid: clamp01(progress - 1),
	}
}

// Transition describes the effect of one Advance call.
type Transition struct {
	From, To     Phase
	CrossedFluid bool // From/To is the Net/Fluid pair
}

// PhaseController tracks the target regime and the smoothed progress toward it.
// Advancing ping-pongs 0,1,2,1,0,...
type PhaseController struct {
	target    Phase
	previous  Phase
	direction int
	progress  float64
	speed     float64

	// onFluidBoundary fires when the target crosses between Net and Fluid.
	onFluidBoundary func(from, to Phase)
}

// NewPhaseController creates a controller at Fog heading toward Net.
// speed is the per-update smoothing factor; onFluidBoundary may be nil.
func NewPhaseController(speed float64, onFluidBoundary func(from, to Phase)) *PhaseController {
	return &PhaseController{
		target:          PhaseFog,
		previous:        PhaseFog,
		direction:       1,
		speed:           speed,
		onFluidBoundary: onFluidBoundary,
	}
}

// Advance moves the target one step along the ping-pong cycle.
func (c *PhaseController) Advance() Transition {
	if c.target == PhaseFog {
		c.direction = 1
	}
	if c.target == PhaseFluid {
		c.direction = -1
	}
	next := c.target + Phase(c.direction)
	if next < PhaseFog {
		next = PhaseFog
	} else if next > PhaseFluid {
		next = PhaseFluid
	}
	c.target = next

	t := Transition{From: c.previous, To: c.target}
	if (t.From == PhaseNet && t.To == PhaseFluid) || (t.From == PhaseFluid && t.To == PhaseNet) {
		t.CrossedFluid = true
		if c.onFluidBoundary != nil {
			c.onFluidBoundary(t.From, t.To)
		}
	}
	c.previous = c.target
	return t
}

// Update moves progress a fixed fraction of the way toward the target.
func (c *PhaseController) Update() {
	c.progress += (float64(c.target) - c.progress) * c.speed
}

// Weights returns the blend weights for the current progress.
func (c *PhaseController) Weights() Weights {
	return WeightsAt(c.progress)
}

// Target returns the current discrete target phase.
func (c *PhaseController) Target() Phase { return c.target }

// Progress returns the smoothed progress in [0, 2].
func (c *PhaseController) Progress() float64 { return c.progress }

// Direction returns +1 when cycling toward Fluid, -1 toward Fog.
func (c *PhaseController) Direction() int { return c.direction }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
