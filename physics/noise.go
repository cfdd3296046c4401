package physics

import (
	"math"
	"time"

	"github.com/TFMV/graphlens/models"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoiseLayout displaces the positions of a base layout along a simplex
// noise field. It loosens the grid-like look of small regular graphs.
type NoiseLayout struct {
	baseLayout       LayoutAlgorithm
	noiseGenerator   opensimplex.Noise
	noiseScale       float64
	distortionAmount float64
	bounds           Bounds
}

// NewNoiseLayout wraps base. intensity is clamped to [0, 1].
func NewNoiseLayout(base LayoutAlgorithm, intensity float64) *NoiseLayout {
	return &NoiseLayout{
		baseLayout:       base,
		noiseGenerator:   opensimplex.New(time.Now().UnixNano()),
		noiseScale:       0.03,
		distortionAmount: 20.0 * math.Max(0, math.Min(1, intensity)),
	}
}

// GetName returns the name of the layout algorithm
func (nl *NoiseLayout) GetName() string {
	return "Noise Layout (" + nl.baseLayout.GetName() + ")"
}

// Initialize initializes the base layout
func (nl *NoiseLayout) Initialize(graph *models.Graph, bounds Bounds) {
	nl.bounds = bounds
	nl.baseLayout.Initialize(graph, bounds)
}

// Step performs one iteration of the base layout
func (nl *NoiseLayout) Step() bool {
	return nl.baseLayout.Step()
}

// Positions returns the base positions with noise applied, kept on canvas.
func (nl *NoiseLayout) Positions() models.Layout {
	layout := nl.baseLayout.Positions()
	for id, pos := range layout {
		n1 := nl.noiseGenerator.Eval2(pos.X*nl.noiseScale, pos.Y*nl.noiseScale)
		n2 := nl.noiseGenerator.Eval2(pos.X*nl.noiseScale+100, pos.Y*nl.noiseScale+100)
		pos.X = math.Max(0, math.Min(nl.bounds.Width, pos.X+n1*nl.distortionAmount))
		pos.Y = math.Max(0, math.Min(nl.bounds.Height, pos.Y+n2*nl.distortionAmount))
		layout[id] = pos
	}
	return layout
}
