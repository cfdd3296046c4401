// Package physics computes 2D node positions for rendering.
package physics

import (
	"context"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/TFMV/graphlens/models"
)

// Bounds is the canvas area a layout must fit in.
type Bounds struct {
	Width  float64
	Height float64
}

func (b Bounds) center() models.Position {
	return models.Position{X: b.Width / 2, Y: b.Height / 2}
}

// LayoutAlgorithm defines an interface for layout algorithms
type LayoutAlgorithm interface {
	Initialize(graph *models.Graph, bounds Bounds)
	Step() bool // Returns true if stable, false if needs more steps
	Positions() models.Layout
	GetName() string
}

// ForceDirectedLayout implements a Fruchterman-Reingold force-directed layout.
// Initial positions are random and unseeded, so two runs over the same graph
// may differ.
type ForceDirectedLayout struct {
	bounds          Bounds
	nodeIDs         []models.VertexID
	nodePositions   map[models.VertexID]position
	nodeVelocities  map[models.VertexID]velocity
	forces          map[models.VertexID]force
	springs         map[models.VertexID]map[models.VertexID]int // edge multiplicity per unordered pair
	temperature     float64
	k               float64 // optimal distance
	iterations      int
	maxIterations   int
	stable          bool
	energyThreshold float64
	gravity         float64 // Gravity factor
	repulsionForce  float64 // Repulsion strength
	dampingFactor   float64 // Damping for velocity
	springConstant  float64 // Spring stiffness
}

// Force vector components
type force struct {
	fx, fy float64
}

// Position coordinates
type position struct {
	x, y float64
}

// Velocity vector components
type velocity struct {
	vx, vy float64
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout() *ForceDirectedLayout {
	return &ForceDirectedLayout{
		bounds:          Bounds{Width: 800, Height: 600},
		temperature:     10.0,
		maxIterations:   500,
		energyThreshold: 0.001,
		gravity:         0.05,
		repulsionForce:  100.0,
		dampingFactor:   0.9,
		springConstant:  0.04,
	}
}

// GetName returns the name of the layout algorithm
func (fd *ForceDirectedLayout) GetName() string {
	return "Force-Directed Layout"
}

// Initialize places every node at a random position and caches the springs.
func (fd *ForceDirectedLayout) Initialize(graph *models.Graph, bounds Bounds) {
	fd.bounds = bounds
	fd.iterations = 0
	fd.stable = false
	fd.temperature = math.Max(1.0, math.Min(bounds.Width, bounds.Height)/50)
	fd.nodeIDs = make([]models.VertexID, 0, len(graph.Nodes))
	fd.nodePositions = make(map[models.VertexID]position, len(graph.Nodes))
	fd.nodeVelocities = make(map[models.VertexID]velocity, len(graph.Nodes))
	fd.forces = make(map[models.VertexID]force, len(graph.Nodes))
	fd.springs = make(map[models.VertexID]map[models.VertexID]int)

	// Optimal distance between nodes
	// Based on the size of the display area and number of nodes
	nodeCount := math.Max(1, float64(len(graph.Nodes)))
	fd.k = math.Sqrt(bounds.Width * bounds.Height / nodeCount)

	for _, node := range graph.Nodes {
		fd.nodeIDs = append(fd.nodeIDs, node.ID)
		fd.nodePositions[node.ID] = position{
			x: rand.Float64() * bounds.Width,
			y: rand.Float64() * bounds.Height,
		}
		fd.nodeVelocities[node.ID] = velocity{}
		fd.forces[node.ID] = force{}
	}

	// A lone node has nothing to balance against.
	if len(graph.Nodes) == 1 {
		c := bounds.center()
		fd.nodePositions[graph.Nodes[0].ID] = position{x: c.X, y: c.Y}
		fd.stable = true
	}

	// Springs are undirected; self-loops exert no force.
	for _, edge := range graph.Edges {
		if edge.Source == edge.Target {
			continue
		}
		a, b := edge.Source, edge.Target
		if b < a {
			a, b = b, a
		}
		if _, ok := fd.springs[a]; !ok {
			fd.springs[a] = make(map[models.VertexID]int)
		}
		fd.springs[a][b]++
	}
}

// Step performs one iteration of the layout algorithm
func (fd *ForceDirectedLayout) Step() bool {
	// Check if we've exceeded max iterations or reached stability
	if fd.iterations >= fd.maxIterations || fd.stable || len(fd.nodeIDs) == 0 {
		return true
	}

	// Reset forces
	for _, id := range fd.nodeIDs {
		fd.forces[id] = force{}
	}

	center := fd.bounds.center()
	for i, id1 := range fd.nodeIDs {
		pos1 := fd.nodePositions[id1]

		// Gravity keeps disconnected nodes on the canvas.
		dx := center.X - pos1.x
		dy := center.Y - pos1.y
		distance := math.Max(0.1, math.Hypot(dx, dy))
		gravityFactor := fd.gravity * (distance / math.Min(fd.bounds.Width, fd.bounds.Height))
		fd.addForce(id1, dx*gravityFactor, dy*gravityFactor)

		for _, id2 := range fd.nodeIDs[i+1:] {
			pos2 := fd.nodePositions[id2]

			// Vector from node2 to node1
			dx := pos1.x - pos2.x
			dy := pos1.y - pos2.y
			if dx == 0 && dy == 0 {
				// Coincident nodes: nudge apart in a random direction.
				angle := rand.Float64() * 2 * math.Pi
				dx, dy = math.Cos(angle)*0.1, math.Sin(angle)*0.1
			}
			distance := math.Max(0.1, math.Hypot(dx, dy))

			// F = k^2 / distance
			repulsive := (fd.k * fd.k / distance) * fd.repulsionForce / 100.0
			dx /= distance
			dy /= distance
			fd.addForce(id1, dx*repulsive, dy*repulsive)
			fd.addForce(id2, -dx*repulsive, -dy*repulsive)
		}
	}

	// Apply attractive forces (edges pull connected nodes together)
	for id1, connections := range fd.springs {
		pos1 := fd.nodePositions[id1]
		for id2, multiplicity := range connections {
			pos2 := fd.nodePositions[id2]

			dx := pos2.x - pos1.x
			dy := pos2.y - pos1.y
			distance := math.Max(0.1, math.Hypot(dx, dy))

			// F = distance^2 / k, reinforced when both directions exist
			attractive := distance * distance / fd.k * fd.springConstant * float64(multiplicity)
			dx /= distance
			dy /= distance
			fd.addForce(id1, dx*attractive, dy*attractive)
			fd.addForce(id2, -dx*attractive, -dy*attractive)
		}
	}

	// Apply forces with temperature limiting (simulated annealing)
	padding := math.Min(fd.k*0.5, math.Min(fd.bounds.Width, fd.bounds.Height)*0.1)
	totalEnergy := 0.0
	for _, id := range fd.nodeIDs {
		f := fd.forces[id]
		magnitude := math.Hypot(f.fx, f.fy)
		if magnitude > 0 {
			scale := math.Min(magnitude, fd.temperature) / magnitude
			f.fx *= scale
			f.fy *= scale
		}

		// Update velocity with damping
		v := fd.nodeVelocities[id]
		v.vx = (v.vx + f.fx) * fd.dampingFactor
		v.vy = (v.vy + f.fy) * fd.dampingFactor
		fd.nodeVelocities[id] = v

		// Constrain to bounds with padding
		pos := fd.nodePositions[id]
		pos.x = math.Max(padding, math.Min(fd.bounds.Width-padding, pos.x+v.vx))
		pos.y = math.Max(padding, math.Min(fd.bounds.Height-padding, pos.y+v.vy))
		fd.nodePositions[id] = pos

		totalEnergy += math.Hypot(f.fx, f.fy)
	}

	// Cool temperature (simulated annealing)
	fd.temperature *= 0.95

	avgEnergy := totalEnergy / float64(len(fd.nodeIDs))
	fd.stable = avgEnergy < fd.energyThreshold

	fd.iterations++
	return fd.stable
}

func (fd *ForceDirectedLayout) addForce(id models.VertexID, fx, fy float64) {
	f := fd.forces[id]
	fd.forces[id] = force{fx: f.fx + fx, fy: f.fy + fy}
}

// Positions returns the current coordinates of every node.
func (fd *ForceDirectedLayout) Positions() models.Layout {
	layout := make(models.Layout, len(fd.nodePositions))
	for id, pos := range fd.nodePositions {
		layout[id] = models.Position{X: pos.x, Y: pos.y}
	}
	return layout
}

// CircularLayout places nodes on a ring in id order. It is deterministic.
type CircularLayout struct {
	positions models.Layout
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout() *CircularLayout {
	return &CircularLayout{}
}

// GetName returns the name of the layout algorithm
func (cl *CircularLayout) GetName() string {
	return "Circular Layout"
}

// Initialize arranges the nodes evenly around the canvas centre.
func (cl *CircularLayout) Initialize(graph *models.Graph, bounds Bounds) {
	ids := make([]models.VertexID, 0, len(graph.Nodes))
	for _, node := range graph.Nodes {
		ids = append(ids, node.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	center := bounds.center()
	radius := math.Min(bounds.Width, bounds.Height) * 0.4
	cl.positions = make(models.Layout, len(ids))
	for i, id := range ids {
		if len(ids) == 1 {
			cl.positions[id] = center
			break
		}
		angle := (2 * math.Pi * float64(i)) / float64(len(ids))
		cl.positions[id] = models.Position{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
	}
}

// Step is a no-op; the ring is final after Initialize.
func (cl *CircularLayout) Step() bool {
	return true
}

// Positions returns the ring coordinates.
func (cl *CircularLayout) Positions() models.Layout {
	layout := make(models.Layout, len(cl.positions))
	for id, pos := range cl.positions {
		layout[id] = pos
	}
	return layout
}

// Run initializes alg over graph and steps it until it is stable, the
// iteration cap is reached or ctx is done. The returned layout always holds
// a position for every node.
func Run(ctx context.Context, alg LayoutAlgorithm, graph *models.Graph, bounds Bounds, maxIterations int) models.Layout {
	alg.Initialize(graph, bounds)
	if maxIterations <= 0 {
		maxIterations = 100
	}
	for i := 0; i < maxIterations; i++ {
		if ctx.Err() != nil {
			break
		}
		if alg.Step() {
			break
		}
	}
	return alg.Positions()
}

// GetLayoutAlgorithm returns a layout algorithm by name
func GetLayoutAlgorithm(name string, noise float64) LayoutAlgorithm {
	switch name {
	case "circle":
		return NewCircularLayout()
	case "noise":
		if noise <= 0 {
			noise = 0.5
		}
		return NewNoiseLayout(NewForceDirectedLayout(), noise)
	default:
		// Default to force-directed
		if noise > 0 {
			return NewNoiseLayout(NewForceDirectedLayout(), noise)
		}
		return NewForceDirectedLayout()
	}
}
