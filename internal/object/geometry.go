package object

import (
	"fmt"
	"math/rand"
)

// Kind identifies what a set of dimensions is generated for.
type Kind int

const (
	KindObstacle Kind = iota
	KindBoundary
)

// Policy selects how obstacle dimensions are produced. It is fixed for the
// lifetime of a GeometryPool.
type Policy int

const (
	PolicyTable   Policy = iota // pick from a precomputed table of 25 shapes
	PolicyUniform               // draw each axis uniformly from its range
)

// ParsePolicy maps a config value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "table", "":
		return PolicyTable, nil
	case "uniform":
		return PolicyUniform, nil
	default:
		return 0, fmt.Errorf("unknown geometry policy %q", s)
	}
}

func (p Policy) String() string {
	if p == PolicyUniform {
		return "uniform"
	}
	return "table"
}

// Dimensions is the size of a box along X, Y and Z.
type Dimensions struct {
	Width, Height, Depth float64
}

// Obstacle and boundary size ranges.
const (
	ObstacleMinWidth  = 10.0
	ObstacleMaxWidth  = 20.0
	ObstacleMinHeight = 20.0
	ObstacleMaxHeight = 100.0
	ObstacleMinDepth  = 10.0
	ObstacleMaxDepth  = 20.0

	// Table shapes: width = base + i*step, height = top - j*step.
	tableSteps      = 5
	tableWidthBase  = 10.0
	tableWidthStep  = 5.0
	tableHeightTop  = 100.0
	tableHeightStep = 16.0
	tableDepth      = 15.0

	BoundaryWidth     = 20.0
	BoundaryMinHeight = 40
	BoundaryMaxHeight = 60
	BoundaryDepth     = 400.0
)

// GeometryPool hands out box dimensions for new and recycled entities.
type GeometryPool struct {
	policy Policy
	rng    *rand.Rand
	table  [tableSteps * tableSteps]Dimensions
}

// NewGeometryPool creates a pool drawing from rng with the given policy.
func NewGeometryPool(policy Policy, rng *rand.Rand) *GeometryPool {
	p := &GeometryPool{policy: policy, rng: rng}
	for i := 0; i < tableSteps; i++ {
		for j := 0; j < tableSteps; j++ {
			p.table[i*tableSteps+j] = Dimensions{
				Width:  tableWidthBase + float64(i)*tableWidthStep,
				Height: tableHeightTop - float64(j)*tableHeightStep,
				Depth:  tableDepth,
			}
		}
	}
	return p
}

// Policy returns the pool's obstacle policy.
func (p *GeometryPool) Policy() Policy {
	return p.policy
}

// Table returns the precomputed obstacle shapes.
func (p *GeometryPool) Table() []Dimensions {
	return p.table[:]
}

// Generate returns dimensions for a new entity of the given kind.
func (p *GeometryPool) Generate(kind Kind) Dimensions {
	if kind == KindBoundary {
		return Dimensions{
			Width:  BoundaryWidth,
			Height: randInt(p.rng, BoundaryMinHeight, BoundaryMaxHeight),
			Depth:  BoundaryDepth,
		}
	}

	if p.policy == PolicyUniform {
		return Dimensions{
			Width:  randRange(p.rng, ObstacleMinWidth, ObstacleMaxWidth),
			Height: randRange(p.rng, ObstacleMinHeight, ObstacleMaxHeight),
			Depth:  randRange(p.rng, ObstacleMinDepth, ObstacleMaxDepth),
		}
	}
	return p.table[p.rng.Intn(len(p.table))]
}
