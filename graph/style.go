package graph

import (
	"github.com/TFMV/moviegraph/models"
)

// reveal decides how unfold treats a freshly adopted child.
type reveal int

const (
	revealNever reveal = iota
	revealAlways
	revealBudget
)

type nodeStyle struct {
	color  models.Color
	reveal reveal
}

var (
	colorMovie  = models.RGB255(138, 134, 96)
	colorActor  = models.RGB255(88, 124, 138)
	colorPerson = models.RGB255(131, 136, 138)
)

var nodeStyles = map[models.NodeType]nodeStyle{
	models.NodeGeneric:  {color: models.Gray(1), reveal: revealNever},
	models.NodeMovie:    {color: colorMovie, reveal: revealBudget},
	models.NodeActor:    {color: colorActor, reveal: revealBudget},
	models.NodeDirector: {color: colorPerson, reveal: revealAlways},
	models.NodeCrew:     {color: colorPerson, reveal: revealNever},
	models.NodePerson:   {color: colorPerson, reveal: revealNever},
}

func styleOf(t models.NodeType) nodeStyle {
	if s, ok := nodeStyles[t]; ok {
		return s
	}
	return nodeStyles[models.NodeGeneric]
}

var edgeColors = map[models.EdgeType]models.Color{
	models.EdgeGeneric:  models.Gray(0.9),
	models.EdgeMovie:    colorMovie,
	models.EdgeActor:    colorActor,
	models.EdgeDirector: colorPerson,
	models.EdgeCrew:     colorPerson,
}

func edgeColorOf(t models.EdgeType) models.Color {
	if c, ok := edgeColors[t]; ok {
		return c
	}
	return edgeColors[models.EdgeGeneric]
}

// Opacities.
const (
	alphaCore         = 0.6
	alphaCoreSelected = 1.0
	alphaGlow         = 0.3
	alphaGlowSelected = 0.45
	alphaEdge         = 0.3
	alphaEdgeTouched  = 0.75
)

var (
	colorText         = models.Gray(0.85)
	colorTextLoading  = models.Gray(0.9)
	colorTextSelected = models.Gray(1)
)
