// Package fourrooms implements a classic four-rooms
// gridworld as an anya2c environment.
//
// The grid is an 11x11 board split into four rooms by
// walls with one doorway per wall segment.
// The agent starts in a random free cell and receives a
// reward for reaching the goal in the bottom-right room,
// discounted by the number of steps it took.
package fourrooms

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/logrusorgru/aurora"
	"github.com/unixpickle/anyvec"
)

const (
	// GridSize is the width and height of the board.
	GridSize = 11

	// NumActions is the number of movement actions.
	NumActions = 4

	// DefaultMaxSteps is the episode step cap used when
	// none is configured.
	DefaultMaxSteps = 500
)

// Movement action indices.
const (
	ActionUp = iota
	ActionDown
	ActionLeft
	ActionRight
)

// Cell codes as they appear in observations.
const (
	CellEmpty = iota
	CellWall
	CellGoal
	CellAgent
)

// Env is a four-rooms gridworld.
//
// Observations are the flattened board, one cell code per
// cell, row-major.
type Env struct {
	// Creator is used to build observation vectors.
	Creator anyvec.Creator

	// Rand is used to choose the agent's start cell.
	Rand *rand.Rand

	// MaxSteps caps the episode length.
	//
	// If 0, DefaultMaxSteps is used.
	MaxSteps int

	// Render, if true, prints the board after every
	// step.
	Render bool

	walls              [GridSize][GridSize]bool
	agentRow, agentCol int
	goalRow, goalCol   int
	steps              int
	running            bool
}

// NewEnv creates an environment with the standard
// four-rooms layout.
func NewEnv(c anyvec.Creator, rng *rand.Rand) *Env {
	e := &Env{
		Creator: c,
		Rand:    rng,
		goalRow: GridSize - 2,
		goalCol: GridSize - 2,
	}
	mid := GridSize / 2
	for i := 0; i < GridSize; i++ {
		e.walls[0][i] = true
		e.walls[GridSize-1][i] = true
		e.walls[i][0] = true
		e.walls[i][GridSize-1] = true
		e.walls[mid][i] = true
		e.walls[i][mid] = true
	}
	// Doorways between the rooms.
	doorway := mid / 2
	e.walls[mid][doorway] = false
	e.walls[mid][GridSize-1-doorway] = false
	e.walls[doorway][mid] = false
	e.walls[GridSize-1-doorway][mid] = false
	return e
}

// ObsSize returns the flattened observation length.
func (e *Env) ObsSize() int {
	return GridSize * GridSize
}

// NumActions returns the size of the action space.
func (e *Env) NumActions() int {
	return NumActions
}

// Reset starts a fresh episode with the agent in a random
// free cell.
func (e *Env) Reset() (anyvec.Vector, error) {
	for {
		row := 1 + e.Rand.Intn(GridSize-2)
		col := 1 + e.Rand.Intn(GridSize-2)
		if e.walls[row][col] || (row == e.goalRow && col == e.goalCol) {
			continue
		}
		e.agentRow, e.agentCol = row, col
		break
	}
	e.steps = 0
	e.running = true
	if e.Render {
		e.render()
	}
	return e.observation(), nil
}

// Step moves the agent by one cell.
//
// Moving into a wall leaves the agent in place but still
// consumes a step.
func (e *Env) Step(action anyvec.Vector) (obs anyvec.Vector, reward float64,
	done bool, err error) {
	if !e.running {
		return nil, 0, false, errors.New("step four-rooms Env: episode is over")
	}
	row, col := e.agentRow, e.agentCol
	switch anyvec.MaxIndex(action) {
	case ActionUp:
		row--
	case ActionDown:
		row++
	case ActionLeft:
		col--
	case ActionRight:
		col++
	}
	if !e.walls[row][col] {
		e.agentRow, e.agentCol = row, col
	}
	e.steps++

	maxSteps := e.MaxSteps
	if maxSteps == 0 {
		maxSteps = DefaultMaxSteps
	}
	if e.agentRow == e.goalRow && e.agentCol == e.goalCol {
		reward = 1 - 0.9*float64(e.steps)/float64(maxSteps)
		done = true
	} else if e.steps >= maxSteps {
		done = true
	}
	if done {
		e.running = false
	}
	if e.Render {
		e.render()
	}
	return e.observation(), reward, done, nil
}

func (e *Env) observation() anyvec.Vector {
	data := make([]float64, 0, GridSize*GridSize)
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			data = append(data, float64(e.cell(row, col)))
		}
	}
	return e.Creator.MakeVectorData(e.Creator.MakeNumericList(data))
}

func (e *Env) cell(row, col int) int {
	switch {
	case row == e.agentRow && col == e.agentCol:
		return CellAgent
	case e.walls[row][col]:
		return CellWall
	case row == e.goalRow && col == e.goalCol:
		return CellGoal
	default:
		return CellEmpty
	}
}

func (e *Env) render() {
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			switch e.cell(row, col) {
			case CellAgent:
				fmt.Print(aurora.Blue("A "))
			case CellWall:
				fmt.Print(aurora.White("# "))
			case CellGoal:
				fmt.Print(aurora.Green("G "))
			default:
				fmt.Print(". ")
			}
		}
		fmt.Println()
	}
	fmt.Println()
}
