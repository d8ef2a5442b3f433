package fourrooms

import (
	"math"
	"math/rand"
	"testing"

	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec64"
)

func TestObservations(t *testing.T) {
	c := anyvec64.DefaultCreator{}
	env := NewEnv(c, rand.New(rand.NewSource(15)))

	obs, err := env.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if obs.Len() != env.ObsSize() {
		t.Fatalf("expected %d components but got %d", env.ObsSize(), obs.Len())
	}

	counts := map[int]int{}
	for _, x := range obs.Data().([]float64) {
		counts[int(x)]++
	}
	if counts[CellAgent] != 1 {
		t.Errorf("expected exactly one agent cell, got %d", counts[CellAgent])
	}
	if counts[CellGoal] != 1 {
		t.Errorf("expected exactly one goal cell, got %d", counts[CellGoal])
	}
	// Border walls plus two room dividers with four
	// doorways.
	expectedWalls := 4*(GridSize-1) + 2*(GridSize-2) - 1 - 4
	if counts[CellWall] != expectedWalls {
		t.Errorf("expected %d wall cells, got %d", expectedWalls,
			counts[CellWall])
	}
}

func TestMovement(t *testing.T) {
	c := anyvec64.DefaultCreator{}
	env := NewEnv(c, rand.New(rand.NewSource(15)))
	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	env.agentRow, env.agentCol = 1, 1

	obs, _, _, err := env.Step(oneHot(c, ActionRight))
	if err != nil {
		t.Fatal(err)
	}
	if env.agentRow != 1 || env.agentCol != 2 {
		t.Errorf("expected agent at (1,2) but got (%d,%d)", env.agentRow,
			env.agentCol)
	}
	if int(obs.Data().([]float64)[1*GridSize+2]) != CellAgent {
		t.Errorf("observation does not show the agent at (1,2)")
	}

	// Walking into the border wall leaves the agent in
	// place.
	if _, _, _, err := env.Step(oneHot(c, ActionUp)); err != nil {
		t.Fatal(err)
	}
	if env.agentRow != 1 || env.agentCol != 2 {
		t.Errorf("expected agent to stay at (1,2) but got (%d,%d)",
			env.agentRow, env.agentCol)
	}
}

func TestGoalReward(t *testing.T) {
	c := anyvec64.DefaultCreator{}
	env := NewEnv(c, rand.New(rand.NewSource(15)))
	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	env.agentRow, env.agentCol = env.goalRow, env.goalCol-1

	_, reward, done, err := env.Step(oneHot(c, ActionRight))
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Fatal("reaching the goal should end the episode")
	}
	expected := 1 - 0.9*1/float64(DefaultMaxSteps)
	if math.Abs(reward-expected) > 1e-8 {
		t.Errorf("expected reward %v but got %v", expected, reward)
	}

	if _, _, _, err := env.Step(oneHot(c, ActionRight)); err == nil {
		t.Error("stepping a finished episode should fail")
	}
}

func TestStepCap(t *testing.T) {
	c := anyvec64.DefaultCreator{}
	env := NewEnv(c, rand.New(rand.NewSource(15)))
	env.MaxSteps = 3
	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	env.agentRow, env.agentCol = 1, 1

	for i := 0; i < 3; i++ {
		_, reward, done, err := env.Step(oneHot(c, ActionUp))
		if err != nil {
			t.Fatal(err)
		}
		if reward != 0 {
			t.Errorf("step %d: expected no reward but got %v", i, reward)
		}
		if done != (i == 2) {
			t.Errorf("step %d: expected done=%v", i, i == 2)
		}
	}
}

func oneHot(c anyvec.Creator, action int) anyvec.Vector {
	data := make([]float64, NumActions)
	data[action] = 1
	return c.MakeVectorData(c.MakeNumericList(data))
}
