package anya2c

import (
	"math"
	"testing"
)

func TestBootstrapJudgerBootstrapDecay(t *testing.T) {
	r := &Rollout{
		Rewards:        []float64{0, 0, 0, 0},
		Dones:          []bool{false, false, false, false},
		Values:         []float64{0.5, 0, -1, 0},
		BootstrapValue: 2,
	}
	j := &BootstrapJudger{Discount: 0.9}

	returns, advantages := j.JudgeActions(r)

	// With zero rewards and no episode boundaries, each
	// return is the discounted bootstrap value.
	expected := []float64{1.3122, 1.458, 1.62, 1.8}
	testSlicesEquiv(t, "returns", returns, expected)
	testSlicesEquiv(t, "advantages", advantages,
		[]float64{0.8122, 1.458, 2.62, 1.8})
}

func TestBootstrapJudgerEpisodeEnd(t *testing.T) {
	r := &Rollout{
		Rewards:        []float64{1, 1, 1, 1},
		Dones:          []bool{false, false, false, true},
		Values:         []float64{0, 0, 0, 0},
		BootstrapValue: 0,
	}
	j := &BootstrapJudger{Discount: 0.99}

	returns, advantages := j.JudgeActions(r)

	expected := []float64{3.940399, 2.9701, 1.99, 1}
	testSlicesEquiv(t, "returns", returns, expected)
	testSlicesEquiv(t, "advantages", advantages, expected)
}

func TestBootstrapJudgerMidBatchBoundary(t *testing.T) {
	r := &Rollout{
		Rewards:        []float64{1, 2, 3},
		Dones:          []bool{false, true, false},
		Values:         []float64{0.5, -1, 2},
		BootstrapValue: 10,
	}
	j := &BootstrapJudger{Discount: 0.5}

	returns, advantages := j.JudgeActions(r)

	// The middle step ends its episode, so nothing after
	// it may propagate backward across it.
	testSlicesEquiv(t, "returns", returns, []float64{2, 2, 8})
	testSlicesEquiv(t, "advantages", advantages, []float64{1.5, 3, 6})
}

func TestBootstrapJudgerTerminalStep(t *testing.T) {
	r := &Rollout{
		Rewards:        []float64{5},
		Dones:          []bool{true},
		Values:         []float64{0},
		BootstrapValue: 100,
	}

	for _, discount := range []float64{0, 0.5, 0.99} {
		j := &BootstrapJudger{Discount: discount}
		returns, _ := j.JudgeActions(r)
		testSlicesEquiv(t, "returns", returns, []float64{5})
	}
}

func TestBootstrapJudgerAllDone(t *testing.T) {
	r := &Rollout{
		Rewards:        []float64{3, -1, 2},
		Dones:          []bool{true, true, true},
		Values:         []float64{1, 1, 1},
		BootstrapValue: 4,
	}
	j := &BootstrapJudger{Discount: 0.99}

	returns, advantages := j.JudgeActions(r)

	// Every step is terminal, so returns degenerate to
	// the immediate rewards.
	testSlicesEquiv(t, "returns", returns, []float64{3, -1, 2})
	testSlicesEquiv(t, "advantages", advantages, []float64{2, -2, 1})
}

func TestBootstrapJudgerUndiscounted(t *testing.T) {
	r := &Rollout{
		Rewards:        []float64{1, 2, 3},
		Dones:          []bool{false, false, false},
		Values:         []float64{0, 0, 0},
		BootstrapValue: 4,
	}
	j := &BootstrapJudger{}

	returns, _ := j.JudgeActions(r)

	testSlicesEquiv(t, "returns", returns, []float64{10, 9, 7})
}

func testSlicesEquiv(t *testing.T, name string, actual, expected []float64) {
	t.Helper()
	if len(actual) != len(expected) {
		t.Errorf("%s: expected %d entries but got %d", name, len(expected),
			len(actual))
		return
	}
	for i, x := range expected {
		if math.Abs(x-actual[i]) > 1e-4 {
			t.Errorf("%s: expected %v but got %v", name, expected, actual)
			return
		}
	}
}
