package anya2c

import "github.com/unixpickle/anyvec"

// A Rollout is a fixed-size batch of consecutive
// transitions collected with the current policy.
//
// Transitions are in strict chronological order.
// Episode boundaries may occur anywhere inside the batch;
// the observation following a terminal transition is the
// first observation of a fresh episode.
//
// A Rollout is created for a single update and discarded
// once the update has consumed it.
type Rollout struct {
	// Observations contains the packed observations the
	// agent acted on, one per timestep.
	Observations anyvec.Vector

	// Actions contains the packed one-hot vectors of the
	// actions the agent took, one per timestep.
	Actions anyvec.Vector

	// Rewards contains the immediate reward at each
	// timestep.
	Rewards []float64

	// Dones indicates, per timestep, whether the step
	// ended its episode.
	Dones []bool

	// Values contains the critic's value estimate for
	// the observation at each timestep, recorded before
	// the step was taken.
	Values []float64

	// BootstrapValue is the critic's value estimate for
	// the observation immediately following the last
	// timestep in the batch.
	BootstrapValue float64
}

// NumSteps returns the number of timesteps in the batch.
func (r *Rollout) NumSteps() int {
	return len(r.Rewards)
}
