package anya2c

// BootstrapJudger judges the goodness of actions by their
// n-step bootstrapped discounted return, using a critic's
// value estimates as a baseline.
type BootstrapJudger struct {
	// Discount is the reward discount factor.
	//
	// If 0, no discount is used.
	Discount float64
}

// JudgeActions computes the bootstrapped return and the
// advantage for every timestep in the batch.
//
// Returns are computed backward from the bootstrap value:
//
//	returns[t] = rewards[t] + discount*returns[t+1]
//
// where the return following a terminal timestep is
// treated as 0, so no reward or bootstrap leaks backward
// across an episode boundary.
//
// Advantages are returns minus the recorded value
// estimates.
func (b *BootstrapJudger) JudgeActions(r *Rollout) (returns,
	advantages []float64) {
	n := r.NumSteps()
	returns = make([]float64, n)
	advantages = make([]float64, n)

	future := r.BootstrapValue
	for t := n - 1; t >= 0; t-- {
		if r.Dones[t] {
			future = 0
		}
		if b.Discount != 0 {
			future *= b.Discount
		}
		future += r.Rewards[t]
		returns[t] = future
		advantages[t] = future - r.Values[t]
	}

	return
}
