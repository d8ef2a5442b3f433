package anya2c

import (
	"fmt"
	"math"

	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
)

// DefaultBatchSize is the batch size used by A2C when
// none is configured.
const DefaultBatchSize = 32

// A2C implements synchronous advantage actor-critic.
//
// A single goroutine drives the environment, the agent's
// action sampling, and the agent's updates in strict
// sequence.
type A2C struct {
	// Agent is the policy and value model to train.
	Agent Agent

	// BatchSize is the number of transitions collected
	// per update.
	//
	// If 0, DefaultBatchSize is used.
	BatchSize int

	// Discount is the reward discount factor.
	//
	// If 0, no discount is used.
	Discount float64

	// Log, if non-nil, is used to log information about
	// training as it happens.
	Log func(str string)

	// Done, if non-nil, makes Train return early (and
	// without error) once the channel is closed.
	// It is only checked between updates; an update is
	// never interrupted mid-batch.
	Done <-chan struct{}
}

// Train runs the given number of batch updates against
// the environment and returns the total rewards of the
// episodes that finished during training.
//
// If the agent reports the observation size it expects
// and the environment's observations disagree, Train
// fails before performing any update.
//
// Non-finite loss values abort training with an error;
// they are never clamped.
func (a *A2C) Train(env Env, numUpdates int) (episodeRewards []float64,
	err error) {
	defer essentials.AddCtxTo("train A2C", &err)

	obs, err := env.Reset()
	if err != nil {
		return nil, err
	}
	if err := a.checkObsSize(obs); err != nil {
		return nil, err
	}

	c := obs.Creator()
	judger := &BootstrapJudger{Discount: a.Discount}
	batchSize := a.batchSize()

	episodeRewards = []float64{}
	var episodeReward float64

	for update := 0; update < numUpdates && !a.stopped(); update++ {
		r := &Rollout{
			Rewards: make([]float64, 0, batchSize),
			Dones:   make([]bool, 0, batchSize),
			Values:  make([]float64, 0, batchSize),
		}
		obsVecs := make([]anyvec.Vector, 0, batchSize)
		actionVecs := make([]anyvec.Vector, 0, batchSize)

		for t := 0; t < batchSize; t++ {
			action, values := a.Agent.ActionValue(obs, 1)
			obsVecs = append(obsVecs, obs)
			actionVecs = append(actionVecs, action)

			next, reward, done, stepErr := env.Step(action)
			if stepErr != nil {
				return episodeRewards, stepErr
			}
			r.Rewards = append(r.Rewards, reward)
			r.Dones = append(r.Dones, done)
			r.Values = append(r.Values, values[0])

			episodeReward += reward
			if done {
				episodeRewards = append(episodeRewards, episodeReward)
				episodeReward = 0
				next, stepErr = env.Reset()
				if stepErr != nil {
					return episodeRewards, stepErr
				}
			}
			obs = next
		}
		r.Observations = c.Concat(obsVecs...)
		r.Actions = c.Concat(actionVecs...)

		// Bootstrap from the value of the observation the
		// agent has not yet acted on.
		_, bootVals := a.Agent.ActionValue(obs, 1)
		r.BootstrapValue = bootVals[0]

		returns, advantages := judger.JudgeActions(r)
		policyLoss, valueLoss := a.Agent.Update(r, returns, advantages)
		if !isFinite(policyLoss) || !isFinite(valueLoss) {
			return episodeRewards, fmt.Errorf("non-finite loss at update %d: "+
				"policy_loss=%v value_loss=%v", update, policyLoss, valueLoss)
		}

		a.log("update %d: policy_loss=%f value_loss=%f episodes=%d", update,
			policyLoss, valueLoss, len(episodeRewards))
	}

	return episodeRewards, nil
}

// Evaluate runs the agent's policy for one episode
// without updating it, and returns the number of steps
// until the episode ended.
func (a *A2C) Evaluate(env Env) (steps int, err error) {
	defer essentials.AddCtxTo("evaluate A2C", &err)

	obs, err := env.Reset()
	if err != nil {
		return 0, err
	}
	if err := a.checkObsSize(obs); err != nil {
		return 0, err
	}

	for {
		action, _ := a.Agent.ActionValue(obs, 1)
		var done bool
		obs, _, done, err = env.Step(action)
		if err != nil {
			return steps, err
		}
		steps++
		if done {
			return steps, nil
		}
	}
}

func (a *A2C) checkObsSize(obs anyvec.Vector) error {
	sizer, ok := a.Agent.(ObsSizer)
	if !ok || sizer.ObsSize() == 0 {
		return nil
	}
	if obs.Len() != sizer.ObsSize() {
		return fmt.Errorf("observation size %d does not match the agent's "+
			"expected size %d", obs.Len(), sizer.ObsSize())
	}
	return nil
}

func (a *A2C) batchSize() int {
	if a.BatchSize == 0 {
		return DefaultBatchSize
	}
	return a.BatchSize
}

func (a *A2C) stopped() bool {
	if a.Done == nil {
		return false
	}
	select {
	case <-a.Done:
		return true
	default:
		return false
	}
}

func (a *A2C) log(format string, args ...interface{}) {
	if a.Log != nil {
		a.Log(fmt.Sprintf(format, args...))
	}
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
