package anya2c

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec"
)

// Hyperparameter defaults, matching a configuration that
// is known to learn on small discrete tasks.
const (
	DefaultStepSize     = 0.0007
	DefaultValueCoeff   = 0.5
	DefaultEntropyCoeff = 0.0001
)

// An Agent is a trainable policy with a value baseline.
//
// The training loop only ever talks to the agent through
// these two operations; it never inspects parameters.
type Agent interface {
	// ActionValue samples one action per observation
	// from the current policy and estimates the value of
	// each observation.
	//
	// The actions are packed one-hot vectors.
	// ActionValue must not mutate the agent's parameters
	// and must behave the same for every batch size.
	ActionValue(obses anyvec.Vector, batchSize int) (actions anyvec.Vector,
		values []float64)

	// Update performs one gradient step minimizing the
	// sum of the policy loss and the value loss on the
	// judged batch, and reports both loss values.
	//
	// This is the only operation which mutates the
	// agent's parameters.
	Update(r *Rollout, returns, advantages []float64) (policyLoss,
		valueLoss float64)
}

// An ObsSizer is an Agent which knows the observation
// length it expects.
//
// Trainers use this, when available, to validate
// observation lengths before training starts.
type ObsSizer interface {
	ObsSize() int
}

// NetAgent is an Agent backed by anynet networks.
type NetAgent struct {
	// Base, if non-nil, is applied to observations
	// before Actor and Critic.
	Base anynet.Layer

	// Actor maps features to action space parameters.
	Actor anynet.Layer

	// Critic maps features to one value estimate per
	// batch entry.
	Critic anynet.Layer

	// ActionSpace samples actions and measures their
	// likelihood and entropy.
	ActionSpace ActionSpace

	// Params specifies which parameters to train.
	Params []*anydiff.Var

	// ValueCoeff is the weight of the value loss.
	//
	// If 0, 1 is used.
	ValueCoeff float64

	// Regularizer, if non-nil, is applied to the actor's
	// outputs during updates.
	Regularizer Regularizer

	// StepSize is the learning rate.
	//
	// If 0, DefaultStepSize is used.
	StepSize float64

	// Transformer, if non-nil, transforms gradients
	// before they are applied.
	Transformer anysgd.Transformer

	obsSize int
}

// NewNetAgent creates a NetAgent with separate one-hidden
// layer actor and critic networks for the given
// observation length and action count.
//
// The logits layer is zero-initialized so that the
// initial policy is uniform.
func NewNetAgent(c anyvec.Creator, obsSize, numActions int) *NetAgent {
	actor := anynet.Net{
		anynet.NewFC(c, obsSize, 128),
		anynet.ReLU,
		anynet.NewFCZero(c, 128, numActions),
	}
	critic := anynet.Net{
		anynet.NewFC(c, obsSize, 128),
		anynet.ReLU,
		anynet.NewFC(c, 128, 1),
	}
	return &NetAgent{
		Actor:       actor,
		Critic:      critic,
		ActionSpace: Softmax{},
		Params:      anynet.AllParameters(actor, critic),
		ValueCoeff:  DefaultValueCoeff,
		Regularizer: &EntropyReg{
			Entropyer: Softmax{},
			Coeff:     DefaultEntropyCoeff,
		},
		StepSize:    DefaultStepSize,
		Transformer: &anysgd.RMSProp{DecayRate: 0.9},
		obsSize:     obsSize,
	}
}

// ObsSize returns the observation length the agent was
// constructed for, or 0 if the agent was not built with
// NewNetAgent.
func (n *NetAgent) ObsSize() int {
	return n.obsSize
}

// ActionValue samples actions and estimates values for a
// batch of observations.
func (n *NetAgent) ActionValue(obses anyvec.Vector, batchSize int) (actions anyvec.Vector,
	values []float64) {
	baseOut := n.applyBase(anydiff.NewConst(obses), batchSize)
	actorOut := n.Actor.Apply(baseOut, batchSize)
	criticOut := n.Critic.Apply(baseOut, batchSize)
	actions = n.ActionSpace.Sample(actorOut.Output(), batchSize)
	values = vectorToComponents(criticOut.Output())
	return
}

// Update performs one gradient step on the batch and
// reports the policy and value losses.
func (n *NetAgent) Update(r *Rollout, returns, advantages []float64) (policyLoss,
	valueLoss float64) {
	batch := r.NumSteps()
	c := n.creator()
	advVec := c.MakeVectorData(c.MakeNumericList(advantages))
	retVec := c.MakeVectorData(c.MakeNumericList(returns))

	pl := &PolicyLoss{LogProber: n.ActionSpace, Regularizer: n.Regularizer}
	vl := &ValueLoss{Coeff: n.ValueCoeff}

	grad := anydiff.NewGrad(n.Params...)

	baseOut := n.applyBase(anydiff.NewConst(r.Observations), batch)
	loss := anydiff.Pool(baseOut, func(baseOut anydiff.Res) anydiff.Res {
		actorOut := n.Actor.Apply(baseOut, batch)
		criticOut := n.Critic.Apply(baseOut, batch)
		policy := batchMean(pl.Loss(actorOut, r.Actions, advVec, batch), batch)
		value := batchMean(vl.Loss(criticOut, retVec, batch), batch)
		policyLoss = vectorToComponents(policy.Output())[0]
		valueLoss = vectorToComponents(value.Output())[0]
		return anydiff.Add(policy, value)
	})

	loss.Propagate(anyvec.Ones(c, 1), grad)

	if n.Transformer != nil {
		grad = n.Transformer.Transform(grad)
	}

	// The gradient points uphill on the loss; descend.
	stepSize := n.StepSize
	if stepSize == 0 {
		stepSize = DefaultStepSize
	}
	grad.Scale(c.MakeNumeric(-stepSize))
	grad.AddToVars()

	return
}

func (n *NetAgent) applyBase(obses anydiff.Res, batchSize int) anydiff.Res {
	if n.Base == nil {
		return obses
	}
	return n.Base.Apply(obses, batchSize)
}

func (n *NetAgent) creator() anyvec.Creator {
	return n.Params[0].Vector.Creator()
}

func batchMean(res anydiff.Res, batchSize int) anydiff.Res {
	c := res.Output().Creator()
	return anydiff.Scale(anydiff.Sum(res), c.MakeNumeric(1/float64(batchSize)))
}

func vectorToComponents(vec anyvec.Vector) []float64 {
	switch data := vec.Data().(type) {
	case []float32:
		res := make([]float64, len(data))
		for i, x := range data {
			res[i] = float64(x)
		}
		return res
	case []float64:
		return data
	default:
		panic("unsupported numeric type")
	}
}
