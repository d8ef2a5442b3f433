package anya2c

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

// A Regularizer regularizes the actions taken by a policy
// by encouraging exploration.
type Regularizer interface {
	// Regularize produces a regularization term for the
	// policy objective.
	// It takes a batch of action space parameters and
	// produces, for each batch element, a regularization
	// term to be maximized.
	Regularize(actionParams anydiff.Res, batchSize int) anydiff.Res
}

// EntropyReg implements entropy regularization by
// encouraging action distributions with high entropy.
type EntropyReg struct {
	Entropyer Entropyer

	// Coeff controls the strength of the regularizer.
	Coeff float64
}

// Regularize produces a scaled entropy term.
func (e *EntropyReg) Regularize(params anydiff.Res, batchSize int) anydiff.Res {
	c := params.Output().Creator()
	return anydiff.Scale(
		e.Entropyer.Entropy(params, batchSize),
		c.MakeNumeric(e.Coeff),
	)
}

// PolicyLoss computes the policy-gradient surrogate loss
// for a batch of actions.
type PolicyLoss struct {
	// LogProber determines log-likelihoods of actions.
	LogProber LogProber

	// Regularizer, if non-nil, produces a term to be
	// maximized alongside the expected return.
	Regularizer Regularizer
}

// Loss produces one loss term per batch entry, suitable
// for minimization by gradient descent.
//
// Each term is the advantage-weighted negative
// log-likelihood of the taken action, minus the
// regularization term.
// The regularizer is subtracted, not added: minimizing
// the result maximizes the regularizer, which is what
// keeps an entropy bonus from disabling itself.
func (p *PolicyLoss) Loss(actionParams anydiff.Res, actions anyvec.Vector,
	advantages anyvec.Vector, batchSize int) anydiff.Res {
	c := actionParams.Output().Creator()
	obj := anydiff.Mul(
		p.LogProber.LogProb(actionParams, actions, batchSize),
		anydiff.NewConst(advantages),
	)
	if p.Regularizer != nil {
		obj = anydiff.Add(obj, p.Regularizer.Regularize(actionParams, batchSize))
	}
	return anydiff.Scale(obj, c.MakeNumeric(-1))
}

// ValueLoss computes the critic's regression loss against
// return targets.
type ValueLoss struct {
	// Coeff is the weight of the loss.
	//
	// If 0, 1 is used.
	Coeff float64
}

// Loss produces one squared-error term per batch entry,
// scaled by the loss weight.
func (v *ValueLoss) Loss(values anydiff.Res, targets anyvec.Vector,
	batchSize int) anydiff.Res {
	if values.Output().Len() != batchSize || targets.Len() != batchSize {
		panic("batch size must match value count")
	}
	coeff := v.Coeff
	if coeff == 0 {
		coeff = 1
	}
	c := values.Output().Creator()
	return anydiff.Scale(
		anydiff.Square(anydiff.Sub(values, anydiff.NewConst(targets))),
		c.MakeNumeric(coeff),
	)
}
