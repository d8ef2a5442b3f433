package anya2c

import (
	"errors"
	"fmt"

	gym "github.com/openai/gym-http-api/binding-go"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
)

// Env is an instance of an RL environment.
//
// Observations are fixed-length numeric vectors; whatever
// structured shape an environment produces internally is
// flattened before it crosses this interface.
// Actions are one-hot vectors over the environment's
// discrete action space.
type Env interface {
	Reset() (observation anyvec.Vector, err error)
	Step(action anyvec.Vector) (observation anyvec.Vector,
		reward float64, done bool, err error)
}

// GymEnv is an Env backed by an OpenAI Gym instance.
type GymEnv struct {
	client *gym.Client
	id     gym.InstanceID
	render bool

	obsConv    gymSpaceConverter
	obsSize    int
	numActions int
}

// NewGymEnv creates a GymEnv from a Gym instance.
//
// The instance must have a discrete action space and a
// Box or Discrete observation space.
//
// If render is true, every step is rendered.
func NewGymEnv(c anyvec.Creator, client *gym.Client,
	id gym.InstanceID, render bool) (env *GymEnv, err error) {
	defer essentials.AddCtxTo("create gym Env", &err)
	actionSpace, err := client.ActionSpace(id)
	if err != nil {
		return nil, err
	}
	if actionSpace.Name != "Discrete" {
		return nil, errors.New("unsupported action space: " + actionSpace.Name)
	}
	obsSpace, err := client.ObservationSpace(id)
	if err != nil {
		return nil, err
	}
	obsConv, err := converterForSpace(c, obsSpace)
	if err != nil {
		return nil, err
	}
	return &GymEnv{
		client:     client,
		id:         id,
		render:     render,
		obsConv:    obsConv,
		obsSize:    obsConv.Size(),
		numActions: actionSpace.N,
	}, nil
}

// ObsSize returns the flattened observation length.
func (g *GymEnv) ObsSize() int {
	return g.obsSize
}

// NumActions returns the size of the action space.
func (g *GymEnv) NumActions() int {
	return g.numActions
}

// Reset resets the environment.
func (g *GymEnv) Reset() (obsVec anyvec.Vector, err error) {
	defer essentials.AddCtxTo("reset gym Env", &err)
	obs, err := g.client.Reset(g.id)
	if err != nil {
		return nil, err
	}
	return g.obsConv.FromGym(obs)
}

// Step takes a step in the environment.
func (g *GymEnv) Step(action anyvec.Vector) (obsVec anyvec.Vector, reward float64,
	done bool, err error) {
	defer essentials.AddCtxTo("step gym Env", &err)
	var obs interface{}
	obs, reward, done, _, err = g.client.Step(g.id, anyvec.MaxIndex(action), g.render)
	if err != nil {
		return
	}
	obsVec, err = g.obsConv.FromGym(obs)
	return
}

type gymSpaceConverter interface {
	Size() int
	FromGym(in interface{}) (anyvec.Vector, error)
}

func converterForSpace(c anyvec.Creator, s *gym.Space) (gymSpaceConverter, error) {
	switch s.Name {
	case "Box":
		size := 1
		for _, d := range s.Shape {
			size *= d
		}
		return &boxSpaceConverter{Creator: c, Len: size}, nil
	case "Discrete":
		return &discreteSpaceConverter{Creator: c, N: s.N}, nil
	default:
		return nil, errors.New("unsupported observation space: " + s.Name)
	}
}

type boxSpaceConverter struct {
	Creator anyvec.Creator
	Len     int
}

func (b *boxSpaceConverter) Size() int {
	return b.Len
}

func (b *boxSpaceConverter) FromGym(in interface{}) (anyvec.Vector, error) {
	switch in := in.(type) {
	case []float64:
		return b.Creator.MakeVectorData(b.Creator.MakeNumericList(in)), nil
	case [][]float64:
		var joined []float64
		for _, x := range in {
			joined = append(joined, x...)
		}
		return b.FromGym(joined)
	case [][][]float64:
		var joined [][]float64
		for _, x := range in {
			joined = append(joined, x...)
		}
		return b.FromGym(joined)
	default:
		return nil, fmt.Errorf("unexpected observation type: %T", in)
	}
}

type discreteSpaceConverter struct {
	Creator anyvec.Creator
	N       int
}

func (d *discreteSpaceConverter) Size() int {
	return d.N
}

func (d *discreteSpaceConverter) FromGym(in interface{}) (anyvec.Vector, error) {
	var inInt int
	switch in := in.(type) {
	case int:
		inInt = in
	case float64:
		inInt = int(in)
	default:
		return nil, fmt.Errorf("unexpected observation type: %T", in)
	}
	if inInt < 0 || inInt >= d.N {
		return nil, fmt.Errorf("discrete observation out of bounds: %d", inInt)
	}
	out := make([]float64, d.N)
	out[inInt] = 1
	return d.Creator.MakeVectorData(d.Creator.MakeNumericList(out)), nil
}
