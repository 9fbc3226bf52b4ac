package io

import (
	"errors"
	"fmt"
	goio "io"

	"gonum.org/v1/gonum/num/quat"

	"vestibular/internal/protocol"
	"vestibular/internal/series"
)

const VestibularSensorName = "vestibular"

var (
	ErrOutOfRange        = series.ErrOutOfRange
	ErrUnsampled         = series.ErrUnsampled
	ErrInvalidChannel    = errors.New("invalid sensor channel")
	ErrInvalidEvalPeriod = errors.New("eval period must be > 0")
)

// VestibularSensor records the orientation of one rigid body once per step
// for a single episode and reports the full series at the end.
//
// Neuron bindings are not owned by the sensor. A channel without an entry in
// neurons is unbound.
type VestibularSensor struct {
	id         int
	evalPeriod int
	samples    [protocol.ComponentCount]*series.Series
	neurons    map[Channel]Neuron
	policy     RoutePolicy
}

type Option func(*VestibularSensor)

func WithRoutePolicy(policy RoutePolicy) Option {
	return func(s *VestibularSensor) {
		s.policy = policy
	}
}

func NewVestibularSensor(id, evalPeriod int, opts ...Option) (*VestibularSensor, error) {
	if evalPeriod <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidEvalPeriod, evalPeriod)
	}
	s := &VestibularSensor{
		id:         id,
		evalPeriod: evalPeriod,
		neurons:    make(map[Channel]Neuron, len(channelPriority)),
	}
	for c := range s.samples {
		buf, err := series.New(evalPeriod)
		if err != nil {
			return nil, err
		}
		s.samples[c] = buf
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *VestibularSensor) ID() int {
	return s.id
}

func (s *VestibularSensor) Name() string {
	return VestibularSensorName
}

func (s *VestibularSensor) EvalPeriod() int {
	return s.evalPeriod
}

func (s *VestibularSensor) RoutePolicy() RoutePolicy {
	return s.policy
}

// Connect binds n to the channel it prefers, replacing any earlier binding
// on that channel.
func (s *VestibularSensor) Connect(n Neuron) error {
	if n == nil {
		return errors.New("neuron is required")
	}
	c := Channel(n.ChannelPreference())
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, int(c))
	}
	s.neurons[c] = n
	return nil
}

func (s *VestibularSensor) Bound(c Channel) (Neuron, bool) {
	n, ok := s.neurons[c]
	return n, ok
}

// Poll stores the body's current orientation at step t.
func (s *VestibularSensor) Poll(engine Engine, body BodyID, t int) error {
	if err := s.checkStep(t); err != nil {
		return err
	}
	q, err := engine.Orientation(body)
	if err != nil {
		return fmt.Errorf("sensor %d poll body %d: %w", s.id, body, err)
	}
	for c, v := range [protocol.ComponentCount]float64{q.Real, q.Imag, q.Jmag, q.Kmag} {
		if err := s.samples[c].Set(t, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *VestibularSensor) Sample(t int) (quat.Number, error) {
	if err := s.checkStep(t); err != nil {
		return quat.Number{}, err
	}
	var v [protocol.ComponentCount]float64
	for c := range v {
		value, err := s.samples[c].At(t)
		if err != nil {
			return quat.Number{}, err
		}
		v[c] = value
	}
	return quat.Number{Real: v[0], Imag: v[1], Jmag: v[2], Kmag: v[3]}, nil
}

// UpdateSensorNeurons forwards the samples of step t to bound neurons
// according to the route policy.
func (s *VestibularSensor) UpdateSensorNeurons(t int) error {
	if err := s.checkStep(t); err != nil {
		return err
	}
	for _, c := range channelPriority {
		n, ok := s.neurons[c]
		if !ok {
			continue
		}
		v, err := s.samples[c].At(t)
		if err != nil {
			return fmt.Errorf("sensor %d channel %s: %w", s.id, c, err)
		}
		n.Set(v)
		if s.policy == RouteFirstBound {
			return nil
		}
	}
	return nil
}

// Write streams the first evalPeriod steps to w as one report line. Every
// step must have been polled; nothing is written otherwise.
func (s *VestibularSensor) Write(w goio.Writer, evalPeriod int) error {
	if evalPeriod <= 0 || evalPeriod > s.evalPeriod {
		return fmt.Errorf("%w: eval period %d for sensor %d sized %d", ErrOutOfRange, evalPeriod, s.id, s.evalPeriod)
	}
	for c, buf := range s.samples {
		if t := buf.FirstUnsampled(evalPeriod); t >= 0 {
			return fmt.Errorf("sensor %d channel %s: %w: t=%d", s.id, Channel(c), ErrUnsampled, t)
		}
	}
	if err := protocol.NewEncoder(w).Encode(s.id, sensorFrames{sensor: s, n: evalPeriod}); err != nil {
		return fmt.Errorf("write sensor %d: %w", s.id, err)
	}
	return nil
}

// Channels returns copies of the first n steps of each component.
func (s *VestibularSensor) Channels(n int) [protocol.ComponentCount][]float64 {
	var out [protocol.ComponentCount][]float64
	for c, buf := range s.samples {
		out[c] = buf.Values(n)
	}
	return out
}

func (s *VestibularSensor) checkStep(t int) error {
	if t < 0 || t >= s.evalPeriod {
		return fmt.Errorf("%w: t=%d eval period=%d", ErrOutOfRange, t, s.evalPeriod)
	}
	return nil
}

type sensorFrames struct {
	sensor *VestibularSensor
	n      int
}

func (f sensorFrames) Len() int {
	return f.n
}

// Frame reads steps already checked by Write.
func (f sensorFrames) Frame(t int) quat.Number {
	q, _ := f.sensor.Sample(t)
	return q
}
