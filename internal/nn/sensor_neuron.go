package nn

import (
	"fmt"
	"sync"
)

// SensorNeuron is an input neuron whose value is driven externally by a
// sensor channel once per step.
type SensorNeuron struct {
	id      string
	channel int

	mu      sync.RWMutex
	value   float64
	updates int
}

func NewSensorNeuron(id string, channel int) (*SensorNeuron, error) {
	if id == "" {
		return nil, fmt.Errorf("neuron id is required")
	}
	if channel < 0 || channel > 3 {
		return nil, fmt.Errorf("neuron %s: channel must be in 0..3: %d", id, channel)
	}
	return &SensorNeuron{id: id, channel: channel}, nil
}

func (n *SensorNeuron) ID() string {
	return n.id
}

func (n *SensorNeuron) ChannelPreference() int {
	return n.channel
}

func (n *SensorNeuron) Set(value float64) {
	n.mu.Lock()
	n.value = value
	n.updates++
	n.mu.Unlock()
}

func (n *SensorNeuron) Value() float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.value
}

// Updates counts Set calls since construction.
func (n *SensorNeuron) Updates() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.updates
}
