package io

import "gonum.org/v1/gonum/num/quat"

// BodyID is the physics engine's handle for a rigid body.
type BodyID int

// Engine is the physics lookup a sensor polls each step. The returned
// quaternion is taken as authoritative.
type Engine interface {
	Orientation(body BodyID) (quat.Number, error)
}

// Neuron is a sensor neuron fed by a vestibular sensor. ChannelPreference
// declares which quaternion component (0..3 for w, x, y, z) it reads.
type Neuron interface {
	ChannelPreference() int
	Set(value float64)
}
