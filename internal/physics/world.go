package physics

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/num/quat"

	protoio "vestibular/internal/io"
	"vestibular/internal/orientation"
)

var (
	ErrBodyNotFound = errors.New("body not found")
	ErrBodyExists   = errors.New("body already exists")
)

// Body describes a rigid body spinning at a constant body-frame angular
// velocity (rad/s).
type Body struct {
	ID              protoio.BodyID
	Orientation     quat.Number
	AngularVelocity [3]float64
}

// World is a kinematic rigid-body world. It only tracks orientation; there
// are no forces or collisions.
type World struct {
	mu      sync.RWMutex
	bodies  map[protoio.BodyID]*Body
	elapsed float64
	steps   int
}

func NewWorld() *World {
	return &World{bodies: make(map[protoio.BodyID]*Body)}
}

func (w *World) AddBody(b Body) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.bodies[b.ID]; exists {
		return fmt.Errorf("%w: %d", ErrBodyExists, b.ID)
	}
	b.Orientation = orientation.Normalize(b.Orientation)
	w.bodies[b.ID] = &b
	return nil
}

func (w *World) Orientation(id protoio.BodyID) (quat.Number, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	b, ok := w.bodies[id]
	if !ok {
		return quat.Number{}, fmt.Errorf("%w: %d", ErrBodyNotFound, id)
	}
	return b.Orientation, nil
}

// Step advances every body by dt seconds using the exact rotation for a
// constant angular velocity.
func (w *World) Step(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("step dt must be > 0: %v", dt)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, b := range w.bodies {
		omega := b.AngularVelocity
		half := quat.Number{Imag: omega[0] * dt / 2, Jmag: omega[1] * dt / 2, Kmag: omega[2] * dt / 2}
		b.Orientation = orientation.Normalize(quat.Mul(b.Orientation, quat.Exp(half)))
	}
	w.elapsed += dt
	w.steps++
	return nil
}

func (w *World) Elapsed() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.elapsed
}

func (w *World) Steps() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.steps
}

func (w *World) Bodies() []protoio.BodyID {
	w.mu.RLock()
	defer w.mu.RUnlock()

	ids := make([]protoio.BodyID, 0, len(w.bodies))
	for id := range w.bodies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
