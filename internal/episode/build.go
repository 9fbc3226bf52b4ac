package episode

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/num/quat"

	"vestibular/internal/config"
	protoio "vestibular/internal/io"
	"vestibular/internal/nn"
	"vestibular/internal/orientation"
	"vestibular/internal/physics"
)

// Attachment pairs a sensor with the body it polls.
type Attachment struct {
	Sensor *protoio.VestibularSensor
	Body   protoio.BodyID
}

// Assembly is the wired-up episode: a world, its sensors and the sensor
// neurons they drive.
type Assembly struct {
	World       *physics.World
	Attachments []Attachment
	Neurons     map[string]*nn.SensorNeuron
}

// Build constructs a fresh world, sensors and neurons from cfg. Attachments
// are ordered by sensor id.
func Build(cfg config.Episode) (*Assembly, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	world := physics.NewWorld()
	for _, b := range cfg.Bodies {
		body := physics.Body{ID: protoio.BodyID(b.ID), Orientation: orientation.Identity}
		if len(b.Orientation) == 4 {
			body.Orientation = quat.Number{Real: b.Orientation[0], Imag: b.Orientation[1], Jmag: b.Orientation[2], Kmag: b.Orientation[3]}
		}
		copy(body.AngularVelocity[:], b.AngularVelocity)
		if err := world.AddBody(body); err != nil {
			return nil, err
		}
	}

	asm := &Assembly{
		World:   world,
		Neurons: make(map[string]*nn.SensorNeuron),
	}
	for _, sc := range cfg.Sensors {
		policy, err := protoio.ParseRoutePolicy(sc.RoutePolicy)
		if err != nil {
			return nil, err
		}
		sensor, err := protoio.NewVestibularSensor(sc.ID, cfg.EvalPeriod, protoio.WithRoutePolicy(policy))
		if err != nil {
			return nil, err
		}
		for _, ncfg := range sc.Neurons {
			neuron, err := nn.NewSensorNeuron(ncfg.ID, ncfg.Channel)
			if err != nil {
				return nil, err
			}
			if err := sensor.Connect(neuron); err != nil {
				return nil, fmt.Errorf("sensor %d: %w", sc.ID, err)
			}
			asm.Neurons[ncfg.ID] = neuron
		}
		asm.Attachments = append(asm.Attachments, Attachment{Sensor: sensor, Body: protoio.BodyID(sc.Body)})
	}
	sort.Slice(asm.Attachments, func(i, j int) bool {
		return asm.Attachments[i].Sensor.ID() < asm.Attachments[j].Sensor.ID()
	})
	return asm, nil
}
