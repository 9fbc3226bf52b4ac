package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	protoio "vestibular/internal/io"
)

const (
	DefaultEvalPeriod = 500
	DefaultDT         = 0.05
	DefaultLogLevel   = "info"
	DefaultDBPath     = "vestibular.db"
)

// Episode describes one simulated episode: the bodies in the world, the
// vestibular sensors attached to them and the neurons each sensor drives.
type Episode struct {
	EvalPeriod int      `yaml:"eval_period" json:"eval_period"`
	DT         float64  `yaml:"dt" json:"dt"`
	LogLevel   string   `yaml:"log_level" json:"log_level"`
	Store      string   `yaml:"store" json:"store"`
	DBPath     string   `yaml:"db_path" json:"db_path"`
	Bodies     []Body   `yaml:"bodies" json:"bodies"`
	Sensors    []Sensor `yaml:"sensors" json:"sensors"`
}

type Body struct {
	ID int `yaml:"id" json:"id"`
	// Orientation is w, x, y, z. Empty means identity.
	Orientation []float64 `yaml:"orientation,omitempty" json:"orientation,omitempty"`
	// AngularVelocity is the constant body-frame rate in rad/s.
	AngularVelocity []float64 `yaml:"angular_velocity,omitempty" json:"angular_velocity,omitempty"`
}

type Sensor struct {
	ID          int      `yaml:"id" json:"id"`
	Body        int      `yaml:"body" json:"body"`
	RoutePolicy string   `yaml:"route_policy,omitempty" json:"route_policy,omitempty"`
	Neurons     []Neuron `yaml:"neurons,omitempty" json:"neurons,omitempty"`
}

type Neuron struct {
	ID      string `yaml:"id" json:"id"`
	Channel int    `yaml:"channel" json:"channel"`
}

// Load reads a YAML (or JSON) episode file.
func Load(path string) (Episode, error) {
	f, err := os.Open(path)
	if err != nil {
		return Episode{}, err
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return Episode{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Parse(r io.Reader) (Episode, error) {
	var cfg Episode
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Episode{}, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Episode{}, err
	}
	return cfg, nil
}

func (c *Episode) ApplyDefaults() {
	if c.EvalPeriod == 0 {
		c.EvalPeriod = DefaultEvalPeriod
	}
	if c.DT == 0 {
		c.DT = DefaultDT
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.DBPath == "" {
		c.DBPath = DefaultDBPath
	}
}

func (c Episode) Validate() error {
	if c.EvalPeriod <= 0 {
		return fmt.Errorf("eval_period must be > 0: %d", c.EvalPeriod)
	}
	if c.DT <= 0 {
		return fmt.Errorf("dt must be > 0: %v", c.DT)
	}
	if len(c.Sensors) == 0 {
		return errors.New("at least one sensor is required")
	}

	bodies := make(map[int]struct{}, len(c.Bodies))
	for _, b := range c.Bodies {
		if _, dup := bodies[b.ID]; dup {
			return fmt.Errorf("duplicate body id: %d", b.ID)
		}
		bodies[b.ID] = struct{}{}
		if n := len(b.Orientation); n != 0 && n != 4 {
			return fmt.Errorf("body %d: orientation needs 4 values (w, x, y, z), got %d", b.ID, n)
		}
		if n := len(b.AngularVelocity); n != 0 && n != 3 {
			return fmt.Errorf("body %d: angular_velocity needs 3 values, got %d", b.ID, n)
		}
	}

	sensors := make(map[int]struct{}, len(c.Sensors))
	neurons := make(map[string]struct{})
	for _, s := range c.Sensors {
		if _, dup := sensors[s.ID]; dup {
			return fmt.Errorf("duplicate sensor id: %d", s.ID)
		}
		sensors[s.ID] = struct{}{}
		if _, ok := bodies[s.Body]; !ok {
			return fmt.Errorf("sensor %d: unknown body %d", s.ID, s.Body)
		}
		if _, err := protoio.ParseRoutePolicy(s.RoutePolicy); err != nil {
			return fmt.Errorf("sensor %d: %w", s.ID, err)
		}
		for _, n := range s.Neurons {
			if n.ID == "" {
				return fmt.Errorf("sensor %d: neuron id is required", s.ID)
			}
			if _, dup := neurons[n.ID]; dup {
				return fmt.Errorf("duplicate neuron id: %s", n.ID)
			}
			neurons[n.ID] = struct{}{}
			if !protoio.Channel(n.Channel).Valid() {
				return fmt.Errorf("sensor %d neuron %s: %w: %d", s.ID, n.ID, protoio.ErrInvalidChannel, n.Channel)
			}
		}
	}
	return nil
}
