package episode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	protoio "vestibular/internal/io"
	"vestibular/internal/model"
	"vestibular/internal/storage"
)

// World is the engine a runner drives: an orientation lookup that can be
// advanced in time.
type World interface {
	protoio.Engine
	Step(dt float64) error
}

type Config struct {
	World       World
	Attachments []Attachment
	EvalPeriod  int
	DT          float64
	// Store is optional. When set, every completed episode is saved.
	Store  storage.Store
	Logger *zap.Logger
}

type Result struct {
	EpisodeID string
	Steps     int
	Episode   model.Episode
}

// Runner executes one episode. Each step it advances the world, polls every
// sensor and then routes each sensor's sample to its neurons. After the last
// step every sensor writes its report line, in attachment order.
type Runner struct {
	cfg Config
	log *zap.Logger
	now func() time.Time
}

func NewRunner(cfg Config) (*Runner, error) {
	if cfg.World == nil {
		return nil, errors.New("world is required")
	}
	if cfg.EvalPeriod <= 0 {
		return nil, fmt.Errorf("%w: %d", protoio.ErrInvalidEvalPeriod, cfg.EvalPeriod)
	}
	if cfg.DT <= 0 {
		return nil, fmt.Errorf("dt must be > 0: %v", cfg.DT)
	}
	if len(cfg.Attachments) == 0 {
		return nil, errors.New("at least one sensor attachment is required")
	}
	for _, a := range cfg.Attachments {
		if a.Sensor == nil {
			return nil, errors.New("attachment sensor is required")
		}
		if a.Sensor.EvalPeriod() < cfg.EvalPeriod {
			return nil, fmt.Errorf("sensor %d sized for %d steps, episode needs %d", a.Sensor.ID(), a.Sensor.EvalPeriod(), cfg.EvalPeriod)
		}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cfg: cfg, log: log, now: time.Now}, nil
}

func (r *Runner) Run(ctx context.Context, out io.Writer) (Result, error) {
	episodeID := uuid.NewString()
	log := r.log.With(zap.String("episode_id", episodeID))
	log.Info("episode started",
		zap.Int("eval_period", r.cfg.EvalPeriod),
		zap.Float64("dt", r.cfg.DT),
		zap.Int("sensors", len(r.cfg.Attachments)),
	)
	started := r.now()

	for t := 0; t < r.cfg.EvalPeriod; t++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if err := r.cfg.World.Step(r.cfg.DT); err != nil {
			return Result{}, fmt.Errorf("step %d: %w", t, err)
		}
		for _, a := range r.cfg.Attachments {
			if err := a.Sensor.Poll(r.cfg.World, a.Body, t); err != nil {
				return Result{}, fmt.Errorf("step %d: %w", t, err)
			}
		}
		for _, a := range r.cfg.Attachments {
			if err := a.Sensor.UpdateSensorNeurons(t); err != nil {
				return Result{}, fmt.Errorf("step %d: %w", t, err)
			}
		}
		if ce := log.Check(zap.DebugLevel, "step complete"); ce != nil {
			ce.Write(zap.Int("t", t))
		}
	}

	for _, a := range r.cfg.Attachments {
		if err := a.Sensor.Write(out, r.cfg.EvalPeriod); err != nil {
			return Result{}, err
		}
	}

	record := r.record(episodeID, started)
	if r.cfg.Store != nil {
		if err := r.cfg.Store.SaveEpisode(ctx, record); err != nil {
			return Result{}, fmt.Errorf("save episode %s: %w", episodeID, err)
		}
		log.Info("episode persisted")
	}

	log.Info("episode finished", zap.Duration("elapsed", r.now().Sub(started)))
	return Result{EpisodeID: episodeID, Steps: r.cfg.EvalPeriod, Episode: record}, nil
}

func (r *Runner) record(id string, started time.Time) model.Episode {
	episode := model.Episode{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:           id,
		EvalPeriod:   r.cfg.EvalPeriod,
		DT:           r.cfg.DT,
		CreatedAtUTC: started.UTC().Format(time.RFC3339),
		Sensors:      make([]model.SensorSeries, 0, len(r.cfg.Attachments)),
	}
	for _, a := range r.cfg.Attachments {
		episode.Sensors = append(episode.Sensors, model.SensorSeries{
			SensorID:    a.Sensor.ID(),
			BodyID:      int(a.Body),
			RoutePolicy: a.Sensor.RoutePolicy().String(),
			Channels:    a.Sensor.Channels(r.cfg.EvalPeriod),
		})
	}
	return episode
}
