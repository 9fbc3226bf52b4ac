package vestibular

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"vestibular/internal/config"
	"vestibular/internal/episode"
	"vestibular/internal/model"
	"vestibular/internal/orientation"
	"vestibular/internal/protocol"
	"vestibular/internal/storage"
)

const defaultDBPath = config.DefaultDBPath

type Options struct {
	StoreKind string
	DBPath    string
	Logger    *zap.Logger
}

type Client struct {
	store storage.Store
	log   *zap.Logger

	initOnce sync.Once
	initErr  error
}

type RunSummary struct {
	EpisodeID  string
	Steps      int
	SensorIDs  []int
	NeuronLast map[string]float64
}

type EpisodeItem struct {
	EpisodeID    string
	CreatedAtUTC string
	EvalPeriod   int
	DT           float64
	SensorIDs    []int
}

// Frame is one decoded time step with its Euler angles in degrees.
type Frame struct {
	T                float64
	W, X, Y, Z       float64
	Roll, Pitch, Yaw float64
}

type SensorReport struct {
	SensorID int
	Frames   []Frame
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{store: store, log: log}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	c.initOnce.Do(func() {
		c.initErr = c.store.Init(ctx)
	})
	return c.initErr
}

// Run simulates one episode described by cfg and writes one report line per
// sensor to out.
func (c *Client) Run(ctx context.Context, cfg config.Episode, out io.Writer) (RunSummary, error) {
	if err := c.Init(ctx); err != nil {
		return RunSummary{}, err
	}
	cfg.ApplyDefaults()
	asm, err := episode.Build(cfg)
	if err != nil {
		return RunSummary{}, err
	}
	runner, err := episode.NewRunner(episode.Config{
		World:       asm.World,
		Attachments: asm.Attachments,
		EvalPeriod:  cfg.EvalPeriod,
		DT:          cfg.DT,
		Store:       c.store,
		Logger:      c.log,
	})
	if err != nil {
		return RunSummary{}, err
	}

	result, err := runner.Run(ctx, out)
	if err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{
		EpisodeID:  result.EpisodeID,
		Steps:      result.Steps,
		NeuronLast: make(map[string]float64, len(asm.Neurons)),
	}
	for _, a := range asm.Attachments {
		summary.SensorIDs = append(summary.SensorIDs, a.Sensor.ID())
	}
	for id, n := range asm.Neurons {
		if n.Updates() > 0 {
			summary.NeuronLast[id] = n.Value()
		}
	}
	return summary, nil
}

func (c *Client) Episodes(ctx context.Context, limit int) ([]EpisodeItem, error) {
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	episodes, err := c.store.ListEpisodes(ctx, limit)
	if err != nil {
		return nil, err
	}
	items := make([]EpisodeItem, 0, len(episodes))
	for _, e := range episodes {
		item := EpisodeItem{
			EpisodeID:    e.ID,
			CreatedAtUTC: e.CreatedAtUTC,
			EvalPeriod:   e.EvalPeriod,
			DT:           e.DT,
		}
		for _, s := range e.Sensors {
			item.SensorIDs = append(item.SensorIDs, s.SensorID)
		}
		items = append(items, item)
	}
	return items, nil
}

// Episode loads a persisted episode and renders its sensors as reports.
func (c *Client) Episode(ctx context.Context, id string) ([]SensorReport, error) {
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	e, ok, err := c.store.GetEpisode(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("episode not found: %s", id)
	}
	reports := make([]SensorReport, 0, len(e.Sensors))
	for _, s := range e.Sensors {
		reports = append(reports, reportFrames(s.SensorID, seriesReport(s), e.DT))
	}
	return reports, nil
}

// DecodeReports parses protocol lines from r. dt scales the step index into
// the Frame time; pass 0 to leave T as the step index.
func DecodeReports(r io.Reader, dt float64) ([]SensorReport, error) {
	dec := protocol.NewDecoder(r)
	var reports []SensorReport
	for {
		report, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return reports, nil
		}
		if err != nil {
			return nil, err
		}
		reports = append(reports, reportFrames(report.SensorID, report, dt))
	}
}

func seriesReport(s model.SensorSeries) protocol.Report {
	return protocol.Report{SensorID: s.SensorID, Channels: s.Channels}
}

func reportFrames(sensorID int, frames protocol.Frames, dt float64) SensorReport {
	out := SensorReport{SensorID: sensorID, Frames: make([]Frame, frames.Len())}
	for t := range out.Frames {
		q := frames.Frame(t)
		e := orientation.ToEuler(q).Degrees()
		ts := float64(t)
		if dt > 0 {
			ts = float64(t+1) * dt
		}
		out.Frames[t] = Frame{
			T: ts,
			W: q.Real, X: q.Imag, Y: q.Jmag, Z: q.Kmag,
			Roll: e.Roll, Pitch: e.Pitch, Yaw: e.Yaw,
		}
	}
	return out
}
