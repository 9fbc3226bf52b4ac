package storage

import (
	"context"
	"errors"
	"sync"

	"vestibular/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	episodes    map[string]model.Episode
	order       []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.episodes = make(map[string]model.Episode)
	s.order = nil
	return nil
}

func (s *MemoryStore) SaveEpisode(_ context.Context, episode model.Episode) error {
	if err := checkEpisodeShape(episode); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	if _, exists := s.episodes[episode.ID]; !exists {
		s.order = append(s.order, episode.ID)
	}
	s.episodes[episode.ID] = cloneEpisode(episode)
	return nil
}

func (s *MemoryStore) GetEpisode(_ context.Context, id string) (model.Episode, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	episode, ok := s.episodes[id]
	if !ok {
		return model.Episode{}, false, nil
	}
	return cloneEpisode(episode), true, nil
}

func (s *MemoryStore) ListEpisodes(_ context.Context, limit int) ([]model.Episode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Episode, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, cloneEpisode(s.episodes[s.order[i]]))
	}
	return out, nil
}

func cloneEpisode(e model.Episode) model.Episode {
	sensors := make([]model.SensorSeries, len(e.Sensors))
	for i, s := range e.Sensors {
		sensors[i] = s
		for c := range s.Channels {
			sensors[i].Channels[c] = append([]float64(nil), s.Channels[c]...)
		}
	}
	e.Sensors = sensors
	return e
}
