package storage

import (
	"context"

	"vestibular/internal/model"
)

// Store persists completed episodes.
type Store interface {
	Init(ctx context.Context) error
	SaveEpisode(ctx context.Context, episode model.Episode) error
	GetEpisode(ctx context.Context, id string) (model.Episode, bool, error)
	// ListEpisodes returns up to limit episodes, most recently saved first.
	// A limit <= 0 returns all of them.
	ListEpisodes(ctx context.Context, limit int) ([]model.Episode, error)
}
