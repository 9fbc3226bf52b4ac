package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"vestibular/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeEpisode(e model.Episode) ([]byte, error) {
	if err := checkEpisodeShape(e); err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

func DecodeEpisode(data []byte) (model.Episode, error) {
	var episode model.Episode
	if err := json.Unmarshal(data, &episode); err != nil {
		return model.Episode{}, err
	}
	if err := checkVersion(episode.VersionedRecord); err != nil {
		return model.Episode{}, err
	}
	if err := checkEpisodeShape(episode); err != nil {
		return model.Episode{}, err
	}
	return episode, nil
}

// checkEpisodeShape requires every channel of every sensor to span exactly
// the episode's eval period.
func checkEpisodeShape(e model.Episode) error {
	if e.ID == "" {
		return errors.New("episode id is required")
	}
	if e.EvalPeriod <= 0 {
		return fmt.Errorf("episode %s: eval period must be > 0", e.ID)
	}
	for _, s := range e.Sensors {
		for c, values := range s.Channels {
			if len(values) != e.EvalPeriod {
				return fmt.Errorf("episode %s sensor %d channel %d: got %d samples want %d", e.ID, s.SensorID, c, len(values), e.EvalPeriod)
			}
		}
	}
	return nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
