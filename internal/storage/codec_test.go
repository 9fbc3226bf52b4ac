package storage

import (
	"errors"
	"reflect"
	"testing"
)

const episodeFixtureV1 = `{
	"schema_version": 1,
	"codec_version": 1,
	"id": "episode-minimal-1",
	"eval_period": 1,
	"dt": 0.01,
	"created_at_utc": "2026-01-02T03:04:05Z",
	"sensors": [
		{"sensor_id": 0, "body_id": 0, "route_policy": "first_bound", "channels": [[1], [0], [0], [0]]}
	]
}`

func TestDecodeEpisodeFixture(t *testing.T) {
	episode, err := DecodeEpisode([]byte(episodeFixtureV1))
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	if episode.ID != "episode-minimal-1" || episode.EvalPeriod != 1 {
		t.Fatalf("unexpected episode: %+v", episode)
	}
	if got := episode.Sensors[0].Channels[0]; len(got) != 1 || got[0] != 1 {
		t.Fatalf("unexpected w channel: %v", got)
	}
}

func TestEpisodeCodecRoundTrip(t *testing.T) {
	input := testEpisode("ep-rt")
	data, err := EncodeEpisode(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	output, err := DecodeEpisode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(input, output) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", input, output)
	}
}

func TestDecodeEpisodeVersionMismatch(t *testing.T) {
	episode := testEpisode("ep-v")
	episode.SchemaVersion = 99
	data, err := EncodeEpisode(episode)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeEpisode(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got: %v", err)
	}
}

func TestEncodeEpisodeRejectsShortChannels(t *testing.T) {
	episode := testEpisode("ep-short")
	episode.EvalPeriod = 3
	if _, err := EncodeEpisode(episode); err == nil {
		t.Fatal("expected shape error")
	}
}
