package storage

import (
	"context"
	"testing"

	"vestibular/internal/model"
)

func testEpisode(id string) model.Episode {
	return model.Episode{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		ID:              id,
		EvalPeriod:      2,
		DT:              0.01,
		CreatedAtUTC:    "2026-01-02T03:04:05Z",
		Sensors: []model.SensorSeries{{
			SensorID:    7,
			BodyID:      1,
			RoutePolicy: "first_bound",
			Channels: [4][]float64{
				{1, 0},
				{0, 0.7071},
				{0, 0},
				{0, 0.7071},
			},
		}},
	}
}

func TestMemoryStoreEpisodeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := testEpisode("ep-1")
	if err := store.SaveEpisode(ctx, input); err != nil {
		t.Fatalf("save episode: %v", err)
	}

	output, ok, err := store.GetEpisode(ctx, "ep-1")
	if err != nil {
		t.Fatalf("get episode: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted episode")
	}
	if len(output.Sensors) != 1 || output.Sensors[0].Channels[1][1] != 0.7071 {
		t.Fatalf("unexpected episode: %+v", output)
	}

	output.Sensors[0].Channels[0][0] = 42
	again, _, _ := store.GetEpisode(ctx, "ep-1")
	if again.Sensors[0].Channels[0][0] != 1 {
		t.Fatal("stored episode shares memory with caller")
	}

	if _, ok, err := store.GetEpisode(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing episode, ok=%t err=%v", ok, err)
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, id := range []string{"a", "b", "c"} {
		if err := store.SaveEpisode(ctx, testEpisode(id)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	// Overwriting keeps the original position.
	if err := store.SaveEpisode(ctx, testEpisode("a")); err != nil {
		t.Fatalf("resave a: %v", err)
	}

	all, err := store.ListEpisodes(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Fatalf("unexpected order: %+v", all)
	}

	limited, err := store.ListEpisodes(ctx, 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 || limited[1].ID != "b" {
		t.Fatalf("unexpected limited list: %+v", limited)
	}
}

func TestMemoryStoreRejectsBadEpisodes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.SaveEpisode(ctx, testEpisode("early")); err == nil {
		t.Fatal("expected error before init")
	}
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	ragged := testEpisode("ragged")
	ragged.Sensors[0].Channels[2] = []float64{0}
	if err := store.SaveEpisode(ctx, ragged); err == nil {
		t.Fatal("expected shape error")
	}
	if err := store.SaveEpisode(ctx, testEpisode("")); err == nil {
		t.Fatal("expected id error")
	}
}
