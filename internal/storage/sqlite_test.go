//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSQLiteStoreEpisodeRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "vestibular.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	input := testEpisode("ep-1")
	if err := store.SaveEpisode(ctx, input); err != nil {
		t.Fatalf("save episode: %v", err)
	}

	output, ok, err := store.GetEpisode(ctx, input.ID)
	if err != nil {
		t.Fatalf("get episode: %v", err)
	}
	if !ok {
		t.Fatalf("expected episode %s", input.ID)
	}
	if !reflect.DeepEqual(input, output) {
		t.Fatalf("unexpected episode loaded: %+v", output)
	}

	if _, ok, err := store.GetEpisode(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing episode, ok=%t err=%v", ok, err)
	}
}

func TestSQLiteStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "vestibular.db"))
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	for _, id := range []string{"a", "b", "c"} {
		if err := store.SaveEpisode(ctx, testEpisode(id)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	all, err := store.ListEpisodes(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Fatalf("unexpected order: %+v", all)
	}

	limited, err := store.ListEpisodes(ctx, 1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "c" {
		t.Fatalf("unexpected limited list: %+v", limited)
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "vestibular.db"))
	if err := store.SaveEpisode(context.Background(), testEpisode("x")); err == nil {
		t.Fatal("expected uninitialized store error")
	}
	if err := NewSQLiteStore("").Init(context.Background()); err == nil {
		t.Fatal("expected missing path error")
	}
}
