package storage

import "testing"

func TestNewStoreMemory(t *testing.T) {
	store, err := NewStore("memory", "")
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	if store == nil {
		t.Fatal("expected non-nil store")
	}
	if err := CloseIfSupported(store); err != nil {
		t.Fatalf("close memory store: %v", err)
	}
}

func TestNewStoreUnsupported(t *testing.T) {
	_, err := NewStore("postgres", "")
	if err == nil {
		t.Fatal("expected unsupported store error")
	}
}

func TestDefaultStoreKindResolves(t *testing.T) {
	store, err := NewStore(DefaultStoreKind(), "")
	if DefaultStoreKind() == "memory" && err != nil {
		t.Fatalf("default store: %v", err)
	}
	if err == nil && store == nil {
		t.Fatal("expected non-nil store")
	}
}
