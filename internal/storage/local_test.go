package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestNewLocalStoreDefaultPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	store, err := NewLocalStore("")
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}

	want := filepath.Join(tmpDir, configDir, storeFile)
	if store.Path() != want {
		t.Errorf("Path() = %q, want %q", store.Path(), want)
	}
	info, err := os.Stat(filepath.Dir(want))
	if err != nil {
		t.Fatalf("store directory not created: %v", err)
	}
	if info.Mode().Perm() != 0700 {
		t.Errorf("store directory mode = %v, want 0700", info.Mode().Perm())
	}
}

func TestLocalStoreSetAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	ctx := context.Background()

	store, err := NewLocalStore(path)
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}

	if _, found, err := store.Get(ctx, "missing"); err != nil || found {
		t.Fatalf("Get(missing) = found %v, err %v", found, err)
	}

	if err := store.Set(ctx, "greeting", []byte(`{"hello":"world"}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("store file not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("store file mode = %v, want 0600", info.Mode().Perm())
	}

	reopened, err := NewLocalStore(path)
	if err != nil {
		t.Fatalf("NewLocalStore() reopen error = %v", err)
	}
	value, found, err := reopened.Get(ctx, "greeting")
	if err != nil || !found {
		t.Fatalf("Get(greeting) after reopen = found %v, err %v", found, err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(value, &decoded); err != nil {
		t.Fatalf("stored value is not JSON: %v", err)
	}
	if decoded["hello"] != "world" {
		t.Errorf("stored value = %v", decoded)
	}
}

func TestLocalStoreSetFailureKeepsMemoryInSync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	ctx := context.Background()

	store, err := NewLocalStore(path)
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}
	if err := store.Set(ctx, "kept", []byte(`"old"`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// a directory in place of the file makes the final rename fail
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(path, "blocker"), 0700); err != nil {
		t.Fatal(err)
	}

	if err := store.Set(ctx, "kept", []byte(`"new"`)); err == nil {
		t.Fatal("Set() expected an error")
	}
	if value, found, _ := store.Get(ctx, "kept"); !found || string(value) != `"old"` {
		t.Errorf("Get(kept) = %s, %v, want the previous value", value, found)
	}

	if err := store.Set(ctx, "fresh", []byte(`1`)); err == nil {
		t.Fatal("Set() expected an error")
	}
	if _, found, _ := store.Get(ctx, "fresh"); found {
		t.Error("failed Set() left a new key in memory")
	}
}

func TestLocalStoreRejectsInvalidJSON(t *testing.T) {
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}

	if err := store.Set(context.Background(), "broken", []byte("{nope")); err == nil {
		t.Error("Set() with invalid JSON should fail")
	}
}

func TestLocalStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := NewLocalStore(path); err == nil {
		t.Error("NewLocalStore() should fail on a corrupt store file")
	}
}

func TestLocalStoreGetReturnsCopy(t *testing.T) {
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}
	ctx := context.Background()
	if err := store.Set(ctx, "k", []byte(`"value"`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	first, _, _ := store.Get(ctx, "k")
	first[1] = 'X'
	second, _, _ := store.Get(ctx, "k")
	if string(second) != `"value"` {
		t.Errorf("Get() exposed internal state: %s", second)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, found, _ := store.Get(ctx, "k"); found {
		t.Fatal("empty store should not contain k")
	}
	if err := store.Set(ctx, "k", []byte(`1`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value, found, err := store.Get(ctx, "k")
	if err != nil || !found || string(value) != "1" {
		t.Errorf("Get(k) = %q, %v, %v", value, found, err)
	}
}
