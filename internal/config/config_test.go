package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/openhwmon/nct7904-go/internal/config"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	store := config.NewStore(t.TempDir())
	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != config.Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := config.NewStore(t.TempDir())
	cfg := config.Default()
	cfg.ListenAddr = ":9999"
	cfg.ChipAddr = 0x2E
	cfg.PollIntervalMS = 500
	cfg.MDNS = false

	if err := store.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Errorf("got %+v, want %+v", got, cfg)
	}
}

func TestLoadCorruptFileYieldsDefaults(t *testing.T) {
	dir := t.TempDir()
	store := config.NewStore(dir)
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != config.Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadClampsPollInterval(t *testing.T) {
	dir := t.TempDir()
	store := config.NewStore(dir)
	if err := os.WriteFile(store.Path(), []byte(`{"poll_interval_ms": -5}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PollIntervalMS != config.Default().PollIntervalMS {
		t.Errorf("PollIntervalMS = %d, want default", cfg.PollIntervalMS)
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store := config.NewStore(dir)
	if err := store.Save(config.Default()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temp file %q left behind", e.Name())
		}
	}
}

func TestWatchDeliversReload(t *testing.T) {
	dir := t.TempDir()
	store := config.NewStore(dir)
	if err := store.Save(config.Default()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan config.Config, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = store.Watch(ctx, func(cfg config.Config) {
			changed <- cfg
		})
	}()

	// Let the watcher attach before we touch the file.
	time.Sleep(50 * time.Millisecond)

	cfg := config.Default()
	cfg.PollIntervalMS = 750
	if err := store.Save(cfg); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		if got.PollIntervalMS != 750 {
			t.Errorf("PollIntervalMS = %d, want 750", got.PollIntervalMS)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no reload delivered after file change")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not stop on cancel")
	}
}
