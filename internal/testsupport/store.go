package testsupport

import (
	"context"
	"testing"

	"tubelens/internal/config"
	"tubelens/internal/logging"
	"tubelens/internal/settings"
)

// MustOpenStore opens a settings.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *settings.Store {
	t.Helper()

	store, err := settings.Open(cfg.SettingsDBPath(), logging.NewNop())
	if err != nil {
		t.Fatalf("settings.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustSet stores a setting value for tests.
func MustSet(t testing.TB, store *settings.Store, key, value string) {
	t.Helper()

	if err := store.Set(context.Background(), key, value); err != nil {
		t.Fatalf("store.Set(%s): %v", key, err)
	}
}
