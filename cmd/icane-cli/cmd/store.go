package cmd

import (
	"os"

	"icane/internal/adapters/sqlite"
)

// openStore opens the configured database, creating it if needed.
func openStore() (*sqlite.Store, error) {
	store := sqlite.NewStore()
	if err := store.Open(GetConfig().Database.Path); err != nil {
		return nil, err
	}
	return store, nil
}

// openIndex opens the configured database only if it already exists.
func openIndex() (*sqlite.Store, bool, error) {
	if _, err := os.Stat(GetConfig().Database.Path); err != nil {
		return nil, false, nil
	}
	store, err := openStore()
	if err != nil {
		return nil, false, err
	}
	return store, true, nil
}
