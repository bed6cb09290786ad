package main

import (
	"context"
	"fmt"
	"strings"

	"ammosync/internal/store"
	"ammosync/internal/store/memory"
	"ammosync/internal/store/postgres"
	"ammosync/internal/store/sqlite"
)

// openDB picks a backend from the DSN scheme.
func openDB(ctx context.Context, dsn string) (store.Store, error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		client, err := sqlite.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return client, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		client, err := postgres.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return client, nil
	case dsn == "memory://":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported database dsn %q: expected sqlite://, postgres:// or memory://", dsn)
	}
}
